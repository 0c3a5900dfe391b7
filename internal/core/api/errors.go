package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/valkeeper/internal/types"
)

// toStatus maps domain errors onto gRPC status codes.
// Unknown schemas map to NOT_FOUND.
// Malformed requests and oversized batches map to INVALID_ARGUMENT.
// Context timeouts map to DEADLINE_EXCEEDED, cancellation to CANCELED.
// Anything else (report store failures) maps to UNAVAILABLE.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, types.ErrSchemaNotFound):
		code = codes.NotFound
	case errors.Is(err, types.ErrBatchTooLarge),
		errors.Is(err, types.ErrUnsupportedType),
		errors.Is(err, errBadRequest):
		code = codes.InvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		code = codes.Unavailable
	}
	return status.Error(code, err.Error())
}

// errBadRequest marks request messages missing required fields.
var errBadRequest = errors.New("bad request")
