package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Validator wire names. Messages are google.protobuf.Struct so clients in any
// language can call the service without generated stubs.
const (
	ServiceName             = "valkeeper.v1.Validator"
	ValidateMethod          = "/" + ServiceName + "/Validate"
	ValidateBatchMethod     = "/" + ServiceName + "/ValidateBatch"
	validateMethodName      = "Validate"
	validateBatchMethodName = "ValidateBatch"
)

// ValidatorServer is the server API for the Validator service.
type ValidatorServer interface {
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateBatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterValidatorServer registers srv on s.
func RegisterValidatorServer(s grpc.ServiceRegistrar, srv ValidatorServer) {
	s.RegisterService(&validatorServiceDesc, srv)
}

var validatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ValidatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: validateMethodName, Handler: validateHandler},
		{MethodName: validateBatchMethodName, Handler: validateBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "valkeeper/v1/validator.proto",
}

func validateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ValidatorServer).Validate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ValidateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ValidatorServer).Validate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func validateBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ValidatorServer).ValidateBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ValidateBatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ValidatorServer).ValidateBatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ValidatorClient calls the Validator service.
type ValidatorClient struct {
	cc grpc.ClientConnInterface
}

// NewValidatorClient wraps an established connection.
func NewValidatorClient(cc grpc.ClientConnInterface) *ValidatorClient {
	return &ValidatorClient{cc: cc}
}

// Validate calls Validator/Validate.
func (c *ValidatorClient) Validate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ValidateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateBatch calls Validator/ValidateBatch.
func (c *ValidatorClient) ValidateBatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ValidateBatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
