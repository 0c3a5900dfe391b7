// Package api provides the gRPC validation service for ValKeeper.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/valkeeper/internal/core/config"
	"github.com/solatis/valkeeper/internal/core/db"
	"github.com/solatis/valkeeper/internal/rules"
	"github.com/solatis/valkeeper/internal/types"
)

// ReportSaver persists validation outcomes. *db.ReportStore implements it.
type ReportSaver interface {
	Save(ctx context.Context, report db.StoredReport) error
}

// ValidatorService implements the Validator gRPC service.
// Thin orchestration layer delegating to the rules engine and report store.
type ValidatorService struct {
	engine *rules.Engine
	store  ReportSaver
	cfg    *config.ServiceConfig
	log    *slog.Logger
}

// NewValidatorService creates service instance with dependencies.
// store may be nil, in which case reports are not persisted.
func NewValidatorService(engine *rules.Engine, store ReportSaver, cfg *config.ServiceConfig, log *slog.Logger) (*ValidatorService, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ValidatorService{engine: engine, store: store, cfg: cfg, log: log}, nil
}

// Validate checks one document.
//
// Request:  {"schema": "<name>", "document": {...}}
// Response: {"valid": bool, "report_id": "<uuid>", "violations": [...]}
func (s *ValidatorService) Validate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	schema, err := schemaName(req)
	if err != nil {
		return nil, toStatus(err)
	}
	doc, ok := req.GetFields()["document"]
	if !ok {
		return nil, toStatus(fmt.Errorf("%w: document is required", errBadRequest))
	}

	report, err := s.engine.Validate(schema, types.FromProto(doc))
	if err != nil {
		return nil, toStatus(err)
	}

	result, err := s.record(ctx, schema, report)
	if err != nil {
		return nil, toStatus(err)
	}
	return result, nil
}

// ValidateBatch checks documents in order against one schema.
//
// Request:  {"schema": "<name>", "documents": [{...}, ...]}
// Response: {"results": [<Validate response>, ...]}
func (s *ValidatorService) ValidateBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	schema, err := schemaName(req)
	if err != nil {
		return nil, toStatus(err)
	}
	list := req.GetFields()["documents"].GetListValue()
	if list == nil {
		return nil, toStatus(fmt.Errorf("%w: documents must be a list", errBadRequest))
	}

	// Reject batches exceeding max size
	// Prevents request timeouts and memory exhaustion
	if len(list.Values) > s.cfg.MaxBatchSize {
		return nil, toStatus(fmt.Errorf("%w: %d documents, maximum is %d", types.ErrBatchTooLarge, len(list.Values), s.cfg.MaxBatchSize))
	}

	docs := make([]types.Value, len(list.Values))
	for i, v := range list.Values {
		docs[i] = types.FromProto(v)
	}

	reports, err := s.engine.ValidateBatch(ctx, schema, docs)
	if err != nil {
		return nil, toStatus(err)
	}

	results := make([]any, len(reports))
	for i, report := range reports {
		result, err := s.record(ctx, schema, report)
		if err != nil {
			return nil, toStatus(err)
		}
		results[i] = result.AsMap()
	}

	resp, err := structpb.NewStruct(map[string]any{"results": results})
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

// record persists the report when a store is configured and renders the
// response message.
func (s *ValidatorService) record(ctx context.Context, schema string, report rules.Report) (*structpb.Struct, error) {
	stored := db.NewStoredReport(schema, report)

	fields := map[string]any{
		"valid":      stored.Valid,
		"violations": violationsToAny(stored.Violations),
	}

	if s.store != nil {
		if err := s.store.Save(ctx, stored); err != nil {
			return nil, err
		}
		fields["report_id"] = string(stored.ID)
	}

	s.log.DebugContext(ctx, "document validated",
		slog.String("schema", schema),
		slog.Bool("valid", stored.Valid),
		slog.Int("violations", len(stored.Violations)),
	)

	return structpb.NewStruct(fields)
}

func schemaName(req *structpb.Struct) (string, error) {
	name := req.GetFields()["schema"].GetStringValue()
	if name == "" {
		return "", fmt.Errorf("%w: schema is required", errBadRequest)
	}
	return name, nil
}

func violationsToAny(violations []db.StoredViolation) []any {
	out := make([]any, len(violations))
	for i, v := range violations {
		operands := make([]any, len(v.Operands))
		for j, o := range v.Operands {
			operands[j] = o
		}
		out[i] = map[string]any{
			"kind":            v.Kind,
			"field":           v.Field,
			"operands":        operands,
			"message":         v.Message,
			"translation_key": v.TranslationKey,
		}
	}
	return out
}
