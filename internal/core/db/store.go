package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/valkeeper/internal/rules"
	"github.com/solatis/valkeeper/internal/types"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// StoredViolation is the persisted form of a rules.Violation.
type StoredViolation struct {
	Kind           string   `json:"kind" yaml:"kind"`
	Field          string   `json:"field,omitempty" yaml:"field,omitempty"`
	Operands       []string `json:"operands,omitempty" yaml:"operands,omitempty"`
	Message        string   `json:"message" yaml:"message"`
	TranslationKey string   `json:"translation_key" yaml:"translation_key"`
}

// StoredReport is one persisted validation outcome.
type StoredReport struct {
	ID         types.ReportID    `json:"id" yaml:"id"`
	Schema     string            `json:"schema" yaml:"schema"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Violations []StoredViolation `json:"violations" yaml:"violations"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
}

// NewStoredReport converts a report into its persisted form with a fresh
// UUIDv7 ID. The creation time is the timestamp embedded in the ID.
func NewStoredReport(schema string, report rules.Report) StoredReport {
	id := types.NewReportID()
	violations := make([]StoredViolation, 0, len(report))
	for _, v := range report {
		sv := StoredViolation{
			Kind:           v.Kind.String(),
			Field:          v.Field,
			Message:        v.Message,
			TranslationKey: v.TranslationKey,
		}
		for _, o := range v.Operands {
			sv.Operands = append(sv.Operands, o.String())
		}
		violations = append(violations, sv)
	}
	return StoredReport{
		ID:         id,
		Schema:     schema,
		Valid:      report.IsEmpty(),
		Violations: violations,
		CreatedAt:  types.ReportIDTime(id).UTC(),
	}
}

// reportRow mirrors the reports table.
type reportRow struct {
	ID             string `db:"report_id"`
	Schema         string `db:"schema_name"`
	Valid          bool   `db:"valid"`
	ViolationCount int    `db:"violation_count"`
	Violations     string `db:"violations"`
	CreatedAtMs    int64  `db:"created_at_ms"`
}

func (r reportRow) toStored() (StoredReport, error) {
	var violations []StoredViolation
	if err := json.Unmarshal([]byte(r.Violations), &violations); err != nil {
		return StoredReport{}, fmt.Errorf("report %s: decode violations: %w", r.ID, err)
	}
	for _, v := range violations {
		if _, ok := rules.ParseViolationKind(v.Kind); !ok {
			return StoredReport{}, fmt.Errorf("report %s: unknown violation kind %q", r.ID, v.Kind)
		}
	}
	return StoredReport{
		ID:         types.ReportID(r.ID),
		Schema:     r.Schema,
		Valid:      r.Valid,
		Violations: violations,
		CreatedAt:  time.UnixMilli(r.CreatedAtMs).UTC(),
	}, nil
}

// ReportStore persists validation reports.
type ReportStore struct {
	db      *sqlx.DB
	queries *Queries
}

// NewReportStore wraps an open, migrated database.
func NewReportStore(db *sqlx.DB) (*ReportStore, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &ReportStore{db: db, queries: queries}, nil
}

// OpenReportStore opens dbURL, applies pending migrations and returns the store.
func OpenReportStore(ctx context.Context, dbURL string) (*ReportStore, error) {
	db, err := Open(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	store, err := NewReportStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

// Save inserts report.
func (s *ReportStore) Save(ctx context.Context, report StoredReport) error {
	violations := report.Violations
	if violations == nil {
		violations = []StoredViolation{}
	}
	encoded, err := json.Marshal(violations)
	if err != nil {
		return fmt.Errorf("encode violations: %w", err)
	}

	_, err = s.queries.Exec(ctx, "insert-report",
		string(report.ID), report.Schema, report.Valid, len(violations),
		string(encoded), report.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

// Get returns the report with id, or ErrReportNotFound.
func (s *ReportStore) Get(ctx context.Context, id types.ReportID) (StoredReport, error) {
	var row reportRow
	if err := s.queries.Get(ctx, "get-report", &row, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredReport{}, fmt.Errorf("%w: %s", types.ErrReportNotFound, id)
		}
		return StoredReport{}, fmt.Errorf("get report %s: %w", id, err)
	}
	return row.toStored()
}

// List returns the newest reports first. An empty schema lists reports for
// every schema.
func (s *ReportStore) List(ctx context.Context, schema string, limit int) ([]StoredReport, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []reportRow
	var err error
	if schema == "" {
		err = s.queries.Select(ctx, "list-all-reports", &rows, limit)
	} else {
		err = s.queries.Select(ctx, "list-reports", &rows, schema, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]StoredReport, 0, len(rows))
	for _, row := range rows {
		r, err := row.toStored()
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Prune deletes reports created before cutoff and returns how many were removed.
func (s *ReportStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.queries.Exec(ctx, "delete-reports-before", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	return res.RowsAffected()
}

// DB exposes the underlying handle for migration commands.
func (s *ReportStore) DB() *sqlx.DB {
	return s.db
}
