package types

import "errors"

// Sentinel errors for valkeeper operations.
var (
	// ErrUnsupportedType indicates a native value has no Value representation.
	ErrUnsupportedType = errors.New("unsupported value type")

	// ErrEmptyPath indicates a field path with no segments.
	ErrEmptyPath = errors.New("field path is empty")

	// ErrEmptySegment indicates a field path with an empty segment (e.g. "a..b").
	ErrEmptySegment = errors.New("field path has an empty segment")

	// ErrPathTooDeep indicates a field path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("field path exceeds maximum depth")

	// ErrFieldNotFound indicates a field path could not be resolved.
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidPattern indicates a string pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid string pattern")

	// ErrInvalidOperand indicates a literal operand is unusable for its schema.
	ErrInvalidOperand = errors.New("invalid operand for schema")

	// ErrInvalidRule indicates a malformed rule expression.
	ErrInvalidRule = errors.New("invalid rule expression")

	// ErrSchemaNotFound indicates no schema is registered under a name.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrDuplicateSchema indicates a schema name is already registered.
	ErrDuplicateSchema = errors.New("schema already registered")

	// ErrBatchTooLarge indicates a batch exceeds the configured maximum.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrReportNotFound indicates no stored report matches an ID.
	ErrReportNotFound = errors.New("report not found")
)
