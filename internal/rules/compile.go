// internal/rules/compile.go
package rules

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/solatis/valkeeper/internal/types"
)

/*
 * Object schema compilation and validation.
 *
 * An ObjectSchema maps dotted field paths to leaf schemas. Compile validates
 * it once and produces a CompiledSchema ready for repeated evaluation.
 *
 * Compilation workflow:
 *   1. Enforce MaxSchemaFields
 *   2. Parse every field path and every field-path operand (ParsePath)
 *   3. Reject literal Date/DateTime operands that are not valid dates
 *   4. Check Str length bounds and precompile Str patterns
 *   5. Order fields lexicographically
 *
 * Why compile-time validation: a schema with a broken path or pattern fails
 * at registration instead of producing the same spurious violation for every
 * document.
 *
 * Why sorted fields: reports list violations in field order so identical
 * inputs always produce identical reports.
 */

// ObjectSchema composes leaf schemas by field path. Builders return a new
// ObjectSchema; the receiver is never modified.
type ObjectSchema struct {
	fields map[string]Schema
}

// NewObjectSchema returns an empty ObjectSchema.
func NewObjectSchema() ObjectSchema {
	return ObjectSchema{}
}

// Field returns a copy of o with path bound to leaf, replacing any previous
// binding for path.
func (o ObjectSchema) Field(path string, leaf Schema) ObjectSchema {
	fields := make(map[string]Schema, len(o.fields)+1)
	for k, v := range o.fields {
		fields[k] = v
	}
	fields[path] = leaf
	return ObjectSchema{fields: fields}
}

// Leaf returns the schema bound to path.
func (o ObjectSchema) Leaf(path string) (Schema, bool) {
	s, ok := o.fields[path]
	return s, ok
}

// Paths returns the bound field paths in lexicographic order.
func (o ObjectSchema) Paths() []string {
	paths := make([]string, 0, len(o.fields))
	for p := range o.fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (o ObjectSchema) Len() int {
	return len(o.fields)
}

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	lenientNumbers bool
}

// WithLenientNumbers lets numeric fields of another numeric kind pass the
// type check when they convert exactly (see CoerceNumeric).
func WithLenientNumbers() CompileOption {
	return func(c *compileConfig) { c.lenientNumbers = true }
}

// CompiledField is one validated field of a CompiledSchema.
type CompiledField struct {
	Path    string
	Segs    FieldPath
	Schema  Schema
	pattern *regexp.Regexp
}

// CompiledSchema is fully validated and ready for evaluation. It is
// immutable and safe for concurrent use.
type CompiledSchema struct {
	Fields         []CompiledField // ordered by Path
	LenientNumbers bool
}

// Compile validates o and prepares it for evaluation.
func Compile(o ObjectSchema, opts ...CompileOption) (*CompiledSchema, error) {
	var cfg compileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(o.fields) > types.MaxSchemaFields {
		return nil, fmt.Errorf("schema has %d fields, maximum is %d", len(o.fields), types.MaxSchemaFields)
	}

	compiled := &CompiledSchema{
		Fields:         make([]CompiledField, 0, len(o.fields)),
		LenientNumbers: cfg.lenientNumbers,
	}
	for _, path := range o.Paths() {
		cf, err := compileField(path, o.fields[path])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", path, err)
		}
		compiled.Fields = append(compiled.Fields, cf)
	}
	return compiled, nil
}

// compileField validates one leaf and its path.
func compileField(path string, leaf Schema) (CompiledField, error) {
	if leaf == nil {
		return CompiledField{}, fmt.Errorf("%w: nil schema", types.ErrInvalidOperand)
	}
	segs, err := ParsePath(path)
	if err != nil {
		return CompiledField{}, err
	}

	if op, ok := operationOf(leaf); ok {
		if err := validateOperation(leaf.SchemaKind(), op); err != nil {
			return CompiledField{}, err
		}
	}

	cf := CompiledField{Path: path, Segs: segs, Schema: leaf}

	if s, ok := leaf.(StrValidation); ok {
		if s.MinLen < 0 || s.MaxLen < 0 {
			return CompiledField{}, fmt.Errorf("%w: negative length bound", types.ErrInvalidOperand)
		}
		if s.MaxLen > 0 && s.MinLen > s.MaxLen {
			return CompiledField{}, fmt.Errorf("%w: min length %d exceeds max length %d", types.ErrInvalidOperand, s.MinLen, s.MaxLen)
		}
		if s.Pattern != "" {
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return CompiledField{}, fmt.Errorf("%w: %v", types.ErrInvalidPattern, err)
			}
			cf.pattern = re
		}
	}
	return cf, nil
}

// validateOperation checks operand paths and literal operand types.
func validateOperation(kind SchemaKind, op Operation) error {
	for _, o := range op.Operands() {
		if o.IsField() {
			if _, err := ParsePath(o.FieldPath); err != nil {
				return fmt.Errorf("operand %s: %w", o, err)
			}
			continue
		}
		if err := validateLiteral(kind, o.Value); err != nil {
			return err
		}
	}
	return nil
}

// validateLiteral rejects literal operands that can never match the variant.
func validateLiteral(kind SchemaKind, v OperandValue) error {
	switch kind {
	case SchemaDate:
		if v.Kind != OperandStr || !ValidDate(v.S) {
			return fmt.Errorf("%w: %s is not a YYYY-MM-DD date", types.ErrInvalidOperand, v)
		}
	case SchemaDateTime:
		if v.Kind != OperandStr || !ValidDateTime(v.S) {
			return fmt.Errorf("%w: %s is not an ISO-8601 date-time", types.ErrInvalidOperand, v)
		}
	case SchemaStr:
		if v.Kind != OperandStr {
			return fmt.Errorf("%w: %s is not a string", types.ErrInvalidOperand, v)
		}
	case SchemaNumU, SchemaNumI, SchemaNumF:
		if !v.IsNumeric() {
			return fmt.Errorf("%w: %s is not a number", types.ErrInvalidOperand, v)
		}
	}
	return nil
}

// Validate evaluates every field against root. Missing fields evaluate as
// None. Violations are ordered by field path.
func (c *CompiledSchema) Validate(root types.Value) Report {
	var report Report
	for _, f := range c.Fields {
		field, err := Resolve(f.Segs, root)
		if err != nil {
			field = types.None()
		}
		if c.LenientNumbers && f.Schema.SchemaKind().IsNumeric() {
			field, _ = CoerceNumeric(field, f.Schema.SchemaKind().ValueKind())
		}
		report = append(report, evaluate(f.Path, f.Schema, field, root, f.pattern)...)
	}
	return report
}
