// internal/rules/schema.go
package rules

import "github.com/solatis/valkeeper/internal/types"

/*
 * Leaf schema variants.
 *
 * One constraint record per primitive field type. Every variant is a plain
 * comparable struct; builders use value receivers and return a modified copy,
 * so s.Eq(1).Ne(2) == NewNumIValidation().WithOperation(Ne(Lit(I64Value(2)))).
 * The last operation builder called wins.
 *
 * Schema is sealed (unexported marker method): the variant set is fixed and
 * the evaluator switches over it exhaustively.
 *
 * Defaults: every variant is required except EmailValidation, which is
 * optional until Require() is called.
 */

// SchemaKind identifies a leaf schema variant.
type SchemaKind int

const (
	SchemaBool SchemaKind = iota + 1
	SchemaNumU
	SchemaNumI
	SchemaNumF
	SchemaStr
	SchemaDate
	SchemaDateTime
	SchemaEmail
)

var schemaKindNames = map[SchemaKind]string{
	SchemaBool:     "bool",
	SchemaNumU:     "numu",
	SchemaNumI:     "numi",
	SchemaNumF:     "numf",
	SchemaStr:      "str",
	SchemaDate:     "date",
	SchemaDateTime: "datetime",
	SchemaEmail:    "email",
}

func (k SchemaKind) String() string {
	if name, ok := schemaKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseSchemaKind maps a variant name (numi, date, ...) to SchemaKind.
func ParseSchemaKind(s string) (SchemaKind, bool) {
	for k, name := range schemaKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// ValueKind returns the Value kind a field must hold to match the variant.
func (k SchemaKind) ValueKind() types.Kind {
	switch k {
	case SchemaBool:
		return types.KindBool
	case SchemaNumU:
		return types.KindU64
	case SchemaNumI:
		return types.KindI64
	case SchemaNumF:
		return types.KindF64
	default:
		return types.KindStr
	}
}

// IsNumeric reports whether the variant validates a number.
func (k SchemaKind) IsNumeric() bool {
	return k == SchemaNumU || k == SchemaNumI || k == SchemaNumF
}

// Schema is implemented by the leaf variants in this file only.
type Schema interface {
	SchemaKind() SchemaKind
	IsRequired() bool
	sealed()
}

// operationOf returns the comparison configured on s, if the variant has one.
func operationOf(s Schema) (Operation, bool) {
	var op Operation
	switch v := s.(type) {
	case NumUValidation:
		op = v.Operation
	case NumIValidation:
		op = v.Operation
	case NumFValidation:
		op = v.Operation
	case StrValidation:
		op = v.Operation
	case DateValidation:
		op = v.Operation
	case DateTimeValidation:
		op = v.Operation
	}
	return op, op.IsSet()
}

// BoolValidation constrains a boolean field.
type BoolValidation struct {
	Required bool
}

// NewBoolValidation returns a required BoolValidation.
func NewBoolValidation() BoolValidation {
	return BoolValidation{Required: true}
}

func (s BoolValidation) SchemaKind() SchemaKind { return SchemaBool }
func (s BoolValidation) IsRequired() bool { return s.Required }
func (BoolValidation) sealed() {}

func (s BoolValidation) Optional() BoolValidation {
	s.Required = false
	return s
}

func (s BoolValidation) Require() BoolValidation {
	s.Required = true
	return s
}

// EmailValidation constrains an email address field (Str). Optional by
// default; the format check applies to non-empty strings only.
type EmailValidation struct {
	Required bool
}

// NewEmailValidation returns an optional EmailValidation.
func NewEmailValidation() EmailValidation {
	return EmailValidation{}
}

func (s EmailValidation) SchemaKind() SchemaKind { return SchemaEmail }
func (s EmailValidation) IsRequired() bool { return s.Required }
func (EmailValidation) sealed() {}

func (s EmailValidation) Optional() EmailValidation {
	s.Required = false
	return s
}

func (s EmailValidation) Require() EmailValidation {
	s.Required = true
	return s
}

// NumUValidation constrains an unsigned integer field (U64).
type NumUValidation struct {
	Required  bool
	Operation Operation
}

// NewNumUValidation returns a required NumUValidation with no operation.
func NewNumUValidation() NumUValidation {
	return NumUValidation{Required: true}
}

func (s NumUValidation) SchemaKind() SchemaKind { return SchemaNumU }
func (s NumUValidation) IsRequired() bool { return s.Required }
func (NumUValidation) sealed() {}

func (s NumUValidation) Optional() NumUValidation {
	s.Required = false
	return s
}

func (s NumUValidation) Require() NumUValidation {
	s.Required = true
	return s
}

// WithOperation replaces the configured operation.
func (s NumUValidation) WithOperation(op Operation) NumUValidation {
	s.Operation = op
	return s
}

func (s NumUValidation) Eq(n uint64) NumUValidation { return s.WithOperation(Eq(Lit(U64Value(n)))) }
func (s NumUValidation) Ne(n uint64) NumUValidation { return s.WithOperation(Ne(Lit(U64Value(n)))) }
func (s NumUValidation) Gt(n uint64) NumUValidation { return s.WithOperation(Gt(Lit(U64Value(n)))) }
func (s NumUValidation) Ge(n uint64) NumUValidation { return s.WithOperation(Ge(Lit(U64Value(n)))) }
func (s NumUValidation) Lt(n uint64) NumUValidation { return s.WithOperation(Lt(Lit(U64Value(n)))) }
func (s NumUValidation) Le(n uint64) NumUValidation { return s.WithOperation(Le(Lit(U64Value(n)))) }

// Btwn requires lo <= value <= hi.
func (s NumUValidation) Btwn(lo, hi uint64) NumUValidation {
	return s.WithOperation(Btwn(Lit(U64Value(lo)), Lit(U64Value(hi))))
}

func (s NumUValidation) EqField(path string) NumUValidation { return s.WithOperation(Eq(Ref(path))) }
func (s NumUValidation) NeField(path string) NumUValidation { return s.WithOperation(Ne(Ref(path))) }
func (s NumUValidation) GtField(path string) NumUValidation { return s.WithOperation(Gt(Ref(path))) }
func (s NumUValidation) GeField(path string) NumUValidation { return s.WithOperation(Ge(Ref(path))) }
func (s NumUValidation) LtField(path string) NumUValidation { return s.WithOperation(Lt(Ref(path))) }
func (s NumUValidation) LeField(path string) NumUValidation { return s.WithOperation(Le(Ref(path))) }

// BtwnField requires $lo <= value <= $hi with both bounds read from the root.
func (s NumUValidation) BtwnField(lo, hi string) NumUValidation {
	return s.WithOperation(Btwn(Ref(lo), Ref(hi)))
}

// NumIValidation constrains a signed integer field (I64).
type NumIValidation struct {
	Required  bool
	Operation Operation
}

// NewNumIValidation returns a required NumIValidation with no operation.
func NewNumIValidation() NumIValidation {
	return NumIValidation{Required: true}
}

func (s NumIValidation) SchemaKind() SchemaKind { return SchemaNumI }
func (s NumIValidation) IsRequired() bool { return s.Required }
func (NumIValidation) sealed() {}

func (s NumIValidation) Optional() NumIValidation {
	s.Required = false
	return s
}

func (s NumIValidation) Require() NumIValidation {
	s.Required = true
	return s
}

// WithOperation replaces the configured operation.
func (s NumIValidation) WithOperation(op Operation) NumIValidation {
	s.Operation = op
	return s
}

func (s NumIValidation) Eq(n int64) NumIValidation { return s.WithOperation(Eq(Lit(I64Value(n)))) }
func (s NumIValidation) Ne(n int64) NumIValidation { return s.WithOperation(Ne(Lit(I64Value(n)))) }
func (s NumIValidation) Gt(n int64) NumIValidation { return s.WithOperation(Gt(Lit(I64Value(n)))) }
func (s NumIValidation) Ge(n int64) NumIValidation { return s.WithOperation(Ge(Lit(I64Value(n)))) }
func (s NumIValidation) Lt(n int64) NumIValidation { return s.WithOperation(Lt(Lit(I64Value(n)))) }
func (s NumIValidation) Le(n int64) NumIValidation { return s.WithOperation(Le(Lit(I64Value(n)))) }

// Btwn requires lo <= value <= hi.
func (s NumIValidation) Btwn(lo, hi int64) NumIValidation {
	return s.WithOperation(Btwn(Lit(I64Value(lo)), Lit(I64Value(hi))))
}

func (s NumIValidation) EqField(path string) NumIValidation { return s.WithOperation(Eq(Ref(path))) }
func (s NumIValidation) NeField(path string) NumIValidation { return s.WithOperation(Ne(Ref(path))) }
func (s NumIValidation) GtField(path string) NumIValidation { return s.WithOperation(Gt(Ref(path))) }
func (s NumIValidation) GeField(path string) NumIValidation { return s.WithOperation(Ge(Ref(path))) }
func (s NumIValidation) LtField(path string) NumIValidation { return s.WithOperation(Lt(Ref(path))) }
func (s NumIValidation) LeField(path string) NumIValidation { return s.WithOperation(Le(Ref(path))) }

// BtwnField requires $lo <= value <= $hi with both bounds read from the root.
func (s NumIValidation) BtwnField(lo, hi string) NumIValidation {
	return s.WithOperation(Btwn(Ref(lo), Ref(hi)))
}

// NumFValidation constrains a floating point field (F64).
type NumFValidation struct {
	Required  bool
	Operation Operation
}

// NewNumFValidation returns a required NumFValidation with no operation.
func NewNumFValidation() NumFValidation {
	return NumFValidation{Required: true}
}

func (s NumFValidation) SchemaKind() SchemaKind { return SchemaNumF }
func (s NumFValidation) IsRequired() bool { return s.Required }
func (NumFValidation) sealed() {}

func (s NumFValidation) Optional() NumFValidation {
	s.Required = false
	return s
}

func (s NumFValidation) Require() NumFValidation {
	s.Required = true
	return s
}

// WithOperation replaces the configured operation.
func (s NumFValidation) WithOperation(op Operation) NumFValidation {
	s.Operation = op
	return s
}

func (s NumFValidation) Eq(n float64) NumFValidation { return s.WithOperation(Eq(Lit(F64Value(n)))) }
func (s NumFValidation) Ne(n float64) NumFValidation { return s.WithOperation(Ne(Lit(F64Value(n)))) }
func (s NumFValidation) Gt(n float64) NumFValidation { return s.WithOperation(Gt(Lit(F64Value(n)))) }
func (s NumFValidation) Ge(n float64) NumFValidation { return s.WithOperation(Ge(Lit(F64Value(n)))) }
func (s NumFValidation) Lt(n float64) NumFValidation { return s.WithOperation(Lt(Lit(F64Value(n)))) }
func (s NumFValidation) Le(n float64) NumFValidation { return s.WithOperation(Le(Lit(F64Value(n)))) }

// Btwn requires lo <= value <= hi.
func (s NumFValidation) Btwn(lo, hi float64) NumFValidation {
	return s.WithOperation(Btwn(Lit(F64Value(lo)), Lit(F64Value(hi))))
}

func (s NumFValidation) EqField(path string) NumFValidation { return s.WithOperation(Eq(Ref(path))) }
func (s NumFValidation) NeField(path string) NumFValidation { return s.WithOperation(Ne(Ref(path))) }
func (s NumFValidation) GtField(path string) NumFValidation { return s.WithOperation(Gt(Ref(path))) }
func (s NumFValidation) GeField(path string) NumFValidation { return s.WithOperation(Ge(Ref(path))) }
func (s NumFValidation) LtField(path string) NumFValidation { return s.WithOperation(Lt(Ref(path))) }
func (s NumFValidation) LeField(path string) NumFValidation { return s.WithOperation(Le(Ref(path))) }

// BtwnField requires $lo <= value <= $hi with both bounds read from the root.
func (s NumFValidation) BtwnField(lo, hi string) NumFValidation {
	return s.WithOperation(Btwn(Ref(lo), Ref(hi)))
}

// StrValidation constrains a text field. MinLen and MaxLen count runes
// (0 means unbounded); Pattern uses RE2 syntax and must match somewhere in
// the value unless anchored.
type StrValidation struct {
	Required  bool
	Operation Operation
	MinLen    int
	MaxLen    int
	Pattern   string
}

// NewStrValidation returns a required StrValidation with no operation.
func NewStrValidation() StrValidation {
	return StrValidation{Required: true}
}

func (s StrValidation) SchemaKind() SchemaKind { return SchemaStr }
func (s StrValidation) IsRequired() bool { return s.Required }
func (StrValidation) sealed() {}

func (s StrValidation) Optional() StrValidation {
	s.Required = false
	return s
}

func (s StrValidation) Require() StrValidation {
	s.Required = true
	return s
}

// WithOperation replaces the configured operation.
func (s StrValidation) WithOperation(op Operation) StrValidation {
	s.Operation = op
	return s
}

func (s StrValidation) Eq(v string) StrValidation { return s.WithOperation(Eq(Lit(StrValue(v)))) }
func (s StrValidation) Ne(v string) StrValidation { return s.WithOperation(Ne(Lit(StrValue(v)))) }
func (s StrValidation) Gt(v string) StrValidation { return s.WithOperation(Gt(Lit(StrValue(v)))) }
func (s StrValidation) Ge(v string) StrValidation { return s.WithOperation(Ge(Lit(StrValue(v)))) }
func (s StrValidation) Lt(v string) StrValidation { return s.WithOperation(Lt(Lit(StrValue(v)))) }
func (s StrValidation) Le(v string) StrValidation { return s.WithOperation(Le(Lit(StrValue(v)))) }

// Btwn requires lo <= value <= hi.
func (s StrValidation) Btwn(lo, hi string) StrValidation {
	return s.WithOperation(Btwn(Lit(StrValue(lo)), Lit(StrValue(hi))))
}

func (s StrValidation) EqField(path string) StrValidation { return s.WithOperation(Eq(Ref(path))) }
func (s StrValidation) NeField(path string) StrValidation { return s.WithOperation(Ne(Ref(path))) }
func (s StrValidation) GtField(path string) StrValidation { return s.WithOperation(Gt(Ref(path))) }
func (s StrValidation) GeField(path string) StrValidation { return s.WithOperation(Ge(Ref(path))) }
func (s StrValidation) LtField(path string) StrValidation { return s.WithOperation(Lt(Ref(path))) }
func (s StrValidation) LeField(path string) StrValidation { return s.WithOperation(Le(Ref(path))) }

// BtwnField requires $lo <= value <= $hi with both bounds read from the root.
func (s StrValidation) BtwnField(lo, hi string) StrValidation {
	return s.WithOperation(Btwn(Ref(lo), Ref(hi)))
}

// DateValidation constrains a YYYY-MM-DD calendar date held as Str.
// Operands are date strings and compare in ISO-8601 (byte) order.
type DateValidation struct {
	Required  bool
	Operation Operation
}

// NewDateValidation returns a required DateValidation with no operation.
func NewDateValidation() DateValidation {
	return DateValidation{Required: true}
}

func (s DateValidation) SchemaKind() SchemaKind { return SchemaDate }
func (s DateValidation) IsRequired() bool { return s.Required }
func (DateValidation) sealed() {}

func (s DateValidation) Optional() DateValidation {
	s.Required = false
	return s
}

func (s DateValidation) Require() DateValidation {
	s.Required = true
	return s
}

// WithOperation replaces the configured operation.
func (s DateValidation) WithOperation(op Operation) DateValidation {
	s.Operation = op
	return s
}

func (s DateValidation) Eq(v string) DateValidation { return s.WithOperation(Eq(Lit(StrValue(v)))) }
func (s DateValidation) Ne(v string) DateValidation { return s.WithOperation(Ne(Lit(StrValue(v)))) }
func (s DateValidation) Gt(v string) DateValidation { return s.WithOperation(Gt(Lit(StrValue(v)))) }
func (s DateValidation) Ge(v string) DateValidation { return s.WithOperation(Ge(Lit(StrValue(v)))) }
func (s DateValidation) Lt(v string) DateValidation { return s.WithOperation(Lt(Lit(StrValue(v)))) }
func (s DateValidation) Le(v string) DateValidation { return s.WithOperation(Le(Lit(StrValue(v)))) }

// Btwn requires lo <= value <= hi.
func (s DateValidation) Btwn(lo, hi string) DateValidation {
	return s.WithOperation(Btwn(Lit(StrValue(lo)), Lit(StrValue(hi))))
}

func (s DateValidation) EqField(path string) DateValidation { return s.WithOperation(Eq(Ref(path))) }
func (s DateValidation) NeField(path string) DateValidation { return s.WithOperation(Ne(Ref(path))) }
func (s DateValidation) GtField(path string) DateValidation { return s.WithOperation(Gt(Ref(path))) }
func (s DateValidation) GeField(path string) DateValidation { return s.WithOperation(Ge(Ref(path))) }
func (s DateValidation) LtField(path string) DateValidation { return s.WithOperation(Lt(Ref(path))) }
func (s DateValidation) LeField(path string) DateValidation { return s.WithOperation(Le(Ref(path))) }

// BtwnField requires $lo <= value <= $hi with both bounds read from the root.
func (s DateValidation) BtwnField(lo, hi string) DateValidation {
	return s.WithOperation(Btwn(Ref(lo), Ref(hi)))
}

// DateTimeValidation constrains an ISO-8601 date-time held as Str
// (YYYY-MM-DDTHH:MM[:SS][Z|+HH:MM]). Operands compare in byte order.
type DateTimeValidation struct {
	Required  bool
	Operation Operation
}

// NewDateTimeValidation returns a required DateTimeValidation with no operation.
func NewDateTimeValidation() DateTimeValidation {
	return DateTimeValidation{Required: true}
}

func (s DateTimeValidation) SchemaKind() SchemaKind { return SchemaDateTime }
func (s DateTimeValidation) IsRequired() bool { return s.Required }
func (DateTimeValidation) sealed() {}

func (s DateTimeValidation) Optional() DateTimeValidation {
	s.Required = false
	return s
}

func (s DateTimeValidation) Require() DateTimeValidation {
	s.Required = true
	return s
}

// WithOperation replaces the configured operation.
func (s DateTimeValidation) WithOperation(op Operation) DateTimeValidation {
	s.Operation = op
	return s
}

func (s DateTimeValidation) Eq(v string) DateTimeValidation { return s.WithOperation(Eq(Lit(StrValue(v)))) }
func (s DateTimeValidation) Ne(v string) DateTimeValidation { return s.WithOperation(Ne(Lit(StrValue(v)))) }
func (s DateTimeValidation) Gt(v string) DateTimeValidation { return s.WithOperation(Gt(Lit(StrValue(v)))) }
func (s DateTimeValidation) Ge(v string) DateTimeValidation { return s.WithOperation(Ge(Lit(StrValue(v)))) }
func (s DateTimeValidation) Lt(v string) DateTimeValidation { return s.WithOperation(Lt(Lit(StrValue(v)))) }
func (s DateTimeValidation) Le(v string) DateTimeValidation { return s.WithOperation(Le(Lit(StrValue(v)))) }

// Btwn requires lo <= value <= hi.
func (s DateTimeValidation) Btwn(lo, hi string) DateTimeValidation {
	return s.WithOperation(Btwn(Lit(StrValue(lo)), Lit(StrValue(hi))))
}

func (s DateTimeValidation) EqField(path string) DateTimeValidation { return s.WithOperation(Eq(Ref(path))) }
func (s DateTimeValidation) NeField(path string) DateTimeValidation { return s.WithOperation(Ne(Ref(path))) }
func (s DateTimeValidation) GtField(path string) DateTimeValidation { return s.WithOperation(Gt(Ref(path))) }
func (s DateTimeValidation) GeField(path string) DateTimeValidation { return s.WithOperation(Ge(Ref(path))) }
func (s DateTimeValidation) LtField(path string) DateTimeValidation { return s.WithOperation(Lt(Ref(path))) }
func (s DateTimeValidation) LeField(path string) DateTimeValidation { return s.WithOperation(Le(Ref(path))) }

// BtwnField requires $lo <= value <= $hi with both bounds read from the root.
func (s DateTimeValidation) BtwnField(lo, hi string) DateTimeValidation {
	return s.WithOperation(Btwn(Ref(lo), Ref(hi)))
}

// MinLength sets the minimum rune count.
func (s StrValidation) MinLength(n int) StrValidation {
	s.MinLen = n
	return s
}

// MaxLength sets the maximum rune count.
func (s StrValidation) MaxLength(n int) StrValidation {
	s.MaxLen = n
	return s
}

// Match sets the RE2 pattern the value must match.
func (s StrValidation) Match(pattern string) StrValidation {
	s.Pattern = pattern
	return s
}
