// internal/rules/operand.go
package rules

import (
	"strconv"

	"github.com/solatis/valkeeper/internal/types"
)

/*
 * Operand and operation algebra.
 *
 * An Operation is plain data: an Operator plus one or two Operands. An
 * Operand is either a typed literal (OperandValue) or a dotted field path
 * resolved against the root document at evaluation time. Keeping both as
 * comparable structs lets schemas be compared with == and copied freely.
 *
 * Key functions:
 *   - Lit / Ref: build literal and field-path operands
 *   - Eq..Btwn: build operations
 *   - ResolveOperandValue: literal passthrough or path lookup + coercion
 *
 * Field-path operands are type-checked only when compared; a path that
 * resolves to Arr, Obj or None counts as unresolved.
 */

// OperandKind identifies the variant held by an OperandValue.
type OperandKind int

const (
	OperandBool OperandKind = iota + 1
	OperandU64
	OperandI64
	OperandF64
	OperandStr
)

func (k OperandKind) String() string {
	switch k {
	case OperandBool:
		return "bool"
	case OperandU64:
		return "u64"
	case OperandI64:
		return "i64"
	case OperandF64:
		return "f64"
	case OperandStr:
		return "str"
	default:
		return "unspecified"
	}
}

// OperandValue is a scalar comparison value. Only the field matching Kind
// is meaningful.
type OperandValue struct {
	Kind OperandKind
	B    bool
	U    uint64
	I    int64
	F    float64
	S    string
}

func BoolValue(b bool) OperandValue { return OperandValue{Kind: OperandBool, B: b} }
func U64Value(u uint64) OperandValue { return OperandValue{Kind: OperandU64, U: u} }
func I64Value(i int64) OperandValue { return OperandValue{Kind: OperandI64, I: i} }
func F64Value(f float64) OperandValue { return OperandValue{Kind: OperandF64, F: f} }
func StrValue(s string) OperandValue { return OperandValue{Kind: OperandStr, S: s} }

// IsNumeric reports whether the value is U64, I64 or F64.
func (v OperandValue) IsNumeric() bool {
	return v.Kind == OperandU64 || v.Kind == OperandI64 || v.Kind == OperandF64
}

// String renders the value the same way types.Value does.
func (v OperandValue) String() string {
	switch v.Kind {
	case OperandBool:
		return strconv.FormatBool(v.B)
	case OperandU64:
		return strconv.FormatUint(v.U, 10)
	case OperandI64:
		return strconv.FormatInt(v.I, 10)
	case OperandF64:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case OperandStr:
		return `"` + v.S + `"`
	default:
		return ""
	}
}

// Operand is a literal value or a reference to another field.
type Operand struct {
	Value     OperandValue // literal (valid when IsRef is false)
	FieldPath string       // dotted path into the root document
	IsRef     bool         // set by Ref; an empty FieldPath still counts
}

// Lit wraps a literal operand.
func Lit(v OperandValue) Operand { return Operand{Value: v} }

// Ref references the field at path in the root document.
func Ref(path string) Operand { return Operand{FieldPath: path, IsRef: true} }

// IsField reports whether the operand is a field-path reference.
func (o Operand) IsField() bool { return o.IsRef }

// String renders literals as values and references as $path.
func (o Operand) String() string {
	if o.IsField() {
		return "$" + o.FieldPath
	}
	return o.Value.String()
}

// Operator is the comparison applied by an Operation.
type Operator int

const (
	OpUnspecified Operator = iota
	OpEq
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpBtwn
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpGt:
		return "gt"
	case OpGe:
		return "ge"
	case OpLt:
		return "lt"
	case OpLe:
		return "le"
	case OpBtwn:
		return "btwn"
	default:
		return "unspecified"
	}
}

// ParseOperator maps the textual operator names back to Operator.
func ParseOperator(s string) (Operator, bool) {
	for op := OpEq; op <= OpBtwn; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return OpUnspecified, false
}

// Operation is a comparison predicate. The zero Operation means "no
// operation"; B is used only by OpBtwn.
type Operation struct {
	Op Operator
	A  Operand
	B  Operand
}

func Eq(a Operand) Operation { return Operation{Op: OpEq, A: a} }
func Ne(a Operand) Operation { return Operation{Op: OpNe, A: a} }
func Gt(a Operand) Operation { return Operation{Op: OpGt, A: a} }
func Ge(a Operand) Operation { return Operation{Op: OpGe, A: a} }
func Lt(a Operand) Operation { return Operation{Op: OpLt, A: a} }
func Le(a Operand) Operation { return Operation{Op: OpLe, A: a} }
func Btwn(a, b Operand) Operation { return Operation{Op: OpBtwn, A: a, B: b} }

// IsSet reports whether an operator has been chosen.
func (o Operation) IsSet() bool { return o.Op != OpUnspecified }

// Operands returns the operands used by the operator, in order.
func (o Operation) Operands() []Operand {
	switch o.Op {
	case OpUnspecified:
		return nil
	case OpBtwn:
		return []Operand{o.A, o.B}
	default:
		return []Operand{o.A}
	}
}

// String renders the operation in rule-expression form, e.g. btwn 0 $info.max.
func (o Operation) String() string {
	if !o.IsSet() {
		return ""
	}
	s := o.Op.String() + " " + o.A.String()
	if o.Op == OpBtwn {
		s += " " + o.B.String()
	}
	return s
}

// bind returns a copy of o with every operand replaced by the resolved literal.
func (o Operation) bind(vals []OperandValue) Operation {
	bound := Operation{Op: o.Op}
	if len(vals) > 0 {
		bound.A = Lit(vals[0])
	}
	if len(vals) > 1 {
		bound.B = Lit(vals[1])
	}
	return bound
}

// ResolveOperandValue returns the literal for a value operand, or looks up a
// field-path operand in root. Paths that are empty, missing, cross a
// non-object or land on Arr, Obj or None are unresolved.
func ResolveOperandValue(o Operand, root types.Value) (OperandValue, bool) {
	if !o.IsField() {
		return o.Value, true
	}
	v, ok := Lookup(o.FieldPath, root)
	if !ok {
		return OperandValue{}, false
	}
	return OperandFromValue(v)
}
