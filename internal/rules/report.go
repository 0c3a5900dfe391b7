// internal/rules/report.go
package rules

import (
	"fmt"
	"strings"

	"github.com/solatis/valkeeper/internal/types"
)

// ViolationKind classifies a single violation.
type ViolationKind int

const (
	KindRequired ViolationKind = iota + 1
	KindType
	KindEq
	KindNe
	KindGt
	KindGe
	KindLt
	KindLe
	KindBtwn
	KindOperandUnresolved
	KindEmail
	KindDate
	KindDateTime
	KindMinLen
	KindMaxLen
	KindPattern
)

var violationKindNames = map[ViolationKind]string{
	KindRequired:          "required",
	KindType:              "type",
	KindEq:                "eq",
	KindNe:                "ne",
	KindGt:                "gt",
	KindGe:                "ge",
	KindLt:                "lt",
	KindLe:                "le",
	KindBtwn:              "btwn",
	KindOperandUnresolved: "operand_unresolved",
	KindEmail:             "email",
	KindDate:              "date",
	KindDateTime:          "datetime",
	KindMinLen:            "min_len",
	KindMaxLen:            "max_len",
	KindPattern:           "pattern",
}

func (k ViolationKind) String() string {
	if name, ok := violationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseViolationKind maps a kind name back to ViolationKind.
func ParseViolationKind(s string) (ViolationKind, bool) {
	for k, name := range violationKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// violationKindFor maps an operator to the violation it produces.
func violationKindFor(op Operator) ViolationKind {
	switch op {
	case OpEq:
		return KindEq
	case OpNe:
		return KindNe
	case OpGt:
		return KindGt
	case OpGe:
		return KindGe
	case OpLt:
		return KindLt
	case OpLe:
		return KindLe
	default:
		return KindBtwn
	}
}

// Violation is one failed check on one field.
type Violation struct {
	Kind           ViolationKind
	Field          string    // dotted path; empty when validating a bare leaf
	Operands       []Operand // operands involved, if any
	Message        string
	TranslationKey string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// Report is the ordered list of violations for one evaluation. A nil or
// empty Report means success.
type Report []Violation

func (r Report) Error() string {
	if len(r) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(r))
	for _, v := range r {
		parts = append(parts, v.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns r as an error, or nil when r is empty.
func (r Report) Err() error {
	if len(r) == 0 {
		return nil
	}
	return r
}

func (r Report) IsEmpty() bool {
	return len(r) == 0
}

// Has reports whether any violation targets field.
func (r Report) Has(field string) bool {
	for _, v := range r {
		if v.Field == field {
			return true
		}
	}
	return false
}

// ByField returns the violations recorded against field.
func (r Report) ByField(field string) Report {
	var out Report
	for _, v := range r {
		if v.Field == field {
			out = append(out, v)
		}
	}
	return out
}

// Fields returns the distinct fields with violations in report order.
func (r Report) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, v := range r {
		if !seen[v.Field] {
			fields = append(fields, v.Field)
			seen[v.Field] = true
		}
	}
	return fields
}

// Kinds returns the kind of every violation in report order.
func (r Report) Kinds() []ViolationKind {
	kinds := make([]ViolationKind, len(r))
	for i, v := range r {
		kinds[i] = v.Kind
	}
	return kinds
}

func newViolation(kind ViolationKind, field, message string, operands ...Operand) Violation {
	return Violation{
		Kind:           kind,
		Field:          field,
		Operands:       operands,
		Message:        message,
		TranslationKey: "validation." + kind.String(),
	}
}

func requiredViolation(field string) Violation {
	return newViolation(KindRequired, field, "is required")
}

func typeViolation(field string, want, got types.Kind) Violation {
	return newViolation(KindType, field, fmt.Sprintf("must be of type %s, got %s", want, got))
}

func unresolvedViolation(field string, o Operand) Violation {
	return newViolation(KindOperandUnresolved, field,
		fmt.Sprintf("operand %s could not be resolved", o.FieldPath), o)
}

func operationViolation(field string, op Operation) Violation {
	var msg string
	switch op.Op {
	case OpEq:
		msg = "must equal " + op.A.String()
	case OpNe:
		msg = "must not equal " + op.A.String()
	case OpGt:
		msg = "must be greater than " + op.A.String()
	case OpGe:
		msg = "must be greater than or equal to " + op.A.String()
	case OpLt:
		msg = "must be less than " + op.A.String()
	case OpLe:
		msg = "must be less than or equal to " + op.A.String()
	case OpBtwn:
		msg = "must be between " + op.A.String() + " and " + op.B.String()
	}
	return newViolation(violationKindFor(op.Op), field, msg, op.Operands()...)
}
