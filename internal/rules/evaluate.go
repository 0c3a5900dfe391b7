// internal/rules/evaluate.go
package rules

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/solatis/valkeeper/internal/types"
)

/*
 * Leaf evaluation.
 *
 * Applies one leaf schema to one field value and returns every violation.
 *
 * Evaluation flow (per field):
 *   1. Presence: None -> Required (if required) and stop, else success
 *   2. Type: field kind must equal the variant's value kind, else Type and stop
 *   3. Operation: resolve operands against root; any unresolved operand
 *      records OperandUnresolved and skips the predicate, otherwise a false
 *      Compare records the operator's violation
 *   4. Leaf checks: Email/Date/DateTime format, Str length and pattern
 *
 * Only Presence and Type short-circuit; stages 3 and 4 accumulate. The
 * evaluator never returns an error: malformed schema input (an invalid
 * pattern) is reported as a violation. Compile() rejects such schemas up
 * front for object schemas.
 */

// Validate applies schema to field. root is the document that field-path
// operands resolve against. A nil Report means success.
func Validate(schema Schema, field, root types.Value) Report {
	return ValidateAt("", schema, field, root)
}

// ValidateAt is Validate with path attached to every violation.
func ValidateAt(path string, schema Schema, field, root types.Value) Report {
	return evaluate(path, schema, field, root, nil)
}

// evaluate runs the per-field state machine. pattern is the precompiled
// Str pattern, or nil to compile on demand.
func evaluate(path string, schema Schema, field, root types.Value, pattern *regexp.Regexp) Report {
	if field.IsNone() {
		if schema.IsRequired() {
			return Report{requiredViolation(path)}
		}
		return nil
	}

	want := schema.SchemaKind().ValueKind()
	if field.Kind() != want {
		return Report{typeViolation(path, want, field.Kind())}
	}

	var report Report
	if op, ok := operationOf(schema); ok {
		subject, _ := OperandFromValue(field)
		report = append(report, checkOperation(path, op, subject, root)...)
	}
	report = append(report, checkLeaf(path, schema, field, pattern)...)
	return report
}

// checkOperation resolves the operation's operands and applies Compare.
func checkOperation(path string, op Operation, subject OperandValue, root types.Value) Report {
	var report Report
	operands := op.Operands()
	resolved := make([]OperandValue, 0, len(operands))
	for _, o := range operands {
		v, ok := ResolveOperandValue(o, root)
		if !ok {
			report = append(report, unresolvedViolation(path, o))
			continue
		}
		resolved = append(resolved, v)
	}
	if len(report) > 0 {
		return report
	}

	if !Compare(op.bind(resolved), subject) {
		return Report{operationViolation(path, op)}
	}
	return nil
}

// checkLeaf applies the variant-specific format and length checks.
func checkLeaf(path string, schema Schema, field types.Value, pattern *regexp.Regexp) Report {
	s, _ := field.AsStr()

	switch v := schema.(type) {
	case EmailValidation:
		if s != "" && !ValidEmail(s) {
			return Report{newViolation(KindEmail, path, "must be a valid email address")}
		}
	case DateValidation:
		if !ValidDate(s) {
			return Report{newViolation(KindDate, path, "must be a valid date (YYYY-MM-DD)")}
		}
	case DateTimeValidation:
		if !ValidDateTime(s) {
			return Report{newViolation(KindDateTime, path, "must be a valid date-time (YYYY-MM-DDTHH:MM[:SS][Z|±HH:MM])")}
		}
	case StrValidation:
		return checkString(path, v, s, pattern)
	}
	return nil
}

// checkString applies StrValidation length and pattern constraints.
func checkString(path string, v StrValidation, s string, pattern *regexp.Regexp) Report {
	var report Report
	n := utf8.RuneCountInString(s)
	if v.MinLen > 0 && n < v.MinLen {
		report = append(report, newViolation(KindMinLen, path,
			fmt.Sprintf("must be at least %d characters", v.MinLen)))
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		report = append(report, newViolation(KindMaxLen, path,
			fmt.Sprintf("must be at most %d characters", v.MaxLen)))
	}
	if v.Pattern == "" {
		return report
	}
	if pattern == nil {
		var err error
		pattern, err = regexp.Compile(v.Pattern)
		if err != nil {
			return append(report, newViolation(KindPattern, path,
				fmt.Sprintf("pattern %q is invalid", v.Pattern)))
		}
	}
	if !pattern.MatchString(s) {
		report = append(report, newViolation(KindPattern, path,
			fmt.Sprintf("must match pattern %q", v.Pattern)))
	}
	return report
}
