// internal/rules/operators.go
package rules

import (
	"math"
	"strings"
)

/*
 * Compare kernel.
 *
 * Compare evaluates a bound Operation (all operands literal) against a subject
 * OperandValue. The kernel is total: every pair of operand kinds has a defined
 * answer and nothing panics.
 *
 * Rules:
 *   - Same-kind numbers use natural ordering. F64 follows IEEE-754: NaN is
 *     unordered, so gt/ge/lt/le/eq involving NaN are false and ne is true.
 *   - Ordering across numeric kinds promotes both sides to F64, so U64 and
 *     I64 values that round to the same double order as equal. eq/ne between
 *     U64 and I64 compare exact signed values instead.
 *   - Str compares byte-wise over UTF-8 (strings.Compare). Date and DateTime
 *     subjects are Str, so ISO-8601 text orders chronologically.
 *   - Bool supports eq/ne only; ordering operators return false.
 *   - Any other pairing: eq false, ne true, ordering false.
 *   - btwn(a, b) is ge(a) && le(b); when a > b no subject can satisfy it.
 *
 * Why not cmp.Compare: it orders NaN below every number, which would make
 * lt(NaN) true. The ordering here is partial on purpose and every caller
 * checks the ok flag.
 */

// Compare applies the operation to subject. Operands must already be bound
// to literals; a field-path operand compares as false.
func Compare(op Operation, subject OperandValue) bool {
	if op.A.IsField() || (op.Op == OpBtwn && op.B.IsField()) {
		return false
	}
	a := op.A.Value

	switch op.Op {
	case OpEq:
		return compareEqual(subject, a)
	case OpNe:
		return !compareEqual(subject, a)
	case OpGt:
		c, ok := compareOrder(subject, a)
		return ok && c > 0
	case OpGe:
		c, ok := compareOrder(subject, a)
		return ok && c >= 0
	case OpLt:
		c, ok := compareOrder(subject, a)
		return ok && c < 0
	case OpLe:
		c, ok := compareOrder(subject, a)
		return ok && c <= 0
	case OpBtwn:
		b := op.B.Value
		if c, ok := compareOrder(a, b); ok && c > 0 {
			// Empty range
			return false
		}
		lo, okLo := compareOrder(subject, a)
		hi, okHi := compareOrder(subject, b)
		return okLo && okHi && lo >= 0 && hi <= 0
	default:
		return false
	}
}

// compareEqual reports equality under the kernel rules. Integer kinds compare
// exactly; pairs involving F64 compare after promotion.
func compareEqual(x, y OperandValue) bool {
	if x.IsNumeric() && y.IsNumeric() {
		c, ok := compareExact(x, y)
		return ok && c == 0
	}
	if x.Kind != y.Kind {
		return false
	}
	switch x.Kind {
	case OperandBool:
		return x.B == y.B
	case OperandStr:
		return x.S == y.S
	default:
		return false
	}
}

// compareOrder performs three-way comparison (-1/0/1).
// ok is false for unordered pairs: NaN, booleans and mixed kinds.
func compareOrder(x, y OperandValue) (int, bool) {
	if x.IsNumeric() && y.IsNumeric() {
		if x.Kind != y.Kind {
			return compareFloat(toFloat64(x), toFloat64(y))
		}
		return compareExact(x, y)
	}
	if x.Kind == OperandStr && y.Kind == OperandStr {
		return strings.Compare(x.S, y.S), true
	}
	return 0, false
}

// compareExact orders two numeric operands without losing integer precision
// between U64 and I64. Pairs involving F64 are promoted.
func compareExact(x, y OperandValue) (int, bool) {
	switch {
	case x.Kind == OperandF64 || y.Kind == OperandF64:
		return compareFloat(toFloat64(x), toFloat64(y))
	case x.Kind == OperandU64 && y.Kind == OperandU64:
		return compareUint(x.U, y.U), true
	case x.Kind == OperandI64 && y.Kind == OperandI64:
		return compareInt(x.I, y.I), true
	case x.Kind == OperandU64:
		// y is I64
		if y.I < 0 {
			return 1, true
		}
		return compareUint(x.U, uint64(y.I)), true
	default:
		// x is I64, y is U64
		if x.I < 0 {
			return -1, true
		}
		return compareUint(uint64(x.I), y.U), true
	}
}

// toFloat64 promotes a numeric operand to float64.
func toFloat64(v OperandValue) float64 {
	switch v.Kind {
	case OperandU64:
		return float64(v.U)
	case OperandI64:
		return float64(v.I)
	default:
		return v.F
	}
}

func compareFloat(a, b float64) (int, bool) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
