// internal/rules/coercion.go
package rules

import (
	"math"

	"github.com/solatis/valkeeper/internal/types"
)

/*
 * Type coercion between the value model and comparison operands.
 *
 * OperandFromValue is the strict subject/operand extraction used by the
 * evaluator: scalars map one-to-one, Arr/Obj/None have no operand form.
 *
 * CoerceNumeric is the lenient mode enabled with WithLenientNumbers. JSON and
 * protobuf inputs lose the integer width a schema expects (protobuf numbers
 * are always doubles), so a numeric field may be re-tagged to the schema's
 * numeric kind when, and only when, the conversion is exact. Non-numeric
 * values are never coerced; "5" stays a string and still fails the type check.
 */

// maxExactFloatInt is the largest integer magnitude a float64 holds exactly.
const maxExactFloatInt = 1 << 53

// OperandFromValue converts a scalar Value into its OperandValue.
// Returns false for None, Arr and Obj.
func OperandFromValue(v types.Value) (OperandValue, bool) {
	switch v.Kind() {
	case types.KindBool:
		b, _ := v.AsBool()
		return BoolValue(b), true
	case types.KindU64:
		u, _ := v.AsU64()
		return U64Value(u), true
	case types.KindI64:
		i, _ := v.AsI64()
		return I64Value(i), true
	case types.KindF64:
		f, _ := v.AsF64()
		return F64Value(f), true
	case types.KindStr:
		s, _ := v.AsStr()
		return StrValue(s), true
	default:
		return OperandValue{}, false
	}
}

// CoerceNumeric re-tags a numeric value to the wanted numeric kind when the
// conversion loses nothing. Returns the input and false otherwise.
func CoerceNumeric(v types.Value, want types.Kind) (types.Value, bool) {
	if v.Kind() == want {
		return v, true
	}
	switch want {
	case types.KindI64:
		switch v.Kind() {
		case types.KindU64:
			u, _ := v.AsU64()
			if u <= math.MaxInt64 {
				return types.I64(int64(u)), true
			}
		case types.KindF64:
			f, _ := v.AsF64()
			// -2^63 is exact; 2^63 is one past MaxInt64
			if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				return types.I64(int64(f)), true
			}
		}
	case types.KindU64:
		switch v.Kind() {
		case types.KindI64:
			i, _ := v.AsI64()
			if i >= 0 {
				return types.U64(uint64(i)), true
			}
		case types.KindF64:
			f, _ := v.AsF64()
			if f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 {
				return types.U64(uint64(f)), true
			}
		}
	case types.KindF64:
		switch v.Kind() {
		case types.KindI64:
			i, _ := v.AsI64()
			if i >= -maxExactFloatInt && i <= maxExactFloatInt {
				return types.F64(float64(i)), true
			}
		case types.KindU64:
			u, _ := v.AsU64()
			if u <= maxExactFloatInt {
				return types.F64(float64(u)), true
			}
		}
	}
	return v, false
}
