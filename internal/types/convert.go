// internal/types/convert.go
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

/*
 * Conversions from native Go values and JSON into Value.
 *
 * FromNative accepts the scalar, sequence and mapping shapes produced by
 * encoding/json, hand-written literals and typed homogeneous slices.
 * Integer widths map to I64 or U64 by signedness; float32 widens to F64.
 *
 * FromJSON decodes with UseNumber so integer literals keep their exact
 * value: literals that fit int64 become I64, larger non-negative literals
 * become U64, everything else (fractions, exponents) becomes F64.
 */

// FromNative converts a native Go value into a Value.
// Returns ErrUnsupportedType for values with no representation.
func FromNative(v any) (Value, error) {
	switch n := v.(type) {
	case nil:
		return None(), nil
	case Value:
		return n, nil
	case bool:
		return Bool(n), nil
	case string:
		return Str(n), nil
	case int:
		return I64(int64(n)), nil
	case int8:
		return I64(int64(n)), nil
	case int16:
		return I64(int64(n)), nil
	case int32:
		return I64(int64(n)), nil
	case int64:
		return I64(n), nil
	case uint:
		return U64(uint64(n)), nil
	case uint8:
		return U64(uint64(n)), nil
	case uint16:
		return U64(uint64(n)), nil
	case uint32:
		return U64(uint64(n)), nil
	case uint64:
		return U64(n), nil
	case float32:
		return F64(float64(n)), nil
	case float64:
		return F64(n), nil
	case json.Number:
		return fromNumber(string(n))
	case []string:
		return Strs(n...), nil
	case []int64:
		return I64s(n...), nil
	case []uint64:
		return U64s(n...), nil
	case []float64:
		return F64s(n...), nil
	case []bool:
		return Bools(n...), nil
	case []Value:
		return Arr(n...), nil
	case []any:
		items := make([]Value, len(n))
		for i, elem := range n {
			item, err := FromNative(elem)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = item
		}
		return Value{kind: KindArr, arr: items}, nil
	case map[string]string:
		members := make(map[string]Value, len(n))
		for k, s := range n {
			members[k] = Str(s)
		}
		return Value{kind: KindObj, obj: members}, nil
	case map[string]Value:
		return Obj(n), nil
	case map[string]any:
		members := make(map[string]Value, len(n))
		for k, elem := range n {
			member, err := FromNative(elem)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			members[k] = member
		}
		return Value{kind: KindObj, obj: members}, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// MustFromNative is FromNative for literals known to be convertible.
// Panics on unsupported input; intended for tests and static fixtures.
func MustFromNative(v any) Value {
	out, err := FromNative(v)
	if err != nil {
		panic(err)
	}
	return out
}

// FromJSON decodes a JSON document into a Value.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("decode json: trailing data after document")
	}
	return FromNative(parsed)
}

// fromNumber classifies a JSON number literal.
func fromNumber(lit string) (Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return I64(i), nil
		}
		if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
			return U64(u), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return F64(f), nil
}

// toNative converts a Value back into the shapes encoding/json produces,
// keeping integer kinds exact.
func toNative(v Value) any {
	switch v.kind {
	case KindU64:
		return v.u
	case KindI64:
		return v.i
	case KindF64:
		return v.f
	case KindBool:
		return v.b
	case KindStr:
		return v.s
	case KindArr:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = toNative(item)
		}
		return out
	case KindObj:
		out := make(map[string]any, len(v.obj))
		for k, m := range v.obj {
			out[k] = toNative(m)
		}
		return out
	default:
		return nil
	}
}
