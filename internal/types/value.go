// internal/types/value.go
package types

import (
	"sort"
	"strconv"
	"strings"
)

/*
 * Dynamic value tree.
 *
 * Value is a closed tagged union over the eight kinds a validated document
 * can carry. The kind set is fixed; callers switch on Kind() exhaustively
 * rather than extending the model.
 *
 * Key functions:
 *   - Constructors: None, U64, I64, F64, Bool, Str, Arr, Obj
 *   - String: deterministic stringification (Obj keys sorted, Str unescaped)
 *   - Equal: structural equality
 *
 * Values are treated as immutable once built. Arr/Obj constructors copy
 * their input so later mutation of the caller's slice or map is not observed.
 */

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNone Kind = iota
	KindU64
	KindI64
	KindF64
	KindBool
	KindStr
	KindArr
	KindObj
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindU64:
		return "u64"
	case KindI64:
		return "i64"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindArr:
		return "arr"
	case KindObj:
		return "obj"
	default:
		return "unknown"
	}
}

// Value is one node of a dynamic value tree. The zero Value is None.
type Value struct {
	kind Kind
	u    uint64
	i    int64
	f    float64
	b    bool
	s    string
	arr  []Value
	obj  map[string]Value
}

// None returns the absence/null sentinel.
func None() Value { return Value{} }

func U64(u uint64) Value { return Value{kind: KindU64, u: u} }
func I64(i int64) Value { return Value{kind: KindI64, i: i} }
func F64(f float64) Value { return Value{kind: KindF64, f: f} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Str(s string) Value { return Value{kind: KindStr, s: s} }

// Arr builds an array value from items.
func Arr(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArr, arr: cp}
}

// Obj builds an object value. The map is copied.
func Obj(members map[string]Value) Value {
	cp := make(map[string]Value, len(members))
	for k, v := range members {
		cp[k] = v
	}
	return Value{kind: KindObj, obj: cp}
}

// Strs builds an array of Str values.
func Strs(items ...string) Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = Str(s)
	}
	return Value{kind: KindArr, arr: out}
}

// I64s builds an array of I64 values.
func I64s(items ...int64) Value {
	out := make([]Value, len(items))
	for i, n := range items {
		out[i] = I64(n)
	}
	return Value{kind: KindArr, arr: out}
}

// U64s builds an array of U64 values.
func U64s(items ...uint64) Value {
	out := make([]Value, len(items))
	for i, n := range items {
		out[i] = U64(n)
	}
	return Value{kind: KindArr, arr: out}
}

// F64s builds an array of F64 values.
func F64s(items ...float64) Value {
	out := make([]Value, len(items))
	for i, f := range items {
		out[i] = F64(f)
	}
	return Value{kind: KindArr, arr: out}
}

// Bools builds an array of Bool values.
func Bools(items ...bool) Value {
	out := make([]Value, len(items))
	for i, b := range items {
		out[i] = Bool(b)
	}
	return Value{kind: KindArr, arr: out}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsU64 returns the payload of a U64 value.
func (v Value) AsU64() (uint64, bool) { return v.u, v.kind == KindU64 }

// AsI64 returns the payload of an I64 value.
func (v Value) AsI64() (int64, bool) { return v.i, v.kind == KindI64 }

// AsF64 returns the payload of an F64 value.
func (v Value) AsF64() (float64, bool) { return v.f, v.kind == KindF64 }

// AsBool returns the payload of a Bool value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsStr returns the payload of a Str value.
func (v Value) AsStr() (string, bool) { return v.s, v.kind == KindStr }

// Items returns the elements of an Arr value. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindArr {
		return nil
	}
	return v.arr
}

// Member returns the member stored under key of an Obj value.
func (v Value) Member(key string) (Value, bool) {
	if v.kind != KindObj {
		return Value{}, false
	}
	m, ok := v.obj[key]
	return m, ok
}

// Keys returns the member keys of an Obj value in lexicographic order.
func (v Value) Keys() []string {
	if v.kind != KindObj {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the element count of Arr, the member count of Obj, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArr:
		return len(v.arr)
	case KindObj:
		return len(v.obj)
	default:
		return 0
	}
}

// Equal reports structural equality. F64 leaves compare with ==, so NaN
// never equals anything.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindU64:
		return v.u == o.u
	case KindI64:
		return v.i == o.i
	case KindF64:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindStr:
		return v.s == o.s
	case KindArr:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObj:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, m := range v.obj {
			om, ok := o.obj[k]
			if !ok || !m.Equal(om) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the value for diagnostics. Obj keys are sorted so equal
// objects render identically. Str is quoted but not escaped; this is not a
// serialization format.
func (v Value) String() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.kind {
	case KindNone:
	case KindU64:
		sb.WriteString(strconv.FormatUint(v.u, 10))
	case KindI64:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindF64:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindStr:
		sb.WriteByte('"')
		sb.WriteString(v.s)
		sb.WriteByte('"')
	case KindArr:
		sb.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeTo(sb)
		}
		sb.WriteByte(']')
	case KindObj:
		if len(v.obj) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{ ")
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			v.obj[k].writeTo(sb)
		}
		sb.WriteString(" }")
	}
}
