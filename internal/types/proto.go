package types

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// FromProto converts a protobuf Struct value into a Value.
// Protobuf numbers are doubles, so every number becomes F64.
func FromProto(pv *structpb.Value) Value {
	if pv == nil {
		return None()
	}
	switch k := pv.GetKind().(type) {
	case *structpb.Value_NullValue:
		return None()
	case *structpb.Value_NumberValue:
		return F64(k.NumberValue)
	case *structpb.Value_StringValue:
		return Str(k.StringValue)
	case *structpb.Value_BoolValue:
		return Bool(k.BoolValue)
	case *structpb.Value_ListValue:
		items := make([]Value, 0, len(k.ListValue.GetValues()))
		for _, item := range k.ListValue.GetValues() {
			items = append(items, FromProto(item))
		}
		return Value{kind: KindArr, arr: items}
	case *structpb.Value_StructValue:
		return FromProtoStruct(k.StructValue)
	default:
		return None()
	}
}

// FromProtoStruct converts a protobuf Struct into an Obj value.
func FromProtoStruct(s *structpb.Struct) Value {
	members := make(map[string]Value, len(s.GetFields()))
	for k, f := range s.GetFields() {
		members[k] = FromProto(f)
	}
	return Value{kind: KindObj, obj: members}
}

// toProto converts a Value into a protobuf Struct value.
// Integers outside the exactly representable double range (2^53) are
// rejected rather than silently rounded.
func toProto(v Value) (*structpb.Value, error) {
	switch v.kind {
	case KindNone:
		return structpb.NewNullValue(), nil
	case KindU64:
		if v.u > 1<<53 {
			return nil, fmt.Errorf("%w: u64 %d not representable as double", ErrUnsupportedType, v.u)
		}
		return structpb.NewNumberValue(float64(v.u)), nil
	case KindI64:
		if v.i > 1<<53 || v.i < -(1<<53) {
			return nil, fmt.Errorf("%w: i64 %d not representable as double", ErrUnsupportedType, v.i)
		}
		return structpb.NewNumberValue(float64(v.i)), nil
	case KindF64:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			// JSON mapping of Struct cannot carry non-finite numbers
			return structpb.NewStringValue(v.String()), nil
		}
		return structpb.NewNumberValue(v.f), nil
	case KindBool:
		return structpb.NewBoolValue(v.b), nil
	case KindStr:
		return structpb.NewStringValue(v.s), nil
	case KindArr:
		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(v.arr))}
		for i, item := range v.arr {
			pv, err := toProto(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list.Values = append(list.Values, pv)
		}
		return structpb.NewListValue(list), nil
	case KindObj:
		s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(v.obj))}
		for k, m := range v.obj {
			pv, err := toProto(m)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			s.Fields[k] = pv
		}
		return structpb.NewStructValue(s), nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupportedType, v.kind)
	}
}
