// internal/rules/compile_test.go
package rules

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/solatis/valkeeper/internal/types"
)

func TestCompile_OrdersFields(t *testing.T) {
	schema := NewObjectSchema().
		Field("user.name", NewStrValidation()).
		Field("age", NewNumIValidation()).
		Field("user.email", NewEmailValidation())

	compiled, err := Compile(schema)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}

	var paths []string
	for _, f := range compiled.Fields {
		paths = append(paths, f.Path)
	}
	want := []string{"age", "user.email", "user.name"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestObjectSchema_FieldDoesNotModifyReceiver(t *testing.T) {
	base := NewObjectSchema().Field("a", NewBoolValidation())
	extended := base.Field("b", NewBoolValidation()).Field("a", NewNumIValidation())

	if base.Len() != 1 || extended.Len() != 2 {
		t.Fatalf("Len() = %d, %d, want 1, 2", base.Len(), extended.Len())
	}
	if leaf, _ := base.Leaf("a"); leaf.SchemaKind() != SchemaBool {
		t.Errorf("base a = %v, want bool", leaf.SchemaKind())
	}
	if leaf, _ := extended.Leaf("a"); leaf.SchemaKind() != SchemaNumI {
		t.Errorf("extended a = %v, want numi", leaf.SchemaKind())
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		schema  ObjectSchema
		wantErr error
	}{
		{name: "empty path", schema: NewObjectSchema().Field("", NewBoolValidation()), wantErr: types.ErrEmptyPath},
		{name: "empty segment", schema: NewObjectSchema().Field("a..b", NewBoolValidation()), wantErr: types.ErrEmptySegment},
		{name: "nil leaf", schema: NewObjectSchema().Field("a", nil), wantErr: types.ErrInvalidOperand},
		{name: "bad operand path", schema: NewObjectSchema().Field("a", NewNumIValidation().EqField("x.")), wantErr: types.ErrEmptySegment},
		{name: "empty operand path", schema: NewObjectSchema().Field("a", NewNumIValidation().NeField("")), wantErr: types.ErrEmptyPath},
		{name: "bad date literal", schema: NewObjectSchema().Field("d", NewDateValidation().Gt("2026-13-01")), wantErr: types.ErrInvalidOperand},
		{name: "bad datetime literal", schema: NewObjectSchema().Field("d", NewDateTimeValidation().Lt("tomorrow")), wantErr: types.ErrInvalidOperand},
		{name: "numeric literal on str", schema: NewObjectSchema().Field("s", NewStrValidation().WithOperation(Eq(Lit(I64Value(1))))), wantErr: types.ErrInvalidOperand},
		{name: "str literal on number", schema: NewObjectSchema().Field("n", NewNumUValidation().WithOperation(Gt(Lit(StrValue("1"))))), wantErr: types.ErrInvalidOperand},
		{name: "negative length", schema: NewObjectSchema().Field("s", NewStrValidation().MinLength(-1)), wantErr: types.ErrInvalidOperand},
		{name: "min above max", schema: NewObjectSchema().Field("s", NewStrValidation().MinLength(5).MaxLength(2)), wantErr: types.ErrInvalidOperand},
		{name: "bad pattern", schema: NewObjectSchema().Field("s", NewStrValidation().Match("[")), wantErr: types.ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.schema)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_TooManyFields(t *testing.T) {
	schema := NewObjectSchema()
	for i := 0; i <= types.MaxSchemaFields; i++ {
		schema = schema.Field(fmt.Sprintf("f%d", i), NewBoolValidation())
	}
	if _, err := Compile(schema); err == nil {
		t.Errorf("Compile() error = nil, want field limit error")
	}
}

func TestCompiledSchema_Validate(t *testing.T) {
	schema := NewObjectSchema().
		Field("user.age", NewNumIValidation().Ge(18)).
		Field("user.email", NewEmailValidation().Require()).
		Field("user.nickname", NewStrValidation().Optional().MaxLength(8)).
		Field("limits.max", NewNumIValidation()).
		Field("user.score", NewNumIValidation().LeField("limits.max"))

	compiled, err := Compile(schema)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "valid",
			doc:  `{"user": {"age": 30, "email": "a@b.co", "score": 5}, "limits": {"max": 10}}`,
		},
		{
			name: "missing fields",
			doc:  `{"user": {"age": 30}}`,
			want: []string{"limits.max:required", "user.email:required", "user.score:required"},
		},
		{
			name: "violations ordered by path",
			doc:  `{"user": {"age": 12, "email": "nope", "nickname": "much-too-long", "score": 11}, "limits": {"max": 10}}`,
			want: []string{"user.age:ge", "user.email:email", "user.nickname:max_len", "user.score:le"},
		},
		{
			name: "user is not an object",
			doc:  `{"user": "x", "limits": {"max": 1}}`,
			want: []string{"user.age:required", "user.email:required", "user.score:required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := types.FromJSON([]byte(tt.doc))
			if err != nil {
				t.Fatalf("FromJSON() error = %v", err)
			}
			var got []string
			for _, v := range compiled.Validate(root) {
				got = append(got, v.Field+":"+v.Kind.String())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_LenientNumbers(t *testing.T) {
	schema := NewObjectSchema().
		Field("count", NewNumUValidation().Le(10)).
		Field("ratio", NewNumFValidation().Gt(0.5))

	doc := types.Obj(map[string]types.Value{
		"count": types.F64(7),
		"ratio": types.I64(1),
	})

	strict, err := Compile(schema)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := strict.Validate(doc).Kinds(); !reflect.DeepEqual(got, []ViolationKind{KindType, KindType}) {
		t.Errorf("strict kinds = %v, want [type type]", got)
	}

	lenient, err := Compile(schema, WithLenientNumbers())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if report := lenient.Validate(doc); !report.IsEmpty() {
		t.Errorf("lenient report = %v, want empty", report)
	}

	// Inexact conversions still fail the type check
	doc = types.Obj(map[string]types.Value{"count": types.F64(7.5), "ratio": types.F64(1)})
	if got := lenient.Validate(doc).Kinds(); !reflect.DeepEqual(got, []ViolationKind{KindType}) {
		t.Errorf("lenient kinds = %v, want [type]", got)
	}
}
