// internal/rules/schema_test.go
package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/valkeeper/internal/types"
)

func TestSchemaDefaults(t *testing.T) {
	tests := []struct {
		name     string
		schema   Schema
		kind     SchemaKind
		value    types.Kind
		required bool
	}{
		{name: "bool", schema: NewBoolValidation(), kind: SchemaBool, value: types.KindBool, required: true},
		{name: "numu", schema: NewNumUValidation(), kind: SchemaNumU, value: types.KindU64, required: true},
		{name: "numi", schema: NewNumIValidation(), kind: SchemaNumI, value: types.KindI64, required: true},
		{name: "numf", schema: NewNumFValidation(), kind: SchemaNumF, value: types.KindF64, required: true},
		{name: "str", schema: NewStrValidation(), kind: SchemaStr, value: types.KindStr, required: true},
		{name: "date", schema: NewDateValidation(), kind: SchemaDate, value: types.KindStr, required: true},
		{name: "datetime", schema: NewDateTimeValidation(), kind: SchemaDateTime, value: types.KindStr, required: true},
		{name: "email", schema: NewEmailValidation(), kind: SchemaEmail, value: types.KindStr, required: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.schema.SchemaKind(); got != tt.kind {
				t.Errorf("SchemaKind() = %v, want %v", got, tt.kind)
			}
			if got := tt.schema.SchemaKind().ValueKind(); got != tt.value {
				t.Errorf("ValueKind() = %v, want %v", got, tt.value)
			}
			if got := tt.schema.IsRequired(); got != tt.required {
				t.Errorf("IsRequired() = %v, want %v", got, tt.required)
			}
			if _, ok := operationOf(tt.schema); ok {
				t.Errorf("default schema has an operation")
			}
			parsed, ok := ParseSchemaKind(tt.kind.String())
			if !ok || parsed != tt.kind {
				t.Errorf("ParseSchemaKind(%q) = %v, %v", tt.kind.String(), parsed, ok)
			}
		})
	}
}

func TestBuilders_WrapTypedOperands(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		want   Operation
	}{
		{name: "numu eq", schema: NewNumUValidation().Eq(3), want: Eq(Lit(U64Value(3)))},
		{name: "numi eq", schema: NewNumIValidation().Eq(-1), want: Eq(Lit(I64Value(-1)))},
		{name: "numf gt", schema: NewNumFValidation().Gt(0.5), want: Gt(Lit(F64Value(0.5)))},
		{name: "str le", schema: NewStrValidation().Le("m"), want: Le(Lit(StrValue("m")))},
		{name: "date gt", schema: NewDateValidation().Gt("2026-08-12"), want: Gt(Lit(StrValue("2026-08-12")))},
		{name: "datetime lt", schema: NewDateTimeValidation().Lt("2026-08-12T10:00Z"), want: Lt(Lit(StrValue("2026-08-12T10:00Z")))},
		{name: "numi btwn", schema: NewNumIValidation().Btwn(0, 10), want: Btwn(Lit(I64Value(0)), Lit(I64Value(10)))},
		{name: "numi btwn field", schema: NewNumIValidation().BtwnField("info.min", "info.max"), want: Btwn(Ref("info.min"), Ref("info.max"))},
		{name: "numu ge field", schema: NewNumUValidation().GeField("limits.floor"), want: Ge(Ref("limits.floor"))},
		{name: "date ne field", schema: NewDateValidation().NeField("holiday"), want: Ne(Ref("holiday"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := operationOf(tt.schema)
			if !ok {
				t.Fatalf("operationOf() ok = false")
			}
			if got != tt.want {
				t.Errorf("operation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilders_ReceiverUnchanged(t *testing.T) {
	base := NewStrValidation()
	_ = base.Eq("x").Optional().MinLength(3).Match("^a")

	if base != NewStrValidation() {
		t.Errorf("builder modified receiver: %+v", base)
	}

	email := NewEmailValidation()
	required := email.Require()
	if email.IsRequired() || !required.IsRequired() {
		t.Errorf("Require() = %v on copy, %v on receiver", required.IsRequired(), email.IsRequired())
	}
}

// Property-based test: the last operation builder wins
func TestBuilders_PropertyLastCallWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("numi eq(v).ne(w) equals default with ne(w)", prop.ForAll(
		func(v, w int64) bool {
			got := NewNumIValidation().Eq(v).Ne(w)
			return got == NewNumIValidation().WithOperation(Ne(Lit(I64Value(w))))
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("str gt(v).btwn(a, b) equals default with btwn(a, b)", prop.ForAll(
		func(v, a, b string) bool {
			got := NewStrValidation().Gt(v).Btwn(a, b)
			return got == NewStrValidation().WithOperation(Btwn(Lit(StrValue(a)), Lit(StrValue(b))))
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("numu field ref replaces literal", prop.ForAll(
		func(v uint64) bool {
			got := NewNumUValidation().Le(v).LtField("cap")
			return got == NewNumUValidation().WithOperation(Lt(Ref("cap")))
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{op: Operation{}, want: ""},
		{op: Eq(Lit(I64Value(-1))), want: "eq -1"},
		{op: Btwn(Lit(U64Value(0)), Ref("info.max")), want: "btwn 0 $info.max"},
		{op: Gt(Lit(StrValue("2026-08-12"))), want: `gt "2026-08-12"`},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
