// internal/rules/fieldpath_test.go
package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/valkeeper/internal/types"
)

func TestParsePath(t *testing.T) {
	maxDepthPath := strings.TrimSuffix(strings.Repeat("a.", types.MaxPathDepth), ".")

	tests := []struct {
		name    string
		path    string
		want    FieldPath
		wantErr error
	}{
		{name: "single segment", path: "age", want: FieldPath{"age"}},
		{name: "nested", path: "user.data.info.score", want: FieldPath{"user", "data", "info", "score"}},
		{name: "empty", path: "", wantErr: types.ErrEmptyPath},
		{name: "leading dot", path: ".user", wantErr: types.ErrEmptySegment},
		{name: "trailing dot", path: "user.", wantErr: types.ErrEmptySegment},
		{name: "double dot", path: "user..age", wantErr: types.ErrEmptySegment},
		{name: "too deep", path: strings.Repeat("a.", types.MaxPathDepth) + "a", wantErr: types.ErrPathTooDeep},
		{name: "max depth", path: maxDepthPath, want: FieldPath(strings.Split(maxDepthPath, "."))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) error = %v, want nil", tt.path, err)
			}
			if got.String() != tt.want.String() {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	root := types.Obj(map[string]types.Value{
		"user": types.Obj(map[string]types.Value{
			"age":   types.I64(42),
			"tags":  types.Strs("a", "b"),
			"email": types.None(),
			"info":  types.Obj(map[string]types.Value{"score": types.F64(9.5)}),
		}),
		"count": types.U64(3),
	})

	tests := []struct {
		name    string
		path    string
		want    types.Value
		wantErr error
	}{
		{name: "top level", path: "count", want: types.U64(3)},
		{name: "nested", path: "user.age", want: types.I64(42)},
		{name: "deep", path: "user.info.score", want: types.F64(9.5)},
		{name: "object leaf", path: "user.info", want: types.Obj(map[string]types.Value{"score": types.F64(9.5)})},
		{name: "none leaf", path: "user.email", want: types.None()},
		{name: "missing key", path: "user.name", wantErr: types.ErrFieldNotFound},
		{name: "crosses scalar", path: "count.value", wantErr: types.ErrFieldNotFound},
		{name: "crosses array", path: "user.tags.0", wantErr: types.ErrFieldNotFound},
		{name: "crosses none", path: "user.email.domain", wantErr: types.ErrFieldNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath(%q) error = %v", tt.path, err)
			}
			got, err := Resolve(segs, root)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v, want nil", tt.path, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_EmptyAndTooDeep(t *testing.T) {
	if _, err := Resolve(nil, types.None()); !errors.Is(err, types.ErrEmptyPath) {
		t.Errorf("Resolve(nil) error = %v, want ErrEmptyPath", err)
	}
	deep := make(FieldPath, types.MaxPathDepth+1)
	for i := range deep {
		deep[i] = "a"
	}
	if _, err := Resolve(deep, types.None()); !errors.Is(err, types.ErrPathTooDeep) {
		t.Errorf("Resolve(deep) error = %v, want ErrPathTooDeep", err)
	}
}

func TestLookup(t *testing.T) {
	root := types.MustFromNative(map[string]any{"info": map[string]any{"max": 10}})

	if v, ok := Lookup("info.max", root); !ok || !v.Equal(types.I64(10)) {
		t.Errorf("Lookup(info.max) = %v, %v, want 10, true", v, ok)
	}
	if _, ok := Lookup("info.min", root); ok {
		t.Errorf("Lookup(info.min) ok = true, want false")
	}
	if _, ok := Lookup("info..max", root); ok {
		t.Errorf("Lookup(info..max) ok = true, want false")
	}
}

// Property-based test: any path that crosses a scalar is unresolved
func TestResolve_PropertyCrossingScalarFails(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("paths through scalars never resolve", prop.ForAll(
		func(depth int, leaf int64) bool {
			// Build a chain a.a.a... ending in a scalar, then walk one past it
			value := types.I64(leaf)
			for i := 0; i < depth; i++ {
				value = types.Obj(map[string]types.Value{"a": value})
			}
			segs := make(FieldPath, depth+1)
			for i := range segs {
				segs[i] = "a"
			}

			_, err := Resolve(segs, value)
			return errors.Is(err, types.ErrFieldNotFound)
		},
		gen.IntRange(0, types.MaxPathDepth-1),
		gen.Int64(),
	))

	properties.Property("chains of objects resolve to the leaf", prop.ForAll(
		func(depth int, leaf string) bool {
			value := types.Str(leaf)
			for i := 0; i < depth; i++ {
				value = types.Obj(map[string]types.Value{"k": value})
			}
			segs := make(FieldPath, depth)
			for i := range segs {
				segs[i] = "k"
			}

			got, err := Resolve(segs, value)
			return err == nil && got.Equal(types.Str(leaf))
		},
		gen.IntRange(1, types.MaxPathDepth),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
