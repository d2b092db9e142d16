package types_test

import (
	"testing"

	"github.com/velalang/vela/internal/types"
)

func TestAliasResolution(t *testing.T) {
	r := types.NewRegistry()

	if r.Int.Resolve() != r.I32 {
		t.Errorf("int resolves to %s", r.Int.Resolve())
	}
	if r.Usize.Resolve() != r.U64 {
		t.Errorf("usize resolves to %s", r.Usize.Resolve())
	}
	if !types.Equals(r.Int, r.I32) {
		t.Error("int and i32 should compare equal")
	}

	size := r.RegisterAlias("Size", r.U64)
	if !types.Equals(size, r.Usize) {
		t.Error("aliases of the same primitive should compare equal")
	}
	if r.Lookup("Size") != size {
		t.Error("alias not registered under its name")
	}
}

func TestArrayAndRefEquality(t *testing.T) {
	r := types.NewRegistry()

	a := r.NewArray(r.I32, 0, false)
	b := r.NewArray(r.Int, 0, false)
	if !types.Equals(a, b) {
		t.Error("i32[] and int[] should compare equal")
	}

	// An unsized array annotation accepts arrays of any length.
	sized := r.NewArray(r.I32, 4, true)
	if !types.Equals(a, sized) {
		t.Error("unsized array should match a sized one")
	}
	if types.Equals(sized, r.NewArray(r.I32, 8, true)) {
		t.Error("arrays of different sizes should differ")
	}

	rm := r.NewRef(r.I32, true)
	ri := r.NewRef(r.I32, false)
	if types.Equals(rm, ri) {
		t.Error("ref<mut T> and ref<T> should differ")
	}
	if !types.Equals(rm, r.NewRef(r.Int, true)) {
		t.Error("ref targets should compare through aliases")
	}
}

func TestInternObjectLiteral(t *testing.T) {
	r := types.NewRegistry()

	shape := []types.Property{{Name: "x", Type: r.I32}, {Name: "y", Type: r.Double}}
	first := r.InternObjectLiteral(shape)
	second := r.InternObjectLiteral([]types.Property{{Name: "x", Type: r.Int}, {Name: "y", Type: r.Double}})

	if first != second {
		t.Error("the same shape should intern to the same pointer")
	}
	if first.Name != "Object_0" {
		t.Errorf("interned name = %q", first.Name)
	}

	other := r.InternObjectLiteral([]types.Property{{Name: "x", Type: r.I32}})
	if other == first {
		t.Error("a different shape interned to the same type")
	}
	if other.Name != "Object_1" {
		t.Errorf("second interned name = %q", other.Name)
	}
	if r.FindStructType("Object_0") != nil {
		t.Error("interned object types must not surface as structs")
	}
}

func TestCreateStructTypeDuplicate(t *testing.T) {
	r := types.NewRegistry()

	first, dup := r.CreateStructType("Point", []types.Property{{Name: "x", Type: r.I32}}, nil)
	if dup {
		t.Fatal("first registration flagged as duplicate")
	}
	second, dup := r.CreateStructType("Point", nil, nil)
	if !dup {
		t.Fatal("second registration not flagged")
	}
	if second != first {
		t.Error("duplicate should return the original type")
	}
	if r.FindStructType("Point") != first {
		t.Error("struct not findable by name")
	}
}

func TestMangleName(t *testing.T) {
	r := types.NewRegistry()

	name := r.MangleName("add", []*types.TypeInfo{r.Int, r.Double})
	if name != "add_int_double" {
		t.Errorf("mangled = %q", name)
	}

	arr := r.NewArray(r.I32, 0, false)
	name = r.MangleName("sum", []*types.TypeInfo{arr})
	if name != "sum_i32__" {
		t.Errorf("array param mangled = %q", name)
	}

	r.SetModulePrefix("geo")
	name = r.MangleName("dist", []*types.TypeInfo{r.Double})
	if name != "geo__dist_double" {
		t.Errorf("prefixed mangled = %q", name)
	}
}

func TestSpecializationDedup(t *testing.T) {
	r := types.NewRegistry()
	fn := &types.FunctionType{Params: []*types.TypeInfo{r.Unknown}}

	spec := r.AddSpecialization(fn, "id_int", []*types.TypeInfo{r.Int}, r.Int, nil)
	if spec == nil {
		t.Fatal("first specialization rejected")
	}
	if r.AddSpecialization(fn, "id_i32", []*types.TypeInfo{r.I32}, r.I32, nil) != nil {
		t.Error("alias-equal parameter list not deduplicated")
	}
	if r.AddSpecialization(fn, "id_double", []*types.TypeInfo{r.Double}, r.Double, nil) == nil {
		t.Error("distinct parameter list rejected")
	}
	if r.SpecializationCount() != 2 {
		t.Errorf("count = %d, want 2", r.SpecializationCount())
	}
}

func TestFindSpecialization(t *testing.T) {
	r := types.NewRegistry()
	fn := &types.FunctionType{}
	r.AddSpecialization(fn, "f_int", []*types.TypeInfo{r.Int}, r.Int, nil)

	if got := r.FindSpecialization(fn, []*types.TypeInfo{r.I32}); got == nil || got.Name != "f_int" {
		t.Fatalf("lookup by alias-equal type = %v", got)
	}
	if r.FindSpecialization(fn, []*types.TypeInfo{r.Double}) != nil {
		t.Error("found a specialization for unmatched args")
	}

	// A bare T argument satisfies a ref<T> parameter and vice versa.
	refFn := &types.FunctionType{}
	r.AddSpecialization(refFn, "g_ref", []*types.TypeInfo{r.NewRef(r.I32, true)}, r.Void, nil)
	if r.FindSpecialization(refFn, []*types.TypeInfo{r.I32}) == nil {
		t.Error("bare argument did not match ref parameter")
	}
}

func TestFindSpecializationVariadic(t *testing.T) {
	r := types.NewRegistry()
	fn := &types.FunctionType{Variadic: true}
	r.AddSpecialization(fn, "print", []*types.TypeInfo{}, r.Void, nil)

	if r.FindSpecialization(fn, []*types.TypeInfo{r.Int, r.String, r.Bool}) == nil {
		t.Error("variadic call with extra args did not match")
	}
	if r.FindSpecialization(fn, nil) == nil {
		t.Error("variadic call with no args did not match")
	}
}

func TestTypePredicates(t *testing.T) {
	r := types.NewRegistry()

	if !r.U8.IsInteger() || r.Double.IsInteger() {
		t.Error("IsInteger wrong")
	}
	if !r.Double.IsFloat() || r.I64.IsFloat() {
		t.Error("IsFloat wrong")
	}
	if !r.Int.IsNumeric() || r.String.IsNumeric() {
		t.Error("IsNumeric wrong")
	}
	if !r.Bool.IsBool() || !r.String.IsString() || !r.Void.IsVoid() {
		t.Error("basic predicates wrong")
	}
	if !r.Unknown.IsUnknown() || r.I32.IsUnknown() {
		t.Error("IsUnknown wrong")
	}
}

func TestTypeString(t *testing.T) {
	r := types.NewRegistry()

	tests := []struct {
		ti   *types.TypeInfo
		want string
	}{
		{r.I32, "i32"},
		{r.Int, "int"},
		{r.NewArray(r.U8, 0, false), "u8[]"},
		{r.NewArray(r.U8, 16, true), "u8[]"},
		{r.NewRef(r.I32, false), "ref<i32>"},
		{r.NewRef(r.I32, true), "ref<mut i32>"},
	}
	for _, tt := range tests {
		if got := tt.ti.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
