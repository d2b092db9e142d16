package types

import (
	"fmt"
	"strings"
)

// Registry owns every type of one module, including the primitive
// singletons. Two registries never share TypeInfo pointers except
// through explicit cross-module lookups.
type Registry struct {
	byName  map[string]*TypeInfo
	ordered []*TypeInfo

	nextAnonymousID     int
	specializationCount int
	modulePrefix        string

	I8, I16, I32, I64 *TypeInfo
	U8, U16, U32, U64 *TypeInfo
	Int, Uint, Usize  *TypeInfo
	Double            *TypeInfo
	String            *TypeInfo
	Bool              *TypeInfo
	Void              *TypeInfo
	Unknown           *TypeInfo
}

func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*TypeInfo)}

	prim := func(name string, width int, signed, float bool) *TypeInfo {
		t := &TypeInfo{
			Kind:      KindPrimitive,
			Name:      name,
			Primitive: &PrimitiveType{BitWidth: width, Signed: signed, Float: float},
		}
		r.register(t)
		return t
	}

	r.I8 = prim("i8", 8, true, false)
	r.I16 = prim("i16", 16, true, false)
	r.I32 = prim("i32", 32, true, false)
	r.I64 = prim("i64", 64, true, false)
	r.U8 = prim("u8", 8, false, false)
	r.U16 = prim("u16", 16, false, false)
	r.U32 = prim("u32", 32, false, false)
	r.U64 = prim("u64", 64, false, false)
	r.Double = prim("double", 64, true, true)
	r.String = prim("string", 0, false, false)
	r.Bool = prim("bool", 1, false, false)
	r.Void = prim("void", 0, false, false)
	r.Unknown = &TypeInfo{Kind: KindUnknown, Name: "unknown"}
	r.register(r.Unknown)

	r.Int = r.RegisterAlias("int", r.I32)
	r.Uint = r.RegisterAlias("uint", r.U32)
	r.Usize = r.RegisterAlias("usize", r.U64)

	return r
}

// SetModulePrefix sets the prefix used when mangling specialization
// names for this module.
func (r *Registry) SetModulePrefix(prefix string) {
	r.modulePrefix = prefix
}

func (r *Registry) ModulePrefix() string {
	return r.modulePrefix
}

func (r *Registry) register(t *TypeInfo) {
	if t.Name != "" {
		r.byName[t.Name] = t
	}
	r.ordered = append(r.ordered, t)
}

// Lookup finds a named type, following no aliases.
func (r *Registry) Lookup(name string) *TypeInfo {
	return r.byName[name]
}

func (r *Registry) RegisterAlias(name string, target *TypeInfo) *TypeInfo {
	t := &TypeInfo{Kind: KindAlias, Name: name, AliasOf: target}
	r.register(t)
	return t
}

// NewArray builds an array type. Array types are compared
// structurally, so they are not interned by name.
func (r *Registry) NewArray(elem *TypeInfo, size int64, hasSize bool) *TypeInfo {
	return &TypeInfo{
		Kind:  KindArray,
		Array: &ArrayType{Elem: elem, Size: size, HasSize: hasSize},
	}
}

func (r *Registry) NewRef(target *TypeInfo, mutable bool) *TypeInfo {
	return &TypeInfo{
		Kind: KindRef,
		Ref:  &RefType{Target: target, Mutable: mutable},
	}
}

// InternObjectLiteral returns the registry's canonical type for an
// anonymous object shape, creating and naming it Object_N on first
// sight. The same shape always yields the same pointer.
func (r *Registry) InternObjectLiteral(props []Property) *TypeInfo {
	candidate := &TypeInfo{
		Kind:   KindObject,
		Object: &ObjectType{Properties: props, Anonymous: true},
	}
	for _, t := range r.ordered {
		if t.Kind == KindObject && t.Object.Anonymous && Equals(t, candidate) {
			return t
		}
	}
	candidate.Name = fmt.Sprintf("Object_%d", r.nextAnonymousID)
	r.nextAnonymousID++
	r.register(candidate)
	return candidate
}

// CreateStructType registers a named struct type. Declaring the same
// name twice returns the already registered type and reports the
// duplicate through the second result.
func (r *Registry) CreateStructType(name string, props []Property, decl DeclRef) (*TypeInfo, bool) {
	if existing := r.byName[name]; existing != nil {
		return existing, true
	}
	t := &TypeInfo{
		Kind:   KindObject,
		Name:   name,
		Object: &ObjectType{Properties: props, Decl: decl},
	}
	r.register(t)
	return t, false
}

// FindStructType finds a declared struct by name. Interned anonymous
// object types are excluded.
func (r *Registry) FindStructType(name string) *TypeInfo {
	if strings.HasPrefix(name, "Object_") {
		return nil
	}
	t := r.byName[name]
	if t == nil || t.Resolve().Kind != KindObject {
		return nil
	}
	return t
}

// CreateEnumType registers a named enum type with its variants.
func (r *Registry) CreateEnumType(name string, variants []*EnumVariant, decl DeclRef) (*TypeInfo, bool) {
	if existing := r.byName[name]; existing != nil {
		return existing, true
	}
	t := &TypeInfo{
		Kind: KindEnum,
		Name: name,
		Enum: &EnumType{Variants: variants, Decl: decl},
	}
	r.register(t)
	return t, false
}

// ArgumentTypesMatch reports whether got satisfies want positionally.
// Aliases are resolved and a bare T matches ref<T>.
func ArgumentTypesMatch(want, got []*TypeInfo) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if !argTypeMatches(want[i], got[i]) {
			return false
		}
	}
	return true
}

func argTypeMatches(want, got *TypeInfo) bool {
	w, g := want.Resolve(), got.Resolve()
	if Equals(w, g) {
		return true
	}
	if w.Kind == KindRef && Equals(w.Ref.Target, g) {
		return true
	}
	if g.Kind == KindRef && Equals(w, g.Ref.Target) {
		return true
	}
	return false
}

func sanitizeTypeName(name string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", "[", "_", "]", "_", " ", "")
	return repl.Replace(name)
}

// MangleName builds the specialized function name for a parameter
// type list: [prefix__]name_t1_t2.
func (r *Registry) MangleName(base string, params []*TypeInfo) string {
	var sb strings.Builder
	if r.modulePrefix != "" {
		sb.WriteString(r.modulePrefix)
		sb.WriteString("__")
	}
	sb.WriteString(base)
	for _, p := range params {
		sb.WriteString("_")
		sb.WriteString(sanitizeTypeName(p.String()))
	}
	return sb.String()
}

// AddSpecialization records a specialization unless one with a
// structurally matching parameter list exists. It returns nil when
// the specialization was already present.
func (r *Registry) AddSpecialization(fn *FunctionType, name string, params []*TypeInfo, ret *TypeInfo, body DeclRef) *FunctionSpecialization {
	for _, s := range fn.Specializations {
		if ArgumentTypesMatch(s.ParamTypes, params) {
			return nil
		}
	}
	spec := &FunctionSpecialization{
		Name:       name,
		ParamTypes: params,
		ReturnType: ret,
		Body:       body,
	}
	fn.Specializations = append(fn.Specializations, spec)
	r.specializationCount++
	return spec
}

// FindSpecialization matches an argument type list against the
// recorded specializations. Variadic functions accept extra trailing
// arguments beyond the declared parameters.
func (r *Registry) FindSpecialization(fn *FunctionType, args []*TypeInfo) *FunctionSpecialization {
	for _, s := range fn.Specializations {
		if fn.Variadic {
			if len(args) >= len(s.ParamTypes) && ArgumentTypesMatch(s.ParamTypes, args[:len(s.ParamTypes)]) {
				return s
			}
			continue
		}
		if ArgumentTypesMatch(s.ParamTypes, args) {
			return s
		}
	}
	return nil
}

// SpecializationCount is the total number of specializations recorded
// in this registry. The discovery loop uses it to detect a fixed
// point.
func (r *Registry) SpecializationCount() int {
	return r.specializationCount
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []*TypeInfo {
	return r.ordered
}
