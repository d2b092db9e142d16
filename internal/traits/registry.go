package traits

import (
	"github.com/velalang/vela/internal/types"
)

// Trait is a named capability with optional type parameters and
// associated types. Binary operator traits carry one type parameter
// (the right-hand side) and an Output associated type.
type Trait struct {
	Name       string
	TypeParams []string
	AssocTypes []string
	Methods    []string
	Impls      []*Impl
}

// Impl binds a trait to an implementing type.
type Impl struct {
	Trait             *Trait
	ImplType          *types.TypeInfo
	TypeParamBindings []*types.TypeInfo
	AssocBindings     map[string]*types.TypeInfo
	Methods           map[string]types.DeclRef
}

type fromConversion struct {
	From *types.TypeInfo
	To   *types.TypeInfo
}

// Registry holds every trait and impl of one module, plus the From
// conversion table used by the index coercion search.
type Registry struct {
	traits map[string]*Trait
	froms  []fromConversion
	reg    *types.Registry
}

func NewRegistry(reg *types.Registry) *Registry {
	r := &Registry{
		traits: make(map[string]*Trait),
		reg:    reg,
	}
	r.installBuiltins()
	return r
}

func (r *Registry) RegisterTrait(t *Trait) {
	r.traits[t.Name] = t
}

func (r *Registry) LookupTrait(name string) *Trait {
	return r.traits[name]
}

// AddImpl records an impl on its trait.
func (r *Registry) AddImpl(impl *Impl) {
	impl.Trait.Impls = append(impl.Trait.Impls, impl)
}

// FindImpl finds the impl of a trait for an implementing type and
// type parameter bindings. Aliases resolve on both sides; the match
// itself is exact.
func (r *Registry) FindImpl(traitName string, implType *types.TypeInfo, typeParams ...*types.TypeInfo) *Impl {
	t := r.traits[traitName]
	if t == nil {
		return nil
	}
	for _, impl := range t.Impls {
		if !types.Equals(impl.ImplType, implType) {
			continue
		}
		if len(impl.TypeParamBindings) != len(typeParams) {
			continue
		}
		ok := true
		for i := range typeParams {
			if !types.Equals(impl.TypeParamBindings[i], typeParams[i]) {
				ok = false
				break
			}
		}
		if ok {
			return impl
		}
	}
	return nil
}

// BinaryOutput resolves a binary operator to its Output type for the
// given operand types.
func (r *Registry) BinaryOutput(op Operator, left, right *types.TypeInfo) (*types.TypeInfo, bool) {
	impl := r.FindImpl(op.Trait(), left, right)
	if impl == nil {
		return nil, false
	}
	out, ok := impl.AssocBindings["Output"]
	if !ok {
		return r.reg.Void, true
	}
	return out, true
}

// UnaryOutput resolves a unary operator the same way, without a type
// parameter.
func (r *Registry) UnaryOutput(op Operator, operand *types.TypeInfo) (*types.TypeInfo, bool) {
	impl := r.FindImpl(op.Trait(), operand)
	if impl == nil {
		return nil, false
	}
	out, ok := impl.AssocBindings["Output"]
	if !ok {
		return r.reg.Void, true
	}
	return out, true
}

func (r *Registry) addBinaryImpl(traitName string, impl, rhs, output *types.TypeInfo) {
	t := r.traits[traitName]
	r.AddImpl(&Impl{
		Trait:             t,
		ImplType:          impl,
		TypeParamBindings: []*types.TypeInfo{rhs},
		AssocBindings:     map[string]*types.TypeInfo{"Output": output},
	})
}

func (r *Registry) addUnaryImpl(traitName string, impl, output *types.TypeInfo) {
	t := r.traits[traitName]
	r.AddImpl(&Impl{
		Trait:         t,
		ImplType:      impl,
		AssocBindings: map[string]*types.TypeInfo{"Output": output},
	})
}

func (r *Registry) installBuiltins() {
	binary := func(name, method string) {
		r.RegisterTrait(&Trait{
			Name:       name,
			TypeParams: []string{"Rhs"},
			AssocTypes: []string{"Output"},
			Methods:    []string{method},
		})
	}
	unary := func(name, method string) {
		r.RegisterTrait(&Trait{
			Name:       name,
			AssocTypes: []string{"Output"},
			Methods:    []string{method},
		})
	}

	for op, info := range operatorTable {
		switch op {
		case OpNot, OpNeg, OpLength:
			unary(info.trait, info.method)
		default:
			binary(info.trait, info.method)
		}
	}

	reg := r.reg
	ints := []*types.TypeInfo{reg.I8, reg.I16, reg.I32, reg.I64, reg.U8, reg.U16, reg.U32, reg.U64}

	for _, t := range ints {
		for _, trait := range []string{"Add", "Sub", "Mul", "Div", "Rem", "BitAnd", "BitOr", "BitXor", "Shl", "Shr"} {
			r.addBinaryImpl(trait, t, t, t)
		}
		r.addBinaryImpl("Eq", t, t, reg.Bool)
		r.addBinaryImpl("Ord", t, t, reg.Bool)
		for _, trait := range []string{"AddAssign", "SubAssign", "MulAssign", "DivAssign"} {
			r.addBinaryImpl(trait, t, t, reg.Void)
		}
		r.addUnaryImpl("Neg", t, t)
		r.addUnaryImpl("Not", t, t)
	}

	for _, trait := range []string{"Add", "Sub", "Mul", "Div"} {
		r.addBinaryImpl(trait, reg.Double, reg.Double, reg.Double)
	}
	r.addBinaryImpl("Eq", reg.Double, reg.Double, reg.Bool)
	r.addBinaryImpl("Ord", reg.Double, reg.Double, reg.Bool)
	for _, trait := range []string{"AddAssign", "SubAssign", "MulAssign", "DivAssign"} {
		r.addBinaryImpl(trait, reg.Double, reg.Double, reg.Void)
	}
	r.addUnaryImpl("Neg", reg.Double, reg.Double)

	r.addBinaryImpl("Add", reg.String, reg.String, reg.String)
	r.addBinaryImpl("Eq", reg.String, reg.String, reg.Bool)
	r.addBinaryImpl("Ord", reg.String, reg.String, reg.Bool)

	r.addBinaryImpl("Eq", reg.Bool, reg.Bool, reg.Bool)
	r.addUnaryImpl("Not", reg.Bool, reg.Bool)

	// Widening conversions feed the index coercion search.
	for _, t := range ints {
		if t != reg.I32 {
			r.RegisterFrom(t, reg.I32)
		}
	}
	r.RegisterFrom(reg.I32, reg.I64)
	r.RegisterFrom(reg.U32, reg.U64)
	r.RegisterFrom(reg.I32, reg.Double)
}

// RegisterFrom records that a value of type from converts to type to.
func (r *Registry) RegisterFrom(from, to *types.TypeInfo) {
	for _, c := range r.froms {
		if types.Equals(c.From, from) && types.Equals(c.To, to) {
			return
		}
	}
	r.froms = append(r.froms, fromConversion{From: from, To: to})
}

// ConversionTargets returns every registered conversion target for a
// source type, in registration order.
func (r *Registry) ConversionTargets(from *types.TypeInfo) []*types.TypeInfo {
	var out []*types.TypeInfo
	for _, c := range r.froms {
		if types.Equals(c.From, from) {
			out = append(out, c.To)
		}
	}
	return out
}

// EnsureIndexImpl installs the implicit Index impl for container
// types that carry one: arrays index by int to their element type,
// strings index by int to u8. Returns the impl or nil.
func (r *Registry) EnsureIndexImpl(container *types.TypeInfo) *Impl {
	c := container.Resolve()
	switch {
	case c.Kind == types.KindArray:
		if impl := r.FindImpl(OpIndex.Trait(), c, r.reg.Int); impl != nil {
			return impl
		}
		r.addBinaryImpl(OpIndex.Trait(), c, r.reg.Int, c.Array.Elem)
		return r.FindImpl(OpIndex.Trait(), c, r.reg.Int)
	case c.IsString():
		if impl := r.FindImpl(OpIndex.Trait(), c, r.reg.Int); impl != nil {
			return impl
		}
		r.addBinaryImpl(OpIndex.Trait(), c, r.reg.Int, r.reg.U8)
		return r.FindImpl(OpIndex.Trait(), c, r.reg.Int)
	}
	return nil
}

// EnsureRefIndexImpl installs the implicit RefIndex impl for arrays.
func (r *Registry) EnsureRefIndexImpl(container *types.TypeInfo) *Impl {
	c := container.Resolve()
	if c.Kind != types.KindArray {
		return nil
	}
	if impl := r.FindImpl(OpRefIndex.Trait(), c, r.reg.Int); impl != nil {
		return impl
	}
	r.addBinaryImpl(OpRefIndex.Trait(), c, r.reg.Int, r.reg.NewRef(c.Array.Elem, true))
	return r.FindImpl(OpRefIndex.Trait(), c, r.reg.Int)
}

// EnsureLengthImpl installs the implicit Length impl for arrays and
// strings with Output u32.
func (r *Registry) EnsureLengthImpl(container *types.TypeInfo) *Impl {
	c := container.Resolve()
	if c.Kind != types.KindArray && !c.IsString() {
		return nil
	}
	if impl := r.FindImpl(OpLength.Trait(), c); impl != nil {
		return impl
	}
	r.addUnaryImpl(OpLength.Trait(), c, r.reg.U32)
	return r.FindImpl(OpLength.Trait(), c)
}

// RegisterEqForEnum gives an enum type equality against itself.
func (r *Registry) RegisterEqForEnum(enum *types.TypeInfo) {
	if r.FindImpl(OpEq.Trait(), enum, enum) == nil {
		r.addBinaryImpl(OpEq.Trait(), enum, enum, r.reg.Bool)
	}
}

// ResolveIndex resolves indexing container[key]. When the key type
// has no direct impl, registered From conversions from the key type
// are searched for exactly one convertible key that does. The second
// result is the converted key type, the third reports ambiguity.
func (r *Registry) ResolveIndex(container, key *types.TypeInfo) (out *types.TypeInfo, via *types.TypeInfo, ambiguous bool) {
	r.EnsureIndexImpl(container)
	if impl := r.FindImpl(OpIndex.Trait(), container.Resolve(), key); impl != nil {
		return impl.AssocBindings["Output"], nil, false
	}
	var candidates []*Impl
	var viaTypes []*types.TypeInfo
	for _, target := range r.ConversionTargets(key) {
		if impl := r.FindImpl(OpIndex.Trait(), container.Resolve(), target); impl != nil {
			candidates = append(candidates, impl)
			viaTypes = append(viaTypes, target)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, nil, false
	case 1:
		return candidates[0].AssocBindings["Output"], viaTypes[0], false
	default:
		return nil, nil, true
	}
}
