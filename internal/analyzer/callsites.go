package analyzer

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/types"
)

// specUnit is one specialization body awaiting (re-)inference. The
// scope is the parameter scope chained to the defining module's
// scope, so cloned bodies resolve globals of the module the function
// came from.
type specUnit struct {
	mc    moduleContext
	fs    *ast.FunctionStatement
	spec  *types.FunctionSpecialization
	scope *symbols.Scope
	body  *ast.BlockStatement
}

// analyzeCallSites re-walks the program creating specializations at
// every call whose argument types have become concrete.
func (a *Analyzer) analyzeCallSites(program *ast.Program) {
	a.inferProgram(program, modeSpecialize)
}

func (a *Analyzer) inferCall(mc moduleContext, scope *symbols.Scope, call *ast.CallExpression, mode inferMode) *types.TypeInfo {
	switch fn := call.Function.(type) {
	case *ast.Identifier:
		sym := scope.Resolve(fn.Value)
		if sym == nil {
			// A declared function named length shadows the builtin.
			if fn.Value == config.LengthFuncName {
				return a.inferLengthCall(mc, scope, call, mode)
			}
			a.inferArguments(mc, scope, call, nil, 0, mode)
			if mode == modeFinal {
				a.addError(diagnostics.ErrT303, fn.GetToken(),
					"undefined function %q", fn.Value)
			}
			return mc.reg.Unknown
		}
		if sym.Type == nil || sym.Type.Resolve().Kind != types.KindFunction {
			a.inferArguments(mc, scope, call, nil, 0, mode)
			if sym.Type != nil && !sym.Type.IsUnknown() {
				a.addError(diagnostics.ErrT322, fn.GetToken(),
					"%q is not callable", fn.Value)
			}
			return mc.reg.Unknown
		}
		return a.dispatchCall(mc, mc, scope, call, sym.Type.Resolve().Function, nil, mode)

	case *ast.MemberExpression:
		return a.inferMemberCall(mc, scope, call, fn, mode)

	default:
		t := a.inferExpression(mc, scope, call.Function, nil, mode)
		a.inferArguments(mc, scope, call, nil, 0, mode)
		if !t.IsUnknown() {
			a.addError(diagnostics.ErrT322, call.GetToken(),
				"%s is not callable", t)
		}
		return mc.reg.Unknown
	}
}

// inferLengthCall types the free-function form of length, resolving
// the container through the same trait as the member form.
func (a *Analyzer) inferLengthCall(mc moduleContext, scope *symbols.Scope, call *ast.CallExpression, mode inferMode) *types.TypeInfo {
	if len(call.Arguments) != 1 {
		a.addError(diagnostics.ErrT304, call.GetToken(),
			"%s takes one argument, got %d", config.LengthFuncName, len(call.Arguments))
		return mc.reg.Unknown
	}
	t := a.inferExpression(mc, scope, call.Arguments[0], nil, mode)
	if t.IsUnknown() {
		return mc.reg.Unknown
	}
	obj := t.Resolve()
	if obj.Kind == types.KindRef {
		obj = obj.Ref.Target.Resolve()
	}
	impl := mc.tr.EnsureLengthImpl(obj)
	if impl == nil {
		a.addError(diagnostics.ErrT310, call.GetToken(),
			"%s is not defined for %s", config.LengthFuncName, t)
		return mc.reg.Unknown
	}
	return impl.AssocBindings["Output"]
}

func (a *Analyzer) inferMemberCall(mc moduleContext, scope *symbols.Scope, call *ast.CallExpression, fn *ast.MemberExpression, mode inferMode) *types.TypeInfo {
	if ident, ok := fn.Object.(*ast.Identifier); ok {
		if sym := scope.Resolve(ident.Value); sym != nil && sym.Kind == symbols.NamespaceSymbol {
			return a.inferNamespaceCall(mc, scope, call, ident, fn.Property, mode)
		}
		if t := enumTypeNamed(mc, scope, ident.Value); t != nil {
			return a.inferVariantConstruction(mc, scope, call, t, fn.Property, mode)
		}
	}

	// Method call on a value: resolve the receiver-qualified symbol
	// in the defining module.
	objType := a.inferExpression(mc, scope, fn.Object, nil, mode)
	obj := objType.Resolve()
	if obj.Kind == types.KindRef {
		obj = obj.Ref.Target.Resolve()
	}
	if obj.Kind == types.KindObject && obj.Name != "" {
		qual := obj.Name + "." + fn.Property.Value
		target := mc
		msym := mc.scope.Resolve(qual)
		if msym == nil {
			for _, mod := range mc.imports {
				if s := mod.FindExport(qual); s != nil {
					msym = s
					target = moduleContextFor(mod)
					break
				}
			}
		}
		if msym != nil && msym.Type != nil && msym.Type.Resolve().Kind == types.KindFunction {
			return a.dispatchCall(mc, target, scope, call, msym.Type.Resolve().Function, objType, mode)
		}
	}

	// Calling a function-typed member.
	mt := a.inferMember(mc, scope, fn, mode)
	if mt.Resolve().Kind == types.KindFunction {
		return a.dispatchCall(mc, mc, scope, call, mt.Resolve().Function, nil, mode)
	}
	a.inferArguments(mc, scope, call, nil, 0, mode)
	if !mt.IsUnknown() && mode == modeFinal {
		a.addError(diagnostics.ErrT322, fn.Property.GetToken(),
			"%q is not callable", fn.Property.Value)
	}
	return mc.reg.Unknown
}

// inferNamespaceCall dispatches ns.f(args) into the imported module.
// The specialization is recorded in the imported module's registry
// and typed under the imported module's scope.
func (a *Analyzer) inferNamespaceCall(mc moduleContext, scope *symbols.Scope, call *ast.CallExpression, ns *ast.Identifier, prop *ast.Identifier, mode inferMode) *types.TypeInfo {
	mod := mc.imports[ns.Value]
	if mod == nil {
		a.inferArguments(mc, scope, call, nil, 0, mode)
		return mc.reg.Unknown
	}
	exp := mod.FindExport(prop.Value)
	if exp == nil {
		a.inferArguments(mc, scope, call, nil, 0, mode)
		a.addError(diagnostics.ErrM003, prop.GetToken(),
			"module %q does not export %q", ns.Value, prop.Value)
		return mc.reg.Unknown
	}
	if exp.Type == nil || exp.Type.Resolve().Kind != types.KindFunction {
		a.inferArguments(mc, scope, call, nil, 0, mode)
		a.addError(diagnostics.ErrT322, prop.GetToken(),
			"%s.%s is not callable", ns.Value, prop.Value)
		return mc.reg.Unknown
	}
	return a.dispatchCall(mc, moduleContextFor(mod), scope, call, exp.Type.Resolve().Function, nil, mode)
}

// inferVariantConstruction types Enum.Variant(args) against the
// variant's declared payload.
func (a *Analyzer) inferVariantConstruction(mc moduleContext, scope *symbols.Scope, call *ast.CallExpression, enumType *types.TypeInfo, prop *ast.Identifier, mode inferMode) *types.TypeInfo {
	variant := findVariant(enumType, prop.Value)
	if variant == nil {
		a.inferArguments(mc, scope, call, nil, 0, mode)
		a.addError(diagnostics.ErrT316, prop.GetToken(),
			"enum %s has no variant %q", enumType.Name, prop.Value)
		return mc.reg.Unknown
	}
	if len(call.Arguments) != len(variant.Fields) {
		a.inferArguments(mc, scope, call, nil, 0, mode)
		a.addError(diagnostics.ErrT304, call.GetToken(),
			"variant %s.%s takes %d values, got %d",
			enumType.Name, variant.Name, len(variant.Fields), len(call.Arguments))
		return enumType
	}
	for i, arg := range call.Arguments {
		ft := variant.Fields[i].Type
		at := a.inferExpression(mc, scope, arg, ft, mode)
		if !a.assignable(ft, at) {
			a.addError(diagnostics.ErrT307, arg.GetToken(),
				"value %d of %s.%s requires %s, got %s",
				i+1, enumType.Name, variant.Name, ft, at)
		}
	}
	return enumType
}

// inferArguments types the call's arguments. Expected types, when
// provided, guide literal typing; offset skips the implicit self slot
// of the expected list.
func (a *Analyzer) inferArguments(mc moduleContext, scope *symbols.Scope, call *ast.CallExpression, expected []*types.TypeInfo, offset int, mode inferMode) []*types.TypeInfo {
	out := make([]*types.TypeInfo, 0, len(call.Arguments))
	for i, arg := range call.Arguments {
		var want *types.TypeInfo
		if i+offset < len(expected) && !expected[i+offset].IsUnknown() {
			want = expected[i+offset]
		}
		out = append(out, a.inferExpression(mc, scope, arg, want, mode))
	}
	return out
}

// dispatchCall resolves a call against a function's specializations,
// creating one during the specialization pass when the argument types
// are concrete. selfType, when set, is injected as the leading
// argument of a method call.
func (a *Analyzer) dispatchCall(mc, target moduleContext, scope *symbols.Scope, call *ast.CallExpression, fn *types.FunctionType, selfType *types.TypeInfo, mode inferMode) *types.TypeInfo {
	fs, _ := fn.Decl.(*ast.FunctionStatement)

	offset := 0
	argTypes := make([]*types.TypeInfo, 0, len(call.Arguments)+1)
	if selfType != nil {
		offset = 1
		argTypes = append(argTypes, selfType)
	}
	argTypes = append(argTypes, a.inferArguments(mc, scope, call, fn.Params, offset, mode)...)

	// Trailing omitted parameters fall back to declared defaults,
	// evaluated in the defining module.
	if !fn.Variadic && len(argTypes) < len(fn.Params) && fs != nil {
		for i := len(argTypes); i < len(fs.Params); i++ {
			d := fs.Params[i].Default
			if d == nil {
				break
			}
			argTypes = append(argTypes, a.inferExpression(target, target.scope, d, fn.Params[i], mode))
		}
	}

	if fn.Variadic {
		if len(argTypes) < len(fn.Params)-1 {
			a.addError(diagnostics.ErrT304, call.GetToken(),
				"%s expects at least %d arguments, got %d",
				callName(fn, fs), len(fn.Params)-1, len(argTypes))
			return mc.reg.Unknown
		}
	} else if len(argTypes) != len(fn.Params) {
		a.addError(diagnostics.ErrT304, call.GetToken(),
			"%s expects %d arguments, got %d",
			callName(fn, fs), len(fn.Params), len(argTypes))
		return mc.reg.Unknown
	}

	for _, t := range argTypes {
		if t.IsUnknown() {
			if mode == modeFinal && !fn.FullyTyped {
				a.addError(diagnostics.ErrT318, call.GetToken(),
					"argument types of this call never became concrete")
			}
			if fn.FullyTyped {
				break
			}
			return mc.reg.Unknown
		}
	}

	if fn.FullyTyped {
		// The eager specialization under the original name serves
		// every call; arguments only need to be assignable.
		for i := offset; i < len(fn.Params) && i < len(argTypes); i++ {
			if a.assignable(fn.Params[i], argTypes[i]) {
				continue
			}
			tok := call.GetToken()
			if i-offset < len(call.Arguments) {
				tok = call.Arguments[i-offset].GetToken()
			}
			a.addError(diagnostics.ErrT314, tok,
				"argument %d requires %s, got %s", i+1-offset, fn.Params[i], argTypes[i])
		}
		if spec := target.reg.FindSpecialization(fn, fn.Params); spec != nil {
			call.ResolvedName = spec.Name
			if spec.ReturnType != nil && !spec.ReturnType.IsUnknown() {
				return spec.ReturnType
			}
		}
		if fn.Return != nil && !fn.Return.IsUnknown() {
			return fn.Return
		}
		return mc.reg.Unknown
	}

	spec := target.reg.FindSpecialization(fn, argTypes)
	if spec == nil && mode == modeSpecialize && fs != nil && !fn.External {
		spec = a.specialize(target, fn, fs, argTypes, target.reg.MangleName(fs.SymbolName(), argTypes))
	}
	if spec == nil {
		if mode == modeFinal {
			a.addError(diagnostics.ErrT303, call.GetToken(),
				"no matching form of %s for the given argument types", callName(fn, fs))
		}
		return mc.reg.Unknown
	}
	call.ResolvedName = spec.Name
	if spec.ReturnType == nil || spec.ReturnType.IsUnknown() {
		return mc.reg.Unknown
	}
	return spec.ReturnType
}

func callName(fn *types.FunctionType, fs *ast.FunctionStatement) string {
	if fs != nil {
		return fs.SymbolName()
	}
	return "function"
}

// specialize clones the function body and records a specialization
// for one argument type list. The body is typed by the specWork loop
// of the running pass, under a fresh parameter scope chained to the
// defining module's scope.
func (a *Analyzer) specialize(target moduleContext, fn *types.FunctionType, fs *ast.FunctionStatement, argTypes []*types.TypeInfo, name string) *types.FunctionSpecialization {
	body := ast.CloneBlock(fs.Body)

	ret := target.reg.Unknown
	if fs.ReturnType != nil {
		ret = a.resolveTypeIn(target, fs.ReturnType)
	}

	spec := target.reg.AddSpecialization(fn, name, argTypes, ret, body)
	if spec == nil {
		return target.reg.FindSpecialization(fn, argTypes)
	}

	paramScope := symbols.NewScope(target.scope, symbols.FunctionScope)
	for i, p := range fs.Params {
		t := target.reg.Unknown
		if i < len(argTypes) {
			t = argTypes[i]
		}
		paramScope.Declare(&symbols.Symbol{
			Name:       p.Name.Value,
			Kind:       symbols.ParameterSymbol,
			Type:       t,
			Decl:       p,
			ParamIndex: i,
		})
	}

	a.specWork = append(a.specWork, &specUnit{
		mc:    target,
		fs:    fs,
		spec:  spec,
		scope: paramScope,
		body:  body,
	})
	return spec
}

// updateSpecReturn reconciles a specialization's return type with its
// body after a pass over it.
func (a *Analyzer) updateSpecReturn(u *specUnit, mode inferMode) {
	inferred := a.returnTypeOf(u)

	if u.fs.ReturnType != nil {
		declared := u.spec.ReturnType
		if declared != nil && !declared.IsUnknown() &&
			inferred != nil && !inferred.IsUnknown() && !a.assignable(declared, inferred) {
			a.addError(diagnostics.ErrT313, u.fs.GetToken(),
				"%s returns %s, declared %s", u.spec.Name, inferred, declared)
		}
		return
	}
	u.spec.ReturnType = inferred
}

// returnTypeOf joins the types of every return statement in the
// body. A body without returns is void. Returns whose type has not
// settled yet are skipped, so a recursive call does not block the
// non-recursive branch from fixing the type; the skipped ones are
// checked on the next round.
func (a *Analyzer) returnTypeOf(u *specUnit) *types.TypeInfo {
	reg := u.mc.reg
	var result *types.TypeInfo
	found := false

	var walkStatement func(s ast.Statement)
	walkStatement = func(s ast.Statement) {
		switch s := s.(type) {
		case *ast.ReturnStatement:
			found = true
			t := reg.Void
			if s.Value != nil {
				t = s.Value.GetType()
			}
			if t == nil || t.IsUnknown() {
				return
			}
			switch {
			case result == nil:
				result = t
			case types.Equals(result, t):
			case result.IsInteger() && t.IsFloat():
				result = reg.Double
			case result.IsFloat() && t.IsInteger():
			default:
				a.addError(diagnostics.ErrT313, s.GetToken(),
					"return type %s conflicts with %s", t, result)
			}
		case *ast.BlockStatement:
			for _, inner := range s.Statements {
				walkStatement(inner)
			}
		case *ast.IfStatement:
			walkStatement(s.Then)
			if s.Else != nil {
				walkStatement(s.Else)
			}
		case *ast.WhileStatement:
			walkStatement(s.Body)
		case *ast.ForStatement:
			walkStatement(s.Body)
		}
	}
	for _, s := range u.body.Statements {
		walkStatement(s)
	}

	if !found {
		return reg.Void
	}
	if result == nil {
		return reg.Unknown
	}
	return result
}
