package analyzer

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/token"
	"github.com/velalang/vela/internal/traits"
	"github.com/velalang/vela/internal/types"
)

// inferMode selects how a walk over the program behaves. All modes
// type every node; modeSpecialize additionally creates
// specializations at resolvable call sites, and modeFinal reports
// what is still unresolved after the fixed point.
type inferMode int

const (
	modeInfer inferMode = iota
	modeSpecialize
	modeFinal
)

// moduleContext names the module whose scope, registries and imports
// an inference walk runs under. Cross-module specialization swaps in
// the target module's context.
type moduleContext struct {
	scope   *symbols.Scope
	reg     *types.Registry
	tr      *traits.Registry
	imports map[string]ModuleRef
}

func (a *Analyzer) ownContext() moduleContext {
	return moduleContext{scope: a.scope, reg: a.reg, tr: a.traits, imports: a.imports}
}

func moduleContextFor(mod ModuleRef) moduleContext {
	return moduleContext{
		scope: mod.ModuleScope(),
		reg:   mod.TypeRegistry(),
		tr:    mod.TraitRegistry(),
	}
}

func (a *Analyzer) inferTypes(program *ast.Program) {
	a.inferProgram(program, modeInfer)
}

func (a *Analyzer) propagateSpecializations(program *ast.Program) {
	a.inferProgram(program, modeInfer)
}

func (a *Analyzer) finalCheck(program *ast.Program) {
	a.inferProgram(program, modeFinal)
}

// inferProgram walks the top-level statements, then every recorded
// specialization body. Bodies appended during the walk are picked up
// by the same loop.
func (a *Analyzer) inferProgram(program *ast.Program, mode inferMode) {
	mc := a.ownContext()
	for _, s := range program.Statements {
		a.inferStatement(mc, a.scope, s, mode)
	}
	for i := 0; i < len(a.specWork); i++ {
		u := a.specWork[i]
		for _, s := range u.body.Statements {
			a.inferStatement(u.mc, u.scope, s, mode)
		}
		a.updateSpecReturn(u, mode)
	}
}

func (a *Analyzer) inferStatement(mc moduleContext, scope *symbols.Scope, s ast.Statement, mode inferMode) {
	switch s := s.(type) {
	case *ast.LetStatement:
		a.inferLet(mc, scope, s, mode)

	case *ast.ExpressionStatement:
		a.inferExpression(mc, scope, s.Expression, nil, mode)

	case *ast.ReturnStatement:
		if s.Value != nil {
			a.inferExpression(mc, scope, s.Value, nil, mode)
		}

	case *ast.BlockStatement:
		child := symbols.NewScope(scope, symbols.BlockScope)
		for _, inner := range s.Statements {
			a.inferStatement(mc, child, inner, mode)
		}

	case *ast.IfStatement:
		a.inferIf(mc, scope, s, mode)

	case *ast.WhileStatement:
		// Pattern bindings from the condition live only as long as
		// the loop, same as an if condition.
		condScope := symbols.NewScope(scope, symbols.ConditionScope)
		condType := a.inferExpression(mc, condScope, s.Cond, nil, mode)
		a.checkCondition(condType, s.Cond)
		bodyScope := scope
		if !containsOr(s.Cond) {
			bodyScope = condScope
		}
		a.inferStatement(mc, bodyScope, s.Body, mode)

	case *ast.ForStatement:
		forScope := symbols.NewScope(scope, symbols.BlockScope)
		if s.Init != nil {
			a.inferStatement(mc, forScope, s.Init, mode)
		}
		if s.Cond != nil {
			condType := a.inferExpression(mc, forScope, s.Cond, nil, mode)
			a.checkCondition(condType, s.Cond)
		}
		if s.Post != nil {
			a.inferStatement(mc, forScope, s.Post, mode)
		}
		a.inferStatement(mc, forScope, s.Body, mode)

	case *ast.DeleteStatement:
		t := a.inferExpression(mc, scope, s.Target, nil, mode)
		if t != nil && !t.IsUnknown() && t.Resolve().Kind != types.KindRef && t.Resolve().Kind != types.KindArray {
			a.addError(diagnostics.ErrT326, s.GetToken(),
				"delete requires a reference or array, got %s", t)
		}

	case *ast.FunctionStatement, *ast.StructStatement, *ast.EnumStatement,
		*ast.TypeAliasStatement, *ast.ImportStatement,
		*ast.BreakStatement, *ast.ContinueStatement:
		// Declarations are handled by the collection passes; function
		// bodies are only typed through their specializations.
	}
}

func (a *Analyzer) checkCondition(t *types.TypeInfo, e ast.Expression) {
	if t == nil || t.IsUnknown() {
		return
	}
	if !t.IsBool() {
		a.addError(diagnostics.ErrT319, e.GetToken(), "condition must be bool, got %s", t)
	}
}

func (a *Analyzer) inferLet(mc moduleContext, scope *symbols.Scope, ls *ast.LetStatement, mode inferMode) {
	var declared *types.TypeInfo
	if ls.TypeAnnotation != nil {
		declared = a.resolveTypeIn(mc, ls.TypeAnnotation)
	}

	var valueType *types.TypeInfo
	if ls.Value != nil {
		valueType = a.inferExpression(mc, scope, ls.Value, declared, mode)
	}

	t := declared
	if t == nil {
		t = valueType
	}
	if t == nil {
		t = mc.reg.Unknown
	}

	if declared != nil && valueType != nil && !a.assignable(declared, valueType) {
		a.addError(diagnostics.ErrT314, ls.GetToken(),
			"cannot assign %s to %s", valueType, declared)
	}

	existing := scope.ResolveLocal(ls.Name.Value)
	if existing != nil {
		if existing.Decl == types.DeclRef(ls) {
			// Revisited on a later round; refine the type.
			if existing.Type.IsUnknown() {
				existing.Type = t
			}
			return
		}
		a.addError(diagnostics.ErrT325, ls.GetToken(),
			"symbol %q is already declared", ls.Name.Value)
		return
	}
	kind := symbols.VariableSymbol
	if ls.IsConst() {
		kind = symbols.ConstantSymbol
	}
	scope.Declare(&symbols.Symbol{
		Name:       ls.Name.Value,
		Kind:       kind,
		Type:       t,
		IsConstant: ls.IsConst(),
		Decl:       ls,
	})
}

// resolveTypeIn resolves an annotation against a specific module
// context.
func (a *Analyzer) resolveTypeIn(mc moduleContext, te ast.TypeExpr) *types.TypeInfo {
	saved := a.reg
	a.reg = mc.reg
	t := a.resolveType(te)
	a.reg = saved
	return t
}

// assignable reports whether src can initialize or be assigned to
// dst. Integer values widen to double; a bare value satisfies a
// reference to its type. Unknown never errors, it only defers.
func (a *Analyzer) assignable(dst, src *types.TypeInfo) bool {
	if dst.IsUnknown() || src.IsUnknown() {
		return true
	}
	d, s := dst.Resolve(), src.Resolve()
	if types.Equals(d, s) {
		return true
	}
	if d.IsFloat() && s.IsInteger() {
		return true
	}
	if d.Kind == types.KindRef && types.Equals(d.Ref.Target, s) {
		return true
	}
	if s.Kind == types.KindRef && types.Equals(d, s.Ref.Target) {
		return true
	}
	return false
}

func (a *Analyzer) inferExpression(mc moduleContext, scope *symbols.Scope, e ast.Expression, expected *types.TypeInfo, mode inferMode) *types.TypeInfo {
	if e == nil {
		return mc.reg.Unknown
	}

	var t *types.TypeInfo
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		t = mc.reg.Int
		if expected != nil {
			if expected.IsFloat() {
				t = mc.reg.Double
			} else if expected.IsInteger() {
				t = expected
			}
		}

	case *ast.FloatLiteral:
		t = mc.reg.Double

	case *ast.StringLiteral:
		t = mc.reg.String

	case *ast.BooleanLiteral:
		t = mc.reg.Bool

	case *ast.Identifier:
		t = a.inferIdentifier(mc, scope, e, mode)

	case *ast.PrefixExpression:
		t = a.inferPrefix(mc, scope, e, mode)

	case *ast.InfixExpression:
		t = a.inferInfix(mc, scope, e, mode)

	case *ast.AssignExpression:
		t = a.inferAssign(mc, scope, e, mode)

	case *ast.TernaryExpression:
		condType := a.inferExpression(mc, scope, e.Cond, nil, mode)
		a.checkCondition(condType, e.Cond)
		thenType := a.inferExpression(mc, scope, e.Then, expected, mode)
		elseType := a.inferExpression(mc, scope, e.Else, expected, mode)
		t = a.joinTypes(mc, thenType, elseType, e.GetToken())

	case *ast.ArrayLiteral:
		t = a.inferArrayLiteral(mc, scope, e, expected, mode)

	case *ast.ObjectLiteral:
		t = a.inferObjectLiteral(mc, scope, e, expected, mode)

	case *ast.CallExpression:
		t = a.inferCall(mc, scope, e, mode)

	case *ast.MemberExpression:
		t = a.inferMember(mc, scope, e, mode)

	case *ast.IndexExpression:
		t = a.inferIndex(mc, scope, e, mode)

	case *ast.IsExpression:
		t = a.inferIsExpression(mc, scope, e, mode)

	case *ast.NewExpression:
		elem := a.resolveTypeIn(mc, e.ElemType)
		sizeType := a.inferExpression(mc, scope, e.Size, nil, mode)
		if sizeType != nil && !sizeType.IsUnknown() && !sizeType.IsInteger() {
			a.addError(diagnostics.ErrT314, e.Size.GetToken(),
				"array size must be an integer, got %s", sizeType)
		}
		t = mc.reg.NewArray(elem, 0, false)

	case *ast.RefExpression:
		target := a.inferExpression(mc, scope, e.Target, nil, mode)
		t = mc.reg.NewRef(target, e.Mutable)

	default:
		t = mc.reg.Unknown
	}

	if t == nil {
		t = mc.reg.Unknown
	}
	e.SetType(t)
	return t
}

func (a *Analyzer) inferIdentifier(mc moduleContext, scope *symbols.Scope, e *ast.Identifier, mode inferMode) *types.TypeInfo {
	sym := scope.Resolve(e.Value)
	if sym == nil {
		// Type names appear as identifiers in variant constructions;
		// the member inference handles them.
		if mc.reg.Lookup(e.Value) != nil {
			return mc.reg.Unknown
		}
		a.addError(diagnostics.ErrT301, e.GetToken(), "undefined variable %q", e.Value)
		return mc.reg.Unknown
	}
	if sym.Type == nil {
		return mc.reg.Unknown
	}
	return sym.Type
}

func (a *Analyzer) inferPrefix(mc moduleContext, scope *symbols.Scope, e *ast.PrefixExpression, mode inferMode) *types.TypeInfo {
	operand := a.inferExpression(mc, scope, e.Right, nil, mode)
	if operand.IsUnknown() {
		return mc.reg.Unknown
	}

	op := traits.UnaryOperatorFor(e.GetToken().Type)
	if op == traits.OpInvalid {
		return mc.reg.Unknown
	}
	out, ok := mc.tr.UnaryOutput(op, operand)
	if !ok {
		a.addError(diagnostics.ErrT310, e.GetToken(),
			"operator %s is not defined for %s", e.Operator, operand)
		return mc.reg.Unknown
	}
	return out
}

func (a *Analyzer) inferInfix(mc moduleContext, scope *symbols.Scope, e *ast.InfixExpression, mode inferMode) *types.TypeInfo {
	left := a.inferExpression(mc, scope, e.Left, nil, mode)
	right := a.inferExpression(mc, scope, e.Right, nil, mode)

	tok := e.GetToken()
	if e.Operator == "&&" || e.Operator == "||" {
		a.checkCondition(left, e.Left)
		a.checkCondition(right, e.Right)
		return mc.reg.Bool
	}

	if left.IsUnknown() || right.IsUnknown() {
		return mc.reg.Unknown
	}

	// Mixed int and double arithmetic promotes the integer side.
	l, r := left, right
	if l.IsInteger() && r.IsFloat() {
		l = mc.reg.Double
		promoteLiteral(e.Left, mc.reg.Double)
	} else if l.IsFloat() && r.IsInteger() {
		r = mc.reg.Double
		promoteLiteral(e.Right, mc.reg.Double)
	}

	op := traits.BinaryOperatorFor(tok.Type)
	if op == traits.OpInvalid {
		return mc.reg.Unknown
	}
	out, ok := mc.tr.BinaryOutput(op, l, r)
	if !ok {
		a.addError(diagnostics.ErrT310, tok,
			"operator %s is not defined for %s and %s", e.Operator, left, right)
		return mc.reg.Unknown
	}
	if traits.IsComparison(tok.Type) {
		return mc.reg.Bool
	}
	return out
}

// promoteLiteral retypes an integer literal operand that widens to
// double.
func promoteLiteral(e ast.Expression, double *types.TypeInfo) {
	if lit, ok := e.(*ast.IntegerLiteral); ok {
		lit.SetType(double)
	}
}

func (a *Analyzer) inferAssign(mc moduleContext, scope *symbols.Scope, e *ast.AssignExpression, mode inferMode) *types.TypeInfo {
	targetType := a.inferExpression(mc, scope, e.Target, nil, mode)
	valueType := a.inferExpression(mc, scope, e.Value, targetType, mode)

	if ident, ok := e.Target.(*ast.Identifier); ok {
		if sym := scope.Resolve(ident.Value); sym != nil && sym.IsConstant {
			a.addError(diagnostics.ErrT320, e.GetToken(),
				"cannot assign to constant %q", ident.Value)
		}
	}

	if idx, ok := e.Target.(*ast.IndexExpression); ok {
		// Writes through an index go through RefIndex.
		containerType := idx.Left.GetType()
		if containerType != nil && !containerType.IsUnknown() {
			if impl := mc.tr.EnsureRefIndexImpl(containerType); impl == nil && containerType.Resolve().Kind == types.KindArray {
				a.addError(diagnostics.ErrT311, e.GetToken(),
					"%s does not support index assignment", containerType)
			}
		}
	}

	switch e.Op {
	case token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.ASTERISK_ASSIGN, token.SLASH_ASSIGN:
		op := traits.BinaryOperatorFor(e.Op)
		if !targetType.IsUnknown() && !valueType.IsUnknown() {
			if _, ok := mc.tr.BinaryOutput(op, targetType, valueType); !ok {
				a.addError(diagnostics.ErrT310, e.GetToken(),
					"operator %s is not defined for %s and %s", e.Op, targetType, valueType)
			}
		}
	default:
		if !a.assignable(targetType, valueType) {
			a.addError(diagnostics.ErrT314, e.GetToken(),
				"cannot assign %s to %s", valueType, targetType)
		}
	}
	return targetType
}

// joinTypes merges two branch types, widening int to double.
func (a *Analyzer) joinTypes(mc moduleContext, x, y *types.TypeInfo, tok token.Token) *types.TypeInfo {
	if x == nil || x.IsUnknown() || y == nil || y.IsUnknown() {
		return mc.reg.Unknown
	}
	if types.Equals(x, y) {
		return x
	}
	if x.IsInteger() && y.IsFloat() || x.IsFloat() && y.IsInteger() {
		return mc.reg.Double
	}
	a.addError(diagnostics.ErrT314, tok, "branches have incompatible types %s and %s", x, y)
	return mc.reg.Unknown
}

func (a *Analyzer) inferArrayLiteral(mc moduleContext, scope *symbols.Scope, e *ast.ArrayLiteral, expected *types.TypeInfo, mode inferMode) *types.TypeInfo {
	var expectedElem *types.TypeInfo
	if expected != nil && expected.Resolve().Kind == types.KindArray {
		expectedElem = expected.Resolve().Array.Elem
	}

	var elem *types.TypeInfo
	for _, el := range e.Elements {
		et := a.inferExpression(mc, scope, el, expectedElem, mode)
		if et.IsUnknown() {
			return mc.reg.Unknown
		}
		switch {
		case elem == nil:
			elem = et
		case types.Equals(elem, et):
		case elem.IsInteger() && et.IsFloat():
			elem = mc.reg.Double
		case elem.IsFloat() && et.IsInteger():
		default:
			a.addError(diagnostics.ErrT324, el.GetToken(),
				"array element type %s does not match %s", et, elem)
		}
	}
	if elem == nil {
		if expectedElem != nil {
			elem = expectedElem
		} else {
			elem = mc.reg.Unknown
		}
	}
	return mc.reg.NewArray(elem, int64(len(e.Elements)), true)
}

// inferObjectLiteral validates a struct literal against the expected
// struct type, or interns an anonymous object type.
func (a *Analyzer) inferObjectLiteral(mc moduleContext, scope *symbols.Scope, e *ast.ObjectLiteral, expected *types.TypeInfo, mode inferMode) *types.TypeInfo {
	if expected != nil {
		res := expected.Resolve()
		if res.Kind == types.KindObject && !res.Object.Anonymous {
			return a.checkStructLiteral(mc, scope, e, expected, mode)
		}
	}

	props := make([]types.Property, 0, len(e.Fields))
	for _, f := range e.Fields {
		ft := a.inferExpression(mc, scope, f.Value, nil, mode)
		if ft.IsUnknown() {
			return mc.reg.Unknown
		}
		props = append(props, types.Property{Name: f.Name.Value, Type: ft})
	}
	return mc.reg.InternObjectLiteral(props)
}

// checkStructLiteral types a literal against a declared struct:
// every named field must exist, fields may come in any order, and
// omitted fields must carry declared defaults. A valid literal is
// rewritten in place to declared field order with the defaults of
// omitted fields filled in, so later stages see a complete literal.
func (a *Analyzer) checkStructLiteral(mc moduleContext, scope *symbols.Scope, e *ast.ObjectLiteral, structType *types.TypeInfo, mode inferMode) *types.TypeInfo {
	st := structType.Resolve()
	given := make(map[string]*ast.ObjectField, len(e.Fields))
	complete := true

	for _, f := range e.Fields {
		prop := findProperty(st, f.Name.Value)
		if prop == nil {
			a.addError(diagnostics.ErrT305, f.GetToken(),
				"struct %s has no field %q", structType.Name, f.Name.Value)
			a.inferExpression(mc, scope, f.Value, nil, mode)
			complete = false
			continue
		}
		ft := a.inferExpression(mc, scope, f.Value, prop.Type, mode)
		if !a.assignable(prop.Type, ft) {
			a.addError(diagnostics.ErrT307, f.GetToken(),
				"field %q of %s requires %s, got %s", f.Name.Value, structType.Name, prop.Type, ft)
		}
		given[f.Name.Value] = f
	}

	for _, prop := range st.Object.Properties {
		if given[prop.Name] == nil && prop.Default == nil {
			a.addError(diagnostics.ErrT306, e.GetToken(),
				"missing field %q of struct %s", prop.Name, structType.Name)
			complete = false
		}
	}

	if !complete || len(given) != len(e.Fields) {
		return structType
	}
	ordered := make([]*ast.ObjectField, 0, len(st.Object.Properties))
	for i := range st.Object.Properties {
		prop := &st.Object.Properties[i]
		if f := given[prop.Name]; f != nil {
			ordered = append(ordered, f)
			continue
		}
		val, ok := prop.Default.(ast.Expression)
		if !ok {
			return structType
		}
		val = ast.CloneExpression(val)
		a.inferExpression(mc, scope, val, prop.Type, mode)
		ordered = append(ordered, &ast.ObjectField{
			Token: e.Token,
			Name:  &ast.Identifier{Token: e.Token, Value: prop.Name},
			Value: val,
		})
	}
	e.Fields = ordered
	return structType
}

func findProperty(obj *types.TypeInfo, name string) *types.Property {
	o := obj.Resolve()
	if o.Kind != types.KindObject {
		return nil
	}
	for i := range o.Object.Properties {
		if o.Object.Properties[i].Name == name {
			return &o.Object.Properties[i]
		}
	}
	return nil
}

func (a *Analyzer) inferMember(mc moduleContext, scope *symbols.Scope, e *ast.MemberExpression, mode inferMode) *types.TypeInfo {
	if ident, ok := e.Object.(*ast.Identifier); ok {
		// Namespace member: ns.symbol resolves one hop into the
		// imported module's exports, never further.
		if sym := scope.Resolve(ident.Value); sym != nil && sym.Kind == symbols.NamespaceSymbol {
			mod := mc.imports[ident.Value]
			if mod == nil {
				return mc.reg.Unknown
			}
			exp := mod.FindExport(e.Property.Value)
			if exp == nil {
				a.addError(diagnostics.ErrM003, e.Property.GetToken(),
					"module %q does not export %q", ident.Value, e.Property.Value)
				return mc.reg.Unknown
			}
			return exp.Type
		}

		// Enum variant reference: Shape.Circle.
		if t := enumTypeNamed(mc, scope, ident.Value); t != nil {
			return a.inferVariantRef(mc, t, e, mode)
		}
	}

	objType := a.inferExpression(mc, scope, e.Object, nil, mode)
	if objType.IsUnknown() {
		return mc.reg.Unknown
	}
	obj := objType.Resolve()
	if obj.Kind == types.KindRef {
		obj = obj.Ref.Target.Resolve()
	}

	// Arrays and strings expose length through the Length trait.
	if e.Property.Value == config.LengthFuncName {
		if impl := mc.tr.EnsureLengthImpl(obj); impl != nil {
			return impl.AssocBindings["Output"]
		}
	}

	if obj.Kind == types.KindObject {
		if prop := findProperty(obj, e.Property.Value); prop != nil {
			return prop.Type
		}
		// A method on the struct's declared name.
		if obj.Name != "" {
			if msym := mc.scope.Resolve(obj.Name + "." + e.Property.Value); msym != nil {
				return msym.Type
			}
		}
		a.addError(diagnostics.ErrT305, e.Property.GetToken(),
			"%s has no field %q", objType, e.Property.Value)
		return mc.reg.Unknown
	}

	a.addError(diagnostics.ErrT323, e.GetToken(),
		"%s has no members", objType)
	return mc.reg.Unknown
}

// inferVariantRef types a bare enum variant reference. Variants with
// payloads must be constructed through a call.
func (a *Analyzer) inferVariantRef(mc moduleContext, enumType *types.TypeInfo, e *ast.MemberExpression, mode inferMode) *types.TypeInfo {
	variant := findVariant(enumType, e.Property.Value)
	if variant == nil {
		a.addError(diagnostics.ErrT316, e.Property.GetToken(),
			"enum %s has no variant %q", enumType.Name, e.Property.Value)
		return mc.reg.Unknown
	}
	return enumType
}

// enumTypeNamed resolves a name to an enum type, through either the
// declared type symbol or the registry.
func enumTypeNamed(mc moduleContext, scope *symbols.Scope, name string) *types.TypeInfo {
	if sym := scope.Resolve(name); sym != nil {
		if sym.Kind == symbols.TypeSymbol && sym.Type != nil && sym.Type.Resolve().Kind == types.KindEnum {
			return sym.Type
		}
		return nil
	}
	if t := mc.reg.Lookup(name); t != nil && t.Resolve().Kind == types.KindEnum {
		return t
	}
	return nil
}

func findVariant(enumType *types.TypeInfo, name string) *types.EnumVariant {
	et := enumType.Resolve()
	if et.Kind != types.KindEnum {
		return nil
	}
	for _, v := range et.Enum.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (a *Analyzer) inferIndex(mc moduleContext, scope *symbols.Scope, e *ast.IndexExpression, mode inferMode) *types.TypeInfo {
	left := a.inferExpression(mc, scope, e.Left, nil, mode)
	idx := a.inferExpression(mc, scope, e.Index, nil, mode)
	if left.IsUnknown() || idx.IsUnknown() {
		return mc.reg.Unknown
	}

	container := left.Resolve()
	if container.Kind == types.KindRef {
		container = container.Ref.Target.Resolve()
	}

	out, via, ambiguous := mc.tr.ResolveIndex(container, idx)
	if ambiguous {
		a.addError(diagnostics.ErrT312, e.GetToken(),
			"ambiguous index coercion for %s[%s]", left, idx)
		return mc.reg.Unknown
	}
	if out == nil {
		a.addError(diagnostics.ErrT311, e.GetToken(),
			"%s cannot be indexed with %s", left, idx)
		return mc.reg.Unknown
	}
	e.KeyCoercion = via
	return out
}
