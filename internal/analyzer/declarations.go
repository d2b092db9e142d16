package analyzer

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/types"
)

// resolveTypeDeferred resolves a type annotation. When a named type
// is not registered yet the second result names it and the caller
// defers to a later round. Hard errors (bad array sizes) are reported
// immediately.
func (a *Analyzer) resolveTypeDeferred(te ast.TypeExpr) (*types.TypeInfo, string) {
	switch te := te.(type) {
	case *ast.NamedType:
		if te.Namespace != "" {
			return a.resolveNamespacedType(te), ""
		}
		if t := a.reg.Lookup(te.Name); t != nil {
			return t, ""
		}
		return nil, te.Name

	case *ast.ArrayType:
		elem, waiting := a.resolveTypeDeferred(te.Elem)
		if waiting != "" {
			return nil, waiting
		}
		if te.Size == nil {
			return a.reg.NewArray(elem, 0, false), ""
		}
		res := newConstEvaluator(a.scope).EvalArraySize(te.Size)
		switch res.Status {
		case EvalSuccess:
			return a.reg.NewArray(elem, res.Value, true), ""
		case EvalWaiting:
			return nil, res.Culprit
		case EvalCycle:
			a.addError(diagnostics.ErrC103, te.Size.GetToken(),
				"cyclic constant definition through %q", res.Culprit)
			return a.reg.NewArray(elem, 0, true), ""
		default:
			a.addError(res.Code, te.Size.GetToken(), res.Message)
			return a.reg.NewArray(elem, 0, true), ""
		}

	case *ast.RefType:
		target, waiting := a.resolveTypeDeferred(te.Target)
		if waiting != "" {
			return nil, waiting
		}
		return a.reg.NewRef(target, te.Mutable), ""

	default:
		return a.reg.Unknown, ""
	}
}

// resolveNamespacedType resolves ns.Name against an imported module's
// exports. Namespaced names never defer: imports resolve before any
// declaration collection.
func (a *Analyzer) resolveNamespacedType(te *ast.NamedType) *types.TypeInfo {
	mod := a.imports[te.Namespace]
	if mod == nil {
		a.addError(diagnostics.ErrT302, te.GetToken(),
			"undefined namespace %q", te.Namespace)
		return a.reg.Unknown
	}
	exp := mod.FindExport(te.Name)
	if exp == nil || exp.Kind != symbols.TypeSymbol || exp.Type == nil {
		a.addError(diagnostics.ErrM003, te.GetToken(),
			"module %q does not export type %q", te.Namespace, te.Name)
		return a.reg.Unknown
	}
	return exp.Type
}

// resolveType resolves a type annotation after declaration collection
// is complete; unknown names are reported.
func (a *Analyzer) resolveType(te ast.TypeExpr) *types.TypeInfo {
	t, waiting := a.resolveTypeDeferred(te)
	if waiting != "" {
		a.addError(diagnostics.ErrT302, te.GetToken(), "undefined type %q", waiting)
		return a.reg.Unknown
	}
	return t
}

// collectDeclarations processes top-level constants, structs, enums
// and type aliases. Declarations may reference each other in any
// order, so unprocessed ones are retried in rounds until a round
// makes no progress.
func (a *Analyzer) collectDeclarations(program *ast.Program) {
	// Top-level bindings are declared up front so that constant
	// evaluation can tell a cycle from a forward reference, and a
	// reference to a non-constant from an undeclared name.
	for _, s := range program.Statements {
		ls, ok := s.(*ast.LetStatement)
		if !ok {
			continue
		}
		kind := symbols.VariableSymbol
		if ls.IsConst() {
			kind = symbols.ConstantSymbol
		}
		sym := &symbols.Symbol{
			Name:       ls.Name.Value,
			Kind:       kind,
			Type:       a.reg.Unknown,
			IsConstant: ls.IsConst(),
			Decl:       ls,
		}
		if _, existing := a.scope.Declare(sym); existing != nil {
			a.addError(diagnostics.ErrT325, ls.GetToken(),
				"symbol %q is already declared", ls.Name.Value)
		}
	}

	processed := make(map[ast.Statement]bool)
	waitingOn := make(map[ast.Statement]string)

	for round := 0; round < config.MaxDeclRounds; round++ {
		progress := false
		remaining := false

		for _, s := range program.Statements {
			if processed[s] {
				continue
			}
			var done bool
			var culprit string
			switch s := s.(type) {
			case *ast.LetStatement:
				if !s.IsConst() {
					processed[s] = true
					continue
				}
				done, culprit = a.collectConst(s)
			case *ast.StructStatement:
				done, culprit = a.collectStruct(s)
			case *ast.EnumStatement:
				done, culprit = a.collectEnum(s)
			case *ast.TypeAliasStatement:
				done, culprit = a.collectAlias(s)
			default:
				processed[s] = true
				continue
			}
			if done {
				processed[s] = true
				progress = true
			} else {
				waitingOn[s] = culprit
				remaining = true
			}
		}

		if !remaining || !progress {
			break
		}
	}

	for _, s := range program.Statements {
		if processed[s] {
			continue
		}
		switch s := s.(type) {
		case *ast.LetStatement:
			if !s.IsConst() {
				continue
			}
			if culprit := waitingOn[s]; culprit != "" && a.scope.Resolve(culprit) == nil {
				a.addError(diagnostics.ErrC102, s.GetToken(),
					"undeclared identifier %q in constant expression", culprit)
			} else {
				a.addError(diagnostics.ErrT309, s.GetToken(),
					"cannot resolve constant %q (waiting on %q)", s.Name.Value, waitingOn[s])
			}
		case *ast.StructStatement:
			a.addError(diagnostics.ErrT309, s.GetToken(),
				"cannot resolve struct %q (waiting on %q)", s.Name.Value, waitingOn[s])
		case *ast.EnumStatement:
			a.addError(diagnostics.ErrT309, s.GetToken(),
				"cannot resolve enum %q (waiting on %q)", s.Name.Value, waitingOn[s])
		case *ast.TypeAliasStatement:
			a.addError(diagnostics.ErrT309, s.GetToken(),
				"cannot resolve type alias %q (waiting on %q)", s.Name.Value, waitingOn[s])
		}
	}

	a.validateFieldDefaults()
}

// validateFieldDefaults type-checks the default value expression of
// every declared field against the field's type. Runs once, after
// all declarations have registered.
func (a *Analyzer) validateFieldDefaults() {
	mc := a.ownContext()
	for _, t := range a.reg.Types() {
		res := t.Resolve()
		if res.Kind != types.KindObject || res.Object.Anonymous {
			continue
		}
		for i := range res.Object.Properties {
			prop := &res.Object.Properties[i]
			if prop.Default == nil {
				continue
			}
			val, ok := prop.Default.(ast.Expression)
			if !ok {
				continue
			}
			dt := a.inferExpression(mc, a.scope, val, prop.Type, modeInfer)
			if !a.assignable(prop.Type, dt) {
				a.addError(diagnostics.ErrT307, val.GetToken(),
					"default for field %q requires %s, got %s", prop.Name, prop.Type, dt)
			}
		}
	}
}

// collectConst evaluates one top-level constant. The second result
// names the symbol the evaluation is waiting on.
func (a *Analyzer) collectConst(ls *ast.LetStatement) (bool, string) {
	sym := a.scope.ResolveLocal(ls.Name.Value)
	if sym == nil || sym.Decl != types.DeclRef(ls) {
		// A duplicate declaration; the error is already reported.
		return true, ""
	}

	if ls.Value == nil {
		a.addError(diagnostics.ErrC101, ls.GetToken(),
			"constant %q has no initializer", ls.Name.Value)
		sym.Evaluated = true
		return true, ""
	}

	eval := newConstEvaluator(a.scope)
	eval.stack = append(eval.stack, ls.Name.Value)
	res := eval.eval(ls.Value, 0)

	switch res.Status {
	case EvalSuccess:
		sym.ConstValue = res.Value
		sym.Evaluated = true
		sym.Type = a.constType(ls)
		return true, ""
	case EvalWaiting:
		return false, res.Culprit
	case EvalNonInteger:
		// A non-integer constant has no compile-time integer value;
		// its type comes from the annotation or from inference.
		if ls.TypeAnnotation != nil {
			sym.Type = a.constType(ls)
		}
		return true, ""
	case EvalCycle:
		a.addError(diagnostics.ErrC103, ls.GetToken(),
			"cyclic constant definition through %q", res.Culprit)
		// Register with a zero value so later passes can continue.
		sym.ConstValue = 0
		sym.Evaluated = true
		sym.Type = a.constType(ls)
		return true, ""
	default:
		a.addError(res.Code, ls.GetToken(), res.Message)
		sym.ConstValue = 0
		sym.Evaluated = true
		sym.Type = a.constType(ls)
		return true, ""
	}
}

func (a *Analyzer) constType(ls *ast.LetStatement) *types.TypeInfo {
	if ls.TypeAnnotation == nil {
		return a.reg.Int
	}
	t, waiting := a.resolveTypeDeferred(ls.TypeAnnotation)
	if waiting != "" {
		a.addError(diagnostics.ErrT302, ls.TypeAnnotation.GetToken(),
			"undefined type %q", waiting)
		return a.reg.Unknown
	}
	return t
}

// collectStruct registers a struct once every field type resolves. A
// single waiting field defers the whole struct.
func (a *Analyzer) collectStruct(ss *ast.StructStatement) (bool, string) {
	props := make([]types.Property, 0, len(ss.Fields))
	for _, f := range ss.Fields {
		ft, waiting := a.resolveTypeDeferred(f.TypeAnnotation)
		if waiting != "" {
			return false, waiting
		}
		props = append(props, types.Property{Name: f.Name.Value, Type: ft, Default: f.Default})
	}

	if _, dup := a.reg.CreateStructType(ss.Name.Value, props, ss); dup {
		a.addError(diagnostics.ErrT308, ss.GetToken(),
			"type %q is already declared", ss.Name.Value)
		return true, ""
	}
	a.scope.Declare(&symbols.Symbol{
		Name: ss.Name.Value,
		Kind: symbols.TypeSymbol,
		Type: a.reg.Lookup(ss.Name.Value),
		Decl: ss,
	})
	return true, ""
}

// collectEnum registers an enum and synthesizes a struct type per
// payload variant, used for whole-payload pattern captures.
func (a *Analyzer) collectEnum(es *ast.EnumStatement) (bool, string) {
	variants := make([]*types.EnumVariant, 0, len(es.Variants))
	for _, v := range es.Variants {
		fields := make([]types.Property, 0, len(v.Fields))
		for _, f := range v.Fields {
			ft, waiting := a.resolveTypeDeferred(f.TypeAnnotation)
			if waiting != "" {
				return false, waiting
			}
			fields = append(fields, types.Property{Name: f.Name.Value, Type: ft, Default: f.Default})
		}
		variants = append(variants, &types.EnumVariant{Name: v.Name.Value, Fields: fields})
	}

	enumType, dup := a.reg.CreateEnumType(es.Name.Value, variants, es)
	if dup {
		a.addError(diagnostics.ErrT308, es.GetToken(),
			"type %q is already declared", es.Name.Value)
		return true, ""
	}
	for _, v := range enumType.Enum.Variants {
		if len(v.Fields) == 0 {
			continue
		}
		st, _ := a.reg.CreateStructType(es.Name.Value+"_"+v.Name, v.Fields, es)
		v.StructType = st
	}
	a.traits.RegisterEqForEnum(enumType)
	a.scope.Declare(&symbols.Symbol{
		Name: es.Name.Value,
		Kind: symbols.TypeSymbol,
		Type: enumType,
		Decl: es,
	})
	return true, ""
}

func (a *Analyzer) collectAlias(ts *ast.TypeAliasStatement) (bool, string) {
	target, waiting := a.resolveTypeDeferred(ts.Target)
	if waiting != "" {
		return false, waiting
	}
	if a.reg.Lookup(ts.Name.Value) != nil {
		a.addError(diagnostics.ErrT308, ts.GetToken(),
			"type %q is already declared", ts.Name.Value)
		return true, ""
	}
	alias := a.reg.RegisterAlias(ts.Name.Value, target)
	a.scope.Declare(&symbols.Symbol{
		Name: ts.Name.Value,
		Kind: symbols.TypeSymbol,
		Type: alias,
		Decl: ts,
	})
	return true, ""
}
