package analyzer

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/types"
)

// inferIf types the condition in a dedicated scope so pattern
// bindings from is-expressions become visible in the then branch.
// Any || in the condition disables the bindings: the pattern is not
// guaranteed to have matched when the branch runs.
func (a *Analyzer) inferIf(mc moduleContext, scope *symbols.Scope, s *ast.IfStatement, mode inferMode) {
	condScope := symbols.NewScope(scope, symbols.ConditionScope)
	condType := a.inferExpression(mc, condScope, s.Cond, nil, mode)
	a.checkCondition(condType, s.Cond)

	thenScope := scope
	if !containsOr(s.Cond) {
		thenScope = condScope
	}
	a.inferStatement(mc, thenScope, s.Then, mode)
	if s.Else != nil {
		a.inferStatement(mc, scope, s.Else, mode)
	}
}

// containsOr reports whether the condition has a || anywhere outside
// a nested call or index.
func containsOr(e ast.Expression) bool {
	switch e := e.(type) {
	case *ast.InfixExpression:
		if e.Operator == "||" {
			return true
		}
		return containsOr(e.Left) || containsOr(e.Right)
	case *ast.PrefixExpression:
		return containsOr(e.Right)
	}
	return false
}

// inferIsExpression types v is Enum.Variant(bindings). Bindings
// matching the payload arity destructure field by field; a single
// binding against a multi-field payload receives the variant's
// synthesized struct type.
func (a *Analyzer) inferIsExpression(mc moduleContext, scope *symbols.Scope, e *ast.IsExpression, mode inferMode) *types.TypeInfo {
	valType := a.inferExpression(mc, scope, e.Value, nil, mode)

	var enumType *types.TypeInfo
	if e.EnumName != nil {
		enumType = enumTypeNamed(mc, scope, e.EnumName.Value)
		if enumType == nil {
			a.addError(diagnostics.ErrT315, e.EnumName.GetToken(),
				"%q is not an enum", e.EnumName.Value)
			return mc.reg.Bool
		}
	} else {
		if valType.IsUnknown() {
			return mc.reg.Bool
		}
		enumType = valType
	}

	if !valType.IsUnknown() {
		if valType.Resolve().Kind != types.KindEnum {
			a.addError(diagnostics.ErrT315, e.Value.GetToken(),
				"is pattern requires an enum value, got %s", valType)
			return mc.reg.Bool
		}
		if !types.Equals(valType, enumType) {
			a.addError(diagnostics.ErrT314, e.Value.GetToken(),
				"value of type %s cannot match variant of %s", valType, enumType.Name)
			return mc.reg.Bool
		}
	}

	variant := findVariant(enumType, e.Variant.Value)
	if variant == nil {
		a.addError(diagnostics.ErrT316, e.Variant.GetToken(),
			"enum %s has no variant %q", enumType.Name, e.Variant.Value)
		return mc.reg.Bool
	}

	if len(e.Bindings) == 0 {
		return mc.reg.Bool
	}

	switch {
	case len(e.Bindings) == len(variant.Fields):
		for i, b := range e.Bindings {
			a.declarePatternBinding(scope, b, variant.Fields[i].Type)
		}
	case len(e.Bindings) == 1 && !e.Bindings[0].Wildcard && len(variant.Fields) > 1:
		a.declarePatternBinding(scope, e.Bindings[0], variant.StructType)
	default:
		a.addError(diagnostics.ErrT317, e.GetToken(),
			"variant %s.%s has %d values, pattern binds %d",
			enumType.Name, variant.Name, len(variant.Fields), len(e.Bindings))
	}
	return mc.reg.Bool
}

func (a *Analyzer) declarePatternBinding(scope *symbols.Scope, b *ast.PatternBinding, t *types.TypeInfo) {
	if b.Wildcard || b.Name == nil {
		return
	}
	scope.Declare(&symbols.Symbol{
		Name:       b.Name.Value,
		Kind:       symbols.PatternBindingSymbol,
		Type:       t,
		IsConstant: !b.Mutable,
		Decl:       b,
	})
}
