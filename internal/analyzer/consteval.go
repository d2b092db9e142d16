package analyzer

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
)

type EvalStatus int

const (
	EvalSuccess EvalStatus = iota
	EvalWaiting
	EvalCycle
	EvalNonInteger
	EvalError
)

// EvalResult is the outcome of evaluating a constant expression.
// Waiting means an identifier is not declared yet and the caller
// should retry in a later round; Culprit names it. Cycle means the
// definition reaches itself. NonInteger means the initializer is a
// legal constant of some other type and the value is left to type
// inference.
type EvalResult struct {
	Status  EvalStatus
	Value   int64
	Culprit string
	Code    diagnostics.ErrorCode
	Message string
}

func evalOK(v int64) EvalResult {
	return EvalResult{Status: EvalSuccess, Value: v}
}

func evalFail(code diagnostics.ErrorCode, msg string) EvalResult {
	return EvalResult{Status: EvalError, Code: code, Message: msg}
}

// constEvaluator evaluates integer constant expressions. The stack of
// in-progress symbol names detects cyclic definitions; each evaluator
// owns its stack, so concurrent or nested evaluations never share
// state.
type constEvaluator struct {
	scope *symbols.Scope
	stack []string
}

func newConstEvaluator(scope *symbols.Scope) *constEvaluator {
	return &constEvaluator{scope: scope}
}

func (e *constEvaluator) onStack(name string) bool {
	for _, n := range e.stack {
		if n == name {
			return true
		}
	}
	return false
}

func (e *constEvaluator) Eval(expr ast.Expression) EvalResult {
	return e.eval(expr, 0)
}

// EvalArraySize evaluates a constant expression used as an array
// size, which must come out as a positive integer.
func (e *constEvaluator) EvalArraySize(expr ast.Expression) EvalResult {
	res := e.eval(expr, 0)
	if res.Status == EvalNonInteger {
		return evalFail(diagnostics.ErrC106, "array size must be a positive integer")
	}
	if res.Status == EvalSuccess && res.Value <= 0 {
		return evalFail(diagnostics.ErrC106, "array size must be a positive integer")
	}
	return res
}

func (e *constEvaluator) eval(expr ast.Expression, depth int) EvalResult {
	if depth > config.MaxConstEvalDepth {
		return evalFail(diagnostics.ErrC105, "constant expression too deep")
	}

	switch expr := expr.(type) {
	case *ast.IntegerLiteral:
		return evalOK(expr.Value)

	case *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral,
		*ast.ArrayLiteral, *ast.ObjectLiteral:
		return EvalResult{Status: EvalNonInteger}

	case *ast.Identifier:
		sym := e.scope.Resolve(expr.Value)
		if sym == nil {
			return EvalResult{Status: EvalWaiting, Culprit: expr.Value}
		}
		if !sym.IsConstant {
			return evalFail(diagnostics.ErrC101, "reference to non-constant "+expr.Value)
		}
		if sym.Evaluated {
			return evalOK(sym.ConstValue)
		}
		if e.onStack(expr.Value) {
			return EvalResult{Status: EvalCycle, Culprit: expr.Value}
		}
		decl, ok := sym.Decl.(*ast.LetStatement)
		if !ok || decl.Value == nil {
			return evalFail(diagnostics.ErrC101, "constant "+expr.Value+" has no initializer")
		}
		e.stack = append(e.stack, expr.Value)
		res := e.eval(decl.Value, depth+1)
		e.stack = e.stack[:len(e.stack)-1]
		if res.Status == EvalSuccess {
			sym.ConstValue = res.Value
			sym.Evaluated = true
		}
		return res

	case *ast.PrefixExpression:
		if expr.Operator != "-" {
			return EvalResult{Status: EvalNonInteger}
		}
		res := e.eval(expr.Right, depth+1)
		if res.Status != EvalSuccess {
			return res
		}
		return evalOK(-res.Value)

	case *ast.InfixExpression:
		left := e.eval(expr.Left, depth+1)
		if left.Status != EvalSuccess {
			return left
		}
		right := e.eval(expr.Right, depth+1)
		if right.Status != EvalSuccess {
			return right
		}
		switch expr.Operator {
		case "+":
			return evalOK(left.Value + right.Value)
		case "-":
			return evalOK(left.Value - right.Value)
		case "*":
			return evalOK(left.Value * right.Value)
		case "/":
			if right.Value == 0 {
				return evalFail(diagnostics.ErrC104, "division by zero in constant expression")
			}
			return evalOK(left.Value / right.Value)
		case "%":
			if right.Value == 0 {
				return evalFail(diagnostics.ErrC104, "modulo by zero in constant expression")
			}
			return evalOK(left.Value % right.Value)
		default:
			return EvalResult{Status: EvalNonInteger}
		}

	default:
		return EvalResult{Status: EvalNonInteger}
	}
}
