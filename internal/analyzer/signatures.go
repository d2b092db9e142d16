package analyzer

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/types"
)

// collectFunctionSignatures declares every function, method and
// external function. Functions with every parameter annotated receive
// an eager specialization under their original name; everything else
// waits for call sites to supply argument types.
func (a *Analyzer) collectFunctionSignatures(program *ast.Program) {
	for _, s := range program.Statements {
		if fs, ok := s.(*ast.FunctionStatement); ok {
			a.collectFunctionSignature(fs)
		}
	}
}

func (a *Analyzer) collectFunctionSignature(fs *ast.FunctionStatement) {
	var recvType *types.TypeInfo
	if fs.Receiver != nil {
		recvType = a.reg.Lookup(fs.Receiver.Value)
		if recvType == nil {
			a.addError(diagnostics.ErrT302, fs.Receiver.GetToken(),
				"undefined type %q", fs.Receiver.Value)
			recvType = a.reg.Unknown
		}
	}

	params := make([]*types.TypeInfo, len(fs.Params))
	fullyTyped := true
	for i, p := range fs.Params {
		switch {
		case p.TypeAnnotation != nil:
			params[i] = a.resolveType(p.TypeAnnotation)
		case i == 0 && recvType != nil:
			// An unannotated self parameter takes the receiver type.
			params[i] = recvType
		default:
			params[i] = a.reg.Unknown
			fullyTyped = false
		}
	}
	if fs.Variadic && !fs.External {
		fullyTyped = false
	}

	var ret *types.TypeInfo
	switch {
	case fs.ReturnType != nil:
		ret = a.resolveType(fs.ReturnType)
	case fs.External:
		ret = a.reg.Void
	default:
		ret = a.reg.Unknown
	}

	name := fs.SymbolName()
	fnType := &types.TypeInfo{
		Kind: types.KindFunction,
		Name: name,
		Function: &types.FunctionType{
			Params:     params,
			Return:     ret,
			Decl:       fs,
			FullyTyped: fullyTyped,
			Variadic:   fs.Variadic,
			External:   fs.External,
		},
	}

	_, dup := a.scope.Declare(&symbols.Symbol{
		Name: name,
		Kind: symbols.FunctionSymbol,
		Type: fnType,
		Decl: fs,
	})
	if dup != nil {
		if dup.Decl != types.DeclRef(fs) {
			a.addError(diagnostics.ErrT325, fs.GetToken(),
				"symbol %q is already declared", name)
		}
		return
	}

	if fs.External {
		a.reg.AddSpecialization(fnType.Function, name, params, ret, nil)
		return
	}
	if fullyTyped {
		a.specialize(a.ownContext(), fnType.Function, fs, params, name)
	}
}
