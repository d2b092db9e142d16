package analyzer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/token"
	"github.com/velalang/vela/internal/traits"
	"github.com/velalang/vela/internal/types"
)

// ModuleRef is a loaded module seen from the analyzer. Specializations
// triggered by cross-module calls are recorded in the target module's
// registry and typed under the target module's scope.
type ModuleRef interface {
	ModulePrefix() string
	ModuleScope() *symbols.Scope
	TypeRegistry() *types.Registry
	TraitRegistry() *traits.Registry
	FindExport(name string) *symbols.Symbol
}

// ModuleLoader resolves an import path to a fully analyzed module.
type ModuleLoader interface {
	Load(fromDir, importPath string) (ModuleRef, error)
}

// Sentinel errors a ModuleLoader wraps to distinguish load failures.
var (
	ErrImportCycle  = errors.New("import cycle")
	ErrModuleErrors = errors.New("module has errors")
)

// Analyzer runs type inference and specialization discovery over one
// module.
type Analyzer struct {
	scope  *symbols.Scope
	reg    *types.Registry
	traits *traits.Registry

	loader  ModuleLoader
	BaseDir string
	imports map[string]ModuleRef

	maxRounds int

	// specWork records every specialization body created so far, so
	// each discovery round can re-infer them against newly resolved
	// types.
	specWork []*specUnit

	errors   []*diagnostics.DiagnosticError
	errorSet map[string]bool
}

func New(reg *types.Registry, tr *traits.Registry) *Analyzer {
	a := &Analyzer{
		scope:     symbols.NewScope(nil, symbols.ModuleScope),
		reg:       reg,
		traits:    tr,
		imports:   make(map[string]ModuleRef),
		maxRounds: config.MaxSpecializationRounds,
		errorSet:  make(map[string]bool),
	}
	a.registerBuiltins()
	return a
}

func (a *Analyzer) SetLoader(loader ModuleLoader) {
	a.loader = loader
}

// SetMaxRounds overrides the specialization discovery ceiling.
func (a *Analyzer) SetMaxRounds(n int) {
	if n > 0 {
		a.maxRounds = n
	}
}

func (a *Analyzer) Scope() *symbols.Scope {
	return a.scope
}

// registerBuiltins declares functions resolvable without declaration.
func (a *Analyzer) registerBuiltins() {
	printType := &types.TypeInfo{
		Kind: types.KindFunction,
		Name: config.PrintFuncName,
		Function: &types.FunctionType{
			Return:     a.reg.Void,
			FullyTyped: true,
			Variadic:   true,
			External:   true,
		},
	}
	a.scope.Declare(&symbols.Symbol{
		Name: config.PrintFuncName,
		Kind: symbols.FunctionSymbol,
		Type: printType,
	})
	a.reg.AddSpecialization(printType.Function, config.PrintFuncName, nil, a.reg.Void, nil)
}

// addError records a diagnostic once per position and code.
func (a *Analyzer) addError(code diagnostics.ErrorCode, tok token.Token, msg string, args ...interface{}) {
	key := fmt.Sprintf("%d:%d:%s", tok.Line, tok.Column, code)
	if a.errorSet[key] {
		return
	}
	a.errorSet[key] = true
	a.errors = append(a.errors, diagnostics.NewError(code, tok, msg, args...))
}

func (a *Analyzer) addWarning(code diagnostics.ErrorCode, tok token.Token, msg string, args ...interface{}) {
	key := fmt.Sprintf("%d:%d:%s", tok.Line, tok.Column, code)
	if a.errorSet[key] {
		return
	}
	a.errorSet[key] = true
	a.errors = append(a.errors, diagnostics.NewWarning(code, tok, msg, args...))
}

// sortedErrors returns diagnostics ordered by source position.
func (a *Analyzer) sortedErrors() []*diagnostics.DiagnosticError {
	sort.SliceStable(a.errors, func(i, j int) bool {
		a1, b := a.errors[i], a.errors[j]
		if a1.Token.Line != b.Token.Line {
			return a1.Token.Line < b.Token.Line
		}
		return a1.Token.Column < b.Token.Column
	})
	return a.errors
}

// totalSpecializations sums this module's specialization count with
// every imported module's. The discovery fixed point is reached when
// this number stops growing.
func (a *Analyzer) totalSpecializations() int {
	total := a.reg.SpecializationCount()
	for _, mod := range a.imports {
		total += mod.TypeRegistry().SpecializationCount()
	}
	return total
}

// Analyze runs every pass over the program and returns the collected
// diagnostics.
func (a *Analyzer) Analyze(program *ast.Program) []*diagnostics.DiagnosticError {
	a.resolveImports(program)
	a.collectDeclarations(program)
	a.collectFunctionSignatures(program)
	a.runDiscovery(program)
	return a.sortedErrors()
}

// runDiscovery repeats the inference, call site and propagation
// passes until no pass discovers a new specialization.
func (a *Analyzer) runDiscovery(program *ast.Program) {
	rounds := 0
	for {
		before := a.totalSpecializations()

		a.inferTypes(program)
		a.analyzeCallSites(program)
		a.propagateSpecializations(program)

		if a.totalSpecializations() == before {
			break
		}
		rounds++
		if rounds >= a.maxRounds {
			a.addWarning(diagnostics.ErrT321, program.GetToken(),
				"specialization did not converge after %d rounds", a.maxRounds)
			break
		}
	}
	a.finalCheck(program)
}

// resolveImports loads every imported module and binds its namespace.
func (a *Analyzer) resolveImports(program *ast.Program) {
	for _, imp := range program.Imports {
		if a.loader == nil {
			a.addError(diagnostics.ErrM001, imp.GetToken(),
				"cannot resolve import %q: no module loader", imp.Path.Value)
			continue
		}
		mod, err := a.loader.Load(a.BaseDir, imp.Path.Value)
		if err != nil {
			switch {
			case errors.Is(err, ErrImportCycle):
				a.addError(diagnostics.ErrM002, imp.GetToken(),
					"import cycle through %q", imp.Path.Value)
			case errors.Is(err, ErrModuleErrors):
				a.addError(diagnostics.ErrM004, imp.GetToken(),
					"imported module %q has errors", imp.Path.Value)
			default:
				a.addError(diagnostics.ErrM001, imp.GetToken(),
					"cannot load module %q: %s", imp.Path.Value, err)
			}
			continue
		}
		a.imports[imp.Namespace.Value] = mod
		a.scope.Declare(&symbols.Symbol{
			Name: imp.Namespace.Value,
			Kind: symbols.NamespaceSymbol,
			Decl: imp,
		})
	}
}
