package symbols

import (
	"sort"

	"github.com/velalang/vela/internal/types"
)

type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	ConstantSymbol
	FunctionSymbol
	TypeSymbol
	ParameterSymbol
	NamespaceSymbol
	PatternBindingSymbol
)

type ScopeType int

const (
	ModuleScope ScopeType = iota
	FunctionScope
	BlockScope
	ConditionScope
)

// Symbol is one named entity in a scope. Decl links back to the AST
// node that declared it; specialization re-binds this link to the
// cloned declaration when a function body is cloned.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Type       *types.TypeInfo
	IsConstant bool
	Decl       types.DeclRef
	ParamIndex int

	// Cached constant value, set once evaluation succeeds.
	ConstValue int64
	Evaluated  bool
}

// Scope is one link of a parent-chained symbol table.
type Scope struct {
	Type    ScopeType
	parent  *Scope
	symbols map[string]*Symbol
}

func NewScope(parent *Scope, st ScopeType) *Scope {
	return &Scope{
		Type:    st,
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// Declare inserts a symbol into this scope. A symbol already declared
// under the same name in this scope is returned as the second result.
func (s *Scope) Declare(sym *Symbol) (*Symbol, *Symbol) {
	if existing, ok := s.symbols[sym.Name]; ok {
		return existing, existing
	}
	s.symbols[sym.Name] = sym
	return sym, nil
}

// Resolve walks the scope chain outward.
func (s *Scope) Resolve(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// ResolveLocal looks only in this scope.
func (s *Scope) ResolveLocal(name string) *Symbol {
	return s.symbols[name]
}

// Names returns the locally declared names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
