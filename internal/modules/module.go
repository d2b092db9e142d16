package modules

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/traits"
	"github.com/velalang/vela/internal/types"
)

// Module is one loaded and analyzed source file. Its registries hold
// the specializations recorded for it, including those triggered by
// importers, all mangled under the module's prefix.
type Module struct {
	ID           string
	AbsolutePath string
	Prefix       string

	Program *ast.Program
	Scope   *symbols.Scope
	Reg     *types.Registry
	Traits  *traits.Registry

	Exports map[string]*symbols.Symbol
	Errors  []*diagnostics.DiagnosticError

	// Loading marks a module whose analysis has started but not
	// finished. Hitting one through an import is a cycle.
	Loading bool
}

func newModule(absPath string) *Module {
	return &Module{
		ID:           uuid.NewString(),
		AbsolutePath: absPath,
		Prefix:       PrefixForPath(absPath),
		Exports:      make(map[string]*symbols.Symbol),
		Loading:      true,
	}
}

func (m *Module) ModulePrefix() string            { return m.Prefix }
func (m *Module) ModuleScope() *symbols.Scope     { return m.Scope }
func (m *Module) TypeRegistry() *types.Registry   { return m.Reg }
func (m *Module) TraitRegistry() *traits.Registry { return m.Traits }

func (m *Module) FindExport(name string) *symbols.Symbol {
	return m.Exports[name]
}

// HasErrors reports error-severity diagnostics only.
func (m *Module) HasErrors() bool {
	for _, e := range m.Errors {
		if e.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}

// collectExports fills the export table from every statement marked
// exported. Methods export under their receiver-qualified name.
func (m *Module) collectExports() {
	for _, s := range m.Program.Statements {
		var name string
		switch s := s.(type) {
		case *ast.LetStatement:
			if !s.Exported {
				continue
			}
			name = s.Name.Value
		case *ast.FunctionStatement:
			if !s.Exported {
				continue
			}
			name = s.SymbolName()
		case *ast.StructStatement:
			if !s.Exported {
				continue
			}
			name = s.Name.Value
		case *ast.EnumStatement:
			if !s.Exported {
				continue
			}
			name = s.Name.Value
		case *ast.TypeAliasStatement:
			if !s.Exported {
				continue
			}
			name = s.Name.Value
		default:
			continue
		}
		if sym := m.Scope.Resolve(name); sym != nil {
			m.Exports[name] = sym
		}
	}
}

// PrefixForPath derives the symbol mangling prefix from a module
// file name: the base name without extension, with anything outside
// identifier characters replaced by underscores.
func PrefixForPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), config.SourceFileExt)
	var sb strings.Builder
	for _, r := range base {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// MangleSymbol is the importer-visible name of a module's symbol.
func MangleSymbol(prefix, name string) string {
	return prefix + "__" + name
}
