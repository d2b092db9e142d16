package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/velalang/vela/internal/analyzer"
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/config"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/pipeline"
	"github.com/velalang/vela/internal/traits"
	"github.com/velalang/vela/internal/types"
)

// Loader resolves import paths to analyzed modules. Modules are
// cached by absolute path, so diamond imports share one instance and
// one specialization registry.
type Loader struct {
	SearchPaths []string
	MaxRounds   int

	cache map[string]*Module
}

func NewLoader(searchPaths []string) *Loader {
	return &Loader{
		SearchPaths: searchPaths,
		cache:       make(map[string]*Module),
	}
}

// Load resolves, parses and analyzes the module behind an import
// path. It satisfies analyzer.ModuleLoader.
func (l *Loader) Load(fromDir, importPath string) (analyzer.ModuleRef, error) {
	path, err := l.resolvePath(fromDir, importPath)
	if err != nil {
		return nil, err
	}

	if m, ok := l.cache[path]; ok {
		if m.Loading {
			return nil, fmt.Errorf("%w: %s", analyzer.ErrImportCycle, path)
		}
		if m.HasErrors() {
			return nil, fmt.Errorf("%w: %s", analyzer.ErrModuleErrors, path)
		}
		return m, nil
	}

	m := newModule(path)
	l.cache[path] = m
	defer func() { m.Loading = false }()

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := pipeline.NewPipelineContext(string(source))
	ctx.FilePath = path
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	).Run(ctx)

	program, _ := ctx.AstRoot.(*ast.Program)
	m.Program = program
	m.Errors = append(m.Errors, ctx.Errors...)
	if program == nil || ctx.HasErrors() {
		return nil, fmt.Errorf("%w: %s", analyzer.ErrModuleErrors, path)
	}

	reg := types.NewRegistry()
	reg.SetModulePrefix(m.Prefix)
	tr := traits.NewRegistry(reg)
	a := analyzer.New(reg, tr)
	a.SetLoader(l)
	a.SetMaxRounds(l.MaxRounds)
	a.BaseDir = filepath.Dir(path)

	errs := a.Analyze(program)
	for _, e := range errs {
		if e.File == "" {
			e.File = path
		}
	}
	m.Errors = append(m.Errors, errs...)

	m.Scope = a.Scope()
	m.Reg = reg
	m.Traits = tr
	m.collectExports()

	if m.HasErrors() {
		return nil, fmt.Errorf("%w: %s", analyzer.ErrModuleErrors, path)
	}
	return m, nil
}

// Loaded returns the cached module for an absolute path, or nil.
func (l *Loader) Loaded(path string) *Module {
	return l.cache[path]
}

// resolvePath tries the importing file's directory first, then every
// configured search path. The extension is appended when missing.
func (l *Loader) resolvePath(fromDir, importPath string) (string, error) {
	name := importPath
	if filepath.Ext(name) == "" {
		name += config.SourceFileExt
	}

	dirs := append([]string{fromDir}, l.SearchPaths...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if abs, err := filepath.Abs(candidate); err == nil {
			candidate = abs
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no module %q in %s or search paths", importPath, fromDir)
}
