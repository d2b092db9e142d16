package analyzer

import (
	"path/filepath"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/pipeline"
	"github.com/velalang/vela/internal/traits"
	"github.com/velalang/vela/internal/types"
)

// SemanticProcessor runs type inference and specialization discovery
// as a pipeline stage.
type SemanticProcessor struct {
	Loader    ModuleLoader
	MaxRounds int
}

func (sp *SemanticProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return ctx
	}

	reg := types.NewRegistry()
	tr := traits.NewRegistry(reg)
	a := New(reg, tr)
	a.SetLoader(sp.Loader)
	a.SetMaxRounds(sp.MaxRounds)
	if ctx.FilePath != "" {
		a.BaseDir = filepath.Dir(ctx.FilePath)
	}

	errs := a.Analyze(program)
	for _, err := range errs {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}

	ctx.Scope = a.Scope()
	ctx.TypeRegistry = reg
	ctx.Traits = tr
	return ctx
}
