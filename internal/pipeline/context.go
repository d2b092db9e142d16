package pipeline

import (
	"github.com/google/uuid"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/symbols"
	"github.com/velalang/vela/internal/token"
	"github.com/velalang/vela/internal/traits"
	"github.com/velalang/vela/internal/types"
)

// Processor is one stage of the compilation pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext is the state threaded through the pipeline. Each
// stage reads what earlier stages produced and appends its own
// results and diagnostics.
type PipelineContext struct {
	// BuildID identifies one pipeline run in diagnostics dumps.
	BuildID string

	SourceCode string
	FilePath   string

	TokenStream *token.Stream
	AstRoot     ast.Node

	Scope        *symbols.Scope
	TypeRegistry *types.Registry
	Traits       *traits.Registry

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		BuildID:    uuid.NewString(),
		SourceCode: source,
	}
}

// HasErrors reports whether any error-severity diagnostic was
// recorded. Warnings do not count.
func (ctx *PipelineContext) HasErrors() bool {
	for _, e := range ctx.Errors {
		if e.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}
