package lexer

import (
	"github.com/velalang/vela/internal/pipeline"
	"github.com/velalang/vela/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	ctx.TokenStream = token.NewStream(l)
	return ctx
}
