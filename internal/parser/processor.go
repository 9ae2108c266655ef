// Package parser's Processor wires New/ParseProgram into the pipeline
// the same way internal/lexer's processor wires the token producer: a
// zero-field Processor that mutates ctx in place and hands it on.
package parser

import (
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/pipeline"
	"github.com/funvibe/graphitc/internal/token"
)

// Processor runs the parser over ctx.TokenStream and stores the result
// on ctx.FIR. Diagnostics are accumulated on ctx rather than returned,
// per the pipeline's continue-on-error policy.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.AddError(diagnostics.NewParser(diagnostics.ErrStructural, token.Token{}, "token stream is nil"))
		return ctx
	}

	p := New(ctx.TokenStream, ctx)
	ctx.FIR = p.ParseProgram()
	return ctx
}
