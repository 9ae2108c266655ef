package pipeline

import (
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
	"github.com/funvibe/graphitc/internal/symbols"
)

// PipelineContext holds all the data passed between pipeline stages, from
// source text through FIR, MIR, and finally generated output.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	TokenStream TokenStream
	FIR         *fir.Program
	SymbolTable *symbols.Table

	MIRCtx *mircontext.Context
	MIR    []mir.Stmt // top-level host statements, in program order

	Errors []*diagnostics.Error
}

// NewPipelineContext creates and initializes a new PipelineContext.
func NewPipelineContext(source, filePath string) *PipelineContext {
	return &PipelineContext{
		SourceCode:  source,
		FilePath:    filePath,
		SymbolTable: symbols.NewTable(),
		MIRCtx:      mircontext.New(),
	}
}

// AddError records a diagnostic without halting the pipeline.
func (c *PipelineContext) AddError(e *diagnostics.Error) {
	c.Errors = append(c.Errors, e)
}

// HasErrors reports whether any stage has recorded a diagnostic.
func (c *PipelineContext) HasErrors() bool {
	return len(c.Errors) > 0
}
