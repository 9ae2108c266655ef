package lexer

import (
	"github.com/funvibe/graphitc/internal/pipeline"
	"github.com/funvibe/graphitc/internal/token"
)

const lookaheadBufferSize = 16

// bufferedLexer adapts a *Lexer to pipeline.TokenStream, providing the
// bounded lookahead (peeks of up to 5 the parser needs for disambiguation,
// buffered generously beyond that) the grammar's primary-expression
// disambiguation sites rely on.
type bufferedLexer struct {
	l      *Lexer
	buffer []token.Token
	pos    int
}

// NewTokenStream wraps l as a pipeline.TokenStream.
func NewTokenStream(l *Lexer) pipeline.TokenStream {
	return &bufferedLexer{l: l}
}

func (bl *bufferedLexer) Next() token.Token {
	if bl.pos < len(bl.buffer) {
		tok := bl.buffer[bl.pos]
		bl.pos++
		return tok
	}
	return bl.l.NextToken()
}

func (bl *bufferedLexer) Peek(n int) []token.Token {
	for len(bl.buffer)-bl.pos < n {
		next := bl.l.NextToken()
		bl.buffer = append(bl.buffer, next)
		if next.Kind == token.EOF {
			break
		}
	}

	if bl.pos > lookaheadBufferSize {
		bl.buffer = bl.buffer[bl.pos:]
		bl.pos = 0
	}

	end := bl.pos + n
	if end > len(bl.buffer) {
		end = len(bl.buffer)
	}
	return bl.buffer[bl.pos:end]
}

var _ pipeline.TokenStream = (*bufferedLexer)(nil)

// Processor plugs the lexer into a pipeline.Pipeline as its first stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.TokenStream = NewTokenStream(New(ctx.SourceCode))
	return ctx
}
