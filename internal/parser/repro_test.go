package parser

import (
	"testing"

	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/lexer"
	"github.com/funvibe/graphitc/internal/pipeline"
	"github.com/funvibe/graphitc/internal/symbols"
)

func newTestParser(t *testing.T, src string) *Parser {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src, "repro.gt")
	ctx = (&lexer.Processor{}).Process(ctx)
	return New(ctx.TokenStream, ctx)
}

// TestGenericCallVsLessThan reproduces the exact ambiguity spec.md §4.1
// calls out: `a<b>(c)` must parse as a generic call to a, while `a<b`
// alone (no matching `>` followed by `(`) must parse as a comparison.
func TestGenericCallVsLessThan(t *testing.T) {
	p := newTestParser(t, "a<b>(c)")
	p.syms.Declare("a", symbols.Function)
	expr := p.parseExpression(LOWEST)
	if len(p.ctx.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", p.ctx.Errors)
	}
	if expr == nil {
		t.Fatalf("expected a parsed expression")
	}
}

func TestLessThanComparisonNotMistakenForGenericCall(t *testing.T) {
	p := newTestParser(t, "a < b")
	expr := p.parseExpression(LOWEST)
	if len(p.ctx.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", p.ctx.Errors)
	}
	if _, ok := expr.(*fir.EqExpr); !ok {
		t.Fatalf("expected EqExpr for a plain comparison, got %T", expr)
	}
}

// TestChainStateScopedPerExpression verifies the fix this parser makes
// over a naive single shared buffer: parseExpression installs its own
// chain state and restores the caller's when it returns, so a from()
// buffered inside one expression cannot leak into an enclosing chain.
func TestChainStateScopedPerExpression(t *testing.T) {
	p := newTestParser(t, "edges.from(a).apply(f)")
	p.syms.Declare("f", symbols.Function)
	outer := p.chain
	_ = p.parseExpression(LOWEST)
	if p.chain != outer {
		t.Fatalf("expected chain state restored to the caller's frame after parseExpression returns")
	}
}
