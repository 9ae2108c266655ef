package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/lexer"
	"github.com/funvibe/graphitc/internal/parser"
	"github.com/funvibe/graphitc/internal/pipeline"
)

// mustParse runs the lexer and parser over src and fails the test if
// any diagnostic was recorded.
func mustParse(t *testing.T, src string) *fir.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src, "test.gt")
	ctx = (&lexer.Processor{}).Process(ctx)
	ctx = (&parser.Processor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("unexpected parse errors for %q:\n%s", src, strings.Join(msgs, "\n"))
	}
	return ctx.FIR
}

// parseLoose runs the pipeline without failing on diagnostics, for
// tests that want to inspect ctx.Errors themselves.
func parseLoose(src string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(src, "test.gt")
	ctx = (&lexer.Processor{}).Process(ctx)
	ctx = (&parser.Processor{}).Process(ctx)
	return ctx
}

func TestParseConstVertexSetAlloc(t *testing.T) {
	prog := mustParse(t, `
element vertex end
const V : vertexset{vertex} = new vertexset{vertex}(5);
`)
	if len(prog.Elements) != 2 {
		t.Fatalf("expected 2 top-level elements, got %d", len(prog.Elements))
	}
	cd, ok := prog.Elements[1].(*fir.ConstDecl)
	if !ok {
		t.Fatalf("expected ConstDecl, got %T", prog.Elements[1])
	}
	if cd.Name != "V" {
		t.Errorf("expected name V, got %s", cd.Name)
	}
	vt, ok := cd.Ty.(*fir.VertexSetType)
	if !ok {
		t.Fatalf("expected VertexSetType, got %T", cd.Ty)
	}
	if vt.ElementType != "vertex" {
		t.Errorf("expected element type vertex, got %s", vt.ElementType)
	}
	alloc, ok := cd.Value.(*fir.VertexSetAllocExpr)
	if !ok {
		t.Fatalf("expected VertexSetAllocExpr, got %T", cd.Value)
	}
	if alloc.ElementType != "vertex" {
		t.Errorf("expected alloc element type vertex, got %s", alloc.ElementType)
	}
	lit, ok := alloc.NumElements.(*fir.IntLiteral)
	if !ok || lit.Value != 5 {
		t.Errorf("expected numElements literal 5, got %#v", alloc.NumElements)
	}
}

func TestParseApplyChainFromFilter(t *testing.T) {
	prog := mustParse(t, `
func updateEdge(src:int, dst:int) end
func src(v:int)->(b:bool) b = true; end
func f() edges.from(src).apply(updateEdge); end
`)
	fn := prog.Elements[2].(*fir.FuncDecl)
	stmt := fn.Body.Stmts[0].(*fir.ExprStmt)
	apply, ok := stmt.X.(*fir.ApplyExpr)
	if !ok {
		t.Fatalf("expected ApplyExpr, got %T", stmt.X)
	}
	if apply.InputFunction != "updateEdge" {
		t.Errorf("expected input_function updateEdge, got %s", apply.InputFunction)
	}
	if apply.FromExpr == nil || apply.FromExpr.InputFunc != "src" {
		t.Fatalf("expected from_expr.input_func == src, got %#v", apply.FromExpr)
	}
	if apply.ToExpr != nil {
		t.Errorf("expected to_expr == nil, got %#v", apply.ToExpr)
	}
	if apply.Type != fir.RegularApply {
		t.Errorf("expected REGULAR_APPLY, got %v", apply.Type)
	}
	if target, ok := apply.Target.(*fir.VarExpr); !ok || target.Name != "edges" {
		t.Errorf("expected target VarExpr(edges), got %#v", apply.Target)
	}
}

func TestParseApplyModifiedThirdArg(t *testing.T) {
	prog := mustParse(t, `
func f(src:int, dst:int) end
func g() edges.applyModified(f, Parent, true); end
`)
	fn := prog.Elements[1].(*fir.FuncDecl)
	stmt := fn.Body.Stmts[0].(*fir.ExprStmt)
	apply := stmt.X.(*fir.ApplyExpr)
	if apply.ChangeTrackingField != "Parent" {
		t.Errorf("expected change_tracking_field Parent, got %s", apply.ChangeTrackingField)
	}
	if !apply.DisableDeduplication {
		t.Errorf("expected disable_deduplication true")
	}
	if !apply.HasChangeTracking {
		t.Errorf("expected has_change_tracking true")
	}
}

func TestParseApplyModifiedBadThirdArg(t *testing.T) {
	ctx := parseLoose(`
func f(src:int, dst:int) end
func g() edges.applyModified(f, Parent, 1); end
`)
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected a diagnostic for a non-literal third argument")
	}
}

func TestParseNaryEqExpr(t *testing.T) {
	prog := mustParse(t, `
func f()
  var a : int = 0;
  var b : int = 0;
  var c : bool = a < b <= 10;
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	decl := fn.Body.Stmts[2].(*fir.VarDecl)
	eq, ok := decl.Value.(*fir.EqExpr)
	if !ok {
		t.Fatalf("expected EqExpr, got %T", decl.Value)
	}
	if len(eq.Operands) != 3 || len(eq.Ops) != 2 {
		t.Fatalf("expected invariant len(Operands) == len(Ops)+1, got %d operands, %d ops", len(eq.Operands), len(eq.Ops))
	}
}

func TestParseWhileWithLabel(t *testing.T) {
	prog := mustParse(t, `
func f()
  var finished : int = 0;
  #outer# while (finished == 0)
    finished = 1;
  end
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	ws, ok := fn.Body.Stmts[1].(*fir.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", fn.Body.Stmts[1])
	}
	if ws.Label() != "outer" {
		t.Errorf("expected label outer, got %q", ws.Label())
	}
}

func TestParseIfElifElse(t *testing.T) {
	prog := mustParse(t, `
func f(x:int)
  if (x == 0)
    print x;
  elif (x == 1)
    print x;
  else
    print x;
  end
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	ifs := fn.Body.Stmts[0].(*fir.IfStmt)
	if len(ifs.ElseIfs) != 1 {
		t.Fatalf("expected 1 elif clause, got %d", len(ifs.ElseIfs))
	}
	if ifs.Else == nil {
		t.Fatalf("expected an else block")
	}
}

func TestParseForRange(t *testing.T) {
	prog := mustParse(t, `
func f()
  for (i in 0:10)
    print i;
  end
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	fs := fn.Body.Stmts[0].(*fir.ForStmt)
	if fs.Var != "i" {
		t.Errorf("expected loop var i, got %s", fs.Var)
	}
}

func TestParseReduceStmt(t *testing.T) {
	prog := mustParse(t, `
func update(src:int, dst:int)
  dist min= dist;
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	rs, ok := fn.Body.Stmts[0].(*fir.ReduceStmt)
	if !ok {
		t.Fatalf("expected ReduceStmt, got %T", fn.Body.Stmts[0])
	}
	if rs.Op != "min=" {
		t.Errorf("expected op min=, got %s", rs.Op)
	}
}

func TestParseCompoundAssignIsAssignStmt(t *testing.T) {
	prog := mustParse(t, `
func update(src:int, dst:int)
  dist += dist;
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	as, ok := fn.Body.Stmts[0].(*fir.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt for +=, got %T", fn.Body.Stmts[0])
	}
	if as.Op != "+=" {
		t.Errorf("expected op +=, got %s", as.Op)
	}
}

func TestParseIntrinsicNameQualified(t *testing.T) {
	prog := mustParse(t, `
func f(e: edgeset{vertex,vertex})
  print getVertices(e);
end
`)
	fn := prog.Elements[0].(*fir.FuncDecl)
	ps := fn.Body.Stmts[0].(*fir.PrintStmt)
	call, ok := ps.Args[0].(*fir.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", ps.Args[0])
	}
	if call.Func != "builtin_getVertices" {
		t.Errorf("expected builtin_getVertices, got %s", call.Func)
	}
}

func TestScopeBalanceAfterValidAndInvalidPrograms(t *testing.T) {
	for _, src := range []string{
		`func f(x:int) var y : int = x; end`,
		`func f(x:int`, // truncated: must not leave the symbol table unbalanced
	} {
		ctx := parseLoose(src)
		if ctx.SymbolTable.Depth() != 1 {
			t.Errorf("expected scope depth 1 after parsing %q, got %d", src, ctx.SymbolTable.Depth())
		}
	}
}
