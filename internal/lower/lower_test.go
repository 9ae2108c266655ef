package lower

import (
	"testing"

	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
	"github.com/funvibe/graphitc/internal/symbols"
	"github.com/funvibe/graphitc/internal/token"
)

func rng() fir.Range { return fir.Range{} }

func TestEmitProgram_RegistersTopLevelDeclarations(t *testing.T) {
	prog := &fir.Program{
		Base: fir.NewBase(rng()),
		Elements: []fir.Node{
			&fir.ElementTypeDecl{Base: fir.NewBase(rng()), Name: "Vertex"},
			&fir.FuncDecl{Base: fir.NewBase(rng()), Name: "main", Body: &fir.StmtBlock{Base: fir.NewBase(rng())}},
			&fir.ExternDecl{Base: fir.NewBase(rng()), Name: "edges", Ty: &fir.OpaqueType{Base: fir.NewBase(rng()), Name: "EdgeSet"}},
			&fir.VarDecl{
				Base:  fir.NewBase(rng()),
				Name:  "count",
				Value: &fir.IntLiteral{Base: fir.NewBase(rng()), Value: 0},
			},
		},
	}

	ctx := mircontext.New()
	syms := symbols.NewTable()
	body, errs := EmitProgram(prog, ctx, syms, "test.gt")

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := ctx.ElementTypes["Vertex"]; !ok {
		t.Fatalf("expected Vertex element type registered")
	}
	if _, ok := ctx.LookupFunction("main"); !ok {
		t.Fatalf("expected main function registered")
	}
	if _, ok := ctx.Globals["edges"]; !ok {
		t.Fatalf("expected edges global registered")
	}
	if ctx.FunctionOrder[0] != "main" {
		t.Fatalf("expected FunctionOrder to record main, got %v", ctx.FunctionOrder)
	}
	if len(body) != 1 {
		t.Fatalf("expected one lowered top-level statement, got %d", len(body))
	}
	decl, ok := body[0].(*mir.VarDecl)
	if !ok {
		t.Fatalf("expected *mir.VarDecl, got %T", body[0])
	}
	if decl.Name != "count" {
		t.Fatalf("expected count, got %s", decl.Name)
	}
}

func TestEmitFunctionBody_LazyPerFunction(t *testing.T) {
	body := &fir.StmtBlock{
		Base: fir.NewBase(rng()),
		Stmts: []fir.Stmt{
			&fir.PrintStmt{Base: fir.NewBase(rng()), Args: []fir.Expr{&fir.StringLiteral{Base: fir.NewBase(rng()), Value: "hi"}}},
		},
	}
	decl := &fir.FuncDecl{Base: fir.NewBase(rng()), Name: "f", Body: body}

	e := New(mircontext.New(), symbols.NewTable(), "test.gt")
	stmts, errs := e.EmitFunctionBody(decl)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*mir.PrintStmt); !ok {
		t.Fatalf("expected *mir.PrintStmt, got %T", stmts[0])
	}

	externDecl := &fir.FuncDecl{Base: fir.NewBase(rng()), Name: "g", Body: nil}
	stmts, errs = e.EmitFunctionBody(externDecl)
	if stmts != nil || errs != nil {
		t.Fatalf("expected nil/nil for an extern function, got %v %v", stmts, errs)
	}
}

func TestVisitIfStmt_FoldsElseIfChainIntoNestedElse(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")
	n := &fir.IfStmt{
		Base: fir.NewBase(rng()),
		Cond: &fir.BoolLiteral{Base: fir.NewBase(rng()), Value: true},
		Then: &fir.StmtBlock{Base: fir.NewBase(rng())},
		ElseIfs: []fir.ElseIf{
			{Cond: &fir.BoolLiteral{Base: fir.NewBase(rng()), Value: false}, Block: &fir.StmtBlock{Base: fir.NewBase(rng())}},
		},
		Else: &fir.StmtBlock{
			Base:  fir.NewBase(rng()),
			Stmts: []fir.Stmt{&fir.BreakStmt{Base: fir.NewBase(rng())}},
		},
	}

	out := e.EmitStmt(n).(*mir.IfStmt)
	if len(out.Else) != 1 {
		t.Fatalf("expected exactly one nested stmt in Else, got %d", len(out.Else))
	}
	nested, ok := out.Else[0].(*mir.IfStmt)
	if !ok {
		t.Fatalf("expected nested *mir.IfStmt, got %T", out.Else[0])
	}
	if len(nested.Else) != 1 {
		t.Fatalf("expected the elif's else to carry the original Else block, got %d stmts", len(nested.Else))
	}
	if _, ok := nested.Else[0].(*mir.BreakStmt); !ok {
		t.Fatalf("expected *mir.BreakStmt, got %T", nested.Else[0])
	}
}

func TestVisitAssignStmt_PlusAssignNormalizesToBinary(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")
	n := &fir.AssignStmt{
		Base: fir.NewBase(rng()),
		Lhs:  &fir.VarExpr{Base: fir.NewBase(rng()), Name: "total"},
		Op:   token.PLUS_ASSIGN,
		Rhs:  &fir.IntLiteral{Base: fir.NewBase(rng()), Value: 1},
	}

	out := e.EmitStmt(n).(*mir.AssignStmt)
	bin, ok := out.Rhs.(*mir.BinaryExpr)
	if !ok {
		t.Fatalf("expected +=  to normalize into a BinaryExpr rhs, got %T", out.Rhs)
	}
	if bin.Op != token.PLUS {
		t.Fatalf("expected PLUS op, got %s", bin.Op)
	}
}

func TestVisitAssignStmt_MinAssignBecomesReduceStmt(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")
	n := &fir.AssignStmt{
		Base: fir.NewBase(rng()),
		Lhs:  &fir.VarExpr{Base: fir.NewBase(rng()), Name: "dist"},
		Op:   token.MIN_ASSIGN,
		Rhs:  &fir.VarExpr{Base: fir.NewBase(rng()), Name: "cand"},
	}

	out := e.EmitStmt(n)
	if _, ok := out.(*mir.ReduceStmt); !ok {
		t.Fatalf("expected min= to lower to *mir.ReduceStmt, got %T", out)
	}
}

func TestVisitApplyExpr_BecomesEdgeSetApplyWithUnresolvedDirection(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")
	n := &fir.ApplyExpr{
		Base:          fir.NewBase(rng()),
		Target:        &fir.VarExpr{Base: fir.NewBase(rng()), Name: "edges"},
		Type:          fir.RegularApply,
		InputFunction: "updateEdge",
		FromExpr:      &fir.FromExpr{Base: fir.NewBase(rng()), InputFunc: "srcActive"},
	}

	out := e.EmitExpr(n).(*mir.EdgeSetApplyExpr)
	if out.Direction != mir.DirectionUnresolved {
		t.Fatalf("expected DirectionUnresolved, got %v", out.Direction)
	}
	if !out.HasFrom || out.FromFunc != "srcActive" {
		t.Fatalf("expected From filter preserved, got %+v", out)
	}
	if out.ApplyFunc != "updateEdge" {
		t.Fatalf("expected ApplyFunc updateEdge, got %s", out.ApplyFunc)
	}
	// InputFunction/FromExpr name an undeclared function; lowering still
	// succeeds but records the diagnostic rather than aborting.
	if len(e.Errors) == 0 {
		t.Fatalf("expected undeclared-function diagnostics to be recorded")
	}
}

func TestVisitWhereExpr_BecomesVertexSetApplyExpr(t *testing.T) {
	syms := symbols.NewTable()
	syms.Declare("isActive", symbols.Function)
	e := New(mircontext.New(), syms, "test.gt")
	n := &fir.WhereExpr{
		Base:   fir.NewBase(rng()),
		Target: &fir.VarExpr{Base: fir.NewBase(rng()), Name: "vertices"},
		Pred:   "isActive",
	}

	out := e.EmitExpr(n).(*mir.VertexSetApplyExpr)
	if out.ApplyFunc != "isActive" {
		t.Fatalf("expected isActive, got %s", out.ApplyFunc)
	}
	if len(e.Errors) != 0 {
		t.Fatalf("expected no diagnostics for a properly declared predicate, got %v", e.Errors)
	}
}

func TestTupleAndFieldReadsFoldIntoOneMIRKind(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")

	field := e.EmitExpr(&fir.FieldReadExpr{
		Base:   fir.NewBase(rng()),
		Target: &fir.VarExpr{Base: fir.NewBase(rng()), Name: "t"},
		Field:  "weight",
	}).(*mir.FieldReadExpr)
	if field.Field != "weight" {
		t.Fatalf("expected field weight, got %s", field.Field)
	}

	tup := e.EmitExpr(&fir.TupleReadExpr{
		Base:   fir.NewBase(rng()),
		Target: &fir.VarExpr{Base: fir.NewBase(rng()), Name: "t"},
		Index:  2,
	}).(*mir.FieldReadExpr)
	if tup.Field != "2" {
		t.Fatalf("expected field \"2\", got %s", tup.Field)
	}
}

func TestAllocatorsLowerToFixedRuntimeConstructorCalls(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")

	list := e.EmitExpr(&fir.ListAllocExpr{
		Base:     fir.NewBase(rng()),
		ElemType: &fir.ScalarType{Base: fir.NewBase(rng()), Name: "int"},
	}).(*mir.Call)
	if list.Func != "newList" {
		t.Fatalf("expected newList, got %s", list.Func)
	}

	load := e.EmitExpr(&fir.EdgeSetLoadExpr{
		Base: fir.NewBase(rng()),
		File: &fir.StringLiteral{Base: fir.NewBase(rng()), Value: "graph.el"},
	}).(*mir.Call)
	if load.Func != "loadEdgeSet" {
		t.Fatalf("expected loadEdgeSet, got %s", load.Func)
	}
}

func TestDoWhileUnrollsToEagerBodyPlusWhile(t *testing.T) {
	e := New(mircontext.New(), symbols.NewTable(), "test.gt")
	block := &fir.StmtBlock{
		Base: fir.NewBase(rng()),
		Stmts: []fir.Stmt{
			&fir.DoWhileStmt{
				Base: fir.NewBase(rng()),
				Body: &fir.StmtBlock{
					Base:  fir.NewBase(rng()),
					Stmts: []fir.Stmt{&fir.BreakStmt{Base: fir.NewBase(rng())}},
				},
				Cond: &fir.BoolLiteral{Base: fir.NewBase(rng()), Value: false},
			},
		},
	}

	out := e.EmitBlock(block)
	if len(out) != 2 {
		t.Fatalf("expected 2 statements (unrolled body + while), got %d", len(out))
	}
	if _, ok := out[0].(*mir.BreakStmt); !ok {
		t.Fatalf("expected the unrolled body's first copy to be *mir.BreakStmt, got %T", out[0])
	}
	if _, ok := out[1].(*mir.WhileStmt); !ok {
		t.Fatalf("expected a trailing *mir.WhileStmt, got %T", out[1])
	}
}

func TestStructuralAbort_DeadGrammarNodeBecomesDiagnostic(t *testing.T) {
	prog := &fir.Program{
		Base: fir.NewBase(rng()),
		Elements: []fir.Node{
			&fir.VarDecl{
				Base: fir.NewBase(rng()),
				Name: "x",
				Value: &fir.SetReadExpr{
					Base:   fir.NewBase(rng()),
					Target: &fir.VarExpr{Base: fir.NewBase(rng()), Name: "s"},
					Index:  &fir.IntLiteral{Base: fir.NewBase(rng()), Value: 0},
				},
			},
		},
	}

	_, errs := EmitProgram(prog, mircontext.New(), symbols.NewTable(), "test.gt")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(errs), errs)
	}
	if errs[0].Code != diagnostics.ErrStructural {
		t.Fatalf("expected ErrStructural, got %s", errs[0].Code)
	}
}
