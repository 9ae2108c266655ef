package lower

import (
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/token"
)

// VisitVarDecl also handles a VarDecl used as a local statement inside a
// function body (VarDecl implements fir.Stmt as well as being a
// top-level declaration; EmitProgram registers the top-level case
// separately and still routes the value through EmitStmt for its
// initializer).
func (e *Emitter) VisitVarDecl(n *fir.VarDecl) {
	var ty mir.Type
	if n.Ty != nil {
		ty = e.EmitType(n.Ty)
	}
	var val mir.Expr
	if n.Value != nil {
		val = e.EmitExpr(n.Value)
	}
	e.retStmt = &mir.VarDecl{Base: mir.NewBase(n.Range()), Name: n.Name, Ty: ty, Value: val}
}

// VisitConstDecl folds const into mir.VarDecl: MIR's kind list has no
// separate const-declaration node, and codegen needs no mutability
// distinction once a value is known.
func (e *Emitter) VisitConstDecl(n *fir.ConstDecl) {
	var ty mir.Type
	if n.Ty != nil {
		ty = e.EmitType(n.Ty)
	}
	e.retStmt = &mir.VarDecl{Base: mir.NewBase(n.Range()), Name: n.Name, Ty: ty, Value: e.EmitExpr(n.Value)}
}

// VisitStmtBlock: StmtBlock is only ever reached through a dedicated
// field (FuncDecl.Body, IfStmt.Then/Else, WhileStmt.Body, ForStmt.Body),
// each of which calls EmitBlock directly rather than EmitStmt. Reaching
// this method means something Accepted a StmtBlock generically.
func (e *Emitter) VisitStmtBlock(n *fir.StmtBlock) {
	e.abortf(n.Range(), "StmtBlock must be lowered via EmitBlock, not EmitStmt")
}

func (e *Emitter) VisitIfStmt(n *fir.IfStmt) {
	e.retStmt = &mir.IfStmt{
		Base: mir.NewBase(n.Range()),
		Cond: e.EmitExpr(n.Cond),
		Then: e.EmitBlock(n.Then),
		Else: e.emitElse(n.ElseIfs, n.Else),
	}
}

// emitElse folds FIR's elif chain into nested MIR IfStmts: MIR's IfStmt
// has no ElseIfs field, only a single Else []Stmt, which holds either a
// plain else body or exactly one nested IfStmt.
func (e *Emitter) emitElse(elseIfs []fir.ElseIf, els *fir.StmtBlock) []mir.Stmt {
	if len(elseIfs) > 0 {
		head := elseIfs[0]
		nested := &mir.IfStmt{
			Base: mir.NewBase(head.Cond.Range()),
			Cond: e.EmitExpr(head.Cond),
			Then: e.EmitBlock(head.Block),
			Else: e.emitElse(elseIfs[1:], els),
		}
		return []mir.Stmt{nested}
	}
	if els != nil {
		return e.EmitBlock(els)
	}
	return nil
}

// VisitWhileStmt ORs the source-level fuse annotation with a backend-
// config override keyed by this statement's own label (just pushed onto
// e.labels by EmitStmt) — either one is enough to route the loop to
// CodeGenGPUFusedKernel.
func (e *Emitter) VisitWhileStmt(n *fir.WhileStmt) {
	e.retStmt = &mir.WhileStmt{
		Base: mir.NewBase(n.Range()),
		Cond: e.EmitExpr(n.Cond),
		Body: e.EmitBlock(n.Body),
		Fuse: n.Fuse || e.ctx.IsFused(e.labels.Current()),
	}
}

// VisitDoWhileStmt: do-while is unrolled by EmitBlock.emitDoWhile, which
// calls EmitBlock(n.Body) directly, never EmitStmt on the DoWhileStmt
// itself. Reaching this method means a do-while occurred somewhere
// EmitBlock didn't pre-expand it (e.g. as a FuncDecl body's sole
// statement accepted directly) — a lowering bug, not a dead grammar
// production, but still reported the same way.
func (e *Emitter) VisitDoWhileStmt(n *fir.DoWhileStmt) {
	e.abortf(n.Range(), "do-while must be lowered via EmitBlock, not EmitStmt")
}

func (e *Emitter) VisitForStmt(n *fir.ForStmt) {
	e.retStmt = &mir.ForStmt{
		Base:      mir.NewBase(n.Range()),
		Var:       n.Var,
		Lo:        e.EmitExpr(n.Domain.Lo),
		Hi:        e.EmitExpr(n.Domain.Hi),
		Inclusive: n.Domain.Inclusive,
		Body:      e.EmitBlock(n.Body),
	}
}

func (e *Emitter) VisitPrintStmt(n *fir.PrintStmt) {
	args := make([]mir.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, e.EmitExpr(a))
	}
	e.retStmt = &mir.PrintStmt{Base: mir.NewBase(n.Range()), Args: args}
}

func (e *Emitter) VisitBreakStmt(n *fir.BreakStmt) {
	e.retStmt = &mir.BreakStmt{Base: mir.NewBase(n.Range())}
}

// VisitExprStmt unwraps ExprStmt entirely: MIR has no ExprStmt node
// because Call/VertexSetApplyExpr/EdgeSetApplyExpr each implement both
// exprNode() and stmtNode(), so the lowered expression itself can sit
// directly in a []mir.Stmt body.
func (e *Emitter) VisitExprStmt(n *fir.ExprStmt) {
	x := e.EmitExpr(n.X)
	s, ok := x.(mir.Stmt)
	if !ok {
		e.abortf(n.Range(), "expression statement %T does not lower to a statement-capable MIR node", n.X)
	}
	e.retStmt = s
}

// VisitAssignStmt splits FIR's single AssignStmt (plain "=" plus four
// reduction-assign operators) across two MIR statement kinds: plain
// assignment and "+=" normalize into mir.AssignStmt (folding "+=" into
// an explicit BinaryExpr on the right-hand side), while the min/max
// reduction operators carry semantic weight codegen needs preserved
// (atomic vs. async reduction) and so keep their own mir.ReduceStmt.
func (e *Emitter) VisitAssignStmt(n *fir.AssignStmt) {
	switch n.Op {
	case token.ASSIGN:
		e.retStmt = &mir.AssignStmt{Base: mir.NewBase(n.Range()), Lhs: e.EmitExpr(n.Lhs), Rhs: e.EmitExpr(n.Rhs)}
	case token.PLUS_ASSIGN:
		rhs := &mir.BinaryExpr{
			Base: mir.NewBase(n.Range()),
			Op:   token.PLUS,
			Lhs:  e.EmitExpr(n.Lhs),
			Rhs:  e.EmitExpr(n.Rhs),
		}
		e.retStmt = &mir.AssignStmt{Base: mir.NewBase(n.Range()), Lhs: e.EmitExpr(n.Lhs), Rhs: rhs}
	case token.MIN_ASSIGN, token.MAX_ASSIGN, token.ASYNC_MIN_ASSIGN, token.ASYNC_MAX_ASSIGN:
		e.retStmt = &mir.ReduceStmt{
			Base:   mir.NewBase(n.Range()),
			Target: e.EmitExpr(n.Lhs),
			Op:     string(n.Op),
			Value:  e.EmitExpr(n.Rhs),
		}
	default:
		e.abortf(n.Range(), "unsupported assignment operator %q", n.Op)
	}
}

func (e *Emitter) VisitReduceStmt(n *fir.ReduceStmt) {
	e.retStmt = &mir.ReduceStmt{
		Base:   mir.NewBase(n.Range()),
		Target: e.EmitExpr(n.Target),
		Op:     string(n.Op),
		Value:  e.EmitExpr(n.Value),
	}
}

// VisitApplyStmt: the parser's deprecated apply_stmt production (fir.
// ApplyStmt's own doc comment) is reachable internally but not part of
// the documented grammar; the supported path always wraps an apply in
// ExprStmt instead.
func (e *Emitter) VisitApplyStmt(n *fir.ApplyStmt) {
	e.abortf(n.Range(), "ApplyStmt is not reachable from the supported grammar")
}

// VisitNameNode: a bare identifier used as a standalone statement has
// no MIR meaning — it is not a call, not an assignment, not anything
// with an effect.
func (e *Emitter) VisitNameNode(n *fir.NameNode) {
	e.abortf(n.Range(), "NameNode is not reachable from the supported grammar")
}
