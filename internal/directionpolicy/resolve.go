package directionpolicy

import (
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
)

// Resolve assigns directions exactly as Assign does, but additionally
// rewrites any edgeset apply that appears directly as a statement (not
// nested inside an assignment or reduction) and whose TraversalFlavor
// is "hybrid" into a HybridGPUStmt carrying a push-bodied and a
// pull-bodied copy plus a runtime predicate choosing between them at
// launch time.
//
// Only a statement-list position can host this rewrite: a Visit method
// reaching an EdgeSetApplyExpr nested inside, say, an AssignStmt.Rhs has
// no slot to replace it with two alternative bodies, so a "hybrid"
// flavor found there falls back to the plain Choose heuristic instead
// (pull, absent a from/to filter) — that limitation is inherent to
// HybridGPUStmt's shape (spec.md's MIR kind list gives it two []Stmt
// bodies, not two Expr alternatives), not an oversight here.
func Resolve(body []mir.Stmt, ctx *mircontext.Context) []mir.Stmt {
	p := New(ctx)
	return p.resolveBlock(body)
}

func (p *Policy) resolveBlock(body []mir.Stmt) []mir.Stmt {
	out := make([]mir.Stmt, 0, len(body))
	for _, s := range body {
		out = append(out, p.resolveStmt(s))
	}
	return out
}

func (p *Policy) resolveStmt(s mir.Stmt) mir.Stmt {
	switch n := s.(type) {
	case *mir.EdgeSetApplyExpr:
		if p.isHybrid(n) {
			return p.splitHybrid(n)
		}
		n.Target.Accept(p)
		if n.Direction == mir.DirectionUnresolved {
			n.Direction = p.Choose(n)
		}
		return n
	case *mir.IfStmt:
		n.Cond.Accept(p)
		n.Then = p.resolveBlock(n.Then)
		n.Else = p.resolveBlock(n.Else)
		return n
	case *mir.WhileStmt:
		n.Cond.Accept(p)
		n.Body = p.resolveBlock(n.Body)
		return n
	case *mir.ForStmt:
		n.Lo.Accept(p)
		n.Hi.Accept(p)
		n.Body = p.resolveBlock(n.Body)
		return n
	case *mir.HybridGPUStmt:
		n.Predicate.Accept(p)
		n.PushBody = p.resolveBlock(n.PushBody)
		n.PullBody = p.resolveBlock(n.PullBody)
		return n
	default:
		s.Accept(p)
		return s
	}
}

// splitHybrid produces two independent copies of n — one pinned Push,
// one pinned Pull — wrapped in a HybridGPUStmt. Both copies share
// n.Target and every function-name field since lowering never attaches
// per-direction state to them.
func (p *Policy) splitHybrid(n *mir.EdgeSetApplyExpr) *mir.HybridGPUStmt {
	push := *n
	push.Direction = mir.DirectionPush
	pull := *n
	pull.Direction = mir.DirectionPull
	return &mir.HybridGPUStmt{
		Base: mir.NewBase(n.Range()),
		Predicate: &mir.Call{
			Base: mir.NewBase(n.Range()),
			Func: "frontierBelowThreshold",
			Args: []mir.Expr{n.Target},
		},
		PushBody: []mir.Stmt{&push},
		PullBody: []mir.Stmt{&pull},
	}
}
