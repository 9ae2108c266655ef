// Package kernelvars implements the kernel variable extractor:
// internal/codegen asks it, once per kernel region (a WhileStmt body or
// a HybridGPUStmt's push/pull body), which outer variables that
// region's generated kernel needs captured by value at launch, and
// which locally-declared variables the generator needs to lift to
// kernel-local storage.
package kernelvars

import "github.com/funvibe/graphitc/internal/mir"

// Result is kernelvars.Extract's output.
type Result struct {
	// HoistedVars names every variable read inside the region whose
	// declaration lies outside it, deduplicated by name (first
	// occurrence wins); order is not significant.
	HoistedVars []string

	// HoistedDecls lists every VarDecl found inside the region, in
	// discovery order — later decls may read earlier ones, so codegen
	// must emit them in this order when lifting them to kernel-local
	// storage.
	HoistedDecls []*mir.VarDecl

	// InOutVars is the subset of HoistedVars the region also assigns,
	// reduces into, or compare-and-swaps — not just reads. Hoisted
	// variables act as read-only per-launch snapshots by default: a
	// kernel captures them by value, so a write inside the kernel would
	// silently vanish once the launch returns instead of being visible
	// to the host or to later launches. codegen must pass these by
	// reference (or write them back explicitly after the launch)
	// instead of by value.
	InOutVars []string
}

// Extract walks region and classifies every variable it touches.
// Idempotent and order-independent on HoistedVars; repeated calls on an
// unchanged region return an equal Result.
func Extract(region mir.Stmt) Result {
	e := &extractor{declared: make(map[string]bool), hoisted: make(map[string]bool)}
	e.Self = e
	region.Accept(e)
	return e.result
}

type extractor struct {
	mir.BaseVisitor
	declared map[string]bool
	hoisted  map[string]bool
	inout    map[string]bool
	result   Result
}

func (e *extractor) VisitVarExpr(n *mir.VarExpr) {
	if e.declared[n.Name] || e.hoisted[n.Name] {
		return
	}
	e.hoisted[n.Name] = true
	e.result.HoistedVars = append(e.result.HoistedVars, n.Name)
}

// markWritten flags target as in-out if it names a hoisted (not
// locally declared) variable. Anything other than a bare VarExpr
// (a field or index target) writes through the pointer/slice the
// hoisted variable itself already carries, so it needs no separate
// in-out treatment.
func (e *extractor) markWritten(target mir.Expr) {
	v, ok := target.(*mir.VarExpr)
	if !ok || e.declared[v.Name] {
		return
	}
	if e.inout == nil {
		e.inout = make(map[string]bool)
	}
	if !e.inout[v.Name] {
		e.inout[v.Name] = true
		e.result.InOutVars = append(e.result.InOutVars, v.Name)
	}
}

func (e *extractor) VisitAssignStmt(n *mir.AssignStmt) {
	e.markWritten(n.Lhs)
	n.Lhs.Accept(e)
	n.Rhs.Accept(e)
}

func (e *extractor) VisitReduceStmt(n *mir.ReduceStmt) {
	e.markWritten(n.Target)
	n.Target.Accept(e)
	n.Value.Accept(e)
}

func (e *extractor) VisitCompareAndSwapStmt(n *mir.CompareAndSwapStmt) {
	e.markWritten(n.Target)
	n.Target.Accept(e)
	n.OldValue.Accept(e)
	n.NewValue.Accept(e)
}

func (e *extractor) VisitVarDecl(n *mir.VarDecl) {
	e.declared[n.Name] = true
	e.result.HoistedDecls = append(e.result.HoistedDecls, n)
	if n.Ty != nil {
		n.Ty.Accept(e)
	}
	if n.Value != nil {
		n.Value.Accept(e)
	}
}

// VisitForStmt binds the loop variable as locally declared for the
// duration of the body, the same way a VarDecl would, so `for v in
// range: use(v)` doesn't hoist v.
func (e *extractor) VisitForStmt(n *mir.ForStmt) {
	n.Lo.Accept(e)
	n.Hi.Accept(e)
	wasDeclared := e.declared[n.Var]
	e.declared[n.Var] = true
	for _, s := range n.Body {
		s.Accept(e)
	}
	if !wasDeclared {
		delete(e.declared, n.Var)
	}
}
