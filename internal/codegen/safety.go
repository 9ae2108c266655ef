package codegen

import (
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/token"
)

// CheckKernelWrites walks region — a push- or pull-direction kernel
// body, already direction-resolved — and flags every AssignStmt that
// writes directly to a property array or field. A push kernel iterates
// frontier sources and touches destinations by way of an edge, so the
// same destination can be reached by more than one source thread at
// once: such a write must go through a ReduceStmt (atomic) or
// CompareAndSwapStmt instead of a bare assignment, exactly as
// VisitReduceStmt and VisitEdgeSetApplyExpr's dedup guard already
// render them. A pull kernel needs no such check: it iterates
// destinations, so each one is visited by exactly the single thread
// that owns it, and a bare AssignStmt to it is already exclusive.
func CheckKernelWrites(region []mir.Stmt, direction mir.Direction) []*diagnostics.Error {
	if direction != mir.DirectionPush {
		return nil
	}
	var errs []*diagnostics.Error
	for _, s := range region {
		walkForUnsafeWrites(s, &errs)
	}
	return errs
}

func walkForUnsafeWrites(s mir.Stmt, errs *[]*diagnostics.Error) {
	switch n := s.(type) {
	case *mir.AssignStmt:
		if isPropertyWrite(n.Lhs) {
			*errs = append(*errs, diagnostics.New(diagnostics.PhaseCodegen, diagnostics.ErrUnsafeKernelWrite,
				tokenAt(n), exprString(n.Lhs)))
		}
	case *mir.IfStmt:
		for _, st := range n.Then {
			walkForUnsafeWrites(st, errs)
		}
		for _, st := range n.Else {
			walkForUnsafeWrites(st, errs)
		}
	case *mir.ForStmt:
		for _, st := range n.Body {
			walkForUnsafeWrites(st, errs)
		}
	}
}

// isPropertyWrite reports whether target is a property-array or field
// access rather than a plain local variable — the two MIR expression
// kinds lowering produces for both reading and writing a vertex/edge
// property, per TensorArrayReadExpr and FieldReadExpr's own doc
// comments.
func isPropertyWrite(target mir.Expr) bool {
	switch target.(type) {
	case *mir.TensorArrayReadExpr, *mir.FieldReadExpr:
		return true
	default:
		return false
	}
}

func tokenAt(n mir.Node) token.Token {
	r := n.Range()
	return token.Token{Line: r.LineBegin, Col: r.ColBegin, EndLine: r.LineEnd, EndCol: r.ColEnd}
}
