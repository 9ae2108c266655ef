// Package mir is the Midend Intermediate Representation: the reduced
// tree internal/lower produces from FIR, that internal/directionpolicy
// and internal/kernelvars annotate, and that internal/codegen consumes.
// Parallel in shape to internal/fir (tagged nodes, Base/Accept/Visitor)
// but smaller and closed: MIR has no ExprStmt wrapper (a bare Call,
// VertexSetApplyExpr, or EdgeSetApplyExpr is itself a Stmt) and no
// elif chain (IfStmt nests a second IfStmt in Else instead).
package mir

import "github.com/funvibe/graphitc/internal/fir"

// Range reuses the FIR source-range shape so a diagnostic raised during
// lowering or codegen can still point at the original source text the
// MIR node was produced from.
type Range = fir.Range

// Node is the base interface implemented by every MIR node.
type Node interface {
	Range() Range
	Accept(v Visitor)
}

// Stmt is any MIR node usable as one statement in a body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any MIR node usable as a value-producing expression.
type Expr interface {
	Node
	exprNode()
}

// Type is any MIR node usable in a type position.
type Type interface {
	Node
	typeNode()
}

// Base supplies Range() to every concrete node via embedding.
type Base struct {
	Rng Range
}

func (b *Base) Range() Range { return b.Rng }

// NewBase wraps rng for embedding into a concrete node literal.
func NewBase(rng Range) Base { return Base{Rng: rng} }

// ApplyKind mirrors fir.ApplyKind; kept as its own type so mir does not
// need fir beyond the Range alias above.
type ApplyKind int

const (
	RegularApply ApplyKind = iota
	UpdatePriorityApply
	UpdatePriorityExternApply
)

// Direction is the resolved (or not-yet-resolved) traversal direction of
// an EdgeSetApplyExpr.
//
// spec.md's data model names two concrete MIR subkinds,
// PushEdgeSetApplyExpr and PullEdgeSetApplyExpr. This is modeled instead
// as one EdgeSetApplyExpr struct carrying a Direction field: lowering
// produces the node once with Direction == DirectionUnresolved, and
// internal/directionpolicy resolves it in place. Two Go struct types
// would force that pass to rebuild the surrounding MIR tree just to swap
// a node's concrete type, which none of the other MIR passes need to do
// (kernelvars and codegen both mutate/read fields on existing nodes).
// Codegen still dispatches on Direction with a two-way switch, which is
// exactly what a type-switch over two concrete types would have given
// it, so nothing downstream loses precision.
type Direction int

const (
	DirectionUnresolved Direction = iota
	DirectionPush
	DirectionPull
)

func (d Direction) String() string {
	switch d {
	case DirectionPush:
		return "push"
	case DirectionPull:
		return "pull"
	default:
		return "unresolved"
	}
}
