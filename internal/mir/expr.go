package mir

import "github.com/funvibe/graphitc/internal/token"

type IntLiteral struct {
	Base
	Value int64
}

func (*IntLiteral) exprNode()          {}
func (n *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(n) }

type FloatLiteral struct {
	Base
	Value float64
}

func (*FloatLiteral) exprNode()          {}
func (n *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(n) }

type BoolLiteral struct {
	Base
	Value bool
}

func (*BoolLiteral) exprNode()          {}
func (n *BoolLiteral) Accept(v Visitor) { v.VisitBoolLiteral(n) }

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) exprNode()          {}
func (n *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(n) }

// VarExpr is a resolved reference to a name. The symbol table category
// is not carried here — lowering has already used it to decide what
// FIR node to produce; MIR just needs the name.
type VarExpr struct {
	Base
	Name string
}

func (*VarExpr) exprNode()          {}
func (n *VarExpr) Accept(v Visitor) { v.VisitVarExpr(n) }

type NegExpr struct {
	Base
	X Expr
}

func (*NegExpr) exprNode()          {}
func (n *NegExpr) Accept(v Visitor) { v.VisitNegExpr(n) }

// BinaryExpr covers arithmetic, bitwise, and logical binary operators;
// MIR does not separate LogicalExpr from BinaryExpr the way FIR does,
// since codegen emits both the same way (an infix operator on two
// emitted operands).
type BinaryExpr struct {
	Base
	Op       token.Kind
	Lhs, Rhs Expr
}

func (*BinaryExpr) exprNode()          {}
func (n *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(n) }

// EqExpr is an n-ary chain of equality/relational comparisons, carried
// over from FIR's EqExpr unchanged: len(Operands) == len(Ops)+1.
type EqExpr struct {
	Base
	Operands []Expr
	Ops      []token.Kind
}

func (*EqExpr) exprNode()          {}
func (n *EqExpr) Accept(v Visitor) { v.VisitEqExpr(n) }

// TensorArrayReadExpr reads Target at Indices (a property array or
// tensor read); codegen's host visitor wraps this in a device->host
// copy when Target is a device-resident property array.
type TensorArrayReadExpr struct {
	Base
	Target  Expr
	Indices []Expr
}

func (*TensorArrayReadExpr) exprNode()          {}
func (n *TensorArrayReadExpr) Accept(v Visitor) { v.VisitTensorArrayReadExpr(n) }

// Call is both an Expr (used where it produces a value) and a Stmt
// (used where a call appears standalone, e.g. loadEdgeSet(file) or a
// user function invoked for effect) — MIR has no separate ExprStmt.
type Call struct {
	Base
	Func string
	Args []Expr
}

func (*Call) exprNode()          {}
func (*Call) stmtNode()          {}
func (n *Call) Accept(v Visitor) { v.VisitCall(n) }

// VertexSetApplyExpr is the lowering of a WhereExpr: ApplyFunc is the
// predicate, Target is the vertexset being filtered, and the node's
// value is the newly produced (filtered) vertexset.
type VertexSetApplyExpr struct {
	Base
	Target    Expr
	ApplyFunc string
}

func (*VertexSetApplyExpr) exprNode()          {}
func (*VertexSetApplyExpr) stmtNode()          {}
func (n *VertexSetApplyExpr) Accept(v Visitor) { v.VisitVertexSetApplyExpr(n) }

// VertexSetAllocExpr allocates a fresh vertexset of ElementType sized
// NumElements (nil for backend-inferred size).
type VertexSetAllocExpr struct {
	Base
	ElementType string
	NumElements Expr
}

func (*VertexSetAllocExpr) exprNode()          {}
func (n *VertexSetAllocExpr) Accept(v Visitor) { v.VisitVertexSetAllocExpr(n) }

// VertexSetDedupExpr wraps the frontier produced by an EdgeSetApplyExpr
// that has not disabled deduplication.
type VertexSetDedupExpr struct {
	Base
	Target Expr
}

func (*VertexSetDedupExpr) exprNode()          {}
func (n *VertexSetDedupExpr) Accept(v Visitor) { v.VisitVertexSetDedupExpr(n) }

// EdgeSetApplyExpr is the lowering of every FIR ApplyExpr: Target is the
// edgeset operand, ApplyFunc the function run per edge, optional
// From/To filters, an optional change-tracking field, and a Direction
// resolved by a later pass (see Direction's doc comment). Also usable
// directly as a Stmt: `edges.from(s).apply(f);` lowers to this node
// appearing in a Body slice with its value discarded.
type EdgeSetApplyExpr struct {
	Base
	Target   Expr
	Kind     ApplyKind
	ApplyFunc string

	HasFrom  bool
	FromFunc string
	HasTo    bool
	ToFunc   string

	HasChangeTracking   bool
	ChangeTrackingField string
	DisableDeduplication bool

	Direction        Direction
	KernelDispatched bool
}

func (*EdgeSetApplyExpr) exprNode()          {}
func (*EdgeSetApplyExpr) stmtNode()          {}
func (n *EdgeSetApplyExpr) Accept(v Visitor) { v.VisitEdgeSetApplyExpr(n) }

// FieldReadExpr reads one field of Target, used for both named-tuple
// field reads (Field is the field name) and unnamed-tuple reads (Field
// is the decimal index) — FIR keeps these as two node kinds
// (FieldReadExpr/TupleReadExpr); MIR folds them into one since codegen
// emits both the same way (Target.Field).
type FieldReadExpr struct {
	Base
	Target Expr
	Field  string
}

func (*FieldReadExpr) exprNode()          {}
func (n *FieldReadExpr) Accept(v Visitor) { v.VisitFieldReadExpr(n) }

type TransposeExpr struct {
	Base
	X Expr
}

func (*TransposeExpr) exprNode()          {}
func (n *TransposeExpr) Accept(v Visitor) { v.VisitTransposeExpr(n) }

type IntersectionExpr struct {
	Base
	Lhs, Rhs Expr
}

func (*IntersectionExpr) exprNode()          {}
func (n *IntersectionExpr) Accept(v Visitor) { v.VisitIntersectionExpr(n) }
