package fir

import "github.com/funvibe/graphitc/internal/token"

// ---- Literals ----

type IntLiteral struct {
	Base
	Value int64
}

func (e *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(e) }
func (e *IntLiteral) exprNode()        {}

type FloatLiteral struct {
	Base
	Value float64
}

func (e *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(e) }
func (e *FloatLiteral) exprNode()        {}

type BoolLiteral struct {
	Base
	Value bool
}

func (e *BoolLiteral) Accept(v Visitor) { v.VisitBoolLiteral(e) }
func (e *BoolLiteral) exprNode()        {}

type StringLiteral struct {
	Base
	Value string
}

func (e *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(e) }
func (e *StringLiteral) exprNode()        {}

// ---- Names & reads ----

// VarExpr is a bare identifier read.
type VarExpr struct {
	Base
	Name string
}

func (e *VarExpr) Accept(v Visitor) { v.VisitVarExpr(e) }
func (e *VarExpr) exprNode()        {}

// TensorReadExpr is `target[index, ...]`.
type TensorReadExpr struct {
	Base
	Target  Expr
	Indices []Expr
}

func (e *TensorReadExpr) Accept(v Visitor) { v.VisitTensorReadExpr(e) }
func (e *TensorReadExpr) exprNode()        {}

// SetReadExpr is the parser's deprecated set-read production (spec.md
// §9): reachable internally but not reachable from the documented
// grammar. Kept so a FIR produced programmatically that still uses it
// round-trips.
type SetReadExpr struct {
	Base
	Target Expr
	Index  Expr
}

func (e *SetReadExpr) Accept(v Visitor) { v.VisitSetReadExpr(e) }
func (e *SetReadExpr) exprNode()        {}

// FieldReadExpr is `target.field`, used for tuple named-reads and for
// `.ident` access that the symbol table does not classify as a method
// call (i.e. not `ident(...)` on a non-function).
type FieldReadExpr struct {
	Base
	Target Expr
	Field  string
}

func (e *FieldReadExpr) Accept(v Visitor) { v.VisitFieldReadExpr(e) }
func (e *FieldReadExpr) exprNode()        {}

// TupleReadExpr is `tuple(index)`, the unnamed-tuple read form.
type TupleReadExpr struct {
	Base
	Target Expr
	Index  int
}

func (e *TupleReadExpr) Accept(v Visitor) { v.VisitTupleReadExpr(e) }
func (e *TupleReadExpr) exprNode()        {}

// ---- Arithmetic / logical / comparison ----

type NegExpr struct {
	Base
	X Expr
}

func (e *NegExpr) Accept(v Visitor) { v.VisitNegExpr(e) }
func (e *NegExpr) exprNode()        {}

type TransposeExpr struct {
	Base
	X Expr
}

func (e *TransposeExpr) Accept(v Visitor) { v.VisitTransposeExpr(e) }
func (e *TransposeExpr) exprNode()        {}

// BinaryExpr covers +, -, *, /, \, .*, ./, ^ (exponent, right-assoc).
type BinaryExpr struct {
	Base
	Op       token.Kind
	Lhs, Rhs Expr
}

func (e *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(e) }
func (e *BinaryExpr) exprNode()        {}

// LogicalExpr covers and/or/xor.
type LogicalExpr struct {
	Base
	Op       token.Kind
	Lhs, Rhs Expr
}

func (e *LogicalExpr) Accept(v Visitor) { v.VisitLogicalExpr(e) }
func (e *LogicalExpr) exprNode()        {}

// EqExpr is an N-ary chain of equality/relational comparisons, e.g.
// `a < b <= c`. Invariant (spec.md §3): len(Operands) == len(Ops) + 1.
type EqExpr struct {
	Base
	Operands []Expr
	Ops      []token.Kind
}

func (e *EqExpr) Accept(v Visitor) { v.VisitEqExpr(e) }
func (e *EqExpr) exprNode()        {}

// ---- Calls ----

// CallExpr is a resolved function call: `f(args...)`, or an intrinsic
// call after the parser has rewritten the name to `builtin_<name>`.
type CallExpr struct {
	Base
	Func string
	Args []Expr
}

func (e *CallExpr) Accept(v Visitor) { v.VisitCallExpr(e) }
func (e *CallExpr) exprNode()        {}

// MethodCallExpr is `receiver.method(args...)` where method is not
// classified as a user FUNCTION (otherwise the parser emits CallExpr).
type MethodCallExpr struct {
	Base
	Receiver Expr
	Method   string
	Args     []Expr
}

func (e *MethodCallExpr) Accept(v Visitor) { v.VisitMethodCallExpr(e) }
func (e *MethodCallExpr) exprNode()        {}

// ---- Graph apply / where / from / to / intersection ----

// FromExpr / ToExpr hold the filter function identifier buffered by the
// parser's chain state and attached to the next apply* in the chain.
type FromExpr struct {
	Base
	InputFunc string
}

func (e *FromExpr) Accept(v Visitor) { v.VisitFromExpr(e) }
func (e *FromExpr) exprNode()        {}

type ToExpr struct {
	Base
	InputFunc string
}

func (e *ToExpr) Accept(v Visitor) { v.VisitToExpr(e) }
func (e *ToExpr) exprNode()        {}

// ApplyExpr is `target[.from(F)][.to(T)].apply*(fn[, ...])`.
type ApplyExpr struct {
	Base
	Target              Expr
	Type                ApplyKind
	InputFunction       string
	FromExpr            *FromExpr // nil if absent
	ToExpr              *ToExpr   // nil if absent
	ChangeTrackingField string    // set only when emitted by applyModified
	DisableDeduplication bool     // applyModified's optional third argument
	HasChangeTracking   bool
}

func (e *ApplyExpr) Accept(v Visitor) { v.VisitApplyExpr(e) }
func (e *ApplyExpr) exprNode()        {}

// WhereExpr is `vertices.where(pred)` / `.filter(pred)`.
type WhereExpr struct {
	Base
	Target Expr
	Pred   string
}

func (e *WhereExpr) Accept(v Visitor) { v.VisitWhereExpr(e) }
func (e *WhereExpr) exprNode()        {}

// IntersectionExpr is `intersection(a, b)`.
type IntersectionExpr struct {
	Base
	Lhs, Rhs Expr
}

func (e *IntersectionExpr) Accept(v Visitor) { v.VisitIntersectionExpr(e) }
func (e *IntersectionExpr) exprNode()        {}

// EdgeSetLoadExpr is `load(file)`.
type EdgeSetLoadExpr struct {
	Base
	File Expr
}

func (e *EdgeSetLoadExpr) Accept(v Visitor) { v.VisitEdgeSetLoadExpr(e) }
func (e *EdgeSetLoadExpr) exprNode()        {}

// MapExpr is `map(fn, arg...)`.
type MapExpr struct {
	Base
	Func string
	Args []Expr
}

func (e *MapExpr) Accept(v Visitor) { v.VisitMapExpr(e) }
func (e *MapExpr) exprNode()        {}

// ---- Allocators (`new ...`) ----

// VertexSetAllocExpr is `new vertexset{Elt}([count])`.
type VertexSetAllocExpr struct {
	Base
	ElementType string
	NumElements Expr // optional
}

func (e *VertexSetAllocExpr) Accept(v Visitor) { v.VisitVertexSetAllocExpr(e) }
func (e *VertexSetAllocExpr) exprNode()        {}

// ListAllocExpr is `new list{Type}([count])`.
type ListAllocExpr struct {
	Base
	ElemType    Type
	NumElements Expr // optional
}

func (e *ListAllocExpr) Accept(v Visitor) { v.VisitListAllocExpr(e) }
func (e *ListAllocExpr) exprNode()        {}

// VectorAllocExpr is `new vector[...]{Elt}(scalar)`.
type VectorAllocExpr struct {
	Base
	IndexSets []Expr
	ElemType  Type
	InitValue Expr
}

func (e *VectorAllocExpr) Accept(v Visitor) { v.VisitVectorAllocExpr(e) }
func (e *VectorAllocExpr) exprNode()        {}

// PriorityQueueAllocExpr is
// `new PriorityQueue{Elt}(prio)(dup_within, dup_across, vector_fn,
// bucket_ord, priority_ord, init_bucket, start_node)`.
type PriorityQueueAllocExpr struct {
	Base
	ElementType     string
	PriorityType    Type
	DupWithin       Expr
	DupAcross       Expr
	VectorFunction  Expr
	BucketOrdering  Expr
	PriorityOrdering Expr
	InitBucket      Expr
	StartNode       Expr
}

func (e *PriorityQueueAllocExpr) Accept(v Visitor) { v.VisitPriorityQueueAllocExpr(e) }
func (e *PriorityQueueAllocExpr) exprNode()        {}
