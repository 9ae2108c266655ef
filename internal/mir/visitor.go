package mir

// Visitor is implemented by every MIR consumer: internal/directionpolicy,
// internal/kernelvars, and the three internal/codegen visitors. One
// Visit method per concrete node kind; BaseVisitor supplies a no-op plus
// structural-traversal default for each so a pass overrides only the
// kinds it acts on.
type Visitor interface {
	VisitScalarType(n *ScalarType)
	VisitElementType(n *ElementType)
	VisitVertexSetType(n *VertexSetType)
	VisitEdgeSetType(n *EdgeSetType)
	VisitNDTensorType(n *NDTensorType)
	VisitListType(n *ListType)
	VisitSetType(n *SetType)
	VisitPriorityQueueType(n *PriorityQueueType)
	VisitGridType(n *GridType)
	VisitTupleType(n *TupleType)
	VisitOpaqueType(n *OpaqueType)

	VisitIntLiteral(n *IntLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitBoolLiteral(n *BoolLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitVarExpr(n *VarExpr)
	VisitNegExpr(n *NegExpr)
	VisitTransposeExpr(n *TransposeExpr)
	VisitBinaryExpr(n *BinaryExpr)
	VisitEqExpr(n *EqExpr)
	VisitTensorArrayReadExpr(n *TensorArrayReadExpr)
	VisitFieldReadExpr(n *FieldReadExpr)
	VisitIntersectionExpr(n *IntersectionExpr)
	VisitCall(n *Call)
	VisitVertexSetApplyExpr(n *VertexSetApplyExpr)
	VisitVertexSetAllocExpr(n *VertexSetAllocExpr)
	VisitVertexSetDedupExpr(n *VertexSetDedupExpr)
	VisitEdgeSetApplyExpr(n *EdgeSetApplyExpr)

	VisitAssignStmt(n *AssignStmt)
	VisitReduceStmt(n *ReduceStmt)
	VisitCompareAndSwapStmt(n *CompareAndSwapStmt)
	VisitVarDecl(n *VarDecl)
	VisitForStmt(n *ForStmt)
	VisitWhileStmt(n *WhileStmt)
	VisitIfStmt(n *IfStmt)
	VisitPrintStmt(n *PrintStmt)
	VisitBreakStmt(n *BreakStmt)
	VisitHybridGPUStmt(n *HybridGPUStmt)
}

// BaseVisitor gives every Visit method a structural-traversal default.
// Embed it and set Self to the outer visitor so traversal dispatches
// back through the override, the same trick internal/fir.BaseVisitor
// uses.
type BaseVisitor struct {
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) VisitScalarType(n *ScalarType)     {}
func (b *BaseVisitor) VisitElementType(n *ElementType)   {}
func (b *BaseVisitor) VisitVertexSetType(n *VertexSetType) {}

func (b *BaseVisitor) VisitEdgeSetType(n *EdgeSetType) {
	if n.WeightType != nil {
		n.WeightType.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitNDTensorType(n *NDTensorType) {
	for _, idx := range n.IndexSets {
		idx.Accept(b.self())
	}
	if n.ElementType != nil {
		n.ElementType.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitListType(n *ListType) {
	if n.ElemType != nil {
		n.ElemType.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitSetType(n *SetType) {
	for _, e := range n.ElemTypes {
		e.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitPriorityQueueType(n *PriorityQueueType) {
	if n.PriorityType != nil {
		n.PriorityType.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitGridType(n *GridType) {
	for _, d := range n.Dims {
		d.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitTupleType(n *TupleType) {
	for _, f := range n.Fields {
		if f.Ty != nil {
			f.Ty.Accept(b.self())
		}
	}
}

func (b *BaseVisitor) VisitOpaqueType(n *OpaqueType) {}

func (b *BaseVisitor) VisitIntLiteral(n *IntLiteral)       {}
func (b *BaseVisitor) VisitFloatLiteral(n *FloatLiteral)   {}
func (b *BaseVisitor) VisitBoolLiteral(n *BoolLiteral)     {}
func (b *BaseVisitor) VisitStringLiteral(n *StringLiteral) {}
func (b *BaseVisitor) VisitVarExpr(n *VarExpr)             {}

func (b *BaseVisitor) VisitNegExpr(n *NegExpr) {
	n.X.Accept(b.self())
}

func (b *BaseVisitor) VisitTransposeExpr(n *TransposeExpr) {
	n.X.Accept(b.self())
}

func (b *BaseVisitor) VisitBinaryExpr(n *BinaryExpr) {
	n.Lhs.Accept(b.self())
	n.Rhs.Accept(b.self())
}

func (b *BaseVisitor) VisitEqExpr(n *EqExpr) {
	for _, op := range n.Operands {
		op.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitTensorArrayReadExpr(n *TensorArrayReadExpr) {
	n.Target.Accept(b.self())
	for _, idx := range n.Indices {
		idx.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitFieldReadExpr(n *FieldReadExpr) {
	n.Target.Accept(b.self())
}

func (b *BaseVisitor) VisitIntersectionExpr(n *IntersectionExpr) {
	n.Lhs.Accept(b.self())
	n.Rhs.Accept(b.self())
}

func (b *BaseVisitor) VisitCall(n *Call) {
	for _, a := range n.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitVertexSetApplyExpr(n *VertexSetApplyExpr) {
	n.Target.Accept(b.self())
}

func (b *BaseVisitor) VisitVertexSetAllocExpr(n *VertexSetAllocExpr) {
	if n.NumElements != nil {
		n.NumElements.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitVertexSetDedupExpr(n *VertexSetDedupExpr) {
	n.Target.Accept(b.self())
}

func (b *BaseVisitor) VisitEdgeSetApplyExpr(n *EdgeSetApplyExpr) {
	n.Target.Accept(b.self())
}

func (b *BaseVisitor) VisitAssignStmt(n *AssignStmt) {
	n.Lhs.Accept(b.self())
	n.Rhs.Accept(b.self())
}

func (b *BaseVisitor) VisitReduceStmt(n *ReduceStmt) {
	n.Target.Accept(b.self())
	n.Value.Accept(b.self())
}

func (b *BaseVisitor) VisitCompareAndSwapStmt(n *CompareAndSwapStmt) {
	n.Target.Accept(b.self())
	n.OldValue.Accept(b.self())
	n.NewValue.Accept(b.self())
}

func (b *BaseVisitor) VisitVarDecl(n *VarDecl) {
	if n.Ty != nil {
		n.Ty.Accept(b.self())
	}
	if n.Value != nil {
		n.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitForStmt(n *ForStmt) {
	n.Lo.Accept(b.self())
	n.Hi.Accept(b.self())
	for _, s := range n.Body {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitWhileStmt(n *WhileStmt) {
	n.Cond.Accept(b.self())
	for _, s := range n.Body {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitIfStmt(n *IfStmt) {
	n.Cond.Accept(b.self())
	for _, s := range n.Then {
		s.Accept(b.self())
	}
	for _, s := range n.Else {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitPrintStmt(n *PrintStmt) {
	for _, a := range n.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitBreakStmt(n *BreakStmt) {}

func (b *BaseVisitor) VisitHybridGPUStmt(n *HybridGPUStmt) {
	n.Predicate.Accept(b.self())
	for _, s := range n.PushBody {
		s.Accept(b.self())
	}
	for _, s := range n.PullBody {
		s.Accept(b.self())
	}
}
