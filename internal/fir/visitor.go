package fir

// Visitor is implemented by every FIR consumer: the printer, the
// MIREmitter (FIR to MIR lowering), and any future analysis pass. There
// is one Visit method per concrete node kind; BaseVisitor supplies
// no-op bodies plus structural traversal so a pass only overrides the
// kinds it cares about.
type Visitor interface {
	VisitProgram(n *Program)

	VisitElementTypeDecl(n *ElementTypeDecl)
	VisitFuncDecl(n *FuncDecl)
	VisitExternDecl(n *ExternDecl)
	VisitVarDecl(n *VarDecl)
	VisitConstDecl(n *ConstDecl)

	VisitStmtBlock(n *StmtBlock)
	VisitIfStmt(n *IfStmt)
	VisitWhileStmt(n *WhileStmt)
	VisitDoWhileStmt(n *DoWhileStmt)
	VisitForStmt(n *ForStmt)
	VisitPrintStmt(n *PrintStmt)
	VisitBreakStmt(n *BreakStmt)
	VisitExprStmt(n *ExprStmt)
	VisitAssignStmt(n *AssignStmt)
	VisitReduceStmt(n *ReduceStmt)
	VisitApplyStmt(n *ApplyStmt)
	VisitNameNode(n *NameNode)

	VisitIntLiteral(n *IntLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitBoolLiteral(n *BoolLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitVarExpr(n *VarExpr)
	VisitTensorReadExpr(n *TensorReadExpr)
	VisitSetReadExpr(n *SetReadExpr)
	VisitFieldReadExpr(n *FieldReadExpr)
	VisitTupleReadExpr(n *TupleReadExpr)
	VisitNegExpr(n *NegExpr)
	VisitTransposeExpr(n *TransposeExpr)
	VisitBinaryExpr(n *BinaryExpr)
	VisitLogicalExpr(n *LogicalExpr)
	VisitEqExpr(n *EqExpr)
	VisitCallExpr(n *CallExpr)
	VisitMethodCallExpr(n *MethodCallExpr)
	VisitFromExpr(n *FromExpr)
	VisitToExpr(n *ToExpr)
	VisitApplyExpr(n *ApplyExpr)
	VisitWhereExpr(n *WhereExpr)
	VisitIntersectionExpr(n *IntersectionExpr)
	VisitEdgeSetLoadExpr(n *EdgeSetLoadExpr)
	VisitMapExpr(n *MapExpr)
	VisitVertexSetAllocExpr(n *VertexSetAllocExpr)
	VisitListAllocExpr(n *ListAllocExpr)
	VisitVectorAllocExpr(n *VectorAllocExpr)
	VisitPriorityQueueAllocExpr(n *PriorityQueueAllocExpr)

	VisitScalarType(n *ScalarType)
	VisitNDTensorType(n *NDTensorType)
	VisitElementType(n *ElementType)
	VisitVertexSetType(n *VertexSetType)
	VisitEdgeSetType(n *EdgeSetType)
	VisitListType(n *ListType)
	VisitSetType(n *SetType)
	VisitPriorityQueueType(n *PriorityQueueType)
	VisitGridType(n *GridType)
	VisitTupleType(n *TupleType)
	VisitOpaqueType(n *OpaqueType)
}

// BaseVisitor gives every Visit method a structural-traversal default:
// visit the node's children and return. Embedding it lets a pass
// override only the node kinds it needs to act on.
type BaseVisitor struct {
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) VisitProgram(n *Program) {
	for _, e := range n.Elements {
		e.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitElementTypeDecl(n *ElementTypeDecl) {}

func (b *BaseVisitor) VisitFuncDecl(n *FuncDecl) {
	for _, p := range n.Args {
		if p.Ty != nil {
			p.Ty.Accept(b.self())
		}
	}
	for _, p := range n.Results {
		if p.Ty != nil {
			p.Ty.Accept(b.self())
		}
	}
	if n.Body != nil {
		n.Body.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitExternDecl(n *ExternDecl) {
	if n.Ty != nil {
		n.Ty.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitVarDecl(n *VarDecl) {
	if n.Ty != nil {
		n.Ty.Accept(b.self())
	}
	if n.Value != nil {
		n.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitConstDecl(n *ConstDecl) {
	if n.Ty != nil {
		n.Ty.Accept(b.self())
	}
	if n.Value != nil {
		n.Value.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitStmtBlock(n *StmtBlock) {
	for _, s := range n.Stmts {
		s.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitIfStmt(n *IfStmt) {
	n.Cond.Accept(b.self())
	n.Then.Accept(b.self())
	for _, ei := range n.ElseIfs {
		ei.Cond.Accept(b.self())
		ei.Block.Accept(b.self())
	}
	if n.Else != nil {
		n.Else.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitWhileStmt(n *WhileStmt) {
	n.Cond.Accept(b.self())
	n.Body.Accept(b.self())
}

func (b *BaseVisitor) VisitDoWhileStmt(n *DoWhileStmt) {
	n.Body.Accept(b.self())
	n.Cond.Accept(b.self())
}

func (b *BaseVisitor) VisitForStmt(n *ForStmt) {
	n.Domain.Lo.Accept(b.self())
	n.Domain.Hi.Accept(b.self())
	n.Body.Accept(b.self())
}

func (b *BaseVisitor) VisitPrintStmt(n *PrintStmt) {
	for _, a := range n.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitBreakStmt(n *BreakStmt) {}

func (b *BaseVisitor) VisitExprStmt(n *ExprStmt) {
	n.X.Accept(b.self())
}

func (b *BaseVisitor) VisitAssignStmt(n *AssignStmt) {
	n.Lhs.Accept(b.self())
	n.Rhs.Accept(b.self())
}

func (b *BaseVisitor) VisitReduceStmt(n *ReduceStmt) {
	n.Target.Accept(b.self())
	n.Value.Accept(b.self())
}

func (b *BaseVisitor) VisitApplyStmt(n *ApplyStmt) {
	n.Apply.Accept(b.self())
}

func (b *BaseVisitor) VisitNameNode(n *NameNode) {}

func (b *BaseVisitor) VisitIntLiteral(n *IntLiteral)       {}
func (b *BaseVisitor) VisitFloatLiteral(n *FloatLiteral)   {}
func (b *BaseVisitor) VisitBoolLiteral(n *BoolLiteral)     {}
func (b *BaseVisitor) VisitStringLiteral(n *StringLiteral) {}
func (b *BaseVisitor) VisitVarExpr(n *VarExpr)             {}

func (b *BaseVisitor) VisitTensorReadExpr(n *TensorReadExpr) {
	n.Target.Accept(b.self())
	for _, idx := range n.Indices {
		idx.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitSetReadExpr(n *SetReadExpr) {
	n.Target.Accept(b.self())
	n.Index.Accept(b.self())
}

func (b *BaseVisitor) VisitFieldReadExpr(n *FieldReadExpr) {
	n.Target.Accept(b.self())
}

func (b *BaseVisitor) VisitTupleReadExpr(n *TupleReadExpr) {
	n.Target.Accept(b.self())
}

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

func (b *BaseVisitor) VisitLogicalExpr(n *LogicalExpr) {
	n.Lhs.Accept(b.self())
	n.Rhs.Accept(b.self())
}

func (b *BaseVisitor) VisitEqExpr(n *EqExpr) {
	for _, op := range n.Operands {
		op.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitCallExpr(n *CallExpr) {
	for _, a := range n.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitMethodCallExpr(n *MethodCallExpr) {
	n.Receiver.Accept(b.self())
	for _, a := range n.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitFromExpr(n *FromExpr) {}
func (b *BaseVisitor) VisitToExpr(n *ToExpr)     {}

func (b *BaseVisitor) VisitApplyExpr(n *ApplyExpr) {
	n.Target.Accept(b.self())
	if n.FromExpr != nil {
		n.FromExpr.Accept(b.self())
	}
	if n.ToExpr != nil {
		n.ToExpr.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitWhereExpr(n *WhereExpr) {
	n.Target.Accept(b.self())
}

func (b *BaseVisitor) VisitIntersectionExpr(n *IntersectionExpr) {
	n.Lhs.Accept(b.self())
	n.Rhs.Accept(b.self())
}

func (b *BaseVisitor) VisitEdgeSetLoadExpr(n *EdgeSetLoadExpr) {
	n.File.Accept(b.self())
}

func (b *BaseVisitor) VisitMapExpr(n *MapExpr) {
	for _, a := range n.Args {
		a.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitVertexSetAllocExpr(n *VertexSetAllocExpr) {
	if n.NumElements != nil {
		n.NumElements.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitListAllocExpr(n *ListAllocExpr) {
	if n.ElemType != nil {
		n.ElemType.Accept(b.self())
	}
	if n.NumElements != nil {
		n.NumElements.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitVectorAllocExpr(n *VectorAllocExpr) {
	for _, idx := range n.IndexSets {
		idx.Accept(b.self())
	}
	if n.ElemType != nil {
		n.ElemType.Accept(b.self())
	}
	if n.InitValue != nil {
		n.InitValue.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitPriorityQueueAllocExpr(n *PriorityQueueAllocExpr) {
	if n.PriorityType != nil {
		n.PriorityType.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitScalarType(n *ScalarType) {}

func (b *BaseVisitor) VisitNDTensorType(n *NDTensorType) {
	for _, idx := range n.IndexSets {
		idx.Accept(b.self())
	}
	if n.ElementType != nil {
		n.ElementType.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitElementType(n *ElementType)       {}
func (b *BaseVisitor) VisitVertexSetType(n *VertexSetType)   {}

func (b *BaseVisitor) VisitEdgeSetType(n *EdgeSetType) {
	if n.WeightType != nil {
		n.WeightType.Accept(b.self())
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

func (b *BaseVisitor) VisitPriorityQueueType(n *PriorityQueueType) {}

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

// LabelScope tracks the chain of enclosing statement labels a pass is
// currently inside, used by internal/lower to look up the
// backend-config direction and fusion overrides keyed by label.
type LabelScope struct {
	labels []string
}

func (s *LabelScope) Push(label string) {
	s.labels = append(s.labels, label)
}

func (s *LabelScope) Pop() {
	s.labels = s.labels[:len(s.labels)-1]
}

func (s *LabelScope) Current() string {
	if len(s.labels) == 0 {
		return ""
	}
	return s.labels[len(s.labels)-1]
}
