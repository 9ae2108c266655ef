package mir

// AssignStmt is a plain assignment; FIR's compound "+=" form is
// normalized at lowering time into Rhs == BinaryExpr{+, Lhs, <value>}
// so MIR never needs a compound-assignment operator field.
type AssignStmt struct {
	Base
	Lhs, Rhs Expr
}

func (*AssignStmt) stmtNode()          {}
func (n *AssignStmt) Accept(v Visitor) { v.VisitAssignStmt(n) }

// ReduceStmt carries one of config.ReductionOps's operator strings
// forward from FIR unchanged; codegen's device visitor turns every
// ReduceStmt inside a kernel region into an atomic accumulation.
type ReduceStmt struct {
	Base
	Target Expr
	Op     string
	Value  Expr
}

func (*ReduceStmt) stmtNode()          {}
func (n *ReduceStmt) Accept(v Visitor) { v.VisitReduceStmt(n) }

// CompareAndSwapStmt has no FIR counterpart and lowering never produces
// one — there is no DSL surface syntax for a bare CAS. The codegen
// visitors render it when present, but the dedup check they emit for an
// EdgeSetApplyExpr with change tracking enabled is written directly as
// compareAndSwap text, not built as this node.
type CompareAndSwapStmt struct {
	Base
	Target   Expr
	OldValue Expr
	NewValue Expr
}

func (*CompareAndSwapStmt) stmtNode()          {}
func (n *CompareAndSwapStmt) Accept(v Visitor) { v.VisitCompareAndSwapStmt(n) }

type VarDecl struct {
	Base
	Name  string
	Ty    Type
	Value Expr // nil when uninitialized
}

func (*VarDecl) stmtNode()          {}
func (n *VarDecl) Accept(v Visitor) { v.VisitVarDecl(n) }

type ForStmt struct {
	Base
	Var       string
	Lo, Hi    Expr
	Inclusive bool
	Body      []Stmt
}

func (*ForStmt) stmtNode()          {}
func (n *ForStmt) Accept(v Visitor) { v.VisitForStmt(n) }

// WhileStmt's Fuse flag is read by internal/codegen to decide whether
// to emit this loop's body via CodeGenGPUFusedKernel instead of
// CodeGenGPU; set by backend config (label override) or left false.
type WhileStmt struct {
	Base
	Cond Expr
	Body []Stmt
	Fuse bool
}

func (*WhileStmt) stmtNode()          {}
func (n *WhileStmt) Accept(v Visitor) { v.VisitWhileStmt(n) }

// IfStmt drops FIR's elif-chain representation: lowering nests a second
// IfStmt as the sole element of Else for every elif clause, so MIR only
// ever needs a single two-armed conditional.
type IfStmt struct {
	Base
	Cond Expr
	Then []Stmt
	Else []Stmt // nil, a plain else body, or [a single nested IfStmt]
}

func (*IfStmt) stmtNode()          {}
func (n *IfStmt) Accept(v Visitor) { v.VisitIfStmt(n) }

type PrintStmt struct {
	Base
	Args []Expr
}

func (*PrintStmt) stmtNode()          {}
func (n *PrintStmt) Accept(v Visitor) { v.VisitPrintStmt(n) }

type BreakStmt struct {
	Base
}

func (*BreakStmt) stmtNode()          {}
func (n *BreakStmt) Accept(v Visitor) { v.VisitBreakStmt(n) }

// HybridGPUStmt carries two alternative kernel-launch bodies (typically
// one push, one pull) and a runtime predicate; codegen emits an if on
// the predicate choosing between the two launches. Introduced by
// internal/directionpolicy.Resolve for an EdgeSetApplyExpr in statement
// position whose edgeset's TraversalFlavor is "hybrid".
type HybridGPUStmt struct {
	Base
	Predicate Expr
	PushBody  []Stmt
	PullBody  []Stmt
}

func (*HybridGPUStmt) stmtNode()          {}
func (n *HybridGPUStmt) Accept(v Visitor) { v.VisitHybridGPUStmt(n) }
