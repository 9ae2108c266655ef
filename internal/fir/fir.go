// Package fir defines the Frontend Intermediate Representation: a tagged
// tree that mirrors the DSL's surface syntax. Every node is a concrete Go
// struct (a "sum type" expressed as one variant per kind, per DESIGN.md's
// re-expression of the original's virtual-inheritance hierarchy) carrying
// a source Range and, for statements, an optional user-given label.
package fir

import "github.com/funvibe/graphitc/internal/token"

// Range is a node's source span: (line_begin, col_begin, line_end, col_end).
type Range struct {
	LineBegin, ColBegin int
	LineEnd, ColEnd     int
}

// RangeOf builds a Range spanning from the start token to the end token.
func RangeOf(start, end token.Token) Range {
	return Range{LineBegin: start.Line, ColBegin: start.Col, LineEnd: end.EndLine, ColEnd: end.EndCol}
}

// RangeOfOne builds a Range covering a single token.
func RangeOfOne(t token.Token) Range {
	return Range{LineBegin: t.Line, ColBegin: t.Col, LineEnd: t.EndLine, ColEnd: t.EndCol}
}

// Node is the Base of every FIR node: declarations, statements,
// expressions, and types all implement it.
type Node interface {
	Range() Range
	Accept(v Visitor)
}

// Stmt is a Node that occurs in statement position. Every statement may
// carry a user-supplied `# label #` used to address it from later passes.
type Stmt interface {
	Node
	Label() string
	stmtNode()
}

// Expr is a Node that occurs in expression position.
type Expr interface {
	Node
	exprNode()
}

// Type is a Node describing a DSL type.
type Type interface {
	Node
	typeNode()
}

// Base is embedded by every concrete node to supply Range() and the
// label bookkeeping for statements without repeating both per kind.
type Base struct {
	Rng Range
	Lbl string
}

func (b *Base) Range() Range  { return b.Rng }
func (b *Base) Label() string { return b.Lbl }

// NewBase builds a Base carrying rng and an empty label, for node
// constructors outside this package.
func NewBase(rng Range) Base {
	return Base{Rng: rng}
}

// NewLabeledBase builds a Base carrying rng and a statement label.
func NewLabeledBase(rng Range, label string) Base {
	return Base{Rng: rng, Lbl: label}
}

// ---- Program ----

// Program is the root node: an ordered sequence of top-level elements.
type Program struct {
	Base
	Elements []Node
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// ---- Declarations ----

// ElementTypeDecl declares a graph element kind, e.g. `element Vertex end`.
type ElementTypeDecl struct {
	Base
	Name string
}

func (d *ElementTypeDecl) Accept(v Visitor) { v.VisitElementTypeDecl(d) }

// Param is a function parameter or result: a name plus a type.
type Param struct {
	Name string
	Ty   Type
}

// FuncDecl declares a function. Body is nil iff the function is external
// (its signature is followed by `;` or end of input instead of a body),
// per spec.md's invariant; an `extern` declaration is an ExternDecl.
type FuncDecl struct {
	Base
	Name       string
	Generics   []string
	Args       []Param
	Results    []Param
	Body       *StmtBlock
	IsExported bool
}

func (d *FuncDecl) Accept(v Visitor) { v.VisitFuncDecl(d) }

// ExternDecl declares an external (runtime-linked) function or global.
type ExternDecl struct {
	Base
	Name string
	Ty   Type
}

func (d *ExternDecl) Accept(v Visitor) { v.VisitExternDecl(d) }

// VarDecl declares a mutable global or local variable.
type VarDecl struct {
	Base
	Name string
	Ty   Type // optional, nil if inferred from Value
	Value Expr // optional
}

func (d *VarDecl) Accept(v Visitor) { v.VisitVarDecl(d) }
func (d *VarDecl) stmtNode()        {}

// ConstDecl declares an immutable global or local binding.
type ConstDecl struct {
	Base
	Name  string
	Ty    Type
	Value Expr
}

func (d *ConstDecl) Accept(v Visitor) { v.VisitConstDecl(d) }
func (d *ConstDecl) stmtNode()        {}

// ---- Statements ----

// StmtBlock is a sequence of statements ended by `end`, `elif` or
// `else` (or `while`, for a do-while body).
type StmtBlock struct {
	Base
	Stmts []Stmt
}

func (s *StmtBlock) Accept(v Visitor) { v.VisitStmtBlock(s) }
func (s *StmtBlock) stmtNode()        {}

// IfStmt is `if (cond) then [elif...] [else]`.
type IfStmt struct {
	Base
	Cond     Expr
	Then     *StmtBlock
	ElseIfs  []ElseIf
	Else     *StmtBlock
}

// ElseIf is one `elif (cond) block` clause.
type ElseIf struct {
	Cond  Expr
	Block *StmtBlock
}

func (s *IfStmt) Accept(v Visitor) { v.VisitIfStmt(s) }
func (s *IfStmt) stmtNode()        {}

// WhileStmt is `while (cond) body end`.
type WhileStmt struct {
	Base
	Cond Expr
	Body *StmtBlock
	// Fuse marks this loop as annotated for the fused-kernel code
	// generator (spec.md §6, "kernel fusion flag on while statements").
	Fuse bool
}

func (s *WhileStmt) Accept(v Visitor) { v.VisitWhileStmt(s) }
func (s *WhileStmt) stmtNode()        {}

// DoWhileStmt is `do body while (cond)`.
type DoWhileStmt struct {
	Base
	Body *StmtBlock
	Cond Expr
}

func (s *DoWhileStmt) Accept(v Visitor) { v.VisitDoWhileStmt(s) }
func (s *DoWhileStmt) stmtNode()        {}

// ForDomain is a range `[lo, hi)` or `[lo, hi]` a ForStmt iterates over.
type ForDomain struct {
	Lo, Hi    Expr
	Inclusive bool
}

// ForStmt is `for (i in lo:hi) body end`, or `for (i in [lo:hi]) body
// end` for an inclusive upper bound.
type ForStmt struct {
	Base
	Var    string
	Domain ForDomain
	Body   *StmtBlock
}

func (s *ForStmt) Accept(v Visitor) { v.VisitForStmt(s) }
func (s *ForStmt) stmtNode()        {}

// PrintStmt prints its expressions.
type PrintStmt struct {
	Base
	Args []Expr
}

func (s *PrintStmt) Accept(v Visitor) { v.VisitPrintStmt(s) }
func (s *PrintStmt) stmtNode()        {}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	Base
}

func (s *BreakStmt) Accept(v Visitor) { v.VisitBreakStmt(s) }
func (s *BreakStmt) stmtNode()        {}

// ExprStmt is a statement that is a bare expression (most commonly the
// method-chain apply forms: `edges.from(s).apply(f);`).
type ExprStmt struct {
	Base
	X Expr
}

func (s *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(s) }
func (s *ExprStmt) stmtNode()        {}

// AssignStmt is `lhs = rhs` or a compound reduction form `lhs += rhs`.
type AssignStmt struct {
	Base
	Lhs Expr
	Op  token.Kind // "=" or one of the reduction-assign operators
	Rhs Expr
}

func (s *AssignStmt) Accept(v Visitor) { v.VisitAssignStmt(s) }
func (s *AssignStmt) stmtNode()        {}

// ReduceStmt is an explicit reduction statement distinct from a compound
// AssignStmt, used inside apply functions to accumulate into a
// vertex/edge property: `dst_val min= src_val;`.
type ReduceStmt struct {
	Base
	Target Expr
	Op     token.Kind
	Value  Expr
}

func (s *ReduceStmt) Accept(v Visitor) { v.VisitReduceStmt(s) }
func (s *ReduceStmt) stmtNode()        {}

// ApplyKind distinguishes the three forms spec.md §3 names for ApplyExpr.
type ApplyKind int

const (
	RegularApply ApplyKind = iota
	UpdatePriorityApply
	UpdatePriorityExternApply
)

// ApplyStmt is an apply invoked directly in statement position (as
// opposed to wrapped in an ExprStmt); kept distinct because the parser's
// deprecated `apply_stmt` production (spec.md §9, "possibly buggy source
// behavior") is reachable but not part of the exposed grammar — retained
// here only so a round-trip of FIR produced by that path still type
// checks, never constructed by the documented grammar.
type ApplyStmt struct {
	Base
	Apply *ApplyExpr
}

func (s *ApplyStmt) Accept(v Visitor) { v.VisitApplyStmt(s) }
func (s *ApplyStmt) stmtNode()        {}

// NameNode is a bare identifier used as a standalone statement, e.g. a
// labeled no-op placeholder.
type NameNode struct {
	Base
	Name string
}

func (s *NameNode) Accept(v Visitor) { v.VisitNameNode(s) }
func (s *NameNode) stmtNode()        {}
