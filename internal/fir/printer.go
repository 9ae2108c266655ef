package fir

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/graphitc/internal/config"
)

// Printer renders a FIR tree back into DSL source text. It exists for
// the parser round-trip property: parse source, print the FIR, parse
// the output again, and compare the two trees structurally.
//
// Printer does not attempt to reproduce the original formatting
// (whitespace, comments) — only a canonical syntax that re-parses to an
// equivalent tree.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

func NewPrinter() *Printer {
	return &Printer{}
}

func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeIndent() {
	p.write(strings.Repeat("  ", p.indent))
}

func (p *Printer) VisitProgram(n *Program) {
	for _, e := range n.Elements {
		e.Accept(p)
		p.write("\n")
	}
}

func (p *Printer) VisitElementTypeDecl(n *ElementTypeDecl) {
	p.write(fmt.Sprintf("element %s end\n", n.Name))
}

func (p *Printer) writeParam(params []Param) {
	for i, pr := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(pr.Name + " : ")
		pr.Ty.Accept(p)
	}
}

func (p *Printer) VisitFuncDecl(n *FuncDecl) {
	if n.IsExported {
		p.write("export ")
	}
	p.write("func " + n.Name)
	if len(n.Generics) > 0 {
		p.write("{" + strings.Join(n.Generics, ", ") + "}")
	}
	p.write("(")
	p.writeParam(n.Args)
	p.write(")")
	if len(n.Results) > 0 {
		p.write(" -> (")
		p.writeParam(n.Results)
		p.write(")")
	}
	if n.Body == nil {
		p.write(";\n")
		return
	}
	p.write("\n")
	n.Body.Accept(p)
	p.write("end\n")
}

func (p *Printer) VisitExternDecl(n *ExternDecl) {
	p.write("extern " + n.Name + " : ")
	n.Ty.Accept(p)
	p.write("\n")
}

func (p *Printer) VisitVarDecl(n *VarDecl) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "var " + n.Name)
	if n.Ty != nil {
		p.write(" : ")
		n.Ty.Accept(p)
	}
	if n.Value != nil {
		p.write(" = ")
		n.Value.Accept(p)
	}
	p.write(";\n")
}

func (p *Printer) VisitConstDecl(n *ConstDecl) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "const " + n.Name)
	if n.Ty != nil {
		p.write(" : ")
		n.Ty.Accept(p)
	}
	p.write(" = ")
	n.Value.Accept(p)
	p.write(";\n")
}

func (p *Printer) labelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return "#" + label + "# "
}

func (p *Printer) VisitStmtBlock(n *StmtBlock) {
	p.indent++
	for _, s := range n.Stmts {
		s.Accept(p)
	}
	p.indent--
}

func (p *Printer) VisitIfStmt(n *IfStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "if (")
	n.Cond.Accept(p)
	p.write(")\n")
	n.Then.Accept(p)
	for _, ei := range n.ElseIfs {
		p.writeIndent()
		p.write("elif (")
		ei.Cond.Accept(p)
		p.write(")\n")
		ei.Block.Accept(p)
	}
	if n.Else != nil {
		p.writeIndent()
		p.write("else\n")
		n.Else.Accept(p)
	}
	p.writeIndent()
	p.write("end\n")
}

func (p *Printer) VisitWhileStmt(n *WhileStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "while (")
	n.Cond.Accept(p)
	p.write(")\n")
	n.Body.Accept(p)
	p.writeIndent()
	p.write("end\n")
}

func (p *Printer) VisitDoWhileStmt(n *DoWhileStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "do\n")
	n.Body.Accept(p)
	p.writeIndent()
	p.write("while (")
	n.Cond.Accept(p)
	p.write(");\n")
}

func (p *Printer) VisitForStmt(n *ForStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "for (" + n.Var + " in ")
	if n.Domain.Inclusive {
		p.write("[")
	}
	n.Domain.Lo.Accept(p)
	p.write(":")
	n.Domain.Hi.Accept(p)
	if n.Domain.Inclusive {
		p.write("]")
	}
	p.write(")\n")
	n.Body.Accept(p)
	p.writeIndent()
	p.write("end\n")
}

func (p *Printer) VisitPrintStmt(n *PrintStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "print ")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(";\n")
}

func (p *Printer) VisitBreakStmt(n *BreakStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + "break;\n")
}

func (p *Printer) VisitExprStmt(n *ExprStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl))
	n.X.Accept(p)
	p.write(";\n")
}

func (p *Printer) VisitAssignStmt(n *AssignStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl))
	n.Lhs.Accept(p)
	p.write(" " + string(n.Op) + " ")
	n.Rhs.Accept(p)
	p.write(";\n")
}

func (p *Printer) VisitReduceStmt(n *ReduceStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl))
	n.Target.Accept(p)
	p.write(" " + string(n.Op) + " ")
	n.Value.Accept(p)
	p.write(";\n")
}

func (p *Printer) VisitApplyStmt(n *ApplyStmt) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl))
	n.Apply.Accept(p)
	p.write(";\n")
}

func (p *Printer) VisitNameNode(n *NameNode) {
	p.writeIndent()
	p.write(p.labelPrefix(n.Lbl) + n.Name + ";\n")
}

func (p *Printer) VisitIntLiteral(n *IntLiteral)     { p.write(fmt.Sprintf("%d", n.Value)) }
func (p *Printer) VisitFloatLiteral(n *FloatLiteral) { p.write(fmt.Sprintf("%g", n.Value)) }
func (p *Printer) VisitBoolLiteral(n *BoolLiteral) {
	if n.Value {
		p.write("true")
	} else {
		p.write("false")
	}
}
func (p *Printer) VisitStringLiteral(n *StringLiteral) { p.write(fmt.Sprintf("%q", n.Value)) }
func (p *Printer) VisitVarExpr(n *VarExpr)             { p.write(n.Name) }

func (p *Printer) VisitTensorReadExpr(n *TensorReadExpr) {
	n.Target.Accept(p)
	p.write("[")
	for i, idx := range n.Indices {
		if i > 0 {
			p.write(", ")
		}
		idx.Accept(p)
	}
	p.write("]")
}

func (p *Printer) VisitSetReadExpr(n *SetReadExpr) {
	n.Target.Accept(p)
	p.write("[")
	n.Index.Accept(p)
	p.write("]")
}

func (p *Printer) VisitFieldReadExpr(n *FieldReadExpr) {
	n.Target.Accept(p)
	p.write("." + n.Field)
}

func (p *Printer) VisitTupleReadExpr(n *TupleReadExpr) {
	n.Target.Accept(p)
	p.write(fmt.Sprintf("(%d)", n.Index))
}

func (p *Printer) VisitNegExpr(n *NegExpr) {
	p.write("-")
	n.X.Accept(p)
}

func (p *Printer) VisitTransposeExpr(n *TransposeExpr) {
	n.X.Accept(p)
	p.write("'")
}

func (p *Printer) VisitBinaryExpr(n *BinaryExpr) {
	p.write("(")
	n.Lhs.Accept(p)
	p.write(" " + string(n.Op) + " ")
	n.Rhs.Accept(p)
	p.write(")")
}

func (p *Printer) VisitLogicalExpr(n *LogicalExpr) {
	p.write("(")
	n.Lhs.Accept(p)
	p.write(" " + string(n.Op) + " ")
	n.Rhs.Accept(p)
	p.write(")")
}

func (p *Printer) VisitEqExpr(n *EqExpr) {
	p.write("(")
	for i, operand := range n.Operands {
		if i > 0 {
			p.write(" " + string(n.Ops[i-1]) + " ")
		}
		operand.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitCallExpr(n *CallExpr) {
	// The parser qualifies intrinsic calls itself, so print the bare name.
	name := n.Func
	if bare := strings.TrimPrefix(name, config.BuiltinPrefix); bare != name && config.IsIntrinsic(bare) {
		name = bare
	}
	p.write(name + "(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitMethodCallExpr(n *MethodCallExpr) {
	n.Receiver.Accept(p)
	p.write("." + n.Method + "(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitFromExpr(n *FromExpr) {
	p.write(".from(" + n.InputFunc + ")")
}

func (p *Printer) VisitToExpr(n *ToExpr) {
	p.write(".to(" + n.InputFunc + ")")
}

var applyMethodName = map[ApplyKind]string{
	RegularApply:              "apply",
	UpdatePriorityApply:       "applyUpdatePriority",
	UpdatePriorityExternApply: "applyUpdatePriorityExtern",
}

func (p *Printer) VisitApplyExpr(n *ApplyExpr) {
	n.Target.Accept(p)
	if n.FromExpr != nil {
		n.FromExpr.Accept(p)
	}
	if n.ToExpr != nil {
		n.ToExpr.Accept(p)
	}
	name := applyMethodName[n.Type]
	if n.HasChangeTracking {
		name = "applyModified"
	}
	p.write("." + name + "(" + n.InputFunction)
	if n.HasChangeTracking {
		p.write(", " + n.ChangeTrackingField)
		if n.DisableDeduplication {
			p.write(", true")
		}
	}
	p.write(")")
}

func (p *Printer) VisitWhereExpr(n *WhereExpr) {
	n.Target.Accept(p)
	p.write(".where(" + n.Pred + ")")
}

func (p *Printer) VisitIntersectionExpr(n *IntersectionExpr) {
	p.write("intersection(")
	n.Lhs.Accept(p)
	p.write(", ")
	n.Rhs.Accept(p)
	p.write(")")
}

func (p *Printer) VisitEdgeSetLoadExpr(n *EdgeSetLoadExpr) {
	p.write("load(")
	n.File.Accept(p)
	p.write(")")
}

func (p *Printer) VisitMapExpr(n *MapExpr) {
	p.write("map(" + n.Func)
	for _, a := range n.Args {
		p.write(", ")
		a.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitVertexSetAllocExpr(n *VertexSetAllocExpr) {
	p.write("new vertexset{" + n.ElementType + "}(")
	if n.NumElements != nil {
		n.NumElements.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitListAllocExpr(n *ListAllocExpr) {
	p.write("new list{")
	n.ElemType.Accept(p)
	p.write("}(")
	if n.NumElements != nil {
		n.NumElements.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitVectorAllocExpr(n *VectorAllocExpr) {
	p.write("new vector[")
	for i, idx := range n.IndexSets {
		if i > 0 {
			p.write(", ")
		}
		idx.Accept(p)
	}
	p.write("]{")
	n.ElemType.Accept(p)
	p.write("}(")
	if n.InitValue != nil {
		n.InitValue.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitPriorityQueueAllocExpr(n *PriorityQueueAllocExpr) {
	p.write("new priority_queue{" + n.ElementType + "}(")
	n.PriorityType.Accept(p)
	p.write(")")
	slots := []Expr{n.DupWithin, n.DupAcross, n.VectorFunction,
		n.BucketOrdering, n.PriorityOrdering, n.InitBucket, n.StartNode}
	if slots[0] == nil {
		return
	}
	p.write("(")
	for i, s := range slots {
		if s == nil {
			break
		}
		if i > 0 {
			p.write(", ")
		}
		s.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitScalarType(n *ScalarType) { p.write(n.Name) }

func (p *Printer) VisitNDTensorType(n *NDTensorType) {
	p.write("vector[")
	for i, idx := range n.IndexSets {
		if i > 0 {
			p.write(", ")
		}
		idx.Accept(p)
	}
	p.write("]{")
	n.ElementType.Accept(p)
	p.write("}")
}

func (p *Printer) VisitElementType(n *ElementType)     { p.write(n.Name) }
func (p *Printer) VisitVertexSetType(n *VertexSetType) { p.write("vertexset{" + n.ElementType + "}") }

func (p *Printer) VisitEdgeSetType(n *EdgeSetType) {
	p.write("edgeset{" + n.SrcElementType + ", " + n.DstElementType + "}")
	if n.WeightType != nil {
		p.write("(")
		n.WeightType.Accept(p)
		p.write(")")
	}
}

func (p *Printer) VisitListType(n *ListType) {
	p.write("list{")
	n.ElemType.Accept(p)
	p.write("}")
}

func (p *Printer) VisitSetType(n *SetType) {
	p.write("set{")
	for i, e := range n.ElemTypes {
		if i > 0 {
			p.write(", ")
		}
		e.Accept(p)
	}
	p.write("}")
}

func (p *Printer) VisitPriorityQueueType(n *PriorityQueueType) {
	p.write("priority_queue{" + n.ElementType + "}")
}

func (p *Printer) VisitGridType(n *GridType) {
	p.write("grid[")
	for i, d := range n.Dims {
		if i > 0 {
			p.write(", ")
		}
		d.Accept(p)
	}
	p.write("]")
}

func (p *Printer) VisitTupleType(n *TupleType) {
	if n.Name != "" {
		p.write(n.Name)
		return
	}
	p.write("(")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(", ")
		}
		if f.Name != "" {
			p.write(f.Name + " : ")
		}
		f.Ty.Accept(p)
	}
	p.write(")")
}

func (p *Printer) VisitOpaqueType(n *OpaqueType) { p.write(n.Name) }

var _ Visitor = (*Printer)(nil)
