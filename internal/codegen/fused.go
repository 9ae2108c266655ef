package codegen

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/funvibe/graphitc/internal/kernelvars"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
)

// CodeGenGPUFusedKernel renders a WhileStmt whose Fuse flag is set: the
// whole loop condition and body run inside one persistent kernel launch
// instead of one launch per iteration, with every thread re-checking
// Cond and looping internally. This trades the per-iteration host/device
// round trip CodeGenGPU pays for a kernel that keeps its working set
// resident across iterations.
type CodeGenGPUFusedKernel struct {
	base
	kernelName string
}

// NewFusedKernel returns a fused-kernel generator writing to w.
func NewFusedKernel(w *bufio.Writer, ctx *mircontext.Context, kernelName string) *CodeGenGPUFusedKernel {
	g := &CodeGenGPUFusedKernel{base: base{out: w, ctx: ctx, inDevice: true}, kernelName: kernelName}
	g.Self = g
	return g
}

// EmitKernel renders n's Cond and Body as the loop body of one
// persistent __device__ kernel. Direction inside a fused kernel is
// resolved per apply the same way as any other kernel region — a fused
// loop does not itself pick push or pull, it just keeps whichever
// direction internal/directionpolicy already chose for each apply
// resident across iterations instead of relaunching between them.
func (g *CodeGenGPUFusedKernel) EmitKernel(n *mir.WhileStmt) error {
	regionNode := blockNode(n.Body)
	hoisted := kernelvars.Extract(regionNode)

	src, err := fingerprintAndCache(g.ctx, n, g.kernelName, func() string {
		return renderFusedKernel(g.ctx, g.kernelName, hoisted, n)
	})
	if err != nil {
		return err
	}
	g.writeBuildID()
	g.write(src)
	return nil
}

// renderFusedKernel renames every variable the loop body references or
// declares into the __local_ namespace (localizeBody, localizeHoisted)
// before emitting a single line of it: a fused kernel stays resident
// on-device for the loop's whole lifetime, so its working set must
// live under names distinct from the host-visible globals of the same
// spelling, not just whatever name lowering originally gave them.
func renderFusedKernel(ctx *mircontext.Context, name string, hoisted kernelvars.Result, n *mir.WhileStmt) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	sub := &CodeGenGPUFusedKernel{base: base{out: w, ctx: ctx, inDevice: true}, kernelName: name}
	sub.Self = sub
	sub.emitSignature(localizeHoisted(hoisted))
	sub.indent++
	sub.writeln(fmt.Sprintf("while (%s) {", exprString(localizeExpr(n.Cond))))
	sub.indent++
	for _, s := range localizeBody(n.Body) {
		s.Accept(sub)
	}
	sub.writeln("syncThreads();")
	sub.indent--
	sub.writeln("}")
	sub.indent--
	sub.writeln("}")
	w.Flush()
	return buf.String()
}

func (g *CodeGenGPUFusedKernel) emitSignature(hoisted kernelvars.Result) {
	g.writeln(fmt.Sprintf("%s void %s(", g.label(), g.kernelName))
	g.indent++
	emitHoistedParams(&g.base, hoisted)
	g.indent--
	g.writeln(") {")
}

func (g *CodeGenGPUFusedKernel) VisitAssignStmt(n *mir.AssignStmt) {
	g.writeln(exprString(n.Lhs) + " = " + exprString(n.Rhs) + ";")
}

func (g *CodeGenGPUFusedKernel) VisitReduceStmt(n *mir.ReduceStmt) {
	g.writeln(fmt.Sprintf("atomic%s(&%s, %s);", atomicSuffix(n.Op), exprString(n.Target), exprString(n.Value)))
}

func (g *CodeGenGPUFusedKernel) VisitCompareAndSwapStmt(n *mir.CompareAndSwapStmt) {
	g.writeln(fmt.Sprintf("compareAndSwap(&%s, %s, %s);", exprString(n.Target), exprString(n.OldValue), exprString(n.NewValue)))
}

func (g *CodeGenGPUFusedKernel) VisitIfStmt(n *mir.IfStmt) {
	g.writeln("if (" + exprString(n.Cond) + ") {")
	g.indent++
	for _, s := range n.Then {
		s.Accept(g)
	}
	g.indent--
	if len(n.Else) > 0 {
		g.writeln("} else {")
		g.indent++
		for _, s := range n.Else {
			s.Accept(g)
		}
		g.indent--
	}
	g.writeln("}")
}

func (g *CodeGenGPUFusedKernel) VisitForStmt(n *mir.ForStmt) {
	g.writeln(fmt.Sprintf("for (auto %s = %s; %s %s %s; %s++) {",
		n.Var, exprString(n.Lo), n.Var, loopCmp(n.Inclusive), exprString(n.Hi), n.Var))
	g.indent++
	for _, s := range n.Body {
		s.Accept(g)
	}
	g.indent--
	g.writeln("}")
}

func (g *CodeGenGPUFusedKernel) VisitPrintStmt(n *mir.PrintStmt) {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, exprString(a))
	}
	g.writeln(fmt.Sprintf("printf(%s);", joinArgs(args)))
}

func (g *CodeGenGPUFusedKernel) VisitBreakStmt(n *mir.BreakStmt) {
	g.writeln("break;")
}

func (g *CodeGenGPUFusedKernel) VisitVarDecl(n *mir.VarDecl) {
	if n.Value != nil {
		g.writeln(fmt.Sprintf("auto %s = %s;", n.Name, exprString(n.Value)))
		return
	}
	g.writeln(fmt.Sprintf("decltype(auto) %s;", n.Name))
}

func (g *CodeGenGPUFusedKernel) VisitCall(n *mir.Call) {
	g.writeln(callString(n) + ";")
}

func (g *CodeGenGPUFusedKernel) VisitEdgeSetApplyExpr(n *mir.EdgeSetApplyExpr) {
	if n.HasChangeTracking && !n.DisableDeduplication {
		g.writeln(fmt.Sprintf("if (compareAndSwap(&%s.%s, false, true)) {", exprString(n.Target), n.ChangeTrackingField))
		g.indent++
		g.writeln(fmt.Sprintf("%s(%s);", n.ApplyFunc, exprString(n.Target)))
		g.indent--
		g.writeln("}")
		return
	}
	g.writeln(fmt.Sprintf("%s(%s);", n.ApplyFunc, exprString(n.Target)))
}
