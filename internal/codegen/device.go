package codegen

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/funvibe/graphitc/internal/kernelvars"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
)

// CodeGenGPU renders one kernel's device-side body: a WhileStmt that
// was not marked Fuse, or one arm of a HybridGPUStmt. One kernel per
// launch, one launch per loop iteration — CodeGenGPUFusedKernel is the
// alternative that keeps the whole loop resident on-device instead.
// CodeGenGPU is itself a mir.Visitor: EmitKernel drives the launch
// shape (the two nested loops push/pull need), then every statement in
// the region is rendered by walking it through Accept, the same
// dispatch internal/lower and internal/directionpolicy use.
type CodeGenGPU struct {
	base
	kernelName string
}

// NewGPU returns a device-code generator writing to w.
func NewGPU(w *bufio.Writer, ctx *mircontext.Context, kernelName string) *CodeGenGPU {
	g := &CodeGenGPU{base: base{out: w, ctx: ctx, inDevice: true}, kernelName: kernelName}
	g.Self = g
	return g
}

// EmitKernel renders region (a WhileStmt's Body, or one of a
// HybridGPUStmt's bodies) as a single __device__ kernel function.
// Direction dictates the launch shape: push iterates the frontier's
// source vertices and walks outgoing edges, touching destination
// property arrays that must be written atomically or via CAS since
// multiple source threads can race on the same destination; pull
// iterates every destination vertex and scans its incoming edges for a
// frontier source, so each destination is only ever written by the one
// thread that owns it and needs no atomics.
func (g *CodeGenGPU) EmitKernel(direction mir.Direction, region []mir.Stmt) error {
	regionNode := blockNode(region)
	hoisted := kernelvars.Extract(regionNode)

	src, err := fingerprintAndCache(g.ctx, regionNode, g.kernelName+"/"+direction.String(), func() string {
		return renderKernel(g.ctx, g.kernelName, direction, hoisted, region)
	})
	if err != nil {
		return err
	}
	g.writeBuildID()
	g.write(src)
	return nil
}

// WarmKernel renders one kernel region exactly as EmitKernel would and
// discards the text, populating ctx.Cache as a side effect. cmd/graphitc's
// -j flag calls this from a bounded worker pool so independent kernel
// regions of one program are compiled concurrently; the final,
// single-threaded host emission pass then hits the warmed cache instead
// of re-rendering. A nil ctx.Cache makes this a no-op render with
// nothing to show for it, which callers should check for before
// bothering to spin up a pool.
func WarmKernel(ctx *mircontext.Context, name string, direction mir.Direction, region []mir.Stmt) error {
	g := NewGPU(bufio.NewWriter(io.Discard), ctx, name)
	return g.EmitKernel(direction, region)
}

func renderKernel(ctx *mircontext.Context, name string, direction mir.Direction, hoisted kernelvars.Result, region []mir.Stmt) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	sub := &CodeGenGPU{base: base{out: w, ctx: ctx, inDevice: true}, kernelName: name}
	sub.Self = sub
	sub.emitSignature(direction, hoisted)
	sub.indent++
	switch direction {
	case mir.DirectionPush:
		sub.emitPushBody(region)
	default:
		sub.emitPullBody(region)
	}
	sub.indent--
	sub.writeln("}")
	w.Flush()
	return buf.String()
}

func (g *CodeGenGPU) emitSignature(direction mir.Direction, hoisted kernelvars.Result) {
	g.writeln(fmt.Sprintf("%s void %s_%s(", g.label(), g.kernelName, direction))
	g.indent++
	emitHoistedParams(&g.base, hoisted)
	g.indent--
	g.writeln(") {")
}

// emitHoistedParams writes one parameter per hoisted variable. A
// variable the region only reads is captured by value, a per-launch
// snapshot; one the region also writes is declared in-out via a
// reference so the write is visible once the launch returns, per
// kernelvars.Result.InOutVars's doc comment.
func emitHoistedParams(g *base, hoisted kernelvars.Result) {
	inout := make(map[string]bool, len(hoisted.InOutVars))
	for _, name := range hoisted.InOutVars {
		inout[name] = true
	}
	for i, name := range hoisted.HoistedVars {
		suffix := ","
		if i == len(hoisted.HoistedVars)-1 {
			suffix = ""
		}
		if inout[name] {
			g.writeln(fmt.Sprintf("auto &%s%s", name, suffix))
			continue
		}
		g.writeln(fmt.Sprintf("auto %s%s", name, suffix))
	}
}

func (g *CodeGenGPU) emitPushBody(region []mir.Stmt) {
	g.writeln("for (auto src : frontier.sources()) {")
	g.indent++
	g.writeln("for (auto dst : graph.outEdges(src)) {")
	g.indent++
	g.emitBlock(region)
	g.indent--
	g.writeln("}")
	g.indent--
	g.writeln("}")
}

func (g *CodeGenGPU) emitPullBody(region []mir.Stmt) {
	g.writeln("for (auto dst : graph.vertices()) {")
	g.indent++
	g.writeln("for (auto src : graph.inEdges(dst)) {")
	g.indent++
	g.writeln("if (!frontier.has(src)) continue;")
	g.emitBlock(region)
	g.indent--
	g.writeln("}")
	g.indent--
	g.writeln("}")
}

func (g *CodeGenGPU) emitBlock(body []mir.Stmt) {
	for _, s := range body {
		s.Accept(g)
	}
}

func (g *CodeGenGPU) VisitAssignStmt(n *mir.AssignStmt) {
	g.writeln(exprString(n.Lhs) + " = " + exprString(n.Rhs) + ";")
}

// VisitReduceStmt: every write to a destination property array inside a
// push kernel races across source threads, so a reduction becomes an
// atomic accumulation rather than a plain read-modify-write. Pull
// kernels would be equally correct with a plain update (only one thread
// ever owns a given destination) but emitting the atomic unconditionally
// keeps one kernel body valid under either launch shape.
func (g *CodeGenGPU) VisitReduceStmt(n *mir.ReduceStmt) {
	g.writeln(fmt.Sprintf("atomic%s(&%s, %s);", atomicSuffix(n.Op), exprString(n.Target), exprString(n.Value)))
}

func (g *CodeGenGPU) VisitCompareAndSwapStmt(n *mir.CompareAndSwapStmt) {
	g.writeln(fmt.Sprintf("compareAndSwap(&%s, %s, %s);", exprString(n.Target), exprString(n.OldValue), exprString(n.NewValue)))
}

func (g *CodeGenGPU) VisitIfStmt(n *mir.IfStmt) {
	g.writeln("if (" + exprString(n.Cond) + ") {")
	g.indent++
	g.emitBlock(n.Then)
	g.indent--
	if len(n.Else) > 0 {
		g.writeln("} else {")
		g.indent++
		g.emitBlock(n.Else)
		g.indent--
	}
	g.writeln("}")
}

func (g *CodeGenGPU) VisitForStmt(n *mir.ForStmt) {
	g.writeln(fmt.Sprintf("for (auto %s = %s; %s %s %s; %s++) {",
		n.Var, exprString(n.Lo), n.Var, loopCmp(n.Inclusive), exprString(n.Hi), n.Var))
	g.indent++
	g.emitBlock(n.Body)
	g.indent--
	g.writeln("}")
}

func (g *CodeGenGPU) VisitPrintStmt(n *mir.PrintStmt) {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, exprString(a))
	}
	g.writeln(fmt.Sprintf("printf(%s);", strings.Join(args, ", ")))
}

func (g *CodeGenGPU) VisitBreakStmt(n *mir.BreakStmt) {
	g.writeln("break;")
}

func (g *CodeGenGPU) VisitVarDecl(n *mir.VarDecl) {
	if n.Value != nil {
		g.writeln(fmt.Sprintf("auto %s = %s;", n.Name, exprString(n.Value)))
		return
	}
	g.writeln(fmt.Sprintf("decltype(auto) %s;", n.Name))
}

func (g *CodeGenGPU) VisitCall(n *mir.Call) {
	g.writeln(callString(n) + ";")
}

// VisitEdgeSetApplyExpr handles a bare apply reached as a statement
// inside a kernel region: direction is already pinned by the enclosing
// launch, so this calls straight into the per-edge function rather than
// relaunching a second kernel. When change tracking is enabled (and not
// explicitly disabled), the call is guarded by a synthesized
// CompareAndSwapStmt-shaped dedup check on ChangeTrackingField, so the
// same destination is never applied twice by two racing source threads.
func (g *CodeGenGPU) VisitEdgeSetApplyExpr(n *mir.EdgeSetApplyExpr) {
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

func loopCmp(inclusive bool) string {
	if inclusive {
		return "<="
	}
	return "<"
}

func atomicSuffix(op string) string {
	switch op {
	case "min=", "asyncMin=":
		return "Min"
	case "max=", "asyncMax=":
		return "Max"
	default:
		return "Add"
	}
}

// blockNode wraps a []mir.Stmt as the single mir.Stmt kernelvars.Extract
// expects, without inventing a new MIR kind: a WhileStmt with an
// always-true condition is semantically a bare block and reuses the
// traversal BaseVisitor already knows for WhileStmt.Body.
func blockNode(body []mir.Stmt) mir.Stmt {
	return &mir.WhileStmt{Cond: &mir.BoolLiteral{Value: true}, Body: body}
}
