package codegen

import (
	"bufio"
	"fmt"

	"github.com/funvibe/graphitc/internal/directionpolicy"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
)

// CodeGenGPUHost renders the host-side translation unit: ordinary
// control flow runs as plain generated code, while a WhileStmt routes
// to CodeGenGPU (one kernel launch per iteration) or, if Fuse is set,
// to CodeGenGPUFusedKernel (one persistent kernel for the whole loop).
// A HybridGPUStmt becomes an if on its runtime predicate choosing
// between its two prerendered kernel launches.
type CodeGenGPUHost struct {
	base
	kernelSeq int
}

// NewHost returns a host-code generator writing to w.
func NewHost(w *bufio.Writer, ctx *mircontext.Context) *CodeGenGPUHost {
	h := &CodeGenGPUHost{base: base{out: w, ctx: ctx, inDevice: false}}
	h.Self = h
	return h
}

// Generate resolves every EdgeSetApplyExpr's Direction
// (internal/directionpolicy) and splits any "hybrid"-flavored apply into
// a HybridGPUStmt, then renders name's body via GenerateResolved. Callers
// that want to precompile kernels concurrently (cmd/graphitc's -j flag)
// should call directionpolicy.Resolve and CollectKernelJobs themselves
// and call GenerateResolved directly instead, so the body is only
// resolved once and kernel sequence numbering lines up between the
// warm-cache pass and the real emission pass.
func (h *CodeGenGPUHost) Generate(name string, body []mir.Stmt) error {
	resolved := directionpolicy.Resolve(body, h.ctx)
	return h.GenerateResolved(name, resolved)
}

// GenerateResolved renders name's already direction-resolved body.
func (h *CodeGenGPUHost) GenerateResolved(name string, resolved []mir.Stmt) error {
	h.writeBuildID()
	h.writeln(fmt.Sprintf("%s void %s%s() {", h.label(), h.ctx.ModuleName, name))
	h.indent++
	var err error
	for _, s := range resolved {
		if err == nil {
			err = h.emitStmt(s)
		}
	}
	h.indent--
	h.writeln("}")
	return err
}

// emitStmt handles the statement kinds that need access to h's kernel
// sequence counter or can fail (kernel emission can return a
// buildcache error); everything else goes through ordinary Accept
// dispatch on h as ordinary host-side statements.
func (h *CodeGenGPUHost) emitStmt(s mir.Stmt) error {
	switch n := s.(type) {
	case *mir.WhileStmt:
		return h.emitWhile(n)
	case *mir.HybridGPUStmt:
		return h.emitHybrid(n)
	default:
		s.Accept(h)
		return nil
	}
}

func (h *CodeGenGPUHost) emitWhile(n *mir.WhileStmt) error {
	if n.Fuse {
		return h.emitFused(n)
	}
	h.kernelSeq++
	name := fmt.Sprintf("%s_kernel%d", h.ctx.ModuleName, h.kernelSeq)
	h.writeln(fmt.Sprintf("while (%s) {", exprString(n.Cond)))
	h.indent++
	direction := loopDirection(n.Body)
	dev := NewGPU(h.out, h.ctx, name)
	if err := dev.EmitKernel(direction, n.Body); err != nil {
		return err
	}
	h.writeln(fmt.Sprintf("launch(%s_%s);", name, direction))
	h.indent--
	h.writeln("}")
	return nil
}

func (h *CodeGenGPUHost) emitFused(n *mir.WhileStmt) error {
	h.kernelSeq++
	name := fmt.Sprintf("%s_fused%d", h.ctx.ModuleName, h.kernelSeq)
	fused := NewFusedKernel(h.out, h.ctx, name)
	if err := fused.EmitKernel(n); err != nil {
		return err
	}
	h.writeln(fmt.Sprintf("launchFused(%s, %s);", name, exprString(n.Cond)))
	return nil
}

// emitHybrid renders both the push and pull arms as separate kernels
// and an if on the predicate choosing which launch to issue, rather
// than picking one direction statically the way emitWhile does.
func (h *CodeGenGPUHost) emitHybrid(n *mir.HybridGPUStmt) error {
	h.kernelSeq++
	name := fmt.Sprintf("%s_hybrid%d", h.ctx.ModuleName, h.kernelSeq)

	pushGen := NewGPU(h.out, h.ctx, name)
	if err := pushGen.EmitKernel(mir.DirectionPush, n.PushBody); err != nil {
		return err
	}
	pullGen := NewGPU(h.out, h.ctx, name)
	if err := pullGen.EmitKernel(mir.DirectionPull, n.PullBody); err != nil {
		return err
	}

	h.writeln(fmt.Sprintf("if (%s) {", exprString(n.Predicate)))
	h.indent++
	h.writeln(fmt.Sprintf("launch(%s_push);", name))
	h.indent--
	h.writeln("} else {")
	h.indent++
	h.writeln(fmt.Sprintf("launch(%s_pull);", name))
	h.indent--
	h.writeln("}")
	return nil
}

// KernelJob is one independent kernel region ready to render, with the
// exact name and direction the matching CodeGenGPUHost.GenerateResolved
// pass will later request it under. cmd/graphitc's -j flag renders these
// concurrently through a bounded worker pool ahead of time to warm
// ctx.Cache; the final, single-threaded GenerateResolved pass then hits
// the cache instead of re-rendering.
type KernelJob struct {
	Name      string
	Direction mir.Direction
	Region    []mir.Stmt
}

// CollectKernelJobs walks an already direction-resolved body the same
// way GenerateResolved will, in the same order and with the same kernel
// sequence counter, so the (Name, Direction) pairs it produces are
// exactly what the real pass looks up in the cache. A Fuse'd WhileStmt
// is deliberately skipped: it renders through CodeGenGPUFusedKernel, a
// different shape with its own cache-key format, which WarmKernel (built
// around CodeGenGPU) cannot warm correctly — precompiling fused kernels
// concurrently is not yet supported.
func CollectKernelJobs(ctx *mircontext.Context, moduleName string, resolved []mir.Stmt) []KernelJob {
	c := &jobCollector{ctx: ctx, moduleName: moduleName}
	c.walk(resolved)
	return c.jobs
}

type jobCollector struct {
	ctx        *mircontext.Context
	moduleName string
	kernelSeq  int
	jobs       []KernelJob
}

func (c *jobCollector) walk(body []mir.Stmt) {
	for _, s := range body {
		switch n := s.(type) {
		case *mir.WhileStmt:
			if n.Fuse {
				c.kernelSeq++
				continue
			}
			c.kernelSeq++
			name := fmt.Sprintf("%s_kernel%d", c.moduleName, c.kernelSeq)
			c.jobs = append(c.jobs, KernelJob{Name: name, Direction: loopDirection(n.Body), Region: n.Body})
		case *mir.HybridGPUStmt:
			c.kernelSeq++
			name := fmt.Sprintf("%s_hybrid%d", c.moduleName, c.kernelSeq)
			c.jobs = append(c.jobs, KernelJob{Name: name, Direction: mir.DirectionPush, Region: n.PushBody})
			c.jobs = append(c.jobs, KernelJob{Name: name, Direction: mir.DirectionPull, Region: n.PullBody})
		case *mir.IfStmt:
			c.walk(n.Then)
			c.walk(n.Else)
		case *mir.ForStmt:
			c.walk(n.Body)
		}
	}
}

// loopDirection picks the Direction a per-iteration launch runs under:
// the first already-resolved EdgeSetApplyExpr found in the body, or
// DirectionPull if the loop contains none (a loop that never applies
// over an edgeset has no push/pull distinction to make).
func loopDirection(body []mir.Stmt) mir.Direction {
	for _, s := range body {
		if a, ok := s.(*mir.EdgeSetApplyExpr); ok {
			return a.Direction
		}
	}
	return mir.DirectionPull
}

func (h *CodeGenGPUHost) VisitAssignStmt(n *mir.AssignStmt) {
	h.syncWriteTargetIndices(n.Lhs)
	h.syncFromDevice(n.Rhs)
	h.writeln(exprString(n.Lhs) + " = " + exprString(n.Rhs) + ";")
	h.syncToDevice(n.Lhs)
}

func (h *CodeGenGPUHost) VisitReduceStmt(n *mir.ReduceStmt) {
	h.syncWriteTargetIndices(n.Target)
	h.syncFromDevice(n.Value)
	h.writeln(fmt.Sprintf("%s %s %s;", exprString(n.Target), n.Op, exprString(n.Value)))
	h.syncToDevice(n.Target)
}

func (h *CodeGenGPUHost) VisitVarDecl(n *mir.VarDecl) {
	h.syncFromDevice(n.Value)
	if n.Value != nil {
		h.writeln(fmt.Sprintf("auto %s = %s;", n.Name, exprString(n.Value)))
		return
	}
	h.writeln(fmt.Sprintf("decltype(auto) %s;", n.Name))
}

func (h *CodeGenGPUHost) VisitIfStmt(n *mir.IfStmt) {
	h.syncFromDevice(n.Cond)
	h.writeln("if (" + exprString(n.Cond) + ") {")
	h.indent++
	for _, s := range n.Then {
		_ = h.emitStmt(s)
	}
	h.indent--
	if len(n.Else) > 0 {
		h.writeln("} else {")
		h.indent++
		for _, s := range n.Else {
			_ = h.emitStmt(s)
		}
		h.indent--
	}
	h.writeln("}")
}

func (h *CodeGenGPUHost) VisitForStmt(n *mir.ForStmt) {
	h.syncFromDevice(n.Lo, n.Hi)
	h.writeln(fmt.Sprintf("for (auto %s = %s; %s %s %s; %s++) {",
		n.Var, exprString(n.Lo), n.Var, loopCmp(n.Inclusive), exprString(n.Hi), n.Var))
	h.indent++
	for _, s := range n.Body {
		_ = h.emitStmt(s)
	}
	h.indent--
	h.writeln("}")
}

func (h *CodeGenGPUHost) VisitPrintStmt(n *mir.PrintStmt) {
	h.syncFromDevice(n.Args...)
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, exprString(a))
	}
	h.writeln(fmt.Sprintf("printf(%s);", joinArgs(args)))
}

func (h *CodeGenGPUHost) VisitBreakStmt(n *mir.BreakStmt) {
	h.writeln("break;")
}

func (h *CodeGenGPUHost) VisitCall(n *mir.Call) {
	h.syncFromDevice(n.Args...)
	h.writeln(callString(n) + ";")
}

func (h *CodeGenGPUHost) VisitCompareAndSwapStmt(n *mir.CompareAndSwapStmt) {
	h.syncWriteTargetIndices(n.Target)
	h.syncFromDevice(n.OldValue, n.NewValue)
	h.writeln(fmt.Sprintf("compareAndSwap(&%s, %s, %s);", exprString(n.Target), exprString(n.OldValue), exprString(n.NewValue)))
	h.syncToDevice(n.Target)
}

func (h *CodeGenGPUHost) VisitVertexSetApplyExpr(n *mir.VertexSetApplyExpr) {
	h.syncFromDevice(n.Target)
	h.writeln(exprString(n) + ";")
}

func (h *CodeGenGPUHost) VisitEdgeSetApplyExpr(n *mir.EdgeSetApplyExpr) {
	h.syncFromDevice(n.Target)
	if n.HasChangeTracking && !n.DisableDeduplication {
		h.writeln(fmt.Sprintf("if (compareAndSwap(&%s.%s, false, true)) {", exprString(n.Target), n.ChangeTrackingField))
		h.indent++
		h.writeln(exprString(n) + ";")
		h.indent--
		h.writeln("}")
		return
	}
	h.writeln(exprString(n) + ";")
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

// syncFromDevice emits one copyToHost call for every distinct device-
// resident property array referenced (directly or nested) by any of
// exprs, immediately before the statement that is about to read it.
// MIR carries no separate "host-only array" type, so every property
// read the host visitor encounters is treated as potentially
// device-resident and wrapped — the conservative reading of "every
// tensor-array-read inside host code ... is wrapped in an explicit
// device->host copy before the read".
func (h *CodeGenGPUHost) syncFromDevice(exprs ...mir.Expr) {
	seen := make(map[string]bool)
	for _, e := range exprs {
		if e == nil {
			continue
		}
		for _, name := range tensorArrayReads(e) {
			if seen[name] {
				continue
			}
			seen[name] = true
			h.writeln(fmt.Sprintf("copyToHost(%s);", name))
		}
	}
}

// syncToDevice emits a copyToDevice call for target's backing array
// immediately after a host-side write to it, so the new value is
// visible to whatever kernel launch comes next. A no-op when target
// is not a property write (a plain local variable).
func (h *CodeGenGPUHost) syncToDevice(target mir.Expr) {
	if name, ok := propertyArrayName(target); ok {
		h.writeln(fmt.Sprintf("copyToDevice(%s);", name))
	}
}

// syncWriteTargetIndices syncs the index expressions of a property
// write (e.g. dist[idx[i]] = w): target itself is about to be
// overwritten so it needs no device->host copy, but an index
// expression that itself reads a device-resident array still does.
func (h *CodeGenGPUHost) syncWriteTargetIndices(target mir.Expr) {
	if n, ok := target.(*mir.TensorArrayReadExpr); ok {
		for _, idx := range n.Indices {
			h.syncFromDevice(idx)
		}
	}
}

// tensorArrayReads collects, in first-occurrence order, the name of
// every property array e reads via a TensorArrayReadExpr or
// FieldReadExpr whose Target is a bare variable.
func tensorArrayReads(e mir.Expr) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var walk func(mir.Expr)
	walk = func(e mir.Expr) {
		switch n := e.(type) {
		case nil:
		case *mir.TensorArrayReadExpr:
			if name, ok := propertyArrayName(n); ok {
				add(name)
			}
			for _, idx := range n.Indices {
				walk(idx)
			}
		case *mir.FieldReadExpr:
			if name, ok := propertyArrayName(n); ok {
				add(name)
			}
		case *mir.NegExpr:
			walk(n.X)
		case *mir.TransposeExpr:
			walk(n.X)
		case *mir.BinaryExpr:
			walk(n.Lhs)
			walk(n.Rhs)
		case *mir.EqExpr:
			for _, o := range n.Operands {
				walk(o)
			}
		case *mir.IntersectionExpr:
			walk(n.Lhs)
			walk(n.Rhs)
		case *mir.Call:
			for _, a := range n.Args {
				walk(a)
			}
		case *mir.VertexSetApplyExpr:
			walk(n.Target)
		case *mir.VertexSetAllocExpr:
			walk(n.NumElements)
		case *mir.VertexSetDedupExpr:
			walk(n.Target)
		case *mir.EdgeSetApplyExpr:
			walk(n.Target)
		}
	}
	walk(e)
	return names
}

// propertyArrayName reports the backing variable name of a property
// read or write (a TensorArrayReadExpr or FieldReadExpr whose Target
// is a bare variable), or false for anything else.
func propertyArrayName(target mir.Expr) (string, bool) {
	var base mir.Expr
	switch n := target.(type) {
	case *mir.TensorArrayReadExpr:
		base = n.Target
	case *mir.FieldReadExpr:
		base = n.Target
	default:
		return "", false
	}
	v, ok := base.(*mir.VarExpr)
	if !ok {
		return "", false
	}
	return v.Name, true
}
