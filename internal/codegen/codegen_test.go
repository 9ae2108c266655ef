package codegen

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
	"github.com/funvibe/graphitc/internal/token"
)

func gen(t *testing.T, f func(*bufio.Writer, *mircontext.Context)) string {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	ctx := mircontext.New()
	ctx.ModuleName = "m"
	f(w, ctx)
	w.Flush()
	return buf.String()
}

func TestCodeGenGPU_PushEmitsFrontierSourcesLoop(t *testing.T) {
	region := []mir.Stmt{
		&mir.ReduceStmt{Target: &mir.VarExpr{Name: "dist"}, Op: "min=", Value: &mir.VarExpr{Name: "w"}},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewGPU(w, ctx, "bfs")
		if err := g.EmitKernel(mir.DirectionPush, region); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "frontier.sources()") {
		t.Fatalf("push kernel missing frontier.sources() loop:\n%s", out)
	}
	if !strings.Contains(out, "atomicMin(&dist, w);") {
		t.Fatalf("push kernel missing atomic reduction:\n%s", out)
	}
}

func TestCodeGenGPU_PullEmitsFrontierHasCheck(t *testing.T) {
	region := []mir.Stmt{
		&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "visited"}, Rhs: &mir.BoolLiteral{Value: true}},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewGPU(w, ctx, "bfs")
		if err := g.EmitKernel(mir.DirectionPull, region); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "graph.inEdges(dst)") || !strings.Contains(out, "frontier.has(src)") {
		t.Fatalf("pull kernel missing inEdges/has(src) shape:\n%s", out)
	}
}

func TestCodeGenGPU_ChangeTrackingApplyEmitsDedupGuard(t *testing.T) {
	region := []mir.Stmt{
		&mir.EdgeSetApplyExpr{
			Target:              &mir.VarExpr{Name: "edges"},
			ApplyFunc:            "update",
			HasChangeTracking:    true,
			ChangeTrackingField:  "updated",
			DisableDeduplication: false,
			Direction:            mir.DirectionPush,
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewGPU(w, ctx, "apply")
		if err := g.EmitKernel(mir.DirectionPush, region); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "compareAndSwap(&edges.updated, false, true)") {
		t.Fatalf("missing dedup CAS guard:\n%s", out)
	}
}

func TestCodeGenGPU_HoistedVarsBecomeSignatureParams(t *testing.T) {
	region := []mir.Stmt{
		&mir.ReduceStmt{Target: &mir.VarExpr{Name: "dist"}, Op: "min=", Value: &mir.VarExpr{Name: "seed"}},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewGPU(w, ctx, "init")
		if err := g.EmitKernel(mir.DirectionPush, region); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "auto dist") || !strings.Contains(out, "auto seed") {
		t.Fatalf("hoisted vars not threaded into kernel signature:\n%s", out)
	}
}

func TestCodeGenGPU_WrittenHoistedVarBecomesReferenceParam(t *testing.T) {
	region := []mir.Stmt{
		&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "total"}, Rhs: &mir.VarExpr{Name: "weight"}},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewGPU(w, ctx, "sum")
		if err := g.EmitKernel(mir.DirectionPush, region); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "auto &total") {
		t.Fatalf("assigned hoisted var must become an in-out reference param:\n%s", out)
	}
	if !strings.Contains(out, "auto weight") {
		t.Fatalf("read-only hoisted var must stay by-value:\n%s", out)
	}
}

func TestCodeGenGPUHost_UnfusedWhileLaunchesOneKernel(t *testing.T) {
	body := []mir.Stmt{
		&mir.WhileStmt{
			Cond: &mir.VarExpr{Name: "active"},
			Body: []mir.Stmt{
				&mir.EdgeSetApplyExpr{
					Target:    &mir.VarExpr{Name: "frontier"},
					ApplyFunc: "relax",
					HasFrom:   true,
					FromFunc:  "notVisited",
					Direction: mir.DirectionPush,
				},
			},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		h := NewHost(w, ctx)
		if err := h.Generate("Main", body); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
	if !strings.Contains(out, "launch(m_kernel1_push);") {
		t.Fatalf("expected one push-kernel launch:\n%s", out)
	}
	if strings.Contains(out, "launchFused") {
		t.Fatalf("unfused loop must not route to fused kernel:\n%s", out)
	}
}

func TestCodeGenGPUHost_FusedWhileRoutesToFusedKernel(t *testing.T) {
	body := []mir.Stmt{
		&mir.WhileStmt{
			Cond: &mir.VarExpr{Name: "active"},
			Fuse: true,
			Body: []mir.Stmt{
				&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "x"}, Rhs: &mir.VarExpr{Name: "x"}},
			},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		h := NewHost(w, ctx)
		if err := h.Generate("Main", body); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
	if !strings.Contains(out, "launchFused(") {
		t.Fatalf("fused loop must route through launchFused:\n%s", out)
	}
}

func TestCodeGenGPUHost_HybridStmtEmitsIfElseOverBothLaunches(t *testing.T) {
	body := []mir.Stmt{
		&mir.HybridGPUStmt{
			Predicate: &mir.Call{Func: "frontierBelowThreshold", Args: []mir.Expr{&mir.VarExpr{Name: "frontier"}}},
			PushBody: []mir.Stmt{
				&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "x"}, Rhs: &mir.VarExpr{Name: "x"}},
			},
			PullBody: []mir.Stmt{
				&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "x"}, Rhs: &mir.VarExpr{Name: "x"}},
			},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		h := NewHost(w, ctx)
		if err := h.Generate("Main", body); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
	if !strings.Contains(out, "if (frontierBelowThreshold(frontier)) {") {
		t.Fatalf("missing hybrid predicate branch:\n%s", out)
	}
	if !strings.Contains(out, "launch(m_hybrid1_push);") || !strings.Contains(out, "launch(m_hybrid1_pull);") {
		t.Fatalf("missing both hybrid launches:\n%s", out)
	}
}

func TestCodeGenGPUFusedKernel_EmitsPersistentLoopWithSyncThreads(t *testing.T) {
	n := &mir.WhileStmt{
		Cond: &mir.VarExpr{Name: "active"},
		Fuse: true,
		Body: []mir.Stmt{
			&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "x"}, Rhs: &mir.VarExpr{Name: "seed"}},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewFusedKernel(w, ctx, "loop1")
		if err := g.EmitKernel(n); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "while (__local_active) {") {
		t.Fatalf("fused kernel missing persistent while loop:\n%s", out)
	}
	if !strings.Contains(out, "syncThreads();") {
		t.Fatalf("fused kernel missing syncThreads between iterations:\n%s", out)
	}
	if !strings.Contains(out, "auto __local_seed") {
		t.Fatalf("fused kernel signature missing renamed hoisted var:\n%s", out)
	}
}

func TestCodeGenGPUFusedKernel_RenamesLoopVariablesToLocalNamespace(t *testing.T) {
	n := &mir.WhileStmt{
		Cond: &mir.VarExpr{Name: "active"},
		Fuse: true,
		Body: []mir.Stmt{
			&mir.AssignStmt{
				Lhs: &mir.VarExpr{Name: "x"},
				Rhs: &mir.BinaryExpr{Op: token.PLUS, Lhs: &mir.VarExpr{Name: "x"}, Rhs: &mir.VarExpr{Name: "seed"}},
			},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		g := NewFusedKernel(w, ctx, "loop1")
		if err := g.EmitKernel(n); err != nil {
			t.Fatalf("EmitKernel: %v", err)
		}
	})
	if !strings.Contains(out, "__local_x = (__local_x + __local_seed);") {
		t.Fatalf("fused kernel body must reference every variable under the __local_ namespace:\n%s", out)
	}
	if strings.Contains(out, "auto x,") || strings.Contains(out, "auto x)") {
		t.Fatalf("fused kernel signature must not leak a bare (unrenamed) parameter name:\n%s", out)
	}
	if n.Cond.(*mir.VarExpr).Name != "active" {
		t.Fatalf("localizing the fused kernel must not mutate the original WhileStmt")
	}
}

func TestCodeGenGPUHost_ReadingPropertyArrayEmitsDeviceToHostCopy(t *testing.T) {
	body := []mir.Stmt{
		&mir.VarDecl{
			Name:  "d",
			Value: &mir.TensorArrayReadExpr{Target: &mir.VarExpr{Name: "dist"}, Indices: []mir.Expr{&mir.VarExpr{Name: "v"}}},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		h := NewHost(w, ctx)
		if err := h.Generate("Main", body); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
	if !strings.Contains(out, "copyToHost(dist);\n") {
		t.Fatalf("host read of a property array must be preceded by a device->host copy:\n%s", out)
	}
	hostCopyAt := strings.Index(out, "copyToHost(dist);")
	readAt := strings.Index(out, "auto d = dist[v];")
	if hostCopyAt < 0 || readAt < 0 || hostCopyAt > readAt {
		t.Fatalf("copyToHost must appear before the read it guards:\n%s", out)
	}
}

func TestCodeGenGPUHost_WritingPropertyArrayEmitsHostToDeviceCopy(t *testing.T) {
	body := []mir.Stmt{
		&mir.AssignStmt{
			Lhs: &mir.TensorArrayReadExpr{Target: &mir.VarExpr{Name: "dist"}, Indices: []mir.Expr{&mir.VarExpr{Name: "v"}}},
			Rhs: &mir.IntLiteral{Value: 0},
		},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		h := NewHost(w, ctx)
		if err := h.Generate("Main", body); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
	if strings.Contains(out, "copyToHost(dist);") {
		t.Fatalf("overwriting a property array outright needs no prior device->host copy:\n%s", out)
	}
	writeAt := strings.Index(out, "dist[v] = 0;")
	deviceCopyAt := strings.Index(out, "copyToDevice(dist);")
	if writeAt < 0 || deviceCopyAt < 0 || deviceCopyAt < writeAt {
		t.Fatalf("a host write to a property array must be followed by a host->device copy:\n%s", out)
	}
}

func TestCodeGenGPUHost_PlainLocalReadsAndWritesNeedNoDeviceCopy(t *testing.T) {
	body := []mir.Stmt{
		&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "total"}, Rhs: &mir.VarExpr{Name: "weight"}},
	}
	out := gen(t, func(w *bufio.Writer, ctx *mircontext.Context) {
		h := NewHost(w, ctx)
		if err := h.Generate("Main", body); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	})
	if strings.Contains(out, "copyToHost") || strings.Contains(out, "copyToDevice") {
		t.Fatalf("plain local variable traffic must never trigger a device/host copy:\n%s", out)
	}
}
