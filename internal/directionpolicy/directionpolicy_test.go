package directionpolicy

import (
	"testing"

	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
)

func applyStmt(target string, hasFrom bool) *mir.EdgeSetApplyExpr {
	return &mir.EdgeSetApplyExpr{
		Target:    &mir.VarExpr{Name: target},
		ApplyFunc: "update",
		HasFrom:   hasFrom,
		Direction: mir.DirectionUnresolved,
	}
}

func TestAssign_PrefersPushWhenFromFilterPresent(t *testing.T) {
	ctx := mircontext.New()
	n := applyStmt("edges", true)
	Assign([]mir.Stmt{n}, ctx)
	if n.Direction != mir.DirectionPush {
		t.Fatalf("Direction = %v, want DirectionPush", n.Direction)
	}
}

func TestAssign_NoFilterDefaultsToPull(t *testing.T) {
	ctx := mircontext.New()
	n := applyStmt("edges", false)
	Assign([]mir.Stmt{n}, ctx)
	if n.Direction != mir.DirectionPull {
		t.Fatalf("Direction = %v, want DirectionPull", n.Direction)
	}
}

func TestAssign_TraversalFlavorOverridesStructuralHeuristic(t *testing.T) {
	ctx := mircontext.New()
	ctx.TraversalFlavor["edges"] = "dense"
	n := applyStmt("edges", true) // would otherwise pick push
	Assign([]mir.Stmt{n}, ctx)
	if n.Direction != mir.DirectionPull {
		t.Fatalf("Direction = %v, want DirectionPull (dense flavor wins)", n.Direction)
	}
}

func TestAssign_NumericFlavorComparesAgainstThreshold(t *testing.T) {
	ctx := mircontext.New()
	ctx.TraversalFlavor["edges"] = "0.01"
	n := applyStmt("edges", false)
	Assign([]mir.Stmt{n}, ctx)
	if n.Direction != mir.DirectionPush {
		t.Fatalf("Direction = %v, want DirectionPush (ratio below threshold)", n.Direction)
	}
}

func TestAssign_LabelOverrideFromLoweringIsNeverOverwritten(t *testing.T) {
	ctx := mircontext.New()
	ctx.TraversalFlavor["edges"] = "dense"
	n := applyStmt("edges", false)
	n.Direction = mir.DirectionPush // simulates a label override already applied by internal/lower
	Assign([]mir.Stmt{n}, ctx)
	if n.Direction != mir.DirectionPush {
		t.Fatalf("Assign must not override a Direction already set before it ran")
	}
}

func TestResolve_HybridFlavorSplitsIntoHybridGPUStmt(t *testing.T) {
	ctx := mircontext.New()
	ctx.TraversalFlavor["edges"] = "hybrid"
	n := applyStmt("edges", false)
	out := Resolve([]mir.Stmt{n}, ctx)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	hybrid, ok := out[0].(*mir.HybridGPUStmt)
	if !ok {
		t.Fatalf("out[0] is %T, want *mir.HybridGPUStmt", out[0])
	}
	if len(hybrid.PushBody) != 1 || len(hybrid.PullBody) != 1 {
		t.Fatalf("hybrid bodies: push=%d pull=%d, want 1 and 1", len(hybrid.PushBody), len(hybrid.PullBody))
	}
	push := hybrid.PushBody[0].(*mir.EdgeSetApplyExpr)
	pull := hybrid.PullBody[0].(*mir.EdgeSetApplyExpr)
	if push.Direction != mir.DirectionPush {
		t.Fatalf("push body Direction = %v, want DirectionPush", push.Direction)
	}
	if pull.Direction != mir.DirectionPull {
		t.Fatalf("pull body Direction = %v, want DirectionPull", pull.Direction)
	}
}

func TestResolve_RecursesIntoNestedBlocks(t *testing.T) {
	ctx := mircontext.New()
	inner := applyStmt("edges", true)
	loop := &mir.WhileStmt{Cond: &mir.BoolLiteral{Value: true}, Body: []mir.Stmt{inner}}
	Resolve([]mir.Stmt{loop}, ctx)
	if inner.Direction != mir.DirectionPush {
		t.Fatalf("nested apply Direction = %v, want DirectionPush", inner.Direction)
	}
}

func TestChoose_IsPure(t *testing.T) {
	ctx := mircontext.New()
	p := New(ctx)
	n := applyStmt("edges", true)
	a := p.Choose(n)
	b := p.Choose(n)
	if a != b {
		t.Fatalf("Choose is not deterministic: %v != %v", a, b)
	}
}
