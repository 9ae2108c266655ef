package codegen

import (
	"testing"

	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/mir"
)

func TestCheckKernelWrites_PushBareWriteToPropertyArrayIsUnsafe(t *testing.T) {
	region := []mir.Stmt{
		&mir.AssignStmt{
			Lhs: &mir.TensorArrayReadExpr{Target: &mir.VarExpr{Name: "dist"}, Indices: []mir.Expr{&mir.VarExpr{Name: "dst"}}},
			Rhs: &mir.VarExpr{Name: "w"},
		},
	}
	errs := CheckKernelWrites(region, mir.DirectionPush)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Code != diagnostics.ErrUnsafeKernelWrite {
		t.Fatalf("got code %s, want %s", errs[0].Code, diagnostics.ErrUnsafeKernelWrite)
	}
}

func TestCheckKernelWrites_PushFieldWriteInsideIfIsUnsafe(t *testing.T) {
	region := []mir.Stmt{
		&mir.IfStmt{
			Cond: &mir.VarExpr{Name: "cond"},
			Then: []mir.Stmt{
				&mir.AssignStmt{
					Lhs: &mir.FieldReadExpr{Target: &mir.VarExpr{Name: "v"}, Field: "visited"},
					Rhs: &mir.BoolLiteral{Value: true},
				},
			},
		},
	}
	errs := CheckKernelWrites(region, mir.DirectionPush)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestCheckKernelWrites_PlainLocalAssignmentIsSafe(t *testing.T) {
	region := []mir.Stmt{
		&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "tmp"}, Rhs: &mir.VarExpr{Name: "w"}},
	}
	if errs := CheckKernelWrites(region, mir.DirectionPush); len(errs) != 0 {
		t.Fatalf("got %d errors, want 0: %v", len(errs), errs)
	}
}

func TestCheckKernelWrites_PullDirectionNeverFlagged(t *testing.T) {
	region := []mir.Stmt{
		&mir.AssignStmt{
			Lhs: &mir.TensorArrayReadExpr{Target: &mir.VarExpr{Name: "dist"}, Indices: []mir.Expr{&mir.VarExpr{Name: "dst"}}},
			Rhs: &mir.VarExpr{Name: "w"},
		},
	}
	if errs := CheckKernelWrites(region, mir.DirectionPull); len(errs) != 0 {
		t.Fatalf("pull-direction write flagged, want none: %v", errs)
	}
}

func TestCheckKernelWrites_ReduceAndCASAreUnaffected(t *testing.T) {
	region := []mir.Stmt{
		&mir.ReduceStmt{Target: &mir.TensorArrayReadExpr{Target: &mir.VarExpr{Name: "dist"}}, Op: "min=", Value: &mir.VarExpr{Name: "w"}},
		&mir.CompareAndSwapStmt{Target: &mir.FieldReadExpr{Target: &mir.VarExpr{Name: "v"}, Field: "visited"}, OldValue: &mir.BoolLiteral{Value: false}, NewValue: &mir.BoolLiteral{Value: true}},
	}
	if errs := CheckKernelWrites(region, mir.DirectionPush); len(errs) != 0 {
		t.Fatalf("reduce/CAS statements must not be flagged: %v", errs)
	}
}
