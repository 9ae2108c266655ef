package kernelvars

import (
	"reflect"
	"testing"

	"github.com/funvibe/graphitc/internal/mir"
)

func TestExtract_OuterVarIsHoisted(t *testing.T) {
	region := &mir.WhileStmt{
		Cond: &mir.VarExpr{Name: "active"},
		Body: []mir.Stmt{
			&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "sum"}, Rhs: &mir.VarExpr{Name: "weight"}},
		},
	}
	res := Extract(region)
	want := []string{"active", "sum", "weight"}
	if !reflect.DeepEqual(res.HoistedVars, want) {
		t.Fatalf("HoistedVars = %v, want %v", res.HoistedVars, want)
	}
	if len(res.HoistedDecls) != 0 {
		t.Fatalf("HoistedDecls = %v, want empty", res.HoistedDecls)
	}
}

func TestExtract_LocalDeclIsNotHoisted(t *testing.T) {
	decl := &mir.VarDecl{Name: "local", Value: &mir.IntLiteral{Value: 0}}
	region := &mir.WhileStmt{
		Cond: &mir.VarExpr{Name: "active"},
		Body: []mir.Stmt{
			decl,
			&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "local"}, Rhs: &mir.VarExpr{Name: "local"}},
		},
	}
	res := Extract(region)
	if len(res.HoistedVars) != 1 || res.HoistedVars[0] != "active" {
		t.Fatalf("HoistedVars = %v, want [active] (local must not appear)", res.HoistedVars)
	}
	if len(res.HoistedDecls) != 1 || res.HoistedDecls[0] != decl {
		t.Fatalf("HoistedDecls = %v, want [decl]", res.HoistedDecls)
	}
}

func TestExtract_DedupsByNameFirstSeenWins(t *testing.T) {
	region := &mir.WhileStmt{
		Cond: &mir.VarExpr{Name: "active"},
		Body: []mir.Stmt{
			&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "x"}, Rhs: &mir.VarExpr{Name: "weight"}},
			&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "y"}, Rhs: &mir.VarExpr{Name: "weight"}},
		},
	}
	res := Extract(region)
	count := 0
	for _, v := range res.HoistedVars {
		if v == "weight" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("weight appears %d times in HoistedVars, want exactly once", count)
	}
}

func TestExtract_ForLoopVariableIsLocallyBound(t *testing.T) {
	region := &mir.ForStmt{
		Var: "i",
		Lo:  &mir.IntLiteral{Value: 0},
		Hi:  &mir.VarExpr{Name: "n"},
		Body: []mir.Stmt{
			&mir.AssignStmt{Lhs: &mir.VarExpr{Name: "acc"}, Rhs: &mir.VarExpr{Name: "i"}},
		},
	}
	res := Extract(region)
	for _, v := range res.HoistedVars {
		if v == "i" {
			t.Fatalf("loop variable i must not be hoisted: %v", res.HoistedVars)
		}
	}
	want := []string{"n", "acc"}
	if !reflect.DeepEqual(res.HoistedVars, want) {
		t.Fatalf("HoistedVars = %v, want %v", res.HoistedVars, want)
	}
}

func TestExtract_IsIdempotent(t *testing.T) {
	build := func() mir.Stmt {
		return &mir.WhileStmt{
			Cond: &mir.VarExpr{Name: "active"},
			Body: []mir.Stmt{
				&mir.VarDecl{Name: "local", Value: &mir.VarExpr{Name: "seed"}},
			},
		}
	}
	a := Extract(build())
	b := Extract(build())
	if !reflect.DeepEqual(a.HoistedVars, b.HoistedVars) {
		t.Fatalf("Extract not idempotent on HoistedVars: %v vs %v", a.HoistedVars, b.HoistedVars)
	}
}
