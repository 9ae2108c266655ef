package codegen

import (
	"github.com/funvibe/graphitc/internal/kernelvars"
	"github.com/funvibe/graphitc/internal/mir"
)

// localPrefix is the namespace CodeGenGPUFusedKernel renders every
// variable under. A fused kernel keeps its whole loop resident
// on-device across iterations instead of relaunching per iteration, so
// its captured variables must not alias the host-visible globals of
// the same name; renaming every name the loop body touches is cheaper
// than tracking which ones would actually collide.
const localPrefix = "__local_"

func localizeName(name string) string {
	return localPrefix + name
}

// localizeHoisted renames every name kernelvars.Extract reported, so
// the fused kernel's formal parameters line up with the renamed
// references renderFusedKernel's body emits.
func localizeHoisted(hoisted kernelvars.Result) kernelvars.Result {
	out := hoisted
	out.HoistedVars = make([]string, len(hoisted.HoistedVars))
	for i, name := range hoisted.HoistedVars {
		out.HoistedVars[i] = localizeName(name)
	}
	out.InOutVars = make([]string, len(hoisted.InOutVars))
	for i, name := range hoisted.InOutVars {
		out.InOutVars[i] = localizeName(name)
	}
	return out
}

// localizeBody returns a deep copy of body with every variable name it
// references or declares prefixed by localPrefix. body itself is left
// untouched.
func localizeBody(body []mir.Stmt) []mir.Stmt {
	out := make([]mir.Stmt, len(body))
	for i, s := range body {
		out[i] = localizeStmt(s)
	}
	return out
}

func localizeStmt(s mir.Stmt) mir.Stmt {
	switch n := s.(type) {
	case nil:
		return nil
	case *mir.AssignStmt:
		return &mir.AssignStmt{Base: n.Base, Lhs: localizeExpr(n.Lhs), Rhs: localizeExpr(n.Rhs)}
	case *mir.ReduceStmt:
		return &mir.ReduceStmt{Base: n.Base, Target: localizeExpr(n.Target), Op: n.Op, Value: localizeExpr(n.Value)}
	case *mir.CompareAndSwapStmt:
		return &mir.CompareAndSwapStmt{Base: n.Base, Target: localizeExpr(n.Target), OldValue: localizeExpr(n.OldValue), NewValue: localizeExpr(n.NewValue)}
	case *mir.VarDecl:
		return &mir.VarDecl{Base: n.Base, Name: localizeName(n.Name), Ty: n.Ty, Value: localizeExpr(n.Value)}
	case *mir.ForStmt:
		return &mir.ForStmt{
			Base: n.Base, Var: localizeName(n.Var),
			Lo: localizeExpr(n.Lo), Hi: localizeExpr(n.Hi),
			Inclusive: n.Inclusive, Body: localizeBody(n.Body),
		}
	case *mir.WhileStmt:
		return &mir.WhileStmt{Base: n.Base, Cond: localizeExpr(n.Cond), Body: localizeBody(n.Body), Fuse: n.Fuse}
	case *mir.IfStmt:
		return &mir.IfStmt{Base: n.Base, Cond: localizeExpr(n.Cond), Then: localizeBody(n.Then), Else: localizeBody(n.Else)}
	case *mir.PrintStmt:
		args := make([]mir.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = localizeExpr(a)
		}
		return &mir.PrintStmt{Base: n.Base, Args: args}
	case *mir.BreakStmt:
		return n
	case *mir.Call:
		return localizeExpr(n).(mir.Stmt)
	case *mir.VertexSetApplyExpr:
		return localizeExpr(n).(mir.Stmt)
	case *mir.EdgeSetApplyExpr:
		return localizeExpr(n).(mir.Stmt)
	default:
		return s
	}
}

func localizeExpr(e mir.Expr) mir.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *mir.IntLiteral, *mir.FloatLiteral, *mir.BoolLiteral, *mir.StringLiteral:
		return e
	case *mir.VarExpr:
		return &mir.VarExpr{Base: n.Base, Name: localizeName(n.Name)}
	case *mir.NegExpr:
		return &mir.NegExpr{Base: n.Base, X: localizeExpr(n.X)}
	case *mir.TransposeExpr:
		return &mir.TransposeExpr{Base: n.Base, X: localizeExpr(n.X)}
	case *mir.BinaryExpr:
		return &mir.BinaryExpr{Base: n.Base, Op: n.Op, Lhs: localizeExpr(n.Lhs), Rhs: localizeExpr(n.Rhs)}
	case *mir.EqExpr:
		ops := make([]mir.Expr, len(n.Operands))
		for i, o := range n.Operands {
			ops[i] = localizeExpr(o)
		}
		return &mir.EqExpr{Base: n.Base, Operands: ops, Ops: n.Ops}
	case *mir.TensorArrayReadExpr:
		idx := make([]mir.Expr, len(n.Indices))
		for i, ix := range n.Indices {
			idx[i] = localizeExpr(ix)
		}
		return &mir.TensorArrayReadExpr{Base: n.Base, Target: localizeExpr(n.Target), Indices: idx}
	case *mir.FieldReadExpr:
		return &mir.FieldReadExpr{Base: n.Base, Target: localizeExpr(n.Target), Field: n.Field}
	case *mir.IntersectionExpr:
		return &mir.IntersectionExpr{Base: n.Base, Lhs: localizeExpr(n.Lhs), Rhs: localizeExpr(n.Rhs)}
	case *mir.Call:
		args := make([]mir.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = localizeExpr(a)
		}
		return &mir.Call{Base: n.Base, Func: n.Func, Args: args}
	case *mir.VertexSetApplyExpr:
		return &mir.VertexSetApplyExpr{Base: n.Base, Target: localizeExpr(n.Target), ApplyFunc: n.ApplyFunc}
	case *mir.VertexSetAllocExpr:
		return &mir.VertexSetAllocExpr{Base: n.Base, ElementType: n.ElementType, NumElements: localizeExpr(n.NumElements)}
	case *mir.VertexSetDedupExpr:
		return &mir.VertexSetDedupExpr{Base: n.Base, Target: localizeExpr(n.Target)}
	case *mir.EdgeSetApplyExpr:
		return &mir.EdgeSetApplyExpr{
			Base: n.Base, Target: localizeExpr(n.Target), Kind: n.Kind, ApplyFunc: n.ApplyFunc,
			HasFrom: n.HasFrom, FromFunc: n.FromFunc, HasTo: n.HasTo, ToFunc: n.ToFunc,
			HasChangeTracking: n.HasChangeTracking, ChangeTrackingField: n.ChangeTrackingField,
			DisableDeduplication: n.DisableDeduplication, Direction: n.Direction, KernelDispatched: n.KernelDispatched,
		}
	default:
		return e
	}
}
