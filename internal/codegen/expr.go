package codegen

import (
	"fmt"
	"strings"

	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/token"
)

// logicalOp maps the DSL's word operators to their C-like spelling;
// every other token.Kind already carries the symbol codegen needs
// verbatim (mir.BinaryExpr.Op is a token.Kind, a string type).
var logicalOp = map[token.Kind]string{
	token.AND: "&&",
	token.OR:  "||",
	token.XOR: "^",
}

func opSymbol(op token.Kind) string {
	if sym, ok := logicalOp[op]; ok {
		return sym
	}
	return string(op)
}

// exprString renders x as a single-line C-like expression. It is shared
// by every generator: expression syntax does not change between host
// and device context, only which statements it is legal to wrap around
// one.
func exprString(x mir.Expr) string {
	switch n := x.(type) {
	case *mir.IntLiteral:
		return fmt.Sprintf("%d", n.Value)
	case *mir.FloatLiteral:
		return fmt.Sprintf("%g", n.Value)
	case *mir.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *mir.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *mir.VarExpr:
		return n.Name
	case *mir.NegExpr:
		return "(-" + exprString(n.X) + ")"
	case *mir.TransposeExpr:
		return exprString(n.X) + ".transpose()"
	case *mir.BinaryExpr:
		return "(" + exprString(n.Lhs) + " " + opSymbol(n.Op) + " " + exprString(n.Rhs) + ")"
	case *mir.EqExpr:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, operand := range n.Operands {
			if i > 0 {
				sb.WriteString(" " + opSymbol(n.Ops[i-1]) + " ")
			}
			sb.WriteString(exprString(operand))
		}
		sb.WriteByte(')')
		return sb.String()
	case *mir.TensorArrayReadExpr:
		var sb strings.Builder
		sb.WriteString(exprString(n.Target))
		for _, idx := range n.Indices {
			sb.WriteString("[" + exprString(idx) + "]")
		}
		return sb.String()
	case *mir.FieldReadExpr:
		return exprString(n.Target) + "." + n.Field
	case *mir.IntersectionExpr:
		return "intersection(" + exprString(n.Lhs) + ", " + exprString(n.Rhs) + ")"
	case *mir.Call:
		return callString(n)
	case *mir.VertexSetApplyExpr:
		return fmt.Sprintf("%s.filter(%s)", exprString(n.Target), n.ApplyFunc)
	case *mir.VertexSetAllocExpr:
		if n.NumElements != nil {
			return fmt.Sprintf("newVertexSet<%s>(%s)", n.ElementType, exprString(n.NumElements))
		}
		return fmt.Sprintf("newVertexSet<%s>()", n.ElementType)
	case *mir.VertexSetDedupExpr:
		return exprString(n.Target) + ".dedup()"
	case *mir.EdgeSetApplyExpr:
		return edgeSetApplyCallString(n)
	default:
		return fmt.Sprintf("/* unhandled expr %T */", x)
	}
}

func callString(n *mir.Call) string {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, exprString(a))
	}
	return n.Func + "(" + strings.Join(args, ", ") + ")"
}

// edgeSetApplyCallString renders an EdgeSetApplyExpr used as a value
// (e.g. as the Rhs of an assignment capturing the returned frontier)
// as a plain call to the direction-tagged runtime entry point. Each
// visitor's own VisitEdgeSetApplyExpr (device.go, fused.go, host.go)
// handles a bare apply in a Body slice, adding the change-tracking
// dedup guard this helper does not emit.
func edgeSetApplyCallString(n *mir.EdgeSetApplyExpr) string {
	fn := "applyPull"
	if n.Direction == mir.DirectionPush {
		fn = "applyPush"
	}
	args := []string{exprString(n.Target), n.ApplyFunc}
	if n.HasFrom {
		args = append(args, "/*from=*/"+n.FromFunc)
	}
	if n.HasTo {
		args = append(args, "/*to=*/"+n.ToFunc)
	}
	return fn + "(" + strings.Join(args, ", ") + ")"
}
