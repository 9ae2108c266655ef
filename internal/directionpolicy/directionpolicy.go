// Package directionpolicy assigns a push or pull traversal direction to
// every edgeset apply lowering left Unresolved. It runs as a MIR visitor
// pass, after internal/lower and before internal/codegen: a later stage
// in the same pipeline shape internal/lower.Emitter belongs to, reusing
// the Self/self() dispatch trick internal/fir and internal/mir's own
// BaseVisitor already use.
//
// Choose is a pure function of the node's shape plus the Context's
// TraversalFlavor table — calling it twice on an unchanged node and
// Context always returns the same Direction, which is what lets
// internal/codegen's build cache key a kernel's generated text on its
// kernel name, direction and MIR fingerprint (fingerprintAndCache).
package directionpolicy

import (
	"strconv"

	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
)

// DefaultThreshold is the frontier/vertex-count ratio below which
// Choose prefers push over pull when TraversalFlavor supplies a numeric
// estimate rather than a "sparse"/"dense"/"hybrid" keyword: a frontier
// that small is cheaper to scan outward (push) than to rediscover by
// scanning every destination's incoming edges (pull).
const DefaultThreshold = 0.2

// Policy is the static direction pass.
type Policy struct {
	mir.BaseVisitor
	ctx       *mircontext.Context
	Threshold float64
}

// New returns a Policy reading overrides and flavor estimates from ctx.
func New(ctx *mircontext.Context) *Policy {
	p := &Policy{ctx: ctx, Threshold: DefaultThreshold}
	p.Self = p
	return p
}

// Assign fills in Direction for every EdgeSetApplyExpr reachable from
// body that lowering left Unresolved (i.e. that no per-statement-label
// backend-config override already pinned down in internal/lower).
func Assign(body []mir.Stmt, ctx *mircontext.Context) {
	p := New(ctx)
	for _, s := range body {
		s.Accept(p)
	}
}

func (p *Policy) VisitEdgeSetApplyExpr(n *mir.EdgeSetApplyExpr) {
	n.Target.Accept(p)
	if n.Direction == mir.DirectionUnresolved {
		n.Direction = p.Choose(n)
	}
}

// Choose picks push or pull for n. It never returns DirectionUnresolved:
// a "hybrid" flavor is handled separately, by Resolve, which is the only
// stage allowed to introduce a HybridGPUStmt (that requires replacing a
// statement-list slot, something a Visitor method has no way to do to
// its own caller).
func (p *Policy) Choose(n *mir.EdgeSetApplyExpr) mir.Direction {
	if name, ok := edgesetName(n.Target); ok {
		if d, ok := p.fromFlavor(p.ctx.TraversalFlavor[name]); ok {
			return d
		}
	}
	if n.HasFrom || n.HasTo {
		// An explicit from()/to() filter means the traversal only ever
		// touches a restricted frontier, which is what push is for.
		return mir.DirectionPush
	}
	return mir.DirectionPull
}

func (p *Policy) fromFlavor(flavor string) (mir.Direction, bool) {
	switch flavor {
	case "":
		return mir.DirectionUnresolved, false
	case "sparse":
		return mir.DirectionPush, true
	case "dense":
		return mir.DirectionPull, true
	case "hybrid":
		return mir.DirectionUnresolved, false
	default:
		if ratio, err := strconv.ParseFloat(flavor, 64); err == nil {
			if ratio < p.Threshold {
				return mir.DirectionPush, true
			}
			return mir.DirectionPull, true
		}
		return mir.DirectionUnresolved, false
	}
}

func (p *Policy) isHybrid(n *mir.EdgeSetApplyExpr) bool {
	name, ok := edgesetName(n.Target)
	return ok && p.ctx.TraversalFlavor[name] == "hybrid"
}

func edgesetName(x mir.Expr) (string, bool) {
	v, ok := x.(*mir.VarExpr)
	if !ok {
		return "", false
	}
	return v.Name, true
}
