package lower

import (
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/mir"
)

func (e *Emitter) VisitScalarType(n *fir.ScalarType) {
	e.retType = &mir.ScalarType{Base: mir.NewBase(n.Range()), Name: n.Name}
}

func (e *Emitter) VisitElementType(n *fir.ElementType) {
	e.retType = &mir.ElementType{Base: mir.NewBase(n.Range()), Name: n.Name}
}

func (e *Emitter) VisitVertexSetType(n *fir.VertexSetType) {
	e.retType = &mir.VertexSetType{Base: mir.NewBase(n.Range()), ElementType: n.ElementType}
}

func (e *Emitter) VisitEdgeSetType(n *fir.EdgeSetType) {
	var weight mir.Type
	if n.WeightType != nil {
		weight = e.EmitType(n.WeightType)
	}
	e.retType = &mir.EdgeSetType{
		Base:           mir.NewBase(n.Range()),
		SrcElementType: n.SrcElementType,
		DstElementType: n.DstElementType,
		WeightType:     weight,
	}
}

func (e *Emitter) VisitNDTensorType(n *fir.NDTensorType) {
	indexSets := make([]mir.Type, 0, len(n.IndexSets))
	for _, idx := range n.IndexSets {
		indexSets = append(indexSets, e.EmitType(idx))
	}
	var elem mir.Type
	if n.ElementType != nil {
		elem = e.EmitType(n.ElementType)
	}
	e.retType = &mir.NDTensorType{
		Base:        mir.NewBase(n.Range()),
		IndexSets:   indexSets,
		ElementType: elem,
		IsColumn:    n.IsColumn,
	}
}

func (e *Emitter) VisitListType(n *fir.ListType) {
	var elem mir.Type
	if n.ElemType != nil {
		elem = e.EmitType(n.ElemType)
	}
	e.retType = &mir.ListType{Base: mir.NewBase(n.Range()), ElemType: elem}
}

func (e *Emitter) VisitSetType(n *fir.SetType) {
	elems := make([]mir.Type, 0, len(n.ElemTypes))
	for _, t := range n.ElemTypes {
		elems = append(elems, e.EmitType(t))
	}
	e.retType = &mir.SetType{Base: mir.NewBase(n.Range()), ElemTypes: elems}
}

// VisitPriorityQueueType: fir.PriorityQueueType carries no priority
// scalar type (only spec.md's PriorityQueueAllocExpr names one, via its
// own PriorityType field) — the MIR type's PriorityType is left nil
// here, and no later pass fills it in: the alloc expression lowers to a
// runtime Call rather than to a typed node.
func (e *Emitter) VisitPriorityQueueType(n *fir.PriorityQueueType) {
	e.retType = &mir.PriorityQueueType{Base: mir.NewBase(n.Range()), ElementType: n.ElementType}
}

// VisitGridType: fir.GridType carries only its dimensions, no element
// type (grid's component type is always a scalar at the one call site
// the grammar allows); Elem is left nil for the same reason
// PriorityQueueType's PriorityType is.
func (e *Emitter) VisitGridType(n *fir.GridType) {
	dims := make([]mir.Expr, 0, len(n.Dims))
	for _, d := range n.Dims {
		dims = append(dims, e.EmitExpr(d))
	}
	e.retType = &mir.GridType{Base: mir.NewBase(n.Range()), Dims: dims}
}

func (e *Emitter) VisitTupleType(n *fir.TupleType) {
	fields := make([]mir.TupleField, 0, len(n.Fields))
	for _, f := range n.Fields {
		var ty mir.Type
		if f.Ty != nil {
			ty = e.EmitType(f.Ty)
		}
		fields = append(fields, mir.TupleField{Name: f.Name, Ty: ty})
	}
	e.retType = &mir.TupleType{Base: mir.NewBase(n.Range()), Name: n.Name, Fields: fields}
}

func (e *Emitter) VisitOpaqueType(n *fir.OpaqueType) {
	e.retType = &mir.OpaqueType{Base: mir.NewBase(n.Range()), Name: n.Name}
}
