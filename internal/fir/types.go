package fir

// ScalarType is one of the DSL's primitive scalar kinds.
type ScalarType struct {
	Base
	Name string // "int", "uint", "uint_64", "float", "double", "bool", "complex", "string"
}

func (t *ScalarType) Accept(v Visitor) { v.VisitScalarType(t) }
func (t *ScalarType) typeNode()        {}

// NDTensorType is a dense tensor over a scalar, shaped by zero or more
// index-set dimensions (vector/matrix collapse to this with 1 or 2 dims).
type NDTensorType struct {
	Base
	IndexSets   []Type // each dimension's index set (element type or range)
	ElementType Type
	IsColumn    bool // vector transpose state
}

func (t *NDTensorType) Accept(v Visitor) { v.VisitNDTensorType(t) }
func (t *NDTensorType) typeNode()        {}

// ElementType names a previously declared `element` kind.
type ElementType struct {
	Base
	Name string
}

func (t *ElementType) Accept(v Visitor) { v.VisitElementType(t) }
func (t *ElementType) typeNode()        {}

// VertexSetType is `vertexset{Elt}`.
type VertexSetType struct {
	Base
	ElementType string
}

func (t *VertexSetType) Accept(v Visitor) { v.VisitVertexSetType(t) }
func (t *VertexSetType) typeNode()        {}

// EdgeSetType is `edgeset{SrcElt, DstElt}` with an optional weight type,
// e.g. `edgeset{Vertex, Vertex}(int)`.
type EdgeSetType struct {
	Base
	SrcElementType string
	DstElementType string
	WeightType     Type // optional, nil if unweighted
}

func (t *EdgeSetType) Accept(v Visitor) { v.VisitEdgeSetType(t) }
func (t *EdgeSetType) typeNode()        {}

// ListType is `list{ElemType}`.
type ListType struct {
	Base
	ElemType Type
}

func (t *ListType) Accept(v Visitor) { v.VisitListType(t) }
func (t *ListType) typeNode()        {}

// SetType is `set{ElemType}`, homogeneous or (per spec.md §9's note on
// heterogeneous sets) permitting a mixed element list.
type SetType struct {
	Base
	ElemTypes []Type
}

func (t *SetType) Accept(v Visitor) { v.VisitSetType(t) }
func (t *SetType) typeNode()        {}

// PriorityQueueType is `priority_queue{Elt}`.
type PriorityQueueType struct {
	Base
	ElementType string
}

func (t *PriorityQueueType) Accept(v Visitor) { v.VisitPriorityQueueType(t) }
func (t *PriorityQueueType) typeNode()        {}

// GridType is `grid[dim1, dim2, ...]`.
type GridType struct {
	Base
	Dims []Expr
}

func (t *GridType) Accept(v Visitor) { v.VisitGridType(t) }
func (t *GridType) typeNode()        {}

// TupleField is one member of a TupleType.
type TupleField struct {
	Name string // empty for unnamed tuple fields
	Ty   Type
}

// TupleType is a (possibly named-field) tuple type.
type TupleType struct {
	Base
	Name   string // type name, empty if anonymous
	Fields []TupleField
}

func (t *TupleType) Accept(v Visitor) { v.VisitTupleType(t) }
func (t *TupleType) typeNode()        {}

// OpaqueType is an external type introduced by an `extern` declaration
// whose internal shape the frontend does not need to model.
type OpaqueType struct {
	Base
	Name string
}

func (t *OpaqueType) Accept(v Visitor) { v.VisitOpaqueType(t) }
func (t *OpaqueType) typeNode()        {}
