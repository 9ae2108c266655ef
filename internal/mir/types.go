package mir

// ScalarType names a scalar (int, uint, uint_64, float, double, bool,
// complex, string) by its source keyword.
type ScalarType struct {
	Base
	Name string
}

func (*ScalarType) typeNode()          {}
func (n *ScalarType) Accept(v Visitor) { v.VisitScalarType(n) }

// ElementType names a user-declared graph element kind.
type ElementType struct {
	Base
	Name string
}

func (*ElementType) typeNode()          {}
func (n *ElementType) Accept(v Visitor) { v.VisitElementType(n) }

// VertexSetType is a set of ElementType-typed vertices.
type VertexSetType struct {
	Base
	ElementType string
}

func (*VertexSetType) typeNode()          {}
func (n *VertexSetType) Accept(v Visitor) { v.VisitVertexSetType(n) }

// EdgeSetType is a set of directed edges between two (possibly equal)
// element types, optionally weighted.
type EdgeSetType struct {
	Base
	SrcElementType string
	DstElementType string
	WeightType     Type // nil when unweighted
}

func (*EdgeSetType) typeNode()          {}
func (n *EdgeSetType) Accept(v Visitor) { v.VisitEdgeSetType(n) }

// NDTensorType is a vector/matrix/tensor type over one or more index
// sets with a scalar or element-anchored component type.
type NDTensorType struct {
	Base
	IndexSets   []Type
	ElementType Type
	IsColumn    bool
}

func (*NDTensorType) typeNode()          {}
func (n *NDTensorType) Accept(v Visitor) { v.VisitNDTensorType(n) }

// ListType is a dynamically sized homogeneous list.
type ListType struct {
	Base
	ElemType Type
}

func (*ListType) typeNode()          {}
func (n *ListType) Accept(v Visitor) { v.VisitListType(n) }

// SetType is a homogeneous or heterogeneous fixed-arity tuple-of-types
// set literal, e.g. `set{int, bool}`.
type SetType struct {
	Base
	ElemTypes []Type
}

func (*SetType) typeNode()          {}
func (n *SetType) Accept(v Visitor) { v.VisitSetType(n) }

// PriorityQueueType is a priority queue of ElementType entries ordered
// by a scalar priority.
type PriorityQueueType struct {
	Base
	ElementType  string
	PriorityType Type
}

func (*PriorityQueueType) typeNode()          {}
func (n *PriorityQueueType) Accept(v Visitor) { v.VisitPriorityQueueType(n) }

// GridType is a fixed-dimension numeric grid, e.g. `grid[3,3]{int}`.
type GridType struct {
	Base
	Dims []Expr
	Elem Type
}

func (*GridType) typeNode()          {}
func (n *GridType) Accept(v Visitor) { v.VisitGridType(n) }

// TupleField is one named or unnamed field of a TupleType.
type TupleField struct {
	Name string
	Ty   Type
}

// TupleType is a named or unnamed fixed-arity heterogeneous tuple.
type TupleType struct {
	Base
	Name   string
	Fields []TupleField
}

func (*TupleType) typeNode()          {}
func (n *TupleType) Accept(v Visitor) { v.VisitTupleType(n) }

// OpaqueType is a runtime-defined type the compiler does not inspect.
type OpaqueType struct {
	Base
	Name string
}

func (*OpaqueType) typeNode()          {}
func (n *OpaqueType) Accept(v Visitor) { v.VisitOpaqueType(n) }
