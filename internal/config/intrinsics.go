// Package config is the single source of truth for the intrinsic
// function set, the reduction operators, and the reserved names the
// parser and lowering passes must not confuse with user declarations.
package config

// IntrinsicInfo describes one built-in function recognized at the
// point the parser resolves a call name against the symbol table.
type IntrinsicInfo struct {
	Name        string
	Signature   string
	Description string
}

// Intrinsics is consulted by the parser at every call site: a name here
// is rewritten to its BuiltinPrefix-qualified form, whether or not the
// symbol table also binds it as FUNCTION, so codegen can target a fixed
// runtime symbol regardless of what the source called it.
var Intrinsics = []IntrinsicInfo{
	{Name: "sum", Signature: "(VertexSet{Elt}, func) -> Scalar", Description: "parallel reduction over a vertexset"},
	{Name: "getVertices", Signature: "(EdgeSet{S,D}) -> Int", Description: "number of vertices in the edgeset's graph"},
	{Name: "getOutDegrees", Signature: "(EdgeSet{S,D}) -> Vector[S]{Int}", Description: "per-vertex out-degree vector"},
	{Name: "getOutDegreesUint", Signature: "(EdgeSet{S,D}) -> Vector[S]{UInt}", Description: "per-vertex out-degree vector, unsigned"},
	{Name: "getOutDegree", Signature: "(EdgeSet{S,D}, S) -> Int", Description: "out-degree of one vertex"},
	{Name: "getNgh", Signature: "(EdgeSet{S,D}, S) -> VertexSet{D}", Description: "neighbor set of one vertex"},
	{Name: "relabel", Signature: "(EdgeSet{S,D}) -> EdgeSet{S,D}", Description: "relabel vertices by descending degree"},
	{Name: "getVertexSetSize", Signature: "(VertexSet{Elt}) -> Int", Description: "number of vertices currently in the set"},
	{Name: "addVertex", Signature: "(VertexSet{Elt}, Elt) -> Nil", Description: "append a vertex to a frontier"},
	{Name: "append", Signature: "(List{T}, T) -> Nil", Description: "append an element to a list"},
	{Name: "pop", Signature: "(List{T}) -> T", Description: "remove and return the last list element"},
	{Name: "transpose", Signature: "(EdgeSet{S,D}) -> EdgeSet{D,S}", Description: "reverse every edge's direction"},
}

// BuiltinPrefix is prepended to an intrinsic's bare name so codegen can
// target a fixed runtime symbol regardless of what the DSL source
// called it, and so a user function can never accidentally shadow one.
const BuiltinPrefix = "builtin_"

var intrinsicSet map[string]bool

func init() {
	intrinsicSet = make(map[string]bool, len(Intrinsics))
	for _, fn := range Intrinsics {
		intrinsicSet[fn.Name] = true
	}
}

// IsIntrinsic reports whether name is a recognized built-in function.
func IsIntrinsic(name string) bool {
	return intrinsicSet[name]
}

// QualifyIntrinsic returns the codegen-facing symbol for an intrinsic
// call: name rewritten under BuiltinPrefix.
func QualifyIntrinsic(name string) string {
	return BuiltinPrefix + name
}

// ReductionOps lists the compound assignment operators the DSL accepts
// besides plain "=".
var ReductionOps = []string{"+=", "min=", "max=", "asyncMin=", "asyncMax="}

// AtomicReductionOps is the subset of ReductionOps the backend can
// always lower to a single atomic or CAS instruction regardless of
// element type.
var AtomicReductionOps = map[string]bool{
	"+=":        true,
	"min=":      true,
	"max=":      true,
	"asyncMin=": true,
	"asyncMax=": true,
}
