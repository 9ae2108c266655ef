package parser

import (
	"testing"

	"github.com/funvibe/graphitc/internal/fir"
)

func parseTypeFromSource(t *testing.T, src string) fir.Type {
	t.Helper()
	p := newTestParser(t, src)
	ty := p.parseType()
	if len(p.ctx.Errors) > 0 {
		t.Fatalf("unexpected errors parsing type %q: %v", src, p.ctx.Errors)
	}
	return ty
}

func TestParseWeightedEdgeSetType(t *testing.T) {
	ty := parseTypeFromSource(t, "edgeset{vertex, vertex}(int)")
	es, ok := ty.(*fir.EdgeSetType)
	if !ok {
		t.Fatalf("expected EdgeSetType, got %T", ty)
	}
	if es.SrcElementType != "vertex" || es.DstElementType != "vertex" {
		t.Fatalf("expected src/dst vertex, got %s/%s", es.SrcElementType, es.DstElementType)
	}
	if es.WeightType == nil {
		t.Fatalf("expected a weight type")
	}
	if _, ok := es.WeightType.(*fir.ScalarType); !ok {
		t.Fatalf("expected scalar weight type, got %T", es.WeightType)
	}
}

func TestParseUnweightedEdgeSetType(t *testing.T) {
	ty := parseTypeFromSource(t, "edgeset{vertex, vertex}")
	es := ty.(*fir.EdgeSetType)
	if es.WeightType != nil {
		t.Fatalf("expected no weight type, got %#v", es.WeightType)
	}
}

func TestParseMatrixType(t *testing.T) {
	ty := parseTypeFromSource(t, "matrix[vertex, vertex]{int}")
	nd, ok := ty.(*fir.NDTensorType)
	if !ok {
		t.Fatalf("expected NDTensorType, got %T", ty)
	}
	if len(nd.IndexSets) != 2 {
		t.Fatalf("expected 2 index sets, got %d", len(nd.IndexSets))
	}
}

func TestParseUnnamedTupleType(t *testing.T) {
	ty := parseTypeFromSource(t, "(int, bool)")
	tt, ok := ty.(*fir.TupleType)
	if !ok {
		t.Fatalf("expected TupleType, got %T", ty)
	}
	if len(tt.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(tt.Fields))
	}
	if tt.Fields[0].Name != "" {
		t.Errorf("expected unnamed field, got %q", tt.Fields[0].Name)
	}
}

func TestParseNamedTupleType(t *testing.T) {
	ty := parseTypeFromSource(t, "(x : int, y : int)")
	tt := ty.(*fir.TupleType)
	if tt.Fields[0].Name != "x" || tt.Fields[1].Name != "y" {
		t.Fatalf("expected named fields x, y, got %q, %q", tt.Fields[0].Name, tt.Fields[1].Name)
	}
}

func TestParseListOfVertexSetType(t *testing.T) {
	ty := parseTypeFromSource(t, "list{vertexset{vertex}}")
	lt, ok := ty.(*fir.ListType)
	if !ok {
		t.Fatalf("expected ListType, got %T", ty)
	}
	if _, ok := lt.ElemType.(*fir.VertexSetType); !ok {
		t.Fatalf("expected VertexSetType element, got %T", lt.ElemType)
	}
}
