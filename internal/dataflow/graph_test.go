package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
)

func TestNode_Id_StableAcrossEquivalentValues(t *testing.T) {
	a := Node{Kind: LocalString, Name: "$foo"}
	b := Node{Kind: LocalString, Name: "$foo"}
	assert.Equal(t, a.Id(), b.Id())

	c := Node{Kind: LocalString, Name: "$bar"}
	assert.NotEqual(t, a.Id(), c.Id())
}

func TestNode_Id_DistinguishesKindsWithOverlappingFields(t *testing.T) {
	span := astshim.Span{FileID: "f.php", Start: 10, End: 20}
	source := Node{Kind: VariableUseSource, Span: span}
	sink := Node{Kind: VariableUseSink, Span: span}
	assert.NotEqual(t, source.Id(), sink.Id())
}

func TestNode_Id_PropertyVsLocalizedProperty(t *testing.T) {
	p := Node{Kind: Property, Class: "User", PropertyName: "name"}
	lp := Node{Kind: LocalizedProperty, Class: "User", PropertyName: "name",
		Span: astshim.Span{FileID: "f.php", Start: 1, End: 2}}
	assert.NotEqual(t, p.Id(), lp.Id())

	lp2 := Node{Kind: LocalizedProperty, Class: "User", PropertyName: "name",
		Span: astshim.Span{FileID: "f.php", Start: 1, End: 2}}
	assert.Equal(t, lp.Id(), lp2.Id())
}

func TestGraph_AddEdge_RegistersBothEndpoints(t *testing.T) {
	g := NewGraph()
	src := Node{Kind: LocalString, Name: "$a"}
	sink := Node{Kind: LocalString, Name: "$b"}
	g.AddEdge(src, sink, EdgeAssignment)

	assert.Equal(t, 1, g.Len())
	_, ok := g.Node(src.Id())
	assert.True(t, ok)
	_, ok = g.Node(sink.Id())
	assert.True(t, ok)

	edges := g.EdgesFrom(src.Id())
	assert.Len(t, edges, 1)
	assert.Equal(t, EdgeAssignment, edges[0].Kind)

	edgesTo := g.EdgesTo(sink.Id())
	assert.Len(t, edgesTo, 1)
}

func TestGraph_AddEdgeWithPayload_PropertyAccess(t *testing.T) {
	g := NewGraph()
	obj := Node{Kind: LocalString, Name: "$user"}
	prop := Node{Kind: Property, Class: "User", PropertyName: "name"}
	g.AddEdgeWithPayload(obj, prop, EdgePropertyAccess, "", "User", "name", nil)

	edges := g.EdgesFrom(obj.Id())
	assert.Len(t, edges, 1)
	assert.Equal(t, "User", edges[0].Class)
	assert.Equal(t, "name", edges[0].PropertyName)
}

func TestGraph_Reaches_DirectAndTransitive(t *testing.T) {
	g := NewGraph()
	a := Node{Kind: LocalString, Name: "$a"}
	b := Node{Kind: LocalString, Name: "$b"}
	c := Node{Kind: LocalString, Name: "$c"}
	g.AddEdge(a, b, EdgeAssignment)
	g.AddEdge(b, c, EdgeAssignment)

	assert.True(t, g.Reaches(a.Id(), c.Id()))
	assert.True(t, g.Reaches(a.Id(), a.Id()))
	assert.False(t, g.Reaches(c.Id(), a.Id()))
}

func TestGraph_Reaches_TerminatesOnCycle(t *testing.T) {
	g := NewGraph()
	a := Node{Kind: LocalString, Name: "$a"}
	b := Node{Kind: LocalString, Name: "$b"}
	g.AddEdge(a, b, EdgeAssignment)
	g.AddEdge(b, a, EdgeAssignment) // cycle, must not hang Reaches

	assert.True(t, g.Reaches(a.Id(), b.Id()))
	assert.False(t, g.Reaches(a.Id(), Node{Kind: LocalString, Name: "$nope"}.Id()))
}

func TestGraph_Merge(t *testing.T) {
	g1 := NewGraph()
	g2 := NewGraph()
	a := Node{Kind: LocalString, Name: "$a"}
	b := Node{Kind: LocalString, Name: "$b"}
	g1.AddEdge(a, b, EdgeAssignment)

	c := Node{Kind: LocalString, Name: "$c"}
	g2.AddEdge(b, c, EdgeAssignment)

	g1.Merge(g2)
	assert.Equal(t, 2, g1.Len())
	assert.True(t, g1.Reaches(a.Id(), c.Id()))
}
