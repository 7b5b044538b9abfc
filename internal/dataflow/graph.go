// Package dataflow is the append-only graph relating value origins to their
// uses through labeled edges. It is shared across the entire analysis pass
// and appended to monotonically; readers (taint queries, reference
// reports) must tolerate concurrent appends from other files' workers.
//
// The node/edge shape follows a call graph's forward/reverse adjacency-map
// structure, generalized from call edges between function identifiers to
// typed value-origin edges between dataflow nodes, with a node kind enum
// in place of a single function-identifier key.
package dataflow

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shivasurya/phpcheck-analyzer/internal/astshim"
)

// NodeKind tags the shape of a Node the same way astshim.ExprKind tags an
// Expr: one tagged struct, relevant fields populated per kind.
type NodeKind int

const (
	VariableUseSource NodeKind = iota
	VariableUseSink
	Vertex
	LocalString
	Property
	LocalizedProperty
	FunctionLikeArg
)

// Node is one vertex of the dataflow graph.
type Node struct {
	Kind NodeKind

	// VariableUseSource / VariableUseSink / Vertex / LocalizedProperty
	Span astshim.Span

	// Vertex
	IsSpecialized bool

	// LocalString
	Name string

	// Property / LocalizedProperty
	Class        string
	PropertyName string

	// FunctionLikeArg
	FunctionID string
	Offset     int
}

// Id derives a stable identifier from (kind, symbol, span) rather than
// allocation order, so the same file re-analyzed in a later run produces
// the same node ids (required for incremental analysis and for merging
// per-file graphs from the worker pool).
func (n Node) Id() string {
	switch n.Kind {
	case VariableUseSource:
		return fmt.Sprintf("vus:%s", n.Span.Key())
	case VariableUseSink:
		return fmt.Sprintf("vuk:%s", n.Span.Key())
	case Vertex:
		return fmt.Sprintf("vtx:%s:%v", n.Span.Key(), n.IsSpecialized)
	case LocalString:
		return fmt.Sprintf("loc:%s", n.Name)
	case Property:
		return fmt.Sprintf("prop:%s::%s", n.Class, n.PropertyName)
	case LocalizedProperty:
		return fmt.Sprintf("lprop:%s::%s@%s", n.Class, n.PropertyName, n.Span.Key())
	case FunctionLikeArg:
		return fmt.Sprintf("arg:%s#%d", n.FunctionID, n.Offset)
	default:
		// Unreachable for any node built through the constructors below;
		// fall back to a random id rather than colliding silently.
		return uuid.NewString()
	}
}

// EdgeKind labels why source flows to sink.
type EdgeKind int

const (
	EdgeDefault EdgeKind = iota
	EdgeAssignment
	EdgePropertyAssignment
	EdgePropertyAccess
	EdgeArrayAssignment
	EdgeArrayAccess
)

// Edge is one directed source→sink relation. Path/Class/PropertyName carry
// the edge-kind-specific payload the spec assigns to Assignment(path),
// PropertyAssignment(class, name), and PropertyAccess(class, name).
type Edge struct {
	Source Node
	Sink   Node
	Kind   EdgeKind

	Path         string // EdgeAssignment: destructure/array path, "" for a plain assignment
	Class        string // EdgePropertyAssignment / EdgePropertyAccess
	PropertyName string

	// TaintLabels carries taint-transfer labels for specialized relations
	// (e.g. "html-escaped", "sql-quoted") attached by plugin providers.
	TaintLabels []string
}

// Graph is append-only: nothing is ever removed from nodes/edges, and
// cycles are permitted (a property can flow back into the variable it was
// read from through a loop body) — consumers must treat cycles as normal
// and terminate on visited-set, not on acyclicity.
type Graph struct {
	nodes map[string]Node
	edges []Edge
	// outgoing/incoming index edges by node id for traversal without a
	// full scan of edges on every query.
	outgoing map[string][]int
	incoming map[string][]int
}

// NewGraph returns an empty graph ready for appends through AddEdge; the
// graph does no locking, so callers serialize appends themselves (one append per file
// worker, merged after each file completes) rather than the graph
// providing its own locking.
func NewGraph() *Graph {
	return &Graph{
		nodes:    map[string]Node{},
		edges:    nil,
		outgoing: map[string][]int{},
		incoming: map[string][]int{},
	}
}

// AddNode registers n if not already present and returns its stable id.
func (g *Graph) AddNode(n Node) string {
	id := n.Id()
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = n
	}
	return id
}

// AddEdge appends a directed source→sink edge, registering both endpoints
// as nodes if new.
func (g *Graph) AddEdge(source, sink Node, kind EdgeKind) {
	g.AddEdgeWithPayload(source, sink, kind, "", "", "", nil)
}

// AddEdgeWithPayload is AddEdge plus the edge-kind-specific payload fields
// and taint-transfer labels.
func (g *Graph) AddEdgeWithPayload(source, sink Node, kind EdgeKind, path, class, propertyName string, taintLabels []string) {
	sourceID := g.AddNode(source)
	sinkID := g.AddNode(sink)
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{
		Source:       source,
		Sink:         sink,
		Kind:         kind,
		Path:         path,
		Class:        class,
		PropertyName: propertyName,
		TaintLabels:  taintLabels,
	})
	g.outgoing[sourceID] = append(g.outgoing[sourceID], idx)
	g.incoming[sinkID] = append(g.incoming[sinkID], idx)
}

// Node looks up a previously-added node by id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// EdgesFrom returns every edge whose source is the node identified by id.
func (g *Graph) EdgesFrom(id string) []Edge {
	idxs := g.outgoing[id]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// EdgesTo returns every edge whose sink is the node identified by id.
func (g *Graph) EdgesTo(id string) []Edge {
	idxs := g.incoming[id]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// Len returns the total number of edges appended so far.
func (g *Graph) Len() int { return len(g.edges) }

// Merge appends other's edges into g, used to combine one file worker's
// per-file graph into the analysis-wide graph once the file completes.
func (g *Graph) Merge(other *Graph) {
	for _, e := range other.edges {
		g.AddEdgeWithPayload(e.Source, e.Sink, e.Kind, e.Path, e.Class, e.PropertyName, e.TaintLabels)
	}
}

// Reaches reports whether sink is reachable from source by following
// outgoing edges, used by taint queries and "is this value ever read"
// reference reports. Visited-set traversal tolerates the cycles the graph
// permits.
func (g *Graph) Reaches(sourceID, sinkID string) bool {
	if sourceID == sinkID {
		return true
	}
	visited := map[string]struct{}{sourceID: {}}
	queue := []string{sourceID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.EdgesFrom(cur) {
			nextID := e.Sink.Id()
			if nextID == sinkID {
				return true
			}
			if _, ok := visited[nextID]; ok {
				continue
			}
			visited[nextID] = struct{}{}
			queue = append(queue, nextID)
		}
	}
	return false
}
