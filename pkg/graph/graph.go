package graph

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownSource is returned by [Graph.AddEdge] when From is missing.
	ErrUnknownSource = errors.New("unknown source vertex")

	// ErrUnknownTarget is returned by [Graph.AddEdge] when To is missing.
	ErrUnknownTarget = errors.New("unknown target vertex")
)

// DefaultWeight is the weight given to edges created by traversals.
const DefaultWeight = 1.0

type edgeKey struct {
	from, to VertexID
	color    int
}

// Graph is a directed colored multigraph keyed by [VertexID].
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	vertices map[VertexID]*Vertex
	edges    map[edgeKey]Edge
	order    []edgeKey // insertion order, for stable iteration
	out      map[VertexID][]VertexID
	in       map[VertexID][]VertexID
	colors   map[[2]VertexID][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[VertexID]*Vertex),
		edges:    make(map[edgeKey]Edge),
		out:      make(map[VertexID][]VertexID),
		in:       make(map[VertexID][]VertexID),
		colors:   make(map[[2]VertexID][]int),
	}
}

// AddVertex adds v if its id is not present yet and reports whether it was
// added. An existing vertex keeps its first recorded orientation and index.
func (g *Graph) AddVertex(v Vertex) bool {
	id := v.ID()
	if _, ok := g.vertices[id]; ok {
		return false
	}
	g.vertices[id] = &v
	return true
}

// AddEdge adds an edge between two existing vertices. Adding an edge that
// already exists for the same color is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.vertices[e.From]; !ok {
		return ErrUnknownSource
	}
	if _, ok := g.vertices[e.To]; !ok {
		return ErrUnknownTarget
	}
	key := edgeKey{e.From, e.To, e.Color}
	if _, ok := g.edges[key]; ok {
		return nil
	}
	g.edges[key] = e
	g.order = append(g.order, key)
	pair := [2]VertexID{e.From, e.To}
	g.colors[pair] = append(g.colors[pair], e.Color)
	if !slices.Contains(g.out[e.From], e.To) {
		g.out[e.From] = append(g.out[e.From], e.To)
		g.in[e.To] = append(g.in[e.To], e.From)
	}
	return nil
}

// Connect adds both vertices and a default-weight edge of the given color.
func (g *Graph) Connect(from, to Vertex, color int) {
	g.AddVertex(from)
	g.AddVertex(to)
	_ = g.AddEdge(Edge{From: from.ID(), To: to.ID(), Color: color, Weight: DefaultWeight})
}

// HasEdge reports whether any edge from -> to exists, regardless of color.
func (g *Graph) HasEdge(from, to VertexID) bool {
	return slices.Contains(g.out[from], to)
}

// HasColoredEdge reports whether an edge from -> to exists in color.
func (g *Graph) HasColoredEdge(from, to VertexID, color int) bool {
	_, ok := g.edges[edgeKey{from, to, color}]
	return ok
}

// Contains reports whether id is a vertex of g.
func (g *Graph) Contains(id VertexID) bool {
	_, ok := g.vertices[id]
	return ok
}

// ContainsKmer reports whether any copy of a vertex with the given bases
// (either strand) is in g.
func (g *Graph) ContainsKmer(v Vertex) bool {
	if g.Contains(v.ID()) {
		return true
	}
	for id := range g.vertices {
		if id.Kmer == v.Kmer {
			return true
		}
	}
	return false
}

// Vertex returns a copy of the vertex with the given id.
func (g *Graph) Vertex(id VertexID) (Vertex, bool) {
	v, ok := g.vertices[id]
	if !ok {
		return Vertex{}, false
	}
	return *v, true
}

// SetIndex updates the direction index of a vertex.
func (g *Graph) SetIndex(id VertexID, index int) {
	if v, ok := g.vertices[id]; ok {
		v.Index = index
	}
}

// Vertices returns all vertices sorted by id.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		out = append(out, *v)
	}
	slices.SortFunc(out, func(a, b Vertex) int { return a.ID().Compare(b.ID()) })
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.edges[k])
	}
	return out
}

// EdgesBetween returns every colored edge from -> to, sorted by color.
func (g *Graph) EdgesBetween(from, to VertexID) []Edge {
	colors := slices.Clone(g.colors[[2]VertexID{from, to}])
	slices.Sort(colors)
	out := make([]Edge, 0, len(colors))
	for _, c := range colors {
		out = append(out, g.edges[edgeKey{from, to, c}])
	}
	return out
}

// Successors returns the distinct targets of edges leaving id, sorted.
func (g *Graph) Successors(id VertexID) []Vertex { return g.sorted(g.out[id]) }

// Predecessors returns the distinct sources of edges entering id, sorted.
func (g *Graph) Predecessors(id VertexID) []Vertex { return g.sorted(g.in[id]) }

// OutDegree returns the number of distinct successors.
func (g *Graph) OutDegree(id VertexID) int { return len(g.out[id]) }

// InDegree returns the number of distinct predecessors.
func (g *Graph) InDegree(id VertexID) int { return len(g.in[id]) }

func (g *Graph) sorted(ids []VertexID) []Vertex {
	if len(ids) == 0 {
		return nil
	}
	ids = slices.Clone(ids)
	slices.SortFunc(ids, VertexID.Compare)
	out := make([]Vertex, len(ids))
	for i, id := range ids {
		out[i] = *g.vertices[id]
	}
	return out
}

// Merge adds every vertex and edge of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, v := range other.Vertices() {
		g.AddVertex(v)
	}
	for _, e := range other.Edges() {
		_ = g.AddEdge(e)
	}
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := New()
	c.Merge(g)
	return c
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// EdgeCount returns the number of colored edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Sources returns vertices with no incoming edges, sorted.
func (g *Graph) Sources() []Vertex {
	var ids []VertexID
	for id := range g.vertices {
		if len(g.in[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return g.sorted(ids)
}

// Sinks returns vertices with no outgoing edges, sorted.
func (g *Graph) Sinks() []Vertex {
	var ids []VertexID
	for id := range g.vertices {
		if len(g.out[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return g.sorted(ids)
}
