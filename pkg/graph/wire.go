package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// =============================================================================
// Wire Format
// =============================================================================

// Document is the node-link serialization of a [Graph].
type Document struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// NodeDoc is the serialized form of a [Vertex].
type NodeDoc struct {
	ID       string   `json:"id" bson:"id"`
	Bases    string   `json:"bases" bson:"bases"`
	Copy     int      `json:"copy,omitempty" bson:"copy,omitempty"`
	Index    int      `json:"index,omitempty" bson:"index,omitempty"`
	Coverage []uint32 `json:"coverage,omitempty" bson:"coverage,omitempty"`
	Edges    []string `json:"edges,omitempty" bson:"edges,omitempty"`
	Sources  []string `json:"sources,omitempty" bson:"sources,omitempty"`
}

// EdgeDoc is the serialized form of an [Edge].
type EdgeDoc struct {
	From   string  `json:"from" bson:"from"`
	To     string  `json:"to" bson:"to"`
	Color  int     `json:"color" bson:"color"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// ToDocument converts g to its serialization format. Nodes are sorted by id
// and edges keep insertion order.
func ToDocument(g *Graph) Document {
	vs := g.Vertices()
	edges := g.Edges()
	doc := Document{
		Nodes: make([]NodeDoc, len(vs)),
		Edges: make([]EdgeDoc, len(edges)),
	}
	for i, v := range vs {
		n := NodeDoc{
			ID:      v.ID().String(),
			Bases:   v.Bases,
			Copy:    v.Copy,
			Index:   v.Index,
			Sources: v.Sources,
		}
		if v.Record != nil {
			n.Coverage = v.Record.Coverage
			for _, m := range v.Record.Edges {
				n.Edges = append(n.Edges, m.String())
			}
		}
		doc.Nodes[i] = n
	}
	for i, e := range edges {
		doc.Edges[i] = EdgeDoc{From: e.From.String(), To: e.To.String(), Color: e.Color, Weight: e.Weight}
	}
	return doc
}

// FromDocument rebuilds a graph from its serialization format.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for _, n := range doc.Nodes {
		v := NewVertex(n.Bases, nil).WithCopy(n.Copy).WithSources(n.Sources)
		v.Index = n.Index
		if v.ID().String() != n.ID {
			return nil, fmt.Errorf("node %s: id does not match bases %s", n.ID, n.Bases)
		}
		if len(n.Coverage) > 0 || len(n.Edges) > 0 {
			rec := &store.Record{Kmer: v.Kmer, Coverage: n.Coverage}
			for _, s := range n.Edges {
				m, err := kmer.ParseEdgeMask(s)
				if err != nil {
					return nil, fmt.Errorf("node %s: %w", n.ID, err)
				}
				rec.Edges = append(rec.Edges, m)
			}
			v.Record = rec
		}
		g.AddVertex(v)
	}
	for _, e := range doc.Edges {
		from, err := parseID(e.From)
		if err != nil {
			return nil, err
		}
		to, err := parseID(e.To)
		if err != nil {
			return nil, err
		}
		w := e.Weight
		if w == 0 {
			w = DefaultWeight
		}
		if err := g.AddEdge(Edge{From: from, To: to, Color: e.Color, Weight: w}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

func parseID(s string) (VertexID, error) {
	km, cp, ok := strings.Cut(s, "#")
	id := VertexID{Kmer: kmer.Canonical(km)}
	if ok {
		c, err := strconv.Atoi(cp)
		if err != nil {
			return VertexID{}, fmt.Errorf("vertex id %q: %w", s, err)
		}
		id.Copy = c
	}
	return id, nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}
