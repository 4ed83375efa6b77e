package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// VertexID is the identity of a vertex in graphs and visited sets.
type VertexID struct {
	Kmer kmer.Canonical
	Copy int
}

// String renders the id as "KMER" or "KMER#copy".
func (id VertexID) String() string {
	if id.Copy == 0 {
		return string(id.Kmer)
	}
	return fmt.Sprintf("%s#%d", id.Kmer, id.Copy)
}

// Compare orders ids by k-mer, then copy index.
func (id VertexID) Compare(o VertexID) int {
	if c := cmp.Compare(id.Kmer, o.Kmer); c != 0 {
		return c
	}
	return cmp.Compare(id.Copy, o.Copy)
}

// Vertex is a traversal-time node.
type Vertex struct {
	Bases   string         // oriented sequence as read by the walk
	Kmer    kmer.Canonical // canonical identity of Bases
	Copy    int            // copy index, 0 unless links forced a revisit
	Record  *store.Record  // shared, read-only
	Sources []string       // link sources that steered the walk here
	Index   int            // -1 reverse pass, +1 forward pass, 0 seed
}

// NewVertex creates a vertex for an oriented k-mer.
func NewVertex(bases string, rec *store.Record) Vertex {
	ck, _ := kmer.Canonicalize(bases)
	return Vertex{Bases: bases, Kmer: ck, Record: rec}
}

// WithCopy returns v with a different copy index.
func (v Vertex) WithCopy(c int) Vertex {
	v.Copy = c
	return v
}

// WithSources returns v carrying the given link sources.
func (v Vertex) WithSources(src []string) Vertex {
	v.Sources = slices.Clone(src)
	return v
}

// ID returns the identity of v.
func (v Vertex) ID() VertexID { return VertexID{Kmer: v.Kmer, Copy: v.Copy} }

// Flipped reports whether Bases is the reverse strand of the canonical k-mer.
func (v Vertex) Flipped() bool { return string(v.Kmer) != v.Bases }

// String returns the oriented bases.
func (v Vertex) String() string { return v.Bases }

// Edge is a colored, weighted connection between two vertices.
type Edge struct {
	From   VertexID
	To     VertexID
	Color  int
	Weight float64
}
