package traversal

import (
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// NoveltyIndex flags sample-only k-mers.
type NoveltyIndex interface {
	IsNovel(ck kmer.Canonical) bool
}

// State is the snapshot a stopping rule sees for one vertex of one frame.
type State struct {
	Current         graph.Vertex
	Forward         bool
	TraversalColors []int
	JoiningColors   []int

	GraphSize     int // vertices accumulated by all ancestor frames plus this one
	JunctionDepth int // number of junctions between the seed and this frame
	BranchSize    int // vertices accumulated by this frame

	NumAdjacent int // unvisited candidates in the direction of travel
	NumReverse  int // candidates in the opposite direction

	ChildrenTraversed bool // set when re-evaluating a junction after recursion
	ReachedMaxBranch  bool

	PreviousGraph *graph.Graph
	Novel         NoveltyIndex
	Sinks         []kmer.Canonical
}

// IsNovel reports whether the current vertex is flagged novel.
func (s State) IsNovel() bool {
	return s.Novel != nil && s.Novel.IsNovel(s.Current.Kmer)
}

// InPreviousGraph reports whether the current k-mer belongs to the previous
// traversal or is one of the requested sinks.
func (s State) InPreviousGraph() bool {
	if s.PreviousGraph != nil && s.PreviousGraph.ContainsKmer(s.Current) {
		return true
	}
	return slices.Contains(s.Sinks, s.Current.Kmer)
}
