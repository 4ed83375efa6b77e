package caller

import (
	"maps"
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// NoveltySet holds the novel k-mers of a sample. The value records whether
// a k-mer has already been consumed by a walk.
type NoveltySet map[kmer.Canonical]bool

// NewNoveltySet marks every k-mer in kmers novel and unused.
func NewNoveltySet(kmers []kmer.Canonical) NoveltySet {
	n := make(NoveltySet, len(kmers))
	for _, ck := range kmers {
		n[ck] = false
	}
	return n
}

// IsNovel reports whether ck is in the set, used or not.
func (n NoveltySet) IsNovel(ck kmer.Canonical) bool {
	_, ok := n[ck]
	return ok
}

// IsUnused reports whether ck is novel and not yet consumed.
func (n NoveltySet) IsUnused(ck kmer.Canonical) bool {
	used, ok := n[ck]
	return ok && !used
}

// MarkUsed consumes every novel k-mer of w.
func (n NoveltySet) MarkUsed(w []graph.Vertex) {
	for _, v := range w {
		if _, ok := n[v.Kmer]; ok {
			n[v.Kmer] = true
		}
	}
}

// Count returns how many vertices of w are novel.
func (n NoveltySet) Count(w []graph.Vertex) int {
	c := 0
	for _, v := range w {
		if n.IsNovel(v.Kmer) {
			c++
		}
	}
	return c
}

// HasUnused reports whether any vertex of w is an unused novel k-mer.
func (n NoveltySet) HasUnused(w []graph.Vertex) bool {
	return slices.ContainsFunc(w, func(v graph.Vertex) bool { return n.IsUnused(v.Kmer) })
}

// Sorted returns the k-mers in lexical order.
func (n NoveltySet) Sorted() []kmer.Canonical {
	return slices.Sorted(maps.Keys(n))
}
