package caller

import (
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

// LongWalk walks from ck and then keeps extending the walk past its ends.
// At each end every neighbour is walked linearly; the walk grows only when
// exactly one of those extensions holds an unused novel k-mer. The novel
// k-mers of an accepted extension are marked used.
func LongWalk(e *traversal.Engine, novel NoveltySet, ck kmer.Canonical) ([]graph.Vertex, error) {
	w, err := e.Walk(string(ck))
	if err != nil {
		return nil, err
	}

	for {
		var exts [][]graph.Vertex
		for _, cv := range e.NextVertices(w[len(w)-1]) {
			ext, err := e.WalkDirection(cv.Bases, true)
			if err != nil {
				return nil, err
			}
			ext = slices.Insert(ext, 0, cv)
			if novel.HasUnused(ext) {
				exts = append(exts, ext)
			}
		}
		if len(exts) != 1 {
			break
		}
		w = append(w, exts[0]...)
		novel.MarkUsed(exts[0])
	}

	for {
		var exts [][]graph.Vertex
		for _, cv := range e.PrevVertices(w[0]) {
			ext, err := e.WalkDirection(cv.Bases, false)
			if err != nil {
				return nil, err
			}
			ext = append(ext, cv)
			if novel.HasUnused(ext) {
				exts = append(exts, ext)
			}
		}
		if len(exts) != 1 {
			break
		}
		w = append(slices.Clone(exts[0]), w...)
		novel.MarkUsed(exts[0])
	}
	return w, nil
}
