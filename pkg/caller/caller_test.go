package caller

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/align"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/store"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

const (
	// One site, k=5: the sample carries G where the reference has A.
	bubbleA = "CATGATTC" + "A" + "CTTAGCA"
	bubbleG = "CATGATTC" + "G" + "CTTAGCA"
	// The reference contig of the bubble above.
	refContig = "GATTCACTTAG"
)

func quiet() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func build(t *testing.T, samples []string, seqs map[int][]string) (*store.MemStore, *store.Builder) {
	t.Helper()
	b := store.NewBuilder(5, samples)
	for color := range len(samples) {
		for _, seq := range seqs[color] {
			if err := b.AddSequence(color, seq); err != nil {
				t.Fatalf("AddSequence() error = %v", err)
			}
		}
	}
	return b.MemStore(), b
}

// bubbleStore holds bubbleG as "sample" and bubbleA as "ref".
func bubbleStore(t *testing.T) (*store.MemStore, NoveltySet) {
	t.Helper()
	s, b := build(t, []string{"sample", "ref"}, map[int][]string{0: {bubbleG}, 1: {bubbleA}})
	return s, NewNoveltySet(b.Novel(0, []int{1}))
}

// walkOf spells seq as a walk of store-backed vertices.
func walkOf(t *testing.T, s store.Store, seq string) []graph.Vertex {
	t.Helper()
	var w []graph.Vertex
	for _, km := range kmer.Kmers(seq, s.KmerSize()) {
		ck, _ := kmer.Canonicalize(km)
		rec, ok := s.FindRecord(ck)
		if !ok {
			t.Fatalf("k-mer %s not in store", km)
		}
		w = append(w, graph.NewVertex(km, rec))
	}
	return w
}

// walkOfBare spells seq without a store.
func walkOfBare(seq string, k int) []graph.Vertex {
	var w []graph.Vertex
	for _, km := range kmer.Kmers(seq, k) {
		w = append(w, graph.NewVertex(km, nil))
	}
	return w
}

func canon(bases ...string) []kmer.Canonical {
	out := make([]kmer.Canonical, len(bases))
	for i, b := range bases {
		out[i], _ = kmer.Canonicalize(b)
	}
	return out
}

// refAligner places refContig at chr7:100 in either orientation.
func refAligner(calls *int) align.Aligner {
	return align.AlignerFunc(func(_ context.Context, contig string) ([]align.Hit, error) {
		if calls != nil {
			*calls++
		}
		switch contig {
		case refContig:
			return []align.Hit{{RefName: "chr7", Start: 100, End: 110, MapQ: 60}}, nil
		case kmer.ReverseComplement(refContig):
			return []align.Hit{{RefName: "chr7", Start: 100, End: 110, MapQ: 60, Reverse: true}}, nil
		}
		return nil, nil
	})
}

func spell(w []graph.Vertex) string { return traversal.ToContig(w) }
