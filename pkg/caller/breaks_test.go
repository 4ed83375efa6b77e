package caller

import (
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/graph"
)

// Ten distinct canonical 5-mers.
const breakSeq = "CCGTAATGCCTTTC"

func breakFixture() ([]graph.Vertex, NoveltySet) {
	w := walkOfBare(breakSeq, 5)
	// Novel runs at indices 2-4 and 7-8.
	novel := NewNoveltySet(canon("GTAAT", "TAATG", "AATGC", "GCCTT", "CCTTT"))
	return w, novel
}

func TestSplitAtNoveltyTilesWalk(t *testing.T) {
	w, novel := breakFixture()
	pieces := splitAtNovelty(w, novel)

	wantLens := []int{2, 3, 2, 2, 1}
	if len(pieces) != len(wantLens) {
		t.Fatalf("splitAtNovelty() = %d pieces, want %d", len(pieces), len(wantLens))
	}
	var joined []graph.Vertex
	for i, p := range pieces {
		if len(p) != wantLens[i] {
			t.Errorf("piece %d len = %d, want %d", i, len(p), wantLens[i])
		}
		joined = append(joined, p...)
	}
	if got := spell(joined); got != breakSeq {
		t.Errorf("joined pieces = %q, want %q", got, breakSeq)
	}
}

func TestBreakContigs(t *testing.T) {
	w, novel := breakFixture()
	pieces, spans := BreakContigs(w, novel)

	want := []Span{{0, 2}, {5, 7}, {9, 10}}
	if len(spans) != len(want) {
		t.Fatalf("BreakContigs() spans = %v, want %v", spans, want)
	}
	for i, sp := range spans {
		if sp != want[i] {
			t.Errorf("span %d = %v, want %v", i, sp, want[i])
		}
		if len(pieces[i]) != sp.Len() {
			t.Errorf("piece %d len = %d, want %d", i, len(pieces[i]), sp.Len())
		}
		if pieces[i][0].ID() != w[sp.Start].ID() {
			t.Errorf("piece %d starts at %s, want %s", i, pieces[i][0], w[sp.Start])
		}
		if novel.IsNovel(pieces[i][0].Kmer) {
			t.Errorf("piece %d starts on novel k-mer %s", i, pieces[i][0])
		}
	}
}

func TestBreakContigsLeadingNovelty(t *testing.T) {
	w := walkOfBare(breakSeq, 5)
	novel := NewNoveltySet(canon("CCGTA", "CGTAA"))

	pieces, spans := BreakContigs(w, novel)
	if len(pieces) != 1 {
		t.Fatalf("BreakContigs() = %d pieces, want 1", len(pieces))
	}
	if want := (Span{2, 10}); spans[0] != want {
		t.Errorf("span = %v, want %v", spans[0], want)
	}
}

func TestBreakContigsNoNovelty(t *testing.T) {
	w := walkOfBare(breakSeq, 5)
	pieces, spans := BreakContigs(w, NewNoveltySet(nil))
	if len(pieces) != 1 || spans[0] != (Span{0, len(w)}) {
		t.Errorf("BreakContigs() = %d pieces %v, want the whole walk", len(pieces), spans)
	}
}
