package caller

import (
	"context"
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/align"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

func newCloser(t *testing.T, s store.Store, a align.Aligner) *BubbleCloser {
	t.Helper()
	bc, err := NewBubbleCloser(s, "sample", []Reference{{Name: "ref", Aligner: a}}, nil, align.DefaultMinMapQ, quiet())
	if err != nil {
		t.Fatalf("NewBubbleCloser() error = %v", err)
	}
	return bc
}

func TestCloseBubblesSNV(t *testing.T) {
	s, novel := bubbleStore(t)
	bc := newCloser(t, s, refAligner(nil))

	w := walkOf(t, s, bubbleG)
	got, calls, err := bc.CloseBubbles(context.Background(), w, novel, 3)
	if err != nil {
		t.Fatalf("CloseBubbles() error = %v", err)
	}
	if seq := spell(got); seq != bubbleA {
		t.Errorf("closed walk = %q, want %q", seq, bubbleA)
	}
	if n := novel.Count(got); n != 0 {
		t.Errorf("closed walk keeps %d novel k-mers", n)
	}
	if len(calls) != 1 {
		t.Fatalf("CloseBubbles() = %d calls, want 1", len(calls))
	}
	want := Call{
		ContigIndex: 3, WalkLength: 12, SegmentLength: 12,
		Start: 3, Stop: 4,
		Chrom: "chr7", RefStart: 105, RefStop: 106, Strand: "+",
		Type: SNV, Alt: "G", Ref: "A",
	}
	if calls[0] != want {
		t.Errorf("call = %+v, want %+v", calls[0], want)
	}
}

func TestCloseBubblesReverseStrandWalk(t *testing.T) {
	s, novel := bubbleStore(t)
	bc := newCloser(t, s, refAligner(nil))

	w := walkOf(t, s, kmer.ReverseComplement(bubbleG))
	got, calls, err := bc.CloseBubbles(context.Background(), w, novel, 0)
	if err != nil {
		t.Fatalf("CloseBubbles() error = %v", err)
	}
	if seq := spell(got); seq != kmer.ReverseComplement(bubbleA) {
		t.Errorf("closed walk = %q, want %q", seq, kmer.ReverseComplement(bubbleA))
	}
	if len(calls) != 1 {
		t.Fatalf("CloseBubbles() = %d calls, want 1", len(calls))
	}
	// The reference contig aligns reversed, so alleles flip back to the
	// forward strand.
	c := calls[0]
	if c.Ref != "A" || c.Alt != "G" || c.RefStart != 105 || c.Type != SNV {
		t.Errorf("call = %+v, want A>G at 105", c)
	}
}

func TestCloseBubblesIdempotent(t *testing.T) {
	s, novel := bubbleStore(t)
	bc := newCloser(t, s, refAligner(nil))

	first, _, err := bc.CloseBubbles(context.Background(), walkOf(t, s, bubbleG), novel, 0)
	if err != nil {
		t.Fatalf("CloseBubbles() error = %v", err)
	}
	second, calls, err := bc.CloseBubbles(context.Background(), first, novel, 0)
	if err != nil {
		t.Fatalf("CloseBubbles() second pass error = %v", err)
	}
	if spell(second) != spell(first) {
		t.Errorf("second pass = %q, want %q", spell(second), spell(first))
	}
	if len(calls) != 0 {
		t.Errorf("second pass = %d calls, want 0", len(calls))
	}
}

func TestCloseBubblesUnalignedStillCloses(t *testing.T) {
	s, novel := bubbleStore(t)
	none := align.AlignerFunc(func(context.Context, string) ([]align.Hit, error) { return nil, nil })
	bc := newCloser(t, s, none)

	got, calls, err := bc.CloseBubbles(context.Background(), walkOf(t, s, bubbleG), novel, 0)
	if err != nil {
		t.Fatalf("CloseBubbles() error = %v", err)
	}
	if spell(got) != bubbleA {
		t.Errorf("closed walk = %q, want %q", spell(got), bubbleA)
	}
	if len(calls) != 0 {
		t.Errorf("CloseBubbles() = %d calls, want 0", len(calls))
	}
}

func TestNewBubbleCloserUnknownSample(t *testing.T) {
	s, _ := bubbleStore(t)
	if _, err := NewBubbleCloser(s, "nope", nil, nil, 0, quiet()); err == nil {
		t.Error("NewBubbleCloser() with unknown sample: want error")
	}
	if _, err := NewBubbleCloser(s, "sample", []Reference{{Name: "hg19"}}, nil, 0, quiet()); err == nil {
		t.Error("NewBubbleCloser() with unknown reference: want error")
	}
}

func TestCallFields(t *testing.T) {
	c := Call{ContigIndex: 1, WalkLength: 12, SegmentLength: 12, Start: 3, Stop: 3, Type: INS, Alt: "T"}
	want := []string{"1", "12", "12", "3", "3", "unknown", "0", "0", "+", "INS", "T", "."}
	got := c.Fields()
	if len(got) != len(Header) {
		t.Fatalf("Fields() len = %d, want %d", len(got), len(Header))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] (%s) = %q, want %q", i, Header[i], got[i], want[i])
		}
	}
}
