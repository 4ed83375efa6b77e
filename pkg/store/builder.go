package store

import (
	"fmt"
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// Builder accumulates records from per-sample sequences. Each sequence
// contributes its k-mers to the sample's color and an edge between every
// pair of consecutive k-mers. Runs containing ambiguous bases are split.
type Builder struct {
	k       int
	samples []string
	records map[kmer.Canonical]*Record
}

// NewBuilder creates a builder for k-mers of length k over the given samples.
func NewBuilder(k int, samples []string) *Builder {
	return &Builder{
		k:       k,
		samples: slices.Clone(samples),
		records: make(map[kmer.Canonical]*Record),
	}
}

// KmerSize returns k.
func (b *Builder) KmerSize() int { return b.k }

// Samples returns the sample names, one per color.
func (b *Builder) Samples() []string { return slices.Clone(b.samples) }

// AddSequence adds seq to the given color.
func (b *Builder) AddSequence(color int, seq string) error {
	if color < 0 || color >= len(b.samples) {
		return fmt.Errorf("color %d out of range [0,%d)", color, len(b.samples))
	}
	seq = kmer.Normalize(seq)

	start := 0
	for i := 0; i <= len(seq); i++ {
		if i == len(seq) || seq[i] == 'N' {
			b.addRun(color, seq[start:i])
			start = i + 1
		}
	}
	return nil
}

func (b *Builder) addRun(color int, run string) {
	kmers := kmer.Kmers(run, b.k)
	for i, km := range kmers {
		rec := b.record(km)
		rec.Coverage[color]++
		if i+1 < len(kmers) {
			fm, tm := kmer.Link(km, kmers[i+1])
			rec.Edges[color] |= fm
			next := b.record(kmers[i+1])
			next.Edges[color] |= tm
		}
	}
}

func (b *Builder) record(km string) *Record {
	ck, _ := kmer.Canonicalize(km)
	rec, ok := b.records[ck]
	if !ok {
		rec = &Record{
			Kmer:     ck,
			Edges:    make([]kmer.EdgeMask, len(b.samples)),
			Coverage: make([]uint32, len(b.samples)),
		}
		b.records[ck] = rec
	}
	return rec
}

// Len returns the number of distinct canonical k-mers seen so far.
func (b *Builder) Len() int { return len(b.records) }

// Records returns all records sorted by k-mer.
func (b *Builder) Records() []*Record {
	out := make([]*Record, 0, len(b.records))
	for _, rec := range b.records {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, c *Record) int {
		switch {
		case a.Kmer < c.Kmer:
			return -1
		case a.Kmer > c.Kmer:
			return 1
		}
		return 0
	})
	return out
}

// Flush writes every record into w.
func (b *Builder) Flush(w Writable) error {
	for _, rec := range b.Records() {
		if err := w.Put(rec); err != nil {
			return fmt.Errorf("put %s: %w", rec.Kmer, err)
		}
	}
	return nil
}

// MemStore returns the built graph as an in-memory store.
func (b *Builder) MemStore() *MemStore {
	m := NewMemStore(b.k, b.samples)
	for ck, rec := range b.records {
		m.records[ck] = rec
	}
	return m
}

// Novel returns the canonical k-mers present in color but absent from every
// color listed in background, sorted.
func (b *Builder) Novel(color int, background []int) []kmer.Canonical {
	var out []kmer.Canonical
	for ck, rec := range b.records {
		if isNovel(rec, color, background) {
			out = append(out, ck)
		}
	}
	slices.Sort(out)
	return out
}
