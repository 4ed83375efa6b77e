package store

import (
	"errors"
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

var (
	// ErrNotFound is returned by lookups on a key that is not present.
	ErrNotFound = errors.New("record not found")

	// ErrColorMismatch is returned when a record's color count differs from
	// the store header.
	ErrColorMismatch = errors.New("record color count does not match store")

	// ErrKmerSize is returned when a record's k-mer length differs from the
	// store's k.
	ErrKmerSize = errors.New("record k-mer size does not match store")
)

// Record holds the per-color edges and coverage of one canonical k-mer.
type Record struct {
	Kmer     kmer.Canonical
	Edges    []kmer.EdgeMask
	Coverage []uint32
}

// NumColors returns the number of color channels in the record.
func (r *Record) NumColors() int { return len(r.Edges) }

// HasColor reports whether the k-mer is present in color c.
func (r *Record) HasColor(c int) bool {
	if c < 0 || c >= len(r.Coverage) {
		return false
	}
	return r.Coverage[c] > 0
}

// Edge returns the edge mask for color c, or an empty mask when c is out of
// range.
func (r *Record) Edge(c int) kmer.EdgeMask {
	if c < 0 || c >= len(r.Edges) {
		return 0
	}
	return r.Edges[c]
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{
		Kmer:     r.Kmer,
		Edges:    slices.Clone(r.Edges),
		Coverage: slices.Clone(r.Coverage),
	}
}

// Store is the read-only lookup contract of a colored k-mer graph.
type Store interface {
	// KmerSize returns k.
	KmerSize() int
	// NumColors returns the number of color channels.
	NumColors() int
	// FindRecord returns the record for a canonical k-mer.
	FindRecord(ck kmer.Canonical) (*Record, bool)
	// SampleName returns the sample stored in color c.
	SampleName(color int) string
	// ColorForSample returns the color holding the named sample.
	ColorForSample(name string) (int, bool)
	// ColorsForSamples resolves several sample names, skipping unknown ones.
	ColorsForSamples(names []string) []int
}

// Writable is a store that accepts records.
type Writable interface {
	Put(rec *Record) error
}

// Iterable is a store whose records can be enumerated.
type Iterable interface {
	Each(fn func(*Record) bool) error
}

// Novel returns the canonical k-mers present in color but absent from every
// background color, sorted.
func Novel(s Iterable, color int, background []int) ([]kmer.Canonical, error) {
	var out []kmer.Canonical
	err := s.Each(func(rec *Record) bool {
		if isNovel(rec, color, background) {
			out = append(out, rec.Kmer)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(out)
	return out, nil
}

func isNovel(rec *Record, color int, background []int) bool {
	if !rec.HasColor(color) {
		return false
	}
	for _, c := range background {
		if rec.HasColor(c) {
			return false
		}
	}
	return true
}

// Find looks up an oriented k-mer, returning its record and whether the
// sequence is the flipped strand of that record.
func Find(s Store, seq string) (*Record, bool, bool) {
	ck, flipped := kmer.Canonicalize(seq)
	rec, ok := s.FindRecord(ck)
	return rec, flipped, ok
}

// header is the metadata every store implementation carries.
type header struct {
	K       int      `json:"k"`
	Samples []string `json:"samples"`
}

func (h header) colorForSample(name string) (int, bool) {
	i := slices.Index(h.Samples, name)
	return i, i >= 0
}

func (h header) colorsForSamples(names []string) []int {
	var out []int
	for _, n := range names {
		if c, ok := h.colorForSample(n); ok {
			out = append(out, c)
		}
	}
	return out
}

func (h header) sampleName(c int) string {
	if c < 0 || c >= len(h.Samples) {
		return ""
	}
	return h.Samples[c]
}

func (h header) check(rec *Record) error {
	if rec.Kmer.Len() != h.K {
		return ErrKmerSize
	}
	if len(rec.Edges) != len(h.Samples) || len(rec.Coverage) != len(h.Samples) {
		return ErrColorMismatch
	}
	return nil
}
