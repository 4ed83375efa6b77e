package links

import (
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// Link is one path hint anchored at a k-mer. Forward is relative to the
// anchor's canonical strand; Path holds, on that strand, the base taken at
// each successive step away from the anchor.
type Link struct {
	Forward  bool   `json:"forward"`
	Path     string `json:"path"`
	Coverage int    `json:"coverage,omitempty"`
}

// Record holds every link anchored at one canonical k-mer.
type Record struct {
	Kmer  kmer.Canonical `json:"kmer"`
	Links []Link         `json:"links"`
}

// Source is read access to link evidence for one sample.
type Source interface {
	Contains(ck kmer.Canonical) bool
	Get(ck kmer.Canonical) (Record, bool)
	SourceName() string
	// SampleNameForColor0 names the sample the evidence was built from.
	SampleNameForColor0() string
}

// MemSource is an in-memory [Source].
type MemSource struct {
	name    string
	sample  string
	records map[kmer.Canonical]Record
}

// NewMemSource creates an empty source.
func NewMemSource(name, sample string) *MemSource {
	return &MemSource{name: name, sample: sample, records: make(map[kmer.Canonical]Record)}
}

// Add appends a link anchored at the canonical form of anchor. The link is
// given in the anchor's own orientation and converted to the canonical
// strand.
func (m *MemSource) Add(anchor string, forward bool, path string, coverage int) {
	ck, flipped := kmer.Canonicalize(anchor)
	if flipped {
		forward = !forward
		path = complementEach(path)
	}
	rec := m.records[ck]
	rec.Kmer = ck
	rec.Links = append(rec.Links, Link{Forward: forward, Path: path, Coverage: coverage})
	m.records[ck] = rec
}

// Put stores a record verbatim.
func (m *MemSource) Put(rec Record) { m.records[rec.Kmer] = rec }

// Contains implements [Source].
func (m *MemSource) Contains(ck kmer.Canonical) bool {
	_, ok := m.records[ck]
	return ok
}

// Get implements [Source].
func (m *MemSource) Get(ck kmer.Canonical) (Record, bool) {
	rec, ok := m.records[ck]
	if !ok {
		return Record{}, false
	}
	rec.Links = slices.Clone(rec.Links)
	return rec, true
}

// SourceName implements [Source].
func (m *MemSource) SourceName() string { return m.name }

// SampleNameForColor0 implements [Source].
func (m *MemSource) SampleNameForColor0() string { return m.sample }

// Len returns the number of anchored k-mers.
func (m *MemSource) Len() int { return len(m.records) }

func complementEach(s string) string {
	out := []byte(s)
	for i, b := range out {
		out[i] = kmer.Complement(b)
	}
	return string(out)
}

// ForSamples keeps the sources whose sample is one of names.
func ForSamples(srcs []Source, names []string) []Source {
	var out []Source
	for _, s := range srcs {
		if slices.Contains(names, s.SampleNameForColor0()) {
			out = append(out, s)
		}
	}
	return out
}
