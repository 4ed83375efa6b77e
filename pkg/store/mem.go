package store

import (
	"slices"
	"sync"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// MemStore is an in-memory [Store]. It is safe for concurrent reads once
// populated; Put takes a write lock.
type MemStore struct {
	h       header
	mu      sync.RWMutex
	records map[kmer.Canonical]*Record
}

// NewMemStore creates an empty store for k-mers of length k with one color
// per sample.
func NewMemStore(k int, samples []string) *MemStore {
	return &MemStore{
		h:       header{K: k, Samples: slices.Clone(samples)},
		records: make(map[kmer.Canonical]*Record),
	}
}

// Put stores rec, replacing any previous record for the same k-mer.
func (m *MemStore) Put(rec *Record) error {
	if err := m.h.check(rec); err != nil {
		return err
	}
	m.mu.Lock()
	m.records[rec.Kmer] = rec
	m.mu.Unlock()
	return nil
}

// KmerSize implements [Store].
func (m *MemStore) KmerSize() int { return m.h.K }

// NumColors implements [Store].
func (m *MemStore) NumColors() int { return len(m.h.Samples) }

// FindRecord implements [Store].
func (m *MemStore) FindRecord(ck kmer.Canonical) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[ck]
	return rec, ok
}

// SampleName implements [Store].
func (m *MemStore) SampleName(color int) string { return m.h.sampleName(color) }

// ColorForSample implements [Store].
func (m *MemStore) ColorForSample(name string) (int, bool) { return m.h.colorForSample(name) }

// ColorsForSamples implements [Store].
func (m *MemStore) ColorsForSamples(names []string) []int { return m.h.colorsForSamples(names) }

// Len returns the number of records.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Kmers returns every stored canonical k-mer in sorted order.
func (m *MemStore) Kmers() []kmer.Canonical {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]kmer.Canonical, 0, len(m.records))
	for ck := range m.records {
		out = append(out, ck)
	}
	slices.Sort(out)
	return out
}

// Each calls fn for every record in k-mer order until fn returns false.
func (m *MemStore) Each(fn func(*Record) bool) error {
	for _, ck := range m.Kmers() {
		m.mu.RLock()
		rec := m.records[ck]
		m.mu.RUnlock()
		if !fn(rec) {
			return nil
		}
	}
	return nil
}
