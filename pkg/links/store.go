package links

import (
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

type hint struct {
	path    string // bases in the walk's orientation
	age     int
	sources []string
}

func (h *hint) maxAge() int { return len(h.path) }

// Store holds the hints steering one walk. It is owned by a single walk
// session and must not be shared.
type Store struct {
	hints    []*hint
	newPaths int
}

// NewStore creates an empty store.
func NewStore() *Store { return &Store{} }

// Add registers every link of rec whose direction matches travel from the
// oriented anchor. Links are re-expressed in the anchor's orientation.
func (s *Store) Add(anchor string, rec Record, forward bool, source string) {
	_, flipped := kmer.Canonicalize(anchor)
	canonicalForward := forward != flipped
	for _, l := range rec.Links {
		if l.Forward != canonicalForward || l.Path == "" {
			continue
		}
		path := l.Path
		if flipped {
			path = complementEach(path)
		}
		s.hints = append(s.hints, &hint{path: path, sources: []string{source}})
		s.newPaths++
	}
}

// NextJunctionChoice returns the base all active hints prefer for the next
// step. It reports false when no hint is active or when hints disagree.
func (s *Store) NextJunctionChoice() (byte, []string, bool) {
	var choice byte
	var sources []string
	for _, h := range s.hints {
		b := h.path[h.age]
		if choice != 0 && b != choice {
			return 0, nil, false
		}
		choice = b
		for _, src := range h.sources {
			if !slices.Contains(sources, src) {
				sources = append(sources, src)
			}
		}
	}
	if choice == 0 {
		return 0, nil, false
	}
	slices.Sort(sources)
	return choice, sources, true
}

// IncrementAges advances every hint by one step and drops the exhausted
// ones. It also resets the new-path counter.
func (s *Store) IncrementAges() {
	kept := s.hints[:0]
	for _, h := range s.hints {
		h.age++
		if h.age < h.maxAge() {
			kept = append(kept, h)
		}
	}
	clear(s.hints[len(kept):])
	s.hints = kept
	s.newPaths = 0
}

// IsActive reports whether any hint is still live.
func (s *Store) IsActive() bool { return len(s.hints) > 0 }

// NumNewPaths returns how many hints were added since the last
// IncrementAges.
func (s *Store) NumNewPaths() int { return s.newPaths }

// Len returns the number of live hints.
func (s *Store) Len() int { return len(s.hints) }

// Reset drops every hint.
func (s *Store) Reset() {
	s.hints = nil
	s.newPaths = 0
}
