package traversal

import (
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/links"
)

// WalkSession is a cursor over the graph that extends one vertex at a time.
// It owns its seen set and link store, so each concurrent walk needs its
// own session.
type WalkSession struct {
	e   *Engine
	cur graph.Vertex

	seen    map[kmer.Canonical]bool
	ls      *links.Store
	forward bool
	primed  bool
}

// NewSession creates a session with no position; call Seek first.
func (e *Engine) NewSession() *WalkSession {
	return &WalkSession{e: e, ls: links.NewStore(), seen: make(map[kmer.Canonical]bool)}
}

// Seek moves the cursor to bases and forgets all walk history.
func (s *WalkSession) Seek(bases string) error {
	v, err := s.e.Vertex(bases)
	if err != nil {
		return err
	}
	s.cur = v
	s.primed = false
	s.ls.Reset()
	clear(s.seen)
	s.seen[v.Kmer] = true
	return nil
}

// Current returns the vertex under the cursor.
func (s *WalkSession) Current() graph.Vertex { return s.cur }

// HasNext reports whether Next would advance.
func (s *WalkSession) HasNext() bool {
	_, ok := s.peek(true)
	return ok
}

// HasPrevious reports whether Previous would advance.
func (s *WalkSession) HasPrevious() bool {
	_, ok := s.peek(false)
	return ok
}

// Next advances the cursor one vertex forward.
func (s *WalkSession) Next() (graph.Vertex, bool) { return s.advance(true) }

// Previous advances the cursor one vertex backward.
func (s *WalkSession) Previous() (graph.Vertex, bool) { return s.advance(false) }

func (s *WalkSession) advance(forward bool) (graph.Vertex, bool) {
	v, ok := s.peek(forward)
	if !ok {
		return graph.Vertex{}, false
	}
	s.seen[v.Kmer] = true
	s.cur = v
	if s.ls.IsActive() {
		s.ls.IncrementAges()
	}
	s.addLinks(v, forward)
	return v, true
}

// prime loads the cursor's links for a direction. Turning around restarts
// the history, since hints only make sense in the direction they were read.
func (s *WalkSession) prime(forward bool) {
	if s.primed && s.forward == forward {
		return
	}
	if s.primed {
		s.ls.Reset()
		clear(s.seen)
		s.seen[s.cur.Kmer] = true
	}
	s.forward = forward
	s.primed = true
	s.addLinks(s.cur, forward)
}

func (s *WalkSession) addLinks(v graph.Vertex, forward bool) {
	for _, src := range s.e.links {
		if rec, ok := src.Get(v.Kmer); ok {
			s.ls.Add(v.Bases, rec, forward, src.SourceName())
		}
	}
}

// peek picks the next vertex without moving. A lone candidate is taken
// unless it was already seen and no link is steering; several candidates
// need an agreed link choice.
func (s *WalkSession) peek(forward bool) (graph.Vertex, bool) {
	if s.cur.Bases == "" {
		return graph.Vertex{}, false
	}
	s.prime(forward)

	var cands []graph.Vertex
	if forward {
		cands = s.e.NextVertices(s.cur)
	} else {
		cands = s.e.PrevVertices(s.cur)
	}

	switch {
	case len(cands) == 1:
		if s.seen[cands[0].Kmer] && !s.ls.IsActive() {
			return graph.Vertex{}, false
		}
		return cands[0], true
	case len(cands) > 1:
		b, sources, ok := s.ls.NextJunctionChoice()
		if !ok {
			return graph.Vertex{}, false
		}
		k := len(s.cur.Bases)
		want := s.cur.Bases[1:] + string(b)
		if !forward {
			want = string(b) + s.cur.Bases[:k-1]
		}
		for _, c := range cands {
			if c.Bases == want {
				return c.WithSources(sources), true
			}
		}
	}
	return graph.Vertex{}, false
}
