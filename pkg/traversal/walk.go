package traversal

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// Walk linearizes the DFS subgraph around seed. A seed whose traversal
// finds nothing walks to itself.
func (e *Engine) Walk(seed string) ([]graph.Vertex, error) {
	sv, err := e.Vertex(seed)
	if err != nil {
		return nil, err
	}
	res, err := e.DFS(seed)
	if err != nil {
		return nil, err
	}
	g, ok := res.Graph()
	if !ok {
		return []graph.Vertex{sv}, nil
	}
	w := ToWalk(g, sv)
	if len(w) == 0 {
		w = []graph.Vertex{sv}
	}
	return e.capWalk(w), nil
}

// WalkDirection extends seed one way with a [WalkSession] until the walk
// ends or reaches the branch limit. The seed itself is not included; a
// backward walk is returned in forward order.
func (e *Engine) WalkDirection(seed string, forward bool) ([]graph.Vertex, error) {
	start := time.Now()
	sess := e.NewSession()
	if err := sess.Seek(strings.ToUpper(seed)); err != nil {
		return nil, err
	}
	limit := e.cfg.MaxBranchLength
	if e.cfg.MaxWalkLength > 0 && e.cfg.MaxWalkLength < limit {
		limit = e.cfg.MaxWalkLength
	}

	var out []graph.Vertex
	for len(out) < limit {
		var v graph.Vertex
		var ok bool
		if forward {
			v, ok = sess.Next()
		} else {
			v, ok = sess.Previous()
		}
		if !ok {
			break
		}
		out = append(out, v)
	}
	if !forward {
		slices.Reverse(out)
	}
	e.hooks.OnWalk(len(out), time.Since(start))
	return out, nil
}

// Assemble joins the backward walk, the seed and the forward walk.
func (e *Engine) Assemble(seed string) ([]graph.Vertex, error) {
	sv, err := e.Vertex(seed)
	if err != nil {
		return nil, err
	}
	rev, err := e.WalkDirection(seed, false)
	if err != nil {
		return nil, err
	}
	fwd, err := e.WalkDirection(seed, true)
	if err != nil {
		return nil, err
	}
	out := make([]graph.Vertex, 0, len(rev)+1+len(fwd))
	out = append(out, rev...)
	out = append(out, sv)
	out = append(out, fwd...)
	return e.capWalk(out), nil
}

func (e *Engine) capWalk(w []graph.Vertex) []graph.Vertex {
	if e.cfg.MaxWalkLength > 0 && len(w) > e.cfg.MaxWalkLength {
		return w[:e.cfg.MaxWalkLength]
	}
	return w
}

// ToWalk follows unambiguous edges of g backward and forward from seed and
// returns the resulting path, every vertex oriented to read along it. A
// seed absent from g yields nil.
func ToWalk(g *graph.Graph, seed graph.Vertex) []graph.Vertex {
	if _, ok := g.Vertex(seed.ID()); !ok {
		return nil
	}
	seen := map[graph.VertexID]bool{seed.ID(): true}

	var back []graph.Vertex
	cur := seed
	for {
		ps := g.Predecessors(cur.ID())
		if len(ps) != 1 || seen[ps[0].ID()] {
			break
		}
		cur = orientBefore(ps[0], cur)
		seen[cur.ID()] = true
		back = append(back, cur)
	}
	slices.Reverse(back)

	walk := append(back, seed)
	cur = seed
	for {
		ns := g.Successors(cur.ID())
		if len(ns) != 1 || seen[ns[0].ID()] {
			break
		}
		cur = orientAfter(cur, ns[0])
		seen[cur.ID()] = true
		walk = append(walk, cur)
	}
	return walk
}

// orientAfter returns v read so that it overlaps prev by k-1 bases.
func orientAfter(prev, v graph.Vertex) graph.Vertex {
	if v.Bases[:len(v.Bases)-1] == prev.Bases[1:] {
		return v
	}
	return reoriented(v)
}

func orientBefore(v, next graph.Vertex) graph.Vertex {
	if v.Bases[1:] == next.Bases[:len(next.Bases)-1] {
		return v
	}
	return reoriented(v)
}

func reoriented(v graph.Vertex) graph.Vertex {
	v.Bases = kmer.ReverseComplement(v.Bases)
	return v
}

// ToContig spells the sequence of a walk: the first k-mer followed by the
// last base of each later one.
func ToContig(walk []graph.Vertex) string {
	if len(walk) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(walk[0].Bases)
	for _, v := range walk[1:] {
		sb.WriteByte(v.Bases[len(v.Bases)-1])
	}
	return sb.String()
}
