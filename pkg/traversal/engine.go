package traversal

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/observability"
)

// Engine runs traversals over one store with one configuration.
type Engine struct {
	cfg    Config
	k      int
	links  []links.Source
	sinks  []kmer.Canonical
	logger *log.Logger
	hooks  observability.TraversalHooks
}

// New validates cfg and builds an engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Rule.New(); err != nil {
		return nil, err
	}
	if cfg.MaxBranchLength == 0 {
		cfg.MaxBranchLength = DefaultMaxBranchLength
	}
	e := &Engine{
		cfg:    cfg,
		k:      cfg.Store.KmerSize(),
		links:  links.ForSamples(cfg.Links, cfg.traversalSamples()),
		logger: cfg.Logger,
		hooks:  cfg.Hooks,
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if e.hooks == nil {
		e.hooks = observability.Traversal()
	}
	for _, s := range cfg.Sinks {
		ck, _ := kmer.Canonicalize(s)
		e.sinks = append(e.sinks, ck)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// KmerSize returns k of the underlying store.
func (e *Engine) KmerSize() int { return e.k }

// SetPreviousTraversal replaces the subgraph rules test against.
func (e *Engine) SetPreviousTraversal(g *graph.Graph) { e.cfg.PreviousTraversal = g }

// Vertex resolves an oriented k-mer against the store.
func (e *Engine) Vertex(bases string) (graph.Vertex, error) {
	bases = strings.ToUpper(bases)
	if err := errors.ValidateKmer(bases, e.k); err != nil {
		return graph.Vertex{}, err
	}
	ck, _ := kmer.Canonicalize(bases)
	rec, ok := e.cfg.Store.FindRecord(ck)
	if !ok {
		return graph.Vertex{}, errors.New(errors.ErrCodeKmerNotFound, "k-mer %s not in graph", bases)
	}
	return graph.NewVertex(bases, rec), nil
}

// =============================================================================
// Neighbours
// =============================================================================

// PrevVertices returns the predecessors of v in the traversal colors, or in
// the recruitment colors when the traversal colors give none.
func (e *Engine) PrevVertices(v graph.Vertex) []graph.Vertex {
	if out := e.neighbours(v, e.cfg.TraversalColors, false); len(out) > 0 {
		return out
	}
	return e.neighbours(v, e.cfg.RecruitmentColors, false)
}

// NextVertices returns the successors of v; see [Engine.PrevVertices].
func (e *Engine) NextVertices(v graph.Vertex) []graph.Vertex {
	if out := e.neighbours(v, e.cfg.TraversalColors, true); len(out) > 0 {
		return out
	}
	return e.neighbours(v, e.cfg.RecruitmentColors, true)
}

func (e *Engine) neighbours(v graph.Vertex, colors []int, forward bool) []graph.Vertex {
	if len(colors) == 0 {
		return nil
	}
	rec := v.Record
	if rec == nil {
		r, ok := e.cfg.Store.FindRecord(v.Kmer)
		if !ok {
			return nil
		}
		rec = r
	}

	var bases []string
	for _, c := range colors {
		var kms []string
		if forward {
			kms = kmer.NextKmers(v.Bases, rec.Edge(c), v.Flipped())
		} else {
			kms = kmer.PrevKmers(v.Bases, rec.Edge(c), v.Flipped())
		}
		for _, km := range kms {
			if !slices.Contains(bases, km) {
				bases = append(bases, km)
			}
		}
	}
	slices.Sort(bases)

	out := make([]graph.Vertex, 0, len(bases))
	for _, b := range bases {
		ck, _ := kmer.Canonicalize(b)
		r, ok := e.cfg.Store.FindRecord(ck)
		if !ok {
			e.logger.Debug("edge to missing k-mer", "from", v.Bases, "to", b)
			continue
		}
		out = append(out, graph.NewVertex(b, r))
	}
	return out
}

// =============================================================================
// Depth-first search
// =============================================================================

// DFS extracts the subgraph reachable from seed under the configured rule.
// It returns an error only for a malformed seed or one absent from the
// store.
func (e *Engine) DFS(seed string) (graph.Result, error) {
	start := time.Now()
	sv, err := e.Vertex(seed)
	if err != nil {
		return graph.NotFound(), err
	}

	var rev, fwd graph.Result
	if e.cfg.Direction != Forward {
		rev = e.dfs(sv, false, 0, 0, map[graph.VertexID]bool{}, nil)
		tag(rev, -1)
	}
	if e.cfg.Direction != Reverse {
		fwd = e.dfs(sv, true, 0, 0, map[graph.VertexID]bool{}, nil)
		tag(fwd, 1)
	}

	var res graph.Result
	switch e.cfg.Direction {
	case Forward:
		res = fwd
	case Reverse:
		res = rev
	default:
		rg, rok := rev.Graph()
		fg, fok := fwd.Graph()
		if (e.cfg.Operator == And && rok && fok) || (e.cfg.Operator == Or && (rok || fok)) {
			g := graph.New()
			g.Merge(rg)
			g.Merge(fg)
			res = graph.Found(g)
		}
	}

	g, found := res.Graph()
	n := 0
	if found {
		g.AddVertex(sv)
		g.SetIndex(sv.ID(), 0)
		e.addSecondaryColors(g)
		n = g.Len()
	}
	e.hooks.OnTraversal(e.cfg.Rule.String(), e.cfg.Direction.String(), n, found, time.Since(start))
	return res, nil
}

// DFSAll unions the subgraphs found from each seed. Seeds absent from the
// store are an error.
func (e *Engine) DFSAll(seeds []string) (graph.Result, error) {
	var acc *graph.Graph
	for _, s := range seeds {
		res, err := e.DFS(s)
		if err != nil {
			return graph.NotFound(), err
		}
		if g, ok := res.Graph(); ok {
			if acc == nil {
				acc = graph.New()
			}
			acc.Merge(g)
		}
	}
	if acc == nil {
		return graph.NotFound(), nil
	}
	return graph.Found(acc), nil
}

func tag(r graph.Result, index int) {
	g, ok := r.Graph()
	if !ok {
		return
	}
	for _, v := range g.Vertices() {
		g.SetIndex(v.ID(), index)
	}
}

// dfs is one recursion frame. visited holds the vertices of the ancestor
// frames and is copied, never shared with siblings.
func (e *Engine) dfs(cv graph.Vertex, forward bool, graphSize, depth int, visited map[graph.VertexID]bool, parent StoppingRule) graph.Result {
	g := graph.New()
	visited = maps.Clone(visited)

	rule := e.newRule(parent)

	var sess *WalkSession
	if len(e.links) > 0 {
		sess = e.NewSession()
	}

	for {
		pvs := e.PrevVertices(cv)
		nvs := e.NextVertices(cv)
		avs, rvs := nvs, pvs
		if !forward {
			avs, rvs = pvs, nvs
		}

		if sess != nil {
			if sess.Current().Bases != cv.Bases {
				if err := sess.Seek(cv.Bases); err != nil {
					e.logger.Debug("link session lost", "kmer", cv.Bases, "err", err)
				}
			}
			if lv, ok := e.linkCandidate(sess, forward, visited); ok {
				avs = []graph.Vertex{lv}
			}
		}

		if e.cfg.ConnectAllNeighbors {
			for _, pv := range pvs {
				g.Connect(pv, cv, e.color())
			}
			for _, nv := range nvs {
				g.Connect(cv, nv, e.color())
			}
		}

		avs = slices.DeleteFunc(avs, func(v graph.Vertex) bool { return visited[v.ID()] })

		previouslyVisited := visited[cv.ID()]
		visited[cv.ID()] = true

		st := e.state(cv, forward, graphSize+g.Len(), depth, g.Len(), len(avs), len(rvs), false)

		// A revisited vertex ends the frame with the outcome recorded at
		// the previous step.
		if previouslyVisited || !rule.KeepGoing(st) {
			if rule.TraversalSucceeded() {
				return graph.Found(g)
			}
			return graph.NotFound()
		}

		if len(avs) == 1 {
			e.connect(g, cv, avs[0], forward)
			cv = avs[0]
			continue
		}

		childrenSucceeded := false
		for _, av := range avs {
			child := e.dfs(av, forward, graphSize+g.Len(), depth+1, visited, rule)
			if cg, ok := child.Graph(); ok {
				e.connect(g, cv, av, forward)
				g.Merge(cg)
				childrenSucceeded = true
			}
		}

		st = e.state(cv, forward, graphSize+g.Len(), depth, g.Len(), len(avs), len(rvs), true)
		if childrenSucceeded || rule.HasTraversalSucceeded(st) {
			return graph.Found(g)
		}
		return graph.NotFound()
	}
}

// newRule builds the rule for a frame. Rules carrying branch state inherit
// it from the parent frame.
func (e *Engine) newRule(parent StoppingRule) StoppingRule {
	if f, ok := parent.(forker); ok {
		return f.fork()
	}
	r, _ := e.cfg.Rule.New()
	return r
}

// linkCandidate advances the frame's session and returns the link-steered
// vertex with a copy index not yet used on this branch.
func (e *Engine) linkCandidate(sess *WalkSession, forward bool, visited map[graph.VertexID]bool) (graph.Vertex, bool) {
	var qv graph.Vertex
	var ok bool
	if forward && sess.HasNext() {
		qv, ok = sess.Next()
	} else if !forward && sess.HasPrevious() {
		qv, ok = sess.Previous()
	}
	if !ok {
		return graph.Vertex{}, false
	}
	step := 1
	if !forward {
		step = -1
	}
	lv := qv.WithCopy(0)
	for visited[lv.ID()] {
		lv = lv.WithCopy(lv.Copy + step)
	}
	return lv, true
}

func (e *Engine) state(cv graph.Vertex, forward bool, graphSize, depth, branch, adjacent, reverse int, children bool) State {
	return State{
		Current:           cv,
		Forward:           forward,
		TraversalColors:   e.cfg.TraversalColors,
		JoiningColors:     e.cfg.JoiningColors,
		GraphSize:         graphSize,
		JunctionDepth:     depth,
		BranchSize:        branch,
		NumAdjacent:       adjacent,
		NumReverse:        reverse,
		ChildrenTraversed: children,
		ReachedMaxBranch:  branch > e.cfg.MaxBranchLength,
		PreviousGraph:     e.cfg.PreviousTraversal,
		Novel:             e.cfg.Novel,
		Sinks:             e.sinks,
	}
}

func (e *Engine) color() int { return e.cfg.TraversalColors[0] }

func (e *Engine) connect(g *graph.Graph, cv, av graph.Vertex, forward bool) {
	if forward {
		g.Connect(cv, av, e.color())
	} else {
		g.Connect(av, cv, e.color())
	}
}

// addSecondaryColors overlays edges of colors that did not steer the
// traversal.
func (e *Engine) addSecondaryColors(g *graph.Graph) {
	overlay := graph.New()
	for _, c := range e.cfg.SecondaryColors {
		if slices.Contains(e.cfg.TraversalColors, c) {
			continue
		}
		for _, v := range g.Vertices() {
			for _, pv := range e.neighbours(v, []int{c}, false) {
				overlay.Connect(pv, v, c)
			}
			for _, nv := range e.neighbours(v, []int{c}, true) {
				overlay.Connect(v, nv, c)
			}
		}
	}
	g.Merge(overlay)
}
