package caller

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/align"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/store"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

// Reference is a reference genome present both as a color of the graph and
// behind an aligner.
type Reference struct {
	// Name is the graph sample holding the reference.
	Name string
	// Source is the sample recruited when the reference color has a gap.
	// Empty means Name.
	Source  string
	Aligner align.Aligner
}

type bubble struct {
	start, stop int
	refPath     []graph.Vertex
	refContig   string
	altContig   string
}

type refEngine struct {
	name string
	e    *traversal.Engine
}

// BubbleCloser replaces sample detours from the reference with the
// reference path. It owns one traversal engine per reference and must not
// be shared between goroutines.
type BubbleCloser struct {
	engines  []refEngine
	aligners map[string]align.Aligner
	k        int
	minMapQ  int
	logger   *log.Logger
}

// NewBubbleCloser builds the reference engines. sample is the graph sample
// the walks come from.
func NewBubbleCloser(s store.Store, sample string, refs []Reference, srcs []links.Source, minMapQ int, logger *log.Logger) (*BubbleCloser, error) {
	sampleColor, ok := s.ColorForSample(sample)
	if !ok {
		return nil, errors.New(errors.ErrCodeSampleNotFound, "sample %q not in graph", sample)
	}
	b := &BubbleCloser{
		aligners: make(map[string]align.Aligner, len(refs)),
		k:        s.KmerSize(),
		minMapQ:  minMapQ,
		logger:   logger,
	}
	refs = slices.Clone(refs)
	slices.SortFunc(refs, func(x, y Reference) int { return strings.Compare(x.Name, y.Name) })
	for _, r := range refs {
		color, ok := s.ColorForSample(r.Name)
		if !ok {
			return nil, errors.New(errors.ErrCodeSampleNotFound, "reference %q not in graph", r.Name)
		}
		source := r.Source
		if source == "" {
			source = r.Name
		}
		srcColor, ok := s.ColorForSample(source)
		if !ok {
			return nil, errors.New(errors.ErrCodeSampleNotFound, "reference source %q not in graph", source)
		}
		e, err := traversal.New(traversal.Config{
			TraversalColors:   []int{color},
			RecruitmentColors: []int{srcColor},
			JoiningColors:     []int{sampleColor},
			Direction:         traversal.Forward,
			Operator:          traversal.Or,
			Rule:              traversal.RuleBubbleClosing,
			Links:             srcs,
			Store:             s,
			Logger:            logger,
		})
		if err != nil {
			return nil, err
		}
		b.engines = append(b.engines, refEngine{name: r.Name, e: e})
		if r.Aligner != nil {
			b.aligners[r.Name] = r.Aligner
		}
	}
	return b, nil
}

// CloseBubbles scans w for novel vertices, finds reference paths that
// bypass them and returns w with every closed bubble replaced by its
// reference path, plus a call for each bubble whose reference path aligns.
func (b *BubbleCloser) CloseBubbles(ctx context.Context, w []graph.Vertex, novel NoveltySet, contigIndex int) ([]graph.Vertex, []Call, error) {
	bubbles, err := b.findBubbles(w, novel)
	if err != nil {
		return nil, nil, err
	}

	var out []graph.Vertex
	var calls []Call
	for i := 0; i < len(w); i++ {
		bb, ok := bubbles[i]
		if !ok || bb.stop < i {
			out = append(out, w[i])
			continue
		}
		out = append(out, bb.refPath...)

		call, ok, err := b.call(ctx, bb, len(w), contigIndex, i)
		if err != nil {
			b.logger.Warn("bubble alignment failed", "contig", contigIndex, "start", bb.start, "err", err)
		}
		if ok {
			calls = append(calls, call)
		}
		i = bb.stop
	}
	return out, calls, nil
}

// findBubbles maps root index to bubble. Later references overwrite
// earlier ones rooted at the same index.
func (b *BubbleCloser) findBubbles(w []graph.Vertex, novel NoveltySet) (map[int]bubble, error) {
	indices := make(map[graph.VertexID]int, len(w))
	for i, v := range w {
		indices[v.ID()] = i
	}
	window := 3 * b.k
	bubbles := make(map[int]bubble)

	for _, re := range b.engines {
		for i := 0; i < len(w)-1; i++ {
			if !novel.IsNovel(w[i].Kmer) {
				continue
			}

			// Divergence points: non-novel vertices upstream where the
			// reference leaves the walk.
			var roots, sources []graph.Vertex
			for j := i - 1; j >= max(0, i-window); j-- {
				if novel.IsNovel(w[j].Kmer) {
					continue
				}
				for _, cv := range re.e.NextVertices(w[j]) {
					if cv.ID() != w[j+1].ID() {
						roots = append(roots, w[j])
						sources = append(sources, cv)
					}
				}
			}

			// Reconvergence window: downstream vertices up to a window past
			// the last novel one.
			sinks := graph.New()
			sinceNovel := 0
			for j := i + 1; j < len(w) && sinceNovel < window; j++ {
				sinks.AddVertex(w[j])
				if novel.IsNovel(w[j].Kmer) {
					sinceNovel = 0
				} else {
					sinceNovel++
				}
			}
			re.e.SetPreviousTraversal(sinks)

			for q, source := range sources {
				res, err := re.e.DFS(source.Bases)
				if err != nil {
					return nil, err
				}
				g, ok := res.Graph()
				if !ok {
					continue
				}
				bb, ok := b.bubbleFrom(g, w, indices, roots[q], source)
				if !ok {
					continue
				}
				bubbles[bb.start] = bb
				i = bb.stop - 1
			}
		}
	}
	return bubbles, nil
}

// bubbleFrom takes the reference path from source to the furthest walk
// vertex the subgraph reached.
func (b *BubbleCloser) bubbleFrom(g *graph.Graph, w []graph.Vertex, indices map[graph.VertexID]int, root, source graph.Vertex) (bubble, bool) {
	sinkIndex := -1
	var sink graph.Vertex
	for _, v := range g.Vertices() {
		if idx, ok := indices[v.ID()]; ok && idx > sinkIndex {
			sink, sinkIndex = v, idx
		}
	}
	rootIndex := indices[root.ID()]
	if sinkIndex <= rootIndex {
		return bubble{}, false
	}
	path, ok := graph.ShortestPath(g, source.ID(), sink.ID())
	if !ok {
		return bubble{}, false
	}
	refPath := append([]graph.Vertex{root}, path...)
	return bubble{
		start:     rootIndex,
		stop:      sinkIndex,
		refPath:   refPath,
		refContig: traversal.ToContig(refPath),
		altContig: traversal.ToContig(w[rootIndex : sinkIndex+1]),
	}, true
}

// call places a bubble on the reference. Alleles are reported on the
// forward reference strand.
func (b *BubbleCloser) call(ctx context.Context, bb bubble, walkLen, contigIndex, i int) (Call, bool, error) {
	hit, ok, err := align.ChooseBest(ctx, b.aligners, bb.refContig, b.minMapQ)
	if !ok {
		return Call{}, false, err
	}
	a := ContigsToAlleles(bb.refContig, bb.altContig)
	ref, alt := a.Ref, a.Alt
	start := hit.Start + len(a.Prefix)
	if hit.Reverse {
		ref, alt = kmer.ReverseComplement(ref), kmer.ReverseComplement(alt)
		start = hit.Start + len(a.Suffix)
	}
	return Call{
		ContigIndex:   contigIndex,
		WalkLength:    walkLen,
		SegmentLength: walkLen,
		Start:         i,
		Stop:          i + len(alt),
		Chrom:         hit.RefName,
		RefStart:      start,
		RefStop:       start + len(alt),
		Strand:        "+",
		Type:          Classify(ref, alt),
		Alt:           alt,
		Ref:           ref,
	}, true, err
}
