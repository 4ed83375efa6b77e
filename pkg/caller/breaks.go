package caller

import "github.com/matzehuels/cortexwalk/pkg/graph"

// Span is a half-open range of walk indices.
type Span struct {
	Start, End int
}

// Len returns End-Start.
func (s Span) Len() int { return s.End - s.Start }

// splitAtNovelty cuts w before every vertex whose k-mer starts or ends a
// run of novel k-mers. The pieces tile w in order; the first may be empty.
func splitAtNovelty(w []graph.Vertex, novel NoveltySet) [][]graph.Vertex {
	cuts := make(map[graph.VertexID]bool)
	inRun := false
	for _, v := range w {
		isNovel := novel.IsNovel(v.Kmer)
		if isNovel != inRun {
			cuts[graph.VertexID{Kmer: v.Kmer}] = true
		}
		inRun = isNovel
	}

	var pieces [][]graph.Vertex
	var cur []graph.Vertex
	for _, v := range w {
		if cuts[graph.VertexID{Kmer: v.Kmer}] {
			pieces = append(pieces, cur)
			cur = nil
		}
		cur = append(cur, v)
	}
	if len(cur) > 0 {
		pieces = append(pieces, cur)
	}
	return pieces
}

// BreakContigs splits w at novelty-run boundaries and keeps the pieces
// whose first vertex is not novel, with their spans in w. The novel runs
// themselves are dropped.
func BreakContigs(w []graph.Vertex, novel NoveltySet) ([][]graph.Vertex, []Span) {
	var kept [][]graph.Vertex
	var spans []Span
	start := 0
	for _, p := range splitAtNovelty(w, novel) {
		if len(p) > 0 && !novel.IsNovel(p[0].Kmer) {
			kept = append(kept, p)
			spans = append(spans, Span{Start: start, End: start + len(p)})
		}
		start += len(p)
	}
	return kept, spans
}
