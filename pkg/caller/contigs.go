package caller

import (
	"maps"
	"slices"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

// Contig is a deduplicated walk and the strand-normalized sequence it
// spells.
type Contig struct {
	Index int
	Seq   string
	Walk  []graph.Vertex
}

// ReduceContigs keys walks by the lexically lowest orientation of their
// sequence and keeps the longest walk per key. Contigs are returned in
// sequence order and indexed from zero.
func ReduceContigs(walks [][]graph.Vertex) []Contig {
	byseq := make(map[string][]graph.Vertex)
	for _, w := range walks {
		if len(w) == 0 {
			continue
		}
		seq := kmer.AlphanumericallyLowestOrientation(traversal.ToContig(w))
		if cur, ok := byseq[seq]; !ok || len(cur) < len(w) {
			byseq[seq] = w
		}
	}
	out := make([]Contig, 0, len(byseq))
	for i, seq := range slices.Sorted(maps.Keys(byseq)) {
		out = append(out, Contig{Index: i, Seq: seq, Walk: byseq[seq]})
	}
	return out
}
