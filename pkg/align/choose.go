package align

import (
	"context"
	"maps"
	"slices"
	"time"

	"go.uber.org/multierr"

	"github.com/matzehuels/cortexwalk/pkg/observability"
)

// DefaultMinMapQ is the mapping quality a hit needs to place a call.
const DefaultMinMapQ = 10

// Unique returns the only hit with MapQ >= minMapQ.
func Unique(hits []Hit, minMapQ int) (Hit, bool) {
	var best Hit
	n := 0
	for _, h := range hits {
		if h.MapQ >= minMapQ {
			best = h
			n++
		}
	}
	return best, n == 1
}

// ChooseBest aligns contig against every reference and returns the unique
// qualifying hit with the lowest score. A reference with zero or several
// qualifying hits contributes nothing; two references tying on the best
// score leave the contig unplaced. Aligner errors are returned alongside
// whatever the other references produced.
func ChooseBest(ctx context.Context, refs map[string]Aligner, contig string, minMapQ int) (Hit, bool, error) {
	var (
		best    Hit
		score   int
		found   bool
		tied    bool
		combErr error
	)
	for _, name := range slices.Sorted(maps.Keys(refs)) {
		start := time.Now()
		hits, err := refs[name].Align(ctx, contig)
		observability.Caller().OnAlign(ctx, name, len(hits), time.Since(start), err)
		if err != nil {
			combErr = multierr.Append(combErr, err)
			continue
		}
		h, ok := Unique(hits, minMapQ)
		if !ok {
			continue
		}
		s := Score(h)
		switch {
		case !found || s < score:
			best, score, found, tied = h, s, true, false
		case s == score:
			tied = true
		}
	}
	if !found || tied {
		return Hit{}, false, combErr
	}
	return best, true, combErr
}
