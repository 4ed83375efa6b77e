package align

import (
	"context"
	"time"

	"github.com/matzehuels/cortexwalk/pkg/cache"
)

// CachedAligner memoizes the hits of an inner aligner.
type CachedAligner struct {
	Inner     Aligner
	Cache     cache.Cache
	Keyer     cache.Keyer
	Reference string
	TTL       time.Duration
}

// NewCachedAligner wraps inner, keyed by reference name.
func NewCachedAligner(inner Aligner, c cache.Cache, reference string, ttl time.Duration) *CachedAligner {
	return &CachedAligner{Inner: inner, Cache: c, Keyer: cache.NewDefaultKeyer(), Reference: reference, TTL: ttl}
}

// Align returns cached hits when present. Cache failures fall through to
// the inner aligner.
func (a *CachedAligner) Align(ctx context.Context, contig string) ([]Hit, error) {
	keyer := a.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.AlignmentKey(a.Reference, contig)

	var cached []Hit
	if err := cache.GetJSON(ctx, a.Cache, key, &cached); err == nil {
		return cached, nil
	}

	hits, err := a.Inner.Align(ctx, contig)
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, a.Cache, key, hits, a.TTL)
	return hits, nil
}
