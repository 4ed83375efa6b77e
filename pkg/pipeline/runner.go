package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/cache"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	cwio "github.com/matzehuels/cortexwalk/pkg/io"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/store"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

// Runner encapsulates pipeline execution against one store with caching.
// Both the CLI and the server use it.
//
// The Runner holds no per-run state: multiple goroutines can safely use
// the same Runner with different options, provided the store allows
// concurrent reads.
type Runner struct {
	Store     store.Store
	StoreName string // identifies the store in cache keys
	Links     []links.Source
	Cache     cache.Cache
	Keyer     cache.Keyer
	TTL       time.Duration
	Logger    *log.Logger
}

// NewRunner creates a runner over s. If keyer is nil, a DefaultKeyer is
// used. If c is nil, a NullCache is used (caching disabled).
func NewRunner(s store.Store, storeName string, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:     s,
		StoreName: storeName,
		Cache:     c,
		Keyer:     keyer,
		TTL:       DefaultGraphTTL,
		Logger:    logger,
	}
}

// Execute runs the complete traverse → walk → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	eng, err := r.Engine(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Traverse
	start := time.Now()
	g, found, hit, err := r.TraverseWithCacheInfo(ctx, eng, opts)
	if err != nil {
		return nil, fmt.Errorf("traverse: %w", err)
	}
	result.Graph = g
	result.Found = found
	result.Stats.TraverseTime = time.Since(start)
	result.Stats.Vertices = g.Len()
	result.Stats.Edges = g.EdgeCount()
	result.CacheInfo.GraphHit = hit

	r.Logger.Info("traversed graph",
		"seeds", len(opts.Seeds),
		"vertices", g.Len(),
		"edges", g.EdgeCount(),
		"cached", hit,
		"duration", result.Stats.TraverseTime)

	// Stage 2: Walk
	start = time.Now()
	contigs, err := Contigs(eng, g, opts.Seeds)
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	result.Contigs = contigs
	result.Stats.WalkTime = time.Since(start)

	// Stage 3: Render
	start = time.Now()
	artifacts, err := Render(ctx, g, contigs, opts, r.colorNames())
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Engine resolves the options' sample names against the store and builds
// a traversal engine.
func (r *Runner) Engine(opts Options) (*traversal.Engine, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "runner has no store")
	}
	cfg, err := opts.Traversal.Resolve(r.Store)
	if err != nil {
		return nil, err
	}
	cfg.Links = r.Links
	cfg.Logger = opts.Logger
	if opts.Previous != "" {
		if _, err := os.Stat(opts.Previous); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "previous traversal")
		}
		prev, err := cwio.ImportGraphJSON(opts.Previous)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "previous traversal")
		}
		cfg.PreviousTraversal = prev
	}
	return traversal.New(cfg)
}

// TraverseWithCacheInfo unions the subgraphs of every seed, reading and
// filling the cache unless opts.Refresh is set. It reports whether any
// traversal succeeded and whether the graph came from the cache.
func (r *Runner) TraverseWithCacheInfo(ctx context.Context, eng *traversal.Engine, opts Options) (*graph.Graph, bool, bool, error) {
	keyOpts, err := graphKeyOpts(r.StoreName, eng.Config(), r.Links)
	if err != nil {
		return nil, false, false, err
	}
	cacheKey := r.Keyer.GraphKey(seedKey(opts.Seeds), keyOpts)

	if !opts.Refresh {
		var cached cachedGraph
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil {
			if g, err := graph.FromDocument(cached.Graph); err == nil {
				return g, cached.Found, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey)
		}
	}

	res, err := eng.DFSAll(opts.Seeds)
	if err != nil {
		return nil, false, false, err
	}
	g, found := res.Graph()
	if !found {
		g = graph.New()
	}

	entry := cachedGraph{Found: found, Graph: graph.ToDocument(g)}
	if err := cache.SetJSON(ctx, r.Cache, cacheKey, entry, r.TTL); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
	}
	return g, found, false, nil
}

// Traverse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Traverse(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	eng, err := r.Engine(opts)
	if err != nil {
		return nil, false, err
	}
	g, found, _, err := r.TraverseWithCacheInfo(ctx, eng, opts)
	return g, found, err
}

// Contigs walks g through each seed. A seed outside g is its own contig.
func Contigs(eng *traversal.Engine, g *graph.Graph, seeds []string) ([]Contig, error) {
	maxLen := eng.Config().MaxWalkLength
	out := make([]Contig, 0, len(seeds))
	for _, seed := range seeds {
		sv, err := eng.Vertex(seed)
		if err != nil {
			return nil, err
		}
		w := traversal.ToWalk(g, sv)
		if len(w) == 0 {
			w = []graph.Vertex{sv}
		}
		if maxLen > 0 && len(w) > maxLen {
			w = w[:maxLen]
		}
		out = append(out, Contig{Seed: seed, Sequence: traversal.ToContig(w), Length: len(w)})
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) colorNames() []string {
	if r.Store == nil {
		return nil
	}
	names := make([]string, r.Store.NumColors())
	for c := range names {
		names[c] = r.Store.SampleName(c)
	}
	return names
}

// cachedGraph is the cache entry of a traversal. Found is stored
// separately because a failed traversal caches an empty graph.
type cachedGraph struct {
	Found bool           `json:"found"`
	Graph graph.Document `json:"graph"`
}

func seedKey(seeds []string) string { return strings.Join(seeds, ",") }
