package caller

import (
	"context"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cortexwalk/pkg/align"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/graph"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/observability"
	"github.com/matzehuels/cortexwalk/pkg/store"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

const (
	// DefaultMaxNovels is the number of novel k-mers a contig may keep after
	// bubble closing before it is broken into pieces.
	DefaultMaxNovels = 10
	DefaultWorkers   = 4
)

// ContigWriter receives reduced contigs.
type ContigWriter interface {
	WriteContig(index int, seq string) error
}

// CallWriter receives calls in contig order.
type CallWriter interface {
	Write(ctx context.Context, c Call) error
}

// Config configures a [Runner].
type Config struct {
	Store store.Store
	// Sample is the graph sample the novel k-mers belong to.
	Sample     string
	Novel      []kmer.Canonical
	References []Reference
	Links      []links.Source

	MaxWalkLength int
	MinMapQ       int
	MaxNovels     int
	Workers       int

	Logger *log.Logger
	Hooks  observability.CallerHooks
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Store == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "caller requires a store")
	}
	if c.Sample == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "caller requires a sample")
	}
	if _, ok := c.Store.ColorForSample(c.Sample); !ok {
		return errors.New(errors.ErrCodeSampleNotFound, "sample %q not in graph", c.Sample)
	}
	if c.MaxWalkLength < 0 || c.MinMapQ < 0 || c.MaxNovels < 0 || c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "caller limits must be non-negative")
	}
	return nil
}

// Summary counts what a run produced.
type Summary struct {
	Novels      int
	Walks       int
	Contigs     int
	Calls       int
	Breakpoints int
	Failed      int
	Duration    time.Duration
}

// Runner finds novel contigs of one sample and calls variants against the
// references.
type Runner struct {
	cfg    Config
	logger *log.Logger
	hooks  observability.CallerHooks
}

// NewRunner validates cfg and fills defaults.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MinMapQ == 0 {
		cfg.MinMapQ = align.DefaultMinMapQ
	}
	if cfg.MaxNovels == 0 {
		cfg.MaxNovels = DefaultMaxNovels
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	r := &Runner{cfg: cfg, logger: cfg.Logger, hooks: cfg.Hooks}
	if r.logger == nil {
		r.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if r.hooks == nil {
		r.hooks = observability.Caller()
	}
	return r, nil
}

type contigResult struct {
	calls []Call
	err   error
}

// Run executes the pipeline. contigs may be nil. Per-contig failures are
// logged and returned combined; they never stop the run.
func (r *Runner) Run(ctx context.Context, contigs ContigWriter, calls CallWriter) (Summary, error) {
	start := time.Now()
	sum := Summary{Novels: len(r.cfg.Novel)}

	walks, err := r.longWalks()
	if err != nil {
		return sum, err
	}
	sum.Walks = len(walks)

	reduced := ReduceContigs(walks)
	sum.Contigs = len(reduced)
	r.logger.Info("contigs reduced", "walks", len(walks), "contigs", len(reduced))

	var errs error
	if contigs != nil {
		for _, c := range reduced {
			errs = multierr.Append(errs, contigs.WriteContig(c.Index, c.Seq))
		}
	}

	results := make([]contigResult, len(reduced))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, c := range reduced {
		g.Go(func() error {
			results[i] = r.processContig(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res.err != nil {
			sum.Failed++
			errs = multierr.Append(errs, res.err)
			r.logger.Error("contig failed", "contig", reduced[i].Index, "err", res.err)
		}
		for _, c := range res.calls {
			if err := calls.Write(ctx, c); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			sum.Calls++
			if c.Type == BRK {
				sum.Breakpoints++
			}
			r.hooks.OnCall(ctx, string(c.Type))
		}
	}
	if err := ctx.Err(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(errors.ErrCodeTimeout, err, "call run interrupted"))
	}
	sum.Duration = time.Since(start)
	return sum, errs
}

// longWalks extends every unused novel k-mer into a walk. Each novel k-mer
// ends up owned by the longest walk that contains it.
func (r *Runner) longWalks() ([][]graph.Vertex, error) {
	color, _ := r.cfg.Store.ColorForSample(r.cfg.Sample)
	novel := NewNoveltySet(r.cfg.Novel)
	e, err := traversal.New(traversal.Config{
		TraversalColors: []int{color},
		Rule:            traversal.RuleNovelContinuation,
		Novel:           novel,
		Links:           r.cfg.Links,
		MaxWalkLength:   r.cfg.MaxWalkLength,
		Store:           r.cfg.Store,
		Logger:          r.logger,
	})
	if err != nil {
		return nil, err
	}

	var all [][]graph.Vertex
	best := make(map[kmer.Canonical]int)
	for _, ck := range novel.Sorted() {
		if !novel.IsUnused(ck) {
			continue
		}
		w, err := LongWalk(e, novel, ck)
		if err != nil {
			r.logger.Warn("long walk failed", "kmer", ck, "err", err)
			continue
		}
		all = append(all, w)
		for _, v := range w {
			if !novel.IsNovel(v.Kmer) {
				continue
			}
			if cur, ok := best[v.Kmer]; !ok || len(w) > len(all[cur]) {
				best[v.Kmer] = len(all) - 1
			}
		}
		novel.MarkUsed(w)
	}

	owners := slices.Sorted(maps.Values(best))
	owners = slices.Compact(owners)
	walks := make([][]graph.Vertex, len(owners))
	for i, idx := range owners {
		walks[i] = all[idx]
	}
	return walks, nil
}

func (r *Runner) processContig(ctx context.Context, c Contig) (res contigResult) {
	start := time.Now()
	r.hooks.OnContigStart(ctx, c.Index, len(c.Walk))
	defer func() {
		r.hooks.OnContigComplete(ctx, c.Index, len(res.calls), time.Since(start), res.err)
	}()
	if err := ctx.Err(); err != nil {
		res.err = err
		return
	}
	// Without references the contig is reported as assembled.
	if len(r.cfg.References) == 0 {
		return
	}

	// Engines carry per-traversal state, so every contig gets its own.
	bc, err := NewBubbleCloser(r.cfg.Store, r.cfg.Sample, r.cfg.References, r.cfg.Links, r.cfg.MinMapQ, r.logger)
	if err != nil {
		res.err = err
		return
	}
	novel := NewNoveltySet(r.cfg.Novel)
	w, calls, err := bc.CloseBubbles(ctx, c.Walk, novel, c.Index)
	if err != nil {
		res.err = errors.Wrap(errors.ErrCodeInternal, err, "closing bubbles in contig %d", c.Index)
		return
	}
	res.calls = calls

	remaining := novel.Count(w)
	r.logger.Debug("bubbles closed", "contig", c.Index, "calls", len(calls), "novels", remaining)
	if remaining > r.cfg.MaxNovels {
		res.calls = append(res.calls, r.breakpoints(ctx, bc, w, novel, c.Index, len(c.Walk))...)
	}
	return
}

// breakpoints aligns the non-novel pieces of w and reports them when they
// land on more than one chromosome. walkLen is the length of the contig's
// walk before its bubbles were closed.
func (r *Runner) breakpoints(ctx context.Context, bc *BubbleCloser, w []graph.Vertex, novel NoveltySet, contigIndex, walkLen int) []Call {
	pieces, spans := BreakContigs(w, novel)
	hits := make([]align.Hit, len(pieces))
	aligned := make([]bool, len(pieces))
	chroms := make(map[string]bool)
	n, longest := 0, 0
	for i, p := range pieces {
		seq := traversal.ToContig(p)
		hit, ok, err := align.ChooseBest(ctx, bc.aligners, seq, r.cfg.MinMapQ)
		if err != nil {
			r.logger.Warn("piece alignment failed", "contig", contigIndex, "piece", i, "err", err)
		}
		if !ok {
			continue
		}
		hits[i], aligned[i] = hit, true
		chroms[hit.RefName] = true
		n++
		longest = max(longest, len(seq))
	}
	if len(chroms) <= 1 || n <= 1 || longest < r.cfg.Store.KmerSize()+1 {
		return nil
	}

	calls := make([]Call, 0, len(pieces))
	for i, p := range pieces {
		c := Call{
			ContigIndex:   contigIndex,
			WalkLength:    walkLen,
			SegmentLength: len(p),
			Start:         spans[i].Start,
			Stop:          spans[i].End,
			Type:          BRK,
		}
		if aligned[i] {
			h := hits[i]
			c.Chrom = h.RefName
			c.RefStart = h.Start
			c.RefStop = h.End
			c.Strand = h.Strand()
			c.Alt = h.CigarString()
			c.Ref = h.Seq
		}
		calls = append(calls, c)
	}
	return calls
}
