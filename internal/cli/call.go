package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/config"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	cwio "github.com/matzehuels/cortexwalk/pkg/io"
	"github.com/matzehuels/cortexwalk/pkg/io/mongosink"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/observability"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// callOpts holds the command-line flags for the call command.
type callOpts struct {
	sample    string
	novel     string
	output    string
	contigs   string
	workers   int
	maxNovels int
	minMapQ   int
	maxWalk   int
	noCache   bool
	mongoURI  string
	metrics   string
}

// callCommand creates the call command that assembles novel contigs of a
// sample and reconciles them against the configured references.
func (c *CLI) callCommand() *cobra.Command {
	var opts callOpts

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Call variants from the novel k-mers of a sample",
		Long: `Call variants from the novel k-mers of a sample.

Novel k-mers are read from --novel, one per line, or computed as the k-mers
of the sample that no reference color contains. They are extended into
contigs, bubbles are closed through each reference, and the result is
aligned with the reference's aligner and reconciled into SNV, MNP, INS, DEL
and BRK calls.

References and their aligner commands come from the [references] section of
the configuration file.`,
		Example: `  cortexwalk call -c cortexwalk.toml --sample NA12878 -o calls.tsv --contigs contigs.fa`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCall(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sample, "sample", "", "sample to call (default: [caller] sample)")
	f.StringVar(&opts.novel, "novel", "", "file of novel k-mers, one per line")
	f.StringVarP(&opts.output, "output", "o", "", "calls TSV (default: stdout)")
	f.StringVar(&opts.contigs, "contigs", "", "write reduced contigs as FASTA")
	f.IntVar(&opts.workers, "workers", 0, "contigs processed in parallel (default: [caller] workers)")
	f.IntVar(&opts.maxNovels, "max-novels", 0, "novel k-mers kept per contig before it is broken")
	f.IntVar(&opts.minMapQ, "min-mapq", 0, "minimum mapping quality of a placed contig")
	f.IntVar(&opts.maxWalk, "max-walk", 0, "maximum walk length in k-mers (0 = unbounded)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the alignment cache")
	f.StringVar(&opts.mongoURI, "mongo-uri", "", "also store calls in MongoDB (default: [output] mongo_uri)")
	f.StringVar(&opts.metrics, "metrics", "", "write Prometheus metrics to this file when done")

	return cmd
}

// apply overlays the flags set on the command line onto cfg.
func (o callOpts) apply(cfg config.Config) config.Config {
	if o.sample != "" {
		cfg.Caller.Sample = o.sample
	}
	if o.workers > 0 {
		cfg.Caller.Workers = o.workers
	}
	if o.maxNovels > 0 {
		cfg.Caller.MaxNovels = o.maxNovels
	}
	if o.minMapQ > 0 {
		cfg.Caller.MinMapQ = o.minMapQ
	}
	if o.maxWalk > 0 {
		cfg.Traversal.MaxWalkLength = o.maxWalk
	}
	if o.mongoURI != "" {
		cfg.Output.MongoURI = o.mongoURI
	}
	return cfg
}

// runCall runs the caller and writes calls to every configured sink.
func (c *CLI) runCall(ctx context.Context, opts callOpts) (err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg = opts.apply(cfg)
	if cfg.Caller.Sample == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no sample: pass --sample or set [caller] sample")
	}

	var metrics *observability.Metrics
	if opts.metrics != "" {
		reg := prometheus.NewRegistry()
		metrics = observability.NewMetrics(reg)
		metrics.Install()
		defer observability.Reset()
		defer func() {
			if werr := prometheus.WriteToTextfile(opts.metrics, reg); werr != nil && err == nil {
				err = fmt.Errorf("write metrics: %w", werr)
			}
		}()
	}

	s, err := c.openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ch, err := c.openCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	srcs, err := cfg.Links.LoadLinks()
	if err != nil {
		return err
	}

	refs := cfg.BuildReferences(ch, c.Logger)
	if len(refs) == 0 {
		c.Logger.Warn("no references configured; contigs are assembled but nothing is called")
	}

	novel, err := c.novelKmers(s, cfg, opts.novel)
	if err != nil {
		return err
	}

	// Sinks
	out, err := createOutput(opts.output)
	if err != nil {
		return err
	}
	tsv := cwio.NewTSVWriter(out)
	sinks := cwio.MultiSink{tsv}

	var mongo *mongosink.Sink
	if cfg.Output.MongoURI != "" {
		mongo, err = mongosink.Open(ctx, mongosink.Options{
			URI:        cfg.Output.MongoURI,
			Database:   cfg.Output.MongoDatabase,
			Collection: cfg.Output.MongoCollection,
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "open mongo sink")
		}
		mongo = mongo.WithSample(cfg.Caller.Sample)
		sinks = append(sinks, mongo)
	}

	var contigs caller.ContigWriter
	var fasta *cwio.FASTAWriter
	if opts.contigs != "" {
		f, err := os.Create(opts.contigs)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "contigs %s", opts.contigs)
		}
		defer f.Close()
		fasta = cwio.NewFASTAWriter(f)
		contigs = fasta
	}

	runner, err := caller.NewRunner(caller.Config{
		Store:         s,
		Sample:        cfg.Caller.Sample,
		Novel:         novel,
		References:    refs,
		Links:         srcs,
		MaxWalkLength: cfg.Traversal.MaxWalkLength,
		MinMapQ:       cfg.Caller.MinMapQ,
		MaxNovels:     cfg.Caller.MaxNovels,
		Workers:       cfg.Caller.Workers,
		Logger:        c.Logger,
	})
	if err != nil {
		return err
	}

	sp := startSpinner(ctx, os.Stderr, fmt.Sprintf("Calling %s from %d novel k-mers...", cfg.Caller.Sample, len(novel)))
	sum, runErr := runner.Run(ctx, contigs, sinks)
	sp.finish(runErr, fmt.Sprintf("Called %s: %d calls in %d contigs", cfg.Caller.Sample, sum.Calls, sum.Contigs))

	if fasta != nil {
		if err := fasta.Flush(); err != nil {
			runErr = multierr.Append(runErr, err)
		}
	}
	if err := sinks.Close(); err != nil {
		runErr = multierr.Append(runErr, err)
	}

	if runErr != nil && sum.Calls == 0 && sum.Contigs == 0 {
		return runErr
	}
	if opts.output == "" || opts.output == "-" {
		// Calls went to stdout; keep it clean.
		c.Logger.Info("call done", "calls", sum.Calls, "breakpoints", sum.Breakpoints,
			"contigs", sum.Contigs, "failed", sum.Failed, "duration", sum.Duration.Round(time.Millisecond))
	} else {
		printCallSummary(sum, opts, mongo)
	}
	if runErr != nil {
		c.Logger.Warn("some contigs failed", "failed", sum.Failed)
		return runErr
	}
	return nil
}

// novelKmers loads the novel k-mer list, or derives it from the store.
func (c *CLI) novelKmers(s *store.BadgerStore, cfg config.Config, path string) ([]kmer.Canonical, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "novel k-mers %s", path)
		}
		defer f.Close()
		return readKmers(f, s.KmerSize())
	}

	color, ok := s.ColorForSample(cfg.Caller.Sample)
	if !ok {
		return nil, errors.New(errors.ErrCodeSampleNotFound, "sample %q not in graph", cfg.Caller.Sample)
	}
	var background []int
	for name := range cfg.References {
		if rc, ok := s.ColorForSample(name); ok {
			background = append(background, rc)
		}
	}
	prog := newProgress(c.Logger)
	novel, err := store.Novel(s, color, background)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "scan novel k-mers")
	}
	prog.done(fmt.Sprintf("Found %d novel k-mers in %s", len(novel), cfg.Caller.Sample))
	return novel, nil
}

// readKmers parses one k-mer per line. Blank lines and lines starting with
// '#' are skipped.
func readKmers(r io.Reader, k int) ([]kmer.Canonical, error) {
	var out []kmer.Canonical
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := errors.ValidateKmer(text, k); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		ck, _ := kmer.Canonicalize(text)
		out = append(out, ck)
	}
	return out, sc.Err()
}

// writerOnly hides Close so the TSV writer leaves stdout open.
type writerOnly struct{ io.Writer }

// createOutput opens path for writing, or returns stdout for "" and "-".
// The TSV writer closes the file.
func createOutput(path string) (io.Writer, error) {
	if path == "" || path == "-" {
		return writerOnly{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "output %s", path)
	}
	return f, nil
}

func printCallSummary(sum caller.Summary, opts callOpts, mongo *mongosink.Sink) {
	printSuccess("Called %d variants (%d breakpoints) in %s", sum.Calls, sum.Breakpoints, sum.Duration.Round(time.Millisecond))
	printKeyValue("novel", fmt.Sprint(sum.Novels))
	printKeyValue("walks", fmt.Sprint(sum.Walks))
	printKeyValue("contigs", fmt.Sprint(sum.Contigs))
	printFile(opts.output)
	if opts.contigs != "" {
		printFile(opts.contigs)
	}
	if mongo != nil {
		printDetail("MongoDB run %s", mongo.RunID())
	}
	if opts.metrics != "" {
		printFile(opts.metrics)
	}
}
