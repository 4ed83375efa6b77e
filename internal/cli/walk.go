package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortexwalk/pkg/config"
	cwio "github.com/matzehuels/cortexwalk/pkg/io"
	"github.com/matzehuels/cortexwalk/pkg/pipeline"
)

// walkOpts holds the command-line flags for the walk command. Empty values
// keep the [traversal] settings from the config file.
type walkOpts struct {
	colors      string
	joining     string
	recruitment string
	secondary   string
	rule        string
	direction   string
	operator    string
	maxBranch   int
	maxWalk     int
	connectAll  bool

	formats  string
	output   string
	previous string
	detailed bool
	refresh  bool
	noCache  bool
}

// walkCommand creates the walk command that traverses the graph from seed
// k-mers and writes the subgraph and contigs.
func (c *CLI) walkCommand() *cobra.Command {
	var opts walkOpts

	cmd := &cobra.Command{
		Use:   "walk SEED [SEED...]",
		Short: "Traverse the graph from seed k-mers and render the subgraph",
		Long: `Traverse the graph from seed k-mers and render the subgraph.

Every seed is expanded by depth-first search under the traversal rule; the
union of the subgraphs is rendered in each requested format. The fasta
format holds one contig per seed.

A single format without --output is written to stdout; otherwise each
format goes to OUTPUT.FORMAT.`,
		Example: `  cortexwalk walk -g graph.db --colors NA12878 ACGTTGCAAGT
  cortexwalk walk -g graph.db --colors NA12878,hg19 --rule novel-continuation -f svg,fasta -o region
  cortexwalk walk -g graph.db --colors NA12878 --previous region.json -f json -o extended ACGTTGCAAGT`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWalk(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.colors, "colors", "", "traversal samples, comma-separated")
	f.StringVar(&opts.joining, "joining", "", "samples that join the walk, comma-separated")
	f.StringVar(&opts.recruitment, "recruitment", "", "samples recruited across gaps, comma-separated")
	f.StringVar(&opts.secondary, "secondary", "", "annotation samples overlaid on the subgraph, comma-separated")
	f.StringVar(&opts.rule, "rule", "", "stopping rule: contig, novel-continuation, bubble-closing, gap-closing")
	f.StringVar(&opts.direction, "direction", "", "forward, reverse or both")
	f.StringVar(&opts.operator, "operator", "", "combine forward and reverse searches: and, or")
	f.IntVar(&opts.maxBranch, "max-branch", 0, "maximum branch length")
	f.IntVar(&opts.maxWalk, "max-walk", 0, "maximum contig length in k-mers (0 = unbounded)")
	f.BoolVar(&opts.connectAll, "connect-all", false, "add edges between all visited neighbours")
	f.StringVarP(&opts.formats, "format", "f", pipeline.FormatJSON, "output formats: json, dot, svg, fasta")
	f.StringVarP(&opts.output, "output", "o", "", "output base path")
	f.StringVar(&opts.previous, "previous", "", "JSON subgraph of an earlier walk to extend")
	f.BoolVar(&opts.detailed, "detailed", false, "show per-color coverage in DOT and SVG")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore a cached subgraph")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// apply overlays the flags set on the command line onto t.
func (o walkOpts) apply(t config.TraversalConfig) config.TraversalConfig {
	if v := splitList(o.colors); len(v) > 0 {
		t.Colors = v
	}
	if v := splitList(o.joining); len(v) > 0 {
		t.Joining = v
	}
	if v := splitList(o.recruitment); len(v) > 0 {
		t.Recruitment = v
	}
	if v := splitList(o.secondary); len(v) > 0 {
		t.Secondary = v
	}
	if o.rule != "" {
		t.Rule = o.rule
	}
	if o.direction != "" {
		t.Direction = o.direction
	}
	if o.operator != "" {
		t.Operator = o.operator
	}
	if o.maxBranch > 0 {
		t.MaxBranchLength = o.maxBranch
	}
	if o.maxWalk > 0 {
		t.MaxWalkLength = o.maxWalk
	}
	if o.connectAll {
		t.ConnectAllNeighbors = true
	}
	return t
}

// runWalk executes the pipeline and writes every artifact.
func (c *CLI) runWalk(ctx context.Context, seeds []string, opts walkOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
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
	srcs, err := cfg.Links.LoadLinks()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(s, cfg.Graph.Store, ch, cfg.Cache.Keyer(), c.Logger)
	runner.Links = srcs
	if ttl := cfg.Cache.TTL(); ttl > 0 {
		runner.TTL = ttl
	}
	defer runner.Close()

	for i, seed := range seeds {
		seeds[i] = strings.ToUpper(seed)
	}
	popts := pipeline.Options{
		Seeds:     seeds,
		Traversal: opts.apply(cfg.Traversal),
		Formats:   splitList(opts.formats),
		Previous:  opts.previous,
		Detailed:  opts.detailed,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Walked %d seeds", len(seeds)))
	if !result.Found {
		printWarning("No seed could be traversed")
	}

	// A lone artifact with no output path goes to stdout, unadorned, so it
	// can be piped.
	if opts.output == "" && len(popts.Formats) == 1 {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}
	base := opts.output
	if base == "" {
		base = "walk"
	}

	printSuccess("Walked subgraph")
	printStats(result.Stats.Vertices, result.Stats.Edges, len(result.Contigs), result.CacheInfo.GraphHit)
	for _, format := range popts.Formats {
		path := base + "." + format
		if format == pipeline.FormatJSON {
			if err := cwio.ExportGraphJSON(result.Graph, path); err != nil {
				return err
			}
		} else if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
