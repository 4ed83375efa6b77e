package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cortexwalk/internal/server"
	"github.com/matzehuels/cortexwalk/pkg/observability"
	"github.com/matzehuels/cortexwalk/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	noCache   bool
	noMetrics bool
}

// serveCommand creates the serve command that exposes the graph over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph over an HTTP API",
		Long: `Serve the graph over an HTTP API.

Routes:
  GET  /healthz
  GET  /version
  GET  /metrics
  GET  /api/v1/samples
  GET  /api/v1/kmers/{kmer}
  POST /api/v1/walk
  POST /api/v1/call

Walk requests take the body {"seeds": [...], "traversal": {...},
"formats": [...]}; traversal settings left empty use the [traversal]
section of the configuration. Call requests take {"sample": ...,
"novel": [...]} and default to the [caller] section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: [server] addr)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the subgraph cache")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
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

	var metrics http.Handler
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := observability.NewMetrics(reg)
		m.Install()
		defer observability.Reset()
		metrics = m.Handler()
	}

	refs := cfg.BuildReferences(ch, c.Logger)
	if len(refs) == 0 {
		c.Logger.Warn("no references configured; /api/v1/call will report novel contigs only")
	}

	srv := server.New(server.Options{
		Runner:     runner,
		Defaults:   cfg.Traversal,
		References: refs,
		Caller:     cfg.Caller,
		Metrics:    metrics,
		Logger:     c.Logger,
	})

	c.Logger.Info("serving", "addr", cfg.Server.Addr, "graph", cfg.Graph.Store, "k", s.KmerSize(), "colors", s.NumColors())
	err = srv.ListenAndServe(ctx, cfg.Server.Addr)
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		c.Logger.Info("server stopped")
		return nil
	}
	return err
}
