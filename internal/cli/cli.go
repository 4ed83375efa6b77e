// Package cli implements the cortexwalk command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cortexwalk/pkg/buildinfo"
	"github.com/matzehuels/cortexwalk/pkg/cache"
	"github.com/matzehuels/cortexwalk/pkg/config"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cortexwalk"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	graphPath  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cortexwalk walks colored de Bruijn graphs and calls novel variants",
		Long:         `cortexwalk traverses a colored de Bruijn graph stored as a k-mer index, assembles contigs around novel k-mers, and reconciles them against reference colors into SNV, MNP, INS, DEL and breakpoint calls.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().StringVarP(&c.graphPath, "graph", "g", "", "graph store directory (overrides [graph] store)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.walkCommand())
	root.AddCommand(c.callCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration, Store and Cache
// =============================================================================

// loadConfig reads --config, or returns the defaults when none is given.
// --graph overrides the configured store.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if c.graphPath != "" {
		cfg.Graph.Store = c.graphPath
	}
	return cfg, nil
}

// openStore opens the configured graph read-only.
func (c *CLI) openStore(cfg config.Config) (*store.BadgerStore, error) {
	if cfg.Graph.Store == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no graph store: pass --graph or set [graph] store")
	}
	if _, err := os.Stat(cfg.Graph.Store); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph store %s", cfg.Graph.Store)
	}
	s, err := store.OpenBadger(store.BadgerOptions{Path: cfg.Graph.Store, ReadOnly: true, Logger: c.Logger})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open graph %s", cfg.Graph.Store)
	}
	c.Logger.Debug("opened graph", "path", cfg.Graph.Store, "k", s.KmerSize(), "colors", s.NumColors())
	return s, nil
}

// openCache returns the configured cache, falling back to the XDG cache
// directory when neither a directory nor Redis is configured.
func (c *CLI) openCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Dir == "" && cfg.RedisAddr == "" {
		if dir, err := cacheDir(); err == nil {
			cfg.Dir = dir
		}
	}
	ch, err := cfg.Open(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open cache")
	}
	return cache.Instrumented(ch), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cortexwalk/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
