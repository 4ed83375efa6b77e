package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortexwalk/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the subgraph and alignment cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// configured backend: Redis when [cache] redis_addr is set, otherwise the
// cache directory.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached subgraphs and alignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ch, err := c.openCache(cmd.Context(), cfg.Cache, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			cl, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache backend cannot be cleared")
				return nil
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared cache")
			if cfg.Cache.RedisAddr != "" {
				printDetail("Redis: %s", cfg.Cache.RedisAddr)
			} else if dir, err := cachePath(cfg.Cache.Dir); err == nil {
				printDetail("Directory: %s", dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cachePath(cfg.Cache.Dir)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cachePath returns the configured directory, or the XDG default.
func cachePath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return cacheDir()
}
