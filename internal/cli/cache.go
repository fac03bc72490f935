package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetviz/pkg/cache"
	"github.com/matzehuels/nugetviz/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the feed response cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file selecting the cache backend")

	cmd.AddCommand(c.cacheClearCommand(&configPath))
	cmd.AddCommand(c.cachePathCommand(&configPath))

	return cmd
}

// cacheOptions returns the cache backend configured by the config file,
// with the file cache defaulting to the XDG cache directory.
func cacheOptions(configPath string) (cache.Options, error) {
	cfg, err := config.Discover(configPath)
	if err != nil {
		return cache.Options{}, err
	}
	opts := cache.Options{
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
		Prefix:    cache.DefaultRedisPrefix,
	}
	if opts.Dir == "" {
		if opts.Dir, err = cacheDir(); err != nil {
			return cache.Options{}, fmt.Errorf("get cache dir: %w", err)
		}
	}
	return opts, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached feed responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cacheOptions(*configPath)
			if err != nil {
				return err
			}
			where, err := clearCache(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printSuccess("Cleared feed cache")
			printDetail("Location: %s", where)
			return nil
		},
	}
}

// clearCache empties the configured backend and returns its location.
func clearCache(ctx context.Context, opts cache.Options) (string, error) {
	store, err := cache.Open(opts)
	if err != nil {
		return "", err
	}
	defer store.Close()

	switch s := store.(type) {
	case *cache.RedisCache:
		return "redis://" + opts.RedisAddr, s.Clear(ctx)
	case *cache.FileCache:
		return s.Dir(), s.Clear()
	default:
		return "", nil
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cacheOptions(*configPath)
			if err != nil {
				return err
			}
			if opts.RedisAddr != "" {
				fmt.Fprintln(c.Out, "redis://"+opts.RedisAddr)
				return nil
			}
			fmt.Fprintln(c.Out, opts.Dir)
			return nil
		},
	}
}
