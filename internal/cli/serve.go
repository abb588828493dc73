package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfplan/internal/server"
	"github.com/matzehuels/shelfplan/pkg/cache"
	"github.com/matzehuels/shelfplan/pkg/pipeline"
	"github.com/matzehuels/shelfplan/pkg/storage"
)

// Environment variables read by serve when the flags are not given.
const (
	envMongoURI  = "SHELFPLAN_MONGO_URI"
	envRedisAddr = "SHELFPLAN_REDIS_ADDR"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	mongoURI string
	database string
	redis    string
	noCache  bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		mongoURI: os.Getenv(envMongoURI),
		redis:    os.Getenv(envRedisAddr),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Plans are kept in memory unless --mongo names a MongoDB deployment. Layouts
and renders are cached in the local cache directory, or in Redis with --redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "MongoDB URI for plan storage (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.database, "database", storage.DefaultDatabase, "MongoDB database")
	cmd.Flags().StringVar(&opts.redis, "redis", opts.redis, "Redis address or URL for the cache (env "+envRedisAddr+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := c.serveRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	printSuccess("Serving on %s", StyleLink.Render(opts.addr))
	printKeyValue("Storage", storeName(opts))
	printKeyValue("Cache", cacheName(opts))
	printNewline()

	return server.New(runner, store, logger).ListenAndServe(ctx, opts.addr)
}

func openStore(ctx context.Context, opts serveOpts) (storage.Store, error) {
	if opts.mongoURI == "" {
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.NewMongoStore(ctx, storage.MongoConfig{URI: opts.mongoURI, Database: opts.database})
	if err != nil {
		return nil, fmt.Errorf("open mongo store: %w", err)
	}
	return store, nil
}

// serveRunner picks the Redis cache when configured. Redis keys are scoped
// by app name since the instance may be shared.
func (c *CLI) serveRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.redis == "" || opts.noCache {
		return c.newRunner(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, opts.redis)
	if err != nil {
		return nil, fmt.Errorf("open redis cache: %w", err)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}

func storeName(opts serveOpts) string {
	if opts.mongoURI == "" {
		return "memory"
	}
	return "mongodb/" + opts.database
}

func cacheName(opts serveOpts) string {
	switch {
	case opts.noCache:
		return "disabled"
	case opts.redis != "":
		return "redis " + opts.redis
	default:
		dir, err := cacheDir()
		if err != nil {
			return "disabled"
		}
		return dir
	}
}
