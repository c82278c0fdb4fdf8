package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kindredlab/kindred/internal/server"
	"github.com/kindredlab/kindred/pkg/cache"
	"github.com/kindredlab/kindred/pkg/pipeline"
	"github.com/kindredlab/kindred/pkg/store"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the kindred HTTP API",
		Long: `Run the kindred HTTP API.

The API exposes validation, layout and rendering over HTTP plus CRUD for
stored family trees. Backends are picked from flags or the config file:
a redis URL enables the shared layout cache, a mongo URI enables
persistent tree storage. Without them the server uses the local file
cache and in-memory trees.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.serveAddr(), "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", c.Config.Server.RedisURL, "redis URL for the shared layout cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", c.Config.Server.MongoURI, "mongo URI for persistent tree storage")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) serveAddr() string {
	if c.Config.Server.Addr != "" {
		return c.Config.Server.Addr
	}
	return ":8080"
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI string, noCache bool) error {
	cch, err := c.serveCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(cch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   addr,
		Store:  st,
		Runner: runner,
		Logger: c.Logger,
	})

	printInfo("Serving kindred API on %s", addr)
	return srv.ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache", "url", redisURL)
		return rc, nil
	}
	return c.newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		c.Logger.Info("using in-memory tree store")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoConfig{
		URI:      mongoURI,
		Database: c.Config.Server.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c.Logger.Info("using mongo tree store", "uri", mongoURI)
	return ms, nil
}
