package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/internal/server"
	"github.com/driftwall/driftwall/pkg/cache"
	dwerrors "github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/pipeline"
	"github.com/driftwall/driftwall/pkg/store"
	"github.com/driftwall/driftwall/pkg/wall"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string      // listen address
	redisURL string      // optional Redis cache backend
	mongoURI string      // optional MongoDB layout store
	geo      wall.Config // world geometry overrides
	noCache  bool        // disable the layout cache
	refresh  bool        // recompute even when cached or stored
}

// serveCommand creates the serve command. It packs a manifest and
// serves visibility queries over HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve <manifest>",
		Short: "Serve visibility queries for a manifest over HTTP",
		Long: `Serve packs the manifest into a wall layout and exposes it over HTTP:
GET /api/v1/visible answers viewport queries, GET /api/v1/layout returns
the full layout document. With --mongo-uri the packed layout is persisted
so restarts skip the packing step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the layout cache (default: file cache)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for layout persistence")
	geometryFlags(cmd, &opts.geo)
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached or stored")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts *serveOpts) error {
	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, err := c.loadOrPackLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	layout, err := doc.Layout()
	if err != nil {
		return err
	}
	c.Logger.Info("layout ready",
		"placements", len(layout.Images()),
		"rows", doc.Rows(),
		"world", layout.Config().WorldSize)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(layout, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printInfo("Serving wall layout")
	printKeyValue("Address", opts.addr)
	printKeyValue("Query", "GET /api/v1/visible?x=&y=&w=&h=")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeRunner builds a pipeline runner with the serve-specific cache
// backend: Redis when configured, otherwise the shared file cache.
func (c *CLI) newServeRunner(ctx context.Context, opts *serveOpts) (*pipeline.Runner, error) {
	if opts.redisURL == "" {
		return c.newRunner(opts.noCache)
	}
	redisCache, err := cache.NewRedisCache(ctx, opts.redisURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(redisCache, nil, c.Logger), nil
}

// loadOrPackLayout resolves the layout document, preferring the Mongo
// store when configured. A stored layout for the same manifest content
// and geometry is reused; otherwise the manifest is packed and the
// result persisted.
func (c *CLI) loadOrPackLayout(ctx context.Context, runner *pipeline.Runner, input string, opts *serveOpts) (wall.Document, error) {
	pipeOpts := pipeline.Options{
		ManifestPath: input,
		Geometry:     opts.geo,
		Refresh:      opts.refresh,
	}

	m, err := runner.LoadManifest(pipeOpts)
	if err != nil {
		return wall.Document{}, err
	}

	if opts.mongoURI == "" {
		return runner.BuildLayout(ctx, m, pipeOpts)
	}

	st, err := store.NewMongoStore(ctx, opts.mongoURI)
	if err != nil {
		return wall.Document{}, err
	}
	defer st.Close(ctx)

	cfg := opts.geo
	cfg.ApplyDefaults()

	if !opts.refresh {
		doc, err := st.LoadLayout(ctx, m.Hash(), cfg)
		if err == nil {
			c.Logger.Info("loaded stored layout", "manifest", m.Hash())
			return doc, nil
		}
		if !dwerrors.Is(err, dwerrors.ErrCodeLayoutNotFound) {
			return wall.Document{}, err
		}
	}

	doc, err := runner.BuildLayout(ctx, m, pipeOpts)
	if err != nil {
		return wall.Document{}, err
	}
	if err := st.SaveLayout(ctx, m.Hash(), doc); err != nil {
		c.Logger.Warn("could not persist layout", "error", err)
	}
	return doc, nil
}
