package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/inotebook/internal/app"
	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/devseed"
	"github.com/stolasapp/inotebook/internal/observability"
	"github.com/stolasapp/inotebook/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the notes API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			svc, tokens, err := newService(cmd.Context(), cfg, logger, store)
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			// In dev mode, fill an empty store with fake data
			if cfg.DevMode {
				seed := devseed.Seed()
				created, err := devseed.Populate(ctx, logger, store, svc, seed)
				if err != nil {
					return err
				}
				if created {
					logger.InfoContext(ctx,
						"seeded dev data",
						slog.Uint64("seed", seed),
					)
				}
			}

			var metrics *observability.Metrics
			if cfg.Metrics.Enabled {
				metrics = observability.NewMetrics()
			}

			appServer := app.New(cfg, logger, svc, tokens, metrics)
			serveApp(ctx, grp, cfg, logger, appServer)
			return grp.Wait()
		},
	}
}

func serveApp(
	ctx context.Context,
	grp *errgroup.Group,
	cfg *config.Config,
	logger *slog.Logger,
	srv *echo.Echo,
) {
	addr := cfg.HTTPAddress
	listener, err := server.Listen(ctx, addr)
	if err != nil {
		grp.Go(func() error { return err })
		return
	}

	logger.InfoContext(ctx,
		"starting app server...",
		slog.String("address", listener.Addr().String()),
		slog.Bool("metrics", cfg.Metrics.Enabled),
	)
	server.Serve(ctx, grp, srv.Server, listener, cfg.RequestTimeout, logger)
}
