package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http"
	"github.com/jsamuelsen/quotefeed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the quote feed over HTTP",
		Long: `Start the HTTP service. The cached list is loaded and a fresh batch is
fetched in the background while the server starts accepting requests.

Endpoints:
  GET  /api/v1/quotes[?jump=first|middle|last]
  POST /api/v1/quotes/refresh
  GET  /api/v1/quotes/scroll/{first|middle|last}
  GET  /-/live, /-/ready, /-/build, /-/metrics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newServices(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "startup failed", err)
	}
	defer svc.close(context.WithoutCancel(ctx))

	cfg, logger := svc.cfg, svc.logger

	logger.Info("starting service",
		slog.String("version", opts.Build.Version),
		slog.String("commit", opts.Build.Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// Health checks: quote source circuit and cache store
	registry := ports.NewHealthRegistry()
	if err := registry.Register(svc.quotes); err != nil {
		return WrapExitError(ExitCommandError, "registering quote source health check", err)
	}

	if hc, ok := svc.cache.(ports.HealthChecker); ok {
		if err := registry.Register(hc); err != nil {
			return WrapExitError(ExitCommandError, "registering cache health check", err)
		}
	}

	healthHandler := handlers.NewHealthHandler(registry, opts.Build, svc.syncer)
	quoteHandler := handlers.NewQuoteHandler(svc.syncer, app.NewPresenter(app.ColorPickerFor(ctx, svc.flags)))

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, quoteHandler))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	// The initial sync never takes the service down; failures show up in
	// the feed state and the logs.
	g.Go(func() error {
		if err := svc.syncer.Initialize(gctx); err != nil {
			logger.WarnContext(gctx, "initial sync failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "serve", err)
	}

	logger.Info("shutdown complete")

	return nil
}
