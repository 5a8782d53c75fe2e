package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ledger/internal/cli"
	"ledger/internal/config"
	apphttp "ledger/internal/http"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/tools"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger tools over stdio or HTTP",
		Long: `Serve add_expense, list_expenses, summarize and the categories resource.

With --transport stdio (default) the MCP protocol is spoken on stdin/stdout.
With --transport http the server also exposes a JSON API and health probes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, logger := a.cfg, a.logger

			logger.Info("Starting ledger",
				log.FieldOperation, log.OpStartup,
				"version", version,
				"transport", cfg.Transport,
				"db", cfg.SQLiteDBPath)

			repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
			svc := services.NewExpenseService(repo, cli.NewPublisher(logger, cfg))
			defer func() {
				if err := svc.Close(); err != nil {
					logger.Error("Failed to close expense service", log.FieldError, err)
				}
			}()

			toolServer := tools.NewServer(svc)

			if cfg.Transport == config.TransportStdio {
				err := toolServer.ServeStdio(ctx, os.Stdin, os.Stdout)
				if err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("stdio server: %w", err)
				}
				return nil
			}

			return serveHTTP(ctx, cfg, logger, svc, toolServer)
		},
	}

	cmd.Flags().String("transport", config.TransportStdio, "tool transport (stdio, http)")
	cmd.Flags().String("port", "8081", "HTTP port (default $PORT)")

	return cmd
}

func serveHTTP(ctx context.Context, cfg *config.Config, logger *log.Logger, svc *services.ExpenseService, toolServer *tools.Server) error {
	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		MCPHandler:         toolServer.HTTPHandler(),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
