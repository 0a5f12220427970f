// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meditation-platform/internal/config"
	pg "meditation-platform/internal/infra/db/postgres"
	"meditation-platform/internal/infra/logging"
	"meditation-platform/internal/infra/metrics"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

type rootFlags struct {
	configPath string
	dev        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	root := &cobra.Command{
		Use:           "app",
		Short:         "Meditation platform API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "config.yaml", "path to YAML config file")
	root.PersistentFlags().BoolVar(&f.dev, "dev", false, "developer mode: console logs, noop billing when no key is set")

	root.AddCommand(newServeCmd(&f))
	root.AddCommand(newMigrateCmd(&f))
	root.AddCommand(newRefreshStatsCmd(&f))
	return root
}

func newServeCmd(f *rootFlags) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the stats refresher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(f.configPath, f.dev)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := logging.New(cfg.Log, cfg.Runtime.Dev)
			metrics.MustRegister()
			metrics.SetBuildInfo(version, commit)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			if migrate {
				if err := pg.Migrate(ctx, app.pool); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			go pg.ExportPoolStats(ctx, app.pool, 30*time.Second, logger)

			refresherDone := make(chan struct{})
			go func() {
				defer close(refresherDone)
				if err := app.refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("stats refresher stopped")
				}
			}()

			srv := app.httpServer()
			serveErr := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case <-ctx.Done():
				logger.Info().Msg("shutdown requested")
			case err := <-serveErr:
				if err != nil {
					stop()
					<-refresherDone
					return fmt.Errorf("http server: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("http shutdown")
			}
			stop()
			<-refresherDone
			logger.Info().Msg("bye")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func newMigrateCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(f.configPath, f.dev)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := logging.New(cfg.Log, cfg.Runtime.Dev)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			pool, err := pg.Connect(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer pool.Close()

			if err := pg.Migrate(ctx, pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info().Msg("schema applied")
			return nil
		},
	}
}

func newRefreshStatsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-stats",
		Short: "Recompute the global stats read model once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(f.configPath, f.dev)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := logging.New(cfg.Log, cfg.Runtime.Dev)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			app, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			gs, err := app.stats.Refresh(ctx)
			if err != nil {
				return fmt.Errorf("refresh stats: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "active=%d sessions=%d minutes=%d today=%d members=%d\n",
				gs.ActiveUsers, gs.TotalSessions, gs.TotalMinutes, gs.TotalMinutesToday, gs.TotalMembers)
			return nil
		},
	}
}
