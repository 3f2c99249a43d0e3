package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ginserver "vibestays/internal/infra/http/gin"
	"vibestays/internal/infra/obs"
)

func newServeCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadWithLogger(load)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := obs.NewLogger(cfg.Env)
			metrics := obs.NewMetrics()

			app, err := buildApplication(ctx, cfg, logger, metrics)
			if err != nil {
				logger.Error("application wiring failed", "error", err)
				return err
			}
			defer app.close(logger)

			if err := app.ensureBootstrapAdmin(ctx, cfg); err != nil {
				logger.Warn("bootstrap admin not created", "error", err)
			}
			if cfg.FixturesPath != "" {
				if _, err := app.importFixtures(ctx, cfg.FixturesPath); err != nil {
					logger.Warn("listing fixtures load failed", "error", err, "path", cfg.FixturesPath)
				}
			}

			server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Metrics: metrics}, app.health, app.handlers)

			group, gctx := errgroup.WithContext(ctx)
			for _, job := range app.background {
				group.Go(func() error {
					if err := job(gctx); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				})
			}
			group.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("http shutdown failed", "error", err)
				}
				return nil
			})
			group.Go(func() error {
				logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			err = group.Wait()
			app.drain(logger)
			if err != nil {
				logger.Error("server stopped with error", "error", err)
				return err
			}
			logger.Info("HTTP server stopped")
			return nil
		},
	}
}
