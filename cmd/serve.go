package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/api"
	"github.com/radarlegislativo/ingest/internal/clock/system"
	"github.com/radarlegislativo/ingest/internal/schedule"
)

const shutdownGrace = 15 * time.Second

// newServeCmd creates the long-running scheduler subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tiered scheduler and the operator HTTP interface",
		Long: `Starts the cron scheduler (dense polling during parliamentary business
hours, sparse polling off hours and on weekends) and serves health, status
and metrics endpoints until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			env, err := buildEnvironment(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer env.close()

			scheduler, err := schedule.New(schedule.Config{
				BusinessSpec: cfg.Schedule.BusinessSpec,
				OffHoursSpec: cfg.Schedule.OffHoursSpec,
				WeekendSpec:  cfg.Schedule.WeekendSpec,
				ResetSpec:    cfg.Schedule.ResetSpec,
				Location:     cfg.Schedule.Location,
			}, env.orchestrator, system.New(), logger)
			if err != nil {
				return fmt.Errorf("init scheduler: %w", err)
			}
			if err := scheduler.Start(ctx); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}
			defer scheduler.Stop()

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           api.NewServer(env.store, scheduler, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			serveErr := make(chan error, 1)
			go func() {
				serveErr <- server.ListenAndServe()
			}()
			logger.Info("serving", zap.Int("port", cfg.Server.Port))

			select {
			case err := <-serveErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
				logger.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown incomplete", zap.Error(err))
			}
			return nil
		},
	}
}
