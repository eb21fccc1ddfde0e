package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"vibejobs-backend/internal/application/scheduler"
	"vibejobs-backend/internal/infrastructure/cache"
	"vibejobs-backend/internal/infrastructure/database"
	"vibejobs-backend/internal/interfaces/router"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the HTTP API server. When AGGREGATE_SCHEDULE is set, aggregation also runs on that cron schedule.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default $PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, deps, err := router.CreateApp(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Startup checks only log; a down dependency must not stop the server.
	if deps.DB != nil {
		if err := database.Ping(ctx, deps.DB); err != nil {
			log.Warn().Err(err).Msg("database unreachable at startup")
		} else {
			log.Info().Msg("database connected")
		}
	}
	if deps.Rdb != nil {
		if err := cache.Ping(ctx, deps.Rdb); err != nil {
			log.Warn().Err(err).Msg("redis unreachable at startup")
		} else {
			log.Info().Msg("redis connected")
		}
	}

	if cfg.AggregateSchedule != "" {
		sched, err := scheduler.New(deps.Aggregator, cfg.AggregateSchedule)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	port := servePort
	if port == "" {
		port = cfg.Port
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Msg("server listening")
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
