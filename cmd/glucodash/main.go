package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/glucolab/glucodash/internal/backfill"
	"github.com/glucolab/glucodash/internal/config"
	"github.com/glucolab/glucodash/internal/core/storage/postgres"
	"github.com/glucolab/glucodash/internal/dashboard"
	"github.com/glucolab/glucodash/internal/migrations"
	"github.com/glucolab/glucodash/internal/nightscout"
	"github.com/glucolab/glucodash/internal/server"
)

func main() {
	configPath := flag.String("config", "glucodash.yaml", "Path to configuration file")
	mode := flag.String("mode", "serve", "Run mode: serve | backfill | step")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Backfill.Location()
	if err != nil {
		slog.Error("Invalid backfill timezone", "value", cfg.Backfill.Timezone, "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (PostgreSQL)
	store, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2.1. Run Database Migrations
	if err := migrations.Run(store.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	if err := store.ValidateSchema(ctx); err != nil {
		slog.Error("Schema validation failed", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Remote Source Client
	client, err := nightscout.NewClient(
		cfg.Nightscout.BaseURL,
		cfg.Nightscout.Token,
		cfg.Nightscout.FetchTimeoutDuration(),
	)
	if err != nil {
		slog.Error("Failed to initialize nightscout client", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Backfill Runner
	runner := backfill.NewRunner(client, store, backfill.Options{
		InitialBackfillDays: cfg.Backfill.InitialDays,
		PageSize:            cfg.Nightscout.PageSize,
		Location:            loc,
	})

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	switch *mode {
	case "backfill":
		// Full catch-up: process every overdue day, then exit.
		if _, err := runner.CatchUp(ctx); err != nil {
			slog.Error("Catch-up run failed", "error", err)
			os.Exit(1)
		}

	case "step":
		// Single-step: process at most one overdue day, then exit.
		// Intended for an external cron invoking this repeatedly.
		processed, err := runner.Step(ctx)
		if err != nil {
			slog.Error("Backfill step failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Backfill step finished", "day_processed", processed)

	case "serve":
		// 5. Dashboard + in-process periodic single-step scheduler.
		srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode)
		dashboard.NewService(client, store).RegisterRoutes(srv.Engine)

		if cfg.Backfill.Enabled {
			scheduler := backfill.NewScheduler(cfg.Backfill.IntervalDuration(), runner)
			go func() {
				if err := scheduler.Start(ctx); err != nil {
					slog.Error("Scheduler stopped with error", "error", err)
				}
			}()
		} else {
			slog.Info("Backfill scheduler disabled by config")
		}

		// HTTP server blocks until ctx is cancelled.
		if err := srv.Run(ctx); err != nil {
			slog.Error("Server stopped with error", "error", err)
		}

	default:
		slog.Error("Unknown mode", "mode", *mode)
		os.Exit(2)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
