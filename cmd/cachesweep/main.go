// Command cachesweep deletes expired cache rows and exits. It is intended
// to run as a scheduled job against the same database as the server.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divyashantkumar/disaster-response-platform/internal/cache"
	"github.com/divyashantkumar/disaster-response-platform/internal/config"
	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required for cachesweep")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := cache.NewPostgresStore(pool, cfg.CacheTTLHours, logger, observability.NewMetrics())
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure cache schema", "error", err)
		os.Exit(1)
	}

	if !store.Cleanup(ctx) {
		logger.Error("cache cleanup failed")
		os.Exit(1)
	}
	logger.Info("cache cleanup completed")
}
