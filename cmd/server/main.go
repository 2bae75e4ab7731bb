package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divyashantkumar/disaster-response-platform/internal/adapter/gemini"
	httpadapter "github.com/divyashantkumar/disaster-response-platform/internal/adapter/http"
	kafkaadapter "github.com/divyashantkumar/disaster-response-platform/internal/adapter/kafka"
	"github.com/divyashantkumar/disaster-response-platform/internal/adapter/nominatim"
	"github.com/divyashantkumar/disaster-response-platform/internal/adapter/twitter"
	"github.com/divyashantkumar/disaster-response-platform/internal/cache"
	"github.com/divyashantkumar/disaster-response-platform/internal/config"
	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
	"github.com/divyashantkumar/disaster-response-platform/internal/resolver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable cache when DATABASE_URL is set, in-memory otherwise.
	var store cache.Store
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pgStore := cache.NewPostgresStore(pool, cfg.CacheTTLHours, logger, metrics)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure cache schema", "error", err)
			os.Exit(1)
		}
		store = pgStore
		logger.Info("durable cache enabled", "ttl_hours", cfg.CacheTTLHours)
	} else {
		store = cache.NewMemoryStore(cfg.CacheTTLHours, logger, metrics)
		logger.Warn("DATABASE_URL not set, cached data will not survive restarts")
	}

	// External providers degrade to nil when credentials are missing.
	var textModel domain.TextGenerator
	var vision domain.ImageAnalyzer
	if cfg.GeminiEnabled() {
		client := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiTimeout, logger, metrics)
		textModel = client
		vision = client
		metrics.GeminiEnabled.Set(1)
		logger.Info("gemini enabled", "timeout", cfg.GeminiTimeout)
	} else {
		logger.Warn("GEMINI_API_KEY not set, location extraction and image verification degraded")
	}

	geocoder := nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, logger, metrics)

	var feed domain.SocialSearcher
	if cfg.TwitterEnabled() {
		feed = twitter.NewClient(cfg.TwitterBearerToken, cfg.TwitterBaseURL, cfg.TwitterTimeout, logger, metrics)
		metrics.TwitterEnabled.Set(1)
		logger.Info("twitter feed enabled", "timeout", cfg.TwitterTimeout)
	} else {
		logger.Warn("TWITTER_BEARER_TOKEN not set, social media will serve mock data")
	}

	var events httpadapter.EventPublisher
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic, logger)
		events = publisher
		logger.Info("kafka event publishing enabled", "topic", cfg.KafkaEventsTopic)
	} else {
		logger.Info("kafka event publishing disabled")
	}

	locations := resolver.NewLocationResolver(textModel, geocoder, store, logger)
	media := resolver.NewMediaVerifier(vision, store, logger, metrics)
	social := resolver.NewSocialFeedAggregator(feed, store, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, readiness{pool: pool}, locations, media, social, events, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Periodic sweep of expired cache entries.
	go runCleanup(ctx, store, cfg.CacheCleanupInterval, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func runCleanup(ctx context.Context, store cache.Store, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if store.Cleanup(ctx) {
				logger.Debug("cache cleanup completed")
			}
		}
	}
}

// readiness checks the database when one is configured; the in-memory
// store is always ready.
type readiness struct {
	pool *pgxpool.Pool
}

func (r readiness) CheckReadiness(ctx context.Context) error {
	if r.pool == nil {
		return nil
	}
	return r.pool.Ping(ctx)
}
