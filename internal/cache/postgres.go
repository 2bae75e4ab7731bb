package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

// PostgresStore is the durable Store backed by the cache table. Rows are
// upserted on key; expiry is enforced lazily on read and by Cleanup.
type PostgresStore struct {
	pool *pgxpool.Pool

	defaultTTLHours int
	clock           clockwork.Clock
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewPostgresStore creates a Store over an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool, defaultTTLHours int, logger *slog.Logger, metrics *observability.Metrics) *PostgresStore {
	if defaultTTLHours <= 0 {
		defaultTTLHours = 1
	}
	return &PostgresStore{
		pool:            pool,
		defaultTTLHours: defaultTTLHours,
		clock:           clockwork.NewRealClock(),
		logger:          logger,
		metrics:         metrics,
	}
}

// EnsureSchema creates the cache table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cache (
			key        text PRIMARY KEY,
			value      jsonb NOT NULL,
			expires_at timestamptz NOT NULL
		)`)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value     []byte
		expiresAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT value, expires_at FROM cache WHERE key = $1`, key,
	).Scan(&value, &expiresAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("cache get failed", "cache_key", key, "error", err)
		}
		s.miss(key)
		return nil, false
	}

	if !s.clock.Now().Before(expiresAt) {
		// Lazy expiration: evict off the request path.
		go s.deleteExpired(key)
		s.miss(key)
		return nil, false
	}

	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	s.logger.Debug("cache hit", "cache_key", key)
	return value, true
}

func (s *PostgresStore) Set(ctx context.Context, key string, value any, ttlHours int) bool {
	if ttlHours <= 0 {
		ttlHours = s.defaultTTLHours
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("cache set failed", "cache_key", key, "error", err)
		s.metrics.CacheWriteFails.Inc()
		return false
	}

	expiresAt := s.clock.Now().Add(time.Duration(ttlHours) * time.Hour)
	_, err = s.pool.Exec(ctx, `
		INSERT INTO cache (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, data, expiresAt)
	if err != nil {
		s.logger.Error("cache set failed", "cache_key", key, "error", err)
		s.metrics.CacheWriteFails.Inc()
		return false
	}
	return true
}

func (s *PostgresStore) Delete(ctx context.Context, key string) bool {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cache WHERE key = $1`, key); err != nil {
		s.logger.Error("cache delete failed", "cache_key", key, "error", err)
		return false
	}
	return true
}

func (s *PostgresStore) Clear(ctx context.Context) bool {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cache`); err != nil {
		s.logger.Error("cache clear failed", "error", err)
		return false
	}
	s.logger.Info("cache cleared")
	return true
}

func (s *PostgresStore) Cleanup(ctx context.Context) bool {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM cache WHERE expires_at < $1`, s.clock.Now())
	if err != nil {
		s.logger.Error("cache cleanup failed", "error", err)
		return false
	}
	s.logger.Info("cache cleanup completed", "deleted", tag.RowsAffected())
	return true
}

func (s *PostgresStore) deleteExpired(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM cache WHERE key = $1`, key); err != nil {
		s.logger.Warn("expired entry delete failed", "cache_key", key, "error", err)
	}
}

func (s *PostgresStore) miss(key string) {
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	s.logger.Debug("cache miss", "cache_key", key)
}
