package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

// MemoryStore is the in-process Store used when no database is configured.
// It honors the same TTL semantics as the durable store but loses all
// entries on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	defaultTTLHours int
	clock           clockwork.Clock
	logger          *slog.Logger
	metrics         *observability.Metrics
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory cache store with the given default TTL.
func NewMemoryStore(defaultTTLHours int, logger *slog.Logger, metrics *observability.Metrics) *MemoryStore {
	return newMemoryStore(defaultTTLHours, clockwork.NewRealClock(), logger, metrics)
}

func newMemoryStore(defaultTTLHours int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *MemoryStore {
	if defaultTTLHours <= 0 {
		defaultTTLHours = 1
	}
	return &MemoryStore{
		entries:         make(map[string]memoryEntry),
		defaultTTLHours: defaultTTLHours,
		clock:           clock,
		logger:          logger,
		metrics:         metrics,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.miss(key)
		return nil, false
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		s.miss(key)
		return nil, false
	}

	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	s.logger.Debug("cache hit", "cache_key", key)
	return e.value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value any, ttlHours int) bool {
	if ttlHours <= 0 {
		ttlHours = s.defaultTTLHours
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("cache set failed", "cache_key", key, "error", err)
		s.metrics.CacheWriteFails.Inc()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:     data,
		expiresAt: s.clock.Now().Add(time.Duration(ttlHours) * time.Hour),
	}
	return true
}

func (s *MemoryStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return true
}

func (s *MemoryStore) Clear(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return true
}

func (s *MemoryStore) Cleanup(_ context.Context) bool {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
	return true
}

func (s *MemoryStore) miss(key string) {
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	s.logger.Debug("cache miss", "cache_key", key)
}
