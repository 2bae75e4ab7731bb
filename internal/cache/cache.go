// Package cache provides the shared expiring key/value store that fronts
// every expensive external lookup. All operations fail soft: a broken or
// unreachable backing store degrades to a permanent cache miss, never to an
// error surfaced to callers.
package cache

import (
	"context"
	"encoding/json"
	"strings"
)

// DefaultTTL selects the store's configured default TTL on Set.
const DefaultTTL = 0

// Store is an expiring key/value store. Get reports a miss for absent,
// expired, and unreadable entries alike; Set/Delete/Clear/Cleanup report
// failure as false and never return errors.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value any, ttlHours int) bool
	Delete(ctx context.Context, key string) bool
	Clear(ctx context.Context) bool
	Cleanup(ctx context.Context) bool
}

// Key builds a namespaced cache key. Callers must pass enough parts to
// disambiguate unrelated lookups sharing a prefix.
func Key(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// GetJSON reads key from the store and unmarshals it into T. A payload that
// does not unmarshal is treated as a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T
	data, ok := s.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}
