package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 1, cfg.CacheTTLHours)
	assert.Equal(t, time.Hour, cfg.CacheCleanupInterval)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.GeminiBaseURL)
	assert.Equal(t, 15*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimBaseURL)
	assert.Equal(t, 10*time.Second, cfg.NominatimTimeout)
	assert.Equal(t, "https://api.twitter.com/2", cfg.TwitterBaseURL)
	assert.Equal(t, 10*time.Second, cfg.TwitterTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "disaster-events", cfg.KafkaEventsTopic)

	assert.False(t, cfg.GeminiEnabled())
	assert.False(t, cfg.TwitterEnabled())
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/app")
	t.Setenv("CACHE_TTL_HOURS", "6")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "15m")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("TWITTER_BEARER_TOKEN", "test-bearer")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_EVENTS_TOPIC", "events")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres://user:pw@localhost:5432/app", cfg.DatabaseURL)
	assert.Equal(t, 6, cfg.CacheTTLHours)
	assert.Equal(t, 15*time.Minute, cfg.CacheCleanupInterval)
	assert.Equal(t, 5*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "events", cfg.KafkaEventsTopic)

	assert.True(t, cfg.GeminiEnabled())
	assert.True(t, cfg.TwitterEnabled())
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeCleanupInterval(t *testing.T) {
	t.Setenv("CACHE_CLEANUP_INTERVAL", "-5m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_CLEANUP_INTERVAL")
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("CACHE_TTL_HOURS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL_HOURS")
}

func TestLoad_BlankBrokersDisableKafka(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
}
