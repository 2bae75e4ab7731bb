package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Durable cache configuration. An empty DatabaseURL switches the
	// service to the in-memory cache store.
	DatabaseURL          string
	CacheTTLHours        int
	CacheCleanupInterval time.Duration

	// Gemini generative-text / vision configuration.
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Nominatim geocoding configuration.
	NominatimBaseURL string
	NominatimTimeout time.Duration

	// Twitter social feed configuration.
	TwitterBearerToken string
	TwitterBaseURL     string
	TwitterTimeout     time.Duration

	// Kafka event fan-out configuration. Empty brokers disables publishing.
	KafkaBrokers     []string
	KafkaEventsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cleanupInterval, err := parseDuration("CACHE_CLEANUP_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	geminiTimeout, err := parseDuration("GEMINI_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := parseDuration("NOMINATIM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	twitterTimeout, err := parseDuration("TWITTER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	ttlHours, err := parseCacheTTLHours()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL:          os.Getenv("DATABASE_URL"),
		CacheTTLHours:        ttlHours,
		CacheCleanupInterval: cleanupInterval,

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout: geminiTimeout,

		NominatimBaseURL: envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimTimeout: nominatimTimeout,

		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		TwitterBaseURL:     envOrDefault("TWITTER_BASE_URL", "https://api.twitter.com/2"),
		TwitterTimeout:     twitterTimeout,

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic: envOrDefault("KAFKA_EVENTS_TOPIC", "disaster-events"),
	}

	return cfg, nil
}

// GeminiEnabled reports whether generative-text and vision features are configured.
func (c *Config) GeminiEnabled() bool { return c.GeminiAPIKey != "" }

// TwitterEnabled reports whether the live social feed is configured.
func (c *Config) TwitterEnabled() bool { return c.TwitterBearerToken != "" }

// KafkaEnabled reports whether event fan-out is configured.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheTTLHours() (int, error) {
	s := os.Getenv("CACHE_TTL_HOURS")
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid CACHE_TTL_HOURS")
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
