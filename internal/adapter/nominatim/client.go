// Package nominatim implements domain.Geocoder using the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

// ProviderName tags geocode results produced by this client.
const ProviderName = "openstreetmap"

// Nominatim's usage policy requires an identifying User-Agent.
const userAgent = "DisasterResponsePlatform/1.0"

// Client implements domain.Geocoder.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Nominatim geocoding client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Geocode resolves a location name to coordinates using the first candidate.
// Zero candidates return a zero result and a nil error.
func (c *Client) Geocode(ctx context.Context, locationName string) (domain.GeocodeResult, error) {
	params := url.Values{
		"q":      {locationName},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues(ProviderName, "geocoding").Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe("error")
		return domain.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.observe("error")
		return domain.GeocodeResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		c.observe("error")
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(candidates) == 0 {
		c.observe("no_results")
		return domain.GeocodeResult{}, nil
	}

	first := candidates[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lng, lngErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lngErr != nil {
		c.observe("error")
		return domain.GeocodeResult{}, fmt.Errorf("parse candidate coordinates %q,%q", first.Lat, first.Lon)
	}

	c.observe("success")
	return domain.ResolvedGeocode(lat, lng, first.DisplayName, ProviderName), nil
}

func (c *Client) observe(outcome string) {
	c.metrics.ProviderRequests.WithLabelValues(ProviderName, "geocoding", outcome).Inc()
	c.logger.Info("provider call", "provider", ProviderName, "operation", "geocoding", "outcome", outcome)
}

// Nominatim serializes coordinates as strings.
type candidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
