package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Lower East Side, NYC", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		require.NoError(t, json.NewEncoder(w).Encode([]candidate{
			{Lat: "40.7150", Lon: "-73.9843", DisplayName: "Lower East Side, Manhattan, New York"},
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Geocode(context.Background(), "Lower East Side, NYC")
	require.NoError(t, err)

	require.True(t, result.Resolved())
	assert.Equal(t, 40.7150, *result.Lat)
	assert.Equal(t, -73.9843, *result.Lng)
	assert.Equal(t, "Lower East Side, Manhattan, New York", result.FormattedAddress)
	assert.Equal(t, ProviderName, result.Provider)
}

func TestGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Geocode(context.Background(), "Nowhereville")
	require.NoError(t, err)
	assert.False(t, result.Resolved())
	assert.Empty(t, result.FormattedAddress)
}

func TestGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "Austin, TX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeocode_UnparseableCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]candidate{
			{Lat: "not-a-number", Lon: "-73.98", DisplayName: "Somewhere"},
		}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "Somewhere")
	require.Error(t, err)
}

func TestGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Geocode(context.Background(), "Austin, TX")
	require.Error(t, err)
}
