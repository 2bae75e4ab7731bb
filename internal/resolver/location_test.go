package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
)

func TestExtractLocation_UsesModelAndCaches(t *testing.T) {
	model := &fakeTextModel{text: "Manhattan, NYC"}
	r := NewLocationResolver(model, &fakeGeocoder{}, newTestStore(t), discardLogger())
	ctx := context.Background()

	assert.Equal(t, "Manhattan, NYC", r.ExtractLocation(ctx, "Heavy flooding in Manhattan"))
	assert.Equal(t, "Manhattan, NYC", r.ExtractLocation(ctx, "Heavy flooding in Manhattan"))
	assert.Equal(t, 1, model.calls, "second call should hit the cache")
}

func TestExtractLocation_ModelErrorFallsBackAndCaches(t *testing.T) {
	model := &fakeTextModel{err: errProvider}
	r := NewLocationResolver(model, &fakeGeocoder{}, newTestStore(t), discardLogger())
	ctx := context.Background()

	loc := r.ExtractLocation(ctx, "Fire reported near Oakland Hills yesterday")
	assert.Equal(t, "Oakland Hills", loc)

	// The fallback result is cached so identical text does not retry the
	// failing provider.
	r.ExtractLocation(ctx, "Fire reported near Oakland Hills yesterday")
	assert.Equal(t, 1, model.calls)
}

func TestExtractLocation_NoModelUsesFallback(t *testing.T) {
	r := NewLocationResolver(nil, &fakeGeocoder{}, newTestStore(t), discardLogger())

	loc := r.ExtractLocation(context.Background(), "Flooding in Lower Manhattan today")
	assert.Equal(t, "Lower Manhattan", loc)
}

func TestFallbackExtract(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"preposition pattern", "Flooding in Lower Manhattan today", "Lower Manhattan"},
		{"city state pattern", "Heavy rain. Springfield, IL is under water", "Springfield"},
		{"city country pattern", "Earthquake hits Lisbon, Portugal", "Lisbon"},
		{"preposition case insensitive", "Wildfire NEAR Santa Rosa spreading fast", "Santa Rosa"},
		{"no location", "massive power outage reported downtown", domain.UnknownLocation},
		{"empty description", "", domain.UnknownLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackExtract(tt.description))
		})
	}
}

func TestGeocode_ShortCircuitsSentinelAndEmpty(t *testing.T) {
	geocoder := &fakeGeocoder{result: domain.ResolvedGeocode(1, 2, "x", "test")}
	r := NewLocationResolver(nil, geocoder, newTestStore(t), discardLogger())
	ctx := context.Background()

	result := r.Geocode(ctx, domain.UnknownLocation)
	assert.False(t, result.Resolved())
	assert.Equal(t, domain.UnknownLocation, result.FormattedAddress)

	result = r.Geocode(ctx, "")
	assert.False(t, result.Resolved())
	assert.Empty(t, result.FormattedAddress)

	assert.Zero(t, geocoder.calls, "short-circuit must not call the provider")
}

func TestGeocode_SuccessIsCached(t *testing.T) {
	geocoder := &fakeGeocoder{
		result: domain.ResolvedGeocode(40.715, -73.9843, "Lower East Side, Manhattan", "openstreetmap"),
	}
	r := NewLocationResolver(nil, geocoder, newTestStore(t), discardLogger())
	ctx := context.Background()

	r1 := r.Geocode(ctx, "Lower East Side, NYC")
	require.True(t, r1.Resolved())
	assert.Equal(t, 40.715, *r1.Lat)
	assert.Equal(t, -73.9843, *r1.Lng)
	assert.Equal(t, "openstreetmap", r1.Provider)

	r2 := r.Geocode(ctx, "Lower East Side, NYC")
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, geocoder.calls, "second call should hit the cache")
}

func TestGeocode_ProviderErrorIsDegradedAndNotCached(t *testing.T) {
	geocoder := &fakeGeocoder{err: errProvider}
	r := NewLocationResolver(nil, geocoder, newTestStore(t), discardLogger())
	ctx := context.Background()

	result := r.Geocode(ctx, "Atlantis")
	assert.False(t, result.Resolved())
	assert.Equal(t, "Atlantis", result.FormattedAddress)

	r.Geocode(ctx, "Atlantis")
	assert.Equal(t, 2, geocoder.calls, "failures must not be cached")
}

func TestGeocode_NoCandidatesIsDegradedAndNotCached(t *testing.T) {
	geocoder := &fakeGeocoder{} // zero result, nil error
	r := NewLocationResolver(nil, geocoder, newTestStore(t), discardLogger())
	ctx := context.Background()

	result := r.Geocode(ctx, "Nowhereville")
	assert.False(t, result.Resolved())
	assert.Equal(t, "Nowhereville", result.FormattedAddress)

	r.Geocode(ctx, "Nowhereville")
	assert.Equal(t, 2, geocoder.calls)
}
