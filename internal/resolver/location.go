// Package resolver contains the stateless services that turn unstructured
// disaster reports into structured, geolocated, classified facts. Each
// service is cache-first, collapses concurrent identical lookups into one
// upstream call, and degrades to a well-formed fallback value on every
// provider failure; no method here ever returns an error to its caller.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/divyashantkumar/disaster-response-platform/internal/cache"
	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
)

const extractPrompt = `Extract the location name from the following disaster description. Return only the location name in a simple format like "City, State" or "City, Country". If no specific location is mentioned, return "Unknown location".

Description: %s

Location:`

// locationPatterns back up the generative model. Checked in order; the
// first capture group of the first matching pattern wins. Best effort only:
// capitalized common words can match incidentally.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[\s.,])(?i:in|at|near|around)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),\s*([A-Z]{2})\b`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),\s*([A-Z][a-z]+)`),
}

// LocationResolver extracts a human-readable location from free text and
// resolves it to coordinates, caching each step independently.
type LocationResolver struct {
	textModel domain.TextGenerator // nil when no API key is configured
	geocoder  domain.Geocoder
	cache     cache.Store
	logger    *slog.Logger

	warnOnce sync.Once
	sf       singleflight.Group
}

// NewLocationResolver creates a LocationResolver. Pass a nil textModel to
// force the regex fallback for extraction.
func NewLocationResolver(textModel domain.TextGenerator, geocoder domain.Geocoder, store cache.Store, logger *slog.Logger) *LocationResolver {
	return &LocationResolver{
		textModel: textModel,
		geocoder:  geocoder,
		cache:     store,
		logger:    logger,
	}
}

// ExtractLocation pulls a location name out of a disaster description.
// Returns the "Unknown location" sentinel when nothing can be extracted.
// Fallback results are cached too, so identical text does not retry a
// failing provider.
func (r *LocationResolver) ExtractLocation(ctx context.Context, description string) string {
	key := cache.Key("gemini", "location", description)
	if loc, ok := cache.GetJSON[string](ctx, r.cache, key); ok {
		return loc
	}

	v, _, _ := r.sf.Do(key, func() (any, error) {
		loc := r.extractUncached(ctx, description)
		r.cache.Set(ctx, key, loc, cache.DefaultTTL)
		return loc, nil
	})
	return v.(string)
}

func (r *LocationResolver) extractUncached(ctx context.Context, description string) string {
	if r.textModel == nil {
		r.warnOnce.Do(func() {
			r.logger.Warn("gemini API key not configured, using fallback location extraction")
		})
		return fallbackExtract(description)
	}

	loc, err := r.textModel.GenerateText(ctx, fmt.Sprintf(extractPrompt, description))
	if err != nil || loc == "" {
		r.logger.Warn("location extraction failed, using fallback", "error", err)
		return fallbackExtract(description)
	}
	return loc
}

// Geocode resolves a location name to coordinates. Empty and sentinel names
// short-circuit without a provider call or cache write; unresolvable names
// come back degraded (nil coordinates) and are not cached, so they can be
// retried once the provider recovers.
func (r *LocationResolver) Geocode(ctx context.Context, locationName string) domain.GeocodeResult {
	if locationName == "" || locationName == domain.UnknownLocation {
		return domain.UnresolvedGeocode(locationName)
	}

	key := cache.Key("geocoding", locationName)
	if result, ok := cache.GetJSON[domain.GeocodeResult](ctx, r.cache, key); ok {
		return result
	}

	v, _, _ := r.sf.Do(key, func() (any, error) {
		result, err := r.geocoder.Geocode(ctx, locationName)
		if err != nil {
			r.logger.Warn("geocoding failed", "location", locationName, "error", err)
			return domain.UnresolvedGeocode(locationName), nil
		}
		if !result.Resolved() {
			return domain.UnresolvedGeocode(locationName), nil
		}
		r.cache.Set(ctx, key, result, cache.DefaultTTL)
		return result, nil
	})
	return v.(domain.GeocodeResult)
}

func fallbackExtract(description string) string {
	for _, pattern := range locationPatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return m[1]
		}
	}
	return domain.UnknownLocation
}
