package domain

import (
	"fmt"
	"math"
)

// UnknownLocation is the in-band sentinel for "no location could be
// determined". It flows through extraction results and short-circuits
// geocoding.
const UnknownLocation = "Unknown location"

// GeocodeResult is the outcome of resolving a location name to coordinates.
// Lat and Lng are nil together when the name could not be resolved; the
// FormattedAddress then carries the input name (or the sentinel) unchanged.
type GeocodeResult struct {
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	FormattedAddress string   `json:"formatted_address"`
	Provider         string   `json:"provider,omitempty"`
}

// Resolved reports whether the result carries usable coordinates.
func (r GeocodeResult) Resolved() bool {
	return r.Lat != nil && r.Lng != nil
}

// ResolvedGeocode builds a successful GeocodeResult.
func ResolvedGeocode(lat, lng float64, formattedAddress, provider string) GeocodeResult {
	return GeocodeResult{
		Lat:              &lat,
		Lng:              &lng,
		FormattedAddress: formattedAddress,
		Provider:         provider,
	}
}

// UnresolvedGeocode builds the degraded GeocodeResult for a name that could
// not be geocoded.
func UnresolvedGeocode(locationName string) GeocodeResult {
	return GeocodeResult{FormattedAddress: locationName}
}

// PostGISPoint encodes coordinates as WKT for the persistence layer's
// geography column. Returns "" when either coordinate is missing.
func PostGISPoint(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return ""
	}
	// WKT uses lng-lat order.
	return fmt.Sprintf("POINT(%v %v)", *lng, *lat)
}

// DistanceKM returns the great-circle distance in kilometers between two
// coordinate pairs.
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKM = 6371

	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
