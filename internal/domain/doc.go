// Package domain models the structured facts the resolution layer produces
// from unstructured disaster reports.
//
// # Sentinel location
//
// Location extraction returns the literal string "Unknown location" when no
// location can be determined, whether by the generative model or by the
// regex fallback. Geocoding treats the sentinel (and the empty string) as
// "nothing to resolve" and short-circuits without touching the provider or
// the cache. [GeocodeResult] represents "unresolved" as both Lat and Lng
// nil; one is never nil without the other.
//
// # Social report classification
//
// Priority and report type are pure functions of the post content, checked
// against ordered keyword tiers with case-insensitive substring matching.
// First match wins:
//
//	Priority: critical {SOS, urgent, immediate, trapped, emergency}
//	        | high     {need, help, assistance, critical}
//	        | medium   {volunteer, shelter, food, water}
//	        | low      (no match)
//
//	Type:     need    {need, help}
//	        | offer   {shelter, food, water}
//	        | alert   {SOS, emergency}
//	        | request {volunteer, assist}
//	        | update  {restored, recovery}
//	        | general (no match)
//
// The keyword tag set is the intersection of a fixed nine-word vocabulary
// (flood, earthquake, fire, shelter, food, water, medical, rescue,
// volunteer) with the content. Because classification depends only on
// content, live and mock posts with identical text classify identically;
// provenance is visible only through the Source field.
//
// # Geometry
//
// [PostGISPoint] encodes resolved coordinates in WKT "POINT(lng lat)" form
// for the persistence layer's spatial column, and [DistanceKM] computes
// great-circle kilometers for radius filtering.
package domain
