package domain

import "context"

// Geocoder resolves a free-text location name to coordinates. A provider
// with no candidates returns a zero GeocodeResult and a nil error.
type Geocoder interface {
	Geocode(ctx context.Context, locationName string) (GeocodeResult, error)
}

// TextGenerator produces free-form text from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageAnalyzer fetches an image by URL and returns the model's free-form
// assessment of it against the prompt.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, prompt, imageURL string) (string, error)
}

// SocialSearcher queries a live social feed. An empty result set returns an
// empty slice and a nil error.
type SocialSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]RawSocialPost, error)
}
