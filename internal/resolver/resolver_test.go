package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/divyashantkumar/disaster-response-platform/internal/cache"
	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) cache.Store {
	t.Helper()
	return cache.NewMemoryStore(1, discardLogger(), observability.NewMetricsForTesting())
}

// --- counting fakes ---

type fakeTextModel struct {
	text  string
	err   error
	calls int
}

func (f *fakeTextModel) GenerateText(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGeocoder struct {
	result domain.GeocodeResult
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (domain.GeocodeResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeAnalyzer struct {
	text  string
	err   error
	calls int
}

func (f *fakeAnalyzer) AnalyzeImage(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSearcher struct {
	posts []domain.RawSocialPost
	err   error
	calls int
	query string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]domain.RawSocialPost, error) {
	f.calls++
	f.query = query
	return f.posts, f.err
}

var errProvider = errors.New("provider unavailable")
