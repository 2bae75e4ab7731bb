package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/divyashantkumar/disaster-response-platform/internal/cache"
	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

const (
	// defaultSearchQuery is used when the caller provides no keywords.
	defaultSearchQuery = "disaster OR emergency OR flood OR earthquake OR fire"

	maxSearchResults = 20
)

// SocialFeedAggregator fetches or synthesizes social posts for a disaster
// and classifies them. Callers cannot distinguish live from mock data except
// via the Source field.
type SocialFeedAggregator struct {
	feed    domain.SocialSearcher // nil when no bearer token is configured
	cache   cache.Store
	logger  *slog.Logger
	metrics *observability.Metrics

	warnOnce sync.Once
	sf       singleflight.Group
}

// NewSocialFeedAggregator creates a SocialFeedAggregator. Pass a nil feed to
// always serve the deterministic mock data.
func NewSocialFeedAggregator(feed domain.SocialSearcher, store cache.Store, logger *slog.Logger, metrics *observability.Metrics) *SocialFeedAggregator {
	return &SocialFeedAggregator{
		feed:    feed,
		cache:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// GetSocialMediaReports returns normalized, classified posts for a disaster.
// The cache key is sensitive to keyword order. Live data is preferred; a
// missing provider, provider error, or empty live result all fall back to
// the deterministic mock feed.
func (a *SocialFeedAggregator) GetSocialMediaReports(ctx context.Context, disasterID string, keywords []string) []domain.SocialPost {
	key := cache.Key("social_media", disasterID, strings.Join(keywords, ","))
	if posts, ok := cache.GetJSON[[]domain.SocialPost](ctx, a.cache, key); ok {
		return posts
	}

	v, _, _ := a.sf.Do(key, func() (any, error) {
		posts := a.fetch(ctx, disasterID, keywords)
		a.cache.Set(ctx, key, posts, cache.DefaultTTL)
		return posts, nil
	})
	return v.([]domain.SocialPost)
}

// GetPriorityAlerts returns the critical and high priority posts for a
// disaster.
func (a *SocialFeedAggregator) GetPriorityAlerts(ctx context.Context, disasterID string) []domain.SocialPost {
	reports := a.GetSocialMediaReports(ctx, disasterID, nil)

	alerts := make([]domain.SocialPost, 0, len(reports))
	for _, post := range reports {
		if post.Priority == domain.PriorityCritical || post.Priority == domain.PriorityHigh {
			alerts = append(alerts, post)
		}
	}
	return alerts
}

func (a *SocialFeedAggregator) fetch(ctx context.Context, disasterID string, keywords []string) []domain.SocialPost {
	if a.feed == nil {
		a.warnOnce.Do(func() {
			a.logger.Warn("twitter credentials not configured, serving mock social media data")
		})
	} else {
		raw, err := a.feed.Search(ctx, buildSearchQuery(keywords), maxSearchResults)
		if err != nil {
			a.logger.Warn("social feed search failed, falling back to mock data",
				"disaster_id", disasterID, "error", err)
		} else if len(raw) > 0 {
			return a.normalize(raw, domain.SourceLive)
		}
	}

	mock := filterByKeywords(domain.MockSocialReports(disasterID), keywords)
	return a.normalize(mock, domain.SourceMock)
}

func (a *SocialFeedAggregator) normalize(raw []domain.RawSocialPost, source domain.Source) []domain.SocialPost {
	posts := make([]domain.SocialPost, 0, len(raw))
	for _, r := range raw {
		posts = append(posts, domain.NormalizeSocialPost(r, source))
	}
	a.metrics.SocialReports.WithLabelValues(string(source)).Add(float64(len(posts)))
	return posts
}

// buildSearchQuery OR-joins quoted keywords, or falls back to the fixed
// default expression.
func buildSearchQuery(keywords []string) string {
	if len(keywords) == 0 {
		return defaultSearchQuery
	}

	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = `"` + k + `"`
	}
	return strings.Join(quoted, " OR ")
}

func filterByKeywords(raw []domain.RawSocialPost, keywords []string) []domain.RawSocialPost {
	if len(keywords) == 0 {
		return raw
	}

	filtered := make([]domain.RawSocialPost, 0, len(raw))
	for _, r := range raw {
		lower := strings.ToLower(r.Text)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}
