// Package twitter implements domain.SocialSearcher over the Twitter v2
// recent search API.
package twitter

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

const providerName = "twitter"

// Client implements domain.SocialSearcher.
type Client struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewClient creates a Twitter recent-search client.
func NewClient(bearerToken, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		bearerToken: bearerToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		metrics:     metrics,
	}
}

// Search runs a recent-search query and returns the raw posts with author
// details joined from the user expansion. An empty result set returns an
// empty slice and a nil error.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.RawSocialPost, error) {
	params := url.Values{
		"query":        {query},
		"max_results":  {strconv.Itoa(maxResults)},
		"tweet.fields": {"created_at,author_id,text"},
		"user.fields":  {"username,name"},
		"expansions":   {"author_id"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues(providerName, "search").Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe("error")
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.observe("error")
		return nil, fmt.Errorf("twitter API error: status %d: %s", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		c.observe("error")
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(sr.Data) == 0 {
		c.observe("no_results")
		return []domain.RawSocialPost{}, nil
	}

	users := make(map[string]user, len(sr.Includes.Users))
	for _, u := range sr.Includes.Users {
		users[u.ID] = u
	}

	posts := make([]domain.RawSocialPost, 0, len(sr.Data))
	for _, tw := range sr.Data {
		author := users[tw.AuthorID]
		posts = append(posts, domain.RawSocialPost{
			ID:        tw.ID,
			Text:      tw.Text,
			AuthorID:  tw.AuthorID,
			Username:  author.Username,
			Name:      author.Name,
			CreatedAt: tw.CreatedAt,
		})
	}

	c.observe("success")
	return posts, nil
}

func (c *Client) observe(outcome string) {
	c.metrics.ProviderRequests.WithLabelValues(providerName, "search", outcome).Inc()
	c.logger.Info("provider call", "provider", providerName, "operation", "search", "outcome", outcome)
}

// Twitter v2 API response types.

type searchResponse struct {
	Data     []tweet  `json:"data"`
	Includes includes `json:"includes"`
}

type tweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type includes struct {
	Users []user `json:"users"`
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
