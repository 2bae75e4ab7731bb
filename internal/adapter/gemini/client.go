// Package gemini implements the generative-text and vision provider clients
// over the Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/divyashantkumar/disaster-response-platform/internal/observability"
)

const (
	textModel   = "gemini-pro"
	visionModel = "gemini-pro-vision"
)

// Client implements domain.TextGenerator and domain.ImageAnalyzer.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Gemini client.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// GenerateText sends a prompt to the text model and returns the first
// candidate's text, trimmed.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	body := requestBody{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	return c.generate(ctx, textModel, "generate_text", body)
}

// AnalyzeImage fetches the image, base64-encodes it, and submits it to the
// vision model alongside the prompt.
func (c *Client) AnalyzeImage(ctx context.Context, prompt, imageURL string) (string, error) {
	encoded, err := c.fetchImageBase64(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	body := requestBody{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: encoded}},
			},
		}},
	}
	return c.generate(ctx, visionModel, "analyze_image", body)
}

func (c *Client) generate(ctx context.Context, model, operation string, body requestBody) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues("gemini", operation).Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe(operation, "error")
		return "", fmt.Errorf("%s request: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(operation, "error")
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.observe(operation, "error")
		return "", fmt.Errorf("gemini API error: status %d: %s", resp.StatusCode, raw)
	}

	// The interesting text is buried several levels deep in a response whose
	// shape varies with safety blocks and candidate counts.
	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		c.observe(operation, "no_results")
		return "", fmt.Errorf("gemini response contained no candidate text")
	}

	c.observe(operation, "success")
	return strings.TrimSpace(text.String()), nil
}

func (c *Client) fetchImageBase64(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (c *Client) observe(operation, outcome string) {
	c.metrics.ProviderRequests.WithLabelValues("gemini", operation, outcome).Inc()
	c.logger.Info("provider call", "provider", "gemini", "operation", operation, "outcome", outcome)
}

// Gemini API request types.

type requestBody struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}
