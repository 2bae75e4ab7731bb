package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divyashantkumar/disaster-response-platform/internal/domain"
	"github.com/divyashantkumar/disaster-response-platform/internal/resolver"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// EventPublisher emits platform events for downstream consumers. Publishing
// is best-effort and never fails a request.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// Server exposes the resolution API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	locations *resolver.LocationResolver
	media     *resolver.MediaVerifier
	social    *resolver.SocialFeedAggregator
	events    EventPublisher // nil when Kafka is not configured
}

// NewServer wires the resolvers into a chi router. Pass a nil events
// publisher to disable event emission.
func NewServer(
	addr string,
	ready ReadinessChecker,
	locations *resolver.LocationResolver,
	media *resolver.MediaVerifier,
	social *resolver.SocialFeedAggregator,
	events EventPublisher,
	logger *slog.Logger,
) *Server {
	s := &Server{
		logger:    logger,
		locations: locations,
		media:     media,
		social:    social,
		events:    events,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/geocode", s.handleGeocode)
	r.Post("/verification/{disasterID}/verify-image", s.handleVerifyImage)
	r.Get("/disasters/{disasterID}/social-media", s.handleSocialMedia)
	r.Get("/disasters/{disasterID}/priority-alerts", s.handlePriorityAlerts)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type geocodeRequest struct {
	Description  string `json:"description"`
	LocationName string `json:"location_name"`
}

type geocodeResponse struct {
	LocationName string               `json:"location_name"`
	Geocoding    domain.GeocodeResult `json:"geocoding"`
}

// handleGeocode resolves a location for a disaster description. An explicit
// location_name skips the extraction step.
func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Description == "" && req.LocationName == "" {
		writeError(w, http.StatusBadRequest, "description or location_name is required")
		return
	}

	name := req.LocationName
	if name == "" {
		name = s.locations.ExtractLocation(r.Context(), req.Description)
	}
	result := s.locations.Geocode(r.Context(), name)

	writeJSON(w, http.StatusOK, geocodeResponse{LocationName: name, Geocoding: result})
}

type verifyImageRequest struct {
	ImageURL string `json:"image_url"`
}

type verifyImageResponse struct {
	Verification domain.VerificationRecord `json:"verification"`
}

func (s *Server) handleVerifyImage(w http.ResponseWriter, r *http.Request) {
	disasterID := chi.URLParam(r, "disasterID")

	var req verifyImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url is required")
		return
	}

	record := s.media.VerifyImage(r.Context(), req.ImageURL)
	s.publishEvent(r.Context(), "image_verified", disasterID, map[string]any{
		"disaster_id":  disasterID,
		"image_url":    req.ImageURL,
		"verification": record,
	})

	writeJSON(w, http.StatusOK, verifyImageResponse{Verification: record})
}

func (s *Server) handleSocialMedia(w http.ResponseWriter, r *http.Request) {
	disasterID := chi.URLParam(r, "disasterID")
	keywords := parseKeywords(r.URL.Query().Get("keywords"))

	posts := s.social.GetSocialMediaReports(r.Context(), disasterID, keywords)
	s.publishEvent(r.Context(), "social_media_updated", disasterID, map[string]any{
		"disaster_id": disasterID,
		"count":       len(posts),
	})

	writeJSON(w, http.StatusOK, map[string]any{"data": posts})
}

func (s *Server) handlePriorityAlerts(w http.ResponseWriter, r *http.Request) {
	disasterID := chi.URLParam(r, "disasterID")

	alerts := s.social.GetPriorityAlerts(r.Context(), disasterID)
	writeJSON(w, http.StatusOK, map[string]any{"data": alerts})
}

func (s *Server) publishEvent(ctx context.Context, eventType, key string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, key, payload); err != nil {
		s.logger.Warn("event publish failed", "event_type", eventType, "error", err)
	}
}

// parseKeywords splits a comma-separated query parameter, dropping empty
// entries.
func parseKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
