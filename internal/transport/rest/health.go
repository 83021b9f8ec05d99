package rest

import (
	"net/http"
	"time"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// sourceLister defines the minimal registry view for health checks.
type sourceLister interface {
	IDs() []domain.SourceID
	Label(id domain.SourceID) string
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	sources sourceLister
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(sources sourceLister, version string) *HealthHandler {
	return &HealthHandler{sources: sources, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status string `json:"status"`
	Label  string `json:"label,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 once at least one dictionary source
// is registered, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if len(h.sources.IDs()) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check: version plus one component per
// registered dictionary source.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ids := h.sources.IDs()
	components := make(map[string]CompStatus, len(ids))
	for _, id := range ids {
		components[string(id)] = CompStatus{
			Status: "ok",
			Label:  h.sources.Label(id),
		}
	}

	status := http.StatusOK
	overall := "ok"
	if len(ids) == 0 {
		status = http.StatusServiceUnavailable
		overall = "down"
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
