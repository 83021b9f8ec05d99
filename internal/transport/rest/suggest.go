package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// maxSuggestLimit caps the limit query parameter.
const maxSuggestLimit = 50

// suggestService defines the minimal interface needed by SuggestHandler.
type suggestService interface {
	Collect(ctx context.Context, word string, sources []domain.SourceID, maxResults int) []string
}

// SuggestHandler serves the typo suggestion endpoint.
type SuggestHandler struct {
	svc          suggestService
	sources      []domain.SourceID
	defaultLimit int
	log          *slog.Logger
}

// NewSuggestHandler creates a SuggestHandler. sources is the default
// source set used when the request does not name any.
func NewSuggestHandler(svc suggestService, sources []domain.SourceID, defaultLimit int, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{
		svc:          svc,
		sources:      sources,
		defaultLimit: defaultLimit,
		log:          logger.With("handler", "suggest"),
	}
}

type suggestResponse struct {
	Word        string   `json:"word"`
	Suggestions []string `json:"suggestions"`
}

// Suggest handles GET /api/v1/suggest?word=...&limit=N.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		writeError(w, r, http.StatusBadRequest, "validation", "query parameter 'word' is required")
		return
	}

	sources, err := parseSources(r.URL.Query().Get("sources"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unknown_source", err.Error())
		return
	}
	if len(sources) == 0 {
		sources = h.sources
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "validation", "parameter 'limit' must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	suggestions := h.svc.Collect(r.Context(), word, sources, limit)
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, suggestResponse{Word: word, Suggestions: suggestions})
}
