package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/lookup"
)

// lookupService defines the minimal interface needed by LookupHandler.
type lookupService interface {
	Lookup(ctx context.Context, word string, sources []domain.SourceID) (*lookup.Operation, error)
}

// LookupHandler serves the dictionary lookup endpoint.
type LookupHandler struct {
	svc lookupService
	log *slog.Logger
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(svc lookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{svc: svc, log: logger.With("handler", "lookup")}
}

type senseDTO struct {
	Definition   string            `json:"definition"`
	Examples     []string          `json:"examples,omitempty"`
	Synonyms     []string          `json:"synonyms,omitempty"`
	PartOfSpeech string            `json:"part_of_speech,omitempty"`
	Syllables    string            `json:"syllables,omitempty"`
	IPA          map[string]string `json:"ipa,omitempty"`
	AudioURLs    map[string]string `json:"audio_urls,omitempty"`
	PictureURL   string            `json:"picture_url,omitempty"`
}

type lookupResponse struct {
	Word        string            `json:"word"`
	Senses      []senseDTO        `json:"senses"`
	Statuses    map[string]string `json:"statuses"`
	Errors      map[string]string `json:"errors,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// Lookup handles GET /api/v1/lookup?word=...&sources=a,b.
// Responds 200 with the aggregate senses, or 422 with per-source errors
// and typo suggestions when no source knew the word.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
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

	op, err := h.svc.Lookup(r.Context(), word, sources)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeError(w, r, http.StatusBadRequest, "validation", err.Error())
		case errors.Is(err, domain.ErrMissingDependency):
			writeError(w, r, http.StatusBadRequest, "unknown_source", err.Error())
		default:
			h.log.ErrorContext(r.Context(), "lookup failed", slog.String("error", err.Error()))
			writeError(w, r, http.StatusInternalServerError, "internal", "lookup failed")
		}
		return
	}

	res, err := op.Wait(r.Context())
	if err != nil {
		// Client went away before the lookup finished.
		return
	}
	if res.Canceled {
		writeError(w, r, http.StatusConflict, "superseded", "lookup superseded by a newer request")
		return
	}

	status := http.StatusOK
	if res.Empty() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, toLookupResponse(res))
}

func toLookupResponse(res lookup.Result) lookupResponse {
	out := lookupResponse{
		Word:        res.Word,
		Senses:      make([]senseDTO, 0, len(res.Senses)),
		Statuses:    make(map[string]string, len(res.Statuses)),
		Suggestions: res.Suggestions,
	}
	for _, s := range res.Senses {
		out.Senses = append(out.Senses, senseDTO{
			Definition:   s.Definition,
			Examples:     s.Examples,
			Synonyms:     s.Synonyms,
			PartOfSpeech: s.PartOfSpeech,
			Syllables:    s.Syllables,
			IPA:          s.IPA,
			AudioURLs:    s.AudioURLs,
			PictureURL:   s.PictureURL,
		})
	}
	for id, st := range res.Statuses {
		out.Statuses[string(id)] = string(st)
	}
	if len(res.Errors) > 0 {
		out.Errors = make(map[string]string, len(res.Errors))
		for id, msg := range res.Errors {
			out.Errors[string(id)] = msg
		}
	}
	return out
}

// parseSources splits a comma-separated sources parameter. An empty
// parameter means the configured defaults.
func parseSources(raw string) ([]domain.SourceID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ids []domain.SourceID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := domain.ParseSourceID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
