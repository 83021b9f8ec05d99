package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch"
	"github.com/heartmarshall/wordfetch/internal/lookup"
	"github.com/heartmarshall/wordfetch/internal/typo"
)

type stubFetcher struct {
	id       domain.SourceID
	senses   map[string][]domain.Sense
	suggest  map[string][]string
	fetchErr error
}

func (s *stubFetcher) ID() domain.SourceID   { return s.id }
func (s *stubFetcher) Label() string         { return string(s.id) }
func (s *stubFetcher) SupportsAudio() bool   { return false }
func (s *stubFetcher) SupportsPicture() bool { return false }

func (s *stubFetcher) Fetch(_ context.Context, word string) ([]domain.Sense, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.senses[word], nil
}

func (s *stubFetcher) Suggest(_ context.Context, word string, _ int) ([]string, error) {
	return s.suggest[word], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLookupHandler(t *testing.T, fetchers ...fetch.Fetcher) *LookupHandler {
	t.Helper()
	logger := discardLogger()
	registry := fetch.NewRegistry(fetchers...)
	typoCfg := config.TypoConfig{
		Enabled: true, MaxResults: 12, MaxQueries: 18,
		MaxWorkers: 8, CacheSize: 100, SuggestEach: 8,
	}
	svc := lookup.NewService(
		registry,
		typo.NewCollector(registry, typoCfg, logger),
		typo.NewVerifier(registry, typoCfg.MaxWorkers, logger),
		config.LookupConfig{MaxWorkers: 4},
		typoCfg,
		logger,
	)
	return NewLookupHandler(svc, logger)
}

func TestLookupEndpointReturnsSenses(t *testing.T) {
	h := testLookupHandler(t, &stubFetcher{
		id: domain.SourceCambridge,
		senses: map[string][]domain.Sense{
			"house": {{Definition: "a building for people to live in", PartOfSpeech: "noun"}},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup?word=house", nil)
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp lookupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "house", resp.Word)
	require.Len(t, resp.Senses, 1)
	assert.Equal(t, "a building for people to live in", resp.Senses[0].Definition)
	assert.Equal(t, "ok", resp.Statuses["cambridge"])
	assert.Empty(t, resp.Suggestions)
}

func TestLookupEndpointEmptyWordIs422WithSuggestions(t *testing.T) {
	h := testLookupHandler(t, &stubFetcher{
		id: domain.SourceCambridge,
		senses: map[string][]domain.Sense{
			"house": {{Definition: "a building"}},
		},
		suggest: map[string][]string{
			"huose": {"house"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup?word=huose", nil)
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp lookupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Senses)
	assert.Equal(t, "empty", resp.Statuses["cambridge"])
	assert.Contains(t, resp.Suggestions, "house")
}

func TestLookupEndpointReportsSourceErrors(t *testing.T) {
	h := testLookupHandler(t,
		&stubFetcher{
			id: domain.SourceCambridge,
			senses: map[string][]domain.Sense{
				"house": {{Definition: "a building"}},
			},
		},
		&stubFetcher{
			id:       domain.SourceWiktionaryEn,
			fetchErr: errors.New("parse failure"),
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup?word=house", nil)
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp lookupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Statuses["cambridge"])
	assert.Equal(t, "error", resp.Statuses["wiktionary_en"])
	assert.Contains(t, resp.Errors["wiktionary_en"], "parse failure")
}

func TestLookupEndpointRequiresWord(t *testing.T) {
	h := testLookupHandler(t, &stubFetcher{id: domain.SourceCambridge})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup", nil)
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookupEndpointRejectsUnknownSource(t *testing.T) {
	h := testLookupHandler(t, &stubFetcher{id: domain.SourceCambridge})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup?word=house&sources=nosuch", nil)
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "unknown_source", resp.Error.Code)
}

func TestLookupEndpointFiltersBySource(t *testing.T) {
	h := testLookupHandler(t,
		&stubFetcher{
			id: domain.SourceCambridge,
			senses: map[string][]domain.Sense{
				"house": {{Definition: "cambridge sense"}},
			},
		},
		&stubFetcher{
			id: domain.SourceWiktionaryEn,
			senses: map[string][]domain.Sense{
				"house": {{Definition: "wiktionary sense"}},
			},
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup?word=house&sources=cambridge", nil)
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp lookupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Senses, 1)
	assert.Equal(t, "cambridge sense", resp.Senses[0].Definition)
	_, polled := resp.Statuses["wiktionary_en"]
	assert.False(t, polled)
}
