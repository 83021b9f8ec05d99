// Package cambridge fetches and parses Cambridge Dictionary entry pages.
//
// Cambridge markup drifts constantly, so every extraction step runs an
// ordered chain of selectors with a regex-based scan as the last escape
// hatch. Audio is additionally recovered from the AMP rendering of the
// same page when the primary one hides it behind scripts.
package cambridge

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
)

const (
	baseURL       = "https://dictionary.cambridge.org/dictionary/english/"
	ampURL        = "https://dictionary.cambridge.org/amp/english/"
	spellcheckURL = "https://dictionary.cambridge.org/spellcheck/english/?q="
	refererURL    = "https://dictionary.cambridge.org/"
)

// Fetcher extracts word senses from dictionary.cambridge.org.
type Fetcher struct {
	client *httpx.Client
	log    *slog.Logger

	// Overridable for tests.
	base       string
	amp        string
	spellcheck string
}

// New creates a Cambridge fetcher.
func New(client *httpx.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:     client,
		log:        logger.With("source", "cambridge"),
		base:       baseURL,
		amp:        ampURL,
		spellcheck: spellcheckURL,
	}
}

func (f *Fetcher) ID() domain.SourceID { return domain.SourceCambridge }

func (f *Fetcher) Label() string { return "Cambridge Dictionary (en)" }

func (f *Fetcher) SupportsAudio() bool { return true }

func (f *Fetcher) SupportsPicture() bool { return true }

// Fetch retrieves and parses the entry page for word.
// If the primary rendering times out, the AMP rendering is tried before
// giving up; if the primary parses but exposes no audio, audio and
// pictures are merged in from the AMP page.
func (f *Fetcher) Fetch(ctx context.Context, word string) ([]domain.Sense, error) {
	senses, baseErr := f.fetchPage(ctx, f.base, word)
	if baseErr != nil {
		if !domain.IsTimeout(baseErr) {
			return nil, baseErr
		}
		// The primary page stalls under load while AMP stays up.
		f.log.WarnContext(ctx, "primary page timed out, trying amp",
			slog.String("word", word))
		ampSenses, ampErr := f.fetchPage(ctx, f.amp, word)
		if ampErr != nil {
			return nil, fmt.Errorf("cambridge %w for %q", domain.ErrTimeout, word)
		}
		return ampSenses, nil
	}

	if len(senses) > 0 && !anyAudio(senses) {
		f.mergeAMPMedia(ctx, word, senses)
	}

	f.log.DebugContext(ctx, "fetched",
		slog.String("word", word), slog.Int("senses", len(senses)))
	return senses, nil
}

// fetchPage GETs one rendering of the entry page and parses it.
// Returns (nil, nil) when the word is not in the dictionary.
func (f *Fetcher) fetchPage(ctx context.Context, base, word string) ([]domain.Sense, error) {
	doc, err := f.client.GetDocument(ctx, base+wordPath(word))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return parseEntryPage(doc), nil
}

// mergeAMPMedia fetches the AMP rendering and copies audio/picture data
// onto the already-parsed senses, matching them by position. Failures are
// logged and swallowed: the senses themselves are already in hand.
func (f *Fetcher) mergeAMPMedia(ctx context.Context, word string, senses []domain.Sense) {
	ampSenses, err := f.fetchPage(ctx, f.amp, word)
	if err != nil {
		f.log.DebugContext(ctx, "amp media fallback failed",
			slog.String("word", word), slog.String("error", err.Error()))
		return
	}
	for i := range senses {
		if i >= len(ampSenses) {
			break
		}
		if len(senses[i].AudioURLs) == 0 && len(ampSenses[i].AudioURLs) > 0 {
			senses[i].AudioURLs = ampSenses[i].AudioURLs
		}
		if senses[i].PictureURL == "" && ampSenses[i].PictureURL != "" {
			senses[i].PictureURL = ampSenses[i].PictureURL
			senses[i].PictureReferer = refererURL
		}
	}
}

// Suggest queries the spellcheck page and returns its ranked corrections.
func (f *Fetcher) Suggest(ctx context.Context, word string, limit int) ([]string, error) {
	query := strings.TrimSpace(word)
	if query == "" || limit < 1 {
		return nil, nil
	}
	doc, err := f.client.GetDocument(ctx, f.spellcheck+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return parseSpellcheck(doc, query, limit), nil
}

// wordPath converts a query to Cambridge's URL form: spaces become hyphens.
func wordPath(word string) string {
	return url.PathEscape(strings.ReplaceAll(strings.TrimSpace(word), " ", "-"))
}

func anyAudio(senses []domain.Sense) bool {
	for _, s := range senses {
		if len(s.AudioURLs) > 0 {
			return true
		}
	}
	return false
}
