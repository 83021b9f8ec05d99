// Package lookup orchestrates concurrent multi-source dictionary
// lookups: one bounded worker pool per operation, per-source status
// tracking, streaming partial results, and a typo-suggestion fallback
// when no source recognizes the word.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch"
	"github.com/heartmarshall/wordfetch/internal/typo"
)

// Service runs lookups. Starting a new lookup cancels the previous one:
// the engine serves one interactive query at a time, and a newer query
// makes the older answer worthless.
type Service struct {
	registry  *fetch.Registry
	collector *typo.Collector
	verifier  *typo.Verifier
	lookupCfg config.LookupConfig
	typoCfg   config.TypoConfig
	log       *slog.Logger

	mu      sync.Mutex
	current *Operation
}

// NewService builds the lookup orchestrator.
func NewService(
	registry *fetch.Registry,
	collector *typo.Collector,
	verifier *typo.Verifier,
	lookupCfg config.LookupConfig,
	typoCfg config.TypoConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:  registry,
		collector: collector,
		verifier:  verifier,
		lookupCfg: lookupCfg,
		typoCfg:   typoCfg,
		log:       logger.With("component", "lookup"),
	}
}

// Lookup starts a new lookup operation for word against the given
// sources (nil means the configured source list). The previous
// operation, if any, is canceled.
func (s *Service) Lookup(ctx context.Context, word string, sources []domain.SourceID) (*Operation, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, fmt.Errorf("lookup: %w: empty word", domain.ErrValidation)
	}
	if len(sources) == 0 {
		sources = s.lookupCfg.Sources
	}
	if len(sources) == 0 {
		sources = s.registry.IDs()
	}
	for _, id := range sources {
		if _, err := s.registry.Get(id); err != nil {
			return nil, fmt.Errorf("lookup: %w", err)
		}
	}

	opCtx, cancel := context.WithCancel(ctx)
	op := &Operation{
		id:      uuid.New(),
		word:    word,
		cancel:  cancel,
		updates: make(chan SourceResult, len(sources)),
		done:    make(chan struct{}),
	}

	s.mu.Lock()
	if s.current != nil {
		s.current.Cancel()
	}
	s.current = op
	s.mu.Unlock()

	s.log.InfoContext(ctx, "lookup started",
		slog.String("op", op.id.String()),
		slog.String("word", word),
		slog.Int("sources", len(sources)))

	go s.run(opCtx, op, sources)
	return op, nil
}

// Current returns the most recently started operation, or nil.
func (s *Service) Current() *Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// run is the operation's aggregation goroutine: it is the only writer
// of the operation's result, so per-source workers never share state.
func (s *Service) run(ctx context.Context, op *Operation, sources []domain.SourceID) {
	defer close(op.done)
	defer close(op.updates)

	result := Result{
		OpID:     op.id,
		Word:     op.word,
		Statuses: make(map[domain.SourceID]domain.SourceStatus, len(sources)),
		Errors:   make(map[domain.SourceID]string),
	}
	for _, id := range sources {
		result.Statuses[id] = domain.StatusPending
	}

	partials := make(chan SourceResult)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers(len(sources)))

	go func() {
		defer close(partials)
		for _, id := range sources {
			f, _ := s.registry.Get(id) // validated in Lookup
			g.Go(func() error {
				partial := s.fetchOne(gctx, op, f)
				select {
				case partials <- partial:
				case <-ctx.Done():
				}
				return nil
			})
		}
		g.Wait()
	}()

	for partial := range partials {
		result.Statuses[partial.Source] = partial.Status
		if partial.Err != nil {
			result.Errors[partial.Source] = partial.Err.Error()
		}
		result.Senses = append(result.Senses, partial.Senses...)

		select {
		case op.updates <- partial:
		default:
			// A full buffer means nobody is listening; the aggregate
			// still carries everything.
		}
	}

	if ctx.Err() != nil {
		result.Canceled = true
	} else if result.Empty() && s.typoCfg.Enabled {
		result.Suggestions = s.suggestCorrections(ctx, op.word, sources)
	}

	op.result = result
	s.log.Info("lookup finished",
		slog.String("op", op.id.String()),
		slog.String("word", op.word),
		slog.Int("senses", len(result.Senses)),
		slog.Int("errors", len(result.Errors)),
		slog.Bool("canceled", result.Canceled))
}

// fetchOne queries one source and classifies the outcome.
func (s *Service) fetchOne(ctx context.Context, op *Operation, f fetch.Fetcher) SourceResult {
	partial := SourceResult{OpID: op.id, Source: f.ID()}

	senses, err := f.Fetch(ctx, op.word)
	switch {
	case err != nil:
		partial.Status = domain.StatusError
		partial.Err = err
		s.log.WarnContext(ctx, "source failed",
			slog.String("op", op.id.String()),
			slog.String("source", string(f.ID())),
			slog.String("error", err.Error()))
	case len(senses) == 0:
		partial.Status = domain.StatusEmpty
	default:
		partial.Status = domain.StatusOK
		partial.Senses = senses
	}
	return partial
}

// suggestCorrections runs the typo flow: collect candidates from the
// sources' spellcheck endpoints, then keep only those a real lookup
// confirms.
func (s *Service) suggestCorrections(ctx context.Context, word string, sources []domain.SourceID) []string {
	candidates := s.collector.Collect(ctx, word, sources, s.typoCfg.MaxResults)
	if len(candidates) == 0 {
		return nil
	}
	verified := s.verifier.Verify(ctx, candidates, sources, s.typoCfg.MaxResults)
	if len(verified) > 0 {
		return verified
	}
	// No candidate survived verification; the ranked guesses are still
	// better than nothing.
	if len(candidates) > s.typoCfg.MaxResults {
		candidates = candidates[:s.typoCfg.MaxResults]
	}
	return candidates
}

func (s *Service) maxWorkers(sources int) int {
	limit := s.lookupCfg.MaxWorkers
	if limit < 1 {
		limit = 1
	}
	if sources < limit {
		limit = sources
	}
	return limit
}
