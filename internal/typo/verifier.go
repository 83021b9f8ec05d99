package typo

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch"
)

// Verifier confirms correction candidates with real lookups so the
// user is never offered a "correction" no source actually knows.
type Verifier struct {
	registry   *fetch.Registry
	maxWorkers int
	log        *slog.Logger
}

// NewVerifier builds a Verifier running at most maxWorkers lookups at once.
func NewVerifier(registry *fetch.Registry, maxWorkers int, logger *slog.Logger) *Verifier {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Verifier{
		registry:   registry,
		maxWorkers: maxWorkers,
		log:        logger.With("component", "typo-verify"),
	}
}

// Verify checks candidates concurrently against the sources and returns
// the confirmed ones, preserving the incoming ranked order, capped at
// target. Verification short-circuits once target candidates confirm.
func (v *Verifier) Verify(ctx context.Context, candidates []string, sources []domain.SourceID, target int) []string {
	if len(candidates) == 0 || len(sources) == 0 || target < 1 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	confirmed := make([]bool, len(candidates))
	var mu sync.Mutex
	count := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxWorkers)
	for i, candidate := range candidates {
		if gctx.Err() != nil {
			break
		}
		i, candidate := i, candidate
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if !v.confirm(gctx, candidate, sources) {
				return nil
			}
			mu.Lock()
			confirmed[i] = true
			count++
			if count >= target {
				cancel()
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	out := make([]string, 0, target)
	for i, ok := range confirmed {
		if !ok {
			continue
		}
		out = append(out, candidates[i])
		if len(out) >= target {
			break
		}
	}
	return out
}

// confirm reports whether any source returns at least one sense for
// the candidate. Source errors only disqualify that source.
func (v *Verifier) confirm(ctx context.Context, candidate string, sources []domain.SourceID) bool {
	for _, id := range sources {
		f, err := v.registry.Get(id)
		if err != nil {
			continue
		}
		senses, err := f.Fetch(ctx, candidate)
		if err != nil {
			v.log.Debug("verify fetch failed",
				slog.String("source", string(id)),
				slog.String("candidate", candidate),
				slog.String("error", err.Error()))
			continue
		}
		if len(senses) > 0 {
			return true
		}
	}
	return false
}
