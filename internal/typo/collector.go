package typo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch"
)

// Collector gathers correction candidates for a misspelled word by
// fanning fallback queries out to every source's Suggest endpoint.
// Ranked results are memoized: a user retrying the same misspelling
// should not hammer the sources again.
type Collector struct {
	registry *fetch.Registry
	cfg      config.TypoConfig
	log      *slog.Logger
	cache    *lru.Cache[string, []string]
}

// NewCollector builds a Collector with an LRU memo of cfg.CacheSize entries.
func NewCollector(registry *fetch.Registry, cfg config.TypoConfig, logger *slog.Logger) *Collector {
	size := cfg.CacheSize
	if size < 1 {
		size = 1
	}
	cache, _ := lru.New[string, []string](size)
	return &Collector{
		registry: registry,
		cfg:      cfg,
		log:      logger.With("component", "typo"),
		cache:    cache,
	}
}

// Collect returns ranked correction candidates for word, querying the
// given sources. The list may be longer than maxResults so a verifier
// can drop candidates that fail a real lookup; callers cap the final
// list themselves.
func (c *Collector) Collect(ctx context.Context, word string, sources []domain.SourceID, maxResults int) []string {
	word = strings.TrimSpace(word)
	if word == "" || maxResults < 1 || len(sources) == 0 {
		return nil
	}

	key := cacheKey(sources, word, maxResults)
	if cached, ok := c.cache.Get(key); ok {
		return append([]string(nil), cached...)
	}

	queryCount := clampRange(maxResults+6, 8, c.cfg.MaxQueries)
	fetchLimit := clampRange(maxResults*2, c.cfg.SuggestEach, 20)
	targetCandidates := maxInt(maxResults*3, 16)
	rankedLimit := maxInt(maxResults*4, maxResults+12)

	queries := FallbackQueries(word, queryCount)
	if len(queries) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []string
	wordKey := strings.ToLower(word)
	add := func(candidate string) {
		item := strings.TrimSpace(candidate)
		if item == "" {
			return
		}
		itemKey := strings.ToLower(item)
		if seen[itemKey] {
			return
		}
		seen[itemKey] = true
		candidates = append(candidates, item)
	}

	// The edit transforms themselves are candidates: a deletion that
	// happens to be a real word needs no source to confirm it exists
	// as a suggestion.
	for _, q := range queries {
		if strings.ToLower(q) != wordKey {
			add(q)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan []string)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampRange(len(queries)*len(sources), 1, c.cfg.MaxWorkers))

	go func() {
		defer close(results)
		for _, id := range sources {
			f, err := c.registry.Get(id)
			if err != nil {
				c.log.Warn("skipping unknown source", slog.String("source", string(id)))
				continue
			}
			for _, query := range queries {
				if gctx.Err() != nil {
					break
				}
				query := query
				g.Go(func() error {
					items, err := f.Suggest(gctx, query, fetchLimit)
					if err != nil {
						c.log.Debug("suggest failed",
							slog.String("source", string(f.ID())),
							slog.String("query", query),
							slog.String("error", err.Error()))
						return nil
					}
					select {
					case results <- items:
					case <-gctx.Done():
					}
					return nil
				})
			}
		}
		g.Wait()
	}()

	for items := range results {
		for _, item := range items {
			add(item)
		}
		if len(candidates) >= targetCandidates {
			cancel()
		}
	}

	ranked := RankSuggestions(word, candidates, rankedLimit)
	c.cache.Add(key, ranked)
	return append([]string(nil), ranked...)
}

func cacheKey(sources []domain.SourceID, word string, maxResults int) string {
	parts := make([]string, 0, len(sources))
	for _, id := range sources {
		parts = append(parts, string(id))
	}
	return fmt.Sprintf("%s|%s|%d", strings.Join(parts, ","), strings.ToLower(word), maxResults)
}

func clampRange(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
