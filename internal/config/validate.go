package config

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration
// and derives the parsed fields. It must be called after loading; Load
// calls it automatically.
func (c *Config) Validate() error {
	sources, err := ParseSources(c.Lookup.SourcesRaw)
	if err != nil {
		return fmt.Errorf("lookup.sources: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("lookup.sources: at least one source must be enabled")
	}
	c.Lookup.Sources = sources
	c.Lookup.DialectPriority = splitList(c.Lookup.DialectPriorityRaw)

	if c.Lookup.MaxWorkers < 1 {
		return fmt.Errorf("lookup.max_workers must be >= 1 (got %d)", c.Lookup.MaxWorkers)
	}
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("http.request_timeout must be > 0 (got %v)", c.HTTP.RequestTimeout)
	}
	if c.HTTP.RatePerHost <= 0 {
		return fmt.Errorf("http.rate_per_host must be > 0 (got %v)", c.HTTP.RatePerHost)
	}

	if c.Typo.MaxResults < 1 || c.Typo.MaxResults > 40 {
		return fmt.Errorf("typo.max_results must be in [1,40] (got %d)", c.Typo.MaxResults)
	}
	if c.Typo.MaxWorkers < 1 {
		return fmt.Errorf("typo.max_workers must be >= 1 (got %d)", c.Typo.MaxWorkers)
	}
	if c.Typo.CacheSize < 1 {
		return fmt.Errorf("typo.cache_size must be >= 1 (got %d)", c.Typo.CacheSize)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}

// ParseSources parses a comma-separated list of source IDs, preserving
// order and dropping duplicates. An empty string returns a nil slice.
func ParseSources(raw string) ([]domain.SourceID, error) {
	var out []domain.SourceID
	seen := make(map[domain.SourceID]bool)
	for _, part := range splitList(raw) {
		id, err := domain.ParseSourceID(part)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
