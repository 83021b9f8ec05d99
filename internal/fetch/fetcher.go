// Package fetch defines the dictionary source contract and the registry
// the lookup orchestrator resolves sources through.
package fetch

import (
	"context"
	"fmt"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// Fetcher is one external dictionary source.
//
// Fetch returns the parsed senses for a word. An empty slice with a nil
// error means the word is not in this source; a non-nil error means the
// source could not be consulted (network, HTTP, bot challenge) and wraps
// domain.ErrFetch or domain.ErrTimeout.
//
// Suggest returns near-miss candidates for a probably-misspelled query.
// Sources without a spellcheck capability return an empty slice.
type Fetcher interface {
	ID() domain.SourceID
	Label() string
	Fetch(ctx context.Context, word string) ([]domain.Sense, error)
	Suggest(ctx context.Context, word string, limit int) ([]string, error)
	SupportsAudio() bool
	SupportsPicture() bool
}

// Registry resolves source IDs to fetcher implementations.
// The source set is closed; registration happens once at startup.
type Registry struct {
	order    []domain.SourceID
	fetchers map[domain.SourceID]Fetcher
}

// NewRegistry builds a registry from the given fetchers, preserving order.
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[domain.SourceID]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		if _, dup := r.fetchers[f.ID()]; dup {
			continue
		}
		r.fetchers[f.ID()] = f
		r.order = append(r.order, f.ID())
	}
	return r
}

// Get returns the fetcher for id.
// Unknown IDs report a missing capability rather than a fetch failure:
// the source's operations are unavailable, not transiently failing.
func (r *Registry) Get(id domain.SourceID) (Fetcher, error) {
	f, ok := r.fetchers[id]
	if !ok {
		return nil, fmt.Errorf("%w: no fetcher registered for source %q", domain.ErrMissingDependency, id)
	}
	return f, nil
}

// IDs returns the registered source IDs in registration order.
func (r *Registry) IDs() []domain.SourceID {
	out := make([]domain.SourceID, len(r.order))
	copy(out, r.order)
	return out
}

// Label returns the human-readable label for id, falling back to the raw ID.
func (r *Registry) Label(id domain.SourceID) string {
	if f, ok := r.fetchers[id]; ok {
		return f.Label()
	}
	return string(id)
}
