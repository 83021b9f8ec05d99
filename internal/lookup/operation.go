package lookup

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// SourceResult is one source's terminal outcome within an operation,
// streamed to subscribers as sources complete.
type SourceResult struct {
	OpID   uuid.UUID
	Source domain.SourceID
	Status domain.SourceStatus
	Senses []domain.Sense
	Err    error
}

// Result is the aggregate outcome of one lookup operation.
type Result struct {
	OpID     uuid.UUID
	Word     string
	Senses   []domain.Sense
	Statuses map[domain.SourceID]domain.SourceStatus
	// Errors holds the failure message per errored source.
	Errors map[domain.SourceID]string
	// Suggestions carries typo corrections when no source knew the word.
	Suggestions []string
	// Canceled is set when a newer lookup (or the caller) canceled this
	// operation before it finished; partial data must not be trusted.
	Canceled bool
}

// Empty reports whether the lookup produced no senses at all.
func (r *Result) Empty() bool { return len(r.Senses) == 0 }

// Operation is one in-flight lookup. Subscribers either consume
// streaming per-source updates or block on Wait for the aggregate.
type Operation struct {
	id     uuid.UUID
	word   string
	cancel context.CancelFunc

	updates chan SourceResult
	done    chan struct{}
	result  Result // written once by the aggregator, then done closes
}

func (o *Operation) ID() uuid.UUID { return o.id }

func (o *Operation) Word() string { return o.word }

// Updates streams per-source results as they complete. The channel is
// buffered for every source and closed when the operation finishes, so
// reading it is optional.
func (o *Operation) Updates() <-chan SourceResult { return o.updates }

// Cancel aborts the operation. Safe to call multiple times.
func (o *Operation) Cancel() { o.cancel() }

// Wait blocks until the operation finishes or ctx is done.
func (o *Operation) Wait(ctx context.Context) (Result, error) {
	select {
	case <-o.done:
		return o.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
