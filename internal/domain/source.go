package domain

import "fmt"

// SourceID identifies one external dictionary source.
type SourceID string

// The closed set of supported sources.
const (
	SourceCambridge    SourceID = "cambridge"
	SourceWiktionaryRu SourceID = "wiktionary"
	SourceWiktionaryEn SourceID = "wiktionary_en"
)

// AllSources lists every supported source in display order.
func AllSources() []SourceID {
	return []SourceID{SourceCambridge, SourceWiktionaryRu, SourceWiktionaryEn}
}

// ParseSourceID validates a raw source identifier.
func ParseSourceID(raw string) (SourceID, error) {
	id := SourceID(raw)
	switch id {
	case SourceCambridge, SourceWiktionaryRu, SourceWiktionaryEn:
		return id, nil
	}
	return "", fmt.Errorf("%w: unknown source %q", ErrValidation, raw)
}

// SourceStatus tracks one source's progress within a lookup operation.
type SourceStatus string

const (
	StatusPending SourceStatus = "pending"
	StatusOK      SourceStatus = "ok"
	StatusEmpty   SourceStatus = "empty"
	StatusError   SourceStatus = "error"
)

// Terminal reports whether the status will not change again.
func (s SourceStatus) Terminal() bool {
	return s == StatusOK || s == StatusEmpty || s == StatusError
}
