package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	// ErrFetch marks a recoverable per-source failure: network error,
	// non-2xx response, or unparseable payload. The orchestrator converts
	// it into a status entry instead of aborting sibling sources.
	ErrFetch = errors.New("fetch failed")

	// ErrTimeout is a fetch failure caused by a connect/read timeout.
	// Kept separate so the user can tell "retry later" from "source broken".
	ErrTimeout = errors.New("request timed out")

	// ErrChallenge marks a bot-challenge interstitial served instead of
	// real content. Best-effort detection, see httpx.
	ErrChallenge = errors.New("bot challenge")

	// ErrMissingDependency means a required capability is unavailable for
	// a source's operations. Fatal for that source, surfaced once.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrMediaDownload marks a failed audio/picture download. Not retried.
	ErrMediaDownload = errors.New("media download failed")

	ErrValidation = errors.New("validation error")
)

// FetchErrorf builds a per-source fetch error from a format string.
// The result unwraps to ErrFetch (and to cause, when given).
func FetchErrorf(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		return fmt.Errorf("%w: %s: %w", ErrFetch, msg, cause)
	}
	return fmt.Errorf("%w: %s", ErrFetch, msg)
}

// IsTimeout reports whether err stems from a connect/read timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
