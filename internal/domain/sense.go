package domain

import (
	"sort"
	"strings"
)

// Sense is one parsed dictionary meaning of a word, normalized across sources.
// A Sense is immutable once a fetcher returns it; only the caller that owns
// the aggregate result may attach a picture chosen elsewhere.
type Sense struct {
	Definition   string
	Examples     []string
	Synonyms     []string
	PartOfSpeech string
	Syllables    string

	// IPA maps a dialect key ("us", "uk", "default", ...) to a transcription.
	IPA map[string]string
	// AudioURLs maps a dialect key to a pronunciation audio URL.
	AudioURLs map[string]string

	PictureURL string
	// PictureReferer is the Referer header some sources require to serve
	// the picture without a 403/429.
	PictureReferer string
}

// PickDialect selects one value from a dialect-keyed map following the
// configured priority order, then "default", then the lexicographically
// smallest remaining key so repeated calls stay deterministic.
// Returns "" for an empty map.
func PickDialect(m map[string]string, priority []string) string {
	if len(m) == 0 {
		return ""
	}
	for _, key := range priority {
		if v, ok := m[strings.ToLower(key)]; ok && v != "" {
			return v
		}
	}
	if v, ok := m["default"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] != "" {
			return m[k]
		}
	}
	return ""
}
