package domain

import (
	"strings"
	"unicode"
)

// NormalizeSpace prepares scraped text for display:
//   - non-breaking spaces become regular spaces
//   - runs of whitespace collapse into one space
//   - leading/trailing whitespace is trimmed
//   - stray spaces before punctuation are removed
//
// Case and diacritics are preserved.
func NormalizeSpace(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, " ", " ")

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			prevSpace = true
			continue
		}
		if prevSpace {
			if b.Len() > 0 && !isClingingPunct(r) {
				b.WriteByte(' ')
			}
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isClingingPunct reports punctuation that should attach to the preceding
// word without a space.
func isClingingPunct(r rune) bool {
	switch r {
	case ',', '.', ';', ':', '!', '?':
		return true
	}
	return false
}

// NormalizeQuery canonicalizes a user query for comparison and cache keys:
// trimmed, lowercased, inner whitespace collapsed.
func NormalizeQuery(text string) string {
	return strings.ToLower(NormalizeSpace(text))
}
