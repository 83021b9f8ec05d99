// Package typo generates and ranks "did you mean" suggestions for
// words no source recognizes. Candidate re-queries come from cheap
// edit transforms of the misspelled word; real suggestions come from
// the sources' own spellcheck endpoints, queried concurrently, then
// ranked by edit distance and optionally verified with full lookups.
package typo

import "strings"

// minQueryLen is the shortest word worth mutating; below it every edit
// is just noise.
const minQueryLen = 3

// FallbackQueries derives candidate re-queries from a misspelled word:
// the word itself, truncations of the last one or two runes, the word
// without its first rune, every single-rune deletion, and every
// adjacent transposition. Order is first-seen with case-insensitive
// de-duplication, capped at max.
func FallbackQueries(word string, max int) []string {
	q := strings.TrimSpace(word)
	if q == "" {
		return nil
	}
	runes := []rune(q)
	if len(runes) < minQueryLen {
		return []string{q}
	}

	out := []string{q, string(runes[:len(runes)-1])}
	if len(runes) >= 5 {
		out = append(out, string(runes[:len(runes)-2]))
	}
	out = append(out, string(runes[1:]))

	for i := range runes {
		deleted := make([]rune, 0, len(runes)-1)
		deleted = append(deleted, runes[:i]...)
		deleted = append(deleted, runes[i+1:]...)
		out = append(out, string(deleted))
	}
	for i := 0; i < len(runes)-1; i++ {
		swapped := append([]rune(nil), runes...)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		out = append(out, string(swapped))
	}

	if max < 1 {
		max = 1
	}
	seen := make(map[string]bool, len(out))
	uniq := make([]string, 0, len(out))
	for _, item := range out {
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, item)
		if len(uniq) >= max {
			break
		}
	}
	return uniq
}
