package typo

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Distance is the case-insensitive Levenshtein distance over code points.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
}

// RankSuggestions orders candidate corrections for word: duplicates and
// the word itself are dropped (case-insensitively), the rest sorted by
// edit distance, then by length difference, then lexicographically so
// equal-distance candidates come out in a stable order.
func RankSuggestions(word string, candidates []string, limit int) []string {
	base := strings.TrimSpace(word)
	if base == "" || limit < 1 {
		return nil
	}
	baseKey := strings.ToLower(base)
	baseLen := utf8.RuneCountInString(base)

	seen := make(map[string]bool, len(candidates))
	uniq := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		cand := strings.TrimSpace(candidate)
		if cand == "" {
			continue
		}
		key := strings.ToLower(cand)
		if key == baseKey || seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, cand)
	}

	sort.SliceStable(uniq, func(i, j int) bool {
		di, dj := Distance(base, uniq[i]), Distance(base, uniq[j])
		if di != dj {
			return di < dj
		}
		li := absInt(utf8.RuneCountInString(uniq[i]) - baseLen)
		lj := absInt(utf8.RuneCountInString(uniq[j]) - baseLen)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(uniq[i]) < strings.ToLower(uniq[j])
	})

	if len(uniq) > limit {
		uniq = uniq[:limit]
	}
	return uniq
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
