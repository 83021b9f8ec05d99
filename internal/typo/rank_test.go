package typo

import (
	"reflect"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"cart", "cart", 0},
		{"Cart", "cart", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"cart", "carta", 1},
		{"frmo", "from", 2},
		{"слово", "слива", 2},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got, rev := Distance(c.a, c.b), Distance(c.b, c.a); got != rev {
			t.Errorf("Distance(%q, %q) = %d but reversed = %d", c.a, c.b, got, rev)
		}
	}
}

func TestRankSuggestions(t *testing.T) {
	got := RankSuggestions("cart", []string{"carta", "cart", "card", "dart", "card"}, 10)
	// card and dart are both distance 1 with no length difference, so
	// they order lexicographically; carta loses on length difference.
	want := []string{"card", "dart", "carta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ranked = %v, want %v", got, want)
	}
}

func TestRankSuggestionsDropsWordItself(t *testing.T) {
	got := RankSuggestions("cart", []string{"CART", "cart ", "carts"}, 10)
	if !reflect.DeepEqual(got, []string{"carts"}) {
		t.Errorf("ranked = %v, want [carts]", got)
	}
}

func TestRankSuggestionsLimit(t *testing.T) {
	got := RankSuggestions("cart", []string{"card", "dart", "carta"}, 2)
	if len(got) != 2 {
		t.Errorf("ranked = %v, want 2 entries", got)
	}
}

func TestRankSuggestionsEmptyWord(t *testing.T) {
	if got := RankSuggestions("  ", []string{"card"}, 5); got != nil {
		t.Errorf("ranked = %v, want nil", got)
	}
}
