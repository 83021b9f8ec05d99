package domain

import "testing"

func TestNormalizeSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  hello  ", want: "hello"},
		{name: "collapse runs", input: "hello \t  world", want: "hello world"},
		{name: "nbsp", input: "hello world", want: "hello world"},
		{name: "space before comma", input: "one , two", want: "one, two"},
		{name: "space before period", input: "the end .", want: "the end."},
		{name: "case preserved", input: "Hello World", want: "Hello World"},
		{name: "cyrillic preserved", input: "  о́мут  ", want: "о́мут"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "newlines collapse", input: "a\nb\n\nc", want: "a b c"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSpace(tt.input); got != tt.want {
				t.Errorf("NormalizeSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	if got := NormalizeQuery("  Hello   World "); got != "hello world" {
		t.Errorf("NormalizeQuery = %q, want %q", got, "hello world")
	}
}

func TestPickDialect(t *testing.T) {
	t.Parallel()

	m := map[string]string{"us": "X", "default": "Y"}

	tests := []struct {
		name     string
		m        map[string]string
		priority []string
		want     string
	}{
		{name: "first priority hit", m: m, priority: []string{"us", "uk"}, want: "X"},
		{name: "falls through missing priority", m: m, priority: []string{"uk", "us"}, want: "X"},
		{name: "falls back to default", m: map[string]string{"default": "Y"}, priority: []string{"uk", "us"}, want: "Y"},
		{name: "priority case-insensitive", m: m, priority: []string{"US"}, want: "X"},
		{name: "no priority picks default", m: m, priority: nil, want: "Y"},
		{name: "deterministic any", m: map[string]string{"b": "2", "a": "1"}, priority: nil, want: "1"},
		{name: "empty map", m: nil, priority: []string{"us"}, want: ""},
		{name: "empty values skipped", m: map[string]string{"us": "", "uk": "Z"}, priority: []string{"us", "uk"}, want: "Z"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PickDialect(tt.m, tt.priority); got != tt.want {
				t.Errorf("PickDialect(%v, %v) = %q, want %q", tt.m, tt.priority, got, tt.want)
			}
		})
	}
}

func TestParseSourceID(t *testing.T) {
	t.Parallel()

	for _, id := range AllSources() {
		got, err := ParseSourceID(string(id))
		if err != nil || got != id {
			t.Errorf("ParseSourceID(%q) = %q, %v", id, got, err)
		}
	}
	if _, err := ParseSourceID("oxford"); err == nil {
		t.Error("ParseSourceID should reject unknown sources")
	}
}
