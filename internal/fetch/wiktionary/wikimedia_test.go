package wiktionary

import "testing"

func TestNormalizeWikimediaImageURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "thumbnail to original",
			in:   "https://upload.wikimedia.org/wikipedia/commons/thumb/a/ab/Word.jpg/220px-Word.jpg",
			want: "https://upload.wikimedia.org/wikipedia/commons/a/ab/Word.jpg",
		},
		{
			name: "protocol relative",
			in:   "//upload.wikimedia.org/wikipedia/commons/thumb/a/ab/Word.jpg/220px-Word.jpg",
			want: "https://upload.wikimedia.org/wikipedia/commons/a/ab/Word.jpg",
		},
		{
			name: "already original",
			in:   "https://upload.wikimedia.org/wikipedia/commons/a/ab/Word.jpg",
			want: "https://upload.wikimedia.org/wikipedia/commons/a/ab/Word.jpg",
		},
		{
			name: "non wikimedia untouched",
			in:   "https://example.com/thumb/a/b/c.jpg/100px-c.jpg",
			want: "https://example.com/thumb/a/b/c.jpg/100px-c.jpg",
		},
		{
			name: "short thumb path untouched",
			in:   "https://upload.wikimedia.org/thumb/a.jpg",
			want: "https://upload.wikimedia.org/thumb/a.jpg",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := normalizeWikimediaImageURL(c.in); got != c.want {
				t.Errorf("normalizeWikimediaImageURL(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
