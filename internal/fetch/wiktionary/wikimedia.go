package wiktionary

import (
	"net/url"
	"strings"
)

// normalizeWikimediaImageURL rewrites a Wikimedia thumbnail URL to the
// original file it was scaled from. Thumbnail paths look like
// /.../thumb/<h1>/<h2>/<FileName>/<width>px-<FileName>; the original
// drops the "thumb" segment and the trailing scaled name.
// Non-Wikimedia and non-thumbnail URLs pass through unchanged.
func normalizeWikimediaImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !strings.Contains(u.Host, "wikimedia.org") || !strings.Contains(u.Path, "/thumb/") {
		return raw
	}

	segments := strings.Split(u.Path, "/")
	thumbIdx := -1
	for i, seg := range segments {
		if seg == "thumb" {
			thumbIdx = i
			break
		}
	}
	if thumbIdx < 0 || len(segments)-thumbIdx < 5 {
		return raw
	}

	original := append(segments[:thumbIdx:thumbIdx], segments[thumbIdx+1:len(segments)-1]...)
	path := strings.Join(original, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host + path
}
