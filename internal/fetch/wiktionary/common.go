// Package wiktionary implements the ru.wiktionary.org and
// en.wiktionary.org fetchers. Both editions share page retrieval,
// language-section discovery, opensearch suggestions, and picture
// extraction; sense parsing differs per edition because the two wikis
// structure their articles differently.
package wiktionary

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
)

// minImageSide rejects tiny images (flags, pictograms) as illustrations.
const minImageSide = 80

// imageBlacklist drops interface artwork by URL substring.
var imageBlacklist = []string{"icon", "logo", "svg", "favicon"}

// site describes one Wiktionary edition.
type site struct {
	id       domain.SourceID
	label    string
	origin   string // scheme+host, no trailing slash
	pageURL  string // entry page prefix, the escaped word is appended
	apiURL   string // MediaWiki API endpoint
	language string // language-section title on that edition
}

// base carries the behavior shared by both editions.
type base struct {
	site
	client *httpx.Client
	log    *slog.Logger
}

func newBase(s site, client *httpx.Client, logger *slog.Logger) base {
	return base{
		site:   s,
		client: client,
		log:    logger.With("source", string(s.id)),
	}
}

func (b *base) ID() domain.SourceID { return b.id }

func (b *base) Label() string { return b.label }

// fetchScope retrieves the entry page and narrows it to the section for
// the edition's target language. Returns nil for unknown words and for
// pages with no such section.
func (b *base) fetchScope(ctx context.Context, word string) (*goquery.Selection, error) {
	doc, err := b.client.GetDocument(ctx, b.pageURL+url.PathEscape(strings.TrimSpace(word)))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	scope := findLanguageSection(doc, b.language)
	if scope == nil {
		b.log.DebugContext(ctx, "no language section",
			slog.String("word", word), slog.String("language", b.language))
	}
	return scope, nil
}

// Suggest queries the MediaWiki opensearch endpoint.
func (b *base) Suggest(ctx context.Context, word string, limit int) ([]string, error) {
	query := strings.TrimSpace(word)
	if query == "" {
		return nil, nil
	}
	limit = clampLimit(limit)

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("namespace", "0")
	params.Set("format", "json")

	var payload []json.RawMessage
	if err := b.client.GetJSON(ctx, b.apiURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	return parseOpensearch(payload, query, limit), nil
}

// attachPicture finds one representative illustration in the language
// section and applies it to every sense that has none of its own.
func (b *base) attachPicture(scope *goquery.Selection, senses []domain.Sense) {
	picture := b.extractPicture(scope)
	if picture == "" {
		return
	}
	for i := range senses {
		if senses[i].PictureURL == "" {
			senses[i].PictureURL = picture
			senses[i].PictureReferer = b.origin + "/"
		}
	}
}

func (b *base) extractPicture(scope *goquery.Selection) string {
	var found string
	matchInScope(scope, "img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := firstAttr(img, "src", "data-src")
		if src == "" {
			return true
		}
		// srcset-style values list candidates; the first URL is enough.
		src = strings.Fields(strings.Split(src, ",")[0])[0]
		lower := strings.ToLower(src)
		for _, bad := range imageBlacklist {
			if strings.Contains(lower, bad) {
				return true
			}
		}
		if !strings.Contains(lower, "wikimedia.org") {
			return true
		}
		width := intAttr(img, "data-file-width", "width")
		height := intAttr(img, "data-file-height", "height")
		if width > 0 && height > 0 && (width < minImageSide || height < minImageSide) {
			return true
		}
		found = normalizeWikimediaImageURL(b.resolveURL(src))
		return false
	})
	return found
}

// resolveURL makes a page-relative URL absolute for this edition.
// File-page links are rewritten to Special:FilePath, which redirects to
// the raw media file.
func (b *base) resolveURL(raw string) string {
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/wiki/File:"):
		name := strings.TrimPrefix(raw, "/wiki/File:")
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
		return b.origin + "/wiki/Special:FilePath/" + url.PathEscape(name)
	case strings.HasPrefix(raw, "/"):
		return b.origin + raw
	}
	return raw
}

// findLanguageSection locates the part of the page describing the word
// in the target language. Tried in order: a Parsoid <section> labelled
// with the language, a heading whose id or headline text matches, and
// finally ".D"-prefixed ids, which are percent-encodings of non-Latin
// headings with "." in place of "%".
func findLanguageSection(doc *goquery.Document, language string) *goquery.Selection {
	lang := strings.ToLower(language)

	var section *goquery.Selection
	doc.Find("section[aria-labelledby]").EachWithBreak(func(_ int, sec *goquery.Selection) bool {
		aria, _ := sec.Attr("aria-labelledby")
		if strings.Contains(strings.ToLower(aria), lang) {
			section = sec
			return false
		}
		return true
	})
	if section != nil {
		return section
	}

	var headline *goquery.Selection
	doc.Find("[id]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.AttrOr("id", "") == language {
			headline = el
			return false
		}
		return true
	})
	if headline == nil {
		doc.Find(".mw-headline").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			text := strings.ToLower(strings.TrimSpace(span.Text()))
			id := strings.ToLower(span.AttrOr("id", ""))
			if text == lang || id == lang {
				headline = span
				return false
			}
			return true
		})
	}
	if headline == nil {
		doc.Find("[id]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			id := el.AttrOr("id", "")
			if !strings.HasPrefix(id, ".D") {
				return true
			}
			decoded, err := url.QueryUnescape(strings.ReplaceAll(id, ".", "%"))
			if err == nil && strings.ToLower(decoded) == lang {
				headline = el
				return false
			}
			return true
		})
	}
	if headline == nil {
		return nil
	}

	node := headline.Get(0)
	for node != nil && headingLevel(node) == 0 && !isElement(node, "section") {
		node = node.Parent
	}
	if node == nil {
		return nil
	}
	if isElement(node, "section") {
		return doc.FindNodes(node)
	}
	nodes := append([]*html.Node{node}, sectionNodes(node)...)
	return doc.FindNodes(nodes...)
}

// matchInScope matches selector against the scope nodes themselves and
// their descendants. A scope is either a single section element (matches
// are descendants) or a flat run of sibling nodes (matches may be the
// nodes themselves).
func matchInScope(scope *goquery.Selection, selector string) *goquery.Selection {
	return scope.Filter(selector).AddSelection(scope.Find(selector))
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 20 {
		return 20
	}
	return limit
}

// parseOpensearch extracts suggestions from an opensearch payload, which
// is a JSON array of the form [query, [suggestions], ...]. The query
// itself and case-insensitive duplicates are dropped.
func parseOpensearch(payload []json.RawMessage, query string, limit int) []string {
	if len(payload) < 2 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(payload[1], &items); err != nil {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	queryKey := strings.ToLower(query)
	for _, item := range items {
		candidate := strings.TrimSpace(item)
		if candidate == "" {
			continue
		}
		key := strings.ToLower(candidate)
		if key == queryKey || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, candidate)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func firstAttr(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && v != "" {
			return v
		}
	}
	return ""
}

func intAttr(sel *goquery.Selection, names ...string) int {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && v != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}
