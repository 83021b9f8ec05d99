package wiktionary

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
)

var (
	letterRe = regexp.MustCompile(`[A-Za-zА-Яа-яЁё]`)

	// refMarkerRe matches footnote references like "[1]" or "[≈ 2]".
	refMarkerRe = regexp.MustCompile(`\[\s*[^A-Za-zА-Яа-яЁё\]]*\d+[^A-Za-zА-Яа-яЁё\]]*\]`)

	cyrillicRe = regexp.MustCompile(`[А-Яа-я]`)

	// syllableTemplateRe pulls the argument list out of a raw
	// "по-слогам" template serialized into a data-mw attribute.
	syllableTemplateRe = regexp.MustCompile(`по-слогам\|([^}]+)`)
)

// maxSyllableLen bounds candidate syllable strings; longer matches are
// page noise rather than a hyphenated headword.
const maxSyllableLen = 40

// Russian fetches word senses from ru.wiktionary.org.
type Russian struct {
	base
}

// NewRussian creates the ru.wiktionary fetcher.
func NewRussian(client *httpx.Client, logger *slog.Logger) *Russian {
	return &Russian{base: newBase(site{
		id:       domain.SourceWiktionaryRu,
		label:    "ru.wiktionary.org (ru)",
		origin:   "https://ru.wiktionary.org",
		pageURL:  "https://ru.wiktionary.org/wiki/",
		apiURL:   "https://ru.wiktionary.org/w/api.php",
		language: "Русский",
	}, client, logger)}
}

func (f *Russian) SupportsAudio() bool { return false }

func (f *Russian) SupportsPicture() bool { return true }

// Fetch retrieves the entry page and extracts the Russian senses.
func (f *Russian) Fetch(ctx context.Context, word string) ([]domain.Sense, error) {
	scope, err := f.fetchScope(ctx, word)
	if err != nil || scope == nil {
		return nil, err
	}
	senses := f.parseSenses(scope)
	f.attachPicture(scope, senses)
	f.log.DebugContext(ctx, "fetched",
		slog.String("word", word), slog.Int("senses", len(senses)))
	return senses, nil
}

func (f *Russian) parseSenses(scope *goquery.Selection) []domain.Sense {
	senses := parseRuDefinitions(scope)

	if syllables := extractSyllables(scope); syllables != "" {
		for i := range senses {
			if senses[i].Syllables == "" {
				senses[i].Syllables = syllables
			}
		}
	}

	if synonyms := parseRuSynonyms(scope); len(synonyms) > 0 {
		for i := range senses {
			senses[i].Synonyms = append([]string(nil), synonyms...)
		}
	}
	return senses
}

// parseRuDefinitions walks the "Значение" section list items. Each item
// is one sense; examples either live in dedicated example blocks or are
// embedded in the definition text after "◆" markers.
func parseRuDefinitions(scope *goquery.Selection) []domain.Sense {
	var senses []domain.Sense
	for _, sec := range sectionsByTitle(scope, "Значение") {
		list := sec.Find("ol, ul").First()
		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			examples := parseRuExamples(li)
			raw := cleanRuText(textExcluding(li.Get(0), skipClasses(
				"example-fullblock", "example-block", "source", "example-details")))
			if raw == "" {
				return
			}
			definition, inline := splitInlineExamples(raw)
			if len(examples) == 0 {
				examples = inline
			}
			senses = append(senses, domain.Sense{
				Definition: definition,
				Examples:   examples,
			})
		})
	}
	return senses
}

func parseRuExamples(li *goquery.Selection) []string {
	var examples []string
	seen := make(map[string]bool)
	li.Find(".example-fullblock .example-block, .example-block").Each(func(_ int, block *goquery.Selection) {
		text := cleanRuText(textExcluding(block.Get(0), skipClasses(
			"example-details", "citation-source", "example-date")))
		if text == "" {
			return
		}
		key := strings.ToLower(text)
		if seen[key] {
			return
		}
		seen[key] = true
		examples = append(examples, text)
	})
	return examples
}

// parseRuSynonyms collects the shared synonym list from the "Синонимы"
// section. Reference anchors are preferred over plain links; citation
// backlinks are never synonyms.
func parseRuSynonyms(scope *goquery.Selection) []string {
	var synonyms []string
	seen := make(map[string]bool)
	for _, sec := range sectionsByTitle(scope, "Синонимы") {
		list := sec.Find("ol, ul").First()
		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			anchors := li.Find(".mw-reference-text a")
			if anchors.Length() == 0 {
				anchors = li.Find("a")
			}
			anchors.Each(func(_ int, a *goquery.Selection) {
				if a.ParentsFiltered(".mw-cite-backlink").Length() > 0 {
					return
				}
				text := cleanRuText(a.Text())
				if !meaningfulToken(text) || seen[strings.ToLower(text)] {
					return
				}
				seen[strings.ToLower(text)] = true
				synonyms = append(synonyms, text)
			})
		})
	}
	return synonyms
}

// sectionsByTitle finds sub-sections whose aria label or leading heading
// matches the localized title.
func sectionsByTitle(scope *goquery.Selection, title string) []*goquery.Selection {
	titleLower := strings.ToLower(title)
	var out []*goquery.Selection
	matchInScope(scope, "section").Each(func(_ int, sec *goquery.Selection) {
		aria := strings.ToLower(sec.AttrOr("aria-labelledby", ""))
		if strings.Contains(aria, titleLower) {
			out = append(out, sec)
			return
		}
		head := sec.Find("h2, h3, h4, h5, h6").First()
		if head.Length() > 0 && strings.ToLower(headingText(head.Get(0))) == titleLower {
			out = append(out, sec)
		}
	})
	return out
}

// splitInlineExamples separates a definition from examples embedded
// after "◆" markers.
func splitInlineExamples(raw string) (string, []string) {
	if !strings.Contains(raw, "◆") {
		return raw, nil
	}
	var parts []string
	for _, p := range strings.Split(raw, "◆") {
		if p = strings.Trim(p, " —:;"); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return raw, nil
	}
	return parts[0], parts[1:]
}

// extractSyllables recovers the hyphenated headword. Tried in priority
// order: an explicit hyphenation marker, a short bolded headword, any
// short text containing the "·" separator, and finally the raw
// "по-слогам" template arguments left in a data-mw attribute.
func extractSyllables(scope *goquery.Selection) string {
	if hyph := matchInScope(scope, ".hyph-dot").First(); hyph.Length() > 0 {
		parent := hyph.Parent().Closest("b, strong, span")
		if parent.Length() > 0 {
			if text := compactText(parent.Get(0)); text != "" {
				return text
			}
		}
	}

	var fromBold string
	matchInScope(scope, "p > b").EachWithBreak(func(_ int, b *goquery.Selection) bool {
		text := compactText(b.Get(0))
		if text == "" || strings.ContainsAny(text, "{}") {
			return true
		}
		if cyrillicRe.MatchString(text) && utf8.RuneCountInString(text) <= maxSyllableLen {
			fromBold = text
			return false
		}
		return true
	})
	if fromBold != "" {
		return fromBold
	}

	for _, n := range scope.Nodes {
		for _, text := range textNodesUnder(n) {
			if strings.Contains(text, "·") && cyrillicRe.MatchString(text) &&
				utf8.RuneCountInString(text) <= maxSyllableLen &&
				!strings.ContainsAny(text, "{}") {
				return text
			}
		}
	}

	var fromTemplate string
	matchInScope(scope, "[data-mw]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		data := el.AttrOr("data-mw", "")
		m := syllableTemplateRe.FindStringSubmatch(data)
		if m == nil {
			return true
		}
		var parts []string
		for _, p := range strings.Split(m[1], "|") {
			if p != "" && p != "." {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			fromTemplate = strings.Join(parts, "·")
			return false
		}
		return true
	})
	return fromTemplate
}

// cleanRuText strips footnote markers and brackets they leave behind,
// then normalizes whitespace and clinging punctuation.
func cleanRuText(text string) string {
	text = refMarkerRe.ReplaceAllString(text, "")
	text = dropOrphanBrackets(text)
	return domain.NormalizeSpace(text)
}

// dropOrphanBrackets removes bracket characters standing alone between
// whitespace, which is what removing a footnote marker leaves behind.
func dropOrphanBrackets(s string) string {
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if f == "[" || f == "]" {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

func meaningfulToken(text string) bool {
	switch text {
	case "", "?", "-", "—":
		return false
	}
	return letterRe.MatchString(text)
}

// compactText joins the subtree's text nodes without separators, for
// headwords where extra spaces would corrupt the syllable string.
func compactText(n *html.Node) string {
	return strings.Join(textNodesUnder(n), "")
}
