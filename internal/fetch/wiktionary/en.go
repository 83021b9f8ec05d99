package wiktionary

import (
	"context"
	"log/slog"
	"maps"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
)

// posTitles are the heading titles that introduce definition lists on
// en.wiktionary. Any other heading is structural (etymology, usage
// notes, translations) and carries no senses of its own.
var posTitles = map[string]bool{
	"noun": true, "proper noun": true, "verb": true, "adjective": true,
	"adverb": true, "pronoun": true, "determiner": true, "preposition": true,
	"conjunction": true, "interjection": true, "numeral": true,
	"article": true, "particle": true, "prefix": true, "suffix": true,
	"abbreviation": true, "initialism": true, "acronym": true,
	"phrase": true, "idiom": true, "proverb": true, "symbol": true,
	"letter": true, "noun phrase": true, "verb phrase": true,
	"adjective phrase": true, "adverb phrase": true,
	"prepositional phrase": true,
}

// exampleClasses mark quotation/usage containers, in preference order.
var exampleClasses = []string{
	"quotation", "quote", "usage-example", "example", "use-with-mention",
}

var (
	enRefRe        = regexp.MustCompile(`\[\d+\]`)
	titleParenRe   = regexp.MustCompile(`\s*\([^)]*\)`)
	titleNumberRe  = regexp.MustCompile(`\s*\d+$`)
	bulletPrefixRe = regexp.MustCompile(`^[•*\-–—]\s*`)
	oclcTailRe     = regexp.MustCompile(`(?i)\s*->\s*OCLC.*$`)
	citationYearRe = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
	audioFileRe    = regexp.MustCompile(`(?i)\.(mp3|ogg|wav)\b`)
	usRegionRe     = regexp.MustCompile(`\b(us|u\.s\.)\b`)
	ukRegionRe     = regexp.MustCompile(`\b(uk|u\.k\.)\b`)
	nonWordRe      = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// citationTokens identify bibliographic prefixes before example text.
var citationTokens = []string{
	"published", "chapter", "volume", "vol.", "edition",
	"press", "company", "oclc", "isbn", "new york", "london",
}

// English fetches word senses from en.wiktionary.org.
//
// The English edition organizes an entry as a flat run of headings at
// varying depth: pronunciation and etymology headings set context for
// the part-of-speech headings that follow, and each new etymology
// starts that context over.
type English struct {
	base
}

// NewEnglish creates the en.wiktionary fetcher.
func NewEnglish(client *httpx.Client, logger *slog.Logger) *English {
	return &English{base: newBase(site{
		id:       domain.SourceWiktionaryEn,
		label:    "en.wiktionary.org (en)",
		origin:   "https://en.wiktionary.org",
		pageURL:  "https://en.wiktionary.org/wiki/",
		apiURL:   "https://en.wiktionary.org/w/api.php",
		language: "English",
	}, client, logger)}
}

func (f *English) SupportsAudio() bool { return true }

func (f *English) SupportsPicture() bool { return true }

// Fetch retrieves the entry page and extracts the English senses.
func (f *English) Fetch(ctx context.Context, word string) ([]domain.Sense, error) {
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

func (f *English) parseSenses(scope *goquery.Selection) []domain.Sense {
	var senses []domain.Sense
	var ipa, audio map[string]string

	for _, heading := range headingsIn(scope) {
		title := normalizeTitle(headingText(heading))
		titleLower := strings.ToLower(title)
		switch {
		case titleLower == strings.ToLower(f.language):
			continue
		case strings.HasPrefix(titleLower, "etymology"):
			// Each etymology is a separate word history with its own
			// pronunciation section.
			ipa, audio = nil, nil
		case titleLower == "pronunciation":
			ipa, audio = f.parsePronunciation(heading)
		case posTitles[titleLower]:
			nodes := sectionNodes(heading)
			synonyms := enSynonyms(nodes)
			for _, ol := range definitionLists(nodes) {
				for li := ol.FirstChild; li != nil; li = li.NextSibling {
					if !isElement(li, "li") {
						continue
					}
					definition := extractEnDefinition(li)
					if definition == "" {
						continue
					}
					senses = append(senses, domain.Sense{
						Definition:   definition,
						Examples:     extractEnExamples(li),
						Synonyms:     append([]string(nil), synonyms...),
						PartOfSpeech: title,
						IPA:          maps.Clone(ipa),
						AudioURLs:    maps.Clone(audio),
					})
				}
			}
		}
	}
	return senses
}

// parsePronunciation extracts one IPA transcription and one audio URL
// per detected dialect from the section below the heading.
func (f *English) parsePronunciation(heading *html.Node) (map[string]string, map[string]string) {
	ipa := make(map[string]string)
	audio := make(map[string]string)
	nodes := sectionNodes(heading)

	for _, n := range nodes {
		for _, el := range elementsByClassAny(n, "IPA", "ipa") {
			text := cleanEnText(textExcluding(el, nil))
			if text == "" {
				continue
			}
			key := regionOf(el)
			if _, ok := ipa[key]; !ok {
				ipa[key] = text
			}
		}
	}
	for _, n := range nodes {
		for _, el := range audioCandidates(n) {
			rawURL := nodeAttr(el, "src")
			if rawURL == "" {
				rawURL = nodeAttr(el, "href")
			}
			if rawURL == "" || !isAudioURL(rawURL, el) {
				continue
			}
			key := regionOf(el)
			if _, ok := audio[key]; !ok {
				audio[key] = f.resolveURL(rawURL)
			}
		}
	}
	if len(ipa) == 0 {
		ipa = nil
	}
	if len(audio) == 0 {
		audio = nil
	}
	return ipa, audio
}

// enSynonyms finds the first "Synonyms" sub-section among the nodes and
// collects its linked terms, falling back to plain list items.
func enSynonyms(nodes []*html.Node) []string {
	var synonyms []string
	seen := make(map[string]bool)
	add := func(text string) {
		if text == "" || seen[strings.ToLower(text)] {
			return
		}
		seen[strings.ToLower(text)] = true
		synonyms = append(synonyms, text)
	}

	for _, n := range nodes {
		var content []*html.Node
		switch {
		case headingLevel(n) > 0:
			if strings.ToLower(normalizeTitle(headingText(n))) != "synonyms" {
				continue
			}
			content = sectionNodes(n)
		case isElement(n, "section"):
			h := firstHeadingChild(n)
			if h == nil || strings.ToLower(normalizeTitle(headingText(h))) != "synonyms" {
				continue
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c != h {
					content = append(content, c)
				}
			}
		default:
			continue
		}

		for _, sub := range content {
			for _, a := range elementsByTag(sub, "a") {
				add(cleanEnText(textExcluding(a, nil)))
			}
			for _, li := range elementsByTag(sub, "li") {
				if len(elementsByTag(li, "a")) > 0 {
					continue
				}
				add(cleanEnText(textExcluding(li, nil)))
			}
		}
		break
	}
	return synonyms
}

// definitionLists yields the ordered lists holding sense definitions.
// Lists nested inside a definition item hold quotations, not senses.
func definitionLists(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isElement(n, "ol") {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		if headingLevel(n) > 0 {
			continue
		}
		walk(n)
	}
	return out
}

// extractEnDefinition renders the definition item's own text, without
// the nested quotation lists and footnote superscripts.
func extractEnDefinition(li *html.Node) string {
	return cleanEnText(textExcluding(li, anySkip(
		skipTags("ul", "ol", "dl", "sup"),
	)))
}

// extractEnExamples collects usage examples for one definition item:
// quotation-like containers first, then the nested list items en
// entries use for plain example sentences.
func extractEnExamples(li *html.Node) []string {
	var examples []string
	seen := make(map[string]bool)

	add := func(node *html.Node) {
		text := cleanEnText(textExcluding(node, anySkip(
			skipTags("sup"),
			skipClassContains("reference", "citation"),
		)))
		text = cleanExampleText(text)
		if text == "" {
			return
		}
		key := normExampleKey(text)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		examples = append(examples, text)
	}

	for _, class := range exampleClasses {
		for _, node := range elementsByClassAny(li, class) {
			add(node)
		}
	}
	for _, node := range elementsByTag(li, "li") {
		if isElement(node.Parent, "ul") {
			add(node)
		}
	}
	for _, node := range elementsByTag(li, "dd") {
		if isElement(node.Parent, "dl") {
			add(node)
		}
	}
	return examples
}

// cleanExampleText strips list bullets, bibliographic citation
// prefixes, and catalog-number tails from one example.
func cleanExampleText(text string) string {
	text = bulletPrefixRe.ReplaceAllString(text, "")
	if i := strings.Index(text, ":"); i >= 0 && looksLikeCitationPrefix(text[:i]) {
		text = strings.TrimSpace(text[i+1:])
	}
	text = oclcTailRe.ReplaceAllString(text, "")
	return strings.Trim(text, " \t-–—:;")
}

// looksLikeCitationPrefix reports whether the text before a colon reads
// like a bibliographic reference: a plausible publication year or a
// publishing-term token.
func looksLikeCitationPrefix(prefix string) bool {
	lower := strings.ToLower(prefix)
	if citationYearRe.MatchString(lower) {
		return true
	}
	for _, tok := range citationTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func normalizeTitle(text string) string {
	text = titleParenRe.ReplaceAllString(text, "")
	text = titleNumberRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func cleanEnText(text string) string {
	return domain.NormalizeSpace(enRefRe.ReplaceAllString(text, ""))
}

// normExampleKey canonicalizes an example for de-duplication: lowercase
// with all punctuation and whitespace removed.
func normExampleKey(text string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(text), "")
}

// regionOf resolves the dialect of a pronunciation element by scanning
// the text of up to 5 enclosing nodes, then the enclosing table row.
func regionOf(el *html.Node) string {
	node := el
	for i := 0; i < 5 && node != nil; i++ {
		if r := regionFromText(textExcluding(node, nil)); r != "" {
			return r
		}
		node = node.Parent
	}
	for n := el.Parent; n != nil; n = n.Parent {
		if isElement(n, "tr") {
			if r := regionFromText(textExcluding(n, nil)); r != "" {
				return r
			}
			break
		}
	}
	return "default"
}

func regionFromText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case usRegionRe.MatchString(lower) || strings.Contains(lower, "american"):
		return "us"
	case ukRegionRe.MatchString(lower) || strings.Contains(lower, "british"):
		return "uk"
	}
	return ""
}

func isAudioURL(rawURL string, el *html.Node) bool {
	if audioFileRe.MatchString(rawURL) {
		return true
	}
	if strings.Contains(rawURL, "upload.wikimedia.org") &&
		strings.Contains(nodeAttr(el, "type"), "audio") {
		return true
	}
	return strings.Contains(rawURL, "Special:FilePath")
}

// audioCandidates lists elements that may carry a pronunciation URL.
func audioCandidates(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "audio":
				out = append(out, node)
			case "source":
				if nodeAttr(node, "src") != "" {
					out = append(out, node)
				}
			case "a":
				if nodeAttr(node, "href") != "" {
					out = append(out, node)
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// headingsIn yields every heading within the scope in document order.
func headingsIn(scope *goquery.Selection) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if headingLevel(n) > 0 {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range scope.Nodes {
		walk(n)
	}
	return out
}

func elementsByTag(n *html.Node, name string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if isElement(node, name) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func elementsByClassAny(n *html.Node, classes ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, class := range classes {
				if nodeHasClass(node, class) {
					out = append(out, node)
					break
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// skipClassContains matches elements whose class attribute contains any
// of the substrings.
func skipClassContains(substrs ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		class := strings.ToLower(nodeAttr(n, "class"))
		for _, s := range substrs {
			if s != "" && strings.Contains(class, s) {
				return true
			}
		}
		return false
	}
}
