package cambridge

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// Selector chains, ordered most-specific first. Cambridge renames classes
// between deploys; the first chain entry that matches wins.
var (
	definitionSelectors = []string{
		"div.def.ddef_d.db",
		"div.def.ddef_d",
		"div.def",
	}

	exampleSelectors = []string{
		".eg",
		".deg",
		".examp",
		".dexamp",
		"span.eg",
		"span.deg",
		"span.xref span.eg",
		".example",
		".dexample",
		"li.example",
	}

	synonymSelector = "div.thesref a, div.daccord a, div.daccordLink a, .synonyms a, .daccord-h a"

	audioCandidateSelector = strings.Join([]string{
		"[data-src-mp3]",
		"[data-src-ogg]",
		"source[src]",
		"audio[src]",
		"audio source[src]",
		"a[href*='/media/']",
		"button[data-src-mp3]",
		"button[data-src-ogg]",
		"span[data-src-mp3]",
		"span[data-src-ogg]",
		"amp-audio source[src]",
	}, ", ")
)

// exampleClassRe matches class attributes that merely resemble an example
// container. Last-resort scan for markup the chains above miss.
var exampleClassRe = regexp.MustCompile(`(?i)(?:^|\s)(eg|deg|example|examp|dexamp)(?:\s|$)`)

// audioURLRe accepts URLs that plausibly point at a pronunciation file.
var audioURLRe = regexp.MustCompile(`(?i)\.mp3\b|\.ogg\b`)

// imageExtensions accepted for entry illustrations.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// parseEntryPage extracts all senses from one rendering of an entry page.
// When no entry block exposes audio, a whole-page scan recovers the
// pronunciation buttons Cambridge sometimes hoists out of the entries.
func parseEntryPage(doc *goquery.Document) []domain.Sense {
	var senses []domain.Sense

	doc.Find("div.entry").Each(func(_ int, entry *goquery.Selection) {
		senses = append(senses, parseEntry(entry)...)
	})

	if len(senses) > 0 && !anyAudio(senses) {
		if global := parseAudio(doc.Selection); len(global) > 0 {
			for i := range senses {
				senses[i].AudioURLs = copyMap(global)
			}
		}
	}
	return senses
}

// parseEntry extracts the senses of one div.entry block.
func parseEntry(entry *goquery.Selection) []domain.Sense {
	audio := parseAudio(entry)
	ipa := parseIPA(entry)
	picture := parsePicture(entry)
	pos := nodeText(entry.Find("span.pos.dpos").First())

	var senses []domain.Sense
	entry.Find("div.def-block").Each(func(_ int, block *goquery.Selection) {
		definition := firstText(block, definitionSelectors)
		if definition == "" {
			return
		}
		examples := parseExamples(block)
		if len(examples) == 0 {
			// Example accordions live outside the def-block on some layouts.
			examples = parseExamples(entry)
		}
		sense := domain.Sense{
			Definition:   definition,
			Examples:     examples,
			Synonyms:     parseSynonyms(block),
			PartOfSpeech: pos,
			IPA:          copyMap(ipa),
			AudioURLs:    copyMap(audio),
			PictureURL:   picture,
		}
		if picture != "" {
			sense.PictureReferer = refererURL
		}
		senses = append(senses, sense)
	})
	return senses
}

// firstText returns the normalized text of the first selector in chain
// that matches a non-empty element.
func firstText(root *goquery.Selection, chain []string) string {
	for _, sel := range chain {
		if text := nodeText(root.Find(sel).First()); text != "" {
			return text
		}
	}
	return ""
}

// parseExamples walks the example selector chain in order, collecting
// de-duplicated example texts, then falls back to a scan over every
// classed element whose class name resembles "example".
func parseExamples(root *goquery.Selection) []string {
	var examples []string
	seen := make(map[string]bool)

	add := func(text string) {
		if text == "" {
			return
		}
		key := strings.ToLower(text)
		if seen[key] {
			return
		}
		seen[key] = true
		examples = append(examples, text)
	}

	for _, sel := range exampleSelectors {
		root.Find(sel).Each(func(_ int, ex *goquery.Selection) {
			add(nodeText(ex))
		})
	}

	if len(examples) == 0 {
		root.Find("[class]").Each(func(_ int, el *goquery.Selection) {
			class, _ := el.Attr("class")
			if exampleClassRe.MatchString(class) {
				add(nodeText(el))
			}
		})
	}
	return examples
}

func parseSynonyms(block *goquery.Selection) []string {
	var synonyms []string
	seen := make(map[string]bool)
	block.Find(synonymSelector).Each(func(_ int, a *goquery.Selection) {
		text := nodeText(a)
		if text == "" || seen[strings.ToLower(text)] {
			return
		}
		seen[strings.ToLower(text)] = true
		synonyms = append(synonyms, text)
	})
	return synonyms
}

// parseIPA collects one transcription per region from pronunciation blocks.
func parseIPA(entry *goquery.Selection) map[string]string {
	ipa := make(map[string]string)
	entry.Find(".dpron-i, .pron-info").Each(func(_ int, block *goquery.Selection) {
		region := regionFromText(nodeText(block.Find(".region, .dreg").First()))
		block.Find("span.ipa, span.dipa, .ipa").Each(func(_ int, el *goquery.Selection) {
			text := nodeText(el)
			if text == "" {
				return
			}
			if !strings.HasPrefix(text, "/") {
				text = "/" + text + "/"
			}
			key := region
			if key == "" {
				key = "default"
			}
			if _, ok := ipa[key]; !ok {
				ipa[key] = text
			}
		})
	})
	if len(ipa) == 0 {
		return nil
	}
	return ipa
}

// parseAudio collects one audio URL per detected region.
// Region detection walks up to 5 ancestors looking for a region marker,
// then falls back to the element's own class list.
func parseAudio(entry *goquery.Selection) map[string]string {
	audio := make(map[string]string)

	entry.Find(audioCandidateSelector).Each(func(_ int, tag *goquery.Selection) {
		audioURL := firstAttr(tag, "data-src-mp3", "data-src-ogg", "src", "href")
		if audioURL == "" {
			return
		}
		if !audioURLRe.MatchString(audioURL) && !strings.Contains(audioURL, "/media/") {
			return
		}
		key := findRegion(tag)
		if key == "" {
			key = "default"
		}
		if _, ok := audio[key]; !ok {
			audio[key] = audioURL
		}
	})

	if len(audio) == 0 {
		if tag := entry.Find("[data-src-mp3]").First(); tag.Length() > 0 {
			if audioURL, _ := tag.Attr("data-src-mp3"); audioURL != "" {
				audio["default"] = audioURL
			}
		}
	}
	if len(audio) == 0 {
		return nil
	}
	return audio
}

// findRegion resolves the dialect of a pronunciation element by scanning
// region markers in up to 5 enclosing containers.
func findRegion(tag *goquery.Selection) string {
	node := tag
	for i := 0; i < 5 && node.Length() > 0; i++ {
		if marker := node.Find(".region, .dregion").First(); marker.Length() > 0 {
			if region := regionFromText(nodeText(marker)); region != "" {
				return region
			}
		}
		node = node.Parent()
	}
	class, _ := tag.Attr("class")
	return regionFromText(class)
}

func regionFromText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "us"):
		return "us"
	case strings.Contains(lower, "uk"):
		return "uk"
	}
	return ""
}

// parsePicture picks the first illustration served from Cambridge's
// media path; AMP pages use amp-img instead of img.
func parsePicture(entry *goquery.Selection) string {
	var found string
	entry.Find("img, source, picture source").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := firstAttr(img, "data-src", "srcset", "src")
		if src == "" {
			return true
		}
		// srcset lists several candidates; the first one is enough.
		src = strings.Fields(strings.Split(src, ",")[0])[0]
		lower := strings.ToLower(src)
		if !strings.Contains(lower, "/media/") {
			return true
		}
		for _, ext := range imageExtensions {
			if strings.Contains(lower, ext) {
				found = src
				return false
			}
		}
		return true
	})
	if found != "" {
		return found
	}
	if amp := entry.Find("amp-img").First(); amp.Length() > 0 {
		return firstAttr(amp, "data-src", "src")
	}
	return ""
}

// parseSpellcheck extracts ranked corrections from the spellcheck page:
// a plain list of search links, minus the query itself and duplicates.
func parseSpellcheck(doc *goquery.Document, query string, limit int) []string {
	var out []string
	seen := make(map[string]bool)
	queryKey := strings.ToLower(query)

	doc.Find("ul.hul-u li a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := nodeText(a)
		if text == "" {
			return true
		}
		key := strings.ToLower(text)
		if key == queryKey || seen[key] {
			return true
		}
		seen[key] = true
		out = append(out, text)
		return len(out) < limit
	})
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

func nodeText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return domain.NormalizeSpace(sel.Text())
}

func copyMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
