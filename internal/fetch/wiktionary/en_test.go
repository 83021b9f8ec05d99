package wiktionary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const enEntryHTML = `<html><body>
<h2><span class="mw-headline" id="English">English</span></h2>
<figure>
  <img src="//en.wiktionary.org/static/icon.png">
  <img src="//upload.wikimedia.org/wikipedia/commons/thumb/x/xy/House.jpg/220px-House.jpg"
       data-file-width="640" data-file-height="480">
</figure>
<h3>Etymology</h3>
<p>From Old English.</p>
<h3>Pronunciation</h3>
<ul>
  <li>(US) IPA: <span class="IPA">/haʊs/</span></li>
  <li>(UK) IPA: <span class="IPA">/haʊz/</span></li>
  <li>Audio (US): <a href="/wiki/File:en-us-house.ogg">listen</a></li>
</ul>
<h3>Noun</h3>
<ol>
  <li>A building for living in.
    <ul><li>This is my <b>house</b>.</li></ul>
  </li>
  <li>A family line.
    <dl><dd class="quotation">1830, John Smith<sup>[2]</sup>: The <b>house</b> stood empty.</dd></dl>
  </li>
</ol>
<h4>Synonyms</h4>
<ul><li><a href="/wiki/home">home</a></li></ul>
<h3>Verb</h3>
<ol><li>To provide shelter.</li></ol>
<h3>Etymology 2</h3>
<p>Imitative.</p>
<h3>Interjection</h3>
<ol><li>Expression of surprise.</li></ol>
<h2><span class="mw-headline" id="Spanish">Spanish</span></h2>
<h3>Noun</h3>
<ol><li>Spanish sense.</li></ol>
</body></html>`

func newEnglishFetcher(t *testing.T, handler http.Handler) *English {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewEnglish(newTestClient(t), discardLogger())
	f.pageURL = srv.URL + "/wiki/"
	f.apiURL = srv.URL + "/w/api.php"
	return f
}

func TestEnglishFetchParsesEntry(t *testing.T) {
	f := newEnglishFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, enEntryHTML)
	}))

	senses, err := f.Fetch(context.Background(), "house")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(senses) != 4 {
		t.Fatalf("expected 4 senses, got %d", len(senses))
	}

	noun := senses[0]
	if noun.Definition != "A building for living in." {
		t.Errorf("definition = %q", noun.Definition)
	}
	if noun.PartOfSpeech != "Noun" {
		t.Errorf("part of speech = %q", noun.PartOfSpeech)
	}
	if len(noun.Examples) != 1 || noun.Examples[0] != "This is my house." {
		t.Errorf("examples = %v", noun.Examples)
	}
	if len(noun.Synonyms) != 1 || noun.Synonyms[0] != "home" {
		t.Errorf("synonyms = %v", noun.Synonyms)
	}
	if noun.IPA["us"] != "/haʊs/" || noun.IPA["uk"] != "/haʊz/" {
		t.Errorf("ipa = %v", noun.IPA)
	}
	wantAudio := "https://en.wiktionary.org/wiki/Special:FilePath/en-us-house.ogg"
	if noun.AudioURLs["us"] != wantAudio {
		t.Errorf("audio = %v", noun.AudioURLs)
	}
	if noun.PictureURL != "https://upload.wikimedia.org/wikipedia/commons/x/xy/House.jpg" {
		t.Errorf("picture = %q", noun.PictureURL)
	}

	quoted := senses[1]
	if quoted.Definition != "A family line." {
		t.Errorf("definition = %q", quoted.Definition)
	}
	if len(quoted.Examples) != 1 || quoted.Examples[0] != "The house stood empty." {
		t.Errorf("citation example = %v", quoted.Examples)
	}

	verb := senses[2]
	if verb.PartOfSpeech != "Verb" || verb.Definition != "To provide shelter." {
		t.Errorf("verb sense = %+v", verb)
	}
	if verb.IPA["us"] != "/haʊs/" {
		t.Errorf("verb should inherit pronunciation, got %v", verb.IPA)
	}
	if len(verb.Synonyms) != 0 {
		t.Errorf("verb synonyms = %v", verb.Synonyms)
	}

	interjection := senses[3]
	if interjection.PartOfSpeech != "Interjection" {
		t.Errorf("part of speech = %q", interjection.PartOfSpeech)
	}
	if len(interjection.IPA) != 0 {
		t.Errorf("new etymology must reset pronunciation, got %v", interjection.IPA)
	}

	for _, s := range senses {
		if strings.Contains(s.Definition, "Spanish") {
			t.Errorf("sense leaked from another language: %+v", s)
		}
	}
}

func TestEnglishFetchNoSection(t *testing.T) {
	f := newEnglishFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><h2><span class="mw-headline" id="French">French</span></h2></body></html>`)
	}))

	senses, err := f.Fetch(context.Background(), "maison")
	if err != nil || senses != nil {
		t.Errorf("Fetch = %v, %v; want nil, nil", senses, err)
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Noun", "Noun"},
		{"Etymology 2", "Etymology"},
		{"Noun (uncountable)", "Noun"},
		{"  Verb  ", "Verb"},
	}
	for _, c := range cases {
		if got := normalizeTitle(c.in); got != c.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLooksLikeCitationPrefix(t *testing.T) {
	yes := []string{
		"1830, John Smith",
		"2011, Nature Press",
		"Foo Publishing Company",
		"London, vol. 3",
	}
	no := []string{
		"He said", "A building", "In 14th century style? 1203",
	}
	for _, p := range yes {
		if !looksLikeCitationPrefix(p) {
			t.Errorf("looksLikeCitationPrefix(%q) = false", p)
		}
	}
	for _, p := range no {
		if looksLikeCitationPrefix(p) {
			t.Errorf("looksLikeCitationPrefix(%q) = true", p)
		}
	}
}

func TestCleanExampleText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"• The house stood empty.", "The house stood empty."},
		{"1830, John Smith: The house stood empty.", "The house stood empty."},
		{"The house stood empty. -> OCLC 12345", "The house stood empty."},
		{"He said: hello.", "He said: hello."},
	}
	for _, c := range cases {
		if got := cleanExampleText(c.in); got != c.want {
			t.Errorf("cleanExampleText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	f := NewEnglish(newTestClient(t), discardLogger())
	cases := []struct{ in, want string }{
		{"//upload.wikimedia.org/a.ogg", "https://upload.wikimedia.org/a.ogg"},
		{"/wiki/File:en-us-house.ogg", "https://en.wiktionary.org/wiki/Special:FilePath/en-us-house.ogg"},
		{"/wiki/Special:FilePath/a.ogg", "https://en.wiktionary.org/wiki/Special:FilePath/a.ogg"},
		{"https://example.com/a.ogg", "https://example.com/a.ogg"},
	}
	for _, c := range cases {
		if got := f.resolveURL(c.in); got != c.want {
			t.Errorf("resolveURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
