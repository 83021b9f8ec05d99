package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
)

func newDownloader(t *testing.T) (*Downloader, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := httpx.NewClient(config.HTTPConfig{
		ConnectTimeout: time.Second,
		RequestTimeout: 5 * time.Second,
		UserAgent:      "test-agent",
		AcceptLanguage: "en",
		RatePerHost:    1000,
		RateBurst:      1000,
	}, logger)
	return NewDownloader(client, config.MediaConfig{Dir: dir, DownloadTimeout: 5 * time.Second}, logger), dir
}

func TestDownloadWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != "https://dictionary.cambridge.org/" {
			t.Errorf("missing referer, got %q", r.Header.Get("Referer"))
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	d, dir := newDownloader(t)
	name, err := d.Download(context.Background(), srv.URL+"/media/english/house.mp3",
		"https://dictionary.cambridge.org/")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if name != "house.mp3" {
		t.Errorf("filename = %q", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil || string(data) != "audio-bytes" {
		t.Errorf("stored file = %q, %v", data, err)
	}
}

func TestDownloadAvoidsCollisions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("img"))
	}))
	defer srv.Close()

	d, _ := newDownloader(t)
	first, err := d.Download(context.Background(), srv.URL+"/media/pic.jpg", "")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	second, err := d.Download(context.Background(), srv.URL+"/media/pic.jpg", "")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct filenames, got %q twice", first)
	}
	if second != "pic-1.jpg" {
		t.Errorf("second filename = %q, want pic-1.jpg", second)
	}
}

func TestDownloadRejectsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>captcha</html>")
	}))
	defer srv.Close()

	d, _ := newDownloader(t)
	_, err := d.Download(context.Background(), srv.URL+"/media/fake", "")
	if !errors.Is(err, domain.ErrMediaDownload) {
		t.Fatalf("expected ErrMediaDownload, got %v", err)
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d, _ := newDownloader(t)
	_, err := d.Download(context.Background(), srv.URL+"/media/missing.mp3", "")
	if !errors.Is(err, domain.ErrMediaDownload) {
		t.Fatalf("expected ErrMediaDownload, got %v", err)
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"//media.example.com/a.mp3", "https://media.example.com/a.mp3"},
		{"/media/english/a.mp3", "https://dictionary.cambridge.org/media/english/a.mp3"},
		{"https://example.com/a.mp3", "https://example.com/a.mp3"},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := ResolveURL(c.in); got != c.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://example.com/media/a.mp3?version=2", "a.mp3"},
		{"https://example.com/media/a.mp3", "a.mp3"},
		{"https://example.com/", "media"},
	}
	for _, c := range cases {
		if got := FileName(c.in); got != c.want {
			t.Errorf("FileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
