// Package media downloads pronunciation audio and entry illustrations
// to local files. Content types are validated so an HTML error or
// captcha page never gets saved as an .mp3.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
)

// maxFileBytes caps a single media download.
const maxFileBytes = 32 << 20

// defaultOrigin resolves root-relative media paths; Cambridge is the
// only source that emits them.
const defaultOrigin = "https://dictionary.cambridge.org"

// Downloader fetches media files referenced by parsed senses.
type Downloader struct {
	client *httpx.Client
	cfg    config.MediaConfig
	log    *slog.Logger
}

// NewDownloader builds a Downloader storing files under cfg.Dir.
func NewDownloader(client *httpx.Client, cfg config.MediaConfig, logger *slog.Logger) *Downloader {
	return &Downloader{
		client: client,
		cfg:    cfg,
		log:    logger.With("component", "media"),
	}
}

// Download fetches rawURL into the media directory and returns the
// stored filename. referer is sent when non-empty; some sources refuse
// media requests without it.
func (d *Downloader) Download(ctx context.Context, rawURL, referer string) (string, error) {
	resolved := ResolveURL(rawURL)
	if resolved == "" {
		return "", fmt.Errorf("media: %w: empty url", domain.ErrMediaDownload)
	}

	opts := []httpx.Option{httpx.WithAccept("*/*")}
	if referer != "" {
		opts = append(opts, httpx.WithReferer(referer))
	}
	resp, err := d.client.Get(ctx, resolved, opts...)
	if err != nil {
		return "", fmt.Errorf("media: %w: get %s: %v", domain.ErrMediaDownload, resolved, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("media: %w: HTTP %d for %s", domain.ErrMediaDownload, resp.StatusCode, resolved)
	}
	if err := httpx.ValidateMediaContentType(resp.Header.Get("Content-Type"), resolved); err != nil {
		return "", fmt.Errorf("media: %w", err)
	}

	if err := os.MkdirAll(d.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("media: %w: create dir %s: %v", domain.ErrMediaDownload, d.cfg.Dir, err)
	}

	filename := uniqueName(d.cfg.Dir, FileName(resolved))
	path := filepath.Join(d.cfg.Dir, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("media: %w: create %s: %v", domain.ErrMediaDownload, path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(resp.Body, maxFileBytes)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("media: %w: write %s: %v", domain.ErrMediaDownload, path, err)
	}

	d.log.DebugContext(ctx, "downloaded",
		slog.String("url", resolved), slog.String("file", filename))
	return filename, nil
}

// ResolveURL makes a sense's media URL absolute: protocol-relative URLs
// get https, root-relative ones resolve against the Cambridge origin.
func ResolveURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	switch {
	case rawURL == "":
		return ""
	case strings.HasPrefix(rawURL, "//"):
		return "https:" + rawURL
	case strings.HasPrefix(rawURL, "/"):
		return defaultOrigin + rawURL
	}
	return rawURL
}

// FileName derives a local file name from the URL path, without query
// noise. Falls back to "media" for pathless URLs.
func FileName(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = name[strings.LastIndex(name, "/")+1:]
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "media"
	}
	return name
}

// uniqueName avoids clobbering an existing file by inserting a numeric
// suffix before the extension.
func uniqueName(dir, name string) string {
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}
}
