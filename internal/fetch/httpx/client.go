// Package httpx centralizes outbound HTTP for all dictionary fetchers:
// default headers, timeouts, per-host rate limiting, bot-challenge
// detection, and HTML/JSON response handling.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/domain"
)

// maxBodyBytes caps response bodies so a misbehaving source cannot
// exhaust memory. Dictionary pages stay well under this.
const maxBodyBytes = 8 << 20

// Client performs HTTP GETs with the standard fetcher headers.
// Safe for concurrent use.
type Client struct {
	hc             *http.Client
	userAgent      string
	acceptLanguage string
	log            *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewClient builds a Client from the shared HTTP configuration.
func NewClient(cfg config.HTTPConfig, logger *slog.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		MaxIdleConnsPerHost: 4,
	}
	return &Client{
		hc: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		log:            logger.With("component", "httpx"),
		limiters:       make(map[string]*rate.Limiter),
		perHost:        rate.Limit(cfg.RatePerHost),
		burst:          cfg.RateBurst,
	}
}

// Option adjusts a single outgoing request.
type Option func(*http.Request)

// WithReferer sets the Referer header. Some sources return 403/429 without it.
func WithReferer(referer string) Option {
	return func(req *http.Request) {
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
	}
}

// WithAccept sets the Accept header.
func WithAccept(accept string) Option {
	return func(req *http.Request) {
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
	}
}

// Get performs an HTTP GET with standard headers and per-host throttling.
// The caller owns the response body. Network failures and timeouts are
// wrapped into the domain error taxonomy.
func (c *Client) Get(ctx context.Context, rawURL string, opts ...Option) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.FetchErrorf(err, "create request for %s", rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}
	for _, opt := range opts {
		opt(req)
	}

	if err := c.limiter(req.URL.Host).Wait(ctx); err != nil {
		return nil, domain.FetchErrorf(err, "rate limit wait for %s", req.URL.Host)
	}

	c.log.DebugContext(ctx, "http get", slog.String("url", rawURL))

	resp, err := c.hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: GET %s", domain.ErrTimeout, rawURL)
		}
		return nil, domain.FetchErrorf(err, "GET %s", rawURL)
	}
	return resp, nil
}

// GetDocument GETs rawURL and parses the body as HTML.
// Returns (nil, nil) on 404: the word simply is not in this source.
// A 403 carrying a known challenge signature maps to domain.ErrChallenge.
func (c *Client) GetDocument(ctx context.Context, rawURL string, opts ...Option) (*goquery.Document, error) {
	resp, err := c.Get(ctx, rawURL, opts...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: read %s", domain.ErrTimeout, rawURL)
		}
		return nil, domain.FetchErrorf(err, "read body of %s", rawURL)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusForbidden && looksLikeChallenge(resp, body) {
			return nil, fmt.Errorf("%w: %s served a challenge page instead of content", domain.ErrChallenge, resp.Request.URL.Host)
		}
		return nil, domain.FetchErrorf(nil, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, domain.FetchErrorf(err, "parse HTML of %s", rawURL)
	}
	return doc, nil
}

// GetJSON GETs rawURL and decodes the JSON body into v.
// Unlike GetDocument, 404 is an error here: JSON endpoints are expected
// to answer every well-formed query.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any, opts ...Option) error {
	opts = append(opts, WithAccept("application/json"))
	resp, err := c.Get(ctx, rawURL, opts...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.FetchErrorf(nil, "HTTP %d for %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.FetchErrorf(err, "read body of %s", rawURL)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return domain.FetchErrorf(err, "decode json of %s", rawURL)
	}
	return nil
}

func (c *Client) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[host]
	if !ok {
		lim = rate.NewLimiter(c.perHost, c.burst)
		c.limiters[host] = lim
	}
	return lim
}

// challengeMarkers are body substrings of known bot-challenge
// interstitials. Best-effort: new challenge variants will slip through.
var challengeMarkers = []string{
	"just a moment",
	"cf-chl",
	"cf_chl",
	"attention required",
	"checking your browser",
}

func looksLikeChallenge(resp *http.Response, body []byte) bool {
	if strings.Contains(strings.ToLower(resp.Header.Get("Server")), "cloudflare") {
		return true
	}
	lower := strings.ToLower(string(body))
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// ValidateMediaContentType checks that a downloaded file is audio or an
// image (or an opaque octet-stream) rather than an HTML error/captcha page.
func ValidateMediaContentType(contentType, rawURL string) error {
	ctype := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ctype, ";"); i >= 0 {
		ctype = strings.TrimSpace(ctype[:i])
	}
	lowerURL := strings.ToLower(rawURL)
	isAudio := strings.HasPrefix(ctype, "audio/") || hasAnySuffix(lowerURL, ".mp3", ".wav", ".ogg")
	isImage := strings.HasPrefix(ctype, "image/") || hasAnySuffix(lowerURL, ".jpg", ".jpeg", ".png", ".gif", ".webp")
	if isAudio || isImage || ctype == "application/octet-stream" {
		return nil
	}
	if ctype == "" {
		ctype = "unknown"
	}
	return fmt.Errorf("%w: expected audio/image file, got %s", domain.ErrMediaDownload, ctype)
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
