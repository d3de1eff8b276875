package transport

//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	// Search pages are a few hundred KB; anything far larger is not a results page.
	maxBodyBytes = 8 << 20
)

// Response is the materialized result of a single fetch.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// IsMarkup reports whether the body could be a results page: any text type,
// or XHTML. XHTML served with an XML prolog is detected as text/xml.
func (r *Response) IsMarkup() bool {
	if r == nil || len(r.Body) == 0 {
		return false
	}
	mt := mimetype.Detect(r.Body)
	return strings.HasPrefix(mt.String(), "text/") || mt.Is("application/xhtml+xml")
}

// Fetcher performs one outbound GET and returns the response.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// Options tunes the HTTP fetcher.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables limiting
	Burst             int
	UserAgent         string
}

// HTTPFetcher is a Fetcher backed by net/http with a shared politeness limiter.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher constructs a fetcher. A nil client gets one with opts.Timeout.
func NewHTTPFetcher(client *http.Client, opts Options) *HTTPFetcher {
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		if burst <= 0 {
			burst = 1
		}
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}

	return &HTTPFetcher{
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: ua,
	}
}

// Fetch waits for the limiter, issues the request and reads the whole body.
// Non-2xx statuses are returned as responses, not errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func addBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// Don't set Accept-Encoding - Go's Transport handles this automatically
	req.Header.Set("DNT", "1")
	req.Header.Set("Cache-Control", "no-cache")
}
