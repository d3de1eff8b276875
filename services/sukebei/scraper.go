package sukebei

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"sukebei/internal/transport"
	"sukebei/models"
	"sukebei/services/source"
)

const (
	DefaultName     = "sukebei"
	DefaultBaseURL  = "https://sukebei.nyaa.si"
	DefaultCategory = "1_0"
	DefaultFilter   = "0"
)

// Options configures one sukebei-style index.
type Options struct {
	Name     string
	BaseURL  string
	Category string
	Filter   string
}

// Scraper searches a nyaa-style index by scraping its HTML results page.
// It holds no per-call state and is safe for concurrent use.
type Scraper struct {
	name     string
	baseURL  string
	category string
	filter   string
	fetcher  transport.Fetcher
	now      func() time.Time
}

var _ source.Source = (*Scraper)(nil)

// New constructs a scraper. Empty options fall back to the public sukebei
// defaults; a nil fetcher gets a plain HTTP fetcher.
func New(opts Options, fetcher transport.Fetcher) *Scraper {
	if fetcher == nil {
		fetcher = transport.NewHTTPFetcher(nil, transport.Options{})
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		name:     firstNonEmpty(opts.Name, DefaultName),
		baseURL:  baseURL,
		category: firstNonEmpty(opts.Category, DefaultCategory),
		filter:   firstNonEmpty(opts.Filter, DefaultFilter),
		fetcher:  fetcher,
		now:      time.Now,
	}
}

func (s *Scraper) Name() string {
	return s.name
}

// Single searches for one episode, or returns the top results when no episode
// is given.
func (s *Scraper) Single(ctx context.Context, req source.Request) ([]models.TorrentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	titles := req.CleanTitles()
	if req.Episode > 0 {
		for i, t := range titles {
			titles[i] = fmt.Sprintf("%s %02d", t, req.Episode)
		}
	}

	results := s.search(ctx, BuildQuery(titles, req.Resolution, req.Exclusions))
	return FilterSingle(results, req.Episode), nil
}

// Batch searches for complete-season or multi-episode releases.
func (s *Scraper) Batch(ctx context.Context, req source.Request) ([]models.TorrentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	titles := req.CleanTitles()
	for i, t := range titles {
		titles[i] = t + " batch"
	}

	results := s.search(ctx, BuildQuery(titles, req.Resolution, req.Exclusions))
	return FilterBatch(results, req.EpisodeCount), nil
}

// Movie searches for standalone releases.
func (s *Scraper) Movie(ctx context.Context, req source.Request) ([]models.TorrentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := s.search(ctx, BuildQuery(req.CleanTitles(), req.Resolution, req.Exclusions))
	return FilterMovie(results), nil
}

// Test issues a bare request to the index root.
func (s *Scraper) Test(ctx context.Context) bool {
	resp, err := s.fetcher.Fetch(ctx, s.baseURL)
	if err != nil {
		log.Printf("[sukebei] %s: reachability check failed: %v", s.name, err)
		return false
	}
	return resp.OK()
}

// search performs the single round-trip of a mode. Every failure is logged
// and degrades to an empty result.
func (s *Scraper) search(ctx context.Context, query string) []models.TorrentResult {
	endpoint := s.searchURL(query)
	log.Printf("[sukebei] %s: searching %s", s.name, endpoint)

	resp, err := s.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		log.Printf("[sukebei] %s: search request failed: %v", s.name, err)
		return []models.TorrentResult{}
	}
	if !resp.OK() {
		log.Printf("[sukebei] %s: search returned status %d", s.name, resp.StatusCode)
		return []models.TorrentResult{}
	}
	if !resp.IsMarkup() {
		log.Printf("[sukebei] %s: search returned a non-text body (%d bytes)", s.name, len(resp.Body))
		return []models.TorrentResult{}
	}

	results, err := ParseResults(bytes.NewReader(resp.Body), s.baseURL, s.now())
	if err != nil {
		log.Printf("[sukebei] %s: %v", s.name, err)
		return []models.TorrentResult{}
	}

	log.Printf("[sukebei] %s: parsed %d results", s.name, len(results))
	return results
}

// searchURL builds <base>/?f=<filter>&c=<category>&q=<query>. The query is
// already encoded.
func (s *Scraper) searchURL(query string) string {
	return fmt.Sprintf("%s/?f=%s&c=%s&q=%s", s.baseURL, url.QueryEscape(s.filter), url.QueryEscape(s.category), query)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
