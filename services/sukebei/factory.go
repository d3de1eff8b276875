package sukebei

import (
	"log"
	"strings"

	"sukebei/config"
	"sukebei/internal/transport"
	"sukebei/services/source"
)

// NewFetcher builds the shared HTTP transport from settings.
func NewFetcher(s config.TransportSettings) *transport.HTTPFetcher {
	return transport.NewHTTPFetcher(nil, transport.Options{
		Timeout:           s.Timeout(),
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
		UserAgent:         s.UserAgent,
	})
}

// BuildSources constructs every enabled source in settings. All sources
// share one fetcher so the rate limit applies across them.
func BuildSources(s config.Settings) []source.Source {
	fetcher := NewFetcher(s.Transport)

	var sources []source.Source
	for _, cfg := range s.Sources {
		if !cfg.Enabled {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
		case config.SourceTypeSukebei:
			log.Printf("[sukebei] Initializing source %s at %s (category %s)", cfg.Name, cfg.URL, cfg.Category)
			sources = append(sources, New(Options{
				Name:     cfg.Name,
				BaseURL:  cfg.URL,
				Category: cfg.Category,
				Filter:   cfg.Filter,
			}, fetcher))
		default:
			log.Printf("[sukebei] Unknown source type %q for %s", cfg.Type, cfg.Name)
		}
	}
	return sources
}
