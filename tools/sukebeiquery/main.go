package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"sukebei/config"
	"sukebei/services/source"
	"sukebei/services/sukebei"
)

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var (
		configPath   = flag.String("config", "cache/settings.json", "Path to backend settings.json")
		sourceName   = flag.String("source", "sukebei", "Configured source to query")
		mode         = flag.String("mode", "single", "single, batch, movie, all or test")
		episode      = flag.Int("episode", 0, "Episode number (single mode)")
		episodeCount = flag.Int("episode-count", 0, "Expected episode count (batch mode)")
		resolution   = flag.String("resolution", "", "Resolution, e.g. 1080")
		timeout      = flag.Duration("timeout", 30*time.Second, "Overall deadline")
		titles       listFlag
		exclusions   listFlag
	)
	flag.Var(&titles, "title", "Title to search (repeatable)")
	flag.Var(&exclusions, "exclude", "Term to exclude (repeatable)")
	flag.Parse()

	mgr := config.NewManager(*configPath)
	settings, err := mgr.Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	registry := source.NewRegistry(sukebei.BuildSources(settings)...)
	src, ok := registry.Get(*sourceName)
	if !ok {
		log.Fatalf("source %q not configured (have %v)", *sourceName, registry.Names())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	req := source.Request{
		Titles:       titles,
		Episode:      *episode,
		EpisodeCount: *episodeCount,
		Resolution:   *resolution,
		Exclusions:   exclusions,
	}

	out, err := run(ctx, src, *mode, req)
	if errors.Is(err, source.ErrNoTitles) {
		log.Fatalf("at least one -title is required for mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("%s: %v", *mode, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

func run(ctx context.Context, src source.Source, mode string, req source.Request) (interface{}, error) {
	switch mode {
	case "single":
		return src.Single(ctx, req)
	case "batch":
		return src.Batch(ctx, req)
	case "movie":
		return src.Movie(ctx, req)
	case "all":
		return source.SearchAll(ctx, src, req)
	case "test":
		return map[string]interface{}{"name": src.Name(), "ok": src.Test(ctx)}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}
