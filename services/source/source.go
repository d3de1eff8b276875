package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"sukebei/models"
)

// ErrNoTitles is returned by every search mode when the request carries no
// usable title. It is raised before any network activity.
var ErrNoTitles = errors.New("no titles")

// Request carries the inputs shared by all search modes. Zero values mean
// "not provided".
type Request struct {
	Titles       []string `json:"titles"`
	Episode      int      `json:"episode,omitempty"`
	EpisodeCount int      `json:"episodeCount,omitempty"`
	Resolution   string   `json:"resolution,omitempty"`
	Exclusions   []string `json:"exclusions,omitempty"`
}

// Validate checks the title precondition.
func (r Request) Validate() error {
	if len(r.CleanTitles()) == 0 {
		return ErrNoTitles
	}
	return nil
}

// CleanTitles returns the trimmed titles with blanks removed, in order.
func (r Request) CleanTitles() []string {
	titles := make([]string, 0, len(r.Titles))
	for _, t := range r.Titles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Source is a pluggable torrent index.
type Source interface {
	Name() string
	Single(ctx context.Context, req Request) ([]models.TorrentResult, error)
	Batch(ctx context.Context, req Request) ([]models.TorrentResult, error)
	Movie(ctx context.Context, req Request) ([]models.TorrentResult, error)
	// Test reports whether the index is reachable.
	Test(ctx context.Context) bool
}

// Results groups the output of every mode of one source.
type Results struct {
	Source string                 `json:"source"`
	Single []models.TorrentResult `json:"single"`
	Batch  []models.TorrentResult `json:"batch"`
	Movie  []models.TorrentResult `json:"movie"`
}

// SearchAll runs the three modes of src concurrently. The precondition is
// checked once up front so an empty request never reaches the network.
func SearchAll(ctx context.Context, src Source, req Request) (Results, error) {
	if err := req.Validate(); err != nil {
		return Results{}, err
	}

	out := Results{Source: src.Name()}
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		res, err := src.Single(ctx, req)
		if err != nil {
			return fmt.Errorf("single: %w", err)
		}
		out.Single = res
		return nil
	})
	p.Go(func(ctx context.Context) error {
		res, err := src.Batch(ctx, req)
		if err != nil {
			return fmt.Errorf("batch: %w", err)
		}
		out.Batch = res
		return nil
	})
	p.Go(func(ctx context.Context) error {
		res, err := src.Movie(ctx, req)
		if err != nil {
			return fmt.Errorf("movie: %w", err)
		}
		out.Movie = res
		return nil
	})

	if err := p.Wait(); err != nil {
		return Results{}, err
	}
	return out, nil
}
