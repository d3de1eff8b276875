package sukebei

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sukebei/models"
)

func titled(titles ...string) []models.TorrentResult {
	out := make([]models.TorrentResult, len(titles))
	for i, t := range titles {
		out[i] = models.TorrentResult{Title: t, Link: "magnet:?xt=urn:btih:" + fmt.Sprint(i)}
	}
	return out
}

func titlesOf(results []models.TorrentResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}

func many(n int, format string) []models.TorrentResult {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf(format, i)
	}
	return titled(titles...)
}

func TestFilterSingle_EpisodeBoundary(t *testing.T) {
	in := titled(
		"Show 07 [1080p]",
		"Show 17",
		"Show 70",
		"Show - 7 (720p)",
		"Show 07 Batch",
		"[Group] Show - 007",
	)

	got := FilterSingle(in, 7)
	assert.Equal(t, []string{"Show 07 [1080p]", "Show - 7 (720p)"}, titlesOf(got))
}

func TestFilterSingle_NoCapWithEpisode(t *testing.T) {
	got := FilterSingle(many(40, "Show 05 v%d"), 5)
	assert.Len(t, got, 40)
}

func TestFilterSingle_NoEpisodeTakesTop20(t *testing.T) {
	in := many(25, "Release %d batch")
	got := FilterSingle(in, 0)

	require.Len(t, got, singleLimit)
	assert.Equal(t, titlesOf(in[:20]), titlesOf(got), "unfiltered and in source order")
}

// The boundary pattern accepts any standalone occurrence of the number, so a
// volume or part number equal to the episode is a false positive.
func TestFilterSingle_StandaloneNumberIsAmbiguous(t *testing.T) {
	got := FilterSingle(titled("Show Vol. 3 - 12", "Show Part 03 - 12"), 3)
	assert.Len(t, got, 2)
}

func TestFilterBatch(t *testing.T) {
	in := titled(
		"Show Complete Series",
		"Show (2-12)",
		"Show 1-12 [1080p]",
		"Show BATCH",
		"Show 05",
	)

	got := FilterBatch(in, 12)
	assert.Equal(t, []string{"Show Complete Series", "Show 1-12 [1080p]", "Show BATCH"}, titlesOf(got))
	for _, r := range got {
		assert.Equal(t, models.ResultTypeBatch, r.Type)
	}

	withoutCount := FilterBatch(in, 0)
	assert.Equal(t, []string{"Show Complete Series", "Show BATCH"}, titlesOf(withoutCount))
}

func TestFilterBatch_CapAndNoMutation(t *testing.T) {
	in := many(25, "Show Batch %d")
	got := FilterBatch(in, 0)

	require.Len(t, got, batchLimit)
	for _, r := range got {
		assert.Equal(t, models.ResultTypeBatch, r.Type)
	}
	for _, r := range in {
		assert.Empty(t, r.Type, "input must not be annotated")
	}
}

func TestFilterMovie(t *testing.T) {
	in := titled(
		"Movie Title (2021) [1080p]",
		"Show S02 [1080p]",
		"Show season 2",
		"Show 12x05",
		"Show EP03",
		"Movie Title Batch",
		"Another Movie 2160p",
	)

	got := FilterMovie(in)
	assert.Equal(t, []string{"Movie Title (2021) [1080p]", "Another Movie 2160p"}, titlesOf(got))
}

func TestFilterMovie_Cap(t *testing.T) {
	got := FilterMovie(many(30, "Movie %d"))
	assert.Len(t, got, movieLimit)
}
