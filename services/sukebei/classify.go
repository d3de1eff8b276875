package sukebei

import (
	"fmt"
	"regexp"
	"strings"

	"sukebei/models"
)

const (
	singleLimit = 20
	batchLimit  = 10
	movieLimit  = 15
)

var (
	reBatch       = regexp.MustCompile(`(?i)batch|complete`)
	reSeriesMarks = regexp.MustCompile(`(?i)\b(s\d+|season|ep\d+|\d+x\d+)\b`)
)

// FilterSingle keeps the results for one episode. With episode <= 0 the first
// results are returned as ranked by the index.
//
// The episode match is a word-boundary test with an optional leading zero, so
// "Show 07" and "Show 7" match episode 7 while "Show 17" does not. It still
// accepts any standalone occurrence of the number, such as a volume or year.
func FilterSingle(results []models.TorrentResult, episode int) []models.TorrentResult {
	if episode <= 0 {
		return capResults(results, singleLimit)
	}

	reEpisode := regexp.MustCompile(fmt.Sprintf(`\b0?%d\b`, episode))
	filtered := make([]models.TorrentResult, 0, len(results))
	for _, r := range results {
		title := strings.ToLower(r.Title)
		if !reEpisode.MatchString(title) || strings.Contains(title, "batch") {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// FilterBatch keeps batch-looking releases and tags the copies as batches.
func FilterBatch(results []models.TorrentResult, episodeCount int) []models.TorrentResult {
	var rangeMarker string
	if episodeCount > 0 {
		rangeMarker = fmt.Sprintf("1-%d", episodeCount)
	}

	filtered := make([]models.TorrentResult, 0, batchLimit)
	for _, r := range results {
		if len(filtered) == batchLimit {
			break
		}
		if !reBatch.MatchString(r.Title) && (rangeMarker == "" || !strings.Contains(r.Title, rangeMarker)) {
			continue
		}
		r.Type = models.ResultTypeBatch
		filtered = append(filtered, r)
	}
	return filtered
}

// FilterMovie drops anything that looks like a series release.
func FilterMovie(results []models.TorrentResult) []models.TorrentResult {
	filtered := make([]models.TorrentResult, 0, movieLimit)
	for _, r := range results {
		if len(filtered) == movieLimit {
			break
		}
		if reSeriesMarks.MatchString(r.Title) || strings.Contains(strings.ToLower(r.Title), "batch") {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func capResults(results []models.TorrentResult, limit int) []models.TorrentResult {
	n := min(len(results), limit)
	out := make([]models.TorrentResult, n)
	copy(out, results[:n])
	return out
}
