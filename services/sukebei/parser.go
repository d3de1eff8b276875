package sukebei

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"sukebei/models"
)

// Column positions of a results row.
const (
	colCategory = iota
	colTitle
	colLinks
	colSize
	colDate
	colSeeders
	colLeechers

	minCells = colLeechers + 1
)

// resultRow is the typed view of one <tr> before normalization.
type resultRow struct {
	title     string
	hrefs     []string
	size      string
	timestamp string
	seeders   string
	leechers  string
}

// ParseResults walks the results table of a search page and returns one
// record per usable row, in document order. Rows that are too short, have no
// title, or carry no usable link are skipped. The error covers unreadable
// input only.
func ParseResults(r io.Reader, baseURL string, now time.Time) ([]models.TorrentResult, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	results := make([]models.TorrentResult, 0)
	doc.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		row, ok := readRow(tr)
		if !ok {
			return
		}

		link, infoHash, ok := SelectLink(row.hrefs, baseURL)
		if !ok {
			return
		}

		results = append(results, models.TorrentResult{
			Title:        row.title,
			Link:         link,
			SizeBytes:    ParseSize(row.size),
			Seeders:      parseCount(row.seeders),
			Leechers:     parseCount(row.leechers),
			Downloads:    0,
			InfoHash:     infoHash,
			Accuracy:     models.AccuracyMedium,
			DiscoveredAt: now,
			UploadedAt:   parseTimestamp(row.timestamp),
		})
	})

	return results, nil
}

func readRow(tr *goquery.Selection) (resultRow, bool) {
	cells := tr.ChildrenFiltered("td")
	if cells.Length() < minCells {
		return resultRow{}, false
	}

	titleLink := cells.Eq(colTitle).Find("a:not(.comments)").First()
	if titleLink.Length() == 0 {
		return resultRow{}, false
	}
	title := norm.NFC.String(strings.TrimSpace(titleLink.Text()))
	if title == "" {
		return resultRow{}, false
	}

	var hrefs []string
	cells.Eq(colLinks).Find("a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})

	timestamp, _ := cells.Eq(colDate).Attr("data-timestamp")

	return resultRow{
		title:     title,
		hrefs:     hrefs,
		size:      strings.TrimSpace(cells.Eq(colSize).Text()),
		timestamp: timestamp,
		seeders:   strings.TrimSpace(cells.Eq(colSeeders).Text()),
		leechers:  strings.TrimSpace(cells.Eq(colLeechers).Text()),
	}, true
}

// parseCount reads a seeder/leecher cell, defaulting to 0.
func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseTimestamp(raw string) *time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || secs <= 0 {
		return nil
	}
	ts := time.Unix(secs, 0).UTC()
	return &ts
}
