package models

import "time"

// AccuracyTier is the confidence label a source attaches to its results so an
// aggregator can rank them against other sources.
type AccuracyTier string

const (
	AccuracyLow    AccuracyTier = "low"
	AccuracyMedium AccuracyTier = "medium"
	AccuracyHigh   AccuracyTier = "high"
)

// ResultType tags a result with the search mode that produced it.
type ResultType string

const (
	ResultTypeBatch ResultType = "batch"
)

// TorrentResult is one normalized row of an index search page.
type TorrentResult struct {
	Title        string       `json:"title"`
	Link         string       `json:"link"`
	SizeBytes    int64        `json:"size"`
	Seeders      int          `json:"seeders"`
	Leechers     int          `json:"leechers"`
	Downloads    int          `json:"downloads"`
	InfoHash     string       `json:"hash"`
	Accuracy     AccuracyTier `json:"accuracy"`
	DiscoveredAt time.Time    `json:"date"`
	UploadedAt   *time.Time   `json:"uploadedAt,omitempty"`
	Type         ResultType   `json:"type,omitempty"`
}

