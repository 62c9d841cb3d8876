package recorder

import (
	"time"

	"vcpscan/pkg/model"
)

// ScanSummary is one persisted scan's headline numbers
type ScanSummary struct {
	ScanID         string    `json:"scan_id"`
	ScanTime       time.Time `json:"scan_time"`
	TotalScanned   int       `json:"total_scanned"`
	SetupsFound    int       `json:"setups_found"`
	BreakoutsFound int       `json:"breakouts_found"`
	Duration       string    `json:"duration"`
}

// Recorder persists scan history for later review
type Recorder interface {
	RecordScan(result *model.ScanResult) error
	ScanSummaries(limit int) ([]ScanSummary, error)
	Close() error
}
