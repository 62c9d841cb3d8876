package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"vcpscan/pkg/model"
)

func sampleResult() *model.ScanResult {
	detected := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	return &model.ScanResult{
		ScanID:         "scan-1",
		ScanTime:       detected,
		TotalScanned:   3,
		SetupsFound:    1,
		BreakoutsFound: 1,
		Duration:       1500 * time.Millisecond,
		Outcomes: []model.ScanOutcome{
			{
				Symbol: "RELIANCE",
				Setup: &model.VCPSetup{
					Symbol: "RELIANCE", Score: 78.5, PivotPrice: 1650,
					CurrentPrice: 1620, TotalBaseDepthPct: 12.5,
					Legs: []model.Leg{{LegNumber: 1}, {LegNumber: 2}},
				},
				Proof: &model.ProofReport{Verdict: "Valid"},
				Plan:  &model.TradingPlan{Entry: 1666.5, StopLoss: 1533.2, Target2: 2066.4},
				Breakout: &model.BreakoutEvent{
					Symbol: "RELIANCE", BreakoutDate: detected,
					BreakoutPrice: 1685.4, PivotPrice: 1650,
					RelativeVolume: 2.35, ConfirmationScore: 82, Classification: "Strong",
				},
			},
			{Symbol: "TITAN", Error: "no_pattern"},
			{Symbol: "INFY", Error: "data_unavailable"},
		},
	}
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if err := r.RecordScan(sampleResult()); err != nil {
		t.Fatalf("record: %v", err)
	}

	summaries, err := r.ScanSummaries(10)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if s.ScanID != "scan-1" || s.TotalScanned != 3 || s.SetupsFound != 1 || s.BreakoutsFound != 1 {
		t.Errorf("summary = %+v", s)
	}

	var setups, breakouts int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM setups").Scan(&setups); err != nil {
		t.Fatal(err)
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM breakouts").Scan(&breakouts); err != nil {
		t.Fatal(err)
	}
	if setups != 1 || breakouts != 1 {
		t.Errorf("rows: %d setups, %d breakouts, want 1/1", setups, breakouts)
	}

	// Skip outcomes never create rows
	var verdict string
	if err := r.db.QueryRow("SELECT verdict FROM setups WHERE symbol = ?", "RELIANCE").Scan(&verdict); err != nil {
		t.Fatal(err)
	}
	if verdict != "Valid" {
		t.Errorf("verdict = %q", verdict)
	}
}

func TestSQLiteRecorderOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	older := sampleResult()
	older.ScanID = "older"
	older.ScanTime = older.ScanTime.Add(-24 * time.Hour)
	newer := sampleResult()
	newer.ScanID = "newer"

	if err := r.RecordScan(older); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordScan(newer); err != nil {
		t.Fatal(err)
	}

	summaries, err := r.ScanSummaries(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].ScanID != "newer" {
		t.Errorf("summaries = %+v, want the newest scan only", summaries)
	}
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	if err := n.RecordScan(sampleResult()); err != nil {
		t.Errorf("noop record: %v", err)
	}
	summaries, err := n.ScanSummaries(10)
	if err != nil || summaries != nil {
		t.Errorf("noop summaries = %v, %v", summaries, err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
