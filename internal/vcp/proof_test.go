package vcp

import (
	"bytes"
	"encoding/json"
	"testing"

	"vcpscan/pkg/model"
)

func proofSetup() *model.VCPSetup {
	return &model.VCPSetup{
		Symbol:               "TEST",
		CurrentPrice:         98,
		Legs:                 legsWithDepths(18.5, 12.3, 8.1),
		TotalBaseDepthPct:    13.2,
		BaseDurationDays:     42,
		PivotPrice:           99.1,
		DistanceFromPivotPct: 2.1,
		VolumeDryUpPct:       35,
		TrendAlignment:       true,
		RSPercentile:         82,
		SMA20:                95.2,
		SMA50:                91.7,
	}
}

func TestBuildProof_AllPass(t *testing.T) {
	cfg := DefaultConfig()
	report := BuildProof(cfg, proofSetup())

	if report.TotalCount != 6 || report.PassedCount != 6 {
		t.Fatalf("passed %d/%d, want 6/6", report.PassedCount, report.TotalCount)
	}
	if report.Verdict != VerdictValid {
		t.Errorf("verdict = %q, want Valid", report.Verdict)
	}

	wantOrder := []string{
		"progressive_contraction",
		"volume_dry_up",
		"base_depth",
		"trend_alignment",
		"relative_strength",
		"pivot_proximity",
	}
	for i, name := range wantOrder {
		if report.Criteria[i].Criterion != name {
			t.Errorf("criterion %d = %q, want %q", i, report.Criteria[i].Criterion, name)
		}
		if report.Criteria[i].Evidence == "" {
			t.Errorf("criterion %q has no evidence", name)
		}
	}
}

func TestBuildProof_OneFailureStillValid(t *testing.T) {
	cfg := DefaultConfig()
	setup := proofSetup()
	setup.VolumeDryUpPct = 5 // under the 20% minimum

	report := BuildProof(cfg, setup)
	if report.PassedCount != 5 {
		t.Fatalf("passed %d, want 5", report.PassedCount)
	}
	if report.Verdict != VerdictValid {
		t.Errorf("verdict = %q, want Valid at 5/6", report.Verdict)
	}
	for _, c := range report.Criteria {
		if c.Criterion == "volume_dry_up" && c.Passed {
			t.Error("volume_dry_up should have failed")
		}
	}
}

func TestBuildProof_Verdicts(t *testing.T) {
	cfg := DefaultConfig()

	partial := proofSetup()
	partial.VolumeDryUpPct = 5
	partial.RSPercentile = 40
	partial.TotalBaseDepthPct = 28
	if got := BuildProof(cfg, partial); got.Verdict != VerdictPartial || got.PassedCount != 3 {
		t.Errorf("verdict = %q (%d passed), want Partial at 3/6", got.Verdict, got.PassedCount)
	}

	invalid := proofSetup()
	invalid.Legs = legsWithDepths(8, 15, 22)
	invalid.VolumeDryUpPct = 0
	invalid.RSPercentile = 10
	invalid.TotalBaseDepthPct = 35
	invalid.TrendAlignment = false
	if got := BuildProof(cfg, invalid); got.Verdict != VerdictInvalid {
		t.Errorf("verdict = %q (%d passed), want Invalid", got.Verdict, got.PassedCount)
	}
}

// The report is a pure function of the setup: repeated runs serialize to
// identical bytes.
func TestBuildProof_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	setup := proofSetup()

	first, err := json.Marshal(BuildProof(cfg, setup))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(BuildProof(cfg, setup))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("reports differ:\n%s\n%s", first, second)
	}
}

// Tightening a threshold in the shared config flips the matching criterion
// without touching the others.
func TestBuildProof_ConfigDriven(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RSPercentileMin = 90

	report := BuildProof(cfg, proofSetup())
	if report.PassedCount != 5 {
		t.Fatalf("passed %d, want 5 after raising the RS floor", report.PassedCount)
	}
	for _, c := range report.Criteria {
		if c.Criterion == "relative_strength" && c.Passed {
			t.Error("relative_strength should fail at a 90 floor")
		}
	}
}
