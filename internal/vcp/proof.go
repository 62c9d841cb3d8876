package vcp

import (
	"fmt"

	"vcpscan/pkg/model"
)

// Proof verdicts
const (
	VerdictValid   = "Valid"
	VerdictPartial = "Partial"
	VerdictInvalid = "Invalid"
)

// BuildProof re-expresses the scorer's metrics as six independently
// evaluated pass/fail criteria with evidence strings. Every threshold comes
// from the same Config the scorer and breakout detector read, so the
// checklist can never drift from the scoring.
//
// Pure function of the setup; never mutates it.
func BuildProof(cfg Config, setup *model.VCPSetup) *model.ProofReport {
	report := &model.ProofReport{}

	contracting := ProgressiveContraction(setup.Legs, cfg.ContractionTolerancePct)
	report.Criteria = append(report.Criteria, model.Criterion{
		Criterion: "progressive_contraction",
		Passed:    contracting,
		Detail:    "each pullback shallower than the previous",
		Evidence:  fmt.Sprintf("%d legs, depths %s", len(setup.Legs), FormatDepths(setup.Legs)),
	})

	report.Criteria = append(report.Criteria, model.Criterion{
		Criterion: "volume_dry_up",
		Passed:    setup.VolumeDryUpPct >= cfg.MinVolumeDryUpPct,
		Detail:    fmt.Sprintf("mean volume down at least %.0f%% across the base", cfg.MinVolumeDryUpPct),
		Evidence:  fmt.Sprintf("volume contracted %.1f%% from first to final leg", setup.VolumeDryUpPct),
	})

	report.Criteria = append(report.Criteria, model.Criterion{
		Criterion: "base_depth",
		Passed:    setup.TotalBaseDepthPct >= cfg.IdealDepthMin && setup.TotalBaseDepthPct <= cfg.IdealDepthMax,
		Detail:    fmt.Sprintf("total base depth inside %.0f-%.0f%%", cfg.IdealDepthMin, cfg.IdealDepthMax),
		Evidence:  fmt.Sprintf("base depth %.1f%% over %d sessions", setup.TotalBaseDepthPct, setup.BaseDurationDays),
	})

	report.Criteria = append(report.Criteria, model.Criterion{
		Criterion: "trend_alignment",
		Passed:    setup.TrendAlignment,
		Detail:    fmt.Sprintf("price above %d-bar and %d-bar SMAs", cfg.TrendSMAFast, cfg.TrendSMASlow),
		Evidence:  fmt.Sprintf("close %.2f vs SMA%d %.2f, SMA%d %.2f", setup.CurrentPrice, cfg.TrendSMAFast, setup.SMA20, cfg.TrendSMASlow, setup.SMA50),
	})

	report.Criteria = append(report.Criteria, model.Criterion{
		Criterion: "relative_strength",
		Passed:    setup.RSPercentile >= cfg.RSPercentileMin,
		Detail:    fmt.Sprintf("RS percentile at least %.0f", cfg.RSPercentileMin),
		Evidence:  fmt.Sprintf("RS percentile %.1f", setup.RSPercentile),
	})

	report.Criteria = append(report.Criteria, model.Criterion{
		Criterion: "pivot_proximity",
		Passed:    setup.DistanceFromPivotPct <= cfg.MaxPivotDistancePct,
		Detail:    fmt.Sprintf("within %.0f%% of the pivot", cfg.MaxPivotDistancePct),
		Evidence:  fmt.Sprintf("%.1f%% below pivot %.2f", setup.DistanceFromPivotPct, setup.PivotPrice),
	})

	report.TotalCount = len(report.Criteria)
	for _, c := range report.Criteria {
		if c.Passed {
			report.PassedCount++
		}
	}

	switch {
	case report.PassedCount >= 5:
		report.Verdict = VerdictValid
	case report.PassedCount >= 3:
		report.Verdict = VerdictPartial
	default:
		report.Verdict = VerdictInvalid
	}

	return report
}
