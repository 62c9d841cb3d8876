package vcp

import (
	"fmt"
	"math"

	"vcpscan/pkg/model"
)

// RSInput carries the externally supplied relative-strength rank. The core
// consumes, never computes, the cross-sectional percentile; when it is
// missing the scorer substitutes a neutral midpoint and records a caveat.
type RSInput struct {
	RelativeStrengthPct float64
	Percentile          float64
	Available           bool
}

// BuildSetup evaluates a leg sequence against the VCP criteria and produces
// the scored, immutable setup. candles must be the full ascending daily
// history the legs were segmented from.
func BuildSetup(cfg Config, symbol string, candles []model.Candle, legs []model.Leg, rs RSInput) *model.VCPSetup {
	last := candles[len(candles)-1]

	setup := &model.VCPSetup{
		Symbol:       symbol,
		CurrentPrice: last.Close,
		Legs:         legs,
		DetectedAt:   last.Time,
		SMA20:        SMA(candles, cfg.TrendSMAFast),
		SMA50:        SMA(candles, cfg.TrendSMASlow),
		SMA200:       SMA(candles, 200),
	}

	overallHigh, overallLow := legs[0].HighPrice, legs[0].LowPrice
	for _, leg := range legs {
		if leg.HighPrice > overallHigh {
			overallHigh = leg.HighPrice
		}
		if leg.LowPrice < overallLow {
			overallLow = leg.LowPrice
		}
		setup.BaseDurationDays += leg.DurationDays
	}
	setup.TotalBaseDepthPct = pctBelow(overallHigh, overallLow)

	setup.PivotPrice = legs[len(legs)-1].HighPrice
	setup.DistanceFromPivotPct = pctBelow(setup.PivotPrice, setup.CurrentPrice)
	setup.VolumeDryUpPct = volumeDryUp(candles, legs)
	setup.TrendAlignment = setup.SMA20 > 0 && setup.SMA50 > 0 &&
		setup.CurrentPrice > setup.SMA20 && setup.CurrentPrice > setup.SMA50

	if rs.Available {
		setup.RelativeStrengthPct = rs.RelativeStrengthPct
		setup.RSPercentile = rs.Percentile
	} else {
		setup.RSPercentile = NeutralRSPercentile
		setup.Caveats = append(setup.Caveats, "rs_percentile unavailable, neutral default substituted")
	}

	setup.Score = compositeScore(cfg, setup)
	return setup
}

// ProgressiveContraction reports whether each leg pulls back less than the
// previous one. A regression within tolerancePct does not fail the check
// (it is penalized in scoring instead).
func ProgressiveContraction(legs []model.Leg, tolerancePct float64) bool {
	for i := 1; i < len(legs); i++ {
		if legs[i].PullbackDepthPct >= legs[i-1].PullbackDepthPct+tolerancePct {
			return false
		}
	}
	return len(legs) >= 2
}

// volumeDryUp is the percentage decrease of mean volume from the earliest
// leg to the latest leg, floored at zero
func volumeDryUp(candles []model.Candle, legs []model.Leg) float64 {
	first := meanVolumeBetween(candles, legs[0].StartDate, legs[0].EndDate)
	last := meanVolumeBetween(candles, legs[len(legs)-1].StartDate, legs[len(legs)-1].EndDate)
	if first <= 0 {
		return 0
	}
	return math.Max((first-last)/first*100, 0)
}

// compositeScore folds the sub-metrics into 0-100. Each credit is smooth in
// its input so small threshold changes never produce score discontinuities.
func compositeScore(cfg Config, s *model.VCPSetup) float64 {
	w := cfg.Weights

	score := contractionCredit(s.Legs, cfg.ContractionTolerancePct) * w.Contraction
	score += clamp01(s.VolumeDryUpPct/50) * w.VolumeDryUp
	score += depthBandCredit(cfg, s.TotalBaseDepthPct) * w.BaseDepth
	if s.TrendAlignment {
		score += w.Trend
	}
	score += clamp01(s.RSPercentile/100) * w.RSPercentile
	score += proximityCredit(cfg, s.DistanceFromPivotPct) * w.PivotProximity

	return math.Round(math.Min(math.Max(score, 0), 100)*10) / 10
}

// contractionCredit averages per-pair credit: 1 for a strict contraction,
// 0.5 for a regression inside the tolerance, 0 otherwise
func contractionCredit(legs []model.Leg, tolerancePct float64) float64 {
	if len(legs) < 2 {
		return 0
	}

	var credit float64
	for i := 1; i < len(legs); i++ {
		switch {
		case legs[i].PullbackDepthPct < legs[i-1].PullbackDepthPct:
			credit += 1.0
		case legs[i].PullbackDepthPct < legs[i-1].PullbackDepthPct+tolerancePct:
			credit += 0.5
		}
	}
	return credit / float64(len(legs)-1)
}

// depthBandCredit gives full credit inside the ideal band and decays
// linearly to zero at the floor and ceiling, never a step
func depthBandCredit(cfg Config, depth float64) float64 {
	switch {
	case depth >= cfg.IdealDepthMin && depth <= cfg.IdealDepthMax:
		return 1
	case depth > cfg.DepthFloor && depth < cfg.IdealDepthMin:
		return (depth - cfg.DepthFloor) / (cfg.IdealDepthMin - cfg.DepthFloor)
	case depth > cfg.IdealDepthMax && depth < cfg.DepthCeiling:
		return (cfg.DepthCeiling - depth) / (cfg.DepthCeiling - cfg.IdealDepthMax)
	default:
		return 0
	}
}

// proximityCredit decays linearly with distance below the pivot; a price at
// or above the pivot earns full credit
func proximityCredit(cfg Config, distancePct float64) float64 {
	if distancePct <= 0 {
		return 1
	}
	return clamp01(1 - distancePct/cfg.MaxPivotDistancePct)
}

// FormatDepths renders the leg depth sequence for evidence strings,
// e.g. "18.5% -> 12.3% -> 8.1%"
func FormatDepths(legs []model.Leg) string {
	s := ""
	for i, leg := range legs {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%.1f%%", leg.PullbackDepthPct)
	}
	return s
}
