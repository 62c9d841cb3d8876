package vcp

import (
	"vcpscan/pkg/model"
)

// DetectBreakout compares the most recent bar against a setup's pivot and
// the trailing volume baseline. It returns nil unless the close clears the
// pivot by the configured buffer on at least the minimum relative volume.
//
// Runs independently of the scorer: pivotPrice typically comes from a
// previously computed VCPSetup, candles are the live daily history.
func DetectBreakout(cfg Config, symbol string, pivotPrice float64, candles []model.Candle) *model.BreakoutEvent {
	if pivotPrice <= 0 || len(candles) < 2 {
		return nil
	}

	current := candles[len(candles)-1]
	previous := candles[len(candles)-2]

	trigger := pivotPrice * (1 + cfg.BreakoutBufferPct/100)
	if current.Close <= trigger {
		return nil
	}

	// Baseline excludes the breakout bar itself so the surge doesn't
	// inflate its own reference
	avgVol := AvgVolume(candles, cfg.VolumeBaselinePeriod, 1)
	if avgVol <= 0 {
		return nil
	}
	relVolume := float64(current.Volume) / avgVol
	if relVolume < cfg.MinRelativeVolume {
		return nil
	}

	event := &model.BreakoutEvent{
		Symbol:         symbol,
		BreakoutDate:   current.Time,
		BreakoutPrice:  current.Close,
		PivotPrice:     pivotPrice,
		BreakoutVolume: current.Volume,
		RelativeVolume: relVolume,
	}
	if previous.Close > 0 {
		event.PriceChangePct = (current.Close - previous.Close) / previous.Close * 100
		if gap := (current.Open - previous.Close) / previous.Close * 100; gap > 0 {
			event.GapUpPct = gap
		}
	}

	event.ConfirmationScore = confirmationScore(cfg, event)
	event.Classification = ClassifyConfirmation(cfg, event.ConfirmationScore)
	return event
}

// confirmationScore weights relative volume (the largest share), price
// change and gap-up into 0-100 with the same smooth-falloff philosophy as
// the setup scorer. Full volume credit is reached at StrongRelativeVolume
// above the minimum multiple.
func confirmationScore(cfg Config, e *model.BreakoutEvent) float64 {
	span := cfg.StrongRelativeVolume
	if span <= 0 {
		span = 1.5
	}

	score := clamp01((e.RelativeVolume-cfg.MinRelativeVolume)/span) * 50
	score += clamp01(e.PriceChangePct/3) * 25
	score += clamp01(e.GapUpPct/2) * 25

	if score > 100 {
		score = 100
	}
	return score
}

// ClassifyConfirmation maps a confirmation score to its display band
func ClassifyConfirmation(cfg Config, score float64) string {
	switch {
	case score >= cfg.StrongScore:
		return "Strong"
	case score >= cfg.ModerateScore:
		return "Moderate"
	default:
		return "Weak"
	}
}
