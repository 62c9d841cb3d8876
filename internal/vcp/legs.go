package vcp

import (
	"fmt"
	"time"

	"vcpscan/pkg/model"
)

// SegmentLegs pairs each swing HIGH with the following swing LOW into one
// contraction leg, numbering legs in emission order starting at 1.
//
// A leg's volume ratio compares mean volume over its bar span with the mean
// volume of the preceding leg; by convention the first leg's ratio is 1.0.
// When more than maxLegs pairs exist, the most recent maxLegs form the base.
//
// Returns ErrNoPattern when fewer than minLegs legs are produced, or when
// the final leg's low undercuts the first leg's low (the structure is
// trending down, not contracting toward a base).
func SegmentLegs(candles []model.Candle, reversalPct float64, minLegs, maxLegs int) ([]model.Leg, error) {
	points := detectSwingPoints(candles, reversalPct)
	return segmentLegs(candles, points, minLegs, maxLegs)
}

func segmentLegs(candles []model.Candle, points []swingPoint, minLegs, maxLegs int) ([]model.Leg, error) {
	var legs []model.Leg

	for i := 0; i+1 < len(points); i++ {
		if points[i].kind != model.SwingHigh || points[i+1].kind != model.SwingLow {
			continue
		}
		high, low := points[i], points[i+1]

		leg := model.Leg{
			StartDate:        candles[high.index].Time,
			EndDate:          candles[low.index].Time,
			HighPrice:        high.price,
			LowPrice:         low.price,
			PullbackDepthPct: pctBelow(high.price, low.price),
			VolumeRatio:      1.0,
			DurationDays:     low.index - high.index,
		}

		if n := len(legs); n > 0 {
			prev := legs[n-1]
			prevVol := meanVolumeBetween(candles, prev.StartDate, prev.EndDate)
			legVol := meanVolumeBetween(candles, leg.StartDate, leg.EndDate)
			if prevVol > 0 {
				leg.VolumeRatio = legVol / prevVol
			}
		}

		legs = append(legs, leg)
	}

	if maxLegs > 0 && len(legs) > maxLegs {
		legs = legs[len(legs)-maxLegs:]
	}
	for i := range legs {
		legs[i].LegNumber = i + 1
	}

	if len(legs) < minLegs {
		return nil, fmt.Errorf("%w: %d legs, need %d", ErrNoPattern, len(legs), minLegs)
	}
	if legs[len(legs)-1].LowPrice < legs[0].LowPrice {
		return nil, fmt.Errorf("%w: final leg low below first leg low", ErrNoPattern)
	}

	return legs, nil
}

// meanVolumeBetween averages volume over the bars spanning [start, end]
func meanVolumeBetween(candles []model.Candle, start, end time.Time) float64 {
	var sum int64
	var count int
	for _, c := range candles {
		if c.Time.Before(start) || c.Time.After(end) {
			continue
		}
		sum += c.Volume
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
