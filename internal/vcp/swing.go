package vcp

import (
	"vcpscan/pkg/model"
)

// swingPoint is a confirmed extremum with its bar index, used internally so
// the leg segmenter can average volume over bar spans without time lookups.
type swingPoint struct {
	index int
	price float64
	kind  model.SwingKind
}

// DetectSwings scans the candles forward tracking the running extremum since
// the last confirmed swing. A swing is confirmed when price reverses from
// that extremum by at least reversalPct in the opposite direction (a zigzag
// filter that suppresses noise smaller than the threshold).
//
// Fewer than 2 bars yields no swings. A monotonic series with no reversal of
// at least reversalPct yields at most one swing.
func DetectSwings(candles []model.Candle, reversalPct float64) []model.Swing {
	points := detectSwingPoints(candles, reversalPct)
	swings := make([]model.Swing, len(points))
	for i, p := range points {
		swings[i] = model.Swing{
			Time:  candles[p.index].Time,
			Price: p.price,
			Kind:  p.kind,
		}
	}
	return swings
}

func detectSwingPoints(candles []model.Candle, reversalPct float64) []swingPoint {
	if len(candles) < 2 || reversalPct <= 0 {
		return nil
	}

	const (
		dirNone = iota
		dirUp   // tracking a rising high, next swing is a HIGH
		dirDown // tracking a falling low, next swing is a LOW
	)

	var points []swingPoint

	dir := dirNone
	maxHigh, maxIdx := candles[0].High, 0
	minLow, minIdx := candles[0].Low, 0

	for i := 1; i < len(candles); i++ {
		c := candles[i]

		switch dir {
		case dirNone:
			// Track both extremes until the first reversal decides direction
			if c.High > maxHigh {
				maxHigh, maxIdx = c.High, i
			}
			if c.Low < minLow {
				minLow, minIdx = c.Low, i
			}
			if pctBelow(maxHigh, c.Low) >= reversalPct && maxIdx < i {
				points = append(points, swingPoint{maxIdx, maxHigh, model.SwingHigh})
				dir = dirDown
				minLow, minIdx = c.Low, i
			} else if pctAbove(minLow, c.High) >= reversalPct && minIdx < i {
				points = append(points, swingPoint{minIdx, minLow, model.SwingLow})
				dir = dirUp
				maxHigh, maxIdx = c.High, i
			}

		case dirUp:
			if c.High > maxHigh {
				maxHigh, maxIdx = c.High, i
			} else if pctBelow(maxHigh, c.Low) >= reversalPct {
				points = append(points, swingPoint{maxIdx, maxHigh, model.SwingHigh})
				dir = dirDown
				minLow, minIdx = c.Low, i
			}

		case dirDown:
			if c.Low < minLow {
				minLow, minIdx = c.Low, i
			} else if pctAbove(minLow, c.High) >= reversalPct {
				points = append(points, swingPoint{minIdx, minLow, model.SwingLow})
				dir = dirUp
				maxHigh, maxIdx = c.High, i
			}
		}
	}

	return points
}

// pctBelow returns how far low sits below high, as a percentage of high
func pctBelow(high, low float64) float64 {
	if high <= 0 {
		return 0
	}
	return (high - low) / high * 100
}

// pctAbove returns how far high sits above low, as a percentage of low
func pctAbove(low, high float64) float64 {
	if low <= 0 {
		return 0
	}
	return (high - low) / low * 100
}
