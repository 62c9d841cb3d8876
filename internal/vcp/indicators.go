package vcp

import (
	"math"

	"vcpscan/pkg/model"
)

// SMA calculates the Simple Moving Average of closes for the given period
func SMA(candles []model.Candle, period int) float64 {
	if period <= 0 || len(candles) < period {
		return 0
	}

	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period)
}

// AvgVolume calculates average volume over the trailing period, excluding
// the most recent skip bars (skip=1 gives the baseline as of yesterday)
func AvgVolume(candles []model.Candle, period, skip int) float64 {
	end := len(candles) - skip
	if period <= 0 || end < period {
		return 0
	}

	var sum int64
	for i := end - period; i < end; i++ {
		sum += candles[i].Volume
	}
	return float64(sum) / float64(period)
}

// ATR calculates the Average True Range for the given period
func ATR(candles []model.Candle, period int) float64 {
	if period <= 0 || len(candles) < period+1 {
		return 0
	}

	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		tr := candles[i].High - candles[i].Low
		tr = math.Max(tr, math.Abs(candles[i].High-candles[i-1].Close))
		tr = math.Max(tr, math.Abs(candles[i].Low-candles[i-1].Close))
		sum += tr
	}
	return sum / float64(period)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
