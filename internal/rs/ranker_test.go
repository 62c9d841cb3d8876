package rs

import (
	"context"
	"errors"
	"testing"
	"time"

	"vcpscan/pkg/model"
)

// pathProvider serves a fixed linear price path per symbol
type pathProvider struct {
	paths map[string][2]float64 // first close, last close
	err   error
}

func (p *pathProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	if p.err != nil {
		return nil, p.err
	}
	path, ok := p.paths[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, days)
	for i := range candles {
		frac := float64(i) / float64(days-1)
		candles[i] = model.Candle{
			Time:  start.AddDate(0, 0, i),
			Close: path[0] + (path[1]-path[0])*frac,
		}
	}
	return candles, nil
}

func stocks(symbols ...string) []model.Stock {
	out := make([]model.Stock, len(symbols))
	for i, s := range symbols {
		out[i] = model.Stock{Symbol: s}
	}
	return out
}

func TestRankerPercentiles(t *testing.T) {
	provider := &pathProvider{paths: map[string][2]float64{
		"^NSEI":  {100, 110}, // +10%
		"LEADER": {100, 140}, // +40%, +30 excess
		"MIDDLE": {100, 115}, // +15%, +5 excess
		"LAGGER": {100, 95},  // -5%, -15 excess
	}}

	r := NewRanker(provider, "^NSEI", 63)
	if err := r.Build(context.Background(), stocks("LEADER", "MIDDLE", "LAGGER")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Size() != 3 {
		t.Fatalf("ranked %d symbols, want 3", r.Size())
	}

	leader := r.Rank("LEADER")
	if !leader.Available || leader.Percentile != 100 {
		t.Errorf("leader = %+v, want percentile 100", leader)
	}
	if leader.RelativeStrengthPct < 15 || leader.RelativeStrengthPct > 35 {
		t.Errorf("leader excess = %.1f, want strongly positive", leader.RelativeStrengthPct)
	}

	if mid := r.Rank("MIDDLE"); mid.Percentile != 50 {
		t.Errorf("middle percentile = %.1f, want 50", mid.Percentile)
	}
	if lag := r.Rank("LAGGER"); lag.Percentile != 0 {
		t.Errorf("lagger percentile = %.1f, want 0", lag.Percentile)
	}
}

func TestRankerDefaultPeriod(t *testing.T) {
	r := NewRanker(&pathProvider{}, "^NSEI", 0)
	if r.period != 252 {
		t.Errorf("default period = %d, want a trailing year of sessions", r.period)
	}
}

func TestRankerUnknownSymbolUnavailable(t *testing.T) {
	provider := &pathProvider{paths: map[string][2]float64{
		"^NSEI": {100, 110},
		"KNOWN": {100, 120},
	}}
	r := NewRanker(provider, "^NSEI", 63)
	// BROKEN fails to price; the build keeps going
	if err := r.Build(context.Background(), stocks("KNOWN", "BROKEN")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rank := r.Rank("BROKEN"); rank.Available {
		t.Errorf("unpriced symbol should rank unavailable, got %+v", rank)
	}
	if rank := r.Rank("KNOWN"); !rank.Available {
		t.Error("priced symbol should rank available")
	}
}

func TestRankerBenchmarkFailure(t *testing.T) {
	r := NewRanker(&pathProvider{err: errors.New("down")}, "^NSEI", 63)
	if err := r.Build(context.Background(), stocks("A")); err == nil {
		t.Error("expected an error when the benchmark cannot be priced")
	}
	if rank := r.Rank("A"); rank.Available {
		t.Error("ranks must stay unavailable after a failed build")
	}
}
