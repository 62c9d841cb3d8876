package rs

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"vcpscan/internal/vcp"
	"vcpscan/pkg/model"
)

// HistoryProvider is the slice of the data layer the ranker needs
type HistoryProvider interface {
	GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error)
}

// Ranker computes cross-sectional relative-strength percentiles for a scan
// universe: each symbol's return over the benchmark window minus the
// benchmark's own return, ranked against every other symbol in the scan.
//
// Build runs before the scan; Rank is a lock-protected map read afterwards,
// so the scanner's workers can call it concurrently. Symbols the build could
// not price rank as unavailable and the scorer degrades them to its neutral
// midpoint.
type Ranker struct {
	provider  HistoryProvider
	benchmark string
	period    int

	mu    sync.RWMutex
	ranks map[string]vcp.RSInput
}

// NewRanker creates a ranker comparing against the benchmark index over
// period trading days
func NewRanker(provider HistoryProvider, benchmark string, period int) *Ranker {
	if period <= 0 {
		period = 252
	}
	return &Ranker{
		provider:  provider,
		benchmark: benchmark,
		period:    period,
		ranks:     make(map[string]vcp.RSInput),
	}
}

// periodReturn is the percent change from the first to the last close of
// the trailing window
func periodReturn(candles []model.Candle, period int) (float64, error) {
	if len(candles) < 2 {
		return 0, fmt.Errorf("not enough history: %d bars", len(candles))
	}
	if len(candles) > period+1 {
		candles = candles[len(candles)-period-1:]
	}
	first := candles[0].Close
	if first <= 0 {
		return 0, fmt.Errorf("non-positive starting close")
	}
	return (candles[len(candles)-1].Close - first) / first * 100, nil
}

// Build fetches the benchmark and every symbol's trailing return, then
// assigns percentiles. A benchmark failure leaves the ranker empty (every
// Rank unavailable) rather than failing the scan.
func (r *Ranker) Build(ctx context.Context, symbols []model.Stock) error {
	benchCandles, err := r.provider.GetDailyCandles(ctx, r.benchmark, r.period+10)
	if err != nil {
		return fmt.Errorf("fetching benchmark %s: %w", r.benchmark, err)
	}
	benchReturn, err := periodReturn(benchCandles, r.period)
	if err != nil {
		return fmt.Errorf("benchmark %s: %w", r.benchmark, err)
	}

	type entry struct {
		symbol string
		excess float64
	}
	entries := make([]entry, 0, len(symbols))
	for _, stock := range symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		candles, err := r.provider.GetDailyCandles(ctx, stock.Symbol, r.period+10)
		if err != nil {
			log.Printf("[WARN] rs: %s: %v", stock.Symbol, err)
			continue
		}
		ret, err := periodReturn(candles, r.period)
		if err != nil {
			continue
		}
		entries = append(entries, entry{symbol: stock.Symbol, excess: ret - benchReturn})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].excess < entries[j].excess
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranks = make(map[string]vcp.RSInput, len(entries))
	for i, e := range entries {
		percentile := 50.0
		if len(entries) > 1 {
			percentile = float64(i) / float64(len(entries)-1) * 100
		}
		r.ranks[e.symbol] = vcp.RSInput{
			RelativeStrengthPct: e.excess,
			Percentile:          percentile,
			Available:           true,
		}
	}
	return nil
}

// Rank returns the symbol's percentile, or an unavailable input when the
// symbol was not part of the build
func (r *Ranker) Rank(symbol string) vcp.RSInput {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ranks[symbol]
}

// Size returns the number of ranked symbols
func (r *Ranker) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ranks)
}
