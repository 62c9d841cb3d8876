package vcp

import (
	"context"
	"fmt"

	"vcpscan/pkg/model"
)

// HistoryProvider supplies the ordered, gap-free daily history the pipeline
// runs on. Implemented by internal/provider.
type HistoryProvider interface {
	GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error)
}

// Ranker supplies the cross-sectional relative-strength rank for a symbol.
// Optional: a nil Ranker (or an unavailable rank) degrades the scorer to a
// neutral midpoint instead of failing the pipeline.
type Ranker interface {
	Rank(symbol string) RSInput
}

// Result bundles everything one symbol's pipeline produced. Plan and
// Breakout may be nil (plan unavailable, no breakout) while Setup and Proof
// are always set on success.
type Result struct {
	Setup    *model.VCPSetup
	Breakout *model.BreakoutEvent
	Plan     *model.TradingPlan
	Proof    *model.ProofReport
}

// Analyzer runs the full detection pipeline for a single symbol:
// history -> swings -> legs -> scored setup -> breakout check -> plan -> proof.
type Analyzer struct {
	cfg          Config
	history      HistoryProvider
	ranker       Ranker
	lookbackDays int
}

// NewAnalyzer creates an analyzer. lookbackDays bounds the history fetched
// per symbol (250 covers the 200-bar SMA plus the leg-detection window).
func NewAnalyzer(cfg Config, history HistoryProvider, ranker Ranker, lookbackDays int) *Analyzer {
	if lookbackDays <= 0 {
		lookbackDays = 250
	}
	return &Analyzer{
		cfg:          cfg,
		history:      history,
		ranker:       ranker,
		lookbackDays: lookbackDays,
	}
}

// Analyze fetches the symbol's history and runs the pipeline over it
func (a *Analyzer) Analyze(ctx context.Context, stock model.Stock) (*Result, error) {
	candles, err := a.history.GetDailyCandles(ctx, stock.Symbol, a.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, stock.Symbol, err)
	}

	result, err := a.AnalyzeCandles(stock.Symbol, candles)
	if err != nil {
		return nil, err
	}
	if result.Setup != nil {
		result.Setup.StockName = stock.Name
	}
	return result, nil
}

// AnalyzeCandles runs the pure pipeline over an immutable history snapshot
func (a *Analyzer) AnalyzeCandles(symbol string, candles []model.Candle) (*Result, error) {
	if len(candles) < a.cfg.MinBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", ErrInsufficientHistory, len(candles), a.cfg.MinBars)
	}

	legs, err := SegmentLegs(candles, a.cfg.ReversalPct, a.cfg.MinLegs, a.cfg.MaxLegs)
	if err != nil {
		return nil, err
	}

	var rs RSInput
	if a.ranker != nil {
		rs = a.ranker.Rank(symbol)
	}

	setup := BuildSetup(a.cfg, symbol, candles, legs, rs)
	result := &Result{
		Setup:    setup,
		Breakout: DetectBreakout(a.cfg, symbol, setup.PivotPrice, candles),
		Proof:    BuildProof(a.cfg, setup),
	}

	// A degenerate plan never suppresses the setup or proof
	if plan, err := BuildPlan(a.cfg, setup); err == nil {
		result.Plan = plan
	}

	return result, nil
}
