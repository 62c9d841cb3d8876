package app

import (
	"context"
	"fmt"
	"log"

	"vcpscan/internal/config"
	"vcpscan/internal/provider"
	"vcpscan/internal/recorder"
	"vcpscan/internal/rs"
	"vcpscan/internal/scanner"
	"vcpscan/internal/symbols"
	"vcpscan/internal/vcp"
	"vcpscan/pkg/model"
)

// App wires the data layer, ranker, scanner and recorder from one config.
// The CLI, the web server and the scan daemon all run scans through it.
type App struct {
	Config   *config.Config
	Provider provider.Provider
	Loader   *symbols.Loader
	Recorder recorder.Recorder
}

// New composes the application from configuration
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	providers := []provider.Provider{
		provider.NewYahooProvider(cfg.API.YahooSuffix),
	}
	if cfg.API.Finnhub.Key != "" {
		providers = append(providers, provider.NewFinnhubProvider(cfg.API.Finnhub.Key, cfg.API.Finnhub.RateLimit))
	}
	cached := provider.NewCachingProvider(provider.NewFallbackProvider(providers...), cfg.API.CacheDays)

	rec := recorder.Recorder(recorder.NewNoopRecorder())
	if cfg.Recorder.Path != "" {
		sqlite, err := recorder.NewSQLiteRecorder(cfg.Recorder.Path)
		if err != nil {
			return nil, fmt.Errorf("opening recorder: %w", err)
		}
		rec = sqlite
	}

	return &App{
		Config:   cfg,
		Provider: cached,
		Loader:   symbols.NewLoader(cached, cfg.API.Exchange),
		Recorder: rec,
	}, nil
}

// Close releases the recorder
func (a *App) Close() error {
	return a.Recorder.Close()
}

// newScanner builds the analyzer and scanner for one scan run, sharing the
// warm provider cache with the ranker
func (a *App) newScanner(ranker vcp.Ranker) *scanner.Scanner {
	analyzer := vcp.NewAnalyzer(a.Config.VCP, a.Provider, ranker, a.Config.Scanner.LookbackDays)
	return scanner.NewScanner(analyzer, a.Config.Scanner.Workers, a.Config.Scanner.Timeout, a.Config.Scanner.SymbolTimeout)
}

// RunScan ranks the universe, scans it, and records the result. Ranker
// failures degrade the scorer to its neutral midpoint instead of aborting.
func (a *App) RunScan(ctx context.Context, stocks []model.Stock, progress scanner.ProgressCallback) (*model.ScanResult, error) {
	ranker := rs.NewRanker(a.Provider, a.Config.Benchmark.Symbol, a.Config.Benchmark.Period)
	if err := ranker.Build(ctx, stocks); err != nil {
		log.Printf("[WARN] relative strength unavailable: %v", err)
	}

	s := a.newScanner(ranker)
	if progress != nil {
		s.SetProgressCallback(progress)
	}

	result, err := s.Scan(ctx, stocks)
	if err != nil {
		return nil, err
	}

	if err := a.Recorder.RecordScan(result); err != nil {
		log.Printf("[ERROR] recording scan %s: %v", result.ScanID, err)
	}
	return result, nil
}

// AnalyzeSymbol runs the full pipeline for one symbol outside a scan. With
// no universe to rank against, the RS percentile falls back to neutral.
func (a *App) AnalyzeSymbol(ctx context.Context, symbol string) (*vcp.Result, error) {
	analyzer := vcp.NewAnalyzer(a.Config.VCP, a.Provider, nil, a.Config.Scanner.LookbackDays)
	return analyzer.Analyze(ctx, model.Stock{Symbol: symbol, Name: symbol})
}

// ResolveUniverse picks the scan universe: explicit symbols win, then a
// symbols file, then the exchange listing (with its curated fallback).
func (a *App) ResolveUniverse(ctx context.Context, explicit []string, file string, limit int) ([]model.Stock, error) {
	var stocks []model.Stock
	var err error
	switch {
	case len(explicit) > 0:
		stocks = a.Loader.LoadSymbols(explicit)
	case file != "":
		stocks, err = a.Loader.LoadFile(file)
	default:
		stocks, err = a.Loader.LoadUniverse(ctx)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(stocks) > limit {
		stocks = stocks[:limit]
	}
	return stocks, nil
}
