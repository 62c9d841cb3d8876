package scanner

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vcpscan/internal/vcp"
	"vcpscan/pkg/model"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int)

// Scanner runs the detection pipeline over a universe in parallel. Every
// symbol yields exactly one outcome: a setup, a typed skip reason, or an
// error string. A failing symbol never aborts the scan.
type Scanner struct {
	analyzer      *vcp.Analyzer
	workers       int
	timeout       time.Duration
	symbolTimeout time.Duration
	progressFunc  ProgressCallback
}

// NewScanner creates a scanner. timeout bounds the whole scan,
// symbolTimeout each symbol's pipeline run.
func NewScanner(analyzer *vcp.Analyzer, workers int, timeout, symbolTimeout time.Duration) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		analyzer:      analyzer,
		workers:       workers,
		timeout:       timeout,
		symbolTimeout: symbolTimeout,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan analyzes all provided stocks and aggregates per-symbol outcomes.
// Outcomes with setups sort first, by score descending.
func (s *Scanner) Scan(ctx context.Context, stocks []model.Stock) (*model.ScanResult, error) {
	startTime := time.Now()
	result := &model.ScanResult{
		ScanID:       uuid.NewString(),
		ScanTime:     startTime,
		TotalScanned: len(stocks),
		Outcomes:     []model.ScanOutcome{},
	}

	if len(stocks) == 0 {
		result.Duration = time.Since(startTime)
		return result, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	jobChan := make(chan model.Stock, len(stocks))
	resultChan := make(chan model.ScanOutcome, len(stocks))

	for _, stock := range stocks {
		jobChan <- stock
	}
	close(jobChan)

	var scannedCount int64

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for stock := range jobChan {
				select {
				case <-ctx.Done():
					resultChan <- model.ScanOutcome{
						Symbol: stock.Symbol,
						Error:  vcp.ErrorKind(ctx.Err()),
					}
				default:
					resultChan <- s.scanOne(ctx, stock)
				}

				count := atomic.AddInt64(&scannedCount, 1)
				if s.progressFunc != nil {
					s.progressFunc(int(count), len(stocks))
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for outcome := range resultChan {
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Setup != nil {
			result.SetupsFound++
		}
		if outcome.Breakout != nil {
			result.BreakoutsFound++
		}
	}

	sortOutcomes(result.Outcomes)
	result.Duration = time.Since(startTime)
	return result, nil
}

// scanOne runs the pipeline for one symbol under the per-symbol deadline
func (s *Scanner) scanOne(ctx context.Context, stock model.Stock) model.ScanOutcome {
	if s.symbolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.symbolTimeout)
		defer cancel()
	}

	outcome := model.ScanOutcome{Symbol: stock.Symbol}
	res, err := s.analyzer.Analyze(ctx, stock)
	if err != nil {
		outcome.Error = vcp.ErrorKind(err)
		return outcome
	}

	outcome.Setup = res.Setup
	outcome.Breakout = res.Breakout
	outcome.Plan = res.Plan
	outcome.Proof = res.Proof
	return outcome
}

// ScanSymbols scans specific symbols
func (s *Scanner) ScanSymbols(ctx context.Context, symbols []string) (*model.ScanResult, error) {
	stocks := make([]model.Stock, len(symbols))
	for i, sym := range symbols {
		stocks[i] = model.Stock{
			Symbol:   sym,
			Name:     sym,
			Exchange: "NSE",
		}
	}
	return s.Scan(ctx, stocks)
}

// sortOutcomes orders setups first by descending score, then skips and
// errors alphabetically so reruns render identically
func sortOutcomes(outcomes []model.ScanOutcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i], outcomes[j]
		switch {
		case a.Setup != nil && b.Setup != nil:
			if a.Setup.Score != b.Setup.Score {
				return a.Setup.Score > b.Setup.Score
			}
			return a.Symbol < b.Symbol
		case a.Setup != nil:
			return true
		case b.Setup != nil:
			return false
		default:
			return a.Symbol < b.Symbol
		}
	})
}

// Setups returns only the outcomes carrying a setup, in score order
func Setups(result *model.ScanResult) []model.ScanOutcome {
	var out []model.ScanOutcome
	for _, o := range result.Outcomes {
		if o.Setup != nil {
			out = append(out, o)
		}
	}
	return out
}
