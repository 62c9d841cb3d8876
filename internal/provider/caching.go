package provider

import (
	"context"
	"sync"

	"vcpscan/pkg/model"
)

// CachingProvider wraps a Provider with an in-memory daily-candle cache.
// During a scan both the pattern analyzer and the relative-strength ranker
// read the same symbol's history; the cache collapses that into one fetch.
type CachingProvider struct {
	inner   Provider
	cache   map[string][]model.Candle
	mu      sync.Mutex
	maxDays int
}

// NewCachingProvider creates a caching wrapper. maxDays is the window always
// fetched on a miss so later, shorter requests hit the cache (use 250 to
// cover the 200-bar SMA).
func NewCachingProvider(inner Provider, maxDays int) *CachingProvider {
	return &CachingProvider{
		inner:   inner,
		cache:   make(map[string][]model.Candle),
		maxDays: maxDays,
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }
func (p *CachingProvider) RateLimit() int    { return p.inner.RateLimit() }

func (p *CachingProvider) GetSymbols(ctx context.Context, exchange string) ([]model.Stock, error) {
	return p.inner.GetSymbols(ctx, exchange)
}

func (p *CachingProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	p.mu.Lock()
	if cached, ok := p.cache[symbol]; ok {
		p.mu.Unlock()
		if len(cached) >= days {
			return cached[len(cached)-days:], nil
		}
		return cached, nil
	}
	p.mu.Unlock()

	fetchDays := p.maxDays
	if days > fetchDays {
		fetchDays = days
	}

	candles, err := p.inner.GetDailyCandles(ctx, symbol, fetchDays)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[symbol] = candles
	p.mu.Unlock()

	if len(candles) >= days {
		return candles[len(candles)-days:], nil
	}
	return candles, nil
}
