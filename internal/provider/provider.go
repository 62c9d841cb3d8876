package provider

import (
	"context"

	"vcpscan/pkg/model"
)

// Provider defines the interface for market data providers. The scan only
// ever needs daily history and a symbol universe.
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetDailyCandles fetches daily OHLCV bars in ascending date order,
	// covering at least the requested number of trading days when the
	// symbol has that much history
	GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error)

	// GetSymbols returns the list of symbols for the given exchange
	GetSymbols(ctx context.Context, exchange string) ([]model.Stock, error)

	// IsAvailable checks if the provider is usable (has an API key when
	// one is required)
	IsAvailable() bool

	// RateLimit returns the rate limit per minute
	RateLimit() int
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
}

// NewFallbackProvider creates a fallback provider over the available subset
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// GetDailyCandles tries each provider in order until one succeeds
func (f *FallbackProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	var lastErr error
	for _, p := range f.providers {
		data, err := p.GetDailyCandles(ctx, symbol, days)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// GetSymbols returns symbols from the first provider that can list them
func (f *FallbackProvider) GetSymbols(ctx context.Context, exchange string) ([]model.Stock, error) {
	var lastErr error
	for _, p := range f.providers {
		symbols, err := p.GetSymbols(ctx, exchange)
		if err == nil {
			return symbols, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// RateLimit returns the highest rate limit among providers
func (f *FallbackProvider) RateLimit() int {
	maxRate := 0
	for _, p := range f.providers {
		if p.RateLimit() > maxRate {
			maxRate = p.RateLimit()
		}
	}
	return maxRate
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}
