package symbols

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vcpscan/internal/provider"
	"vcpscan/pkg/model"
)

// Loader resolves the scan universe from the provider, a symbols file, or
// the built-in liquid-stock fallback
type Loader struct {
	provider provider.Provider
	exchange string
}

// NewLoader creates a symbol loader for the given finnhub exchange code
func NewLoader(p provider.Provider, exchange string) *Loader {
	if exchange == "" {
		exchange = "NS"
	}
	return &Loader{provider: p, exchange: exchange}
}

// LoadUniverse loads the full exchange listing, falling back to the curated
// list when no provider can enumerate symbols
func (l *Loader) LoadUniverse(ctx context.Context) ([]model.Stock, error) {
	stocks, err := l.provider.GetSymbols(ctx, l.exchange)
	if err != nil || len(stocks) == 0 {
		return l.defaultUniverse(), nil
	}

	filtered := make([]model.Stock, 0, len(stocks))
	for _, s := range stocks {
		if isValidSymbol(s.Symbol) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// LoadSymbols builds stocks from explicit symbols
func (l *Loader) LoadSymbols(symbols []string) []model.Stock {
	stocks := make([]model.Stock, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		stocks = append(stocks, model.Stock{
			Symbol:   sym,
			Name:     sym,
			Exchange: "NSE",
		})
	}
	return stocks
}

// LoadFile reads one symbol per line; blank lines and # comments skipped
func (l *Loader) LoadFile(path string) ([]model.Stock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbols file: %w", err)
	}

	var symbols []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols file %s is empty", path)
	}
	return l.LoadSymbols(symbols), nil
}

// isValidSymbol checks if a symbol is a standard ticker. NSE tickers run
// longer than US ones and may carry & or - (M&M, BAJAJ-AUTO).
func isValidSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 12 {
		return false
	}
	for _, c := range symbol {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '&' || c == '-':
		default:
			return false
		}
	}
	return true
}

// defaultUniverse is the curated liquid-stock fallback used when no
// provider can list the exchange
func (l *Loader) defaultUniverse() []model.Stock {
	liquid := []struct {
		symbol string
		name   string
	}{
		{"RELIANCE", "Reliance Industries"},
		{"TCS", "Tata Consultancy Services"},
		{"HDFCBANK", "HDFC Bank"},
		{"INFY", "Infosys"},
		{"ICICIBANK", "ICICI Bank"},
		{"HINDUNILVR", "Hindustan Unilever"},
		{"SBIN", "State Bank of India"},
		{"BHARTIARTL", "Bharti Airtel"},
		{"ITC", "ITC Limited"},
		{"KOTAKBANK", "Kotak Mahindra Bank"},
		{"LT", "Larsen & Toubro"},
		{"AXISBANK", "Axis Bank"},
		{"ASIANPAINT", "Asian Paints"},
		{"MARUTI", "Maruti Suzuki India"},
		{"TITAN", "Titan Company"},
		{"SUNPHARMA", "Sun Pharmaceutical"},
		{"BAJFINANCE", "Bajaj Finance"},
		{"WIPRO", "Wipro"},
		{"HCLTECH", "HCL Technologies"},
		{"ULTRACEMCO", "UltraTech Cement"},
		{"NESTLEIND", "Nestle India"},
		{"TATAMOTORS", "Tata Motors"},
		{"POWERGRID", "Power Grid Corporation"},
		{"NTPC", "NTPC Limited"},
		{"TATASTEEL", "Tata Steel"},
		{"M&M", "Mahindra & Mahindra"},
		{"BAJAJ-AUTO", "Bajaj Auto"},
		{"ADANIENT", "Adani Enterprises"},
		{"JSWSTEEL", "JSW Steel"},
		{"TECHM", "Tech Mahindra"},
		{"DRREDDY", "Dr. Reddy's Laboratories"},
		{"CIPLA", "Cipla"},
		{"GRASIM", "Grasim Industries"},
		{"HINDALCO", "Hindalco Industries"},
		{"DIVISLAB", "Divi's Laboratories"},
		{"EICHERMOT", "Eicher Motors"},
		{"BRITANNIA", "Britannia Industries"},
		{"COALINDIA", "Coal India"},
		{"HEROMOTOCO", "Hero MotoCorp"},
		{"APOLLOHOSP", "Apollo Hospitals"},
	}

	stocks := make([]model.Stock, len(liquid))
	for i, s := range liquid {
		stocks[i] = model.Stock{
			Symbol:   s.symbol,
			Name:     s.name,
			Exchange: "NSE",
		}
	}
	return stocks
}
