package symbols

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vcpscan/pkg/model"
)

type listProvider struct {
	stocks []model.Stock
	err    error
}

func (p *listProvider) Name() string      { return "list" }
func (p *listProvider) IsAvailable() bool { return true }
func (p *listProvider) RateLimit() int    { return 60 }

func (p *listProvider) GetDailyCandles(ctx context.Context, symbol string, days int) ([]model.Candle, error) {
	return nil, errors.New("not implemented")
}

func (p *listProvider) GetSymbols(ctx context.Context, exchange string) ([]model.Stock, error) {
	return p.stocks, p.err
}

func TestLoadUniverse_FiltersInvalid(t *testing.T) {
	p := &listProvider{stocks: []model.Stock{
		{Symbol: "RELIANCE"},
		{Symbol: "M&M"},
		{Symbol: "BAJAJ-AUTO"},
		{Symbol: "WEIRD.SYMBOL"},
		{Symbol: "TOOLONGFORATICKER"},
		{Symbol: ""},
	}}

	stocks, err := NewLoader(p, "NS").LoadUniverse(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stocks) != 3 {
		t.Fatalf("got %d stocks, want 3 after filtering", len(stocks))
	}
}

func TestLoadUniverse_FallbackOnProviderFailure(t *testing.T) {
	p := &listProvider{err: errors.New("listing not supported")}
	stocks, err := NewLoader(p, "NS").LoadUniverse(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stocks) < 30 {
		t.Errorf("fallback universe has %d stocks", len(stocks))
	}
	for _, s := range stocks {
		if !isValidSymbol(s.Symbol) {
			t.Errorf("fallback symbol %q invalid", s.Symbol)
		}
	}
}

func TestLoadSymbols_Normalizes(t *testing.T) {
	stocks := NewLoader(nil, "NS").LoadSymbols([]string{" reliance ", "titan", "", "M&M"})
	if len(stocks) != 3 {
		t.Fatalf("got %d stocks, want 3", len(stocks))
	}
	if stocks[0].Symbol != "RELIANCE" || stocks[2].Symbol != "M&M" {
		t.Errorf("symbols not normalized: %+v", stocks)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	content := "# nifty leaders\nRELIANCE\ntitan\n\nINFY\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stocks, err := NewLoader(nil, "NS").LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stocks) != 3 {
		t.Fatalf("got %d stocks, want 3", len(stocks))
	}
	if stocks[1].Symbol != "TITAN" {
		t.Errorf("stocks[1] = %q", stocks[1].Symbol)
	}

	if _, err := NewLoader(nil, "NS").LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
