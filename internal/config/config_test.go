package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scanner.Workers != 10 {
		t.Errorf("workers = %d, want default 10", cfg.Scanner.Workers)
	}
	if cfg.VCP.ReversalPct != 4.0 {
		t.Errorf("reversal_pct = %.1f, want default 4.0", cfg.VCP.ReversalPct)
	}
	if cfg.Benchmark.Period != 252 {
		t.Errorf("benchmark period = %d, want a trailing year of sessions", cfg.Benchmark.Period)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
scanner:
  workers: 4
  lookback_days: 300
vcp:
  reversal_pct: 5.0
  min_volume_dry_up_pct: 30
benchmark:
  symbol: "^CNX100"
web:
  port: 9000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scanner.Workers != 4 {
		t.Errorf("workers = %d", cfg.Scanner.Workers)
	}
	if cfg.Scanner.LookbackDays != 300 {
		t.Errorf("lookback_days = %d", cfg.Scanner.LookbackDays)
	}
	if cfg.Scanner.SymbolTimeout != 30*time.Second {
		t.Errorf("symbol_timeout = %v, want the default kept", cfg.Scanner.SymbolTimeout)
	}
	if cfg.VCP.ReversalPct != 5.0 {
		t.Errorf("reversal_pct = %.1f", cfg.VCP.ReversalPct)
	}
	if cfg.VCP.MinVolumeDryUpPct != 30 {
		t.Errorf("min_volume_dry_up_pct = %.1f", cfg.VCP.MinVolumeDryUpPct)
	}
	// Untouched keys keep their defaults
	if cfg.VCP.MinLegs != 2 || cfg.VCP.MaxLegs != 5 {
		t.Errorf("leg bounds = %d/%d", cfg.VCP.MinLegs, cfg.VCP.MaxLegs)
	}
	if cfg.Benchmark.Symbol != "^CNX100" {
		t.Errorf("benchmark = %q", cfg.Benchmark.Symbol)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("port = %d", cfg.Web.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Scanner.Workers = 0 }},
		{"short lookback", func(c *Config) { c.Scanner.LookbackDays = 10 }},
		{"zero reversal", func(c *Config) { c.VCP.ReversalPct = 0 }},
		{"one leg minimum", func(c *Config) { c.VCP.MinLegs = 1 }},
		{"max below min legs", func(c *Config) { c.VCP.MaxLegs = 1 }},
		{"inverted depth band", func(c *Config) { c.VCP.IdealDepthMin = 20 }},
		{"weights off 100", func(c *Config) { c.VCP.Weights.Trend = 20 }},
		{"bad port", func(c *Config) { c.Web.Port = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  finnhub:\n    key: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Finnhub.Key != "from-env" {
		t.Errorf("key = %q, want the environment override", cfg.API.Finnhub.Key)
	}
}
