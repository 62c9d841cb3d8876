package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vcpscan/internal/vcp"
)

// Config represents the application configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Scanner   ScannerConfig   `yaml:"scanner"`
	VCP       vcp.Config      `yaml:"vcp"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Web       WebConfig       `yaml:"web"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	Daemon    DaemonConfig    `yaml:"daemon"`
}

// APIConfig holds data provider configurations
type APIConfig struct {
	Finnhub     ProviderConfig `yaml:"finnhub"`
	YahooSuffix string         `yaml:"yahoo_suffix"` // exchange suffix for bare symbols, e.g. ".NS"
	Exchange    string         `yaml:"exchange"`     // finnhub exchange code for symbol listing
	CacheDays   int            `yaml:"cache_days"`   // daily bars fetched per symbol on a cache miss
}

// ProviderConfig holds individual provider settings
type ProviderConfig struct {
	Key       string `yaml:"key"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute
}

// ScannerConfig holds scan orchestration settings
type ScannerConfig struct {
	Workers       int           `yaml:"workers"`
	Timeout       time.Duration `yaml:"timeout"`        // whole-scan deadline
	SymbolTimeout time.Duration `yaml:"symbol_timeout"` // per-symbol deadline
	LookbackDays  int           `yaml:"lookback_days"`
}

// BenchmarkConfig names the index the relative-strength ranker compares
// against and the return window in trading days
type BenchmarkConfig struct {
	Symbol string `yaml:"symbol"`
	Period int    `yaml:"period"`
}

// WebConfig holds HTTP server settings
type WebConfig struct {
	Port int `yaml:"port"`
}

// RecorderConfig holds scan persistence settings
type RecorderConfig struct {
	Path string `yaml:"path"` // sqlite file; empty disables recording
}

// DaemonConfig holds scheduled-scan settings
type DaemonConfig struct {
	ScanCron string `yaml:"scan_cron"` // cron expression; empty disables the schedule
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Finnhub: ProviderConfig{
				Key:       os.Getenv("FINNHUB_API_KEY"),
				RateLimit: 60,
			},
			YahooSuffix: ".NS",
			Exchange:    "NS",
			CacheDays:   250,
		},
		Scanner: ScannerConfig{
			Workers:       10,
			Timeout:       10 * time.Minute,
			SymbolTimeout: 30 * time.Second,
			LookbackDays:  250,
		},
		VCP: vcp.DefaultConfig(),
		Benchmark: BenchmarkConfig{
			Symbol: "^NSEI",
			Period: 252, // one year of trading days
		},
		Web: WebConfig{
			Port: 8000,
		},
		Recorder: RecorderConfig{
			Path: "",
		},
		Daemon: DaemonConfig{
			ScanCron: "0 18 * * MON-FRI", // after the NSE close
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		cfg.API.Finnhub.Key = key
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Scanner.LookbackDays < c.VCP.MinBars {
		return fmt.Errorf("lookback_days %d below the %d-bar minimum history", c.Scanner.LookbackDays, c.VCP.MinBars)
	}
	if c.VCP.ReversalPct <= 0 {
		return fmt.Errorf("vcp reversal_pct must be positive")
	}
	if c.VCP.MinLegs < 2 {
		return fmt.Errorf("vcp min_legs must be at least 2")
	}
	if c.VCP.MaxLegs < c.VCP.MinLegs {
		return fmt.Errorf("vcp max_legs must be at least min_legs")
	}
	if c.VCP.IdealDepthMin >= c.VCP.IdealDepthMax {
		return fmt.Errorf("vcp ideal depth band is empty")
	}
	if c.VCP.DepthFloor >= c.VCP.IdealDepthMin || c.VCP.DepthCeiling <= c.VCP.IdealDepthMax {
		return fmt.Errorf("vcp depth floor/ceiling must bracket the ideal band")
	}
	if w := c.VCP.Weights; w.Contraction+w.VolumeDryUp+w.BaseDepth+w.Trend+w.RSPercentile+w.PivotProximity != 100 {
		return fmt.Errorf("vcp score weights must sum to 100")
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port %d out of range", c.Web.Port)
	}
	return nil
}
