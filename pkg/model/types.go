package model

import "time"

// Candle represents a single daily candlestick (OHLCV data)
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Stock represents basic stock information
type Stock struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"` // NSE, BSE
}

// SwingKind marks a swing point as a local high or low
type SwingKind string

const (
	SwingHigh SwingKind = "HIGH"
	SwingLow  SwingKind = "LOW"
)

// Swing is a confirmed local price extremum. A valid sequence strictly
// alternates HIGH and LOW.
type Swing struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
	Kind  SwingKind `json:"kind"`
}

// Leg is one rally-then-pullback segment within a base: a swing high
// followed by the next swing low.
type Leg struct {
	LegNumber        int       `json:"leg_number"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	HighPrice        float64   `json:"high_price"`
	LowPrice         float64   `json:"low_price"`
	PullbackDepthPct float64   `json:"pullback_depth_pct"` // (high-low)/high*100
	VolumeRatio      float64   `json:"volume_ratio"`       // leg avg volume / prior leg avg volume
	DurationDays     int       `json:"duration_days"`      // trading sessions from high to low
}

// VCPSetup aggregates a scored volatility-contraction base. Computed fresh
// on each scan pass from an immutable history snapshot; never mutated.
type VCPSetup struct {
	Symbol               string    `json:"symbol"`
	StockName            string    `json:"stock_name,omitempty"`
	CurrentPrice         float64   `json:"current_price"`
	Legs                 []Leg     `json:"legs"`
	TotalBaseDepthPct    float64   `json:"total_base_depth_pct"`
	BaseDurationDays     int       `json:"base_duration_days"`
	PivotPrice           float64   `json:"pivot_price"`
	DistanceFromPivotPct float64   `json:"distance_from_pivot_pct"`
	VolumeDryUpPct       float64   `json:"volume_dry_up_pct"`
	TrendAlignment       bool      `json:"trend_alignment"`
	RelativeStrengthPct  float64   `json:"relative_strength_pct"`
	RSPercentile         float64   `json:"rs_percentile"`
	Score                float64   `json:"score"` // 0-100
	DetectedAt           time.Time `json:"detected_at"`

	// Moving averages for charting / trend evidence
	SMA20  float64 `json:"sma_20"`
	SMA50  float64 `json:"sma_50"`
	SMA200 float64 `json:"sma_200,omitempty"`

	// Caveats lists degraded inputs (e.g. missing RS percentile replaced
	// with a neutral default). Informational only.
	Caveats []string `json:"caveats,omitempty"`
}

// BreakoutEvent records a confirmed breach of a setup's pivot on volume.
// Immutable once emitted.
type BreakoutEvent struct {
	Symbol            string    `json:"symbol"`
	BreakoutDate      time.Time `json:"breakout_date"`
	BreakoutPrice     float64   `json:"breakout_price"`
	PivotPrice        float64   `json:"pivot_price"`
	BreakoutVolume    int64     `json:"breakout_volume"`
	RelativeVolume    float64   `json:"relative_volume"`
	PriceChangePct    float64   `json:"price_change_pct"`
	GapUpPct          float64   `json:"gap_up_pct"` // only set when positive
	ConfirmationScore float64   `json:"confirmation_score"`
	Classification    string    `json:"classification"` // Strong, Moderate, Weak
}

// TradingPlan holds deterministic entry/stop/target levels derived from one
// VCPSetup.
type TradingPlan struct {
	Entry           float64 `json:"entry"`
	StopLoss        float64 `json:"stop_loss"`
	Target1         float64 `json:"target_1"`
	Target2         float64 `json:"target_2"`
	Target3         float64 `json:"target_3"`
	RiskPct         float64 `json:"risk_pct"`
	RewardPct       float64 `json:"reward_pct"` // measured against target 2
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// Criterion is one named pass/fail check with human-readable evidence
type Criterion struct {
	Criterion string `json:"criterion"`
	Passed    bool   `json:"passed"`
	Detail    string `json:"detail"`
	Evidence  string `json:"evidence"`
}

// ProofReport re-expresses the scorer's metrics as an auditable checklist
type ProofReport struct {
	Criteria    []Criterion `json:"criteria"`
	PassedCount int         `json:"passed_count"`
	TotalCount  int         `json:"total_count"`
	Verdict     string      `json:"verdict"` // Valid, Partial, Invalid
}

// ScanOutcome is the per-symbol result of a scan: analysis output or a
// typed error string. A failed symbol never aborts the scan.
type ScanOutcome struct {
	Symbol   string         `json:"symbol"`
	Setup    *VCPSetup      `json:"setup,omitempty"`
	Breakout *BreakoutEvent `json:"breakout,omitempty"`
	Plan     *TradingPlan   `json:"plan,omitempty"`
	Proof    *ProofReport   `json:"proof,omitempty"`
	Error    string         `json:"error,omitempty"` // insufficient_history, no_pattern, data_unavailable, error
}

// ScanResult represents the final scan output
type ScanResult struct {
	ScanID         string        `json:"scan_id"`
	ScanTime       time.Time     `json:"scan_time"`
	TotalScanned   int           `json:"total_scanned"`
	SetupsFound    int           `json:"setups_found"`
	BreakoutsFound int           `json:"breakouts_found"`
	Outcomes       []ScanOutcome `json:"outcomes"`
	Duration       time.Duration `json:"duration"`
}
