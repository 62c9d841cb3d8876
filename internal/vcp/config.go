package vcp

// ScoreWeights controls the contribution of each sub-metric to the
// composite setup score. Values are percentages that should sum to 100.
type ScoreWeights struct {
	Contraction    float64 `yaml:"contraction"`
	VolumeDryUp    float64 `yaml:"volume_dry_up"`
	BaseDepth      float64 `yaml:"base_depth"`
	Trend          float64 `yaml:"trend"`
	RSPercentile   float64 `yaml:"rs_percentile"`
	PivotProximity float64 `yaml:"pivot_proximity"`
}

// Config is the single source of thresholds shared by the swing detector,
// scorer, breakout detector, plan generator and proof engine. Scorer and
// proof criteria read the same fields so they cannot drift apart.
type Config struct {
	// Swing / leg detection
	ReversalPct float64 `yaml:"reversal_pct"` // zigzag reversal threshold θ
	MinLegs     int     `yaml:"min_legs"`
	MaxLegs     int     `yaml:"max_legs"`
	MinBars     int     `yaml:"min_bars"` // minimum daily bars required

	// Base depth band. Full credit inside [IdealDepthMin, IdealDepthMax],
	// linear decay to zero outside [DepthFloor, DepthCeiling].
	IdealDepthMin float64 `yaml:"ideal_depth_min"`
	IdealDepthMax float64 `yaml:"ideal_depth_max"`
	DepthFloor    float64 `yaml:"depth_floor"`
	DepthCeiling  float64 `yaml:"depth_ceiling"`

	// Scoring
	ContractionTolerancePct float64      `yaml:"contraction_tolerance_pct"` // allowed depth regression between legs
	MinVolumeDryUpPct       float64      `yaml:"min_volume_dry_up_pct"`
	RSPercentileMin         float64      `yaml:"rs_percentile_min"`
	MaxPivotDistancePct     float64      `yaml:"max_pivot_distance_pct"`
	TrendSMAFast            int          `yaml:"trend_sma_fast"`
	TrendSMASlow            int          `yaml:"trend_sma_slow"`
	Weights                 ScoreWeights `yaml:"weights"`

	// Breakout detection
	BreakoutBufferPct    float64 `yaml:"breakout_buffer_pct"`
	MinRelativeVolume    float64 `yaml:"min_relative_volume"`
	StrongRelativeVolume float64 `yaml:"strong_relative_volume"`
	VolumeBaselinePeriod int     `yaml:"volume_baseline_period"`
	StrongScore          float64 `yaml:"strong_score"`
	ModerateScore        float64 `yaml:"moderate_score"`

	// Trading plan
	EntryBufferPct float64 `yaml:"entry_buffer_pct"`
	MaxStopLossPct float64 `yaml:"max_stop_loss_pct"`
}

// DefaultConfig returns the default detection parameters
func DefaultConfig() Config {
	return Config{
		ReversalPct: 4.0,
		MinLegs:     2,
		MaxLegs:     5,
		MinBars:     60,

		IdealDepthMin: 8.0,
		IdealDepthMax: 15.0,
		DepthFloor:    5.0,
		DepthCeiling:  25.0,

		ContractionTolerancePct: 1.0,
		MinVolumeDryUpPct:       20.0,
		RSPercentileMin:         70.0,
		MaxPivotDistancePct:     7.0,
		TrendSMAFast:            20,
		TrendSMASlow:            50,
		Weights: ScoreWeights{
			Contraction:    25,
			VolumeDryUp:    20,
			BaseDepth:      20,
			Trend:          15,
			RSPercentile:   10,
			PivotProximity: 10,
		},

		BreakoutBufferPct:    0.0,
		MinRelativeVolume:    1.0,
		StrongRelativeVolume: 1.5,
		VolumeBaselinePeriod: 50,
		StrongScore:          75,
		ModerateScore:        50,

		EntryBufferPct: 1.0,
		MaxStopLossPct: 8.0,
	}
}

// NeutralRSPercentile substitutes for a missing relative-strength rank so a
// degraded input lowers confidence instead of failing the computation.
const NeutralRSPercentile = 50.0
