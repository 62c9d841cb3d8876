package vcp

import "errors"

// Pipeline errors. InsufficientHistory, NoPattern and DataUnavailable
// terminate a single symbol's pipeline early; PlanUnavailable only suppresses
// the trading plan. They are reported as per-symbol outcomes, never across
// the scan boundary.
var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrNoPattern           = errors.New("no pattern")
	ErrPlanUnavailable     = errors.New("plan unavailable")
	ErrDataUnavailable     = errors.New("data unavailable")
)

// ErrorKind maps a pipeline error to the stable string used in scan
// outcomes and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrNoPattern):
		return "no_pattern"
	case errors.Is(err, ErrPlanUnavailable):
		return "plan_unavailable"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	default:
		return "error"
	}
}
