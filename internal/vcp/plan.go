package vcp

import (
	"fmt"
	"math"

	"vcpscan/pkg/model"
)

// BuildPlan derives entry, stop and target levels from one setup. It is a
// pure function: the same setup always yields the identical plan.
//
// Entry sits a small buffer above the pivot. The stop is the structural
// level just under the final leg's low, but never more than MaxStopLossPct
// below entry. Targets are fixed 2R/3R/5R multiples of the resulting risk.
//
// Returns ErrPlanUnavailable when the computed risk is not positive (for
// example a pivot below the final leg low).
func BuildPlan(cfg Config, setup *model.VCPSetup) (*model.TradingPlan, error) {
	if setup == nil || len(setup.Legs) == 0 || setup.PivotPrice <= 0 {
		return nil, fmt.Errorf("%w: no pivot", ErrPlanUnavailable)
	}

	entry := setup.PivotPrice * (1 + cfg.EntryBufferPct/100)
	lastLow := setup.Legs[len(setup.Legs)-1].LowPrice

	stop := math.Max(lastLow*0.99, entry*(1-cfg.MaxStopLossPct/100))
	risk := entry - stop
	if risk <= 0 {
		return nil, fmt.Errorf("%w: non-positive risk (entry %.2f, stop %.2f)", ErrPlanUnavailable, entry, stop)
	}

	plan := &model.TradingPlan{
		Entry:    entry,
		StopLoss: stop,
		Target1:  entry + 2*risk,
		Target2:  entry + 3*risk,
		Target3:  entry + 5*risk,
	}
	plan.RiskPct = risk / entry * 100
	plan.RewardPct = (plan.Target2 - entry) / entry * 100
	plan.RiskRewardRatio = plan.RewardPct / plan.RiskPct

	return plan, nil
}
