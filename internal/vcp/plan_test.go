package vcp

import (
	"errors"
	"math"
	"testing"

	"vcpscan/pkg/model"
)

func planSetup(pivot, lastLow float64) *model.VCPSetup {
	return &model.VCPSetup{
		Symbol:     "TEST",
		PivotPrice: pivot,
		Legs: []model.Leg{
			{LegNumber: 1, HighPrice: pivot, LowPrice: lastLow * 1.1, PullbackDepthPct: 12},
			{LegNumber: 2, HighPrice: pivot, LowPrice: lastLow, PullbackDepthPct: 6},
		},
	}
}

func TestBuildPlan_Levels(t *testing.T) {
	cfg := DefaultConfig()
	plan, err := BuildPlan(cfg, planSetup(100, 95))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(plan.Entry-101) > 1e-9 {
		t.Errorf("entry = %.2f, want 101 (pivot + 1%%)", plan.Entry)
	}
	// Structural stop: 1% under the final leg low, inside the 8% cap
	if math.Abs(plan.StopLoss-94.05) > 1e-9 {
		t.Errorf("stop = %.2f, want 94.05", plan.StopLoss)
	}

	risk := plan.Entry - plan.StopLoss
	if math.Abs(plan.Target1-(plan.Entry+2*risk)) > 1e-9 ||
		math.Abs(plan.Target2-(plan.Entry+3*risk)) > 1e-9 ||
		math.Abs(plan.Target3-(plan.Entry+5*risk)) > 1e-9 {
		t.Errorf("targets not at 2R/3R/5R: %.2f %.2f %.2f (risk %.2f)", plan.Target1, plan.Target2, plan.Target3, risk)
	}
	if !(plan.Target1 < plan.Target2 && plan.Target2 < plan.Target3) {
		t.Error("targets not strictly ascending")
	}
	if plan.StopLoss >= plan.Entry {
		t.Error("stop not below entry")
	}
	// Reward is quoted against the 3R target, so the ratio is pinned at 3
	if math.Abs(plan.RiskRewardRatio-3) > 1e-9 {
		t.Errorf("risk/reward = %.2f, want 3", plan.RiskRewardRatio)
	}
	if plan.RiskRewardRatio < 2 {
		t.Errorf("risk/reward = %.2f below the 2.0 floor", plan.RiskRewardRatio)
	}
}

// A deep final low would put the structural stop past the cap; the 8%
// maximum loss wins.
func TestBuildPlan_StopCap(t *testing.T) {
	cfg := DefaultConfig()
	plan, err := BuildPlan(cfg, planSetup(100, 80))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 101 * 0.92
	if math.Abs(plan.StopLoss-want) > 1e-9 {
		t.Errorf("stop = %.2f, want capped at %.2f", plan.StopLoss, want)
	}
	if math.Abs(plan.RiskPct-8) > 1e-9 {
		t.Errorf("risk = %.2f%%, want 8%%", plan.RiskPct)
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	setup := planSetup(2450.50, 2310.25)

	first, err := BuildPlan(cfg, setup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildPlan(cfg, setup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *first != *second {
		t.Errorf("same setup produced different plans:\n%+v\n%+v", first, second)
	}
}

func TestBuildPlan_Unavailable(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name  string
		setup *model.VCPSetup
	}{
		{"nil setup", nil},
		{"no legs", &model.VCPSetup{PivotPrice: 100}},
		{"no pivot", &model.VCPSetup{Legs: []model.Leg{{LowPrice: 95}}}},
		{"low above entry", planSetup(100, 110)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildPlan(cfg, tc.setup); !errors.Is(err, ErrPlanUnavailable) {
				t.Errorf("expected ErrPlanUnavailable, got %v", err)
			}
		})
	}
}
