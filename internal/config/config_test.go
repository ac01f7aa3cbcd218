package config

import (
	"math"
	"testing"

	"github.com/guimove/linkfit/internal/solver"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate_InvalidProbability(t *testing.T) {
	for _, p := range []float64{0, 1, 1.5, -0.1, math.NaN()} {
		cfg := Default()
		cfg.Target.Probability = p
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for probability %v", p)
		}
	}
}

func TestValidate_InvalidLink(t *testing.T) {
	cfg := Default()
	cfg.Link.CapacityL1 = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero capacity")
	}

	cfg = Default()
	cfg.Link.MTU = math.Inf(1)
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for infinite mtu")
	}

	cfg = Default()
	cfg.Link.IPHeader = cfg.Link.MTU
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for ip header equal to mtu")
	}
}

func TestValidate_InvalidTraffic(t *testing.T) {
	cfg := Default()
	cfg.Traffic.AverageRate = cfg.Traffic.PeakRate * 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for average above peak")
	}

	cfg = Default()
	cfg.Traffic.PeakRate = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative peak")
	}
}

func TestValidate_InvalidTarget(t *testing.T) {
	cfg := Default()
	cfg.Target.Aggregation = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero aggregation")
	}

	cfg = Default()
	cfg.Target.RequiredRate = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero required rate")
	}
}

func TestValidate_InvalidFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid output format")
	}
}

func TestValidate_MaxCoarseSteps_FixesZero(t *testing.T) {
	cfg := Default()
	cfg.Solver.MaxCoarseSteps = 0
	cfg.Output.Locale = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Solver.MaxCoarseSteps != solver.DefaultMaxCoarseSteps {
		t.Errorf("expected MaxCoarseSteps to be fixed to %d, got %d", solver.DefaultMaxCoarseSteps, cfg.Solver.MaxCoarseSteps)
	}
	if cfg.Output.Locale != "en" {
		t.Errorf("expected locale to default to en, got %q", cfg.Output.Locale)
	}
}

func TestScenario(t *testing.T) {
	sc := Default().Scenario()
	if sc.Link.CapacityL1 != 2488000000 || sc.Link.MTU != 1500 || sc.Link.IPHeader != 20 {
		t.Errorf("unexpected link: %+v", sc.Link)
	}
	if sc.Traffic.PeakRate != 1e9 || sc.Traffic.AverageRate != 5e8 {
		t.Errorf("unexpected traffic: %+v", sc.Traffic)
	}
	if sc.Target.Probability != 0.9 || sc.Target.Aggregation != 256 || sc.Target.RequiredRate != 1e7 {
		t.Errorf("unexpected target: %+v", sc.Target)
	}
	if sc.Name != "" {
		t.Errorf("expected unnamed scenario, got %q", sc.Name)
	}
}
