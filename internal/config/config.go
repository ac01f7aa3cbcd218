package config

import (
	"fmt"
	"math"

	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/solver"
)

// Config is the top-level configuration for Linkfit.
type Config struct {
	Link    LinkConfig    `mapstructure:"link"`
	Traffic TrafficConfig `mapstructure:"traffic"`
	Target  TargetConfig  `mapstructure:"target"`
	Solver  SolverConfig  `mapstructure:"solver"`
	Output  OutputConfig  `mapstructure:"output"`
}

type LinkConfig struct {
	CapacityL1 float64 `mapstructure:"capacity"`
	MTU        float64 `mapstructure:"mtu"`
	IPHeader   float64 `mapstructure:"ip_header"`
}

type TrafficConfig struct {
	PeakRate    float64 `mapstructure:"peak_rate"`
	AverageRate float64 `mapstructure:"average_rate"`
}

type TargetConfig struct {
	Probability  float64 `mapstructure:"probability"`
	Aggregation  float64 `mapstructure:"aggregation"`
	RequiredRate float64 `mapstructure:"required_rate"`
}

type SolverConfig struct {
	MaxCoarseSteps int `mapstructure:"max_coarse_steps"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Locale string `mapstructure:"locale"`
}

// Default returns a Config describing an STM-16 link shared by 256 flows.
func Default() Config {
	return Config{
		Link: LinkConfig{
			CapacityL1: 2488000000,
			MTU:        1500,
			IPHeader:   20,
		},
		Traffic: TrafficConfig{
			PeakRate:    1000000000,
			AverageRate: 500000000,
		},
		Target: TargetConfig{
			Probability:  0.9,
			Aggregation:  256,
			RequiredRate: 10000000,
		},
		Solver: SolverConfig{
			MaxCoarseSteps: solver.DefaultMaxCoarseSteps,
		},
		Output: OutputConfig{
			Format: "table",
			Locale: "en",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if !positive(c.Link.CapacityL1) {
		return fmt.Errorf("link capacity must be positive, got %v", c.Link.CapacityL1)
	}
	if !positive(c.Link.MTU) {
		return fmt.Errorf("mtu must be positive, got %v", c.Link.MTU)
	}
	if c.Link.IPHeader < 0 || c.Link.IPHeader >= c.Link.MTU {
		return fmt.Errorf("ip header must be within [0, mtu), got %v", c.Link.IPHeader)
	}
	if !positive(c.Traffic.PeakRate) {
		return fmt.Errorf("peak rate must be positive, got %v", c.Traffic.PeakRate)
	}
	if !positive(c.Traffic.AverageRate) || c.Traffic.AverageRate > c.Traffic.PeakRate {
		return fmt.Errorf("average rate must be within (0, peak rate], got %v", c.Traffic.AverageRate)
	}
	if !(c.Target.Probability > 0 && c.Target.Probability < 1) {
		return fmt.Errorf("probability must be between 0 and 1 exclusive, got %v", c.Target.Probability)
	}
	if !positive(c.Target.Aggregation) {
		return fmt.Errorf("aggregation must be positive, got %v", c.Target.Aggregation)
	}
	if !positive(c.Target.RequiredRate) {
		return fmt.Errorf("required rate must be positive, got %v", c.Target.RequiredRate)
	}
	validFormats := map[string]bool{"table": true, "json": true, "markdown": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, or markdown, got %q", c.Output.Format)
	}
	if c.Solver.MaxCoarseSteps <= 0 {
		c.Solver.MaxCoarseSteps = solver.DefaultMaxCoarseSteps
	}
	if c.Output.Locale == "" {
		c.Output.Locale = "en"
	}
	return nil
}

// Scenario builds the base planning scenario from the config.
func (c Config) Scenario() model.Scenario {
	return model.Scenario{
		Link: model.LinkParameters{
			CapacityL1: c.Link.CapacityL1,
			MTU:        c.Link.MTU,
			IPHeader:   c.Link.IPHeader,
		},
		Traffic: model.TrafficProfile{
			PeakRate:    c.Traffic.PeakRate,
			AverageRate: c.Traffic.AverageRate,
		},
		Target: model.ServiceTarget{
			Probability:  c.Target.Probability,
			Aggregation:  c.Target.Aggregation,
			RequiredRate: c.Target.RequiredRate,
		},
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
