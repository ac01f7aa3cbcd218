package capacity

import (
	"fmt"

	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/solver"
)

const (
	// HighUtilThreshold is the peak utilization above which little burst headroom remains.
	HighUtilThreshold = 0.80
)

// Plan computes the full metric set for a scenario. Each λ is solved once and
// shared by every formula that needs it. Any failure aborts the plan; no
// partial results are returned.
func (c *Calculator) Plan(s model.Scenario) (*model.Plan, error) {
	if err := ValidateScenario(s); err != nil {
		return nil, err
	}
	link, traffic, target := s.Link, s.Traffic, s.Target

	p := &model.Plan{Scenario: s}

	var err error
	if p.CapacityL4, err = L4Capacity(link); err != nil {
		return nil, err
	}
	if p.AverageRateL4, err = L4AverageRate(link, traffic); err != nil {
		return nil, err
	}
	corr, err := bottleneckFactor(link)
	if err != nil {
		return nil, err
	}

	p.LinkUtilizationMax = traffic.PeakRate / link.CapacityL1
	p.LinkUtilizationAvg = traffic.AverageRate / link.CapacityL1
	p.UtilizationFactor = traffic.AverageRate / traffic.PeakRate
	p.RSANatural = p.CapacityL4 / target.Aggregation

	if p.EstimatedAggregation, err = EstimatedAggregation(p.CapacityL4, target.RequiredRate); err != nil {
		return nil, err
	}
	if p.EstimatedAggregation < 1 {
		return nil, invalid("required rate %v exceeds L4 capacity %v", target.RequiredRate, p.CapacityL4)
	}
	if p.EstimatedNTP, err = EstimatedNTP(p.UtilizationFactor, p.CapacityL4, p.AverageRateL4, target.RequiredRate); err != nil {
		return nil, err
	}
	if p.EstimatedNTP < 1 {
		return nil, invalid("required rate %v leaves no weighted termination point", target.RequiredRate)
	}

	problems := []struct {
		purpose string
		problem solver.Problem
	}{
		{PurposeRSA, solver.Problem{Variant: solver.Ratio, Probability: target.Probability, Aggregation: target.Aggregation}},
		{PurposeRSAWithUF, solver.Problem{Variant: solver.ScaledRatio, Probability: target.Probability,
			Aggregation: target.Aggregation, UtilizationCeiling: p.LinkUtilizationMax}},
		{PurposeNTP, solver.Problem{Variant: solver.Direct, Probability: target.Probability,
			Aggregation: float64(p.EstimatedAggregation)}},
		{PurposeDecreaseUF, solver.Problem{Variant: solver.Direct, Probability: target.Probability,
			Aggregation: float64(p.EstimatedNTP)}},
	}
	lambdas := make(map[string]float64, len(problems))
	for _, pr := range problems {
		sol, err := c.solve(pr.purpose, pr.problem)
		if err != nil {
			return nil, err
		}
		p.Lambdas = append(p.Lambdas, sol)
		lambdas[pr.purpose] = sol.Lambda
	}

	uf, c4, a4 := p.UtilizationFactor, p.CapacityL4, p.AverageRateL4
	rsaReq, agg := target.RequiredRate, target.Aggregation

	steps := []struct {
		dst *float64
		fn  func() (float64, error)
	}{
		{&p.RSANoUF, func() (float64, error) { return rsaNoUF(c4, lambdas[PurposeRSA], agg) }},
		{&p.RSAWithUF, func() (float64, error) { return rsaWithUF(uf, c4, a4, lambdas[PurposeRSAWithUF], agg) }},
		{&p.NTPNoUF, func() (float64, error) { return ntpNoUF(c4, lambdas[PurposeNTP], rsaReq) }},
		{&p.NTPWithUF, func() (float64, error) { return ntpWithUF(uf, c4, a4, lambdas[PurposeNTP], rsaReq) }},
		{&p.PerformanceDecreaseNoUF, func() (float64, error) {
			rsaMax, err := rsaMaxNoUF(c4, lambdas[PurposeNTP])
			if err != nil {
				return 0, err
			}
			return performanceDecrease(rsaMax, rsaReq)
		}},
		{&p.PerformanceDecreaseWithUF, func() (float64, error) {
			rsaMax, err := rsaMaxWithUF(uf, c4, a4, lambdas[PurposeDecreaseUF])
			if err != nil {
				return 0, err
			}
			return performanceDecrease(rsaMax, rsaReq)
		}},
		{&p.MinimumBandwidth, func() (float64, error) {
			return minimumBandwidth(rsaReq, agg, lambdas[PurposeRSA], corr)
		}},
		{&p.MinimumCapacity, func() (float64, error) {
			return minimumCapacity(rsaReq, agg, traffic.AverageRate, uf, lambdas[PurposeRSA], corr)
		}},
	}
	for _, st := range steps {
		v, err := st.fn()
		if err != nil {
			return nil, fmt.Errorf("planning %s: %w", s.Label(), err)
		}
		*st.dst = v
	}

	p.Warnings = generateWarnings(p)
	return p, nil
}

func generateWarnings(p *model.Plan) []string {
	var warnings []string
	rsaReq := p.Scenario.Target.RequiredRate

	switch {
	case p.LinkUtilizationMax > 1:
		warnings = append(warnings,
			fmt.Sprintf("Peak rate exceeds link capacity (%.0f%% peak utilization)", p.LinkUtilizationMax*100))
	case p.LinkUtilizationMax > HighUtilThreshold:
		warnings = append(warnings, "High peak utilization leaves little headroom for bursts")
	}

	if p.RSANoUF < rsaReq {
		warnings = append(warnings,
			fmt.Sprintf("RSA without UF (%.0f bit/s) is below the required rate", p.RSANoUF))
	}
	if p.PerformanceDecreaseNoUF < 0 || p.PerformanceDecreaseWithUF < 0 {
		warnings = append(warnings, "Required rate is above the achievable per-flow maximum")
	}

	return warnings
}
