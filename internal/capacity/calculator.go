// Package capacity computes link capacity-planning metrics: utilization,
// real speed achieved (RSA), net termination points (NTP), performance
// decrease and minimum bottleneck sizing. Probability-based metrics solve
// for a Poisson intensity λ through the solver package and combine it
// algebraically with the link parameters.
package capacity

import (
	"fmt"
	"math"

	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/solver"
)

// Purposes identify which metric family a solved λ feeds.
const (
	PurposeRSA        = "rsa"
	PurposeRSAWithUF  = "rsa-uf"
	PurposeNTP        = "ntp"
	PurposeDecreaseUF = "performance-decrease-uf"
)

// SolveFunc is called after every λ search, including failed ones.
type SolveFunc func(variant string, stats solver.Stats, err error)

// Calculator evaluates metric formulas on top of a λ solver.
// It holds no per-call state and is safe for concurrent use as long as the
// SolveFunc is.
type Calculator struct {
	solver  *solver.Solver
	onSolve SolveFunc
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithSolveFunc reports every λ search to fn.
func WithSolveFunc(fn SolveFunc) CalculatorOption {
	return func(c *Calculator) { c.onSolve = fn }
}

// NewCalculator creates a calculator. A nil solver selects the default one.
func NewCalculator(s *solver.Solver, opts ...CalculatorOption) *Calculator {
	if s == nil {
		s = solver.New()
	}
	c := &Calculator{solver: s}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) solve(purpose string, p solver.Problem) (model.LambdaSolution, error) {
	res, err := c.solver.Solve(p)
	if c.onSolve != nil {
		c.onSolve(p.Variant.String(), res.Stats, err)
	}
	if err != nil {
		return model.LambdaSolution{}, fmt.Errorf("solving λ for %s: %w", purpose, err)
	}
	return model.LambdaSolution{
		Purpose:     purpose,
		Variant:     p.Variant.String(),
		Aggregation: p.Aggregation,
		Lambda:      res.Lambda,
		Evaluations: res.Stats.Evaluations,
		Levels:      res.Stats.Levels,
		CoarseSteps: res.Stats.CoarseSteps,
	}, nil
}

// RSANoUF returns the real speed achieved per flow without the utilization
// factor: C4 * λ / agg, with λ from the Ratio variant.
func (c *Calculator) RSANoUF(l model.LinkParameters, t model.ServiceTarget) (float64, error) {
	c4, err := L4Capacity(l)
	if err != nil {
		return 0, err
	}
	sol, err := c.solve(PurposeRSA, solver.Problem{
		Variant:     solver.Ratio,
		Probability: t.Probability,
		Aggregation: t.Aggregation,
	})
	if err != nil {
		return 0, err
	}
	return rsaNoUF(c4, sol.Lambda, t.Aggregation)
}

// RSAWithUF returns the real speed achieved per flow weighted by the
// utilization factor: UF * C4^2 * λ / (agg * A4), with λ from the
// ScaledRatio variant bounded by the peak link utilization.
func (c *Calculator) RSAWithUF(l model.LinkParameters, tr model.TrafficProfile, t model.ServiceTarget) (float64, error) {
	c4, err := L4Capacity(l)
	if err != nil {
		return 0, err
	}
	a4, err := L4AverageRate(l, tr)
	if err != nil {
		return 0, err
	}
	lu, err := LinkUtilizationMax(l, tr)
	if err != nil {
		return 0, err
	}
	uf, err := UtilizationFactor(tr)
	if err != nil {
		return 0, err
	}

	sol, err := c.solve(PurposeRSAWithUF, solver.Problem{
		Variant:            solver.ScaledRatio,
		Probability:        t.Probability,
		Aggregation:        t.Aggregation,
		UtilizationCeiling: lu,
	})
	if err != nil {
		return 0, err
	}
	return rsaWithUF(uf, c4, a4, sol.Lambda, t.Aggregation)
}

// NTPNoUF returns the number of net termination points the link supports:
// C4 * λ / rsaReq, with λ from the Direct variant at the estimated aggregation.
func (c *Calculator) NTPNoUF(l model.LinkParameters, t model.ServiceTarget) (float64, error) {
	c4, sol, err := c.directAtEstimate(l, t)
	if err != nil {
		return 0, err
	}
	return ntpNoUF(c4, sol.Lambda, t.RequiredRate)
}

// NTPWithUF returns the utilization-weighted number of net termination points:
// UF * C4^2 * λ / (rsaReq * A4).
func (c *Calculator) NTPWithUF(l model.LinkParameters, tr model.TrafficProfile, t model.ServiceTarget) (float64, error) {
	a4, err := L4AverageRate(l, tr)
	if err != nil {
		return 0, err
	}
	uf, err := UtilizationFactor(tr)
	if err != nil {
		return 0, err
	}

	c4, sol, err := c.directAtEstimate(l, t)
	if err != nil {
		return 0, err
	}
	return ntpWithUF(uf, c4, a4, sol.Lambda, t.RequiredRate)
}

// PerformanceDecreaseNoUF returns 100 * (rsaMax - rsaReq) / rsaMax in percent,
// where rsaMax = C4 / λ.
func (c *Calculator) PerformanceDecreaseNoUF(l model.LinkParameters, t model.ServiceTarget) (float64, error) {
	c4, sol, err := c.directAtEstimate(l, t)
	if err != nil {
		return 0, err
	}
	rsaMax, err := rsaMaxNoUF(c4, sol.Lambda)
	if err != nil {
		return 0, err
	}
	return performanceDecrease(rsaMax, t.RequiredRate)
}

// PerformanceDecreaseWithUF is the utilization-weighted performance decrease.
// λ is solved at the estimated NTP and rsaMax = UF * C4^2 / (λ * A4).
func (c *Calculator) PerformanceDecreaseWithUF(l model.LinkParameters, tr model.TrafficProfile, t model.ServiceTarget) (float64, error) {
	if err := checkProbability(t.Probability); err != nil {
		return 0, err
	}
	if err := positive("required rate", t.RequiredRate); err != nil {
		return 0, err
	}
	c4, err := L4Capacity(l)
	if err != nil {
		return 0, err
	}
	a4, err := L4AverageRate(l, tr)
	if err != nil {
		return 0, err
	}
	uf, err := UtilizationFactor(tr)
	if err != nil {
		return 0, err
	}

	sol, err := c.directAtNTPEstimate(uf, c4, a4, t)
	if err != nil {
		return 0, err
	}
	rsaMax, err := rsaMaxWithUF(uf, c4, a4, sol.Lambda)
	if err != nil {
		return 0, err
	}
	return performanceDecrease(rsaMax, t.RequiredRate)
}

// MinimumBandwidth returns the minimum layer-3 bottleneck bandwidth:
// rsaReq * (agg / λ) * (mtu - ip) / (mtu - ip - 8), with λ from the Ratio variant.
// Only the frame geometry of the link is used.
func (c *Calculator) MinimumBandwidth(l model.LinkParameters, t model.ServiceTarget) (float64, error) {
	if err := checkFrame(l); err != nil {
		return 0, err
	}
	if err := positive("required rate", t.RequiredRate); err != nil {
		return 0, err
	}
	corr, err := bottleneckFactor(l)
	if err != nil {
		return 0, err
	}
	sol, err := c.solve(PurposeRSA, solver.Problem{
		Variant:     solver.Ratio,
		Probability: t.Probability,
		Aggregation: t.Aggregation,
	})
	if err != nil {
		return 0, err
	}
	return minimumBandwidth(t.RequiredRate, t.Aggregation, sol.Lambda, corr)
}

// MinimumCapacity returns the minimum layer-3 bottleneck capacity:
// sqrt(rsaReq * agg * avg / (UF * λ)) * (mtu - ip) / (mtu - ip - 8).
func (c *Calculator) MinimumCapacity(l model.LinkParameters, tr model.TrafficProfile, t model.ServiceTarget) (float64, error) {
	if err := checkFrame(l); err != nil {
		return 0, err
	}
	if err := checkTraffic(tr); err != nil {
		return 0, err
	}
	if err := positive("required rate", t.RequiredRate); err != nil {
		return 0, err
	}
	corr, err := bottleneckFactor(l)
	if err != nil {
		return 0, err
	}
	uf, err := UtilizationFactor(tr)
	if err != nil {
		return 0, err
	}

	sol, err := c.solve(PurposeRSA, solver.Problem{
		Variant:     solver.Ratio,
		Probability: t.Probability,
		Aggregation: t.Aggregation,
	})
	if err != nil {
		return 0, err
	}
	return minimumCapacity(t.RequiredRate, t.Aggregation, tr.AverageRate, uf, sol.Lambda, corr)
}

// directAtEstimate solves the Direct variant at floor(C4 / rsaReq).
func (c *Calculator) directAtEstimate(l model.LinkParameters, t model.ServiceTarget) (float64, model.LambdaSolution, error) {
	if err := checkProbability(t.Probability); err != nil {
		return 0, model.LambdaSolution{}, err
	}
	c4, err := L4Capacity(l)
	if err != nil {
		return 0, model.LambdaSolution{}, err
	}
	agg, err := EstimatedAggregation(c4, t.RequiredRate)
	if err != nil {
		return 0, model.LambdaSolution{}, err
	}
	if agg < 1 {
		return 0, model.LambdaSolution{}, invalid("required rate %v exceeds L4 capacity %v", t.RequiredRate, c4)
	}
	sol, err := c.solve(PurposeNTP, solver.Problem{
		Variant:     solver.Direct,
		Probability: t.Probability,
		Aggregation: float64(agg),
	})
	return c4, sol, err
}

func (c *Calculator) directAtNTPEstimate(uf, c4, a4 float64, t model.ServiceTarget) (model.LambdaSolution, error) {
	ntp, err := EstimatedNTP(uf, c4, a4, t.RequiredRate)
	if err != nil {
		return model.LambdaSolution{}, err
	}
	if ntp < 1 {
		return model.LambdaSolution{}, invalid("required rate %v leaves no weighted termination point", t.RequiredRate)
	}
	return c.solve(PurposeDecreaseUF, solver.Problem{
		Variant:     solver.Direct,
		Probability: t.Probability,
		Aggregation: float64(ntp),
	})
}

func rsaNoUF(c4, lambda, agg float64) (float64, error) {
	return finite("rsa", c4*lambda/agg)
}

func rsaWithUF(uf, c4, a4, lambda, agg float64) (float64, error) {
	if a4 <= 0 {
		return 0, degenerate("average L4 rate is %v", a4)
	}
	return finite("rsa with uf", uf*c4*c4*lambda/(agg*a4))
}

func ntpNoUF(c4, lambda, rsaReq float64) (float64, error) {
	return finite("ntp", c4*(lambda/rsaReq))
}

func ntpWithUF(uf, c4, a4, lambda, rsaReq float64) (float64, error) {
	if a4 <= 0 {
		return 0, degenerate("average L4 rate is %v", a4)
	}
	return finite("ntp with uf", uf*c4*c4*lambda/(rsaReq*a4))
}

func rsaMaxNoUF(c4, lambda float64) (float64, error) {
	if lambda <= 0 {
		return 0, degenerate("λ is %v", lambda)
	}
	return finite("rsa max", c4/lambda)
}

func rsaMaxWithUF(uf, c4, a4, lambda float64) (float64, error) {
	if lambda <= 0 || a4 <= 0 {
		return 0, degenerate("λ (%v) and average L4 rate (%v) must be positive", lambda, a4)
	}
	return finite("rsa max with uf", uf*c4*c4/(lambda*a4))
}

func performanceDecrease(rsaMax, rsaReq float64) (float64, error) {
	if rsaMax <= 0 {
		return 0, degenerate("rsa max is %v", rsaMax)
	}
	return finite("performance decrease", (rsaMax-rsaReq)/rsaMax*100)
}

func minimumBandwidth(rsaReq, agg, lambda, corr float64) (float64, error) {
	if lambda <= 0 {
		return 0, degenerate("λ is %v", lambda)
	}
	return finite("minimum bandwidth", rsaReq*(agg/lambda)*corr)
}

func minimumCapacity(rsaReq, agg, avg, uf, lambda, corr float64) (float64, error) {
	if uf*lambda <= 0 {
		return 0, degenerate("UF * λ is %v", uf*lambda)
	}
	return finite("minimum capacity", math.Sqrt(rsaReq*agg*avg/(uf*lambda))*corr)
}
