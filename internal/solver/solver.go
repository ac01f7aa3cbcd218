// Package solver inverts a Poisson CDF constraint to find the traffic
// intensity λ that meets a target service probability.
//
// The search walks λ upward from zero in decreasing powers of ten
// (10^2 down to 10^-6). At each level it advances while the CDF, rounded to
// six decimals, still exceeds the rounded target. The result is the first
// grid point at which the constraint holds.
package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Decimals is the number of decimal places the search resolves.
	Decimals = 6

	// Resolution is the smallest search step.
	Resolution = 1e-6

	// DefaultMaxCoarseSteps bounds the first (step = 100) level, which is the
	// only level whose length depends on the inputs.
	DefaultMaxCoarseSteps = 1_000_000

	coarseExponent = 2
	fineExponent   = -Decimals

	// A refinement level starts just below a point the previous level
	// accepted, so it needs at most nine steps. Ten tolerates float noise at
	// that point; an eleventh means the function is not monotone.
	refineSteps = 10
)

// CDF evaluates the Poisson cumulative distribution P(X <= k) for mean.
type CDF func(k, mean float64) float64

// PoissonCDF is the default CDF, backed by gonum. The count is floored, so
// real-valued counts behave like their integer part.
func PoissonCDF(k, mean float64) float64 {
	switch {
	case math.IsInf(k, 1):
		return 1
	case k < 0:
		return 0
	}
	return distuv.Poisson{Lambda: mean}.CDF(k)
}

// Stats describes the work done by a single solve.
type Stats struct {
	Evaluations int `json:"evaluations"`
	Levels      int `json:"levels"`
	CoarseSteps int `json:"coarse_steps"`
}

// Result is a solved λ together with the search statistics.
type Result struct {
	Lambda float64 `json:"lambda"`
	Stats  Stats   `json:"stats"`
}

// Solver runs the bounded coarse-to-fine λ search.
type Solver struct {
	cdf            CDF
	maxCoarseSteps int
}

// Option configures a Solver.
type Option func(*Solver)

// WithCDF replaces the Poisson CDF implementation.
func WithCDF(cdf CDF) Option {
	return func(s *Solver) { s.cdf = cdf }
}

// WithMaxCoarseSteps bounds the number of steps taken at the coarsest level.
// Non-positive values keep the default.
func WithMaxCoarseSteps(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.maxCoarseSteps = n
		}
	}
}

// New creates a solver using the gonum Poisson CDF unless overridden.
func New(opts ...Option) *Solver {
	s := &Solver{
		cdf:            PoissonCDF,
		maxCoarseSteps: DefaultMaxCoarseSteps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxCoarseSteps returns the fuel of the coarsest level.
func (s *Solver) MaxCoarseSteps() int {
	return s.maxCoarseSteps
}

// Solve returns the smallest grid λ > 0 with round6(CDF(k(λ), λ)) <= round6(p).
func (s *Solver) Solve(p Problem) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	count := p.Count()
	target := Round(p.Probability)

	var (
		stats  Stats
		lambda float64
		next   float64
	)

	for exp := coarseExponent; exp >= fineExponent; exp-- {
		step := math.Pow10(exp)
		fuel := refineSteps
		if exp == coarseExponent {
			fuel = s.maxCoarseSteps
		}
		stats.Levels++

		for steps := 0; ; steps++ {
			// Candidates are snapped to the grid so the λ evaluated is the λ
			// returned. lambda >= 0 and step >= Resolution, so next is never zero.
			next = Round(lambda + step)
			k := count(next)
			v := s.cdf(k, next)
			stats.Evaluations++

			if math.IsNaN(k) || !finite(v) {
				return Result{Stats: stats}, fmt.Errorf("%w: cdf(k=%v, mean=%v) = %v", ErrNonConvergence, k, next, v)
			}
			if Round(v) <= target {
				break
			}
			if steps == fuel {
				if exp == coarseExponent {
					return Result{Stats: stats}, fmt.Errorf("%w: no solution below λ=%v after %d steps of %v",
						ErrNonConvergence, next, fuel, step)
				}
				return Result{Stats: stats}, fmt.Errorf("%w: step %v walked past accepted λ=%v",
					ErrNonMonotone, step, lambda)
			}
			lambda = next
			if exp == coarseExponent {
				stats.CoarseSteps++
			}
		}
	}

	return Result{Lambda: next, Stats: stats}, nil
}

// Satisfied reports whether λ meets the rounded constraint for the problem.
// Pass grid values (see Round) to compare with what Solve evaluated.
func (s *Solver) Satisfied(p Problem, lambda float64) bool {
	if lambda <= 0 {
		return false
	}
	return Round(s.cdf(p.Count()(lambda), lambda)) <= Round(p.Probability)
}

// Round rounds v to the search resolution.
func Round(v float64) float64 {
	const scale = 1e6
	return math.Round(v*scale) / scale
}

// Solve runs a default solver on p.
func Solve(p Problem) (Result, error) {
	return New().Solve(p)
}
