package solver

import (
	"fmt"
	"math"
	"strings"
)

// Variant selects how the Poisson count k is derived from the candidate mean.
type Variant int

const (
	// Direct evaluates the CDF at a constant count: k = aggregation.
	Direct Variant = iota
	// Ratio shrinks the count as the mean grows: k = aggregation / λ.
	Ratio
	// ScaledRatio weights the ratio by the peak link utilization:
	// k = ceiling * (aggregation / λ).
	ScaledRatio
)

var variantNames = map[Variant]string{
	Direct:      "direct",
	Ratio:       "ratio",
	ScaledRatio: "scaled-ratio",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant converts a variant name as printed by String back into a Variant.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range variantNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown variant %q (want direct, ratio or scaled-ratio)", ErrInvalidInput, s)
}

// CountFunc derives the Poisson count evaluated at candidate mean lambda.
// It is only ever called with lambda > 0.
type CountFunc func(lambda float64) float64

// Problem describes one inversion of PoissonCDF(k(λ), λ) <= Probability.
type Problem struct {
	Variant     Variant
	Probability float64
	Aggregation float64

	// UtilizationCeiling is the peak link utilization; used by ScaledRatio only.
	UtilizationCeiling float64
}

// Validate checks the problem parameters before any CDF evaluation.
func (p Problem) Validate() error {
	if _, ok := variantNames[p.Variant]; !ok {
		return fmt.Errorf("%w: unknown variant %d", ErrInvalidInput, int(p.Variant))
	}
	if !finite(p.Probability) || p.Probability <= 0 || p.Probability >= 1 {
		return fmt.Errorf("%w: probability must be within (0, 1), got %v", ErrInvalidInput, p.Probability)
	}
	if !finite(p.Aggregation) || p.Aggregation <= 0 {
		return fmt.Errorf("%w: aggregation must be positive, got %v", ErrInvalidInput, p.Aggregation)
	}
	if p.Variant == ScaledRatio && (!finite(p.UtilizationCeiling) || p.UtilizationCeiling <= 0) {
		return fmt.Errorf("%w: utilization ceiling must be positive, got %v", ErrInvalidInput, p.UtilizationCeiling)
	}
	return nil
}

// Count returns the k-function of the problem's variant.
func (p Problem) Count() CountFunc {
	agg := p.Aggregation
	switch p.Variant {
	case Ratio:
		return func(lambda float64) float64 { return agg / lambda }
	case ScaledRatio:
		ceiling := p.UtilizationCeiling
		return func(lambda float64) float64 { return ceiling * (agg / lambda) }
	default:
		return func(float64) float64 { return agg }
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
