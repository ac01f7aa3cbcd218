package metrics

import (
	"errors"

	"github.com/guimove/linkfit/internal/capacity"
	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/solver"
)

// Outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeNonConvergence = "non_convergence"
	OutcomeNonMonotone    = "non_monotone"
	OutcomeDegenerate     = "degenerate"
	OutcomeError          = "error"
)

// Observer receives solver and planning results.
type Observer interface {
	// ObserveSolve records one λ search.
	ObserveSolve(variant string, stats solver.Stats, err error)

	// ObservePlan records the outcome of a full plan.
	ObservePlan(plan *model.Plan, err error)
}

// Discard is an Observer that records nothing.
var Discard Observer = discard{}

type discard struct{}

func (discard) ObserveSolve(string, solver.Stats, error) {}
func (discard) ObservePlan(*model.Plan, error)           {}

// OutcomeOf maps an error to its outcome label.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, solver.ErrInvalidInput):
		return OutcomeInvalidInput
	// ErrNonMonotone wraps ErrNonConvergence, so it is checked first.
	case errors.Is(err, solver.ErrNonMonotone):
		return OutcomeNonMonotone
	case errors.Is(err, solver.ErrNonConvergence):
		return OutcomeNonConvergence
	case errors.Is(err, capacity.ErrDivisionDegenerate):
		return OutcomeDegenerate
	default:
		return OutcomeError
	}
}
