package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a parameter is outside its documented domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonConvergence is returned when the search runs out of fuel or the
	// CDF produces a non-finite value.
	ErrNonConvergence = errors.New("lambda search did not converge")

	// ErrNonMonotone is returned when a refinement level walks past a point the
	// previous level already accepted. It wraps ErrNonConvergence.
	ErrNonMonotone = fmt.Errorf("%w: search function is not monotone", ErrNonConvergence)
)
