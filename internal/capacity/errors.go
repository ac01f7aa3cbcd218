package capacity

import (
	"errors"
	"fmt"
	"math"

	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/solver"
)

var (
	// ErrInvalidInput is shared with the solver so callers need a single check.
	ErrInvalidInput = solver.ErrInvalidInput

	// ErrDivisionDegenerate is returned when a formula would divide by a
	// non-positive quantity or produce a non-finite value.
	ErrDivisionDegenerate = errors.New("degenerate division")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func degenerate(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDivisionDegenerate}, args...)...)
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

// checkFrame validates the frame geometry shared by every overhead formula.
func checkFrame(l model.LinkParameters) error {
	if err := positive("mtu", l.MTU); err != nil {
		return err
	}
	if math.IsNaN(l.IPHeader) || math.IsInf(l.IPHeader, 0) || l.IPHeader < 0 {
		return invalid("ip header overhead must be non-negative, got %v", l.IPHeader)
	}
	if l.IPHeader >= l.MTU {
		return invalid("ip header overhead (%v) must be smaller than mtu (%v)", l.IPHeader, l.MTU)
	}
	return nil
}

func checkLink(l model.LinkParameters) error {
	if err := positive("capacity_l1", l.CapacityL1); err != nil {
		return err
	}
	return checkFrame(l)
}

func checkTraffic(t model.TrafficProfile) error {
	if err := positive("peak rate", t.PeakRate); err != nil {
		return err
	}
	if err := positive("average rate", t.AverageRate); err != nil {
		return err
	}
	if t.AverageRate > t.PeakRate {
		return invalid("average rate (%v) must not exceed peak rate (%v)", t.AverageRate, t.PeakRate)
	}
	return nil
}

func checkProbability(p float64) error {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return invalid("probability must be within (0, 1), got %v", p)
	}
	return nil
}

// finite guards a formula result against silent Inf/NaN.
func finite(name string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, degenerate("%s is not finite", name)
	}
	return v, nil
}

// ValidateScenario checks every input a full plan depends on.
func ValidateScenario(s model.Scenario) error {
	if err := checkLink(s.Link); err != nil {
		return err
	}
	if err := checkTraffic(s.Traffic); err != nil {
		return err
	}
	if err := checkProbability(s.Target.Probability); err != nil {
		return err
	}
	if err := positive("aggregation", s.Target.Aggregation); err != nil {
		return err
	}
	return positive("required rate", s.Target.RequiredRate)
}
