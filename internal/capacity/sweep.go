package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/guimove/linkfit/internal/model"
)

// Outcome is the result of planning one scenario of a sweep.
type Outcome struct {
	Scenario model.Scenario
	Plan     *model.Plan
	Err      error
}

// GenerateScenarios expands a base scenario over layer-1 capacities and target
// probabilities. An empty list keeps the base value for that dimension.
// Scenarios are ordered by capacity, then probability, in input order.
func GenerateScenarios(base model.Scenario, capacities, probabilities []float64) []model.Scenario {
	if len(capacities) == 0 {
		capacities = []float64{base.Link.CapacityL1}
	}
	if len(probabilities) == 0 {
		probabilities = []float64{base.Target.Probability}
	}

	scenarios := make([]model.Scenario, 0, len(capacities)*len(probabilities))
	for _, c := range capacities {
		for _, p := range probabilities {
			sc := base
			sc.Link = base.Link.WithCapacity(c)
			sc.Target = base.Target.WithProbability(p)
			sc.Name = fmt.Sprintf("C1=%g p=%g", c, p)
			scenarios = append(scenarios, sc)
		}
	}
	return scenarios
}

// RunAll plans every scenario sequentially. Failed scenarios are kept in the
// outcome list with their error; RunAll itself fails only when the context is
// done, no scenarios are given, or every scenario failed.
func (c *Calculator) RunAll(ctx context.Context, scenarios []model.Scenario) ([]Outcome, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios provided")
	}

	outcomes := make([]Outcome, 0, len(scenarios))
	var errs []error
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan, err := c.Plan(sc)
		if err != nil {
			err = fmt.Errorf("scenario %q: %w", sc.Label(), err)
			errs = append(errs, err)
		}
		outcomes = append(outcomes, Outcome{Scenario: sc, Plan: plan, Err: err})
	}

	if len(errs) == len(scenarios) {
		return outcomes, fmt.Errorf("all scenarios failed: %w", errors.Join(errs...))
	}
	return outcomes, nil
}

// Plans returns the successful plans of a sweep in scenario order.
func Plans(outcomes []Outcome) []model.Plan {
	plans := make([]model.Plan, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil && o.Plan != nil {
			plans = append(plans, *o.Plan)
		}
	}
	return plans
}
