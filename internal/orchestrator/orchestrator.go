package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/guimove/linkfit/internal/capacity"
	"github.com/guimove/linkfit/internal/config"
	"github.com/guimove/linkfit/internal/metrics"
	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/report"
	"github.com/guimove/linkfit/internal/solver"
	"github.com/guimove/linkfit/pkg/version"
)

// Orchestrator coordinates config -> calculator -> metrics -> report.
type Orchestrator struct {
	Config     config.Config
	Solver     *solver.Solver
	Calculator *capacity.Calculator
	Observer   metrics.Observer
	Logger     *slog.Logger
	Writer     io.Writer
}

// New creates an orchestrator with the given dependencies. A nil observer or
// logger discards what it would receive.
func New(cfg config.Config, observer metrics.Observer, logger *slog.Logger) *Orchestrator {
	if observer == nil {
		observer = metrics.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := solver.New(solver.WithMaxCoarseSteps(cfg.Solver.MaxCoarseSteps))
	return &Orchestrator{
		Config:     cfg,
		Solver:     s,
		Calculator: capacity.NewCalculator(s, capacity.WithSolveFunc(observer.ObserveSolve)),
		Observer:   observer,
		Logger:     logger,
		Writer:     os.Stdout,
	}
}

// Plan computes and reports the full metric set for the configured scenario.
func (o *Orchestrator) Plan(ctx context.Context) (*model.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sc := o.Config.Scenario()

	plan, err := o.plan(sc)
	if err != nil {
		return nil, err
	}

	if err := o.report(ctx, "plan", []model.Plan{*plan}, nil); err != nil {
		return nil, err
	}
	return plan, nil
}

// WhatIf plans the configured scenario over every combination of layer-1
// capacities and probabilities and reports them side by side.
func (o *Orchestrator) WhatIf(ctx context.Context, capacities, probabilities []float64) ([]model.Plan, error) {
	scenarios := capacity.GenerateScenarios(o.Config.Scenario(), capacities, probabilities)
	o.Logger.Info("Running what-if sweep", "scenarios", len(scenarios))

	outcomes, err := o.Calculator.RunAll(ctx, scenarios)
	for _, out := range outcomes {
		o.Observer.ObservePlan(out.Plan, out.Err)
		if out.Err != nil {
			o.Logger.Warn("Scenario failed", "scenario", out.Scenario.Label(), "error", out.Err)
			continue
		}
		o.logPlan(out.Plan)
	}
	if err != nil {
		return nil, fmt.Errorf("running what-if sweep: %w", err)
	}

	var failed []report.FailedScenario
	for _, out := range outcomes {
		if out.Err != nil {
			failed = append(failed, report.FailedScenario{Scenario: out.Scenario.Label(), Error: out.Err.Error()})
		}
	}

	plans := capacity.Plans(outcomes)
	if err := o.report(ctx, "what-if", plans, failed); err != nil {
		return nil, err
	}
	return plans, nil
}

// Lambda runs a single λ search and writes the result.
func (o *Orchestrator) Lambda(ctx context.Context, p solver.Problem) (solver.Result, error) {
	if err := ctx.Err(); err != nil {
		return solver.Result{}, err
	}

	res, err := o.Solver.Solve(p)
	o.Observer.ObserveSolve(p.Variant.String(), res.Stats, err)
	o.Logger.Debug("Solved λ",
		"variant", p.Variant.String(),
		"probability", p.Probability,
		"aggregation", p.Aggregation,
		"evaluations", res.Stats.Evaluations,
		"levels", res.Stats.Levels,
		"coarse_steps", res.Stats.CoarseSteps,
	)
	if err != nil {
		return res, fmt.Errorf("solving λ: %w", err)
	}

	if err := o.writeLambda(p, res); err != nil {
		return res, err
	}
	return res, nil
}

func (o *Orchestrator) plan(sc model.Scenario) (*model.Plan, error) {
	o.Logger.Debug("Planning scenario", "scenario", sc.Label())

	plan, err := o.Calculator.Plan(sc)
	o.Observer.ObservePlan(plan, err)
	if err != nil {
		return nil, fmt.Errorf("computing plan: %w", err)
	}
	o.logPlan(plan)
	return plan, nil
}

func (o *Orchestrator) logPlan(plan *model.Plan) {
	for _, l := range plan.Lambdas {
		o.Logger.Debug("Solved λ",
			"scenario", plan.Scenario.Label(),
			"purpose", l.Purpose,
			"variant", l.Variant,
			"aggregation", l.Aggregation,
			"lambda", l.Lambda,
			"evaluations", l.Evaluations,
			"levels", l.Levels,
		)
	}
	for _, w := range plan.Warnings {
		o.Logger.Warn(w, "scenario", plan.Scenario.Label())
	}
}

func (o *Orchestrator) report(ctx context.Context, command string, plans []model.Plan, failed []report.FailedScenario) error {
	reporter := report.NewReporter(o.Config.Output.Format, o.Writer)
	meta := report.ReportMeta{
		Command:     command,
		Version:     version.Version,
		GeneratedAt: time.Now(),
		Locale:      o.Config.Output.Locale,
		Failed:      failed,
	}
	if err := reporter.Report(ctx, plans, meta); err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	return nil
}

type lambdaOutput struct {
	Variant            string  `json:"variant"`
	Probability        float64 `json:"probability"`
	Aggregation        float64 `json:"aggregation"`
	UtilizationCeiling float64 `json:"utilization_ceiling,omitempty"`
	solver.Result
}

func (o *Orchestrator) writeLambda(p solver.Problem, res solver.Result) error {
	if o.Config.Output.Format == "json" {
		out := lambdaOutput{
			Variant:     p.Variant.String(),
			Probability: p.Probability,
			Aggregation: p.Aggregation,
			Result:      res,
		}
		if p.Variant == solver.ScaledRatio {
			out.UtilizationCeiling = p.UtilizationCeiling
		}
		enc := json.NewEncoder(o.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprintf(o.Writer, "λ = %.6f  (%s, p=%g, aggregation %g, %d evaluations over %d levels)\n",
		res.Lambda, p.Variant, p.Probability, p.Aggregation, res.Stats.Evaluations, res.Stats.Levels)
	return err
}
