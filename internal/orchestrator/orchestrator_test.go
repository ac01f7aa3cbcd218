package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/guimove/linkfit/internal/config"
	"github.com/guimove/linkfit/internal/metrics"
	"github.com/guimove/linkfit/internal/solver"
)

func newTestOrchestrator(t *testing.T, cfg config.Config) (*Orchestrator, *metrics.Recorder, *bytes.Buffer) {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	rec := metrics.NewRecorder()
	orch := New(cfg, rec, nil)
	buf := &bytes.Buffer{}
	orch.Writer = buf
	return orch, rec, buf
}

func metricsText(t *testing.T, rec *metrics.Recorder) string {
	t.Helper()
	var buf bytes.Buffer
	if err := rec.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	return buf.String()
}

func TestOrchestrator_Plan(t *testing.T) {
	orch, rec, buf := newTestOrchestrator(t, config.Default())

	plan, err := orch.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if plan.EstimatedAggregation != 236 {
		t.Errorf("expected estimated aggregation 236, got %d", plan.EstimatedAggregation)
	}
	if len(plan.Lambdas) != 4 {
		t.Errorf("expected 4 solved λ values, got %d", len(plan.Lambdas))
	}
	if !strings.Contains(buf.String(), "Linkfit Capacity Plan") {
		t.Errorf("expected table report, got:\n%s", buf.String())
	}

	text := metricsText(t, rec)
	if !strings.Contains(text, `linkfit_plans_total{outcome="ok"} 1`) {
		t.Errorf("expected one successful plan in metrics:\n%s", text)
	}
	if !strings.Contains(text, `linkfit_solver_runs_total{outcome="ok",variant="direct"} 2`) {
		t.Errorf("expected two direct solves in metrics:\n%s", text)
	}
}

func TestOrchestrator_Plan_RecordsCoarseSteps(t *testing.T) {
	orch, rec, _ := newTestOrchestrator(t, config.Default())

	plan, err := orch.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	// Direct searches at 236 and 587 flows pass λ=100..200 and λ=100..500.
	steps := 0
	for _, l := range plan.Lambdas {
		if l.Variant == "direct" {
			steps += l.CoarseSteps
		}
	}
	if steps != 7 {
		t.Errorf("expected 7 coarse steps across direct searches, got %d", steps)
	}

	text := metricsText(t, rec)
	if !strings.Contains(text, `linkfit_solver_coarse_steps_total{variant="direct"} 7`) {
		t.Errorf("expected coarse steps of plan searches in metrics:\n%s", text)
	}
}

func TestOrchestrator_Plan_FailedSearchIsRecorded(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.MaxCoarseSteps = 1
	orch, rec, _ := newTestOrchestrator(t, cfg)

	_, err := orch.Plan(context.Background())
	if !errors.Is(err, solver.ErrNonConvergence) {
		t.Fatalf("expected ErrNonConvergence, got %v", err)
	}

	text := metricsText(t, rec)
	for _, want := range []string{
		`linkfit_plans_total{outcome="non_convergence"} 1`,
		`linkfit_solver_runs_total{outcome="non_convergence",variant="direct"} 1`,
		`linkfit_solver_runs_total{outcome="ok",variant="ratio"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in metrics:\n%s", want, text)
		}
	}
}

func TestOrchestrator_Plan_JSON(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "json"
	orch, _, buf := newTestOrchestrator(t, cfg)

	if _, err := orch.Plan(context.Background()); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	var out struct {
		Meta struct {
			Command string `json:"command"`
		} `json:"meta"`
		Plans []json.RawMessage `json:"plans"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if out.Meta.Command != "plan" || len(out.Plans) != 1 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestOrchestrator_Plan_Degenerate(t *testing.T) {
	cfg := config.Default()
	cfg.Link.MTU = 30
	orch, rec, _ := newTestOrchestrator(t, cfg)

	_, err := orch.Plan(context.Background())
	if err == nil {
		t.Fatal("expected error for degenerate frame")
	}

	text := metricsText(t, rec)
	if !strings.Contains(text, `linkfit_plans_total{outcome="degenerate"} 1`) {
		t.Errorf("expected degenerate outcome in metrics:\n%s", text)
	}
}

func TestOrchestrator_WhatIf(t *testing.T) {
	orch, _, buf := newTestOrchestrator(t, config.Default())

	plans, err := orch.WhatIf(context.Background(), []float64{-1, 2.488e9}, []float64{0.5, 0.9})
	if err != nil {
		t.Fatalf("WhatIf failed: %v", err)
	}

	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if plans[0].Scenario.Target.Probability != 0.5 || plans[1].Scenario.Target.Probability != 0.9 {
		t.Errorf("plans out of input order: %v, %v",
			plans[0].Scenario.Target.Probability, plans[1].Scenario.Target.Probability)
	}
	if !strings.Contains(buf.String(), "Failed scenarios:") {
		t.Errorf("expected failed scenarios in report:\n%s", buf.String())
	}
}

func TestOrchestrator_WhatIf_AllFailed(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t, config.Default())

	if _, err := orch.WhatIf(context.Background(), []float64{0}, nil); err == nil {
		t.Fatal("expected error when every scenario fails")
	}
}

func TestOrchestrator_Lambda(t *testing.T) {
	orch, _, buf := newTestOrchestrator(t, config.Default())

	lu := 1e9 / 2488e6
	res, err := orch.Lambda(context.Background(), solver.Problem{
		Variant:            solver.ScaledRatio,
		Probability:        0.9,
		Aggregation:        256,
		UtilizationCeiling: lu,
	})
	if err != nil {
		t.Fatalf("Lambda failed: %v", err)
	}

	if math.Abs(res.Lambda-lu*256/12) > 2e-6 {
		t.Errorf("expected λ near %v, got %v", lu*256/12, res.Lambda)
	}
	if !strings.HasPrefix(buf.String(), "λ = 8.574") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestOrchestrator_Lambda_Invalid(t *testing.T) {
	orch, rec, buf := newTestOrchestrator(t, config.Default())

	_, err := orch.Lambda(context.Background(), solver.Problem{Variant: solver.Direct, Probability: 0, Aggregation: 10})
	if !errors.Is(err, solver.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
	if text := metricsText(t, rec); !strings.Contains(text, `outcome="invalid_input"`) {
		t.Errorf("expected invalid input outcome in metrics:\n%s", text)
	}
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	orch, _, _ := newTestOrchestrator(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := orch.Plan(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
