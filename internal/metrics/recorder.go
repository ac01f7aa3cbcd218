package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/guimove/linkfit/internal/model"
	"github.com/guimove/linkfit/internal/solver"
)

const namespace = "linkfit"

// Recorder keeps run metrics in a private Prometheus registry.
type Recorder struct {
	registry    *prometheus.Registry
	solves      *prometheus.CounterVec
	evaluations *prometheus.HistogramVec
	coarseSteps *prometheus.CounterVec
	plans       *prometheus.CounterVec
	warnings    prometheus.Counter
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "runs_total",
			Help:      "λ searches by variant and outcome.",
		}, []string{"variant", "outcome"}),
		evaluations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "evaluations",
			Help:      "CDF evaluations per λ search.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
		}, []string{"variant"}),
		coarseSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "coarse_steps_total",
			Help:      "Steps taken at the coarsest search level.",
		}, []string{"variant"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Capacity plans by outcome.",
		}, []string{"outcome"}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_warnings_total",
			Help:      "Warnings attached to successful plans.",
		}),
	}
	r.registry.MustRegister(r.solves, r.evaluations, r.coarseSteps, r.plans, r.warnings)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSolve records one λ search.
func (r *Recorder) ObserveSolve(variant string, stats solver.Stats, err error) {
	r.solves.WithLabelValues(variant, OutcomeOf(err)).Inc()
	if stats.Evaluations > 0 {
		r.evaluations.WithLabelValues(variant).Observe(float64(stats.Evaluations))
	}
	if stats.CoarseSteps > 0 {
		r.coarseSteps.WithLabelValues(variant).Add(float64(stats.CoarseSteps))
	}
}

// ObservePlan records a plan outcome. The searches a plan runs are reported
// through ObserveSolve as they happen, failed plans included.
func (r *Recorder) ObservePlan(plan *model.Plan, err error) {
	r.plans.WithLabelValues(OutcomeOf(err)).Inc()
	if plan != nil {
		r.warnings.Add(float64(len(plan.Warnings)))
	}
}

// WriteText writes the registry in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
