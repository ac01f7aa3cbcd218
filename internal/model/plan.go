package model

// LambdaSolution records one solved Poisson intensity and what it was used for.
type LambdaSolution struct {
	Purpose     string  `json:"purpose"`
	Variant     string  `json:"variant"`
	Aggregation float64 `json:"aggregation"`
	Lambda      float64 `json:"lambda"`
	Evaluations int     `json:"evaluations"`
	Levels      int     `json:"levels"`
	CoarseSteps int     `json:"coarse_steps"`
}

// Plan is the full metric set computed for a scenario. All values are raw,
// full-precision numbers; rounding is left to the presentation layer.
type Plan struct {
	Scenario Scenario `json:"scenario"`

	// Utilization
	LinkUtilizationMax float64 `json:"link_utilization_max"`
	LinkUtilizationAvg float64 `json:"link_utilization_avg"`
	UtilizationFactor  float64 `json:"utilization_factor"`

	// Payload throughput after frame and header overhead (bits/second)
	CapacityL4    float64 `json:"capacity_l4"`
	AverageRateL4 float64 `json:"average_rate_l4"`

	// Flow counts derived from the required per-flow rate
	EstimatedAggregation int64 `json:"estimated_aggregation"`
	EstimatedNTP         int64 `json:"estimated_ntp"`

	// Real speed achieved per flow (bits/second)
	RSANatural float64 `json:"rsa_natural"`
	RSANoUF    float64 `json:"rsa_no_uf"`
	RSAWithUF  float64 `json:"rsa_with_uf"`

	// Net termination points
	NTPNoUF   float64 `json:"ntp_no_uf"`
	NTPWithUF float64 `json:"ntp_with_uf"`

	// Performance decrease in percent
	PerformanceDecreaseNoUF   float64 `json:"performance_decrease_no_uf"`
	PerformanceDecreaseWithUF float64 `json:"performance_decrease_with_uf"`

	// Minimum layer-3 bottleneck sizing (bits/second)
	MinimumBandwidth float64 `json:"minimum_bandwidth"`
	MinimumCapacity  float64 `json:"minimum_capacity"`

	Lambdas  []LambdaSolution `json:"lambdas"`
	Warnings []string         `json:"warnings,omitempty"`
}

// TotalEvaluations returns the number of CDF evaluations spent on the plan.
func (p Plan) TotalEvaluations() int {
	total := 0
	for i := range p.Lambdas {
		total += p.Lambdas[i].Evaluations
	}
	return total
}

// Lambda returns the solution recorded for purpose, if any.
func (p Plan) Lambda(purpose string) (LambdaSolution, bool) {
	for _, l := range p.Lambdas {
		if l.Purpose == purpose {
			return l, true
		}
	}
	return LambdaSolution{}, false
}
