package model

import "fmt"

// LinkParameters describes the shared link being planned.
type LinkParameters struct {
	// Layer-1 bit rate in bits/second
	CapacityL1 float64 `json:"capacity_l1"`

	// Frame size and IP header overhead in bytes
	MTU      float64 `json:"mtu"`
	IPHeader float64 `json:"ip_header_overhead"`
}

// WithCapacity returns a copy of the link running at a different layer-1 rate.
func (l LinkParameters) WithCapacity(capacityL1 float64) LinkParameters {
	l.CapacityL1 = capacityL1
	return l
}

// TrafficProfile is the offered load on the link, in bits/second.
type TrafficProfile struct {
	PeakRate    float64 `json:"peak_rate"`
	AverageRate float64 `json:"average_rate"`
}

// ServiceTarget is the service level the link has to guarantee.
type ServiceTarget struct {
	// Target service-availability probability, within (0, 1)
	Probability float64 `json:"probability"`

	// Number of flows sharing the link
	Aggregation float64 `json:"aggregation"`

	// Per-flow rate that must be achieved, in bits/second
	RequiredRate float64 `json:"required_rate"`
}

// WithProbability returns a copy of the target with a different probability.
func (t ServiceTarget) WithProbability(p float64) ServiceTarget {
	t.Probability = p
	return t
}

// Scenario bundles everything a single plan is computed from.
type Scenario struct {
	Name    string         `json:"name,omitempty"`
	Link    LinkParameters `json:"link"`
	Traffic TrafficProfile `json:"traffic"`
	Target  ServiceTarget  `json:"target"`
}

// Label returns a human-readable label for this scenario.
func (s Scenario) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%g bit/s @ p=%g", s.Link.CapacityL1, s.Target.Probability)
}
