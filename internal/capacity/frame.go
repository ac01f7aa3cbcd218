package capacity

import (
	"math"

	"github.com/guimove/linkfit/internal/model"
)

const (
	// EthernetOverhead is the per-frame cost outside the MTU in bytes:
	// preamble and SFD (8), MAC header (14), FCS (4) and inter-frame gap (12).
	EthernetOverhead = 38

	// TransportHeader is the layer-4 header carried inside the MTU in bytes.
	TransportHeader = 20

	// BottleneckHeader is the per-packet overhead in bytes assumed when sizing
	// the minimum layer-3 bottleneck.
	BottleneckHeader = 8
)

// payloadFactor is the share of the layer-1 rate left for layer-4 payload.
func payloadFactor(l model.LinkParameters) (float64, error) {
	payload := l.MTU - TransportHeader - l.IPHeader
	if payload <= 0 {
		return 0, degenerate("mtu %v leaves no payload after %v bytes of headers",
			l.MTU, TransportHeader+l.IPHeader)
	}
	return payload / (l.MTU + EthernetOverhead), nil
}

// bottleneckFactor converts a layer-4 rate into the layer-3 rate of the
// minimum bottleneck: (mtu - ip) / (mtu - ip - 8).
func bottleneckFactor(l model.LinkParameters) (float64, error) {
	d := l.MTU - l.IPHeader - BottleneckHeader
	if d <= 0 {
		return 0, degenerate("mtu - ip header - %d is %v", BottleneckHeader, d)
	}
	return (l.MTU - l.IPHeader) / d, nil
}

// L4Capacity returns the usable payload throughput of the link in bits/second.
// It is linear in CapacityL1 for a fixed frame geometry.
func L4Capacity(l model.LinkParameters) (float64, error) {
	if err := checkLink(l); err != nil {
		return 0, err
	}
	f, err := payloadFactor(l)
	if err != nil {
		return 0, err
	}
	return l.CapacityL1 * f, nil
}

// L4AverageRate applies the same overhead transform to the average rate.
func L4AverageRate(l model.LinkParameters, t model.TrafficProfile) (float64, error) {
	if err := checkFrame(l); err != nil {
		return 0, err
	}
	if err := checkTraffic(t); err != nil {
		return 0, err
	}
	f, err := payloadFactor(l)
	if err != nil {
		return 0, err
	}
	return t.AverageRate * f, nil
}

// LinkUtilizationMax returns peak rate over layer-1 capacity.
func LinkUtilizationMax(l model.LinkParameters, t model.TrafficProfile) (float64, error) {
	if err := positive("capacity_l1", l.CapacityL1); err != nil {
		return 0, err
	}
	if err := checkTraffic(t); err != nil {
		return 0, err
	}
	return t.PeakRate / l.CapacityL1, nil
}

// LinkUtilizationAvg returns average rate over layer-1 capacity.
func LinkUtilizationAvg(l model.LinkParameters, t model.TrafficProfile) (float64, error) {
	if err := positive("capacity_l1", l.CapacityL1); err != nil {
		return 0, err
	}
	if err := checkTraffic(t); err != nil {
		return 0, err
	}
	return t.AverageRate / l.CapacityL1, nil
}

// UtilizationFactor returns average rate over peak rate.
func UtilizationFactor(t model.TrafficProfile) (float64, error) {
	if err := checkTraffic(t); err != nil {
		return 0, err
	}
	return t.AverageRate / t.PeakRate, nil
}

// EstimatedAggregation returns how many flows of requiredRate fit into capacityL4.
func EstimatedAggregation(capacityL4, requiredRate float64) (int64, error) {
	if err := positive("capacity_l4", capacityL4); err != nil {
		return 0, err
	}
	if err := positive("required rate", requiredRate); err != nil {
		return 0, err
	}
	return truncate("estimated aggregation", capacityL4/requiredRate)
}

// EstimatedNTP returns the utilization-weighted flow estimate
// floor(UF * C4^2 / (rsaReq * A4)) used by the weighted performance decrease.
func EstimatedNTP(uf, capacityL4, averageL4, requiredRate float64) (int64, error) {
	if requiredRate <= 0 || averageL4 <= 0 {
		return 0, degenerate("required rate (%v) and average L4 rate (%v) must be positive", requiredRate, averageL4)
	}
	return truncate("estimated ntp", uf*capacityL4*capacityL4/(requiredRate*averageL4))
}

func truncate(name string, v float64) (int64, error) {
	v, err := finite(name, v)
	if err != nil {
		return 0, err
	}
	if v >= math.MaxInt64 {
		return 0, degenerate("%s overflows: %v", name, v)
	}
	return int64(v), nil
}
