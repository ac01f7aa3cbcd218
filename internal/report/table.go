package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/linkfit/internal/model"
)

// TableReporter outputs plans as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, plans []model.Plan, meta ReportMeta) error {
	f := newFormatter(meta.Locale)

	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "Linkfit Capacity Plan\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))

	if len(plans) == 0 {
		fmt.Fprintf(r.w, "No plans available.\n")
		r.failed(meta)
		return nil
	}

	if len(plans) > 1 {
		r.comparison(f, plans)
		r.failed(meta)
		return nil
	}

	p := plans[0]
	sc := p.Scenario
	fmt.Fprintf(r.w, "Scenario:    %s\n", sc.Label())
	fmt.Fprintf(r.w, "Link:        %s bit/s, MTU %s, IP header %s\n",
		f.rate(sc.Link.CapacityL1), f.count(sc.Link.MTU), f.count(sc.Link.IPHeader))
	fmt.Fprintf(r.w, "Traffic:     peak %s bit/s, average %s bit/s\n",
		f.rate(sc.Traffic.PeakRate), f.rate(sc.Traffic.AverageRate))
	fmt.Fprintf(r.w, "Target:      p=%g, %s flows, %s bit/s per flow\n",
		sc.Target.Probability, f.count(sc.Target.Aggregation), f.rate(sc.Target.RequiredRate))
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))

	fmt.Fprintf(r.w, "\nUtilization\n")
	fmt.Fprintf(r.w, "  Peak link utilization:     %s\n", f.util(p.LinkUtilizationMax))
	fmt.Fprintf(r.w, "  Average link utilization:  %s\n", f.util(p.LinkUtilizationAvg))
	fmt.Fprintf(r.w, "  Utilization factor:        %s\n", f.util(p.UtilizationFactor))

	fmt.Fprintf(r.w, "\nThroughput (bit/s)\n")
	fmt.Fprintf(r.w, "  L4 capacity:               %s\n", f.rate(p.CapacityL4))
	fmt.Fprintf(r.w, "  RSA natural:               %s\n", f.rate(p.RSANatural))
	fmt.Fprintf(r.w, "  RSA without UF:            %s\n", f.rate(p.RSANoUF))
	fmt.Fprintf(r.w, "  RSA with UF:               %s\n", f.rate(p.RSAWithUF))

	fmt.Fprintf(r.w, "\nTermination points\n")
	fmt.Fprintf(r.w, "  Estimated aggregation:     %s\n", f.integer(p.EstimatedAggregation))
	fmt.Fprintf(r.w, "  NTP without UF:            %s\n", f.count(p.NTPNoUF))
	fmt.Fprintf(r.w, "  NTP with UF:               %s\n", f.count(p.NTPWithUF))

	fmt.Fprintf(r.w, "\nPerformance decrease\n")
	fmt.Fprintf(r.w, "  Without UF:                %s\n", f.percent(p.PerformanceDecreaseNoUF))
	fmt.Fprintf(r.w, "  With UF:                   %s\n", f.percent(p.PerformanceDecreaseWithUF))

	fmt.Fprintf(r.w, "\nBottleneck sizing (bit/s)\n")
	fmt.Fprintf(r.w, "  Minimum bandwidth:         %s\n", f.rate(p.MinimumBandwidth))
	fmt.Fprintf(r.w, "  Minimum capacity:          %s\n", f.rate(p.MinimumCapacity))

	if len(p.Lambdas) > 0 {
		fmt.Fprintf(r.w, "\nSolved λ\n")
		for _, l := range p.Lambdas {
			fmt.Fprintf(r.w, "  %-24s %-13s agg %-8s %s (%d evaluations)\n",
				l.Purpose, l.Variant, f.count(l.Aggregation), f.lambda(l.Lambda), l.Evaluations)
		}
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintf(r.w, "\n  Warnings:\n")
		for _, w := range p.Warnings {
			fmt.Fprintf(r.w, "    - %s\n", w)
		}
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}

func (r *TableReporter) comparison(f formatter, plans []model.Plan) {
	fmt.Fprintf(r.w, "%-26s %6s %16s %16s %8s %8s %8s %16s\n",
		"Scenario", "LU", "RSA", "RSA (UF)", "NTP", "NTP (UF)", "Decr%", "Min BW")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 112))

	for _, p := range plans {
		label := p.Scenario.Label()
		if len(label) > 26 {
			label = label[:23] + "..."
		}
		fmt.Fprintf(r.w, "%-26s %6s %16s %16s %8s %8s %8s %16s\n",
			label,
			f.util(p.LinkUtilizationMax),
			f.rate(p.RSANoUF),
			f.rate(p.RSAWithUF),
			f.count(p.NTPNoUF),
			f.count(p.NTPWithUF),
			f.percent(p.PerformanceDecreaseNoUF),
			f.rate(p.MinimumBandwidth),
		)
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 112))

	for _, p := range plans {
		for _, w := range p.Warnings {
			fmt.Fprintf(r.w, "  [%s] %s\n", p.Scenario.Label(), w)
		}
	}
	fmt.Fprintf(r.w, "\n")
}

func (r *TableReporter) failed(meta ReportMeta) {
	if len(meta.Failed) == 0 {
		return
	}
	fmt.Fprintf(r.w, "Failed scenarios:\n")
	for _, fs := range meta.Failed {
		fmt.Fprintf(r.w, "  - %s: %s\n", fs.Scenario, fs.Error)
	}
	fmt.Fprintf(r.w, "\n")
}
