package report

import (
	"context"
	"fmt"
	"io"

	"github.com/guimove/linkfit/internal/model"
)

// MarkdownReporter outputs plans as a Markdown document.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, plans []model.Plan, meta ReportMeta) error {
	f := newFormatter(meta.Locale)

	fmt.Fprintf(r.w, "# Linkfit Capacity Plan\n\n")
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(r.w, "_Generated %s_\n\n", meta.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}

	if len(plans) == 0 {
		fmt.Fprintf(r.w, "No plans available.\n")
	} else {
		fmt.Fprintf(r.w, "| Scenario | LU | LU avg | UF | RSA | RSA (UF) | NTP | NTP (UF) | Decrease | Decrease (UF) | Min bandwidth | Min capacity |\n")
		fmt.Fprintf(r.w, "|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, p := range plans {
			fmt.Fprintf(r.w, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				p.Scenario.Label(),
				f.util(p.LinkUtilizationMax),
				f.util(p.LinkUtilizationAvg),
				f.util(p.UtilizationFactor),
				f.rate(p.RSANoUF),
				f.rate(p.RSAWithUF),
				f.count(p.NTPNoUF),
				f.count(p.NTPWithUF),
				f.percent(p.PerformanceDecreaseNoUF),
				f.percent(p.PerformanceDecreaseWithUF),
				f.rate(p.MinimumBandwidth),
				f.rate(p.MinimumCapacity),
			)
		}
	}

	var warnings []string
	for _, p := range plans {
		for _, w := range p.Warnings {
			warnings = append(warnings, fmt.Sprintf("**%s**: %s", p.Scenario.Label(), w))
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintf(r.w, "\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(r.w, "- %s\n", w)
		}
	}

	if len(meta.Failed) > 0 {
		fmt.Fprintf(r.w, "\n## Failed scenarios\n\n")
		for _, fs := range meta.Failed {
			fmt.Fprintf(r.w, "- %s: `%s`\n", fs.Scenario, fs.Error)
		}
	}
	return nil
}
