package report

import (
	"context"
	"io"
	"time"

	"github.com/guimove/linkfit/internal/model"
)

// Reporter formats and writes capacity plans to an output destination.
type Reporter interface {
	Report(ctx context.Context, plans []model.Plan, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	Command     string    `json:"command"`
	Version     string    `json:"version,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	// Locale selects number grouping and decimal separators for text output.
	Locale string `json:"locale,omitempty"`

	// Failed lists scenarios of a sweep that produced no plan.
	Failed []FailedScenario `json:"failed,omitempty"`
}

// FailedScenario names a scenario and the reason it could not be planned.
type FailedScenario struct {
	Scenario string `json:"scenario"`
	Error    string `json:"error"`
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
