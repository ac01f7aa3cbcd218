package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/linkfit/internal/model"
)

// JSONReporter outputs plans as JSON with full precision.
type JSONReporter struct {
	w io.Writer
}

type jsonOutput struct {
	Meta  ReportMeta   `json:"meta"`
	Plans []model.Plan `json:"plans"`
}

func (r *JSONReporter) Report(ctx context.Context, plans []model.Plan, meta ReportMeta) error {
	if plans == nil {
		plans = []model.Plan{}
	}
	output := jsonOutput{
		Meta:  meta,
		Plans: plans,
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
