package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/guimove/linkfit/internal/model"
)

func samplePlan(name string) model.Plan {
	return model.Plan{
		Scenario: model.Scenario{
			Name:    name,
			Link:    model.LinkParameters{CapacityL1: 2488000000, MTU: 1500, IPHeader: 20},
			Traffic: model.TrafficProfile{PeakRate: 1e9, AverageRate: 5e8},
			Target:  model.ServiceTarget{Probability: 0.9, Aggregation: 256, RequiredRate: 1e7},
		},
		LinkUtilizationMax:        0.40192926045016075,
		LinkUtilizationAvg:        0.20096463022508037,
		UtilizationFactor:         0.5,
		CapacityL4:                2361820546.1768532,
		EstimatedAggregation:      236,
		RSANatural:                9225861.508503333,
		RSANoUF:                   8123456.789,
		RSAWithUF:                 39540287.123,
		NTPNoUF:                   2048.77,
		NTPWithUF:                 5097.3,
		PerformanceDecreaseNoUF:   8.3456,
		PerformanceDecreaseWithUF: 5.3512,
		MinimumBandwidth:          315123.456,
		MinimumCapacity:           1789012.5,
		Lambdas: []model.LambdaSolution{
			{Purpose: "rsa-uf", Variant: "scaled-ratio", Aggregation: 256, Lambda: 8.574491, Evaluations: 40, Levels: 9},
		},
		Warnings: []string{"High peak utilization leaves little headroom for bursts"},
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     float64
	}{
		{0.40192926, 2, 0.40},
		{8123456.789, 1, 8123456.8},
		{8.57449051, 6, 8.574491},
		{-5.375, 1, -5.4},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.decimals); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.decimals, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate(2048.99); got != 2048 {
		t.Errorf("expected 2048, got %d", got)
	}
	if got := Truncate(-0.5); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestFormatter_English(t *testing.T) {
	f := newFormatter("en")

	tests := []struct {
		got, want string
	}{
		{f.util(0.40192926), "0.40"},
		{f.rate(2361820546.1768532), "2,361,820,546.2"},
		{f.count(2048.77), "2,048"},
		{f.integer(236), "236"},
		{f.percent(8.3456), "8.3%"},
		{f.lambda(8.574491), "8.574491"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestFormatter_German(t *testing.T) {
	f := newFormatter("de")

	if got := f.rate(1234.5); got != "1.234,5" {
		t.Errorf("expected 1.234,5, got %q", got)
	}
	if got := f.util(0.4); got != "0,40" {
		t.Errorf("expected 0,40, got %q", got)
	}
}

func TestFormatter_UnknownLocaleFallsBack(t *testing.T) {
	if got := newFormatter("not a locale!").rate(1234.5); got != "1,234.5" {
		t.Errorf("expected English fallback, got %q", got)
	}
}

func TestNewReporter(t *testing.T) {
	var buf bytes.Buffer
	if _, ok := NewReporter("json", &buf).(*JSONReporter); !ok {
		t.Error("expected JSONReporter")
	}
	if _, ok := NewReporter("markdown", &buf).(*MarkdownReporter); !ok {
		t.Error("expected MarkdownReporter")
	}
	if _, ok := NewReporter("table", &buf).(*TableReporter); !ok {
		t.Error("expected TableReporter")
	}
	if _, ok := NewReporter("", &buf).(*TableReporter); !ok {
		t.Error("expected TableReporter as default")
	}
}

func TestJSONReporter_FullPrecision(t *testing.T) {
	var buf bytes.Buffer
	meta := ReportMeta{Command: "plan", GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	if err := NewReporter("json", &buf).Report(context.Background(), []model.Plan{samplePlan("")}, meta); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(out.Plans))
	}
	if out.Plans[0].LinkUtilizationMax != 0.40192926045016075 {
		t.Errorf("utilization lost precision: %v", out.Plans[0].LinkUtilizationMax)
	}
	if out.Meta.Command != "plan" {
		t.Errorf("expected command 'plan', got %q", out.Meta.Command)
	}
}

func TestJSONReporter_EmptyPlans(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter("json", &buf).Report(context.Background(), nil, ReportMeta{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"plans": []`) {
		t.Errorf("expected empty plans array, got:\n%s", buf.String())
	}
}

func TestTableReporter_SinglePlan(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter("table", &buf).Report(context.Background(), []model.Plan{samplePlan("")}, ReportMeta{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Linkfit Capacity Plan",
		"2.488e+09 bit/s @ p=0.9",
		"0.40",
		"8,123,456.8",
		"2,048",
		"8.3%",
		"8.574491",
		"High peak utilization",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableReporter_Comparison(t *testing.T) {
	var buf bytes.Buffer
	plans := []model.Plan{samplePlan("C1=1e+09 p=0.9"), samplePlan("C1=2.488e+09 p=0.9")}
	meta := ReportMeta{Failed: []FailedScenario{{Scenario: "C1=1 p=0.9", Error: "invalid input"}}}

	if err := NewReporter("table", &buf).Report(context.Background(), plans, meta); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	out := buf.String()
	if strings.Count(out, "C1=2.488e+09 p=0.9") != 2 {
		t.Errorf("expected scenario in row and warning line:\n%s", out)
	}
	if !strings.Contains(out, "Failed scenarios:") {
		t.Errorf("expected failed scenarios section:\n%s", out)
	}
	if strings.Contains(out, "%%") {
		t.Errorf("unexpected literal %%%% in output:\n%s", out)
	}
}

func TestTableReporter_NoPlans(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter("table", &buf).Report(context.Background(), nil, ReportMeta{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No plans available.") {
		t.Errorf("expected empty notice, got:\n%s", buf.String())
	}
}

func TestMarkdownReporter(t *testing.T) {
	var buf bytes.Buffer
	meta := ReportMeta{Locale: "de"}
	if err := NewReporter("markdown", &buf).Report(context.Background(), []model.Plan{samplePlan("base")}, meta); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "# Linkfit Capacity Plan") {
		t.Errorf("missing heading:\n%s", out)
	}
	if !strings.Contains(out, "| base | 0,40 |") {
		t.Errorf("expected localized row:\n%s", out)
	}
	if !strings.Contains(out, "## Warnings") {
		t.Errorf("expected warnings section:\n%s", out)
	}
}
