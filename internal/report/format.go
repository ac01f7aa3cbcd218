package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Presentation precision per metric family. Plans always carry full
// precision; rounding happens only here.
const (
	UtilizationDecimals = 2
	RateDecimals        = 1
	PercentDecimals     = 1
	LambdaDecimals      = 6
)

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// Truncate drops the fractional part of a count such as NTP.
func Truncate(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(v)
}

// formatter renders numbers with locale-specific separators.
type formatter struct {
	p *message.Printer
}

func newFormatter(locale string) formatter {
	tag := language.English
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return formatter{p: message.NewPrinter(tag)}
}

func (f formatter) util(v float64) string {
	return f.p.Sprintf("%.2f", Round(v, UtilizationDecimals))
}

func (f formatter) rate(v float64) string {
	return f.p.Sprintf("%.1f", Round(v, RateDecimals))
}

func (f formatter) percent(v float64) string {
	return f.p.Sprintf("%.1f", Round(v, PercentDecimals)) + "%"
}

func (f formatter) count(v float64) string {
	return f.p.Sprintf("%d", Truncate(v))
}

func (f formatter) integer(v int64) string {
	return f.p.Sprintf("%d", v)
}

func (f formatter) lambda(v float64) string {
	return f.p.Sprintf("%.6f", Round(v, LambdaDecimals))
}
