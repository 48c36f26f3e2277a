package view

import (
	"Vaultium/internal/calculator"
)

const (
	chartWidth  = 600
	chartHeight = 120
	chartPad    = 6
	chartPoints = 60
	avgPeriod   = 5
)

// Sparkline is a pre-scaled SVG chart of a rate history.
type Sparkline struct {
	Width, Height float64
	Line          string
	Fill          string
	Decorative    bool // history too short, showing the placeholder wave
	Avg           float64
	AvgLine       string
	HasAvg        bool
	Change        float64
}

// BuildSparkline scales history into chart coordinates. With fewer than two
// samples it falls back to a decorative sine wave.
func BuildSparkline(history []float64, noise func() float64) Sparkline {
	s := Sparkline{Width: chartWidth, Height: chartHeight}
	values := history
	if len(values) < 2 {
		values = calculator.DecorativeSeries(chartPoints, noise)
		s.Decorative = true
	}

	pts := calculator.Scale(values, chartWidth, chartHeight, chartPad)
	s.Line = calculator.Polyline(pts)
	s.Fill = calculator.Area(pts, chartWidth, chartHeight)

	if s.Decorative {
		return s
	}
	if avg, err := calculator.CalculateSMA(values, avgPeriod); err == nil {
		s.Avg, s.HasAvg = avg, true
	}
	if series, err := calculator.SMASeries(values, avgPeriod); err == nil {
		high, low, _ := calculator.Range(values, 0)
		s.AvgLine = calculator.Polyline(calculator.Overlay(series, len(values), high, low, chartWidth, chartHeight, chartPad))
	}
	if chg, err := calculator.ChangePercent(values); err == nil {
		s.Change = chg
	}
	return s
}
