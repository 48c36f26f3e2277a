package calculator

import (
	"fmt"
	"math"
	"strings"
)

// Point is a chart coordinate in pixels, y growing downward.
type Point struct {
	X, Y float64
}

// DecorativeSeries is the fallback trend shown before enough history exists.
// noise must return values in [0, 1).
func DecorativeSeries(n int, noise func() float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(float64(i)/6)*6 + 30 + noise()*3
	}
	return out
}

// Scale maps values onto a width×height box, leaving pad pixels top and bottom.
func Scale(values []float64, width, height, pad float64) []Point {
	high, low, err := Range(values, 0)
	if err != nil {
		return nil
	}
	return Overlay(values, len(values), high, low, width, height, pad)
}

// Overlay scales values against the bounds of an existing chart of n points,
// right-aligning them so the last value lands on the last x.
func Overlay(values []float64, n int, high, low, width, height, pad float64) []Point {
	if len(values) == 0 || n < len(values) {
		return nil
	}
	step := 0.0
	if n > 1 {
		step = width / float64(n-1)
	}
	offset := n - len(values)
	pts := make([]Point, len(values))
	for i, v := range values {
		pos, err := Position(v, high, low)
		if err != nil {
			pos = 0.5
		}
		pts[i] = Point{
			X: float64(offset+i) * step,
			Y: pad + (1-pos)*(height-2*pad),
		}
	}
	return pts
}

// Polyline renders points as an SVG points attribute.
func Polyline(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// Area closes the polyline along the bottom edge for a filled chart.
func Area(pts []Point, width, height float64) string {
	if len(pts) == 0 {
		return ""
	}
	closed := append(append([]Point{}, pts...), Point{width, height}, Point{0, height})
	return Polyline(closed)
}
