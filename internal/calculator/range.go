package calculator

import (
	"errors"
	"math"
)

// Range returns the high and low of the most recent window values (all when window <= 0).
func Range(values []float64, window int) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	start := 0
	if window > 0 && len(values) > window {
		start = len(values) - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values[start:] {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// Position returns where current sits within [low, high] (0.0~1.0).
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// ChangePercent is the percentage move from the first to the last value.
func ChangePercent(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.New("need at least two values")
	}
	first := values[0]
	if first == 0 {
		return 0, errors.New("first value is zero")
	}
	return (values[len(values)-1] - first) / first * 100, nil
}
