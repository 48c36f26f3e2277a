package calculator

import (
	"math"
	"testing"
)

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.5 {
		t.Errorf("SMA = %v, want 3.5", got)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestSMASeries(t *testing.T) {
	got, err := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("series[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRangeAndPosition(t *testing.T) {
	h, l, err := Range([]float64{9, 1, 5, 7}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if h != 7 || l != 5 {
		t.Errorf("window range = %v/%v, want 7/5", h, l)
	}
	if _, _, err := Range(nil, 0); err == nil {
		t.Error("expected error for empty input")
	}

	pos, _ := Position(6, 7, 5)
	if pos != 0.5 {
		t.Errorf("position = %v", pos)
	}
	if pos, _ := Position(100, 7, 5); pos != 1 {
		t.Errorf("clamped position = %v", pos)
	}
	if _, err := Position(1, 1, 2); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestChangePercent(t *testing.T) {
	got, err := ChangePercent([]float64{100, 90, 110})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("change = %v", got)
	}
}

func TestScale(t *testing.T) {
	pts := Scale([]float64{0, 10, 5}, 200, 100, 10)
	if len(pts) != 3 {
		t.Fatalf("len = %d", len(pts))
	}
	if pts[0].X != 0 || pts[2].X != 200 {
		t.Errorf("x bounds = %v, %v", pts[0].X, pts[2].X)
	}
	if pts[0].Y != 90 || pts[1].Y != 10 || pts[2].Y != 50 {
		t.Errorf("y = %v %v %v", pts[0].Y, pts[1].Y, pts[2].Y)
	}

	flat := Scale([]float64{3, 3}, 10, 10, 0)
	if flat[0].Y != 5 {
		t.Errorf("flat series y = %v, want mid-height", flat[0].Y)
	}
}

func TestOverlay(t *testing.T) {
	pts := Overlay([]float64{5}, 3, 10, 0, 200, 100, 10)
	if len(pts) != 1 || pts[0].X != 200 || pts[0].Y != 50 {
		t.Errorf("overlay = %v", pts)
	}
	if Overlay([]float64{1, 2, 3}, 2, 3, 1, 10, 10, 0) != nil {
		t.Error("expected nil when the overlay is longer than the chart")
	}
}

func TestDecorativeSeries(t *testing.T) {
	s := DecorativeSeries(60, func() float64 { return 0 })
	if len(s) != 60 || s[0] != 30 {
		t.Errorf("unexpected series head %v (len %d)", s[0], len(s))
	}
}
