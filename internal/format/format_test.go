package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		n    float64
		dec  int
		want string
	}{
		{8000000, 6, "8,000,000"},
		{1234.5678, 2, "1,234.57"},
		{-1234.5, 2, "-1,234.5"},
		{0.1, 2, "0.1"},
		{999, 0, "999"},
	}
	for _, tt := range tests {
		if got := Number(tt.n, tt.dec); got != tt.want {
			t.Errorf("Number(%v, %d) = %q, want %q", tt.n, tt.dec, got, tt.want)
		}
	}
}

func TestDecimal(t *testing.T) {
	d := decimal.RequireFromString("1200.123456")
	if got := Decimal(d, 2); got != "1,200.12" {
		t.Errorf("Decimal = %q", got)
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{1500, "1.5k"},
		{2_000_000, "2.00M"},
		{3_100_000_000, "3.10B"},
		{12.346, "12.35"},
	}
	for _, tt := range tests {
		if got := Compact(tt.n); got != tt.want {
			t.Errorf("Compact(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestShortHash(t *testing.T) {
	if got := ShortHash("", 10); got != "" {
		t.Errorf("empty: got %q", got)
	}
	if got := ShortHash("0x1234567890abcdef", 10); got != "0x12345678…abcdef" {
		t.Errorf("long: got %q", got)
	}
	if got := ShortHash("0xab", 10); got != "0xab…0xab" {
		t.Errorf("short: got %q", got)
	}
}

func TestISOTime(t *testing.T) {
	ms := time.Date(2024, 3, 5, 7, 8, 9, 123_000_000, time.UTC).UnixMilli()
	if got := ISOTime(ms); got != "2024-03-05T07:08:09.123Z" {
		t.Errorf("ISOTime = %q", got)
	}
}

func TestChange(t *testing.T) {
	if got := Change(2.4); got != "▲ 2.40%" {
		t.Errorf("up: %q", got)
	}
	if got := Change(-1.234); got != "▼ 1.23%" {
		t.Errorf("down: %q", got)
	}
}

func TestAgo(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	got := Ago(now.Add(-3*time.Hour).UnixMilli(), now)
	if got != "3 hours ago" {
		t.Errorf("Ago = %q", got)
	}
}
