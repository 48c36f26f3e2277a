// Package format renders numbers, hashes and timestamps for display.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Number formats n with thousands separators and at most dec fractional digits.
func Number(n float64, dec int) string {
	if dec < 0 {
		dec = 0
	}
	p := math.Pow(10, float64(dec))
	return humanize.CommafWithDigits(math.Round(n*p)/p, dec)
}

// Decimal is Number for decimal amounts.
func Decimal(d decimal.Decimal, dec int) string {
	return Number(d.Round(int32(dec)).InexactFloat64(), dec)
}

// Compact abbreviates large values: 1.50k, 2.00M, 3.10B.
func Compact(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fk", n/1e3)
	}
	return Number(n, 2)
}

// ShortHash keeps the first n and last 6 characters of s.
func ShortHash(s string, n int) string {
	if s == "" {
		return ""
	}
	head := s
	if n < len(s) {
		head = s[:n]
	}
	tail := s
	if len(s) > 6 {
		tail = s[len(s)-6:]
	}
	return head + "…" + tail
}

// ISOTime renders epoch milliseconds as an ISO-8601 UTC timestamp.
func ISOTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// LocalTime renders epoch milliseconds in the server's local zone.
func LocalTime(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}

// Ago renders the distance between ms and now, e.g. "3 hours ago".
func Ago(ms int64, now time.Time) string {
	return humanize.RelTime(time.UnixMilli(ms), now, "ago", "from now")
}

// Change renders a 24h change with its direction arrow.
func Change(pct float64) string {
	arrow := "▲"
	if pct < 0 {
		arrow = "▼"
	}
	return fmt.Sprintf("%s %.2f%%", arrow, math.Abs(pct))
}

// USD renders a dollar amount with two decimals.
func USD(n float64) string {
	return "$" + Number(n, 2)
}
