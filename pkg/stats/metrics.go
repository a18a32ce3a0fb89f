package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SparklineWidth is the default number of characters in a sparkline.
const SparklineWidth = 7

// sparklineGlyphs are the intensity glyphs used by Sparkline, low to high.
const sparklineGlyphs = " _.,:-=+*#"

// FormatCount formats a download count with a K/M/B suffix and one decimal
// place, e.g. 1234567 -> "1.2M". Values below 1000 are returned as plain
// integers. Ties at the .x5 boundary round half-up.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", roundHalfUp1(float64(n)/1_000_000_000))
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", roundHalfUp1(float64(n)/1_000_000))
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", roundHalfUp1(float64(n)/1_000))
	default:
		return strconv.Itoa(n)
	}
}

// roundHalfUp1 rounds to one decimal place with half-up tie-breaking.
func roundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// FormatNumber adds comma separators to an integer, e.g. 1234567 -> "1,234,567".
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		b.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Growth returns the percentage change from previous to current. It returns
// nil when previous is nil or zero, or when current is nil; comparing against
// absent or zero prior data yields no meaningful growth figure. Negative
// growth is preserved.
func Growth(current, previous *int) *float64 {
	if previous == nil || *previous == 0 || current == nil {
		return nil
	}
	g := float64(*current-*previous) / float64(*previous) * 100
	return &g
}

// GrowthOf is Growth for known-present values; a zero previous still yields nil.
func GrowthOf(current, previous int) *float64 {
	return Growth(&current, &previous)
}

// Sparkline renders values as a fixed-width string of intensity glyphs. Only
// the last width values are used; shorter inputs are left-padded with zeros.
// Each value maps onto one of ten glyphs by linear interpolation between the
// series minimum and maximum. A flat series renders the middle glyph.
func Sparkline(values []int, width int) string {
	if width <= 0 {
		width = SparklineWidth
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	if len(values) > width {
		values = values[len(values)-width:]
	} else if len(values) < width {
		padded := make([]int, width)
		copy(padded[width-len(values):], values)
		values = padded
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}

	if maxVal == minVal {
		mid := len(sparklineGlyphs) / 2
		return strings.Repeat(string(sparklineGlyphs[mid]), width)
	}

	var b strings.Builder
	b.Grow(width)
	for _, v := range values {
		idx := (v - minVal) * (len(sparklineGlyphs) - 1) / (maxVal - minVal)
		b.WriteByte(sparklineGlyphs[idx])
	}
	return b.String()
}
