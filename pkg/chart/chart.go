// Package chart renders numeric and time series as standalone SVG fragments.
//
// All functions are pure: they take fully-resolved series and return markup
// strings without touching the network or filesystem. Degenerate inputs
// (empty series, zero totals, fewer than two points) produce defined empty or
// placeholder output instead of errors, so report assembly never fails on a
// missing section.
package chart

import (
	"fmt"
	"html"
)

// Config carries chart dimensions and limits. It is constructed once by the
// caller and passed down explicitly; the zero value is unusable, use
// DefaultConfig.
type Config struct {
	BarWidth    int // overall bar chart width
	LineWidth   int // single-series line chart width
	LineHeight  int // single-series line chart height
	MultiWidth  int // multi-series line chart width
	MultiHeight int // multi-series line chart height
	PieSize     int // pie diameter, excluding legend
	PieMaxItems int // max pie slices before folding into "Other"
	MaxSeries   int // max polylines in a multi-series chart
}

// DefaultConfig returns the standard chart dimensions.
func DefaultConfig() Config {
	return Config{
		BarWidth:    700,
		LineWidth:   600,
		LineHeight:  200,
		MultiWidth:  700,
		MultiHeight: 300,
		PieSize:     220,
		PieMaxItems: 6,
		MaxSeries:   5,
	}
}

// noDataMessage is the sentinel returned instead of a chart when a series has
// no renderable data.
const noDataMessage = "<p>No data available.</p>"

// notEnoughHistoryMessage is returned when a time-series chart has fewer than
// two distinct dates.
const notEnoughHistoryMessage = "<p>Not enough historical data for time-series chart.</p>"

// sliceColor assigns slice i of n a distinct hue by even rotation around the
// color wheel.
func sliceColor(i, n int) string {
	if n <= 0 {
		n = 1
	}
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", (i*360/n)%360)
}

// escape sanitizes label text for embedding in SVG markup.
func escape(s string) string {
	return html.EscapeString(s)
}
