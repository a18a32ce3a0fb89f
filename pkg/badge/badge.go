// Package badge renders shields-style SVG badges for download counts.
//
// A badge is two adjoining segments: a gray label on the left and a colored
// value on the right. Rendering is deterministic; identical inputs always
// produce identical markup.
package badge

import (
	"bytes"
	"fmt"
	"html"

	"github.com/shakfu/pkgdb/pkg/stats"
)

const (
	fontSize = 11
	padding  = 6
	height   = 20

	defaultLabelColor = "#555"
)

// Colors maps named color schemes to hex values.
var Colors = map[string]string{
	"green":       "#4c1",
	"brightgreen": "#44cc11",
	"blue":        "#007ec6",
	"lightblue":   "#5bc0de",
	"orange":      "#fe7d37",
	"red":         "#e05d44",
	"yellow":      "#dfb317",
	"gray":        "#9f9f9f",
}

// Period identifies which download window a badge describes.
type Period string

// Valid badge periods.
const (
	PeriodTotal Period = "total"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
	PeriodDay   Period = "day"
)

var periodLabels = map[Period]string{
	PeriodTotal: "downloads",
	PeriodMonth: "downloads/month",
	PeriodWeek:  "downloads/week",
	PeriodDay:   "downloads/day",
}

// Render produces an SVG badge with the given label and value text. The value
// segment uses color; the label segment is always neutral gray. Segment
// widths are estimated from character count with a monospace approximation.
func Render(label, value, color string) string {
	labelWidth := textWidth(label) + padding*2
	valueWidth := textWidth(value) + padding*2
	totalWidth := labelWidth + valueWidth

	labelX := float64(labelWidth) / 2
	valueX := float64(labelWidth) + float64(valueWidth)/2

	label = html.EscapeString(label)
	value = html.EscapeString(value)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", totalWidth, height)
	buf.WriteString(`  <linearGradient id="smooth" x2="0" y2="100%">` + "\n")
	buf.WriteString(`    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>` + "\n")
	buf.WriteString(`    <stop offset="1" stop-opacity=".1"/>` + "\n")
	buf.WriteString(`  </linearGradient>` + "\n")
	buf.WriteString(`  <clipPath id="round">` + "\n")
	fmt.Fprintf(&buf, `    <rect width="%d" height="%d" rx="3" fill="#fff"/>`+"\n", totalWidth, height)
	buf.WriteString(`  </clipPath>` + "\n")
	buf.WriteString(`  <g clip-path="url(#round)">` + "\n")
	fmt.Fprintf(&buf, `    <rect width="%d" height="%d" fill="%s"/>`+"\n", labelWidth, height, defaultLabelColor)
	fmt.Fprintf(&buf, `    <rect x="%d" width="%d" height="%d" fill="%s"/>`+"\n", labelWidth, valueWidth, height, color)
	fmt.Fprintf(&buf, `    <rect width="%d" height="%d" fill="url(#smooth)"/>`+"\n", totalWidth, height)
	buf.WriteString(`  </g>` + "\n")
	fmt.Fprintf(&buf, `  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="%d">`+"\n", fontSize)
	fmt.Fprintf(&buf, `    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>`+"\n", labelX, label)
	fmt.Fprintf(&buf, `    <text x="%.1f" y="14" fill="#fff">%s</text>`+"\n", labelX, label)
	fmt.Fprintf(&buf, `    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>`+"\n", valueX, value)
	fmt.Fprintf(&buf, `    <text x="%.1f" y="14" fill="#fff">%s</text>`+"\n", valueX, value)
	buf.WriteString(`</g>` + "\n")
	buf.WriteString(`</svg>`)
	return buf.String()
}

// ForCount renders a downloads badge for count over the given period. When
// color is empty, a tier is auto-selected by magnitude: one million or more
// downloads gets the brightest green, descending through green, blue, and
// light blue to neutral gray under one thousand.
func ForCount(count int, period Period, color string) string {
	if color == "" {
		switch {
		case count >= 1_000_000:
			color = Colors["brightgreen"]
		case count >= 100_000:
			color = Colors["green"]
		case count >= 10_000:
			color = Colors["blue"]
		case count >= 1_000:
			color = Colors["lightblue"]
		default:
			color = Colors["gray"]
		}
	}

	label, ok := periodLabels[period]
	if !ok {
		label = periodLabels[PeriodTotal]
	}
	return Render(label, stats.FormatCount(count), color)
}

// textWidth estimates rendered text width in pixels. Average character width
// for DejaVu Sans at 11px is roughly 0.65 of the font size.
func textWidth(text string) int {
	return int(float64(len(text)) * 0.65 * fontSize)
}
