package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shakfu/pkgdb/pkg/stats"
)

// lineColor is the default stroke for single-series line charts.
const lineColor = "hsl(200, 70%, 50%)"

type lineMargins struct {
	top, right, bottom, left int
}

// Line renders a single time series as a polyline. Points must be sorted
// ascending by date. X positions are evenly spaced by index, not by date
// delta, so irregular fetch gaps do not distort the line. Fewer than two
// points yields an empty document.
func Line(points []stats.TimePoint, cfg Config) string {
	if len(points) < 2 {
		return ""
	}

	m := lineMargins{top: 20, right: 20, bottom: 40, left: 80}
	plotWidth := float64(cfg.LineWidth - m.left - m.right)
	plotHeight := float64(cfg.LineHeight - m.top - m.bottom)

	maxVal := 0
	for _, p := range points {
		maxVal = max(maxVal, p.Value)
	}
	denom := max(maxVal, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg viewBox="0 0 %d %d" style="width:100%%;max-width:%dpx;height:auto;font-family:system-ui,sans-serif;font-size:11px;">`+"\n",
		cfg.LineWidth, cfg.LineHeight, cfg.LineWidth)

	writeGridlines(&buf, m, cfg.LineWidth, plotHeight, maxVal)

	// X-axis labels at first, middle, last.
	for _, idx := range []int{0, len(points) / 2, len(points) - 1} {
		x := float64(m.left) + float64(idx)/float64(len(points)-1)*plotWidth
		fmt.Fprintf(&buf, `<text x="%.1f" y="%d" text-anchor="middle" fill="#666">%s</text>`+"\n",
			x, cfg.LineHeight-10, escape(points[idx].Date))
	}

	coords := make([]string, len(points))
	for i, p := range points {
		x := float64(m.left) + float64(i)/float64(len(points)-1)*plotWidth
		y := float64(m.top) + plotHeight - float64(p.Value)/float64(denom)*plotHeight
		coords[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	fmt.Fprintf(&buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		strings.Join(coords, " "), lineColor)

	buf.WriteString("</svg>")
	return buf.String()
}

// writeGridlines draws five evenly spaced horizontal gridlines from max down
// to zero, each with its value label.
func writeGridlines(buf *bytes.Buffer, m lineMargins, chartWidth int, plotHeight float64, maxVal int) {
	denom := max(maxVal, 1)
	for i := range 5 {
		val := float64(denom) * float64(4-i) / 4
		y := float64(m.top) + float64(i)*plotHeight/4
		fmt.Fprintf(buf, `<text x="%d" y="%.1f" text-anchor="end" fill="#666">%s</text>`+"\n",
			m.left-8, y+4, stats.FormatNumber(int(val)))
		fmt.Fprintf(buf, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#eee" stroke-width="1"/>`+"\n",
			m.left, y, chartWidth-m.right, y)
	}
}
