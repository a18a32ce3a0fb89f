package chart

import (
	"bytes"
	"fmt"

	"github.com/shakfu/pkgdb/pkg/stats"
)

const (
	barHeight     = 28
	barGap        = 6
	barLabelWidth = 160
	barValueWidth = 80
)

// Bar renders a horizontal bar chart. Bars are drawn in series order with
// lengths proportional to the series maximum; a zero maximum renders
// zero-length bars. An empty series yields an empty document.
func Bar(series []stats.SeriesPoint, id string, cfg Config) string {
	if len(series) == 0 {
		return ""
	}

	maxVal := 0
	for _, p := range series {
		maxVal = max(maxVal, p.Value)
	}

	chartWidth := cfg.BarWidth
	barAreaWidth := chartWidth - barLabelWidth - barValueWidth
	chartHeight := len(series)*(barHeight+barGap) + 20

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg id="%s" viewBox="0 0 %d %d" style="width:100%%;max-width:%dpx;height:auto;font-family:system-ui,sans-serif;font-size:12px;">`+"\n",
		id, chartWidth, chartHeight, chartWidth)

	for i, p := range series {
		y := i*(barHeight+barGap) + 10
		barWidth := 0.0
		if maxVal > 0 {
			barWidth = float64(p.Value) / float64(maxVal) * float64(barAreaWidth)
		}

		fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="end" fill="#333">%s</text>`+"\n",
			barLabelWidth-8, y+barHeight/2+4, escape(p.Label))
		fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s" rx="3"/>`+"\n",
			barLabelWidth, y, barWidth, barHeight, sliceColor(i, len(series)))
		fmt.Fprintf(&buf, `<text x="%d" y="%d" fill="#666">%s</text>`+"\n",
			barLabelWidth+barAreaWidth+8, y+barHeight/2+4, stats.FormatNumber(p.Value))
	}

	buf.WriteString("</svg>")
	return buf.String()
}
