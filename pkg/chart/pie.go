package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/shakfu/pkgdb/pkg/stats"
)

const pieLegendWidth = 150

// Pie renders a pie chart with a legend. When the series exceeds
// cfg.PieMaxItems the remainder is folded into an "Other" slice. A zero total
// yields the "no data" sentinel instead of a chart; an empty series yields an
// empty document. Slices start at 12 o'clock and proceed clockwise; a single
// non-zero slice is drawn as a full circle.
func Pie(data []stats.SeriesPoint, id string, cfg Config) string {
	if len(data) == 0 {
		return ""
	}

	total := 0
	for _, p := range data {
		total += p.Value
	}
	if total == 0 {
		return noDataMessage
	}

	data = stats.TopWithOther(data, cfg.PieMaxItems, "Other")

	size := cfg.PieSize
	cx, cy := size/2, size/2
	radius := size/2 - 10
	totalWidth := size + pieLegendWidth

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg id="%s" viewBox="0 0 %d %d" style="width:100%%;max-width:%dpx;height:auto;font-family:system-ui,sans-serif;font-size:11px;">`+"\n",
		id, totalWidth, size, totalWidth)

	startAngle := 0.0
	for i, p := range data {
		if p.Value == 0 {
			continue
		}
		pct := float64(p.Value) / float64(total)
		color := sliceColor(i, len(data))

		// A lone slice would start and end at the same point, collapsing
		// the arc. Draw a full circle instead.
		if p.Value == total {
			fmt.Fprintf(&buf, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`+"\n",
				cx, cy, radius, color)
			writePieLegend(&buf, size, i, p.Label, pct, color)
			break
		}

		angle := pct * 360
		endAngle := startAngle + angle

		// Rotate -90° so 0° sits at 12 o'clock.
		startRad := (startAngle - 90) * math.Pi / 180
		endRad := (endAngle - 90) * math.Pi / 180

		x1 := float64(cx) + float64(radius)*math.Cos(startRad)
		y1 := float64(cy) + float64(radius)*math.Sin(startRad)
		x2 := float64(cx) + float64(radius)*math.Cos(endRad)
		y2 := float64(cy) + float64(radius)*math.Sin(endRad)

		largeArc := 0
		if angle > 180 {
			largeArc = 1
		}

		fmt.Fprintf(&buf, `<path d="M %d %d L %.1f %.1f A %d %d 0 %d 1 %.1f %.1f Z" fill="%s"/>`+"\n",
			cx, cy, x1, y1, radius, radius, largeArc, x2, y2, color)
		writePieLegend(&buf, size, i, p.Label, pct, color)

		startAngle = endAngle
	}

	buf.WriteString("</svg>")
	return buf.String()
}

func writePieLegend(buf *bytes.Buffer, size, i int, label string, pct float64, color string) {
	ly := 20 + i*25
	fmt.Fprintf(buf, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`+"\n",
		size+10, ly-8, color)
	fmt.Fprintf(buf, `<text x="%d" y="%d" fill="#333">%s (%.1f%%)</text>`+"\n",
		size+28, ly, escape(label), pct*100)
}
