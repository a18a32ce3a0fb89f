package chart

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/shakfu/pkgdb/pkg/stats"
)

// MultiLine renders several packages' time series against a merged date axis.
// The top cfg.MaxSeries packages by their own maximum value are drawn, each
// as one polyline positioned at the merged date indices; packages missing a
// date simply have fewer points, no interpolation is done. Returns an empty
// document for empty history and a placeholder message when fewer than two
// distinct dates exist.
func MultiLine(history map[string][]stats.TimePoint, id string, cfg Config) string {
	if len(history) == 0 {
		return ""
	}

	dates := stats.MergeDates(history)
	if len(dates) == 0 {
		return ""
	}
	if len(dates) < 2 {
		return notEnoughHistoryMessage
	}

	m := lineMargins{top: 20, right: 120, bottom: 40, left: 80}
	plotWidth := float64(cfg.MultiWidth - m.left - m.right)
	plotHeight := float64(cfg.MultiHeight - m.top - m.bottom)

	maxVal := 0
	for _, points := range history {
		for _, p := range points {
			maxVal = max(maxVal, p.Value)
		}
	}
	denom := max(maxVal, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg id="%s" viewBox="0 0 %d %d" style="width:100%%;max-width:%dpx;height:auto;font-family:system-ui,sans-serif;font-size:11px;">`+"\n",
		id, cfg.MultiWidth, cfg.MultiHeight, cfg.MultiWidth)

	// Axes.
	fmt.Fprintf(&buf, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#ccc" stroke-width="1"/>`+"\n",
		m.left, m.top, m.left, cfg.MultiHeight-m.bottom)
	fmt.Fprintf(&buf, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#ccc" stroke-width="1"/>`+"\n",
		m.left, cfg.MultiHeight-m.bottom, cfg.MultiWidth-m.right, cfg.MultiHeight-m.bottom)

	writeGridlines(&buf, m, cfg.MultiWidth, plotHeight, maxVal)

	// X-axis labels at first, middle, last merged dates.
	for _, idx := range []int{0, len(dates) / 2, len(dates) - 1} {
		x := float64(m.left) + float64(idx)/float64(len(dates)-1)*plotWidth
		fmt.Fprintf(&buf, `<text x="%.1f" y="%d" text-anchor="middle" fill="#666">%s</text>`+"\n",
			x, cfg.MultiHeight-m.bottom+16, escape(dates[idx]))
	}

	dateIndex := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIndex[d] = i
	}

	selected := stats.RankByMax(history, cfg.MaxSeries)
	for si, pkg := range selected {
		points := slices.Clone(history[pkg])
		slices.SortFunc(points, func(a, b stats.TimePoint) int {
			return strings.Compare(a.Date, b.Date)
		})

		color := sliceColor(si, len(selected))
		coords := make([]string, 0, len(points))
		var lastY float64
		for _, p := range points {
			x := float64(m.left) + float64(dateIndex[p.Date])/float64(len(dates)-1)*plotWidth
			y := float64(m.top) + plotHeight - float64(p.Value)/float64(denom)*plotHeight
			coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
			lastY = y
		}
		if len(coords) == 0 {
			continue
		}

		fmt.Fprintf(&buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			strings.Join(coords, " "), color)

		// Series label at the right edge, next to the last point's level.
		labelX := float64(m.left) + plotWidth
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
			labelX+8, lastY+4, color, escape(pkg))
	}

	buf.WriteString("</svg>")
	return buf.String()
}
