package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/shakfu/pkgdb/pkg/chart"
	"github.com/shakfu/pkgdb/pkg/pypistats"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// Aggregate renders the all-packages report: a ranked statistics table,
// bar charts for total, monthly, and daily downloads, a download trend
// chart when enough history exists, and environment breakdown pies when an
// environment summary is provided.
func Aggregate(rows []stats.WithGrowth, history map[string][]stats.TimePoint, env *pypistats.EnvSummary, opts Options) string {
	if opts.Title == "" {
		opts.Title = "Package Download Statistics"
	}
	cfg := chartConfig(opts)

	sections := []string{
		summaryCards(rows),
		rankedTable(rows),
		chartSection("Total Downloads", chart.Bar(seriesOf(rows, func(s stats.Snapshot) int { return s.Total }), "total", cfg)),
		chartSection("Downloads Last Month", chart.Bar(seriesOf(rows, func(s stats.Snapshot) int { return s.LastMonth }), "month", cfg)),
		chartSection("Downloads Last Day", chart.Bar(seriesOf(rows, func(s stats.Snapshot) int { return s.LastDay }), "day", cfg)),
		chartSection("Download Trend (Last Month)", chart.MultiLine(history, "trend", cfg)),
	}
	if env != nil {
		sections = append(sections,
			chartSection("Python Versions", chart.Pie(breakdownSeries(env.PythonMinor), "python", cfg)),
			chartSection("Operating Systems", chart.Pie(breakdownSeries(env.System), "system", cfg)),
		)
	}
	return page(opts, sections...)
}

func chartConfig(opts Options) chart.Config {
	cfg := chart.DefaultConfig()
	if opts.PieMaxItems > 0 {
		cfg.PieMaxItems = opts.PieMaxItems
	}
	if opts.MaxSeries > 0 {
		cfg.MaxSeries = opts.MaxSeries
	}
	return cfg
}

// seriesOf projects one snapshot field into a bar chart series, sorted
// descending by value.
func seriesOf(rows []stats.WithGrowth, value func(stats.Snapshot) int) []stats.SeriesPoint {
	series := make([]stats.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		series = append(series, stats.SeriesPoint{Label: row.Package, Value: value(row.Snapshot)})
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Value > series[j].Value })
	return series
}

func breakdownSeries(breakdown []stats.Breakdown) []stats.SeriesPoint {
	series := make([]stats.SeriesPoint, 0, len(breakdown))
	for _, b := range breakdown {
		series = append(series, stats.SeriesPoint{Label: b.Category, Value: b.Downloads})
	}
	return series
}

func summaryCards(rows []stats.WithGrowth) string {
	var totalAll, monthAll int
	for _, row := range rows {
		totalAll += row.Total
		monthAll += row.LastMonth
	}
	return cards([]cardData{
		{Label: "Packages", Value: stats.FormatNumber(len(rows))},
		{Label: "Total Downloads", Value: stats.FormatCount(totalAll)},
		{Label: "Last Month", Value: stats.FormatCount(monthAll)},
	})
}

func rankedTable(rows []stats.WithGrowth) string {
	if len(rows) == 0 {
		return "<p>No packages tracked. Add packages and fetch statistics first.</p>"
	}

	var b strings.Builder
	b.WriteString("<h2>Packages</h2>\n<table>\n<thead><tr>")
	for _, h := range []string{"#", "Package", "Last Day", "Last Week", "Last Month", "Total", "WoW", "MoM"} {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead>\n<tbody>\n")

	for i, row := range rows {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td>", i+1, html.EscapeString(row.Package))
		for _, n := range []int{row.LastDay, row.LastWeek, row.LastMonth, row.Total} {
			fmt.Fprintf(&b, `<td class="num">%s</td>`, stats.FormatNumber(n))
		}
		b.WriteString(growthCell(row.WeekGrowth))
		b.WriteString(growthCell(row.MonthGrowth))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}

type cardData struct {
	Label string
	Value string
}

func cards(items []cardData) string {
	var b strings.Builder
	b.WriteString(`<div class="cards">`)
	for _, c := range items {
		fmt.Fprintf(&b, `<div class="card"><div class="value">%s</div><div class="label">%s</div></div>`,
			html.EscapeString(c.Value), html.EscapeString(c.Label))
	}
	b.WriteString("</div>")
	return b.String()
}
