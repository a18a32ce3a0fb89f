package report

import (
	"github.com/shakfu/pkgdb/pkg/chart"
	"github.com/shakfu/pkgdb/pkg/pypistats"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// Package renders the single-package report: stat cards for the latest
// snapshot, a download history line chart, and environment breakdown pies
// when an environment summary is provided.
func Package(latest stats.WithGrowth, history []stats.Snapshot, env *pypistats.EnvSummary, opts Options) string {
	if opts.Title == "" {
		opts.Title = latest.Package + " Download Statistics"
	}
	cfg := chartConfig(opts)

	points := make([]stats.TimePoint, 0, len(history))
	for _, snap := range history {
		points = append(points, stats.TimePoint{Date: snap.Date, Value: snap.LastMonth})
	}

	sections := []string{
		packageCards(latest),
		chartSection("Downloads Last Month Over Time", chart.Line(points, cfg)),
	}
	if env != nil {
		sections = append(sections,
			envChartSection("Python Versions", chart.Pie(breakdownSeries(env.PythonMinor), "python", cfg),
				"Python version data not available"),
			envChartSection("Operating Systems", chart.Pie(breakdownSeries(env.System), "system", cfg),
				"OS data not available"),
		)
	}
	return page(opts, sections...)
}

func packageCards(latest stats.WithGrowth) string {
	items := []cardData{
		{Label: "Last Day", Value: stats.FormatCount(latest.LastDay)},
		{Label: "Last Week", Value: stats.FormatCount(latest.LastWeek)},
		{Label: "Last Month", Value: stats.FormatCount(latest.LastMonth)},
		{Label: "Total", Value: stats.FormatCount(latest.Total)},
	}
	return cards(items)
}
