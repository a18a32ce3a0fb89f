// Package report assembles self-contained HTML reports from stored
// statistics, with charts rendered inline as SVG.
package report

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Now returns the timestamp stamped into report footers. Tests override it
// for deterministic output.
var Now = time.Now

// Options controls report appearance.
type Options struct {
	Title       string
	ThemeColor  string
	PieMaxItems int
	MaxSeries   int
}

// page wraps body sections into a complete HTML document.
func page(opts Options, sections ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(opts.Title))
	fmt.Fprintf(&b, "<style>%s</style>\n", styleSheet(opts.ThemeColor))
	b.WriteString("</head>\n<body>\n<div class=\"container\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(opts.Title))

	for _, s := range sections {
		if s != "" {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "<footer>Generated %s</footer>\n",
		Now().UTC().Format("2006-01-02 15:04 UTC"))
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

func styleSheet(themeColor string) string {
	return fmt.Sprintf(`
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; background: #f6f8fa; color: #24292f; }
.container { max-width: 900px; margin: 0 auto; padding: 2rem 1rem; }
h1 { border-bottom: 3px solid %[1]s; padding-bottom: 0.4rem; }
h2 { color: %[1]s; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%%; background: #fff; }
th, td { padding: 0.5rem 0.75rem; text-align: left; border-bottom: 1px solid #d0d7de; }
th { background: %[1]s; color: #fff; }
tr:hover td { background: #f0f4f8; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1rem 0; }
.card { background: #fff; border: 1px solid #d0d7de; border-radius: 6px; padding: 1rem 1.5rem; flex: 1; min-width: 140px; }
.card .value { font-size: 1.6rem; font-weight: 600; color: %[1]s; }
.card .label { font-size: 0.8rem; color: #57606a; text-transform: uppercase; }
.chart { background: #fff; border: 1px solid #d0d7de; border-radius: 6px; padding: 1rem; margin: 1rem 0; overflow-x: auto; }
p.no-data { color: #57606a; font-style: italic; }
.growth-up { color: #1a7f37; }
.growth-down { color: #cf222e; }
footer { margin-top: 3rem; font-size: 0.8rem; color: #57606a; }
`, themeColor)
}

// growthCell formats a growth percentage as a colored table cell.
func growthCell(growth *float64) string {
	if growth == nil {
		return `<td class="num">&mdash;</td>`
	}
	class := "growth-up"
	sign := "+"
	if *growth < 0 {
		class = "growth-down"
		sign = ""
	}
	return fmt.Sprintf(`<td class="num %s">%s%.1f%%</td>`, class, sign, *growth)
}

func chartSection(title, svg string) string {
	if svg == "" {
		return ""
	}
	return fmt.Sprintf("<h2>%s</h2>\n<div class=\"chart\">%s</div>",
		html.EscapeString(title), svg)
}

// envChartSection keeps the heading when an environment chart has no data,
// replacing the chart with a short note.
func envChartSection(title, svg, note string) string {
	if svg == "" {
		return fmt.Sprintf("<h2>%s</h2>\n<p class=\"no-data\">%s</p>",
			html.EscapeString(title), html.EscapeString(note))
	}
	return chartSection(title, svg)
}
