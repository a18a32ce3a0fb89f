package chart

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/shakfu/pkgdb/pkg/stats"
)

func TestBar(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("empty series yields empty document", func(t *testing.T) {
		if got := Bar(nil, "chart", cfg); got != "" {
			t.Errorf("Bar(nil) = %q, want empty", got)
		}
	})

	t.Run("renders one bar per point", func(t *testing.T) {
		series := []stats.SeriesPoint{{Label: "requests", Value: 900}, {Label: "flask", Value: 450}, {Label: "click", Value: 0}}
		got := Bar(series, "totals-chart", cfg)
		if n := strings.Count(got, "<rect"); n != 3 {
			t.Errorf("got %d rects, want 3", n)
		}
		if !strings.Contains(got, `id="totals-chart"`) {
			t.Error("missing chart id")
		}
	})

	t.Run("bar lengths proportional to max", func(t *testing.T) {
		series := []stats.SeriesPoint{{Label: "a", Value: 100}, {Label: "b", Value: 50}}
		got := Bar(series, "c", cfg)
		widths := rectWidths(t, got)
		if len(widths) != 2 {
			t.Fatalf("got %d bar widths, want 2", len(widths))
		}
		if math.Abs(widths[0]-2*widths[1]) > 0.2 {
			t.Errorf("expected first bar twice as long: %v", widths)
		}
	})

	t.Run("all-zero values render zero-length bars", func(t *testing.T) {
		series := []stats.SeriesPoint{{Label: "a", Value: 0}, {Label: "b", Value: 0}}
		got := Bar(series, "c", cfg)
		for _, w := range rectWidths(t, got) {
			if w != 0 {
				t.Errorf("expected zero-length bars, got %v", w)
			}
		}
	})
}

func TestLine(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("single point yields empty document", func(t *testing.T) {
		if got := Line([]stats.TimePoint{{Date: "2024-01-01", Value: 5}}, cfg); got != "" {
			t.Errorf("Line(1 point) = %q, want empty", got)
		}
	})

	t.Run("one polyline with point count equal to input", func(t *testing.T) {
		points := []stats.TimePoint{
			{Date: "2024-01-01", Value: 100}, {Date: "2024-01-02", Value: 150}, {Date: "2024-01-03", Value: 225},
		}
		got := Line(points, cfg)
		if n := strings.Count(got, "<polyline"); n != 1 {
			t.Fatalf("got %d polylines, want 1", n)
		}
		if n := len(polylinePoints(t, got)); n != 3 {
			t.Errorf("polyline has %d points, want 3", n)
		}
	})

	t.Run("points evenly spaced by index", func(t *testing.T) {
		points := []stats.TimePoint{
			{Date: "2024-01-01", Value: 100}, {Date: "2024-01-05", Value: 150}, {Date: "2024-01-06", Value: 225},
		}
		got := Line(points, cfg)
		coords := polylinePoints(t, got)

		// Plot area spans from the left margin to width minus right margin;
		// index spacing puts the middle point exactly halfway regardless of
		// the four-day gap.
		left, right := 80.0, float64(cfg.LineWidth)-20
		wantX := []float64{left, left + (right-left)/2, right}
		for i, c := range coords {
			if math.Abs(c.x-wantX[i]) > 0.11 {
				t.Errorf("point %d x = %v, want %v", i, c.x, wantX[i])
			}
		}
	})

	t.Run("draws five gridlines and three date labels", func(t *testing.T) {
		points := []stats.TimePoint{
			{Date: "2024-01-01", Value: 1}, {Date: "2024-01-02", Value: 2}, {Date: "2024-01-03", Value: 3},
			{Date: "2024-01-04", Value: 4}, {Date: "2024-01-05", Value: 5},
		}
		got := Line(points, cfg)
		if n := strings.Count(got, `stroke="#eee"`); n != 5 {
			t.Errorf("got %d gridlines, want 5", n)
		}
		for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-05"} {
			if !strings.Contains(got, d) {
				t.Errorf("missing x label %s", d)
			}
		}
		if strings.Contains(got, "2024-01-02") {
			t.Error("unexpected label for non-tick date")
		}
	})
}

func TestMultiLine(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("empty history yields empty document", func(t *testing.T) {
		if got := MultiLine(nil, "ts", cfg); got != "" {
			t.Errorf("MultiLine(nil) = %q", got)
		}
	})

	t.Run("single date yields placeholder", func(t *testing.T) {
		history := map[string][]stats.TimePoint{"a": {{Date: "2024-01-01", Value: 5}}}
		if got := MultiLine(history, "ts", cfg); got != notEnoughHistoryMessage {
			t.Errorf("got %q, want placeholder", got)
		}
	})

	t.Run("limits to top series by own maximum", func(t *testing.T) {
		history := map[string][]stats.TimePoint{}
		for i := range 8 {
			name := fmt.Sprintf("pkg%d", i)
			history[name] = []stats.TimePoint{
				{Date: "2024-01-01", Value: i * 10}, {Date: "2024-01-02", Value: i * 20},
			}
		}
		got := MultiLine(history, "ts", cfg)
		if n := strings.Count(got, "<polyline"); n != cfg.MaxSeries {
			t.Errorf("got %d polylines, want %d", n, cfg.MaxSeries)
		}
		// pkg7 has the biggest maximum, pkg0 never makes the cut.
		if !strings.Contains(got, ">pkg7<") {
			t.Error("expected pkg7 to be drawn")
		}
		if strings.Contains(got, ">pkg0<") {
			t.Error("pkg0 should be excluded")
		}
	})

	t.Run("missing dates shorten the polyline", func(t *testing.T) {
		history := map[string][]stats.TimePoint{
			"full":   {{Date: "2024-01-01", Value: 10}, {Date: "2024-01-02", Value: 20}, {Date: "2024-01-03", Value: 30}},
			"sparse": {{Date: "2024-01-01", Value: 5}, {Date: "2024-01-03", Value: 15}},
		}
		got := MultiLine(history, "ts", cfg)
		counts := []int{}
		for _, pl := range polylines(t, got) {
			counts = append(counts, len(pl))
		}
		if len(counts) != 2 || counts[0] != 3 || counts[1] != 2 {
			t.Errorf("polyline point counts = %v, want [3 2]", counts)
		}
	})
}

func TestPie(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("empty series yields empty document", func(t *testing.T) {
		if got := Pie(nil, "pie", cfg); got != "" {
			t.Errorf("Pie(nil) = %q", got)
		}
	})

	t.Run("zero total yields no-data sentinel", func(t *testing.T) {
		data := []stats.SeriesPoint{{Label: "a", Value: 0}, {Label: "b", Value: 0}}
		if got := Pie(data, "pie", cfg); got != noDataMessage {
			t.Errorf("got %q, want sentinel", got)
		}
	})

	t.Run("five items at max three yields Other slice", func(t *testing.T) {
		data := []stats.SeriesPoint{
			{Label: "3.12", Value: 50}, {Label: "3.11", Value: 40}, {Label: "3.10", Value: 30}, {Label: "3.9", Value: 20}, {Label: "3.8", Value: 10},
		}
		small := cfg
		small.PieMaxItems = 3
		got := Pie(data, "pie", small)
		if n := strings.Count(got, "<path"); n != 3 {
			t.Errorf("got %d slices, want 3", n)
		}
		if !strings.Contains(got, "Other") {
			t.Error("expected an Other slice")
		}
	})

	t.Run("slice angles sum to 360", func(t *testing.T) {
		data := []stats.SeriesPoint{{Label: "linux", Value: 7}, {Label: "darwin", Value: 3}, {Label: "windows", Value: 2}}
		total := 12.0
		sum := 0.0
		for _, p := range data {
			sum += float64(p.Value) / total * 360
		}
		if math.Abs(sum-360) > 1e-9 {
			t.Errorf("angles sum to %v, want 360", sum)
		}
		// And the rendered chart carries one slice per bucket.
		got := Pie(data, "pie", cfg)
		if n := strings.Count(got, "<path"); n != 3 {
			t.Errorf("got %d slices, want 3", n)
		}
	})

	t.Run("majority slice sets the large-arc flag", func(t *testing.T) {
		data := []stats.SeriesPoint{{Label: "linux", Value: 9}, {Label: "other", Value: 1}}
		got := Pie(data, "pie", cfg)
		if !regexp.MustCompile(`A \d+ \d+ 0 1 1`).MatchString(got) {
			t.Error("expected large-arc flag on >180 degree slice")
		}
	})

	t.Run("legend shows percentages", func(t *testing.T) {
		data := []stats.SeriesPoint{{Label: "linux", Value: 3}, {Label: "darwin", Value: 1}}
		got := Pie(data, "pie", cfg)
		if !strings.Contains(got, "linux (75.0%)") {
			t.Errorf("missing legend percentage: %s", got)
		}
	})

	t.Run("single slice renders a full circle", func(t *testing.T) {
		data := []stats.SeriesPoint{{Label: "linux", Value: 10}}
		got := Pie(data, "pie", cfg)
		if strings.Contains(got, "<path") {
			t.Error("degenerate arc for a lone slice")
		}
		if !strings.Contains(got, "<circle") {
			t.Error("expected a full circle for a lone slice")
		}
		if !strings.Contains(got, "linux (100.0%)") {
			t.Errorf("missing legend entry: %s", got)
		}

		// Same when the other categories are all zero.
		data = []stats.SeriesPoint{{Label: "linux", Value: 10}, {Label: "darwin", Value: 0}}
		got = Pie(data, "pie", cfg)
		if !strings.Contains(got, "<circle") {
			t.Error("expected a full circle when only one slice is non-zero")
		}
	})
}

// --- test helpers ---

type coord struct{ x, y float64 }

var (
	rectRE     = regexp.MustCompile(`<rect [^>]*width="([0-9.]+)" height="28"`)
	polylineRE = regexp.MustCompile(`<polyline points="([^"]*)"`)
)

func rectWidths(t *testing.T, svg string) []float64 {
	t.Helper()
	var widths []float64
	for _, m := range rectRE.FindAllStringSubmatch(svg, -1) {
		w, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			t.Fatalf("parse width %q: %v", m[1], err)
		}
		widths = append(widths, w)
	}
	return widths
}

func polylines(t *testing.T, svg string) [][]coord {
	t.Helper()
	var all [][]coord
	for _, m := range polylineRE.FindAllStringSubmatch(svg, -1) {
		var pts []coord
		for _, pair := range strings.Fields(m[1]) {
			xy := strings.Split(pair, ",")
			if len(xy) != 2 {
				t.Fatalf("malformed point %q", pair)
			}
			x, _ := strconv.ParseFloat(xy[0], 64)
			y, _ := strconv.ParseFloat(xy[1], 64)
			pts = append(pts, coord{x, y})
		}
		all = append(all, pts)
	}
	return all
}

func polylinePoints(t *testing.T, svg string) []coord {
	t.Helper()
	all := polylines(t, svg)
	if len(all) != 1 {
		t.Fatalf("got %d polylines, want 1", len(all))
	}
	return all[0]
}
