package stats

import (
	"cmp"
	"slices"
)

// TopWithOther limits a series to at most max points by keeping the first
// max-1 in their given order and folding the remainder into a single bucket
// labeled otherLabel. The bucket is appended only when its sum is positive.
// Series with max or fewer points are returned unchanged.
func TopWithOther(series []SeriesPoint, max int, otherLabel string) []SeriesPoint {
	if max <= 0 || len(series) <= max {
		return series
	}

	top := make([]SeriesPoint, 0, max)
	top = append(top, series[:max-1]...)

	other := 0
	for _, p := range series[max-1:] {
		other += p.Value
	}
	if other > 0 {
		top = append(top, SeriesPoint{Label: otherLabel, Value: other})
	}
	return top
}

// RankByMax returns the keys of history ordered by each series' own maximum
// value, descending, truncated to at most n entries. Ties are broken by key
// so that the ranking is deterministic.
func RankByMax(history map[string][]TimePoint, n int) []string {
	type ranked struct {
		key string
		max int
	}

	rs := make([]ranked, 0, len(history))
	for key, points := range history {
		m := 0
		for _, p := range points {
			m = max(m, p.Value)
		}
		rs = append(rs, ranked{key: key, max: m})
	}

	slices.SortFunc(rs, func(a, b ranked) int {
		if c := cmp.Compare(b.max, a.max); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	if n > 0 && len(rs) > n {
		rs = rs[:n]
	}
	keys := make([]string, len(rs))
	for i, r := range rs {
		keys[i] = r.key
	}
	return keys
}

// MergeDates collects the distinct dates across all series in history and
// returns them sorted ascending. The merged axis is what multi-series line
// charts position points against.
func MergeDates(history map[string][]TimePoint) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, points := range history {
		for _, p := range points {
			if !seen[p.Date] {
				seen[p.Date] = true
				dates = append(dates, p.Date)
			}
		}
	}
	slices.Sort(dates)
	return dates
}
