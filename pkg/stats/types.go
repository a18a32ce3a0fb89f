// Package stats defines the snapshot data model and the derived-metric
// calculations (growth percentages, human-readable counts, sparklines) that
// feed charts and reports. Everything in this package is pure: no I/O, no
// shared state, safe for concurrent use on independent inputs.
package stats

// Snapshot is one dated record of a package's download counts. Snapshots are
// immutable once stored; the store keeps at most one per (package, date).
type Snapshot struct {
	Package   string `json:"package"`
	Date      string `json:"date"` // YYYY-MM-DD
	LastDay   int    `json:"last_day"`
	LastWeek  int    `json:"last_week"`
	LastMonth int    `json:"last_month"`
	Total     int    `json:"total"`
}

// WithGrowth pairs a snapshot with growth metrics derived against older
// snapshots. A nil growth pointer means no usable prior data exists.
type WithGrowth struct {
	Snapshot
	WeekGrowth  *float64 `json:"week_growth,omitempty"`
	MonthGrowth *float64 `json:"month_growth,omitempty"`
}

// Breakdown is a labeled download bucket from a category endpoint, for
// example a Python minor version or an operating system name.
type Breakdown struct {
	Category  string `json:"category"`
	Downloads int    `json:"downloads"`
}

// SeriesPoint is one (label, value) pair of a numeric series. Series order is
// caller-determined; bar and pie charts render points in the order given.
type SeriesPoint struct {
	Label string
	Value int
}

// TimePoint is one (date, value) pair of a time series. Time series fed to
// line charts must be sorted ascending by date.
type TimePoint struct {
	Date  string // YYYY-MM-DD
	Value int
}
