// Package pkg provides the core libraries for pkgdb download tracking.
//
// # Overview
//
// pkgdb records daily download statistics for PyPI packages and renders
// them as reports, charts, and badges. The pkg directory is organized as:
//
//  1. [pypistats] - HTTP client for the pypistats.org API
//  2. [store] - SQLite persistence for packages and snapshots
//  3. [stats] - Core types, formatting, growth, and series helpers
//  4. [chart], [badge], [report] - SVG and HTML rendering
//  5. [manifest], [export], [config] - Manifest loading, data export, configuration
//  6. [httputil], [errors], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through pkgdb:
//
//	pypistats.org API
//	         ↓
//	    [pypistats] package (fetch + cache + retry)
//	         ↓
//	    [store] package (snapshot history in SQLite)
//	         ↓
//	    [stats] package (growth, sparklines, series)
//	         ↓
//	    [chart]/[badge]/[report] packages
//	         ↓
//	    HTML/SVG/CSV/JSON output
//
// # Quick Start
//
// Fetch a snapshot and store it:
//
//	client := pypistats.NewClient(cache)
//	snap, _ := client.Fetch(ctx, "requests", false)
//
//	db, _ := store.Open("pkg.db")
//	_, _ = db.AddPackage("requests")
//	_ = db.SaveSnapshot(snap)
//
// Render the aggregate report:
//
//	rows, _ := db.LatestWithGrowth()
//	history, _ := db.AllHistory()
//	html := report.Aggregate(rows, history, nil, report.Options{})
//
// [pypistats]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/pypistats
// [store]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/store
// [stats]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/stats
// [chart]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/chart
// [badge]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/badge
// [report]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/report
// [manifest]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/manifest
// [export]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/export
// [config]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/config
// [httputil]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/shakfu/pkgdb/pkg/buildinfo
package pkg
