// Package store provides SQLite-backed persistence for tracked packages
// and their download statistic snapshots.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/shakfu/pkgdb/pkg/errors"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// Store provides access to the statistics database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddPackage registers a package for tracking. Adding a package that is
// already tracked is a no-op and returns false.
func (s *Store) AddPackage(name string) (bool, error) {
	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO packages (name, added_at) VALUES (?, ?)",
		name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemovePackage deletes a package and all its snapshots.
func (s *Store) RemovePackage(name string) error {
	res, err := s.db.Exec("DELETE FROM packages WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodePackageNotFound, "package %q is not tracked", name)
	}
	return nil
}

// Packages returns all tracked package names in alphabetical order.
func (s *Store) Packages() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM packages ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasPackage reports whether name is tracked.
func (s *Store) HasPackage(name string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM packages WHERE name = ?", name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// SaveSnapshot stores a snapshot, replacing any existing snapshot for the
// same package and date. The package must already be tracked.
func (s *Store) SaveSnapshot(snap stats.Snapshot) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO package_stats
		(package_name, fetch_date, last_day, last_week, last_month, total_downloads)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.Package, snap.Date, snap.LastDay, snap.LastWeek, snap.LastMonth, snap.Total,
	)
	return err
}

// Latest returns the most recent snapshot for each tracked package, sorted
// by total downloads descending. Packages with no snapshots are omitted.
func (s *Store) Latest() ([]stats.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT ps.package_name, ps.fetch_date, ps.last_day, ps.last_week, ps.last_month, ps.total_downloads
		FROM package_stats ps
		JOIN (
			SELECT package_name, MAX(fetch_date) AS max_date
			FROM package_stats GROUP BY package_name
		) latest ON ps.package_name = latest.package_name AND ps.fetch_date = latest.max_date
		ORDER BY ps.total_downloads DESC, ps.package_name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSnapshots(rows)
}

// LatestFor returns the most recent snapshot for a single package.
func (s *Store) LatestFor(name string) (stats.Snapshot, error) {
	var snap stats.Snapshot
	err := s.db.QueryRow(`
		SELECT package_name, fetch_date, last_day, last_week, last_month, total_downloads
		FROM package_stats WHERE package_name = ?
		ORDER BY fetch_date DESC LIMIT 1`, name).
		Scan(&snap.Package, &snap.Date, &snap.LastDay, &snap.LastWeek, &snap.LastMonth, &snap.Total)
	if err == sql.ErrNoRows {
		return stats.Snapshot{}, errors.New(errors.ErrCodeNoData, "no statistics recorded for %q", name)
	}
	return snap, err
}

// History returns snapshots for a package in chronological order. A limit
// of 0 returns the full history; otherwise the most recent limit snapshots
// are returned.
func (s *Store) History(name string, limit int) ([]stats.Snapshot, error) {
	query := `
		SELECT package_name, fetch_date, last_day, last_week, last_month, total_downloads
		FROM package_stats WHERE package_name = ? ORDER BY fetch_date`
	args := []any{name}
	if limit > 0 {
		// Take the newest rows, then flip back to chronological order.
		query = `
			SELECT * FROM (
				SELECT package_name, fetch_date, last_day, last_week, last_month, total_downloads
				FROM package_stats WHERE package_name = ?
				ORDER BY fetch_date DESC LIMIT ?
			) ORDER BY fetch_date`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSnapshots(rows)
}

// AllHistory returns the monthly download history for every tracked
// package, keyed by package name, each in chronological order.
func (s *Store) AllHistory() (map[string][]stats.TimePoint, error) {
	rows, err := s.db.Query(`
		SELECT package_name, fetch_date, last_month
		FROM package_stats ORDER BY package_name, fetch_date`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	history := make(map[string][]stats.TimePoint)
	for rows.Next() {
		var name string
		var tp stats.TimePoint
		if err := rows.Scan(&name, &tp.Date, &tp.Value); err != nil {
			return nil, err
		}
		history[name] = append(history[name], tp)
	}
	return history, rows.Err()
}

// LatestWithGrowth returns the latest snapshot per package annotated with
// week-over-week and month-over-month growth of the monthly download
// count. Growth is nil when no snapshot old enough exists for comparison.
func (s *Store) LatestWithGrowth() ([]stats.WithGrowth, error) {
	latest, err := s.Latest()
	if err != nil {
		return nil, err
	}

	out := make([]stats.WithGrowth, 0, len(latest))
	for _, snap := range latest {
		wg := stats.WithGrowth{Snapshot: snap}
		if prev, ok, err := s.snapshotBefore(snap.Package, snap.Date, 7); err != nil {
			return nil, err
		} else if ok {
			wg.WeekGrowth = stats.GrowthOf(snap.LastMonth, prev.LastMonth)
		}
		if prev, ok, err := s.snapshotBefore(snap.Package, snap.Date, 30); err != nil {
			return nil, err
		} else if ok {
			wg.MonthGrowth = stats.GrowthOf(snap.LastMonth, prev.LastMonth)
		}
		out = append(out, wg)
	}
	return out, nil
}

// snapshotBefore finds the newest snapshot at least days older than date.
func (s *Store) snapshotBefore(name, date string, days int) (stats.Snapshot, bool, error) {
	var snap stats.Snapshot
	err := s.db.QueryRow(fmt.Sprintf(`
		SELECT package_name, fetch_date, last_day, last_week, last_month, total_downloads
		FROM package_stats
		WHERE package_name = ? AND fetch_date <= date(?, '-%d day')
		ORDER BY fetch_date DESC LIMIT 1`, days), name, date).
		Scan(&snap.Package, &snap.Date, &snap.LastDay, &snap.LastWeek, &snap.LastMonth, &snap.Total)
	if err == sql.ErrNoRows {
		return stats.Snapshot{}, false, nil
	}
	if err != nil {
		return stats.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Info summarizes the database contents.
type Info struct {
	Path          string
	Packages      int
	Snapshots     int
	FirstSnapshot string
	LastSnapshot  string
	SizeBytes     int64
}

// DatabaseInfo returns summary statistics about the database at path.
func (s *Store) DatabaseInfo(path string) (Info, error) {
	info := Info{Path: path}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM packages").Scan(&info.Packages); err != nil {
		return info, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM package_stats").Scan(&info.Snapshots); err != nil {
		return info, err
	}
	if info.Snapshots > 0 {
		err := s.db.QueryRow("SELECT MIN(fetch_date), MAX(fetch_date) FROM package_stats").
			Scan(&info.FirstSnapshot, &info.LastSnapshot)
		if err != nil {
			return info, err
		}
	}
	if fi, err := os.Stat(path); err == nil {
		info.SizeBytes = fi.Size()
	}
	return info, nil
}

func scanSnapshots(rows *sql.Rows) ([]stats.Snapshot, error) {
	var snaps []stats.Snapshot
	for rows.Next() {
		var snap stats.Snapshot
		if err := rows.Scan(&snap.Package, &snap.Date, &snap.LastDay, &snap.LastWeek, &snap.LastMonth, &snap.Total); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
