// Package export serializes statistics snapshots to CSV, JSON, and
// Markdown.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shakfu/pkgdb/pkg/errors"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// Format identifies an export output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (want csv, json, or md)", name)
	}
}

// Write serializes snaps to w in the given format.
func Write(w io.Writer, snaps []stats.Snapshot, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, snaps)
	case FormatJSON:
		return writeJSON(w, snaps)
	case FormatMarkdown:
		return writeMarkdown(w, snaps)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", format)
	}
}

var csvHeader = []string{"package", "date", "last_day", "last_week", "last_month", "total"}

func writeCSV(w io.Writer, snaps []stats.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range snaps {
		row := []string{
			s.Package, s.Date,
			strconv.Itoa(s.LastDay), strconv.Itoa(s.LastWeek),
			strconv.Itoa(s.LastMonth), strconv.Itoa(s.Total),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, snaps []stats.Snapshot) error {
	if snaps == nil {
		snaps = []stats.Snapshot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snaps)
}

func writeMarkdown(w io.Writer, snaps []stats.Snapshot) error {
	var b strings.Builder
	b.WriteString("| Package | Date | Last Day | Last Week | Last Month | Total |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, s := range snaps {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Package, s.Date,
			stats.FormatNumber(s.LastDay), stats.FormatNumber(s.LastWeek),
			stats.FormatNumber(s.LastMonth), stats.FormatNumber(s.Total))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
