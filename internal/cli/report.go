package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/badge"
	"github.com/shakfu/pkgdb/pkg/config"
	"github.com/shakfu/pkgdb/pkg/errors"
	"github.com/shakfu/pkgdb/pkg/manifest"
	"github.com/shakfu/pkgdb/pkg/pypistats"
	"github.com/shakfu/pkgdb/pkg/report"
	"github.com/shakfu/pkgdb/pkg/stats"
	"github.com/shakfu/pkgdb/pkg/store"
)

// reportCommand creates the "report" command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		output  string
		pkgName string
		withEnv bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an HTML report with charts",
		Long: `Generate a self-contained HTML report from stored statistics. By default
the report covers all tracked packages; with --package it covers a single
one. With --env the report additionally includes Python version and
operating system breakdowns fetched from pypistats.org.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			opts := report.Options{
				ThemeColor:  cfg.Report.ThemeColor,
				PieMaxItems: cfg.Report.PieMaxItems,
				MaxSeries:   cfg.Report.MaxSeries,
			}
			if output == "" {
				output = cfg.Report.Output
			}

			var html string
			if pkgName != "" {
				html, err = c.packageReport(cmd, s, cfg, manifest.Normalize(pkgName), withEnv, noCache, opts)
			} else {
				html, err = c.aggregateReport(cmd, s, cfg, withEnv, noCache, opts)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			printSuccess("Report generated")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default from config)")
	cmd.Flags().StringVarP(&pkgName, "package", "p", "", "report on a single package")
	cmd.Flags().BoolVar(&withEnv, "env", false, "include Python version and OS breakdowns")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the HTTP response cache")
	return cmd
}

func (c *CLI) aggregateReport(cmd *cobra.Command, s *store.Store, cfg config.Config, withEnv, noCache bool, opts report.Options) (string, error) {
	rows, err := s.LatestWithGrowth()
	if err != nil {
		return "", err
	}
	history, err := s.AllHistory()
	if err != nil {
		return "", err
	}

	var env *pypistats.EnvSummary
	if withEnv && len(rows) > 0 {
		packages := make([]string, len(rows))
		for i, row := range rows {
			packages[i] = row.Package
		}
		summary, err := c.fetchEnv(cmd, cfg, packages, noCache)
		if err != nil {
			return "", err
		}
		env = summary
	}

	return report.Aggregate(rows, history, env, opts), nil
}

func (c *CLI) packageReport(cmd *cobra.Command, s *store.Store, cfg config.Config, name string, withEnv, noCache bool, opts report.Options) (string, error) {
	latestRows, err := s.LatestWithGrowth()
	if err != nil {
		return "", err
	}
	var latest *stats.WithGrowth
	for i := range latestRows {
		if latestRows[i].Package == name {
			latest = &latestRows[i]
			break
		}
	}
	if latest == nil {
		return "", errors.New(errors.ErrCodeNoData, "no statistics recorded for %q", name)
	}

	history, err := s.History(name, 0)
	if err != nil {
		return "", err
	}

	var env *pypistats.EnvSummary
	if withEnv {
		summary, err := c.fetchEnv(cmd, cfg, []string{name}, noCache)
		if err != nil {
			return "", err
		}
		env = summary
	}

	return report.Package(*latest, history, env, opts), nil
}

func (c *CLI) fetchEnv(cmd *cobra.Command, cfg config.Config, packages []string, noCache bool) (*pypistats.EnvSummary, error) {
	client := c.newStatsClient(cfg, noCache)
	spinner := newSpinner(cmd.Context(), "Fetching environment breakdowns")
	spinner.Start()
	summary, err := client.AggregateEnv(cmd.Context(), packages, cfg.Fetch.Workers, false)
	if err != nil {
		spinner.StopWithError("Environment breakdowns unavailable")
		return nil, err
	}
	spinner.Stop()
	return &summary, nil
}

// badgeCommand creates the "badge" command.
func (c *CLI) badgeCommand() *cobra.Command {
	var (
		output string
		period string
		color  string
	)

	cmd := &cobra.Command{
		Use:   "badge <package>",
		Short: "Generate a shields-style download badge as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			name := manifest.Normalize(args[0])
			latest, err := s.LatestFor(name)
			if err != nil {
				return err
			}

			p := badge.Period(period)
			count, ok := badgeCount(latest, p)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown badge period %q (want total, month, week, or day)", period)
			}

			svg := badge.ForCount(count, p, color)
			if output == "" {
				fmt.Print(svg)
				return nil
			}
			if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
				return fmt.Errorf("writing badge: %w", err)
			}
			printSuccess("Badge generated")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&period, "period", string(badge.PeriodTotal), "count to show: total, month, week, or day")
	cmd.Flags().StringVar(&color, "color", "", "override the badge color (hex)")
	return cmd
}

func badgeCount(snap stats.Snapshot, period badge.Period) (int, bool) {
	switch period {
	case badge.PeriodTotal:
		return snap.Total, true
	case badge.PeriodMonth:
		return snap.LastMonth, true
	case badge.PeriodWeek:
		return snap.LastWeek, true
	case badge.PeriodDay:
		return snap.LastDay, true
	default:
		return 0, false
	}
}
