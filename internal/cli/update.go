package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/report"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// updateCommand creates the "update" command: fetch everything, then
// regenerate the report. Intended for cron jobs.
func (c *CLI) updateCommand() *cobra.Command {
	var (
		output  string
		withEnv bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch all packages and regenerate the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			packages, err := s.Packages()
			if err != nil {
				return err
			}
			if len(packages) == 0 {
				printInfo("No packages tracked")
				printNextStep("Track a package", appName+" add <package>")
				return nil
			}

			client := c.newStatsClient(cfg, noCache)
			if err := c.fetchAndStore(cmd, s, client, packages, cfg.Fetch.Workers, false); err != nil {
				// Keep going: a partial fetch still produces a useful report.
				printWarning("%v", err)
			}

			opts := report.Options{
				ThemeColor:  cfg.Report.ThemeColor,
				PieMaxItems: cfg.Report.PieMaxItems,
				MaxSeries:   cfg.Report.MaxSeries,
			}
			if output == "" {
				output = cfg.Report.Output
			}

			html, err := c.aggregateReport(cmd, s, cfg, withEnv, noCache, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			printSuccess("Report updated")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report file (default from config)")
	cmd.Flags().BoolVar(&withEnv, "env", false, "include Python version and OS breakdowns")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the HTTP response cache")
	return cmd
}

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database and configuration details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.DatabaseInfo(cfg.General.Database)
			if err != nil {
				return err
			}

			printKeyValue("Database", info.Path)
			printKeyValue("Size", formatBytes(info.SizeBytes))
			printKeyValue("Packages", stats.FormatNumber(info.Packages))
			printKeyValue("Snapshots", stats.FormatNumber(info.Snapshots))
			if info.Snapshots > 0 {
				printKeyValue("First snapshot", info.FirstSnapshot)
				printKeyValue("Last snapshot", info.LastSnapshot)
			}
			printKeyValue("Report output", cfg.Report.Output)
			printKeyValue("Fetch workers", stats.FormatNumber(cfg.Fetch.Workers))
			if dir, err := cacheDir(); err == nil {
				printKeyValue("HTTP cache", dir)
			}
			return nil
		},
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
