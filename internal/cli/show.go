package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/manifest"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// showCommand creates the "show" command: a ranked table of the latest
// statistics for every tracked package.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the latest statistics for all tracked packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.LatestWithGrowth()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				printInfo("No statistics recorded")
				printNextStep("Fetch statistics", appName+" fetch")
				return nil
			}

			history, err := s.AllHistory()
			if err != nil {
				return err
			}

			data := make([][]string, 0, len(rows))
			for i, row := range rows {
				var values []int
				for _, tp := range history[row.Package] {
					values = append(values, tp.Value)
				}
				data = append(data, []string{
					strconv.Itoa(i + 1),
					row.Package,
					stats.FormatNumber(row.LastDay),
					stats.FormatNumber(row.LastWeek),
					stats.FormatNumber(row.LastMonth),
					stats.FormatCount(row.Total),
					formatGrowth(row.WeekGrowth),
					formatGrowth(row.MonthGrowth),
					stats.Sparkline(values, stats.SparklineWidth),
				})
			}

			renderTable([]string{"#", "Package", "Day", "Week", "Month", "Total", "WoW", "MoM", "Trend"}, data)
			printDetail("As of %s", rows[0].Date)
			return nil
		},
	}
}

// historyCommand creates the "history" command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <package>",
		Short: "Show recorded snapshots for a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			name := manifest.Normalize(args[0])
			snaps, err := s.History(name, limit)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No statistics recorded for %s", name)
				printNextStep("Fetch statistics", appName+" fetch "+name)
				return nil
			}

			data := make([][]string, 0, len(snaps))
			for _, snap := range snaps {
				data = append(data, []string{
					snap.Date,
					stats.FormatNumber(snap.LastDay),
					stats.FormatNumber(snap.LastWeek),
					stats.FormatNumber(snap.LastMonth),
					stats.FormatNumber(snap.Total),
				})
			}

			fmt.Println(StyleTitle.Render(name))
			renderTable([]string{"Date", "Day", "Week", "Month", "Total"}, data)
			printDetail("%d snapshots", len(snaps))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the most recent N snapshots")
	return cmd
}

// statsCommand creates the "stats" command: a detailed view of one package
// including live environment breakdowns from pypistats.org.
func (c *CLI) statsCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "stats <package>",
		Short: "Show detailed statistics for a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			name := manifest.Normalize(args[0])
			latest, err := s.LatestFor(name)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(name))
			printKeyValue("Last day", stats.FormatNumber(latest.LastDay))
			printKeyValue("Last week", stats.FormatNumber(latest.LastWeek))
			printKeyValue("Last month", stats.FormatNumber(latest.LastMonth))
			printKeyValue("Total", stats.FormatNumber(latest.Total))
			printKeyValue("Snapshot date", latest.Date)

			client := c.newStatsClient(cfg, noCache)
			python, err := client.PythonMinor(cmd.Context(), name, false)
			if err != nil {
				printWarning("Could not fetch Python version breakdown: %v", err)
			} else if len(python) > 0 {
				fmt.Println()
				fmt.Println(StyleTitle.Render("Python Versions"))
				renderBreakdown(python)
			}

			system, err := client.System(cmd.Context(), name, false)
			if err != nil {
				printWarning("Could not fetch operating system breakdown: %v", err)
			} else if len(system) > 0 {
				fmt.Println()
				fmt.Println(StyleTitle.Render("Operating Systems"))
				renderBreakdown(system)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the HTTP response cache")
	return cmd
}

// renderTable prints rows as a bordered lipgloss table.
func renderTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader.Padding(0, 1)
			}
			if col >= 2 {
				return StyleNumber.Padding(0, 1).Align(lipgloss.Right)
			}
			return StyleValue.Padding(0, 1)
		})
	fmt.Println(t.Render())
}

// renderBreakdown prints category/downloads pairs with percentage shares.
func renderBreakdown(breakdown []stats.Breakdown) {
	total := 0
	for _, b := range breakdown {
		total += b.Downloads
	}

	rows := make([][]string, 0, len(breakdown))
	for _, b := range breakdown {
		pct := ""
		if total > 0 {
			pct = fmt.Sprintf("%.1f%%", float64(b.Downloads)*100/float64(total))
		}
		rows = append(rows, []string{b.Category, stats.FormatNumber(b.Downloads), pct})
	}
	renderTable([]string{"Category", "Downloads", "Share"}, rows)
}
