package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/export"
	"github.com/shakfu/pkgdb/pkg/manifest"
	"github.com/shakfu/pkgdb/pkg/stats"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		format  string
		pkgName string
		history bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export statistics as CSV, JSON, or Markdown",
		Long: `Export stored statistics. By default the latest snapshot per package is
exported; with --history all snapshots are included. With --package the
export is limited to a single package.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var snaps []stats.Snapshot
			switch {
			case pkgName != "" && history:
				snaps, err = s.History(manifest.Normalize(pkgName), 0)
			case pkgName != "":
				var snap stats.Snapshot
				if snap, err = s.LatestFor(manifest.Normalize(pkgName)); err == nil {
					snaps = []stats.Snapshot{snap}
				}
			case history:
				names, nerr := s.Packages()
				if nerr != nil {
					return nerr
				}
				for _, name := range names {
					h, herr := s.History(name, 0)
					if herr != nil {
						return herr
					}
					snaps = append(snaps, h...)
				}
			default:
				snaps, err = s.Latest()
			}
			if err != nil {
				return err
			}

			w := os.Stdout
			if output != "" {
				w, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer w.Close()
			}

			if err := export.Write(w, snaps, f); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Exported %d rows", len(snaps))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv, json, or md")
	cmd.Flags().StringVarP(&pkgName, "package", "p", "", "export a single package")
	cmd.Flags().BoolVar(&history, "history", false, "export all snapshots instead of the latest")
	return cmd
}
