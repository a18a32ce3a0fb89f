package cli

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/errors"
	"github.com/shakfu/pkgdb/pkg/manifest"
	"github.com/shakfu/pkgdb/pkg/pypistats"
	"github.com/shakfu/pkgdb/pkg/store"
)

// fetchCommand creates the "fetch" command.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [package]...",
		Short: "Fetch current download statistics from pypistats.org",
		Long: `Fetch download statistics for tracked packages and store a snapshot
dated today. With no arguments all tracked packages are fetched; otherwise
only the named packages are. Fetching twice on the same day replaces the
day's snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			packages, err := c.resolvePackages(s, args)
			if err != nil {
				return err
			}
			if len(packages) == 0 {
				printInfo("No packages tracked")
				printNextStep("Track a package", appName+" add <package>")
				return nil
			}

			client := c.newStatsClient(cfg, noCache)
			return c.fetchAndStore(cmd, s, client, packages, cfg.Fetch.Workers, refresh)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the HTTP response cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "force fresh API calls even for cached responses")
	return cmd
}

// resolvePackages validates explicit package arguments against the store,
// or returns all tracked packages when args is empty.
func (c *CLI) resolvePackages(s *store.Store, args []string) ([]string, error) {
	if len(args) == 0 {
		return s.Packages()
	}

	packages := make([]string, 0, len(args))
	for _, arg := range args {
		name := manifest.Normalize(arg)
		tracked, err := s.HasPackage(name)
		if err != nil {
			return nil, err
		}
		if !tracked {
			return nil, errors.New(errors.ErrCodePackageNotFound, "package %q is not tracked (run %q first)", name, appName+" add "+name)
		}
		packages = append(packages, name)
	}
	return packages, nil
}

// fetchAndStore fetches snapshots in parallel and saves the successful ones.
func (c *CLI) fetchAndStore(cmd *cobra.Command, s *store.Store, client *pypistats.Client, packages []string, workers int, refresh bool) error {
	prog := newProgress(c.Logger)
	spinner := newSpinner(cmd.Context(), fmt.Sprintf("Fetching 0/%d packages", len(packages)))
	spinner.Start()

	var completed atomic.Int32
	results := client.FetchAll(cmd.Context(), packages, workers, refresh, func(string) {
		n := completed.Add(1)
		spinner.SetMessage(fmt.Sprintf("Fetching %d/%d packages", n, len(packages)))
	})

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		spinner.StopWithError(fmt.Sprintf("Fetched %d of %d packages", len(packages)-failed, len(packages)))
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Fetched %d packages", len(packages)))
	}

	saved := 0
	for _, res := range results {
		if res.Err != nil {
			printError("%s: %v", res.Package, res.Err)
			continue
		}
		if err := s.SaveSnapshot(res.Snapshot); err != nil {
			return fmt.Errorf("saving snapshot for %s: %w", res.Package, err)
		}
		saved++
		c.Logger.Debug("saved snapshot",
			"package", res.Package, "date", res.Snapshot.Date, "last_month", res.Snapshot.LastMonth)
	}

	prog.done(fmt.Sprintf("Saved %d snapshots", saved))
	if failed > 0 {
		return errors.New(errors.ErrCodeNetwork, "%d of %d packages failed to fetch", failed, len(packages))
	}
	return nil
}
