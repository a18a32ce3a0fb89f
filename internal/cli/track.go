package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/manifest"
)

// addCommand creates the "add" command for tracking packages.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <package>...",
		Short: "Track one or more PyPI packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			added := 0
			for _, arg := range args {
				name := manifest.Normalize(arg)
				if err := manifest.ValidateName(name); err != nil {
					return err
				}
				ok, err := s.AddPackage(name)
				if err != nil {
					return err
				}
				if ok {
					added++
					printSuccess("Tracking %s", name)
				} else {
					printInfo("%s is already tracked", name)
				}
			}

			if added > 0 {
				printNextStep("Fetch statistics", appName+" fetch")
			}
			return nil
		},
	}
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <package>...",
		Aliases: []string{"rm"},
		Short:   "Stop tracking packages and delete their history",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, arg := range args {
				name := manifest.Normalize(arg)
				if err := s.RemovePackage(name); err != nil {
					return err
				}
				printSuccess("Removed %s", name)
			}
			return nil
		},
	}
}

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked packages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.Packages()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No packages tracked")
				printNextStep("Track a package", appName+" add <package>")
				return nil
			}

			for _, name := range names {
				fmt.Println(name)
			}
			printDetail("%d packages", len(names))
			return nil
		},
	}
}

// importCommand creates the "import" command for loading manifest files.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Track all packages listed in a manifest file",
		Long: `Import package names from a manifest file and track them all.

Supported formats:
  YAML  (.yml, .yaml)  a "published" or "packages" key, or a bare list
  JSON  (.json)        an array of names, or an object keyed by name
  Text  (anything else) one name per line, # comments allowed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			added, skipped := 0, 0
			for _, name := range names {
				ok, err := s.AddPackage(manifest.Normalize(name))
				if err != nil {
					return err
				}
				if ok {
					added++
				} else {
					skipped++
				}
			}

			printSuccess("Imported %d packages from %s", added, args[0])
			if skipped > 0 {
				printDetail("%d already tracked", skipped)
			}
			if added > 0 {
				printNextStep("Fetch statistics", appName+" fetch")
			}
			return nil
		},
	}
}
