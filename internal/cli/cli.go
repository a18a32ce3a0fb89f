// Package cli implements the pkgdb command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/buildinfo"
	"github.com/shakfu/pkgdb/pkg/config"
	"github.com/shakfu/pkgdb/pkg/httputil"
	"github.com/shakfu/pkgdb/pkg/pypistats"
	"github.com/shakfu/pkgdb/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "pkgdb"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	dbPath     string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Track PyPI package download statistics",
		Long:         `pkgdb tracks download statistics for PyPI packages: it fetches daily snapshots from pypistats.org, stores them in a local SQLite database, and renders HTML reports, SVG charts, and badges from the accumulated history.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "database file (overrides config)")

	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.badgeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration, applying the --db override.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.dbPath != "" {
		cfg.General.Database = c.dbPath
	}
	return cfg, nil
}

// openStore loads config and opens the database.
func (c *CLI) openStore() (*store.Store, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	s, err := store.Open(cfg.General.Database)
	if err != nil {
		return nil, cfg, err
	}
	return s, cfg, nil
}

// newStatsClient builds a pypistats client backed by the response cache.
func (c *CLI) newStatsClient(cfg config.Config, noCache bool) *pypistats.Client {
	if noCache {
		return pypistats.NewClient(nil)
	}
	dir, err := cacheDir()
	if err != nil {
		return pypistats.NewClient(nil)
	}
	ttl := time.Duration(cfg.Fetch.CacheTTLHours) * time.Hour
	cache, err := httputil.NewCache(dir, ttl)
	if err != nil {
		c.Logger.Debug("response cache unavailable", "err", err)
		return pypistats.NewClient(nil)
	}
	return pypistats.NewClient(cache)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pkgdb/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
