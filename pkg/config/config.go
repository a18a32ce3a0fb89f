// Package config loads and saves pkgdb configuration from a TOML file.
//
// Configuration is an explicitly constructed object handed down to the
// store, fetcher, and report assembler; nothing in this module reads
// ambient process-wide state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all pkgdb configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Fetch   FetchConfig   `toml:"fetch"`
	Report  ReportConfig  `toml:"report"`
}

// GeneralConfig holds paths and general preferences.
type GeneralConfig struct {
	Database string `toml:"database"`
}

// FetchConfig controls the stats API fetch behavior.
type FetchConfig struct {
	Workers       int `toml:"workers"`         // parallel fetch limit
	CacheTTLHours int `toml:"cache_ttl_hours"` // HTTP response cache TTL, 0 disables expiry
}

// ReportConfig controls HTML report rendering.
type ReportConfig struct {
	Output      string `toml:"output"`
	ThemeColor  string `toml:"theme_color"`
	PieMaxItems int    `toml:"pie_max_items"`
	MaxSeries   int    `toml:"max_series"` // packages drawn in the time-series chart
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		General: GeneralConfig{
			Database: "pkg.db",
		},
		Fetch: FetchConfig{
			Workers:       5,
			CacheTTLHours: 6,
		},
		Report: ReportConfig{
			Output:      "report.html",
			ThemeColor:  "#4a90a4",
			PieMaxItems: 6,
			MaxSeries:   5,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pkgdb")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pkgdb")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, returning defaults when the file does
// not exist. An empty path means the standard location.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg.normalized(), nil
}

// Save writes the config to the standard location.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// normalized backfills zero-valued fields with defaults so a sparse config
// file can't disable whole features by accident.
func (c Config) normalized() Config {
	def := Default()
	if c.General.Database == "" {
		c.General.Database = def.General.Database
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = def.Fetch.Workers
	}
	if c.Report.Output == "" {
		c.Report.Output = def.Report.Output
	}
	if c.Report.ThemeColor == "" {
		c.Report.ThemeColor = def.Report.ThemeColor
	}
	if c.Report.PieMaxItems <= 0 {
		c.Report.PieMaxItems = def.Report.PieMaxItems
	}
	if c.Report.MaxSeries <= 0 {
		c.Report.MaxSeries = def.Report.MaxSeries
	}
	return c
}
