package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/shakfu/pkgdb/pkg/badge"
	"github.com/shakfu/pkgdb/pkg/errors"
	"github.com/shakfu/pkgdb/pkg/stats"
	"github.com/shakfu/pkgdb/pkg/store"
)

func newTestCLI(t *testing.T) (*CLI, *store.Store) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	c.dbPath = filepath.Join(t.TempDir(), "test.db")

	s, _, err := c.openStore()
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return c, s
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := []string{
		"add", "remove", "list", "import", "fetch", "show", "history",
		"stats", "report", "badge", "export", "update", "info", "serve",
		"cache", "completion",
	}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestResolvePackages(t *testing.T) {
	c, s := newTestCLI(t)
	if _, err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}

	t.Run("all tracked when no args", func(t *testing.T) {
		got, err := c.resolvePackages(s, nil)
		if err != nil || len(got) != 1 || got[0] != "requests" {
			t.Errorf("resolvePackages() = %v, %v", got, err)
		}
	})

	t.Run("normalizes explicit names", func(t *testing.T) {
		got, err := c.resolvePackages(s, []string{"Requests"})
		if err != nil || len(got) != 1 || got[0] != "requests" {
			t.Errorf("resolvePackages() = %v, %v", got, err)
		}
	})

	t.Run("rejects untracked names", func(t *testing.T) {
		_, err := c.resolvePackages(s, []string{"numpy"})
		if errors.GetCode(err) != errors.ErrCodePackageNotFound {
			t.Errorf("resolvePackages() error = %v", err)
		}
	})
}

func TestBadgeCount(t *testing.T) {
	snap := stats.Snapshot{LastDay: 1, LastWeek: 7, LastMonth: 30, Total: 1000}

	tests := []struct {
		period badge.Period
		want   int
		ok     bool
	}{
		{badge.PeriodTotal, 1000, true},
		{badge.PeriodMonth, 30, true},
		{badge.PeriodWeek, 7, true},
		{badge.PeriodDay, 1, true},
		{badge.Period("year"), 0, false},
	}
	for _, tt := range tests {
		got, ok := badgeCount(snap, tt.period)
		if got != tt.want || ok != tt.ok {
			t.Errorf("badgeCount(%q) = %d, %v; want %d, %v", tt.period, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
