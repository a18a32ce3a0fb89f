package stats

import (
	"strings"
	"testing"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"zero", 0, "0"},
		{"below threshold", 999, "999"},
		{"exactly 1k", 1000, "1.0K"},
		{"thousands", 1234, "1.2K"},
		{"half-up tie", 1250, "1.3K"},
		{"millions", 1234567, "1.2M"},
		{"exactly 1m", 1_000_000, "1.0M"},
		{"billions", 2_500_000_000, "2.5B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCount(tt.n); got != tt.want {
				t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestGrowth(t *testing.T) {
	ptr := func(n int) *int { return &n }

	tests := []struct {
		name     string
		current  *int
		previous *int
		want     *float64
	}{
		{"positive growth", ptr(150), ptr(100), floatPtr(50)},
		{"negative growth", ptr(50), ptr(100), floatPtr(-50)},
		{"zero previous", ptr(42), ptr(0), nil},
		{"nil previous", ptr(42), nil, nil},
		{"nil current", nil, ptr(100), nil},
		{"no change", ptr(100), ptr(100), floatPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Growth(tt.current, tt.previous)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Growth() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Growth() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestGrowthOf(t *testing.T) {
	if g := GrowthOf(225, 100); g == nil || *g != 125 {
		t.Errorf("GrowthOf(225, 100) = %v, want 125", g)
	}
	if g := GrowthOf(10, 0); g != nil {
		t.Errorf("GrowthOf(10, 0) = %v, want nil", g)
	}
}

func TestSparkline(t *testing.T) {
	t.Run("monotone values produce non-decreasing glyphs", func(t *testing.T) {
		got := Sparkline([]int{1, 2, 3, 4, 5, 6, 7}, 7)
		if len(got) != 7 {
			t.Fatalf("len = %d, want 7", len(got))
		}
		for i := 1; i < len(got); i++ {
			prev := strings.IndexByte(sparklineGlyphs, got[i-1])
			cur := strings.IndexByte(sparklineGlyphs, got[i])
			if cur < prev {
				t.Errorf("glyph intensity decreased at %d: %q", i, got)
			}
		}
		if got[0] != sparklineGlyphs[0] || got[6] != sparklineGlyphs[9] {
			t.Errorf("expected full intensity range, got %q", got)
		}
	})

	t.Run("flat series uses middle glyph", func(t *testing.T) {
		got := Sparkline([]int{5, 5, 5}, 3)
		want := strings.Repeat(string(sparklineGlyphs[5]), 3)
		if got != want {
			t.Errorf("Sparkline flat = %q, want %q", got, want)
		}
	})

	t.Run("short input left-pads with zeros", func(t *testing.T) {
		got := Sparkline([]int{10}, 4)
		if len(got) != 4 {
			t.Fatalf("len = %d, want 4", len(got))
		}
		// Three implicit zeros then the maximum.
		if got[3] != sparklineGlyphs[9] {
			t.Errorf("last glyph = %q, want max intensity", got[3])
		}
	})

	t.Run("long input keeps last width values", func(t *testing.T) {
		got := Sparkline([]int{100, 0, 0, 0}, 3)
		want := strings.Repeat(string(sparklineGlyphs[5]), 3) // remaining values are flat
		if got != want {
			t.Errorf("Sparkline = %q, want %q", got, want)
		}
	})

	t.Run("empty input renders spaces", func(t *testing.T) {
		if got := Sparkline(nil, 5); got != "     " {
			t.Errorf("Sparkline(nil) = %q", got)
		}
	})
}

func floatPtr(f float64) *float64 { return &f }
