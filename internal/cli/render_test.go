package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTableSeparatorAndWidths(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Rent/Housing", "₹4,000"},
			{"---"},
			{"Total", "₹4,000"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Errorf("line %d width = %d, want %d: %q", i, lipgloss.Width(l), w, l)
		}
	}
}

func TestRenderHorizontalBarScales(t *testing.T) {
	full := RenderHorizontalBar("Food", 100, 100, 10, 6, false)
	half := RenderHorizontalBar("Food", 50, 100, 10, 6, false)
	if got := strings.Count(full, "█"); got != 10 {
		t.Errorf("full bar = %d blocks, want 10", got)
	}
	if got := strings.Count(half, "█"); got != 5 {
		t.Errorf("half bar = %d blocks, want 5", got)
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	out := RenderProgressBar(150, 10)
	if got := strings.Count(out, "█"); got != 10 {
		t.Errorf("filled = %d, want 10", got)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("missing clamped percent: %q", out)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 10}); got != "▁█" {
		t.Errorf("RenderSparkline = %q, want %q", got, "▁█")
	}
}
