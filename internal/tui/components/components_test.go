package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

func init() {
	// TrueColor so background styling shows up as ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	widths := LayoutRow(101, 4)
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 101 {
		t.Fatalf("sum = %d, want 101", sum)
	}
	if widths[0] != 26 || widths[3] != 25 {
		t.Fatalf("widths = %v, want remainder on the first items", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(n=0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI styling", i)
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	joined := CardRow([]string{
		ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20),
		ContentCard("Short", "A", 30),
	})
	lines := strings.Split(joined, "\n")
	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestMetricCardShowsNote(t *testing.T) {
	out := MetricCard(Metric{Label: "Savings", Value: "₹5,000", Note: "50% of income", Severity: 0}, 30)
	for _, want := range []string{"Savings", "₹5,000", "50% of income"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q", want)
		}
	}
}

func TestTabWidthsMatchRender(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('g'); got != 3 {
		t.Errorf("TabIdxByKey('g') = %d, want 3", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestColorForUsage(t *testing.T) {
	th := theme.Active
	cases := []struct {
		usage float64
		want  string
	}{
		{0.2, string(th.Green)},
		{0.75, string(th.Yellow)},
		{0.95, string(th.Orange)},
		{1.3, string(th.Red)},
	}
	for _, tc := range cases {
		if got := ColorForUsage(tc.usage); got != tc.want {
			t.Errorf("ColorForUsage(%v) = %s, want %s", tc.usage, got, tc.want)
		}
	}
}

func TestFormatChartLabelUnits(t *testing.T) {
	cases := map[float64]string{
		500:      "500",
		2000:     "2k",
		150000:   "1.5L",
		20000000: "2Cr",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestHorizontalBarsScaleToPeak(t *testing.T) {
	out := HorizontalBars([]HBar{
		{Label: "Rent", Value: 4000, Text: "4,000"},
		{Label: "Food", Value: 2000, Text: "2,000"},
	}, 6, 31)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	rent := strings.Count(lines[0], "█")
	food := strings.Count(lines[1], "█")
	if rent != 2*food {
		t.Errorf("rent bar = %d, food bar = %d, want 2:1", rent, food)
	}
	if HorizontalBars(nil, 6, 30) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestGoalBarClampsPercent(t *testing.T) {
	out := GoalBar("Laptop", 1.7, "done", 10, 20)
	if !strings.Contains(out, "100%") {
		t.Errorf("GoalBar over 100%% should clamp, got %q", out)
	}
}

func TestProgressBarFillsWidth(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
		label  string
	}{
		{0.5, 10, "50%"},
		{1.7, 20, "100%"},
		{-0.2, 0, "0%"},
	}
	for _, tt := range tests {
		out := ProgressBar(tt.pct, 20)
		if got := strings.Count(out, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%v) filled = %d, want %d", tt.pct, got, tt.filled)
		}
		if got := strings.Count(out, "█") + strings.Count(out, "░"); got != 20 {
			t.Errorf("ProgressBar(%v) cells = %d, want 20", tt.pct, got)
		}
		if !strings.Contains(out, tt.label) {
			t.Errorf("ProgressBar(%v) = %q, want %s", tt.pct, out, tt.label)
		}
	}
}
