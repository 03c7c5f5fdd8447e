package components

import (
	"strings"

	"github.com/theirongolddev/fincoach/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Profile string // e.g. "Student · 20"
	AI      bool   // text-generation backend configured
	Busy    bool   // a reply is being generated
	Message string // transient notice, shown in the middle
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	notice := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	left := base.Render(" [?]help  [tab]next  [q]uit")
	if info.Message != "" {
		left += base.Render("  ") + notice.Render(info.Message)
	}

	mode := "rules"
	if info.AI {
		mode = "ai"
	}
	right := ""
	if info.Busy {
		right += accent.Render("thinking… ")
	}
	if info.Profile != "" {
		right += base.Render(info.Profile + "  ")
	}
	right += base.Render("advisor: ") + accent.Render(mode) + base.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
