package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincoach/internal/budget"
	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/session"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a App) updateBudgetKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "p":
		next, cmd := a.openForm(formProfile)
		return next, cmd, true
	case "e":
		if _, ok := a.sess.Profile(); !ok {
			a.notice = "Set up your profile first (p)"
			return a, nil, true
		}
		next, cmd := a.openForm(formExpenses)
		return next, cmd, true
	case "s":
		return a.loadSample(), nil, true
	case "E":
		return a.exportSnapshot(), nil, true
	case "w":
		return a.saveProfile(), nil, true
	}
	return a, nil, false
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	p, ok := a.sess.Profile()
	if !ok {
		body := labelStyle.Render("No profile yet. Press ") + keyStyle.Render("p") +
			labelStyle.Render(" to create one or ") + keyStyle.Render("s") +
			labelStyle.Render(" to load sample data.")
		return components.ContentCard("Budget", body, cw)
	}

	report, err := a.sess.Report()
	if err != nil {
		return components.ContentCard("Budget", labelStyle.Render(err.Error()), cw)
	}
	m := report.Metrics

	savingsSev := 0
	if m.Overspending() {
		savingsSev = 2
	}
	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatCurrency(m.Income), Note: p.Demographic.Title(), Severity: -1},
		{Label: "Expenses", Value: cli.FormatCurrency(m.TotalExpenses), Note: fmt.Sprintf("%d categories", len(m.Ratios)), Severity: -1},
		{Label: "Savings", Value: cli.FormatCurrency(m.Savings), Severity: savingsSev},
		{Label: "Savings rate", Value: cli.FormatPercent(m.SavingsRate), Note: string(report.Rating), Severity: report.Rating.Severity()},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	if len(m.Ratios) == 0 {
		b.WriteString(components.ContentCard("Categories",
			labelStyle.Render("No expenses yet. Press ")+keyStyle.Render("e")+labelStyle.Render(" to add them."), cw))
		b.WriteString("\n")
	} else {
		half := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Share of income", a.ratioBars(report, half[0]), half[0]),
			components.ContentCard("Spending", a.spendingBars(report, half[1]), half[1]),
		}))
		b.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Insights", a.insights(report, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(" [p] profile  [e] expenses  [s] sample  [E] export  [w] write profile"))
	return b.String()
}

func (a App) ratioBars(report session.Report, outer int) string {
	inner := components.CardInnerWidth(outer)
	labelW := 16
	barW := inner - labelW - 16
	if barW < 6 {
		barW = 6
	}
	policy := a.sess.Analyzer().Policy
	lines := make([]string, 0, len(report.Metrics.Ratios))
	for _, r := range report.Metrics.Ratios {
		limit := policy.Match(r.Category).MaxRatio
		lines = append(lines, components.RatioBar(r.Category, r.Ratio, limit, labelW, barW))
	}
	return strings.Join(lines, "\n")
}

func (a App) spendingBars(report session.Report, outer int) string {
	over := map[string]bool{}
	for _, v := range report.Violations {
		over[strings.ToLower(v.Category)] = true
	}
	rows := make([]components.HBar, 0, len(report.Metrics.Ratios))
	for _, r := range report.Metrics.Ratios {
		rows = append(rows, components.HBar{
			Label: r.Category,
			Value: r.Amount,
			Text:  cli.FormatCurrency(r.Amount),
			Over:  over[strings.ToLower(r.Category)],
		})
	}
	return components.HorizontalBars(rows, 16, components.CardInnerWidth(outer))
}

func (a App) insights(report session.Report, width int) string {
	t := theme.Active
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(width)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Width(width)
	tipStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(width)

	var lines []string
	if report.Summary != "" {
		lines = append(lines, textStyle.Render(report.Summary))
	}
	for _, v := range report.Violations {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("▲ %s is %s of income (guideline %s), %s over",
			v.Category, cli.FormatPercent(v.Ratio), cli.FormatPercent(v.RecommendedMax), cli.FormatPercent(v.Excess))))
		if tip := budget.CategoryTip(v.Guideline); tip != "" {
			lines = append(lines, tipStyle.Render("  "+tip))
		}
	}
	for _, r := range report.Recommendations {
		lines = append(lines, tipStyle.Render("• "+r))
	}
	return strings.Join(lines, "\n")
}
