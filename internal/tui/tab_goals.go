package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// goalsState tracks the goals tab cursor.
type goalsState struct {
	cursor int
}

func (s *goalsState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (a App) goalList() []model.SavingsGoal {
	list, err := a.sess.Goals().List()
	if err != nil {
		a.log.Warn("listing goals failed", zap.Error(err))
		return nil
	}
	return list
}

func (a App) goalCount() int { return len(a.goalList()) }

func (a App) selectedGoal() (model.SavingsGoal, bool) {
	list := a.goalList()
	if len(list) == 0 {
		return model.SavingsGoal{}, false
	}
	i := a.goals.cursor
	if i >= len(list) {
		i = len(list) - 1
	}
	return list[i], true
}

func (a App) updateGoalsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.goals.cursor++
		a.goals.clamp(a.goalCount())
		return a, nil, true
	case "k", "up":
		a.goals.cursor--
		a.goals.clamp(a.goalCount())
		return a, nil, true
	case "a", "n":
		next, cmd := a.openForm(formGoal)
		return next, cmd, true
	case "+", "enter":
		next, cmd := a.openForm(formContribute)
		return next, cmd, true
	case "d":
		next, cmd := a.openForm(formDeleteGoal)
		return next, cmd, true
	}
	return a, nil, false
}

func priorityColor(p model.Priority) lipgloss.Color {
	t := theme.Active
	switch p {
	case model.PriorityHigh:
		return t.Red
	case model.PriorityLow:
		return t.TextDim
	default:
		return t.Yellow
	}
}

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	list := a.goalList()
	if len(list) == 0 {
		return components.ContentCard("Savings goals",
			labelStyle.Render("No goals yet. Press [a] to add one."), cw)
	}

	cursor := a.goals.cursor
	if cursor >= len(list) {
		cursor = len(list) - 1
	}

	var total, saved, monthly float64
	for _, g := range list {
		total += g.TargetAmount
		saved += g.AccumulatedAmount
		monthly += g.MonthlyContribution
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Goals", Value: fmt.Sprintf("%d", len(list)), Severity: -1},
		{Label: "Saved", Value: cli.FormatCurrency(saved), Note: "of " + cli.FormatCurrency(total), Severity: -1},
		{Label: "Monthly", Value: cli.FormatCurrency(monthly), Note: "committed", Severity: -1},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	labelW := 20
	barW := inner - labelW - 2 - 6 - 2 - 10 - 4
	if barW < 10 {
		barW = 10
	}

	var rows strings.Builder
	for i, g := range list {
		marker := spaceStyle.Render("  ")
		if i == cursor {
			marker = markerStyle.Render("▸ ")
		}
		prio := lipgloss.NewStyle().Foreground(priorityColor(g.Priority)).Background(t.Surface).Render("●")
		left := goals.MonthsRemaining(g)
		rows.WriteString(marker + prio + spaceStyle.Render(" "))
		rows.WriteString(components.GoalBar(g.Name, g.ProgressPercent()/100, cli.FormatMonths(left.Months, left.Unbounded), labelW, barW))
		if i < len(list)-1 {
			rows.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Savings goals", rows.String(), cw))
	b.WriteString("\n")

	g := list[cursor]
	var detail strings.Builder
	detail.WriteString(labelStyle.Render("Target       ") + valueStyle.Render(cli.FormatCurrency(g.TargetAmount)) + "\n")
	detail.WriteString(labelStyle.Render("Saved        ") + valueStyle.Render(cli.FormatCurrency(g.AccumulatedAmount)) + "\n")
	detail.WriteString(labelStyle.Render("Remaining    ") + valueStyle.Render(cli.FormatCurrency(g.Remaining())) + "\n")
	detail.WriteString(labelStyle.Render("Progress     ") + components.ProgressBar(g.ProgressPercent()/100, min(barW, 30)) + "\n")
	detail.WriteString(labelStyle.Render("Monthly      ") + valueStyle.Render(cli.FormatCurrency(g.MonthlyContribution)) + "\n")
	detail.WriteString(labelStyle.Render("Priority     ") + valueStyle.Render(string(g.Priority)) + "\n")
	detail.WriteString(labelStyle.Render("Created      ") + valueStyle.Render(g.CreatedDate.Format("2 Jan 2006")))
	if history, err := a.sess.Goals().History(g.ID); err == nil && len(history) > 0 {
		detail.WriteString("\n\n" + labelStyle.Render("Recent contributions"))
		start := len(history) - 5
		if start < 0 {
			start = 0
		}
		for _, c := range history[start:] {
			detail.WriteString("\n" + labelStyle.Render(c.At.Format("02 Jan 15:04")+"  ") + valueStyle.Render(cli.FormatCurrency(c.Amount)))
		}
	}
	b.WriteString(components.ContentCard(truncStr(g.Name, inner), detail.String(), cw))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(" [j/k] select  [a] add  [+] add money  [d] delete"))
	return b.String()
}
