package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/projection"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// investableShare is the part of income the allocation view splits.
const investableShare = 0.2

// investState holds the projection inputs.
type investState struct {
	monthly float64
	rate    float64
	years   int
}

func newInvestState() investState {
	return investState{rate: 12, years: 10}
}

func (s *investState) apply(v *formValues) error {
	monthly, err := parseMoney(v.projMonthly)
	if err != nil {
		return err
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(v.projRate), 64)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	years, err := strconv.Atoi(strings.TrimSpace(v.projYears))
	if err != nil {
		return fmt.Errorf("years: %w", err)
	}
	if _, err := projection.Project(monthly, rate, years); err != nil {
		return err
	}
	s.monthly, s.rate, s.years = monthly, rate, years
	return nil
}

func (a App) updateInvestKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "e", "enter":
		next, cmd := a.openForm(formProjection)
		return next, cmd, true
	case "+":
		a.invest.years++
		return a, nil, true
	case "-":
		if a.invest.years > 1 {
			a.invest.years--
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderInvestTab(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder

	p, hasProfile := a.sess.Profile()
	if hasProfile {
		risk := p.Risk()
		alloc := advisor.AllocationFor(risk)
		investable := p.Income * investableShare
		rows := []components.HBar{
			{Label: "Equity", Value: alloc.Equity, Text: fmt.Sprintf("%.0f%%  %s", alloc.Equity, cli.FormatCurrency(investable*alloc.Equity/100))},
			{Label: "Debt", Value: alloc.Debt, Text: fmt.Sprintf("%.0f%%  %s", alloc.Debt, cli.FormatCurrency(investable*alloc.Debt/100))},
			{Label: "Gold", Value: alloc.Gold, Text: fmt.Sprintf("%.0f%%  %s", alloc.Gold, cli.FormatCurrency(investable*alloc.Gold/100))},
		}
		body := labelStyle.Render(fmt.Sprintf("%s risk · investing %s a month (20%% of income)",
			strings.ToUpper(string(risk[:1]))+string(risk[1:]), cli.FormatCurrency(investable))) + "\n\n" +
			components.HorizontalBars(rows, 8, components.CardInnerWidth(cw))
		b.WriteString(components.ContentCard("Suggested allocation", body, cw))
		b.WriteString("\n")
	}

	monthly := a.invest.monthly
	if monthly == 0 && hasProfile {
		monthly = p.Income * investableShare
	}
	proj, err := projection.Project(monthly, a.invest.rate, a.invest.years)
	if err != nil {
		b.WriteString(components.ContentCard("Projection", labelStyle.Render(err.Error()), cw))
		return b.String()
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Monthly", Value: cli.FormatCurrency(proj.MonthlyAmount), Note: fmt.Sprintf("%g%% for %dy", proj.AnnualRate, proj.Years), Severity: -1},
		{Label: "Invested", Value: cli.FormatCurrency(proj.TotalInvested), Severity: -1},
		{Label: "Future value", Value: cli.FormatCurrency(proj.FutureValue), Severity: 0},
		{Label: "Returns", Value: cli.FormatCurrency(proj.Returns), Note: cli.FormatPercent(proj.ReturnPercent) + " gain", Severity: 0},
	}, cw))
	b.WriteString("\n")

	schedule, _ := projection.Schedule(monthly, a.invest.rate, a.invest.years)
	if len(schedule) > 0 {
		values := make([]float64, len(schedule))
		labels := make([]string, len(schedule))
		for i, pt := range schedule {
			values[i] = pt.Value
			labels[i] = "Y" + strconv.Itoa(pt.Year)
		}
		inner := components.CardInnerWidth(cw)
		chart := components.BarChart(values, labels, t.Green, inner, 10)
		b.WriteString(components.ContentCard("Value by year", chart, cw))
		b.WriteString("\n")
	}

	b.WriteString(valueStyle.Render(" "))
	b.WriteString(labelStyle.Render("[e] edit projection  [+/-] years"))
	return b.String()
}
