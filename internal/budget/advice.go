package budget

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/model"
)

var categoryTips = map[string]string{
	"housing":       "Consider roommates, a cheaper area, or house-sharing.",
	"food":          "Try meal planning, cooking at home, and bulk buying.",
	"transport":     "Use public transport, carpool, or cycle for short trips.",
	"entertainment": "Look for free events, streaming instead of movies, and group activities.",
	"utilities":     "Audit subscriptions and switch to cheaper plans.",
	"shopping":      "Practice the 24-hour rule, compare prices, and buy only necessities.",
}

// CategoryTip returns a short suggestion for an over-budget guideline key.
func CategoryTip(guideline string) string {
	if tip, ok := categoryTips[guideline]; ok {
		return tip
	}
	return "Track this category weekly and set a monthly cap."
}

// Recommendations returns savings advice driven by the savings rate.
func (a *Analyzer) Recommendations(p model.UserProfile, m model.BudgetMetrics) []string {
	switch a.ClassifySavingsRate(m.SavingsRate) {
	case Critical, Low:
		if p.IsStudent() {
			return []string{
				"Start with micro-savings: put aside " + cli.FormatCurrency(50) + "-" + cli.FormatCurrency(100) + " daily.",
				"Cook meals instead of ordering food to save " + cli.FormatCurrency(2000) + "+ a month.",
				"Use library and free resources instead of buying books.",
				"Use public transport or walk when possible.",
			}
		}
		return []string{
			"Automate savings with a standing transfer to a savings account on payday.",
			"Consider reducing housing costs if possible.",
			"Review and cancel unused subscriptions.",
			"Create a monthly budget and stick to it.",
		}
	case Good:
		return []string{
			"Increase your savings rate to 20% for better financial security.",
			"Consider investing the surplus in SIPs or mutual funds.",
			"Set specific savings goals to stay motivated.",
		}
	default:
		return nil
	}
}

// Summary renders a plain-text budget snapshot with a tone set by the rating.
func (a *Analyzer) Summary(p model.UserProfile, expenses model.ExpenseBreakdown, m model.BudgetMetrics) string {
	var b strings.Builder
	b.WriteString(a.tone(p, m.SavingsRate))
	b.WriteString("\n\nYour financial snapshot:\n")
	fmt.Fprintf(&b, "- Monthly income: %s\n", cli.FormatCurrency(m.Income))
	fmt.Fprintf(&b, "- Total expenses: %s\n", cli.FormatCurrency(m.TotalExpenses))
	fmt.Fprintf(&b, "- Monthly savings: %s (%s)\n", cli.FormatCurrency(m.Savings), cli.FormatPercent(m.SavingsRate))

	top := TopCategories(expenses, 3)
	if len(top) > 0 {
		b.WriteString("\nTop expense categories:\n")
		for _, e := range top {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", e.Category, cli.FormatCurrency(e.Amount), cli.FormatPercent(percentOf(e.Amount, m.Income)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Analyzer) tone(p model.UserProfile, rate float64) string {
	r := a.ClassifySavingsRate(rate)
	if p.IsStudent() {
		switch r {
		case Excellent:
			return "Amazing job!"
		case Good:
			return "Good work!"
		default:
			return "Let's work on this together!"
		}
	}
	switch r {
	case Excellent:
		return "Excellent financial discipline!"
	case Good:
		return "You're on the right track!"
	case Low:
		return "There's room for improvement."
	default:
		return "You're spending more than you earn. Let's fix that first."
	}
}

// TopCategories returns the n largest expenses, ties kept in insertion order.
func TopCategories(expenses model.ExpenseBreakdown, n int) []model.Expense {
	items := expenses.Items()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Amount > items[j].Amount })
	if len(items) > n {
		items = items[:n]
	}
	return items
}
