package budget

import (
	"math"

	"github.com/theirongolddev/fincoach/internal/model"
)

// Analyzer evaluates budgets against a Policy.
type Analyzer struct {
	Policy Policy
}

// NewAnalyzer returns an analyzer using the given policy.
func NewAnalyzer(p Policy) *Analyzer {
	return &Analyzer{Policy: p}
}

// Violation is a category spending more of income than its guideline allows.
type Violation struct {
	Category       string  `json:"category"`
	Guideline      string  `json:"guideline"`
	Amount         float64 `json:"amount"`
	Ratio          float64 `json:"ratio"`
	RecommendedMax float64 `json:"recommended_max"`
	Excess         float64 `json:"excess"`
}

// CalculateMetrics derives totals, savings and ratios.
// Savings may be negative. With zero income every rate and ratio is 0.
func CalculateMetrics(income float64, expenses model.ExpenseBreakdown) (model.BudgetMetrics, error) {
	if err := model.ValidateAmount("income", income); err != nil {
		return model.BudgetMetrics{}, err
	}

	m := model.BudgetMetrics{Income: income}
	items := expenses.Items()
	m.Ratios = make([]model.CategoryRatio, 0, len(items))
	for _, e := range items {
		if err := model.ValidateAmount(e.Category, e.Amount); err != nil {
			return model.BudgetMetrics{}, err
		}
		m.TotalExpenses += e.Amount
		m.Ratios = append(m.Ratios, model.CategoryRatio{
			Category: e.Category,
			Amount:   e.Amount,
			Ratio:    percentOf(e.Amount, income),
		})
	}
	m.Savings = income - m.TotalExpenses
	m.SavingsRate = percentOf(m.Savings, income)
	return m, nil
}

// ClassifySavingsRate rates a savings rate with the analyzer's bands.
func (a *Analyzer) ClassifySavingsRate(rate float64) Rating {
	return a.Policy.Classify(rate)
}

// FindThresholdViolations lists categories whose share of income exceeds
// their guideline, in expense order. Zero income yields no violations.
func (a *Analyzer) FindThresholdViolations(expenses model.ExpenseBreakdown, income float64) []Violation {
	if income <= 0 {
		return nil
	}
	var out []Violation
	for _, e := range expenses.Items() {
		ratio := percentOf(e.Amount, income)
		g := a.Policy.Match(e.Category)
		if ratio > g.MaxRatio {
			out = append(out, Violation{
				Category:       e.Category,
				Guideline:      g.Key,
				Amount:         e.Amount,
				Ratio:          ratio,
				RecommendedMax: g.MaxRatio,
				Excess:         ratio - g.MaxRatio,
			})
		}
	}
	return out
}

func percentOf(part, whole float64) float64 {
	if whole == 0 || math.IsNaN(whole) {
		return 0
	}
	return part * 100 / whole
}
