package budget

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/fincoach/internal/model"
)

func breakdown(t *testing.T, entries ...model.Expense) model.ExpenseBreakdown {
	t.Helper()
	b, err := model.NewExpenseBreakdown(entries...)
	if err != nil {
		t.Fatalf("NewExpenseBreakdown: %v", err)
	}
	return b
}

func TestCalculateMetricsTotals(t *testing.T) {
	b := breakdown(t,
		model.Expense{Category: "Rent/Housing", Amount: 4000},
		model.Expense{Category: "Food & Groceries", Amount: 2500.5},
		model.Expense{Category: "Transport", Amount: 999.25},
	)
	m, err := CalculateMetrics(10000, b)
	if err != nil {
		t.Fatalf("CalculateMetrics: %v", err)
	}
	if want := 4000 + 2500.5 + 999.25; m.TotalExpenses != want {
		t.Errorf("TotalExpenses = %v, want %v", m.TotalExpenses, want)
	}
	if want := 10000 - m.TotalExpenses; m.Savings != want {
		t.Errorf("Savings = %v, want %v", m.Savings, want)
	}
	if len(m.Ratios) != 3 || m.Ratios[0].Ratio != 40 {
		t.Errorf("Ratios = %+v, want housing at 40", m.Ratios)
	}
}

func TestCalculateMetricsZeroIncome(t *testing.T) {
	b := breakdown(t, model.Expense{Category: "Food", Amount: 500})
	m, err := CalculateMetrics(0, b)
	if err != nil {
		t.Fatalf("CalculateMetrics: %v", err)
	}
	if m.SavingsRate != 0 {
		t.Errorf("SavingsRate = %v, want 0", m.SavingsRate)
	}
	if m.Savings != -500 || !m.Overspending() {
		t.Errorf("Savings = %v overspending = %v, want -500 true", m.Savings, m.Overspending())
	}
	if m.Ratios[0].Ratio != 0 {
		t.Errorf("ratio = %v, want 0", m.Ratios[0].Ratio)
	}
}

func TestCalculateMetricsRejectsNegativeIncome(t *testing.T) {
	_, err := CalculateMetrics(-1, model.ExpenseBreakdown{})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	_, err = CalculateMetrics(math.NaN(), model.ExpenseBreakdown{})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("NaN err = %v, want ErrInvalidInput", err)
	}
}

func TestClassifySavingsRateBands(t *testing.T) {
	a := NewAnalyzer(DefaultPolicy())
	cases := []struct {
		rate float64
		want Rating
	}{
		{-5, Critical},
		{0, Low},
		{9.99, Low},
		{10, Good},
		{19.9, Good},
		{20, Excellent},
		{80, Excellent},
	}
	for _, c := range cases {
		if got := a.ClassifySavingsRate(c.rate); got != c.want {
			t.Errorf("ClassifySavingsRate(%v) = %s, want %s", c.rate, got, c.want)
		}
	}
}

func TestClassifySavingsRateMonotonic(t *testing.T) {
	rank := map[Rating]int{Critical: 0, Low: 1, Good: 2, Excellent: 3}
	policies := []Policy{DefaultPolicy(), {SavingsBands: Bands{Low: 10, Good: 20, Excellent: 30}}}
	for _, p := range policies {
		prev := -1
		for rate := -50.0; rate <= 100; rate += 0.5 {
			r := rank[p.Classify(rate)]
			if r < prev {
				t.Fatalf("bands %+v: rate %v rated %d after %d", p.SavingsBands, rate, r, prev)
			}
			prev = r
		}
	}
}

func TestFindThresholdViolationsHousing(t *testing.T) {
	a := NewAnalyzer(DefaultPolicy())
	got := a.FindThresholdViolations(breakdown(t, model.Expense{Category: "Rent/Housing", Amount: 4000}), 10000)
	if len(got) != 1 {
		t.Fatalf("got %d violations, want 1", len(got))
	}
	v := got[0]
	if v.Guideline != "housing" || v.Ratio != 40 || v.RecommendedMax != 30 || v.Excess != 10 {
		t.Errorf("violation = %+v, want housing 40/30 excess 10", v)
	}
}

func TestFindThresholdViolationsKeywordMatching(t *testing.T) {
	a := NewAnalyzer(DefaultPolicy())
	b := breakdown(t,
		model.Expense{Category: "Weekly GROCERIES", Amount: 1600}, // food, 16%
		model.Expense{Category: "Gym", Amount: 1100},              // other, 11%
		model.Expense{Category: "Movies", Amount: 900},            // other, 9%
		model.Expense{Category: "Transport", Amount: 1500},        // 15%, at limit
	)
	got := a.FindThresholdViolations(b, 10000)
	if len(got) != 2 {
		t.Fatalf("got %+v, want 2 violations", got)
	}
	if got[0].Category != "Weekly GROCERIES" || got[0].Guideline != "food" {
		t.Errorf("first = %+v, want groceries under food", got[0])
	}
	if got[1].Category != "Gym" || got[1].Guideline != "other" || got[1].RecommendedMax != 10 {
		t.Errorf("second = %+v, want gym under other", got[1])
	}
}

func TestFindThresholdViolationsZeroIncome(t *testing.T) {
	a := NewAnalyzer(DefaultPolicy())
	if got := a.FindThresholdViolations(breakdown(t, model.Expense{Category: "Rent", Amount: 1}), 0); got != nil {
		t.Errorf("got %+v, want none", got)
	}
}

func TestRecommendationsByRating(t *testing.T) {
	a := NewAnalyzer(DefaultPolicy())
	student := model.UserProfile{Demographic: model.Student}
	pro := model.UserProfile{Demographic: model.Professional}

	low := a.Recommendations(student, model.BudgetMetrics{SavingsRate: 5})
	if len(low) == 0 || !strings.Contains(low[0], "micro-savings") {
		t.Errorf("student low = %v", low)
	}
	if got := a.Recommendations(pro, model.BudgetMetrics{SavingsRate: 5}); !strings.Contains(got[0], "Automate") {
		t.Errorf("professional low = %v", got)
	}
	if got := a.Recommendations(pro, model.BudgetMetrics{SavingsRate: 15}); !strings.Contains(got[0], "20%") {
		t.Errorf("good = %v", got)
	}
	if got := a.Recommendations(pro, model.BudgetMetrics{SavingsRate: 40}); got != nil {
		t.Errorf("excellent = %v, want none", got)
	}
}

func TestSummaryListsTopCategories(t *testing.T) {
	a := NewAnalyzer(DefaultPolicy())
	p, b := model.SampleProfile(model.Student)
	m, err := CalculateMetrics(p.Income, b)
	if err != nil {
		t.Fatalf("CalculateMetrics: %v", err)
	}
	s := a.Summary(p, b, m)
	if !strings.Contains(s, "Rent/Housing") || !strings.Contains(s, "Food & Groceries") {
		t.Errorf("summary missing top categories:\n%s", s)
	}
	if strings.Contains(s, "Utilities") {
		t.Errorf("summary should list only the top three:\n%s", s)
	}
}

func TestCategoryTipFallback(t *testing.T) {
	if got := CategoryTip("housing"); !strings.Contains(got, "roommates") {
		t.Errorf("housing tip = %q", got)
	}
	if got := CategoryTip("other"); got == "" {
		t.Error("fallback tip is empty")
	}
}
