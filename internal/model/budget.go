package model

import "strings"

// DefaultCategories are the expense rows offered by the expense form.
var DefaultCategories = []string{
	"Rent/Housing",
	"Food & Groceries",
	"Transport",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Others",
}

// Expense is a single category amount.
type Expense struct {
	Category string  `json:"category" toml:"category"`
	Amount   float64 `json:"amount" toml:"amount"`
}

// ExpenseBreakdown maps category names to monthly amounts.
// Names are unique case-insensitively and keep insertion order.
type ExpenseBreakdown struct {
	items []Expense
}

// NewExpenseBreakdown builds a breakdown from ordered entries.
func NewExpenseBreakdown(entries ...Expense) (ExpenseBreakdown, error) {
	var b ExpenseBreakdown
	for _, e := range entries {
		if err := b.Add(e.Category, e.Amount); err != nil {
			return ExpenseBreakdown{}, err
		}
	}
	return b, nil
}

func (b *ExpenseBreakdown) index(name string) int {
	for i, e := range b.items {
		if strings.EqualFold(e.Category, name) {
			return i
		}
	}
	return -1
}

func cleanCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("category name is empty")
	}
	return name, nil
}

// Add appends a new category. Duplicates are rejected.
func (b *ExpenseBreakdown) Add(category string, amount float64) error {
	name, err := cleanCategory(category)
	if err != nil {
		return err
	}
	if err := ValidateAmount(name, amount); err != nil {
		return err
	}
	if b.index(name) >= 0 {
		return Invalid("duplicate category %q", name)
	}
	b.items = append(b.items, Expense{Category: name, Amount: amount})
	return nil
}

// Set updates a category in place, appending it when absent.
func (b *ExpenseBreakdown) Set(category string, amount float64) error {
	name, err := cleanCategory(category)
	if err != nil {
		return err
	}
	if err := ValidateAmount(name, amount); err != nil {
		return err
	}
	if i := b.index(name); i >= 0 {
		b.items[i].Amount = amount
		return nil
	}
	b.items = append(b.items, Expense{Category: name, Amount: amount})
	return nil
}

// Remove deletes a category. Unknown names are a no-op.
func (b *ExpenseBreakdown) Remove(category string) {
	if i := b.index(strings.TrimSpace(category)); i >= 0 {
		b.items = append(b.items[:i], b.items[i+1:]...)
	}
}

// Get returns the amount for a category.
func (b ExpenseBreakdown) Get(category string) (float64, bool) {
	if i := b.index(strings.TrimSpace(category)); i >= 0 {
		return b.items[i].Amount, true
	}
	return 0, false
}

// Items returns a copy of the entries in insertion order.
func (b ExpenseBreakdown) Items() []Expense {
	out := make([]Expense, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of categories.
func (b ExpenseBreakdown) Len() int { return len(b.items) }

// Total sums every category amount.
func (b ExpenseBreakdown) Total() float64 {
	var sum float64
	for _, e := range b.items {
		sum += e.Amount
	}
	return sum
}

// Clone returns an independent copy.
func (b ExpenseBreakdown) Clone() ExpenseBreakdown {
	return ExpenseBreakdown{items: b.Items()}
}

// CategoryRatio is one category's share of income.
type CategoryRatio struct {
	Category string  `json:"category" toml:"category"`
	Amount   float64 `json:"amount" toml:"amount"`
	Ratio    float64 `json:"ratio"` // percent of income
}

// BudgetMetrics is derived from income and expenses on every read.
type BudgetMetrics struct {
	Income        float64         `json:"income"`
	TotalExpenses float64         `json:"total_expenses"`
	Savings       float64         `json:"savings"`
	SavingsRate   float64         `json:"savings_rate"` // percent of income
	Ratios        []CategoryRatio `json:"ratios"`
}

// Overspending reports whether expenses exceed income.
func (m BudgetMetrics) Overspending() bool {
	return m.Savings < 0
}
