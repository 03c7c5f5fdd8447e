package model

// SampleProfile returns a ready-made profile and expense set for quick starts.
// Demographics other than student get the professional sample.
func SampleProfile(d Demographic) (UserProfile, ExpenseBreakdown) {
	if d == Student {
		b, _ := NewExpenseBreakdown(
			Expense{"Rent/Housing", 4000},
			Expense{"Food & Groceries", 2500},
			Expense{"Transport", 1000},
			Expense{"Utilities", 500},
			Expense{"Entertainment", 1500},
			Expense{"Shopping", 500},
			Expense{"Others", 0},
		)
		return UserProfile{
			Age:           20,
			Income:        10000,
			Demographic:   Student,
			Goals:         "Save for laptop and emergency fund",
			RiskTolerance: Conservative,
		}, b
	}
	b, _ := NewExpenseBreakdown(
		Expense{"Rent/Housing", 25000},
		Expense{"Food & Groceries", 8000},
		Expense{"Transport", 5000},
		Expense{"Utilities", 3000},
		Expense{"Entertainment", 10000},
		Expense{"Shopping", 15000},
		Expense{"Others", 5000},
	)
	return UserProfile{
		Age:           28,
		Income:        100000,
		Demographic:   Professional,
		Goals:         "House down payment, retirement planning, tax optimization",
		RiskTolerance: Moderate,
	}, b
}
