package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/model"
)

// Share of income set aside for investing in allocation plans.
const investableShare = 0.20

// Allocation splits an investment across asset classes, in percent.
type Allocation struct {
	Equity float64
	Debt   float64
	Gold   float64
}

// AllocationFor returns the equity/debt/gold split for a risk level.
func AllocationFor(risk model.RiskTolerance) Allocation {
	switch risk {
	case model.Conservative:
		return Allocation{Equity: 30, Debt: 60, Gold: 10}
	case model.Aggressive:
		return Allocation{Equity: 80, Debt: 15, Gold: 5}
	default:
		return Allocation{Equity: 60, Debt: 30, Gold: 10}
	}
}

func money(v float64) string { return cli.FormatCurrency(v) }

func savingsAnswer(r Request) string {
	income := r.Profile.Income
	var b strings.Builder
	if r.Profile.IsStudent() {
		b.WriteString("Great question! As a student, here are some practical saving tips:\n\n")
		fmt.Fprintf(&b, "Suggested monthly saving: %s (20%% of your %s income)\n\n", money(income*0.2), money(income))
		b.WriteString("Start small:\n")
		b.WriteString("- Cook at home instead of ordering food\n")
		b.WriteString("- Use student discounts everywhere\n")
		b.WriteString("- Share subscriptions with friends\n")
		b.WriteString("- Walk or cycle instead of taking an auto or cab\n\n")
		b.WriteString("For specific goals, break the price into months:\n")
		fmt.Fprintf(&b, "- Phone (%s): save %s/month for 6 months\n", money(15000), money(2500))
		fmt.Fprintf(&b, "- Laptop (%s): save %s/month for 12 months\n\n", money(40000), money(3500))
		b.WriteString("The 50-30-20 rule adapted for students:\n")
		fmt.Fprintf(&b, "- 50%% for essentials (%s)\n", money(income*0.5))
		fmt.Fprintf(&b, "- 30%% for fun and wants (%s)\n", money(income*0.3))
		fmt.Fprintf(&b, "- 20%% for savings (%s)", money(income*0.2))
		return b.String()
	}

	fmt.Fprintf(&b, "Based on your %s profile, here's a structured savings approach:\n\n", r.Profile.Demographic)
	b.WriteString("The 50-30-20 rule:\n")
	fmt.Fprintf(&b, "- 50%% for needs (%s)\n", money(income*0.5))
	fmt.Fprintf(&b, "- 30%% for wants (%s)\n", money(income*0.3))
	fmt.Fprintf(&b, "- 20%% for savings (%s)\n\n", money(income*0.2))
	b.WriteString("Where to put it:\n")
	b.WriteString("- Emergency fund: 6 months of expenses in a savings account\n")
	fmt.Fprintf(&b, "- SIP in index funds: %s/month\n", money(math.Min(income*0.1, 10000)))
	fmt.Fprintf(&b, "- PPF for tax savings: up to %s/year", money(150000))
	if m := r.Context.Metrics; m != nil && m.Income > 0 {
		fmt.Fprintf(&b, "\n\nYou currently save %s a month (%s).", money(m.Savings), cli.FormatPercent(m.SavingsRate))
	}
	return b.String()
}

func investmentAnswer(r Request) string {
	income := r.Profile.Income
	var b strings.Builder
	if r.Profile.IsStudent() {
		b.WriteString("As a student, start with these simple investment steps:\n\n")
		fmt.Fprintf(&b, "Begin small:\n- Start with a %s-%s/month SIP\n", money(500), money(1000))
		b.WriteString("- Choose index funds (low cost, diversified)\n")
		b.WriteString("- Avoid individual stock picking initially\n\n")
		b.WriteString("Sample portfolio for your risk level:\n")
		switch r.Risk {
		case model.Conservative:
			b.WriteString("- 80% large-cap index funds\n- 20% debt funds or recurring deposits\n\n")
		case model.Aggressive:
			b.WriteString("- 60% large-cap index funds\n- 30% mid-cap funds\n- 10% international funds\n\n")
		default:
			b.WriteString("- 70% large-cap index funds\n- 20% mid-cap funds\n- 10% international funds\n\n")
		}
		b.WriteString("Remember: consistency matters more than amount!")
		return b.String()
	}

	a := AllocationFor(r.Risk)
	pool := income * investableShare
	fmt.Fprintf(&b, "Here's a %s investment strategy for your %s monthly income:\n\n", r.Risk, money(income))
	fmt.Fprintf(&b, "Asset allocation of %s/month (20%% of income):\n", money(pool))
	fmt.Fprintf(&b, "- Equity (%.0f%%): %s/month in diversified funds\n", a.Equity, money(pool*a.Equity/100))
	fmt.Fprintf(&b, "- Debt (%.0f%%): %s/month in debt funds or FDs\n", a.Debt, money(pool*a.Debt/100))
	fmt.Fprintf(&b, "- Gold (%.0f%%): %s/month in gold ETFs\n\n", a.Gold, money(pool*a.Gold/100))
	b.WriteString("Tax-saving options:\n")
	fmt.Fprintf(&b, "- ELSS funds: up to %s under Section 80C\n", money(150000))
	b.WriteString("- PPF: 15-year lock-in, tax-free returns\n")
	fmt.Fprintf(&b, "- NPS: additional %s deduction under 80CCD(1B)", money(50000))
	return b.String()
}

func budgetAnswer(r Request) string {
	var b strings.Builder
	if m := r.Context.Metrics; m != nil && (m.Income > 0 || m.TotalExpenses > 0) {
		b.WriteString("Here's where your budget stands:\n\n")
		fmt.Fprintf(&b, "- Income: %s\n", money(m.Income))
		fmt.Fprintf(&b, "- Expenses: %s\n", money(m.TotalExpenses))
		if m.Overspending() {
			fmt.Fprintf(&b, "- You are overspending by %s a month\n\n", money(-m.Savings))
		} else {
			fmt.Fprintf(&b, "- You currently save %s (%s)\n\n", money(m.Savings), cli.FormatPercent(m.SavingsRate))
		}
		b.WriteString("Open the Budget view for the category breakdown and insights.")
		return b.String()
	}

	b.WriteString("I'd love to help you create a budget!\n\n")
	b.WriteString("Let's gather your financial info:\n")
	fmt.Fprintf(&b, "- Monthly income (currently %s)\n", money(r.Profile.Income))
	b.WriteString("- Fixed expenses (rent, utilities, EMIs)\n")
	b.WriteString("- Variable expenses (food, transport, entertainment)\n")
	b.WriteString("- Savings goals\n\n")
	b.WriteString("Fill in the expense form and I'll show a breakdown, spending analysis and recommendations.")
	return b.String()
}

func emergencyAnswer(r Request) string {
	monthly := r.Profile.Income * 0.7
	if m := r.Context.Metrics; m != nil && m.TotalExpenses > 0 {
		monthly = m.TotalExpenses
	}
	target := monthly * 6

	var b strings.Builder
	if r.Profile.IsStudent() {
		b.WriteString("Emergency funds are important, even for students!\n\n")
	} else {
		b.WriteString("An emergency fund is crucial for financial stability.\n\n")
	}
	fmt.Fprintf(&b, "Your target: %s (6 months of expenses)\n", money(target))
	fmt.Fprintf(&b, "Monthly saving needed: %s to build it in 1 year\n\n", money(target/12))
	b.WriteString("Where to keep it:\n")
	b.WriteString("- High-yield savings account\n")
	b.WriteString("- Liquid mutual funds (instant redemption)\n")
	b.WriteString("- Sweep-in fixed deposits")
	return b.String()
}

func taxAnswer(r Request) string {
	var b strings.Builder
	if r.Profile.IsStudent() {
		b.WriteString("Tax planning for students is simpler but still important!\n\n")
		b.WriteString("- Keep receipts for tuition fees (80C deduction)\n")
		b.WriteString("- Health insurance premiums count under 80D\n")
		b.WriteString("- Consider opening a PPF account early")
		return b.String()
	}
	fmt.Fprintf(&b, "Section 80C (%s limit):\n", money(150000))
	fmt.Fprintf(&b, "- PPF: %s/month (15-year lock, tax-free returns)\n", money(12500))
	fmt.Fprintf(&b, "- ELSS: %s/month (3-year lock, market returns)\n", money(12500))
	b.WriteString("- Life insurance premiums and home loan principal\n\n")
	b.WriteString("Additional deductions:\n")
	fmt.Fprintf(&b, "- 80D: health insurance (%s-%s)\n", money(25000), money(50000))
	fmt.Fprintf(&b, "- 80CCD(1B): NPS (additional %s)", money(50000))
	return b.String()
}

func greetingAnswer(r Request) string {
	var b strings.Builder
	b.WriteString("Hello! I'm your personal finance assistant.\n\n")
	fmt.Fprintf(&b, "Based on your profile (%s), I can help you with:\n", r.Profile.Demographic)
	b.WriteString("- Savings strategies\n- Investment advice\n- Budget planning\n- Spending insights\n\n")
	b.WriteString("Try asking:\n")
	b.WriteString("- \"How do I save for a laptop?\"\n")
	b.WriteString("- \"What investments should I consider?\"\n")
	b.WriteString("- \"Help me create a budget\"")
	return b.String()
}
