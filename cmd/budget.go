package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincoach/internal/budget"
	"github.com/theirongolddev/fincoach/internal/cli"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Analyze income and monthly expenses",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	sess, err := loadSession(nil)
	if err != nil {
		return err
	}
	p, err := requireProfile(sess)
	if err != nil {
		return err
	}
	rep, err := sess.Report()
	if err != nil {
		return err
	}
	m := rep.Metrics

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s, age %d", p.Demographic.Title(), p.Age)))
	fmt.Println()

	savings := cli.FormatCurrency(m.Savings)
	if m.Overspending() {
		savings = cli.RenderStatus(savings+" (overspending)", 2)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Overview",
		Rows: [][]string{
			{"Monthly income", cli.FormatCurrency(m.Income)},
			{"Total expenses", cli.FormatCurrency(m.TotalExpenses)},
			{"Savings", savings},
			{"---"},
			{"Savings rate", cli.FormatPercent(m.SavingsRate)},
			{"Rating", cli.RenderStatus(string(rep.Rating), rep.Rating.Severity())},
		},
	}))
	fmt.Println()

	if len(m.Ratios) > 0 {
		policy := sess.Analyzer().Policy
		rows := make([][]string, 0, len(m.Ratios))
		maxAmount := 0.0
		for _, r := range m.Ratios {
			maxAmount = max(maxAmount, r.Amount)
		}
		for _, r := range m.Ratios {
			g := policy.Match(r.Category)
			rows = append(rows, []string{
				r.Category,
				cli.FormatCurrency(r.Amount),
				cli.FormatPercent(r.Ratio),
				cli.FormatPercent(g.MaxRatio),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Expenses",
			Headers: []string{"Category", "Amount", "Of income", "Guideline"},
			Rows:    rows,
		}))
		fmt.Println()
		overBy := make(map[string]bool, len(rep.Violations))
		for _, v := range rep.Violations {
			overBy[v.Category] = true
		}
		for _, r := range m.Ratios {
			fmt.Println(cli.RenderHorizontalBar(r.Category, r.Amount, maxAmount, 30, 18, overBy[r.Category]))
		}
		fmt.Println()
	}

	if len(rep.Violations) > 0 {
		fmt.Println("  " + cli.RenderHeader("Over guideline"))
		for _, v := range rep.Violations {
			fmt.Printf("  %s  %s of income, guideline %s (%s over)\n",
				cli.RenderStatus(v.Category, 2),
				cli.FormatPercent(v.Ratio),
				cli.FormatPercent(v.RecommendedMax),
				cli.FormatPercent(v.Excess),
			)
			if tip := budget.CategoryTip(v.Guideline); tip != "" {
				fmt.Println("    " + cli.RenderMuted(tip))
			}
		}
		fmt.Println()
	}

	if len(rep.Recommendations) > 0 {
		fmt.Println("  " + cli.RenderHeader("Recommendations"))
		for _, r := range rep.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
		fmt.Println()
	}

	fmt.Println("  " + cli.RenderHeader("Summary"))
	fmt.Println("  " + rep.Summary)
	fmt.Println()
	return nil
}
