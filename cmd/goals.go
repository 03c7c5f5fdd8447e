package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagGoalTarget   float64
	flagGoalMonthly  float64
	flagGoalPriority string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Track savings goals",
	RunE:  runGoalsList,
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals by priority",
	RunE:  runGoalsList,
}

var goalsAddCmd = &cobra.Command{
	Use:     "add NAME",
	Short:   "Add a savings goal",
	Example: `  fincoach goals add "Emergency fund" --target 150000 --monthly 10000 --priority high`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runGoalsAdd,
}

var goalsProgressCmd = &cobra.Command{
	Use:   "progress ID AMOUNT",
	Short: "Record a contribution to a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsProgress,
}

var goalsRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Delete a goal and its history",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalsRemove,
}

var goalsHistoryCmd = &cobra.Command{
	Use:   "history ID",
	Short: "Show contributions to a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsHistory,
}

func init() {
	goalsAddCmd.Flags().Float64VarP(&flagGoalTarget, "target", "t", 0, "Target amount")
	goalsAddCmd.Flags().Float64VarP(&flagGoalMonthly, "monthly", "m", 0, "Planned monthly contribution")
	goalsAddCmd.Flags().StringVar(&flagGoalPriority, "priority", string(model.PriorityMedium), "High, Medium or Low")
	_ = goalsAddCmd.MarkFlagRequired("target")

	goalsCmd.AddCommand(goalsListCmd, goalsAddCmd, goalsProgressCmd, goalsRemoveCmd, goalsHistoryCmd)
	rootCmd.AddCommand(goalsCmd)
}

// withGoals runs fn against the persistent goal ledger.
func withGoals(fn func(t *goals.Tracker) error) error {
	tracker, closeFn, err := openGoals()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(tracker)
}

func runGoalsList(_ *cobra.Command, _ []string) error {
	return withGoals(func(t *goals.Tracker) error {
		gs, err := t.List()
		if err != nil {
			return err
		}
		if len(gs) == 0 {
			fmt.Println("\n  No savings goals yet.")
			fmt.Println("  Add one with: fincoach goals add NAME --target AMOUNT --monthly AMOUNT")
			return nil
		}

		rows := make([][]string, 0, len(gs))
		for _, g := range gs {
			rem := goals.MonthsRemaining(g)
			rows = append(rows, []string{
				shortID(g.ID),
				g.Name,
				string(g.Priority),
				cli.FormatCurrency(g.AccumulatedAmount) + " / " + cli.FormatCurrency(g.TargetAmount),
				cli.RenderProgressBar(g.ProgressPercent(), 12),
				cli.FormatMonths(rem.Months, rem.Unbounded),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Savings goals",
			Headers: []string{"ID", "Goal", "Priority", "Saved", "Progress", "Time left"},
			Rows:    rows,
		}))
		fmt.Println()
		return nil
	})
}

func runGoalsAdd(_ *cobra.Command, args []string) error {
	prio, err := model.ParsePriority(flagGoalPriority)
	if err != nil {
		return err
	}
	return withGoals(func(t *goals.Tracker) error {
		g, err := t.Add(strings.Join(args, " "), flagGoalTarget, flagGoalMonthly, prio)
		if err != nil {
			return err
		}
		rem := goals.MonthsRemaining(g)
		fmt.Printf("  Added %s (%s): %s, %s\n", g.Name, shortID(g.ID),
			cli.FormatCurrency(g.TargetAmount), cli.FormatMonths(rem.Months, rem.Unbounded))
		return nil
	})
}

func runGoalsProgress(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", ""), 64)
	if err != nil {
		return model.Invalid("amount %q is not a number", args[1])
	}
	return withGoals(func(t *goals.Tracker) error {
		g, err := t.Resolve(args[0])
		if err != nil {
			return err
		}
		g, err = t.UpdateProgress(g.ID, amount)
		if err != nil {
			return err
		}
		fmt.Printf("  %s: %s saved of %s  %s\n", g.Name,
			cli.FormatCurrency(g.AccumulatedAmount), cli.FormatCurrency(g.TargetAmount),
			cli.RenderProgressBar(g.ProgressPercent(), 20))
		if g.Remaining() == 0 {
			fmt.Println("  " + cli.RenderStatus("Goal reached!", 0))
		}
		return nil
	})
}

func runGoalsRemove(_ *cobra.Command, args []string) error {
	return withGoals(func(t *goals.Tracker) error {
		g, err := t.Resolve(args[0])
		if err != nil {
			return err
		}
		if err := t.Remove(g.ID); err != nil {
			return err
		}
		fmt.Printf("  Removed %s\n", g.Name)
		return nil
	})
}

func runGoalsHistory(_ *cobra.Command, args []string) error {
	return withGoals(func(t *goals.Tracker) error {
		g, err := t.Resolve(args[0])
		if err != nil {
			return err
		}
		hist, err := t.History(g.ID)
		if err != nil {
			return err
		}
		if len(hist) == 0 {
			fmt.Printf("\n  No contributions to %s yet.\n", g.Name)
			return nil
		}
		rows := make([][]string, 0, len(hist))
		for _, c := range hist {
			rows = append(rows, []string{c.At.Local().Format("2006-01-02 15:04"), cli.FormatCurrency(c.Amount)})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   g.Name,
			Headers: []string{"When", "Amount"},
			Rows:    rows,
		}))
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
