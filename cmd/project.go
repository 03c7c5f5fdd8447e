package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/projection"

	"github.com/spf13/cobra"
)

var (
	flagProjMonthly float64
	flagProjRate    float64
	flagProjYears   int
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the growth of a monthly investment",
	Long: `Project the future value of a fixed monthly investment.

Without --monthly, 20% of the profile's income is used.`,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().Float64VarP(&flagProjMonthly, "monthly", "m", 0, "Monthly investment amount")
	projectCmd.Flags().Float64VarP(&flagProjRate, "rate", "r", 12, "Expected annual return in percent")
	projectCmd.Flags().IntVarP(&flagProjYears, "years", "y", 10, "Investment horizon in years")
	rootCmd.AddCommand(projectCmd)
}

func runProject(_ *cobra.Command, _ []string) error {
	sess, err := loadSession(nil)
	if err != nil {
		return err
	}
	monthly := flagProjMonthly
	var alloc *advisor.Allocation
	if p, ok := sess.Profile(); ok {
		if monthly == 0 {
			monthly = p.Income * 0.2
		}
		a := advisor.AllocationFor(p.Risk())
		alloc = &a
	} else if monthly == 0 {
		return errNoProfile
	}

	proj, err := projection.Project(monthly, flagProjRate, flagProjYears)
	if err != nil {
		return err
	}
	schedule, err := projection.Schedule(monthly, flagProjRate, flagProjYears)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTION  %s/month at %s for %dy",
		cli.FormatCurrency(monthly), cli.FormatPercent(flagProjRate), flagProjYears)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Rows: [][]string{
			{"Total invested", cli.FormatCurrency(proj.TotalInvested)},
			{"Future value", cli.FormatCurrency(proj.FutureValue)},
			{"Returns", cli.FormatCurrency(proj.Returns)},
			{"Return on invested", cli.FormatPercent(proj.ReturnPercent)},
		},
	}))
	fmt.Println()

	if len(schedule) > 0 {
		rows := make([][]string, 0, len(schedule))
		values := make([]float64, 0, len(schedule))
		for _, pt := range schedule {
			rows = append(rows, []string{
				strconv.Itoa(pt.Year),
				cli.FormatCurrency(pt.Invested),
				cli.FormatCurrency(pt.Value),
			})
			values = append(values, pt.Value)
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By year",
			Headers: []string{"Year", "Invested", "Value"},
			Rows:    rows,
		}))
		fmt.Printf("  Growth  %s\n\n", cli.RenderSparkline(values))
	}

	if alloc != nil {
		fmt.Println("  " + cli.RenderHeader("Suggested allocation"))
		fmt.Printf("  Equity %s   Debt %s   Gold %s\n\n",
			cli.FormatPercent(alloc.Equity), cli.FormatPercent(alloc.Debt), cli.FormatPercent(alloc.Gold))
	}
	return nil
}
