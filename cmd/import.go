package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/importer"
	"github.com/theirongolddev/fincoach/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagImportAmount   string
	flagImportCategory string
	flagImportDate     string
	flagImportSave     bool
	flagImportColumns  bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import expenses from a CSV file",
	Long: `Import expenses from a CSV file with a header row.

Amounts are summed per category. Rows whose amount is not a number are
skipped and reported. With --save the result replaces the expenses in the
profile file.`,
	Example: `  fincoach import bank.csv --amount-col Debit --category-col Type
  fincoach import bank.csv --columns`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportAmount, "amount-col", "Amount", "Column holding the amount")
	importCmd.Flags().StringVar(&flagImportCategory, "category-col", "Category", "Column holding the category")
	importCmd.Flags().StringVar(&flagImportDate, "date-col", "", "Column holding the date (optional)")
	importCmd.Flags().BoolVar(&flagImportSave, "save", false, "Write the imported expenses to the profile file")
	importCmd.Flags().BoolVar(&flagImportColumns, "columns", false, "List the file's columns and exit")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0]) //nolint:gosec // user-chosen import file
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	if flagImportColumns {
		cols, err := importer.Columns(f)
		if err != nil {
			return err
		}
		fmt.Println("  " + strings.Join(cols, ", "))
		return nil
	}

	res, err := importer.Import(f, importer.Mapping{
		Amount:   flagImportAmount,
		Category: flagImportCategory,
		Date:     flagImportDate,
	})
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	breakdown := res.Breakdown()
	logger.Get().Info("csv imported",
		zap.String("file", args[0]),
		zap.Int("rows", len(res.Rows)),
		zap.Int("dropped", res.Dropped()),
	)

	rows := make([][]string, 0, breakdown.Len())
	for _, e := range breakdown.Items() {
		rows = append(rows, []string{e.Category, cli.FormatCurrency(e.Amount)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", cli.FormatCurrency(breakdown.Total())})
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Imported %d rows", len(res.Rows)),
		Headers: []string{"Category", "Amount"},
		Rows:    rows,
	}))

	if res.Dropped() > 0 {
		fmt.Println()
		fmt.Println("  " + cli.RenderStatus(fmt.Sprintf("Skipped %d rows", res.Dropped()), 1))
		for _, s := range res.Skipped {
			fmt.Println(cli.RenderMuted(fmt.Sprintf("    line %d: %s", s.Line, s.Reason)))
		}
	}
	fmt.Println()

	if !flagImportSave {
		return nil
	}
	sess, err := loadSession(nil)
	if err != nil {
		return err
	}
	p, err := requireProfile(sess)
	if err != nil {
		return err
	}
	path := profilePath()
	if err := config.SaveProfile(path, p, breakdown); err != nil {
		return err
	}
	fmt.Printf("  Saved %d categories to %s\n", breakdown.Len(), path)
	return nil
}
