package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagInitDemographic string
	flagInitForce       bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and validate the profile file",
	RunE:  runProfileShow,
}

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter profile file from a sample",
	RunE:  runProfileInit,
}

func init() {
	profileInitCmd.Flags().StringVarP(&flagInitDemographic, "demographic", "d", string(model.Professional), "student or professional")
	profileInitCmd.Flags().BoolVarP(&flagInitForce, "force", "f", false, "Overwrite an existing profile file")
	profileCmd.AddCommand(profileInitCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(_ *cobra.Command, _ []string) error {
	sess, err := loadSession(nil)
	if err != nil {
		return err
	}
	p, err := requireProfile(sess)
	if err != nil {
		return err
	}

	goals := p.Goals
	if goals == "" {
		goals = "-"
	}
	fmt.Println()
	if flagSample == "" {
		fmt.Printf("  Profile file: %s\n\n", profilePath())
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Profile",
		Rows: [][]string{
			{"Age", strconv.Itoa(p.Age)},
			{"Monthly income", cli.FormatCurrency(p.Income)},
			{"Demographic", p.Demographic.Title()},
			{"Risk tolerance", string(p.Risk())},
			{"Goals", goals},
		},
	}))

	exp := sess.Expenses()
	if exp.Len() > 0 {
		rows := make([][]string, 0, exp.Len()+2)
		for _, e := range exp.Items() {
			rows = append(rows, []string{e.Category, cli.FormatCurrency(e.Amount)})
		}
		rows = append(rows, []string{"---"}, []string{"Total", cli.FormatCurrency(exp.Total())})
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Monthly expenses",
			Headers: []string{"Category", "Amount"},
			Rows:    rows,
		}))
	}
	fmt.Println()
	fmt.Println("  " + cli.RenderStatus("valid", 0))
	return nil
}

func runProfileInit(_ *cobra.Command, _ []string) error {
	d, err := model.ParseDemographic(flagInitDemographic)
	if err != nil {
		return err
	}
	path := profilePath()
	if _, err := os.Stat(path); err == nil && !flagInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	p, b := model.SampleProfile(d)
	if err := config.SaveProfile(path, p, b); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s profile to %s\n", d.Title(), path)
	fmt.Println("  Edit it, then run `fincoach budget`.")
	return nil
}
