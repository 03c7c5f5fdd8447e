package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/fincoach/internal/model"
)

// ProfileFile is the on-disk form of a profile and its monthly expenses.
type ProfileFile struct {
	Profile  model.UserProfile `toml:"profile"`
	Expenses []model.Expense   `toml:"expenses"`
}

// LoadProfile reads and validates a profile file.
func LoadProfile(path string) (model.UserProfile, model.ExpenseBreakdown, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-chosen profile path
	if err != nil {
		return model.UserProfile{}, model.ExpenseBreakdown{}, fmt.Errorf("reading profile: %w", err)
	}

	var pf ProfileFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return model.UserProfile{}, model.ExpenseBreakdown{}, fmt.Errorf("parsing profile: %w", err)
	}
	profile, err := pf.Profile.Normalize()
	if err != nil {
		return model.UserProfile{}, model.ExpenseBreakdown{}, fmt.Errorf("profile %s: %w", path, err)
	}
	expenses, err := model.NewExpenseBreakdown(pf.Expenses...)
	if err != nil {
		return model.UserProfile{}, model.ExpenseBreakdown{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, expenses, nil
}

// SaveProfile writes a profile file.
func SaveProfile(path string, p model.UserProfile, expenses model.ExpenseBreakdown) error {
	if err := writeTOML(path, ProfileFile{Profile: p, Expenses: expenses.Items()}); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}
