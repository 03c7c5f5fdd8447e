package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/logger"
	"github.com/theirongolddev/fincoach/internal/tui"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg := appCfg
	apiKey := cfg.AI.APIKey
	modelName := config.GetAIModel(cfg)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fincoach").
				Description("A few settings, then you're ready.\nEverything can be changed later in config.toml or the Settings tab."),
			huh.NewInput().
				Title("Currency symbol").
				Value(&cfg.General.CurrencySymbol).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("currency symbol cannot be empty")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Show large amounts in lakh/crore?").
				Value(&cfg.General.CompactUnits),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&cfg.Appearance.Theme),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use an AI backend for answers?").
				Description("Built-in guidance is always used when the backend is off or unavailable.").
				Value(&cfg.AI.Enabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description("OpenAI-compatible key. It is checked before anything is saved.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Model").
				Value(&modelName),
		).WithHideFunc(func() bool { return !cfg.AI.Enabled }),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	cfg.AI.APIKey = strings.TrimSpace(apiKey)
	cfg.AI.Model = strings.TrimSpace(modelName)
	if cfg.AI.Enabled {
		fmt.Println("  Checking API key...")
	}
	if err := saveSetup(cmd.Context(), appCfgPath, cfg, tui.ValidateKey); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", appCfgPath)
	fmt.Println("  Run `fincoach profile init` to create your profile, or just `fincoach` to start.")
	fmt.Println()
	return nil
}

// saveSetup checks the key typed into the wizard, not one from the
// environment, and writes cfg only when the check passes.
func saveSetup(ctx context.Context, path string, cfg config.Config, validate tui.KeyValidator) error {
	if cfg.AI.Enabled {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := validate(ctx, cfg.AI.APIKey, config.GetAIBaseURL(cfg), config.GetAIModel(cfg)); err != nil {
			logger.Get().Info("api key validation failed", zap.Error(err))
			return fmt.Errorf("api key check failed, nothing was saved: %w", err)
		}
	}
	return config.SaveTo(path, cfg)
}
