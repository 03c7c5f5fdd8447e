package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/theirongolddev/fincoach/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", appCfgPath)
	if _, err := os.Stat(appCfgPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("  Status: using defaults (no config file)")
	} else {
		fmt.Println("  Status: loaded")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency symbol: %s\n", cfg.General.CurrencySymbol)
	fmt.Printf("    Lakh/crore units: %v\n", cfg.General.CompactUnits)
	fmt.Printf("    Export directory: %s\n", config.ExportDir(cfg))
	fmt.Printf("    Data directory:   %s\n", config.DataDir(cfg))
	fmt.Println()

	fmt.Println("  [Profile]")
	fmt.Printf("    Profile file: %s\n", profilePath())
	demos := make([]string, 0, len(config.Demographics(cfg)))
	for _, d := range config.Demographics(cfg) {
		demos = append(demos, string(d))
	}
	fmt.Printf("    Demographics: %s\n", strings.Join(demos, ", "))
	fmt.Println()

	fmt.Println("  [AI]")
	fmt.Printf("    Enabled:  %v\n", cfg.AI.Enabled)
	if key := config.GetAIKey(cfg); key != "" {
		fmt.Printf("    API key:  %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key:  not configured")
	}
	fmt.Printf("    Base URL: %s\n", config.GetAIBaseURL(cfg))
	fmt.Printf("    Model:    %s\n", config.GetAIModel(cfg))
	fmt.Printf("    Timeout:  %s\n", config.AITimeout(cfg))
	fmt.Println()

	fmt.Println("  [Policy]")
	b := cfg.Policy.SavingsBands
	fmt.Printf("    Savings bands: low %.0f%%, good %.0f%%, excellent %.0f%%\n", b.Low, b.Good, b.Excellent)
	for _, g := range cfg.Policy.Guidelines {
		fmt.Printf("    %-14s max %.0f%% (%s)\n", g.Key, g.MaxRatio, strings.Join(g.Keywords, ", "))
	}
	fmt.Printf("    %-14s max %.0f%%\n", cfg.Policy.OtherKey, cfg.Policy.OtherMaxRatio)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `fincoach setup` to reconfigure.")
	return nil
}
