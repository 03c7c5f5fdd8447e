package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincoach/internal/logger"
	"github.com/theirongolddev/fincoach/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive assistant",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	tracker, closeFn, err := openGoals()
	if err != nil {
		return err
	}
	defer closeFn()

	sess, err := loadSession(tracker)
	if err != nil {
		return err
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Session:     sess,
		Config:      appCfg,
		ConfigPath:  appCfgPath,
		ProfilePath: profilePath(),
		Log:         logger.Get(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
