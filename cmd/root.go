// Package cmd implements the fincoach CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/llm"
	"github.com/theirongolddev/fincoach/internal/logger"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/session"
	"github.com/theirongolddev/fincoach/internal/store"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagProfile  string
	flagSample   string
	flagQuiet    bool
	flagLogLevel string
	flagLogFile  string
)

// Loaded by PersistentPreRunE before any command runs.
var (
	appCfg     config.Config
	appCfgPath string
)

var errNoProfile = errors.New("no profile loaded: pass --profile FILE, --sample student|professional, or run `fincoach profile init`")

var rootCmd = &cobra.Command{
	Use:               "fincoach",
	Short:             "Personal finance assistant",
	Long:              "Budget analysis, savings goals, investment projections and financial Q&A for students and professionals.",
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile TOML file")
	rootCmd.PersistentFlags().StringVar(&flagSample, "sample", "", "Use a sample profile (student or professional)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
}

func initApp(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	appCfgPath = flagConfig
	if appCfgPath == "" {
		appCfgPath = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(appCfgPath)
	if err != nil {
		return err
	}
	appCfg = cfg

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagQuiet {
		level = string(logger.ErrorLevel)
	}
	logFile := flagLogFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	// The TUI owns the terminal, so its logs always go to a file.
	if logFile == "" && (!cmd.HasParent() || cmd.Name() == "tui") {
		logFile = filepath.Join(config.DataDir(cfg), "fincoach.log")
	}
	// Info lines on stderr would interleave with command output.
	if logFile == "" && flagLogLevel == "" && cmd.Name() != "serve" && logger.ParseLevel(level) == logger.InfoLevel {
		level = string(logger.WarnLevel)
	}
	if err := logger.Init(cfg.Log.Development, logger.ParseLevel(level), logFile); err != nil {
		return err
	}

	cli.CurrencySymbol = cfg.General.CurrencySymbol
	cli.CompactUnits = cfg.General.CompactUnits
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// newResponder returns the answer path for this process. The hosted backend
// is used only when AI is enabled and a key is available.
func newResponder() *advisor.Responder {
	var backend advisor.Backend
	if appCfg.AI.Enabled {
		if c := llm.NewClient(config.GetAIKey(appCfg), config.GetAIBaseURL(appCfg), config.GetAIModel(appCfg)); c != nil {
			backend = c
		} else {
			logger.Get().Warn("ai enabled without an api key, using built-in guidance")
		}
	}
	return advisor.NewResponder(backend, config.AITimeout(appCfg), logger.Get())
}

// openGoals opens the persistent goal ledger under the data directory.
func openGoals() (*goals.Tracker, func(), error) {
	path := filepath.Join(config.DataDir(appCfg), "goals.db")
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening goals: %w", err)
	}
	logger.Get().Debug("goal ledger opened", zap.String("path", path))
	return goals.NewTracker(st), func() { _ = st.Close() }, nil
}

func profilePath() string {
	if flagProfile != "" {
		return flagProfile
	}
	if appCfg.Profile.Path != "" {
		return appCfg.Profile.Path
	}
	return filepath.Join(config.DataDir(appCfg), "profile.toml")
}

// loadSession builds a local session from --sample or the profile file.
// A missing default profile file leaves the session without a profile.
func loadSession(tracker *goals.Tracker) (*session.Session, error) {
	sess := session.New("local", session.Options{
		Policy:    appCfg.Policy,
		Responder: newResponder(),
		Goals:     tracker,
	})

	if flagSample != "" {
		d, err := model.ParseDemographic(flagSample)
		if err != nil {
			return nil, err
		}
		p, b := model.SampleProfile(d)
		if err := sess.SetProfile(p); err != nil {
			return nil, err
		}
		sess.SetExpenses(b)
		return sess, nil
	}

	path := profilePath()
	p, b, err := config.LoadProfile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && flagProfile == "":
		return sess, nil
	case err != nil:
		return nil, err
	}
	if err := sess.SetProfile(p); err != nil {
		return nil, err
	}
	sess.SetExpenses(b)
	logger.Get().Debug("profile loaded", zap.String("path", path), zap.Int("expenses", b.Len()))
	return sess, nil
}

func requireProfile(sess *session.Session) (model.UserProfile, error) {
	p, ok := sess.Profile()
	if !ok {
		return model.UserProfile{}, errNoProfile
	}
	return p, nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
