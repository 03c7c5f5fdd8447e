// Package config loads and saves fincoach settings and profile files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/fincoach/internal/budget"
	"github.com/theirongolddev/fincoach/internal/model"
)

const appName = "fincoach"

// Env vars that take precedence over the config file.
const (
	EnvAIKey     = "FINCOACH_AI_KEY"
	EnvAIBaseURL = "FINCOACH_AI_BASE_URL"
	EnvAIModel   = "FINCOACH_AI_MODEL"
)

// Config holds all fincoach configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Profile    ProfileConfig    `toml:"profile"`
	AI         AIConfig         `toml:"ai"`
	Policy     budget.Policy    `toml:"policy"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	CurrencySymbol string `toml:"currency_symbol"`
	CompactUnits   bool   `toml:"compact_units"`
	ExportDir      string `toml:"export_dir,omitempty"`
	DataDir        string `toml:"data_dir,omitempty"`
}

// ProfileConfig controls profile forms and the default profile file.
type ProfileConfig struct {
	Path         string   `toml:"path,omitempty"`
	Demographics []string `toml:"demographics,omitempty"`
}

// AIConfig holds settings for the optional text-generation backend.
type AIConfig struct {
	Enabled    bool   `toml:"enabled"`
	APIKey     string `toml:"api_key,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
	Model      string `toml:"model,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ServerConfig holds settings for the browser API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `toml:"level"`
	File        string `toml:"file,omitempty"`
	Development bool   `toml:"development"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			CurrencySymbol: "₹",
			CompactUnits:   true,
		},
		AI: AIConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			TimeoutSec: 15,
		},
		Policy: budget.DefaultPolicy(),
		Server: ServerConfig{
			Addr: "127.0.0.1:8484",
		},
		Log: LogConfig{
			Level: "info",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns where goals and logs are kept.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// ExportDir returns where JSON exports are written.
func ExportDir(cfg Config) string {
	if cfg.General.ExportDir != "" {
		return cfg.General.ExportDir
	}
	return "."
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := writeTOML(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// writeTOML encodes v to path with owner-only permissions. A failed close
// is reported, since it can mean the data never reached disk.
func writeTOML(path string, v any) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen path
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	return toml.NewEncoder(f).Encode(v)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// GetAIKey returns the API key from env var or config, in that order.
func GetAIKey(cfg Config) string {
	if key := os.Getenv(EnvAIKey); key != "" {
		return key
	}
	return cfg.AI.APIKey
}

// GetAIBaseURL returns the backend base URL from env var or config.
func GetAIBaseURL(cfg Config) string {
	if u := os.Getenv(EnvAIBaseURL); u != "" {
		return u
	}
	return cfg.AI.BaseURL
}

// GetAIModel returns the backend model name from env var or config.
func GetAIModel(cfg Config) string {
	if m := os.Getenv(EnvAIModel); m != "" {
		return m
	}
	return cfg.AI.Model
}

// AITimeout returns the backend call budget.
func AITimeout(cfg Config) time.Duration {
	if cfg.AI.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(cfg.AI.TimeoutSec) * time.Second
}

// Demographics returns the demographics offered by forms.
// Unknown names are skipped; an empty list enables all of them.
func Demographics(cfg Config) []model.Demographic {
	var out []model.Demographic
	for _, name := range cfg.Profile.Demographics {
		if d, err := model.ParseDemographic(name); err == nil {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return model.Demographics
	}
	return out
}
