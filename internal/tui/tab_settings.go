package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	settingsFieldTheme = iota
	settingsFieldCurrency
	settingsFieldCompact
	settingsFieldAIEnabled
	settingsFieldAPIKey
	settingsFieldModel
	settingsFieldBaseURL
	settingsFieldExportDir
	settingsFieldCount // sentinel
)

const keyValidationTimeout = 20 * time.Second

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor     int
	editing    bool
	validating bool
	input      textinput.Model
	saved      bool
	saveErr    error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) > 12:
		return key[:6] + "..." + key[len(key)-4:]
	default:
		return "****"
	}
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		if a.settings.validating {
			return a, nil, true
		}
		next, cmd := a.settingsStartEdit()
		return next, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "₹"
		ti.SetValue(a.cfg.General.CurrencySymbol)
	case settingsFieldCompact:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.cfg.General.CompactUnits))
	case settingsFieldAIEnabled:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.cfg.AI.Enabled))
	case settingsFieldAPIKey:
		ti.Placeholder = "sk-... (empty to remove)"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(a.cfg.AI.APIKey)
	case settingsFieldModel:
		ti.Placeholder = "gpt-4o-mini"
		ti.SetValue(a.cfg.AI.Model)
	case settingsFieldBaseURL:
		ti.Placeholder = "https://api.openai.com/v1"
		ti.SetValue(a.cfg.AI.BaseURL)
	case settingsFieldExportDir:
		ti.Placeholder = "."
		ti.SetValue(a.cfg.General.ExportDir)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		return a.settingsSave()
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field. A new API key is checked against
// the backend first and only persisted once that succeeds.
func (a App) settingsSave() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return a, nil
		}
		cfg.Appearance.Theme = val
	case settingsFieldCurrency:
		if val == "" {
			a.settings.saveErr = fmt.Errorf("currency symbol cannot be empty")
			return a, nil
		}
		cfg.General.CurrencySymbol = val
	case settingsFieldCompact, settingsFieldAIEnabled:
		on, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("%q is not true or false", val)
			return a, nil
		}
		if a.settings.cursor == settingsFieldCompact {
			cfg.General.CompactUnits = on
		} else {
			if on && config.GetAIKey(cfg) == "" {
				a.settings.saveErr = fmt.Errorf("set an API key first")
				return a, nil
			}
			cfg.AI.Enabled = on
		}
	case settingsFieldAPIKey:
		if val == "" {
			cfg.AI.APIKey = ""
			cfg.AI.Enabled = false
			break
		}
		a.settings.validating = true
		return a, tea.Batch(a.validateKeyCmd(val), a.spinner.Tick)
	case settingsFieldModel:
		cfg.AI.Model = val
	case settingsFieldBaseURL:
		cfg.AI.BaseURL = val
	case settingsFieldExportDir:
		cfg.General.ExportDir = val
	}

	return a.persist(cfg), nil
}

func (a App) validateKeyCmd(key string) tea.Cmd {
	validate := a.validate
	baseURL := config.GetAIBaseURL(a.cfg)
	modelName := config.GetAIModel(a.cfg)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), keyValidationTimeout)
		defer cancel()
		return keyValidatedMsg{key: key, err: validate(ctx, key, baseURL, modelName)}
	}
}

func (a App) handleKeyValidated(msg keyValidatedMsg) App {
	a.settings.validating = false
	if msg.err != nil {
		a.settings.saveErr = fmt.Errorf("key rejected: %w", msg.err)
		a.log.Info("api key validation failed", zap.Error(msg.err))
		return a
	}
	cfg := a.cfg
	cfg.AI.APIKey = msg.key
	cfg.AI.Enabled = true
	a = a.persist(cfg)
	if a.settings.saveErr == nil {
		a.notice = "Key verified. Restart to chat with the AI backend."
	}
	return a
}

// persist writes cfg and applies the settings that take effect immediately.
func (a App) persist(cfg config.Config) App {
	if err := config.SaveTo(a.cfgPath, cfg); err != nil {
		a.settings.saveErr = err
		return a
	}
	a.cfg = cfg
	a.settings.saved = true
	theme.SetActive(cfg.Appearance.Theme)
	cli.CurrencySymbol = cfg.General.CurrencySymbol
	cli.CompactUnits = cfg.General.CompactUnits
	return a
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	exportDir := a.cfg.General.ExportDir
	if exportDir == "" {
		exportDir = "(current directory)"
	}
	fields := []struct{ label, value string }{
		{"Theme", a.cfg.Appearance.Theme},
		{"Currency", a.cfg.General.CurrencySymbol},
		{"Compact units", strconv.FormatBool(a.cfg.General.CompactUnits)},
		{"AI enabled", strconv.FormatBool(a.cfg.AI.Enabled)},
		{"AI API key", maskKey(config.GetAIKey(a.cfg))},
		{"AI model", config.GetAIModel(a.cfg)},
		{"AI base URL", config.GetAIBaseURL(a.cfg)},
		{"Export dir", exportDir},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}
		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	switch {
	case a.settings.validating:
		form.WriteString("\n" + a.spinner.View() + labelStyle.Render(" Checking key…"))
	case a.settings.saveErr != nil:
		form.WriteString("\n" + warnStyle.Render("Not saved: "+a.settings.saveErr.Error()))
	case a.settings.saved:
		form.WriteString("\n" + greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(a.cfgPath) + "\n")
	info.WriteString(labelStyle.Render("Data dir:     ") + valueStyle.Render(config.DataDir(a.cfg)) + "\n")
	profile := a.profilePath
	if profile == "" {
		profile = "(session only)"
	}
	info.WriteString(labelStyle.Render("Profile file: ") + valueStyle.Render(profile))

	return components.ContentCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("General", info.String(), cw)
}
