// Package tui provides the interactive Bubble Tea interface for fincoach.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/export"
	"github.com/theirongolddev/fincoach/internal/llm"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/session"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	tabChat = iota
	tabBudget
	tabInvest
	tabGoals
	tabSettings
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// KeyValidator checks an API key against the backend before it is saved.
type KeyValidator func(ctx context.Context, key, baseURL, modelName string) error

// ValidateKey calls the backend's model listing with key.
func ValidateKey(ctx context.Context, key, baseURL, modelName string) error {
	client := llm.NewClient(key, baseURL, modelName)
	if client == nil {
		return model.Invalid("api key is empty")
	}
	return client.Validate(ctx)
}

// Options configures a new App.
type Options struct {
	Session *session.Session
	Config  config.Config
	// ConfigPath is where settings are saved; empty uses the default path.
	ConfigPath string
	// ProfilePath is where the profile is saved with 'w'; empty disables it.
	ProfilePath string
	Validate    KeyValidator
	Log         *zap.Logger
}

// chatReplyMsg carries an advisor reply back to the UI.
type chatReplyMsg struct {
	reply advisor.Reply
	err   error
}

// keyValidatedMsg reports the outcome of an API key check.
type keyValidatedMsg struct {
	key string
	err error
}

// App is the root Bubble Tea model.
type App struct {
	sess        *session.Session
	cfg         config.Config
	cfgPath     string
	profilePath string
	validate    KeyValidator
	log         *zap.Logger

	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string

	chat     chatState
	invest   investState
	goals    goalsState
	settings settingsState
	spinner  spinner.Model

	form     *huh.Form
	formKind formKind
	vals     *formValues
}

// NewApp creates the TUI model over a session.
func NewApp(opts Options) App {
	if opts.Validate == nil {
		opts.Validate = ValidateKey
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.ConfigPath()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		sess:        opts.Session,
		cfg:         opts.Config,
		cfgPath:     opts.ConfigPath,
		profilePath: opts.ProfilePath,
		validate:    opts.Validate,
		log:         opts.Log,
		chat:        newChatState(),
		invest:      newInvestState(),
		spinner:     sp,
		vals:        &formValues{},
	}
	a.chat.input.Focus()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, a.chat.input.Cursor.BlinkCmd()}
	if _, ok := a.sess.Profile(); !ok {
		cmds = append(cmds, func() tea.Msg { return openProfileMsg{} })
	}
	return tea.Batch(cmds...)
}

// openProfileMsg asks the app to show the profile form on first run.
type openProfileMsg struct{}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case openProfileMsg:
		return a.openForm(formProfile)

	case chatReplyMsg:
		return a.handleChatReply(msg), nil

	case keyValidatedMsg:
		return a.handleKeyValidated(msg), nil

	case spinner.TickMsg:
		if a.chat.busy || a.settings.validating {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.activeTab == tabChat {
		var cmd tea.Cmd
		a.chat.input, cmd = a.chat.input.Update(msg)
		return a, cmd
	}
	if a.activeTab == tabSettings && a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		if key == "esc" {
			a.closeForm()
			return a, nil
		}
		return a.updateForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if a.activeTab == tabChat && a.chat.input.Focused() {
		return a.updateChatInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.notice = ""

	var (
		handled bool
		next    tea.Model
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabChat:
		next, cmd, handled = a.updateChatKeys(key)
	case tabBudget:
		next, cmd, handled = a.updateBudgetKeys(key)
	case tabInvest:
		next, cmd, handled = a.updateInvestKeys(key)
	case tabGoals:
		next, cmd, handled = a.updateGoalsKeys(key)
	case tabSettings:
		next, cmd, handled = a.updateSettingsKeys(key)
	}
	if handled {
		return next, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "tab", "right":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	case "shift+tab", "left":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabChat {
		a.chat.input.Focus()
		return a, a.chat.input.Cursor.BlinkCmd()
	}
	a.chat.input.Blur()
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.form != nil || a.showHelp {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabChat {
			a.chat.scroll += 3
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabChat {
			a.chat.scroll -= 3
			if a.chat.scroll < 0 {
				a.chat.scroll = 0
			}
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
	}
	return a, nil
}

// ─── Forms ──────────────────────────────────────────────────────

func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	var form *huh.Form
	switch kind {
	case formProfile:
		p, ok := a.sess.Profile()
		a.vals.fillProfile(p, ok, a.demographics()[0])
		form = newProfileForm(a.vals, a.demographics())
	case formExpenses:
		form = newExpenseForm(a.vals, a.sess.Expenses())
	case formGoal:
		form = newGoalForm(a.vals)
	case formContribute, formDeleteGoal:
		g, ok := a.selectedGoal()
		if !ok {
			return a, nil
		}
		if kind == formContribute {
			form = newContributeForm(a.vals, g)
		} else {
			form = newDeleteGoalForm(a.vals, g)
		}
	case formProjection:
		monthly := a.invest.monthly
		if p, ok := a.sess.Profile(); ok && monthly == 0 {
			monthly = p.Income * investableShare
		}
		a.vals.projMonthly = fmt.Sprintf("%.0f", monthly)
		a.vals.projRate = fmt.Sprintf("%g", a.invest.rate)
		a.vals.projYears = fmt.Sprintf("%d", a.invest.years)
		form = newProjectionForm(a.vals)
	default:
		return a, nil
	}

	a.chat.input.Blur()
	a.form = form.WithWidth(a.formWidth())
	a.formKind = kind
	return a, a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	if a.activeTab == tabChat {
		a.chat.input.Focus()
	}
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.closeForm()
		if err := a.applyForm(kind); err != nil {
			a.notice = err.Error()
		}
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// applyForm writes a completed form's values into the session.
func (a *App) applyForm(kind formKind) error {
	switch kind {
	case formProfile:
		p, err := a.vals.profile()
		if err != nil {
			return err
		}
		if err := a.sess.SetProfile(p); err != nil {
			return err
		}
		a.notice = "Profile saved"
	case formExpenses:
		b, err := a.vals.expenses()
		if err != nil {
			return err
		}
		a.sess.SetExpenses(b)
		a.notice = "Expenses updated"
	case formGoal:
		target, err := parseMoney(a.vals.goalTarget)
		if err != nil {
			return err
		}
		monthly, err := parseMoney(a.vals.goalMonthly)
		if err != nil {
			return err
		}
		g, err := a.sess.Goals().Add(a.vals.goalName, target, monthly, model.Priority(a.vals.goalPriority))
		if err != nil {
			return err
		}
		a.notice = "Added goal " + g.Name
	case formContribute:
		amt, err := parseMoney(a.vals.contribution)
		if err != nil {
			return err
		}
		g, err := a.sess.Goals().UpdateProgress(a.vals.goalID, amt)
		if err != nil {
			return err
		}
		a.notice = fmt.Sprintf("%s is %.0f%% funded", g.Name, g.ProgressPercent())
	case formDeleteGoal:
		if !a.vals.confirm {
			return nil
		}
		if err := a.sess.Goals().Remove(a.vals.goalID); err != nil {
			return err
		}
		a.goals.clamp(a.goalCount())
		a.notice = "Goal deleted"
	case formProjection:
		return a.invest.apply(a.vals)
	}
	return nil
}

func (a App) demographics() []model.Demographic {
	return config.Demographics(a.cfg)
}

func (a App) formWidth() int {
	w := a.contentWidth() - 6
	if w > 70 {
		w = 70
	}
	if w < 30 {
		w = 30
	}
	return w
}

// ─── Actions ────────────────────────────────────────────────────

func (a App) exportSnapshot() App {
	snap := a.sess.Snapshot()
	path, err := export.Write(config.ExportDir(a.cfg), snap, snap.ExportedAt)
	if err != nil {
		a.notice = "Export failed: " + err.Error()
		a.log.Warn("export failed", zap.Error(err))
		return a
	}
	a.notice = "Exported to " + path
	return a
}

func (a App) saveProfile() App {
	p, ok := a.sess.Profile()
	if !ok {
		a.notice = "Set up your profile first (p)"
		return a
	}
	if a.profilePath == "" {
		a.notice = "No profile file configured"
		return a
	}
	if err := config.SaveProfile(a.profilePath, p, a.sess.Expenses()); err != nil {
		a.notice = "Save failed: " + err.Error()
		return a
	}
	a.notice = "Profile written to " + a.profilePath
	return a
}

func (a App) loadSample() App {
	d := model.Professional
	if p, ok := a.sess.Profile(); ok {
		d = p.Demographic
	}
	p, b := model.SampleProfile(d)
	if err := a.sess.SetProfile(p); err != nil {
		a.notice = err.Error()
		return a
	}
	a.sess.SetExpenses(b)
	a.invest.monthly = 0
	a.notice = "Loaded the " + p.Demographic.Title() + " sample"
	return a
}

// ─── View ───────────────────────────────────────────────────────

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fincoach needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"c b i g x", "Jump to tab"},
			{"tab ← →", "Previous / Next tab"},
			{"esc", "Leave the chat input or close a form"},
		}},
		{"Chat", [][2]string{
			{"enter", "Send / focus input"},
			{"1-4", "Ask a suggested question"},
			{"pgup pgdn", "Scroll transcript"},
			{"C", "Clear transcript"},
		}},
		{"Budget & goals", [][2]string{
			{"p e", "Edit profile / expenses"},
			{"s", "Load sample data"},
			{"E w", "Export JSON / write profile file"},
			{"a + d", "Add / fund / delete goal"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		AI:      a.cfg.AI.Enabled && config.GetAIKey(a.cfg) != "",
		Busy:    a.chat.busy,
		Message: a.notice,
	}
	if p, ok := a.sess.Profile(); ok {
		info.Profile = fmt.Sprintf("%s · %d", p.Demographic.Title(), p.Age)
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	if a.form != nil {
		content = components.ContentCard(a.formTitle(), a.form.View(), cw)
	} else {
		switch a.activeTab {
		case tabChat:
			content = a.renderChatTab(cw, contentH)
		case tabBudget:
			content = a.renderBudgetTab(cw)
		case tabInvest:
			content = a.renderInvestTab(cw)
		case tabGoals:
			content = a.renderGoalsTab(cw)
		case tabSettings:
			content = a.renderSettingsTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) formTitle() string {
	switch a.formKind {
	case formProfile:
		return "Profile"
	case formExpenses:
		return "Expenses"
	case formGoal:
		return "New goal"
	case formContribute:
		return "Goal progress"
	case formDeleteGoal:
		return "Delete goal"
	case formProjection:
		return "Projection"
	}
	return ""
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// askTimeout bounds one chat turn; the responder applies its own shorter
// backend timeout inside it.
func (a App) askTimeout() time.Duration {
	return config.AITimeout(a.cfg) + 5*time.Second
}
