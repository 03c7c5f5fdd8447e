package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/session"
	"github.com/theirongolddev/fincoach/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestApp(t *testing.T, validate KeyValidator) App {
	t.Helper()
	t.Setenv(config.EnvAIKey, "")
	if validate == nil {
		validate = func(context.Context, string, string, string) error { return nil }
	}
	a := NewApp(Options{
		Session:    session.New("test", session.Options{}),
		Config:     config.DefaultConfig(),
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Validate:   validate,
	})
	next, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(App)
}

func withStudent(t *testing.T, a App) App {
	t.Helper()
	p, b := model.SampleProfile(model.Student)
	if err := a.sess.SetProfile(p); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	a.sess.SetExpenses(b)
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = a.Update(key(k))
		a = next.(App)
	}
	return a, cmd
}

// runCmd executes cmd and any batched commands, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliver(t *testing.T, a App, cmd tea.Cmd, want func(tea.Msg) bool) App {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if want(msg) {
			next, _ := a.Update(msg)
			return next.(App)
		}
	}
	t.Fatal("expected message was not produced")
	return a
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("x past the last tab = %d, want -1", got)
		}
	}
}

func TestChatInputCapturesLetters(t *testing.T) {
	a := newTestApp(t, nil)
	a, _ = press(t, a, "b")
	if a.activeTab != tabChat {
		t.Fatalf("activeTab = %d, want chat while typing", a.activeTab)
	}
	if got := a.chat.input.Value(); got != "b" {
		t.Fatalf("input = %q, want %q", got, "b")
	}
}

func TestTabShortcutsAfterLeavingInput(t *testing.T) {
	a := newTestApp(t, nil)
	a, _ = press(t, a, "esc", "g")
	if a.activeTab != tabGoals {
		t.Fatalf("activeTab = %d, want goals", a.activeTab)
	}
	a, _ = press(t, a, "x")
	if a.activeTab != tabSettings {
		t.Fatalf("activeTab = %d, want settings", a.activeTab)
	}
	a, _ = press(t, a, "c")
	if a.activeTab != tabChat || !a.chat.input.Focused() {
		t.Fatal("returning to chat should focus the input")
	}
}

func TestChatRoundTrip(t *testing.T) {
	a := withStudent(t, newTestApp(t, nil))
	a.chat.input.SetValue("how can I save money?")

	a, cmd := press(t, a, "enter")
	if !a.chat.busy || a.chat.pending == "" {
		t.Fatal("expected a pending question")
	}
	if a.chat.input.Value() != "" {
		t.Fatal("input should be cleared after sending")
	}

	a = deliver(t, a, cmd, func(m tea.Msg) bool { _, ok := m.(chatReplyMsg); return ok })
	if a.chat.busy {
		t.Fatal("busy should clear once the reply arrives")
	}
	hist := a.sess.History()
	if len(hist) != 2 || hist[0].Role != model.RoleUser || hist[1].Role != model.RoleAssistant {
		t.Fatalf("history = %+v", hist)
	}
	if !strings.Contains(hist[1].Text, "Suggested monthly saving") {
		t.Errorf("student savings reply = %q", hist[1].Text)
	}
	if !strings.Contains(a.View(), "how can I save money?") {
		t.Error("transcript should show the question")
	}
}

func TestChatWithoutProfile(t *testing.T) {
	a := newTestApp(t, nil)
	a.chat.input.SetValue("hello")
	a, cmd := press(t, a, "enter")
	if cmd != nil || a.chat.busy {
		t.Fatal("no request should be sent without a profile")
	}
	if a.notice == "" {
		t.Fatal("expected a notice asking for a profile")
	}
}

func TestSuggestionShortcut(t *testing.T) {
	a := withStudent(t, newTestApp(t, nil))
	a, cmd := press(t, a, "esc", "2")
	if a.chat.pending != suggestionsFor(model.UserProfile{Demographic: model.Student}, true)[1] {
		t.Fatalf("pending = %q", a.chat.pending)
	}
	a = deliver(t, a, cmd, func(m tea.Msg) bool { _, ok := m.(chatReplyMsg); return ok })
	if len(a.sess.History()) != 2 {
		t.Fatal("suggestion should be answered")
	}
}

func TestApplyProfileForm(t *testing.T) {
	a := newTestApp(t, nil)
	*a.vals = formValues{age: "17", income: "1000", demographic: "student", risk: "moderate"}
	if err := a.applyForm(formProfile); err == nil {
		t.Fatal("age 17 should be rejected")
	}
	if _, ok := a.sess.Profile(); ok {
		t.Fatal("invalid profile must not be stored")
	}

	*a.vals = formValues{age: "25", income: "50,000", demographic: "professional", risk: "aggressive", goals: " buy a house "}
	if err := a.applyForm(formProfile); err != nil {
		t.Fatalf("applyForm: %v", err)
	}
	p, _ := a.sess.Profile()
	if p.Income != 50000 || p.Goals != "buy a house" || p.RiskTolerance != model.Aggressive {
		t.Fatalf("profile = %+v", p)
	}
}

func TestExpenseFormValues(t *testing.T) {
	v := &formValues{}
	current, _ := model.NewExpenseBreakdown(model.Expense{Category: "Gym", Amount: 800})
	newExpenseForm(v, current)

	if v.categories[0] != "Gym" || v.amounts[0] != "800" {
		t.Fatalf("existing categories should come first, got %v %v", v.categories, v.amounts)
	}
	if len(v.categories) != 1+len(model.DefaultCategories) {
		t.Fatalf("categories = %d, want %d", len(v.categories), 1+len(model.DefaultCategories))
	}
	v.amounts[1] = "4,000"
	v.extraName, v.extraValue = "Pets", "300"

	b, err := v.expenses()
	if err != nil {
		t.Fatalf("expenses: %v", err)
	}
	if b.Len() != 3 || b.Total() != 5100 {
		t.Fatalf("breakdown = %+v total %v", b.Items(), b.Total())
	}

	v.extraName = "gym"
	if _, err := v.expenses(); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("duplicate category err = %v, want invalid input", err)
	}
}

func TestGoalForms(t *testing.T) {
	a := newTestApp(t, nil)
	*a.vals = formValues{goalName: "Laptop", goalTarget: "60000", goalMonthly: "5000", goalPriority: "high"}
	if err := a.applyForm(formGoal); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	g, ok := a.selectedGoal()
	if !ok || g.Name != "Laptop" {
		t.Fatalf("selected goal = %+v", g)
	}

	a.vals.goalID = g.ID
	a.vals.contribution = "15000"
	if err := a.applyForm(formContribute); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	g, _ = a.selectedGoal()
	if g.AccumulatedAmount != 15000 {
		t.Fatalf("accumulated = %v, want 15000", g.AccumulatedAmount)
	}

	a.vals.confirm = false
	if err := a.applyForm(formDeleteGoal); err != nil || a.goalCount() != 1 {
		t.Fatal("declined delete should keep the goal")
	}
	a.vals.confirm = true
	if err := a.applyForm(formDeleteGoal); err != nil || a.goalCount() != 0 {
		t.Fatal("confirmed delete should remove the goal")
	}
}

func TestSettingsRejectedKeyIsNotSaved(t *testing.T) {
	a := newTestApp(t, func(context.Context, string, string, string) error {
		return errors.New("401 unauthorized")
	})
	a.activeTab = tabSettings
	a.chat.input.Blur()
	a.settings.cursor = settingsFieldAPIKey

	a, _ = press(t, a, "enter")
	if !a.settings.editing {
		t.Fatal("enter should start editing")
	}
	a.settings.input.SetValue("sk-bad")
	a, cmd := press(t, a, "enter")
	if !a.settings.validating {
		t.Fatal("a new key should be validated first")
	}
	a = deliver(t, a, cmd, func(m tea.Msg) bool { _, ok := m.(keyValidatedMsg); return ok })

	if a.settings.saveErr == nil {
		t.Fatal("expected a save error")
	}
	if a.cfg.AI.APIKey != "" {
		t.Fatal("rejected key must not reach the config")
	}
	if _, err := os.Stat(a.cfgPath); !os.IsNotExist(err) {
		t.Fatalf("config file should not be written, stat err = %v", err)
	}
}

func TestSettingsAcceptedKeyIsSaved(t *testing.T) {
	a := newTestApp(t, nil)
	a.activeTab = tabSettings
	a.chat.input.Blur()
	a.settings.cursor = settingsFieldAPIKey

	a, _ = press(t, a, "enter")
	a.settings.input.SetValue("sk-good-key-123456")
	a, cmd := press(t, a, "enter")
	a = deliver(t, a, cmd, func(m tea.Msg) bool { _, ok := m.(keyValidatedMsg); return ok })

	if a.settings.saveErr != nil {
		t.Fatalf("saveErr = %v", a.settings.saveErr)
	}
	saved, err := config.LoadFrom(a.cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.AI.APIKey != "sk-good-key-123456" || !saved.AI.Enabled {
		t.Fatalf("saved AI config = %+v", saved.AI)
	}
}

func TestSettingsUnknownTheme(t *testing.T) {
	a := newTestApp(t, nil)
	a.activeTab = tabSettings
	a.chat.input.Blur()
	a.settings.cursor = settingsFieldTheme

	a, _ = press(t, a, "enter")
	a.settings.input.SetValue("neon")
	a, _ = press(t, a, "enter")
	if a.settings.saveErr == nil || a.cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("unknown theme should be rejected, err=%v theme=%q", a.settings.saveErr, a.cfg.Appearance.Theme)
	}
}

func TestViewRendersEachTab(t *testing.T) {
	a := withStudent(t, newTestApp(t, nil))
	if _, err := a.sess.Goals().Add("Laptop", 50000, 5000, model.PriorityHigh); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	want := map[int]string{
		tabChat:     "Conversation",
		tabBudget:   "Share of income",
		tabInvest:   "Suggested allocation",
		tabGoals:    "Laptop",
		tabSettings: "AI API key",
	}
	for tab, s := range want {
		a.activeTab = tab
		if out := a.View(); !strings.Contains(out, s) {
			t.Errorf("tab %d view missing %q", tab, s)
		}
	}
}

func TestGoalDetailShowsProgress(t *testing.T) {
	a := withStudent(t, newTestApp(t, nil))
	g, err := a.sess.Goals().Add("Laptop", 50000, 5000, model.PriorityHigh)
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if _, err := a.sess.Goals().UpdateProgress(g.ID, 25000); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	out := a.renderGoalsTab(100)
	if !strings.Contains(out, "Progress") || !strings.Contains(out, "█") {
		t.Fatalf("goal detail missing progress bar:\n%s", out)
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t, nil)
	next, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if out := next.(App).View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("narrow view = %q", out)
	}
}

func TestLoadSampleKeepsDemographic(t *testing.T) {
	a := withStudent(t, newTestApp(t, nil))
	a.sess.SetExpenses(model.ExpenseBreakdown{})
	a = a.loadSample()
	p, _ := a.sess.Profile()
	if p.Demographic != model.Student || a.sess.Expenses().Len() == 0 {
		t.Fatalf("sample = %+v with %d expenses", p, a.sess.Expenses().Len())
	}
}
