package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/session"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const chatScrollStep = 5

// chatState tracks the chat tab.
type chatState struct {
	input   textinput.Model
	busy    bool
	pending string // question waiting for its reply
	scroll  int    // lines scrolled up from the bottom
}

func newChatState() chatState {
	ti := textinput.New()
	ti.Placeholder = "Ask about saving, investing or your budget…"
	ti.CharLimit = 500
	ti.Prompt = "› "
	return chatState{input: ti}
}

func suggestionsFor(p model.UserProfile, ok bool) []string {
	if ok && p.IsStudent() {
		return []string{
			"How can I save money as a student?",
			"Where should I invest small amounts?",
			"Can you review my budget?",
			"How big should my emergency fund be?",
		}
	}
	return []string{
		"How can I increase my savings?",
		"How should I invest for my risk level?",
		"Can you review my budget?",
		"How can I save on tax?",
	}
}

func askCmd(sess *session.Session, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := sess.Ask(ctx, query)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (a App) send(query string) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" || a.chat.busy {
		return a, nil
	}
	if _, ok := a.sess.Profile(); !ok {
		a.notice = "Set up your profile first (p on the Budget tab)"
		return a, nil
	}
	a.chat.busy = true
	a.chat.pending = query
	a.chat.scroll = 0
	a.chat.input.Reset()
	return a, tea.Batch(askCmd(a.sess, query, a.askTimeout()), a.spinner.Tick)
}

func (a App) handleChatReply(msg chatReplyMsg) App {
	a.chat.busy = false
	a.chat.pending = ""
	switch {
	case msg.err != nil:
		a.notice = msg.err.Error()
	case msg.reply.Degraded:
		a.notice = "AI unavailable, answered from built-in guidance"
	}
	return a
}

func (a App) updateChatInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return a.send(a.chat.input.Value())
	case "esc":
		a.chat.input.Blur()
		return a, nil
	case "tab":
		return a.switchTab(tabBudget)
	case "shift+tab":
		return a.switchTab(tabSettings)
	case "pgup":
		a.chat.scroll += chatScrollStep
		return a, nil
	case "pgdown":
		a.chat.scroll -= chatScrollStep
		if a.chat.scroll < 0 {
			a.chat.scroll = 0
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.chat.input, cmd = a.chat.input.Update(msg)
	return a, cmd
}

func (a App) updateChatKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "enter", "/":
		a.chat.input.Focus()
		return a, a.chat.input.Cursor.BlinkCmd(), true
	case "1", "2", "3", "4":
		p, ok := a.sess.Profile()
		s := suggestionsFor(p, ok)
		next, cmd := a.send(s[int(key[0]-'1')])
		return next, cmd, true
	case "C":
		a.sess.ClearHistory()
		a.chat.scroll = 0
		return a, nil, true
	case "k", "up", "pgup":
		a.chat.scroll += chatScrollStep
		return a, nil, true
	case "j", "down", "pgdown":
		a.chat.scroll -= chatScrollStep
		if a.chat.scroll < 0 {
			a.chat.scroll = 0
		}
		return a, nil, true
	}
	return a, nil, false
}

// transcriptLines renders the conversation wrapped to width.
func (a App) transcriptLines(width int) []string {
	t := theme.Active
	youStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	coachStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(width)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var lines []string
	add := func(label string, style lipgloss.Style, text string) {
		lines = append(lines, style.Render(label))
		lines = append(lines, strings.Split(textStyle.Render(text), "\n")...)
		lines = append(lines, "")
	}

	for _, m := range a.sess.History() {
		if m.Role == model.RoleUser {
			add("You", youStyle, m.Text)
		} else {
			add("Coach", coachStyle, m.Text)
		}
	}
	if a.chat.pending != "" {
		add("You", youStyle, a.chat.pending)
		lines = append(lines, a.spinner.View()+dimStyle.Render(" thinking…"))
	}
	return lines
}

func (a App) renderChatTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	bodyH := h - 2 - 3 - 2 // two card borders, input card, title
	if bodyH < 3 {
		bodyH = 3
	}

	lines := a.transcriptLines(innerW)
	if len(lines) == 0 {
		p, ok := a.sess.Profile()
		lines = append(lines, labelStyle.Render("Ask me anything about your money. Try one of these:"), "")
		for i, s := range suggestionsFor(p, ok) {
			lines = append(lines, keyStyle.Render(fmt.Sprintf("[%d] ", i+1))+labelStyle.Render(s))
		}
		if !ok {
			lines = append(lines, "", labelStyle.Render("Tip: set up your profile first with [p] on the Budget tab."))
		}
	}

	scroll := a.chat.scroll
	if maxScroll := len(lines) - bodyH; scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	end := len(lines) - scroll
	start := end - bodyH
	if start < 0 {
		start = 0
	}
	visible := lines[start:end]

	title := "Conversation"
	if scroll > 0 {
		title = fmt.Sprintf("Conversation (↑%d)", scroll)
	}

	a.chat.input.Width = innerW - 4
	inputCard := components.ContentCard("", a.chat.input.View(), cw)

	return components.ContentCard(title, strings.Join(visible, "\n"), cw) + "\n" + inputCard
}
