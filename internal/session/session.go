// Package session holds the state one user builds up while using fincoach.
//
// A Session owns its profile, expenses, goals and transcript. Metrics are
// never stored; every read recomputes them from the current profile and
// expenses.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/budget"
	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/model"
)

// ErrNoProfile is returned by operations that need a profile first.
var ErrNoProfile = errors.New("session: profile not set")

// Session is a single user's working state.
type Session struct {
	ID string

	mu        sync.Mutex
	profile   *model.UserProfile
	expenses  model.ExpenseBreakdown
	history   []model.ChatMessage
	analyzer  *budget.Analyzer
	responder *advisor.Responder
	goals     *goals.Tracker
	nowFn     func() time.Time
	touched   time.Time
}

// Options configures a new session.
type Options struct {
	Policy    budget.Policy
	Responder *advisor.Responder
	// Goals defaults to an in-memory tracker.
	Goals *goals.Tracker
}

// New returns an empty session.
func New(id string, opts Options) *Session {
	if opts.Responder == nil {
		opts.Responder = advisor.NewResponder(nil, 0, nil)
	}
	if opts.Goals == nil {
		opts.Goals = goals.NewTracker(goals.NewMemoryStore())
	}
	if opts.Policy.Guidelines == nil {
		opts.Policy = budget.DefaultPolicy()
	}
	return &Session{
		ID:        id,
		analyzer:  budget.NewAnalyzer(opts.Policy),
		responder: opts.Responder,
		goals:     opts.Goals,
		nowFn:     time.Now,
		touched:   time.Now(),
	}
}

func (s *Session) touch() { s.touched = s.nowFn() }

// LastUsed reports when the session was last read or written.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// SetProfile validates and stores the profile.
func (s *Session) SetProfile(p model.UserProfile) error {
	p, err := p.Normalize()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	s.touch()
	return nil
}

// Profile returns the profile, if one is set.
func (s *Session) Profile() (model.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return model.UserProfile{}, false
	}
	return *s.profile, true
}

// SetExpenses replaces the expense breakdown.
func (s *Session) SetExpenses(b model.ExpenseBreakdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = b.Clone()
	s.touch()
}

// SetExpense updates or adds one category.
func (s *Session) SetExpense(category string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.expenses.Set(category, amount)
}

// Expenses returns a copy of the expense breakdown.
func (s *Session) Expenses() model.ExpenseBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.Clone()
}

// Analyzer returns the session's budget analyzer.
func (s *Session) Analyzer() *budget.Analyzer { return s.analyzer }

// Goals returns the session's goal tracker.
func (s *Session) Goals() *goals.Tracker { return s.goals }

// Report is a full budget evaluation.
type Report struct {
	Metrics         model.BudgetMetrics `json:"metrics"`
	Rating          budget.Rating       `json:"rating"`
	Violations      []budget.Violation  `json:"violations"`
	Recommendations []string            `json:"recommendations"`
	Summary         string              `json:"summary"`
}

// Metrics recomputes budget metrics from the current profile and expenses.
func (s *Session) Metrics() (model.BudgetMetrics, error) {
	p, ok := s.Profile()
	if !ok {
		return model.BudgetMetrics{}, ErrNoProfile
	}
	return budget.CalculateMetrics(p.Income, s.Expenses())
}

// Report evaluates the current budget.
func (s *Session) Report() (Report, error) {
	p, ok := s.Profile()
	if !ok {
		return Report{}, ErrNoProfile
	}
	expenses := s.Expenses()
	m, err := budget.CalculateMetrics(p.Income, expenses)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Metrics:         m,
		Rating:          s.analyzer.ClassifySavingsRate(m.SavingsRate),
		Violations:      s.analyzer.FindThresholdViolations(expenses, p.Income),
		Recommendations: s.analyzer.Recommendations(p, m),
		Summary:         s.analyzer.Summary(p, expenses, m),
	}, nil
}

// Ask answers a question and appends both turns to the transcript.
func (s *Session) Ask(ctx context.Context, query string) (advisor.Reply, error) {
	p, ok := s.Profile()
	if !ok {
		return advisor.Reply{}, ErrNoProfile
	}
	if query == "" {
		return advisor.Reply{}, model.Invalid("message is empty")
	}

	chat := advisor.Context{History: s.History()}
	if m, err := budget.CalculateMetrics(p.Income, s.Expenses()); err == nil && s.Expenses().Len() > 0 {
		chat.Metrics = &m
	}
	if gs, err := s.goals.List(); err == nil {
		chat.Goals = gs
	}

	reply := s.responder.Respond(ctx, query, p, p.Risk(), chat)

	s.mu.Lock()
	now := s.nowFn()
	s.history = append(s.history,
		model.ChatMessage{Role: model.RoleUser, Text: query, At: now},
		model.ChatMessage{Role: model.RoleAssistant, Text: reply.Text, At: now},
	)
	s.touch()
	s.mu.Unlock()
	return reply, nil
}

// History returns a copy of the transcript.
func (s *Session) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory empties the transcript.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.touch()
}

// Snapshot is the exportable state of a session.
type Snapshot struct {
	ExportedAt time.Time           `json:"exported_at"`
	Profile    *model.UserProfile  `json:"profile"`
	Expenses   []model.Expense     `json:"expenses"`
	Report     *Report             `json:"report,omitempty"`
	Goals      []model.SavingsGoal `json:"goals"`
	Chat       []model.ChatMessage `json:"chat"`
}

// Snapshot collects the current state for export.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ExportedAt: s.nowFn(),
		Expenses:   s.Expenses().Items(),
		Chat:       s.History(),
	}
	if p, ok := s.Profile(); ok {
		snap.Profile = &p
		if r, err := s.Report(); err == nil {
			snap.Report = &r
		}
	}
	if gs, err := s.goals.List(); err == nil {
		snap.Goals = gs
	}
	return snap
}
