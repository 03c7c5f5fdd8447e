package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
)

var student = model.UserProfile{Age: 20, Income: 10000, Demographic: model.Student}

func TestSelectStudentSavings(t *testing.T) {
	s := NewSelector()
	got := s.Select("How do I save money?", student, model.Moderate, Context{})
	if !strings.Contains(got, "As a student") {
		t.Errorf("missing student savings branch:\n%s", got)
	}
	if !strings.Contains(got, "Suggested monthly saving: ₹2,000") {
		t.Errorf("missing income-scaled saving suggestion:\n%s", got)
	}
}

func TestClassifyOrder(t *testing.T) {
	s := NewSelector()
	cases := map[string]Intent{
		"How do I save money?":          IntentSavings,
		"should I SAVE or invest?":      IntentSavings,
		"Tell me about SIP":             IntentInvestment,
		"which mutual fund":             IntentInvestment,
		"investment budget":             IntentInvestment,
		"Review my monthly budget":      IntentBudget,
		"my spending is out of control": IntentBudget,
		"what if there is an emergency": IntentEmergency,
		"how can I reduce tax":          IntentTax,
		"hello there":                   IntentDefault,
		"":                              IntentDefault,
	}
	for q, want := range cases {
		if got := s.Classify(q); got != want {
			t.Errorf("Classify(%q) = %s, want %s", q, got, want)
		}
	}
}

func TestInvestmentScalesWithRisk(t *testing.T) {
	s := NewSelector()
	pro := model.UserProfile{Age: 30, Income: 100000, Demographic: model.Professional}

	moderate := s.Select("where to invest", pro, model.Moderate, Context{})
	if !strings.Contains(moderate, "Equity (60%): ₹12,000/month") {
		t.Errorf("moderate allocation:\n%s", moderate)
	}
	aggressive := s.Select("where to invest", pro, model.Aggressive, Context{})
	if !strings.Contains(aggressive, "Equity (80%): ₹16,000/month") {
		t.Errorf("aggressive allocation:\n%s", aggressive)
	}
	conservative := s.Select("where to invest", pro, model.Conservative, Context{})
	if !strings.Contains(conservative, "Debt (60%): ₹12,000/month") {
		t.Errorf("conservative allocation:\n%s", conservative)
	}
}

func TestSelectUsesProfileRiskWhenUnset(t *testing.T) {
	s := NewSelector()
	pro := model.UserProfile{Age: 30, Income: 100000, Demographic: model.Retiree, RiskTolerance: model.Conservative}
	got := s.Select("investment ideas", pro, "", Context{})
	if !strings.Contains(got, "Equity (30%)") {
		t.Errorf("expected conservative split:\n%s", got)
	}
}

func TestBudgetUsesContext(t *testing.T) {
	s := NewSelector()
	m := &model.BudgetMetrics{Income: 10000, TotalExpenses: 12000, Savings: -2000, SavingsRate: -20}
	got := s.Select("check my budget", student, "", Context{Metrics: m})
	if !strings.Contains(got, "overspending by ₹2,000") {
		t.Errorf("budget answer ignored context:\n%s", got)
	}
}

func TestAllocationsSumTo100(t *testing.T) {
	for _, r := range model.RiskTolerances {
		a := AllocationFor(r)
		if sum := a.Equity + a.Debt + a.Gold; sum != 100 {
			t.Errorf("%s allocation sums to %v", r, sum)
		}
	}
}

type stubBackend struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (b *stubBackend) Generate(ctx context.Context, _ string, _ model.UserProfile, _ Context) (string, error) {
	b.calls++
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return b.text, b.err
}

type panicBackend struct{}

func (panicBackend) Generate(context.Context, string, model.UserProfile, Context) (string, error) {
	panic("boom")
}

func TestResponderUsesBackend(t *testing.T) {
	r := NewResponder(&stubBackend{text: "model answer"}, time.Second, nil)
	got := r.Respond(context.Background(), "hi", student, "", Context{})
	if got.Text != "model answer" || got.Source != SourceBackend || got.Degraded {
		t.Errorf("reply = %+v", got)
	}
}

func TestResponderFallsBack(t *testing.T) {
	want := NewSelector().Select("How do I save money?", student, model.Moderate, Context{})
	backends := map[string]Backend{
		"error":   &stubBackend{err: errors.New("unauthorized")},
		"empty":   &stubBackend{text: "  "},
		"timeout": &stubBackend{text: "late", delay: time.Second},
		"panic":   panicBackend{},
	}
	for name, b := range backends {
		r := NewResponder(b, 20*time.Millisecond, nil)
		got := r.Respond(context.Background(), "How do I save money?", student, model.Moderate, Context{})
		if got.Text != want {
			t.Errorf("%s: text = %q, want rule-based answer", name, got.Text)
		}
		if got.Source != SourceRules || !got.Degraded {
			t.Errorf("%s: reply = %+v, want degraded rules reply", name, got)
		}
	}
}

func TestResponderWithoutBackend(t *testing.T) {
	r := NewResponder(nil, 0, nil)
	got := r.Respond(context.Background(), "hello", student, "", Context{})
	if got.Source != SourceRules || got.Degraded || got.Text == "" {
		t.Errorf("reply = %+v", got)
	}
	if r.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", r.Timeout, DefaultTimeout)
	}
}
