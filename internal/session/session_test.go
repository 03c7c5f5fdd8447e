package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
)

func sampleSession(t *testing.T, d model.Demographic) *Session {
	t.Helper()
	s := New("test", Options{})
	p, b := model.SampleProfile(d)
	if err := s.SetProfile(p); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	s.SetExpenses(b)
	return s
}

func TestMetricsRequireProfile(t *testing.T) {
	s := New("x", Options{})
	if _, err := s.Metrics(); !errors.Is(err, ErrNoProfile) {
		t.Errorf("err = %v, want ErrNoProfile", err)
	}
	if _, err := s.Ask(context.Background(), "hi"); !errors.Is(err, ErrNoProfile) {
		t.Errorf("Ask err = %v, want ErrNoProfile", err)
	}
}

func TestSetProfileRejectsInvalid(t *testing.T) {
	s := New("x", Options{})
	err := s.SetProfile(model.UserProfile{Age: 10, Demographic: model.Student})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, ok := s.Profile(); ok {
		t.Error("invalid profile was stored")
	}
}

func TestSetProfileCanonicalizesCase(t *testing.T) {
	s := New("x", Options{})
	err := s.SetProfile(model.UserProfile{Age: 20, Income: 10000, Demographic: "Student", RiskTolerance: " Aggressive "})
	if err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	p, _ := s.Profile()
	if p.Demographic != model.Student || p.RiskTolerance != model.Aggressive {
		t.Fatalf("stored %q/%q, want student/aggressive", p.Demographic, p.RiskTolerance)
	}

	reply, err := s.Ask(context.Background(), "How do I save money?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(reply.Text, "As a student") {
		t.Errorf("reply should take the student branch, got %q", reply.Text)
	}
}

func TestMetricsRecomputedAfterChanges(t *testing.T) {
	s := sampleSession(t, model.Student)
	before, err := s.Metrics()
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if err := s.SetExpense("Food & Groceries", 0); err != nil {
		t.Fatalf("SetExpense: %v", err)
	}
	after, _ := s.Metrics()
	if after.TotalExpenses != before.TotalExpenses-2500 {
		t.Errorf("TotalExpenses = %v, want %v", after.TotalExpenses, before.TotalExpenses-2500)
	}

	p, _ := s.Profile()
	p.Income = 20000
	_ = s.SetProfile(p)
	again, _ := s.Metrics()
	if again.Savings != 20000-after.TotalExpenses {
		t.Errorf("Savings = %v after income change", again.Savings)
	}
}

func TestReportFlagsHousing(t *testing.T) {
	s := sampleSession(t, model.Student)
	r, err := s.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(r.Violations) == 0 || r.Violations[0].Guideline != "housing" {
		t.Errorf("violations = %+v, want housing first", r.Violations)
	}
	if r.Summary == "" {
		t.Error("empty summary")
	}
}

func TestAskAppendsHistory(t *testing.T) {
	s := sampleSession(t, model.Student)
	reply, err := s.Ask(context.Background(), "How do I save money?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(reply.Text, "student") {
		t.Errorf("reply = %q", reply.Text)
	}
	h := s.History()
	if len(h) != 2 || h[0].Role != model.RoleUser || h[1].Role != model.RoleAssistant {
		t.Fatalf("history = %+v", h)
	}
	if _, err := s.Ask(context.Background(), ""); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("empty Ask err = %v", err)
	}
	if len(s.History()) != 2 {
		t.Error("rejected question was recorded")
	}
}

func TestSnapshot(t *testing.T) {
	s := sampleSession(t, model.Professional)
	if _, err := s.Goals().Add("House", 1000000, 20000, model.PriorityHigh); err != nil {
		t.Fatalf("Add goal: %v", err)
	}
	snap := s.Snapshot()
	if snap.Profile == nil || snap.Report == nil {
		t.Fatalf("snapshot missing profile or report: %+v", snap)
	}
	if len(snap.Goals) != 1 || len(snap.Expenses) != 7 {
		t.Errorf("goals = %d expenses = %d", len(snap.Goals), len(snap.Expenses))
	}
}

func TestManagerIsolatesSessions(t *testing.T) {
	m := NewManager(func() Options { return Options{} })
	a := m.Get("a")
	b := m.Get("b")
	if a == b {
		t.Fatal("distinct ids share a session")
	}
	if m.Get("a") != a {
		t.Error("same id returned a new session")
	}

	p, _ := model.SampleProfile(model.Student)
	_ = a.SetProfile(p)
	if _, err := a.Goals().Add("Laptop", 40000, 3500, model.PriorityHigh); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Profile(); ok {
		t.Error("profile leaked across sessions")
	}
	if gs, _ := b.Goals().List(); len(gs) != 0 {
		t.Error("goals leaked across sessions")
	}

	if fresh := m.Get(""); fresh.ID == "" {
		t.Error("empty id not replaced")
	}
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
}

func TestManagerExpire(t *testing.T) {
	m := NewManager(func() Options { return Options{} })
	s := m.Get("old")
	s.mu.Lock()
	s.touched = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()
	m.Get("new")

	if n := m.Expire(time.Hour, time.Now()); n != 1 {
		t.Errorf("Expire = %d, want 1", n)
	}
	if _, ok := m.Lookup("old"); ok {
		t.Error("old session survived")
	}
}
