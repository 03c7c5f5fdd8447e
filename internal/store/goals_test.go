package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fincoach/internal/goals"
	"github.com/theirongolddev/fincoach/internal/model"
)

func openTestStore(t *testing.T) *GoalStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "goals.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGoalStoreCRUD(t *testing.T) {
	s := openTestStore(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g := model.SavingsGoal{
		ID:                  "g1",
		Name:                "Laptop",
		TargetAmount:        40000,
		MonthlyContribution: 3500,
		Priority:            model.PriorityHigh,
		CreatedDate:         created,
	}
	if err := s.Save(g); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get("g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CreatedDate.Equal(created) {
		t.Errorf("CreatedDate = %v, want %v", got.CreatedDate, created)
	}
	got.CreatedDate = g.CreatedDate
	if got != g {
		t.Errorf("Get = %+v, want %+v", got, g)
	}

	g.Name = "Gaming laptop"
	if err := s.Save(g); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Gaming laptop" {
		t.Errorf("List = %+v", list)
	}

	if err := s.Delete("g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("g1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
	if err := s.Delete("g1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Delete missing err = %v, want ErrNotFound", err)
	}
}

func TestGoalStoreContribute(t *testing.T) {
	s := openTestStore(t)
	tr := goals.NewTracker(s)

	g, err := tr.Add("Emergency fund", 60000, 5000, model.PriorityHigh)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := tr.UpdateProgress(g.ID, 5000); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	g, err = tr.UpdateProgress(g.ID, 1500)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if g.AccumulatedAmount != 6500 {
		t.Errorf("AccumulatedAmount = %v, want 6500", g.AccumulatedAmount)
	}

	hist, err := tr.History(g.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 || hist[1].Amount != 1500 || hist[1].At.IsZero() {
		t.Errorf("history = %+v", hist)
	}

	if _, err := s.Contribute("missing", 10, time.Now()); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Contribute missing err = %v, want ErrNotFound", err)
	}
}

func TestGoalStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	g, err := goals.NewTracker(s).Add("Trip", 20000, 0, model.PriorityLow)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	_ = s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Trip" || !got.CreatedDate.Equal(g.CreatedDate) {
		t.Errorf("got %+v, want %+v", got, g)
	}
}
