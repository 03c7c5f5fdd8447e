// Package goals tracks progress toward savings goals.
package goals

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/fincoach/internal/model"
)

// Contribution is one recorded progress update.
type Contribution struct {
	Amount float64   `json:"amount"`
	At     time.Time `json:"at"`
}

// Store persists goals. Implementations must be safe for concurrent use.
type Store interface {
	Save(g model.SavingsGoal) error
	Get(id string) (model.SavingsGoal, error)
	List() ([]model.SavingsGoal, error)
	Delete(id string) error
	// Contribute adds amount to the goal's accumulated total and records it.
	Contribute(id string, amount float64, at time.Time) (model.SavingsGoal, error)
	Contributions(id string) ([]Contribution, error)
}

// Tracker applies goal rules on top of a Store.
type Tracker struct {
	store Store
	nowFn func() time.Time
	newID func() string
}

// NewTracker returns a tracker backed by store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		nowFn: time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Add creates a goal. Target must be positive; contribution may be zero.
func (t *Tracker) Add(name string, target, monthly float64, priority model.Priority) (model.SavingsGoal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SavingsGoal{}, model.Invalid("goal name is empty")
	}
	if err := model.ValidateAmount("target amount", target); err != nil {
		return model.SavingsGoal{}, err
	}
	if target == 0 {
		return model.SavingsGoal{}, model.Invalid("target amount must be greater than zero")
	}
	if err := model.ValidateAmount("monthly contribution", monthly); err != nil {
		return model.SavingsGoal{}, err
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	priority, err := model.ParsePriority(string(priority))
	if err != nil {
		return model.SavingsGoal{}, err
	}

	g := model.SavingsGoal{
		ID:                  t.newID(),
		Name:                name,
		TargetAmount:        target,
		MonthlyContribution: monthly,
		Priority:            priority,
		CreatedDate:         t.nowFn(),
	}
	if err := t.store.Save(g); err != nil {
		return model.SavingsGoal{}, err
	}
	return g, nil
}

// UpdateProgress adds amount to a goal. Amount must be positive, so the
// accumulated total only ever grows.
func (t *Tracker) UpdateProgress(id string, amount float64) (model.SavingsGoal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return model.SavingsGoal{}, model.Invalid("progress amount must be greater than zero")
	}
	return t.store.Contribute(id, amount, t.nowFn())
}

// Remove deletes a goal.
func (t *Tracker) Remove(id string) error {
	return t.store.Delete(id)
}

// Get returns one goal.
func (t *Tracker) Get(id string) (model.SavingsGoal, error) {
	return t.store.Get(id)
}

// History returns the contributions made to a goal.
func (t *Tracker) History(id string) ([]Contribution, error) {
	if _, err := t.store.Get(id); err != nil {
		return nil, err
	}
	return t.store.Contributions(id)
}

// List returns goals by priority, then oldest first.
func (t *Tracker) List() ([]model.SavingsGoal, error) {
	gs, err := t.store.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(gs, func(i, j int) bool {
		if ri, rj := gs[i].Priority.Rank(), gs[j].Priority.Rank(); ri != rj {
			return ri < rj
		}
		return gs[i].CreatedDate.Before(gs[j].CreatedDate)
	})
	return gs, nil
}

// Resolve finds a goal by full ID or unique ID prefix.
func (t *Tracker) Resolve(ref string) (model.SavingsGoal, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.SavingsGoal{}, model.Invalid("goal id is empty")
	}
	gs, err := t.store.List()
	if err != nil {
		return model.SavingsGoal{}, err
	}
	var found []model.SavingsGoal
	for _, g := range gs {
		if g.ID == ref {
			return g, nil
		}
		if strings.HasPrefix(g.ID, ref) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return model.SavingsGoal{}, fmt.Errorf("goal %s: %w", ref, model.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return model.SavingsGoal{}, model.Invalid("goal id %q is ambiguous", ref)
	}
}

// Remaining is the time left to reach a goal at its monthly contribution.
type Remaining struct {
	Months float64 `json:"months"`
	// Unbounded is set when nothing is contributed and money is still needed.
	Unbounded bool `json:"unbounded"`
}

// MonthsRemaining divides what is left by the monthly contribution.
func MonthsRemaining(g model.SavingsGoal) Remaining {
	left := g.Remaining()
	if left == 0 {
		return Remaining{}
	}
	if g.MonthlyContribution <= 0 {
		return Remaining{Unbounded: true}
	}
	return Remaining{Months: left / g.MonthlyContribution}
}
