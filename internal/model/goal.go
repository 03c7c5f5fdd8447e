package model

import (
	"strings"
	"time"
)

// Priority ranks savings goals.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority matches a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", Invalid("unknown priority %q", s)
}

// Rank orders priorities; lower is more urgent.
func (p Priority) Rank() int {
	for i, q := range Priorities {
		if p == q {
			return i
		}
	}
	return len(Priorities)
}

// SavingsGoal is a target the user is saving toward.
type SavingsGoal struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	TargetAmount        float64   `json:"target_amount"`
	MonthlyContribution float64   `json:"monthly_contribution"`
	AccumulatedAmount   float64   `json:"accumulated_amount"`
	Priority            Priority  `json:"priority"`
	CreatedDate         time.Time `json:"created_date"`
}

// Remaining returns the amount still needed, floored at zero.
func (g SavingsGoal) Remaining() float64 {
	if r := g.TargetAmount - g.AccumulatedAmount; r > 0 {
		return r
	}
	return 0
}

// ProgressPercent returns accumulated/target as a 0-100 value.
func (g SavingsGoal) ProgressPercent() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	pct := g.AccumulatedAmount / g.TargetAmount * 100
	if pct > 100 {
		return 100
	}
	return pct
}
