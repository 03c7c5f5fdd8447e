// Package budget turns income and expenses into metrics, ratings and insights.
package budget

import "strings"

// Rating classifies a savings rate.
type Rating string

const (
	Critical  Rating = "critical"
	Low       Rating = "low"
	Good      Rating = "good"
	Excellent Rating = "excellent"
)

// Severity maps a rating to 0 (fine), 1 (warn) or 2 (bad) for display.
func (r Rating) Severity() int {
	switch r {
	case Good, Excellent:
		return 0
	case Low:
		return 1
	default:
		return 2
	}
}

// Bands are the savings-rate cut lines, in percent.
// A rate below Low is critical, below Good is low, below Excellent is good.
type Bands struct {
	Low       float64 `toml:"low"`
	Good      float64 `toml:"good"`
	Excellent float64 `toml:"excellent"`
}

// Guideline is a recommended maximum share of income for a category family.
type Guideline struct {
	Key      string   `toml:"key"`
	MaxRatio float64  `toml:"max_ratio"`
	Keywords []string `toml:"keywords"`
}

// Policy holds every tunable threshold used by the analyzer.
type Policy struct {
	SavingsBands  Bands       `toml:"savings_bands"`
	Guidelines    []Guideline `toml:"guidelines"`
	OtherKey      string      `toml:"other_key"`
	OtherMaxRatio float64     `toml:"other_max_ratio"`
}

// DefaultPolicy returns the built-in thresholds.
func DefaultPolicy() Policy {
	return Policy{
		SavingsBands: Bands{Low: 0, Good: 10, Excellent: 20},
		Guidelines: []Guideline{
			{Key: "housing", MaxRatio: 30, Keywords: []string{"rent", "housing"}},
			{Key: "food", MaxRatio: 15, Keywords: []string{"food", "groceries"}},
			{Key: "transport", MaxRatio: 15, Keywords: []string{"transport"}},
			{Key: "entertainment", MaxRatio: 10, Keywords: []string{"entertainment"}},
			{Key: "utilities", MaxRatio: 10, Keywords: []string{"utilities"}},
			{Key: "shopping", MaxRatio: 10, Keywords: []string{"shopping"}},
		},
		OtherKey:      "other",
		OtherMaxRatio: 10,
	}
}

// Classify maps a savings rate to a rating. Higher rates never rate worse.
func (p Policy) Classify(rate float64) Rating {
	switch {
	case rate < p.SavingsBands.Low:
		return Critical
	case rate < p.SavingsBands.Good:
		return Low
	case rate < p.SavingsBands.Excellent:
		return Good
	default:
		return Excellent
	}
}

// Match returns the guideline a category name falls under.
// Matching is a case-insensitive keyword search in table order; the first
// hit wins and anything unmatched falls under the "other" guideline.
func (p Policy) Match(category string) Guideline {
	name := strings.ToLower(category)
	for _, g := range p.Guidelines {
		for _, kw := range g.Keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return g
			}
		}
	}
	return Guideline{Key: p.otherKey(), MaxRatio: p.OtherMaxRatio}
}

func (p Policy) otherKey() string {
	if p.OtherKey == "" {
		return "other"
	}
	return p.OtherKey
}
