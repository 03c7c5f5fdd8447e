// Package model defines domain types for fincoach profiles, budgets and goals.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrInvalidInput marks caller-supplied values that fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks lookups of unknown identifiers.
	ErrNotFound = errors.New("not found")
)

// Invalid returns an error wrapping ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Age bounds accepted by profile forms.
const (
	MinAge = 18
	MaxAge = 100
)

// Demographic is the life stage a profile belongs to.
type Demographic string

const (
	Student      Demographic = "student"
	Professional Demographic = "professional"
	Freelancer   Demographic = "freelancer"
	Entrepreneur Demographic = "entrepreneur"
	Retiree      Demographic = "retiree"
)

// Demographics lists every known demographic in display order.
var Demographics = []Demographic{Student, Professional, Freelancer, Entrepreneur, Retiree}

// ParseDemographic matches a demographic name case-insensitively.
func ParseDemographic(s string) (Demographic, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Demographics {
		if string(d) == s {
			return d, nil
		}
	}
	return "", Invalid("unknown demographic %q", s)
}

// Title returns the capitalized display name.
func (d Demographic) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// RiskTolerance is how much volatility the user accepts.
type RiskTolerance string

const (
	Conservative RiskTolerance = "conservative"
	Moderate     RiskTolerance = "moderate"
	Aggressive   RiskTolerance = "aggressive"
)

// RiskTolerances lists every risk level from lowest to highest.
var RiskTolerances = []RiskTolerance{Conservative, Moderate, Aggressive}

// ParseRiskTolerance matches a risk level case-insensitively.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range RiskTolerances {
		if string(r) == s {
			return r, nil
		}
	}
	return "", Invalid("unknown risk tolerance %q", s)
}

// UserProfile is the per-session description of the user.
type UserProfile struct {
	Age           int           `json:"age" toml:"age"`
	Income        float64       `json:"income" toml:"income"`
	Demographic   Demographic   `json:"demographic" toml:"demographic"`
	Goals         string        `json:"goals" toml:"goals"`
	RiskTolerance RiskTolerance `json:"risk_tolerance" toml:"risk_tolerance"`
}

// Validate checks the profile against form rules.
func (p UserProfile) Validate() error {
	_, err := p.Normalize()
	return err
}

// Normalize validates the profile and returns it with the demographic and
// risk tolerance in canonical form, so "Student" is stored as student.
func (p UserProfile) Normalize() (UserProfile, error) {
	if p.Age < MinAge || p.Age > MaxAge {
		return p, Invalid("age %d outside %d-%d", p.Age, MinAge, MaxAge)
	}
	if err := ValidateAmount("income", p.Income); err != nil {
		return p, err
	}
	d, err := ParseDemographic(string(p.Demographic))
	if err != nil {
		return p, err
	}
	p.Demographic = d
	if strings.TrimSpace(string(p.RiskTolerance)) == "" {
		p.RiskTolerance = ""
		return p, nil
	}
	r, err := ParseRiskTolerance(string(p.RiskTolerance))
	if err != nil {
		return p, err
	}
	p.RiskTolerance = r
	return p, nil
}

// IsStudent reports whether student-specific advice applies.
func (p UserProfile) IsStudent() bool {
	return p.Demographic == Student
}

// Risk returns the profile's risk tolerance, defaulting to moderate.
func (p UserProfile) Risk() RiskTolerance {
	if p.RiskTolerance == "" {
		return Moderate
	}
	return p.RiskTolerance
}

// ValidateAmount rejects negative and non-finite money values.
func ValidateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid("%s must be a number", field)
	}
	if v < 0 {
		return Invalid("%s cannot be negative", field)
	}
	return nil
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a session transcript.
type ChatMessage struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}
