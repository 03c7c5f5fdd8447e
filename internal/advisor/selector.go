// Package advisor answers free-text finance questions.
//
// Questions are routed through an ordered list of keyword rules; the first
// rule whose keywords appear in the question picks the answer template.
// An optional Backend can replace the templates, but every failure falls
// back to the rule-based answer.
package advisor

import (
	"strings"

	"github.com/theirongolddev/fincoach/internal/model"
)

// Intent names the kind of question a rule answers.
type Intent string

const (
	IntentSavings    Intent = "savings"
	IntentInvestment Intent = "investment"
	IntentBudget     Intent = "budget"
	IntentEmergency  Intent = "emergency"
	IntentTax        Intent = "tax"
	IntentDefault    Intent = "default"
)

// Context is the session state a reply may draw on.
type Context struct {
	Metrics *model.BudgetMetrics
	Goals   []model.SavingsGoal
	History []model.ChatMessage
}

// Request bundles everything a template needs.
type Request struct {
	Query   string
	Profile model.UserProfile
	Risk    model.RiskTolerance
	Context Context
}

// Rule pairs a question predicate with the template that answers it.
type Rule struct {
	Intent  Intent
	Match   func(query string) bool
	Respond func(Request) string
}

// Keywords returns a predicate matching any of the words as a substring of
// the lower-cased query.
func Keywords(words ...string) func(string) bool {
	return func(query string) bool {
		q := strings.ToLower(query)
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the built-in rule order. Savings is checked before
// investment, investment before budget.
func DefaultRules() []Rule {
	return []Rule{
		{IntentSavings, Keywords("save", "saving", "savings"), savingsAnswer},
		{IntentInvestment, Keywords("invest", "investment", "sip", "mutual fund"), investmentAnswer},
		{IntentBudget, Keywords("budget", "expense", "spending"), budgetAnswer},
		{IntentEmergency, Keywords("emergency", "crisis"), emergencyAnswer},
		{IntentTax, Keywords("tax", "80c", "deduction"), taxAnswer},
	}
}

// Selector picks a templated answer for a question.
type Selector struct {
	rules    []Rule
	fallback func(Request) string
}

// NewSelector returns a selector with the default rules.
func NewSelector() *Selector {
	return &Selector{rules: DefaultRules(), fallback: greetingAnswer}
}

// Classify returns the intent of the first matching rule.
func (s *Selector) Classify(query string) Intent {
	for _, r := range s.rules {
		if r.Match(query) {
			return r.Intent
		}
	}
	return IntentDefault
}

// Select answers query for the profile. It never fails.
func (s *Selector) Select(query string, profile model.UserProfile, risk model.RiskTolerance, ctx Context) string {
	if risk == "" {
		risk = profile.Risk()
	}
	req := Request{Query: query, Profile: profile, Risk: risk, Context: ctx}
	for _, r := range s.rules {
		if r.Match(query) {
			return r.Respond(req)
		}
	}
	return s.fallback(req)
}
