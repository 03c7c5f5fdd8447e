package llm

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincoach/internal/advisor"
	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/model"
)

// toneFor returns the voice and focus areas for a demographic.
func toneFor(d model.Demographic) (tone, focus string) {
	switch d {
	case model.Student:
		return "friendly, simple, and example-based",
			"small savings strategies, budgeting tips, and affordable options"
	case model.Retiree:
		return "calm, clear, and reassuring",
			"capital preservation, regular income, and healthcare planning"
	case model.Freelancer, model.Entrepreneur:
		return "practical and direct",
			"irregular income smoothing, emergency buffers, and tax planning"
	default:
		return "professional, structured, and detailed",
			"investment strategies, tax optimization, and wealth building"
	}
}

// BuildMessages assembles the system prompt, recent history and the question.
func BuildMessages(query string, profile model.UserProfile, chat advisor.Context) []Message {
	tone, focus := toneFor(profile.Demographic)

	var sys strings.Builder
	fmt.Fprintf(&sys, "You are a helpful personal finance advisor for users in India. Respond in a %s manner.\n", tone)
	fmt.Fprintf(&sys, "User profile: %s, age %d, monthly income %s, risk tolerance %s.\n",
		profile.Demographic, profile.Age, cli.FormatAmount(profile.Income), profile.Risk())
	if g := strings.TrimSpace(profile.Goals); g != "" {
		fmt.Fprintf(&sys, "Goals: %s\n", g)
	}
	fmt.Fprintf(&sys, "Focus on: %s.\n", focus)
	if m := chat.Metrics; m != nil {
		fmt.Fprintf(&sys, "Budget: expenses %s, savings %s (%s of income).\n",
			cli.FormatAmount(m.TotalExpenses), cli.FormatAmount(m.Savings), cli.FormatPercent(m.SavingsRate))
	}
	for _, g := range chat.Goals {
		fmt.Fprintf(&sys, "Savings goal %q: %s of %s saved.\n", g.Name, cli.FormatAmount(g.AccumulatedAmount), cli.FormatAmount(g.TargetAmount))
	}
	sys.WriteString("Give practical, personalized advice in plain text.")

	msgs := []Message{{Role: "system", Content: sys.String()}}
	history := chat.History
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	for _, h := range history {
		msgs = append(msgs, Message{Role: string(h.Role), Content: h.Text})
	}
	return append(msgs, Message{Role: "user", Content: query})
}
