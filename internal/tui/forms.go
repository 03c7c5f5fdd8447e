package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincoach/internal/model"

	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formNone formKind = iota
	formProfile
	formExpenses
	formGoal
	formContribute
	formDeleteGoal
	formProjection
)

// formValues backs every huh field. It lives behind a pointer so the
// bindings survive App being copied between updates.
type formValues struct {
	// profile
	age         string
	income      string
	demographic string
	risk        string
	goals       string

	// expenses
	categories []string
	amounts    []string
	extraName  string
	extraValue string

	// goals
	goalID       string
	goalName     string
	goalTarget   string
	goalMonthly  string
	goalPriority string
	contribution string
	confirm      bool

	// projection
	projMonthly string
	projRate    string
	projYears   string
}

func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, model.Invalid("%q is not a number", s)
	}
	if err := model.ValidateAmount("amount", v); err != nil {
		return 0, err
	}
	return v, nil
}

func validateMoney(s string) error {
	_, err := parseMoney(s)
	return err
}

func validatePositive(s string) error {
	v, err := parseMoney(s)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func validateAge(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("age must be a whole number")
	}
	if n < model.MinAge || n > model.MaxAge {
		return fmt.Errorf("age must be between %d and %d", model.MinAge, model.MaxAge)
	}
	return nil
}

func validateYears(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 50 {
		return fmt.Errorf("years must be between 1 and 50")
	}
	return nil
}

func validateRate(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 50 {
		return fmt.Errorf("rate must be between 0 and 50")
	}
	return nil
}

func newProfileForm(v *formValues, demographics []model.Demographic) *huh.Form {
	demoOpts := make([]huh.Option[string], 0, len(demographics))
	for _, d := range demographics {
		demoOpts = append(demoOpts, huh.NewOption(d.Title(), string(d)))
	}
	riskOpts := make([]huh.Option[string], 0, len(model.RiskTolerances))
	for _, r := range model.RiskTolerances {
		riskOpts = append(riskOpts, huh.NewOption(strings.ToUpper(string(r[:1]))+string(r[1:]), string(r)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Your profile").
				Description("Advice and ratios are tailored to these answers."),
			huh.NewInput().Title("Age").Value(&v.age).Validate(validateAge),
			huh.NewInput().Title("Monthly income").Value(&v.income).Validate(validateMoney),
			huh.NewSelect[string]().Title("You are a").Options(demoOpts...).Value(&v.demographic),
			huh.NewSelect[string]().Title("Risk tolerance").Options(riskOpts...).Value(&v.risk),
			huh.NewText().Title("Financial goals").Value(&v.goals).CharLimit(400),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func (v *formValues) fillProfile(p model.UserProfile, ok bool, fallback model.Demographic) {
	if !ok {
		*v = formValues{demographic: string(fallback), risk: string(model.Moderate)}
		return
	}
	v.age = strconv.Itoa(p.Age)
	v.income = strconv.FormatFloat(p.Income, 'f', -1, 64)
	v.demographic = string(p.Demographic)
	v.risk = string(p.Risk())
	v.goals = p.Goals
}

func (v *formValues) profile() (model.UserProfile, error) {
	age, err := strconv.Atoi(strings.TrimSpace(v.age))
	if err != nil {
		return model.UserProfile{}, model.Invalid("age must be a whole number")
	}
	income, err := parseMoney(v.income)
	if err != nil {
		return model.UserProfile{}, err
	}
	p := model.UserProfile{
		Age:           age,
		Income:        income,
		Demographic:   model.Demographic(v.demographic),
		Goals:         strings.TrimSpace(v.goals),
		RiskTolerance: model.RiskTolerance(v.risk),
	}
	return p.Normalize()
}

// newExpenseForm offers one input per default category plus the session's
// own categories, and a free row for a new category.
func newExpenseForm(v *formValues, current model.ExpenseBreakdown) *huh.Form {
	v.categories = v.categories[:0]
	v.amounts = v.amounts[:0]
	seen := map[string]bool{}
	for _, e := range current.Items() {
		v.categories = append(v.categories, e.Category)
		v.amounts = append(v.amounts, strconv.FormatFloat(e.Amount, 'f', -1, 64))
		seen[strings.ToLower(e.Category)] = true
	}
	for _, c := range model.DefaultCategories {
		if !seen[strings.ToLower(c)] {
			v.categories = append(v.categories, c)
			v.amounts = append(v.amounts, "")
		}
	}
	v.extraName, v.extraValue = "", ""

	fields := make([]huh.Field, 0, len(v.categories)+3)
	fields = append(fields, huh.NewNote().Title("Monthly expenses").Description("Leave a row empty to skip it."))
	for i := range v.categories {
		fields = append(fields, huh.NewInput().
			Title(v.categories[i]).
			Value(&v.amounts[i]).
			Validate(validateMoney).
			Inline(true))
	}
	fields = append(fields,
		huh.NewInput().Title("Other category").Value(&v.extraName).Inline(true),
		huh.NewInput().Title("Amount").Value(&v.extraValue).Validate(validateMoney).Inline(true),
	)
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func (v *formValues) expenses() (model.ExpenseBreakdown, error) {
	var b model.ExpenseBreakdown
	for i, c := range v.categories {
		if strings.TrimSpace(v.amounts[i]) == "" {
			continue
		}
		amt, err := parseMoney(v.amounts[i])
		if err != nil {
			return model.ExpenseBreakdown{}, fmt.Errorf("%s: %w", c, err)
		}
		if err := b.Add(c, amt); err != nil {
			return model.ExpenseBreakdown{}, err
		}
	}
	if name := strings.TrimSpace(v.extraName); name != "" {
		amt, err := parseMoney(v.extraValue)
		if err != nil {
			return model.ExpenseBreakdown{}, fmt.Errorf("%s: %w", name, err)
		}
		if err := b.Add(name, amt); err != nil {
			return model.ExpenseBreakdown{}, err
		}
	}
	return b, nil
}

func newGoalForm(v *formValues) *huh.Form {
	v.goalName, v.goalTarget, v.goalMonthly = "", "", ""
	v.goalPriority = string(model.PriorityMedium)
	prioOpts := make([]huh.Option[string], 0, len(model.Priorities))
	for _, p := range model.Priorities {
		prioOpts = append(prioOpts, huh.NewOption(string(p), string(p)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal name").Value(&v.goalName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name is required")
				}
				return nil
			}),
			huh.NewInput().Title("Target amount").Value(&v.goalTarget).Validate(validatePositive),
			huh.NewInput().Title("Monthly contribution").Value(&v.goalMonthly).Validate(validateMoney),
			huh.NewSelect[string]().Title("Priority").Options(prioOpts...).Value(&v.goalPriority),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func newContributeForm(v *formValues, goal model.SavingsGoal) *huh.Form {
	v.goalID = goal.ID
	v.contribution = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Add to "+goal.Name).
				Description(fmt.Sprintf("%.0f of %.0f saved", goal.AccumulatedAmount, goal.TargetAmount)).
				Value(&v.contribution).
				Validate(validatePositive),
		),
	).WithTheme(huh.ThemeCharm())
}

func newDeleteGoalForm(v *formValues, goal model.SavingsGoal) *huh.Form {
	v.goalID = goal.ID
	v.confirm = false
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete goal %q?", goal.Name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&v.confirm),
		),
	).WithTheme(huh.ThemeCharm())
}

func newProjectionForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Monthly investment").Value(&v.projMonthly).Validate(validateMoney),
			huh.NewInput().Title("Expected annual return (%)").Value(&v.projRate).Validate(validateRate),
			huh.NewInput().Title("Years").Value(&v.projYears).Validate(validateYears),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}
