// Package projection computes SIP (systematic investment plan) growth.
package projection

import (
	"math"

	"github.com/theirongolddev/fincoach/internal/model"
)

// MaxYears bounds the investment horizon.
const MaxYears = 100

// Projection is the outcome of investing a fixed amount every month.
type Projection struct {
	MonthlyAmount float64 `json:"monthly_amount"`
	AnnualRate    float64 `json:"annual_rate"`
	Years         int     `json:"years"`
	FutureValue   float64 `json:"future_value"`
	TotalInvested float64 `json:"total_invested"`
	Returns       float64 `json:"returns"`
	ReturnPercent float64 `json:"return_percent"`
}

// YearPoint is the cumulative position at the end of a year.
type YearPoint struct {
	Year     int     `json:"year"`
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
}

// Project computes the future value of monthly contributions made at the
// start of each month (annuity due). A zero rate returns the amount invested.
func Project(monthly, annualRatePercent float64, years int) (Projection, error) {
	if err := model.ValidateAmount("monthly amount", monthly); err != nil {
		return Projection{}, err
	}
	if err := model.ValidateAmount("annual rate", annualRatePercent); err != nil {
		return Projection{}, err
	}
	if years < 0 || years > MaxYears {
		return Projection{}, model.Invalid("years must be between 0 and %d", MaxYears)
	}

	p := Projection{
		MonthlyAmount: monthly,
		AnnualRate:    annualRatePercent,
		Years:         years,
		TotalInvested: monthly * 12 * float64(years),
		FutureValue:   futureValue(monthly, annualRatePercent, years*12),
	}
	if math.IsInf(p.FutureValue, 0) || math.IsNaN(p.FutureValue) || math.IsInf(p.TotalInvested, 0) {
		return Projection{}, model.Invalid("projection is too large to compute")
	}
	p.Returns = p.FutureValue - p.TotalInvested
	if p.TotalInvested > 0 {
		p.ReturnPercent = p.Returns / p.TotalInvested * 100
	}
	return p, nil
}

// Schedule returns one point per year from 1 to years.
func Schedule(monthly, annualRatePercent float64, years int) ([]YearPoint, error) {
	if _, err := Project(monthly, annualRatePercent, years); err != nil {
		return nil, err
	}
	points := make([]YearPoint, 0, years)
	for y := 1; y <= years; y++ {
		points = append(points, YearPoint{
			Year:     y,
			Invested: monthly * 12 * float64(y),
			Value:    futureValue(monthly, annualRatePercent, y*12),
		})
	}
	return points, nil
}

func futureValue(monthly, annualRatePercent float64, months int) float64 {
	r := annualRatePercent / 100 / 12
	if r <= 0 {
		return monthly * float64(months)
	}
	return monthly * ((math.Pow(1+r, float64(months)) - 1) / r) * (1 + r)
}
