// Package annualizer computes how much a category needs per year to meet its goal.
package annualizer

import (
	"time"

	"fjacquet/ynab-csv/internal/dateutils"
	"fjacquet/ynab-csv/internal/models"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Calculator annualizes goal descriptors against a fixed reference time.
// It performs no I/O and never reads the wall clock.
type Calculator struct {
	now time.Time
}

// New returns a Calculator whose due date math is relative to now.
func New(now time.Time) *Calculator {
	return &Calculator{now: now}
}

// Now returns the reference time.
func (c *Calculator) Now() time.Time {
	return c.now
}

// Annualize returns the yearly contribution needed by goal, or an invalid
// NullDecimal when it cannot be determined.
//
// Recurring goals multiply the amount by 52, 12 or 1. A goal without a
// frequency but with a due date spreads the remaining amount
// (target - balance) over the whole months left until the due month and
// scales that to twelve months. The result is not rounded.
func (c *Calculator) Annualize(goal models.GoalDescriptor, balance decimal.Decimal) decimal.NullDecimal {
	if !goal.IsKnown() || !goal.Amount.Decimal.IsPositive() {
		return decimal.NullDecimal{}
	}
	amount := goal.Amount.Decimal

	if multiplier, ok := goal.Frequency.Multiplier(); ok {
		return decimal.NewNullDecimal(amount.Mul(multiplier))
	}
	if goal.Frequency != models.FrequencyNone && goal.Frequency != "" {
		return decimal.NullDecimal{}
	}

	if !goal.HasDueDate() {
		return decimal.NullDecimal{}
	}
	months, ok := c.MonthsRemaining(goal.DueDate)
	if !ok || months <= 0 {
		return decimal.NullDecimal{}
	}

	perMonth := amount.Sub(balance).Div(decimal.NewFromInt(int64(months)))
	return decimal.NewNullDecimal(perMonth.Mul(monthsPerYear))
}

// MonthsRemaining returns the calendar months between the reference time and
// a "<Month> <YYYY>" due date. ok is false when the date cannot be parsed.
func (c *Calculator) MonthsRemaining(dueDate string) (int, bool) {
	month, year, err := dateutils.ParseMonthYear(dueDate)
	if err != nil {
		return 0, false
	}
	return dateutils.MonthsUntil(c.now, month, year), true
}
