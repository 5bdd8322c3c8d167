package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence of a goal contribution.
type Frequency string

const (
	FrequencyWeekly  Frequency = "Each Week"
	FrequencyMonthly Frequency = "Each Month"
	FrequencyYearly  Frequency = "Each Year"
	FrequencyNone    Frequency = NotAvailable
)

// ParseFrequency maps the goal text fragment to a Frequency.
// Unknown periods yield FrequencyNone and false.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(s) {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return Frequency(s), true
	default:
		return FrequencyNone, false
	}
}

// Multiplier returns how many contributions of this frequency happen in a year.
func (f Frequency) Multiplier() (decimal.Decimal, bool) {
	switch f {
	case FrequencyWeekly:
		return decimal.NewFromInt(52), true
	case FrequencyMonthly:
		return decimal.NewFromInt(12), true
	case FrequencyYearly:
		return decimal.NewFromInt(1), true
	default:
		return decimal.Zero, false
	}
}

// String returns the frequency as written in the goal text.
func (f Frequency) String() string {
	if f == "" {
		return NotAvailable
	}
	return string(f)
}

// GoalDescriptor is the structured form of a goal sentence.
// When Amount is not valid every other field is NotAvailable.
type GoalDescriptor struct {
	TargetType string
	Amount     decimal.NullDecimal
	Frequency  Frequency
	DueDate    string
}

// UnknownGoal returns the descriptor used for absent or unparseable goal text.
func UnknownGoal() GoalDescriptor {
	return GoalDescriptor{
		TargetType: NotAvailable,
		Frequency:  FrequencyNone,
		DueDate:    NotAvailable,
	}
}

// IsKnown reports whether the goal text was understood.
func (g GoalDescriptor) IsKnown() bool {
	return g.Amount.Valid
}

// HasDueDate reports whether the goal carries a "By ..." date.
func (g GoalDescriptor) HasDueDate() bool {
	return g.DueDate != "" && g.DueDate != NotAvailable
}

// String returns a compact human readable representation.
func (g GoalDescriptor) String() string {
	amount := NotAvailable
	if g.Amount.Valid {
		amount = g.Amount.Decimal.StringFixed(2)
	}
	return fmt.Sprintf("type=%q amount=%s frequency=%q due=%q",
		g.TargetType, amount, g.Frequency.String(), g.DueDate)
}
