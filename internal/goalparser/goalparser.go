// Package goalparser turns the target sentence shown by the budgeting app
// ("Spend 250.00 Each Month", "Have a Balance of 5,000.00 By March 2026")
// into a models.GoalDescriptor.
//
// Two grammars are tried in order. The general grammar covers every
// "<verb words> <amount> [Each <period>] [By <date>]" sentence except those
// starting with the balance prefix, which only the balance grammar accepts.
// Text matching neither yields models.UnknownGoal; parsing never fails.
package goalparser

import (
	"regexp"
	"strings"

	"fjacquet/ynab-csv/internal/dateutils"
	"fjacquet/ynab-csv/internal/models"

	"github.com/shopspring/decimal"
)

// BalancePrefix starts every balance-target sentence.
const BalancePrefix = "Have a Balance of"

// BalanceTargetType is the target type reported for balance goals.
const BalanceTargetType = "Have a Balance"

const amountPattern = `((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?)`

var (
	generalGrammar = regexp.MustCompile(
		`^([A-Za-z][A-Za-z ]*?) ` + amountPattern +
			`(?: (Each [A-Za-z]+))?` +
			`(?: By (.+))?$`)

	balanceGrammar = regexp.MustCompile(
		`^` + BalancePrefix + ` ` + amountPattern + ` By (.+)$`)
)

// Grammar identifies which pattern accepted a goal sentence.
type Grammar int

const (
	GrammarNone Grammar = iota
	GrammarGeneral
	GrammarBalance
)

// String returns the grammar name used in logs.
func (g Grammar) String() string {
	switch g {
	case GrammarGeneral:
		return "general"
	case GrammarBalance:
		return "balance"
	default:
		return "none"
	}
}

// Result is the outcome of matching a goal sentence: the grammar that
// accepted it and the descriptor it produced. Grammar is GrammarNone and the
// descriptor is models.UnknownGoal when nothing matched.
type Result struct {
	Grammar    Grammar
	Descriptor models.GoalDescriptor
}

// Matched reports whether one of the grammars accepted the text.
func (r Result) Matched() bool {
	return r.Grammar != GrammarNone
}

// Parse returns the descriptor of a goal sentence, or models.UnknownGoal.
func Parse(text string) models.GoalDescriptor {
	return Match(text).Descriptor
}

// Match tries the general grammar, then the balance grammar.
func Match(text string) Result {
	text = normalize(text)
	if text == "" || text == models.NotAvailable {
		return Result{Grammar: GrammarNone, Descriptor: models.UnknownGoal()}
	}

	if goal, ok := MatchGeneral(text); ok {
		return Result{Grammar: GrammarGeneral, Descriptor: goal}
	}
	if strings.HasPrefix(text, BalancePrefix) {
		if goal, ok := MatchBalance(text); ok {
			return Result{Grammar: GrammarBalance, Descriptor: goal}
		}
	}
	return Result{Grammar: GrammarNone, Descriptor: models.UnknownGoal()}
}

// MatchGeneral applies "<verb words> <amount> [Each <period>] [By <date>]".
// Sentences beginning with BalancePrefix are left to MatchBalance. A period
// other than Week, Month or Year keeps the type and amount but reports
// models.FrequencyNone.
func MatchGeneral(text string) (models.GoalDescriptor, bool) {
	text = normalize(text)
	if strings.HasPrefix(text, BalancePrefix) {
		return models.UnknownGoal(), false
	}

	m := generalGrammar.FindStringSubmatch(text)
	if m == nil {
		return models.UnknownGoal(), false
	}

	amount, ok := parseAmount(m[2])
	if !ok {
		return models.UnknownGoal(), false
	}

	frequency := models.FrequencyNone
	if m[3] != "" {
		frequency, _ = models.ParseFrequency(m[3])
	}

	return models.GoalDescriptor{
		TargetType: strings.TrimSpace(m[1]),
		Amount:     decimal.NewNullDecimal(amount),
		Frequency:  frequency,
		DueDate:    orNotAvailable(m[4]),
	}, true
}

// MatchBalance applies "Have a Balance of <amount> By <date>".
func MatchBalance(text string) (models.GoalDescriptor, bool) {
	m := balanceGrammar.FindStringSubmatch(normalize(text))
	if m == nil {
		return models.UnknownGoal(), false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return models.UnknownGoal(), false
	}

	return models.GoalDescriptor{
		TargetType: BalanceTargetType,
		Amount:     decimal.NewNullDecimal(amount),
		Frequency:  models.FrequencyNone,
		DueDate:    orNotAvailable(m[2]),
	}, true
}

func normalize(text string) string {
	return dateutils.CleanDateString(text)
}

// parseAmount strips thousands separators before converting.
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func orNotAvailable(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.NotAvailable
	}
	return s
}
