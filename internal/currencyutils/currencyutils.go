// Package currencyutils renders and parses the single two-digit decimal
// currency used in reports.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fjacquet/ynab-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no currency locale is configured.
const DefaultLocale = "en"

// FractionDigits is the fixed number of decimals of every formatted amount.
const FractionDigits = 2

// ErrEmptyAmount is wrapped by Parse when nothing numeric is left to parse.
var ErrEmptyAmount = errors.New("empty amount")

// Formatter formats amounts with two fraction digits and the thousands
// separator of a locale, and parses such strings back.
type Formatter struct {
	printer *message.Printer
	group   string
	decimal string
}

// NewFormatter returns a Formatter for the given BCP 47 locale ("en", "de-CH", ...).
// An empty locale selects DefaultLocale.
func NewFormatter(locale string) (*Formatter, error) {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid currency locale '%s': %w", locale, err)
	}

	f := &Formatter{printer: message.NewPrinter(tag)}
	f.group, f.decimal = f.symbols()
	return f, nil
}

// MustFormatter is NewFormatter for locales known to be valid.
func MustFormatter(locale string) *Formatter {
	f, err := NewFormatter(locale)
	if err != nil {
		panic(err)
	}
	return f
}

// symbols derives the grouping and decimal separators of the locale by
// rendering a probe value.
func (f *Formatter) symbols() (group, dec string) {
	probe := []rune(f.printer.Sprint(number.Decimal(1234.5, number.Scale(1))))
	// probe looks like 1<group>234<decimal>5
	if len(probe) >= 7 {
		group = string(probe[1 : len(probe)-5])
	}
	dec = string(probe[len(probe)-2])
	return group, dec
}

// Format renders amount with exactly two fraction digits and thousands separators.
// The amount is rounded half away from zero. Digits are taken from the decimal
// itself, so amounts beyond float64 precision keep their cents.
func (f *Formatter) Format(amount decimal.Decimal) string {
	fixed := amount.Round(FractionDigits).StringFixed(FractionDigits)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + f.groupDigits(whole) + f.decimal + frac
}

// groupDigits inserts the locale's thousands separator into a string of
// digits. The printer handles anything that fits an int64.
func (f *Formatter) groupDigits(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return f.printer.Sprint(number.Decimal(n))
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(f.group)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Parse strips grouping separators from a formatted amount and parses it.
// A residual that is not numeric yields a *parsererror.ParseError.
func (f *Formatter) Parse(formatted string) (decimal.Decimal, error) {
	s := strings.TrimSpace(formatted)
	if f.group != "" {
		s = strings.ReplaceAll(s, f.group, "")
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if f.decimal != "." {
		s = strings.ReplaceAll(s, f.decimal, ".")
	}
	// Unicode minus from some locales
	s = strings.ReplaceAll(s, "\u2212", "-")

	if s == "" {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "currency",
			Field:  "amount",
			Value:  formatted,
			Err:    ErrEmptyAmount,
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "currency",
			Field:  "amount",
			Value:  formatted,
			Err:    err,
		}
	}
	return amount, nil
}

var currencySymbols = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s\x{00a0}]|CHF|USD|EUR|GBP|CAD|AUD`)

// ParseAmount parses a balance as it appears in the budgeting app or in a
// hand-written input file ("$1,234.56", "1'234.56", "-12.00", "1.234,56").
// An empty string is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "currency",
			Field:  "balance",
			Value:  amountStr,
			Err:    err,
		}
	}
	return amount, nil
}

// StandardizeAmount converts the usual currency string layouts to the form
// accepted by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	s := currencySymbols.ReplaceAllString(amountStr, "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "\u2212", "-")

	// Accounting negatives: (12.00)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// 1234,56
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234 or 1,234,567
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}
