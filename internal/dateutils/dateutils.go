// Package dateutils provides the month arithmetic used to annualize goals
// with a due date.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Month layouts accepted in goal due dates.
const (
	LayoutMonthLong  = "January"
	LayoutMonthShort = "Jan"
)

// Reference time layouts accepted for the configured "now".
const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutMonth = "2006-01"
)

var monthYearPattern = regexp.MustCompile(`\b([A-Za-z]+)\.? (\d{4})\b`)

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseMonth parses an English month name, full or abbreviated.
func ParseMonth(name string) (time.Month, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty month name")
	}
	// time.Parse is case sensitive on month names
	normalized := strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	for _, layout := range []string{LayoutMonthLong, LayoutMonthShort} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.Month(), nil
		}
	}
	if normalized == "Sept" {
		return time.September, nil
	}
	return 0, fmt.Errorf("unknown month name: %s", name)
}

// ParseMonthYear extracts the first "<Month> <YYYY>" pair from a due date
// such as "March 2026" or "Dec 2027".
func ParseMonthYear(dueDate string) (time.Month, int, error) {
	m := monthYearPattern.FindStringSubmatch(CleanDateString(dueDate))
	if m == nil {
		return 0, 0, fmt.Errorf("no month and year in due date: %s", dueDate)
	}
	month, err := ParseMonth(m[1])
	if err != nil {
		return 0, 0, err
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in due date %s: %w", dueDate, err)
	}
	return month, year, nil
}

// MonthsUntil returns the number of whole calendar months from now's month to
// the given month. Days are ignored: from any day of March to April is 1.
func MonthsUntil(now time.Time, month time.Month, year int) int {
	return (year-now.Year())*12 + (int(month) - int(now.Month()))
}

// ParseReferenceTime parses the configured "now" used for due date math.
// An empty string returns the zero time and no error.
func ParseReferenceTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, DateLayoutISO, DateLayoutMonth} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse reference time: %s", s)
}
