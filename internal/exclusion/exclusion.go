// Package exclusion decides which groups and categories stay out of the
// report and which category names are redacted.
package exclusion

import (
	"strings"
)

// Defaults
var (
	DefaultExclusions = []string{"Credit Card", "NoExport"}
)

const (
	DefaultRedactionMarker = "Redact"
	DefaultRedactionLabel  = "Redacted"
)

// Filter matches names against configured substrings. Matching is case sensitive.
type Filter struct {
	exclusions      []string
	redactionMarker string
	redactionLabel  string
}

// Option configures a Filter.
type Option func(*Filter)

// WithExclusions replaces the exclusion substrings. Empty entries are ignored.
func WithExclusions(exclusions ...string) Option {
	return func(f *Filter) {
		f.exclusions = f.exclusions[:0]
		for _, e := range exclusions {
			if strings.TrimSpace(e) != "" {
				f.exclusions = append(f.exclusions, e)
			}
		}
	}
}

// WithRedaction sets the marker that triggers redaction and the label that
// replaces a redacted name. An empty marker disables redaction.
func WithRedaction(marker, label string) Option {
	return func(f *Filter) {
		f.redactionMarker = marker
		if label != "" {
			f.redactionLabel = label
		}
	}
}

// New returns a Filter with the default exclusions and redaction marker,
// adjusted by opts.
func New(opts ...Option) *Filter {
	f := &Filter{
		exclusions:      append([]string(nil), DefaultExclusions...),
		redactionMarker: DefaultRedactionMarker,
		redactionLabel:  DefaultRedactionLabel,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsExcluded reports whether name contains any exclusion substring.
func (f *Filter) IsExcluded(name string) bool {
	_, ok := f.Match(name)
	return ok
}

// Match returns the first exclusion substring found in name.
func (f *Filter) Match(name string) (string, bool) {
	for _, e := range f.exclusions {
		if strings.Contains(name, e) {
			return e, true
		}
	}
	return "", false
}

// Redact returns the redaction label when name contains the redaction
// marker, and name unchanged otherwise.
func (f *Filter) Redact(name string) string {
	if f.redactionMarker != "" && strings.Contains(name, f.redactionMarker) {
		return f.redactionLabel
	}
	return name
}

// Exclusions returns a copy of the configured exclusion substrings.
func (f *Filter) Exclusions() []string {
	return append([]string(nil), f.exclusions...)
}
