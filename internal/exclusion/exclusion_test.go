package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Defaults(t *testing.T) {
	f := New()

	tests := []struct {
		name     string
		excluded bool
	}{
		{"Credit Card Payments", true},
		{"Visa Credit Card", true},
		{"Groceries NoExport", true},
		{"Groceries", false},
		{"credit card", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.excluded, f.IsExcluded(tt.name))
		})
	}

	match, ok := f.Match("Credit Card Payments")
	assert.True(t, ok)
	assert.Equal(t, "Credit Card", match)
}

func TestFilter_CustomExclusions(t *testing.T) {
	f := New(WithExclusions("Hidden", "", "  ", "Archive"))

	assert.Equal(t, []string{"Hidden", "Archive"}, f.Exclusions())
	assert.True(t, f.IsExcluded("Archive 2024"))
	assert.False(t, f.IsExcluded("Credit Card Payments"))
}

func TestFilter_NoExclusions(t *testing.T) {
	f := New(WithExclusions())
	assert.False(t, f.IsExcluded("Credit Card Payments"))
}

func TestFilter_Redact(t *testing.T) {
	f := New()
	assert.Equal(t, "Redacted", f.Redact("Therapy (Redact)"))
	assert.Equal(t, "Rent", f.Redact("Rent"))

	custom := New(WithRedaction("[private]", "Private"))
	assert.Equal(t, "Private", custom.Redact("Gift for Sam [private]"))
	assert.Equal(t, "Therapy (Redact)", custom.Redact("Therapy (Redact)"))

	disabled := New(WithRedaction("", ""))
	assert.Equal(t, "Therapy (Redact)", disabled.Redact("Therapy (Redact)"))
}

func TestFilter_ExclusionsIsACopy(t *testing.T) {
	f := New()
	list := f.Exclusions()
	list[0] = "changed"
	assert.True(t, f.IsExcluded("Credit Card"))
}
