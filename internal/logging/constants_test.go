package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	fields := []string{
		FieldRunID, FieldGroup, FieldCategory, FieldGoal, FieldAnnualTotal,
		FieldInputFile, FieldOutputFile, FieldDelimiter, FieldCount,
	}
	seen := make(map[string]bool)
	for _, f := range fields {
		assert.NotEmpty(t, f)
		assert.False(t, seen[f], "duplicate field name %s", f)
		seen[f] = true
	}
}
