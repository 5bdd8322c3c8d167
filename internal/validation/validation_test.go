package validation_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ynab-csv/internal/parsererror"
	"fjacquet/ynab-csv/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInputFile(t *testing.T) {
	tmpDir := t.TempDir()

	validFile := filepath.Join(tmpDir, "budget.yaml")
	require.NoError(t, os.WriteFile(validFile, []byte("groups: []"), 0600))
	emptyFile := filepath.Join(tmpDir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyFile, nil, 0600))

	tests := []struct {
		name        string
		path        string
		expectError bool
		errContains string
	}{
		{name: "Valid file", path: validFile},
		{name: "Missing path", path: "", expectError: true, errContains: "input file is required"},
		{name: "Non-existent path", path: filepath.Join(tmpDir, "nope.csv"), expectError: true, errContains: "path does not exist"},
		{name: "Directory", path: tmpDir, expectError: true, errContains: "not a regular file"},
		{name: "Empty file", path: emptyFile, expectError: true, errContains: "file is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidInputFile(tt.path)
			if !tt.expectError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)

			var validationErr *parsererror.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestIsValidOutputPath(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file.txt")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	tests := []struct {
		name        string
		path        string
		expectError bool
	}{
		{"New file in existing dir", filepath.Join(tmpDir, "out.csv"), false},
		{"New file in new nested dir", filepath.Join(tmpDir, "a", "b", "out.csv"), false},
		{"Existing directory", tmpDir, true},
		{"Parent is a file", filepath.Join(blocker, "out.csv"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidOutputPath(tt.path)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.NoError(t, validation.IsValidOutputFormat("csv"))
	assert.NoError(t, validation.IsValidOutputFormat("json"))

	err := validation.IsValidOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: xml")
}
