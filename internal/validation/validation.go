// Package validation checks command inputs before any work is done.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/ynab-csv/internal/parsererror"
)

// Output formats accepted by the export command.
const (
	OutputCSV  = "csv"
	OutputJSON = "json"
)

// IsValidInputFile checks that path names a readable, non-empty regular file.
func IsValidInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return &parsererror.ValidationError{FilePath: path, Reason: "input file is required"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &parsererror.ValidationError{FilePath: path, Reason: "path does not exist"}
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a regular file"}
	}
	if info.Size() == 0 {
		return &parsererror.ValidationError{FilePath: path, Reason: "file is empty"}
	}
	return nil
}

// IsValidOutputPath checks that path can be created as a file: it must not
// be an existing directory, and its nearest existing parent must be a
// directory.
func IsValidOutputPath(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &parsererror.ValidationError{FilePath: path, Reason: "output path is a directory"}
	}

	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return &parsererror.ValidationError{FilePath: path, Reason: fmt.Sprintf("%s is not a directory", dir)}
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("error checking path %s: %w", dir, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case OutputCSV, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'csv', 'json'", format)
	}
}
