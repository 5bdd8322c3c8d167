// Package source reads the budgeting app's category list into models.Record
// sequences. Each supported input format has its own Reader; NewReader acts
// as the factory.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
)

// Reader turns raw input into records in display order.
type Reader interface {
	Read(r io.Reader) ([]models.Record, error)
}

// Format names a supported input format.
type Format string

const (
	CSV  Format = "csv"
	YAML Format = "yaml"
	JSON Format = "json"
	HTML Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{CSV, YAML, JSON, HTML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case CSV, YAML, JSON, HTML:
		return f, nil
	case "yml":
		return YAML, nil
	case "htm":
		return HTML, nil
	default:
		return "", fmt.Errorf("unknown source format: %s", s)
	}
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect source format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}

// NewReader returns a new Reader for the given format.
func NewReader(format Format, logger logging.Logger) (Reader, error) {
	base := newBaseReader(logger)
	switch format {
	case CSV:
		return &CSVReader{baseReader: base}, nil
	case YAML, JSON:
		return &YAMLReader{baseReader: base}, nil
	case HTML:
		return &HTMLReader{baseReader: base}, nil
	default:
		return nil, fmt.Errorf("unknown source format: %s", format)
	}
}

// ReadFile opens path and reads it with the reader for format. An empty
// format is detected from the file extension.
func ReadFile(path string, format Format, logger logging.Logger) ([]models.Record, error) {
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	reader, err := NewReader(format, logger)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening source file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && logger != nil {
			logger.WithError(cerr).Warn("Failed to close source file")
		}
	}()

	records, err := reader.Read(file)
	if err != nil {
		return nil, fmt.Errorf("error reading %s source %s: %w", format, path, err)
	}
	return records, nil
}

// baseReader carries the logger shared by every reader.
type baseReader struct {
	logger logging.Logger
}

func newBaseReader(logger logging.Logger) baseReader {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return baseReader{logger: logger}
}

// Dedupe drops repeated observations of the same category, keeping the
// first one, and returns the number dropped. Group headers are kept as they
// come since a group may legitimately be announced again by a source.
func Dedupe(records []models.Record, logger logging.Logger) ([]models.Record, int) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	seen := make(map[string]struct{}, len(records))
	out := make([]models.Record, 0, len(records))
	dropped := 0
	for _, rec := range records {
		if rec.IsGroupHeader {
			out = append(out, rec)
			continue
		}
		key := rec.Key()
		if _, dup := seen[key]; dup {
			dropped++
			logger.Warn("Dropping repeated category observation",
				logging.F(logging.FieldGroup, rec.Group),
				logging.F(logging.FieldCategory, rec.Category))
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out, dropped
}
