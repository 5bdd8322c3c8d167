// Package common provides the CSV plumbing shared by the commands and the
// HTTP server.
package common

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// OutputFilePrefix starts every generated export file name.
const OutputFilePrefix = "ynab_categories_export_"

// WriterOptions controls the CSV layout of an exported report.
type WriterOptions struct {
	Delimiter      rune
	IncludeHeaders bool
	// QuoteAll wraps every cell in double quotes like the budgeting app's
	// own exports. Otherwise cells are quoted only when needed.
	QuoteAll bool
}

// DefaultWriterOptions returns comma-separated, quote-all output with headers.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Delimiter:      ',',
		IncludeHeaders: true,
		QuoteAll:       true,
	}
}

// HeaderLines is the number of lines written before the first row.
func (o WriterOptions) HeaderLines() int {
	if o.IncludeHeaders {
		return 1
	}
	return 0
}

// DefaultOutputFilename returns ynab_categories_export_<timestamp>.csv with
// an ISO-8601 timestamp whose colons and dot are replaced by dashes.
func DefaultOutputFilename(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s%s-%03dZ.csv", OutputFilePrefix,
		now.Format("2006-01-02T15-04-05"), now.Nanosecond()/int(time.Millisecond))
}

// WriteReport writes report rows to w.
func WriteReport(w io.Writer, rows []models.ReportRow, opts WriterOptions) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	var out gocsv.CSVWriter
	if opts.QuoteAll {
		out = newQuoteAllWriter(w, opts.Delimiter)
	} else {
		csvWriter := csv.NewWriter(w)
		csvWriter.Comma = opts.Delimiter
		out = gocsv.NewSafeCSVWriter(csvWriter)
	}

	marshal := gocsv.MarshalCSV
	if !opts.IncludeHeaders {
		marshal = gocsv.MarshalCSVWithoutHeaders
	}
	if err := marshal(rows, out); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteReportToCSV writes report rows to csvFile, creating its directory.
func WriteReportToCSV(rows []models.ReportRow, csvFile string, opts WriterOptions, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}

	logger.Info("Writing report to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldDelimiter, string(opts.Delimiter)))

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(csvFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionReportFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteReport(file, rows, opts); err != nil {
		logger.WithError(err).Error("Failed to marshal report to CSV")
		return err
	}

	logger.Info("Successfully wrote report to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

// quoteAllWriter is a gocsv.CSVWriter that quotes every field.
type quoteAllWriter struct {
	w     *bufio.Writer
	comma string
	err   error
}

func newQuoteAllWriter(w io.Writer, comma rune) *quoteAllWriter {
	return &quoteAllWriter{w: bufio.NewWriter(w), comma: string(comma)}
}

var quoteEscaper = strings.NewReplacer(`"`, `""`)

func (q *quoteAllWriter) Write(row []string) error {
	if q.err != nil {
		return q.err
	}
	for i, field := range row {
		if i > 0 {
			if _, q.err = q.w.WriteString(q.comma); q.err != nil {
				return q.err
			}
		}
		if _, q.err = q.w.WriteString(`"` + quoteEscaper.Replace(field) + `"`); q.err != nil {
			return q.err
		}
	}
	_, q.err = q.w.WriteString("\n")
	return q.err
}

func (q *quoteAllWriter) Flush() {
	if q.err == nil {
		q.err = q.w.Flush()
	}
}

func (q *quoteAllWriter) Error() error {
	return q.err
}
