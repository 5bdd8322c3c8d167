package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// CategoryCSVRow is one line of a category list exported as CSV.
// A row with an empty Category announces a group. Categories with an empty
// or N/A Group belong to no group and are dropped by the report builder.
type CategoryCSVRow struct {
	Group    string `csv:"Group"`
	Category string `csv:"Category"`
	Goal     string `csv:"Goal"`
	Balance  string `csv:"Balance"`
}

// CSVReader reads Group,Category,Goal,Balance files.
type CSVReader struct {
	baseReader
	Delimiter rune
}

// NewCSVReader returns a CSVReader splitting fields on delimiter.
func NewCSVReader(delimiter rune, logger logging.Logger) *CSVReader {
	return &CSVReader{baseReader: newBaseReader(logger), Delimiter: delimiter}
}

// Read implements Reader.
func (c *CSVReader) Read(r io.Reader) ([]models.Record, error) {
	csvReader := csv.NewReader(r)
	if c.Delimiter != 0 {
		csvReader.Comma = c.Delimiter
	}
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	var rows []CategoryCSVRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "CSV with Group,Category,Goal,Balance columns",
			Msg:            "failed to parse category list",
			Err:            err,
		}
	}

	records := make([]models.Record, 0, len(rows))
	lastGroup := models.NoGroup
	for i, row := range rows {
		group := strings.TrimSpace(row.Group)
		category := strings.TrimSpace(row.Category)
		if group == "" && category == "" {
			continue
		}
		if group == "" {
			group = models.NoGroup
		}

		if category == "" {
			if group == models.NoGroup {
				continue
			}
			records = append(records, models.NewGroupHeader(group))
			lastGroup = group
			continue
		}

		if group != models.NoGroup && group != lastGroup {
			c.logger.Debug("Synthesizing missing group header",
				logging.F(logging.FieldGroup, group))
			records = append(records, models.NewGroupHeader(group))
			lastGroup = group
		}

		balance, err := currencyutils.ParseAmount(row.Balance)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, models.NewCategoryRecord(group, category, strings.TrimSpace(row.Goal), balance))
	}

	c.logger.Info("Read category list",
		logging.F(logging.FieldFormat, string(CSV)),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}
