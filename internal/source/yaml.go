package source

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// Document is the YAML and JSON layout of a category list.
type Document struct {
	Groups []GroupDocument `yaml:"groups" json:"groups"`
}

// GroupDocument is one category group.
type GroupDocument struct {
	Name       string             `yaml:"name" json:"name"`
	Categories []CategoryDocument `yaml:"categories" json:"categories"`
}

// CategoryDocument is one category. Balance accepts numbers as well as
// formatted strings such as "1,234.56".
type CategoryDocument struct {
	Name    string `yaml:"name" json:"name"`
	Goal    string `yaml:"goal" json:"goal"`
	Balance string `yaml:"balance" json:"balance"`
}

// Records flattens the document into display order.
func (d Document) Records() ([]models.Record, error) {
	var records []models.Record
	for _, g := range d.Groups {
		group := strings.TrimSpace(g.Name)
		if group == "" {
			group = models.NoGroup
		}
		if group != models.NoGroup {
			records = append(records, models.NewGroupHeader(group))
		}
		for _, c := range g.Categories {
			balance, err := currencyutils.ParseAmount(c.Balance)
			if err != nil {
				return nil, fmt.Errorf("category %s/%s: %w", group, c.Name, err)
			}
			records = append(records, models.NewCategoryRecord(group, strings.TrimSpace(c.Name), strings.TrimSpace(c.Goal), balance))
		}
	}
	return records, nil
}

// YAMLReader reads YAML documents. JSON is accepted too, being a subset.
type YAMLReader struct {
	baseReader
}

// NewYAMLReader returns a YAMLReader.
func NewYAMLReader(logger logging.Logger) *YAMLReader {
	return &YAMLReader{baseReader: newBaseReader(logger)}
}

// Read implements Reader.
func (y *YAMLReader) Read(r io.Reader) ([]models.Record, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "YAML or JSON document with a groups list",
			Msg:            "failed to decode category list",
			Err:            err,
		}
	}

	records, err := doc.Records()
	if err != nil {
		return nil, err
	}
	y.logger.Info("Read category list",
		logging.F(logging.FieldFormat, string(YAML)),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}
