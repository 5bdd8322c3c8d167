package report

import (
	"context"
	"encoding/json"
	"fmt"

	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/source"

	"github.com/google/uuid"
)

// BuilderFactory returns a fresh Builder for one run.
type BuilderFactory func(logger logging.Logger) *Builder

// ReportGenerator runs the whole pipeline over a record sequence:
// de-duplication, exclusion, parsing, annualization and aggregation.
type ReportGenerator struct {
	newBuilder BuilderFactory
	logger     logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(newBuilder BuilderFactory, logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ReportGenerator{
		newBuilder: newBuilder,
		logger:     logger,
	}
}

// Generate builds a report from records in their display order.
// Repeated categories are dropped before they reach the builder. The run is
// abandoned when ctx is cancelled; partial reports are never returned.
func (g *ReportGenerator) Generate(ctx context.Context, records []models.Record) (*Report, error) {
	runID := uuid.NewString()
	logger := g.logger.WithField(logging.FieldRunID, runID)

	unique, dropped := source.Dedupe(records, logger)
	logger.Info("Generating goal report",
		logging.F(logging.FieldCount, len(unique)),
		logging.F("duplicates_dropped", dropped))

	builder := g.newBuilder(logger)
	for _, rec := range unique {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("report generation cancelled: %w", err)
		}
		if err := builder.Add(rec); err != nil {
			return nil, fmt.Errorf("error adding %s/%s: %w", rec.Group, rec.Category, err)
		}
	}

	rep := builder.Finish()
	logger.Info("Goal report generated",
		logging.F("rows", len(rep.Rows)),
		logging.F("groups", len(rep.GroupTotals)),
		logging.F("grand_total", rep.GrandTotal.StringFixed(2)))
	return rep, nil
}

// jsonReport is the JSON rendering of a Report.
type jsonReport struct {
	Columns     []string         `json:"columns"`
	Rows        []jsonRow        `json:"rows"`
	GroupTotals []jsonGroupTotal `json:"group_totals"`
	GrandTotal  string           `json:"grand_total"`
	Totals      TotalsMode       `json:"totals_mode"`
}

type jsonRow struct {
	models.ReportRow
	Kind string `json:"kind"`
}

type jsonGroupTotal struct {
	Group    string `json:"group"`
	Total    string `json:"total"`
	DataRows int    `json:"data_rows"`
}

// GenerateJSON renders a report as indented JSON.
func (g *ReportGenerator) GenerateJSON(rep *Report) ([]byte, error) {
	out := jsonReport{
		Columns:    models.Columns,
		Rows:       make([]jsonRow, 0, len(rep.Rows)),
		GrandTotal: rep.GrandTotal.StringFixed(2),
		Totals:     rep.Totals,
	}
	for _, row := range rep.Rows {
		out.Rows = append(out.Rows, jsonRow{ReportRow: row, Kind: row.Kind.String()})
	}
	for _, gt := range rep.GroupTotals {
		out.GroupTotals = append(out.GroupTotals, jsonGroupTotal{
			Group:    gt.Group,
			Total:    gt.Total.StringFixed(2),
			DataRows: gt.DataRows,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}
