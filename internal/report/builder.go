// Package report assembles the grouped goal report: one header row per
// category group, one data row per category, a total row closing every
// group and a grand total row at the end.
package report

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/ynab-csv/internal/annualizer"
	"fjacquet/ynab-csv/internal/currencyutils"
	"fjacquet/ynab-csv/internal/exclusion"
	"fjacquet/ynab-csv/internal/goalparser"
	"fjacquet/ynab-csv/internal/logging"
	"fjacquet/ynab-csv/internal/models"
	"fjacquet/ynab-csv/internal/parsererror"

	"github.com/shopspring/decimal"
)

// TotalsMode selects how group and grand totals are written.
type TotalsMode string

const (
	// TotalsSum writes precomputed sums.
	TotalsSum TotalsMode = "sum"
	// TotalsFormula writes spreadsheet SUM formulas over the annual total column.
	TotalsFormula TotalsMode = "formula"
)

// ParseTotalsMode validates a configured totals mode. Empty means TotalsSum.
func ParseTotalsMode(s string) (TotalsMode, error) {
	switch TotalsMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TotalsSum:
		return TotalsSum, nil
	case TotalsFormula:
		return TotalsFormula, nil
	default:
		return "", fmt.Errorf("unsupported totals mode: %s (must be 'sum' or 'formula')", s)
	}
}

// ErrFinished is returned by Add once Finish has been called.
var ErrFinished = errors.New("report builder already finished")

// Options controls the layout of a report.
type Options struct {
	Totals TotalsMode
	// Preamble rows are emitted first, e.g. an attribution line.
	Preamble [][]string
	// HeaderRows is the number of lines the sink writes before the first
	// row, used to compute spreadsheet row numbers for formulas.
	HeaderRows int
}

// GroupTotal is the closing total of one group.
type GroupTotal struct {
	Group    string
	Total    decimal.Decimal
	DataRows int
	// Row is the spreadsheet row number of the total row.
	Row int
}

// Report is the finished table.
type Report struct {
	Rows        []models.ReportRow
	GroupTotals []GroupTotal
	GrandTotal  decimal.Decimal
	Totals      TotalsMode
	HeaderRows  int
}

// DataRows returns only the category rows.
func (r *Report) DataRows() []models.ReportRow {
	var out []models.ReportRow
	for _, row := range r.Rows {
		if row.Kind == models.RowData {
			out = append(out, row)
		}
	}
	return out
}

// groupAccumulator is the running state of the open group.
type groupAccumulator struct {
	name      string
	headerRow int
	startRow  int
	rows      int
	sum       decimal.Decimal
}

// Builder consumes records in display order and accumulates report rows.
// A Builder serves one generation run and is not safe for concurrent use.
//
// Each category may be presented at most once per run; a repeated category
// is rejected with *parsererror.DuplicateRecordError and leaves the report
// untouched.
type Builder struct {
	opts      Options
	filter    *exclusion.Filter
	calc      *annualizer.Calculator
	formatter *currencyutils.Formatter
	logger    logging.Logger

	rows        []models.ReportRow
	current     *groupAccumulator // nil while no group is open
	seen        map[string]struct{}
	groupTotals []GroupTotal
	report      *Report
}

// NewBuilder returns a Builder with the preamble rows already emitted.
func NewBuilder(opts Options, filter *exclusion.Filter, calc *annualizer.Calculator, formatter *currencyutils.Formatter, logger logging.Logger) *Builder {
	if opts.Totals == "" {
		opts.Totals = TotalsSum
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	b := &Builder{
		opts:      opts,
		filter:    filter,
		calc:      calc,
		formatter: formatter,
		logger:    logger,
		seen:      make(map[string]struct{}),
	}
	for _, cells := range opts.Preamble {
		b.rows = append(b.rows, models.NewPreambleRow(cells...))
	}
	return b
}

// rowNumber converts an index into rows to a 1-based spreadsheet row number.
func (b *Builder) rowNumber(index int) int {
	return b.opts.HeaderRows + index + 1
}

// nextRowNumber is the spreadsheet row number of the next appended row.
func (b *Builder) nextRowNumber() int {
	return b.rowNumber(len(b.rows))
}

// InGroup reports whether a group is currently open.
func (b *Builder) InGroup() bool {
	return b.current != nil
}

// CurrentGroup returns the open group name, or models.NoGroup.
func (b *Builder) CurrentGroup() string {
	if b.current == nil {
		return models.NoGroup
	}
	return b.current.name
}

// Add feeds one record to the builder.
func (b *Builder) Add(rec models.Record) error {
	if b.report != nil {
		return ErrFinished
	}
	if rec.IsGroupHeader {
		b.startGroup(rec.Group)
		return nil
	}
	return b.addCategory(rec)
}

// startGroup closes the open group and opens name unless it is excluded.
func (b *Builder) startGroup(name string) {
	b.closeGroup()

	if pattern, excluded := b.filter.Match(name); excluded {
		b.logger.Debug("Skipping excluded group",
			logging.F(logging.FieldGroup, name),
			logging.F(logging.FieldReason, pattern))
		return
	}

	headerRow := b.nextRowNumber()
	b.rows = append(b.rows, models.ReportRow{
		Group: name,
		Kind:  models.RowGroupHeader,
	})
	b.current = &groupAccumulator{
		name:      name,
		headerRow: headerRow,
		startRow:  b.nextRowNumber(),
		sum:       decimal.Zero,
	}
}

func (b *Builder) addCategory(rec models.Record) error {
	if b.current == nil || rec.Group == models.NoGroup {
		b.logger.Debug("Skipping category outside an exported group",
			logging.F(logging.FieldGroup, rec.Group),
			logging.F(logging.FieldCategory, rec.Category))
		return nil
	}

	if pattern, excluded := b.filter.Match(rec.Category); excluded {
		b.logger.Debug("Skipping excluded category",
			logging.F(logging.FieldGroup, b.current.name),
			logging.F(logging.FieldCategory, rec.Category),
			logging.F(logging.FieldReason, pattern))
		return nil
	}

	key := b.current.name + "\x00" + rec.Category
	if _, dup := b.seen[key]; dup {
		return &parsererror.DuplicateRecordError{Group: b.current.name, Category: rec.Category}
	}
	b.seen[key] = struct{}{}

	goal := goalparser.Parse(rec.Goal)
	annual := b.calc.Annualize(goal, rec.Balance)

	row := models.ReportRow{
		Group:           b.current.name,
		Category:        b.filter.Redact(rec.Category),
		TargetType:      goal.TargetType,
		TargetAmount:    b.formatNull(goal.Amount),
		TargetFrequency: goal.Frequency.String(),
		TargetDueDate:   goal.DueDate,
		AnnualTotal:     b.formatNull(annual),
		Kind:            models.RowData,
	}
	b.rows = append(b.rows, row)
	b.current.rows++
	if annual.Valid {
		// accumulate what the reader sees so totals add up on paper
		b.current.sum = b.current.sum.Add(annual.Decimal.Round(currencyutils.FractionDigits))
	}

	b.logger.Debug("Category processed",
		logging.F(logging.FieldGroup, row.Group),
		logging.F(logging.FieldCategory, row.Category),
		logging.F(logging.FieldGoal, rec.Goal),
		logging.F(logging.FieldTargetType, row.TargetType),
		logging.F(logging.FieldAmount, row.TargetAmount),
		logging.F(logging.FieldFrequency, row.TargetFrequency),
		logging.F(logging.FieldDueDate, row.TargetDueDate),
		logging.F(logging.FieldAnnualTotal, row.AnnualTotal),
		logging.F(logging.FieldBalance, rec.Balance.StringFixed(currencyutils.FractionDigits)))
	return nil
}

// closeGroup appends the total row of the open group, if any.
func (b *Builder) closeGroup() {
	acc := b.current
	if acc == nil {
		return
	}
	b.current = nil

	totalRow := b.nextRowNumber()
	var cell string
	switch b.opts.Totals {
	case TotalsFormula:
		start, end := acc.startRow, totalRow-1
		if acc.rows == 0 {
			// empty group: sum the blank header cell rather than an inverted range
			start, end = acc.headerRow, acc.headerRow
		}
		cell = fmt.Sprintf("=SUM(%s%d:%s%d)", models.AnnualTotalColumn, start, models.AnnualTotalColumn, end)
	default:
		cell = b.formatter.Format(acc.sum)
	}

	b.rows = append(b.rows, models.ReportRow{
		Group:       acc.name,
		Category:    models.LabelTotal,
		AnnualTotal: cell,
		Kind:        models.RowGroupTotal,
	})
	b.groupTotals = append(b.groupTotals, GroupTotal{
		Group:    acc.name,
		Total:    acc.sum,
		DataRows: acc.rows,
		Row:      totalRow,
	})
}

// Finish closes the open group, appends the grand total and returns the
// report. Later calls return the same report.
func (b *Builder) Finish() *Report {
	if b.report != nil {
		return b.report
	}
	b.closeGroup()

	grand := decimal.Zero
	var refs []string
	for i, row := range b.rows {
		if row.Kind != models.RowGroupTotal {
			continue
		}
		refs = append(refs, fmt.Sprintf("%s%d", models.AnnualTotalColumn, b.rowNumber(i)))
	}
	for _, gt := range b.groupTotals {
		grand = grand.Add(gt.Total)
	}

	cell := b.formatter.Format(grand)
	if b.opts.Totals == TotalsFormula && len(refs) > 0 {
		cell = "=SUM(" + strings.Join(refs, ",") + ")"
	}
	b.rows = append(b.rows, models.ReportRow{
		Group:       models.LabelGrandTotal,
		AnnualTotal: cell,
		Kind:        models.RowGrandTotal,
	})

	b.report = &Report{
		Rows:        b.rows,
		GroupTotals: b.groupTotals,
		GrandTotal:  grand,
		Totals:      b.opts.Totals,
		HeaderRows:  b.opts.HeaderRows,
	}
	return b.report
}

func (b *Builder) formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return models.NotAvailable
	}
	return b.formatter.Format(d.Decimal)
}
