package models

// RowKind tells what a report row represents.
type RowKind int

const (
	RowPreamble RowKind = iota
	RowGroupHeader
	RowData
	RowGroupTotal
	RowGrandTotal
)

// String returns the name of the row kind.
func (k RowKind) String() string {
	switch k {
	case RowPreamble:
		return "preamble"
	case RowGroupHeader:
		return "group_header"
	case RowData:
		return "data"
	case RowGroupTotal:
		return "group_total"
	case RowGrandTotal:
		return "grand_total"
	default:
		return "unknown"
	}
}

// ReportRow is one line of the exported table.
// The csv tags are the bit-exact column headers.
type ReportRow struct {
	Group           string  `csv:"Category Group" json:"category_group"`
	Category        string  `csv:"Category" json:"category"`
	TargetType      string  `csv:"Target Type" json:"target_type"`
	TargetAmount    string  `csv:"Target Amount" json:"target_amount"`
	TargetFrequency string  `csv:"Target Frequency" json:"target_frequency"`
	TargetDueDate   string  `csv:"Target Due Date" json:"target_due_date"`
	AnnualTotal     string  `csv:"Annual Total" json:"annual_total"`
	Kind            RowKind `csv:"-" json:"-"`
}

// NewPreambleRow spreads informational cells over the first columns of a row.
func NewPreambleRow(cells ...string) ReportRow {
	padded := make([]string, len(Columns))
	copy(padded, cells)
	return ReportRow{
		Group:           padded[0],
		Category:        padded[1],
		TargetType:      padded[2],
		TargetAmount:    padded[3],
		TargetFrequency: padded[4],
		TargetDueDate:   padded[5],
		AnnualTotal:     padded[6],
		Kind:            RowPreamble,
	}
}
