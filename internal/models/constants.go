package models

// NotAvailable is the placeholder written to every report cell that has no value.
const NotAvailable = "N/A"

// Group sentinels
const (
	// NoGroup is the group name of records seen before any group header.
	NoGroup = NotAvailable
)

// Report labels
const (
	LabelTotal      = "TOTAL"
	LabelGrandTotal = "GRAND TOTAL"
)

// Report column headers, in output order.
const (
	ColumnGroup           = "Category Group"
	ColumnCategory        = "Category"
	ColumnTargetType      = "Target Type"
	ColumnTargetAmount    = "Target Amount"
	ColumnTargetFrequency = "Target Frequency"
	ColumnTargetDueDate   = "Target Due Date"
	ColumnAnnualTotal     = "Annual Total"
)

// Columns lists the report header in output order.
var Columns = []string{
	ColumnGroup,
	ColumnCategory,
	ColumnTargetType,
	ColumnTargetAmount,
	ColumnTargetFrequency,
	ColumnTargetDueDate,
	ColumnAnnualTotal,
}

// AnnualTotalColumn is the spreadsheet column letter holding annual totals.
const AnnualTotalColumn = "G"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
