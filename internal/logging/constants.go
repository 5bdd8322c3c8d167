package logging

// Standardized field names for structured logging.
const (
	FieldRunID       = "run_id"
	FieldGroup       = "group"
	FieldCategory    = "category"
	FieldGoal        = "goal"
	FieldTargetType  = "target_type"
	FieldAmount      = "target_amount"
	FieldFrequency   = "target_frequency"
	FieldDueDate     = "target_due_date"
	FieldAnnualTotal = "annual_total"
	FieldBalance     = "current_balance"
	FieldReason      = "reason"
	FieldFormat      = "format"
	FieldError       = "error"
	FieldCount       = "count"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldAddress     = "address"
)
