package logging

// Field names shared by every component so log lines can be filtered consistently.
const (
	FieldFile          = "file_path"
	FieldFileID        = "file_id"
	FieldLabel         = "label"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldPattern       = "pattern"
	FieldStrategy      = "strategy"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldBackend       = "backend"
	FieldError         = "error"
	FieldCount         = "count"
	FieldSkipped       = "skipped"
	FieldDelimiter     = "delimiter"
	FieldRow           = "row"
	FieldFormat        = "format"
	FieldOutputFile    = "output_file"
	FieldFiles         = "files"
	FieldDate          = "date"
	FieldAmount        = "amount"
	FieldText          = "text"
)
