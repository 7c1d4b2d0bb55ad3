package logging

// Standardized field names for structured logging. Keeping field names
// consistent makes log output easier to filter and analyze.
const (
	FieldFile       = "file_path"
	FieldProperty   = "property_id"
	FieldCSVType    = "csv_type"
	FieldAccount    = "account_name"
	FieldBucket     = "bucket"
	FieldConfidence = "confidence"
	FieldDuplicate  = "duplicate_type"
	FieldPeriod     = "period"
	FieldRecord     = "record_id"
	FieldCount      = "count"
	FieldReason     = "reason"
	FieldOperation  = "operation"
)
