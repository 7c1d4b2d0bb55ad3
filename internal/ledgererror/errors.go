// Package ledgererror defines the error taxonomy of the ingestion engine.
// Parse-tolerant failures never surface here; these types cover the
// rejections and persistence failures a caller must handle.
package ledgererror

import "fmt"

// ParseError represents a failure to interpret a file or row that could not
// be absorbed by the tolerant normalizers.
type ParseError struct {
	File  string
	Row   int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse row %d field '%s': %v",
		e.File, e.Row, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents input that fails a precondition before the
// pipeline runs (missing property, unknown csv type, empty account column).
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

// DuplicateError is the user-facing rejection for exact and property-period
// duplicates. It carries the conflicting record's identity so the caller can
// show what already claims the period.
type DuplicateError struct {
	DuplicateType    string
	PropertyID       string
	CSVType          string
	ExistingRecordID string
	ExistingFileName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s duplicate for property %s type %s: conflicts with record %s (%s)",
		e.DuplicateType, e.PropertyID, e.CSVType, e.ExistingRecordID, e.ExistingFileName)
}

// StoreError wraps a persistence failure. The engine performs no silent
// retry; store failures propagate unmodified inside this type.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
