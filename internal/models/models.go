// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one tokenized CSV line: the ordered field values plus where it
// came from. Immutable once parsed.
type RawRow struct {
	Fields   []string
	FileName string
	Index    int
}

// NormalizedRecord is one normalized line-item: a distinct account name and
// its amounts keyed by period label (e.g. "Aug 2024"). Rows repeating the same
// account name within one upload are summed into a single record.
type NormalizedRecord struct {
	AccountName  string                     `json:"account_name"`
	Bucket       Bucket                     `json:"bucket"`
	Confidence   float64                    `json:"confidence"`
	PeriodValues map[string]decimal.Decimal `json:"period_values"`
	Total        decimal.Decimal            `json:"total"`
}

// Value returns the amount for a period, or zero when the record has no value
// for that period.
func (r NormalizedRecord) Value(period string) decimal.Decimal {
	if v, ok := r.PeriodValues[period]; ok {
		return v
	}
	return decimal.Zero
}

// BucketMemoryEntry is one learned (account name, file type) → bucket mapping.
// Unique per pair; usage count grows on every repeat confirmation.
type BucketMemoryEntry struct {
	AccountName string    `json:"account_name"`
	FileType    string    `json:"file_type"`
	Bucket      Bucket    `json:"bucket_id"`
	Confidence  float64   `json:"confidence"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	LastUsedAt  time.Time `json:"last_used_at"`
}

// RecordMetadata describes an upload without repeating its line items.
type RecordMetadata struct {
	Year          int      `json:"year,omitempty"`
	Month         int      `json:"month,omitempty"`
	TotalRecords  int      `json:"total_records"`
	DuplicateKeys []string `json:"duplicate_keys"`
}

// PropertyCSVRecord is one accepted upload for a property. Financial values
// are never edited in place; re-ingestion produces a new record.
type PropertyCSVRecord struct {
	ID         string             `json:"id"`
	PropertyID string             `json:"property_id"`
	CSVType    string             `json:"csv_type"`
	FileName   string             `json:"file_name"`
	UploadedAt time.Time          `json:"uploaded_at"`
	Records    []NormalizedRecord `json:"records"`
	Metadata   RecordMetadata     `json:"metadata"`
	Tags       []string           `json:"tags,omitempty"`
	IsActive   bool               `json:"is_active"`
}

// AccountNames returns the set of account names carried by the record.
func (r PropertyCSVRecord) AccountNames() map[string]bool {
	names := make(map[string]bool, len(r.Records))
	for _, rec := range r.Records {
		names[rec.AccountName] = true
	}
	return names
}

// DuplicateCheckResult is the outcome of one duplicate check. Transient,
// never persisted.
type DuplicateCheckResult struct {
	IsDuplicate        bool
	DuplicateType      string
	ExistingRecord     *PropertyCSVRecord
	ConflictingRecords []PropertyCSVRecord
}

// Property is the long-lived aggregate that owns uploaded records.
type Property struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	PropertyType string `json:"property_type"`
}

// Suggestion is the classifier's answer for one account name.
type Suggestion struct {
	Bucket     Bucket
	Confidence float64
	Source     string
}

// IngestSummary reports what one import produced.
type IngestSummary struct {
	TotalRecords      int
	IncomeCount       int
	ExpenseCount      int
	OtherCount        int
	UnassignedCount   int
	AverageConfidence float64
	Merged            bool
	DroppedAccounts   []string
}
