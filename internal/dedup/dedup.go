// Package dedup detects and resolves duplicate uploads. Three checks run in
// order, short-circuiting on the first positive: exact file double-submit,
// property-period collision, and line-item overlap. The first two are hard
// rejections; line-item overlap is resolved by a merge in which existing
// records always win.
package dedup

import (
	"time"

	"propbooks/internal/logging"
	"propbooks/internal/models"
	"propbooks/internal/store"
)

// DefaultExactWindow bounds the exact-duplicate check: the same file name
// re-submitted for the same property and type inside this window is treated
// as a double-submit of one user action.
const DefaultExactWindow = 60 * time.Second

// Engine runs duplicate checks against the record store.
type Engine struct {
	records     *store.RecordStore
	exactWindow time.Duration
	logger      logging.Logger
	now         func() time.Time
}

// NewEngine creates a deduplication engine. A zero exactWindow selects the
// default.
func NewEngine(records *store.RecordStore, exactWindow time.Duration, logger logging.Logger) *Engine {
	if exactWindow <= 0 {
		exactWindow = DefaultExactWindow
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{
		records:     records,
		exactWindow: exactWindow,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the engine's clock. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// CheckForDuplicates compares an incoming upload against previously stored
// uploads for the property. Year and month of zero mean the upload carries no
// period, which skips the property-period check.
func (e *Engine) CheckForDuplicates(propertyID, csvType, fileName string, records []models.NormalizedRecord, year, month int) (models.DuplicateCheckResult, error) {
	// 1. Exact: same file name, same property and type, inside the
	// double-submit window.
	existing, err := e.records.ListByPropertyAndType(propertyID, csvType, false)
	if err != nil {
		return models.DuplicateCheckResult{}, err
	}
	cutoff := e.now().Add(-e.exactWindow)
	for i := range existing {
		rec := existing[i]
		if rec.FileName == fileName && rec.UploadedAt.After(cutoff) {
			e.logger.WithFields(
				logging.Field{Key: logging.FieldProperty, Value: propertyID},
				logging.Field{Key: logging.FieldFile, Value: fileName},
			).Warn("Exact duplicate upload detected")
			return models.DuplicateCheckResult{
				IsDuplicate:    true,
				DuplicateType:  models.DuplicateExact,
				ExistingRecord: &rec,
			}, nil
		}
	}

	// 2. Property-period: at most one active record may claim a
	// (csv_type, year, month) triple for a property.
	if year != 0 && month != 0 {
		claimed, err := e.records.FindActiveByPeriod(propertyID, csvType, year, month)
		if err != nil {
			return models.DuplicateCheckResult{}, err
		}
		if claimed != nil {
			e.logger.WithFields(
				logging.Field{Key: logging.FieldProperty, Value: propertyID},
				logging.Field{Key: logging.FieldCSVType, Value: csvType},
				logging.Field{Key: logging.FieldRecord, Value: claimed.ID},
			).Warn("Property-period duplicate detected")
			return models.DuplicateCheckResult{
				IsDuplicate:    true,
				DuplicateType:  models.DuplicatePropertyPeriod,
				ExistingRecord: claimed,
			}, nil
		}
	}

	// 3. Line-item: any incoming account name already present in another
	// active record for this property and type. A softer conflict: the
	// caller proceeds to a merge instead of rejecting.
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.AccountName)
	}
	conflictIDs, err := e.records.RecordIDsWithAccounts(propertyID, csvType, names)
	if err != nil {
		return models.DuplicateCheckResult{}, err
	}
	if len(conflictIDs) > 0 {
		var conflicting []models.PropertyCSVRecord
		for _, id := range conflictIDs {
			rec, err := e.records.Get(id)
			if err != nil {
				return models.DuplicateCheckResult{}, err
			}
			conflicting = append(conflicting, *rec)
		}
		e.logger.WithFields(
			logging.Field{Key: logging.FieldProperty, Value: propertyID},
			logging.Field{Key: logging.FieldCount, Value: len(conflicting)},
		).Info("Line-item overlap detected, merge required")
		return models.DuplicateCheckResult{
			IsDuplicate:        true,
			DuplicateType:      models.DuplicateLineItem,
			ConflictingRecords: conflicting,
		}, nil
	}

	return models.DuplicateCheckResult{DuplicateType: models.DuplicateNone}, nil
}

// Merge splices an incoming record set against the conflicting records'
// account sets: any incoming account name that already exists anywhere in a
// conflicting record is dropped, and the residue is returned for saving as a
// new record tagged merged. Existing records are never edited.
func Merge(incoming []models.NormalizedRecord, conflicting []models.PropertyCSVRecord) (kept []models.NormalizedRecord, dropped []string) {
	existingNames := make(map[string]bool)
	for _, rec := range conflicting {
		for name := range rec.AccountNames() {
			existingNames[name] = true
		}
	}

	for _, rec := range incoming {
		if existingNames[rec.AccountName] {
			dropped = append(dropped, rec.AccountName)
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}
