package dedup

import (
	"testing"
	"time"

	"propbooks/internal/database"
	"propbooks/internal/logging"
	"propbooks/internal/models"
	"propbooks/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *store.RecordStore) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Init())
	t.Cleanup(func() { _ = db.Close() })

	records := store.NewRecordStore(db)
	return NewEngine(records, 0, &logging.MockLogger{}), records
}

func normalized(accounts ...string) []models.NormalizedRecord {
	var recs []models.NormalizedRecord
	for _, name := range accounts {
		recs = append(recs, models.NormalizedRecord{
			AccountName:  name,
			Bucket:       models.BucketIncome,
			PeriodValues: map[string]decimal.Decimal{"Aug 2024": decimal.NewFromInt(100)},
			Total:        decimal.NewFromInt(100),
		})
	}
	return recs
}

func storedRecord(propertyID, csvType, fileName string, uploadedAt time.Time, year, month int, accounts ...string) *models.PropertyCSVRecord {
	return &models.PropertyCSVRecord{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		CSVType:    csvType,
		FileName:   fileName,
		UploadedAt: uploadedAt,
		Records:    normalized(accounts...),
		Metadata: models.RecordMetadata{
			Year:          year,
			Month:         month,
			TotalRecords:  len(accounts),
			DuplicateKeys: accounts,
		},
		IsActive: true,
	}
}

func TestCheck_NoDuplicates(t *testing.T) {
	e, _ := newTestEngine(t)
	result, err := e.CheckForDuplicates("p1", "budget", "aug.csv", normalized("Rent"), 2024, 8)
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
	assert.Equal(t, models.DuplicateNone, result.DuplicateType)
}

func TestCheck_ExactDuplicate(t *testing.T) {
	e, records := newTestEngine(t)
	rec := storedRecord("p1", "budget", "aug.csv", time.Now().UTC(), 2024, 8, "Rent")
	require.NoError(t, records.Save(rec))

	result, err := e.CheckForDuplicates("p1", "budget", "aug.csv", normalized("Other"), 2024, 9)
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, models.DuplicateExact, result.DuplicateType)
	require.NotNil(t, result.ExistingRecord)
	assert.Equal(t, rec.ID, result.ExistingRecord.ID)
}

func TestCheck_ExactWindowExpired(t *testing.T) {
	e, records := newTestEngine(t)
	// Uploaded well outside the double-submit window; same file name is then
	// a property-period duplicate, not an exact one.
	rec := storedRecord("p1", "budget", "aug.csv", time.Now().UTC().Add(-10*time.Minute), 2024, 8, "Rent")
	require.NoError(t, records.Save(rec))

	result, err := e.CheckForDuplicates("p1", "budget", "aug.csv", normalized("Rent"), 2024, 8)
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, models.DuplicatePropertyPeriod, result.DuplicateType)
}

func TestCheck_PropertyPeriodDuplicate(t *testing.T) {
	e, records := newTestEngine(t)
	rec := storedRecord("p1", "budget", "aug.csv", time.Now().UTC().Add(-time.Hour), 2024, 8, "Rent")
	require.NoError(t, records.Save(rec))

	// Different file name, same period: still rejected.
	result, err := e.CheckForDuplicates("p1", "budget", "aug-v2.csv", normalized("Laundry"), 2024, 8)
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, models.DuplicatePropertyPeriod, result.DuplicateType)
	require.NotNil(t, result.ExistingRecord)
	assert.Equal(t, rec.ID, result.ExistingRecord.ID)
}

func TestCheck_PropertyPeriodAlwaysFiresOnSecondUpload(t *testing.T) {
	e, records := newTestEngine(t)
	require.NoError(t, records.Save(storedRecord("p1", "budget", "a.csv", time.Now().UTC().Add(-time.Hour), 2024, 8, "Rent")))

	// Any upload claiming the same (csv_type, year, month) is rejected,
	// regardless of its contents or file name.
	for _, fileName := range []string{"b.csv", "c.csv"} {
		result, err := e.CheckForDuplicates("p1", "budget", fileName, normalized("Whatever"), 2024, 8)
		require.NoError(t, err)
		assert.Equal(t, models.DuplicatePropertyPeriod, result.DuplicateType)
	}
}

func TestCheck_DeactivatedRecordReleasesPeriod(t *testing.T) {
	e, records := newTestEngine(t)
	rec := storedRecord("p1", "budget", "aug.csv", time.Now().UTC().Add(-time.Hour), 2024, 8, "Rent")
	require.NoError(t, records.Save(rec))
	require.NoError(t, records.SetActive(rec.ID, false))

	result, err := e.CheckForDuplicates("p1", "budget", "aug-v2.csv", normalized("Laundry"), 2024, 8)
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
}

func TestCheck_LineItemDuplicate(t *testing.T) {
	e, records := newTestEngine(t)
	rec := storedRecord("p1", "budget", "jul.csv", time.Now().UTC().Add(-time.Hour), 2024, 7, "Rent", "Pet Fees")
	require.NoError(t, records.Save(rec))

	// Different period so the period check passes, but "Rent" overlaps.
	result, err := e.CheckForDuplicates("p1", "budget", "aug.csv", normalized("Rent", "Laundry"), 2024, 8)
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, models.DuplicateLineItem, result.DuplicateType)
	require.Len(t, result.ConflictingRecords, 1)
	assert.Equal(t, rec.ID, result.ConflictingRecords[0].ID)
}

func TestCheck_LineItemScopedByCSVType(t *testing.T) {
	e, records := newTestEngine(t)
	require.NoError(t, records.Save(storedRecord("p1", "actuals", "jul.csv", time.Now().UTC().Add(-time.Hour), 2024, 7, "Rent")))

	result, err := e.CheckForDuplicates("p1", "budget", "aug.csv", normalized("Rent"), 2024, 8)
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
}

func TestCheck_MissingPeriodSkipsPeriodCheck(t *testing.T) {
	e, records := newTestEngine(t)
	require.NoError(t, records.Save(storedRecord("p1", "budget", "jul.csv", time.Now().UTC().Add(-time.Hour), 2024, 7, "Rent")))

	// No year/month on the incoming upload: the line-item check still runs.
	result, err := e.CheckForDuplicates("p1", "budget", "aug.csv", normalized("Rent"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.DuplicateLineItem, result.DuplicateType)
}

func TestMerge_ExistingWins(t *testing.T) {
	conflicting := []models.PropertyCSVRecord{
		*storedRecord("p1", "budget", "jul.csv", time.Now().UTC(), 2024, 7, "Rent", "Pet Fees"),
	}
	incoming := normalized("Rent", "Laundry", "Pet Fees", "Parking")

	kept, dropped := Merge(incoming, conflicting)

	require.Len(t, kept, 2)
	assert.Equal(t, "Laundry", kept[0].AccountName)
	assert.Equal(t, "Parking", kept[1].AccountName)
	assert.ElementsMatch(t, []string{"Rent", "Pet Fees"}, dropped)

	// The merged set never reintroduces an existing account name.
	existing := conflicting[0].AccountNames()
	for _, rec := range kept {
		assert.False(t, existing[rec.AccountName])
	}
}

func TestMerge_NoOverlap(t *testing.T) {
	kept, dropped := Merge(normalized("Laundry"), nil)
	assert.Len(t, kept, 1)
	assert.Empty(t, dropped)
}
