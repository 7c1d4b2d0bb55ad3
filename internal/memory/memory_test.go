package memory

import (
	"testing"

	"propbooks/internal/database"
	"propbooks/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Init())
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestUpsertAndGet(t *testing.T) {
	s := newTestStore(t)

	err := s.Upsert("Rent Income", models.BucketIncome, "budget", 1.0)
	require.NoError(t, err)

	e, found, err := s.Get("Rent Income", "budget")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.BucketIncome, e.Bucket)
	assert.Equal(t, 1, e.UsageCount)
	assert.Equal(t, 1.0, e.Confidence)
}

func TestGet_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert("Rent Income", models.BucketIncome, "budget", 1.0))

	_, found, err := s.Get("RENT INCOME", "budget")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGet_ScopedByFileType(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 1.0))

	_, found, err := s.Get("Rent", "actuals")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpsert_RepeatConfirmation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 1.0))
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 0.8))
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 0.9))

	e, found, err := s.Get("Rent", "budget")
	require.NoError(t, err)
	assert.True(t, found)
	// Usage count grows; bucket unchanged; confidence is last-write-wins.
	assert.Equal(t, 3, e.UsageCount)
	assert.Equal(t, models.BucketIncome, e.Bucket)
	assert.Equal(t, 0.9, e.Confidence)
}

func TestUpsert_Correction(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert("CAM Charges", models.BucketExpense, "budget", 0.6))
	require.NoError(t, s.Upsert("CAM Charges", models.BucketUtilityRecovery, "budget", 1.0))

	e, _, err := s.Get("CAM Charges", "budget")
	require.NoError(t, err)
	assert.Equal(t, models.BucketUtilityRecovery, e.Bucket)
	assert.Equal(t, 1.0, e.Confidence)
	assert.Equal(t, 2, e.UsageCount)
}

func TestList_OrderedByUsage(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 1.0))
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 1.0))
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 1.0))
	require.NoError(t, s.Upsert("Insurance", models.BucketInsurance, "budget", 1.0))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "rent", entries[0].AccountName)
	assert.Equal(t, 3, entries[0].UsageCount)
	assert.Equal(t, "insurance", entries[1].AccountName)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Upsert("Rent", models.BucketIncome, "budget", 1.0))
	require.NoError(t, s.Clear())

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
