package rollup

import (
	"testing"

	"propbooks/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, bucket models.Bucket, values map[string]string) models.NormalizedRecord {
	rec := models.NormalizedRecord{
		AccountName:  name,
		Bucket:       bucket,
		PeriodValues: make(map[string]decimal.Decimal, len(values)),
	}
	for period, v := range values {
		rec.PeriodValues[period] = decimal.RequireFromString(v)
	}
	return rec
}

func TestRollupSumsMatchingBucket(t *testing.T) {
	records := []models.NormalizedRecord{
		record("Rent", models.BucketRent, map[string]string{"Jan 2024": "1000", "Feb 2024": "1100"}),
		record("Late Fees", models.BucketFees, map[string]string{"Jan 2024": "50"}),
		record("Maintenance", models.BucketMaintenance, map[string]string{"Jan 2024": "200"}),
	}

	income := Rollup(records, []string{"Jan 2024", "Feb 2024"}, models.BucketIncome)
	assert.True(t, income["Jan 2024"].Equal(decimal.RequireFromString("1050")))
	assert.True(t, income["Feb 2024"].Equal(decimal.RequireFromString("1100")))

	expense := Rollup(records, []string{"Jan 2024", "Feb 2024"}, models.BucketExpense)
	assert.True(t, expense["Jan 2024"].Equal(decimal.RequireFromString("200")))
	assert.True(t, expense["Feb 2024"].Equal(decimal.Zero), "missing period contributes zero")
}

func TestRollupSubBucketsRollIntoParent(t *testing.T) {
	records := []models.NormalizedRecord{
		record("Rent", models.BucketRent, map[string]string{"Jan 2024": "900"}),
		record("Misc Income", models.BucketIncome, map[string]string{"Jan 2024": "100"}),
	}

	income := Rollup(records, []string{"Jan 2024"}, models.BucketIncome)
	assert.True(t, income["Jan 2024"].Equal(decimal.RequireFromString("1000")))
}

func TestRollupIgnoresUnassignedAndSummary(t *testing.T) {
	records := []models.NormalizedRecord{
		record("Rent", models.BucketRent, map[string]string{"Jan 2024": "1000"}),
		record("Mystery", models.BucketUnassigned, map[string]string{"Jan 2024": "400"}),
		record("Net Income", models.BucketNetIncome, map[string]string{"Jan 2024": "800"}),
	}

	income := Rollup(records, []string{"Jan 2024"}, models.BucketIncome)
	assert.True(t, income["Jan 2024"].Equal(decimal.RequireFromString("1000")))
}

func TestSummarizeNOI(t *testing.T) {
	records := []models.NormalizedRecord{
		record("Rent", models.BucketRent, map[string]string{"Jan 2024": "1000"}),
		record("Maintenance", models.BucketMaintenance, map[string]string{"Jan 2024": "200"}),
	}

	s := Summarize(records, nil)
	require.Equal(t, []string{"Jan 2024"}, s.Periods)
	assert.True(t, s.Income["Jan 2024"].Equal(decimal.RequireFromString("1000")))
	assert.True(t, s.Expense["Jan 2024"].Equal(decimal.RequireFromString("200")))
	assert.True(t, s.NOI["Jan 2024"].Equal(decimal.RequireFromString("800")))
	assert.True(t, s.TotalNOI.Equal(decimal.RequireFromString("800")))
}

func TestSummarizePeriodsInOneBucketOnly(t *testing.T) {
	records := []models.NormalizedRecord{
		record("Rent", models.BucketRent, map[string]string{"Jan 2024": "1000"}),
		record("Insurance", models.BucketInsurance, map[string]string{"Feb 2024": "300"}),
	}

	s := Summarize(records, nil)
	require.Equal(t, []string{"Jan 2024", "Feb 2024"}, s.Periods)
	assert.True(t, s.NOI["Jan 2024"].Equal(decimal.RequireFromString("1000")))
	assert.True(t, s.NOI["Feb 2024"].Equal(decimal.RequireFromString("-300")))
	assert.True(t, s.TotalIncome.Equal(decimal.RequireFromString("1000")))
	assert.True(t, s.TotalExpense.Equal(decimal.RequireFromString("300")))
	assert.True(t, s.TotalNOI.Equal(decimal.RequireFromString("700")))
}

func TestCollectPeriodsChronological(t *testing.T) {
	records := []models.NormalizedRecord{
		record("Rent", models.BucketRent, map[string]string{"Mar 2024": "1", "Jan 2024": "1"}),
		record("Fees", models.BucketFees, map[string]string{"Dec 2023": "1"}),
	}

	periods := CollectPeriods(records)
	assert.Equal(t, []string{"Dec 2023", "Jan 2024", "Mar 2024"}, periods)
}
