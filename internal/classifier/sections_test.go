package classifier

import (
	"testing"

	"propbooks/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDetectSections(t *testing.T) {
	names := []string{
		"Operating Income",
		"Rent",
		"Parking",
		"Total Operating Expenses",
		"Plumbing",
		"Janitorial",
		"Net Operating Income",
	}

	sections := DetectSections(names)

	assert.Equal(t, models.BucketIncome, sections["Rent"])
	assert.Equal(t, models.BucketIncome, sections["Parking"])
	assert.Equal(t, models.BucketExpense, sections["Plumbing"])
	assert.Equal(t, models.BucketExpense, sections["Janitorial"])
	assert.Equal(t, models.BucketNetIncome, sections["Net Operating Income"])
}

func TestDetectSections_NoHeaders(t *testing.T) {
	sections := DetectSections([]string{"Rent", "Plumbing"})
	assert.Empty(t, sections)
}

func TestDetectSections_SkipsBareTotals(t *testing.T) {
	sections := DetectSections([]string{"Gross Income", "Rent", "Total"})
	assert.Equal(t, models.BucketIncome, sections["Rent"])
	_, ok := sections["Total"]
	assert.False(t, ok)
}
