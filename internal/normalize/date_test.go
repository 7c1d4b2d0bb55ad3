package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToDate(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expectedOk bool
		expectedY  int
		expectedM  time.Month
		expectedD  int
	}{
		{"ISO format", "2024-08-15", true, 2024, time.August, 15},
		{"US format", "08/15/2024", true, 2024, time.August, 15},
		{"European format", "15/08/2024", true, 2024, time.August, 15},
		{"year-first slash", "2024/08/15", true, 2024, time.August, 15},
		{"whitespace tolerated", "  2024-08-15 ", true, 2024, time.August, 15},
		{"empty string", "", false, 0, 0, 0},
		{"not a date", "not a date", false, 0, 0, 0},
		{"invalid calendar date", "2024-13-40", false, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, ok := ToDate(tc.input)
			assert.Equal(t, tc.expectedOk, ok)
			if tc.expectedOk {
				assert.Equal(t, tc.expectedY, date.Year())
				assert.Equal(t, tc.expectedM, date.Month())
				assert.Equal(t, tc.expectedD, date.Day())
			}
		})
	}
}

func TestToDate_SameLogicalDateAcrossFormats(t *testing.T) {
	// All four supported formats for August 15 2024 parse to equal dates.
	inputs := []string{"2024-08-15", "08/15/2024", "2024/08/15"}
	want, ok := ToDate("2024-08-15")
	assert.True(t, ok)
	for _, in := range inputs {
		got, ok := ToDate(in)
		assert.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}
}

func TestToDate_AmbiguousPrefersUS(t *testing.T) {
	// 03/04/2024 parses as March 4 under the fixed priority order.
	date, ok := ToDate("03/04/2024")
	assert.True(t, ok)
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 4, date.Day())
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Aug 2024", PeriodLabel(time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Aug 2024", PeriodFromParts(2024, 8))
}

func TestParsePeriodLabel(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expectedOk bool
		expectedY  int
		expectedM  time.Month
	}{
		{"abbreviated month", "Aug 2024", true, 2024, time.August},
		{"full month", "August 2024", true, 2024, time.August},
		{"numeric slash", "08/2024", true, 2024, time.August},
		{"numeric dash", "2024-08", true, 2024, time.August},
		{"garbage", "Quarter 3", false, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePeriodLabel(tc.input)
			assert.Equal(t, tc.expectedOk, ok)
			if tc.expectedOk {
				assert.Equal(t, tc.expectedY, got.Year())
				assert.Equal(t, tc.expectedM, got.Month())
			}
		})
	}
}
