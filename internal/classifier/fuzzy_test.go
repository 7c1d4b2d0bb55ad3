package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"identical", "rent", "rent", 100},
		{"substring window", "rent", "rental income", 100},
		{"empty left", "", "rent", 0},
		{"empty right", "rent", "", 0},
		{"disjoint", "zzzz", "rent", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PartialRatio(tc.a, tc.b))
		})
	}
}

func TestPartialRatio_NearMiss(t *testing.T) {
	// One substitution across an 11-rune window.
	score := PartialRatio("maintenence", "maintenance")
	assert.Equal(t, 90, score)
}

func TestPartialRatio_Symmetric(t *testing.T) {
	assert.Equal(t, PartialRatio("rent", "rental income"), PartialRatio("rental income", "rent"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance([]rune("abc"), []rune("abc")))
	assert.Equal(t, 1, editDistance([]rune("abc"), []rune("abd")))
	assert.Equal(t, 3, editDistance([]rune(""), []rune("abc")))
	assert.Equal(t, 2, editDistance([]rune("flaw"), []rune("lawn")))
}
