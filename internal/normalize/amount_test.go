package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", "0"},
		{"plain integer", "1000", "1000"},
		{"decimal", "1234.56", "1234.56"},
		{"thousands separator", "1,234.56", "1234.56"},
		{"dollar sign", "$1,000", "1000"},
		{"euro sign", "€500.25", "500.25"},
		{"parenthesized negative", "(1,234.50)", "-1234.5"},
		{"parenthesized with symbol", "($200)", "-200"},
		{"quoted value", `"1000"`, "1000"},
		{"apostrophe thousands", "1'234.56", "1234.56"},
		{"explicit negative", "-42.10", "-42.1"},
		{"whitespace", "  250  ", "250"},
		{"non-numeric", "n/a", "0"},
		{"lone parens", "()", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToNumber(tc.input)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}

func TestStandardizeAmount(t *testing.T) {
	assert.Equal(t, "-1234.50", StandardizeAmount("($1,234.50)"))
	assert.Equal(t, "1000", StandardizeAmount("$ 1,000"))
	assert.Equal(t, "", StandardizeAmount(""))
}
