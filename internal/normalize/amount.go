// Package normalize converts raw ledger strings into numbers, dates and
// period labels. Conversion is deliberately forgiving: a single bad cell must
// not abort a multi-hundred-row import, so failures normalize to safe
// defaults instead of raising.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s]`)

// ToNumber converts a raw amount string into a decimal value.
// Empty input yields zero. Currency symbols and quotes are stripped,
// thousands-separator commas removed, and a value wrapped in parentheses is
// treated as negative. A non-numeric result also yields zero: downstream
// aggregation tolerates silent-zero on bad input rather than losing a file.
func ToNumber(raw string) decimal.Decimal {
	standardized := StandardizeAmount(raw)
	if standardized == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// StandardizeAmount converts the currency string formats found in ledger
// exports into a form decimal.NewFromString accepts: "$1,234.56",
// "(1,234.50)", `"1000"`, "€ 500", "1'234.56".
func StandardizeAmount(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	s = currencySymbols.ReplaceAllString(s, "")

	// Parenthesized negatives: reattach a leading '-' after removing parens.
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	// Thousands separators.
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "'", "")

	s = strings.TrimSpace(s)
	if negative && s != "" {
		s = "-" + s
	}
	return s
}
