package normalize

import (
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted by ToDate, tried in fixed priority order. The first
// layout that parses to a valid calendar date wins, so an ambiguous value
// like 03/04/2024 resolves as US month-first.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutEuropean = "02/01/2006"
	DateLayoutYMDSlash = "2006/01/02"
)

var dateFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
	DateLayoutEuropean,
	DateLayoutYMDSlash,
}

// periodLabelLayout renders a period as its calendar-month label, e.g. "Aug 2024".
const periodLabelLayout = "Jan 2006"

var whitespace = regexp.MustCompile(`\s+`)

// ToDate attempts to parse a date string using the supported formats.
// Returns the parsed time and true, or the zero time and false when no
// format matches; the caller filters out records with no date rather than
// failing the whole import.
func ToDate(raw string) (time.Time, bool) {
	cleaned := CleanDateString(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CleanDateString trims and collapses internal whitespace in a date string.
func CleanDateString(raw string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// PeriodLabel renders a time as its reporting period label ("Aug 2024").
func PeriodLabel(t time.Time) string {
	return t.Format(periodLabelLayout)
}

// ParsePeriodLabel parses a reporting period label back into the first day
// of that month. Returns false when the label is not a recognized period.
func ParsePeriodLabel(label string) (time.Time, bool) {
	cleaned := CleanDateString(label)
	for _, layout := range []string{periodLabelLayout, "January 2006", "01/2006", "2006-01"} {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PeriodFromParts returns the label for a (year, month) pair, e.g. (2024, 8)
// yields "Aug 2024".
func PeriodFromParts(year, month int) string {
	return PeriodLabel(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
}
