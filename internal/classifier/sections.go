package classifier

import (
	"strings"

	"propbooks/internal/models"
)

// DetectSections scans account names in file order and assigns a bucket to
// every row that falls under an income or expense section header. Ledger
// exports group line items under headers like "Operating Income" or "Total
// Operating Expenses"; rows between one header and the next inherit the
// section's bucket. Returned assignments carry section-level confidence and
// are applied before per-row keyword matching.
func DetectSections(accountNames []string) map[string]models.Bucket {
	sections := make(map[string]models.Bucket)
	var current models.Bucket

	for _, name := range accountNames {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			continue
		}

		switch {
		case containsAny(lower, "income", "revenue"):
			if containsAny(lower, "net", "profit") {
				current = models.BucketNetIncome
			} else if containsAny(lower, "total", "gross", "operating") {
				current = models.BucketIncome
			}
		case containsAny(lower, "expense", "cost"):
			if containsAny(lower, "total", "operating") {
				current = models.BucketExpense
			}
		case containsAny(lower, "profit", "loss"):
			current = models.BucketNetIncome
		}

		if current != "" && lower != "total" && lower != "subtotal" {
			sections[name] = current
		}
	}
	return sections
}

// SectionConfidence is the confidence attached to section-derived buckets.
func SectionConfidence() float64 { return confidenceSection }

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
