package models

// Bucket identifies the reporting category an account name is classified into.
type Bucket string

// Top-level reporting buckets.
const (
	BucketIncome    Bucket = "income"
	BucketExpense   Bucket = "expense"
	BucketOther     Bucket = "other"
	BucketNetIncome Bucket = "net_income"
	// BucketUnassigned is the fallback when no rule or memory entry matches.
	BucketUnassigned Bucket = "unassigned"
)

// Finer sub-buckets. Each rolls up into one of the top-level buckets.
const (
	BucketRent            Bucket = "income:rent"
	BucketFees            Bucket = "income:fees"
	BucketUtilityRecovery Bucket = "income:recovery"
	BucketMaintenance     Bucket = "expense:maintenance"
	BucketUtilities       Bucket = "expense:utilities"
	BucketInsurance       Bucket = "expense:insurance"
	BucketManagement      Bucket = "expense:management"
	BucketTaxes           Bucket = "expense:taxes"
)

// Duplicate types returned by the deduplication engine.
const (
	DuplicateNone           = "none"
	DuplicateExact          = "exact"
	DuplicatePropertyPeriod = "property-period"
	DuplicateLineItem       = "line-item"
)

// Suggestion sources reported by the classifier.
const (
	SourceMemory  = "memory"
	SourceDefault = "default"
)

// Tags applied to stored records.
const (
	TagMergedDeduplicated = "merged, deduplicated"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)

// Parent returns the top-level bucket a sub-bucket rolls up into.
// Top-level buckets return themselves.
func (b Bucket) Parent() Bucket {
	switch b {
	case BucketRent, BucketFees, BucketUtilityRecovery:
		return BucketIncome
	case BucketMaintenance, BucketUtilities, BucketInsurance, BucketManagement, BucketTaxes:
		return BucketExpense
	case BucketIncome, BucketExpense, BucketOther, BucketNetIncome:
		return b
	default:
		return BucketOther
	}
}

// IsIncome reports whether the bucket rolls up into income.
func (b Bucket) IsIncome() bool { return b.Parent() == BucketIncome }

// IsExpense reports whether the bucket rolls up into expense.
func (b Bucket) IsExpense() bool { return b.Parent() == BucketExpense }
