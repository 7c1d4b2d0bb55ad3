// Package classifier assigns account names to reporting buckets. Resolution
// order: persisted bucket memory (authoritative), then total/summary
// detection, then the data-driven keyword rule table, then fuzzy matching
// against the income/expense keyword lists, and finally the unassigned
// fallback. The classifier is a simple online learner: every confirmed
// selection is persisted, so accuracy for a given ledger improves as the
// same account names recur across monthly uploads.
package classifier

import (
	"strings"
	"unicode"

	"propbooks/internal/logging"
	"propbooks/internal/models"
)

// Confidence levels for the non-memory resolution steps.
const (
	confidenceSummary    = 0.9
	confidenceSection    = 0.9
	confidenceKeyword    = 0.8
	confidenceFuzzyCap   = 0.85
	confidenceUnassigned = 0.5
)

// MemoryStore is the learned-mapping dependency of the classifier.
type MemoryStore interface {
	Get(accountName, fileType string) (models.BucketMemoryEntry, bool, error)
	Upsert(accountName string, bucket models.Bucket, fileType string, confidence float64) error
}

// Classifier assigns buckets to account names.
type Classifier struct {
	memory         MemoryStore
	rules          []BucketRule
	fuzzyThreshold int
	logger         logging.Logger
}

// New creates a Classifier with the given memory store, rule table and fuzzy
// match threshold (0-100).
func New(memory MemoryStore, rules []BucketRule, fuzzyThreshold int, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{
		memory:         memory,
		rules:          rules,
		fuzzyThreshold: fuzzyThreshold,
		logger:         logger,
	}
}

// SuggestBucket returns the bucket suggestion for an account name within a
// file type. A bucket-memory hit is authoritative and short-circuits every
// fallback rule.
func (c *Classifier) SuggestBucket(accountName, fileType string) (models.Suggestion, error) {
	name := strings.TrimSpace(accountName)
	if name == "" {
		return models.Suggestion{
			Bucket:     models.BucketUnassigned,
			Confidence: confidenceUnassigned,
			Source:     models.SourceDefault,
		}, nil
	}

	if c.memory != nil {
		entry, found, err := c.memory.Get(name, fileType)
		if err != nil {
			return models.Suggestion{}, err
		}
		if found {
			c.logger.WithFields(
				logging.Field{Key: logging.FieldAccount, Value: name},
				logging.Field{Key: logging.FieldBucket, Value: entry.Bucket},
			).Debug("Account classified from bucket memory")
			return models.Suggestion{
				Bucket:     entry.Bucket,
				Confidence: entry.Confidence,
				Source:     models.SourceMemory,
			}, nil
		}
	}

	return c.suggestDefault(name), nil
}

// suggestDefault runs the fallback chain: summary detection, keyword rules,
// fuzzy matching, unassigned.
func (c *Classifier) suggestDefault(name string) models.Suggestion {
	if bucket, ok := classifySummary(name); ok {
		return models.Suggestion{Bucket: bucket, Confidence: confidenceSummary, Source: models.SourceDefault}
	}

	if bucket, keyword, ok := c.matchRules(name); ok {
		c.logger.WithFields(
			logging.Field{Key: logging.FieldAccount, Value: name},
			logging.Field{Key: "keyword", Value: keyword},
			logging.Field{Key: logging.FieldBucket, Value: bucket},
		).Debug("Account classified by keyword rule")
		return models.Suggestion{Bucket: bucket, Confidence: confidenceKeyword, Source: models.SourceDefault}
	}

	if suggestion, ok := c.matchFuzzy(name); ok {
		return suggestion
	}

	return models.Suggestion{
		Bucket:     models.BucketUnassigned,
		Confidence: confidenceUnassigned,
		Source:     models.SourceDefault,
	}
}

// summaryKeywords flag total/summary lines, which carry their bucket in the
// label itself and must not be fuzzy-matched against line-item keywords.
var summaryKeywords = []string{
	"total income", "total expense", "net income", "gross income",
	"operating income", "operating expense", "net operating income",
	"total revenue", "total costs", "profit", "loss",
}

func classifySummary(name string) (models.Bucket, bool) {
	lower := strings.ToLower(name)
	matched := false
	for _, keyword := range summaryKeywords {
		if strings.Contains(lower, keyword) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	switch {
	case strings.Contains(lower, "income") && strings.Contains(lower, "net"):
		return models.BucketNetIncome, true
	case strings.Contains(lower, "income") || strings.Contains(lower, "revenue"):
		return models.BucketIncome, true
	case strings.Contains(lower, "expense") || strings.Contains(lower, "cost"):
		return models.BucketExpense, true
	case strings.Contains(lower, "net"):
		return models.BucketNetIncome, true
	}
	return "", false
}

// matchRules scans the rule table in declaration order. For each keyword the
// checks are: exact match, substring containment in either direction, and a
// normalized-alphanumeric equality fallback for punctuation variance. The
// first matching bucket wins.
func (c *Classifier) matchRules(name string) (models.Bucket, string, bool) {
	lower := strings.ToLower(name)
	normalized := normalizeAlphanumeric(lower)

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			kw := strings.ToLower(keyword)
			if lower == kw ||
				strings.Contains(lower, kw) ||
				strings.Contains(kw, lower) ||
				normalized == normalizeAlphanumeric(kw) {
				return rule.Bucket, keyword, true
			}
		}
	}
	return "", "", false
}

// matchFuzzy scores the account name against the income and expense keyword
// lists. The better-scoring side wins when it clears the threshold, with
// confidence proportional to the score and capped below certainty.
func (c *Classifier) matchFuzzy(name string) (models.Suggestion, bool) {
	lower := strings.ToLower(name)

	incomeScore := c.bestScore(lower, models.BucketIncome)
	expenseScore := c.bestScore(lower, models.BucketExpense)

	threshold := c.fuzzyThreshold
	if threshold <= 0 {
		threshold = 60
	}

	var bucket models.Bucket
	var score int
	switch {
	case incomeScore > expenseScore && incomeScore > threshold:
		bucket, score = models.BucketIncome, incomeScore
	case expenseScore > threshold:
		bucket, score = models.BucketExpense, expenseScore
	default:
		return models.Suggestion{}, false
	}

	confidence := float64(score) / 100.0
	if confidence > confidenceFuzzyCap {
		confidence = confidenceFuzzyCap
	}
	c.logger.WithFields(
		logging.Field{Key: logging.FieldAccount, Value: name},
		logging.Field{Key: logging.FieldBucket, Value: bucket},
		logging.Field{Key: "score", Value: score},
	).Debug("Account classified by fuzzy match")
	return models.Suggestion{Bucket: bucket, Confidence: confidence, Source: models.SourceDefault}, true
}

func (c *Classifier) bestScore(name string, parent models.Bucket) int {
	best := 0
	for _, rule := range c.rules {
		if rule.Bucket.Parent() != parent {
			continue
		}
		for _, keyword := range rule.Keywords {
			if score := PartialRatio(name, strings.ToLower(keyword)); score > best {
				best = score
			}
		}
	}
	return best
}

// RecordSelection persists a confirmed bucket choice to memory synchronously.
// This is the learning path: user confirmations and corrections flow through
// here before any in-memory view is refreshed.
func (c *Classifier) RecordSelection(accountName string, bucket models.Bucket, fileType string, confidence float64) error {
	if confidence == 0 {
		confidence = 1.0
	}
	if err := c.memory.Upsert(accountName, bucket, fileType, confidence); err != nil {
		return err
	}
	c.logger.WithFields(
		logging.Field{Key: logging.FieldAccount, Value: accountName},
		logging.Field{Key: logging.FieldBucket, Value: bucket},
	).Debug("Recorded bucket selection")
	return nil
}

// normalizeAlphanumeric lowercases and strips everything but letters and
// digits, so "Repairs & Maintenance" equals "repairs maintenance".
func normalizeAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
