package classifier

import (
	"fmt"
	"os"
	"path/filepath"

	"propbooks/internal/models"

	"gopkg.in/yaml.v3"
)

// BucketRule associates a bucket with its ordered keyword list. Rules are
// evaluated in declaration order: income before expense before other. This
// biases ambiguous account names toward revenue recognition, a deliberate
// policy choice, not an accident of iteration order.
type BucketRule struct {
	Bucket   models.Bucket `yaml:"bucket"`
	Keywords []string      `yaml:"keywords"`
}

// RulesConfig is the structure of the buckets YAML file.
type RulesConfig struct {
	Buckets []BucketRule `yaml:"buckets"`
}

// DefaultRules returns the compiled-in rule table used when no buckets file
// is present. Keyword lists reflect the account naming conventions of
// property-management ledger exports.
func DefaultRules() []BucketRule {
	return []BucketRule{
		{
			Bucket: models.BucketIncome,
			Keywords: []string{
				"rent", "revenue", "income", "receipts", "fees", "charges",
				"tenant", "resident", "rental", "lease", "concessions",
				"short term", "airbnb", "vrbo", "parking", "pet fees",
				"application", "admin", "late fees", "utility recovery",
			},
		},
		{
			Bucket: models.BucketExpense,
			Keywords: []string{
				"expense", "cost", "maintenance", "repair", "utilities",
				"insurance", "tax", "management", "legal", "accounting",
				"marketing", "advertising", "cleaning", "landscaping",
				"security", "supplies", "equipment", "capital", "depreciation",
				"move out", "damages", "incentives", "specials",
			},
		},
		{
			Bucket: models.BucketOther,
			Keywords: []string{
				"deposit", "escrow", "reserve", "transfer", "adjustment",
			},
		},
	}
}

// LoadRules loads the bucket rule table from a YAML file, looking in the
// standard locations. A missing file is not an error: the compiled defaults
// apply, so per-deployment customization never requires a code change.
func LoadRules(filename string) ([]BucketRule, error) {
	if filename == "" {
		filename = "buckets.yaml"
	}

	filePath, err := findRulesFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("error resolving bucket rules file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading bucket rules file: %w", err)
	}

	var config RulesConfig
	if err := yaml.Unmarshal(data, &config); err == nil && len(config.Buckets) > 0 {
		return config.Buckets, nil
	}

	// Tolerate a bare list without the top-level key.
	var rules []BucketRule
	if err := yaml.Unmarshal(data, &rules); err == nil && len(rules) > 0 {
		return rules, nil
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing bucket rules: %w", err)
	}
	return DefaultRules(), nil
}

// findRulesFile looks for the rules file in standard locations.
func findRulesFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".propbooks", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// SaveRules writes a rule table to a YAML file.
func SaveRules(rules []BucketRule, filePath string) error {
	data, err := yaml.Marshal(RulesConfig{Buckets: rules})
	if err != nil {
		return fmt.Errorf("error marshaling bucket rules: %w", err)
	}
	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing bucket rules: %w", err)
	}
	return nil
}
