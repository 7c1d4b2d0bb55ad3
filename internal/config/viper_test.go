package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// mirroring t.Chdir which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(old))
	})
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROPBOOKS_LOG_LEVEL",
		"PROPBOOKS_LOG_FORMAT",
		"PROPBOOKS_CSV_DELIMITER",
		"PROPBOOKS_CLASSIFIER_AUTO_LEARN",
		"PROPBOOKS_CLASSIFIER_FUZZY_THRESHOLD",
		"PROPBOOKS_DEDUP_EXACT_WINDOW_SECONDS",
		"PROPBOOKS_DATA_DATABASE_PATH",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.True(t, config.Classifier.AutoLearn)
	assert.Equal(t, 0.5, config.Classifier.ConfidenceThreshold)
	assert.Equal(t, 60, config.Classifier.FuzzyThreshold)
	assert.Equal(t, "buckets.yaml", config.Classifier.RulesFile)
	assert.Equal(t, 60, config.Dedup.ExactWindowSeconds)
	assert.Equal(t, "", config.Data.Directory)
	assert.Equal(t, "propbooks.db", config.Data.DatabasePath)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("PROPBOOKS_LOG_LEVEL", "debug")
	t.Setenv("PROPBOOKS_LOG_FORMAT", "json")
	t.Setenv("PROPBOOKS_CLASSIFIER_FUZZY_THRESHOLD", "75")
	t.Setenv("PROPBOOKS_DEDUP_EXACT_WINDOW_SECONDS", "120")
	t.Setenv("PROPBOOKS_DATA_DATABASE_PATH", "ledger.db")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 75, config.Classifier.FuzzyThreshold)
	assert.Equal(t, 120, config.Dedup.ExactWindowSeconds)
	assert.Equal(t, "ledger.db", config.Data.DatabasePath)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	chdir(t, dir)

	content := `log:
  level: warn
  format: json
classifier:
  auto_learn: false
  fuzzy_threshold: 80
dedup:
  exact_window_seconds: 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.False(t, config.Classifier.AutoLearn)
	assert.Equal(t, 80, config.Classifier.FuzzyThreshold)
	assert.Equal(t, 30, config.Dedup.ExactWindowSeconds)
	// Untouched keys keep their defaults.
	assert.Equal(t, "propbooks.db", config.Data.DatabasePath)
}

func TestInitializeConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "PROPBOOKS_LOG_LEVEL", "verbose"},
		{"bad log format", "PROPBOOKS_LOG_FORMAT", "xml"},
		{"fuzzy threshold out of range", "PROPBOOKS_CLASSIFIER_FUZZY_THRESHOLD", "150"},
		{"negative dedup window", "PROPBOOKS_DEDUP_EXACT_WINDOW_SECONDS", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnvVars(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := InitializeConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	require.NotNil(t, logger)
	assert.Equal(t, "debug", logger.Level.String())
}
