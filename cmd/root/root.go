// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"propbooks/internal/classifier"
	"propbooks/internal/config"
	"propbooks/internal/database"
	"propbooks/internal/dedup"
	"propbooks/internal/ingest"
	"propbooks/internal/logging"
	"propbooks/internal/memory"
	"propbooks/internal/store"
	"propbooks/internal/tokenizer"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg is the resolved application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "propbooks",
		Short: "Ingest, categorize and deduplicate property-accounting ledger CSVs.",
		Long: `propbooks ingests property-accounting ledger exports (CSV), classifies every
account into reporting buckets, learns from prior corrections, rejects and
merges duplicate uploads, and produces bucket-level rollups (monthly totals,
Net Operating Income).`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to propbooks!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			logging.SetDefault(Log)

			if delim := cfg.CSV.Delimiter; delim != "" {
				tokenizer.SetDelimiter([]rune(delim)[0])
			}
			return nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Ingest and record command flags
	PropertyID string
	CSVType    string
	FilePath   string
	RecordID   string

	// Rollup and export command flags
	Periods []string

	// Memory command flags
	AccountName string
	BucketID    string
	FileType    string

	// Property command flags
	PropertyName    string
	PropertyAddress string
	PropertyType    string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
}

// App bundles the wired engine components behind one open database. Every
// command opens one App, runs, and closes it; the database is the sole
// shared mutable resource.
type App struct {
	DB         *database.DB
	Properties *store.PropertyStore
	Records    *store.RecordStore
	Memory     *memory.Store
	Classifier *classifier.Classifier
	Dedup      *dedup.Engine
	Importer   *ingest.Importer
}

// OpenApp opens the configured database and wires the stores, classifier,
// deduplication engine and importer.
func OpenApp() (*App, error) {
	if Cfg == nil {
		cfg, err := config.InitializeConfig()
		if err != nil {
			return nil, err
		}
		Cfg = cfg
	}

	dbPath := Cfg.Data.DatabasePath
	if Cfg.Data.Directory != "" && !filepath.IsAbs(dbPath) {
		if err := os.MkdirAll(Cfg.Data.Directory, 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		dbPath = filepath.Join(Cfg.Data.Directory, dbPath)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	rules, err := classifier.LoadRules(Cfg.Classifier.RulesFile)
	if err != nil {
		Log.WithError(err).Warn("Failed to load bucket rules, using defaults")
		rules = classifier.DefaultRules()
	}

	properties := store.NewPropertyStore(db)
	records := store.NewRecordStore(db)
	mem := memory.NewStore(db)
	cls := classifier.New(mem, rules, Cfg.Classifier.FuzzyThreshold, Log)
	engine := dedup.NewEngine(records, time.Duration(Cfg.Dedup.ExactWindowSeconds)*time.Second, Log)
	importer := ingest.NewImporter(cls, engine, records, properties,
		Cfg.Classifier.AutoLearn, Cfg.Classifier.ConfidenceThreshold, Log)

	return &App{
		DB:         db,
		Properties: properties,
		Records:    records,
		Memory:     mem,
		Classifier: cls,
		Dedup:      engine,
		Importer:   importer,
	}, nil
}

// Close releases the App's database.
func (a *App) Close() error {
	return a.DB.Close()
}

// OutputWriter returns the writer selected by the shared --output flag and a
// close function. Empty means stdout.
func OutputWriter() (*os.File, func(), error) {
	if SharedFlags.Output == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(SharedFlags.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
