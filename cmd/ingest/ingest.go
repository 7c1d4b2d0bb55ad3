// Package ingest handles the ledger CSV import command
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"propbooks/cmd/root"
	"propbooks/internal/ledgererror"
	"propbooks/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a ledger CSV file for a property",
	Long: `Ingest a property-accounting ledger export: tokenize and normalize the file,
classify every account into a reporting bucket, check it against previously
stored uploads for duplicates, and persist the accepted record.`,
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.PropertyID, "property", "p", "", "Property ID the file belongs to")
	Cmd.Flags().StringVarP(&root.CSVType, "type", "t", "", "Statement type of the file (e.g. budget, cashflow)")
	Cmd.Flags().StringVarP(&root.FilePath, "file", "f", "", "Path to the CSV file")
	_ = Cmd.MarkFlagRequired("property")
	_ = Cmd.MarkFlagRequired("type")
	_ = Cmd.MarkFlagRequired("file")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	root.Log.WithFields(
		logging.Field{Key: logging.FieldProperty, Value: root.PropertyID},
		logging.Field{Key: logging.FieldFile, Value: root.FilePath},
	).Info("Ingest command called")

	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	f, err := os.Open(root.FilePath)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	record, summary, err := app.Importer.Import(cmd.Context(), root.PropertyID, root.CSVType,
		filepath.Base(root.FilePath), f, nil)
	var dupErr *ledgererror.DuplicateError
	if errors.As(err, &dupErr) {
		root.Log.WithFields(
			logging.Field{Key: logging.FieldDuplicate, Value: dupErr.DuplicateType},
			logging.Field{Key: logging.FieldRecord, Value: dupErr.ExistingRecordID},
		).Error("Upload rejected as duplicate")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("Accepted %s as record %s\n", record.FileName, record.ID)
	fmt.Printf("  accounts: %d (income %d, expense %d, other %d, unassigned %d)\n",
		summary.TotalRecords, summary.IncomeCount, summary.ExpenseCount,
		summary.OtherCount, summary.UnassignedCount)
	fmt.Printf("  average confidence: %.2f\n", summary.AverageConfidence)
	if summary.Merged {
		fmt.Printf("  merged: dropped %d line items already on file: %v\n",
			len(summary.DroppedAccounts), summary.DroppedAccounts)
	}
	return nil
}
