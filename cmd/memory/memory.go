// Package memory handles the bucket-memory inspection and maintenance commands
package memory

import (
	"fmt"

	"propbooks/cmd/root"
	"propbooks/internal/logging"
	"propbooks/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the memory command
var Cmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and maintain the learned bucket memory",
	Long: `Bucket memory is the durable mapping of (account name, file type) pairs to
the bucket a user confirmed for them. It is authoritative during
classification and never expires on its own.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned bucket mappings, most used first",
	RunE:  listFunc,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Confirm a bucket for an account name",
	Long: `Record a bucket selection for an (account name, file type) pair. A repeat
confirmation increments the usage count; the latest choice always wins.`,
	RunE: setFunc,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the entire bucket memory store",
	RunE:  clearFunc,
}

func init() {
	setCmd.Flags().StringVarP(&root.AccountName, "account", "a", "", "Account name to map")
	setCmd.Flags().StringVarP(&root.BucketID, "bucket", "b", "", "Bucket to assign (e.g. income, expense:maintenance)")
	setCmd.Flags().StringVarP(&root.FileType, "type", "t", "", "File type the mapping applies to")
	_ = setCmd.MarkFlagRequired("account")
	_ = setCmd.MarkFlagRequired("bucket")
	_ = setCmd.MarkFlagRequired("type")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(clearCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	entries, err := app.Memory.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Bucket memory is empty")
		return nil
	}

	fmt.Printf("%-40s %-12s %-22s %6s %10s\n", "ACCOUNT", "FILE TYPE", "BUCKET", "USES", "CONFIDENCE")
	for _, e := range entries {
		fmt.Printf("%-40s %-12s %-22s %6d %10.2f\n",
			e.AccountName, e.FileType, e.Bucket, e.UsageCount, e.Confidence)
	}
	return nil
}

func setFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	bucket := models.Bucket(root.BucketID)
	if err := app.Classifier.RecordSelection(root.AccountName, bucket, root.FileType, 1.0); err != nil {
		return err
	}
	root.Log.WithFields(
		logging.Field{Key: logging.FieldAccount, Value: root.AccountName},
		logging.Field{Key: logging.FieldBucket, Value: bucket},
	).Info("Recorded bucket selection")
	fmt.Printf("Mapped %q (%s) to %s\n", root.AccountName, root.FileType, bucket)
	return nil
}

func clearFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Memory.Clear(); err != nil {
		return err
	}
	fmt.Println("Bucket memory cleared")
	return nil
}
