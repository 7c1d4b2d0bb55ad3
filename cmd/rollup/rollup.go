// Package rollup handles the bucket rollup reporting command
package rollup

import (
	"fmt"
	"sort"

	"propbooks/cmd/root"
	"propbooks/internal/export"
	"propbooks/internal/logging"
	"propbooks/internal/models"
	"propbooks/internal/rollup"

	"github.com/spf13/cobra"
)

// Cmd represents the rollup command
var Cmd = &cobra.Command{
	Use:   "rollup",
	Short: "Compute bucket totals and NOI for a property",
	Long: `Compute per-period income and expense totals and Net Operating Income across
a property's active records. Totals are computed at request time so edited
bucket assignments are always reflected. Without --type, totals are reported
per statement type; types are never summed together, since two types (e.g.
budget and actuals) may both claim the same period.`,
	RunE: rollupFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.PropertyID, "property", "p", "", "Property ID to roll up")
	Cmd.Flags().StringVarP(&root.CSVType, "type", "t", "", "Restrict to one statement type (default: all)")
	Cmd.Flags().StringSliceVar(&root.Periods, "periods", nil, "Period labels to report (default: all found)")
	_ = Cmd.MarkFlagRequired("property")
}

func rollupFunc(cmd *cobra.Command, args []string) error {
	root.Log.WithField(logging.FieldProperty, root.PropertyID).Info("Rollup command called")

	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	var stored []models.PropertyCSVRecord
	if root.CSVType != "" {
		stored, err = app.Records.ListByPropertyAndType(root.PropertyID, root.CSVType, false)
	} else {
		stored, err = app.Records.ListActiveByProperty(root.PropertyID)
	}
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Println("No active records for property", root.PropertyID)
		return nil
	}

	// One summary per statement type; cross-type sums would double-count
	// periods claimed by more than one type.
	byType := make(map[string][]models.NormalizedRecord)
	var types []string
	for _, rec := range stored {
		if _, ok := byType[rec.CSVType]; !ok {
			types = append(types, rec.CSVType)
		}
		byType[rec.CSVType] = append(byType[rec.CSVType], rec.Records...)
	}
	sort.Strings(types)

	out, closeOut, err := root.OutputWriter()
	if err != nil {
		return err
	}
	defer closeOut()

	if root.CSVType != "" {
		summary := rollup.Summarize(byType[root.CSVType], root.Periods)
		if err := export.WriteSummary(out, summary); err != nil {
			return err
		}
		if root.SharedFlags.Output == "" {
			fmt.Printf("total income %s, total expense %s, NOI %s\n",
				summary.TotalIncome, summary.TotalExpense, summary.TotalNOI)
		}
		return nil
	}

	summaries := make([]export.TypedSummary, 0, len(types))
	for _, csvType := range types {
		summaries = append(summaries, export.TypedSummary{
			CSVType: csvType,
			Summary: rollup.Summarize(byType[csvType], root.Periods),
		})
	}
	if err := export.WriteSummaryByType(out, summaries); err != nil {
		return err
	}
	if root.SharedFlags.Output == "" {
		for _, ts := range summaries {
			fmt.Printf("%s: total income %s, total expense %s, NOI %s\n",
				ts.CSVType, ts.Summary.TotalIncome, ts.Summary.TotalExpense, ts.Summary.TotalNOI)
		}
	}
	return nil
}
