// Package properties handles property and record management commands
package properties

import (
	"fmt"

	"propbooks/cmd/root"
	"propbooks/internal/logging"
	"propbooks/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd represents the properties command
var Cmd = &cobra.Command{
	Use:   "properties",
	Short: "Manage properties and their uploaded records",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a property",
	RunE:  addFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List properties and their active record counts",
	RunE:  listFunc,
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List a property's uploaded records",
	RunE:  recordsFunc,
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate-record",
	Short: "Deactivate an uploaded record, releasing its period claim",
	RunE:  deactivateFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete-record",
	Short: "Delete an uploaded record permanently",
	RunE:  deleteFunc,
}

func init() {
	addCmd.Flags().StringVarP(&root.PropertyName, "name", "n", "", "Property name")
	addCmd.Flags().StringVar(&root.PropertyAddress, "address", "", "Street address (optional)")
	addCmd.Flags().StringVar(&root.PropertyType, "kind", "residential", "Property type")
	_ = addCmd.MarkFlagRequired("name")

	recordsCmd.Flags().StringVarP(&root.PropertyID, "property", "p", "", "Property ID")
	recordsCmd.Flags().StringVarP(&root.CSVType, "type", "t", "", "Restrict to one statement type")
	_ = recordsCmd.MarkFlagRequired("property")

	deactivateCmd.Flags().StringVarP(&root.RecordID, "record", "r", "", "Record ID")
	_ = deactivateCmd.MarkFlagRequired("record")

	deleteCmd.Flags().StringVarP(&root.RecordID, "record", "r", "", "Record ID")
	_ = deleteCmd.MarkFlagRequired("record")

	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(recordsCmd)
	Cmd.AddCommand(deactivateCmd)
	Cmd.AddCommand(deleteCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	property := &models.Property{
		ID:           uuid.NewString(),
		Name:         root.PropertyName,
		Address:      root.PropertyAddress,
		PropertyType: root.PropertyType,
	}
	if err := app.Properties.Create(property); err != nil {
		return err
	}
	root.Log.WithField(logging.FieldProperty, property.ID).Info("Property created")
	fmt.Printf("Created property %s (%s)\n", property.ID, property.Name)
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	properties, err := app.Properties.List()
	if err != nil {
		return err
	}
	if len(properties) == 0 {
		fmt.Println("No properties")
		return nil
	}

	for _, p := range properties {
		records, err := app.Records.ListActiveByProperty(p.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %-30s %-12s %d active record(s)\n", p.ID, p.Name, p.PropertyType, len(records))
	}
	return nil
}

func recordsFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	var records []models.PropertyCSVRecord
	if root.CSVType != "" {
		records, err = app.Records.ListByPropertyAndType(root.PropertyID, root.CSVType, true)
	} else {
		records, err = app.Records.ListActiveByProperty(root.PropertyID)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records for property", root.PropertyID)
		return nil
	}

	for _, r := range records {
		state := "active"
		if !r.IsActive {
			state = "inactive"
		}
		period := "-"
		if r.Metadata.Year != 0 {
			period = fmt.Sprintf("%04d-%02d", r.Metadata.Year, r.Metadata.Month)
		}
		fmt.Printf("%s  %-10s %-8s %-20s %3d account(s)  %s\n",
			r.ID, r.CSVType, state, r.FileName, r.Metadata.TotalRecords, period)
	}
	return nil
}

func deactivateFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Records.SetActive(root.RecordID, false); err != nil {
		return err
	}
	root.Log.WithField(logging.FieldRecord, root.RecordID).Info("Record deactivated")
	fmt.Printf("Deactivated record %s\n", root.RecordID)
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	app, err := root.OpenApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Records.Delete(root.RecordID); err != nil {
		return err
	}
	root.Log.WithField(logging.FieldRecord, root.RecordID).Info("Record deleted")
	fmt.Printf("Deleted record %s\n", root.RecordID)
	return nil
}
