// Package export renders normalized records for the external reporting sink.
// The sink consumes flat CSV: one row per account and period in the detail
// export, one row per period in the summary export.
package export

import (
	"fmt"
	"io"

	"propbooks/internal/models"
	"propbooks/internal/rollup"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Row is one detail line of the reporting export.
type Row struct {
	AccountName string `csv:"account_name"`
	Category    string `csv:"account_category"`
	Period      string `csv:"period"`
	Amount      string `csv:"amount"`
	Total       string `csv:"total"`
}

// Rows flattens normalized records into detail rows, one per account and
// period. An empty period list means all periods found across the records,
// in chronological order. A record missing a period emits a zero amount so
// the sink sees a dense series.
func Rows(records []models.NormalizedRecord, periods []string) []Row {
	if len(periods) == 0 {
		periods = rollup.CollectPeriods(records)
	}

	rows := make([]Row, 0, len(records)*len(periods))
	for _, rec := range records {
		for _, period := range periods {
			rows = append(rows, Row{
				AccountName: rec.AccountName,
				Category:    string(rec.Bucket),
				Period:      period,
				Amount:      rec.Value(period).String(),
				Total:       rec.Total.String(),
			})
		}
	}
	return rows
}

// Write renders the detail export as CSV.
func Write(w io.Writer, records []models.NormalizedRecord, periods []string) error {
	rows := Rows(records, periods)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("marshal export rows: %w", err)
	}
	return nil
}

// Read parses a detail export back into rows.
func Read(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal export rows: %w", err)
	}
	return rows, nil
}

// Assemble rebuilds normalized records from detail rows, one record per
// distinct account name in row order. Zero amounts are kept so that
// Assemble(Read(Write(records))) preserves the period set.
func Assemble(rows []Row) ([]models.NormalizedRecord, error) {
	byName := make(map[string]*models.NormalizedRecord)
	var order []string

	for _, row := range rows {
		rec, ok := byName[row.AccountName]
		if !ok {
			total, err := decimal.NewFromString(row.Total)
			if err != nil {
				return nil, fmt.Errorf("parse total for %s: %w", row.AccountName, err)
			}
			rec = &models.NormalizedRecord{
				AccountName:  row.AccountName,
				Bucket:       models.Bucket(row.Category),
				PeriodValues: make(map[string]decimal.Decimal),
				Total:        total,
			}
			byName[row.AccountName] = rec
			order = append(order, row.AccountName)
		}
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount for %s %s: %w", row.AccountName, row.Period, err)
		}
		rec.PeriodValues[row.Period] = amount
	}

	records := make([]models.NormalizedRecord, 0, len(order))
	for _, name := range order {
		records = append(records, *byName[name])
	}
	return records, nil
}

// TypedSummary pairs one statement type with its bucket totals. Statement
// types are never summed together: a budget and an actuals upload may both
// claim the same period, so cross-type totals would double-count it.
type TypedSummary struct {
	CSVType string
	Summary rollup.Summary
}

// TypedSummaryRow is one period line of the per-type summary export.
type TypedSummaryRow struct {
	CSVType string `csv:"csv_type"`
	Period  string `csv:"period"`
	Income  string `csv:"total_income"`
	Expense string `csv:"total_expense"`
	NOI     string `csv:"net_operating_income"`
}

// WriteSummaryByType renders one summary section per statement type as a
// single CSV with a csv_type column.
func WriteSummaryByType(w io.Writer, summaries []TypedSummary) error {
	var rows []TypedSummaryRow
	for _, ts := range summaries {
		for _, period := range ts.Summary.Periods {
			rows = append(rows, TypedSummaryRow{
				CSVType: ts.CSVType,
				Period:  period,
				Income:  ts.Summary.Income[period].String(),
				Expense: ts.Summary.Expense[period].String(),
				NOI:     ts.Summary.NOI[period].String(),
			})
		}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("marshal summary rows: %w", err)
	}
	return nil
}

// SummaryRow is one period line of the summary export.
type SummaryRow struct {
	Period  string `csv:"period"`
	Income  string `csv:"total_income"`
	Expense string `csv:"total_expense"`
	NOI     string `csv:"net_operating_income"`
}

// WriteSummary renders the per-period bucket totals as CSV.
func WriteSummary(w io.Writer, s rollup.Summary) error {
	rows := make([]SummaryRow, 0, len(s.Periods))
	for _, period := range s.Periods {
		rows = append(rows, SummaryRow{
			Period:  period,
			Income:  s.Income[period].String(),
			Expense: s.Expense[period].String(),
			NOI:     s.NOI[period].String(),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("marshal summary rows: %w", err)
	}
	return nil
}
