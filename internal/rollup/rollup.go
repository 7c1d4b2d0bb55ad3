// Package rollup aggregates normalized records into bucket-level totals per
// period and derives summary metrics. Everything here is computed at request
// time, never cached, so totals can't go stale relative to edited bucket
// assignments.
package rollup

import (
	"sort"

	"propbooks/internal/models"
	"propbooks/internal/normalize"

	"github.com/shopspring/decimal"
)

// Rollup sums period values across all records whose resolved bucket falls in
// the target set. A record missing a period contributes zero for it, not an
// error. The target set is expressed as a top-level bucket: sub-buckets roll
// up into their parent.
func Rollup(records []models.NormalizedRecord, periods []string, target models.Bucket) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(periods))
	for _, period := range periods {
		sum := decimal.Zero
		for _, rec := range records {
			if rec.Bucket.Parent() != target {
				continue
			}
			sum = sum.Add(rec.Value(period))
		}
		out[period] = sum
	}
	return out
}

// Summary carries the bucket-level totals for one period set.
type Summary struct {
	Periods []string
	Income  map[string]decimal.Decimal
	Expense map[string]decimal.Decimal
	NOI     map[string]decimal.Decimal

	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	TotalNOI     decimal.Decimal
}

// Summarize computes income and expense rollups and Net Operating Income
// (income minus expense) for every period, including periods present in only
// one bucket. An empty period list means all periods found across the records.
func Summarize(records []models.NormalizedRecord, periods []string) Summary {
	if len(periods) == 0 {
		periods = CollectPeriods(records)
	}

	income := Rollup(records, periods, models.BucketIncome)
	expense := Rollup(records, periods, models.BucketExpense)

	s := Summary{
		Periods: periods,
		Income:  income,
		Expense: expense,
		NOI:     make(map[string]decimal.Decimal, len(periods)),
	}
	for _, period := range periods {
		noi := income[period].Sub(expense[period])
		s.NOI[period] = noi
		s.TotalIncome = s.TotalIncome.Add(income[period])
		s.TotalExpense = s.TotalExpense.Add(expense[period])
		s.TotalNOI = s.TotalNOI.Add(noi)
	}
	return s
}

// CollectPeriods returns every period label present across the record set,
// in chronological order where the labels parse as periods and alphabetical
// order otherwise.
func CollectPeriods(records []models.NormalizedRecord) []string {
	seen := make(map[string]bool)
	var periods []string
	for _, rec := range records {
		for period := range rec.PeriodValues {
			if !seen[period] {
				seen[period] = true
				periods = append(periods, period)
			}
		}
	}

	sort.Slice(periods, func(i, j int) bool {
		ti, iok := normalize.ParsePeriodLabel(periods[i])
		tj, jok := normalize.ParsePeriodLabel(periods[j])
		if iok && jok {
			return ti.Before(tj)
		}
		if iok != jok {
			return iok
		}
		return periods[i] < periods[j]
	})
	return periods
}
