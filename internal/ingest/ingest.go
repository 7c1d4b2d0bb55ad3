// Package ingest orchestrates the full import pipeline: tokenize, map the
// header, normalize values, classify accounts, check for duplicates and
// persist the accepted record. All writes are deferred to the single terminal
// accept step after every check passes, so a rejected or abandoned import
// leaves no partial state.
package ingest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"propbooks/internal/classifier"
	"propbooks/internal/dedup"
	"propbooks/internal/ledgererror"
	"propbooks/internal/logging"
	"propbooks/internal/models"
	"propbooks/internal/normalize"
	"propbooks/internal/store"
	"propbooks/internal/tokenizer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mapping tells the importer which header columns carry which canonical
// field. A nil mapping selects auto-detection: the first column is the
// account name, columns whose header parses as a period or date become
// period columns, a "total" header becomes the total column, and everything
// else is ignored.
type Mapping struct {
	AccountColumn string
	// PeriodColumns maps a header label to its canonical period label,
	// e.g. "08/2024" -> "Aug 2024".
	PeriodColumns map[string]string
	TotalColumn   string
}

// Importer runs the ingestion pipeline for one database.
type Importer struct {
	classifier    *classifier.Classifier
	dedup         *dedup.Engine
	records       *store.RecordStore
	properties    *store.PropertyStore
	logger        logging.Logger
	autoLearn     bool
	minConfidence float64
	now           func() time.Time
}

// NewImporter wires an importer from its collaborators. With autoLearn set,
// every classification at or above minConfidence is written back to bucket
// memory as a confirmation; low-confidence guesses are never learned.
func NewImporter(cls *classifier.Classifier, engine *dedup.Engine, records *store.RecordStore, properties *store.PropertyStore, autoLearn bool, minConfidence float64, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Importer{
		classifier:    cls,
		dedup:         engine,
		records:       records,
		properties:    properties,
		logger:        logger,
		autoLearn:     autoLearn,
		minConfidence: minConfidence,
		now:           time.Now,
	}
}

// SetClock overrides the importer's clock. Tests only.
func (imp *Importer) SetClock(now func() time.Time) {
	imp.now = now
}

// Import runs the pipeline on raw CSV text and returns the persisted record
// and a summary of what it produced. Exact and property-period duplicates
// return a *ledgererror.DuplicateError; a line-item overlap is resolved by a
// merge in which existing records win, and the residue is saved tagged
// merged.
func (imp *Importer) Import(ctx context.Context, propertyID, csvType, fileName string, r io.Reader, mapping *Mapping) (*models.PropertyCSVRecord, *models.IngestSummary, error) {
	if imp.properties != nil {
		if _, err := imp.properties.Get(propertyID); err != nil {
			return nil, nil, &ledgererror.ValidationError{Subject: propertyID, Reason: "unknown property"}
		}
	}
	if strings.TrimSpace(csvType) == "" {
		return nil, nil, &ledgererror.ValidationError{Subject: fileName, Reason: "csv type is required"}
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, &ledgererror.ParseError{File: fileName, Err: err}
	}
	rows := tokenizer.Parse(string(text), fileName)
	if len(rows) < 2 {
		return nil, nil, &ledgererror.ValidationError{Subject: fileName, Reason: "no data rows"}
	}

	header := rows[0]
	resolved, err := resolveMapping(header, mapping)
	if err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	records := normalizeRows(header, rows[1:], resolved)
	if len(records) == 0 {
		return nil, nil, &ledgererror.ValidationError{Subject: fileName, Reason: "no account rows after normalization"}
	}

	if err := imp.classify(records, csvType); err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	year, month := periodOf(resolved)
	result, err := imp.dedup.CheckForDuplicates(propertyID, csvType, fileName, records, year, month)
	if err != nil {
		return nil, nil, &ledgererror.StoreError{Operation: "duplicate check", Err: err}
	}

	var tags []string
	var dropped []string
	switch result.DuplicateType {
	case models.DuplicateExact, models.DuplicatePropertyPeriod:
		dupErr := &ledgererror.DuplicateError{
			DuplicateType: result.DuplicateType,
			PropertyID:    propertyID,
			CSVType:       csvType,
		}
		if result.ExistingRecord != nil {
			dupErr.ExistingRecordID = result.ExistingRecord.ID
			dupErr.ExistingFileName = result.ExistingRecord.FileName
		}
		return nil, nil, dupErr
	case models.DuplicateLineItem:
		records, dropped = dedup.Merge(records, result.ConflictingRecords)
		tags = append(tags, models.TagMergedDeduplicated)
		imp.logger.WithFields(
			logging.Field{Key: logging.FieldFile, Value: fileName},
			logging.Field{Key: logging.FieldCount, Value: len(dropped)},
		).Info("Merged upload, existing line items win")
	}

	record := &models.PropertyCSVRecord{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		CSVType:    csvType,
		FileName:   fileName,
		UploadedAt: imp.now().UTC(),
		Records:    records,
		Metadata: models.RecordMetadata{
			Year:          year,
			Month:         month,
			TotalRecords:  len(records),
			DuplicateKeys: accountKeys(records),
		},
		Tags:     tags,
		IsActive: true,
	}
	if err := imp.records.Save(record); err != nil {
		return nil, nil, &ledgererror.StoreError{Operation: "save record", Err: err}
	}

	summary := summarize(records, len(dropped) > 0, dropped)
	imp.logger.WithFields(
		logging.Field{Key: logging.FieldProperty, Value: propertyID},
		logging.Field{Key: logging.FieldCSVType, Value: csvType},
		logging.Field{Key: logging.FieldRecord, Value: record.ID},
		logging.Field{Key: logging.FieldCount, Value: summary.TotalRecords},
	).Info("Import accepted")
	return record, summary, nil
}

// resolveMapping validates an explicit mapping against the header, or
// auto-detects one.
func resolveMapping(header models.RawRow, mapping *Mapping) (*Mapping, error) {
	columns := make(map[string]bool, len(header.Fields))
	for _, name := range header.Fields {
		columns[name] = true
	}

	if mapping != nil {
		if !columns[mapping.AccountColumn] {
			return nil, &ledgererror.ValidationError{
				Subject: header.FileName,
				Reason:  fmt.Sprintf("account column %q not in header", mapping.AccountColumn),
			}
		}
		return mapping, nil
	}

	if len(header.Fields) == 0 || strings.TrimSpace(header.Fields[0]) == "" {
		return nil, &ledgererror.ValidationError{Subject: header.FileName, Reason: "empty account column header"}
	}

	detected := &Mapping{
		AccountColumn: header.Fields[0],
		PeriodColumns: make(map[string]string),
	}
	for _, name := range header.Fields[1:] {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "total" || lower == "totals" {
			detected.TotalColumn = name
			continue
		}
		if t, ok := normalize.ParsePeriodLabel(name); ok {
			detected.PeriodColumns[name] = normalize.PeriodLabel(t)
			continue
		}
		if t, ok := normalize.ToDate(name); ok {
			detected.PeriodColumns[name] = normalize.PeriodLabel(t)
		}
	}
	if len(detected.PeriodColumns) == 0 && detected.TotalColumn == "" {
		return nil, &ledgererror.ValidationError{Subject: header.FileName, Reason: "no period or total columns detected"}
	}
	return detected, nil
}

// normalizeRows maps data rows through the header, sums repeated account
// names into one record per name, and computes totals. Rows with an empty
// account name are skipped.
func normalizeRows(header models.RawRow, rows []models.RawRow, mapping *Mapping) []models.NormalizedRecord {
	byName := make(map[string]*models.NormalizedRecord)
	var order []string

	for _, row := range rows {
		mapped := tokenizer.MapHeader(header, row)
		name := strings.TrimSpace(mapped[mapping.AccountColumn])
		if name == "" {
			continue
		}

		rec, ok := byName[name]
		if !ok {
			rec = &models.NormalizedRecord{
				AccountName:  name,
				PeriodValues: make(map[string]decimal.Decimal),
			}
			byName[name] = rec
			order = append(order, name)
		}

		for column, period := range mapping.PeriodColumns {
			amount := normalize.ToNumber(mapped[column])
			rec.PeriodValues[period] = rec.PeriodValues[period].Add(amount)
		}
		if mapping.TotalColumn != "" {
			rec.Total = rec.Total.Add(normalize.ToNumber(mapped[mapping.TotalColumn]))
		}
	}

	records := make([]models.NormalizedRecord, 0, len(order))
	for _, name := range order {
		rec := byName[name]
		if mapping.TotalColumn == "" {
			total := decimal.Zero
			for _, v := range rec.PeriodValues {
				total = total.Add(v)
			}
			rec.Total = total
		}
		records = append(records, *rec)
	}
	return records
}

// classify assigns a bucket to every record. Memory hits are authoritative;
// otherwise a detected section header covers the rows beneath it, and the
// default keyword and fuzzy chain handles the rest.
func (imp *Importer) classify(records []models.NormalizedRecord, csvType string) error {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.AccountName
	}
	sections := classifier.DetectSections(names)

	for i := range records {
		suggestion, err := imp.classifier.SuggestBucket(records[i].AccountName, csvType)
		if err != nil {
			return &ledgererror.StoreError{Operation: "bucket memory lookup", Err: err}
		}
		if suggestion.Source != models.SourceMemory {
			if bucket, ok := sections[records[i].AccountName]; ok && suggestion.Confidence < classifier.SectionConfidence() {
				suggestion = models.Suggestion{
					Bucket:     bucket,
					Confidence: classifier.SectionConfidence(),
					Source:     models.SourceDefault,
				}
			}
		}
		records[i].Bucket = suggestion.Bucket
		records[i].Confidence = suggestion.Confidence

		if imp.autoLearn && suggestion.Bucket != models.BucketUnassigned && suggestion.Confidence >= imp.minConfidence {
			if err := imp.classifier.RecordSelection(records[i].AccountName, suggestion.Bucket, csvType, suggestion.Confidence); err != nil {
				return &ledgererror.StoreError{Operation: "bucket memory update", Err: err}
			}
		}
	}
	return nil
}

// periodOf derives the (year, month) key for the property-period check. Only
// a single-period upload claims a period; multi-period and total-only files
// carry no key and skip that check.
func periodOf(mapping *Mapping) (int, int) {
	if len(mapping.PeriodColumns) != 1 {
		return 0, 0
	}
	for _, period := range mapping.PeriodColumns {
		if t, ok := normalize.ParsePeriodLabel(period); ok {
			return t.Year(), int(t.Month())
		}
	}
	return 0, 0
}

func accountKeys(records []models.NormalizedRecord) []string {
	keys := make([]string, len(records))
	for i, rec := range records {
		keys[i] = rec.AccountName
	}
	sort.Strings(keys)
	return keys
}

func summarize(records []models.NormalizedRecord, merged bool, dropped []string) *models.IngestSummary {
	s := &models.IngestSummary{
		TotalRecords:    len(records),
		Merged:          merged,
		DroppedAccounts: dropped,
	}
	sum := 0.0
	for _, rec := range records {
		switch rec.Bucket.Parent() {
		case models.BucketIncome:
			s.IncomeCount++
		case models.BucketExpense:
			s.ExpenseCount++
		default:
			if rec.Bucket == models.BucketUnassigned {
				s.UnassignedCount++
			} else {
				s.OtherCount++
			}
		}
		sum += rec.Confidence
	}
	if len(records) > 0 {
		s.AverageConfidence = sum / float64(len(records))
	}
	return s
}
