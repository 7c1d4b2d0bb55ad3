// Package store persists Property and PropertyCSVRecord documents. Records
// are documents in the SQLite store: the line-item payload travels as JSON,
// while the fields the deduplication engine filters on (property, type,
// period, active flag) are columns. Financial values are never mutated in
// place; only the active flag and tags change after creation.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"propbooks/internal/database"
	"propbooks/internal/models"
)

// RecordStore provides access to uploaded property CSV records.
type RecordStore struct {
	db *database.DB
}

// NewRecordStore creates a record store backed by the given database.
func NewRecordStore(db *database.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Save persists a new record and registers its account names in the
// line-item key index. The write is a single transaction so a failed save
// leaves no partial state.
func (s *RecordStore) Save(record *models.PropertyCSVRecord) error {
	recordsJSON, err := json.Marshal(record.Records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	keysJSON, err := json.Marshal(record.Metadata.DuplicateKeys)
	if err != nil {
		return fmt.Errorf("marshal duplicate keys: %w", err)
	}
	tagsJSON, err := json.Marshal(record.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var year, month interface{}
	if record.Metadata.Year != 0 {
		year = record.Metadata.Year
	}
	if record.Metadata.Month != 0 {
		month = record.Metadata.Month
	}

	_, err = tx.Exec(`
		INSERT INTO property_csv_records (
			id, property_id, csv_type, file_name, uploaded_at,
			year, month, total_records, records_json, duplicate_keys_json, tags_json, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.PropertyID, record.CSVType, record.FileName, record.UploadedAt,
		year, month, record.Metadata.TotalRecords, string(recordsJSON), string(keysJSON),
		string(tagsJSON), boolToInt(record.IsActive))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	for _, rec := range record.Records {
		_, err = tx.Exec(`
			INSERT INTO line_item_keys (record_id, property_id, csv_type, account_name)
			VALUES (?, ?, ?, ?)
		`, record.ID, record.PropertyID, record.CSVType, rec.AccountName)
		if err != nil {
			return fmt.Errorf("insert line-item key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Get returns one record by ID.
func (s *RecordStore) Get(id string) (*models.PropertyCSVRecord, error) {
	row := s.db.QueryRow(selectRecords+` WHERE id = ?`, id)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	return record, nil
}

// ListByPropertyAndType returns all records for a property and csv type,
// newest first. Inactive records are included only when includeInactive is set.
func (s *RecordStore) ListByPropertyAndType(propertyID, csvType string, includeInactive bool) ([]models.PropertyCSVRecord, error) {
	query := selectRecords + ` WHERE property_id = ? AND csv_type = ?`
	if !includeInactive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY uploaded_at DESC, id`

	rows, err := s.db.Query(query, propertyID, csvType)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.PropertyCSVRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// ListActiveByProperty returns every active record for a property across all
// csv types, newest first.
func (s *RecordStore) ListActiveByProperty(propertyID string) ([]models.PropertyCSVRecord, error) {
	rows, err := s.db.Query(selectRecords+`
		WHERE property_id = ? AND is_active = 1
		ORDER BY uploaded_at DESC, id`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.PropertyCSVRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// FindActiveByPeriod returns the active record claiming (property, csv type,
// year, month), or nil when the period is unclaimed.
func (s *RecordStore) FindActiveByPeriod(propertyID, csvType string, year, month int) (*models.PropertyCSVRecord, error) {
	row := s.db.QueryRow(selectRecords+`
		WHERE property_id = ? AND csv_type = ? AND year = ? AND month = ? AND is_active = 1
	`, propertyID, csvType, year, month)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query record by period: %w", err)
	}
	return record, nil
}

// RecordIDsWithAccounts scans the line-item key index and returns the IDs of
// records for (property, csv type) that carry any of the given account names.
func (s *RecordStore) RecordIDsWithAccounts(propertyID, csvType string, accountNames []string) ([]string, error) {
	if len(accountNames) == 0 {
		return nil, nil
	}

	args := make([]interface{}, 0, len(accountNames)+2)
	args = append(args, propertyID, csvType)
	placeholders := ""
	for i, name := range accountNames {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, name)
	}

	rows, err := s.db.Query(`
		SELECT DISTINCT k.record_id
		FROM line_item_keys k
		JOIN property_csv_records r ON r.id = k.record_id
		WHERE k.property_id = ? AND k.csv_type = ? AND r.is_active = 1
		  AND k.account_name IN (`+placeholders+`)
		ORDER BY k.record_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query line-item keys: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan line-item key: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetActive toggles a record's active flag. The only permitted in-place
// mutations are this flag and tag updates.
func (s *RecordStore) SetActive(id string, active bool) error {
	res, err := s.db.Exec(`UPDATE property_csv_records SET is_active = ? WHERE id = ?`,
		boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("update record active flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("record not found: %s", id)
	}
	return nil
}

// Delete removes a record and its line-item keys.
func (s *RecordStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM line_item_keys WHERE record_id = ?`, id); err != nil {
		return fmt.Errorf("delete line-item keys: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM property_csv_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

const selectRecords = `
	SELECT id, property_id, csv_type, file_name, uploaded_at,
	       year, month, total_records, records_json, duplicate_keys_json, tags_json, is_active
	FROM property_csv_records`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.PropertyCSVRecord, error) {
	var r models.PropertyCSVRecord
	var year, month sql.NullInt64
	var recordsJSON, keysJSON, tagsJSON string
	var uploadedAt time.Time
	var active int

	err := row.Scan(&r.ID, &r.PropertyID, &r.CSVType, &r.FileName, &uploadedAt,
		&year, &month, &r.Metadata.TotalRecords, &recordsJSON, &keysJSON, &tagsJSON, &active)
	if err != nil {
		return nil, err
	}

	r.UploadedAt = uploadedAt
	r.IsActive = active != 0
	if year.Valid {
		r.Metadata.Year = int(year.Int64)
	}
	if month.Valid {
		r.Metadata.Month = int(month.Int64)
	}
	if err := json.Unmarshal([]byte(recordsJSON), &r.Records); err != nil {
		return nil, fmt.Errorf("unmarshal records payload: %w", err)
	}
	if err := json.Unmarshal([]byte(keysJSON), &r.Metadata.DuplicateKeys); err != nil {
		return nil, fmt.Errorf("unmarshal duplicate keys: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
