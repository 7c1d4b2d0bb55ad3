// Package memory is the durable bucket-memory store: the learned mapping of
// (account name, file type) pairs to the bucket a user confirmed for them.
// Entries are never deleted automatically; only Clear empties the store.
package memory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"propbooks/internal/database"
	"propbooks/internal/models"
)

// Store provides access to bucket memory entries.
type Store struct {
	db *database.DB
}

// NewStore creates a bucket memory store backed by the given database.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// normalizeKey lowercases an account name for case-insensitive lookup.
func normalizeKey(accountName string) string {
	return strings.ToLower(strings.TrimSpace(accountName))
}

// Get returns the entry for (accountName, fileType), or false when the pair
// has never been confirmed.
func (s *Store) Get(accountName, fileType string) (models.BucketMemoryEntry, bool, error) {
	var e models.BucketMemoryEntry
	var bucket string
	err := s.db.QueryRow(`
		SELECT account_name, file_type, bucket_id, confidence, usage_count, created_at, last_used_at
		FROM bucket_memory
		WHERE account_name = ? AND file_type = ?
	`, normalizeKey(accountName), fileType).Scan(
		&e.AccountName, &e.FileType, &bucket, &e.Confidence, &e.UsageCount, &e.CreatedAt, &e.LastUsedAt)
	if err == sql.ErrNoRows {
		return models.BucketMemoryEntry{}, false, nil
	}
	if err != nil {
		return models.BucketMemoryEntry{}, false, fmt.Errorf("query bucket memory: %w", err)
	}
	e.Bucket = models.Bucket(bucket)
	return e, true, nil
}

// Upsert records a confirmed (account name, file type) → bucket selection.
// A first confirmation creates the entry; a repeat confirmation increments
// usage_count and overwrites confidence with the latest explicit value.
// The most recent correction is trusted completely.
func (s *Store) Upsert(accountName string, bucket models.Bucket, fileType string, confidence float64) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO bucket_memory (account_name, file_type, bucket_id, confidence, usage_count, created_at, last_used_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(account_name, file_type) DO UPDATE SET
			bucket_id = excluded.bucket_id,
			confidence = excluded.confidence,
			usage_count = usage_count + 1,
			last_used_at = excluded.last_used_at
	`, normalizeKey(accountName), fileType, string(bucket), confidence, now, now)
	if err != nil {
		return fmt.Errorf("upsert bucket memory: %w", err)
	}
	return nil
}

// List returns all entries ordered by usage count descending, so the most
// confirmed mappings surface first in any listing.
func (s *Store) List() ([]models.BucketMemoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT account_name, file_type, bucket_id, confidence, usage_count, created_at, last_used_at
		FROM bucket_memory
		ORDER BY usage_count DESC, account_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query bucket memory: %w", err)
	}
	defer rows.Close()

	var entries []models.BucketMemoryEntry
	for rows.Next() {
		var e models.BucketMemoryEntry
		var bucket string
		if err := rows.Scan(&e.AccountName, &e.FileType, &bucket, &e.Confidence,
			&e.UsageCount, &e.CreatedAt, &e.LastUsedAt); err != nil {
			return nil, fmt.Errorf("scan bucket memory: %w", err)
		}
		e.Bucket = models.Bucket(bucket)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear empties the whole store.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM bucket_memory`); err != nil {
		return fmt.Errorf("clear bucket memory: %w", err)
	}
	return nil
}
