package store

import (
	"database/sql"
	"fmt"

	"propbooks/internal/database"
	"propbooks/internal/models"
)

// PropertyStore provides access to Property documents.
type PropertyStore struct {
	db *database.DB
}

// NewPropertyStore creates a property store backed by the given database.
func NewPropertyStore(db *database.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

// Create inserts a new property.
func (s *PropertyStore) Create(p *models.Property) error {
	_, err := s.db.Exec(`
		INSERT INTO properties (id, name, address, property_type)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, p.Address, p.PropertyType)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// Get returns a property by ID.
func (s *PropertyStore) Get(id string) (*models.Property, error) {
	var p models.Property
	err := s.db.QueryRow(`
		SELECT id, name, address, property_type FROM properties WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Address, &p.PropertyType)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("property not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query property: %w", err)
	}
	return &p, nil
}

// List returns all properties ordered by name.
func (s *PropertyStore) List() ([]models.Property, error) {
	rows, err := s.db.Query(`SELECT id, name, address, property_type FROM properties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.PropertyType); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Delete removes a property. Its records are weakly back-referenced and are
// deleted independently.
func (s *PropertyStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM properties WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}
