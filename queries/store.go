package queries

import "gorm.io/gorm"

// Store builds listings over one database handle.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
