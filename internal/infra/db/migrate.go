package db

import (
	"database/sql"
)

// MigrateUp creates the items table and its indexes if they do not exist.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS items (
    id         SERIAL PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// Listing order is newest-first friendly without a table scan.
	if _, err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC)`,
	); err != nil {
		return err
	}

	return nil
}
