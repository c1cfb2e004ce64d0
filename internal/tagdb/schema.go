package tagdb

import (
	"database/sql"
	"fmt"
)

const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
	id            INTEGER PRIMARY KEY,
	basic_name    TEXT NOT NULL,
	detailed_name TEXT NOT NULL,
	path          TEXT NOT NULL,
	line          INTEGER NOT NULL,
	kind          INTEGER NOT NULL,
	source        TEXT NOT NULL
)`

var symbolIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_symbols_basic_name ON symbols(basic_name)",
	"CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path)",
	"CREATE INDEX IF NOT EXISTS idx_symbols_source ON symbols(source)",
}

// CreateSchema creates the symbols table and its indexes if they are missing.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec(createSymbolsTable); err != nil {
		return fmt.Errorf("failed to create symbols table: %w", err)
	}
	for i, idx := range symbolIndexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
