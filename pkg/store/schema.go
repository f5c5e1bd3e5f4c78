package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createSignaturesTable(db); err != nil {
		return fmt.Errorf("creating signatures table: %w", err)
	}

	if err := createBlobsTable(db); err != nil {
		return fmt.Errorf("creating blobs table: %w", err)
	}

	if err := createMatchesTable(db); err != nil {
		return fmt.Errorf("creating matches table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}

func createSignaturesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signatures (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			pattern TEXT NOT NULL,
			structural_id TEXT NOT NULL,
			rarity REAL NOT NULL,
			tags_json TEXT NOT NULL,
			description TEXT,
			url TEXT,
			exploit TEXT
		)
	`)
	return err
}

func createBlobsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			origin TEXT NOT NULL,
			size INTEGER NOT NULL,
			scanned INTEGER NOT NULL,
			truncated INTEGER NOT NULL DEFAULT 0,
			reason TEXT
		)
	`)
	return err
}

func createMatchesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS matches (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			structural_id TEXT NOT NULL UNIQUE,
			blob_id TEXT NOT NULL REFERENCES blobs(id),
			signature TEXT NOT NULL REFERENCES signatures(name),
			origin TEXT NOT NULL,
			matched TEXT NOT NULL,
			bounded INTEGER NOT NULL,
			offset_start INTEGER NOT NULL,
			offset_end INTEGER NOT NULL,
			start_line INTEGER,
			start_column INTEGER,
			end_line INTEGER,
			end_column INTEGER
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_matches_blob_id ON matches(blob_id)
	`)
	return err
}
