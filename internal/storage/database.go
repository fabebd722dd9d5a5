// Package storage persists the console's local client state.
// This file handles the SQLite database connection and schema.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"hompulse/console/internal/log"
)

// Database wraps the SQLite connection holding client state
type Database struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenDatabase opens (and creates if needed) the SQLite database at dataSourceName
func OpenDatabase(dataSourceName string, logger *log.Logger) (*Database, error) {
	logger.Info(context.Background(), "Opening SQLite database", log.Fields{"dbPath": filepath.Base(dataSourceName)})

	// Ensure the directory for the database file exists
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
	}

	db, err := sql.Open("sqlite3", dataSourceName+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single connection keeps WAL writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set SQLite synchronous pragma: %w", err)
	}

	// Verify the connection
	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error(context.Background(), "Failed to verify database connection", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to verify database connection: %w", err)
	}

	d := &Database{db: db, logger: logger}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// initSchema creates the client state tables
func (d *Database) initSchema() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			nonce BLOB NOT NULL,
			sealed BLOB NOT NULL,
			updated DATETIME NOT NULL
		);
	`)
	if err != nil {
		d.logger.Error(context.Background(), "Failed to create tables", log.Fields{"error": err})
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Exec executes a query without returning any rows
func (d *Database) Exec(query string, args ...interface{}) (sql.Result, error) {
	return d.db.Exec(query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (d *Database) QueryRow(query string, args ...interface{}) *sql.Row {
	return d.db.QueryRow(query, args...)
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	d.logger.Info(context.Background(), "SQLite database closed", nil)
	return nil
}
