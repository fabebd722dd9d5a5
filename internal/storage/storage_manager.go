package storage

import (
	"fmt"
	"path/filepath"

	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// keyFile is the secretbox key written next to the database
const keyFile = "credentials.key"

// Storage represents the local client state of the console.
type Storage struct {
	db     *Database
	Tokens *TokenStore
}

// NewStorage opens the database and the sealing key named by the config
func NewStorage(cfg *model.Config, logger *log.Logger) (*Storage, error) {
	sealer, err := LoadOrCreateKey(filepath.Join(cfg.DatabaseDir, keyFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load credential key: %w", err)
	}

	// Construct the full path for the database file
	dataSourceName := filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile)
	db, err := OpenDatabase(dataSourceName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection '%s': %w", dataSourceName, err)
	}

	return &Storage{
		db:     db,
		Tokens: NewTokenStore(db, sealer, logger),
	}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
