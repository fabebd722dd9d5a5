package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"hompulse/console/internal/log"
)

const accessTokenName = "access_token"

// TokenStore keeps the API access token in the credentials table, sealed at rest.
// It also caches the token in memory so that every request does not hit the database.
type TokenStore struct {
	db     *Database
	sealer *Sealer
	logger *log.Logger

	mu     sync.RWMutex
	cached string
	loaded bool
}

// NewTokenStore creates a token store over an open database
func NewTokenStore(db *Database, sealer *Sealer, logger *log.Logger) *TokenStore {
	return &TokenStore{db: db, sealer: sealer, logger: logger}
}

// Load returns the stored token, or "" when none is stored.
// A token that cannot be unsealed (for example after the key file was replaced) is discarded.
func (s *TokenStore) Load() (string, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.cached, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	var nonce, sealed []byte
	err := s.db.QueryRow("SELECT nonce, sealed FROM credentials WHERE name = ?", accessTokenName).Scan(&nonce, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		s.cached, s.loaded = "", true
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if len(nonce) != 24 {
		return "", fmt.Errorf("stored token has invalid nonce")
	}

	var n [24]byte
	copy(n[:], nonce)
	plaintext, err := s.sealer.Open(n, sealed)
	if err != nil {
		s.logger.Warn(context.Background(), "Discarding unreadable stored token", log.Fields{"error": err})
		if _, delErr := s.db.Exec("DELETE FROM credentials WHERE name = ?", accessTokenName); delErr != nil {
			return "", fmt.Errorf("failed to discard token: %w", delErr)
		}
		s.cached, s.loaded = "", true
		return "", nil
	}

	s.cached, s.loaded = string(plaintext), true
	return s.cached, nil
}

// Token implements api.TokenSource
func (s *TokenStore) Token() (string, error) {
	return s.Load()
}

// Save seals and stores token, replacing any previous one
func (s *TokenStore) Save(token string) error {
	nonce, sealed, err := s.sealer.Seal([]byte(token))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO credentials (name, nonce, sealed, updated) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET nonce = excluded.nonce, sealed = excluded.sealed, updated = excluded.updated
	`, accessTokenName, nonce[:], sealed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	s.cached, s.loaded = token, true
	s.logger.Info(context.Background(), "Access token stored", nil)
	return nil
}

// Clear removes the stored token
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM credentials WHERE name = ?", accessTokenName); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	s.cached, s.loaded = "", true
	s.logger.Info(context.Background(), "Access token cleared", nil)
	return nil
}
