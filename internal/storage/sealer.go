package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

const keySize = 32

// ErrUnsealFailed is returned when a sealed value cannot be opened with the local key
var ErrUnsealFailed = errors.New("failed to unseal stored credential")

// Sealer encrypts values at rest with a per-installation secretbox key
type Sealer struct {
	key [keySize]byte
}

// LoadOrCreateKey reads the key file at path, generating it on first use
func LoadOrCreateKey(path string) (*Sealer, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) != keySize {
			return nil, fmt.Errorf("key file %s has invalid length %d", path, len(data))
		}
		s := &Sealer{}
		copy(s.key[:], data)
		return s, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	s := &Sealer{}
	if _, err := io.ReadFull(rand.Reader, s.key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, s.key[:], 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return s, nil
}

// Seal encrypts plaintext and returns the nonce and the box
func (s *Sealer) Seal(plaintext []byte) (nonce [24]byte, sealed []byte, err error) {
	if _, err = io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nonce, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed = secretbox.Seal(nil, plaintext, &nonce, &s.key)
	return nonce, sealed, nil
}

// Open decrypts a box sealed with the same key
func (s *Sealer) Open(nonce [24]byte, sealed []byte) ([]byte, error) {
	plaintext, ok := secretbox.Open(nil, sealed, &nonce, &s.key)
	if !ok {
		return nil, ErrUnsealFailed
	}
	return plaintext, nil
}
