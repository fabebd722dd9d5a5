package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

func newTestStorage(t *testing.T, dir string) *Storage {
	t.Helper()
	cfg := &model.Config{DatabaseDir: dir, DatabaseFile: "test.db"}
	s, err := NewStorage(cfg, log.NewWriterLogger(io.Discard, log.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStorage(t, t.TempDir())

	token, err := s.Tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Tokens.Save("eyJ.token.sig"))
	token, err = s.Tokens.Token()
	require.NoError(t, err)
	assert.Equal(t, "eyJ.token.sig", token)

	require.NoError(t, s.Tokens.Save("second"))
	token, err = s.Tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, s.Tokens.Clear())
	token, err = s.Tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	first := newTestStorage(t, dir)
	require.NoError(t, first.Tokens.Save("persisted"))
	require.NoError(t, first.Close())

	second := newTestStorage(t, dir)
	token, err := second.Tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestTokenIsNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	s := newTestStorage(t, dir)
	require.NoError(t, s.Tokens.Save("very-secret-token"))

	var sealed []byte
	require.NoError(t, s.db.QueryRow("SELECT sealed FROM credentials").Scan(&sealed))
	assert.NotContains(t, string(sealed), "very-secret-token")
}

func TestReplacedKeyDiscardsToken(t *testing.T) {
	dir := t.TempDir()
	first := newTestStorage(t, dir)
	require.NoError(t, first.Tokens.Save("old"))
	require.NoError(t, first.Close())

	require.NoError(t, os.Remove(filepath.Join(dir, keyFile)))

	second := newTestStorage(t, dir)
	token, err := second.Tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestKeyFilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "k.key")
	_, err := LoadOrCreateKey(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, os.WriteFile(path, []byte("short"), 0600))
	_, err = LoadOrCreateKey(path)
	assert.Error(t, err)
}

func TestSealerRejectsTampering(t *testing.T) {
	s, err := LoadOrCreateKey(filepath.Join(t.TempDir(), "k.key"))
	require.NoError(t, err)

	nonce, box, err := s.Seal([]byte("hello"))
	require.NoError(t, err)
	box[0] ^= 0xff

	_, err = s.Open(nonce, box)
	assert.ErrorIs(t, err, ErrUnsealFailed)
}
