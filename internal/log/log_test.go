package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/model"
)

func TestWriterLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelInfo)

	logger.Info(context.Background(), "level loaded", Fields{"level": "zone", "count": 3})
	logger.Debug(context.Background(), "dropped", nil)
	require.NoError(t, logger.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "level loaded", rec["msg"])
	assert.Equal(t, "zone", rec["level"].(string))
}

func TestErrorsAlwaysWritten(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelError)

	logger.Warn(context.Background(), "skipped", nil)
	logger.Error(context.Background(), "fetch failed", Fields{"error": assert.AnError})
	require.NoError(t, logger.Close())

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "fetch failed")
	assert.Contains(t, out, assert.AnError.Error())
}

func TestSendAfterCloseIsIgnored(t *testing.T) {
	logger := NewWriterLogger(&bytes.Buffer{}, LevelDebug)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	assert.NotPanics(t, func() {
		logger.Info(context.Background(), "late", nil)
	})
}

func TestNilLogger(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), "nothing", nil)
	})
}

func TestNewLoggerCreatesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := &model.Config{
		LogFolder:  filepath.Join(dir, "logs"),
		CommandLog: "command.log",
		ErrorLog:   "error.log",
		InfoLog:    "info.log",
		LogLevel:   "info",
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Command(context.Background(), "geo ls", Fields{"session": "s1"})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(cfg.LogFolder, "command.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "geo ls")

	for _, name := range []string{"error.log", "info.log"} {
		_, err := os.Stat(filepath.Join(cfg.LogFolder, name))
		assert.NoError(t, err)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}
