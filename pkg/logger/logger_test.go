package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func initTestLogger(t *testing.T, level string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, Init(path, level))
	return path
}

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	require.NoError(t, Sync())
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerWritesJSONEntries(t *testing.T) {
	path := initTestLogger(t, "info")

	Info("test message", zap.String("key", "value"))
	Error("test error", zap.Int("code", 42))

	entries := readEntries(t, path)
	require.Len(t, entries, 2)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.NotEmpty(t, entries[0]["timestamp"])

	assert.Equal(t, "error", entries[1]["level"])
	assert.Equal(t, float64(42), entries[1]["code"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	path := initTestLogger(t, "warn")

	Debug("filtered debug")
	Info("filtered info")
	Warn("kept warning")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept warning", entries[0]["msg"])
}

func TestLoggerDebugLevel(t *testing.T) {
	path := initTestLogger(t, "debug")

	Debug("debug message")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "debug", entries[0]["level"])
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	path := initTestLogger(t, "not-a-level")

	Debug("filtered")
	Info("kept")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
}

func TestLoggerFatalInTestMode(t *testing.T) {
	path := initTestLogger(t, "info")

	SetTestMode(true)
	defer SetTestMode(false)

	// Must not call os.Exit; the entry is logged at error level
	Fatal("fatal message", zap.String("key", "value"))

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "fatal message", entries[0]["msg"])
}

func TestLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
	require.NoError(t, Init(path, "info"))

	Info("hello")
	require.NoError(t, Sync())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
