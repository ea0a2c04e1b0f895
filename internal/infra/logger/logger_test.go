package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koordinator/internal/infra/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "koordinator.log")
	log, closer, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("dispatch completed", "agent", "manage_patient_info")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "dispatch completed", rec["msg"])
	assert.Equal(t, "manage_patient_info", rec["agent"])
	assert.Equal(t, "koordinator", rec["app"])
}

func TestNewDiscard(t *testing.T) {
	log, closer, err := New(config.LoggerConfig{Output: "discard"})
	require.NoError(t, err)
	log.Error("dropped")
	assert.NoError(t, closer())
	Discard().Info("also dropped")
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New(config.LoggerConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
