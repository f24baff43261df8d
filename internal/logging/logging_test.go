package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesAllLevelsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mithai.log")

	logger, cleanup, err := New("production", path)
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Info("purchase completed")
	logger.Error("rollback failed")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "purchase completed", first["msg"])
	assert.Equal(t, "info", first["level"])
	assert.Contains(t, lines[1], "rollback failed")
}

func TestNewWithoutFile(t *testing.T) {
	logger, cleanup, err := New("development", "")
	require.NoError(t, err)
	require.NotNil(t, logger)
	cleanup()
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New("development", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
