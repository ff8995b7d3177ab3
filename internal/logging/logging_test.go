package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/morozRed/crumbtrail/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crumbtrail.log")
	logger, err := New(config.LogConfig{Level: "error", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)

	logger.Info("dropped by level")
	logger.Error("scan failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan failed")
	assert.NotContains(t, string(data), "dropped by level")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
