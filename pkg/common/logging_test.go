package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelFromString(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"error":   LogLevelError,
		"none":    LogLevelNone,
		"off":     LogLevelNone,
		"unknown": LogLevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, LogLevelFromString(in), "level %q", in)
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shellfront.log")

	logger, err := NewLogger(LogPrefix, path, LogLevelInfo, true)
	require.NoError(t, err)

	logger.Debug("hidden %d", 1)
	logger.Info("visible %d", 2)
	logger.Error("failure %d", 3)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "hidden 1")
	assert.Contains(t, content, "[INFO] visible 2")
	assert.Contains(t, content, "[ERROR] failure 3")
	assert.True(t, strings.Contains(content, LogPrefix))
}

func TestGetLogger_DefaultsToNop(t *testing.T) {
	SetLogger(nil)
	logger := GetLogger()
	require.NotNil(t, logger)
	assert.Equal(t, LogLevelNone, logger.Level())
}
