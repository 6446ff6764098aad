package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(logPath)
	assert.NoError(t, err, "log file should exist")
}

func TestFileLogger_LogLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", errors.New("boom"), nil)
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	logContent := string(content)

	assert.NotContains(t, logContent, "debug message")
	assert.Contains(t, logContent, "info message")
	assert.Contains(t, logContent, "warn message")
	assert.Contains(t, logContent, "error message")
	assert.Contains(t, logContent, "boom")
	assert.Contains(t, logContent, "INFO")
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatJSON, Level: DebugLevel})
	require.NoError(t, err)

	logger.WithFields(Fields{"run_id": "abc"}).Info(context.Background(), "entry added", Fields{"zip_path": "a/b.txt", "size": 42})
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
	assert.Equal(t, "entry added", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "a/b.txt", entry["zip_path"])
	assert.EqualValues(t, 42, entry["size"])
	assert.Contains(t, entry, "timestamp")
}

func TestFileLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    200,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		logger.Info(ctx, strings.Repeat("x", 40), nil)
	}
	require.NoError(t, logger.Close())

	_, err = os.Stat(logPath + ".1")
	assert.NoError(t, err, "first backup should exist")
	_, err = os.Stat(logPath + ".2")
	assert.NoError(t, err, "second backup should exist")
	_, err = os.Stat(logPath + ".3")
	assert.True(t, os.IsNotExist(err), "backups beyond MaxBackups should be removed")
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, FormatText, WarnLevel)

	logger.Info(context.Background(), "hidden", nil)
	logger.Warn(context.Background(), "shown", Fields{"code": "ENOENT"})
	require.NoError(t, logger.Close())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "ENOENT")
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Error(ctx, "error", errors.New("x"), Fields{"k": "v"})
	assert.NotNil(t, logger.WithFields(Fields{"k": "v"}))
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}

	assert.Equal(t, "WARN", WarnLevel.String())
}
