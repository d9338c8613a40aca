package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"WARNING", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"", zap.InfoLevel},
		{"verbose", zap.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", FileName)

	logger, closeLog, err := New(path, zap.InfoLevel)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("tracking started", zap.String("task_id", "abc"))
	closeLog()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "tracking started", entry["msg"])
	assert.Equal(t, "abc", entry["task_id"])
	assert.Equal(t, "tock", entry["logger"])
}

func TestNew_CloseReleasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	logger, closeLog, err := New(path, zap.InfoLevel)
	require.NoError(t, err)
	logger.Info("before close")
	closeLog()

	assert.ErrorIs(t, logger.Sync(), os.ErrClosed)
}
