package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: "debug", expected: slog.LevelDebug},
		{input: "", expected: slog.LevelInfo},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "WARNING", expected: slog.LevelWarn},
		{input: "warn", expected: slog.LevelWarn},
		{input: "ERROR", expected: slog.LevelError},
		{input: "CRITICAL", expected: LevelCritical},
		{input: "LOUD", expected: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNew_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "WARN", Output: &buf, NoColor: true})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", "tool", "CalculateTool")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "tool=CalculateTool")
}

func TestNew_DebugFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, closeFn, err := New(Options{
		Level:     "INFO",
		Debug:     true,
		DebugFile: path,
		Output:    &buf,
		NoColor:   true,
	})
	require.NoError(t, err)

	logger.With("session", "abc").Debug("executor turn", "turn", 1)
	logger.Info("running tool")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "executor turn")
	assert.Contains(t, string(data), "session=abc")
	assert.Contains(t, string(data), "running tool")
	assert.NotContains(t, buf.String(), "executor turn")
	assert.Contains(t, buf.String(), "running tool")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "verbose"})

	assert.Error(t, err)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	l := slog.Default()
	assert.Same(t, l, OrDiscard(l))
}
