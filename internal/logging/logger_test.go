package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer func() { EnableTrace = false }()

	logPath := filepath.Join(t.TempDir(), "logs", "sim.log")

	logger, cleanup, err := Init(Options{Path: logPath, Level: "DEBUG", MaxSizeMB: 1, Trace: true})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hello", "tick", 1)
	assert.True(t, EnableTrace)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"hello"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"Error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestTrace(t *testing.T) {
	defer func() { EnableTrace = false }()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	EnableTrace = false
	Trace(logger, "hidden")
	assert.Empty(t, buf.String())

	EnableTrace = true
	Trace(logger, "shown", "k", "v")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
