package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", "json", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("validated", slog.String("schema", "user"), slog.Int("violations", 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "validated", record["msg"])
	assert.Equal(t, "user", record["schema"])
	assert.Equal(t, float64(2), record["violations"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", "TEXT", &buf)
	require.NoError(t, err)

	log.Debug("loaded", slog.String("schema", "order"))
	assert.Contains(t, buf.String(), "schema=order")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("verbose", "json", nil)
	assert.Error(t, err)

	_, err = New("info", "xml", nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
