package logging

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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLevel(tc.in), tc.in)
	}
}

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "", &buf)

	log.InfoContext(context.Background(), "hello", "k", "v")
	log.Debug("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "text", &buf)

	log.With("req_id", "123").Debug("dbg", "a", 1)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "msg=dbg", "req_id=123", "a=1"} {
		assert.True(t, strings.Contains(out, want), "expected %q in %s", want, out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing happens")
}
