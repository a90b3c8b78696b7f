package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimpleHandler_Enabled(t *testing.T) {
	h := &SimpleHandler{Level: slog.LevelInfo}
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelDebug))
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, LevelNotice))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestSimpleHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}
	ctx := context.Background()

	// Use a fixed time for reproducible output
	fixedTime := time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC)

	r := slog.NewRecord(fixedTime, slog.LevelInfo, "test message", 0)
	r.AddAttrs(slog.String("key", "value"), slog.Int("count", 42))

	err := h.Handle(ctx, r)
	assert.NoError(t, err)

	// Expected format: "2006-01-02 15:04:05 [LEVEL] Message key=value count=42\n"
	expected := "2023-10-27 10:00:00 [INFO] test message key=value count=42\n"
	assert.Equal(t, expected, buf.String())
}

func TestSimpleHandler_Notice(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}

	r := slog.NewRecord(time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC), LevelNotice, "cache warm", 0)
	assert.NoError(t, h.Handle(context.Background(), r))
	assert.Equal(t, "2023-10-27 10:00:00 [NOTICE] cache warm\n", buf.String())
}

func TestSimpleHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &SimpleHandler{Output: &buf, Level: slog.LevelInfo}

	assert.Equal(t, h, h.WithAttrs(nil), "no attrs returns the same handler")

	newH := h.WithAttrs([]slog.Attr{slog.String("component", "service")})
	r := slog.NewRecord(time.Date(2023, 10, 27, 10, 0, 0, 0, time.UTC), slog.LevelWarn, "slow", 0)
	r.AddAttrs(slog.Int("ms", 12))
	assert.NoError(t, newH.Handle(context.Background(), r))
	assert.Equal(t, "2023-10-27 10:00:00 [WARN] slow component=service ms=12\n", buf.String())

	// The parent handler is unchanged.
	buf.Reset()
	assert.NoError(t, h.Handle(context.Background(), r))
	assert.Equal(t, "2023-10-27 10:00:00 [WARN] slow ms=12\n", buf.String())
}

func TestSimpleHandler_WithGroup(t *testing.T) {
	h := &SimpleHandler{Level: slog.LevelInfo}
	newH := h.WithGroup("group")
	assert.Equal(t, h, newH, "WithGroup should currently be a no-op returning the same handler")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)
	l.Info("dropped")
	l.Warn("kept", "n", 1)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "[WARN] kept n=1")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"notice", LevelNotice, false},
		{"warn", slog.LevelWarn, false},
		{" Warning ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
