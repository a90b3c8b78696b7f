package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// LevelNotice sits between info and warn.
const LevelNotice = slog.Level(2)

// SimpleHandler implements slog.Handler for common log format.
type SimpleHandler struct {
	Output io.Writer
	Level  slog.Level

	mu    *sync.Mutex
	attrs []slog.Attr
}

// New returns a logger writing common log format lines to w. Writes are
// serialized.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(&SimpleHandler{Output: w, Level: level, mu: &sync.Mutex{}})
}

// ParseLevel maps debug, info, notice, warn(ing) and error to a level.
// Unknown names yield slog.LevelInfo and an error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "notice":
		return LevelNotice, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func levelString(l slog.Level) string {
	if l == LevelNotice {
		return "NOTICE"
	}
	return l.String()
}

func (h *SimpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Level
}

func (h *SimpleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(levelString(r.Level))
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	sb.WriteByte('\n')

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.Output, sb.String())
	return err
}

// WithAttrs returns a handler that prefixes every record with attrs.
func (h *SimpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	n := *h
	n.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &n
}

// WithGroup is a no-op; groups are flattened.
func (h *SimpleHandler) WithGroup(name string) slog.Handler {
	return h
}
