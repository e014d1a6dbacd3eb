package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
)

// New returns a JSON logger writing to w at the given LOG_LEVEL. Records at
// ERROR or above get a "stacktrace" attribute.
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true,
	})
	return slog.New(traced{next: h, from: slog.LevelError})
}

// ParseLevel accepts the slog level names (case-insensitive, with offsets
// such as "INFO+2") and WARNING. Unknown values fall back to INFO.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		s = "WARN"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

var exit = os.Exit

// Fatal logs msg at ERROR on the default logger and exits with status 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	exit(1)
}

type traced struct {
	next slog.Handler
	from slog.Level
}

func (t traced) Enabled(ctx context.Context, l slog.Level) bool {
	return t.next.Enabled(ctx, l)
}

func (t traced) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= t.from {
		r = r.Clone()
		r.AddAttrs(slog.String("stacktrace", string(debug.Stack())))
	}
	return t.next.Handle(ctx, r)
}

func (t traced) WithAttrs(attrs []slog.Attr) slog.Handler {
	t.next = t.next.WithAttrs(attrs)
	return t
}

func (t traced) WithGroup(name string) slog.Handler {
	t.next = t.next.WithGroup(name)
	return t
}
