// Package log is the process-wide structured logger.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type ctxKey struct{}

var (
	levelVar = new(slog.LevelVar)
	mu       sync.RWMutex
	logger   = slog.New(NewHandler(os.Stdout, "text"))
)

// NewHandler builds a handler writing in the given format ("text" or "json")
// with short keys: ts, level, msg.
func NewHandler(w io.Writer, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: levelVar,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Key = "level"
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.MessageKey:
				attr.Key = "msg"
			}
			return attr
		},
	}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Setup installs a logger for the given level and format
func Setup(level, format string) error {
	if err := SetLevel(level); err != nil {
		return err
	}
	ReplaceLogger(slog.New(NewHandler(os.Stdout, format)))
	return nil
}

// SetLevel accepts debug, info, warn and error, case-insensitively.
func SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		levelVar.Set(slog.LevelInfo)
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn", "warning":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}

// Logger returns the underlying slog.Logger instance.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ReplaceLogger installs a custom slog.Logger.
func ReplaceLogger(l *slog.Logger) {
	if l == nil {
		panic("log: nil logger provided")
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// WithAttrs returns a context whose log lines carry the given attributes.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	prev, _ := ctx.Value(ctxKey{}).([]any)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func Debug(ctx context.Context, msg string, args ...any) { write(ctx, slog.LevelDebug, msg, args) }
func Info(ctx context.Context, msg string, args ...any)  { write(ctx, slog.LevelInfo, msg, args) }
func Warn(ctx context.Context, msg string, args ...any)  { write(ctx, slog.LevelWarn, msg, args) }
func Error(ctx context.Context, msg string, args ...any) { write(ctx, slog.LevelError, msg, args) }

func write(ctx context.Context, level slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if extra, ok := ctx.Value(ctxKey{}).([]any); ok {
		args = append(append([]any{}, extra...), args...)
	}
	Logger().Log(ctx, level, msg, args...)
}
