// Package logger configures structured logging for the dense command line
// tools and the dataset service.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger so commands can receive it through a context.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
	Slog() *slog.Logger
}

// Format selects the output handler.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatText   Format = "text"
)

// Options controls how New builds a Logger.
type Options struct {
	Level  slog.Level
	Format Format
	// Source adds the calling file and line to JSON and text records.
	Source bool
}

type slogLogger struct {
	logger *slog.Logger
}

// New creates a Logger writing to w.
func New(w io.Writer, opts Options) (Logger, error) {
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.Source}
	var h slog.Handler
	switch opts.Format {
	case FormatPretty, "":
		h = NewPrettyHandler(w, hopts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	case FormatText:
		h = slog.NewTextHandler(w, hopts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", opts.Format)
	}
	return &slogLogger{logger: slog.New(h)}, nil
}

// Default writes pretty info-level records to stderr.
func Default() Logger {
	return &slogLogger{logger: slog.New(NewPrettyHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Discard drops every record.
func Discard() Logger {
	return &slogLogger{logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// FromContext returns the Logger stored in ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Default()
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *slogLogger) Slog() *slog.Logger            { return l.logger }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{logger: l.logger.WithGroup(name)}
}

// ParseLevel converts debug, info, warn (or warning) and error to a slog.Level.
// Matching ignores case. An empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", level)
	}
}
