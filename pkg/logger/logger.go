// Package logger — тонкая обёртка над log/slog с printf-подобным API.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger — интерфейс логгера, который принимают все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

type options struct {
	level     slog.Level
	writer    io.Writer
	addSource bool
}

// Option настраивает SlogLogger.
type Option func(*options)

// WithLevel задаёт уровень логирования строкой ("debug", "info", "warn", "error").
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = ParseLevel(level)
	}
}

// WithWriter перенаправляет вывод (по умолчанию os.Stdout).
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

func WithSource() Option {
	return func(o *options) {
		o.addSource = true
	}
}

// SlogLogger реализует Logger поверх slog.JSONHandler.
type SlogLogger struct {
	log *slog.Logger
}

func NewSlogLogger(opts ...Option) *SlogLogger {
	o := &options{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	h := slog.NewJSONHandler(o.writer, &slog.HandlerOptions{
		Level:     o.level,
		AddSource: o.addSource,
	})

	return &SlogLogger{log: slog.New(h)}
}

// NewNopLogger возвращает логгер, который ничего не пишет.
func NewNopLogger() *SlogLogger {
	return NewSlogLogger(WithWriter(io.Discard))
}

// With возвращает логгер с дополнительными атрибутами.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{log: l.log.With(args...)}
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Errorf(err error, format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}

// ParseLevel переводит строковый уровень в slog.Level, по умолчанию info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
