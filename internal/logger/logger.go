package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
}

type DefaultLogger struct {
	logger *slog.Logger
	level  Level
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func New(level Level) *DefaultLogger {
	return NewWithWriter(level, os.Stderr)
}

func NewWithWriter(level Level, w io.Writer) *DefaultLogger {
	opts := &slog.HandlerOptions{
		Level: slogLevel(level),
	}
	return &DefaultLogger{
		logger: slog.New(slog.NewTextHandler(w, opts)),
		level:  level,
	}
}

func (l *DefaultLogger) With(keysAndValues ...any) Logger {
	return &DefaultLogger{
		logger: l.logger.With(keysAndValues...),
		level:  l.level,
	}
}

func (l *DefaultLogger) Debug(msg string, keysAndValues ...any) {
	if l.level >= LevelDebug {
		l.logger.Debug(msg, keysAndValues...)
	}
}

func (l *DefaultLogger) Info(msg string, keysAndValues ...any) {
	if l.level >= LevelInfo {
		l.logger.Info(msg, keysAndValues...)
	}
}

func (l *DefaultLogger) Warn(msg string, keysAndValues ...any) {
	if l.level >= LevelWarn {
		l.logger.Warn(msg, keysAndValues...)
	}
}

func (l *DefaultLogger) Error(msg string, keysAndValues ...any) {
	if l.level >= LevelError {
		l.logger.Error(msg, keysAndValues...)
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func NewNop() NopLogger {
	return NopLogger{}
}

func (NopLogger) Debug(string, ...any) {}

func (NopLogger) Info(string, ...any) {}

func (NopLogger) Warn(string, ...any) {}

func (NopLogger) Error(string, ...any) {}

func (n NopLogger) With(...any) Logger {
	return n
}

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "OFF"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OFF":
		return LevelOff, nil
	case "ERROR":
		return LevelError, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "INFO", "":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid log level: %s", s)
	}
}
