package config

import (
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// normalizer maps case-insensitive raw strings onto an enum, falling back to
// a default for anything unknown.
type normalizer[T comparable] struct {
	values map[string]T
	def    T
}

func (n normalizer[T]) normalize(raw string) T {
	if v, ok := n.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return n.def
}

var logLevelNormalizer = normalizer[LogLevel]{
	values: map[string]LogLevel{
		"debug": LogLevelDebug,
		"info":  LogLevelInfo,
		"warn":  LogLevelWarn,
		"error": LogLevelError,
	},
	def: LogLevelInfo,
}

var logFormatNormalizer = normalizer[LogFormat]{
	values: map[string]LogFormat{
		"text": LogFormatText,
		"json": LogFormatJSON,
	},
	def: LogFormatText,
}

// NormalizeLogLevel maps a raw string onto a supported level (default info).
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.normalize(raw)
}

// NormalizeLogFormat maps a raw string onto a supported format (default text).
func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.normalize(raw)
}

// SlogLevel maps the level onto log/slog's scale.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
