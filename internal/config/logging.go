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

// NormalizeLogLevel case-folds raw. Unknown values are returned as-is so
// validation can report them; empty becomes info.
func NormalizeLogLevel(raw string) LogLevel {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "":
		return LogLevelInfo
	case "warning":
		return LogLevelWarn
	}
	return LogLevel(v)
}

// SlogLevel maps the level onto slog.
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

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat case-folds raw; empty becomes text.
func NormalizeLogFormat(raw string) LogFormat {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return LogFormatText
	}
	return LogFormat(v)
}
