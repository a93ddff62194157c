package config

import (
	"log/slog"
	"testing"
)

func TestNormalizeLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"  Warn  ", LogLevelWarn},
		{"error", LogLevelError},
		{"gibberish", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, c := range cases {
		if got := NormalizeLogLevel(c.in); got != c.want {
			t.Errorf("NormalizeLogLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeLogFormat(t *testing.T) {
	cases := []struct {
		in   string
		want LogFormat
	}{
		{"json", LogFormatJSON},
		{"JSON", LogFormatJSON},
		{"text", LogFormatText},
		{"yaml", LogFormatText},
	}
	for _, c := range cases {
		if got := NormalizeLogFormat(c.in); got != c.want {
			t.Errorf("NormalizeLogFormat(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLogLevel_SlogMapping(t *testing.T) {
	cases := []struct {
		in   LogLevel
		want slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{LogLevel("bogus"), slog.LevelInfo},
	}
	for _, c := range cases {
		if got := c.in.SlogLevel(); got != c.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
