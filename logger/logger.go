// Package logger the slog helpers used across cookiecat
package logger

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

// Logf calls on the default logger.
func Logf(level slog.Level, format string, args ...any) {
	l := slog.Default()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debugf calls LevelDebug on the default logger.
func Debugf(format string, args ...any) {
	Logf(slog.LevelDebug, format, args...)
}

// Infof calls LevelInfo on the default logger.
func Infof(format string, args ...any) {
	Logf(slog.LevelInfo, format, args...)
}

// Warnf calls LevelWarn on the default logger.
func Warnf(format string, args ...any) {
	Logf(slog.LevelWarn, format, args...)
}

// Errorf calls LevelError on the default logger.
func Errorf(format string, args ...any) {
	Logf(slog.LevelError, format, args...)
}

// Error logs the error with the message on the default logger.
func Error(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
}

// ParseLevel returns the level by name, unknown names are LevelInfo.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Setup sets the default logger with a ConsoleHandler at the level.
func Setup(level slog.Leveler) *slog.Logger {
	l := slog.New(NewConsoleHandler(level))
	slog.SetDefault(l)
	return l
}
