// Package logging configures structured logging with log/slog.
//
// Usage:
//
//	logging.Setup(false)                     // colored tint handler
//	logging.Setup(true)                      // JSON handler for production
//	logging.SetupWithLevel(slog.LevelDebug, false)
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures logging at the level specified by the LOG_LEVEL env
// var (default: INFO), using JSON output when json is true.
func Setup(json bool) {
	SetupWithLevel(levelFromEnv(), json)
}

// SetupWithLevel configures logging at the given level.
func SetupWithLevel(level slog.Level, json bool) {
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
