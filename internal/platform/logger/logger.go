// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide [slog.Logger].
//
// JSON output is meant for services and CI logs; text output uses tint for a
// colored, human-readable terminal rendering of the same events.
package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/taibuivan/microblog/internal/platform/constants"
)

// Format names accepted by [New].
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New returns a logger writing to w with the app and version attributes attached.
func New(w io.Writer, format string, isDebug bool) *slog.Logger {
	level := slog.LevelInfo
	if isDebug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}

	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
