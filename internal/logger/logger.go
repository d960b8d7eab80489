// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used throughout the
// go-forum server.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Application code should pass *Logger by pointer and obtain request-scoped
// loggers via FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
// Embedding zerolog.Logger exposes the full zerolog API while allowing the
// application to add helper methods without modifying the upstream type.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a production-ready *Logger for the given role label
// (e.g. "server", "worker") and minimal level ("debug", "info", ...).
//
// The logger is configured with:
//   - global log level parsed from level, Info when level is empty or unknown;
//   - a "role" field set to role, useful for filtering logs from different
//     application components;
//   - a "ts" timestamp field added to every log entry;
//   - a "func" caller field that records the fully-qualified function name
//     (instead of the default file:line format) for easier log navigation.
//
// Output is written to os.Stdout in JSON format.
func NewLogger(role, level string) *Logger {
	return newLogger(os.Stdout, role, level)
}

func newLogger(w io.Writer, role, level string) *Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name() // return function name
	}

	zerolog.CallerFieldName = "func"
	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// ParseLevel maps a textual level to zerolog's, defaulting to Info.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Nop returns a *Logger that discards all log output.
// It is intended for use in tests and other contexts where logging is
// undesirable or would produce noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithComponent returns a child *Logger tagged with a "component" field.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver. The child logger can be enriched with additional context fields
// without affecting the parent logger.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// StdLogger adapts l for APIs that only accept a standard library logger,
// such as http.Server.ErrorLog. Lines are written at error level.
func (l *Logger) StdLogger() *stdlog.Logger {
	errorLogger := l.With().Str(zerolog.LevelFieldName, zerolog.LevelErrorValue).Logger()
	return stdlog.New(errorLogger, "", 0)
}

// FromRequest extracts the zerolog.Logger stored in the request's context by
// zerolog's log.Ctx helper and returns it as a *Logger.
//
// This is typically used in HTTP middleware that has previously attached a
// request-scoped logger to the context via zerolog's WithContext.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its global logger,
// so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
