// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zap backends.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "driver", driver)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported values for New's format argument.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatText    = "text"
)

// New builds the Logger selected by format: "json" is zap's production
// encoder, "console" is zap's development encoder and "text" is slog's text
// handler on stdout.
func New(format string) (Logger, error) {
	switch format {
	case FormatJSON, "":
		return NewZapProductionLogger()
	case FormatConsole:
		return NewZapDevelopmentLogger()
	case FormatText:
		return NewSlogTextLogger(os.Stdout, slog.LevelInfo), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
