// Package log provides a structured logging interface for synthasl.
//
// The Logger interface is slog-compatible in shape so that backends can be
// switched without touching call sites. Two backends ship with the package:
// a log/slog JSON backend (wrapped by ErrFmtHandler to emit stack traces from
// cockroachdb/errors) and a zerolog backend for human-readable console output.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "assembler",
//	    log.RunIDKey, runID,
//	)
//	logger.Info("Generation started",
//	    log.OperationKey, log.OperationAssemble,
//	    log.SamplesKey, 520,
//	)

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Every method takes a message followed by alternating key/value pairs.
// With returns a child logger whose records always carry the given fields.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. Pass the error under the "error"
	// key (ErrAttrKey) so backends can attach its stack trace.
	//
	//   logger.Error("Image write failed",
	//       log.ErrAttrKey, err,
	//       log.PathKey, rel,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
