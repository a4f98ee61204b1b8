package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	perrors "github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// Output formats accepted by SetupLogger.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewSlogLogger(slog.Default())
)

// GetLogger returns the process-wide logger installed by SetupLogger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// SetupLogger installs the process-wide logger. format is FormatJSON for
// machine-readable slog output (Cloud Logging field names, stack traces via
// ErrFmtHandler) or FormatConsole for zerolog's human-readable writer.
// Warnings raised through pkg/errors.Warn are routed to the same logger.
func SetupLogger(loglevel, format string, w io.Writer) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON, "":
		ops := slog.HandlerOptions{
			AddSource: true,
			Level:     level,
			// Replace attributes to convert to CloudLogging format.
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				switch attr.Key {
				case slog.LevelKey:
					attr = slog.Attr{Key: "severity", Value: attr.Value}
				case slog.MessageKey:
					attr = slog.Attr{Key: "message", Value: attr.Value}
				case slog.SourceKey:
					attr = slog.Attr{Key: "logging.googleapis.com/sourceLocation", Value: attr.Value}
				}
				return attr
			},
		}
		sl := slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops)))
		slog.SetDefault(sl)
		SetLogger(NewSlogLogger(sl))
	case FormatConsole:
		SetLogger(NewZerologLogger(w, Level(level), true))
	default:
		return perrors.NewValidationError("log_format", "must be json or console", format)
	}

	perrors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn(warning.Error(), "warning", warning)
	})
	return nil
}

// ToLogLevel parses a level name.
func ToLogLevel(level string) (slog.Level, error) {
	switch level {
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, perrors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// ===========================================================================
// slog backend
// ===========================================================================

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger adapts a *slog.Logger to Logger.
func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, fields...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, fields...) }
func (s *slogLogger) Error(msg string, fields ...any) { s.l.Error(msg, fields...) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// ===========================================================================
// zerolog backend
// ===========================================================================

type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a zerolog-backed Logger writing to w. With
// console set, records are rendered by zerolog.ConsoleWriter.
func NewZerologLogger(w io.Writer, level Level, console bool) Logger {
	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(out).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

func (z *zerologLogger) Debug(msg string, fields ...any) { addFields(z.zl.Debug(), fields).Msg(msg) }
func (z *zerologLogger) Info(msg string, fields ...any)  { addFields(z.zl.Info(), fields).Msg(msg) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { addFields(z.zl.Warn(), fields).Msg(msg) }
func (z *zerologLogger) Error(msg string, fields ...any) { addFields(z.zl.Error(), fields).Msg(msg) }

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: z.zl.With().Fields(fields).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.zl.GetLevel() <= toZerologLevel(level)
}

// addFields appends key/value pairs to e. Errors keep their stack trace,
// and values implementing zerolog.LogObjectMarshaler are logged as objects.
func addFields(e *zerolog.Event, fields []any) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
			if err, ok := v.(error); ok {
				e = e.Str(key+"_message", err.Error())
			}
		case error:
			e = e.AnErr(key, v)
			if st := extractStacktrace(v); st != "" {
				e = e.Str(StacktraceAttrKey, st)
			}
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
