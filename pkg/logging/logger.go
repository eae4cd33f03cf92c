// Package logging provides structured logging for go-skyflag.
// It wraps Go's standard slog package so every component logs the same way:
// JSON by default, with the session ID of the running scene attached and
// telemetry floats rounded to a readable precision.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
)

// floatDigits is the number of decimals kept for float attributes.
const floatDigits = 4

// Logger wraps slog.Logger with context-aware helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing to stdout.
// The level is read from SKYFLAG_LOG_LEVEL (DEBUG, INFO, WARN, ERROR; default
// INFO) and the format from SKYFLAG_LOG_FORMAT (json or text; default json).
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a Logger writing to w with the environment's level and
// format.
func NewLoggerTo(w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:       getLogLevelFromEnv(),
		ReplaceAttr: roundFloats,
	}
	var handler slog.Handler
	if strings.EqualFold(os.Getenv("SKYFLAG_LOG_FORMAT"), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{slog.New(handler)}
}

// LogWithContext logs a message and adds the session ID found in ctx.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := SessionID(ctx); id != "" {
		args = append(args, "session_id", id)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs an informational message with context.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message with context and the error text.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type sessionIDKey struct{}

// WithSessionID returns a context carrying id. An empty id is replaced by a
// newly generated one.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewSessionID()
	}
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID returns the session ID stored in ctx, or "".
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewSessionID returns a random 16 character hex ID.
func NewSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

var (
	processOnce sync.Once
	processCtx  context.Context
)

// Background returns a context carrying the process-wide session ID. It is
// used by code that logs outside of a running scene.
func Background() context.Context {
	processOnce.Do(func() {
		processCtx = WithSessionID(context.Background(), "")
	})
	return processCtx
}

func getLogLevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("SKYFLAG_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// roundFloats trims float attributes to floatDigits decimals so per-tick
// telemetry stays readable. float32 values arrive as KindAny.
func roundFloats(groups []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindFloat64:
		a.Value = slog.Float64Value(round(a.Value.Float64()))
	case slog.KindAny:
		if f, ok := a.Value.Any().(float32); ok {
			a.Value = slog.Float64Value(round(float64(f)))
		}
	}
	return a
}

func round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	p := math.Pow10(floatDigits)
	return math.Round(f*p) / p
}

// WrapError wraps an error with additional context information.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
