package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"invalid level", "LOUD", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SKYFLAG_LOG_LEVEL", tt.envValue)
			if level := getLogLevelFromEnv(); level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestTextFormatFromEnv(t *testing.T) {
	t.Setenv("SKYFLAG_LOG_FORMAT", "text")
	var buf bytes.Buffer
	NewLoggerTo(&buf).Info(context.Background(), "hello", "speed", 20)

	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "speed=20") {
		t.Errorf("expected text output, got %q", out)
	}
}

func TestSessionID(t *testing.T) {
	t.Run("generated IDs are distinct", func(t *testing.T) {
		id1, id2 := NewSessionID(), NewSessionID()
		if id1 == id2 {
			t.Error("NewSessionID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("NewSessionID() returned wrong length: %d", len(id1))
		}
	})

	t.Run("explicit ID is kept", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "flight-1")
		if got := SessionID(ctx); got != "flight-1" {
			t.Errorf("SessionID() = %q, want %q", got, "flight-1")
		}
	})

	t.Run("empty ID is generated", func(t *testing.T) {
		ctx := WithSessionID(context.Background(), "")
		if got := SessionID(ctx); len(got) != 16 {
			t.Errorf("SessionID() = %q, want a generated ID", got)
		}
	})

	t.Run("missing ID", func(t *testing.T) {
		if got := SessionID(context.Background()); got != "" {
			t.Errorf("SessionID() = %q, want empty string", got)
		}
	})

	t.Run("background context is stable", func(t *testing.T) {
		a, b := SessionID(Background()), SessionID(Background())
		if a == "" || a != b {
			t.Errorf("Background() session IDs %q and %q", a, b)
		}
	})
}

func TestRoundFloats(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want any
	}{
		{"float64 rounded", slog.Float64("yaw", 1.234567), 1.2346},
		{"float32 rounded", slog.Any("speed", float32(15.123456)), 15.1235},
		{"string untouched", slog.String("mode", "plane"), "plane"},
		{"int untouched", slog.Int("tick", 3), int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundFloats(nil, tt.attr).Value.Any()
			if got != tt.want {
				t.Errorf("roundFloats() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}

	if got := round(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("round(+Inf) = %v", got)
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: roundFloats,
	})
	logger := &Logger{slog.New(handler)}
	ctx := WithSessionID(context.Background(), "session-123")

	decode := func(t *testing.T) map[string]any {
		t.Helper()
		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Failed to parse log JSON: %v", err)
		}
		return entry
	}

	t.Run("info logging", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "tick", "altitude", float32(50.00001))
		entry := decode(t)
		if entry["msg"] != "tick" || entry["level"] != "INFO" {
			t.Errorf("unexpected entry %v", entry)
		}
		if entry["session_id"] != "session-123" {
			t.Errorf("Expected session_id 'session-123', got %v", entry["session_id"])
		}
		if entry["altitude"] != 50.0 {
			t.Errorf("Expected altitude 50, got %v", entry["altitude"])
		}
	})

	t.Run("error logging", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "load failed", errors.New("missing file"), "path", "plane.obj")
		entry := decode(t)
		if entry["level"] != "ERROR" || entry["error"] != "missing file" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("debug logging", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "render")
		if entry := decode(t); entry["level"] != "DEBUG" {
			t.Errorf("Expected level 'DEBUG', got %v", entry["level"])
		}
	})

	t.Run("warn logging", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "unsupported statement")
		if entry := decode(t); entry["level"] != "WARN" {
			t.Errorf("Expected level 'WARN', got %v", entry["level"])
		}
	})
}

func TestLogWithoutSessionID(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{slog.New(slog.NewJSONHandler(&buf, nil))}
	logger.Info(context.Background(), "test message")

	if strings.Contains(buf.String(), "session_id") {
		t.Error("Log should not contain session_id when none is set in context")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	original := errors.New("original error")
	wrapped := WrapError(original, "loading %s", "flag.obj")
	if wrapped.Error() != "loading flag.obj: original error" {
		t.Errorf("WrapError() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("WrapError() should preserve original error")
	}
}
