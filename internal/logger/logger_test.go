package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: formatJSON, Writer: &buf})

	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			logger.Info("hello")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"hello"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestRedactsCredentials(t *testing.T) {
	for _, format := range []string{formatJSON, formatPretty} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: format, Writer: &buf})

			logger.Info("signin", "username", "alice", "password", "Str0ng!Pass", "Token", "eyJhbGciOi")

			out := buf.String()
			assert.Contains(t, out, "alice")
			assert.NotContains(t, out, "Str0ng!Pass")
			assert.NotContains(t, out, "eyJhbGciOi")
			assert.Contains(t, out, redacted)
		})
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "WRN")
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(handler.WithAttrs([]slog.Attr{
		slog.String("service", "brain"),
		slog.Int("version", 1),
	}))
	logger.Info("test message", "count", 3)

	output := buf.String()
	assert.Contains(t, output, "service=brain")
	assert.Contains(t, output, "version=1")
	assert.Contains(t, output, "count=3")
}

func TestPrettyHandler_WithGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.Equal(t, handler, handler.WithGroup(""))

	logger := slog.New(handler).With("top", 1).WithGroup("http").With("method", "GET")
	logger.Info("request", "status", 200)

	output := buf.String()
	assert.Contains(t, output, "top=1")
	assert.Contains(t, output, "http.method=GET")
	assert.Contains(t, output, "http.status=200")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}))

	logger.Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-05-01T12:00:00Z", formatValue(slog.TimeValue(ts)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
}

func TestLogger_WithErrorAndField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: formatJSON, Writer: &buf})

	logger.WithError(errors.New("disk full")).WithField("content_id", "content-1").Info("store failed")

	output := buf.String()
	assert.Contains(t, output, `"error":"disk full"`)
	assert.Contains(t, output, `"content_id":"content-1"`)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger.Logger)
	logger.Info("dropped")
}
