package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewStructuredLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	logger.Info("hello", slog.String("component", "test"))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestNewStructuredLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelWarn)

	logger.Info("suppressed")
	assert.Zero(t, buf.Len())

	logger.Warn("emitted")
	assert.NotZero(t, buf.Len())
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogError(logger, "something broke", errors.New("boom"), slog.String("file", "a.hr"))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "something broke", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "a.hr", entry["file"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestLogErrorNilLoggerDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "ignored", errors.New("boom"))
	})
}

func TestLogParseWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogParseWarning(logger, "bad accel row", slog.Int("line", 12))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "bad accel row", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, float64(12), entry["line"])
}

func TestLoggerContextRoundTrip(t *testing.T) {
	logger := NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	// Missing logger falls back to the default.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWrapFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	cause := errors.New("no such file")
	err := WrapFatal(logger, "cannot open database", cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot open database")
	assert.NotZero(t, buf.Len())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestSafeCloseWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	SafeCloseWithLogging(closerFunc(func() error { return nil }), logger, "ok_close")
	assert.Zero(t, buf.Len())

	SafeCloseWithLogging(closerFunc(func() error { return errors.New("close failed") }), logger, "bad_close")
	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "failed to close resource", entry["msg"])
	assert.Equal(t, "bad_close", entry["operation"])
}

func TestHandleDeferredError(t *testing.T) {
	logger := NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)

	var err error
	HandleDeferredError(&err, func() error { return errors.New("cleanup failed") }, logger, "flush")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush failed")

	// An existing error takes precedence over the deferred one.
	original := errors.New("original")
	err = original
	HandleDeferredError(&err, func() error { return errors.New("cleanup failed") }, logger, "flush")
	assert.Same(t, original, err)
}
