package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_InvalidLevel(t *testing.T) {
	err := Initialize(Config{Level: "loud", Environment: "development"})
	assert.Error(t, err)
}

func TestInitialize_ProductionWritesLogFiles(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Initialize(Config{
		Level:       "info",
		LogDir:      dir,
		Environment: "production",
		ServiceName: "portfolio-api",
	}))
	Error("boom")
	Sync()

	_, err := os.Stat(filepath.Join(dir, "app.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "error.log"))
	assert.NoError(t, err)
}

func TestTraceFields(t *testing.T) {
	assert.Empty(t, TraceFields(context.Background()))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	fields := TraceFields(ctx)
	require.Len(t, fields, 2)
	assert.Equal(t, "trace_id", fields[0].Key)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields[0].String)
}

func TestLogError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = previous })

	LogError(errors.New("smtp down"), "Failed to email contact message", zap.String("identity", "203.0.113.7"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Failed to email contact message", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "smtp down", fields["error"])
	assert.Equal(t, "203.0.113.7", fields["identity"])
}
