package observability

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		level        string
		debugEnabled bool
	}{
		{name: "debug enables debug output", level: "debug", debugEnabled: true},
		{name: "info filters debug output", level: "info", debugEnabled: false},
		{name: "warn filters debug output", level: "warn", debugEnabled: false},
		{name: "empty level defaults to info", level: "", debugEnabled: false},
		{name: "level is case insensitive", level: "DEBUG", debugEnabled: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tc.level)
			if err != nil {
				t.Fatalf("NewLogger(%q) error = %v", tc.level, err)
			}
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tc.debugEnabled {
				t.Fatalf("debug enabled = %v, want %v", got, tc.debugEnabled)
			}
		})
	}

	if _, err := NewLogger("shouting"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestCorrelationIDContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithCorrelationID(context.Background(), "cid-123")
	correlationID, ok := CorrelationIDFromContext(ctx)
	if !ok || correlationID != "cid-123" {
		t.Fatalf("correlation id = %q, ok = %v, want cid-123", correlationID, ok)
	}

	if _, ok := CorrelationIDFromContext(context.Background()); ok {
		t.Fatal("expected no correlation id on a fresh context")
	}
}

func TestWithContextLoggerAddsField(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := WithCorrelationID(context.Background(), "cid-789")
	WithContextLogger(base, ctx).Info("with correlation")
	WithContextLogger(base, context.Background()).Info("without correlation")

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["correlationId"]; got != "cid-789" {
		t.Fatalf("correlationId = %v, want cid-789", got)
	}
	if _, ok := entries[1].ContextMap()["correlationId"]; ok {
		t.Fatal("expected correlationId field to be absent")
	}
}

func TestWithContextLoggerNilLogger(t *testing.T) {
	t.Parallel()

	if got := WithContextLogger(nil, context.Background()); got != nil {
		t.Fatal("expected nil logger")
	}
}
