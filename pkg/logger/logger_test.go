package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCtx_ReturnsInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc123")

	ctx := InjectLogger(context.Background(), reqLog)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc123")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestWithCtx_FallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))
	assert.Same(t, L, WithCtx(nil)) //nolint:staticcheck
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	log := slog.New(h).With("component", "test")
	log.Info("info line")
	log.Error("error line")

	assert.Contains(t, a.String(), "info line")
	assert.Contains(t, a.String(), "error line")
	assert.NotContains(t, b.String(), "info line")
	assert.Contains(t, b.String(), "component=test")
}
