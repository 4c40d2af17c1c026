// Package logger provides the storefront's structured, levelled logger built
// on log/slog.
//
// WithCtx returns the per-request logger injected by the Logger middleware so
// every line from a handler or service carries the request id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", id)
//	// → time=... level=INFO msg="order created" request_id=0b6f... order_id=7
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/storefront/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler(config.AppEnv()))
	slog.SetDefault(L)
}

func baseHandler(env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// AttachMongo fans every record out to a MongoDB "logs" collection in
// addition to stdout. The returned func flushes and disconnects.
func AttachMongo(uri, database string) (func(), error) {
	h, err := NewMongoHandler(uri, database, "logs")
	if err != nil {
		return func() {}, fmt.Errorf("logger: attach mongo: %w", err)
	}

	L = slog.New(NewMultiHandler(baseHandler(config.AppEnv()), h))
	slog.SetDefault(L)
	return func() {
		if n := h.Dropped(); n > 0 {
			L.Warn("logger: mongo sink dropped records", "count", n)
		}
		h.Close()
	}, nil
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base
// logger when there is none (background jobs, CLI commands).
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
