// Package log provides a context-aware slog logger.
package log

import (
	"context"
	"log/slog"
	"os"
)

type ctxAttrsKey struct{}

var ctxAttrs ctxAttrsKey

// ContextHandler decorates a slog.Handler so that attributes stored in the
// context via AppendCtx are added to every record.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxAttrs).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// AppendCtx attaches a slog attribute to the context so it is included in
// every record logged with that context.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if attrs, ok := parent.Value(ctxAttrs).([]slog.Attr); ok {
		attrs = append(attrs[:len(attrs):len(attrs)], attr)
		return context.WithValue(parent, ctxAttrs, attrs)
	}
	return context.WithValue(parent, ctxAttrs, []slog.Attr{attr})
}

func New(options *slog.HandlerOptions) *slog.Logger {
	if options == nil {
		options = &slog.HandlerOptions{Level: slog.LevelDebug}
	}
	return slog.New(&ContextHandler{
		Handler: slog.NewJSONHandler(os.Stderr, options),
	})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger returns a logger that drops every record. Used by tests and as a
// fallback when no logger is configured.
func NullLogger() *slog.Logger {
	return slog.New(&ContextHandler{
		Handler: slog.NewJSONHandler(discard{}, &slog.HandlerOptions{}),
	})
}
