package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestContextHandlerAddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ContextHandler{
		Handler: slog.NewJSONHandler(&buf, &slog.HandlerOptions{}),
	})

	ctx := AppendCtx(context.Background(), slog.String("request-id", "abc"))
	ctx = AppendCtx(ctx, slog.Uint64("user-id", 42))

	logger.InfoContext(ctx, "hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decoding log record: %v", err)
	}
	if record["request-id"] != "abc" {
		t.Errorf("request-id = %v, want %q", record["request-id"], "abc")
	}
	if record["user-id"] != float64(42) {
		t.Errorf("user-id = %v, want 42", record["user-id"])
	}
}

func TestAppendCtxDoesNotMutateParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"))
	_ = AppendCtx(parent, slog.String("b", "2"))
	_ = AppendCtx(parent, slog.String("c", "3"))

	attrs, ok := parent.Value(ctxAttrs).([]slog.Attr)
	if !ok {
		t.Fatal("parent context lost its attrs")
	}
	if len(attrs) != 1 || attrs[0].Key != "a" {
		t.Fatalf("parent attrs = %v, want [a]", attrs)
	}
}
