// Package requestid contains utilities for handling the request id.
package requestid

import "context"

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// Inject stores a request ID in the context.
func Inject(ctx context.Context, requestID uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Extract returns the request ID from the context, or 0 when none is set.
func Extract(ctx context.Context) uint64 {
	if v, ok := ctx.Value(requestIDKey).(uint64); ok {
		return v
	}
	return 0
}
