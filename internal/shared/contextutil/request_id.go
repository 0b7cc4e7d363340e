package contextutil

import "context"

// GetRequestID returns the request id propagated by middleware, or "".
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithRequestID injects a request id, also handy in tests.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetKey exposes the raw key for middleware that mirrors it into gin.
func GetKey() string {
	return string(requestIDKey)
}
