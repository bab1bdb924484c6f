package contextutil

import "context"

// contextKey is unexported so keys cannot collide with other packages.
type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetRequestID pulls the request ID back out; empty when absent.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}
