package middleware

import "context"

type contextKey string

const ctxAdmin contextKey = "admin_username"

// AdminFromContext returns the authenticated admin username, if any.
func AdminFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdmin).(string); ok {
		return v
	}
	return ""
}

// WithAdmin injects the admin username into the context.
func WithAdmin(ctx context.Context, username string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdmin, username)
}
