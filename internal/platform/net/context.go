// Package net holds request scoped helpers shared by the http packages
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID returns the id set by the request id middleware, or ""
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return chimw.GetReqID(ctx)
}

// WithRequestID stores id where RequestID finds it; used by tests and jobs
// that build requests outside the middleware chain
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}
