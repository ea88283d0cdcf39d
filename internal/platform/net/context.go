// Package net provides request scoped helpers shared by the http transport
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"usagereport/internal/platform/logger"
)

// WithRequest stores reqID where both chi and the logger find it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
