// Package ctxutil carries request-scoped identity through context.
// The auth layer (out of scope here) is expected to populate the caller
// identity; read paths tolerate its absence, write paths do not.
package ctxutil

import (
	"context"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

type ctxKey string

const (
	callerIDKey  ctxKey = "caller_id"
	requestIDKey ctxKey = "request_id"
)

// WithCallerID stores the caller identity in the context.
func WithCallerID(ctx context.Context, id domain.FlexID) context.Context {
	return context.WithValue(ctx, callerIDKey, id)
}

// CallerIDFromCtx extracts the caller identity from the context.
// Returns the zero FlexID and false if the value is missing or absent.
func CallerIDFromCtx(ctx context.Context) (domain.FlexID, bool) {
	id, ok := ctx.Value(callerIDKey).(domain.FlexID)
	if !ok || id.IsZero() {
		return domain.FlexID{}, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
