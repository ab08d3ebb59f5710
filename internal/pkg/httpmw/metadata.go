// Package httpmw carries request metadata (request ID, idempotency key)
// through the context so handlers and the service layer can log and
// correlate without touching http.Request directly.
package httpmw

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderRequestID      = "x-request-id"
	HeaderIdempotencyKey = "x-idempotency-key"

	ctxKeyRequestID      contextKey = HeaderRequestID
	ctxKeyIdempotencyKey contextKey = HeaderIdempotencyKey
)

// AttachRequestMetadata stores the chi request ID and the caller-supplied
// idempotency key under typed context keys. Must be mounted after
// middleware.RequestID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, ctxKeyRequestID, middleware.GetReqID(ctx))
		ctx = context.WithValue(ctx, ctxKeyIdempotencyKey, r.Header.Get(HeaderIdempotencyKey))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the request ID attached by AttachRequestMetadata, or ""
// when the middleware did not run (e.g. in unit tests).
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// IdempotencyKey returns the caller-supplied idempotency key, or "".
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(ctxKeyIdempotencyKey).(string)
	return key
}
