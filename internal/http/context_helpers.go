package httpx

import "context"

// requestIDKey and authKey are unexported context key types to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	requestIDKey struct{}
	authKey      struct{}
	clientIDKey  struct{}
)

// SetRequestIDInContext returns a child context carrying id.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request id set by the RequestID middleware, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// SetAuthenticatedInContext records the session flag read for this request so
// the guard, the layout and the handlers agree on a single read.
func SetAuthenticatedInContext(ctx context.Context, authenticated bool) context.Context {
	return context.WithValue(ctx, authKey{}, authenticated)
}

// IsAuthenticatedFromContext returns the recorded flag and whether one was recorded.
func IsAuthenticatedFromContext(ctx context.Context) (bool, bool) {
	v, ok := ctx.Value(authKey{}).(bool)
	return v, ok
}

// SetClientIDInContext returns a child context carrying the browser's client id.
func SetClientIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// GetClientID returns the id set by the ClientID middleware, or "".
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}
