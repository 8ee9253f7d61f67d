// Package ports defines interfaces (hexagonal ports) for session persistence
// and the upstream parts API.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"net/http"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
)

// SessionBackend persists the per-browser values. Implementations bind the
// values to the browser through a cookie: either the values themselves
// (signed and encrypted) or an opaque client id pointing at server-side state.
type SessionBackend interface {
	// Load returns the stored values. A browser with no state yields empty
	// values and a nil error.
	Load(ctx context.Context, r *http.Request) (domainauth.Values, error)
	// Save replaces the stored values.
	Save(ctx context.Context, w http.ResponseWriter, r *http.Request, v domainauth.Values) error
	// Clear removes every stored value for the browser.
	Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// SessionProvider is the narrow capability handed to the guard and the auth
// handlers: set the flag, clear everything, read the flag.
type SessionProvider interface {
	SetAuthenticated(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	ClearAuthenticated(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	IsAuthenticated(r *http.Request) bool
}
