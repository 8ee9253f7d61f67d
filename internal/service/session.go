package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Backend ports.SessionBackend
	Logger  *slog.Logger
}

// SessionService is the single source of truth for whether a browser may
// enter the admin area. It implements ports.SessionProvider.
type SessionService struct {
	backend ports.SessionBackend
	logger  *slog.Logger
}

var _ ports.SessionProvider = (*SessionService)(nil)

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Backend == nil {
		panic("SessionBackend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{backend: opts.Backend, logger: logger.With("component", "session")}
}

// SetAuthenticated writes the flag. Other stored values are kept; a store
// that cannot be read is overwritten.
func (s *SessionService) SetAuthenticated(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	values, err := s.backend.Load(ctx, r)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable session state", "error", err)
		values = domainauth.Values{}
	}
	values[domainauth.FlagKey] = domainauth.FlagTrue

	if err := s.backend.Save(ctx, w, r, values); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearAuthenticated removes every stored value, not just the flag.
func (s *SessionService) ClearAuthenticated(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := s.backend.Clear(ctx, w, r); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether the stored flag is exactly "true". Read
// failures are logged and treated as signed out.
func (s *SessionService) IsAuthenticated(r *http.Request) bool {
	values, err := s.backend.Load(r.Context(), r)
	if err != nil {
		s.logger.WarnContext(r.Context(), "session read failed", "error", err, "path", r.URL.Path)
		return false
	}
	return values.Authenticated()
}
