// Package memstore keeps session values and cache entries in process memory.
// It backs SESSION_BACKEND=memory and the handler tests.
package memstore

import (
	"context"
	"net/http"
	"sync"

	"github.com/snmtc/parts-web/internal/adapters/clientid"
	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
)

// SessionStore is a ports.SessionBackend keyed by the client id cookie.
type SessionStore struct {
	mu     sync.RWMutex
	values map[string]domainauth.Values
	ids    clientid.Issuer
}

// NewSessionStore returns an empty store.
func NewSessionStore(ids clientid.Issuer) *SessionStore {
	return &SessionStore{values: make(map[string]domainauth.Values), ids: ids}
}

func (s *SessionStore) Load(_ context.Context, r *http.Request) (domainauth.Values, error) {
	id, ok := s.ids.ID(r)
	if !ok {
		return domainauth.Values{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[id].Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, w http.ResponseWriter, r *http.Request, v domainauth.Values) error {
	id := s.ids.Ensure(w, r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[id] = v.Clone()
	return nil
}

func (s *SessionStore) Clear(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := s.ids.ID(r)
	s.ids.Expire(w)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, id)
	return nil
}

// Len returns the number of browsers with stored state.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
