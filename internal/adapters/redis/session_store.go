// Package redis provides Redis-based adapters for parts-web.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snmtc/parts-web/internal/adapters/clientid"
	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "parts:session:"

// SessionStore keeps the per-browser values in Redis under
// <prefix><client-id>. The client id travels in its own cookie.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ids    clientid.Issuer
}

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Prefix string
	// TTL expires idle state. Zero keeps state until sign-out.
	TTL    time.Duration
	Issuer clientid.Issuer
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix, ttl: opts.TTL, ids: opts.Issuer}
}

// Prefix returns the key prefix, used by the admin CLI to scan sessions.
func (s *SessionStore) Prefix() string { return s.prefix }

func (s *SessionStore) Load(ctx context.Context, r *http.Request) (domainauth.Values, error) {
	id, ok := s.ids.ID(r)
	if !ok {
		return domainauth.Values{}, nil
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Values{}, nil
		}
		return domainauth.Values{}, fmt.Errorf("redis get: %w", err)
	}

	var v domainauth.Values
	if unmarshalErr := json.Unmarshal([]byte(data), &v); unmarshalErr != nil {
		return domainauth.Values{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	if v == nil {
		v = domainauth.Values{}
	}
	return v, nil
}

func (s *SessionStore) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, v domainauth.Values) error {
	id := s.ids.Ensure(w, r)

	data, err := json.Marshal(v.Clone())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+id, data, s.ttl).Err()
}

// Clear deletes the server-side record and expires the client id cookie.
func (s *SessionStore) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := s.ids.ID(r)
	s.ids.Expire(w)
	if !ok {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// Keys lists stored session keys matching the prefix, using SCAN.
func (s *SessionStore) Keys(ctx context.Context, limit int) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 200).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		keys = append(keys, batch...)
		if limit > 0 && len(keys) >= limit {
			return keys[:limit], nil
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// DeleteAll removes every stored session and returns how many were deleted.
func (s *SessionStore) DeleteAll(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis del: %w", err)
	}
	return int(n), nil
}
