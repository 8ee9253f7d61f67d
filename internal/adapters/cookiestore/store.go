// Package cookiestore keeps the per-browser session values inside a signed
// and encrypted cookie.
package cookiestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
)

// DefaultCookieName is the cookie that carries the encoded values.
const DefaultCookieName = "parts_state"

// Options configures a Store.
type Options struct {
	// HashKey authenticates the cookie (32 or 64 bytes).
	HashKey []byte
	// BlockKey encrypts the cookie (16, 24 or 32 bytes). Nil disables encryption.
	BlockKey []byte
	Name     string
	Domain   string
	Secure   bool
	// MaxAge is the cookie lifetime in seconds. Zero means ten years.
	MaxAge int
}

// Store is a ports.SessionBackend backed by gorilla/securecookie.
type Store struct {
	codec  *securecookie.SecureCookie
	name   string
	domain string
	secure bool
	maxAge int
}

const tenYears = 10 * 365 * 24 * 60 * 60

// New validates opts and returns a Store.
func New(opts Options) (*Store, error) {
	if len(opts.HashKey) < 32 {
		return nil, errors.New("cookiestore: hash key must be at least 32 bytes")
	}
	switch len(opts.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("cookiestore: block key must be 16, 24 or 32 bytes, got %d", len(opts.BlockKey))
	}

	name := opts.Name
	if name == "" {
		name = DefaultCookieName
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = tenYears
	}

	codec := securecookie.New(opts.HashKey, opts.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(maxAge)

	return &Store{codec: codec, name: name, domain: opts.Domain, secure: opts.Secure, maxAge: maxAge}, nil
}

// Load decodes the cookie. A missing cookie yields empty values; a cookie
// that fails authentication or decoding is reported as an error.
func (s *Store) Load(_ context.Context, r *http.Request) (domainauth.Values, error) {
	c, err := r.Cookie(s.name)
	if errors.Is(err, http.ErrNoCookie) {
		return domainauth.Values{}, nil
	}
	if err != nil {
		return domainauth.Values{}, err
	}

	var v domainauth.Values
	if err := s.codec.Decode(s.name, c.Value, &v); err != nil {
		return domainauth.Values{}, fmt.Errorf("decode session cookie: %w", err)
	}
	if v == nil {
		v = domainauth.Values{}
	}
	return v, nil
}

// Save encodes v into the cookie.
func (s *Store) Save(_ context.Context, w http.ResponseWriter, _ *http.Request, v domainauth.Values) error {
	encoded, err := s.codec.Encode(s.name, v.Clone())
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, s.cookie(encoded, s.maxAge))
	return nil
}

// Clear expires the cookie.
func (s *Store) Clear(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GenerateKeys returns a random hash and block key pair for development use.
func GenerateKeys() ([]byte, []byte) {
	return securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32)
}
