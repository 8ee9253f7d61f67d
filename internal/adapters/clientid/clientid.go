// Package clientid issues the opaque browser identifier cookie used by the
// server-side session backends.
package clientid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultCookieName is the client id cookie name.
const DefaultCookieName = "parts_client"

// Issuer reads and writes the client id cookie.
type Issuer struct {
	Name   string
	Domain string
	Secure bool
	// MaxAge is the cookie lifetime in seconds. Zero makes it persistent for
	// ten years; the server-side TTL decides actual expiry.
	MaxAge int
}

const tenYears = 10 * 365 * 24 * 60 * 60

func (i Issuer) name() string {
	if i.Name == "" {
		return DefaultCookieName
	}
	return i.Name
}

// ID returns the client id carried by r, if it is a well-formed UUID.
func (i Issuer) ID(r *http.Request) (string, bool) {
	c, err := r.Cookie(i.name())
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}

// Ensure returns the existing client id or issues a new one.
func (i Issuer) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := i.ID(r); ok {
		return id
	}
	id := uuid.NewString()
	maxAge := i.MaxAge
	if maxAge <= 0 {
		maxAge = tenYears
	}
	http.SetCookie(w, &http.Cookie{
		Name:     i.name(),
		Value:    id,
		Path:     "/",
		Domain:   i.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   i.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Bind ensures r carries a client id. When one is issued, the returned
// request carries the new cookie too, so later readers in the same request
// see the same id.
func (i Issuer) Bind(w http.ResponseWriter, r *http.Request) (*http.Request, string) {
	if id, ok := i.ID(r); ok {
		return r, id
	}
	id := i.Ensure(w, r)
	r = r.Clone(r.Context())
	r.AddCookie(&http.Cookie{Name: i.name(), Value: id})
	return r, id
}

// Expire deletes the client id cookie.
func (i Issuer) Expire(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     i.name(),
		Value:    "",
		Path:     "/",
		Domain:   i.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
