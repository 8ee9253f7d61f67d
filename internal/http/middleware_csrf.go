package httpx

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	// DefaultCSRFCookieName names the token cookie and the hidden form field.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header htmx sends the token in (see app.js).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the number of random bytes in a token.
	DefaultCSRFTokenLength = 32

	msgCSRFRejected = "Your session expired. Reload the page and try again."
)

// CSRFConfig configures CSRFProtection. Zero values take the defaults.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int
	// SecureCookie forces the Secure attribute. Otherwise it follows the request scheme.
	SecureCookie bool
	// MaxAge is the cookie lifetime (default: 12 hours).
	MaxAge time.Duration
	// MaxFormBytes caps the body read while looking for the form token in a
	// multipart post (default: DefaultMaxUploadBytes).
	MaxFormBytes int64
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormFieldName == "" {
		c.FormFieldName = DefaultCSRFCookieName
	}
	if c.TokenLength <= 0 {
		c.TokenLength = DefaultCSRFTokenLength
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 12 * time.Hour
	}
	if c.MaxFormBytes <= 0 {
		c.MaxFormBytes = DefaultMaxUploadBytes
	}
	return c
}

// CSRFProtection guards every unsafe method with a double-submit token: the
// cookie value must come back in the X-Csrf-Token header (htmx) or in the
// csrf_token form field (plain form posts, including multipart resource forms).
// The token is put in the request context for templates.
//
// Rejected htmx requests get a toast; others get a plain 403.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookieValue(r, cfg.CookieName)
			if token == "" {
				token = newCSRFToken(cfg.TokenLength)
				if token == "" {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				setCSRFCookie(w, r, cfg, token)
			}
			r = r.WithContext(setCSRFTokenInContext(r.Context(), token))

			if csrfExempt(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			switch err := checkCSRFToken(w, r, token, cfg); {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.As(err, new(*http.MaxBytesError)):
				http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			default:
				if IsHTMX(r) {
					triggerToast(w, msgCSRFRejected, "error")
				}
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
			}
		})
	}
}

func csrfExempt(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func csrfCookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// newCSRFToken returns "" when the system random source fails.
func newCSRFToken(n int) string {
	b := securecookie.GenerateRandomKey(n)
	if b == nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

func setCSRFCookie(w http.ResponseWriter, r *http.Request, cfg CSRFConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: false, // app.js copies it into the htmx header
		Secure:   cfg.SecureCookie || r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(cfg.MaxAge.Seconds()),
	})
}

// isForwardedHTTPS handles comma-separated X-Forwarded-Proto values.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

var errCSRFMismatch = errors.New("csrf token mismatch")

// checkCSRFToken compares the submitted token to the cookie value in constant
// time. The header wins when present. Multipart bodies are parsed under
// cfg.MaxFormBytes so the handler sees the already-parsed form.
func checkCSRFToken(w http.ResponseWriter, r *http.Request, want string, cfg CSRFConfig) error {
	got := r.Header.Get(cfg.HeaderName)
	if got == "" {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return err
			}
		case "multipart/form-data":
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxFormBytes)
			if err := r.ParseMultipartForm(cfg.MaxFormBytes); err != nil {
				return err
			}
		default:
			return errCSRFMismatch
		}
		got = r.PostFormValue(cfg.FormFieldName)
	}
	if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return errCSRFMismatch
	}
	return nil
}

type csrfTokenKey struct{}

func setCSRFTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey{}, token)
}

// GetCSRFToken returns the token CSRFProtection stored for r, or "".
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
