package httpx

import (
	"bytes"
	"crypto/tls"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csrfTestToken = "c3JmLXRva2VuLWZvci10ZXN0cw"

// csrfEcho records the token the handler saw and the parsed title field.
type csrfEcho struct {
	token string
	title string
	calls int
}

func (e *csrfEcho) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.calls++
		e.token = GetCSRFToken(r)
		e.title = r.FormValue("title")
		w.WriteHeader(http.StatusOK)
	})
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	for _, c := range res.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

func multipartPost(t *testing.T, target string, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "banner.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
	return req
}

func TestCSRFProtection_IssuesTokenOnFirstVisit(t *testing.T) {
	echo := &csrfEcho{}
	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(echo.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shop", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := csrfCookie(t, rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, echo.token, "templates see the issued token")
	assert.Equal(t, "/", c.Path)
	assert.False(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int((12 * time.Hour).Seconds()), c.MaxAge)
}

func TestCSRFProtection_ExistingCookieIsReused(t *testing.T) {
	echo := &csrfEcho{}
	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})(echo.handler()).ServeHTTP(rec, req)

	assert.Nil(t, csrfCookie(t, rec))
	assert.Equal(t, csrfTestToken, echo.token)
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			echo := &csrfEcho{}
			rec := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{})(echo.handler()).ServeHTTP(rec, httptest.NewRequest(method, "/contact", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 1, echo.calls)
		})
	}
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	form := url.Values{"title": {"Summer sale"}}

	tests := []struct {
		name     string
		build    func(t *testing.T) *http.Request
		wantCode int
		wantBody string
	}{
		{
			name: "htmx header",
			build: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/admin/slider", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req.Header.Set(DefaultCSRFHeaderName, csrfTestToken)
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
				return req
			},
			wantCode: http.StatusOK,
		},
		{
			name: "hidden form field",
			build: func(*testing.T) *http.Request {
				f := url.Values{"title": {"Summer sale"}, "csrf_token": {csrfTestToken}}
				req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(f.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
				return req
			},
			wantCode: http.StatusOK,
		},
		{
			name: "multipart form field",
			build: func(t *testing.T) *http.Request {
				return multipartPost(t, "/admin/slider", map[string]string{"title": "Summer sale", "csrf_token": csrfTestToken}, []byte{1, 2})
			},
			wantCode: http.StatusOK,
		},
		{
			name: "missing token",
			build: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
				return req
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "mismatched header",
			build: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodDelete, "/admin/category/3", nil)
				req.Header.Set(DefaultCSRFHeaderName, "forged")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
				return req
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "json body without header",
			build: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"csrf_token":"`+csrfTestToken+`"}`))
				req.Header.Set("Content-Type", "application/json")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
				return req
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "no cookie yet",
			build: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/login", nil)
				req.Header.Set(DefaultCSRFHeaderName, csrfTestToken)
				return req
			},
			wantCode: http.StatusForbidden,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			echo := &csrfEcho{}
			rec := httptest.NewRecorder()
			CSRFProtection(CSRFConfig{})(echo.handler()).ServeHTTP(rec, tc.build(t))

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusOK {
				assert.Equal(t, "Summer sale", echo.title, "handler still sees the form")
			} else {
				assert.Zero(t, echo.calls)
			}
		})
	}
}

func TestCSRFProtection_HTMXRejectionToasts(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/admin/products/9", nil)
	req.Header.Set("Hx-Request", "true")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfTestToken})
	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{})((&csrfEcho{}).handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), msgCSRFRejected)
}

func TestCSRFProtection_MultipartOverLimit(t *testing.T) {
	echo := &csrfEcho{}
	req := multipartPost(t, "/admin/slider", map[string]string{"csrf_token": csrfTestToken}, bytes.Repeat([]byte{0xff}, 4096))
	rec := httptest.NewRecorder()
	CSRFProtection(CSRFConfig{MaxFormBytes: 1024})(echo.handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, echo.calls)
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	tests := []struct {
		name string
		cfg  CSRFConfig
		req  func() *http.Request
	}{
		{
			name: "configured",
			cfg:  CSRFConfig{SecureCookie: true, MaxAge: 30 * time.Minute},
			req:  func() *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) },
		},
		{
			name: "tls",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "https://parts.example.com/", nil)
				r.TLS = &tls.ConnectionState{}
				return r
			},
		},
		{
			name: "forwarded proto list",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/", nil)
				r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
				return r
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			CSRFProtection(tc.cfg)((&csrfEcho{}).handler()).ServeHTTP(rec, tc.req())
			c := csrfCookie(t, rec)
			require.NotNil(t, c)
			assert.True(t, c.Secure)
		})
	}
}

func TestCSRFProtection_CustomNames(t *testing.T) {
	cfg := CSRFConfig{CookieName: "xsrf", HeaderName: "X-Xsrf", CookieDomain: "parts.example.com", TokenLength: 8}
	rec := httptest.NewRecorder()
	CSRFProtection(cfg)((&csrfEcho{}).handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	res := rec.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	assert.Equal(t, "xsrf", c.Name)
	assert.Equal(t, "parts.example.com", c.Domain)
	assert.Len(t, c.Value, 12, "8 random bytes base64url encoded")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Xsrf", c.Value)
	req.AddCookie(&http.Cookie{Name: "xsrf", Value: c.Value})
	rec = httptest.NewRecorder()
	CSRFProtection(cfg)((&csrfEcho{}).handler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCSRFToken_Absent(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
