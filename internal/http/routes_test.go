package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_HealthChecksBypassSession(t *testing.T) {
	d := newTestDeps(false)
	h := newTestRouter(t, d)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_StaticAssets(t *testing.T) {
	d := newTestDeps(false)
	h := newTestRouter(t, d)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), ".sidebar.is-collapsed")
}

func TestStaticWithCacheHeaders_HashedFilesAreImmutable(t *testing.T) {
	h := staticWithCacheHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/static/js/app.1a2b3c4d.js", nil))

	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestRouter_MetricsMounted(t *testing.T) {
	d := newTestDeps(false)
	svc := d.routerServices()
	svc.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("partsweb_up 1\n"))
	})
	h, err := NewRouter(svc)
	require.NoError(t, err)

	rec := serve(h, httptest.NewRequest(http.MethodGet, DefaultMetricsPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partsweb_up 1\n", rec.Body.String())
}

func TestRouter_RequestID(t *testing.T) {
	d := newTestDeps(false)
	h := newTestRouter(t, d)

	t.Run("generated when absent", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("echoed when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := serve(h, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaced when malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "has space")
		rec := serve(h, req)
		assert.NotEqual(t, "has space", rec.Header().Get(RequestIDHeader))
	})
}
