package httpx

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	partsweb "github.com/snmtc/parts-web"
	"github.com/snmtc/parts-web/internal/adapters/clientid"
	"github.com/snmtc/parts-web/internal/debounce"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/snmtc/parts-web/internal/router"
)

// DefaultMetricsPath serves Prometheus metrics when a handler is configured.
const DefaultMetricsPath = "/metrics"

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Navigator  *router.Navigator
	Sessions   ports.SessionProvider
	Auth       AuthService
	Catalog    CatalogService
	Storefront StorefrontService
	Inquiries  InquiryService
	Dashboard  DashboardService
	Searches   *debounce.Coalescer
	// ClientIDs names browsers for the search debouncer. The zero value
	// uses the default cookie name.
	ClientIDs clientid.Issuer
	Metrics   *Metrics
	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler
	MetricsPath    string
	// Ready gates /readyz.
	Ready map[string]HealthChecker
	CSRF  CSRFConfig
	// MediaBaseURL prefixes image file names returned by the parts API.
	MediaBaseURL   string
	MaxUploadBytes int64
	Now            func() time.Time
	// Configuration
	IsDev  bool         // Development mode flag: templates and static files from disk
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router. Health checks, metrics and
// static files bypass the session and CSRF middleware; everything else runs
// through them.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Navigator == nil {
		services.Navigator = router.NewNavigator(router.DefaultTable())
	}

	ui, err := setupUIHandlers(services)
	if err != nil {
		return nil, err
	}

	app := http.NewServeMux()
	registerUIRoutes(app, ui, services)

	var appHandler http.Handler = &notFoundHandler{mux: app, uiHandlers: ui}
	csrf := services.CSRF
	if csrf.MaxFormBytes <= 0 {
		csrf.MaxFormBytes = services.MaxUploadBytes
	}
	appHandler = CSRFProtection(csrf)(appHandler)
	appHandler = SessionFlag(services.Sessions)(appHandler)
	appHandler = ClientID(services.ClientIDs)(appHandler)

	root := http.NewServeMux()
	root.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	root.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	root.Handle("GET /readyz", readyHandler(services.Ready))
	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		root.Handle("GET "+path, services.MetricsHandler)
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	root.Handle("GET /static/", staticWithFallback(services.IsDev, services.Logger))
	root.Handle("/", appHandler)

	return RequestID()(root), nil
}

// templateFS picks the template source: disk in dev mode for hot reloading,
// the embedded copy otherwise.
func templateFS(isDev bool) (fs.FS, error) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(partsweb.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("templates sub-filesystem: %w", err)
	}
	return sub, nil
}

// setupUIHandlers creates UI handlers with the template renderer.
func setupUIHandlers(services RouterServices) (*UIHandlers, error) {
	tfs, err := templateFS(services.IsDev)
	if err != nil {
		return nil, err
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:   tfs,
		MediaBaseURL: services.MediaBaseURL,
		Now:          services.Now,
		Logger:       services.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	return &UIHandlers{
		T:              tr,
		Navigator:      services.Navigator,
		Sessions:       services.Sessions,
		Auth:           services.Auth,
		Catalog:        services.Catalog,
		Storefront:     services.Storefront,
		Inquiries:      services.Inquiries,
		Dashboard:      services.Dashboard,
		Searches:       services.Searches,
		ClientIDs:      services.ClientIDs,
		Metrics:        services.Metrics,
		MaxUploadBytes: services.MaxUploadBytes,
		IsDev:          services.IsDev,
		Logger:         services.Logger,
	}, nil
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(partsweb.StaticFS, "frontend/static")
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		// Fallback to disk serving if embed fails
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	// Regex to match content-hashed filenames including optional .map (e.g., app.abc123.js, styles.def456.css, app.abc123.js.map)
	hashedFilePattern := regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the storefront 404 page for
// anything the mux does not route. Page navigations never get here: the
// catch-all GET route runs the navigator, which renders its own not-found page.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound && h.uiHandlers != nil {
		h.uiHandlers.NotFound(w, r)
		return
	}
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Debug("failed to write captured response", "error", err)
	}
}

// registerUIRoutes delegates to per-area route registration functions (≤3 params each).
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, services RouterServices) {
	guard := RequireSession(services.Sessions, h.loginPath())
	registerStorefrontRoutes(mux, h)
	registerAuthRoutes(mux, h)
	registerAdminRoutes(mux, h, guard)

	// Every other GET is a page navigation resolved against the route table.
	mux.Handle("GET /{path...}", http.HandlerFunc(h.Navigate))
}

// registerStorefrontRoutes wires public form posts and search fragments.
func registerStorefrontRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.Handle("GET /shop/_search", http.HandlerFunc(h.ShopSearch))
	mux.Handle("POST /inquiry/{id}", http.HandlerFunc(h.SubmitInquiry))
	mux.Handle("POST /contact", http.HandlerFunc(h.SubmitContact))
}

// registerAuthRoutes wires sign-in, password reset and sign-out.
func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.Handle("POST "+h.loginPath(), http.HandlerFunc(h.LoginSubmit))
	mux.Handle("POST /forgot-password", http.HandlerFunc(h.ForgotPasswordSubmit))
	mux.Handle("POST /logout", http.HandlerFunc(h.Logout))
}

// registerAdminRoutes wires back-office fragments and mutations. Pages are
// guarded by the navigator; these endpoints by the session middleware.
func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/_sidebar", guard(http.HandlerFunc(h.SidebarFragment)))
	mux.Handle("GET /admin/products/_search", guard(http.HandlerFunc(h.AdminProductSearch)))

	mux.Handle("GET /admin/resources/{resource}", guard(http.HandlerFunc(h.ResourceList)))
	mux.Handle("GET /admin/resources/{resource}/new", guard(http.HandlerFunc(h.ResourceNew)))
	mux.Handle("GET /admin/resources/{resource}/{id}/edit", guard(http.HandlerFunc(h.ResourceEdit)))
	mux.Handle("POST /admin/resources/{resource}", guard(http.HandlerFunc(h.ResourceCreate)))
	mux.Handle("POST /admin/resources/{resource}/{id}", guard(http.HandlerFunc(h.ResourceUpdate)))
	mux.Handle("POST /admin/resources/{resource}/{id}/delete", guard(http.HandlerFunc(h.ResourceDelete)))

	mux.Handle("GET /admin/notification/_list", guard(http.HandlerFunc(h.NotificationList)))
	mux.Handle("GET /admin/notification/_search", guard(http.HandlerFunc(h.NotificationSearch)))
	mux.Handle("POST /admin/notification/{id}/delete", guard(http.HandlerFunc(h.NotificationDelete)))
}
