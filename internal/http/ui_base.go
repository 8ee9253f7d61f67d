package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/adapters/clientid"
	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	"github.com/snmtc/parts-web/internal/debounce"
	"github.com/snmtc/parts-web/internal/http/ui/viewmodel"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/snmtc/parts-web/internal/router"
	"github.com/snmtc/parts-web/internal/service"
	"golang.org/x/sync/errgroup"
)

const errMsgFixBelow = "Please fix the errors below."

// CatalogService is the generic resource behaviour used by the back office.
type CatalogService interface {
	Schema(name string) (resource.Schema, error)
	List(ctx context.Context, name string, q ports.ListQuery) (model.Page, error)
	Options(ctx context.Context, sc resource.Schema) map[string][]service.Option
	Submit(ctx context.Context, name string, sub service.Submission) error
	DeleteAndReload(ctx context.Context, name, id string, q ports.ListQuery) (service.DeleteResult, error)
}

// StorefrontService loads the public pages.
type StorefrontService interface {
	Chrome(ctx context.Context) service.Chrome
	Home(ctx context.Context) service.HomePage
	About(ctx context.Context) service.AboutPage
	Services(ctx context.Context) ([]model.Service, error)
	ServiceDetail(ctx context.Context, id string) (model.Service, error)
	Shop(ctx context.Context, q service.ShopQuery, categories []model.Category) service.ShopPage
	SendInquiry(ctx context.Context, req model.InquiryRequest) error
}

// InquiryService backs the notification screen.
type InquiryService interface {
	List(ctx context.Context, f service.InquiryFilter) (service.InquiryList, error)
	Delete(ctx context.Context, id string, f service.InquiryFilter) (service.InquiryList, bool, error)
}

// DashboardService loads the admin landing tiles.
type DashboardService interface {
	Load(ctx context.Context) service.Dashboard
}

// AuthService runs the sign-in flows.
type AuthService interface {
	Login(ctx context.Context, w http.ResponseWriter, r *http.Request, cred domainauth.Credentials) error
	Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	SendOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in domainauth.PasswordReset) error
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ CatalogService    = (*service.CatalogService)(nil)
	_ StorefrontService = (*service.StorefrontService)(nil)
	_ InquiryService    = (*service.InquiryService)(nil)
	_ DashboardService  = (*service.DashboardService)(nil)
	_ AuthService       = (*service.AuthService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T          *TemplateRenderer
	Navigator  *router.Navigator
	Sessions   ports.SessionProvider
	Auth       AuthService
	Catalog    CatalogService
	Storefront StorefrontService
	Inquiries  InquiryService
	Dashboard  DashboardService
	// Searches coalesces keystroke bursts of the search boxes.
	Searches  *debounce.Coalescer
	ClientIDs clientid.Issuer
	Metrics   *Metrics
	// MaxUploadBytes bounds multipart form posts.
	MaxUploadBytes int64
	IsDev          bool // Development mode flag for enhanced error reporting
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) loginPath() string {
	if h.Navigator != nil {
		return h.Navigator.LoginPath()
	}
	return router.DefaultLoginPath
}

// pageParam parses a 1-based page number with a default of 1.
func pageParam(q url.Values) int {
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
	Layout      router.Layout
}

// metaForRoute derives page metadata from a resolved route.
func metaForRoute(rt router.Route) PageMeta {
	return PageMeta{Title: rt.Title, PageTitle: rt.Title, CurrentPage: rt.Name, Layout: rt.Layout}
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CurrentPath: r.URL.Path,
		Kind:        meta.Layout.String(),
	}

	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		layout.CSRFToken = csrfToken
	}
	if ok, _ := IsAuthenticatedFromContext(r.Context()); ok {
		layout.IsAuthenticated = true
	}
	if meta.Layout == router.LayoutAdmin {
		layout.PageTitle = viewmodel.HeaderTitle(viewmodel.AdminNav(), r.URL.Path)
	}
	return layout
}

// basePageData constructs the common page data map with layout context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Brand":           Brand,
		"Title":           layout.Title,
		"DocumentTitle":   layout.DocumentTitle(Brand),
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CurrentPath":     layout.CurrentPath,
		"Layout":          layout.Kind,
		"IsAuthenticated": layout.IsAuthenticated,
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if meta.Layout == router.LayoutAdmin {
		state := viewmodel.SidebarStateFromQuery(r.URL.Query()).OnRouteChange()
		data["Sidebar"] = viewmodel.BuildSidebar(viewmodel.AdminNav(), r.URL.Path, state)
	}

	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta   PageMeta
	Status int
	Fetch  func(ctx context.Context, b *TemplateDataBuilder) error
	// ChromeFirst loads the public chrome before Fetch, which can then read
	// it with b.Value("Chrome").
	ChromeFirst bool
}

// Page builds base data, fetches content data and, for public pages, the
// navbar and footer chrome concurrently, then renders. A failed fetch marks
// the page with an error banner; chrome failures only leave chrome empty.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	b := NewTemplateData(r, spec.Meta)
	ctx := r.Context()

	public := spec.Meta.Layout == router.LayoutPublic && h.Storefront != nil

	if public && spec.ChromeFirst {
		b.With("Chrome", h.Storefront.Chrome(ctx))
		if err := runFetch(ctx, spec.Fetch, b); err != nil {
			spec.Status = errorStatus(spec.Status, err)
			markPageError(b, err)
		}
		h.renderPage(w, r, spec.Status, b.Build())
		return
	}

	var (
		g      errgroup.Group
		chrome service.Chrome
	)
	if public {
		g.Go(func() error {
			chrome = h.Storefront.Chrome(ctx)
			return nil
		})
	}
	g.Go(func() error { return runFetch(ctx, spec.Fetch, b) })
	if err := g.Wait(); err != nil {
		spec.Status = errorStatus(spec.Status, err)
		markPageError(b, err)
	}
	if spec.Meta.Layout == router.LayoutPublic {
		b.With("Chrome", chrome)
	}
	h.renderPage(w, r, spec.Status, b.Build())
}

func runFetch(ctx context.Context, fetch func(context.Context, *TemplateDataBuilder) error, b *TemplateDataBuilder) error {
	if fetch == nil {
		return nil
	}
	return fetch(ctx, b)
}

// renderFragment writes a named partial, e.g. a form re-rendered after a post.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.T.RenderFragment(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, name)
	}
}

// renderPage renders a page with proper HTMX partial support.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if status == 0 {
		status = http.StatusOK
	}

	// Handle full page requests first (early return) to reduce nesting
	if !WantsPartial(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status != http.StatusOK {
			w.WriteHeader(status)
		}
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For HTMX requests, render the content plus out-of-band header updates
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	HTMX(w).Trigger("nav:activate", map[string]string{"path": r.URL.Path})
	if status != http.StatusOK {
		w.WriteHeader(status)
	}

	layout := extractLayoutInfo(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	safeDocTitle := html.EscapeString(layout.DocumentTitle(Brand))
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	if layout.Kind == router.LayoutAdmin.String() {
		// Out-of-band update for the header title
		safeTitle := html.EscapeString(layout.PageTitle)
		if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
			h.logger().Error("failed to write partial header title", "error", err)
			return
		}
		if sb, ok := data["Sidebar"].(viewmodel.Sidebar); ok {
			if err := h.T.ExecuteTo(w, "admin-sidebar", map[string]any{"Sidebar": sb, "OOB": true}); err != nil {
				return
			}
		}
	}

	if err := h.T.ExecuteTo(w, "content", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}
}

// errorStatus keeps an explicit status and otherwise maps err.
func errorStatus(status int, err error) int {
	if status != 0 {
		return status
	}
	return DetermineErrorStatus(err)
}

// markPageError flags the page; a message set by the fetch wins.
func markPageError(b *TemplateDataBuilder, err error) {
	if msg, ok := b.Value("ErrorMessage").(string); ok && msg != "" {
		b.WithError(msg)
		return
	}
	b.WithError(userMessage(err, "An unexpected error occurred. Please try again."))
}

func layoutFromProvider(data any) *viewmodel.Layout {
	provider, ok := data.(viewmodel.LayoutProvider)
	if !ok {
		return nil
	}
	return provider.LayoutData()
}

func layoutFromMap(data any) viewmodel.Layout {
	m, mapOK := data.(map[string]any)
	if !mapOK {
		return viewmodel.Layout{}
	}

	layout := viewmodel.Layout{}
	if v, titleOK := m["Title"].(string); titleOK {
		layout.Title = v
	}
	if v, pageTitleOK := m["PageTitle"].(string); pageTitleOK {
		layout.PageTitle = v
	}
	if v, currentPageOK := m["CurrentPage"].(string); currentPageOK {
		layout.CurrentPage = v
	}
	if v, ok := m["Layout"].(string); ok {
		layout.Kind = v
	}
	return layout
}

func extractLayoutInfo(data any) viewmodel.Layout {
	if layout := layoutFromProvider(data); layout != nil {
		return *layout
	}
	if layout, ok := data.(viewmodel.Layout); ok {
		return layout
	}
	return layoutFromMap(data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	// In dev mode, show detailed error in the response
	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div class="template-error">
				<h2>Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<pre>` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	// In production, show generic error
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
