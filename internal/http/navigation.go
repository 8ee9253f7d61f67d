package httpx

import (
	"net/http"

	"github.com/snmtc/parts-web/internal/router"
)

// pageHandler renders one matched route.
type pageHandler func(w http.ResponseWriter, r *http.Request, m router.Match)

// Navigate resolves the request path against the route table, runs the
// session guard for protected routes and renders the matched page in its
// layout. Denied navigations are replaced by the login page; unmatched paths
// render the not-found page.
func (h *UIHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	guard := router.GuardFunc(func() bool { return isAuthenticated(r, h.Sessions) })
	out := h.Navigator.Navigate(r.URL.EscapedPath(), guard)
	h.Metrics.navigation(out)

	switch {
	case out.State == router.StateUnmatched:
		h.NotFound(w, r)
		return
	case out.Redirected:
		h.logger().Debug("navigation redirected",
			"path", r.URL.Path,
			"redirect_to", out.RedirectTo,
		)
		redirect(w, r, out.RedirectTo)
		return
	}

	// A fragment swap cannot change the surrounding chrome.
	if WantsPartial(r) && h.layoutChanged(r, out.Match.Route.Layout) {
		HTMX(w).Redirect(r.URL.RequestURI())
		return
	}

	handler := h.pageFor(out.Match.Route.Name)
	if handler == nil {
		h.NotFound(w, r)
		return
	}
	handler(w, r, out.Match)
}

// layoutChanged reports whether the page the browser is on uses a different
// layout than target. Unknown current pages count as unchanged.
func (h *UIHandlers) layoutChanged(r *http.Request, target router.Layout) bool {
	current := CurrentPath(r)
	if current == "" {
		return false
	}
	m, ok := h.Navigator.Table().Match(current)
	if !ok {
		return false
	}
	return m.Route.Layout != target
}

func (h *UIHandlers) pageFor(name string) pageHandler {
	switch name {
	case router.RouteHome:
		return h.HomePage
	case router.RouteAbout:
		return h.AboutPage
	case router.RouteServices:
		return h.ServicesPage
	case router.RouteServiceDetail:
		return h.ServiceDetailPage
	case router.RouteShop, router.RouteShopCategory:
		return h.ShopPage
	case router.RouteInquiry:
		return h.InquiryPage
	case router.RouteContact:
		return h.ContactPage
	case router.RouteLogin:
		return h.LoginPage
	case router.RouteForgotPassword:
		return h.ForgotPasswordPage
	case router.RouteAdminDashboard:
		return h.DashboardPage
	case router.RouteAdminNotification:
		return h.NotificationPage
	case router.RouteAdminHome, router.RouteAdminCategory, router.RouteAdminProducts,
		router.RouteAdminServices, router.RouteAdminAbout, router.RouteAdminFooter:
		return h.ResourcesPage
	default:
		return nil
	}
}

// NotFound renders the storefront 404 page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Page Not Found",
			PageTitle:   "Page Not Found",
			CurrentPage: PageNotFound,
			Layout:      router.LayoutPublic,
		},
		Status: http.StatusNotFound,
	})
}
