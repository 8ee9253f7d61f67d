package httpx

import (
	"github.com/snmtc/parts-web/internal/domain/resource"
	"github.com/snmtc/parts-web/internal/router"
)

// CurrentPage constants define the page identifiers used in templates and navigation.
// Route-backed pages reuse the route names so navigation outcomes map directly.
const (
	// Storefront pages.
	PageHome          = router.RouteHome
	PageAbout         = router.RouteAbout
	PageServices      = router.RouteServices
	PageServiceDetail = router.RouteServiceDetail
	PageShop          = router.RouteShop
	PageShopCategory  = router.RouteShopCategory
	PageInquiry       = router.RouteInquiry
	PageContact       = router.RouteContact

	// Auth pages.
	PageLogin          = router.RouteLogin
	PageForgotPassword = router.RouteForgotPassword

	// Back-office pages.
	PageAdminHome         = router.RouteAdminHome
	PageAdminDashboard    = router.RouteAdminDashboard
	PageAdminCategory     = router.RouteAdminCategory
	PageAdminProducts     = router.RouteAdminProducts
	PageAdminServices     = router.RouteAdminServices
	PageAdminAbout        = router.RouteAdminAbout
	PageAdminFooter       = router.RouteAdminFooter
	PageAdminNotification = router.RouteAdminNotification

	// PageNotFound is rendered for unmatched paths.
	PageNotFound = "not-found"
)

// Brand is appended to every document title.
const Brand = "Metro Traders"

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageHome:              "home-content",
	PageAbout:             "about-content",
	PageServices:          "services-content",
	PageServiceDetail:     "service-detail-content",
	PageShop:              "shop-content",
	PageShopCategory:      "shop-content",
	PageInquiry:           "inquiry-content",
	PageContact:           "contact-content",
	PageLogin:             "login-content",
	PageForgotPassword:    "forgot-password-content",
	PageAdminHome:         "admin-resources-content",
	PageAdminDashboard:    "admin-dashboard-content",
	PageAdminCategory:     "admin-resources-content",
	PageAdminProducts:     "admin-resources-content",
	PageAdminServices:     "admin-resources-content",
	PageAdminAbout:        "admin-resources-content",
	PageAdminFooter:       "admin-resources-content",
	PageAdminNotification: "admin-notification-content",
	PageNotFound:          "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to not-found-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "not-found-content"
}

// adminResources lists the resource panels shown on each back-office page.
//
//nolint:gochecknoglobals // static read-only lookup.
var adminResources = map[string][]string{
	PageAdminHome:     {resource.Slider},
	PageAdminCategory: {resource.Category},
	PageAdminProducts: {resource.Product},
	PageAdminServices: {resource.Service},
	PageAdminAbout:    {resource.About, resource.Journey},
	PageAdminFooter:   {resource.Footer},
}

// resourcePages maps the page that owns each resource back to its path, used to
// refresh the right screen after a mutation.
//
//nolint:gochecknoglobals // static read-only lookup.
var resourcePages = map[string]string{
	resource.Slider:   "/admin",
	resource.Category: "/admin/category",
	resource.Product:  "/admin/products",
	resource.Service:  "/admin/services",
	resource.About:    "/admin/about",
	resource.Journey:  "/admin/about",
	resource.Footer:   "/admin/footer",
	resource.Inquiry:  "/admin/notification",
}
