package router

// Route names for the storefront and back office.
const (
	RouteLogin          = "login"
	RouteForgotPassword = "forgot-password"

	RouteAdminHome         = "admin-home"
	RouteAdminDashboard    = "admin-dashboard"
	RouteAdminCategory     = "admin-category"
	RouteAdminProducts     = "admin-products"
	RouteAdminServices     = "admin-services"
	RouteAdminAbout        = "admin-about"
	RouteAdminFooter       = "admin-footer"
	RouteAdminNotification = "admin-notification"

	RouteHome          = "home"
	RouteAbout         = "about"
	RouteServices      = "services"
	RouteServiceDetail = "service-detail"
	RouteShop          = "shop"
	RouteShopCategory  = "shop-category"
	RouteInquiry       = "inquiry"
	RouteContact       = "contact"
)

// DefaultRoutes returns the canonical route declarations in match order.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteLogin, Pattern: "/login", Layout: LayoutNone, Title: "Login"},
		{Name: RouteForgotPassword, Pattern: "/forgot-password", Layout: LayoutNone, Title: "Forgot Password"},

		{Name: RouteAdminHome, Pattern: "/admin", Layout: LayoutAdmin, RequireAuth: true, Title: "Slider"},
		{Name: RouteAdminDashboard, Pattern: "/admin/dashboard", Layout: LayoutAdmin, RequireAuth: true, Title: "Dashboard"},
		{Name: RouteAdminCategory, Pattern: "/admin/category", Layout: LayoutAdmin, RequireAuth: true, Title: "Category"},
		{Name: RouteAdminProducts, Pattern: "/admin/products", Layout: LayoutAdmin, RequireAuth: true, Title: "Products"},
		{Name: RouteAdminServices, Pattern: "/admin/services", Layout: LayoutAdmin, RequireAuth: true, Title: "Services"},
		{Name: RouteAdminAbout, Pattern: "/admin/about", Layout: LayoutAdmin, RequireAuth: true, Title: "About"},
		{Name: RouteAdminFooter, Pattern: "/admin/footer", Layout: LayoutAdmin, RequireAuth: true, Title: "Footer"},
		{Name: RouteAdminNotification, Pattern: "/admin/notification", Layout: LayoutAdmin, RequireAuth: true, Title: "Notifications"},

		{Name: RouteHome, Pattern: "/", Layout: LayoutPublic, Title: "Home"},
		{Name: RouteAbout, Pattern: "/about", Layout: LayoutPublic, Title: "About Us"},
		{Name: RouteServices, Pattern: "/services", Layout: LayoutPublic, Title: "Services"},
		{Name: RouteServiceDetail, Pattern: "/serviceDetail/:id", Layout: LayoutPublic, Title: "Service"},
		{Name: RouteShop, Pattern: "/shop", Layout: LayoutPublic, Title: "Shop"},
		{Name: RouteShopCategory, Pattern: "/shop/:categoryId", Layout: LayoutPublic, Title: "Shop"},
		{Name: RouteInquiry, Pattern: "/inquiry/:id", Layout: LayoutPublic, Title: "Inquiry"},
		{Name: RouteContact, Pattern: "/contact", Layout: LayoutPublic, Title: "Contact Us"},
	}
}

// DefaultTable returns a table over DefaultRoutes.
func DefaultTable() *Table {
	return MustTable(DefaultRoutes()...)
}
