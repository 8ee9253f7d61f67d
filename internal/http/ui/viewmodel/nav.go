package viewmodel

// DefaultHeaderTitle is shown when no sidebar entry matches the current path.
const DefaultHeaderTitle = "Dashboard"

// NavLink is one sidebar link.
type NavLink struct {
	Name string
	Href string
	Icon string
}

// NavEntry is a top-level sidebar item: a link, or a dropdown group when
// Children is non-empty.
type NavEntry struct {
	NavLink
	Children []NavLink
}

// IsDropdown reports whether the entry groups child links.
func (e NavEntry) IsDropdown() bool { return len(e.Children) > 0 }

// Matches reports whether the entry, or one of its children, points at path.
func (e NavEntry) Matches(path string) bool {
	if !e.IsDropdown() {
		return e.Href == path
	}
	for _, c := range e.Children {
		if c.Href == path {
			return true
		}
	}
	return false
}

// AdminNav returns the back-office sidebar entries in display order.
func AdminNav() []NavEntry {
	return []NavEntry{
		{NavLink: NavLink{Name: "Dashboard", Href: "/admin/dashboard", Icon: "dashboard"}},
		{
			NavLink: NavLink{Name: "Home", Icon: "home"},
			Children: []NavLink{
				{Name: "Slider", Href: "/admin"},
				{Name: "About", Href: "/admin/about"},
				{Name: "Footer", Href: "/admin/footer"},
			},
		},
		{NavLink: NavLink{Name: "Products", Href: "/admin/products", Icon: "package"}},
		{NavLink: NavLink{Name: "Category", Href: "/admin/category", Icon: "tag"}},
		{NavLink: NavLink{Name: "Services", Href: "/admin/services", Icon: "settings"}},
		{NavLink: NavLink{Name: "Notifications", Href: "/admin/notification", Icon: "bell"}},
	}
}

// HeaderTitle returns the name of the entry matching path. A child match
// yields its group's name.
func HeaderTitle(entries []NavEntry, path string) string {
	for _, e := range entries {
		if e.Matches(path) {
			return e.Name
		}
	}
	return DefaultHeaderTitle
}

// NavItem is a NavLink annotated for rendering.
type NavItem struct {
	NavLink
	Active bool
}

// NavGroup is a NavEntry annotated for rendering.
type NavGroup struct {
	NavItem
	Dropdown bool
	Children []NavItem
}

// Sidebar is everything the sidebar partial needs.
type Sidebar struct {
	Groups      []NavGroup
	State       SidebarState
	CurrentPath string
	HeaderTitle string
}

// BuildSidebar marks the entries active for path. A dropdown header is
// active when any child is; its open state comes from state alone.
func BuildSidebar(entries []NavEntry, path string, state SidebarState) Sidebar {
	groups := make([]NavGroup, 0, len(entries))
	for _, e := range entries {
		g := NavGroup{
			NavItem:  NavItem{NavLink: e.NavLink, Active: e.Matches(path)},
			Dropdown: e.IsDropdown(),
		}
		for _, c := range e.Children {
			g.Children = append(g.Children, NavItem{NavLink: c, Active: c.Href == path})
		}
		groups = append(groups, g)
	}
	return Sidebar{
		Groups:      groups,
		State:       state,
		CurrentPath: path,
		HeaderTitle: HeaderTitle(entries, path),
	}
}
