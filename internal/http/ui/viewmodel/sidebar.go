package viewmodel

import (
	"net/url"
	"strconv"
)

// SidebarState is the transient sidebar state. It lives in the page and is
// echoed back on every sidebar request; a full reload starts from the zero
// value, which is the mounted state: expanded on desktop, closed on mobile,
// dropdown closed whatever the active route.
type SidebarState struct {
	Collapsed    bool
	MobileOpen   bool
	DropdownOpen bool
}

// Sidebar operations accepted by Apply.
const (
	OpToggleDropdown  = "toggle-dropdown"
	OpToggleSidebar   = "toggle-sidebar"
	OpDismissBackdrop = "dismiss"
	OpRouteChange     = "route-change"
)

// ToggleDropdown opens or closes the Home group.
func (s SidebarState) ToggleDropdown() SidebarState {
	s.DropdownOpen = !s.DropdownOpen
	return s
}

// ToggleSidebar collapses the sidebar to icon width on desktop and opens or
// closes the off-canvas drawer on mobile.
func (s SidebarState) ToggleSidebar(desktop bool) SidebarState {
	if desktop {
		s.Collapsed = !s.Collapsed
		return s
	}
	s.MobileOpen = !s.MobileOpen
	return s
}

// DismissBackdrop closes the mobile drawer.
func (s SidebarState) DismissBackdrop() SidebarState {
	s.MobileOpen = false
	return s
}

// OnRouteChange closes the mobile drawer after navigating.
func (s SidebarState) OnRouteChange() SidebarState {
	s.MobileOpen = false
	return s
}

// Apply runs the named operation. Unknown operations leave s unchanged.
func (s SidebarState) Apply(op string, desktop bool) SidebarState {
	switch op {
	case OpToggleDropdown:
		return s.ToggleDropdown()
	case OpToggleSidebar:
		return s.ToggleSidebar(desktop)
	case OpDismissBackdrop:
		return s.DismissBackdrop()
	case OpRouteChange:
		return s.OnRouteChange()
	default:
		return s
	}
}

// SidebarStateFromQuery reads the state echoed by the page.
func SidebarStateFromQuery(q url.Values) SidebarState {
	return SidebarState{
		Collapsed:    queryBool(q, "collapsed"),
		MobileOpen:   queryBool(q, "open"),
		DropdownOpen: queryBool(q, "dropdown"),
	}
}

// Query encodes s for the next sidebar request.
func (s SidebarState) Query() url.Values {
	return url.Values{
		"collapsed": {strconv.FormatBool(s.Collapsed)},
		"open":      {strconv.FormatBool(s.MobileOpen)},
		"dropdown":  {strconv.FormatBool(s.DropdownOpen)},
	}
}

func queryBool(q url.Values, key string) bool {
	b, err := strconv.ParseBool(q.Get(key))
	return err == nil && b
}
