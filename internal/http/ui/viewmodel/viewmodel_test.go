package viewmodel

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminNav_SingleDropdown(t *testing.T) {
	var dropdowns []NavEntry
	for _, e := range AdminNav() {
		if e.IsDropdown() {
			dropdowns = append(dropdowns, e)
		}
	}
	require.Len(t, dropdowns, 1)
	assert.Equal(t, "Home", dropdowns[0].Name)

	hrefs := make([]string, 0, 3)
	for _, c := range dropdowns[0].Children {
		hrefs = append(hrefs, c.Href)
	}
	assert.Equal(t, []string{"/admin", "/admin/about", "/admin/footer"}, hrefs)
}

func TestHeaderTitle(t *testing.T) {
	nav := AdminNav()
	tests := map[string]string{
		"/admin/products":     "Products",
		"/admin/about":        "Home",
		"/admin":              "Home",
		"/admin/notification": "Notifications",
		"/admin/unknown":      DefaultHeaderTitle,
		"/admin/products/":    DefaultHeaderTitle,
	}
	for path, want := range tests {
		assert.Equal(t, want, HeaderTitle(nav, path), path)
	}
}

func TestBuildSidebar_ActiveState(t *testing.T) {
	sb := BuildSidebar(AdminNav(), "/admin/footer", SidebarState{})

	var home NavGroup
	for _, g := range sb.Groups {
		if g.Dropdown {
			home = g
		}
		if g.Name == "Products" {
			assert.False(t, g.Active)
		}
	}
	assert.True(t, home.Active)
	assert.False(t, sb.State.DropdownOpen, "dropdown stays closed on mount")
	require.Len(t, home.Children, 3)
	assert.False(t, home.Children[0].Active)
	assert.True(t, home.Children[2].Active)
	assert.Equal(t, "Home", sb.HeaderTitle)
}

func TestSidebarState_Transitions(t *testing.T) {
	var s SidebarState

	s = s.ToggleDropdown()
	assert.True(t, s.DropdownOpen)
	s = s.ToggleDropdown()
	assert.False(t, s.DropdownOpen)

	s = s.ToggleSidebar(true)
	assert.True(t, s.Collapsed)
	assert.False(t, s.MobileOpen)

	s = s.ToggleSidebar(false)
	assert.True(t, s.MobileOpen)
	assert.True(t, s.Collapsed)

	s = s.DismissBackdrop()
	assert.False(t, s.MobileOpen)

	s = s.ToggleSidebar(false).OnRouteChange()
	assert.False(t, s.MobileOpen)
	assert.True(t, s.Collapsed, "route change keeps the desktop width")
}

func TestSidebarState_ApplyAndQuery(t *testing.T) {
	s := SidebarStateFromQuery(url.Values{"collapsed": {"true"}, "open": {"nope"}})
	assert.Equal(t, SidebarState{Collapsed: true}, s)

	s = s.Apply(OpToggleDropdown, true)
	assert.True(t, s.DropdownOpen)
	assert.Equal(t, s, s.Apply("bogus", true))

	round := SidebarStateFromQuery(s.Query())
	assert.Equal(t, s, round)
}

func TestNewPagination(t *testing.T) {
	q := url.Values{"search": {"brake"}, "page": {"2"}, "empty": {""}, "hx-request": {"true"}}
	p := NewPagination("/admin/resources/product", q, 2, 3, 25)

	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/admin/resources/product?page=1&search=brake", p.PrevURL)
	assert.Equal(t, "/admin/resources/product?page=3&search=brake", p.NextURL)

	p = NewPagination("/shop", nil, 0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasPrev)
	assert.False(t, p.HasNext)
	assert.Empty(t, p.NextURL)
}

func TestLayout_DocumentTitle(t *testing.T) {
	assert.Equal(t, "Shop - SNMTC Parts", Layout{Title: "Shop"}.DocumentTitle("SNMTC Parts"))
	assert.Equal(t, "SNMTC Parts", Layout{}.DocumentTitle("SNMTC Parts"))
}
