package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGuard struct {
	allow bool
	calls int
}

func (g *countingGuard) Allow() bool {
	g.calls++
	return g.allow
}

func TestNavigate_PublicRouteSkipsGuard(t *testing.T) {
	nav := NewNavigator(DefaultTable())
	g := &countingGuard{}

	out := nav.Navigate("/shop/5", g)

	assert.Equal(t, StateRendering, out.State)
	assert.Equal(t, RouteShopCategory, out.Match.Route.Name)
	assert.Equal(t, "5", out.Match.Params["categoryId"])
	assert.False(t, out.Redirected)
	assert.Zero(t, g.calls)
	assert.Equal(t, []State{StateIdle, StateResolving, StateRendering}, out.Trace)
}

func TestNavigate_GuardedAllowed(t *testing.T) {
	nav := NewNavigator(DefaultTable())
	g := &countingGuard{allow: true}

	out := nav.Navigate("/admin/products", g)

	assert.Equal(t, StateRendering, out.State)
	assert.Equal(t, RouteAdminProducts, out.Match.Route.Name)
	assert.False(t, out.Redirected)
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, []State{StateIdle, StateResolving, StateGuarding, StateRendering}, out.Trace)
}

func TestNavigate_GuardedDeniedRedirectsToLogin(t *testing.T) {
	nav := NewNavigator(DefaultTable())
	g := &countingGuard{allow: false}

	out := nav.Navigate("/admin/dashboard", g)

	require.Equal(t, StateRendering, out.State)
	assert.True(t, out.Redirected)
	assert.Equal(t, "/login", out.RedirectTo)
	assert.Equal(t, RouteLogin, out.Match.Route.Name)
	assert.Equal(t, LayoutNone, out.Match.Route.Layout)
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, []State{
		StateIdle, StateResolving, StateGuarding, StateResolving, StateRendering,
	}, out.Trace)
}

func TestNavigate_NilGuardDenies(t *testing.T) {
	out := NewNavigator(DefaultTable()).Navigate("/admin", nil)
	assert.True(t, out.Redirected)
	assert.Equal(t, RouteLogin, out.Match.Route.Name)
}

func TestNavigate_Unmatched(t *testing.T) {
	g := &countingGuard{allow: true}
	out := NewNavigator(DefaultTable()).Navigate("/does/not/exist", g)

	assert.Equal(t, StateUnmatched, out.State)
	assert.Empty(t, out.Match.Route.Name)
	assert.Zero(t, g.calls)
}

func TestNavigate_EveryAdminRouteIsGuarded(t *testing.T) {
	nav := NewNavigator(DefaultTable())
	for _, r := range DefaultRoutes() {
		if r.Layout != LayoutAdmin {
			continue
		}
		t.Run(r.Name, func(t *testing.T) {
			out := nav.Navigate(r.Pattern, GuardFunc(func() bool { return false }))
			assert.True(t, out.Redirected)
			assert.Equal(t, RouteLogin, out.Match.Route.Name)
		})
	}
}

func TestNavigate_GuardedLoginDoesNotLoop(t *testing.T) {
	table := MustTable(
		Route{Name: "login", Pattern: "/login", RequireAuth: true},
		Route{Name: "secret", Pattern: "/secret", RequireAuth: true},
	)
	out := NewNavigator(table).Navigate("/secret", GuardFunc(func() bool { return false }))
	assert.Equal(t, StateUnmatched, out.State)
	assert.True(t, out.Redirected)
}

func TestNavigate_CustomLoginPath(t *testing.T) {
	table := MustTable(
		Route{Name: "signin", Pattern: "/signin"},
		Route{Name: "secret", Pattern: "/secret", RequireAuth: true},
	)
	out := NewNavigator(table, WithLoginPath("/signin")).Navigate("/secret", nil)
	assert.Equal(t, "/signin", out.RedirectTo)
	assert.Equal(t, "signin", out.Match.Route.Name)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "guarding", StateGuarding.String())
	assert.Equal(t, "unmatched", StateUnmatched.String())
	assert.Equal(t, "admin", LayoutAdmin.String())
}
