// Package router resolves navigation paths against the application's declared
// route table and runs the guard/render state machine for a single navigation.
//
// The package has no net/http dependency; internal/http adapts it to requests.
package router

import "strings"

// Layout identifies the chrome a page is rendered inside.
type Layout int

const (
	// LayoutNone renders the page without chrome (login, forgot password).
	LayoutNone Layout = iota
	// LayoutPublic wraps the page with the storefront navbar and footer.
	LayoutPublic
	// LayoutAdmin wraps the page with the back-office sidebar and header.
	LayoutAdmin
)

// String returns the lowercase layout name used in logs and templates.
func (l Layout) String() string {
	switch l {
	case LayoutNone:
		return "none"
	case LayoutPublic:
		return "public"
	case LayoutAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Route declares a page reachable at Pattern.
//
// Pattern segments are either static text or ":name" placeholders. Name is the
// page identity and must be unique across the table.
type Route struct {
	Name        string
	Pattern     string
	RequireAuth bool
	Layout      Layout
	Title       string
}

// Params holds the dynamic segment values captured by a match. A parameter that
// the matched pattern does not declare is absent, not empty.
type Params map[string]string

// Get returns the value for key and whether it was captured.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Match is the result of resolving a path against a table.
type Match struct {
	Route  Route
	Params Params
	Path   string
}

type segment struct {
	static string
	param  string
}

func (s segment) dynamic() bool { return s.param != "" }

// shape returns a structural key for the pattern where every parameter is
// replaced by ":", so "/a/:x" and "/a/:y" share a shape.
func shape(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		if s.dynamic() {
			b.WriteByte(':')
			continue
		}
		b.WriteString(s.static)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// splitPath splits a path into its segments, dropping the leading slash and a
// single trailing slash. The root path yields no segments.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
