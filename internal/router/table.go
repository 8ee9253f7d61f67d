package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidPattern is returned when a route pattern is malformed.
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrDuplicatePattern is returned when two routes in the same layout group
	// share a structurally identical pattern.
	ErrDuplicatePattern = errors.New("duplicate route pattern")
	// ErrDuplicateName is returned when two routes share a name.
	ErrDuplicateName = errors.New("duplicate route name")
	// ErrUnknownRoute is returned by reverse routing for an undeclared name.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrMissingParam is returned by reverse routing when a placeholder has no value.
	ErrMissingParam = errors.New("missing route parameter")
)

type compiledRoute struct {
	route Route
	segs  []segment
}

// Table is an ordered, validated set of routes. It is immutable after
// construction and safe for concurrent use.
type Table struct {
	routes []compiledRoute
	byName map[string]int
}

// NewTable validates routes and returns a table that matches them in
// declaration order.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]compiledRoute, 0, len(routes)),
		byName: make(map[string]int, len(routes)),
	}
	shapes := make(map[Layout]map[string]string)

	for _, r := range routes {
		segs, err := compilePattern(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", r.Name, err)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("pattern %q: %w: empty route name", r.Pattern, ErrInvalidPattern)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("route %q: %w", r.Name, ErrDuplicateName)
		}

		group := shapes[r.Layout]
		if group == nil {
			group = make(map[string]string)
			shapes[r.Layout] = group
		}
		key := shape(segs)
		if prev, dup := group[key]; dup {
			return nil, fmt.Errorf("route %q (%s) collides with %q: %w", r.Name, r.Pattern, prev, ErrDuplicatePattern)
		}
		group[key] = r.Name

		t.byName[r.Name] = len(t.routes)
		t.routes = append(t.routes, compiledRoute{route: r, segs: segs})
	}

	return t, nil
}

// MustTable is like NewTable but panics on error. Intended for package-level
// route declarations.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err) //nolint:forbidigo // route tables are static; fail fast at startup.
	}
	return t
}

func compilePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, pattern)
	}
	parts := splitPath(pattern)
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]struct{})
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, pattern)
		}
		if !strings.HasPrefix(part, ":") {
			if strings.Contains(part, ":") {
				return nil, fmt.Errorf("%w: %q mixes text and a parameter in one segment", ErrInvalidPattern, pattern)
			}
			segs = append(segs, segment{static: part})
			continue
		}
		name := part[1:]
		if name == "" || strings.Contains(name, ":") {
			return nil, fmt.Errorf("%w: %q has a malformed parameter", ErrInvalidPattern, pattern)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidPattern, pattern, name)
		}
		seen[name] = struct{}{}
		segs = append(segs, segment{param: name})
	}
	return segs, nil
}

// Match resolves path against the table. Routes are tried in declaration
// order and the first structural match wins. Static segments compare
// case-sensitively after percent-decoding; dynamic segments match any
// non-empty segment.
func (t *Table) Match(path string) (Match, bool) {
	if t == nil {
		return Match{}, false
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}

	raw := splitPath(path)
	parts := make([]string, len(raw))
	for i, p := range raw {
		if p == "" {
			return Match{}, false
		}
		dec, err := url.PathUnescape(p)
		if err != nil {
			return Match{}, false
		}
		parts[i] = dec
	}

	for _, cr := range t.routes {
		if params, ok := matchSegments(cr.segs, parts); ok {
			return Match{Route: cr.route, Params: params, Path: path}, true
		}
	}
	return Match{}, false
}

func matchSegments(segs []segment, parts []string) (Params, bool) {
	if len(segs) != len(parts) {
		return nil, false
	}
	params := Params{}
	for i, s := range segs {
		if s.dynamic() {
			params[s.param] = parts[i]
			continue
		}
		if s.static != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// Routes returns the declared routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, cr := range t.routes {
		out[i] = cr.route
	}
	return out
}

// Lookup returns the route declared under name.
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i].route, true
}

// Path builds the concrete path for the named route, escaping parameter values.
func (t *Table) Path(name string, params Params) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	segs := t.routes[i].segs
	if len(segs) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		if !s.dynamic() {
			b.WriteString(s.static)
			continue
		}
		v, ok := params[s.param]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingParam, s.param, name)
		}
		b.WriteString(url.PathEscape(v))
	}
	return b.String(), nil
}
