package router

import "fmt"

// State is a step of the navigation state machine.
type State int

const (
	// StateIdle is the state before a navigation event arrives.
	StateIdle State = iota
	// StateResolving matches the requested path against the table.
	StateResolving
	// StateGuarding evaluates the auth guard for a protected match.
	StateGuarding
	// StateRendering is terminal: the matched page is rendered in its layout.
	StateRendering
	// StateUnmatched is terminal: no route matched the path.
	StateUnmatched
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateGuarding:
		return "guarding"
	case StateRendering:
		return "rendering"
	case StateUnmatched:
		return "unmatched"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Guard decides whether a protected route may be rendered.
type Guard interface {
	Allow() bool
}

// GuardFunc adapts a function to the Guard interface.
type GuardFunc func() bool

// Allow calls f.
func (f GuardFunc) Allow() bool { return f() }

// Outcome reports how a navigation ended.
type Outcome struct {
	// Match is the route that was rendered. Zero when State is StateUnmatched.
	Match Match
	// State is the terminal state: StateRendering or StateUnmatched.
	State State
	// Redirected is set when the guard denied access and the navigation was
	// replaced by the login route.
	Redirected bool
	// RedirectTo is the replacement path when Redirected is set.
	RedirectTo string
	// Trace lists every state visited, starting with StateIdle.
	Trace []State
}

// DefaultLoginPath is where denied navigations are sent.
const DefaultLoginPath = "/login"

// maxResolves bounds redirect chains. A denied navigation resolves at most
// twice: the original path and the login path.
const maxResolves = 2

// Navigator runs navigations against a table.
type Navigator struct {
	table     *Table
	loginPath string
}

// NavigatorOption customizes a Navigator.
type NavigatorOption func(*Navigator)

// WithLoginPath overrides the path denied navigations are redirected to.
func WithLoginPath(p string) NavigatorOption {
	return func(n *Navigator) {
		if p != "" {
			n.loginPath = p
		}
	}
}

// NewNavigator returns a Navigator over table.
func NewNavigator(table *Table, opts ...NavigatorOption) *Navigator {
	n := &Navigator{table: table, loginPath: DefaultLoginPath}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Table returns the route table the navigator resolves against.
func (n *Navigator) Table() *Table { return n.table }

// LoginPath returns the redirect target for denied navigations.
func (n *Navigator) LoginPath() string { return n.loginPath }

// Navigate runs one navigation for path. The guard is consulted only for
// routes that require auth, and always before a page is selected for render.
// A nil guard denies.
func (n *Navigator) Navigate(path string, guard Guard) Outcome {
	out := Outcome{State: StateIdle, Trace: []State{StateIdle}}
	step := func(s State) {
		out.State = s
		out.Trace = append(out.Trace, s)
	}

	target := path
	for range maxResolves {
		step(StateResolving)
		m, ok := n.table.Match(target)
		if !ok {
			step(StateUnmatched)
			return out
		}
		if !m.Route.RequireAuth {
			out.Match = m
			step(StateRendering)
			return out
		}

		step(StateGuarding)
		if guard != nil && guard.Allow() {
			out.Match = m
			step(StateRendering)
			return out
		}

		out.Redirected = true
		out.RedirectTo = n.loginPath
		target = n.loginPath
	}

	// The login route is itself guarded; treat as unmatched rather than loop.
	step(StateUnmatched)
	return out
}
