// Package viewrouter maps client paths to screens and resolves each
// navigation against the session's route checks.
package viewrouter

import (
	"fmt"
	"strings"

	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/users"
)

// maxHops bounds redirect chains; the table never needs more than two.
const maxHops = 4

// AccessChecker is the read-only view of the session the router needs.
type AccessChecker interface {
	CheckRouteAccess(required session.Requirement) session.Decision
	CurrentPrincipal() (*users.User, bool)
	State() session.State
}

var _ AccessChecker = (*session.Manager)(nil)

type Router struct {
	checker AccessChecker
	routes  map[string]Route
}

func New(checker AccessChecker) *Router {
	r := &Router{checker: checker, routes: make(map[string]Route, len(Routes))}
	for _, route := range Routes {
		r.routes[route.Path] = route
	}
	return r
}

// Resolution is where a navigation ends up.
type Resolution struct {
	Requested string
	Path      string
	Screen    Screen
	Title     string
	Redirects []string // intermediate targets, in order
}

func (res Resolution) Redirected() bool {
	return len(res.Redirects) > 0
}

// Lookup returns the route registered for path.
func (r *Router) Lookup(path string) (Route, bool) {
	route, ok := r.routes[Normalize(path)]
	return route, ok
}

// Navigate resolves path, following redirects until a screen is permitted.
func (r *Router) Navigate(path string) (Resolution, error) {
	res := Resolution{Requested: path}
	current := Normalize(path)

	for hop := 0; hop <= maxHops; hop++ {
		target, screen, title, done := r.step(current)
		if done {
			res.Path, res.Screen, res.Title = current, screen, title
			return res, nil
		}
		res.Redirects = append(res.Redirects, target)
		current = target
	}
	return res, fmt.Errorf("[Router.Navigate] redirect loop from %s via %v", path, res.Redirects)
}

// step returns either a final screen or the next path to try.
func (r *Router) step(path string) (next string, screen Screen, title string, done bool) {
	if path == session.PathRoot {
		return r.rootTarget()
	}

	route, ok := r.routes[path]
	if !ok {
		return "", ScreenNotFound, "Không tìm thấy trang", true
	}

	d := r.checker.CheckRouteAccess(route.Requires)
	switch d.Kind {
	case session.Permit:
		return "", route.Screen, route.Title, true
	case session.Pending:
		return "", ScreenLoading, "", true
	case session.RedirectLogin, session.RedirectHome, session.Forbidden:
		return d.Target, "", "", false
	default:
		return "", ScreenNotFound, "", true
	}
}

func (r *Router) rootTarget() (string, Screen, string, bool) {
	switch r.checker.State() {
	case session.StateInitializing:
		return "", ScreenLoading, "", true
	case session.StateAuthenticated:
		if u, ok := r.checker.CurrentPrincipal(); ok {
			return session.HomeFor(u.Role), "", "", false
		}
	}
	return session.PathDemo, "", "", false
}

// Normalize drops the query, fragment and trailing slash.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return session.PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = session.PathRoot
		}
	}
	return path
}
