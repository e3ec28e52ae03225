package ui

import "strings"

// Route names a top level view.
type Route string

const (
	RouteHome     Route = "home"
	RouteStudents Route = "students"
	RouteSignIn   Route = "signin"
)

// Valid reports whether r is a known route.
func (r Route) Valid() bool {
	switch r {
	case RouteHome, RouteStudents, RouteSignIn:
		return true
	default:
		return false
	}
}

// Title is the heading shown for the route.
func (r Route) Title() string {
	switch r {
	case RouteStudents:
		return "Students"
	case RouteSignIn:
		return "Sign in"
	default:
		return "Home"
	}
}

// routeForPath maps a sidebar link target to a route.
func routeForPath(path string) (Route, bool) {
	switch strings.TrimSuffix(strings.TrimSpace(path), "/") {
	case "":
		return RouteHome, true
	case "/students":
		return RouteStudents, true
	case "/login":
		return RouteSignIn, true
	default:
		return "", false
	}
}

// navItemForRoute is the sidebar entry highlighted for a route.
func navItemForRoute(r Route) string {
	switch r {
	case RouteStudents:
		return "students"
	case RouteSignIn:
		return "signin"
	default:
		return "home"
	}
}
