// Package router decides which view the client shows.
//
// Gating is an explicit step that runs before any view is chosen: given the
// requested route and a session snapshot, Resolve computes the effective
// route deterministically. Views never redirect by themselves.
package router

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRoute = errors.New("unknown route")

// Route is a client-side location.
type Route string

const (
	Home      Route = "/"
	Login     Route = "/login"
	Register  Route = "/register"
	Dashboard Route = "/dashboard"
)

// Routes lists every known route in menu order.
var Routes = []Route{Home, Login, Register, Dashboard}

func (r Route) String() string { return string(r) }

// Name is the human-readable title of the route.
func (r Route) Name() string {
	switch r {
	case Home:
		return "Home"
	case Login:
		return "Login"
	case Register:
		return "Register"
	case Dashboard:
		return "Dashboard"
	default:
		return string(r)
	}
}

// ParseRoute maps a path typed by the user to a Route. Surrounding blanks,
// a trailing slash, letter case and a missing leading slash are tolerated.
func ParseRoute(path string) (Route, error) {
	p := strings.ToLower(strings.TrimSpace(path))
	if p == "" {
		return Home, nil
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}

	for _, r := range Routes {
		if Route(p) == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRoute, path)
}
