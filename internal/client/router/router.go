package router

import (
	"sync"

	"github.com/dmitrijs2005/authdesk/internal/client/session"
)

// StateSource yields the current session snapshot.
type StateSource interface {
	State() session.State
}

// Router remembers where the user is and gates every move through Resolve.
type Router struct {
	source StateSource

	mu      sync.Mutex
	current Route
	history []Route
}

// New returns a router positioned at Home.
func New(source StateSource) *Router {
	return &Router{source: source, current: Home}
}

// Navigate parses path, records it as the requested location and returns
// the gating decision against the latest session state.
func (r *Router) Navigate(path string) (Decision, error) {
	route, err := ParseRoute(path)
	if err != nil {
		return Decision{}, err
	}
	return r.Go(route), nil
}

// Go is Navigate for an already parsed route.
func (r *Router) Go(route Route) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.goLocked(route)
}

func (r *Router) goLocked(route Route) Decision {
	d := Resolve(route, r.source.State())
	if d.Loading {
		r.current = route
		return d
	}

	r.current = d.Effective
	r.history = append(r.history, d.Effective)
	return d
}

// Current re-resolves the stored location against the latest state, e.g.
// after the startup check has finished or the user has logged out.
func (r *Router) Current() Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.goLocked(r.current)
}

// Location is the last stored route.
func (r *Router) Location() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns the effective routes rendered so far, oldest first.
func (r *Router) History() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.history...)
}
