package router

import "github.com/dmitrijs2005/authdesk/internal/client/session"

// Decision is the outcome of gating one navigation.
type Decision struct {
	// Requested is the route that was asked for.
	Requested Route
	// Effective is the route whose view is rendered. Empty while Loading.
	Effective Route
	// Redirected is true when Effective differs from Requested.
	Redirected bool
	// Loading is true while the startup session check is running; no route
	// matching happens then.
	Loading bool
}

// Resolve applies the gating rules:
//   - Home is always reachable;
//   - Login and Register are for anonymous users, others go to Dashboard;
//   - Dashboard needs a user, anonymous users go to Login.
func Resolve(route Route, st session.State) Decision {
	if st.Initializing {
		return Decision{Requested: route, Loading: true}
	}

	effective := route
	switch route {
	case Login, Register:
		if st.Authenticated() {
			effective = Dashboard
		}
	case Dashboard:
		if !st.Authenticated() {
			effective = Login
		}
	}

	return Decision{Requested: route, Effective: effective, Redirected: effective != route}
}
