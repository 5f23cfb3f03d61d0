package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authdesk/internal/client/client"
	"github.com/dmitrijs2005/authdesk/internal/client/router"
	"github.com/dmitrijs2005/authdesk/internal/client/views"
)

// Open navigates to path and renders the page the guard settles on.
// Opening the login or registration page runs its form.
func (a *App) Open(ctx context.Context, path string) error {
	d, err := a.router.Navigate(path)
	if err != nil {
		views.Message(a.out, views.Error, fmt.Sprintf("no such page: %s", path))
		return err
	}

	if err := a.show(ctx, d); err != nil {
		return err
	}
	if d.Loading {
		return nil
	}

	switch d.Effective {
	case router.Login:
		return a.Login(ctx)
	case router.Register:
		return a.Register(ctx)
	}
	return nil
}

// show renders one gating decision without prompting for input.
func (a *App) show(ctx context.Context, d router.Decision) error {
	if d.Loading {
		views.Loading(a.out)
		return nil
	}
	if d.Redirected {
		views.Redirect(a.out, d.Requested.String(), d.Effective.String())
	}

	st := a.authService.State()
	switch d.Effective {
	case router.Home:
		views.Home(a.out, st.User)
	case router.Login:
		views.LoginForm(a.out)
	case router.Register:
		views.RegisterForm(a.out)
	case router.Dashboard:
		return a.dashboard(ctx)
	}
	return nil
}

// dashboard loads /dashboard and renders it. When the call fails the page
// still renders from the session user, with the error underneath.
func (a *App) dashboard(ctx context.Context) error {
	st := a.authService.State()
	if st.User == nil {
		return nil
	}

	data, err := a.authService.Dashboard(ctx)
	views.Dashboard(a.out, *st.User, data)
	if err != nil {
		a.logger.Warn(ctx, "dashboard data not loaded", "error", err)
		views.Message(a.out, views.Error, userMessage(err, client.MsgDashboardFailed))
		return err
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	st := a.authService.State()
	switch {
	case st.Initializing:
		fmt.Fprintln(a.out, "Checking session...")
	case st.User == nil:
		fmt.Fprintln(a.out, "Not signed in.")
	default:
		fmt.Fprintf(a.out, "Signed in as %s <%s> (id %d)\n", st.User.Username, st.User.Email, st.User.ID)
	}
	return nil
}

// userMessage is the text shown under a form for err. Messages from the
// backend are shown as they are; anything else gets the fallback.
func userMessage(err error, fallback string) string {
	var (
		regErr  *client.RegistrationError
		authErr *client.AuthenticationError
		reqErr  *client.RequestError
	)
	switch {
	case errors.As(err, &regErr):
		return regErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &reqErr):
		return reqErr.Message
	}
	return fallback
}
