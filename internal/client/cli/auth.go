package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authdesk/internal/client/client"
	"github.com/dmitrijs2005/authdesk/internal/client/router"
	"github.com/dmitrijs2005/authdesk/internal/client/services"
	"github.com/dmitrijs2005/authdesk/internal/client/views"
	"github.com/dmitrijs2005/authdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in.
//
// On success the Dashboard is rendered. On failure the backend message (or
// a generic one) is printed and the user stays on the login page. The
// password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Login(ctx, username, password); err != nil {
		views.Message(a.out, views.Error, userMessage(err, client.MsgLoginFailed))
		return err
	}

	return a.show(ctx, a.router.Go(router.Dashboard))
}

// Register prompts for the account fields and creates the account.
//
// When the backend opens a session right away the Dashboard is rendered.
// When it only confirms the account, the login page is shown with a note.
// Both passwords are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	defer common.WipeAll(password, confirm)
	if err != nil {
		return err
	}

	_, err = a.authService.Register(ctx, username, email, password, confirm)
	switch {
	case errors.Is(err, services.ErrRegisteredNoSession):
		views.Message(a.out, views.Info, "Registration successful. Please log in.")
		return a.show(ctx, a.router.Go(router.Login))
	case err != nil:
		views.Message(a.out, views.Error, userMessage(err, client.MsgRegistrationFailed))
		return err
	}

	return a.show(ctx, a.router.Go(router.Dashboard))
}

// Logout ends the session and returns to Home. The local session is cleared
// even when the backend call fails; the failure is only logged.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		views.Message(a.out, views.Error, "You are not signed in.")
		return nil
	}

	res := a.authService.Logout(ctx)
	if !res.OK() {
		a.logger.Warn(ctx, "logout call failed, session cleared locally", "error", res.Err)
	}

	views.Message(a.out, views.Info, "Signed out.")
	return a.show(ctx, a.router.Go(router.Home))
}
