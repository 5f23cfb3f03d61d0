// Package views renders the client's screens as plain text. Renderers take
// read-only copies of session data and never change state or navigate.
package views

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/authdesk/internal/client/models"
)

const (
	AppTitle = "Flask Auth"

	// DateLayout is how registration dates are shown.
	DateLayout = "02.01.2006 15:04:05"
)

// Kind classifies a form message.
type Kind int

const (
	Info Kind = iota
	Error
)

// Loading is shown while the startup session check is running.
func Loading(w io.Writer) {
	fmt.Fprintln(w, "Loading...")
}

// Navbar lists the actions available in the current session.
func Navbar(w io.Writer, user *models.User) {
	items := []string{AppTitle + " [/]"}
	if user != nil {
		items = append(items, "Dashboard [/dashboard]", "Logout [logout]")
	} else {
		items = append(items, "Login [/login]", "Register [/register]")
	}
	fmt.Fprintln(w, strings.Join(items, " | "))
	fmt.Fprintln(w, strings.Repeat("-", 60))
}

// Home is the public landing page.
func Home(w io.Writer, user *models.User) {
	Navbar(w, user)
	fmt.Fprintln(w, "Welcome!")
	fmt.Fprintln(w, "A client for the username/password authentication service.")
	fmt.Fprintln(w)
	if user != nil {
		fmt.Fprintf(w, "Signed in as %s.\n", user.Username)
		fmt.Fprintln(w, "  > go /dashboard   open your dashboard")
		return
	}
	fmt.Fprintln(w, "  > go /login      sign in")
	fmt.Fprintln(w, "  > go /register   create an account")
}

// LoginForm is the header of the login form; fields are prompted by the CLI.
func LoginForm(w io.Writer) {
	Navbar(w, nil)
	fmt.Fprintln(w, "Login")
}

// RegisterForm is the header of the registration form.
func RegisterForm(w io.Writer) {
	Navbar(w, nil)
	fmt.Fprintln(w, "Register")
}

// Dashboard shows the account. data, when present, is the record the
// backend returned for /dashboard and takes precedence over user.
func Dashboard(w io.Writer, user models.User, data *models.DashboardData) {
	if data != nil && !data.User.IsZero() {
		user = data.User
	}

	Navbar(w, &user)
	fmt.Fprintln(w, "WELCOME")
	fmt.Fprintf(w, "  %s\n\n", user.Username)
	fmt.Fprintln(w, "User information")
	fmt.Fprintf(w, "  ID:         %s\n", strconv.FormatInt(user.ID, 10))
	fmt.Fprintf(w, "  Email:      %s\n", user.Email)
	fmt.Fprintf(w, "  Registered: %s\n", FormatDate(user))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "You are signed in. This page is only available to authenticated users.")
	fmt.Fprintln(w, "  > go /   back to home")
}

// FormatDate renders the registration date in local time, or "-" when the
// backend sent none.
func FormatDate(u models.User) string {
	if u.CreatedAt.IsZero() {
		return "-"
	}
	return u.CreatedAt.Local().Format(DateLayout)
}

// Message prints a line under a form.
func Message(w io.Writer, kind Kind, text string) {
	switch kind {
	case Error:
		fmt.Fprintf(w, "! %s\n", text)
	default:
		fmt.Fprintf(w, "* %s\n", text)
	}
}

// Redirect notes that the requested page was replaced by another.
func Redirect(w io.Writer, from, to string) {
	fmt.Fprintf(w, "(%s -> %s)\n", from, to)
}
