package models

import "github.com/dmitrijs2005/authdesk/internal/timex"

// User is the account record as returned by the authentication backend.
// The client never changes it; views receive copies.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	CreatedAt timex.Timestamp `json:"created_at"`
}

// IsZero reports whether the record carries no identity at all, which is
// what a message-only backend response decodes to.
func (u User) IsZero() bool {
	return u.ID == 0 && u.Username == ""
}

// SessionStatus is the answer of the check-auth endpoint.
type SessionStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// DashboardData is the payload of the protected dashboard endpoint.
type DashboardData struct {
	User User `json:"user"`
}
