package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
)

// Fallback messages used when a failed response carries no "error" field.
const (
	MsgRegistrationFailed = "registration failed"
	MsgLoginFailed        = "login failed"
	MsgDashboardFailed    = "failed to load dashboard data"
)

// RegistrationError is returned by Register for any non-2xx response.
type RegistrationError struct {
	Status  int
	Message string
}

func (e *RegistrationError) Error() string { return e.Message }

// AuthenticationError is returned by Login for any non-2xx response.
type AuthenticationError struct {
	Status  int
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// Is makes a 401 match ErrUnauthorized.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// LogoutError reports that the backend answered logout with a non-2xx status.
// It is a soft failure: the local session is cleared anyway.
type LogoutError struct {
	Status int
}

func (e *LogoutError) Error() string {
	return fmt.Sprintf("logout rejected: status %d", e.Status)
}

// RequestError is returned by data calls such as Dashboard for non-2xx responses.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Is makes a 401 match ErrUnauthorized.
func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
