// Package client is the session client of authdesk: it talks to the
// authentication backend over HTTP/JSON.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     CheckSession, Register, Login, Logout and Dashboard.
//  2. A concrete HTTP implementation (see HTTPClient). It owns a cookie jar,
//     so the session cookie the backend sets on login/register is sent on
//     every later request. No token is stored or attached by hand.
//
// # Error Handling
//
// Transport-level conditions are sentinel errors matched with errors.Is:
// ErrUnavailable, ErrMalformedResponse, ErrUnauthorized. Rejections by the
// backend are typed errors carrying the message to show to the user:
// RegistrationError, AuthenticationError, LogoutError and RequestError.
// Their Error() is the backend's own message, or a generic fallback when the
// body has none.
//
// The client never retries and sets no timeout of its own; callers bound a
// call with the context they pass in.
package client
