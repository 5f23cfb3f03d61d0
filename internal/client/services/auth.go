// Package services contains application services for the authdesk client.
// This file defines the authentication service: it is the only owner of the
// session slot and the only place where the slot changes.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authdesk/internal/client/client"
	"github.com/dmitrijs2005/authdesk/internal/client/models"
	"github.com/dmitrijs2005/authdesk/internal/client/session"
	"github.com/dmitrijs2005/authdesk/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ErrRegisteredNoSession means the account was created but the backend did
// not open a session for it; the user has to log in.
var ErrRegisteredNoSession = errors.New("registered, login required")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Init: the one startup session check. Fails open: any error leaves the
//     session anonymous. Initializing becomes false in every case. A login
//     or registration that completes first is kept; the check's outcome is
//     dropped then.
//   - Login / Register: on success the returned user becomes the session
//     user; on failure the state is left as it was. Only identical
//     overlapping submissions share one backend request.
//   - Logout: calls the backend, then clears the user no matter what.
//   - Dashboard: loads the protected dashboard payload.
//   - State: read-only snapshot of the session slot.
//   - Close: release underlying client resources.
type AuthService interface {
	Init(ctx context.Context)
	Ready() <-chan struct{}
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	Register(ctx context.Context, username, email string, password, confirmPassword []byte) (*models.User, error)
	Logout(ctx context.Context) LogoutResult
	Dashboard(ctx context.Context) (*models.DashboardData, error)
	State() session.State
	Close(ctx context.Context) error
}

// LogoutResult reports how the backend took the logout. The local session is
// cleared regardless; Err is for the caller to log or ignore.
type LogoutResult struct {
	Err error
}

// OK reports whether the backend acknowledged the logout.
func (r LogoutResult) OK() bool {
	return r.Err == nil
}

type authService struct {
	client client.Client
	store  *session.Store
	logger logging.Logger

	initOnce sync.Once
	ready    chan struct{}

	// submissions collapses identical login/register calls that overlap.
	submissions singleflight.Group
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, store *session.Store, logger logging.Logger) AuthService {
	return &authService{
		client: c,
		store:  store,
		logger: logger.With("component", "auth"),
		ready:  make(chan struct{}),
	}
}

// Init runs the startup session check. Only the first call does any work;
// later calls return immediately.
func (a *authService) Init(ctx context.Context) {
	a.initOnce.Do(func() {
		defer close(a.ready)

		next := session.State{}
		st, err := a.client.CheckSession(ctx)
		switch {
		case err != nil:
			a.logger.Warn(ctx, "session check failed, continuing anonymous", "error", err)
		case st == nil:
			a.logger.Warn(ctx, "session check returned nothing, continuing anonymous")
		case st.Authenticated && st.User != nil:
			next.User = st.User
			a.logger.Info(ctx, "session restored", "user", st.User.Username)
		case st.Authenticated:
			a.logger.Warn(ctx, "session reported authenticated without a user, continuing anonymous")
		default:
			a.logger.Debug(ctx, "no active session")
		}

		if !a.store.Settle(next) {
			a.logger.Debug(ctx, "session already set before the startup check finished")
		}
	})
}

// Ready is closed once Init has finished.
func (a *authService) Ready() <-chan struct{} {
	return a.ready
}

func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	key := submissionKey("login", username, password)
	return a.submit(ctx, key, func(ctx context.Context) (*models.User, error) {
		u, err := a.client.Login(ctx, username, string(password))
		if err != nil {
			a.logger.Info(ctx, "login rejected", "user", username, "error", err)
			return nil, err
		}
		if u == nil || u.IsZero() {
			a.logger.Warn(ctx, "login accepted without a user record", "user", username)
			return nil, fmt.Errorf("%w: login response carries no user", client.ErrMalformedResponse)
		}
		a.store.Replace(session.State{User: u})
		a.logger.Info(ctx, "logged in", "user", u.Username)
		return u, nil
	})
}

func (a *authService) Register(ctx context.Context, username, email string, password, confirmPassword []byte) (*models.User, error) {
	key := submissionKey("register", username, []byte(email), password, confirmPassword)
	return a.submit(ctx, key, func(ctx context.Context) (*models.User, error) {
		u, err := a.client.Register(ctx, username, email, string(password), string(confirmPassword))
		if err != nil {
			a.logger.Info(ctx, "registration rejected", "user", username, "error", err)
			return nil, err
		}
		if u == nil || u.IsZero() {
			a.logger.Info(ctx, "registered without session", "user", username)
			return nil, ErrRegisteredNoSession
		}
		a.store.Replace(session.State{User: u})
		a.logger.Info(ctx, "registered", "user", u.Username)
		return u, nil
	})
}

// submit runs fn once per key among overlapping callers. The shared request
// is detached from any single caller's cancellation; a cancelled caller stops
// waiting, but the request still completes and its outcome is applied.
func (a *authService) submit(ctx context.Context, key string, fn func(ctx context.Context) (*models.User, error)) (*models.User, error) {
	shared := context.WithoutCancel(ctx)
	ch := a.submissions.DoChan(key, func() (any, error) {
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u := *res.Val.(*models.User)
		return &u, nil
	}
}

// submissionKey identifies a submission by every field the user typed, so
// only identical submissions share a request. Secrets enter the key only
// as a digest.
func submissionKey(op, username string, fields ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(username))
	for _, f := range fields {
		h.Write([]byte{0})
		h.Write(f)
	}
	return op + ":" + hex.EncodeToString(h.Sum(nil))
}

// Logout ends the session on the backend and then clears local state
// unconditionally.
func (a *authService) Logout(ctx context.Context) LogoutResult {
	err := a.client.Logout(ctx)
	a.store.Replace(session.State{})
	if err != nil {
		return LogoutResult{Err: err}
	}
	a.logger.Info(ctx, "logged out")
	return LogoutResult{}
}

func (a *authService) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	return a.client.Dashboard(ctx)
}

func (a *authService) State() session.State {
	return a.store.Snapshot()
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
