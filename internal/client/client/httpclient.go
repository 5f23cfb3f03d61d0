package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/dmitrijs2005/authdesk/internal/client/models"
	"github.com/dmitrijs2005/authdesk/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

const (
	RequestIDHeader = "X-Request-ID"
	UserAgent       = "authdesk-cli/1.0"

	maxBodySize = 1 << 20
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. http://127.0.0.1:5000/api). The underlying http.Client keeps the
// session cookie in its jar for the lifetime of the process.
func NewHTTPClient(baseURL string, logger logging.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		logger:  logger.With("component", "session-client"),
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// CheckSession asks the backend whether the cookie session is alive.
// Any decodable body is a result, whatever the status code.
func (c *HTTPClient) CheckSession(ctx context.Context) (*models.SessionStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/check-auth", nil)
	if err != nil {
		return nil, err
	}

	var st models.SessionStatus
	if err := json.Unmarshal(resp.body, &st); err != nil {
		return nil, fmt.Errorf("%w: check-auth: %v", ErrMalformedResponse, err)
	}
	return &st, nil
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error) {
	req := registerRequest{Username: username, Email: email, Password: password, ConfirmPassword: confirmPassword}

	resp, err := c.do(ctx, http.MethodPost, "/register", req)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &RegistrationError{Status: resp.status, Message: resp.errorMessage(MsgRegistrationFailed)}
	}
	return decodeUser(resp.body)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &AuthenticationError{Status: resp.status, Message: resp.errorMessage(MsgLoginFailed)}
	}
	return decodeUser(resp.body)
}

// Logout ends the server-side session. The response body is not inspected.
func (c *HTTPClient) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return &LogoutError{Status: resp.status}
	}
	return nil
}

func (c *HTTPClient) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	resp, err := c.do(ctx, http.MethodGet, "/dashboard", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &RequestError{Status: resp.status, Message: resp.errorMessage(MsgDashboardFailed)}
	}

	u, err := decodeUser(resp.body)
	if err != nil {
		return nil, err
	}
	return &models.DashboardData{User: *u}, nil
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// errorMessage extracts the "error" field of a failed response, or returns
// fallback when the body is not JSON or the field is empty.
func (r *response) errorMessage(fallback string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &body); err != nil || strings.TrimSpace(body.Error) == "" {
		return fallback
	}
	return body.Error
}

// do sends one request and reads the whole body. Only transport failures and
// context cancellation are returned as errors; status handling is up to the caller.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}

	c.logger.Debug(ctx, "request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	return &response{status: resp.StatusCode, body: data}, nil
}

// decodeUser accepts both shapes a backend uses for a user payload:
// {"user": {...}} and the bare record. A body with neither (for example
// {"message": "ok"}) yields a zero User.
func decodeUser(body []byte) (*models.User, error) {
	var env struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.User != nil {
		return env.User, nil
	}

	var u models.User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &u, nil
}
