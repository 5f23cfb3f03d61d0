package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/authdesk/internal/client/client"
	"github.com/dmitrijs2005/authdesk/internal/client/models"
	"github.com/dmitrijs2005/authdesk/internal/client/session"
	"github.com/dmitrijs2005/authdesk/internal/logging"
	"github.com/dmitrijs2005/authdesk/internal/testbackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements client.Client for unit tests of AuthService.
type fakeClient struct {
	mu sync.Mutex

	CheckRet  *models.SessionStatus
	CheckErr  error
	CheckGate chan struct{} // when set, CheckSession blocks until it is closed

	LoginRet   *models.User
	LoginErr   error
	LoginGate  chan struct{} // when set, Login blocks until it is closed
	LoginFn    func(username, password string) (*models.User, error)
	LoginCalls int
	Passwords  []string

	RegisterRet   *models.User
	RegisterErr   error
	RegisterCalls int

	LogoutErr   error
	LogoutCalls int

	DashboardRet *models.DashboardData
	DashboardErr error

	CheckCalls int
	Closed     bool

	// for argument checks
	LastUser     string
	LastPassword string
	LastEmail    string
	LastConfirm  string
}

func (f *fakeClient) Close() error { f.Closed = true; return nil }

func (f *fakeClient) CheckSession(ctx context.Context) (*models.SessionStatus, error) {
	f.mu.Lock()
	f.CheckCalls++
	gate := f.CheckGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.CheckRet, f.CheckErr
}

func (f *fakeClient) Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error) {
	f.mu.Lock()
	f.RegisterCalls++
	f.LastUser, f.LastEmail, f.LastPassword, f.LastConfirm = username, email, password, confirmPassword
	f.mu.Unlock()
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastUser, f.LastPassword = username, password
	f.Passwords = append(f.Passwords, password)
	gate, fn := f.LoginGate, f.LoginFn
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if fn != nil {
		return fn(username, password)
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	return f.DashboardRet, f.DashboardErr
}

func newService(fc client.Client) (AuthService, *session.Store) {
	store := session.NewStore()
	return NewAuthService(fc, store, logging.Nop()), store
}

var alice = &models.User{ID: 1, Username: "alice", Email: "alice@example.org"}

// ---- Init ----

func TestInit_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		fc       *fakeClient
		wantUser *models.User
	}{
		{name: "authenticated", fc: &fakeClient{CheckRet: &models.SessionStatus{Authenticated: true, User: alice}}, wantUser: alice},
		{name: "not authenticated", fc: &fakeClient{CheckRet: &models.SessionStatus{Authenticated: false}}},
		{name: "authenticated without user payload", fc: &fakeClient{CheckRet: &models.SessionStatus{Authenticated: true}}},
		{name: "network failure fails open", fc: &fakeClient{CheckErr: fmt.Errorf("%w: dial tcp", client.ErrUnavailable)}},
		{name: "malformed body fails open", fc: &fakeClient{CheckErr: client.ErrMalformedResponse}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.fc)
			require.True(t, svc.State().Initializing)

			svc.Init(context.Background())

			st := svc.State()
			assert.False(t, st.Initializing)
			if tt.wantUser == nil {
				assert.Nil(t, st.User)
				return
			}
			require.NotNil(t, st.User)
			assert.Equal(t, *tt.wantUser, *st.User)
		})
	}
}

func TestInit_RunsOnce(t *testing.T) {
	fc := &fakeClient{CheckRet: &models.SessionStatus{}}
	svc, _ := newService(fc)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Init(context.Background())
		}()
	}
	wg.Wait()
	svc.Init(context.Background())

	assert.Equal(t, 1, fc.CheckCalls)
	select {
	case <-svc.Ready():
	default:
		t.Fatal("Ready not closed after Init")
	}
}

// ---- Login ----

func TestLogin_Success_SetsUser(t *testing.T) {
	fc := &fakeClient{CheckRet: &models.SessionStatus{}, LoginRet: alice}
	svc, _ := newService(fc)
	svc.Init(context.Background())

	u, err := svc.Login(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, *alice, *u)

	assert.Equal(t, "alice", fc.LastUser)
	assert.Equal(t, "pw", fc.LastPassword)

	st := svc.State()
	require.True(t, st.Authenticated())
	assert.Equal(t, *alice, *st.User)
}

func TestLogin_Rejected_LeavesStateAndSurfacesMessage(t *testing.T) {
	fc := &fakeClient{
		CheckRet: &models.SessionStatus{},
		LoginErr: &client.AuthenticationError{Status: 401, Message: "invalid credentials"},
	}
	svc, _ := newService(fc)
	svc.Init(context.Background())
	before := svc.State()

	u, err := svc.Login(context.Background(), "alice", []byte("bad"))
	require.Nil(t, u)
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, before, svc.State())
}

func TestLogin_ConcurrentDuplicatesShareOneRequest(t *testing.T) {
	gate := make(chan struct{})
	fc := &fakeClient{CheckRet: &models.SessionStatus{}, LoginRet: alice, LoginGate: gate}
	svc, _ := newService(fc)
	svc.Init(context.Background())

	const n = 4
	var wg sync.WaitGroup
	results := make([]*models.User, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.Login(context.Background(), "alice", []byte("pw"))
			assert.NoError(t, err)
			results[i] = u
		}(i)
	}

	// let every goroutine join the in-flight call before releasing it
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.LoginCalls == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, fc.LoginCalls)
	for _, u := range results {
		require.NotNil(t, u)
		assert.Equal(t, "alice", u.Username)
	}
}

func TestLogin_OverlappingDifferentPasswordsAreSentSeparately(t *testing.T) {
	gate := make(chan struct{})
	fc := &fakeClient{
		CheckRet:  &models.SessionStatus{},
		LoginGate: gate,
		LoginFn: func(username, password string) (*models.User, error) {
			if password != "right" {
				return nil, &client.AuthenticationError{Status: 401, Message: "invalid credentials"}
			}
			return alice, nil
		},
	}
	svc, _ := newService(fc)
	svc.Init(context.Background())

	var wg sync.WaitGroup
	var wrongErr, okErr error
	var okUser *models.User
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, wrongErr = svc.Login(context.Background(), "alice", []byte("wrong"))
	}()
	go func() {
		defer wg.Done()
		okUser, okErr = svc.Login(context.Background(), "alice", []byte("right"))
	}()

	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.LoginCalls == 2
	}, time.Second, 5*time.Millisecond)
	close(gate)
	wg.Wait()

	assert.ElementsMatch(t, []string{"wrong", "right"}, fc.Passwords)
	assert.EqualError(t, wrongErr, "invalid credentials")
	require.NoError(t, okErr)
	assert.Equal(t, "alice", okUser.Username)
	assert.True(t, svc.State().Authenticated())
}

func TestLogin_CancelledCallerDoesNotFailOthers(t *testing.T) {
	gate := make(chan struct{})
	fc := &fakeClient{CheckRet: &models.SessionStatus{}, LoginRet: alice, LoginGate: gate}
	svc, _ := newService(fc)
	svc.Init(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Login(ctx, "alice", []byte("pw"))
		firstErr <- err
	}()
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.LoginCalls == 1
	}, time.Second, 5*time.Millisecond)

	second := make(chan *models.User, 1)
	go func() {
		u, err := svc.Login(context.Background(), "alice", []byte("pw"))
		assert.NoError(t, err)
		second <- u
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(gate)
	u := <-second
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 1, fc.LoginCalls)
	assert.True(t, svc.State().Authenticated())
}

func TestLogin_EmptyUserRecordIsMalformed(t *testing.T) {
	fc := &fakeClient{CheckRet: &models.SessionStatus{}, LoginRet: &models.User{}}
	svc, _ := newService(fc)
	svc.Init(context.Background())

	u, err := svc.Login(context.Background(), "alice", []byte("pw"))
	require.Nil(t, u)
	require.ErrorIs(t, err, client.ErrMalformedResponse)
	assert.False(t, svc.State().Authenticated())
}

func TestInit_LateNegativeCheckKeepsEarlierLogin(t *testing.T) {
	gate := make(chan struct{})
	fc := &fakeClient{CheckRet: &models.SessionStatus{Authenticated: false}, CheckGate: gate, LoginRet: alice}
	svc, _ := newService(fc)

	initDone := make(chan struct{})
	go func() {
		defer close(initDone)
		svc.Init(context.Background())
	}()
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.CheckCalls == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Login(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)

	close(gate)
	<-initDone

	st := svc.State()
	assert.False(t, st.Initializing)
	require.True(t, st.Authenticated())
	assert.Equal(t, "alice", st.User.Username)
}

// ---- Register ----

func TestRegister(t *testing.T) {
	t.Run("user returned → authenticated", func(t *testing.T) {
		fc := &fakeClient{CheckRet: &models.SessionStatus{}, RegisterRet: alice}
		svc, _ := newService(fc)
		svc.Init(context.Background())

		u, err := svc.Register(context.Background(), "alice", "alice@example.org", []byte("pw"), []byte("pw"))
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "alice@example.org", fc.LastEmail)
		assert.Equal(t, "pw", fc.LastConfirm)
		assert.True(t, svc.State().Authenticated())
	})

	t.Run("message only → login required", func(t *testing.T) {
		fc := &fakeClient{CheckRet: &models.SessionStatus{}, RegisterRet: &models.User{}}
		svc, _ := newService(fc)
		svc.Init(context.Background())

		_, err := svc.Register(context.Background(), "alice", "a@x", []byte("pw"), []byte("pw"))
		require.ErrorIs(t, err, ErrRegisteredNoSession)
		assert.False(t, svc.State().Authenticated())
	})

	t.Run("different email is a separate submission", func(t *testing.T) {
		fc := &fakeClient{CheckRet: &models.SessionStatus{}, RegisterRet: alice}
		svc, _ := newService(fc)
		svc.Init(context.Background())

		_, err := svc.Register(context.Background(), "alice", "a@x", []byte("pw"), []byte("pw"))
		require.NoError(t, err)
		_, err = svc.Register(context.Background(), "alice", "b@x", []byte("pw"), []byte("pw"))
		require.NoError(t, err)

		assert.Equal(t, 2, fc.RegisterCalls)
		assert.Equal(t, "b@x", fc.LastEmail)
	})

	t.Run("rejected", func(t *testing.T) {
		fc := &fakeClient{
			CheckRet:    &models.SessionStatus{},
			RegisterErr: &client.RegistrationError{Status: 400, Message: "passwords do not match"},
		}
		svc, _ := newService(fc)
		svc.Init(context.Background())

		_, err := svc.Register(context.Background(), "alice", "a@x", []byte("pw"), []byte("other"))
		var regErr *client.RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, "passwords do not match", err.Error())
		assert.False(t, svc.State().Authenticated())
	})
}

// ---- Logout ----

func TestLogout_AlwaysClears(t *testing.T) {
	for _, logoutErr := range []error{
		nil,
		&client.LogoutError{Status: 500},
		fmt.Errorf("%w: connection refused", client.ErrUnavailable),
	} {
		name := "ok"
		if logoutErr != nil {
			name = logoutErr.Error()
		}
		t.Run(name, func(t *testing.T) {
			fc := &fakeClient{CheckRet: &models.SessionStatus{Authenticated: true, User: alice}, LogoutErr: logoutErr}
			svc, _ := newService(fc)
			svc.Init(context.Background())
			require.True(t, svc.State().Authenticated())

			res := svc.Logout(context.Background())

			assert.Equal(t, 1, fc.LogoutCalls)
			assert.False(t, svc.State().Authenticated())
			assert.False(t, svc.State().Initializing)
			assert.Equal(t, logoutErr == nil, res.OK())
			assert.True(t, errors.Is(res.Err, logoutErr))
		})
	}
}

// ---- passthroughs ----

func TestDashboardAndClose(t *testing.T) {
	fc := &fakeClient{DashboardRet: &models.DashboardData{User: *alice}}
	svc, _ := newService(fc)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", d.User.Username)

	require.NoError(t, svc.Close(context.Background()))
	assert.True(t, fc.Closed)
}

// ---- against a conformant backend ----

func TestRegisterThenCheckSession_RoundTrip(t *testing.T) {
	_, srv := testbackend.Start()
	defer srv.Close()

	c, err := client.NewHTTPClient(srv.URL+"/api", logging.Nop())
	require.NoError(t, err)

	svc, _ := newService(c)
	ctx := context.Background()
	svc.Init(ctx)
	require.False(t, svc.State().Authenticated())

	_, err = svc.Register(ctx, "frank", "frank@example.org", []byte("s3cret"), []byte("s3cret"))
	require.NoError(t, err)

	st, err := c.CheckSession(ctx)
	require.NoError(t, err)
	require.True(t, st.Authenticated)
	assert.Equal(t, "frank", st.User.Username)
	assert.Equal(t, "frank@example.org", st.User.Email)
	assert.Equal(t, *st.User, *svc.State().User)
}

func TestRegisterWithoutSession_ThenLogin(t *testing.T) {
	backend, srv := testbackend.Start()
	defer srv.Close()
	backend.RegisterMessageOnly = true

	c, err := client.NewHTTPClient(srv.URL+"/api", logging.Nop())
	require.NoError(t, err)

	svc, _ := newService(c)
	ctx := context.Background()
	svc.Init(ctx)

	_, err = svc.Register(ctx, "gina", "gina@example.org", []byte("pw"), []byte("pw"))
	require.ErrorIs(t, err, ErrRegisteredNoSession)
	assert.False(t, svc.State().Authenticated())

	u, err := svc.Login(ctx, "gina", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "gina@example.org", u.Email)
	assert.True(t, svc.State().Authenticated())
}
