// Package testbackend is an in-memory authentication backend speaking the
// same HTTP/JSON contract as the real service. Tests of the session client,
// the auth service and the CLI run against it through httptest.
//
// Sessions are gorilla cookie sessions, passwords are bcrypt hashes and
// timestamps are rendered the way the production backend renders them
// ("2006-01-02 15:04:05.000000").
package testbackend

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionName   = "session"
	sessionUserID = "user_id"

	// TimestampLayout is how created_at is rendered.
	TimestampLayout = "2006-01-02 15:04:05.000000"
)

// Backend error messages.
const (
	MsgFieldsRequired   = "all fields are required"
	MsgPasswordMismatch = "passwords do not match"
	MsgUserExists       = "user already exists"
	MsgInvalidLogin     = "invalid credentials"
	MsgAuthRequired     = "authorization required"
)

type account struct {
	id           int64
	username     string
	email        string
	passwordHash []byte
	createdAt    time.Time
}

type userJSON struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (a *account) json() userJSON {
	return userJSON{ID: a.id, Username: a.username, Email: a.email, CreatedAt: a.createdAt.Format(TimestampLayout)}
}

type Server struct {
	mu     sync.Mutex
	users  map[string]*account
	byID   map[int64]*account
	nextID int64
	calls  map[string]int

	store  *sessions.CookieStore
	router *mux.Router

	// Now is the clock used for created_at.
	Now func() time.Time

	// RegisterMessageOnly makes /register answer with a message and no
	// session, the way the original service does.
	RegisterMessageOnly bool
}

// New returns a backend with routes mounted under /api.
func New() *Server {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}

	s := &Server{
		users: make(map[string]*account),
		byID:  make(map[int64]*account),
		calls: make(map[string]int),
		store: sessions.NewCookieStore(key),
		Now:   func() time.Time { return time.Now().UTC() },
	}
	s.store.Options.Path = "/"
	s.store.Options.HttpOnly = true

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.countCalls)
	api.HandleFunc("/check-auth", s.checkAuth).Methods(http.MethodGet)
	api.HandleFunc("/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	api.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)
	s.router = r

	return s
}

// Start serves the backend on a loopback httptest server.
func Start() (*Server, *httptest.Server) {
	s := New()
	return s, httptest.NewServer(s)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Calls reports how many requests reached the given API path, e.g. "/login".
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// AddUser creates an account directly, bypassing /register.
func (s *Server) AddUser(username, email, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.createLocked(username, email, password)
	if err != nil {
		panic(err)
	}
	return a.id
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[strings.TrimPrefix(r.URL.Path, "/api")]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createLocked(username, email, password string) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	s.nextID++
	a := &account{id: s.nextID, username: username, email: email, passwordHash: hash, createdAt: s.Now()}
	s.users[username] = a
	s.byID[a.id] = a
	return a, nil
}

func (s *Server) sessionAccount(r *http.Request) *account {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	id, ok := sess.Values[sessionUserID].(int64)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, a *account) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[sessionUserID] = a.id
	return sess.Save(r, w)
}

func (s *Server) checkAuth(w http.ResponseWriter, r *http.Request) {
	a := s.sessionAccount(r)
	if a == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": a.json()})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgFieldsRequired)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, MsgFieldsRequired)
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, MsgPasswordMismatch)
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Username]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, MsgUserExists)
		return
	}
	a, err := s.createLocked(req.Username, req.Email, req.Password)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.RegisterMessageOnly {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "registration successful"})
		return
	}
	if err := s.startSession(w, r, a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a.json())
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnauthorized, MsgInvalidLogin)
		return
	}

	s.mu.Lock()
	a := s.users[req.Username]
	s.mu.Unlock()

	if a == nil || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, MsgInvalidLogin)
		return
	}
	if err := s.startSession(w, r, a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "login successful", "user": a.json()})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.store.Get(r, sessionName)
	delete(sess.Values, sessionUserID)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	a := s.sessionAccount(r)
	if a == nil {
		writeError(w, http.StatusUnauthorized, MsgAuthRequired)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": a.json()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
