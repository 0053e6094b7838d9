// Package fakebackend is an in-process stand-in for the catalog backend used
// by tests. It serves the same REST surface as the real service (health,
// auth, paged collection listing with relations and sorting, multipart
// creation), issues HS256 JWT credentials and counts calls per route.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// Route names used by Calls and FailNext.
const (
	RouteHealth = "health"
	RouteLogin  = "login"
	RouteMe     = "me"
	RouteLogout = "logout"
	RouteList   = "list"
	RouteCreate = "create"
)

const defaultPerPage = 20

type account struct {
	password string
	user     models.User
}

// Server is a running fake backend. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]account
	sessions  map[string]models.User
	varieties []models.Variety
	uploads   map[models.ID][]byte
	calls     map[string]int
	failures  map[string]int
	headers   map[string]http.Header
	down      bool
	nextID    int
	clock     time.Time

	secret   []byte
	TokenTTL time.Duration
}

// New starts a fake backend. Callers must Close it.
func New() *Server {
	s := &Server{
		accounts: make(map[string]account),
		sessions: make(map[string]models.User),
		uploads:  make(map[models.ID][]byte),
		calls:    make(map[string]int),
		failures: make(map[string]int),
		headers:  make(map[string]http.Header),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		secret:   []byte("fakebackend-secret"),
		TokenTTL: time.Hour,
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.track(RouteHealth, s.health)).Methods(http.MethodGet)
	api.HandleFunc("/auth/users/login", s.track(RouteLogin, s.login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/users/me", s.track(RouteMe, s.me)).Methods(http.MethodGet)
	api.HandleFunc("/auth/users/logout", s.track(RouteLogout, s.logout)).Methods(http.MethodPost)
	api.HandleFunc("/collections/potato-varieties", s.track(RouteList, s.list)).Methods(http.MethodGet)
	api.HandleFunc("/collections/potato-varieties", s.track(RouteCreate, s.create)).Methods(http.MethodPost)

	return r
}

// track counts the call, records headers and applies injected failures.
func (s *Server) track(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		s.headers[route] = r.Header.Clone()
		down := s.down
		status, fail := s.failures[route]
		if fail {
			delete(s.failures, route)
		}
		s.mu.Unlock()

		if down {
			writeError(w, http.StatusServiceUnavailable, "maintenance")
			return
		}
		if fail {
			writeError(w, status, "injected failure")
			return
		}
		next(w, r)
	}
}

// AddUser registers an account and returns its user record.
func (s *Server) AddUser(email, password, name string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u := models.User{ID: models.ID(fmt.Sprintf("u%d", s.nextID)), Name: name, Email: email}
	s.accounts[email] = account{password: password, user: u}
	return u
}

// Seed stores a variety as if it had been created earlier. A missing id or
// creation time is filled in.
func (s *Server) Seed(v models.Variety) models.Variety {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		s.nextID++
		v.ID = models.ID(fmt.Sprintf("v%d", s.nextID))
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.tick()
	}
	s.varieties = append(s.varieties, v)
	return v
}

// IssueToken signs a credential for user that expires after ttl and
// registers it as an active session.
func (s *Server) IssueToken(user models.User, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(user, ttl)
}

func (s *Server) issue(user models.User, ttl time.Duration) string {
	now := time.Now()
	s.nextID++
	claims := jwt.RegisteredClaims{
		Subject:   string(user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        fmt.Sprintf("t%d", s.nextID),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	s.sessions[signed] = user
	return signed
}

// SetDown makes every route answer 503.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

// FailNext makes the next call to route answer with status.
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	s.failures[route] = status
	s.mu.Unlock()
}

// Calls returns how many requests route has received.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastHeaders returns the headers of the latest request to route.
func (s *Server) LastHeaders(route string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[route]
}

// Upload returns the attachment bytes stored for a variety.
func (s *Server) Upload(id models.ID) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploads[id]
	return b, ok
}

// Varieties returns a copy of the stored collection in insertion order.
func (s *Server) Varieties() []models.Variety {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Variety(nil), s.varieties...)
}

// tick advances the fake clock so creation times are strictly increasing.
func (s *Server) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg any) {
	writeJSON(w, status, map[string]any{"message": msg, "statusCode": status})
}
