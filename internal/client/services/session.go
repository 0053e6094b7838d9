package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/client"
	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Authorizer attaches the current credential to outgoing calls.
type Authorizer interface {
	Authorize(ctx context.Context) context.Context
}

// SessionService owns the authenticated-identity lifecycle.
//
// State machine: NoSession -> Login/Restore -> HasSession -> Logout -> NoSession.
// A failed Login leaves the previous state untouched.
type SessionService interface {
	Authorizer

	// Restore recovers a remembered session without prompting. Any failure
	// is reported as models.ErrNoActiveSession.
	Restore(ctx context.Context) (models.Session, error)
	// Login exchanges credentials for a session. Rejected credentials yield
	// models.ErrAuthentication, other failures models.ErrTransport.
	Login(ctx context.Context, email, password string) (models.Session, error)
	// Logout invalidates the session server-side (best effort) and always
	// clears local identity.
	Logout(ctx context.Context)
	// Current returns the active session, if any.
	Current() (models.Session, bool)
}

type sessionService struct {
	client client.Client
	store  credentials.Repository
	log    logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	token   string
	session *models.Session
}

func NewSessionService(c client.Client, store credentials.Repository, log logging.Logger) SessionService {
	return &sessionService{client: c, store: store, log: log.With("component", "session"), now: time.Now}
}

func (s *sessionService) Restore(ctx context.Context) (models.Session, error) {
	cred, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "credential store unreadable", "error", err)
		return models.Session{}, fmt.Errorf("%w: %w", models.ErrNoActiveSession, err)
	}
	if cred == nil {
		s.log.Info(ctx, "no active session found")
		return models.Session{}, models.ErrNoActiveSession
	}

	if credentialExpired(cred.Token, s.now()) {
		s.log.Info(ctx, "stored credential expired")
		s.forget(ctx)
		return models.Session{}, fmt.Errorf("%w: credential expired", models.ErrNoActiveSession)
	}

	user, err := s.client.Me(client.WithBearer(ctx, cred.Token))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.log.Info(ctx, "stored credential rejected")
			s.forget(ctx)
		} else {
			s.log.Warn(ctx, "session restoration failed", "error", err)
		}
		return models.Session{}, fmt.Errorf("%w: %w", models.ErrNoActiveSession, err)
	}

	session := s.establish(ctx, cred.Token, user)
	s.log.Info(ctx, "session restored", "user", session.Name())
	return session, nil
}

func (s *sessionService) Login(ctx context.Context, email, password string) (models.Session, error) {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, loginError(err)
	}

	user, err := s.client.Me(client.WithBearer(ctx, token))
	if err != nil {
		return models.Session{}, loginError(err)
	}

	session := s.establish(ctx, token, user)
	s.log.Info(ctx, "login successful", "user", session.Name())
	return session, nil
}

func (s *sessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.token = ""
	s.session = nil
	s.mu.Unlock()

	if token != "" {
		if err := s.client.Logout(client.WithBearer(ctx, token)); err != nil {
			s.log.Warn(ctx, "server-side logout failed", "error", err)
		}
	}
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear stored credential", "error", err)
	}
	s.log.Info(ctx, "logged out")
}

func (s *sessionService) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

func (s *sessionService) Authorize(ctx context.Context) context.Context {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return ctx
	}
	return client.WithBearer(ctx, token)
}

// establish installs the session in memory and remembers the credential.
// Persistence failures only cost the next restore, so they are logged.
func (s *sessionService) establish(ctx context.Context, token string, user models.User) models.Session {
	session := models.Session{User: user}

	s.mu.Lock()
	s.token = token
	s.session = &session
	s.mu.Unlock()

	if err := s.store.Save(ctx, credentials.Credential{Token: token, User: user, SavedAt: s.now()}); err != nil {
		s.log.Warn(ctx, "failed to remember credential", "error", err)
	}
	return session
}

func (s *sessionService) forget(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear stored credential", "error", err)
	}
}

func loginError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrValidation) {
		return fmt.Errorf("%w: %w", models.ErrAuthentication, err)
	}
	return fmt.Errorf("%w: %w", models.ErrTransport, err)
}

// credentialExpired reports whether token is a JWT whose exp claim has
// passed. Opaque tokens and tokens without exp are left to the server.
func credentialExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
