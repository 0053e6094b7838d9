// Package controller composes the connectivity probe, session and catalog
// services into the client's startup sequence and user interactions, and
// exposes the resulting ViewState to the presentation layer.
package controller

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/services"
	"github.com/dmitrijs2005/spudcatalog/internal/client/submission"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
)

// Controller is the application state machine. Operations are expected to
// be issued one at a time by the presentation layer; state reads are safe
// from any goroutine.
type Controller struct {
	probe    services.ConnectivityProbe
	sessions services.SessionService
	catalog  services.CatalogService
	log      logging.Logger

	mu           sync.RWMutex
	state        models.ViewState
	connectivity models.ConnectivityStatus
	// epoch changes on every login/logout so a fetch started under a
	// previous identity is discarded.
	epoch uint64
	// loadSeq numbers fetches; appliedSeq is the newest one applied.
	loadSeq    uint64
	appliedSeq uint64
}

func New(probe services.ConnectivityProbe, sessions services.SessionService, catalog services.CatalogService, log logging.Logger) *Controller {
	return &Controller{
		probe:    probe,
		sessions: sessions,
		catalog:  catalog,
		log:      log.With("component", "controller"),
		state:    models.Initializing(),
	}
}

// State returns a snapshot of the current view state.
func (c *Controller) State() models.ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Collection = slices.Clone(s.Collection)
	if s.Session != nil {
		session := *s.Session
		s.Session = &session
	}
	return s
}

// Connectivity returns the result of the startup probe.
func (c *Controller) Connectivity() models.ConnectivityStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connectivity
}

// Start runs the startup sequence: probe, then (only if reachable) session
// restoration, then the first fetch. Nothing here is fatal.
func (c *Controller) Start(ctx context.Context) {
	c.setState(models.Initializing())

	c.log.Info(ctx, "starting backend connection test")
	status := c.probe.Check(ctx)

	c.mu.Lock()
	c.connectivity = status
	c.mu.Unlock()

	if !status.Reachable {
		c.log.Error(ctx, "backend connection failed, the app may not function correctly", "error", status.Err)
		c.setState(models.Unauthenticated())
		return
	}

	session, err := c.sessions.Restore(ctx)
	if err != nil {
		c.log.Info(ctx, "no active session found", "reason", err)
		c.setState(models.Unauthenticated())
		return
	}

	c.enter(session)
	if err := c.OnLoadEntries(ctx); err != nil {
		c.log.Warn(ctx, "initial load failed", "error", err)
	}
}

// OnLogin authenticates and, on success, enters the authenticated state and
// fetches the collection. On failure the state is left as it was.
func (c *Controller) OnLogin(ctx context.Context, email, password string) error {
	session, err := c.sessions.Login(ctx, email, password)
	if err != nil {
		c.log.Warn(ctx, "login failed", "error", err)
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	c.enter(session)
	return c.OnLoadEntries(ctx)
}

// OnLogout drops the session and the cached collection. It cannot fail.
func (c *Controller) OnLogout(ctx context.Context) {
	c.sessions.Logout(ctx)

	c.mu.Lock()
	c.epoch++
	c.state = models.Unauthenticated()
	c.mu.Unlock()
}

// OnLoadEntries replaces the collection with a fresh fetch. A failed fetch
// keeps the previous collection.
func (c *Controller) OnLoadEntries(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.IsAuthenticated() {
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrLoadFailed, models.ErrNoActiveSession)
	}
	c.loadSeq++
	seq, epoch := c.loadSeq, c.epoch
	c.mu.Unlock()

	view, err := c.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || seq < c.appliedSeq || !c.state.IsAuthenticated() {
		c.log.Debug(ctx, "discarding superseded fetch", "seq", seq)
		return nil
	}
	c.appliedSeq = seq
	c.state.Collection = view
	return nil
}

// OnCreateEntry packages and submits a new entry, then re-fetches the
// collection so the view reflects the server. The collection is untouched
// when packaging or submission fails.
func (c *Controller) OnCreateEntry(ctx context.Context, fields models.VarietyFields, attachment *submission.Attachment) error {
	if !c.State().IsAuthenticated() {
		return fmt.Errorf("%w: %w", ErrCreateFailed, models.ErrNoActiveSession)
	}

	payload, err := submission.Package(fields, attachment)
	if err != nil {
		c.log.Warn(ctx, "submission rejected", "error", err)
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	if _, err := c.catalog.Create(ctx, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	return c.OnLoadEntries(ctx)
}

// enter switches to Authenticated with an empty collection.
func (c *Controller) enter(s models.Session) {
	c.mu.Lock()
	c.epoch++
	c.state = models.Authenticated(s, models.CollectionView{})
	c.mu.Unlock()
}

func (c *Controller) setState(s models.ViewState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
