package controller

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/submission"
)

type fakeProbe struct {
	Reachable bool
	Err       error
	Calls     int
}

func (f *fakeProbe) Check(ctx context.Context) models.ConnectivityStatus {
	f.Calls++
	return models.ConnectivityStatus{Reachable: f.Reachable, Err: f.Err, CheckedAt: time.Now()}
}

type fakeSessions struct {
	RestoreSession models.Session
	RestoreErr     error
	LoginSession   models.Session
	LoginErr       error

	RestoreCalls int
	LoginCalls   int
	LogoutCalls  int
}

func (f *fakeSessions) Authorize(ctx context.Context) context.Context { return ctx }

func (f *fakeSessions) Restore(ctx context.Context) (models.Session, error) {
	f.RestoreCalls++
	return f.RestoreSession, f.RestoreErr
}

func (f *fakeSessions) Login(ctx context.Context, email, password string) (models.Session, error) {
	f.LoginCalls++
	return f.LoginSession, f.LoginErr
}

func (f *fakeSessions) Logout(ctx context.Context) { f.LogoutCalls++ }

func (f *fakeSessions) Current() (models.Session, bool) { return models.Session{}, false }

// fakeCatalog serves Views in order; the last one repeats.
type fakeCatalog struct {
	mu sync.Mutex

	Views     []models.CollectionView
	ListErr   error
	CreateErr error
	// Block, when set, is received from before List returns.
	Block chan struct{}
	// Gates hold back individual calls: call n waits on Gates[n-1] if non-nil.
	Gates []chan struct{}

	ListCalls   int
	CreateCalls int
	LastPayload submission.Payload
}

func (f *fakeCatalog) List(ctx context.Context) (models.CollectionView, error) {
	f.mu.Lock()
	f.ListCalls++
	n := f.ListCalls
	block := f.Block
	var gate chan struct{}
	if n <= len(f.Gates) {
		gate = f.Gates[n-1]
	}
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if gate != nil {
		<-gate
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if len(f.Views) == 0 {
		return models.CollectionView{}, nil
	}
	if n > len(f.Views) {
		n = len(f.Views)
	}
	return f.Views[n-1], nil
}

func (f *fakeCatalog) Create(ctx context.Context, p submission.Payload) (*models.Variety, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastPayload = p
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return &models.Variety{ID: "new", VarietyFields: p.Fields()}, nil
}

func (f *fakeCatalog) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls
}

var (
	ann = models.Session{User: models.User{ID: "u1", Name: "Ann", Email: "ann@x.com"}}
	bob = models.Session{User: models.User{ID: "u2", Name: "Bob", Email: "bob@x.com"}}
)

func variety(id string, minutes int) models.Variety {
	return models.Variety{
		ID:            models.ID(id),
		VarietyFields: models.VarietyFields{Name: "Variety " + id, Color: models.ColorYellow},
		CreatedAt:     time.Date(2024, 1, 1, 0, minutes, 0, 0, time.UTC),
	}
}

func view(vs ...models.Variety) models.CollectionView { return models.NewCollectionView(vs) }
