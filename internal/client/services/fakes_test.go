package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/client"
	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client and records calls.
type fakeClient struct {
	HealthErr error

	LoginToken string
	LoginErr   error

	MeUser models.User
	MeErr  error

	LogoutErr error

	Pages   []*client.VarietyPage
	ListErr error
	// Endless makes every unscripted page report one more after it.
	Endless bool

	Created   *models.Variety
	CreateErr error

	HealthCalls int
	LoginCalls  int
	MeCalls     int
	LogoutCalls int
	ListCalls   int
	CreateCalls int

	LastMeBearer     string
	LastLogoutBearer string
	LastListBearer   string
	LastCreateBearer string
	LastQueries      []client.ListQuery
	LastContentType  string
	LastBody         []byte
}

func (f *fakeClient) Health(ctx context.Context) error {
	f.HealthCalls++
	return f.HealthErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.LoginCalls++
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) Me(ctx context.Context) (models.User, error) {
	f.MeCalls++
	f.LastMeBearer = bearer(ctx)
	return f.MeUser, f.MeErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	f.LastLogoutBearer = bearer(ctx)
	return f.LogoutErr
}

func (f *fakeClient) ListVarieties(ctx context.Context, q client.ListQuery) (*client.VarietyPage, error) {
	f.ListCalls++
	f.LastListBearer = bearer(ctx)
	f.LastQueries = append(f.LastQueries, q)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if q.Page-1 < len(f.Pages) {
		return f.Pages[q.Page-1], nil
	}
	last := q.Page
	if f.Endless {
		last++
	}
	return &client.VarietyPage{CurrentPage: q.Page, LastPage: last}, nil
}

func (f *fakeClient) CreateVariety(ctx context.Context, contentType string, body []byte) (*models.Variety, error) {
	f.CreateCalls++
	f.LastCreateBearer = bearer(ctx)
	f.LastContentType = contentType
	f.LastBody = body
	return f.Created, f.CreateErr
}

func bearer(ctx context.Context) string { return client.BearerFrom(ctx) }

var _ client.Client = (*fakeClient)(nil)

func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(exp)}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}
