package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/client"
	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ann = models.User{ID: "1", Name: "Ann", Email: "a@x.com"}

func storedToken(t *testing.T, store credentials.Repository) string {
	t.Helper()
	c, err := store.Load(context.Background())
	require.NoError(t, err)
	if c == nil {
		return ""
	}
	return c.Token
}

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Load(ctx context.Context) (*credentials.Credential, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Save(ctx context.Context, c credentials.Credential) error {
	return errors.New("disk on fire")
}
func (failingStore) Clear(ctx context.Context) error { return errors.New("disk on fire") }

func TestRestore_NoStoredCredential(t *testing.T) {
	fc := &fakeClient{}
	svc := NewSessionService(fc, credentials.NewMemoryRepository(), logging.Discard())

	_, err := svc.Restore(context.Background())

	require.ErrorIs(t, err, models.ErrNoActiveSession)
	assert.Equal(t, 0, fc.MeCalls, "nothing to verify, no network call")
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestRestore_ValidCredential(t *testing.T) {
	store := credentials.NewMemoryRepository()
	token := makeJWT(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(context.Background(), credentials.Credential{Token: token}))

	fc := &fakeClient{MeUser: ann}
	svc := NewSessionService(fc, store, logging.Discard())

	s, err := svc.Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ann, s.User)
	assert.Equal(t, token, fc.LastMeBearer)
	cur, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "Ann", cur.Name())
	assert.Equal(t, token, client.BearerFrom(svc.Authorize(context.Background())))
}

func TestRestore_OpaqueCredentialIsVerifiedByServer(t *testing.T) {
	store := credentials.NewMemoryRepository()
	require.NoError(t, store.Save(context.Background(), credentials.Credential{Token: "opaque"}))

	fc := &fakeClient{MeUser: ann}
	svc := NewSessionService(fc, store, logging.Discard())

	_, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fc.MeCalls)
}

func TestRestore_ExpiredCredentialSkipsNetworkAndIsForgotten(t *testing.T) {
	store := credentials.NewMemoryRepository()
	require.NoError(t, store.Save(context.Background(), credentials.Credential{Token: makeJWT(t, time.Now().Add(-time.Minute))}))

	fc := &fakeClient{MeUser: ann}
	svc := NewSessionService(fc, store, logging.Discard())

	_, err := svc.Restore(context.Background())

	require.ErrorIs(t, err, models.ErrNoActiveSession)
	assert.Equal(t, 0, fc.MeCalls)
	assert.Empty(t, storedToken(t, store))
}

func TestRestore_RejectedCredentialIsForgotten(t *testing.T) {
	store := credentials.NewMemoryRepository()
	require.NoError(t, store.Save(context.Background(), credentials.Credential{Token: "stale"}))

	fc := &fakeClient{MeErr: client.ErrUnauthorized}
	svc := NewSessionService(fc, store, logging.Discard())

	_, err := svc.Restore(context.Background())

	require.ErrorIs(t, err, models.ErrNoActiveSession)
	assert.Empty(t, storedToken(t, store))
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestRestore_TransportFailureKeepsCredential(t *testing.T) {
	store := credentials.NewMemoryRepository()
	require.NoError(t, store.Save(context.Background(), credentials.Credential{Token: "tok"}))

	fc := &fakeClient{MeErr: client.ErrUnavailable}
	svc := NewSessionService(fc, store, logging.Discard())

	_, err := svc.Restore(context.Background())

	require.ErrorIs(t, err, models.ErrNoActiveSession)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, "tok", storedToken(t, store))
}

func TestRestore_StoreFailure(t *testing.T) {
	fc := &fakeClient{}
	svc := NewSessionService(fc, failingStore{}, logging.Discard())

	_, err := svc.Restore(context.Background())
	require.ErrorIs(t, err, models.ErrNoActiveSession)
	assert.Equal(t, 0, fc.MeCalls)
}

func TestLogin_Success(t *testing.T) {
	store := credentials.NewMemoryRepository()
	fc := &fakeClient{LoginToken: "tok", MeUser: ann}
	svc := NewSessionService(fc, store, logging.Discard())

	s, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, ann, s.User)
	assert.Equal(t, "tok", fc.LastMeBearer)
	assert.Equal(t, "tok", storedToken(t, store), "credential remembered for next start")
	assert.Equal(t, "tok", client.BearerFrom(svc.Authorize(context.Background())))
}

func TestLogin_StoreFailureIsNotFatal(t *testing.T) {
	fc := &fakeClient{LoginToken: "tok", MeUser: ann}
	svc := NewSessionService(fc, failingStore{}, logging.Discard())

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	_, ok := svc.Current()
	assert.True(t, ok)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		loginErr error
		meErr    error
		want     error
	}{
		{"bad credentials", client.ErrUnauthorized, nil, models.ErrAuthentication},
		{"malformed credentials", client.ErrValidation, nil, models.ErrAuthentication},
		{"backend down", client.ErrUnavailable, nil, models.ErrTransport},
		{"me rejected", nil, client.ErrUnauthorized, models.ErrAuthentication},
		{"me transport", nil, client.ErrTransport, models.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := credentials.NewMemoryRepository()
			fc := &fakeClient{LoginToken: "first", MeUser: ann}
			svc := NewSessionService(fc, store, logging.Discard())

			_, err := svc.Login(context.Background(), "a@x.com", "pw")
			require.NoError(t, err)

			fc.LoginToken = "second"
			fc.LoginErr = tt.loginErr
			fc.MeErr = tt.meErr

			_, err = svc.Login(context.Background(), "b@x.com", "bad")
			require.ErrorIs(t, err, tt.want)

			cur, ok := svc.Current()
			require.True(t, ok, "prior session must survive a failed login")
			assert.Equal(t, ann, cur.User)
			assert.Equal(t, "first", client.BearerFrom(svc.Authorize(context.Background())))
			assert.Equal(t, "first", storedToken(t, store))
		})
	}
}

func TestLogout_ClearsEvenIfServerFails(t *testing.T) {
	store := credentials.NewMemoryRepository()
	fc := &fakeClient{LoginToken: "tok", MeUser: ann, LogoutErr: client.ErrUnavailable}
	svc := NewSessionService(fc, store, logging.Discard())

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)

	svc.Logout(context.Background())

	assert.Equal(t, 1, fc.LogoutCalls)
	assert.Equal(t, "tok", fc.LastLogoutBearer)
	_, ok := svc.Current()
	assert.False(t, ok)
	assert.Empty(t, storedToken(t, store))
	assert.Empty(t, client.BearerFrom(svc.Authorize(context.Background())))
}

func TestLogout_WithoutSessionSkipsServer(t *testing.T) {
	fc := &fakeClient{}
	svc := NewSessionService(fc, failingStore{}, logging.Discard())

	svc.Logout(context.Background())

	assert.Equal(t, 0, fc.LogoutCalls)
}

func TestCredentialExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, credentialExpired(makeJWT(t, now.Add(-time.Second)), now))
	assert.False(t, credentialExpired(makeJWT(t, now.Add(time.Hour)), now))
	assert.False(t, credentialExpired("not-a-jwt", now))
	assert.False(t, credentialExpired("", now))
}
