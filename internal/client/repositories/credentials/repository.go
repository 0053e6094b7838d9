// Package credentials persists the backend-issued session credential
// between runs, so a session can be restored at startup without prompting.
package credentials

import (
	"context"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
)

// Credential is the remembered session: the opaque token and the user it
// was issued to.
type Credential struct {
	Token   string
	User    models.User
	SavedAt time.Time
}

// Repository stores at most one Credential.
//
// Load returns (nil, nil) when nothing is stored.
type Repository interface {
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, c Credential) error
	Clear(ctx context.Context) error
}
