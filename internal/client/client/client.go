package client

import (
	"context"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
)

// Client is the transport contract with the catalog backend.
//
// Authenticated calls take their bearer credential from the context (see
// WithBearer); the client itself holds no session state.
type Client interface {
	Health(ctx context.Context) error
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
	ListVarieties(ctx context.Context, q ListQuery) (*VarietyPage, error)
	CreateVariety(ctx context.Context, contentType string, body []byte) (*models.Variety, error)
}

// HealthChecker is implemented by every reachability backend (HTTP or gRPC).
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ListQuery selects one page of a collection.
type ListQuery struct {
	Relations []string
	OrderBy   string
	Order     SortOrder
	Page      int
	PerPage   int
}

// VarietyPage is one page of the varieties collection.
type VarietyPage struct {
	Data        []models.Variety `json:"data"`
	CurrentPage int              `json:"currentPage"`
	LastPage    int              `json:"lastPage"`
	Total       int              `json:"total"`
	PerPage     int              `json:"perPage"`
}

// HasMore reports whether pages after this one exist.
func (p *VarietyPage) HasMore() bool {
	return p.CurrentPage > 0 && p.CurrentPage < p.LastPage
}

type bearerKey struct{}

// WithBearer returns a context whose outgoing requests carry token.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerFrom returns the credential attached by WithBearer, or "".
func BearerFrom(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}
