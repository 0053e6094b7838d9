package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spudcatalog/internal/client/client"
	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/client/submission"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
)

const (
	DefaultPageSize = 50

	contributorRelation = "contributor"
	createdAtField      = "createdAt"
	maxPages            = 1000
)

// CatalogService synchronizes the shared collection with the backend.
type CatalogService interface {
	// List fetches every entry with its contributor hydrated, newest first.
	List(ctx context.Context) (models.CollectionView, error)
	// Create submits a packaged entry. The returned record may be only
	// partially hydrated; callers re-List to get the authoritative view.
	Create(ctx context.Context, p submission.Payload) (*models.Variety, error)
}

type catalogService struct {
	client  client.Client
	auth    Authorizer
	perPage int
	log     logging.Logger
}

func NewCatalogService(c client.Client, auth Authorizer, perPage int, log logging.Logger) CatalogService {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &catalogService{client: c, auth: auth, perPage: perPage, log: log.With("component", "catalog")}
}

func (s *catalogService) List(ctx context.Context) (models.CollectionView, error) {
	ctx = s.auth.Authorize(ctx)

	var all []models.Variety
	for page := 1; ; page++ {
		if page > maxPages {
			s.log.Warn(ctx, "collection exceeds page limit", "max_pages", maxPages, "per_page", s.perPage)
			return nil, fmt.Errorf("%w: collection exceeds %d pages of %d", models.ErrTransport, maxPages, s.perPage)
		}

		resp, err := s.client.ListVarieties(ctx, client.ListQuery{
			Relations: []string{contributorRelation},
			OrderBy:   createdAtField,
			Order:     client.SortDesc,
			Page:      page,
			PerPage:   s.perPage,
		})
		if err != nil {
			s.log.Error(ctx, "failed to load potato varieties", "page", page, "error", err)
			return nil, fmt.Errorf("%w: list page %d: %w", models.ErrTransport, page, err)
		}

		all = append(all, resp.Data...)
		s.log.Debug(ctx, "page loaded", "page", page, "last_page", resp.LastPage, "items", len(resp.Data))
		if !resp.HasMore() {
			break
		}
	}

	view := models.NewCollectionView(all)
	s.log.Info(ctx, "potato varieties loaded", "count", len(view))
	return view, nil
}

func (s *catalogService) Create(ctx context.Context, p submission.Payload) (*models.Variety, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: empty submission", models.ErrValidation)
	}

	contentType, body, err := p.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: encode submission: %w", models.ErrTransport, err)
	}

	created, err := s.client.CreateVariety(s.auth.Authorize(ctx), contentType, body)
	if err != nil {
		s.log.Error(ctx, "failed to create potato variety", "name", p.Fields().Name, "error", err)
		if errors.Is(err, client.ErrValidation) {
			return nil, fmt.Errorf("%w: %w", models.ErrValidation, err)
		}
		return nil, fmt.Errorf("%w: %w", models.ErrTransport, err)
	}

	s.log.Info(ctx, "potato variety created", "id", created.ID, "name", created.Name)
	return created, nil
}
