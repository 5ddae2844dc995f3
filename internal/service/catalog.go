package service

import (
	"context"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/pagination"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ContentPage is one page of a cursor-paginated content listing.
type ContentPage struct {
	Items      []*domain.ContentItem
	NextCursor string
	HasMore    bool
}

// ContentCatalog lists stored content newest-first with keyset pagination.
type ContentCatalog interface {
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int, class domain.ContentClass) (*ContentPage, error)
}

// CatalogService exposes the content listing surface.
type CatalogService struct {
	catalog ContentCatalog
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(catalog ContentCatalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// List decodes the raw cursor and returns one page, optionally restricted to
// a single content class.
func (s *CatalogService) List(ctx context.Context, rawCursor string, limit int, class string) (*ContentPage, error) {
	if class != "" && !domain.IsValidContentClass(domain.ContentClass(class)) {
		return nil, domain.ErrInvalidContentClass
	}

	cursor, err := pagination.DecodeCursor(rawCursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return s.catalog.ListWithCursor(ctx, cursor, limit, domain.ContentClass(class))
}
