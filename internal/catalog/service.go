package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lookup is the narrow primitive cart and checkout use for single-product
// stock re-validation without a full predicate scan.
type Lookup interface {
	Lookup(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Service is the catalog filter engine: a pure read surface over the product
// store. It never mutates stock or cart state.
type Service interface {
	Lookup
	Query(ctx context.Context, input QueryInput) ([]models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Query evaluates the present predicates, AND-combined, over active products.
// Inverted price bounds yield an empty result set rather than an error.
func (s *service) Query(ctx context.Context, input QueryInput) ([]models.Product, error) {
	if input.Filters.invertedBounds() {
		return []models.Product{}, nil
	}
	if input.Sort == "" {
		input.Sort = enums.ProductSortNewest
	}
	if !input.Sort.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key")
	}

	params := pagination.Normalize(pagination.Params{Limit: input.Limit, Offset: input.Offset})
	input.Limit = params.Limit
	input.Offset = params.Offset

	products, err := s.repo.Search(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query products")
	}
	return products, nil
}

// Lookup fetches a single product with its inventory row.
func (s *service) Lookup(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
