package catalog

import (
	"context"
	"strings"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes read-only catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product with its inventory row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Search applies the filter predicates and sort and returns the matching
// active products with inventory preloaded.
func (r *Repository) Search(ctx context.Context, input QueryInput) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Inventory").
		Where("is_active = ?", true)

	filters := input.Filters
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if text := strings.TrimSpace(filters.Text); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if brand := strings.TrimSpace(filters.Brand); brand != "" {
		query = query.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(brand)+"%")
	}
	if filters.PriceMinCents != nil {
		query = query.Where("price_cents >= ?", *filters.PriceMinCents)
	}
	if filters.PriceMaxCents != nil {
		query = query.Where("price_cents <= ?", *filters.PriceMaxCents)
	}

	query = query.Order(orderClause(input.Sort))
	if input.Limit > 0 {
		query = query.Limit(input.Limit)
	}
	if input.Offset > 0 {
		query = query.Offset(input.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// orderClause maps the sort key to SQL. Every ordering tie-breaks on id so
// results are stable for equal keys.
func orderClause(sort enums.ProductSort) string {
	switch sort {
	case enums.ProductSortPriceAsc:
		return "price_cents ASC, id ASC"
	case enums.ProductSortPriceDesc:
		return "price_cents DESC, id ASC"
	case enums.ProductSortName:
		return "name ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}
