package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/api/responses"
	"github.com/brightcart/storefront-backend/api/validators"
	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/logger"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
}

func toProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Category:    product.Category,
		PriceCents:  product.PriceCents,
		Stock:       product.Stock(),
		IsActive:    product.IsActive,
	}
}

// ProductList serves the catalog browse endpoint: optional AND-combined
// filters, sort key and pagination, all via query parameters.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseQueryInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Query(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, toProductResponse(&products[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductDetail serves a single product with its live stock count.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Lookup(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponse(product))
	}
}

func parseQueryInput(r *http.Request) (catalog.QueryInput, error) {
	query := r.URL.Query()
	input := catalog.QueryInput{}

	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		input.Filters.Category = &raw
	}
	input.Filters.Text = strings.TrimSpace(query.Get("q"))
	input.Filters.Brand = strings.TrimSpace(query.Get("brand"))

	minCents, err := validators.ParseOptionalQueryInt(r, "price_min_cents", 0)
	if err != nil {
		return catalog.QueryInput{}, err
	}
	input.Filters.PriceMinCents = minCents

	maxCents, err := validators.ParseOptionalQueryInt(r, "price_max_cents", 0)
	if err != nil {
		return catalog.QueryInput{}, err
	}
	input.Filters.PriceMaxCents = maxCents

	if raw := strings.TrimSpace(query.Get("sort")); raw != "" {
		sort := enums.ProductSort(raw)
		if !sort.Valid() {
			return catalog.QueryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort key").
				WithDetails(map[string]any{"field": "sort"})
		}
		input.Sort = sort
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return catalog.QueryInput{}, err
	}
	input.Limit = limit

	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return catalog.QueryInput{}, err
	}
	input.Offset = offset

	return input, nil
}
