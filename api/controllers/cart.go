package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/api/middleware"
	"github.com/brightcart/storefront-backend/api/responses"
	"github.com/brightcart/storefront-backend/api/validators"
	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/internal/catalog"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/logger"
)

type cartLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

type cartResponse struct {
	Items         []cartLineResponse `json:"items"`
	TotalItems    int                `json:"total_items"`
	SubtotalCents int                `json:"subtotal_cents"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

type updateItemRequest struct {
	Qty int `json:"qty" validate:"min=0"`
}

type mergeCartRequest struct {
	FromSessionID string `json:"from_session_id" validate:"required"`
}

// CartController groups the session-cart handlers around their shared
// dependencies: the persisted store and the catalog lookup the engine needs.
type CartController struct {
	store  cart.Store
	lookup catalog.Lookup
	logg   *logger.Logger
}

func NewCartController(store cart.Store, lookup catalog.Lookup, logg *logger.Logger) *CartController {
	return &CartController{store: store, lookup: lookup, logg: logg}
}

// engine rebuilds the cart engine for the request's session. State lives in
// Redis, so each request starts from the persisted snapshot.
func (c *CartController) engine(r *http.Request) (*cart.Engine, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	return cart.NewEngine(r.Context(), sessionID, c.store, c.lookup)
}

func (c *CartController) respond(w http.ResponseWriter, r *http.Request, engine *cart.Engine) {
	subtotal, err := engine.Subtotal(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	snapshot := engine.Snapshot()
	items := make([]cartLineResponse, 0, len(snapshot))
	for _, line := range snapshot {
		items = append(items, cartLineResponse{ProductID: line.ProductID, Qty: line.Qty})
	}

	responses.WriteSuccess(w, cartResponse{
		Items:         items,
		TotalItems:    engine.TotalItems(),
		SubtotalCents: subtotal,
	})
}

func (c *CartController) Fetch(w http.ResponseWriter, r *http.Request) {
	engine, err := c.engine(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	c.respond(w, r, engine)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload addItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid uuid"))
		return
	}

	engine, err := c.engine(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := engine.AddItem(r.Context(), productID, payload.Qty); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	c.respond(w, r, engine)
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := validators.ParseUUIDParam(r, "productId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var payload updateItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	engine, err := c.engine(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := engine.UpdateQuantity(r.Context(), productID, payload.Qty); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	c.respond(w, r, engine)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := validators.ParseUUIDParam(r, "productId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	engine, err := c.engine(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := engine.RemoveItem(r.Context(), productID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	c.respond(w, r, engine)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	engine, err := c.engine(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := engine.Clear(r.Context()); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	c.respond(w, r, engine)
}

// Merge folds another session's persisted cart into the current one, then
// drops the source cart. Called by the gateway when an anonymous visitor
// signs in.
func (c *CartController) Merge(w http.ResponseWriter, r *http.Request) {
	var payload mergeCartRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if payload.FromSessionID == middleware.SessionIDFromContext(r.Context()) {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cannot merge a session into itself"))
		return
	}

	other, err := c.store.Load(r.Context(), payload.FromSessionID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	engine, err := c.engine(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := engine.MergeOnAuthentication(r.Context(), other); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.store.Delete(r.Context(), payload.FromSessionID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	c.respond(w, r, engine)
}
