package cart

import (
	"context"
	"fmt"

	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

// Engine holds the cart state for one session context and enforces stock and
// aggregation rules against live catalog data. Every successful mutation is
// followed by a durable write of the full cart state.
//
// Engine provides no internal synchronization: mutations must be serialized
// by the owning session. The HTTP layer builds one engine per request from
// the persisted snapshot and expects client-side single-flight per session.
type Engine struct {
	sessionID string
	lines     []Line
	index     map[uuid.UUID]int
	store     Store
	catalog   catalog.Lookup
}

// NewEngine restores the persisted cart for the session, or starts empty when
// nothing (or nothing parseable) was stored.
func NewEngine(ctx context.Context, sessionID string, store Store, lookup catalog.Lookup) (*Engine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}

	restored, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore cart")
	}

	engine := &Engine{
		sessionID: sessionID,
		store:     store,
		catalog:   lookup,
	}
	engine.replace(restored)
	return engine, nil
}

// AddItem adds quantity units of the product on top of any existing line.
// The operation is all-or-nothing: when the combined quantity would exceed
// available stock the existing line is left untouched.
func (e *Engine) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	product, err := e.validatedProduct(ctx, productID)
	if err != nil {
		return err
	}

	stock := product.Stock()
	if stock == 0 {
		return pkgerrors.New(pkgerrors.CodeOutOfStock, "product out of stock").
			WithDetails(map[string]any{"product_id": productID})
	}

	newQuantity := e.ItemQuantity(productID) + quantity
	if newQuantity > stock {
		return stockLimitError(productID, newQuantity, stock)
	}

	e.upsert(productID, newQuantity)
	return e.persist(ctx)
}

// UpdateQuantity sets the line to an absolute quantity. Zero removes the
// line. Over-stock requests are rejected, never clamped.
func (e *Engine) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return e.RemoveItem(ctx, productID)
	}

	product, err := e.validatedProduct(ctx, productID)
	if err != nil {
		return err
	}

	if stock := product.Stock(); quantity > stock {
		return stockLimitError(productID, quantity, stock)
	}

	e.upsert(productID, quantity)
	return e.persist(ctx)
}

// RemoveItem drops the line. Removing an absent product is a no-op success.
func (e *Engine) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	pos, ok := e.index[productID]
	if !ok {
		return nil
	}

	e.lines = append(e.lines[:pos], e.lines[pos+1:]...)
	delete(e.index, productID)
	for id, i := range e.index {
		if i > pos {
			e.index[id] = i - 1
		}
	}
	return e.persist(ctx)
}

// ItemQuantity returns the current quantity for the product, zero if absent.
func (e *Engine) ItemQuantity(productID uuid.UUID) int {
	if pos, ok := e.index[productID]; ok {
		return e.lines[pos].Qty
	}
	return 0
}

// TotalItems returns the summed quantity across all lines.
func (e *Engine) TotalItems() int {
	total := 0
	for _, line := range e.lines {
		total += line.Qty
	}
	return total
}

// Subtotal prices the cart with live catalog prices so display always
// reflects current pricing, unlike the frozen snapshots on an order.
// Products that disappeared from the catalog contribute nothing.
func (e *Engine) Subtotal(ctx context.Context) (int, error) {
	subtotal := 0
	for _, line := range e.lines {
		product, err := e.catalog.Lookup(ctx, line.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return 0, err
		}
		subtotal += product.PriceCents * line.Qty
	}
	return subtotal, nil
}

// Snapshot returns an immutable ordered copy of the current lines.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot(e.lines).Clone()
}

// Clear empties the cart and persists the empty state.
func (e *Engine) Clear(ctx context.Context) error {
	e.replace(nil)
	return e.persist(ctx)
}

// MergeOnAuthentication folds another cart (typically the anonymous one) into
// this session's cart: quantities are summed per product, then re-clamped to
// each product's current stock. Excess is silently dropped to the stock
// ceiling since this runs at session transition with no interactive recovery
// path. Vanished and inactive products are dropped entirely.
func (e *Engine) MergeOnAuthentication(ctx context.Context, other Snapshot) error {
	merged := Merge(e.Snapshot(), other)

	clamped := make(Snapshot, 0, len(merged))
	for _, line := range merged {
		product, err := e.catalog.Lookup(ctx, line.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return err
		}
		if !product.IsActive {
			continue
		}
		qty := line.Qty
		if stock := product.Stock(); qty > stock {
			qty = stock
		}
		if qty <= 0 {
			continue
		}
		clamped = append(clamped, Line{ProductID: line.ProductID, Qty: qty})
	}

	e.replace(clamped)
	return e.persist(ctx)
}

func (e *Engine) validatedProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := e.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available").
			WithDetails(map[string]any{"product_id": productID})
	}
	return product, nil
}

func (e *Engine) upsert(productID uuid.UUID, quantity int) {
	if pos, ok := e.index[productID]; ok {
		e.lines[pos].Qty = quantity
		return
	}
	e.index[productID] = len(e.lines)
	e.lines = append(e.lines, Line{ProductID: productID, Qty: quantity})
}

func (e *Engine) replace(snapshot Snapshot) {
	e.lines = append([]Line(nil), snapshot...)
	e.index = make(map[uuid.UUID]int, len(e.lines))
	for i, line := range e.lines {
		e.index[line.ProductID] = i
	}
}

func (e *Engine) persist(ctx context.Context) error {
	if err := e.store.Save(ctx, e.sessionID, Snapshot(e.lines)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func stockLimitError(productID uuid.UUID, requested, available int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStockLimit, "requested quantity exceeds available stock").
		WithDetails(map[string]any{
			"product_id": productID,
			"requested":  requested,
			"available":  available,
		})
}
