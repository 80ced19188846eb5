package cart

import (
	"context"
	"testing"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) Lookup(_ context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *stubCatalog) add(name string, priceCents, stock int, active bool) uuid.UUID {
	id := uuid.New()
	s.products[id] = &models.Product{
		ID:         id,
		Name:       name,
		PriceCents: priceCents,
		IsActive:   active,
		Inventory:  &models.InventoryItem{ProductID: id, AvailableQty: stock},
	}
	return id
}

type memoryStore struct {
	carts map[string]Snapshot
	saves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: map[string]Snapshot{}}
}

func (m *memoryStore) Load(_ context.Context, sessionID string) (Snapshot, error) {
	return m.carts[sessionID].Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, sessionID string, snapshot Snapshot) error {
	m.saves++
	m.carts[sessionID] = snapshot.Clone()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *stubCatalog, *memoryStore) {
	t.Helper()
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{}}
	store := newMemoryStore()
	engine, err := NewEngine(context.Background(), "sess-1", store, catalog)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, catalog, store
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestAddItemAggregatesQuantity(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	ctx := context.Background()
	productID := catalog.add("Kettle", 4500, 10, true)

	if err := engine.AddItem(ctx, productID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := engine.AddItem(ctx, productID, 3); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if got := engine.ItemQuantity(productID); got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	productID := catalog.add("Kettle", 4500, 10, true)

	expectCode(t, engine.AddItem(context.Background(), productID, 0), pkgerrors.CodeValidation)
	expectCode(t, engine.AddItem(context.Background(), productID, -1), pkgerrors.CodeValidation)
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	engine, _, _ := newTestEngine(t)
	expectCode(t, engine.AddItem(context.Background(), uuid.New(), 1), pkgerrors.CodeNotFound)
}

func TestAddItemInactiveProduct(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	productID := catalog.add("Retired", 900, 5, false)

	expectCode(t, engine.AddItem(context.Background(), productID, 1), pkgerrors.CodeValidation)
}

func TestAddItemOutOfStock(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	productID := catalog.add("Sold Out", 900, 0, true)

	expectCode(t, engine.AddItem(context.Background(), productID, 1), pkgerrors.CodeOutOfStock)
}

func TestAddItemStockLimitLeavesLineUntouched(t *testing.T) {
	t.Parallel()

	engine, catalog, store := newTestEngine(t)
	ctx := context.Background()
	productID := catalog.add("Scarce", 1200, 4, true)

	if err := engine.AddItem(ctx, productID, 3); err != nil {
		t.Fatalf("add within stock: %v", err)
	}
	savesBefore := store.saves

	expectCode(t, engine.AddItem(ctx, productID, 2), pkgerrors.CodeStockLimit)

	if got := engine.ItemQuantity(productID); got != 3 {
		t.Fatalf("expected existing line untouched at 3, got %d", got)
	}
	if store.saves != savesBefore {
		t.Fatalf("failed mutation must not persist")
	}
}

func TestUpdateQuantityIsAbsolute(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	ctx := context.Background()
	productID := catalog.add("Kettle", 4500, 10, true)

	if err := engine.AddItem(ctx, productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := engine.UpdateQuantity(ctx, productID, 7); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := engine.ItemQuantity(productID); got != 7 {
		t.Fatalf("expected absolute quantity 7, got %d", got)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	ctx := context.Background()
	productID := catalog.add("Kettle", 4500, 10, true)

	if err := engine.AddItem(ctx, productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := engine.UpdateQuantity(ctx, productID, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if got := engine.ItemQuantity(productID); got != 0 {
		t.Fatalf("expected line removed, got quantity %d", got)
	}
	if !engine.Snapshot().Empty() {
		t.Fatalf("expected empty cart")
	}
}

func TestUpdateQuantityRejectsOverStock(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	ctx := context.Background()
	productID := catalog.add("Scarce", 1200, 4, true)

	if err := engine.AddItem(ctx, productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	err := engine.UpdateQuantity(ctx, productID, 5)
	expectCode(t, err, pkgerrors.CodeStockLimit)

	if got := engine.ItemQuantity(productID); got != 2 {
		t.Fatalf("expected prior state unchanged at 2, got %d", got)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	t.Parallel()

	engine, _, store := newTestEngine(t)
	savesBefore := store.saves

	if err := engine.RemoveItem(context.Background(), uuid.New()); err != nil {
		t.Fatalf("removing absent line must succeed: %v", err)
	}
	if store.saves != savesBefore {
		t.Fatalf("no-op removal must not persist")
	}
}

func TestRemoveItemPreservesOrderOfRemaining(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	ctx := context.Background()
	first := catalog.add("First", 100, 9, true)
	second := catalog.add("Second", 200, 9, true)
	third := catalog.add("Third", 300, 9, true)

	for _, id := range []uuid.UUID{first, second, third} {
		if err := engine.AddItem(ctx, id, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := engine.RemoveItem(ctx, second); err != nil {
		t.Fatalf("remove: %v", err)
	}

	snapshot := engine.Snapshot()
	if len(snapshot) != 2 || snapshot[0].ProductID != first || snapshot[1].ProductID != third {
		t.Fatalf("expected insertion order preserved, got %+v", snapshot)
	}
}

func TestTotalItemsAndSubtotalUseLivePrices(t *testing.T) {
	t.Parallel()

	engine, catalog, _ := newTestEngine(t)
	ctx := context.Background()
	kettle := catalog.add("Kettle", 4500, 10, true)
	mug := catalog.add("Mug", 800, 10, true)

	if err := engine.AddItem(ctx, kettle, 2); err != nil {
		t.Fatalf("add kettle: %v", err)
	}
	if err := engine.AddItem(ctx, mug, 3); err != nil {
		t.Fatalf("add mug: %v", err)
	}

	if got := engine.TotalItems(); got != 5 {
		t.Fatalf("expected 5 total items, got %d", got)
	}

	subtotal, err := engine.Subtotal(ctx)
	if err != nil {
		t.Fatalf("subtotal: %v", err)
	}
	if subtotal != 2*4500+3*800 {
		t.Fatalf("unexpected subtotal %d", subtotal)
	}

	// Price change after adding must flow into the displayed subtotal.
	catalog.products[kettle].PriceCents = 5000
	subtotal, err = engine.Subtotal(ctx)
	if err != nil {
		t.Fatalf("subtotal after reprice: %v", err)
	}
	if subtotal != 2*5000+3*800 {
		t.Fatalf("expected live pricing, got %d", subtotal)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	engine, catalog, store := newTestEngine(t)
	ctx := context.Background()
	kettle := catalog.add("Kettle", 4500, 10, true)
	mug := catalog.add("Mug", 800, 10, true)

	if err := engine.AddItem(ctx, kettle, 2); err != nil {
		t.Fatalf("add kettle: %v", err)
	}
	if err := engine.AddItem(ctx, mug, 1); err != nil {
		t.Fatalf("add mug: %v", err)
	}

	restored, err := NewEngine(ctx, "sess-1", store, catalog)
	if err != nil {
		t.Fatalf("restore engine: %v", err)
	}
	if restored.ItemQuantity(kettle) != 2 || restored.ItemQuantity(mug) != 1 {
		t.Fatalf("expected persisted mapping to survive restart")
	}
}

func TestClearPersistsEmptyState(t *testing.T) {
	t.Parallel()

	engine, catalog, store := newTestEngine(t)
	ctx := context.Background()
	productID := catalog.add("Kettle", 4500, 10, true)

	if err := engine.AddItem(ctx, productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := engine.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	restored, err := NewEngine(ctx, "sess-1", store, catalog)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.Snapshot().Empty() {
		t.Fatalf("expected cleared cart to persist empty")
	}
}
