package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/api/middleware"
	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

type stubLookup struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubLookup) Lookup(_ context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *stubLookup) add(name string, priceCents, stock int) uuid.UUID {
	id := uuid.New()
	s.products[id] = &models.Product{
		ID:         id,
		Name:       name,
		PriceCents: priceCents,
		IsActive:   true,
		Inventory:  &models.InventoryItem{ProductID: id, AvailableQty: stock},
	}
	return id
}

type memoryCartStore struct {
	carts map[string]cart.Snapshot
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: map[string]cart.Snapshot{}}
}

func (m *memoryCartStore) Load(_ context.Context, sessionID string) (cart.Snapshot, error) {
	return m.carts[sessionID].Clone(), nil
}

func (m *memoryCartStore) Save(_ context.Context, sessionID string, snapshot cart.Snapshot) error {
	m.carts[sessionID] = snapshot.Clone()
	return nil
}

func (m *memoryCartStore) Delete(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

func newCartRouter(store cart.Store, lookup *stubLookup) http.Handler {
	controller := NewCartController(store, lookup, nil)
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.SessionContext(nil))
		r.Get("/", controller.Fetch)
		r.Delete("/", controller.Clear)
		r.Post("/items", controller.AddItem)
		r.Patch("/items/{productId}", controller.UpdateItem)
		r.Delete("/items/{productId}", controller.RemoveItem)
		r.Post("/merge", controller.Merge)
	})
	return r
}

func doCartRequest(t *testing.T, handler http.Handler, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != "" {
		req.Header.Set("X-Session-Id", session)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}

func TestCartRequiresSessionHeader(t *testing.T) {
	t.Parallel()

	handler := newCartRouter(newMemoryCartStore(), &stubLookup{products: map[uuid.UUID]*models.Product{}})
	rec := doCartRequest(t, handler, http.MethodGet, "/api/v1/cart/", "", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartAddItemAndFetch(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{products: map[uuid.UUID]*models.Product{}}
	kettle := lookup.add("Kettle", 4500, 10)
	handler := newCartRouter(newMemoryCartStore(), lookup)

	body := `{"product_id":"` + kettle.String() + `","qty":2}`
	rec := doCartRequest(t, handler, http.MethodPost, "/api/v1/cart/items", "sess-1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	data := decodeData(t, decodeRoundTrip(t, handler, "sess-1"))
	if data["total_items"].(float64) != 2 {
		t.Fatalf("expected 2 total items, got %v", data["total_items"])
	}
	if data["subtotal_cents"].(float64) != 9000 {
		t.Fatalf("expected subtotal 9000, got %v", data["subtotal_cents"])
	}
}

func decodeRoundTrip(t *testing.T, handler http.Handler, session string) *httptest.ResponseRecorder {
	t.Helper()
	rec := doCartRequest(t, handler, http.MethodGet, "/api/v1/cart/", session, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch cart: %d (%s)", rec.Code, rec.Body.String())
	}
	return rec
}

func TestCartAddItemOverStock(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{products: map[uuid.UUID]*models.Product{}}
	scarce := lookup.add("Scarce", 1200, 3)
	handler := newCartRouter(newMemoryCartStore(), lookup)

	body := `{"product_id":"` + scarce.String() + `","qty":5}`
	rec := doCartRequest(t, handler, http.MethodPost, "/api/v1/cart/items", "sess-1", body)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeStockLimit) {
		t.Fatalf("expected stock limit code, got %s", code)
	}
}

func TestCartMergeDropsSourceSession(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{products: map[uuid.UUID]*models.Product{}}
	kettle := lookup.add("Kettle", 4500, 10)
	store := newMemoryCartStore()
	store.carts["anon-1"] = cart.Snapshot{{ProductID: kettle, Qty: 3}}
	handler := newCartRouter(store, lookup)

	rec := doCartRequest(t, handler, http.MethodPost, "/api/v1/cart/merge", "user-sess", `{"from_session_id":"anon-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if data["total_items"].(float64) != 3 {
		t.Fatalf("expected merged quantity 3, got %v", data["total_items"])
	}
	if _, ok := store.carts["anon-1"]; ok {
		t.Fatalf("expected source session cart deleted")
	}
}
