package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, total int) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     enums.OrderStatusConfirmed,
		TotalCents: total,
		Lines: []models.OrderLine{
			{
				ID:             uuid.New(),
				ProductID:      uuid.New(),
				Name:           "Kettle",
				Qty:            1,
				UnitPriceCents: total,
				TotalCents:     total,
			},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestGetReturnsOrderWithLines(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := uuid.New()
	seeded := seedOrder(t, db, userID, 4500)

	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.Get(context.Background(), userID, seeded.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.TotalCents != 4500 || len(order.Lines) != 1 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.Lines[0].Name != "Kettle" {
		t.Fatalf("expected frozen line snapshot, got %+v", order.Lines[0])
	}
}

func TestGetHidesOtherUsersOrders(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seeded := seedOrder(t, db, uuid.New(), 4500)

	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), seeded.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := uuid.New()
	seedOrder(t, db, userID, 100)
	seedOrder(t, db, userID, 200)
	seedOrder(t, db, uuid.New(), 300)

	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	results, err := svc.List(context.Background(), userID, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 orders for user, got %d", len(results))
	}
	for _, order := range results {
		if order.UserID != userID {
			t.Fatalf("foreign order leaked into listing: %+v", order)
		}
	}
}
