package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/internal/checkout/reservation"
	"github.com/brightcart/storefront-backend/internal/orders"
	"github.com/brightcart/storefront-backend/pkg/db/models"
	"github.com/brightcart/storefront-backend/pkg/enums"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRunner interface {
	Decrement(ctx context.Context, tx *gorm.DB, requests []reservation.StockDecrementRequest) ([]reservation.StockDecrementResult, error)
}

type reservationEngine struct{}

func (reservationEngine) Decrement(ctx context.Context, tx *gorm.DB, requests []reservation.StockDecrementRequest) ([]reservation.StockDecrementResult, error) {
	return reservation.DecrementStock(ctx, tx, requests)
}

// Service turns a cart snapshot into a placed order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot) (*models.Order, error)
}

type service struct {
	tx          txRunner
	ordersRepo  orders.Repository
	catalog     catalog.Lookup
	reservation reservationRunner
	logg        *logger.Logger
}

// NewService builds the checkout coordinator.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	lookup catalog.Lookup,
	runner reservationRunner,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	if runner == nil {
		runner = reservationEngine{}
	}
	return &service{
		tx:          tx,
		ordersRepo:  ordersRepo,
		catalog:     lookup,
		reservation: runner,
		logg:        logg,
	}, nil
}

type offendingItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

// PlaceOrder runs the placement pipeline: validate every cart line against
// live catalog data, freeze the order snapshot, then commit the stock
// decrements and the confirmed status in one transaction.
//
// The pending order row is committed before the stock transaction so a race
// loss leaves a terminal failed order behind rather than nothing. Stock is
// only ever taken inside the transaction, so a failed placement never leaks
// inventory.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if snapshot.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	order, err := s.buildOrder(ctx, userID, snapshot)
	if err != nil {
		return nil, err
	}
	s.stage(ctx, order.ID, "stock_validated")

	if err := s.ordersRepo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	offenders, err := s.commitStock(ctx, order)
	if err != nil {
		return nil, err
	}
	if len(offenders) > 0 {
		if serr := s.ordersRepo.SetStatus(ctx, order.ID, enums.OrderStatusFailed); serr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, serr, "mark order failed")
		}
		s.stage(ctx, order.ID, "failed")
		return nil, pkgerrors.New(pkgerrors.CodeOrderValidation, "stock changed during placement").
			WithDetails(map[string]any{"order_id": order.ID, "items": offenders})
	}

	order.Status = enums.OrderStatusConfirmed
	s.stage(ctx, order.ID, "committed")
	return order, nil
}

// buildOrder validates every line and freezes the order snapshot. All lines
// are checked before reporting so the caller sees the full offender list in
// one round trip.
func (s *service) buildOrder(ctx context.Context, userID uuid.UUID, snapshot cart.Snapshot) (*models.Order, error) {
	orderID := uuid.New()
	lines := make([]models.OrderLine, 0, len(snapshot))
	offenders := make([]offendingItem, 0)
	total := 0

	for _, item := range snapshot {
		if item.Qty <= 0 {
			offenders = append(offenders, offendingItem{ProductID: item.ProductID, Reason: "invalid quantity"})
			continue
		}

		product, err := s.catalog.Lookup(ctx, item.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				offenders = append(offenders, offendingItem{ProductID: item.ProductID, Reason: "product no longer exists"})
				continue
			}
			return nil, err
		}
		if !product.IsActive {
			offenders = append(offenders, offendingItem{ProductID: item.ProductID, Reason: "product is not available"})
			continue
		}
		if item.Qty > product.Stock() {
			offenders = append(offenders, offendingItem{ProductID: item.ProductID, Reason: "insufficient stock"})
			continue
		}

		lineTotal := product.PriceCents * item.Qty
		lines = append(lines, models.OrderLine{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductID:      product.ID,
			Name:           product.Name,
			Qty:            item.Qty,
			UnitPriceCents: product.PriceCents,
			TotalCents:     lineTotal,
		})
		total += lineTotal
	}

	if len(offenders) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOrderValidation, "cart failed order validation").
			WithDetails(map[string]any{"items": offenders})
	}

	return &models.Order{
		ID:         orderID,
		UserID:     userID,
		Status:     enums.OrderStatusPending,
		TotalCents: total,
		Lines:      lines,
	}, nil
}

// commitStock takes the stock and confirms the order in one transaction.
// A decrement miss rolls the whole transaction back, undoing any sibling
// decrements, and returns the offending items for the failed-order path.
func (s *service) commitStock(ctx context.Context, order *models.Order) ([]offendingItem, error) {
	requests := make([]reservation.StockDecrementRequest, 0, len(order.Lines))
	for _, line := range order.Lines {
		requests = append(requests, reservation.StockDecrementRequest{ProductID: line.ProductID, Qty: line.Qty})
	}

	var offenders []offendingItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		results, err := s.reservation.Decrement(ctx, tx, requests)
		if err != nil {
			return err
		}
		for _, result := range results {
			if !result.Applied {
				offenders = append(offenders, offendingItem{ProductID: result.ProductID, Reason: result.Reason})
			}
		}
		if len(offenders) > 0 {
			return errStockLost
		}
		return s.ordersRepo.WithTx(tx).SetStatus(ctx, order.ID, enums.OrderStatusConfirmed)
	})
	if err != nil && err != errStockLost {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "commit stock")
	}
	return offenders, nil
}

// errStockLost aborts the stock transaction without surfacing as an internal
// error; the caller converts it into the failed-order outcome.
var errStockLost = fmt.Errorf("stock lost to concurrent checkout")

func (s *service) stage(ctx context.Context, orderID uuid.UUID, stage string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"stage":    stage,
	})
	s.logg.Info(ctx, "checkout stage transition")
}
