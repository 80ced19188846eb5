package reservation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

// StockDecrementRequest asks for qty units of one product to be taken from
// available inventory.
type StockDecrementRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// StockDecrementResult reports the outcome for one request. Reason is set
// only when the decrement was not applied.
type StockDecrementResult struct {
	ProductID uuid.UUID
	Qty       int
	Applied   bool
	Reason    string
}

// DecrementStock conditionally takes stock for each request inside the given
// transaction. The decrement is a single guarded UPDATE, so a concurrent
// checkout can never drive available quantity below zero: whichever
// transaction commits first wins the stock, the other observes zero rows
// affected and reports the item as unavailable.
//
// Requests are applied in order. Individual failures do not abort the batch;
// the caller decides whether partial success is acceptable and rolls the
// transaction back if not.
func DecrementStock(ctx context.Context, tx *gorm.DB, requests []StockDecrementRequest) ([]StockDecrementResult, error) {
	results := make([]StockDecrementResult, 0, len(requests))

	for _, request := range requests {
		if request.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required for stock decrement")
		}
		if request.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "decrement quantity must be positive").
				WithDetails(map[string]any{"product_id": request.ProductID})
		}

		update := tx.WithContext(ctx).
			Model(&models.InventoryItem{}).
			Where("product_id = ? AND available_qty >= ?", request.ProductID, request.Qty).
			Update("available_qty", gorm.Expr("available_qty - ?", request.Qty))
		if update.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, update.Error, "decrement stock")
		}

		result := StockDecrementResult{
			ProductID: request.ProductID,
			Qty:       request.Qty,
			Applied:   update.RowsAffected == 1,
		}
		if !result.Applied {
			result.Reason = "insufficient stock"
		}
		results = append(results, result)
	}

	return results, nil
}

// RestoreStock returns previously taken units to available inventory. Used
// when an order is unwound after its stock was already committed.
func RestoreStock(ctx context.Context, tx *gorm.DB, requests []StockDecrementRequest) error {
	for _, request := range requests {
		if request.ProductID == uuid.Nil || request.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid stock restore request")
		}
		err := tx.WithContext(ctx).
			Model(&models.InventoryItem{}).
			Where("product_id = ?", request.ProductID).
			Update("available_qty", gorm.Expr("available_qty + ?", request.Qty)).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
		}
	}
	return nil
}
