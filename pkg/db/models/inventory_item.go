package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks the available count per product. AvailableQty is the
// single source of truth for stock; decrements must be conditional.
type InventoryItem struct {
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	AvailableQty int       `gorm:"column:available_qty;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
