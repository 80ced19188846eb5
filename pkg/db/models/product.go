package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents the canonical catalog listing. The core only reads
// product rows; stock mutations go through the inventory reservation path.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description;not null;default:''"`
	Brand       string         `gorm:"column:brand;not null;default:''"`
	Category    string         `gorm:"column:category;not null;default:''"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	Inventory   *InventoryItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Stock returns the authoritative available quantity, zero when no inventory
// row exists yet.
func (p *Product) Stock() int {
	if p == nil || p.Inventory == nil {
		return 0
	}
	return p.Inventory.AvailableQty
}
