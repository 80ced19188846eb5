package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/pkg/enums"
)

// Order is produced by checkout and immutable afterwards except for Status.
// TotalCents is a snapshot taken at placement time and never recomputed.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Status     enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalCents int               `gorm:"column:total_cents;not null"`
	Lines      []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
