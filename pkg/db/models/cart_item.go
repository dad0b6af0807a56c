package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

// CartItem is one persisted cart line. The row is unique per (user, product);
// the karat selection is a display attribute carried on the row, not part of
// the key, so adds with different karats fold into the same line.
type CartItem struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID   `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_items_user_product_key"`
	ProductID     uuid.UUID   `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_user_product_key"`
	Quantity      int         `gorm:"column:quantity;not null;default:1"`
	KaratSelected enums.Karat `gorm:"column:karat_selected;not null;default:'22kt'"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
