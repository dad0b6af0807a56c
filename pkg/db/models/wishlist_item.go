package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

// WishlistItem marks a product+karat pair for later purchase. Unlike cart
// lines, different karats of the same product are distinct entries.
type WishlistItem struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID   `gorm:"column:user_id;type:uuid;not null;uniqueIndex:wishlist_items_user_product_karat_key"`
	ProductID     uuid.UUID   `gorm:"column:product_id;type:uuid;not null;uniqueIndex:wishlist_items_user_product_karat_key"`
	KaratSelected enums.Karat `gorm:"column:karat_selected;not null;uniqueIndex:wishlist_items_user_product_karat_key"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
}
