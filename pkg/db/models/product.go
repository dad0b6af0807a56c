package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/types"
)

// Product represents a catalog listing. Net weight is grams of gold content;
// the selling price is always derived from the current gold rate, never stored.
type Product struct {
	ID                     uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SKU                    string          `gorm:"column:sku;not null;uniqueIndex:products_sku_key"`
	Name                   string          `gorm:"column:name;not null"`
	Description            *string         `gorm:"column:description"`
	Category               string          `gorm:"column:category;not null"`
	NetWeight              decimal.Decimal `gorm:"column:net_weight;type:numeric(10,3);not null"`
	GrossWeight            decimal.Decimal `gorm:"column:gross_weight;type:numeric(10,3);not null"`
	MakingChargePercentage decimal.Decimal `gorm:"column:making_charge_percentage;type:numeric(5,2);not null;default:0"`
	StockQuantity          int             `gorm:"column:stock_quantity;not null;default:0"`
	Images                 types.ImageList `gorm:"column:images;type:jsonb"`
	Tags                   pq.StringArray  `gorm:"column:tags;type:text[]"`
	IsActive               bool            `gorm:"column:is_active;not null;default:true"`
	IsFeatured             bool            `gorm:"column:is_featured;not null;default:false"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
