package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

// OrderLineItem freezes one cart line into the order, including the full
// price breakdown computed at checkout time.
type OrderLineItem struct {
	ID                     uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID                uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:order_line_items_order_id_idx"`
	ProductID              *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Name                   string          `gorm:"column:name;not null"`
	Image                  *string         `gorm:"column:image"`
	KaratSelected          enums.Karat     `gorm:"column:karat_selected;not null"`
	NetWeight              decimal.Decimal `gorm:"column:net_weight;type:numeric(10,3);not null"`
	MakingChargePercentage decimal.Decimal `gorm:"column:making_charge_percentage;type:numeric(5,2);not null"`
	Quantity               int             `gorm:"column:quantity;not null"`
	GoldPrice              int64           `gorm:"column:gold_price;not null"`
	MakingCharge           int64           `gorm:"column:making_charge;not null"`
	GST                    int64           `gorm:"column:gst;not null"`
	UnitTotal              int64           `gorm:"column:unit_total;not null"`
	LineTotal              int64           `gorm:"column:line_total;not null"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime"`
}
