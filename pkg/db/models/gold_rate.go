package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoldRate is one row of the append-only rate log. Pricing always reads the
// newest row; history stays for audit.
type GoldRate struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Rate22KT  decimal.Decimal `gorm:"column:kt22_price;type:numeric(12,2);not null"`
	Rate18KT  decimal.Decimal `gorm:"column:kt18_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index:gold_rates_created_at_idx,sort:desc"`
}
