package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

// MaxQuantity is the per-line ceiling. Excess is clamped, never rejected.
const MaxQuantity = 10

// Line is one denormalized cart row for display.
type Line struct {
	ProductID              uuid.UUID         `json:"product_id"`
	Name                   string            `json:"name"`
	Image                  *string           `json:"image,omitempty"`
	NetWeight              decimal.Decimal   `json:"net_weight"`
	MakingChargePercentage decimal.Decimal   `json:"making_charge_percentage"`
	StockQuantity          int               `json:"stock_quantity"`
	Quantity               int               `json:"quantity"`
	KaratSelected          enums.Karat       `json:"karat_selected"`
	Price                  pricing.Breakdown `json:"price"`
}

// Cart is the user's full cart with an order total derived at render time.
type Cart struct {
	Lines []Line `json:"lines"`
	Total int64  `json:"total"`
}

// MutationResult reports what a cart write actually did. Capped is set when
// the requested quantity hit the ceiling so the UI can say so.
type MutationResult struct {
	Line    *Line               `json:"line,omitempty"`
	Event   enums.CartEventType `json:"event"`
	Capped  bool                `json:"capped"`
	Removed bool                `json:"removed"`
}
