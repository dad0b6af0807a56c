package products

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/pagination"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/types"
)

// ListFilters describe the supported filter knobs for the catalog endpoint.
type ListFilters struct {
	Category     string `json:"category,omitempty"`
	Tag          string `json:"tag,omitempty"`
	Query        string `json:"q,omitempty"`
	FeaturedOnly bool   `json:"featured_only,omitempty"`

	// IncludeInactive is only honored for admin listings.
	IncludeInactive bool `json:"-"`
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductList is one page of catalog rows plus the cursor for the next page.
type ProductList struct {
	Items      []models.Product `json:"items"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// ProductView decorates a catalog row with its derived price at the current
// gold rate.
type ProductView struct {
	models.Product
	Price pricing.Breakdown `json:"price"`
}

// CreateProductInput is the admin payload for a new listing.
type CreateProductInput struct {
	SKU                    string
	Name                   string
	Description            *string
	Category               string
	NetWeight              decimal.Decimal
	GrossWeight            decimal.Decimal
	MakingChargePercentage decimal.Decimal
	StockQuantity          int
	Images                 types.ImageList
	Tags                   pq.StringArray
	IsActive               *bool
	IsFeatured             bool
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name                   *string
	Description            *string
	Category               *string
	NetWeight              *decimal.Decimal
	GrossWeight            *decimal.Decimal
	MakingChargePercentage *decimal.Decimal
	StockQuantity          *int
	Images                 *types.ImageList
	Tags                   *pq.StringArray
	IsActive               *bool
	IsFeatured             *bool
}
