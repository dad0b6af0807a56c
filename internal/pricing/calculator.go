package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

var (
	hundred = decimal.NewFromInt(100)
	gstRate = decimal.NewFromFloat(0.03)

	// Per-gram defaults used until a rate row has been fetched.
	DefaultRate22KT = decimal.NewFromInt(5000)
	DefaultRate18KT = decimal.NewFromInt(4090)
)

// Rate carries the per-gram gold rates used by the calculator.
type Rate struct {
	PerGram22KT decimal.Decimal
	PerGram18KT decimal.Decimal
}

// DefaultRate returns the static fallback rates.
func DefaultRate() Rate {
	return Rate{PerGram22KT: DefaultRate22KT, PerGram18KT: DefaultRate18KT}
}

// Breakdown is a derived price in whole rupees. Total is rounded once from
// the unrounded chain; the three components are rounded independently for
// display, so Total may differ from their sum by a rupee.
type Breakdown struct {
	GoldPrice    int64 `json:"gold_price"`
	MakingCharge int64 `json:"making_charge"`
	GST          int64 `json:"gst"`
	Total        int64 `json:"total"`
}

// Calculate derives the price for netWeight grams of gold content.
//
// Only the literal karat "18kt" selects the 18kt rate; every other value,
// including 14kt and 9kt, uses the 22kt rate. Rounding is half away from
// zero and happens only at the end of each returned quantity.
func Calculate(netWeight *decimal.Decimal, makingChargePct decimal.Decimal, karat enums.Karat, rate Rate) Breakdown {
	if netWeight == nil || !netWeight.IsPositive() {
		return Breakdown{}
	}

	perGram := rate.PerGram22KT
	if karat == enums.Karat18 {
		perGram = rate.PerGram18KT
	}

	goldValue := netWeight.Mul(perGram)
	makingValue := goldValue.Mul(makingChargePct).Div(hundred)
	subtotal := goldValue.Add(makingValue)
	gstValue := subtotal.Mul(gstRate)
	total := subtotal.Add(gstValue)

	return Breakdown{
		GoldPrice:    goldValue.Round(0).IntPart(),
		MakingCharge: makingValue.Round(0).IntPart(),
		GST:          gstValue.Round(0).IntPart(),
		Total:        total.Round(0).IntPart(),
	}
}
