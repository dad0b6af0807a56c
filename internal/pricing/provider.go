package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type rateSource interface {
	Latest(ctx context.Context) (*models.GoldRate, error)
}

// Provider caches the most recent gold rate and prices lines against it.
// Rate fetch failures are logged and swallowed; the last known rate (or the
// static defaults) stays in effect, so pricing never fails a caller.
type Provider struct {
	source rateSource
	logger *logger.Logger

	mu   sync.RWMutex
	rate Rate
}

// NewProvider builds a provider seeded with the static default rates.
func NewProvider(source rateSource, logg *logger.Logger) (*Provider, error) {
	if source == nil {
		return nil, fmt.Errorf("rate source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Provider{
		source: source,
		logger: logg,
		rate:   DefaultRate(),
	}, nil
}

// Refresh refetches the newest rate row. A missing row or fetch error leaves
// the cached rate untouched.
func (p *Provider) Refresh(ctx context.Context) {
	row, err := p.source.Latest(ctx)
	if err != nil {
		p.logger.Warn(p.logger.WithField(ctx, "error", err.Error()), "gold rate refresh failed, keeping last known rate")
		return
	}
	if row == nil {
		return
	}

	p.mu.Lock()
	p.rate = Rate{PerGram22KT: row.Rate22KT, PerGram18KT: row.Rate18KT}
	p.mu.Unlock()
}

// Current returns the cached rate.
func (p *Provider) Current() Rate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rate
}

// Price runs the calculator against the cached rate.
func (p *Provider) Price(netWeight *decimal.Decimal, makingChargePct decimal.Decimal, karat enums.Karat) Breakdown {
	return Calculate(netWeight, makingChargePct, karat, p.Current())
}
