package goldrates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type broadcaster interface {
	Publish(ctx context.Context, channel string, payload any) error
	RateChannelKey() string
}

type refresher interface {
	Refresh(ctx context.Context)
}

// RateDTO is the storefront view of the current per-gram rates. Fallback is
// set when no published rate exists yet and the static defaults are in use.
type RateDTO struct {
	Rate22KT decimal.Decimal `json:"rate_22kt"`
	Rate18KT decimal.Decimal `json:"rate_18kt"`
	AsOf     *time.Time      `json:"as_of,omitempty"`
	Fallback bool            `json:"fallback"`
}

// Service exposes gold rate reads and the admin publish operation.
type Service interface {
	Latest(ctx context.Context) (*RateDTO, error)
	History(ctx context.Context, limit int) ([]models.GoldRate, error)
	Publish(ctx context.Context, rate22, rate18 decimal.Decimal) (*models.GoldRate, error)
}

type service struct {
	repo      Repository
	broadcast broadcaster
	pricing   refresher
	logger    *logger.Logger
}

// NewService builds a gold rate service backed by the provided stack.
func NewService(repo Repository, broadcast broadcaster, pricingProvider refresher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gold rate repository required")
	}
	if broadcast == nil {
		return nil, fmt.Errorf("broadcaster required")
	}
	if pricingProvider == nil {
		return nil, fmt.Errorf("pricing provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, broadcast: broadcast, pricing: pricingProvider, logger: logg}, nil
}

// Latest returns the newest published rate, or the static defaults when the
// log is still empty. Storefront pricing never sees an error here.
func (s *service) Latest(ctx context.Context) (*RateDTO, error) {
	row, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &RateDTO{
				Rate22KT: pricing.DefaultRate22KT,
				Rate18KT: pricing.DefaultRate18KT,
				Fallback: true,
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest gold rate")
	}
	asOf := row.CreatedAt
	return &RateDTO{Rate22KT: row.Rate22KT, Rate18KT: row.Rate18KT, AsOf: &asOf}, nil
}

func (s *service) History(ctx context.Context, limit int) ([]models.GoldRate, error) {
	rates, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gold rate history")
	}
	return rates, nil
}

// Publish appends a rate row, refreshes the cached pricing rate, and
// broadcasts so connected storefronts reprice.
func (s *service) Publish(ctx context.Context, rate22, rate18 decimal.Decimal) (*models.GoldRate, error) {
	if !rate22.IsPositive() || !rate18.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gold rates must be positive")
	}

	row, err := s.repo.Insert(ctx, &models.GoldRate{Rate22KT: rate22, Rate18KT: rate18})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert gold rate")
	}

	s.pricing.Refresh(ctx)

	payload := map[string]any{
		"rate_22kt": rate22,
		"rate_18kt": rate18,
	}
	if err := s.broadcast.Publish(ctx, s.broadcast.RateChannelKey(), payload); err != nil {
		// Broadcast failure must not undo a published rate.
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "gold rate broadcast failed")
	}

	return row, nil
}
