package goldrates

import (
	"context"

	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
)

// Repository defines persistence operations for the append-only rate log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Latest(ctx context.Context) (*models.GoldRate, error)
	Insert(ctx context.Context, rate *models.GoldRate) (*models.GoldRate, error)
	History(ctx context.Context, limit int) ([]models.GoldRate, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gold rate repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Latest(ctx context.Context) (*models.GoldRate, error) {
	var rate models.GoldRate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) Insert(ctx context.Context, rate *models.GoldRate) (*models.GoldRate, error) {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *repository) History(ctx context.Context, limit int) ([]models.GoldRate, error) {
	if limit <= 0 {
		limit = 30
	}
	var rates []models.GoldRate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
