package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/db"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Entry is one wishlist row with its product summary.
type Entry struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Image         *string         `json:"image,omitempty"`
	NetWeight     decimal.Decimal `json:"net_weight"`
	KaratSelected enums.Karat     `json:"karat_selected"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AddResult distinguishes a fresh add from an already-present pair so the UI
// can say "already in wishlist" instead of a silent no-op.
type AddResult struct {
	Entry         *Entry `json:"entry,omitempty"`
	AlreadyExists bool   `json:"already_exists"`
}

// ToggleResult reports which direction a toggle went.
type ToggleResult struct {
	Added bool `json:"added"`
}

// Service exposes the per-user wishlist operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Add(ctx context.Context, userID, productID uuid.UUID, karat enums.Karat) (*AddResult, error)
	Remove(ctx context.Context, userID, productID uuid.UUID, karat enums.Karat) error
	Toggle(ctx context.Context, userID, productID uuid.UUID, karat enums.Karat) (*ToggleResult, error)
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a wishlist service backed by the provided stack.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	if len(items) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	rows, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist products")
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		entries = append(entries, buildEntry(item, product))
	}
	return entries, nil
}

// Add inserts the (user, product, karat) pair. An existing pair is reported,
// not treated as an error.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, karat enums.Karat) (*AddResult, error) {
	if err := validateKeys(userID, productID, karat); err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, &models.WishlistItem{
		UserID:        userID,
		ProductID:     productID,
		KaratSelected: karat,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return &AddResult{AlreadyExists: true}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wishlist entry")
	}

	entry := buildEntry(*item, *product)
	return &AddResult{Entry: &entry}, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID, karat enums.Karat) error {
	if err := validateKeys(userID, productID, karat); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, userID, productID, karat)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist entry")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist entry not found")
	}
	return nil
}

// Toggle adds the pair when absent and removes it when present.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID, karat enums.Karat) (*ToggleResult, error) {
	if err := validateKeys(userID, productID, karat); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, userID, productID, karat)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist entry")
	}

	if exists {
		if err := s.Remove(ctx, userID, productID, karat); err != nil {
			return nil, err
		}
		return &ToggleResult{Added: false}, nil
	}

	result, err := s.Add(ctx, userID, productID, karat)
	if err != nil {
		return nil, err
	}
	// A concurrent add can race the existence check; either way the pair is
	// present now.
	return &ToggleResult{Added: !result.AlreadyExists}, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func buildEntry(item models.WishlistItem, product models.Product) Entry {
	var image *string
	if len(product.Images) > 0 {
		first := product.Images[0]
		image = &first
	}
	return Entry{
		ProductID:     product.ID,
		Name:          product.Name,
		Image:         image,
		NetWeight:     product.NetWeight,
		KaratSelected: item.KaratSelected,
		CreatedAt:     item.CreatedAt,
	}
}

func validateKeys(userID, productID uuid.UUID, karat enums.Karat) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !karat.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "karat is invalid")
	}
	return nil
}
