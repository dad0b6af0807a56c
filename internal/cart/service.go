package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/internal/realtime"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type eventPublisher interface {
	PublishCartEvent(ctx context.Context, userID string, event realtime.Event) error
}

// Service exposes the per-user cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int, karat enums.Karat) (*MutationResult, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*MutationResult, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*MutationResult, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo      Repository
	products  productLoader
	publisher eventPublisher
	pricing   *pricing.Provider
	logger    *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productLoader, publisher eventPublisher, pricingProvider *pricing.Provider, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if pricingProvider == nil {
		return nil, fmt.Errorf("pricing provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		products:  products,
		publisher: publisher,
		pricing:   pricingProvider,
		logger:    logg,
	}, nil
}

// Get returns the denormalized cart with per-line prices at the current rate.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return &Cart{Lines: []Line{}}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	rows, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	cart := &Cart{Lines: make([]Line, 0, len(items))}
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product was removed from the catalog; drop the stale line.
			continue
		}
		line := s.buildLine(item, product)
		cart.Lines = append(cart.Lines, line)
		cart.Total += line.Price.Total * int64(line.Quantity)
	}
	return cart, nil
}

// Add creates the user's line for the product or increments an existing one.
// Different karat selections fold into the same row; karat is display state.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int, karat enums.Karat) (*MutationResult, error) {
	if err := validateIDs(userID, productID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		quantity = 1
	}
	if !karat.IsValid() {
		karat = enums.Karat22
	}

	product, err := s.loadActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	var (
		saved  *models.CartItem
		event  enums.CartEventType
		capped bool
	)
	if existing != nil {
		requested := existing.Quantity + quantity
		existing.Quantity, capped = clampQuantity(requested)
		existing.KaratSelected = karat
		saved, err = s.repo.Update(ctx, existing)
		event = enums.CartEventUpdate
	} else {
		clamped, wasCapped := clampQuantity(quantity)
		capped = wasCapped
		saved, err = s.repo.Create(ctx, &models.CartItem{
			UserID:        userID,
			ProductID:     productID,
			Quantity:      clamped,
			KaratSelected: karat,
		})
		event = enums.CartEventInsert
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}

	s.publish(ctx, userID, realtime.CartEvent(event, productID))

	line := s.buildLine(*saved, *product)
	return &MutationResult{Line: &line, Event: event, Capped: capped}, nil
}

// UpdateQuantity sets the line quantity. Zero or less deletes the line.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*MutationResult, error) {
	if err := validateIDs(userID, productID); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	product, err := s.loadActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	clamped, capped := clampQuantity(quantity)
	existing.Quantity = clamped
	saved, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}

	s.publish(ctx, userID, realtime.CartEvent(enums.CartEventUpdate, productID))

	line := s.buildLine(*saved, *product)
	return &MutationResult{Line: &line, Event: enums.CartEventUpdate, Capped: capped}, nil
}

// Remove deletes the user's line for the product.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*MutationResult, error) {
	if err := validateIDs(userID, productID); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if !deleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	s.publish(ctx, userID, realtime.CartEvent(enums.CartEventDelete, productID))

	return &MutationResult{Event: enums.CartEventDelete, Removed: true}, nil
}

// Clear empties the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}

	s.publish(ctx, userID, realtime.ClearEvent())
	return nil
}

func (s *service) loadActiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}

// publish is best-effort: the authoritative refetch reconciles any miss.
func (s *service) publish(ctx context.Context, userID uuid.UUID, event realtime.Event) {
	if err := s.publisher.PublishCartEvent(ctx, userID.String(), event); err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "cart event publish failed")
	}
}

func (s *service) buildLine(item models.CartItem, product models.Product) Line {
	weight := product.NetWeight
	var image *string
	if len(product.Images) > 0 {
		first := product.Images[0]
		image = &first
	}
	return Line{
		ProductID:              product.ID,
		Name:                   product.Name,
		Image:                  image,
		NetWeight:              product.NetWeight,
		MakingChargePercentage: product.MakingChargePercentage,
		StockQuantity:          product.StockQuantity,
		Quantity:               item.Quantity,
		KaratSelected:          item.KaratSelected,
		Price:                  s.pricing.Price(&weight, product.MakingChargePercentage, item.KaratSelected),
	}
}

func validateIDs(userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return nil
}

func clampQuantity(quantity int) (int, bool) {
	if quantity > MaxQuantity {
		return MaxQuantity, true
	}
	if quantity < 1 {
		return 1, false
	}
	return quantity, false
}
