package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
)

// Service exposes catalog reads plus the admin CRUD surface.
type Service interface {
	List(ctx context.Context, input ListInput) (*ProductList, error)
	ListViews(ctx context.Context, input ListInput, karat enums.Karat) ([]ProductView, *string, error)
	Detail(ctx context.Context, id uuid.UUID, karat enums.Karat) (*ProductView, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	pricing *pricing.Provider
}

// NewService builds a product service backed by the provided stack.
func NewService(repo Repository, pricingProvider *pricing.Provider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if pricingProvider == nil {
		return nil, fmt.Errorf("pricing provider required")
	}
	return &service{repo: repo, pricing: pricingProvider}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ProductList, error) {
	list, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

// ListViews prices each row at the current gold rate for the given karat.
func (s *service) ListViews(ctx context.Context, input ListInput, karat enums.Karat) ([]ProductView, *string, error) {
	list, err := s.List(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	views := make([]ProductView, 0, len(list.Items))
	for _, row := range list.Items {
		views = append(views, s.view(row, karat))
	}
	return views, list.NextCursor, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID, karat enums.Karat) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	view := s.view(*row, karat)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		SKU:                    strings.TrimSpace(input.SKU),
		Name:                   strings.TrimSpace(input.Name),
		Description:            input.Description,
		Category:               strings.TrimSpace(input.Category),
		NetWeight:              input.NetWeight,
		GrossWeight:            input.GrossWeight,
		MakingChargePercentage: input.MakingChargePercentage,
		StockQuantity:          input.StockQuantity,
		Images:                 input.Images,
		Tags:                   input.Tags,
		IsActive:               isActive,
		IsFeatured:             input.IsFeatured,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	applyUpdate(row, input)

	if !row.NetWeight.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "net weight must be positive")
	}
	if row.MakingChargePercentage.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "making charge percentage cannot be negative")
	}
	if row.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) view(row models.Product, karat enums.Karat) ProductView {
	weight := row.NetWeight
	return ProductView{
		Product: row,
		Price:   s.pricing.Price(&weight, row.MakingChargePercentage, karat),
	}
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if !input.NetWeight.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "net weight must be positive")
	}
	if input.GrossWeight.LessThan(input.NetWeight) {
		return pkgerrors.New(pkgerrors.CodeValidation, "gross weight cannot be below net weight")
	}
	if input.MakingChargePercentage.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "making charge percentage cannot be negative")
	}
	if input.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	return nil
}

func applyUpdate(row *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Category != nil {
		row.Category = strings.TrimSpace(*input.Category)
	}
	if input.NetWeight != nil {
		row.NetWeight = *input.NetWeight
	}
	if input.GrossWeight != nil {
		row.GrossWeight = *input.GrossWeight
	}
	if input.MakingChargePercentage != nil {
		row.MakingChargePercentage = *input.MakingChargePercentage
	}
	if input.StockQuantity != nil {
		row.StockQuantity = *input.StockQuantity
	}
	if input.Images != nil {
		row.Images = *input.Images
	}
	if input.Tags != nil {
		row.Tags = *input.Tags
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		row.IsFeatured = *input.IsFeatured
	}
}
