package controllers

import (
	"net/http"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/api/responses"
	"github.com/saikganesh/navajothi-jewels-backend/api/validators"
	productsvc "github.com/saikganesh/navajothi-jewels-backend/internal/products"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/pagination"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/types"
)

type productListResponse struct {
	Items      []productsvc.ProductView `json:"items"`
	NextCursor *string                  `json:"next_cursor,omitempty"`
}

// ProductsList serves the public catalog with prices at the current rate.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		karat, err := karatFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		input := productsvc.ListInput{
			Filters: productsvc.ListFilters{
				Category:     validators.SanitizeString(query.Get("category"), 64),
				Tag:          validators.SanitizeString(query.Get("tag"), 64),
				Query:        validators.SanitizeString(query.Get("q"), 128),
				FeaturedOnly: query.Get("featured") == "true",
			},
			Pagination: pagination.Params{Limit: limit, Cursor: query.Get("cursor")},
		}

		views, nextCursor, err := svc.ListViews(r.Context(), input, karat)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productListResponse{Items: views, NextCursor: nextCursor})
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		karat, err := karatFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Detail(r.Context(), id, karat)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type createProductRequest struct {
	SKU                    string          `json:"sku" validate:"required"`
	Name                   string          `json:"name" validate:"required"`
	Description            *string         `json:"description,omitempty"`
	Category               string          `json:"category" validate:"required"`
	NetWeight              decimal.Decimal `json:"net_weight" validate:"required"`
	GrossWeight            decimal.Decimal `json:"gross_weight" validate:"required"`
	MakingChargePercentage decimal.Decimal `json:"making_charge_percentage"`
	StockQuantity          int             `json:"stock_quantity" validate:"min=0"`
	Images                 []string        `json:"images,omitempty"`
	Tags                   []string        `json:"tags,omitempty"`
	IsActive               *bool           `json:"is_active,omitempty"`
	IsFeatured             bool            `json:"is_featured"`
}

func (p createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		SKU:                    p.SKU,
		Name:                   p.Name,
		Description:            p.Description,
		Category:               p.Category,
		NetWeight:              p.NetWeight,
		GrossWeight:            p.GrossWeight,
		MakingChargePercentage: p.MakingChargePercentage,
		StockQuantity:          p.StockQuantity,
		Images:                 types.ImageList(p.Images),
		Tags:                   pq.StringArray(p.Tags),
		IsActive:               p.IsActive,
		IsFeatured:             p.IsFeatured,
	}
}

func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type updateProductRequest struct {
	Name                   *string          `json:"name,omitempty"`
	Description            *string          `json:"description,omitempty"`
	Category               *string          `json:"category,omitempty"`
	NetWeight              *decimal.Decimal `json:"net_weight,omitempty"`
	GrossWeight            *decimal.Decimal `json:"gross_weight,omitempty"`
	MakingChargePercentage *decimal.Decimal `json:"making_charge_percentage,omitempty"`
	StockQuantity          *int             `json:"stock_quantity,omitempty"`
	Images                 *[]string        `json:"images,omitempty"`
	Tags                   *[]string        `json:"tags,omitempty"`
	IsActive               *bool            `json:"is_active,omitempty"`
	IsFeatured             *bool            `json:"is_featured,omitempty"`
}

func (p updateProductRequest) toInput() productsvc.UpdateProductInput {
	input := productsvc.UpdateProductInput{
		Name:                   p.Name,
		Description:            p.Description,
		Category:               p.Category,
		NetWeight:              p.NetWeight,
		GrossWeight:            p.GrossWeight,
		MakingChargePercentage: p.MakingChargePercentage,
		StockQuantity:          p.StockQuantity,
		IsActive:               p.IsActive,
		IsFeatured:             p.IsFeatured,
	}
	if p.Images != nil {
		images := types.ImageList(*p.Images)
		input.Images = &images
	}
	if p.Tags != nil {
		tags := pq.StringArray(*p.Tags)
		input.Tags = &tags
	}
	return input
}

func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
