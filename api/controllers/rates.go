package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/saikganesh/navajothi-jewels-backend/api/responses"
	"github.com/saikganesh/navajothi-jewels-backend/api/validators"
	ratesvc "github.com/saikganesh/navajothi-jewels-backend/internal/goldrates"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

func RatesLatest(svc ratesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rate, err := svc.Latest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

func RatesHistory(svc ratesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

type publishRateRequest struct {
	Rate22KT decimal.Decimal `json:"rate_22kt" validate:"required"`
	Rate18KT decimal.Decimal `json:"rate_18kt" validate:"required"`
}

// RatesPublish records today's per-gram rates and broadcasts them to open
// storefront sessions.
func RatesPublish(svc ratesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload publishRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Publish(r.Context(), payload.Rate22KT, payload.Rate18KT)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}
