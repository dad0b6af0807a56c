package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/api/middleware"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
)

// actorID resolves the authenticated user from the request context.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return id, nil
}

// karatFromQuery reads the optional karat selector, defaulting to 22kt.
func karatFromQuery(r *http.Request) (enums.Karat, error) {
	raw := r.URL.Query().Get("karat")
	if raw == "" {
		return enums.Karat22, nil
	}
	karat, err := enums.ParseKarat(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "karat must be 22kt or 18kt")
	}
	return karat, nil
}
