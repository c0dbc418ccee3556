// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nabtahq/nabta/internal/platform/request"
	"github.com/nabtahq/nabta/internal/platform/respond"
	"github.com/nabtahq/nabta/internal/platform/validate"
)

// Handler implements the configuration HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with settings routes.
//
// # Endpoints
//   - GET /{key}          : Returns the live document (public, storefront reads it).
//   - PUT /{key}          : Appends a new validated version (staff).
//   - GET /{key}/history  : Returns recent versions (staff).
func (handler *Handler) Routes(guard func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/{key}", handler.get)

	router.Group(func(staff chi.Router) {
		staff.Use(guard)
		staff.Put("/{key}", handler.update)
		staff.Get("/{key}/history", handler.history)
	})

	return router
}

// get handles GET /api/v1/settings/{key} requests.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Param(request, "key")
	if err := knownKey(key); err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.Get(request.Context(), key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, setting)
}

// updateRequest wraps the raw document so the envelope stays uniform.
type updateRequest struct {
	Document json.RawMessage `json:"document"`
}

// update handles PUT /api/v1/settings/{key} requests.
//
// # Returns
//   - Writes HTTP 200 with the persisted version.
//   - Writes HTTP 400 if the document violates its schema.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if len(input.Document) == 0 {
		respond.Error(writer, request, validate.RequiredError("document", "is required"))
		return
	}

	setting, err := handler.service.Update(request.Context(), requestutil.Param(request, "key"), input.Document, claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, setting)
}

// history handles GET /api/v1/settings/{key}/history requests.
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	history, err := handler.service.History(request.Context(), requestutil.Param(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history)
}
