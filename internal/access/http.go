// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nabtahq/nabta/internal/platform/ctxutil"
	requestutil "github.com/nabtahq/nabta/internal/platform/request"
	"github.com/nabtahq/nabta/internal/platform/respond"
	"github.com/nabtahq/nabta/internal/platform/sec"
	"github.com/nabtahq/nabta/internal/platform/validate"
)

// Handler implements the staff-management HTTP endpoints.
//
// # Scope
//
// This handler exposes role resolution for the current actor plus the
// grant/revoke operations that back the dashboard's staff screen.
type Handler struct {
	resolver *Resolver
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Routes returns a [chi.Router] configured with access-control routes.
//
// # Endpoints
//   - GET    /me      : Resolves the caller's role and capability set.
//   - GET    /        : Lists all role assignments (admin).
//   - POST   /grants  : Grants a staff role (admin).
//   - DELETE /grants  : Revokes a staff role (admin).
//
// Authentication and the CapManageRoles guard on the admin routes are
// attached by the server when mounting this router.
func (handler *Handler) Routes(guard func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.resolveMe)

	router.Group(func(admin chi.Router) {
		admin.Use(guard)
		admin.Get("/", handler.listAssignments)
		admin.Post("/grants", handler.grant)
		admin.Delete("/grants", handler.revoke)
	})

	return router
}

// resolveMe handles GET /api/v1/access/me requests.
//
// # Returns
//   - Writes HTTP 200 with the caller's [Resolution].
//   - Writes HTTP 401 if the request carries no identity.
//
// A role-store failure still writes HTTP 200 with the fail-closed customer
// resolution; the error is logged server-side, never used to fail open.
func (handler *Handler) resolveMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	resolution, resolveErr := handler.resolver.Resolve(request.Context(), claims.UserID)
	if resolveErr != nil {
		// Fail closed: serve the customer resolution, keep the error server-side.
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "role_resolution_degraded",
			slog.String("account_id", claims.UserID),
			slog.Any("error", resolveErr),
		)
	}

	respond.OK(writer, resolution)
}

// listAssignments handles GET /api/v1/access/ requests.
func (handler *Handler) listAssignments(writer http.ResponseWriter, request *http.Request) {
	assignments, err := handler.resolver.ListAssignments(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, assignments)
}

// grantRequest represents the JSON payload for a role grant.
type grantRequest struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

// grant handles POST /api/v1/access/grants requests.
//
// # Returns
//   - Writes HTTP 201 Created with the new assignment.
//   - Writes HTTP 400 if the role is not a staff role.
//   - Writes HTTP 409 if the account already holds the role.
func (handler *Handler) grant(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input grantRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validation := (&validate.Validator{}).
		Required("account_id", input.AccountID).
		UUID("account_id", input.AccountID).
		Required("role", input.Role)
	if err := validation.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	assignment, err := handler.resolver.Grant(request.Context(), GrantInput{
		AccountID: input.AccountID,
		Role:      sec.Role(input.Role),
		GrantedBy: claims.UserID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, assignment)
}

// revoke handles DELETE /api/v1/access/grants requests.
func (handler *Handler) revoke(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input grantRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validation := (&validate.Validator{}).
		Required("account_id", input.AccountID).
		Required("role", input.Role)
	if err := validation.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.resolver.Revoke(request.Context(), input.AccountID, sec.Role(input.Role), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
