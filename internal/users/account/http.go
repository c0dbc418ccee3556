// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nabtahq/nabta/internal/platform/request"
	"github.com/nabtahq/nabta/internal/platform/respond"
	"github.com/nabtahq/nabta/internal/platform/validate"
	"github.com/nabtahq/nabta/internal/users/auth"
)

// Handler implements the profile HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with profile routes.
//
// All endpoints operate on the authenticated caller's own account; the
// auth middleware must already have run.
//
// # Endpoints
//   - GET    /me : Returns the caller's profile.
//   - PATCH  /me : Partially updates the profile.
//   - DELETE /me : Soft-deletes the account and signs out everywhere.
func (handler *Handler) Routes(authed func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(authed)

	router.Get("/me", handler.getProfile)
	router.Patch("/me", handler.updateProfile)
	router.Delete("/me", handler.deleteAccount)

	return router
}

// getProfile handles GET /api/v1/account/me requests.
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.GetProfile(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

type updateProfileRequest struct {
	DisplayName       *string `json:"display_name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
}

// updateProfile handles PATCH /api/v1/account/me requests.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.Required(auth.FieldDisplayName, *input.DisplayName).
			MaxLen(auth.FieldDisplayName, *input.DisplayName, 120)
	}
	if input.PreferredLanguage != nil {
		validator.OneOf(auth.FieldPreferredLanguage, *input.PreferredLanguage, auth.LanguageEnglish, auth.LanguageArabic)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.UpdateProfile(request.Context(), accountID, UpdateProfileInput{
		DisplayName:       input.DisplayName,
		Phone:             input.Phone,
		PreferredLanguage: input.PreferredLanguage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// deleteAccount handles DELETE /api/v1/account/me requests.
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAccount(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
