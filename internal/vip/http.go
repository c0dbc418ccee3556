// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package vip

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
	requestutil "github.com/nabtahq/nabta/internal/platform/request"
	"github.com/nabtahq/nabta/internal/platform/respond"
	"github.com/nabtahq/nabta/internal/platform/validate"
)

// Handler implements the VIP program HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with VIP routes.
//
// # Endpoints
//   - GET    /tiers                      : Lists the ladder (public program page).
//   - PUT    /tiers                      : Replaces the ladder (staff).
//   - POST   /enroll                     : Enrolls the caller.
//   - GET    /me                         : Returns the caller's membership card.
//   - POST   /me/redeem                  : Burns points from the caller's balance.
//   - PUT    /members/{accountID}/pin    : Pins a tier for an account (staff).
//   - DELETE /members/{accountID}/pin    : Clears the pin (staff).
func (handler *Handler) Routes(authed, staff func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/tiers", handler.listTiers)

	router.Group(func(member chi.Router) {
		member.Use(authed)
		member.Post("/enroll", handler.enroll)
		member.Get("/me", handler.card)
		member.Post("/me/redeem", handler.redeemPoints)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(staff)
		admin.Put("/tiers", handler.configureTiers)
		admin.Put("/members/{accountID}/pin", handler.pinTier)
		admin.Delete("/members/{accountID}/pin", handler.unpinTier)
	})

	return router
}

// listTiers handles GET /api/v1/vip/tiers requests.
func (handler *Handler) listTiers(writer http.ResponseWriter, request *http.Request) {
	tiers, err := handler.service.ListTiers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tiers)
}

// tierInput is one rung of a replacement ladder.
type tierInput struct {
	ID              string   `json:"id,omitempty"`
	Code            string   `json:"code"`
	NameEn          string   `json:"name_en"`
	NameAr          string   `json:"name_ar"`
	MinSpend        float64  `json:"min_spend"`
	MaxSpend        *float64 `json:"max_spend,omitempty"`
	DiscountPercent float64  `json:"discount_percent"`
}

// configureTiers handles PUT /api/v1/vip/tiers requests.
//
// # Returns
//   - Writes HTTP 200 with the saved ladder.
//   - Writes HTTP 422 if the ladder does not partition the spend range.
func (handler *Handler) configureTiers(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Tiers []tierInput `json:"tiers"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tiers := make([]threshold.Tier, 0, len(input.Tiers))
	for _, tier := range input.Tiers {
		validation := (&validate.Validator{}).
			Required("code", tier.Code).
			Required("name_en", tier.NameEn).
			Required("name_ar", tier.NameAr).
			NonNegative("min_spend", tier.MinSpend).
			NonNegative("discount_percent", tier.DiscountPercent)
		if err := validation.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}

		tiers = append(tiers, threshold.Tier{
			ID:              tier.ID,
			Code:            tier.Code,
			NameEn:          tier.NameEn,
			NameAr:          tier.NameAr,
			MinSpend:        tier.MinSpend,
			MaxSpend:        tier.MaxSpend,
			DiscountPercent: tier.DiscountPercent,
		})
	}

	saved, err := handler.service.ConfigureTiers(request.Context(), tiers)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, saved)
}

// enroll handles POST /api/v1/vip/enroll requests.
func (handler *Handler) enroll(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	membership, err := handler.service.Enroll(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, membership)
}

// card handles GET /api/v1/vip/me requests.
func (handler *Handler) card(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	card, err := handler.service.Card(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}

// redeemPoints handles POST /api/v1/vip/me/redeem requests.
func (handler *Handler) redeemPoints(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Points int `json:"points"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RedeemPoints(request.Context(), accountID, input.Points); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// pinTier handles PUT /api/v1/vip/members/{accountID}/pin requests.
func (handler *Handler) pinTier(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		TierID string `json:"tier_id"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required("tier_id", input.TierID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.ID(request, "accountID")
	if err := handler.service.PinTier(request.Context(), accountID, input.TierID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// unpinTier handles DELETE /api/v1/vip/members/{accountID}/pin requests.
func (handler *Handler) unpinTier(writer http.ResponseWriter, request *http.Request) {
	accountID := requestutil.ID(request, "accountID")
	if err := handler.service.UnpinTier(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
