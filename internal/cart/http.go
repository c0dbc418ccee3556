// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nabtahq/nabta/internal/platform/request"
	"github.com/nabtahq/nabta/internal/platform/respond"
	"github.com/nabtahq/nabta/internal/platform/validate"
	"github.com/nabtahq/nabta/pkg/pagination"
)

// Handler implements the cart and order HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with cart and order routes.
//
// Every endpoint requires an authenticated caller; carts are per account.
//
// # Endpoints
//   - GET    /me                  : Returns the active cart.
//   - GET    /summary             : Prices the active cart.
//   - PUT    /items               : Adds or replaces a cart line.
//   - DELETE /items/{productID}   : Removes a cart line.
//   - POST   /checkout            : Converts the cart into an order.
//   - GET    /orders              : Lists the caller's orders.
//   - GET    /orders/{orderID}    : Returns one of the caller's orders.
func (handler *Handler) Routes(authed func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(authed)

	router.Get("/me", handler.activeCart)
	router.Get("/summary", handler.summary)
	router.Put("/items", handler.setItem)
	router.Delete("/items/{productID}", handler.removeItem)
	router.Post("/checkout", handler.checkout)
	router.Get("/orders", handler.listOrders)
	router.Get("/orders/{orderID}", handler.getOrder)

	return router
}

// activeCart handles GET /api/v1/cart/me requests.
func (handler *Handler) activeCart(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.service.ActiveCart(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cart)
}

// summary handles GET /api/v1/cart/summary requests.
func (handler *Handler) summary(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Summarize(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

// setItem handles PUT /api/v1/cart/items requests.
func (handler *Handler) setItem(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validation := (&validate.Validator{}).
		Required("product_id", input.ProductID).
		Positive("quantity", float64(input.Quantity))
	if err := validation.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	cart, err := handler.service.SetItem(request.Context(), accountID, input.ProductID, input.Quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cart)
}

// removeItem handles DELETE /api/v1/cart/items/{productID} requests.
func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID := requestutil.ID(request, "productID")
	cart, err := handler.service.RemoveItem(request.Context(), accountID, productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cart)
}

// checkout handles POST /api/v1/cart/checkout requests.
func (handler *Handler) checkout(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.Checkout(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

// listOrders handles GET /api/v1/cart/orders requests.
func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	orders, meta, err := handler.service.ListOrders(request.Context(), accountID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, meta)
}

// getOrder handles GET /api/v1/cart/orders/{orderID} requests.
func (handler *Handler) getOrder(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orderID := requestutil.ID(request, "orderID")
	order, err := handler.service.GetOrder(request.Context(), accountID, orderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}
