// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/nabtahq/nabta/internal/platform/request"
	"github.com/nabtahq/nabta/internal/platform/respond"
	"github.com/nabtahq/nabta/internal/platform/validate"
	"github.com/nabtahq/nabta/pkg/pagination"
	"github.com/nabtahq/nabta/pkg/query"
)

// Handler implements the catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET    /products            : Lists active products (storefront).
//   - GET    /products/{slug}     : Returns one product by slug (storefront).
//   - GET    /categories          : Lists categories (storefront).
//   - POST   /products            : Creates a product (staff).
//   - PUT    /products/{id}       : Updates a product (staff).
//   - DELETE /products/{id}       : Soft-deletes a product (staff).
//   - POST   /categories          : Creates a category (staff).
//   - PUT    /categories/{id}     : Updates a category (staff).
//   - DELETE /categories/{id}     : Soft-deletes a category (staff).
func (handler *Handler) Routes(staff func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/products", handler.listProducts)
	router.Get("/products/{slug}", handler.getProduct)
	router.Get("/categories", handler.listCategories)

	router.Group(func(admin chi.Router) {
		admin.Use(staff)
		admin.Post("/products", handler.createProduct)
		admin.Put("/products/{id}", handler.updateProduct)
		admin.Delete("/products/{id}", handler.deleteProduct)
		admin.Post("/categories", handler.createCategory)
		admin.Put("/categories/{id}", handler.updateCategory)
		admin.Delete("/categories/{id}", handler.deleteCategory)
	})

	return router
}

// listProducts handles GET /api/v1/catalog/products requests.
//
// Query parameters: ?category=<id>[,<id>...], ?q=<search>, ?all=1 (staff listings
// include inactive products), plus the standard pagination parameters.
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	filter := ProductFilter{
		CategoryIDs: query.StringSlice(request.URL.Query().Get("category")),
		Search:      request.URL.Query().Get("q"),
		ActiveOnly:  request.URL.Query().Get("all") != "1",
	}

	products, meta, err := handler.service.ListProducts(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, meta)
}

// getProduct handles GET /api/v1/catalog/products/{slug} requests.
func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.service.GetProductBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// productRequest represents the JSON payload for product writes.
type productRequest struct {
	SKU           string   `json:"sku"`
	NameEn        string   `json:"name_en"`
	NameAr        string   `json:"name_ar"`
	DescriptionEn string   `json:"description_en"`
	DescriptionAr string   `json:"description_ar"`
	CareEn        string   `json:"care_en"`
	CareAr        string   `json:"care_ar"`
	CategoryID    string   `json:"category_id"`
	Price         float64  `json:"price"`
	CompareAt     *float64 `json:"compare_at_price"`
	Stock         int      `json:"stock"`
	IsActive      bool     `json:"is_active"`
	ImageURL      string   `json:"image_url"`
}

func (payload *productRequest) validate() error {
	return (&validate.Validator{}).
		Required("sku", payload.SKU).
		Required("name_en", payload.NameEn).
		Required("name_ar", payload.NameAr).
		Required("category_id", payload.CategoryID).
		UUID("category_id", payload.CategoryID).
		NonNegative("price", payload.Price).
		Custom("stock", payload.Stock < 0, "must be zero or positive").
		Err()
}

func (payload *productRequest) toInput() ProductInput {
	return ProductInput{
		SKU:           payload.SKU,
		NameEn:        payload.NameEn,
		NameAr:        payload.NameAr,
		DescriptionEn: payload.DescriptionEn,
		DescriptionAr: payload.DescriptionAr,
		CareEn:        payload.CareEn,
		CareAr:        payload.CareAr,
		CategoryID:    payload.CategoryID,
		Price:         payload.Price,
		CompareAt:     payload.CompareAt,
		Stock:         payload.Stock,
		IsActive:      payload.IsActive,
		ImageURL:      payload.ImageURL,
	}
}

// createProduct handles POST /api/v1/catalog/products requests.
func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	var payload productRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.CreateProduct(request.Context(), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

// updateProduct handles PUT /api/v1/catalog/products/{id} requests.
func (handler *Handler) updateProduct(writer http.ResponseWriter, request *http.Request) {
	var payload productRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.UpdateProduct(request.Context(), requestutil.ID(request, "id"), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// deleteProduct handles DELETE /api/v1/catalog/products/{id} requests.
func (handler *Handler) deleteProduct(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteProduct(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listCategories handles GET /api/v1/catalog/categories requests.
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, categories)
}

// categoryRequest represents the JSON payload for category writes.
type categoryRequest struct {
	NameEn        string `json:"name_en"`
	NameAr        string `json:"name_ar"`
	DescriptionEn string `json:"description_en"`
	DescriptionAr string `json:"description_ar"`
	ParentID      string `json:"parent_id"`
	Position      int    `json:"position"`
}

func (payload *categoryRequest) validate() error {
	validation := (&validate.Validator{}).
		Required("name_en", payload.NameEn).
		Required("name_ar", payload.NameAr)
	if payload.ParentID != "" {
		validation.UUID("parent_id", payload.ParentID)
	}
	return validation.Err()
}

// createCategory handles POST /api/v1/catalog/categories requests.
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var payload categoryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), CategoryInput{
		NameEn:        payload.NameEn,
		NameAr:        payload.NameAr,
		DescriptionEn: payload.DescriptionEn,
		DescriptionAr: payload.DescriptionAr,
		ParentID:      payload.ParentID,
		Position:      payload.Position,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

// updateCategory handles PUT /api/v1/catalog/categories/{id} requests.
func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var payload categoryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), requestutil.ID(request, "id"), CategoryInput{
		NameEn:        payload.NameEn,
		NameAr:        payload.NameAr,
		DescriptionEn: payload.DescriptionEn,
		DescriptionAr: payload.DescriptionAr,
		ParentID:      payload.ParentID,
		Position:      payload.Position,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

// deleteCategory handles DELETE /api/v1/catalog/categories/{id} requests.
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCategory(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
