// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package catalog

import (
	"context"
	"log/slog"

	"github.com/nabtahq/nabta/internal/platform/constants"
	"github.com/nabtahq/nabta/internal/platform/events"
	"github.com/nabtahq/nabta/pkg/pagination"
	"github.com/nabtahq/nabta/pkg/slug"
	"github.com/nabtahq/nabta/pkg/uuid"
)

// FeedPublisher is the slice of [events.Feed] this service needs.
type FeedPublisher interface {
	Publish(ctx context.Context, channel string, event events.Event)
}

// Service implements catalog use cases.
type Service struct {
	products   ProductRepository
	categories CategoryRepository
	feed       FeedPublisher
	logger     *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(products ProductRepository, categories CategoryRepository, feed FeedPublisher, logger *slog.Logger) *Service {
	return &Service{
		products:   products,
		categories: categories,
		feed:       feed,
		logger:     logger,
	}
}

// ProductInput holds the staff-provided product fields.
type ProductInput struct {
	SKU           string
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	CareEn        string
	CareAr        string
	CategoryID    string
	Price         float64
	CompareAt     *float64
	Stock         int
	IsActive      bool
	ImageURL      string
}

// CreateProduct persists a new product.
//
// # Business Rules
//   - The slug is derived from the English name; Arabic is display data.
//   - The category must exist.
func (service *Service) CreateProduct(context context.Context, input ProductInput) (*Product, error) {
	if _, err := service.categories.FindByID(context, input.CategoryID); err != nil {
		return nil, err
	}

	product := &Product{
		ID:            uuid.New(),
		Slug:          slug.From(input.NameEn),
		SKU:           input.SKU,
		NameEn:        input.NameEn,
		NameAr:        input.NameAr,
		DescriptionEn: input.DescriptionEn,
		DescriptionAr: input.DescriptionAr,
		CareEn:        input.CareEn,
		CareAr:        input.CareAr,
		CategoryID:    input.CategoryID,
		Price:         input.Price,
		CompareAt:     input.CompareAt,
		Stock:         input.Stock,
		IsActive:      input.IsActive,
		ImageURL:      input.ImageURL,
	}

	if err := service.products.Create(context, product); err != nil {
		return nil, err
	}

	service.publishChange(context, "product.created", product.ID)
	return product, nil
}

// UpdateProduct applies staff edits to an existing product.
func (service *Service) UpdateProduct(context context.Context, id string, input ProductInput) (*Product, error) {
	product, err := service.products.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != product.CategoryID {
		if _, err := service.categories.FindByID(context, input.CategoryID); err != nil {
			return nil, err
		}
	}

	// A renamed product keeps regenerating its slug; stable links go
	// through the ID-based dashboard routes.
	product.Slug = slug.From(input.NameEn)
	product.SKU = input.SKU
	product.NameEn = input.NameEn
	product.NameAr = input.NameAr
	product.DescriptionEn = input.DescriptionEn
	product.DescriptionAr = input.DescriptionAr
	product.CareEn = input.CareEn
	product.CareAr = input.CareAr
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.CompareAt = input.CompareAt
	product.Stock = input.Stock
	product.IsActive = input.IsActive
	product.ImageURL = input.ImageURL

	if err := service.products.Update(context, product); err != nil {
		return nil, err
	}

	service.publishChange(context, "product.updated", product.ID)
	return product, nil
}

// GetProduct returns a product by ID.
func (service *Service) GetProduct(context context.Context, id string) (*Product, error) {
	return service.products.FindByID(context, id)
}

// GetProductBySlug returns a product by its storefront slug.
func (service *Service) GetProductBySlug(context context.Context, productSlug string) (*Product, error) {
	return service.products.FindBySlug(context, productSlug)
}

// ListProducts returns a filtered page of products with pagination metadata.
func (service *Service) ListProducts(context context.Context, filter ProductFilter, page pagination.Params) ([]Product, pagination.Meta, error) {
	products, total, err := service.products.List(context, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return products, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// DeleteProduct soft-deletes a product.
func (service *Service) DeleteProduct(context context.Context, id string) error {
	if err := service.products.SoftDelete(context, id); err != nil {
		return err
	}

	service.publishChange(context, "product.deleted", id)
	return nil
}

// # Categories

// CategoryInput holds the staff-provided category fields.
type CategoryInput struct {
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	ParentID      string
	Position      int
}

// CreateCategory persists a new category.
func (service *Service) CreateCategory(context context.Context, input CategoryInput) (*Category, error) {
	if input.ParentID != "" {
		if _, err := service.categories.FindByID(context, input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &Category{
		ID:            uuid.New(),
		Slug:          slug.From(input.NameEn),
		NameEn:        input.NameEn,
		NameAr:        input.NameAr,
		DescriptionEn: input.DescriptionEn,
		DescriptionAr: input.DescriptionAr,
		ParentID:      input.ParentID,
		Position:      input.Position,
	}

	if err := service.categories.Create(context, category); err != nil {
		return nil, err
	}

	service.publishChange(context, "category.created", category.ID)
	return category, nil
}

// UpdateCategory applies staff edits to an existing category.
func (service *Service) UpdateCategory(context context.Context, id string, input CategoryInput) (*Category, error) {
	category, err := service.categories.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	category.Slug = slug.From(input.NameEn)
	category.NameEn = input.NameEn
	category.NameAr = input.NameAr
	category.DescriptionEn = input.DescriptionEn
	category.DescriptionAr = input.DescriptionAr
	category.ParentID = input.ParentID
	category.Position = input.Position

	if err := service.categories.Update(context, category); err != nil {
		return nil, err
	}

	service.publishChange(context, "category.updated", category.ID)
	return category, nil
}

// ListCategories returns all categories ordered by position.
func (service *Service) ListCategories(context context.Context) ([]Category, error) {
	return service.categories.List(context)
}

// DeleteCategory soft-deletes a category.
func (service *Service) DeleteCategory(context context.Context, id string) error {
	if err := service.categories.SoftDelete(context, id); err != nil {
		return err
	}

	service.publishChange(context, "category.deleted", id)
	return nil
}

func (service *Service) publishChange(context context.Context, kind, subject string) {
	service.feed.Publish(context, constants.FeedCatalog, events.Event{
		Kind:    kind,
		Subject: subject,
	})
}
