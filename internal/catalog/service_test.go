// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/constants"
	"github.com/nabtahq/nabta/internal/platform/events"
	"github.com/nabtahq/nabta/pkg/pagination"
)

type stubProductRepository struct {
	products map[string]*Product
}

func newStubProductRepository() *stubProductRepository {
	return &stubProductRepository{products: make(map[string]*Product)}
}

func (stub *stubProductRepository) FindByID(_ context.Context, id string) (*Product, error) {
	if product, found := stub.products[id]; found {
		copied := *product
		return &copied, nil
	}
	return nil, apperr.NotFound("Product")
}

func (stub *stubProductRepository) FindBySlug(_ context.Context, slug string) (*Product, error) {
	for _, product := range stub.products {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Product")
}

func (stub *stubProductRepository) List(_ context.Context, filter ProductFilter, _ pagination.Params) ([]Product, int, error) {
	matches := make([]Product, 0)
	for _, product := range stub.products {
		if filter.ActiveOnly && !product.IsActive {
			continue
		}
		matches = append(matches, *product)
	}
	return matches, len(matches), nil
}

func (stub *stubProductRepository) Create(_ context.Context, product *Product) error {
	copied := *product
	stub.products[product.ID] = &copied
	return nil
}

func (stub *stubProductRepository) Update(_ context.Context, product *Product) error {
	if _, found := stub.products[product.ID]; !found {
		return apperr.NotFound("Product")
	}
	copied := *product
	stub.products[product.ID] = &copied
	return nil
}

func (stub *stubProductRepository) AdjustStock(_ context.Context, id string, delta int) error {
	product, found := stub.products[id]
	if !found {
		return apperr.NotFound("Product")
	}
	if product.Stock+delta < 0 {
		return apperr.Conflict("Insufficient stock")
	}
	product.Stock += delta
	return nil
}

func (stub *stubProductRepository) SoftDelete(_ context.Context, id string) error {
	if _, found := stub.products[id]; !found {
		return apperr.NotFound("Product")
	}
	delete(stub.products, id)
	return nil
}

type stubCategoryRepository struct {
	categories map[string]*Category
}

func newStubCategoryRepository() *stubCategoryRepository {
	return &stubCategoryRepository{categories: make(map[string]*Category)}
}

func (stub *stubCategoryRepository) FindByID(_ context.Context, id string) (*Category, error) {
	if category, found := stub.categories[id]; found {
		copied := *category
		return &copied, nil
	}
	return nil, apperr.NotFound("Category")
}

func (stub *stubCategoryRepository) List(_ context.Context) ([]Category, error) {
	all := make([]Category, 0, len(stub.categories))
	for _, category := range stub.categories {
		all = append(all, *category)
	}
	return all, nil
}

func (stub *stubCategoryRepository) Create(_ context.Context, category *Category) error {
	copied := *category
	stub.categories[category.ID] = &copied
	return nil
}

func (stub *stubCategoryRepository) Update(_ context.Context, category *Category) error {
	if _, found := stub.categories[category.ID]; !found {
		return apperr.NotFound("Category")
	}
	copied := *category
	stub.categories[category.ID] = &copied
	return nil
}

func (stub *stubCategoryRepository) SoftDelete(_ context.Context, id string) error {
	delete(stub.categories, id)
	return nil
}

type stubFeed struct {
	published []events.Event
}

func (stub *stubFeed) Publish(_ context.Context, _ string, event events.Event) {
	stub.published = append(stub.published, event)
}

func newTestService(products *stubProductRepository, categories *stubCategoryRepository, feed *stubFeed) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(products, categories, feed, logger)
}

func TestCreateProductSlugAndFeed(t *testing.T) {
	categories := newStubCategoryRepository()
	categories.categories["cat-1"] = &Category{ID: "cat-1", NameEn: "Indoor Plants"}

	feed := &stubFeed{}
	service := newTestService(newStubProductRepository(), categories, feed)

	product, err := service.CreateProduct(context.Background(), ProductInput{
		SKU:        "PLT-001",
		NameEn:     "Monstera Deliciosa",
		NameAr:     "مونستيرا",
		CategoryID: "cat-1",
		Price:      120,
		Stock:      10,
		IsActive:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, "monstera-deliciosa", product.Slug)
	assert.NotEmpty(t, product.ID)

	require.Len(t, feed.published, 1)
	assert.Equal(t, "product.created", feed.published[0].Kind)
	assert.Equal(t, product.ID, feed.published[0].Subject)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	service := newTestService(newStubProductRepository(), newStubCategoryRepository(), &stubFeed{})

	_, err := service.CreateProduct(context.Background(), ProductInput{
		SKU:        "PLT-001",
		NameEn:     "Monstera",
		NameAr:     "مونستيرا",
		CategoryID: "missing",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestProductLocalizedName(t *testing.T) {
	product := &Product{NameEn: "Snake Plant", NameAr: "نبات الثعبان"}

	assert.Equal(t, "Snake Plant", product.Name(constants.LanguageEnglish))
	assert.Equal(t, "نبات الثعبان", product.Name(constants.LanguageArabic))

	// Missing Arabic falls back to English instead of a blank card.
	bare := &Product{NameEn: "Clay Pot"}
	assert.Equal(t, "Clay Pot", bare.Name(constants.LanguageArabic))
}

func TestUpdateProductRegeneratesSlug(t *testing.T) {
	categories := newStubCategoryRepository()
	categories.categories["cat-1"] = &Category{ID: "cat-1"}

	products := newStubProductRepository()
	service := newTestService(products, categories, &stubFeed{})

	created, err := service.CreateProduct(context.Background(), ProductInput{
		SKU: "PLT-002", NameEn: "Fiddle Leaf Fig", NameAr: "تين ورقي", CategoryID: "cat-1", Price: 80, IsActive: true,
	})
	require.NoError(t, err)

	updated, err := service.UpdateProduct(context.Background(), created.ID, ProductInput{
		SKU: "PLT-002", NameEn: "Fiddle-Leaf Fig Tree", NameAr: "شجرة التين الورقي", CategoryID: "cat-1", Price: 95, IsActive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "fiddle-leaf-fig-tree", updated.Slug)
	assert.Equal(t, 95.0, updated.Price)
}
