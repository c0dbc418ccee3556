// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package catalog

import (
	"context"

	"github.com/nabtahq/nabta/pkg/pagination"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	// CategoryIDs limits results to the given categories; empty means all.
	CategoryIDs []string

	// Search is a free-text query matched against both locales' names and
	// descriptions via the search vector.
	Search string

	// ActiveOnly hides inactive products; the storefront always sets it,
	// the dashboard never does.
	ActiveOnly bool
}

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	// FindByID returns the product with the given ID.
	//
	// Returns [apperr.NotFound] if the product does not exist.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindBySlug returns the product with the given slug.
	//
	// Returns [apperr.NotFound] if the product does not exist.
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// List returns a filtered page of products plus the total match count.
	List(ctx context.Context, filter ProductFilter, page pagination.Params) ([]Product, int, error)

	// Create persists a new product.
	//
	// Returns a wrapped error if the slug or SKU already exists.
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product.
	Update(ctx context.Context, product *Product) error

	// AdjustStock atomically changes stock by delta, refusing to go below
	// zero. Returns [apperr.Conflict] on insufficient stock.
	AdjustStock(ctx context.Context, id string, delta int) error

	// SoftDelete marks the product as deleted without removing the row,
	// preserving order history lines that reference it.
	SoftDelete(ctx context.Context, id string) error
}

// CategoryRepository defines the data access contract for categories.
type CategoryRepository interface {
	// FindByID returns the category with the given ID.
	//
	// Returns [apperr.NotFound] if the category does not exist.
	FindByID(ctx context.Context, id string) (*Category, error)

	// List returns all categories ordered by position.
	List(ctx context.Context) ([]Category, error)

	// Create persists a new category.
	Create(ctx context.Context, category *Category) error

	// Update persists changes to an existing category.
	Update(ctx context.Context, category *Category) error

	// SoftDelete marks the category as deleted.
	SoftDelete(ctx context.Context, id string) error
}
