// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/dberr"
	"github.com/nabtahq/nabta/pkg/pagination"
)

const productColumns = `
	id, slug, sku, nameen, namear, descriptionen, descriptionar,
	careen, carear, categoryid, price, compareatprice, stock,
	isactive, imageurl, createdat, updatedat`

// PostgresProductRepository implements the ProductRepository interface using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL implementation of the ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

// FindByID returns the product with the given ID.
func (repository *PostgresProductRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM shop.product WHERE id = $1 AND deletedat IS NULL`
	return repository.findOne(ctx, query, id)
}

// FindBySlug returns the product with the given slug.
func (repository *PostgresProductRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM shop.product WHERE slug = $1 AND deletedat IS NULL`
	return repository.findOne(ctx, query, slug)
}

func (repository *PostgresProductRepository) findOne(ctx context.Context, query string, argument any) (*Product, error) {
	product := &Product{}
	err := repository.pool.QueryRow(ctx, query, argument).Scan(
		&product.ID, &product.Slug, &product.SKU,
		&product.NameEn, &product.NameAr,
		&product.DescriptionEn, &product.DescriptionAr,
		&product.CareEn, &product.CareAr,
		&product.CategoryID, &product.Price, &product.CompareAt,
		&product.Stock, &product.IsActive, &product.ImageURL,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "product_find")
	}
	return product, nil
}

// List returns a filtered page of products plus the total match count.
//
// # Search
//
// Free-text search goes through the tsvector column, which indexes both
// the English and Arabic names and descriptions with the 'simple'
// configuration so Arabic tokens survive unsteamed.
func (repository *PostgresProductRepository) List(ctx context.Context, filter ProductFilter, page pagination.Params) ([]Product, int, error) {
	conditions := `deletedat IS NULL`
	arguments := []any{}
	argIndex := 1

	if filter.ActiveOnly {
		conditions += ` AND isactive = TRUE`
	}
	if len(filter.CategoryIDs) > 0 {
		conditions += fmt.Sprintf(` AND categoryid = ANY($%d)`, argIndex)
		arguments = append(arguments, filter.CategoryIDs)
		argIndex++
	}
	if filter.Search != "" {
		conditions += fmt.Sprintf(` AND searchvector @@ plainto_tsquery('simple', $%d)`, argIndex)
		arguments = append(arguments, filter.Search)
		argIndex++
	}

	countQuery := `SELECT COUNT(*) FROM shop.product WHERE ` + conditions

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_count_failed: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM shop.product WHERE %s ORDER BY createdat DESC LIMIT $%d OFFSET $%d`,
		productColumns, conditions, argIndex, argIndex+1,
	)
	arguments = append(arguments, page.Limit, page.Offset())

	rows, err := repository.pool.Query(ctx, listQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, page.Limit)
	for rows.Next() {
		var product Product
		if err := rows.Scan(
			&product.ID, &product.Slug, &product.SKU,
			&product.NameEn, &product.NameAr,
			&product.DescriptionEn, &product.DescriptionAr,
			&product.CareEn, &product.CareAr,
			&product.CategoryID, &product.Price, &product.CompareAt,
			&product.Stock, &product.IsActive, &product.ImageURL,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_product_repo_rows_failed: %w", err)
	}

	return products, total, nil
}

// Create persists a new product.
func (repository *PostgresProductRepository) Create(ctx context.Context, product *Product) error {
	const query = `
		INSERT INTO shop.product (
			id, slug, sku, nameen, namear, descriptionen, descriptionar,
			careen, carear, categoryid, price, compareatprice, stock,
			isactive, imageurl, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		product.ID, product.Slug, product.SKU,
		product.NameEn, product.NameAr,
		product.DescriptionEn, product.DescriptionAr,
		product.CareEn, product.CareAr,
		product.CategoryID, product.Price, product.CompareAt,
		product.Stock, product.IsActive, product.ImageURL,
		now,
	)
	if err != nil {
		return dberr.Wrap(err, "product_create")
	}

	return nil
}

// Update persists changes to an existing product.
func (repository *PostgresProductRepository) Update(ctx context.Context, product *Product) error {
	const query = `
		UPDATE shop.product SET
			slug = $2, sku = $3, nameen = $4, namear = $5,
			descriptionen = $6, descriptionar = $7, careen = $8, carear = $9,
			categoryid = $10, price = $11, compareatprice = $12, stock = $13,
			isactive = $14, imageurl = $15, updatedat = $16
		WHERE id = $1 AND deletedat IS NULL`

	product.UpdatedAt = time.Now().UTC()

	tag, err := repository.pool.Exec(ctx, query,
		product.ID, product.Slug, product.SKU,
		product.NameEn, product.NameAr,
		product.DescriptionEn, product.DescriptionAr,
		product.CareEn, product.CareAr,
		product.CategoryID, product.Price, product.CompareAt,
		product.Stock, product.IsActive, product.ImageURL,
		product.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "product_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

// AdjustStock atomically changes stock by delta.
//
// # Returns
//
// Returns [apperr.Conflict] when the delta would drive stock negative,
// which checkout reads as "insufficient stock".
func (repository *PostgresProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	const query = `
		UPDATE shop.product
		SET stock = stock + $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL AND stock + $2 >= 0`

	tag, err := repository.pool.Exec(ctx, query, id, delta, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_product_repo_adjust_stock_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the product is gone or the stock would go negative.
		if _, findErr := repository.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return apperr.Conflict("Insufficient stock")
	}

	return nil
}

// SoftDelete marks the product as deleted without removing the row.
func (repository *PostgresProductRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `
		UPDATE shop.product
		SET deletedat = $2, isactive = FALSE
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_product_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

// PostgresCategoryRepository implements the CategoryRepository interface using pgx.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new PostgreSQL implementation of the CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

const categoryColumns = `
	id, slug, nameen, namear, descriptionen, descriptionar,
	parentid, position, createdat, updatedat`

// FindByID returns the category with the given ID.
func (repository *PostgresCategoryRepository) FindByID(ctx context.Context, id string) (*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM shop.category WHERE id = $1 AND deletedat IS NULL`

	category := &Category{}
	var parentID *string

	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Slug,
		&category.NameEn, &category.NameAr,
		&category.DescriptionEn, &category.DescriptionAr,
		&parentID, &category.Position,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "category_find")
	}

	if parentID != nil {
		category.ParentID = *parentID
	}

	return category, nil
}

// List returns all categories ordered by position.
func (repository *PostgresCategoryRepository) List(ctx context.Context) ([]Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM shop.category WHERE deletedat IS NULL ORDER BY position ASC, nameen ASC`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_category_repo_list_failed: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var category Category
		var parentID *string

		if err := rows.Scan(
			&category.ID, &category.Slug,
			&category.NameEn, &category.NameAr,
			&category.DescriptionEn, &category.DescriptionAr,
			&parentID, &category.Position,
			&category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_category_repo_scan_failed: %w", err)
		}

		if parentID != nil {
			category.ParentID = *parentID
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_category_repo_rows_failed: %w", err)
	}

	return categories, nil
}

// Create persists a new category.
func (repository *PostgresCategoryRepository) Create(ctx context.Context, category *Category) error {
	const query = `
		INSERT INTO shop.category (
			id, slug, nameen, namear, descriptionen, descriptionar,
			parentid, position, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		category.ID, category.Slug,
		category.NameEn, category.NameAr,
		category.DescriptionEn, category.DescriptionAr,
		nilIfEmpty(category.ParentID), category.Position,
		now,
	)
	if err != nil {
		return dberr.Wrap(err, "category_create")
	}

	return nil
}

// Update persists changes to an existing category.
func (repository *PostgresCategoryRepository) Update(ctx context.Context, category *Category) error {
	const query = `
		UPDATE shop.category SET
			slug = $2, nameen = $3, namear = $4,
			descriptionen = $5, descriptionar = $6,
			parentid = $7, position = $8, updatedat = $9
		WHERE id = $1 AND deletedat IS NULL`

	category.UpdatedAt = time.Now().UTC()

	tag, err := repository.pool.Exec(ctx, query,
		category.ID, category.Slug,
		category.NameEn, category.NameAr,
		category.DescriptionEn, category.DescriptionAr,
		nilIfEmpty(category.ParentID), category.Position,
		category.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "category_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

// SoftDelete marks the category as deleted.
func (repository *PostgresCategoryRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `
		UPDATE shop.category
		SET deletedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_category_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

// nilIfEmpty maps "" to NULL for optional foreign keys.
func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
