// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/dberr"
	"github.com/nabtahq/nabta/pkg/pagination"
	"github.com/nabtahq/nabta/pkg/uuid"
)

// PostgresCartRepository implements the CartRepository interface using pgx.
type PostgresCartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository creates a new PostgreSQL implementation of the CartRepository.
func NewCartRepository(pool *pgxpool.Pool) *PostgresCartRepository {
	return &PostgresCartRepository{pool: pool}
}

// FindActiveByAccount returns the account's active cart with its items.
func (repository *PostgresCartRepository) FindActiveByAccount(ctx context.Context, accountID string) (*Cart, error) {
	const cartQuery = `
		SELECT id, accountid, status, createdat, updatedat
		FROM shop.cart
		WHERE accountid = $1 AND status = 'active'`

	cart := &Cart{}
	err := repository.pool.QueryRow(ctx, cartQuery, accountID).Scan(
		&cart.ID, &cart.AccountID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "cart_find_active")
	}

	const itemQuery = `
		SELECT id, cartid, productid, quantity, unitprice, createdat, updatedat
		FROM shop.cartitem
		WHERE cartid = $1
		ORDER BY createdat ASC`

	rows, err := repository.pool.Query(ctx, itemQuery, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_items_failed: %w", err)
	}
	defer rows.Close()

	cart.Items = make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres_cart_repo_scan_failed: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_rows_failed: %w", err)
	}

	return cart, nil
}

// Create persists a new empty active cart.
func (repository *PostgresCartRepository) Create(ctx context.Context, cart *Cart) error {
	const query = `
		INSERT INTO shop.cart (id, accountid, status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $4)`

	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query, cart.ID, cart.AccountID, cart.Status, now)
	if err != nil {
		return dberr.Wrap(err, "cart_create")
	}

	return nil
}

// UpsertItem adds the product line or replaces its quantity.
func (repository *PostgresCartRepository) UpsertItem(ctx context.Context, item *Item) error {
	const query = `
		INSERT INTO shop.cartitem (id, cartid, productid, quantity, unitprice, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (cartid, productid) DO UPDATE SET
			quantity  = EXCLUDED.quantity,
			unitprice = EXCLUDED.unitprice,
			updatedat = EXCLUDED.updatedat`

	now := time.Now().UTC()

	_, err := repository.pool.Exec(ctx, query,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.UnitPrice, now,
	)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_upsert_item_failed: %w", err)
	}

	return nil
}

// RemoveItem deletes a product line from the cart.
func (repository *PostgresCartRepository) RemoveItem(ctx context.Context, cartID, productID string) error {
	const query = `DELETE FROM shop.cartitem WHERE cartid = $1 AND productid = $2`

	tag, err := repository.pool.Exec(ctx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_remove_item_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cart item")
	}

	return nil
}

// UpdateStatus moves the cart out of the active state.
func (repository *PostgresCartRepository) UpdateStatus(ctx context.Context, cartID, status string) error {
	const query = `
		UPDATE shop.cart
		SET status = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, cartID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_status_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cart")
	}

	return nil
}

// PostgresOrderRepository implements the OrderRepository interface using pgx.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new PostgreSQL implementation of the OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// Create persists the order, its items, and the stock decrements atomically.
func (repository *PostgresOrderRepository) Create(ctx context.Context, order *Order) error {
	transaction, err := repository.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres_order_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	const orderInsert = `
		INSERT INTO shop."order" (
			id, accountid, ordernumber, status, subtotal, discount,
			shippingfee, freeshipping, total, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := transaction.Exec(ctx, orderInsert,
		order.ID, order.AccountID, order.OrderNumber, order.Status,
		order.Subtotal, order.Discount, order.ShippingFee, order.FreeShipping, order.Total,
		now,
	); err != nil {
		return fmt.Errorf("postgres_order_repo_insert_failed: %w", err)
	}

	const itemInsert = `
		INSERT INTO shop.orderitem (id, orderid, productid, nameen, namear, quantity, unitprice, linetotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	// Guarded decrement: refusing to go below zero inside the same
	// transaction is what makes two checkouts for the last unit serialize.
	const stockUpdate = `
		UPDATE shop.product
		SET stock = stock - $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL AND stock >= $2`

	for index := range order.Items {
		item := &order.Items[index]
		if item.ID == "" {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		if _, err := transaction.Exec(ctx, itemInsert,
			item.ID, item.OrderID, item.ProductID,
			item.NameEn, item.NameAr,
			item.Quantity, item.UnitPrice, item.LineTotal,
		); err != nil {
			return fmt.Errorf("postgres_order_repo_item_failed: %w", err)
		}

		tag, err := transaction.Exec(ctx, stockUpdate, item.ProductID, item.Quantity, now)
		if err != nil {
			return fmt.Errorf("postgres_order_repo_stock_failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.Conflict("Insufficient stock for " + item.NameEn)
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_order_repo_commit_failed: %w", err)
	}

	return nil
}

// FindByID returns the order with its items.
func (repository *PostgresOrderRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	const orderQuery = `
		SELECT id, accountid, ordernumber, status, subtotal, discount,
		       shippingfee, freeshipping, total, createdat, updatedat
		FROM shop."order"
		WHERE id = $1`

	order := &Order{}
	err := repository.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.AccountID, &order.OrderNumber, &order.Status,
		&order.Subtotal, &order.Discount, &order.ShippingFee, &order.FreeShipping, &order.Total,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "order_find")
	}

	const itemQuery = `
		SELECT id, orderid, productid, nameen, namear, quantity, unitprice, linetotal
		FROM shop.orderitem
		WHERE orderid = $1`

	rows, err := repository.pool.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_items_failed: %w", err)
	}
	defer rows.Close()

	order.Items = make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.NameEn, &item.NameAr, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("postgres_order_repo_scan_failed: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_order_repo_rows_failed: %w", err)
	}

	return order, nil
}

// ListByAccount returns a page of the account's orders, newest first.
func (repository *PostgresOrderRepository) ListByAccount(ctx context.Context, accountID string, page pagination.Params) ([]Order, int, error) {
	const countQuery = `SELECT COUNT(*) FROM shop."order" WHERE accountid = $1`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_count_failed: %w", err)
	}

	const listQuery = `
		SELECT id, accountid, ordernumber, status, subtotal, discount,
		       shippingfee, freeshipping, total, createdat, updatedat
		FROM shop."order"
		WHERE accountid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, listQuery, accountID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_list_failed: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0, page.Limit)
	for rows.Next() {
		var order Order
		if err := rows.Scan(
			&order.ID, &order.AccountID, &order.OrderNumber, &order.Status,
			&order.Subtotal, &order.Discount, &order.ShippingFee, &order.FreeShipping, &order.Total,
			&order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_order_repo_scan_failed: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_rows_failed: %w", err)
	}

	return orders, total, nil
}
