// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package cart

import (
	"context"

	"github.com/nabtahq/nabta/pkg/pagination"
)

// CartRepository defines the data access contract for carts.
type CartRepository interface {
	// FindActiveByAccount returns the account's active cart with its items.
	//
	// Returns [apperr.NotFound] if the account has no active cart.
	FindActiveByAccount(ctx context.Context, accountID string) (*Cart, error)

	// Create persists a new empty active cart.
	Create(ctx context.Context, cart *Cart) error

	// UpsertItem adds the product line or, if the product is already in the
	// cart, replaces its quantity.
	UpsertItem(ctx context.Context, item *Item) error

	// RemoveItem deletes a product line from the cart.
	//
	// Returns [apperr.NotFound] if the product is not in the cart.
	RemoveItem(ctx context.Context, cartID, productID string) error

	// UpdateStatus moves the cart out of the active state.
	UpdateStatus(ctx context.Context, cartID, status string) error
}

// OrderRepository defines the data access contract for orders.
type OrderRepository interface {
	// Create persists the order and its items in one transaction, together
	// with the stock decrements for every line. The stock check and the
	// order insert must not be separable, or two checkouts could both take
	// the last unit.
	Create(ctx context.Context, order *Order) error

	// FindByID returns the order with its items.
	//
	// Returns [apperr.NotFound] if the order does not exist.
	FindByID(ctx context.Context, id string) (*Order, error)

	// ListByAccount returns a page of the account's orders, newest first,
	// plus the total count. Items are not loaded for listings.
	ListByAccount(ctx context.Context, accountID string, page pagination.Params) ([]Order, int, error)
}
