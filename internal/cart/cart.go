// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package cart implements the shopping cart and checkout flow.

A customer has at most one active cart. The cart summary combines the line
items with the live shipping policy and the customer's VIP discount, all
through the threshold engine; checkout converts the cart into an order,
decrements stock, and feeds the order total back into the VIP program.
*/
package cart

import (
	"time"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
)

// Cart statuses.
const (
	StatusActive    = "active"
	StatusConverted = "converted"
	StatusAbandoned = "abandoned"
)

// Order statuses.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// flatShippingFee is charged when a cart does not qualify for free shipping.
const flatShippingFee = 25.0

// Cart is a customer's open basket.
type Cart struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Status    string    `json:"status"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one product line in a cart.
//
// UnitPrice is captured when the item is added so a price edit in the
// dashboard does not silently reprice open carts; the summary recomputes
// against it, not against the live catalog.
type Item struct {
	ID        string    `json:"id"`
	CartID    string    `json:"-"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal is the cart value before discount and shipping.
func (cart *Cart) Subtotal() float64 {
	var subtotal float64
	for _, item := range cart.Items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	return subtotal
}

// ItemCount is the total unit count across all lines.
func (cart *Cart) ItemCount() int {
	var count int
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return count
}

// Summary is the priced view of a cart the storefront drawer renders.
type Summary struct {
	Cart            *Cart                        `json:"cart"`
	Subtotal        float64                      `json:"subtotal"`
	ItemCount       int                          `json:"item_count"`
	Shipping        threshold.ShippingEvaluation `json:"shipping"`
	ShippingFee     float64                      `json:"shipping_fee"`
	DiscountPercent float64                      `json:"discount_percent"`
	DiscountAmount  float64                      `json:"discount_amount"`
	Total           float64                      `json:"total"`
}

// Order is a placed order.
type Order struct {
	ID           string      `json:"id"`
	AccountID    string      `json:"account_id"`
	OrderNumber  string      `json:"order_number"`
	Status       string      `json:"status"`
	Subtotal     float64     `json:"subtotal"`
	Discount     float64     `json:"discount"`
	ShippingFee  float64     `json:"shipping_fee"`
	FreeShipping bool        `json:"free_shipping"`
	Total        float64     `json:"total"`
	Items        []OrderItem `json:"items,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderItem is one product line frozen at checkout time.
//
// Names are denormalized in both locales so order history renders without
// joining a catalog that may have changed or deleted the product since.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"-"`
	ProductID string  `json:"product_id"`
	NameEn    string  `json:"name_en"`
	NameAr    string  `json:"name_ar"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}
