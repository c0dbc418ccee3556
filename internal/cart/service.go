// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nabtahq/nabta/internal/catalog"
	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/sec"
	"github.com/nabtahq/nabta/pkg/pagination"
	"github.com/nabtahq/nabta/pkg/uuid"
)

// ProductCatalog is the slice of the catalog this service needs.
type ProductCatalog interface {
	FindByID(ctx context.Context, id string) (*catalog.Product, error)
}

// PolicyProvider supplies the live shipping policy.
type PolicyProvider interface {
	ShippingPolicy(ctx context.Context) (threshold.ShippingPolicy, error)
}

// Loyalty is the slice of the VIP program checkout talks to.
type Loyalty interface {
	DiscountPercent(ctx context.Context, accountID string) (float64, error)
	RecordSpend(ctx context.Context, accountID string, amount float64) error
}

// Service implements cart and checkout use cases.
type Service struct {
	carts    CartRepository
	orders   OrderRepository
	products ProductCatalog
	policy   PolicyProvider
	loyalty  Loyalty
	logger   *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(
	carts CartRepository,
	orders OrderRepository,
	products ProductCatalog,
	policy PolicyProvider,
	loyalty Loyalty,
	logger *slog.Logger,
) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		products: products,
		policy:   policy,
		loyalty:  loyalty,
		logger:   logger,
	}
}

// ActiveCart returns the account's active cart, creating one on first use.
func (service *Service) ActiveCart(context context.Context, accountID string) (*Cart, error) {
	cart, err := service.carts.FindActiveByAccount(context, accountID)
	if err == nil {
		return cart, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	cart = &Cart{
		ID:        uuid.New(),
		AccountID: accountID,
		Status:    StatusActive,
		Items:     []Item{},
	}
	if err := service.carts.Create(context, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// SetItem adds a product to the cart or replaces its quantity.
//
// # Business Rules
//   - Quantity must be positive; removal goes through [Service.RemoveItem].
//   - The product must be active with enough stock at add time. Stock is
//     checked again, authoritatively, at checkout.
func (service *Service) SetItem(context context.Context, accountID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, apperr.ValidationError("Quantity must be positive")
	}

	product, err := service.products.FindByID(context, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(quantity) {
		return nil, apperr.Conflict("Product is out of stock")
	}

	cart, err := service.ActiveCart(context, accountID)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
	if err := service.carts.UpsertItem(context, item); err != nil {
		return nil, err
	}

	return service.carts.FindActiveByAccount(context, accountID)
}

// RemoveItem deletes a product line from the account's active cart.
func (service *Service) RemoveItem(context context.Context, accountID, productID string) (*Cart, error) {
	cart, err := service.carts.FindActiveByAccount(context, accountID)
	if err != nil {
		return nil, err
	}

	if err := service.carts.RemoveItem(context, cart.ID, productID); err != nil {
		return nil, err
	}

	return service.carts.FindActiveByAccount(context, accountID)
}

// Summarize prices the account's active cart.
//
// The summary is what the storefront drawer renders: subtotal, the
// free-shipping progress bar, the VIP discount, and the payable total.
func (service *Service) Summarize(context context.Context, accountID string) (*Summary, error) {
	cart, err := service.ActiveCart(context, accountID)
	if err != nil {
		return nil, err
	}

	policy, err := service.policy.ShippingPolicy(context)
	if err != nil {
		return nil, err
	}

	discountPercent, err := service.loyalty.DiscountPercent(context, accountID)
	if err != nil {
		return nil, err
	}

	return service.price(cart, policy, discountPercent), nil
}

// price assembles a [Summary] from the cart and pricing inputs.
func (service *Service) price(cart *Cart, policy threshold.ShippingPolicy, discountPercent float64) *Summary {
	subtotal := cart.Subtotal()
	itemCount := cart.ItemCount()

	shipping := threshold.EvaluateFreeShipping(subtotal, itemCount, policy)

	shippingFee := 0.0
	if !shipping.Qualifies {
		shippingFee = flatShippingFee
	}

	discountAmount := subtotal * discountPercent / 100

	return &Summary{
		Cart:            cart,
		Subtotal:        subtotal,
		ItemCount:       itemCount,
		Shipping:        shipping,
		ShippingFee:     shippingFee,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Total:           subtotal - discountAmount + shippingFee,
	}
}

// Checkout converts the active cart into a placed order.
//
// # Business Rules
//   - An empty cart cannot check out.
//   - Order lines freeze both locale names and the unit price.
//   - Stock is decremented inside the order transaction; insufficient
//     stock on any line aborts the whole checkout.
//   - The order total feeds the VIP program after commit; a loyalty
//     failure is logged, not propagated, because the order already exists.
func (service *Service) Checkout(context context.Context, accountID string) (*Order, error) {
	cart, err := service.carts.FindActiveByAccount(context, accountID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.Unprocessable("Cart is empty")
	}

	policy, err := service.policy.ShippingPolicy(context)
	if err != nil {
		return nil, err
	}
	discountPercent, err := service.loyalty.DiscountPercent(context, accountID)
	if err != nil {
		return nil, err
	}

	summary := service.price(cart, policy, discountPercent)

	order := &Order{
		ID:           uuid.New(),
		AccountID:    accountID,
		OrderNumber:  newOrderNumber(),
		Status:       OrderStatusPlaced,
		Subtotal:     summary.Subtotal,
		Discount:     summary.DiscountAmount,
		ShippingFee:  summary.ShippingFee,
		FreeShipping: summary.Shipping.Qualifies,
		Total:        summary.Total,
		Items:        make([]OrderItem, 0, len(cart.Items)),
	}

	for _, line := range cart.Items {
		product, err := service.products.FindByID(context, line.ProductID)
		if err != nil {
			return nil, err
		}

		order.Items = append(order.Items, OrderItem{
			ProductID: product.ID,
			NameEn:    product.NameEn,
			NameAr:    product.NameAr,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice * float64(line.Quantity),
		})
	}

	if err := service.orders.Create(context, order); err != nil {
		return nil, err
	}

	if err := service.carts.UpdateStatus(context, cart.ID, StatusConverted); err != nil {
		// The order exists; a stuck cart is an annoyance, not a loss.
		service.logger.ErrorContext(context, "cart_conversion_failed",
			slog.String("cart_id", cart.ID),
			slog.Any("error", err),
		)
	}

	if err := service.loyalty.RecordSpend(context, accountID, order.Total); err != nil {
		service.logger.ErrorContext(context, "vip_spend_record_failed",
			slog.String("order_id", order.ID),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "order_placed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.Float64("total", order.Total),
	)

	return order, nil
}

// GetOrder returns one of the account's orders.
//
// # Returns
//   - [apperr.NotFound] if the order does not exist or belongs to another
//     account; ownership failures are indistinguishable from absence.
func (service *Service) GetOrder(context context.Context, accountID, orderID string) (*Order, error) {
	order, err := service.orders.FindByID(context, orderID)
	if err != nil {
		return nil, err
	}
	if order.AccountID != accountID {
		return nil, apperr.NotFound("Order")
	}
	return order, nil
}

// ListOrders returns a page of the account's order history.
func (service *Service) ListOrders(context context.Context, accountID string, page pagination.Params) ([]Order, pagination.Meta, error) {
	orders, total, err := service.orders.ListByAccount(context, accountID, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return orders, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// newOrderNumber builds a short human-readable order reference.
func newOrderNumber() string {
	token, err := sec.GenerateSecureToken(4)
	if err != nil {
		// Entropy failure is unrecoverable anyway; fall back to a UUID slice.
		token = strings.ReplaceAll(uuid.New(), "-", "")[:8]
	}
	return fmt.Sprintf("NB-%s", strings.ToUpper(token))
}

// isNotFound reports whether err is the apperr NOT_FOUND kind.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
