// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package cart

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/catalog"
	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/pkg/pagination"
)

type stubCartRepository struct {
	carts map[string]*Cart

	createErr error
}

func newStubCartRepository() *stubCartRepository {
	return &stubCartRepository{carts: map[string]*Cart{}}
}

func (repository *stubCartRepository) FindActiveByAccount(_ context.Context, accountID string) (*Cart, error) {
	cart, ok := repository.carts[accountID]
	if !ok || cart.Status != StatusActive {
		return nil, apperr.NotFound("Cart")
	}
	return cart, nil
}

func (repository *stubCartRepository) Create(_ context.Context, cart *Cart) error {
	if repository.createErr != nil {
		return repository.createErr
	}
	repository.carts[cart.AccountID] = cart
	return nil
}

func (repository *stubCartRepository) UpsertItem(_ context.Context, item *Item) error {
	for _, cart := range repository.carts {
		if cart.ID != item.CartID {
			continue
		}
		for index := range cart.Items {
			if cart.Items[index].ProductID == item.ProductID {
				cart.Items[index].Quantity = item.Quantity
				cart.Items[index].UnitPrice = item.UnitPrice
				return nil
			}
		}
		cart.Items = append(cart.Items, *item)
		return nil
	}
	return apperr.NotFound("Cart")
}

func (repository *stubCartRepository) RemoveItem(_ context.Context, cartID, productID string) error {
	for _, cart := range repository.carts {
		if cart.ID != cartID {
			continue
		}
		for index := range cart.Items {
			if cart.Items[index].ProductID == productID {
				cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
				return nil
			}
		}
	}
	return apperr.NotFound("Cart item")
}

func (repository *stubCartRepository) UpdateStatus(_ context.Context, cartID, status string) error {
	for _, cart := range repository.carts {
		if cart.ID == cartID {
			cart.Status = status
			return nil
		}
	}
	return apperr.NotFound("Cart")
}

type stubOrderRepository struct {
	orders []*Order

	createErr error
}

func (repository *stubOrderRepository) Create(_ context.Context, order *Order) error {
	if repository.createErr != nil {
		return repository.createErr
	}
	repository.orders = append(repository.orders, order)
	return nil
}

func (repository *stubOrderRepository) FindByID(_ context.Context, id string) (*Order, error) {
	for _, order := range repository.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, apperr.NotFound("Order")
}

func (repository *stubOrderRepository) ListByAccount(_ context.Context, accountID string, page pagination.Params) ([]Order, int, error) {
	var matched []Order
	for _, order := range repository.orders {
		if order.AccountID == accountID {
			matched = append(matched, *order)
		}
	}
	return matched, len(matched), nil
}

type stubCatalog struct {
	products map[string]*catalog.Product
}

func (stub *stubCatalog) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	product, ok := stub.products[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return product, nil
}

type stubPolicy struct {
	policy threshold.ShippingPolicy
	err    error
}

func (stub *stubPolicy) ShippingPolicy(_ context.Context) (threshold.ShippingPolicy, error) {
	return stub.policy, stub.err
}

type stubLoyalty struct {
	percent float64

	recordedAccount string
	recordedAmount  float64
	recordCalls     int
}

func (stub *stubLoyalty) DiscountPercent(_ context.Context, _ string) (float64, error) {
	return stub.percent, nil
}

func (stub *stubLoyalty) RecordSpend(_ context.Context, accountID string, amount float64) error {
	stub.recordedAccount = accountID
	stub.recordedAmount = amount
	stub.recordCalls++
	return nil
}

func newTestService(
	carts *stubCartRepository,
	orders *stubOrderRepository,
	products *stubCatalog,
	policy *stubPolicy,
	loyalty *stubLoyalty,
) *Service {
	return NewService(carts, orders, products, policy, loyalty, slog.Default())
}

func monsteraCatalog() *stubCatalog {
	return &stubCatalog{products: map[string]*catalog.Product{
		"prod-1": {
			ID:       "prod-1",
			NameEn:   "Monstera Deliciosa",
			NameAr:   "مونستيرا",
			Price:    120,
			Stock:    10,
			IsActive: true,
		},
		"prod-2": {
			ID:       "prod-2",
			NameEn:   "Ceramic Pot",
			NameAr:   "أصيص سيراميك",
			Price:    45,
			Stock:    2,
			IsActive: true,
		},
	}}
}

func standardPolicy() *stubPolicy {
	return &stubPolicy{policy: threshold.ShippingPolicy{
		Enabled:   true,
		Threshold: 200,
	}}
}

func TestActiveCartCreatedOnFirstUse(t *testing.T) {
	carts := newStubCartRepository()
	service := newTestService(carts, &stubOrderRepository{}, monsteraCatalog(), standardPolicy(), &stubLoyalty{})

	cart, err := service.ActiveCart(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", cart.AccountID)
	assert.Equal(t, StatusActive, cart.Status)
	assert.Empty(t, cart.Items)

	again, err := service.ActiveCart(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestSetItemCapturesUnitPrice(t *testing.T) {
	carts := newStubCartRepository()
	products := monsteraCatalog()
	service := newTestService(carts, &stubOrderRepository{}, products, standardPolicy(), &stubLoyalty{})

	cart, err := service.SetItem(context.Background(), "acct-1", "prod-1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 120.0, cart.Items[0].UnitPrice)

	// A later price change must not reprice the open cart line.
	products.products["prod-1"].Price = 999

	summary, err := service.Summarize(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 240.0, summary.Subtotal)
}

func TestSetItemRejectsOverStock(t *testing.T) {
	service := newTestService(newStubCartRepository(), &stubOrderRepository{}, monsteraCatalog(), standardPolicy(), &stubLoyalty{})

	_, err := service.SetItem(context.Background(), "acct-1", "prod-2", 3)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = service.SetItem(context.Background(), "acct-1", "prod-2", 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestSummaryBelowThresholdWithDiscount(t *testing.T) {
	carts := newStubCartRepository()
	service := newTestService(carts, &stubOrderRepository{}, monsteraCatalog(), standardPolicy(), &stubLoyalty{percent: 10})

	_, err := service.SetItem(context.Background(), "acct-1", "prod-1", 1)
	require.NoError(t, err)

	summary, err := service.Summarize(context.Background(), "acct-1")
	require.NoError(t, err)

	assert.Equal(t, 120.0, summary.Subtotal)
	assert.False(t, summary.Shipping.Qualifies)
	assert.Equal(t, 80.0, summary.Shipping.AmountRemaining)
	assert.Equal(t, 60.0, summary.Shipping.ProgressPercent)
	assert.Equal(t, flatShippingFee, summary.ShippingFee)
	assert.Equal(t, 12.0, summary.DiscountAmount)
	assert.Equal(t, 120.0-12.0+flatShippingFee, summary.Total)
}

func TestSummaryQualifiesForFreeShipping(t *testing.T) {
	carts := newStubCartRepository()
	service := newTestService(carts, &stubOrderRepository{}, monsteraCatalog(), standardPolicy(), &stubLoyalty{})

	_, err := service.SetItem(context.Background(), "acct-1", "prod-1", 2)
	require.NoError(t, err)

	summary, err := service.Summarize(context.Background(), "acct-1")
	require.NoError(t, err)

	assert.True(t, summary.Shipping.Qualifies)
	assert.Equal(t, 0.0, summary.ShippingFee)
	assert.Equal(t, 240.0, summary.Total)
}

func TestCheckoutPlacesOrderAndRecordsSpend(t *testing.T) {
	carts := newStubCartRepository()
	orders := &stubOrderRepository{}
	loyalty := &stubLoyalty{percent: 5}
	service := newTestService(carts, orders, monsteraCatalog(), standardPolicy(), loyalty)

	_, err := service.SetItem(context.Background(), "acct-1", "prod-1", 2)
	require.NoError(t, err)
	_, err = service.SetItem(context.Background(), "acct-1", "prod-2", 1)
	require.NoError(t, err)

	order, err := service.Checkout(context.Background(), "acct-1")
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPlaced, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, 285.0, order.Subtotal)
	assert.Equal(t, 14.25, order.Discount)
	assert.True(t, order.FreeShipping)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 270.75, order.Total)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Monstera Deliciosa", order.Items[0].NameEn)
	assert.Equal(t, "مونستيرا", order.Items[0].NameAr)
	assert.Equal(t, 240.0, order.Items[0].LineTotal)

	// The cart is out of the way and the spend fed the VIP program.
	assert.Equal(t, StatusConverted, carts.carts["acct-1"].Status)
	assert.Equal(t, "acct-1", loyalty.recordedAccount)
	assert.Equal(t, 270.75, loyalty.recordedAmount)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	service := newTestService(newStubCartRepository(), &stubOrderRepository{}, monsteraCatalog(), standardPolicy(), &stubLoyalty{})

	_, err := service.ActiveCart(context.Background(), "acct-1")
	require.NoError(t, err)

	_, err = service.Checkout(context.Background(), "acct-1")
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}

func TestCheckoutAbortsOnStockConflict(t *testing.T) {
	carts := newStubCartRepository()
	orders := &stubOrderRepository{createErr: apperr.Conflict("Insufficient stock for Ceramic Pot")}
	loyalty := &stubLoyalty{}
	service := newTestService(carts, orders, monsteraCatalog(), standardPolicy(), loyalty)

	_, err := service.SetItem(context.Background(), "acct-1", "prod-2", 2)
	require.NoError(t, err)

	_, err = service.Checkout(context.Background(), "acct-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Nothing committed, so the cart stays open and no spend is booked.
	assert.Equal(t, StatusActive, carts.carts["acct-1"].Status)
	assert.Zero(t, loyalty.recordCalls)
}

func TestGetOrderHidesOtherAccounts(t *testing.T) {
	orders := &stubOrderRepository{orders: []*Order{
		{ID: "order-1", AccountID: "acct-1"},
	}}
	service := newTestService(newStubCartRepository(), orders, monsteraCatalog(), standardPolicy(), &stubLoyalty{})

	found, err := service.GetOrder(context.Background(), "acct-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", found.ID)

	_, err = service.GetOrder(context.Background(), "acct-2", "order-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
