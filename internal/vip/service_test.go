// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package vip

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/pkg/pointer"
)

type stubTierRepository struct {
	ladder []threshold.Tier
}

func (stub *stubTierRepository) ListOrdered(_ context.Context) ([]threshold.Tier, error) {
	return stub.ladder, nil
}

func (stub *stubTierRepository) ReplaceAll(_ context.Context, tiers []threshold.Tier) error {
	stub.ladder = tiers
	return nil
}

type stubMembershipRepository struct {
	memberships map[string]*Membership
}

func newStubMembershipRepository() *stubMembershipRepository {
	return &stubMembershipRepository{memberships: make(map[string]*Membership)}
}

func (stub *stubMembershipRepository) FindByAccount(_ context.Context, accountID string) (*Membership, error) {
	membership, found := stub.memberships[accountID]
	if !found {
		return nil, apperr.NotFound("Membership")
	}
	copied := *membership
	return &copied, nil
}

func (stub *stubMembershipRepository) Create(_ context.Context, membership *Membership) error {
	if _, exists := stub.memberships[membership.AccountID]; exists {
		return apperr.Conflict("Account is already enrolled")
	}
	copied := *membership
	stub.memberships[membership.AccountID] = &copied
	return nil
}

func (stub *stubMembershipRepository) AddSpend(_ context.Context, accountID string, amount float64, points int) error {
	membership, found := stub.memberships[accountID]
	if !found {
		membership = &Membership{AccountID: accountID, EnrolledAt: time.Now()}
		stub.memberships[accountID] = membership
	}
	membership.TotalSpend += amount
	membership.Points += points
	return nil
}

func (stub *stubMembershipRepository) SetPinnedTier(_ context.Context, accountID, tierID string) error {
	membership, found := stub.memberships[accountID]
	if !found {
		return apperr.NotFound("Membership")
	}
	membership.PinnedTierID = tierID
	return nil
}

func (stub *stubMembershipRepository) StampTierChange(_ context.Context, accountID string, at time.Time) error {
	membership, found := stub.memberships[accountID]
	if !found {
		return apperr.NotFound("Membership")
	}
	membership.LastTierChangeAt = &at
	return nil
}

func (stub *stubMembershipRepository) DeductPoints(_ context.Context, accountID string, points int) error {
	membership, found := stub.memberships[accountID]
	if !found {
		return apperr.NotFound("Membership")
	}
	if membership.Points < points {
		return apperr.Conflict("Insufficient points balance")
	}
	membership.Points -= points
	return nil
}

func defaultLadder() []threshold.Tier {
	return []threshold.Tier{
		{ID: "t-green", Code: "green", NameEn: "Green", NameAr: "أخضر", MinSpend: 0, MaxSpend: pointer.To(2000.0), DiscountPercent: 5},
		{ID: "t-gold", Code: "gold", NameEn: "Gold", NameAr: "ذهبي", MinSpend: 2000, MaxSpend: pointer.To(10000.0), DiscountPercent: 10},
		{ID: "t-platinum", Code: "platinum", NameEn: "Platinum", NameAr: "بلاتيني", MinSpend: 10000, DiscountPercent: 15},
	}
}

func newTestService(tiers *stubTierRepository, memberships *stubMembershipRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(tiers, memberships, logger)
}

func TestEnrollOnce(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	membership, err := service.Enroll(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", membership.AccountID)
	assert.Zero(t, membership.TotalSpend)

	_, err = service.Enroll(context.Background(), "acct-1")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestCardResolvesComputedTier(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	_, err := service.Enroll(context.Background(), "acct-1")
	require.NoError(t, err)
	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 5000))

	card, err := service.Card(context.Background(), "acct-1")

	require.NoError(t, err)
	assert.Equal(t, "gold", card.Tier.Code)
	require.NotNil(t, card.NextTier)
	assert.Equal(t, "platinum", card.NextTier.Code)
	assert.InDelta(t, 37.5, card.ProgressPercent, 1e-9)
	assert.InDelta(t, 5000, card.AmountToNext, 1e-9)
	assert.False(t, card.Pinned)
	assert.Equal(t, 5000, card.Membership.Points)
}

func TestCardHonorsPinnedTier(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	_, err := service.Enroll(context.Background(), "acct-1")
	require.NoError(t, err)
	require.NoError(t, service.PinTier(context.Background(), "acct-1", "t-platinum"))

	card, err := service.Card(context.Background(), "acct-1")

	require.NoError(t, err)
	assert.Equal(t, "platinum", card.Tier.Code)
	assert.True(t, card.Pinned)
	assert.Nil(t, card.NextTier)
}

func TestCardMisconfiguredLadder(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{}, memberships)

	_, err := service.Enroll(context.Background(), "acct-1")
	require.NoError(t, err)

	_, err = service.Card(context.Background(), "acct-1")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "MISCONFIGURED", appErr.Code)
}

func TestRecordSpendAutoEnrolls(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	require.NoError(t, service.RecordSpend(context.Background(), "acct-9", 350.75))

	card, err := service.Card(context.Background(), "acct-9")
	require.NoError(t, err)
	assert.InDelta(t, 350.75, card.Membership.TotalSpend, 1e-9)
	assert.Equal(t, 350, card.Membership.Points, "points are whole currency units")
}

func TestRecordSpendIgnoresNonPositiveAmounts(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 0))
	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", -20))

	assert.Empty(t, memberships.memberships)
}

func TestRecordSpendStampsTierBoundaryCrossing(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	_, err := service.Enroll(context.Background(), "acct-1")
	require.NoError(t, err)

	// 0 -> 500: still green, no boundary crossed.
	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 500))
	assert.Nil(t, memberships.memberships["acct-1"].LastTierChangeAt)

	// 500 -> 2500: green -> gold.
	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 2000))
	require.NotNil(t, memberships.memberships["acct-1"].LastTierChangeAt)
	first := *memberships.memberships["acct-1"].LastTierChangeAt

	// 2500 -> 2600: still gold, stamp untouched.
	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 100))
	assert.Equal(t, first, *memberships.memberships["acct-1"].LastTierChangeAt)
}

func TestRedeemPointsBurnsBalanceOnly(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 500))

	require.NoError(t, service.RedeemPoints(context.Background(), "acct-1", 200))

	card, err := service.Card(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 300, card.Membership.Points)
	assert.InDelta(t, 500, card.Membership.TotalSpend, 1e-9, "redemption must not reduce tier spend")
}

func TestRedeemPointsInsufficientBalance(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	require.NoError(t, service.RecordSpend(context.Background(), "acct-1", 100))

	err := service.RedeemPoints(context.Background(), "acct-1", 500)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	err = service.RedeemPoints(context.Background(), "acct-1", 0)
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestPinTierUnknownTier(t *testing.T) {
	memberships := newStubMembershipRepository()
	service := newTestService(&stubTierRepository{ladder: defaultLadder()}, memberships)

	_, err := service.Enroll(context.Background(), "acct-1")
	require.NoError(t, err)

	err = service.PinTier(context.Background(), "acct-1", "t-diamond")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestConfigureTiersRejectsBrokenLadder(t *testing.T) {
	tiers := &stubTierRepository{ladder: defaultLadder()}
	service := newTestService(tiers, newStubMembershipRepository())

	// Gap between 1000 and 2000.
	broken := []threshold.Tier{
		{Code: "green", NameEn: "Green", NameAr: "أخضر", MinSpend: 0, MaxSpend: pointer.To(1000.0)},
		{Code: "gold", NameEn: "Gold", NameAr: "ذهبي", MinSpend: 2000},
	}

	_, err := service.ConfigureTiers(context.Background(), broken)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "MISCONFIGURED", appErr.Code)
	assert.Len(t, tiers.ladder, 3, "a rejected ladder must not replace the active one")
}

func TestConfigureTiersReplacesLadder(t *testing.T) {
	tiers := &stubTierRepository{ladder: defaultLadder()}
	service := newTestService(tiers, newStubMembershipRepository())

	replacement := []threshold.Tier{
		{Code: "seed", NameEn: "Seed", NameAr: "بذرة", MinSpend: 0, MaxSpend: pointer.To(5000.0), DiscountPercent: 3},
		{Code: "bloom", NameEn: "Bloom", NameAr: "إزهار", MinSpend: 5000, DiscountPercent: 12},
	}

	saved, err := service.ConfigureTiers(context.Background(), replacement)

	require.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.Equal(t, "seed", saved[0].Code)
}
