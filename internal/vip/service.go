// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package vip

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/apperr"
)

// Service implements VIP program use cases.
type Service struct {
	tiers       TierRepository
	memberships MembershipRepository
	logger      *slog.Logger
}

// NewService constructs a [Service] with its storage dependencies.
func NewService(tiers TierRepository, memberships MembershipRepository, logger *slog.Logger) *Service {
	return &Service{
		tiers:       tiers,
		memberships: memberships,
		logger:      logger,
	}
}

// Enroll creates a membership for the account with zero spend.
//
// # Returns
//   - The new [*Membership].
//   - [apperr.Conflict] if the account is already enrolled.
func (service *Service) Enroll(context context.Context, accountID string) (*Membership, error) {
	membership := &Membership{
		AccountID:  accountID,
		EnrolledAt: time.Now().UTC(),
	}

	if err := service.memberships.Create(context, membership); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "vip_enrolled", slog.String("account_id", accountID))
	return membership, nil
}

// Card resolves the full membership view for the account.
//
// # Returns
//   - The [*Card] with tier, next tier, and progress.
//   - [apperr.NotFound] if the account is not enrolled.
//   - [apperr.Misconfigured] when the ladder is empty or malformed; the
//     storefront hides the card instead of rendering wrong discount math.
func (service *Service) Card(context context.Context, accountID string) (*Card, error) {
	membership, err := service.memberships.FindByAccount(context, accountID)
	if err != nil {
		return nil, err
	}

	ladder, err := service.tiers.ListOrdered(context)
	if err != nil {
		return nil, err
	}

	resolution, err := threshold.ResolveTier(membership.TotalSpend, ladder, membership.PinnedTierID)
	if err != nil {
		return nil, mapThresholdError(err)
	}

	progress, err := threshold.Progress(membership.TotalSpend, resolution.Tier, resolution.Next)
	if err != nil {
		return nil, mapThresholdError(err)
	}

	return &Card{
		Membership:      *membership,
		Tier:            resolution.Tier,
		NextTier:        resolution.Next,
		ProgressPercent: progress.ProgressPercent,
		AmountToNext:    progress.AmountToNext,
		Pinned:          membership.PinnedTierID == resolution.Tier.ID && membership.PinnedTierID != "",
	}, nil
}

// RecordSpend adds an order's qualifying spend to the membership.
//
// Called by checkout after an order is placed. Accounts without a
// membership are enrolled implicitly so loyalty starts from the first
// purchase.
func (service *Service) RecordSpend(context context.Context, accountID string, amount float64) error {
	if amount <= 0 {
		return nil
	}

	tierBefore := service.computedTierID(context, accountID)

	if err := service.memberships.AddSpend(context, accountID, amount, pointsEarned(amount)); err != nil {
		return err
	}

	if tierAfter := service.computedTierID(context, accountID); tierAfter != tierBefore {
		if err := service.memberships.StampTierChange(context, accountID, time.Now().UTC()); err != nil {
			service.logger.WarnContext(context, "vip_tier_change_stamp_failed",
				slog.String("account_id", accountID),
				slog.Any("error", err),
			)
		}
	}

	service.logger.InfoContext(context, "vip_spend_recorded",
		slog.String("account_id", accountID),
		slog.Float64("amount", amount),
	)
	return nil
}

// computedTierID resolves the membership's current computed tier, ignoring
// any pin. Empty on any failure: tier-change stamping is best effort and
// must never break spend recording.
func (service *Service) computedTierID(context context.Context, accountID string) string {
	membership, err := service.memberships.FindByAccount(context, accountID)
	if err != nil {
		return ""
	}

	ladder, err := service.tiers.ListOrdered(context)
	if err != nil {
		return ""
	}

	resolution, err := threshold.ResolveTier(membership.TotalSpend, ladder, "")
	if err != nil {
		return ""
	}

	return resolution.Tier.ID
}

// RedeemPoints spends part of the membership's points balance.
//
// Redemption burns points only; it never reduces recorded spend, so the
// member's tier is unaffected.
//
// # Returns
//   - [apperr.ValidationError] if points is not positive.
//   - [apperr.NotFound] if the account is not enrolled.
//   - [apperr.Conflict] if the balance is insufficient.
func (service *Service) RedeemPoints(context context.Context, accountID string, points int) error {
	if points <= 0 {
		return apperr.ValidationError("Points must be greater than zero")
	}

	if err := service.memberships.DeductPoints(context, accountID, points); err != nil {
		return err
	}

	service.logger.InfoContext(context, "vip_points_redeemed",
		slog.String("account_id", accountID),
		slog.Int("points", points),
	)
	return nil
}

// DiscountPercent returns the caller's tier discount for checkout pricing.
//
// Customers outside the program, or a misconfigured ladder, yield zero:
// checkout must never fail because loyalty is broken.
func (service *Service) DiscountPercent(context context.Context, accountID string) (float64, error) {
	membership, err := service.memberships.FindByAccount(context, accountID)
	if err != nil {
		if apperr.As(err) != nil && apperr.As(err).Code == "NOT_FOUND" {
			return 0, nil
		}
		return 0, err
	}

	ladder, err := service.tiers.ListOrdered(context)
	if err != nil {
		return 0, err
	}

	resolution, err := threshold.ResolveTier(membership.TotalSpend, ladder, membership.PinnedTierID)
	if err != nil {
		service.logger.WarnContext(context, "vip_discount_skipped",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		return 0, nil
	}

	return resolution.Tier.DiscountPercent, nil
}

// PinTier applies an admin tier override to the membership.
//
// # Returns
//   - [apperr.NotFound] if the tier does not exist or the account is not
//     enrolled.
func (service *Service) PinTier(context context.Context, accountID, tierID string) error {
	ladder, err := service.tiers.ListOrdered(context)
	if err != nil {
		return err
	}

	found := false
	for _, tier := range ladder {
		if tier.ID == tierID {
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("Tier")
	}

	if err := service.memberships.SetPinnedTier(context, accountID, tierID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "vip_tier_pinned",
		slog.String("account_id", accountID),
		slog.String("tier_id", tierID),
	)
	return nil
}

// UnpinTier clears the admin override so the tier is computed again.
func (service *Service) UnpinTier(context context.Context, accountID string) error {
	return service.memberships.SetPinnedTier(context, accountID, "")
}

// ListTiers returns the ladder for the storefront's program page.
func (service *Service) ListTiers(context context.Context) ([]threshold.Tier, error) {
	return service.tiers.ListOrdered(context)
}

// ConfigureTiers validates and replaces the whole ladder.
//
// # Returns
//   - The saved ladder.
//   - [apperr.Misconfigured] if the ladder has gaps, overlaps, a non-zero
//     floor, or a bounded top tier.
func (service *Service) ConfigureTiers(context context.Context, tiers []threshold.Tier) ([]threshold.Tier, error) {
	if err := threshold.ValidateLadder(tiers); err != nil {
		return nil, apperr.Misconfigured(err.Error())
	}

	if err := service.tiers.ReplaceAll(context, tiers); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "vip_ladder_replaced", slog.Int("tiers", len(tiers)))
	return service.tiers.ListOrdered(context)
}

// mapThresholdError converts engine sentinels into client-safe app errors.
func mapThresholdError(err error) error {
	switch {
	case errors.Is(err, threshold.ErrNoTiersConfigured):
		return apperr.Misconfigured("VIP program has no tiers configured")
	case errors.Is(err, threshold.ErrInvalidTierConfiguration):
		return apperr.Misconfigured("VIP tier boundaries are misconfigured")
	default:
		return err
	}
}
