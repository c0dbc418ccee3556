// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package vip

import (
	"context"
	"time"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
)

// TierRepository defines the data access contract for the tier ladder.
type TierRepository interface {
	// ListOrdered returns all tiers sorted ascending by minimum spend.
	// An unconfigured program returns an empty slice, not an error.
	ListOrdered(ctx context.Context) ([]threshold.Tier, error)

	// ReplaceAll swaps the entire ladder in one transaction. The caller has
	// already validated that the new ladder partitions the spend range.
	ReplaceAll(ctx context.Context, tiers []threshold.Tier) error
}

// MembershipRepository defines the data access contract for memberships.
type MembershipRepository interface {
	// FindByAccount returns the membership for the account.
	//
	// Returns [apperr.NotFound] if the account is not enrolled.
	FindByAccount(ctx context.Context, accountID string) (*Membership, error)

	// Create enrolls the account.
	//
	// Returns [apperr.Conflict] if the account is already enrolled.
	Create(ctx context.Context, membership *Membership) error

	// AddSpend atomically increments spend and points, enrolling the
	// account first if needed.
	AddSpend(ctx context.Context, accountID string, amount float64, points int) error

	// SetPinnedTier sets or clears (tierID == "") the admin override.
	//
	// Returns [apperr.NotFound] if the account is not enrolled.
	SetPinnedTier(ctx context.Context, accountID, tierID string) error

	// DeductPoints atomically subtracts points, guarded so the balance
	// never goes negative.
	//
	// Returns [apperr.NotFound] if the account is not enrolled and
	// [apperr.Conflict] if the balance is insufficient.
	DeductPoints(ctx context.Context, accountID string, points int) error

	// StampTierChange records when a spend update crossed a tier boundary.
	StampTierChange(ctx context.Context, accountID string, at time.Time) error
}
