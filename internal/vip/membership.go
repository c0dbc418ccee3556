// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package vip implements the storefront's VIP membership program.

A membership tracks a customer's cumulative qualifying spend and points.
The customer's tier is never stored: it is recomputed from the tier ladder
on every read, unless an administrator has pinned a tier. The arithmetic
lives in the threshold package; this package owns persistence and the
ladder configuration.
*/
package vip

import (
	"time"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
)

// Membership is a customer's standing in the VIP program.
type Membership struct {
	AccountID string `json:"account_id"`

	// PinnedTierID is the admin override; empty means the tier is computed.
	PinnedTierID string `json:"pinned_tier_id,omitempty"`

	TotalSpend float64   `json:"total_spend"`
	Points     int       `json:"points"`
	EnrolledAt time.Time `json:"enrolled_at"`

	// LastTierChangeAt marks the most recent spend update that moved the
	// membership across a tier boundary.
	LastTierChangeAt *time.Time `json:"last_tier_change_at,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Card is the resolved membership view the storefront renders.
type Card struct {
	Membership Membership     `json:"membership"`
	Tier       threshold.Tier `json:"tier"`

	// NextTier is nil at the top of the ladder.
	NextTier *threshold.Tier `json:"next_tier,omitempty"`

	ProgressPercent float64 `json:"progress_percent"`
	AmountToNext    float64 `json:"amount_to_next"`

	// Pinned is true when an administrator override decided the tier.
	Pinned bool `json:"pinned,omitempty"`
}

// pointsEarned converts an order's qualifying spend into loyalty points.
// One point per whole currency unit, fractions dropped.
func pointsEarned(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(amount)
}
