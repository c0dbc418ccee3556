// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package threshold

import (
	"errors"
	"math"
)

var (
	// ErrNoTiersConfigured reports an empty tier list. The membership card
	// must not render a default tier when the program is unconfigured.
	ErrNoTiersConfigured = errors.New("threshold: no tiers configured")

	// ErrInvalidTierConfiguration reports two adjacent tiers sharing a
	// minimum spend, which would make progress math divide by zero.
	ErrInvalidTierConfiguration = errors.New("threshold: adjacent tiers share a minimum spend")
)

// Tier is one rung of the VIP ladder.
//
// Tiers cover half-open spend ranges [MinSpend, MaxSpend); the top tier's
// MaxSpend is nil meaning unbounded. A well-formed list partitions [0, inf)
// with the lowest tier starting at 0.
type Tier struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	NameEn          string   `json:"name_en"`
	NameAr          string   `json:"name_ar"`
	MinSpend        float64  `json:"min_spend"`
	MaxSpend        *float64 `json:"max_spend,omitempty"`
	DiscountPercent float64  `json:"discount_percent"`
}

// TierResolution pairs a matched tier with the one above it.
type TierResolution struct {
	Tier Tier `json:"tier"`

	// Next is nil when Tier is the top of the ladder.
	Next *Tier `json:"next,omitempty"`
}

// ResolveTier finds the tier covering totalSpend.
//
// # Parameters
//   - totalSpend: Cumulative qualifying spend, >= 0.
//   - tiers: Pre-sorted ascending by MinSpend.
//   - pinnedTierID: Optional admin override; pass "" for none.
//
// # Business Rules
//   - A pinned tier found in the list wins over the computed one. A pinned
//     ID that is absent falls through to computation; a stale pin must not
//     hide the customer's real standing.
//   - Spend exactly equal to a tier's MinSpend belongs to that tier.
//   - Spend below the lowest tier's MinSpend falls back to the lowest tier.
//
// # Returns
//   - The matched [TierResolution].
//   - [ErrNoTiersConfigured] when the tier list is empty.
func ResolveTier(totalSpend float64, tiers []Tier, pinnedTierID string) (TierResolution, error) {
	if len(tiers) == 0 {
		return TierResolution{}, ErrNoTiersConfigured
	}

	// Admin override wins when the pinned tier still exists.
	if pinnedTierID != "" {
		for index, tier := range tiers {
			if tier.ID == pinnedTierID {
				return TierResolution{Tier: tier, Next: nextTier(tiers, index)}, nil
			}
		}
	}

	for index, tier := range tiers {
		if totalSpend < tier.MinSpend {
			continue
		}
		if tier.MaxSpend == nil || totalSpend < *tier.MaxSpend {
			return TierResolution{Tier: tier, Next: nextTier(tiers, index)}, nil
		}
	}

	// Defensive: with a well-formed partition the only way to get here is
	// totalSpend below every tier, which the lowest tier absorbs.
	return TierResolution{Tier: tiers[0], Next: nextTier(tiers, 0)}, nil
}

// nextTier returns the tier above index, or nil at the top of the ladder.
func nextTier(tiers []Tier, index int) *Tier {
	if index+1 >= len(tiers) {
		return nil
	}
	next := tiers[index+1]
	return &next
}

// TierProgress quantifies how far a customer is from the next tier.
type TierProgress struct {
	ProgressPercent float64 `json:"progress_percent"`
	AmountToNext    float64 `json:"amount_to_next"`
}

// Progress computes advancement from the current tier toward the next.
//
// # Parameters
//   - totalSpend: Cumulative qualifying spend.
//   - current: The resolved tier.
//   - next: The tier above, or nil at the top of the ladder.
//
// # Returns
//   - A [TierProgress]; the top tier always reports 100% with 0 remaining.
//   - [ErrInvalidTierConfiguration] when current and next share a MinSpend.
func Progress(totalSpend float64, current Tier, next *Tier) (TierProgress, error) {
	if next == nil {
		return TierProgress{ProgressPercent: 100, AmountToNext: 0}, nil
	}

	span := next.MinSpend - current.MinSpend
	if span <= 0 {
		return TierProgress{}, ErrInvalidTierConfiguration
	}

	return TierProgress{
		ProgressPercent: math.Min(100, (totalSpend-current.MinSpend)/span*100),
		AmountToNext:    math.Max(0, next.MinSpend-totalSpend),
	}, nil
}

// ValidateLadder checks that a tier list partitions [0, inf).
//
// Used by the admin tier-configuration endpoint to reject a ladder with
// gaps, overlaps, a non-zero floor, or a bounded top before it is saved.
func ValidateLadder(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrNoTiersConfigured
	}

	if tiers[0].MinSpend != 0 {
		return errors.New("threshold: lowest tier must start at spend 0")
	}

	for index, tier := range tiers {
		isLast := index == len(tiers)-1

		if isLast {
			if tier.MaxSpend != nil {
				return errors.New("threshold: highest tier must be unbounded")
			}
			continue
		}

		if tier.MaxSpend == nil {
			return errors.New("threshold: only the highest tier may be unbounded")
		}

		next := tiers[index+1]
		if *tier.MaxSpend != next.MinSpend {
			return errors.New("threshold: tier ranges must meet without gaps or overlaps")
		}
		if next.MinSpend <= tier.MinSpend {
			return ErrInvalidTierConfiguration
		}
	}

	return nil
}
