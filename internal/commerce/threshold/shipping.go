// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package threshold implements the storefront's commerce arithmetic.

Two concerns live here: free-shipping eligibility for a cart, and VIP tier
resolution with progress toward the next tier. Every function is pure. The
callers (cart summary, membership card, checkout) fetch the aggregates and
configuration; this package only computes.
*/
package threshold

import "math"

// ShippingPolicy is the admin-edited free-shipping configuration.
//
// A disabled policy means shipping is free store-wide, not that the
// promotion is absent. Display controls whether the storefront renders the
// progress bar; it never affects eligibility.
type ShippingPolicy struct {
	Enabled   bool    `json:"enabled"`
	Threshold float64 `json:"threshold"`
	MinItems  int     `json:"min_items"`
	Display   bool    `json:"display"`
}

// ShippingEvaluation is the outcome of a free-shipping check.
type ShippingEvaluation struct {
	Qualifies       bool    `json:"qualifies"`
	AmountRemaining float64 `json:"amount_remaining"`
	ProgressPercent float64 `json:"progress_percent"`
}

// EvaluateFreeShipping reports whether a cart ships free and how far a
// non-qualifying cart is from the threshold.
//
// # Parameters
//   - cartTotal: Cart value, >= 0.
//   - itemCount: Number of items in the cart, >= 0.
//   - policy: The active [ShippingPolicy].
//
// # Business Rules
//   - policy.Enabled == false qualifies unconditionally with full progress.
//   - A threshold <= 0 or MinItems <= 0 disables that respective check.
//   - Both the amount check and the item-count check must pass to qualify.
func EvaluateFreeShipping(cartTotal float64, itemCount int, policy ShippingPolicy) ShippingEvaluation {
	if !policy.Enabled {
		return ShippingEvaluation{
			Qualifies:       true,
			AmountRemaining: 0,
			ProgressPercent: 100,
		}
	}

	amountOK := policy.Threshold <= 0 || cartTotal >= policy.Threshold
	itemsOK := policy.MinItems <= 0 || itemCount >= policy.MinItems

	progress := 100.0
	if policy.Threshold > 0 {
		progress = math.Min(100, cartTotal/policy.Threshold*100)
	}

	return ShippingEvaluation{
		Qualifies:       amountOK && itemsOK,
		AmountRemaining: math.Max(0, policy.Threshold-cartTotal),
		ProgressPercent: progress,
	}
}
