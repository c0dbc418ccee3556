// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateFreeShipping(t *testing.T) {
	tests := []struct {
		name      string
		cartTotal float64
		itemCount int
		policy    ShippingPolicy
		expected  ShippingEvaluation
	}{
		{
			name:      "qualifies above threshold",
			cartTotal: 250,
			itemCount: 3,
			policy:    ShippingPolicy{Enabled: true, Threshold: 200},
			expected:  ShippingEvaluation{Qualifies: true, AmountRemaining: 0, ProgressPercent: 100},
		},
		{
			name:      "below threshold reports remaining and progress",
			cartTotal: 150,
			itemCount: 3,
			policy:    ShippingPolicy{Enabled: true, Threshold: 200},
			expected:  ShippingEvaluation{Qualifies: false, AmountRemaining: 50, ProgressPercent: 75},
		},
		{
			name:      "disabled policy means free store-wide",
			cartTotal: 0,
			itemCount: 0,
			policy:    ShippingPolicy{Enabled: false, Threshold: 200, MinItems: 5},
			expected:  ShippingEvaluation{Qualifies: true, AmountRemaining: 0, ProgressPercent: 100},
		},
		{
			name:      "exactly at threshold qualifies",
			cartTotal: 200,
			itemCount: 1,
			policy:    ShippingPolicy{Enabled: true, Threshold: 200},
			expected:  ShippingEvaluation{Qualifies: true, AmountRemaining: 0, ProgressPercent: 100},
		},
		{
			name:      "item count gate blocks an otherwise qualifying cart",
			cartTotal: 300,
			itemCount: 1,
			policy:    ShippingPolicy{Enabled: true, Threshold: 200, MinItems: 2},
			expected:  ShippingEvaluation{Qualifies: false, AmountRemaining: 0, ProgressPercent: 100},
		},
		{
			name:      "zero threshold disables the amount check",
			cartTotal: 10,
			itemCount: 1,
			policy:    ShippingPolicy{Enabled: true, Threshold: 0},
			expected:  ShippingEvaluation{Qualifies: true, AmountRemaining: 0, ProgressPercent: 100},
		},
		{
			name:      "empty cart against a threshold",
			cartTotal: 0,
			itemCount: 0,
			policy:    ShippingPolicy{Enabled: true, Threshold: 200},
			expected:  ShippingEvaluation{Qualifies: false, AmountRemaining: 200, ProgressPercent: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateFreeShipping(tt.cartTotal, tt.itemCount, tt.policy)

			assert.Equal(t, tt.expected.Qualifies, result.Qualifies)
			assert.InDelta(t, tt.expected.AmountRemaining, result.AmountRemaining, 1e-9)
			assert.InDelta(t, tt.expected.ProgressPercent, result.ProgressPercent, 1e-9)
		})
	}
}

func TestEvaluateFreeShippingIsPure(t *testing.T) {
	policy := ShippingPolicy{Enabled: true, Threshold: 200, MinItems: 2}

	first := EvaluateFreeShipping(150, 3, policy)
	second := EvaluateFreeShipping(150, 3, policy)

	assert.Equal(t, first, second)
	assert.Equal(t, ShippingPolicy{Enabled: true, Threshold: 200, MinItems: 2}, policy)
}
