// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/pkg/pointer"
)

// testLadder mirrors the default Nabta VIP program.
func testLadder() []Tier {
	return []Tier{
		{ID: "t-green", Code: "green", NameEn: "Green", NameAr: "أخضر", MinSpend: 0, MaxSpend: pointer.To(2000.0), DiscountPercent: 5},
		{ID: "t-gold", Code: "gold", NameEn: "Gold", NameAr: "ذهبي", MinSpend: 2000, MaxSpend: pointer.To(10000.0), DiscountPercent: 10},
		{ID: "t-platinum", Code: "platinum", NameEn: "Platinum", NameAr: "بلاتيني", MinSpend: 10000, DiscountPercent: 15},
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name         string
		totalSpend   float64
		pinnedTierID string
		expectedCode string
		expectedNext string
	}{
		{
			name:         "mid ladder",
			totalSpend:   5000,
			expectedCode: "gold",
			expectedNext: "platinum",
		},
		{
			name:         "lowest tier",
			totalSpend:   100,
			expectedCode: "green",
			expectedNext: "gold",
		},
		{
			name:         "top tier has no next",
			totalSpend:   50000,
			expectedCode: "platinum",
			expectedNext: "",
		},
		{
			name:         "boundary spend belongs to the upper tier",
			totalSpend:   2000,
			expectedCode: "gold",
			expectedNext: "platinum",
		},
		{
			name:         "zero spend lands in the lowest tier",
			totalSpend:   0,
			expectedCode: "green",
			expectedNext: "gold",
		},
		{
			name:         "pinned tier overrides computation",
			totalSpend:   100,
			pinnedTierID: "t-platinum",
			expectedCode: "platinum",
			expectedNext: "",
		},
		{
			name:         "stale pin falls back to computation",
			totalSpend:   5000,
			pinnedTierID: "t-deleted",
			expectedCode: "gold",
			expectedNext: "platinum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution, err := ResolveTier(tt.totalSpend, testLadder(), tt.pinnedTierID)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resolution.Tier.Code)

			if tt.expectedNext == "" {
				assert.Nil(t, resolution.Next)
			} else {
				require.NotNil(t, resolution.Next)
				assert.Equal(t, tt.expectedNext, resolution.Next.Code)
			}
		})
	}
}

func TestResolveTierEmptyLadder(t *testing.T) {
	_, err := ResolveTier(5000, nil, "")
	assert.ErrorIs(t, err, ErrNoTiersConfigured)
}

func TestResolveTierBelowLowestFallsBack(t *testing.T) {
	// A misconfigured ladder whose floor is above zero still resolves.
	ladder := []Tier{
		{ID: "t-silver", Code: "silver", MinSpend: 500, MaxSpend: pointer.To(1000.0)},
		{ID: "t-gold", Code: "gold", MinSpend: 1000},
	}

	resolution, err := ResolveTier(100, ladder, "")

	require.NoError(t, err)
	assert.Equal(t, "silver", resolution.Tier.Code)
}

func TestProgress(t *testing.T) {
	ladder := testLadder()

	t.Run("gold toward platinum", func(t *testing.T) {
		progress, err := Progress(5000, ladder[1], &ladder[2])

		require.NoError(t, err)
		assert.InDelta(t, 37.5, progress.ProgressPercent, 1e-9)
		assert.InDelta(t, 5000, progress.AmountToNext, 1e-9)
	})

	t.Run("top tier is complete", func(t *testing.T) {
		progress, err := Progress(50000, ladder[2], nil)

		require.NoError(t, err)
		assert.Equal(t, 100.0, progress.ProgressPercent)
		assert.Equal(t, 0.0, progress.AmountToNext)
	})

	t.Run("progress caps at 100", func(t *testing.T) {
		// Pinned to a low tier while spend already exceeds the next rung.
		progress, err := Progress(9999, ladder[0], &ladder[1])

		require.NoError(t, err)
		assert.Equal(t, 100.0, progress.ProgressPercent)
		assert.Equal(t, 0.0, progress.AmountToNext)
	})

	t.Run("shared minimum spend is rejected", func(t *testing.T) {
		current := Tier{Code: "a", MinSpend: 1000}
		next := Tier{Code: "b", MinSpend: 1000}

		_, err := Progress(1500, current, &next)

		assert.ErrorIs(t, err, ErrInvalidTierConfiguration)
	})
}

func TestValidateLadder(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []Tier
		wantErr bool
	}{
		{
			name:    "well-formed ladder",
			tiers:   testLadder(),
			wantErr: false,
		},
		{
			name:    "empty ladder",
			tiers:   nil,
			wantErr: true,
		},
		{
			name: "floor above zero",
			tiers: []Tier{
				{MinSpend: 100, MaxSpend: pointer.To(2000.0)},
				{MinSpend: 2000},
			},
			wantErr: true,
		},
		{
			name: "gap between tiers",
			tiers: []Tier{
				{MinSpend: 0, MaxSpend: pointer.To(1000.0)},
				{MinSpend: 2000},
			},
			wantErr: true,
		},
		{
			name: "bounded top tier",
			tiers: []Tier{
				{MinSpend: 0, MaxSpend: pointer.To(1000.0)},
				{MinSpend: 1000, MaxSpend: pointer.To(2000.0)},
			},
			wantErr: true,
		},
		{
			name: "unbounded middle tier",
			tiers: []Tier{
				{MinSpend: 0},
				{MinSpend: 1000},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLadder(tt.tiers)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
