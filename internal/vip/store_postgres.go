// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package vip

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/dberr"
	"github.com/nabtahq/nabta/pkg/uuid"
)

// PostgresTierRepository implements the TierRepository interface using pgx.
type PostgresTierRepository struct {
	pool *pgxpool.Pool
}

// NewTierRepository creates a new PostgreSQL implementation of the TierRepository.
func NewTierRepository(pool *pgxpool.Pool) *PostgresTierRepository {
	return &PostgresTierRepository{pool: pool}
}

// ListOrdered returns all tiers sorted ascending by minimum spend.
func (repository *PostgresTierRepository) ListOrdered(ctx context.Context) ([]threshold.Tier, error) {
	const query = `
		SELECT id, code, nameen, namear, minspend, maxspend, discountpercent
		FROM shop.viptier
		ORDER BY minspend ASC`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_tier_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tiers := make([]threshold.Tier, 0)
	for rows.Next() {
		var tier threshold.Tier
		if err := rows.Scan(&tier.ID, &tier.Code, &tier.NameEn, &tier.NameAr, &tier.MinSpend, &tier.MaxSpend, &tier.DiscountPercent); err != nil {
			return nil, fmt.Errorf("postgres_tier_repo_scan_failed: %w", err)
		}
		tiers = append(tiers, tier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_tier_repo_rows_failed: %w", err)
	}

	return tiers, nil
}

// ReplaceAll swaps the entire ladder in one transaction.
//
// # Concurrency
//
// DELETE then INSERT inside a single transaction keeps concurrent readers
// on either the old ladder or the new one, never a mix.
func (repository *PostgresTierRepository) ReplaceAll(ctx context.Context, tiers []threshold.Tier) error {
	transaction, err := repository.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres_tier_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	if _, err := transaction.Exec(ctx, `DELETE FROM shop.viptier`); err != nil {
		return fmt.Errorf("postgres_tier_repo_clear_failed: %w", err)
	}

	const insert = `
		INSERT INTO shop.viptier (id, code, nameen, namear, minspend, maxspend, discountpercent, position, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	now := time.Now().UTC()
	for position, tier := range tiers {
		tierID := tier.ID
		if tierID == "" {
			tierID = uuid.New()
		}

		if _, err := transaction.Exec(ctx, insert,
			tierID, tier.Code, tier.NameEn, tier.NameAr,
			tier.MinSpend, tier.MaxSpend, tier.DiscountPercent,
			position, now,
		); err != nil {
			return fmt.Errorf("postgres_tier_repo_insert_failed: %w", err)
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_tier_repo_commit_failed: %w", err)
	}

	return nil
}

// PostgresMembershipRepository implements the MembershipRepository interface using pgx.
type PostgresMembershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository creates a new PostgreSQL implementation of the MembershipRepository.
func NewMembershipRepository(pool *pgxpool.Pool) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{pool: pool}
}

// FindByAccount returns the membership for the account.
func (repository *PostgresMembershipRepository) FindByAccount(ctx context.Context, accountID string) (*Membership, error) {
	const query = `
		SELECT accountid, pinnedtierid, totalspend, points, enrolledat, lasttierchangeat, updatedat
		FROM shop.vipmembership
		WHERE accountid = $1`

	membership := &Membership{}
	var pinned *string

	err := repository.pool.QueryRow(ctx, query, accountID).Scan(
		&membership.AccountID,
		&pinned,
		&membership.TotalSpend,
		&membership.Points,
		&membership.EnrolledAt,
		&membership.LastTierChangeAt,
		&membership.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "membership_find")
	}

	if pinned != nil {
		membership.PinnedTierID = *pinned
	}

	return membership, nil
}

// Create enrolls the account.
func (repository *PostgresMembershipRepository) Create(ctx context.Context, membership *Membership) error {
	const query = `
		INSERT INTO shop.vipmembership (accountid, pinnedtierid, totalspend, points, enrolledat, updatedat)
		VALUES ($1, NULL, $2, $3, $4, $4)`

	now := time.Now().UTC()
	if membership.EnrolledAt.IsZero() {
		membership.EnrolledAt = now
	}
	membership.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		membership.AccountID,
		membership.TotalSpend,
		membership.Points,
		membership.EnrolledAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Account is already enrolled")
		}
		return fmt.Errorf("postgres_membership_repo_create_failed: %w", err)
	}

	return nil
}

// AddSpend atomically increments spend and points, enrolling first if needed.
func (repository *PostgresMembershipRepository) AddSpend(ctx context.Context, accountID string, amount float64, points int) error {
	const query = `
		INSERT INTO shop.vipmembership (accountid, pinnedtierid, totalspend, points, enrolledat, updatedat)
		VALUES ($1, NULL, $2, $3, $4, $4)
		ON CONFLICT (accountid) DO UPDATE SET
			totalspend = shop.vipmembership.totalspend + EXCLUDED.totalspend,
			points     = shop.vipmembership.points + EXCLUDED.points,
			updatedat  = EXCLUDED.updatedat`

	_, err := repository.pool.Exec(ctx, query, accountID, amount, points, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_membership_repo_add_spend_failed: %w", err)
	}

	return nil
}

// SetPinnedTier sets or clears the admin override.
func (repository *PostgresMembershipRepository) SetPinnedTier(ctx context.Context, accountID, tierID string) error {
	const query = `
		UPDATE shop.vipmembership
		SET pinnedtierid = $2, updatedat = $3
		WHERE accountid = $1`

	var pinned *string
	if tierID != "" {
		pinned = &tierID
	}

	tag, err := repository.pool.Exec(ctx, query, accountID, pinned, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_membership_repo_pin_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Membership")
	}

	return nil
}

// DeductPoints atomically subtracts points from the balance.
//
// The WHERE guard keeps the balance non-negative under concurrent
// redemptions; a zero-row result is disambiguated with a follow-up read.
func (repository *PostgresMembershipRepository) DeductPoints(ctx context.Context, accountID string, points int) error {
	const query = `
		UPDATE shop.vipmembership
		SET points = points - $2, updatedat = $3
		WHERE accountid = $1 AND points >= $2`

	tag, err := repository.pool.Exec(ctx, query, accountID, points, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_membership_repo_deduct_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := repository.FindByAccount(ctx, accountID); err != nil {
			return err
		}
		return apperr.Conflict("Insufficient points balance")
	}

	return nil
}

// StampTierChange records when a spend update crossed a tier boundary.
func (repository *PostgresMembershipRepository) StampTierChange(ctx context.Context, accountID string, at time.Time) error {
	const query = `
		UPDATE shop.vipmembership
		SET lasttierchangeat = $2, updatedat = $2
		WHERE accountid = $1`

	if _, err := repository.pool.Exec(ctx, query, accountID, at); err != nil {
		return fmt.Errorf("postgres_membership_repo_stamp_failed: %w", err)
	}

	return nil
}
