// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabtahq/nabta/internal/platform/dberr"
)

// PostgresSettingRepository implements the SettingRepository interface using pgx.
type PostgresSettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new PostgreSQL implementation of the SettingRepository.
func NewSettingRepository(pool *pgxpool.Pool) *PostgresSettingRepository {
	return &PostgresSettingRepository{pool: pool}
}

// GetLatest returns the highest version for the key.
//
// # Returns
//
// Returns [apperr.NotFound] if the key has never been written.
func (repository *PostgresSettingRepository) GetLatest(ctx context.Context, key string) (*Setting, error) {
	const query = `
		SELECT key, version, document, updatedby, createdat
		FROM shop.setting
		WHERE key = $1
		ORDER BY version DESC
		LIMIT 1`

	setting := &Setting{}
	err := repository.pool.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Version,
		&setting.Document,
		&setting.UpdatedBy,
		&setting.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "setting_get_latest")
	}

	return setting, nil
}

// Insert appends a new version for the key.
//
// # Concurrency
//
// The version is assigned inside the INSERT from the current MAX, and the
// primary key (key, version) turns a concurrent writer into a conflict
// instead of a silent overwrite.
func (repository *PostgresSettingRepository) Insert(ctx context.Context, setting *Setting) error {
	const query = `
		INSERT INTO shop.setting (key, version, document, updatedby, createdat)
		SELECT $1, COALESCE(MAX(version), 0) + 1, $2, $3, $4
		FROM shop.setting
		WHERE key = $1
		RETURNING version`

	if setting.CreatedAt.IsZero() {
		setting.CreatedAt = time.Now().UTC()
	}

	err := repository.pool.QueryRow(ctx, query,
		setting.Key,
		setting.Document,
		setting.UpdatedBy,
		setting.CreatedAt,
	).Scan(&setting.Version)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return fmt.Errorf("postgres_setting_repo_version_race: %w", err)
		}
		return fmt.Errorf("postgres_setting_repo_insert_failed: %w", err)
	}

	return nil
}

// History returns up to limit versions for the key, newest first.
func (repository *PostgresSettingRepository) History(ctx context.Context, key string, limit int) ([]Setting, error) {
	const query = `
		SELECT key, version, document, updatedby, createdat
		FROM shop.setting
		WHERE key = $1
		ORDER BY version DESC
		LIMIT $2`

	rows, err := repository.pool.Query(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_setting_repo_history_failed: %w", err)
	}
	defer rows.Close()

	history := make([]Setting, 0, limit)
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.Key, &setting.Version, &setting.Document, &setting.UpdatedBy, &setting.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_setting_repo_scan_failed: %w", err)
		}
		history = append(history, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_setting_repo_rows_failed: %w", err)
	}

	return history, nil
}
