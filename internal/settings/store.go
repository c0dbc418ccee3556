// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package settings

import (
	"context"
	"time"
)

// SettingRepository defines the data access contract for setting versions.
type SettingRepository interface {
	// GetLatest returns the highest version for the key.
	//
	// Returns [apperr.NotFound] if the key has never been written.
	GetLatest(ctx context.Context, key string) (*Setting, error)

	// Insert appends a new version for the key. The repository assigns the
	// version number atomically; the caller leaves Version zero.
	Insert(ctx context.Context, setting *Setting) error

	// History returns up to limit versions for the key, newest first.
	History(ctx context.Context, key string, limit int) ([]Setting, error)
}

// SettingCache defines the volatile read-through cache for live documents.
type SettingCache interface {
	// Get returns the cached setting, or [apperr.NotFound] on a miss.
	Get(ctx context.Context, key string) (*Setting, error)

	// Set stores the setting for the given TTL.
	Set(ctx context.Context, setting *Setting, ttl time.Duration) error

	// Invalidate drops the cached entry.
	Invalidate(ctx context.Context, key string) error
}
