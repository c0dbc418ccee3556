// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/constants"
)

// RedisSettingCache implements the SettingCache interface using go-redis.
type RedisSettingCache struct {
	client *redis.Client
}

// NewSettingCache creates a new Redis implementation of the SettingCache.
func NewSettingCache(client *redis.Client) *RedisSettingCache {
	return &RedisSettingCache{client: client}
}

// Get returns the cached setting, or [apperr.NotFound] on a miss.
func (cache *RedisSettingCache) Get(ctx context.Context, key string) (*Setting, error) {
	payload, err := cache.client.Get(ctx, constants.RedisPrefixSetting+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached setting")
		}
		return nil, fmt.Errorf("redis_setting_cache_get_failed: %w", err)
	}

	setting := &Setting{}
	if err := json.Unmarshal(payload, setting); err != nil {
		// A corrupt entry is equivalent to a miss; the store is authoritative.
		return nil, apperr.NotFound("Cached setting")
	}

	return setting, nil
}

// Set stores the setting for the given TTL.
func (cache *RedisSettingCache) Set(ctx context.Context, setting *Setting, ttl time.Duration) error {
	payload, err := json.Marshal(setting)
	if err != nil {
		return fmt.Errorf("redis_setting_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(ctx, constants.RedisPrefixSetting+setting.Key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_setting_cache_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops the cached entry.
func (cache *RedisSettingCache) Invalidate(ctx context.Context, key string) error {
	if err := cache.client.Del(ctx, constants.RedisPrefixSetting+key).Err(); err != nil {
		return fmt.Errorf("redis_setting_cache_del_failed: %w", err)
	}
	return nil
}
