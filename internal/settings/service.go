// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/constants"
	"github.com/nabtahq/nabta/internal/platform/events"
)

// cacheTTL bounds how stale a live document can get if a feed event is missed.
const cacheTTL = 5 * time.Minute

// historyLimit caps how many versions the history endpoint returns.
const historyLimit = 20

// FeedPublisher is the slice of [events.Feed] this service needs.
type FeedPublisher interface {
	Publish(ctx context.Context, channel string, event events.Event)
}

// Service implements configuration document use cases.
type Service struct {
	repository SettingRepository
	cache      SettingCache
	feed       FeedPublisher
	logger     *slog.Logger
}

// NewService constructs a [Service] with its dependencies.
func NewService(repository SettingRepository, cache SettingCache, feed FeedPublisher, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		feed:       feed,
		logger:     logger,
	}
}

// Get returns the live document for the key, reading through the cache.
//
// # Parameters
//   - context: Context for the store round-trips.
//   - key: One of the well-known setting keys.
//
// # Returns
//   - The latest [*Setting] version.
//   - [apperr.NotFound] if the key has never been written.
//
// Cache failures degrade to a direct store read; they are logged, never
// surfaced to the caller.
func (service *Service) Get(context context.Context, key string) (*Setting, error) {
	if cached, err := service.cache.Get(context, key); err == nil {
		return cached, nil
	}

	setting, err := service.repository.GetLatest(context, key)
	if err != nil {
		return nil, err
	}

	if cacheErr := service.cache.Set(context, setting, cacheTTL); cacheErr != nil {
		service.logger.WarnContext(context, "setting_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", cacheErr),
		)
	}

	return setting, nil
}

// ShippingPolicy returns the live shipping policy as its typed form.
//
// A never-configured store falls back to the disabled policy, which the
// threshold engine reads as free shipping store-wide.
func (service *Service) ShippingPolicy(context context.Context) (threshold.ShippingPolicy, error) {
	setting, err := service.Get(context, KeyShippingPolicy)
	if err != nil {
		if isNotFound(err) {
			return threshold.ShippingPolicy{Enabled: false}, nil
		}
		return threshold.ShippingPolicy{}, err
	}

	var policy threshold.ShippingPolicy
	if err := json.Unmarshal(setting.Document, &policy); err != nil {
		// Documents are validated on write; a corrupt row is a server fault.
		return threshold.ShippingPolicy{}, err
	}

	return policy, nil
}

// Update validates and appends a new version of the document.
//
// # Parameters
//   - context: Context for the store round-trips.
//   - key: One of the well-known setting keys.
//   - document: The raw JSON document to store.
//   - updatedBy: Account ID of the staff member making the change.
//
// # Returns
//   - The persisted [*Setting] with its assigned version.
//   - [apperr.ValidationError] if the document violates its schema.
func (service *Service) Update(context context.Context, key string, document json.RawMessage, updatedBy string) (*Setting, error) {
	if err := ValidateDocument(key, document); err != nil {
		return nil, err
	}

	setting := &Setting{
		Key:       key,
		Document:  document,
		UpdatedBy: updatedBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := service.repository.Insert(context, setting); err != nil {
		return nil, err
	}

	// Fresh writers beat TTL expiry: re-prime the cache and tell the other
	// processes to drop theirs.
	if cacheErr := service.cache.Set(context, setting, cacheTTL); cacheErr != nil {
		service.logger.WarnContext(context, "setting_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", cacheErr),
		)
	}

	service.feed.Publish(context, constants.FeedSettings, events.Event{
		Kind:    "settings.updated",
		Subject: key,
	})

	service.logger.InfoContext(context, "setting_updated",
		slog.String("key", key),
		slog.Int("version", setting.Version),
		slog.String("updated_by", updatedBy),
	)

	return setting, nil
}

// History returns recent versions for the key, newest first.
func (service *Service) History(context context.Context, key string) ([]Setting, error) {
	if err := knownKey(key); err != nil {
		return nil, err
	}
	return service.repository.History(context, key, historyLimit)
}
