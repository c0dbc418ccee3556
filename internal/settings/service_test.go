// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package settings

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/events"
)

type stubSettingRepository struct {
	versions map[string][]Setting
}

func newStubSettingRepository() *stubSettingRepository {
	return &stubSettingRepository{versions: make(map[string][]Setting)}
}

func (stub *stubSettingRepository) GetLatest(_ context.Context, key string) (*Setting, error) {
	history := stub.versions[key]
	if len(history) == 0 {
		return nil, apperr.NotFound("Setting")
	}
	latest := history[len(history)-1]
	return &latest, nil
}

func (stub *stubSettingRepository) Insert(_ context.Context, setting *Setting) error {
	setting.Version = len(stub.versions[setting.Key]) + 1
	stub.versions[setting.Key] = append(stub.versions[setting.Key], *setting)
	return nil
}

func (stub *stubSettingRepository) History(_ context.Context, key string, limit int) ([]Setting, error) {
	history := stub.versions[key]
	reversed := make([]Setting, 0, len(history))
	for index := len(history) - 1; index >= 0 && len(reversed) < limit; index-- {
		reversed = append(reversed, history[index])
	}
	return reversed, nil
}

type stubSettingCache struct {
	entries map[string]*Setting
	hits    int
}

func newStubSettingCache() *stubSettingCache {
	return &stubSettingCache{entries: make(map[string]*Setting)}
}

func (stub *stubSettingCache) Get(_ context.Context, key string) (*Setting, error) {
	if setting, found := stub.entries[key]; found {
		stub.hits++
		return setting, nil
	}
	return nil, apperr.NotFound("Cached setting")
}

func (stub *stubSettingCache) Set(_ context.Context, setting *Setting, _ time.Duration) error {
	stub.entries[setting.Key] = setting
	return nil
}

func (stub *stubSettingCache) Invalidate(_ context.Context, key string) error {
	delete(stub.entries, key)
	return nil
}

type stubFeed struct {
	published []events.Event
}

func (stub *stubFeed) Publish(_ context.Context, _ string, event events.Event) {
	stub.published = append(stub.published, event)
}

func newTestService(repository SettingRepository, cache SettingCache, feed FeedPublisher) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, cache, feed, logger)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		document string
		wantErr  bool
	}{
		{
			name:     "valid shipping policy",
			key:      KeyShippingPolicy,
			document: `{"enabled":true,"threshold":200,"min_items":0,"display":true}`,
			wantErr:  false,
		},
		{
			name:     "negative threshold rejected",
			key:      KeyShippingPolicy,
			document: `{"enabled":true,"threshold":-50,"min_items":0,"display":true}`,
			wantErr:  true,
		},
		{
			name:     "unknown field rejected",
			key:      KeyShippingPolicy,
			document: `{"enabled":true,"threshold":200,"free_gift":true}`,
			wantErr:  true,
		},
		{
			name:     "valid announcement",
			key:      KeyAnnouncement,
			document: `{"enabled":true,"text_en":"Summer sale","text_ar":"تخفيضات الصيف","style":"promo"}`,
			wantErr:  false,
		},
		{
			name:     "enabled announcement missing arabic text",
			key:      KeyAnnouncement,
			document: `{"enabled":true,"text_en":"Summer sale","text_ar":""}`,
			wantErr:  true,
		},
		{
			name:     "disabled draft may be empty",
			key:      KeyAnnouncement,
			document: `{"enabled":false,"text_en":"","text_ar":""}`,
			wantErr:  false,
		},
		{
			name:     "unknown announcement style",
			key:      KeyAnnouncement,
			document: `{"enabled":false,"text_en":"","text_ar":"","style":"blink"}`,
			wantErr:  true,
		},
		{
			name:     "unknown key",
			key:      "theme_colors",
			document: `{}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.key, json.RawMessage(tt.document))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetReadsThroughCache(t *testing.T) {
	repository := newStubSettingRepository()
	cache := newStubSettingCache()
	service := newTestService(repository, cache, &stubFeed{})

	_, err := service.Update(context.Background(), KeyShippingPolicy,
		json.RawMessage(`{"enabled":true,"threshold":200,"min_items":0,"display":true}`), "admin-1")
	require.NoError(t, err)

	// Update primes the cache, so the read must not touch the repository.
	first, err := service.Get(context.Background(), KeyShippingPolicy)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 1, cache.hits)

	_, err = service.Get(context.Background(), KeyShippingPolicy)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.hits)
}

func TestUpdateAppendsVersionsAndPublishes(t *testing.T) {
	repository := newStubSettingRepository()
	feed := &stubFeed{}
	service := newTestService(repository, newStubSettingCache(), feed)

	first, err := service.Update(context.Background(), KeyAnnouncement,
		json.RawMessage(`{"enabled":false,"text_en":"","text_ar":""}`), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := service.Update(context.Background(), KeyAnnouncement,
		json.RawMessage(`{"enabled":true,"text_en":"Open","text_ar":"مفتوح","style":"info"}`), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	require.Len(t, feed.published, 2)
	assert.Equal(t, "settings.updated", feed.published[0].Kind)
	assert.Equal(t, KeyAnnouncement, feed.published[0].Subject)
}

func TestUpdateRejectsInvalidDocument(t *testing.T) {
	repository := newStubSettingRepository()
	feed := &stubFeed{}
	service := newTestService(repository, newStubSettingCache(), feed)

	_, err := service.Update(context.Background(), KeyShippingPolicy,
		json.RawMessage(`{"enabled":true,"threshold":-1}`), "admin-1")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Empty(t, repository.versions[KeyShippingPolicy], "invalid documents must not be persisted")
	assert.Empty(t, feed.published)
}

func TestShippingPolicyDefaultsWhenUnconfigured(t *testing.T) {
	service := newTestService(newStubSettingRepository(), newStubSettingCache(), &stubFeed{})

	policy, err := service.ShippingPolicy(context.Background())

	require.NoError(t, err)
	assert.False(t, policy.Enabled)
}
