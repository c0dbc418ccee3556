// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package events provides the Redis-backed change feed for the storefront.

When an operator publishes a new settings document or edits the catalog,
every running API process must drop its cached copy. The feed is a thin
pub/sub layer: publishers fire-and-forget a small JSON envelope, and
subscribers invalidate on receipt.

Delivery is best-effort. A missed message only means a cache entry lives
until its TTL expires, so the feed never blocks a write path.
*/
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is the envelope published on a feed channel.
type Event struct {
	// Kind names the mutation, e.g. "settings.updated" or "product.updated".
	Kind string `json:"kind"`

	// Subject is the identifier of the changed entity (setting key, product ID).
	Subject string `json:"subject"`

	// OccurredAt is the publisher's wall-clock timestamp.
	OccurredAt time.Time `json:"occurred_at"`
}

// Feed publishes and subscribes to change events over Redis pub/sub.
type Feed struct {
	client *redis.Client
	logger *slog.Logger
}

// NewFeed creates a change feed backed by the given Redis client.
func NewFeed(client *redis.Client, logger *slog.Logger) *Feed {
	return &Feed{client: client, logger: logger}
}

/*
Publish sends an event on the given channel.

Publish never fails the caller: a feed outage is logged and swallowed,
because subscribers fall back to cache TTL expiry.

Parameters:
  - context: context.Context
  - channel: string (feed channel, see constants.Feed*)
  - event: Event
*/
func (feed *Feed) Publish(context context.Context, channel string, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		feed.logger.ErrorContext(context, "feed_marshal_failed",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
		return
	}

	if err := feed.client.Publish(context, channel, payload).Err(); err != nil {
		feed.logger.WarnContext(context, "feed_publish_failed",
			slog.String("channel", channel),
			slog.String("kind", event.Kind),
			slog.Any("error", err),
		)
		return
	}

	feed.logger.DebugContext(context, "feed_published",
		slog.String("channel", channel),
		slog.String("kind", event.Kind),
		slog.String("subject", event.Subject),
	)
}

/*
Subscribe listens on the given channel and invokes handler for each event.

The subscription runs until the context is cancelled. Malformed payloads
are logged and skipped.

Parameters:
  - context: context.Context (cancel to stop the subscription)
  - channel: string
  - handler: func(Event)

Returns:
  - func(): Unsubscribe function that closes the underlying subscription
*/
func (feed *Feed) Subscribe(context context.Context, channel string, handler func(Event)) func() {
	pubsub := feed.client.Subscribe(context, channel)

	go func() {
		for {
			select {
			case <-context.Done():
				return
			case message, open := <-pubsub.Channel():
				if !open {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
					feed.logger.WarnContext(context, "feed_malformed_event",
						slog.String("channel", channel),
						slog.Any("error", err),
					)
					continue
				}

				handler(event)
			}
		}
	}()

	return func() {
		_ = pubsub.Close()
	}
}
