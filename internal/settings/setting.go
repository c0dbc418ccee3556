// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package settings manages the storefront's versioned configuration documents.

Each setting key (shipping policy, announcement bar) holds an append-only
history of JSON documents; the live document is the highest version. Writes
validate the document against its typed schema at the boundary, so a
malformed field can never reach the commerce arithmetic as a zero value.
*/
package settings

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/nabtahq/nabta/internal/commerce/threshold"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/validate"
)

// Well-known setting keys. Unknown keys are rejected at the boundary.
const (
	KeyShippingPolicy = "shipping_policy"
	KeyAnnouncement   = "announcement"
)

// Setting is one version of a configuration document.
type Setting struct {
	Key       string          `json:"key"`
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document"`
	UpdatedBy string          `json:"updated_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// Announcement is the schema for the storefront announcement bar.
type Announcement struct {
	Enabled bool   `json:"enabled"`
	TextEn  string `json:"text_en"`
	TextAr  string `json:"text_ar"`
	Style   string `json:"style"`
}

// announcement styles the storefront knows how to render.
var announcementStyles = []string{"info", "promo", "warning"}

// knownKey rejects keys outside the well-known set.
func knownKey(key string) error {
	switch key {
	case KeyShippingPolicy, KeyAnnouncement:
		return nil
	default:
		return apperr.ValidationError("Unknown setting key: " + key)
	}
}

// isNotFound reports whether err is the apperr NOT_FOUND kind.
func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}

// ValidateDocument checks a raw document against the schema for its key.
//
// # Returns
//   - [apperr.ValidationError] describing the first schema violation.
//   - [apperr.ValidationError] for an unknown key.
func ValidateDocument(key string, document json.RawMessage) error {
	switch key {
	case KeyShippingPolicy:
		return validateShippingPolicy(document)
	case KeyAnnouncement:
		return validateAnnouncement(document)
	default:
		return apperr.ValidationError("Unknown setting key: " + key)
	}
}

func validateShippingPolicy(document json.RawMessage) error {
	var policy threshold.ShippingPolicy
	if err := strictUnmarshal(document, &policy); err != nil {
		return apperr.ValidationError("Shipping policy document is malformed")
	}

	return (&validate.Validator{}).
		NonNegative("threshold", policy.Threshold).
		Custom("min_items", policy.MinItems < 0, "must be zero or positive").
		Err()
}

func validateAnnouncement(document json.RawMessage) error {
	var announcement Announcement
	if err := strictUnmarshal(document, &announcement); err != nil {
		return apperr.ValidationError("Announcement document is malformed")
	}

	validation := &validate.Validator{}
	if announcement.Enabled {
		// A disabled bar may be a draft; an enabled one must be renderable.
		validation.Required("text_en", announcement.TextEn)
		validation.Required("text_ar", announcement.TextAr)
	}
	if announcement.Style != "" {
		validation.OneOf("style", announcement.Style, announcementStyles...)
	}

	return validation.Err()
}

// strictUnmarshal rejects documents carrying fields outside the schema.
func strictUnmarshal(document json.RawMessage, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
