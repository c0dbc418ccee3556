// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package auth implements account identity and session management.

It owns registration, login, refresh-token rotation, and password
recovery. Roles are deliberately NOT stored on the account row; the
access control resolver computes them at token issue time, and the
resolved role travels inside the JWT claims.
*/
package auth

import "time"

// # Domain Entities

// Account represents a registered Nabta customer.
type Account struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	DisplayName       string     `json:"display_name"`
	Phone             string     `json:"phone,omitempty"`
	PreferredLanguage string     `json:"preferred_language"`
	IsActive          bool       `json:"is_active"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"account_id"`
	TokenHash  string     `json:"-"`
	DeviceName string     `json:"device_name,omitempty"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	IsRevoked  bool       `json:"is_revoked"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// # Supported Languages

// Storefront locales an account can prefer.
const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// # Field Identifiers

// Field names for validation and identity mapping in the auth domain.
const (
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldDisplayName       = "display_name"
	FieldPhone             = "phone"
	FieldPreferredLanguage = "preferred_language"
	FieldToken             = "token"
	FieldCurrentPassword   = "current_password"
	FieldNewPassword       = "new_password"
	FieldAccessToken       = "access_token"
	FieldTokenType         = "token_type"
	FieldExpiresIn         = "expires_in"
	FieldMessage           = "message"
)

// # Token Constraints

const (
	// AccessTokenTTL is kept short to bound the blast radius of a leaked
	// token; the role claim inside it also goes stale after this window.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL keeps returning customers signed in for a month.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// ResetTokenTTL is short-lived; the reset email loses its power fast.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the password reset token.
	ResetTokenLength = 32
)
