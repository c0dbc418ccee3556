// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for customer profiles.
type Service struct {
	accountRepository AccountRepository
	sessions          SessionRevoker
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo AccountRepository, sessions SessionRevoker, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessions:          sessions,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a customer.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *auth.Account: The hydrated profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, accountID string) (*auth.Account, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return account, nil
}

// UpdateProfileInput defines the mutable subset of profile fields.
//
// Nil pointers mean "leave unchanged", so a partial PATCH body maps
// directly onto this struct.
type UpdateProfileInput struct {
	DisplayName       *string
	Phone             *string
	PreferredLanguage *string
}

/*
UpdateProfile applies a partial set of changes to a customer's profile.

Description: Fetches the existing state, overrides provided fields, and
synchronizes the change to persistent storage. The preferred language
drives which locale the storefront serves by default.

Parameters:
  - context: context.Context
  - accountID: string
  - input: UpdateProfileInput

Returns:
  - *auth.Account: The updated profile
  - error: Validation, update, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, accountID string, input UpdateProfileInput) (*auth.Account, error) {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.DisplayName != nil {
		account.DisplayName = *input.DisplayName
	}
	if input.Phone != nil {
		account.Phone = *input.Phone
	}
	if input.PreferredLanguage != nil {
		language := *input.PreferredLanguage
		if language != auth.LanguageEnglish && language != auth.LanguageArabic {
			return nil, apperr.ValidationError("Preferred language must be en or ar")
		}
		account.PreferredLanguage = language
	}

	if err := service.accountRepository.Update(context, account); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_profile_updated", slog.String("account_id", accountID))

	return account, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a customer account.

Description: Flags the account as deleted and immediately terminates all
active sessions to force a global sign-out. Order history is retained;
the order table references the account by ID only.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, accountID string) error {
	if err := service.accountRepository.SoftDelete(context, accountID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	_ = service.sessions.RevokeAll(context, accountID)

	service.logger.WarnContext(context, "account_deleted", slog.String("account_id", accountID))

	return nil
}
