// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nabtahq/nabta/internal/access"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/sec"
	"github.com/nabtahq/nabta/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given account.
	//
	// # Parameters
	//   - accountID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The resolved role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(accountID, email, role string, timeToLive time.Duration) (string, error)
}

// RoleResolver computes the account's effective role at token issue time.
//
// Satisfied by [access.Resolver]. A degraded resolution (store outage)
// still carries a usable customer-level result alongside the error.
type RoleResolver interface {
	Resolve(context context.Context, actorID string) (access.Resolution, error)
}

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login,
// or token issue logic must be reviewed before merging.
type Service struct {
	accountRepository    AccountRepository
	sessionRepository    SessionRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	roleResolver         RoleResolver
	logger               *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
	roleResolver RoleResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository:    accountRepo,
		sessionRepository:    sessionRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		roleResolver:         roleResolver,
		logger:               logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Email             string
	Password          string
	DisplayName       string
	Phone             string
	PreferredLanguage string
}

/*
Register validates, hashes, and persists a brand new customer account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Account: Created entity
  - err: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.accountRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// against CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	language := input.PreferredLanguage
	if language != LanguageArabic {
		language = LanguageEnglish
	}

	// Time-sortable ID to prevent PG index fragmentation.
	account := &Account{
		ID:                uuid.New(),
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		DisplayName:       input.DisplayName,
		Phone:             input.Phone,
		PreferredLanguage: language,
		IsActive:          true,
	}

	if err := service.accountRepository.Create(context, account); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return account, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email      string
	Password   string
	DeviceName string
	UserAgent  string
	IPAddress  string
}

// LoginSession represents a successfully established session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Account               *Account
	Role                  string
}

/*
Login validates credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
resolves the account's effective role, and initializes a tracked session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	account, err := service.accountRepository.FindByEmail(context, input.Email)

	// Generic message on any lookup failure to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// bcrypt comparison is constant-time, preventing timing attacks.
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !account.IsActive {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	session, err := service.issueSession(context, account, input.DeviceName, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	if err := service.accountRepository.TouchLastLogin(context, account.ID); err != nil {
		service.logger.WarnContext(context, "auth_last_login_touch_failed",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
	}

	return session, nil
}

// issueSession resolves the role, signs an access token, and persists a
// refresh session. Shared between login and refresh rotation so the role
// claim is recomputed on every token the platform hands out.
func (service *Service) issueSession(context context.Context, account *Account, deviceName, userAgent, ipAddress string) (*LoginSession, error) {
	resolution, err := service.roleResolver.Resolve(context, account.ID)
	if err != nil {
		// Fail closed: a role store outage degrades the claim to customer
		// level rather than blocking the login outright.
		service.logger.ErrorContext(context, "auth_role_resolution_degraded",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
	}
	if resolution.Bootstrapped {
		service.logger.InfoContext(context, "auth_first_admin_bootstrapped",
			slog.String("account_id", account.ID),
		)
	}
	role := string(resolution.Role)

	accessToken, err := service.tokenProvider.GenerateAccessToken(account.ID, account.Email, role, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:         uuid.New(),
		AccountID:  account.ID,
		TokenHash:  sec.HashToken(refreshToken),
		DeviceName: deviceName,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		ExpiresAt:  expiresAt,
		IsRevoked:  false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		Account:               account,
		Role:                  role,
	}, nil
}

/*
Logout permanently revokes the caller's active session.

Description: Ensures that a tracked refresh token can never be used again.
Logout is idempotent; an unknown token is still a successful logout.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)

	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the refresh token rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens. The
role claim is re-resolved here, so a role revocation takes effect at the
next rotation at the latest.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: revoke the old session before issuing replacements.
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	account, err := service.accountRepository.FindByID(context, session.AccountID)
	if err != nil || !account.IsActive {
		return nil, apperr.Unauthorized("Account not found or deactivated")
	}

	return service.issueSession(context, account, session.DeviceName, userAgent, ipAddress)
}

/*
ListSessions returns the account's active sessions for the devices page.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - []Session: Active sessions, newest first
  - err: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, accountID string) ([]Session, error) {
	return service.sessionRepository.ListActive(context, accountID)
}

/*
RevokeSession invalidates one of the account's own sessions.

Parameters:
  - context: context.Context
  - accountID: string
  - sessionID: string

Returns:
  - err: NotFound if the session is not the caller's, or storage failures
*/
func (service *Service) RevokeSession(context context.Context, accountID, sessionID string) error {
	sessions, err := service.sessionRepository.ListActive(context, accountID)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		if session.ID == sessionID {
			return service.sessionRepository.Revoke(context, sessionID)
		}
	}

	return apperr.NotFound("Session")
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.
An unknown email produces an empty token and no error, so the HTTP layer
answers identically either way and account existence stays private.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	account, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, account.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// TODO: hand the token to the transactional email worker once it lands.
	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and revokes all active sessions for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	accountID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, accountID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security cleanup: every active session for this account dies.
	_ = service.sessionRepository.RevokeAll(context, accountID)
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

/*
ChangePassword allows an authenticated customer to update their credentials.

Description: Verifies the current password and then revokes all OTHER
refresh sessions to force re-login on other devices.

Parameters:
  - context: context.Context
  - accountID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, accountID, currentPassword, newPassword, currentRefreshToken string) error {
	account, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, account.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, accountID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	tokenHash := sec.HashToken(currentRefreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = service.sessionRepository.RevokeOthers(context, accountID, session.ID)
	}

	return nil
}
