// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/access"
	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/sec"
)

// # Test Doubles

type stubAccountRepository struct {
	accounts map[string]*Account // keyed by email

	lastLoginTouched string
	passwordUpdated  string
}

func newStubAccountRepository() *stubAccountRepository {
	return &stubAccountRepository{accounts: map[string]*Account{}}
}

func (repository *stubAccountRepository) FindByID(_ context.Context, id string) (*Account, error) {
	for _, account := range repository.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repository *stubAccountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	account, ok := repository.accounts[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return account, nil
}

func (repository *stubAccountRepository) Create(_ context.Context, account *Account) error {
	repository.accounts[account.Email] = account
	return nil
}

func (repository *stubAccountRepository) Update(_ context.Context, account *Account) error {
	repository.accounts[account.Email] = account
	return nil
}

func (repository *stubAccountRepository) UpdatePassword(_ context.Context, accountID, newHash string) error {
	repository.passwordUpdated = accountID
	for _, account := range repository.accounts {
		if account.ID == accountID {
			account.PasswordHash = newHash
		}
	}
	return nil
}

func (repository *stubAccountRepository) TouchLastLogin(_ context.Context, accountID string) error {
	repository.lastLoginTouched = accountID
	return nil
}

func (repository *stubAccountRepository) SoftDelete(_ context.Context, _ string) error {
	return nil
}

type stubSessionRepository struct {
	sessions map[string]*Session // keyed by token hash

	revokedAll    string
	revokedOthers string
}

func newStubSessionRepository() *stubSessionRepository {
	return &stubSessionRepository{sessions: map[string]*Session{}}
}

func (repository *stubSessionRepository) Create(_ context.Context, session *Session) error {
	repository.sessions[session.TokenHash] = session
	return nil
}

func (repository *stubSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	session, ok := repository.sessions[tokenHash]
	if !ok || session.IsRevoked {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (repository *stubSessionRepository) ListActive(_ context.Context, accountID string) ([]Session, error) {
	var active []Session
	for _, session := range repository.sessions {
		if session.AccountID == accountID && !session.IsRevoked {
			active = append(active, *session)
		}
	}
	return active, nil
}

func (repository *stubSessionRepository) Revoke(_ context.Context, sessionID string) error {
	for _, session := range repository.sessions {
		if session.ID == sessionID {
			session.IsRevoked = true
			return nil
		}
	}
	return apperr.NotFound("Session")
}

func (repository *stubSessionRepository) RevokeAll(_ context.Context, accountID string) error {
	repository.revokedAll = accountID
	for _, session := range repository.sessions {
		if session.AccountID == accountID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repository *stubSessionRepository) RevokeOthers(_ context.Context, accountID, currentSessionID string) error {
	repository.revokedOthers = accountID
	for _, session := range repository.sessions {
		if session.AccountID == accountID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repository *stubSessionRepository) DeleteExpired(_ context.Context) error {
	return nil
}

type stubResetTokenRepository struct {
	tokens map[string]string
}

func newStubResetTokenRepository() *stubResetTokenRepository {
	return &stubResetTokenRepository{tokens: map[string]string{}}
}

func (repository *stubResetTokenRepository) Set(_ context.Context, token, accountID string, _ time.Duration) error {
	repository.tokens[token] = accountID
	return nil
}

func (repository *stubResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	accountID, ok := repository.tokens[token]
	if !ok {
		return "", apperr.NotFound("Reset token is invalid or expired")
	}
	return accountID, nil
}

func (repository *stubResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.tokens, token)
	return nil
}

type stubTokenProvider struct {
	lastRole string
}

func (provider *stubTokenProvider) GenerateAccessToken(accountID, _, role string, _ time.Duration) (string, error) {
	provider.lastRole = role
	return "signed." + accountID + "." + role, nil
}

type stubRoleResolver struct {
	role         sec.Role
	bootstrapped bool
	err          error
	calls        int
}

func (resolver *stubRoleResolver) Resolve(_ context.Context, _ string) (access.Resolution, error) {
	resolver.calls++
	role := resolver.role
	if resolver.err != nil {
		role = sec.RoleUser
	}
	return access.Resolution{
		Role:         role,
		Permissions:  sec.PermissionsFor(role),
		Bootstrapped: resolver.bootstrapped,
	}, resolver.err
}

type authFixture struct {
	accounts *stubAccountRepository
	sessions *stubSessionRepository
	resets   *stubResetTokenRepository
	tokens   *stubTokenProvider
	roles    *stubRoleResolver
	service  *Service
}

func newAuthFixture() *authFixture {
	fixture := &authFixture{
		accounts: newStubAccountRepository(),
		sessions: newStubSessionRepository(),
		resets:   newStubResetTokenRepository(),
		tokens:   &stubTokenProvider{},
		roles:    &stubRoleResolver{role: sec.RoleUser},
	}
	fixture.service = NewService(
		fixture.accounts,
		fixture.sessions,
		fixture.resets,
		fixture.tokens,
		fixture.roles,
		slog.Default(),
	)
	return fixture
}

func (fixture *authFixture) register(t *testing.T, email, password string) *Account {
	t.Helper()
	account, err := fixture.service.Register(context.Background(), RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: "Leaf Lover",
	})
	require.NoError(t, err)
	return account
}

// # Tests

func TestRegisterHashesPasswordAndDefaultsLanguage(t *testing.T) {
	fixture := newAuthFixture()

	account := fixture.register(t, "fern@nabta.store", "greenhouse1")

	assert.NotEqual(t, "greenhouse1", account.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("greenhouse1", account.PasswordHash))
	assert.Equal(t, LanguageEnglish, account.PreferredLanguage)
	assert.True(t, account.IsActive)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "fern@nabta.store", "greenhouse1")

	_, err := fixture.service.Register(context.Background(), RegisterInput{
		Email:       "fern@nabta.store",
		Password:    "another-pass",
		DisplayName: "Copycat",
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestLoginIssuesTokensWithResolvedRole(t *testing.T) {
	fixture := newAuthFixture()
	fixture.roles.role = sec.RoleStoreManager
	account := fixture.register(t, "manager@nabta.store", "greenhouse1")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "manager@nabta.store",
		Password: "greenhouse1",
	})

	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleStoreManager), session.Role)
	assert.Equal(t, string(sec.RoleStoreManager), fixture.tokens.lastRole)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, account.ID, fixture.accounts.lastLoginTouched)
	assert.Len(t, fixture.sessions.sessions, 1)
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "fern@nabta.store", "greenhouse1")

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestLoginDeactivatedAccountUnauthorized(t *testing.T) {
	fixture := newAuthFixture()
	account := fixture.register(t, "fern@nabta.store", "greenhouse1")
	account.IsActive = false

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "greenhouse1",
	})

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestLoginDegradedRoleStoreStillSucceeds(t *testing.T) {
	fixture := newAuthFixture()
	fixture.roles.err = errors.New("role store down")
	fixture.register(t, "fern@nabta.store", "greenhouse1")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "greenhouse1",
	})

	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleUser), session.Role)
}

func TestRefreshRotatesAndReresolvesRole(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "fern@nabta.store", "greenhouse1")

	first, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "greenhouse1",
	})
	require.NoError(t, err)

	// Role changed between login and refresh; the new token must carry it.
	fixture.roles.role = sec.RoleModerator

	second, err := fixture.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleModerator), second.Role)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token was revoked during rotation.
	_, err = fixture.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	fixture := newAuthFixture()
	fixture.register(t, "fern@nabta.store", "greenhouse1")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "greenhouse1",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, fixture.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, fixture.service.Logout(context.Background(), "never-issued"))
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	fixture := newAuthFixture()
	account := fixture.register(t, "fern@nabta.store", "greenhouse1")

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "greenhouse1",
	})
	require.NoError(t, err)

	token, err := fixture.service.RequestPasswordReset(context.Background(), "fern@nabta.store")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, fixture.service.ResetPassword(context.Background(), token, "newgreenhouse2"))

	assert.Equal(t, account.ID, fixture.accounts.passwordUpdated)
	assert.Equal(t, account.ID, fixture.sessions.revokedAll)
	assert.True(t, sec.CheckPasswordHash("newgreenhouse2", account.PasswordHash))

	// The token is single use.
	err = fixture.service.ResetPassword(context.Background(), token, "thirdpassword3")
	require.Error(t, err)
}

func TestRequestPasswordResetUnknownEmailSilent(t *testing.T) {
	fixture := newAuthFixture()

	token, err := fixture.service.RequestPasswordReset(context.Background(), "ghost@nabta.store")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestChangePasswordVerifiesCurrentAndRevokesOthers(t *testing.T) {
	fixture := newAuthFixture()
	account := fixture.register(t, "fern@nabta.store", "greenhouse1")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Email:    "fern@nabta.store",
		Password: "greenhouse1",
	})
	require.NoError(t, err)

	err = fixture.service.ChangePassword(context.Background(), account.ID, "wrong", "newgreenhouse2", session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	err = fixture.service.ChangePassword(context.Background(), account.ID, "greenhouse1", "newgreenhouse2", session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, fixture.sessions.revokedOthers)
}
