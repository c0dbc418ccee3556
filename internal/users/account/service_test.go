// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package account

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/users/auth"
	"github.com/nabtahq/nabta/pkg/pointer"
)

type stubAccountRepository struct {
	account *auth.Account

	updated     bool
	softDeleted string
}

func (repository *stubAccountRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	if repository.account == nil || repository.account.ID != id {
		return nil, apperr.NotFound("Account")
	}
	return repository.account, nil
}

func (repository *stubAccountRepository) Update(_ context.Context, account *auth.Account) error {
	repository.account = account
	repository.updated = true
	return nil
}

func (repository *stubAccountRepository) SoftDelete(_ context.Context, id string) error {
	repository.softDeleted = id
	return nil
}

type stubSessionRevoker struct {
	revokedAll string
}

func (revoker *stubSessionRevoker) RevokeAll(_ context.Context, accountID string) error {
	revoker.revokedAll = accountID
	return nil
}

func TestUpdateProfilePartialPatch(t *testing.T) {
	repository := &stubAccountRepository{account: &auth.Account{
		ID:                "acct-1",
		DisplayName:       "Fern",
		Phone:             "+97150000000",
		PreferredLanguage: auth.LanguageEnglish,
	}}
	service := NewService(repository, &stubSessionRevoker{}, slog.Default())

	updated, err := service.UpdateProfile(context.Background(), "acct-1", UpdateProfileInput{
		PreferredLanguage: pointer.To(auth.LanguageArabic),
	})

	require.NoError(t, err)
	assert.Equal(t, auth.LanguageArabic, updated.PreferredLanguage)
	assert.Equal(t, "Fern", updated.DisplayName)
	assert.Equal(t, "+97150000000", updated.Phone)
	assert.True(t, repository.updated)
}

func TestUpdateProfileRejectsUnknownLanguage(t *testing.T) {
	repository := &stubAccountRepository{account: &auth.Account{ID: "acct-1"}}
	service := NewService(repository, &stubSessionRevoker{}, slog.Default())

	_, err := service.UpdateProfile(context.Background(), "acct-1", UpdateProfileInput{
		PreferredLanguage: pointer.To("fr"),
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.False(t, repository.updated)
}

func TestDeleteAccountRevokesSessions(t *testing.T) {
	repository := &stubAccountRepository{account: &auth.Account{ID: "acct-1"}}
	revoker := &stubSessionRevoker{}
	service := NewService(repository, revoker, slog.Default())

	require.NoError(t, service.DeleteAccount(context.Background(), "acct-1"))

	assert.Equal(t, "acct-1", repository.softDeleted)
	assert.Equal(t, "acct-1", revoker.revokedAll)
}
