package application

import (
	"context"
	"testing"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type resetFixture struct {
	service     *PasswordResetService
	engine      *engineFixture
	accounts    *MockAccountRepository
	credentials *MockCredentialUpdater
	notifier    *MockNotifier
}

func newResetFixture(t *testing.T) *resetFixture {
	engine := newEngine(t, "483920")
	accounts := new(MockAccountRepository)
	credentials := new(MockCredentialUpdater)
	notifier := new(MockNotifier)
	service := NewPasswordResetService(engine.service, accounts, credentials, notifier,
		PasswordResetConfig{ExpiresMinutes: 15, FrontendURL: "https://app.example.com/"}, zap.NewNop())
	return &resetFixture{
		service:     service,
		engine:      engine,
		accounts:    accounts,
		credentials: credentials,
		notifier:    notifier,
	}
}

var owner = &domain.Account{
	ID:        42,
	Email:     "owner@example.com",
	FirstName: "Ana",
	LastName:  "Pérez",
	Status:    domain.AccountActive,
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the code to an active account", func(t *testing.T) {
		f := newResetFixture(t)
		f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(owner, nil)
		f.notifier.On("SendPasswordReset", ctx, domain.PasswordResetMessage{
			Email:          "owner@example.com",
			RecipientName:  "Ana Pérez",
			Code:           "483920",
			ExpiresMinutes: 15,
			ResetURL:       "https://app.example.com/auth/reset-password?email=owner%40example.com",
		}).Return(nil)

		f.service.RequestReset(ctx, "  Owner@Example.com ")

		f.accounts.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
		assert.Equal(t, 1, f.engine.store.active(domain.PurposePasswordReset, resetSubject, *f.engine.clock))
	})

	t.Run("unknown email issues nothing", func(t *testing.T) {
		f := newResetFixture(t)
		f.accounts.On("FindActiveByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrAccountNotFound)

		f.service.RequestReset(ctx, "ghost@example.com")

		f.notifier.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything)
		assert.Empty(t, f.engine.store.records)
	})

	t.Run("lookup failure is swallowed", func(t *testing.T) {
		f := newResetFixture(t)
		f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(nil, assert.AnError)

		assert.NotPanics(t, func() { f.service.RequestReset(ctx, "owner@example.com") })
		f.notifier.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		f := newResetFixture(t)
		f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(owner, nil)
		f.notifier.On("SendPasswordReset", ctx, mock.Anything).Return(domain.ErrMailNotConfigured)

		f.service.RequestReset(ctx, "owner@example.com")

		f.notifier.AssertExpectations(t)
	})
}

func TestPasswordResetService_ConfirmReset(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, f *resetFixture) {
		t.Helper()
		_, err := f.engine.service.Issue(ctx, domain.PurposePasswordReset, domain.UserSubject(42, owner.Email), nil)
		require.NoError(t, err)
	}

	t.Run("updates the credential", func(t *testing.T) {
		f := newResetFixture(t)
		issue(t, f)
		f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(owner, nil)
		f.credentials.On("UpdateCredential", ctx, int64(42), "NewSecret1").Return(nil)

		err := f.service.ConfirmReset(ctx, "OWNER@example.com", "483920", "NewSecret1")
		require.NoError(t, err)
		f.credentials.AssertExpectations(t)

		err = f.service.ConfirmReset(ctx, "owner@example.com", "483920", "NewSecret1")
		assert.ErrorIs(t, err, domain.ErrCodeInvalidOrExpired)
	})

	t.Run("unknown email looks like a bad code", func(t *testing.T) {
		f := newResetFixture(t)
		f.accounts.On("FindActiveByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrAccountNotFound)

		err := f.service.ConfirmReset(ctx, "ghost@example.com", "483920", "NewSecret1")
		assert.Equal(t, domain.ErrCodeInvalidOrExpired, err)
	})

	t.Run("wrong code reports remaining attempts", func(t *testing.T) {
		f := newResetFixture(t)
		issue(t, f)
		f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(owner, nil)

		err := f.service.ConfirmReset(ctx, "owner@example.com", "000000", "NewSecret1")
		var incorrect *domain.IncorrectCodeError
		require.ErrorAs(t, err, &incorrect)
		assert.Equal(t, 4, incorrect.Remaining)
		f.credentials.AssertNotCalled(t, "UpdateCredential", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("credential failure keeps the code usable", func(t *testing.T) {
		f := newResetFixture(t)
		issue(t, f)
		f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(owner, nil)
		f.credentials.On("UpdateCredential", ctx, int64(42), "NewSecret1").Return(assert.AnError).Once()
		f.credentials.On("UpdateCredential", ctx, int64(42), "NewSecret1").Return(nil).Once()

		err := f.service.ConfirmReset(ctx, "owner@example.com", "483920", "NewSecret1")
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, f.engine.store.active(domain.PurposePasswordReset, domain.UserSubject(42, owner.Email), *f.engine.clock))

		err = f.service.ConfirmReset(ctx, "owner@example.com", "483920", "NewSecret1")
		require.NoError(t, err)
		f.credentials.AssertNumberOfCalls(t, "UpdateCredential", 2)
		assert.Equal(t, 0, f.engine.store.active(domain.PurposePasswordReset, domain.UserSubject(42, owner.Email), *f.engine.clock))
	})
}

func TestPasswordResetService_CheckResetCode(t *testing.T) {
	ctx := context.Background()
	f := newResetFixture(t)
	_, err := f.engine.service.Issue(ctx, domain.PurposePasswordReset, domain.UserSubject(42, owner.Email), nil)
	require.NoError(t, err)
	f.accounts.On("FindActiveByEmail", ctx, "owner@example.com").Return(owner, nil)
	f.credentials.On("UpdateCredential", ctx, int64(42), "NewSecret1").Return(nil)

	require.NoError(t, f.service.CheckResetCode(ctx, "owner@example.com", "483920"))
	require.NoError(t, f.service.ConfirmReset(ctx, "owner@example.com", "483920", "NewSecret1"))
}
