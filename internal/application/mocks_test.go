package application

import (
	"context"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, accountID int64, hashedPassword string) error {
	args := m.Called(ctx, accountID, hashedPassword)
	return args.Error(0)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) ExistsActive(ctx context.Context, planID int64) (bool, error) {
	args := m.Called(ctx, planID)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, msg domain.PasswordResetMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockNotifier) SendRegistrationCode(ctx context.Context, msg domain.RegistrationCodeMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockCredentialUpdater struct {
	mock.Mock
}

func (m *MockCredentialUpdater) UpdateCredential(ctx context.Context, accountID int64, plainPassword string) error {
	args := m.Called(ctx, accountID, plainPassword)
	return args.Error(0)
}
