package application

import (
	"context"
	"fmt"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/password"
	"go.uber.org/zap"
)

// CredentialService stores login passwords as bcrypt hashes
type CredentialService struct {
	accounts domain.AccountRepository
	hasher   *password.Hasher
	logger   *zap.Logger
}

func NewCredentialService(accounts domain.AccountRepository, hasher *password.Hasher, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *CredentialService) UpdateCredential(ctx context.Context, accountID int64, plainPassword string) error {
	hashed, err := s.hasher.Hash(plainPassword)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, hashed)
}
