package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"go.uber.org/zap"
)

// PasswordResetConfig controls what goes into the reset email
type PasswordResetConfig struct {
	ExpiresMinutes int
	FrontendURL    string
}

// PasswordResetService runs the forgot-password flow. Request never reveals
// whether an account exists.
type PasswordResetService struct {
	engine      VerificationEngine
	accounts    domain.AccountRepository
	credentials domain.CredentialUpdater
	notifier    domain.Notifier
	config      PasswordResetConfig
	logger      *zap.Logger
}

func NewPasswordResetService(
	engine VerificationEngine,
	accounts domain.AccountRepository,
	credentials domain.CredentialUpdater,
	notifier domain.Notifier,
	config PasswordResetConfig,
	logger *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		engine:      engine,
		accounts:    accounts,
		credentials: credentials,
		notifier:    notifier,
		config:      config,
		logger:      logger,
	}
}

// RequestReset sends a reset code when an active account owns the email.
// Every failure is logged and swallowed.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) {
	email = domain.NormalizeEmail(email)

	account, err := s.accounts.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Info("password reset requested for unknown email")
		} else {
			s.logger.Error("failed to look up account for password reset", zap.Error(err))
		}
		return
	}

	issued, err := s.engine.Issue(ctx, domain.PurposePasswordReset, domain.UserSubject(account.ID, account.Email), nil)
	if err != nil {
		s.logger.Error("failed to issue password reset code",
			zap.Int64("user_id", account.ID),
			zap.Error(err))
		return
	}

	msg := domain.PasswordResetMessage{
		Email:          account.Email,
		RecipientName:  account.DisplayName(),
		Code:           issued.Code,
		ExpiresMinutes: s.config.ExpiresMinutes,
		ResetURL:       s.resetURL(account.Email),
	}
	if err := s.notifier.SendPasswordReset(ctx, msg); err != nil {
		s.logger.Error("failed to send password reset email",
			zap.Int64("user_id", account.ID),
			zap.String("record_id", issued.Record.ID.String()),
			zap.Error(err))
		return
	}

	s.logger.Info("password reset code sent", zap.Int64("user_id", account.ID))
}

// CheckResetCode validates a code without consuming it, so the new password
// can be collected afterwards. Failed comparisons still count.
func (s *PasswordResetService) CheckResetCode(ctx context.Context, email, code string) error {
	account, err := s.resolve(ctx, email)
	if err != nil {
		return err
	}
	_, err = s.engine.Check(ctx, domain.PurposePasswordReset, domain.UserSubject(account.ID, account.Email), code)
	return err
}

// ConfirmReset replaces the account password and then consumes the code. A
// failed password write leaves the code usable.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	account, err := s.resolve(ctx, email)
	if err != nil {
		return err
	}

	subject := domain.UserSubject(account.ID, account.Email)
	result, err := s.engine.VerifyAndApply(ctx, domain.PurposePasswordReset, subject, code,
		func(ctx context.Context, result *domain.VerificationResult) error {
			if err := s.credentials.UpdateCredential(ctx, *result.SubjectUserID, newPassword); err != nil {
				return fmt.Errorf("update credential: %w", err)
			}
			return nil
		})
	if err != nil {
		return err
	}

	s.logger.Info("password reset completed",
		zap.Int64("user_id", account.ID),
		zap.String("record_id", result.RecordID.String()))
	return nil
}

// resolve maps an unknown email to the same error as a bad code.
func (s *PasswordResetService) resolve(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.FindActiveByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrCodeInvalidOrExpired
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (s *PasswordResetService) resetURL(email string) string {
	base := strings.TrimRight(s.config.FrontendURL, "/")
	return base + "/auth/reset-password?email=" + url.QueryEscape(email)
}
