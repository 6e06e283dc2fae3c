package application

import (
	"context"
	"fmt"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"go.uber.org/zap"
)

// RegistrationVerification is returned once a signup email is proven
type RegistrationVerification struct {
	Email  string
	PlanID *int64
}

type RegistrationService struct {
	engine         VerificationEngine
	accounts       domain.AccountRepository
	plans          domain.PlanRepository
	notifier       domain.Notifier
	expiresMinutes int
	logger         *zap.Logger
}

func NewRegistrationService(
	engine VerificationEngine,
	accounts domain.AccountRepository,
	plans domain.PlanRepository,
	notifier domain.Notifier,
	expiresMinutes int,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		engine:         engine,
		accounts:       accounts,
		plans:          plans,
		notifier:       notifier,
		expiresMinutes: expiresMinutes,
		logger:         logger,
	}
}

// RequestCode sends a signup verification code. The plan, if any, is kept on
// the record and handed back by ConfirmCode.
func (s *RegistrationService) RequestCode(ctx context.Context, email string, planID *int64) error {
	email = domain.NormalizeEmail(email)

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return domain.ErrEmailAlreadyRegistered
	}

	if planID != nil {
		active, err := s.plans.ExistsActive(ctx, *planID)
		if err != nil {
			return fmt.Errorf("check plan: %w", err)
		}
		if !active {
			return domain.ErrPlanNotFound
		}
	}

	issued, err := s.engine.Issue(ctx, domain.PurposeRegistration, domain.EmailSubject(email), planID)
	if err != nil {
		return err
	}

	msg := domain.RegistrationCodeMessage{
		Email:          email,
		Code:           issued.Code,
		ExpiresMinutes: s.expiresMinutes,
	}
	if err := s.notifier.SendRegistrationCode(ctx, msg); err != nil {
		s.logger.Error("failed to send registration code",
			zap.String("record_id", issued.Record.ID.String()),
			zap.Error(err))
		return fmt.Errorf("send registration code: %w", err)
	}

	s.logger.Info("registration code sent", zap.String("record_id", issued.Record.ID.String()))
	return nil
}

// ConfirmCode consumes the code and returns the plan chosen at request time.
func (s *RegistrationService) ConfirmCode(ctx context.Context, email, code string) (*RegistrationVerification, error) {
	email = domain.NormalizeEmail(email)

	result, err := s.engine.Verify(ctx, domain.PurposeRegistration, domain.EmailSubject(email), code)
	if err != nil {
		return nil, err
	}

	return &RegistrationVerification{
		Email:  email,
		PlanID: result.AssociatedPlanID,
	}, nil
}
