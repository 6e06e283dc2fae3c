package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// VerificationConfig holds the engine limits
type VerificationConfig struct {
	CodeTTL     time.Duration
	MaxAttempts int
}

// VerificationMetrics receives issuance and verification outcomes
type VerificationMetrics interface {
	Issued(purpose domain.Purpose)
	Verified(purpose domain.Purpose, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) Issued(domain.Purpose)           {}
func (noopMetrics) Verified(domain.Purpose, string) {}

// VerificationService issues and verifies one-time codes for any purpose.
// It never delivers codes; callers get the plaintext back from Issue.
type VerificationService struct {
	store     domain.VerificationStore
	generator domain.CodeGenerator
	hasher    domain.CodeHasher
	config    VerificationConfig
	metrics   VerificationMetrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewVerificationService(
	store domain.VerificationStore,
	generator domain.CodeGenerator,
	hasher domain.CodeHasher,
	config VerificationConfig,
	metrics VerificationMetrics,
	logger *zap.Logger,
) *VerificationService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &VerificationService{
		store:     store,
		generator: generator,
		hasher:    hasher,
		config:    config,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Issue invalidates every active code for the subject and stores a new one.
// Storage errors are returned as is.
func (s *VerificationService) Issue(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, planID *int64) (*domain.IssuedCode, error) {
	if err := subject.Validate(purpose); err != nil {
		return nil, err
	}

	var issued *domain.IssuedCode
	err := s.store.WithinSubjectLock(ctx, purpose, subject, func(store domain.VerificationStore) error {
		invalidated, err := store.InvalidateAllActive(ctx, purpose, subject)
		if err != nil {
			return fmt.Errorf("invalidate active codes: %w", err)
		}

		code, err := s.generator.Generate()
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(code)
		if err != nil {
			return fmt.Errorf("hash one-time code: %w", err)
		}

		record := domain.NewVerificationRecord(purpose, subject, planID, hash, s.now(), s.config.CodeTTL)
		if err := store.Create(ctx, record); err != nil {
			return fmt.Errorf("create verification record: %w", err)
		}

		s.logger.Debug("verification code issued",
			zap.String("purpose", purpose.String()),
			zap.String("record_id", record.ID.String()),
			zap.Int64("invalidated", invalidated))

		issued = &domain.IssuedCode{Code: code, Record: record}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Issued(purpose)
	return issued, nil
}

// Verify checks the submitted code and consumes the record on a match.
func (s *VerificationService) Verify(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string) (*domain.VerificationResult, error) {
	return s.verify(ctx, purpose, subject, code, true, nil)
}

// VerifyAndApply is Verify that runs apply on a match before consuming the
// record. If apply fails the record stays active and the error is returned.
func (s *VerificationService) VerifyAndApply(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string, apply func(ctx context.Context, result *domain.VerificationResult) error) (*domain.VerificationResult, error) {
	return s.verify(ctx, purpose, subject, code, true, apply)
}

// Check is Verify without consuming the record on a match. Failed comparisons
// still count against the attempt ceiling.
func (s *VerificationService) Check(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string) (*domain.VerificationResult, error) {
	return s.verify(ctx, purpose, subject, code, false, nil)
}

func (s *VerificationService) verify(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string, consume bool, apply func(context.Context, *domain.VerificationResult) error) (*domain.VerificationResult, error) {
	if err := subject.Validate(purpose); err != nil {
		return nil, err
	}

	// fn only returns storage errors so the attempt and consume writes commit
	// even when the code is rejected.
	var (
		result   *domain.VerificationResult
		rejected error
	)
	err := s.store.WithinSubjectLock(ctx, purpose, subject, func(store domain.VerificationStore) error {
		record, err := store.FindActive(ctx, purpose, subject, s.now())
		if errors.Is(err, domain.ErrVerificationNotFound) {
			rejected = domain.ErrCodeInvalidOrExpired
			return nil
		}
		if err != nil {
			return fmt.Errorf("find active code: %w", err)
		}

		// Exhaustion is detected on the call after the last allowed failure.
		if record.AttemptsExhausted(s.config.MaxAttempts) {
			if _, err := store.MarkConsumed(ctx, record.ID); err != nil {
				return fmt.Errorf("consume exhausted code: %w", err)
			}
			s.logger.Info("verification code exhausted",
				zap.String("purpose", purpose.String()),
				zap.String("record_id", record.ID.String()))
			rejected = domain.ErrAttemptsExhausted
			return nil
		}

		ok, err := s.hasher.Compare(record.CodeHash, code)
		if err != nil {
			return fmt.Errorf("compare one-time code: %w", err)
		}
		if !ok {
			attempts, err := store.IncrementAttempts(ctx, record.ID)
			if err != nil {
				return fmt.Errorf("record failed attempt: %w", err)
			}
			next := *record
			next.AttemptCount = attempts
			rejected = &domain.IncorrectCodeError{Remaining: next.RemainingAttempts(s.config.MaxAttempts)}
			return nil
		}

		matched := &domain.VerificationResult{
			RecordID:         record.ID,
			SubjectUserID:    record.SubjectUserID,
			AssociatedPlanID: record.AssociatedPlanID,
		}
		if apply != nil {
			if err := apply(ctx, matched); err != nil {
				return err
			}
		}

		if consume {
			consumed, err := store.MarkConsumed(ctx, record.ID)
			if err != nil {
				return fmt.Errorf("consume code: %w", err)
			}
			if !consumed {
				rejected = domain.ErrCodeInvalidOrExpired
				return nil
			}
		}

		result = matched
		return nil
	})
	if err == nil {
		err = rejected
	}

	s.metrics.Verified(purpose, verificationOutcome(err))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func verificationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrCodeInvalidOrExpired):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrAttemptsExhausted):
		return metrics.OutcomeExhausted
	case errors.Is(err, domain.ErrCodeIncorrect):
		return metrics.OutcomeIncorrect
	default:
		return metrics.OutcomeError
	}
}
