package application

import (
	"context"

	"github.com/ipede/negocio-verification-service/internal/domain"
)

// VerificationEngine is what the flows need from VerificationService
type VerificationEngine interface {
	Issue(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, planID *int64) (*domain.IssuedCode, error)
	Verify(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string) (*domain.VerificationResult, error)
	VerifyAndApply(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string, apply func(ctx context.Context, result *domain.VerificationResult) error) (*domain.VerificationResult, error)
	Check(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, code string) (*domain.VerificationResult, error)
}

var _ VerificationEngine = (*VerificationService)(nil)
