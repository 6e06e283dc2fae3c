package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Purpose discriminates the business use of a one-time code.
type Purpose string

const (
	PurposePasswordReset Purpose = "PASSWORD_RESET"
	PurposeRegistration  Purpose = "REGISTRATION"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposePasswordReset || p == PurposeRegistration
}

// ScopedByUser reports whether records of this purpose are keyed by account id
// rather than by email address.
func (p Purpose) ScopedByUser() bool {
	return p == PurposePasswordReset
}

func (p Purpose) String() string {
	return string(p)
}

// SubjectKey identifies who a code belongs to. Password reset codes are keyed
// by UserID; registration codes by Email, since no account exists yet.
type SubjectKey struct {
	UserID int64
	Email  string
}

// UserSubject builds the key for an existing account.
func UserSubject(userID int64, email string) SubjectKey {
	return SubjectKey{UserID: userID, Email: NormalizeEmail(email)}
}

// EmailSubject builds the key for an address with no account behind it.
func EmailSubject(email string) SubjectKey {
	return SubjectKey{Email: NormalizeEmail(email)}
}

// Validate checks that the key carries what purpose p requires.
func (k SubjectKey) Validate(p Purpose) error {
	if !p.Valid() {
		return fmt.Errorf("unknown verification purpose %q", p)
	}
	if k.Email == "" {
		return fmt.Errorf("%s subject requires an email", p)
	}
	if p.ScopedByUser() && k.UserID <= 0 {
		return fmt.Errorf("%s subject requires a user id", p)
	}
	return nil
}

// LockKey is a stable string used to serialize writers for the same key.
func (k SubjectKey) LockKey(p Purpose) string {
	if p.ScopedByUser() {
		return fmt.Sprintf("%s:user:%d", p, k.UserID)
	}
	return fmt.Sprintf("%s:email:%s", p, k.Email)
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerificationRecord is a persisted one-time code. The plaintext code is never
// stored; CodeHash is written once at creation.
type VerificationRecord struct {
	ID               ulid.ULID `json:"id"`
	Purpose          Purpose   `json:"purpose"`
	SubjectEmail     string    `json:"subject_email"`
	SubjectUserID    *int64    `json:"subject_user_id,omitempty"`
	AssociatedPlanID *int64    `json:"associated_plan_id,omitempty"`
	CodeHash         string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	Consumed         bool      `json:"consumed"`
	AttemptCount     int       `json:"attempt_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewVerificationRecord is the issue transition: a fresh, unconsumed record with
// zero attempts that expires ttl after now. A plan id is only kept for
// registration records.
func NewVerificationRecord(purpose Purpose, subject SubjectKey, planID *int64, codeHash string, now time.Time, ttl time.Duration) *VerificationRecord {
	record := &VerificationRecord{
		ID:           ulid.Make(),
		Purpose:      purpose,
		SubjectEmail: subject.Email,
		CodeHash:     codeHash,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}
	if purpose.ScopedByUser() {
		userID := subject.UserID
		record.SubjectUserID = &userID
	} else if planID != nil {
		id := *planID
		record.AssociatedPlanID = &id
	}
	return record
}

// IsExpired reports whether the record is past its expiry at now.
func (r VerificationRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsActive reports whether the record can still be verified at now.
func (r VerificationRecord) IsActive(now time.Time) bool {
	return !r.Consumed && !r.IsExpired(now)
}

// AttemptsExhausted reports whether no comparisons remain.
func (r VerificationRecord) AttemptsExhausted(maxAttempts int) bool {
	return r.AttemptCount >= maxAttempts
}

// RemainingAttempts never goes below zero.
func (r VerificationRecord) RemainingAttempts(maxAttempts int) int {
	if remaining := maxAttempts - r.AttemptCount; remaining > 0 {
		return remaining
	}
	return 0
}

// RecordAttempt returns the state after one failed comparison.
func (r VerificationRecord) RecordAttempt() VerificationRecord {
	r.AttemptCount++
	return r
}

// Consume returns the state after the record has been used or invalidated.
func (r VerificationRecord) Consume() VerificationRecord {
	r.Consumed = true
	return r
}

// IssuedCode is what the engine hands back to a flow after issuing. Code is the
// only copy of the plaintext and must go straight to delivery.
type IssuedCode struct {
	Code   string
	Record *VerificationRecord
}

// VerificationResult carries whatever the purpose needs after a successful check.
type VerificationResult struct {
	RecordID         ulid.ULID
	SubjectUserID    *int64
	AssociatedPlanID *int64
}

// VerificationStore persists verification records. Implementations must make
// every method atomic with respect to concurrent callers on the same key.
type VerificationStore interface {
	// Create stores a new record
	Create(ctx context.Context, record *VerificationRecord) error

	// FindActive returns the most recently created unconsumed, unexpired record
	// for the key, or ErrVerificationNotFound
	FindActive(ctx context.Context, purpose Purpose, subject SubjectKey, now time.Time) (*VerificationRecord, error)

	// IncrementAttempts bumps the attempt counter and returns the new value
	IncrementAttempts(ctx context.Context, id ulid.ULID) (int, error)

	// MarkConsumed flips consumed and reports whether this call did it
	MarkConsumed(ctx context.Context, id ulid.ULID) (bool, error)

	// InvalidateAllActive consumes every unconsumed record for the key
	InvalidateAllActive(ctx context.Context, purpose Purpose, subject SubjectKey) (int64, error)

	// DeleteExpired removes records that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// WithinSubjectLock runs fn in one unit of work that excludes other
	// writers for the same key until fn returns
	WithinSubjectLock(ctx context.Context, purpose Purpose, subject SubjectKey, fn func(store VerificationStore) error) error
}

// CodeGenerator produces plaintext one-time codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// CodeHasher is a one-way hash with a constant-time comparison.
type CodeHasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) (bool, error)
}
