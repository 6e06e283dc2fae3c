package domain

import (
	"errors"
	"fmt"
)

// Error is implemented by every error the HTTP layer may render to a client.
type Error interface {
	error
	GetCode() string
	GetMessage() string
}

// BusinessError is a user-facing error with a stable reason code.
type BusinessError struct {
	Code    string
	Message string
}

func NewBusinessError(code, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}

func (e *BusinessError) Error() string {
	return e.Message
}

func (e *BusinessError) GetCode() string {
	return e.Code
}

func (e *BusinessError) GetMessage() string {
	return e.Message
}

var (
	// Verification engine outcomes
	ErrCodeInvalidOrExpired = NewBusinessError("CODE_INVALID_OR_EXPIRED", "Invalid or expired code. Request a new code.")
	ErrAttemptsExhausted    = NewBusinessError("ATTEMPTS_EXHAUSTED", "Maximum number of attempts exceeded. Request a new code.")
	ErrCodeIncorrect        = NewBusinessError("CODE_INCORRECT", "Incorrect code.")

	// Registration pre-checks
	ErrEmailAlreadyRegistered = NewBusinessError("EMAIL_ALREADY_REGISTERED", "This email is already registered. Sign in or recover your password.")
	ErrPlanNotFound           = NewBusinessError("PLAN_NOT_FOUND", "The selected plan does not exist or is not active.")

	ErrInvalidField = NewBusinessError("INVALID_FIELD", "Invalid input data")
	ErrUnauthorized = NewBusinessError("UNAUTHORIZED", "Unauthorized")
	ErrForbidden    = NewBusinessError("FORBIDDEN", "Forbidden")
	ErrInternal     = NewBusinessError("INTERNAL_ERROR", "Error processing the request. Please try again.")
)

var (
	// ErrVerificationNotFound is returned by stores when no active record matches
	ErrVerificationNotFound = errors.New("verification record not found")

	// ErrAccountNotFound is returned when no active account matches an email
	ErrAccountNotFound = errors.New("account not found")

	// ErrMailNotConfigured is returned when SMTP credentials are missing in production
	ErrMailNotConfigured = errors.New("mail transport is not configured")
)

// IncorrectCodeError reports a failed comparison together with how many
// attempts are left. It matches ErrCodeIncorrect under errors.Is.
type IncorrectCodeError struct {
	Remaining int
}

func (e *IncorrectCodeError) Error() string {
	return e.GetMessage()
}

func (e *IncorrectCodeError) GetCode() string {
	return ErrCodeIncorrect.Code
}

func (e *IncorrectCodeError) GetMessage() string {
	if e.Remaining > 0 {
		return fmt.Sprintf("Incorrect code. %d attempts remaining.", e.Remaining)
	}
	return "Incorrect code. No attempts remaining, request a new code."
}

func (e *IncorrectCodeError) Is(target error) bool {
	return target == ErrCodeIncorrect
}

// AsError extracts a renderable domain error, falling back to ErrInternal.
func AsError(err error) Error {
	var domainErr Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return ErrInternal
}
